// Package ollama provides a chat-completion provider backed by a local
// Ollama instance. It is the last link of the failover chain: no API key,
// no rate limits, degraded quality.
package ollama

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/vaani-ai/vaani/core"
	"github.com/vaani-ai/vaani/obs"
)

const (
	defaultHost  = "http://localhost:11434"
	defaultModel = "llama3.2"
)

// Client is an Ollama chat provider.
type Client struct {
	host       string
	httpClient *http.Client
	model      string
}

// Option configures an Ollama client.
type Option func(*Client)

// WithHost sets the Ollama server address.
func WithHost(host string) Option {
	return func(c *Client) {
		c.host = strings.TrimSuffix(host, "/")
	}
}

// WithHTTPClient sets the HTTP client.
func WithHTTPClient(client *http.Client) Option {
	return func(c *Client) {
		c.httpClient = client
	}
}

// WithModel sets the default model.
func WithModel(model string) Option {
	return func(c *Client) {
		c.model = model
	}
}

// New creates a new Ollama client.
func New(opts ...Option) *Client {
	c := &Client{
		host:       defaultHost,
		httpClient: http.DefaultClient,
		model:      defaultModel,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Generate implements llm.Provider.
func (c *Client) Generate(ctx context.Context, req core.Request) (*core.TextResult, error) {
	model := req.Model
	if model == "" {
		model = c.model
	}

	payload := chatRequest{
		Model:    model,
		Messages: toWireMessages(req.Messages),
		Stream:   false,
		Options: chatOptions{
			Temperature: req.Temperature,
			TopP:        req.TopP,
			NumPredict:  req.MaxTokens,
			Stop:        req.Stop,
		},
	}
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("ollama: marshal request: %w", err)
	}

	ctx, rec := obs.StartRequest(ctx, "llm.ollama.generate")
	result, err := c.complete(ctx, body)
	rec.End(err)
	return result, err
}

func (c *Client) complete(ctx context.Context, body []byte) (*core.TextResult, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.host+"/api/chat", bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("ollama: create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, core.WrapError(fmt.Errorf("ollama: request failed: %w", err), core.ErrTransient)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("ollama: read response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		code := core.ErrProviderError
		if resp.StatusCode >= 500 {
			code = core.ErrTransient
		}
		return nil, core.NewError(code,
			fmt.Sprintf("ollama: unexpected status %d: %s", resp.StatusCode, strings.TrimSpace(string(respBody))),
			core.WithStatus(resp.StatusCode))
	}

	var cr chatResponse
	if err := json.Unmarshal(respBody, &cr); err != nil {
		return nil, fmt.Errorf("ollama: parse response: %w", err)
	}

	return &core.TextResult{
		Text:     strings.TrimSpace(cr.Message.Content),
		Model:    cr.Model,
		Provider: "ollama",
		Usage: core.Usage{
			InputTokens:  cr.PromptEvalCount,
			OutputTokens: cr.EvalCount,
			TotalTokens:  cr.PromptEvalCount + cr.EvalCount,
		},
	}, nil
}

// Capabilities implements llm.Provider.
func (c *Client) Capabilities() core.Capabilities {
	return core.Capabilities{
		Provider: "ollama",
		Models:   []string{c.model},
		Local:    true,
	}
}

func toWireMessages(msgs []core.Message) []wireMessage {
	out := make([]wireMessage, len(msgs))
	for i, m := range msgs {
		out[i] = wireMessage{Role: string(m.Role), Content: m.Content}
	}
	return out
}

// Ollama wire types.

type chatRequest struct {
	Model    string        `json:"model"`
	Messages []wireMessage `json:"messages"`
	Stream   bool          `json:"stream"`
	Options  chatOptions   `json:"options"`
}

type chatOptions struct {
	Temperature float32  `json:"temperature,omitempty"`
	TopP        float32  `json:"top_p,omitempty"`
	NumPredict  int      `json:"num_predict,omitempty"`
	Stop        []string `json:"stop,omitempty"`
}

type wireMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatResponse struct {
	Model           string      `json:"model"`
	Message         wireMessage `json:"message"`
	Done            bool        `json:"done"`
	PromptEvalCount int         `json:"prompt_eval_count"`
	EvalCount       int         `json:"eval_count"`
}
