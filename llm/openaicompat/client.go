// Package openaicompat provides a chat-completion client for any
// OpenAI-compatible API. Hosted providers exposing the same wire format
// wrap this client with their own base URL, model, and headers.
package openaicompat

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

// Client talks to an OpenAI-compatible chat completions endpoint.
type Client struct {
	name       string
	apiKey     string
	baseURL    string
	httpClient *http.Client
	model      string
	headers    map[string]string
}

// Option configures a Client.
type Option func(*Client)

// WithName sets the provider name used in results and errors.
func WithName(name string) Option {
	return func(c *Client) {
		c.name = name
	}
}

// WithAPIKey sets the API key.
func WithAPIKey(key string) Option {
	return func(c *Client) {
		c.apiKey = key
	}
}

// WithBaseURL sets the base URL, e.g. "https://api.groq.com/openai/v1".
func WithBaseURL(url string) Option {
	return func(c *Client) {
		c.baseURL = strings.TrimSuffix(url, "/")
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

// WithHeader adds a custom header to every request.
func WithHeader(key, value string) Option {
	return func(c *Client) {
		if c.headers == nil {
			c.headers = make(map[string]string)
		}
		c.headers[key] = value
	}
}

// New creates a new OpenAI-compatible client.
func New(opts ...Option) *Client {
	c := &Client{
		name:       "openai-compat",
		baseURL:    "https://api.openai.com/v1",
		httpClient: http.DefaultClient,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Generate implements llm.Provider.
func (c *Client) Generate(ctx context.Context, req core.Request) (*core.TextResult, error) {
	if c.apiKey == "" {
		return nil, core.NewError(core.ErrNotConfigured, c.name+": api key not set")
	}

	model := req.Model
	if model == "" {
		model = c.model
	}

	payload := chatRequest{
		Model:       model,
		Messages:    toWireMessages(req.Messages),
		Temperature: req.Temperature,
		TopP:        req.TopP,
		MaxTokens:   req.MaxTokens,
		Stop:        req.Stop,
	}
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("%s: marshal request: %w", c.name, err)
	}

	ctx, rec := obs.StartRequest(ctx, "llm."+c.name+".generate")
	result, err := c.complete(ctx, body, model)
	rec.End(err)
	return result, err
}

func (c *Client) complete(ctx context.Context, body []byte, model string) (*core.TextResult, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/chat/completions", bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("%s: create request: %w", c.name, err)
	}
	req.Header.Set("Authorization", "Bearer "+c.apiKey)
	req.Header.Set("Content-Type", "application/json")
	for k, v := range c.headers {
		req.Header.Set(k, v)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, core.WrapError(fmt.Errorf("%s: request failed: %w", c.name, err), core.ErrTransient)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("%s: read response: %w", c.name, err)
	}

	if resp.StatusCode != http.StatusOK {
		return nil, c.statusError(resp.StatusCode, respBody)
	}

	var cr chatResponse
	if err := json.Unmarshal(respBody, &cr); err != nil {
		return nil, fmt.Errorf("%s: parse response: %w", c.name, err)
	}
	if len(cr.Choices) == 0 {
		return nil, core.NewError(core.ErrProviderError, c.name+": response contained no choices")
	}

	return &core.TextResult{
		Text:     strings.TrimSpace(cr.Choices[0].Message.Content),
		Model:    cr.Model,
		Provider: c.name,
		Usage: core.Usage{
			InputTokens:  cr.Usage.PromptTokens,
			OutputTokens: cr.Usage.CompletionTokens,
			TotalTokens:  cr.Usage.TotalTokens,
		},
	}, nil
}

// Capabilities implements llm.Provider.
func (c *Client) Capabilities() core.Capabilities {
	return core.Capabilities{
		Provider: c.name,
		Models:   []string{c.model},
		Local:    false,
	}
}

func (c *Client) statusError(status int, body []byte) error {
	var er errorResponse
	msg := strings.TrimSpace(string(body))
	if json.Unmarshal(body, &er) == nil && er.Error.Message != "" {
		msg = er.Error.Message
	}
	code := core.ErrProviderError
	switch {
	case status == http.StatusTooManyRequests:
		code = core.ErrRateLimited
	case status == http.StatusBadRequest || status == http.StatusNotFound:
		code = core.ErrBadRequest
	case status >= 500:
		code = core.ErrTransient
	}
	return core.NewError(code, fmt.Sprintf("%s: %s", c.name, msg), core.WithStatus(status))
}

func toWireMessages(msgs []core.Message) []wireMessage {
	out := make([]wireMessage, len(msgs))
	for i, m := range msgs {
		out[i] = wireMessage{Role: string(m.Role), Content: m.Content}
	}
	return out
}

// OpenAI-compatible wire types.

type chatRequest struct {
	Model       string        `json:"model"`
	Messages    []wireMessage `json:"messages"`
	Temperature float32       `json:"temperature,omitempty"`
	TopP        float32       `json:"top_p,omitempty"`
	MaxTokens   int           `json:"max_tokens,omitempty"`
	Stop        []string      `json:"stop,omitempty"`
}

type wireMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatResponse struct {
	Model   string `json:"model"`
	Choices []struct {
		Message      wireMessage `json:"message"`
		FinishReason string      `json:"finish_reason"`
	} `json:"choices"`
	Usage struct {
		PromptTokens     int `json:"prompt_tokens"`
		CompletionTokens int `json:"completion_tokens"`
		TotalTokens      int `json:"total_tokens"`
	} `json:"usage"`
}

type errorResponse struct {
	Error struct {
		Message string `json:"message"`
		Type    string `json:"type"`
	} `json:"error"`
}
