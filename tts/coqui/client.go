// Package coqui provides a TTS provider backed by a locally running
// Coqui tts-server instance. It only speaks English and exists as an
// offline fallback when the hosted provider is unreachable.
package coqui

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"github.com/vaani-ai/vaani/core"
	"github.com/vaani-ai/vaani/tts"
)

const defaultBaseURL = "http://localhost:5002"

// Client is a local Coqui TTS provider.
type Client struct {
	baseURL    string
	httpClient *http.Client
}

// Option configures a Coqui client.
type Option func(*Client)

// WithBaseURL sets the tts-server address.
func WithBaseURL(u string) Option {
	return func(c *Client) {
		c.baseURL = strings.TrimSuffix(u, "/")
	}
}

// WithHTTPClient sets the HTTP client.
func WithHTTPClient(client *http.Client) Option {
	return func(c *Client) {
		c.httpClient = client
	}
}

// New creates a new Coqui client.
func New(opts ...Option) *Client {
	c := &Client{
		baseURL:    defaultBaseURL,
		httpClient: http.DefaultClient,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Synthesize implements tts.Provider.
func (c *Client) Synthesize(ctx context.Context, text string, opts tts.Options) (*tts.Audio, error) {
	if strings.TrimSpace(text) == "" {
		return nil, core.NewError(core.ErrBadRequest, "coqui: empty text")
	}
	if opts.LanguageCode != "" && !strings.HasPrefix(opts.LanguageCode, "en") {
		return nil, core.NewError(core.ErrBadRequest,
			fmt.Sprintf("coqui: unsupported language %s", opts.LanguageCode))
	}

	q := url.Values{}
	q.Set("text", text)
	reqURL := c.baseURL + "/api/tts?" + q.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, fmt.Errorf("coqui: create request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, core.WrapError(fmt.Errorf("coqui: request failed: %w", err), core.ErrTransient)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		return nil, core.NewError(core.ErrProviderError,
			fmt.Sprintf("coqui: unexpected status %d: %s", resp.StatusCode, strings.TrimSpace(string(body))),
			core.WithStatus(resp.StatusCode))
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("coqui: read audio: %w", err)
	}

	return &tts.Audio{
		Data:       data,
		Format:     "wav",
		SampleRate: opts.SampleRate,
		Voice:      opts.Voice,
		Provider:   "coqui",
	}, nil
}

// Capabilities implements tts.Provider.
func (c *Client) Capabilities() tts.Capabilities {
	return tts.Capabilities{
		Provider:  "coqui",
		Languages: []string{"en"},
		Local:     true,
	}
}
