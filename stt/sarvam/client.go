// Package sarvam provides a Sarvam AI STT provider tuned for Indian
// languages.
package sarvam

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"strings"

	"github.com/vaani-ai/vaani/core"
	"github.com/vaani-ai/vaani/language"
	"github.com/vaani-ai/vaani/obs"
	"github.com/vaani-ai/vaani/stt"
)

const (
	defaultBaseURL = "https://api.sarvam.ai"
	defaultModel   = "saaras:v3"

	// nativeConfidence is reported for every transcript; the API does not
	// expose per-utterance confidence.
	nativeConfidence = 0.6
)

// Client is a Sarvam STT provider.
type Client struct {
	apiKey     string
	baseURL    string
	httpClient *http.Client
	model      string
}

// Option configures a Sarvam client.
type Option func(*Client)

// WithAPIKey sets the API subscription key.
func WithAPIKey(key string) Option {
	return func(c *Client) {
		c.apiKey = key
	}
}

// WithBaseURL sets the base URL.
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

// New creates a new Sarvam client.
func New(opts ...Option) *Client {
	c := &Client{
		baseURL:    defaultBaseURL,
		httpClient: http.DefaultClient,
		model:      defaultModel,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Transcribe implements stt.Provider.
func (c *Client) Transcribe(ctx context.Context, audio []byte, opts stt.Options) (*stt.Transcript, error) {
	if c.apiKey == "" {
		return nil, core.NewError(core.ErrNotConfigured, "sarvam: api key not set")
	}

	model := opts.Model
	if model == "" {
		model = c.model
	}

	ctx, rec := obs.StartRequest(ctx, "stt.sarvam.transcribe")
	t, err := c.transcribe(ctx, audio, opts.Filename, model, languageCode(opts.Language))
	rec.End(err)
	return t, err
}

func (c *Client) transcribe(ctx context.Context, audio []byte, filename, model, langCode string) (*stt.Transcript, error) {
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)

	if filename == "" {
		filename = "audio.wav"
	}
	part, err := mw.CreateFormFile("file", filename)
	if err != nil {
		return nil, fmt.Errorf("sarvam: create form file: %w", err)
	}
	if _, err := part.Write(audio); err != nil {
		return nil, fmt.Errorf("sarvam: write audio: %w", err)
	}
	if err := mw.WriteField("model", model); err != nil {
		return nil, fmt.Errorf("sarvam: write field model: %w", err)
	}
	if err := mw.WriteField("language_code", langCode); err != nil {
		return nil, fmt.Errorf("sarvam: write field language_code: %w", err)
	}
	if err := mw.Close(); err != nil {
		return nil, fmt.Errorf("sarvam: close multipart: %w", err)
	}

	reqURL := c.baseURL + "/speech-to-text"
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, reqURL, &buf)
	if err != nil {
		return nil, fmt.Errorf("sarvam: create request: %w", err)
	}
	req.Header.Set("api-subscription-key", c.apiKey)
	req.Header.Set("Content-Type", mw.FormDataContentType())

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, core.WrapError(fmt.Errorf("sarvam: request failed: %w", err), core.ErrTransient)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("sarvam: read response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return nil, statusError(resp.StatusCode, body)
	}

	var sr sarvamResponse
	if err := json.Unmarshal(body, &sr); err != nil {
		return nil, fmt.Errorf("sarvam: parse response: %w", err)
	}

	return &stt.Transcript{
		Text:       strings.TrimSpace(sr.Transcript),
		Confidence: nativeConfidence,
		Language:   sr.LanguageCode,
		Model:      model,
		Provider:   "sarvam",
	}, nil
}

// Capabilities implements stt.Provider.
func (c *Client) Capabilities() stt.Capabilities {
	return stt.Capabilities{
		Provider:   "sarvam",
		Models:     []string{"saaras:v3", "saaras:v2.5"},
		Languages:  []string{"en-IN", "ta-IN", "hi-IN", "te-IN", "kn-IN", "ml-IN"},
		Confidence: false,
	}
}

// languageCode maps a conversation language to Sarvam's BCP-47 codes.
// An unrecognized language lets the API auto-detect.
func languageCode(lang language.Language) string {
	switch lang {
	case language.Tamil, language.Tanglish:
		return "ta-IN"
	case language.English:
		return "en-IN"
	default:
		return "unknown"
	}
}

func statusError(status int, body []byte) error {
	var er errorResponse
	msg := strings.TrimSpace(string(body))
	if json.Unmarshal(body, &er) == nil && er.Error.Message != "" {
		msg = er.Error.Message
	}
	code := core.ErrProviderError
	switch {
	case status == http.StatusTooManyRequests:
		code = core.ErrRateLimited
	case status == http.StatusUnauthorized || status == http.StatusForbidden || status == http.StatusBadRequest:
		code = core.ErrBadRequest
	case status >= 500:
		code = core.ErrTransient
	}
	return core.NewError(code, fmt.Sprintf("sarvam: %s", msg), core.WithStatus(status))
}

// Sarvam API response types.

type sarvamResponse struct {
	RequestID    string `json:"request_id"`
	Transcript   string `json:"transcript"`
	LanguageCode string `json:"language_code"`
}

type errorResponse struct {
	Error struct {
		Message string `json:"message"`
		Code    string `json:"code"`
	} `json:"error"`
}
