// Package whisper provides a Groq-hosted Whisper STT provider.
package whisper

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"path/filepath"
	"strings"

	"github.com/vaani-ai/vaani/core"
	"github.com/vaani-ai/vaani/obs"
	"github.com/vaani-ai/vaani/stt"
)

const (
	defaultBaseURL = "https://api.groq.com"
	defaultModel   = "whisper-large-v3-turbo"

	// noSegmentConfidence is reported when the response carries no
	// segment-level log probabilities to derive a confidence from.
	noSegmentConfidence = 0.8
)

// Client is a Whisper STT provider backed by Groq's OpenAI-compatible
// transcription endpoint.
type Client struct {
	apiKey     string
	baseURL    string
	httpClient *http.Client
	model      string
}

// Option configures a Whisper client.
type Option func(*Client)

// WithAPIKey sets the API key.
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

// New creates a new Whisper client.
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
		return nil, core.NewError(core.ErrNotConfigured, "whisper: api key not set")
	}

	model := opts.Model
	if model == "" {
		model = c.model
	}

	ctx, rec := obs.StartRequest(ctx, "stt.whisper.transcribe")
	t, err := c.transcribe(ctx, audio, opts.Filename, model)
	rec.End(err)
	return t, err
}

func (c *Client) transcribe(ctx context.Context, audio []byte, filename, model string) (*stt.Transcript, error) {
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)

	if filename == "" {
		filename = "audio.wav"
	}
	part, err := mw.CreateFormFile("file", filename)
	if err != nil {
		return nil, fmt.Errorf("whisper: create form file: %w", err)
	}
	if _, err := part.Write(audio); err != nil {
		return nil, fmt.Errorf("whisper: write audio: %w", err)
	}
	fields := map[string]string{
		"model":           model,
		"temperature":     "0",
		"response_format": "verbose_json",
	}
	for k, v := range fields {
		if err := mw.WriteField(k, v); err != nil {
			return nil, fmt.Errorf("whisper: write field %s: %w", k, err)
		}
	}
	if err := mw.Close(); err != nil {
		return nil, fmt.Errorf("whisper: close multipart: %w", err)
	}

	reqURL := c.baseURL + "/openai/v1/audio/transcriptions"
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, reqURL, &buf)
	if err != nil {
		return nil, fmt.Errorf("whisper: create request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.apiKey)
	req.Header.Set("Content-Type", mw.FormDataContentType())

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, core.WrapError(fmt.Errorf("whisper: request failed: %w", err), core.ErrTransient)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("whisper: read response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return nil, statusError(resp.StatusCode, body)
	}

	var wr whisperResponse
	if err := json.Unmarshal(body, &wr); err != nil {
		return nil, fmt.Errorf("whisper: parse response: %w", err)
	}

	return &stt.Transcript{
		Text:       strings.TrimSpace(wr.Text),
		Confidence: confidenceFromSegments(wr.Segments),
		Language:   wr.Language,
		Model:      model,
		Provider:   "whisper",
	}, nil
}

// Capabilities implements stt.Provider.
func (c *Client) Capabilities() stt.Capabilities {
	return stt.Capabilities{
		Provider:   "whisper",
		Models:     []string{"whisper-large-v3-turbo", "whisper-large-v3"},
		Languages:  []string{"en", "ta", "hi"},
		Confidence: true,
	}
}

// confidenceFromSegments derives a confidence in [0,1] from segment
// average log probabilities. An avg_logprob near 0 means near-certain;
// strongly negative values mean the model was guessing.
func confidenceFromSegments(segments []whisperSegment) float64 {
	if len(segments) == 0 {
		return noSegmentConfidence
	}
	var sum float64
	for _, s := range segments {
		sum += s.AvgLogprob
	}
	conf := 1 + sum/float64(len(segments))
	if conf < 0 {
		conf = 0
	}
	if conf > 1 {
		conf = 1
	}
	return conf
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
	case status == http.StatusUnauthorized || status == http.StatusBadRequest:
		code = core.ErrBadRequest
	case status >= 500:
		code = core.ErrTransient
	}
	return core.NewError(code, fmt.Sprintf("whisper: %s", msg), core.WithStatus(status))
}

// ContentType maps an audio filename to its MIME type for callers that
// need an explicit content type.
func ContentType(filename string) string {
	switch strings.ToLower(filepath.Ext(filename)) {
	case ".m4a":
		return "audio/mp4"
	case ".mp3":
		return "audio/mpeg"
	case ".wav":
		return "audio/wav"
	case ".webm":
		return "audio/webm"
	case ".ogg":
		return "audio/ogg"
	case ".flac":
		return "audio/flac"
	default:
		return "application/octet-stream"
	}
}

// Groq transcription response types.

type whisperResponse struct {
	Text     string           `json:"text"`
	Language string           `json:"language"`
	Segments []whisperSegment `json:"segments"`
}

type whisperSegment struct {
	Text       string  `json:"text"`
	AvgLogprob float64 `json:"avg_logprob"`
}

type errorResponse struct {
	Error struct {
		Message string `json:"message"`
		Type    string `json:"type"`
	} `json:"error"`
}
