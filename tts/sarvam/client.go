// Package sarvam provides a Sarvam AI TTS provider.
package sarvam

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/vaani-ai/vaani/core"
	"github.com/vaani-ai/vaani/obs"
	"github.com/vaani-ai/vaani/tts"
)

const (
	defaultBaseURL    = "https://api.sarvam.ai"
	defaultModel      = "bulbul:v3"
	defaultVoice      = "kavitha"
	defaultSampleRate = 22050
	defaultPace       = 1.0
)

// Client is a Sarvam TTS provider.
type Client struct {
	apiKey     string
	baseURL    string
	httpClient *http.Client
	model      string
}

// Option configures a Sarvam TTS client.
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

// WithModel sets the synthesis model.
func WithModel(model string) Option {
	return func(c *Client) {
		c.model = model
	}
}

// New creates a new Sarvam TTS client.
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

// Synthesize implements tts.Provider.
func (c *Client) Synthesize(ctx context.Context, text string, opts tts.Options) (*tts.Audio, error) {
	if c.apiKey == "" {
		return nil, core.NewError(core.ErrNotConfigured, "sarvam tts: api key not set")
	}
	if strings.TrimSpace(text) == "" {
		return nil, core.NewError(core.ErrBadRequest, "sarvam tts: empty text")
	}

	voice := opts.Voice
	if voice == "" {
		voice = defaultVoice
	}
	langCode := opts.LanguageCode
	if langCode == "" {
		langCode = "en-IN"
	}
	sampleRate := opts.SampleRate
	if sampleRate == 0 {
		sampleRate = defaultSampleRate
	}
	pace := opts.Pace
	if pace == 0 {
		pace = defaultPace
	}

	payload := synthesisRequest{
		Inputs:              []string{text},
		TargetLanguageCode:  langCode,
		Speaker:             voice,
		Model:               c.model,
		Pace:                pace,
		SpeechSampleRate:    sampleRate,
		EnablePreprocessing: true,
	}
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("sarvam tts: marshal request: %w", err)
	}

	ctx, rec := obs.StartRequest(ctx, "tts.sarvam.synthesize")
	audio, err := c.synthesize(ctx, body, voice, sampleRate)
	rec.End(err)
	return audio, err
}

func (c *Client) synthesize(ctx context.Context, body []byte, voice string, sampleRate int) (*tts.Audio, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/text-to-speech", bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("sarvam tts: create request: %w", err)
	}
	req.Header.Set("api-subscription-key", c.apiKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, core.WrapError(fmt.Errorf("sarvam tts: request failed: %w", err), core.ErrTransient)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("sarvam tts: read response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		code := core.ErrProviderError
		switch {
		case resp.StatusCode == http.StatusTooManyRequests:
			code = core.ErrRateLimited
		case resp.StatusCode >= 500:
			code = core.ErrTransient
		}
		return nil, core.NewError(code,
			fmt.Sprintf("sarvam tts: unexpected status %d: %s", resp.StatusCode, strings.TrimSpace(string(respBody))),
			core.WithStatus(resp.StatusCode))
	}

	var sr synthesisResponse
	if err := json.Unmarshal(respBody, &sr); err != nil {
		return nil, fmt.Errorf("sarvam tts: parse response: %w", err)
	}
	if len(sr.Audios) == 0 {
		return nil, core.NewError(core.ErrProviderError, "sarvam tts: response contained no audio")
	}

	data, err := base64.StdEncoding.DecodeString(sr.Audios[0])
	if err != nil {
		return nil, fmt.Errorf("sarvam tts: decode audio: %w", err)
	}

	return &tts.Audio{
		Data:       data,
		Format:     "wav",
		SampleRate: sampleRate,
		Voice:      voice,
		Provider:   "sarvam",
	}, nil
}

// Capabilities implements tts.Provider.
func (c *Client) Capabilities() tts.Capabilities {
	return tts.Capabilities{
		Provider:  "sarvam",
		Voices:    []string{"kavitha", "anushka", "abhilash", "manisha"},
		Languages: []string{"en-IN", "ta-IN", "hi-IN", "te-IN", "kn-IN", "ml-IN"},
		Local:     false,
	}
}

type synthesisRequest struct {
	Inputs              []string `json:"inputs"`
	TargetLanguageCode  string   `json:"target_language_code"`
	Speaker             string   `json:"speaker"`
	Model               string   `json:"model"`
	Pace                float64  `json:"pace"`
	SpeechSampleRate    int      `json:"speech_sample_rate"`
	EnablePreprocessing bool     `json:"enable_preprocessing"`
}

type synthesisResponse struct {
	RequestID string   `json:"request_id"`
	Audios    []string `json:"audios"`
}
