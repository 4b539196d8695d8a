// Package groq provides a Groq chat-completion provider.
package groq

import (
	"github.com/vaani-ai/vaani/llm/openaicompat"
)

const (
	// BaseURL is Groq's OpenAI-compatible API root.
	BaseURL = "https://api.groq.com/openai/v1"

	// DefaultModel is the default chat model.
	DefaultModel = "llama-3.3-70b-versatile"
)

// New creates a Groq client. Options are applied after the Groq defaults,
// so callers can override the model or HTTP client.
func New(apiKey string, opts ...openaicompat.Option) *openaicompat.Client {
	base := []openaicompat.Option{
		openaicompat.WithName("groq"),
		openaicompat.WithAPIKey(apiKey),
		openaicompat.WithBaseURL(BaseURL),
		openaicompat.WithModel(DefaultModel),
	}
	return openaicompat.New(append(base, opts...)...)
}
