// Package openrouter provides an OpenRouter chat-completion provider.
package openrouter

import (
	"github.com/vaani-ai/vaani/llm/openaicompat"
)

const (
	// BaseURL is OpenRouter's OpenAI-compatible API root.
	BaseURL = "https://openrouter.ai/api/v1"

	// DefaultModel is the default chat model.
	DefaultModel = "meta-llama/llama-3.3-70b-instruct"
)

// New creates an OpenRouter client. The referer and title identify the
// calling application in OpenRouter's dashboard; empty values skip the
// headers.
func New(apiKey, referer, title string, opts ...openaicompat.Option) *openaicompat.Client {
	base := []openaicompat.Option{
		openaicompat.WithName("openrouter"),
		openaicompat.WithAPIKey(apiKey),
		openaicompat.WithBaseURL(BaseURL),
		openaicompat.WithModel(DefaultModel),
	}
	if referer != "" {
		base = append(base, openaicompat.WithHeader("HTTP-Referer", referer))
	}
	if title != "" {
		base = append(base, openaicompat.WithHeader("X-Title", title))
	}
	return openaicompat.New(append(base, opts...)...)
}
