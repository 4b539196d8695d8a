// Package llm defines the chat-completion provider interface and the
// failover chain used to generate conversation responses.
package llm

import (
	"context"

	"github.com/vaani-ai/vaani/core"
)

// Provider is the interface for chat-completion providers.
type Provider interface {
	// Generate produces a single completion for the request.
	Generate(ctx context.Context, req core.Request) (*core.TextResult, error)

	// Capabilities returns the provider's capabilities.
	Capabilities() core.Capabilities
}
