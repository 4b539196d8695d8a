package llm

import (
	"context"
	"strings"

	"github.com/rs/zerolog"

	"github.com/vaani-ai/vaani/core"
)

// Chain tries an ordered list of providers until one succeeds. Any provider
// failure moves to the next link; the providers differ enough (models,
// endpoints, auth) that even a bad request against one can succeed against
// another. Only context cancellation aborts the chain.
//
// Chain itself implements Provider, so chains nest and substitute for a
// single provider anywhere.
type Chain struct {
	providers []Provider
	log       zerolog.Logger
}

// ChainOption configures a Chain.
type ChainOption func(*Chain)

// WithChainLogger sets the chain's logger.
func WithChainLogger(log zerolog.Logger) ChainOption {
	return func(c *Chain) { c.log = log }
}

// NewChain builds a failover chain over providers, tried in order.
func NewChain(providers []Provider, opts ...ChainOption) *Chain {
	c := &Chain{
		providers: providers,
		log:       zerolog.Nop(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Generate implements Provider.
func (c *Chain) Generate(ctx context.Context, req core.Request) (*core.TextResult, error) {
	if len(c.providers) == 0 {
		return nil, core.NewError(core.ErrNotConfigured, "llm: chain has no providers")
	}

	var lastErr error
	for _, p := range c.providers {
		result, err := p.Generate(ctx, req)
		if err == nil {
			return result, nil
		}
		lastErr = err

		if ctx.Err() != nil {
			return nil, core.WrapError(ctx.Err(), core.ErrCanceled)
		}
		c.log.Warn().Err(err).
			Str("provider", p.Capabilities().Provider).
			Msg("provider failed, trying next")
	}
	return nil, lastErr
}

// Capabilities implements Provider. The chain reports the union of its
// links' models under a composite provider name.
func (c *Chain) Capabilities() core.Capabilities {
	names := make([]string, 0, len(c.providers))
	var models []string
	local := true
	for _, p := range c.providers {
		caps := p.Capabilities()
		names = append(names, caps.Provider)
		models = append(models, caps.Models...)
		local = local && caps.Local
	}
	return core.Capabilities{
		Provider: "chain(" + strings.Join(names, ",") + ")",
		Models:   models,
		Local:    local,
	}
}
