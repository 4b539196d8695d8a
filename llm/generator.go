package llm

import (
	"context"
	"time"

	"github.com/rs/zerolog"

	"github.com/vaani-ai/vaani/core"
	"github.com/vaani-ai/vaani/language"
	"github.com/vaani-ai/vaani/prompts"
	"github.com/vaani-ai/vaani/voicetext"
)

const (
	defaultTemperature   = 0.9
	defaultTopP          = 0.85
	defaultMaxTokens     = 200
	defaultHistoryWindow = 8
	defaultReplyTimeout  = 120 * time.Second
)

// defaultStop cuts generations that drift out of conversational register:
// blank-line paragraph breaks, self-Q&A, and footnote habits.
var defaultStop = []string{"\n\n", "Q:", "Note:", "Additionally"}

// Generator turns conversation state into a voice-ready assistant reply.
// Reply never fails: when every provider in the chain is down it returns a
// spoken apology in the caller's language, so the orchestrator always has
// something to say.
type Generator struct {
	provider      Provider
	temperature   float32
	topP          float32
	maxTokens     int
	historyWindow int
	timeout       time.Duration
	log           zerolog.Logger
}

// GeneratorOption configures a Generator.
type GeneratorOption func(*Generator)

// WithHistoryWindow bounds how many trailing history messages accompany
// each request.
func WithHistoryWindow(n int) GeneratorOption {
	return func(g *Generator) { g.historyWindow = n }
}

// WithReplyTimeout bounds a full reply attempt across the whole chain.
func WithReplyTimeout(d time.Duration) GeneratorOption {
	return func(g *Generator) { g.timeout = d }
}

// WithGeneratorLogger sets the generator's logger.
func WithGeneratorLogger(log zerolog.Logger) GeneratorOption {
	return func(g *Generator) { g.log = log }
}

// NewGenerator builds a generator over the given provider (usually a
// Chain).
func NewGenerator(provider Provider, opts ...GeneratorOption) *Generator {
	g := &Generator{
		provider:      provider,
		temperature:   defaultTemperature,
		topP:          defaultTopP,
		maxTokens:     defaultMaxTokens,
		historyWindow: defaultHistoryWindow,
		timeout:       defaultReplyTimeout,
		log:           zerolog.Nop(),
	}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

// Input carries everything one reply depends on.
type Input struct {
	Language        language.Language
	CampaignContext string
	FAQContext      string
	History         []core.Message // prior turns, oldest first, no system message
	UserText        string
	FirstTurn       bool
}

// Reply generates the assistant's next utterance, cleaned for speech.
func (g *Generator) Reply(ctx context.Context, in Input) string {
	ctx, cancel := context.WithTimeout(ctx, g.timeout)
	defer cancel()

	system := prompts.System(prompts.Spec{
		Language:        in.Language,
		CampaignContext: in.CampaignContext,
		FAQContext:      in.FAQContext,
		FirstTurn:       in.FirstTurn,
	})

	history := in.History
	if len(history) > g.historyWindow {
		history = history[len(history)-g.historyWindow:]
	}

	messages := make([]core.Message, 0, len(history)+2)
	messages = append(messages, core.SystemMessage(system))
	messages = append(messages, history...)
	messages = append(messages, core.UserMessage(in.UserText))

	result, err := g.provider.Generate(ctx, core.Request{
		Messages:    messages,
		Temperature: g.temperature,
		TopP:        g.topP,
		MaxTokens:   g.maxTokens,
		Stop:        defaultStop,
	})
	if err != nil {
		g.log.Error().Err(err).Str("language", string(in.Language)).Msg("all providers failed")
		return prompts.Apology(in.Language)
	}

	cleaned := voicetext.CleanForVoice(result.Text)
	if cleaned == "" {
		g.log.Warn().Str("raw", result.Text).Msg("generation cleaned to empty")
		return prompts.Apology(in.Language)
	}
	return cleaned
}
