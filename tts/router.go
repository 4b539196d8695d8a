package tts

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/vaani-ai/vaani/language"
	"github.com/vaani-ai/vaani/voicetext"
)

const (
	defaultVoice      = "kavitha"
	defaultSampleRate = 22050
	defaultPace       = 1.0
)

// Router synthesizes speech through a primary provider and falls back to
// per-language alternates when the primary fails. The primary covers every
// conversation language; fallbacks are registered only for languages they
// can actually speak.
type Router struct {
	primary   Provider
	fallbacks map[language.Language]Provider
	voice     string
	log       zerolog.Logger
}

// RouterOption configures a Router.
type RouterOption func(*Router)

// WithFallback registers a fallback provider for one language.
func WithFallback(lang language.Language, p Provider) RouterOption {
	return func(r *Router) { r.fallbacks[lang] = p }
}

// WithVoice overrides the default voice.
func WithVoice(voice string) RouterOption {
	return func(r *Router) { r.voice = voice }
}

// WithLogger sets the router's logger.
func WithLogger(log zerolog.Logger) RouterOption {
	return func(r *Router) { r.log = log }
}

// NewRouter builds a router over the primary provider.
func NewRouter(primary Provider, opts ...RouterOption) *Router {
	r := &Router{
		primary:   primary,
		fallbacks: make(map[language.Language]Provider),
		voice:     defaultVoice,
		log:       zerolog.Nop(),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Speak normalizes text for speech and synthesizes it in the given
// language. Normalization happens once, before any provider runs, so the
// fallback speaks the same prepared text as the primary.
func (r *Router) Speak(ctx context.Context, text string, lang language.Language) (*Audio, error) {
	if !lang.Valid() {
		lang = language.English
	}
	prepared := voicetext.NormalizeForSpeech(text)
	opts := Options{
		Voice:        r.voice,
		LanguageCode: LanguageCode(lang),
		SampleRate:   defaultSampleRate,
		Pace:         defaultPace,
	}

	audio, err := r.primary.Synthesize(ctx, prepared, opts)
	if err == nil {
		return audio, nil
	}
	r.log.Warn().Err(err).Str("language", string(lang)).Msg("primary tts failed")

	fb, ok := r.fallbacks[lang]
	if !ok {
		return nil, fmt.Errorf("tts: synthesis failed with no fallback for %s: %w", lang, err)
	}
	audio, fbErr := fb.Synthesize(ctx, prepared, opts)
	if fbErr != nil {
		return nil, fmt.Errorf("tts: fallback failed after primary: %w", fbErr)
	}
	return audio, nil
}

// LanguageCode maps a conversation language to the BCP-47 code used by
// synthesis providers. Tanglish responses are written in Tamil script, so
// they speak as Tamil.
func LanguageCode(lang language.Language) string {
	switch lang {
	case language.Tamil, language.Tanglish:
		return "ta-IN"
	default:
		return "en-IN"
	}
}
