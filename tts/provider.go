// Package tts provides text-to-speech provider interfaces and routing.
package tts

import "context"

// Provider is the interface for text-to-speech providers.
type Provider interface {
	// Synthesize converts text to audio.
	Synthesize(ctx context.Context, text string, opts Options) (*Audio, error)

	// Capabilities returns the provider's capabilities.
	Capabilities() Capabilities
}

// Options configures a synthesis request.
type Options struct {
	Voice        string  // Voice identifier (e.g. "kavitha")
	LanguageCode string  // BCP-47 target language (e.g. "ta-IN")
	SampleRate   int     // Sample rate in Hz (0 uses default)
	Pace         float64 // Speech speed multiplier (0 uses default)
}

// Audio represents synthesized audio.
type Audio struct {
	Data       []byte // Audio bytes
	Format     string // Container format (e.g. "wav")
	SampleRate int    // Sample rate in Hz
	Voice      string // Voice used
	Provider   string // Provider used
}

// Capabilities describes the features supported by a TTS provider.
type Capabilities struct {
	Provider  string   // Provider identifier (e.g. "sarvam")
	Voices    []string // Available voice identifiers
	Languages []string // Supported language codes
	Local     bool     // Runs without external API access
}
