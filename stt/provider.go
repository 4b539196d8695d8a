// Package stt provides speech-to-text provider interfaces and the
// dual-engine arbiter that picks the best transcript per turn.
package stt

import (
	"context"
	"strings"

	"github.com/vaani-ai/vaani/language"
)

// Provider is the interface for speech-to-text engines.
type Provider interface {
	// Transcribe converts audio bytes to text. Engines without confidence
	// reporting leave Transcript.Confidence at zero.
	Transcribe(ctx context.Context, audio []byte, opts Options) (*Transcript, error)

	// Capabilities returns the provider's capabilities.
	Capabilities() Capabilities
}

// Options configures a transcription request.
type Options struct {
	Filename string            // Original filename, used for content-type detection
	Language language.Language // Language hint; engines may ignore it
	Model    string            // Model override
}

// Transcript is a transcription result.
type Transcript struct {
	Text       string  // Transcribed text
	Confidence float64 // Overall confidence in [0,1]; 0 when unreported
	Language   string  // Language code reported by the engine
	Model      string  // Model used
	Provider   string  // Provider used
}

// Capabilities describes an STT engine.
type Capabilities struct {
	Provider   string   // Provider identifier (e.g. "whisper-groq")
	Models     []string // Available models
	Languages  []string // Supported language codes
	Confidence bool     // Reports per-transcript confidence
}

// Filler outputs engines emit for silence or breath noise. A transcript
// consisting solely of one of these is treated as no result.
var fillerOutputs = map[string]struct{}{
	"":          {},
	"you":       {},
	"thank you": {},
	"thanks":    {},
}

// isFiller reports whether text is engine filler rather than speech.
func isFiller(text string) bool {
	_, ok := fillerOutputs[strings.ToLower(strings.TrimSpace(text))]
	return ok
}
