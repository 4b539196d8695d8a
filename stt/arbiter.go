package stt

import (
	"context"
	"time"

	"github.com/rs/zerolog"

	"github.com/vaani-ai/vaani/language"
)

const (
	// MinAudioBytes is the smallest input that can plausibly contain
	// speech (~500ms of compressed audio). Shorter inputs are rejected
	// before any engine runs.
	MinAudioBytes = 3000

	// silence test parameters: byte variance over a fixed window.
	silenceWindowStart = 100
	silenceWindowEnd   = 1100
	silenceVariance    = 50.0

	// highConfidence is the general engine's trust threshold.
	highConfidence = 0.7

	// richerFactor prefers the native engine when its transcript is this
	// much longer than the general engine's.
	richerFactor = 1.3

	defaultEngineTimeout = 30 * time.Second
)

// Arbiter runs two independent transcription engines concurrently on every
// accepted input and picks the better transcript.
//
// The general engine keeps English as English; the native-biased engine
// captures genuine native-language speech but transliterates English into
// native script. Running both every turn and arbitrating afterwards gets the
// best of each.
type Arbiter struct {
	general Provider // engine A: broad STT with confidence
	native  Provider // engine B: native-language-biased STT
	detect  *TransliterationDetector
	timeout time.Duration
	log     zerolog.Logger
}

// ArbiterOption configures an Arbiter.
type ArbiterOption func(*Arbiter)

// WithTransliterationDetector overrides the default Tamil detector.
func WithTransliterationDetector(d *TransliterationDetector) ArbiterOption {
	return func(a *Arbiter) { a.detect = d }
}

// WithEngineTimeout bounds each engine call.
func WithEngineTimeout(d time.Duration) ArbiterOption {
	return func(a *Arbiter) { a.timeout = d }
}

// WithLogger sets the arbiter's logger.
func WithLogger(log zerolog.Logger) ArbiterOption {
	return func(a *Arbiter) { a.log = log }
}

// NewArbiter builds an arbiter over the general and native engines.
func NewArbiter(general, native Provider, opts ...ArbiterOption) *Arbiter {
	a := &Arbiter{
		general: general,
		native:  native,
		detect:  NewTamilTransliterationDetector(),
		timeout: defaultEngineTimeout,
		log:     zerolog.Nop(),
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// Transcribe converts audio to text. It returns "" (with nil error) when the
// input holds no recognizable speech; callers must treat that as "could not
// understand, ask to repeat", never as an empty utterance.
func (a *Arbiter) Transcribe(ctx context.Context, audio []byte, filename string, hint language.Language) (string, error) {
	if skip, reason := a.shouldSkip(audio); skip {
		a.log.Debug().Str("reason", reason).Int("bytes", len(audio)).Msg("transcription skipped")
		return "", nil
	}

	type generalOut struct {
		text string
		conf float64
	}
	generalCh := make(chan generalOut, 1)
	nativeCh := make(chan string, 1)

	// Both engines run unconditionally; failure of one never gates the
	// other's result.
	go func() {
		text, conf := a.runGeneral(ctx, audio, filename)
		generalCh <- generalOut{text: text, conf: conf}
	}()
	go func() {
		nativeCh <- a.runNative(ctx, audio, filename, hint)
	}()

	general := <-generalCh
	native := <-nativeCh

	a.log.Debug().
		Str("general", truncate(general.text, 60)).
		Float64("confidence", general.conf).
		Str("native", truncate(native, 60)).
		Msg("dual-engine results")

	return a.Arbitrate(general.text, general.conf, native), nil
}

// Arbitrate applies the selection policy to a pair of engine results. It is
// a pure function of its inputs; rules are evaluated in order and the first
// match wins:
//
//  1. native output flagged as transliterated English and general produced
//     text: take general
//  2. native output in native script and not transliterated: take native
//  3. general confidence at or above the high threshold: take general
//  4. both produced text and native is >1.3x longer: take native
//  5. whichever produced text, general first
func (a *Arbiter) Arbitrate(generalText string, generalConf float64, nativeText string) string {
	if nativeText != "" && a.detect.IsTransliterated(nativeText) {
		if generalText != "" {
			return generalText
		}
	}

	if nativeText != "" && a.detect.HasScript(nativeText) && !a.detect.IsTransliterated(nativeText) {
		return nativeText
	}

	if generalText != "" && generalConf >= highConfidence {
		return generalText
	}

	if generalText != "" && nativeText != "" {
		if len([]rune(nativeText)) > int(float64(len([]rune(generalText)))*richerFactor) {
			return nativeText
		}
		return generalText
	}

	if generalText != "" {
		return generalText
	}
	return nativeText
}

// runGeneral invokes engine A with one retry on failure. Errors collapse to
// an empty result.
func (a *Arbiter) runGeneral(ctx context.Context, audio []byte, filename string) (string, float64) {
	for attempt := 0; attempt < 2; attempt++ {
		callCtx, cancel := context.WithTimeout(ctx, a.timeout)
		t, err := a.general.Transcribe(callCtx, audio, Options{Filename: filename})
		cancel()
		if err != nil {
			a.log.Warn().Err(err).Int("attempt", attempt).Msg("general engine failed")
			continue
		}
		if t == nil || isFiller(t.Text) {
			return "", 0
		}
		return t.Text, t.Confidence
	}
	return "", 0
}

// runNative invokes engine B once. The language hint tunes the engine, it
// never decides whether the engine runs.
func (a *Arbiter) runNative(ctx context.Context, audio []byte, filename string, hint language.Language) string {
	callCtx, cancel := context.WithTimeout(ctx, a.timeout)
	defer cancel()
	t, err := a.native.Transcribe(callCtx, audio, Options{Filename: filename, Language: hint})
	if err != nil {
		a.log.Warn().Err(err).Msg("native engine failed")
		return ""
	}
	if t == nil || isFiller(t.Text) {
		return ""
	}
	return t.Text
}

// shouldSkip applies the pre-filters that keep obviously speechless audio
// away from paid engines.
func (a *Arbiter) shouldSkip(audio []byte) (bool, string) {
	if len(audio) < MinAudioBytes {
		return true, "too_short"
	}
	if isSilence(audio) {
		return true, "silence"
	}
	return false, ""
}

// isSilence runs a cheap byte-variance test over a fixed window. Real speech
// in any common container format produces byte variance far above the
// threshold; flat or near-flat windows are silence or padding.
func isSilence(audio []byte) bool {
	if len(audio) < silenceWindowEnd {
		return true
	}
	sample := audio[silenceWindowStart:silenceWindowEnd]
	var sum float64
	for _, b := range sample {
		sum += float64(b)
	}
	mean := sum / float64(len(sample))
	var variance float64
	for _, b := range sample {
		d := float64(b) - mean
		variance += d * d
	}
	variance /= float64(len(sample))
	return variance < silenceVariance
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n])
}
