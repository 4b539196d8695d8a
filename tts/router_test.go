package tts

import (
	"context"
	"errors"
	"testing"

	"github.com/vaani-ai/vaani/language"
)

// fakeVoice records synthesis requests.
type fakeVoice struct {
	name  string
	err   error
	calls []Options
	texts []string
}

func (f *fakeVoice) Synthesize(ctx context.Context, text string, opts Options) (*Audio, error) {
	f.calls = append(f.calls, opts)
	f.texts = append(f.texts, text)
	if f.err != nil {
		return nil, f.err
	}
	return &Audio{Data: []byte(f.name + ":" + text), Provider: f.name}, nil
}

func (f *fakeVoice) Capabilities() Capabilities {
	return Capabilities{Provider: f.name}
}

func TestRouterPrimary(t *testing.T) {
	primary := &fakeVoice{name: "primary"}
	r := NewRouter(primary)

	audio, err := r.Speak(context.Background(), "Hello there.", language.English)
	if err != nil {
		t.Fatalf("Speak error: %v", err)
	}
	if audio.Provider != "primary" {
		t.Fatalf("provider = %q", audio.Provider)
	}
	if got := primary.calls[0].LanguageCode; got != "en-IN" {
		t.Fatalf("language code = %q", got)
	}
	if primary.calls[0].Voice != "kavitha" || primary.calls[0].SampleRate != 22050 {
		t.Fatalf("opts = %+v", primary.calls[0])
	}
}

func TestRouterTamilCodes(t *testing.T) {
	primary := &fakeVoice{name: "primary"}
	r := NewRouter(primary)

	for _, lang := range []language.Language{language.Tamil, language.Tanglish} {
		if _, err := r.Speak(context.Background(), "வணக்கம்.", lang); err != nil {
			t.Fatalf("Speak(%s) error: %v", lang, err)
		}
	}
	for _, call := range primary.calls {
		if call.LanguageCode != "ta-IN" {
			t.Fatalf("language code = %q, want ta-IN", call.LanguageCode)
		}
	}
}

func TestRouterFallbackOnlyForRegisteredLanguage(t *testing.T) {
	primary := &fakeVoice{name: "primary", err: errors.New("upstream down")}
	fallback := &fakeVoice{name: "local"}
	r := NewRouter(primary, WithFallback(language.English, fallback))

	audio, err := r.Speak(context.Background(), "Hello.", language.English)
	if err != nil {
		t.Fatalf("Speak error: %v", err)
	}
	if audio.Provider != "local" {
		t.Fatalf("provider = %q, want fallback", audio.Provider)
	}

	// Tamil has no fallback registered: the failure surfaces.
	if _, err := r.Speak(context.Background(), "வணக்கம்.", language.Tamil); err == nil {
		t.Fatal("want error when primary fails with no fallback")
	}
	if len(fallback.calls) != 1 {
		t.Fatalf("fallback called %d times, want 1", len(fallback.calls))
	}
}

func TestRouterUnknownLanguageSpeaksAsEnglish(t *testing.T) {
	primary := &fakeVoice{name: "primary", err: errors.New("upstream down")}
	fallback := &fakeVoice{name: "local"}
	r := NewRouter(primary, WithFallback(language.English, fallback))

	// A greeting goes out before anything has been classified; it routes
	// like English, including the English fallback.
	audio, err := r.Speak(context.Background(), "Hello.", language.Unknown)
	if err != nil {
		t.Fatalf("Speak error: %v", err)
	}
	if audio.Provider != "local" {
		t.Fatalf("provider = %q, want fallback", audio.Provider)
	}
	if got := primary.calls[0].LanguageCode; got != "en-IN" {
		t.Fatalf("language code = %q", got)
	}
}

func TestRouterNormalizesBeforeSynthesis(t *testing.T) {
	primary := &fakeVoice{name: "primary"}
	r := NewRouter(primary)

	if _, err := r.Speak(context.Background(), "Call 9876543210 now", language.English); err != nil {
		t.Fatalf("Speak error: %v", err)
	}
	if got := primary.texts[0]; got != "Call 987, 654, 3210 now" {
		t.Fatalf("synthesized text = %q, want normalized digits", got)
	}
}

func TestRouterFallbackGetsNormalizedText(t *testing.T) {
	primary := &fakeVoice{name: "primary", err: errors.New("down")}
	fallback := &fakeVoice{name: "local"}
	r := NewRouter(primary, WithFallback(language.English, fallback))

	if _, err := r.Speak(context.Background(), "Call 9876543210 now", language.English); err != nil {
		t.Fatalf("Speak error: %v", err)
	}
	if fallback.texts[0] != primary.texts[0] {
		t.Fatal("fallback must speak the same prepared text as the primary")
	}
}

func TestLanguageCode(t *testing.T) {
	if LanguageCode(language.Tamil) != "ta-IN" || LanguageCode(language.Tanglish) != "ta-IN" {
		t.Fatal("Tamil and Tanglish should map to ta-IN")
	}
	if LanguageCode(language.English) != "en-IN" {
		t.Fatal("English should map to en-IN")
	}
	if LanguageCode(language.Language("other")) != "en-IN" {
		t.Fatal("unknown languages should default to en-IN")
	}
}
