package language

import (
	"strings"

	"github.com/abadojack/whatlanggo"
	"github.com/rs/zerolog"
)

// Detector classifies utterances against a Profile.
//
// Classification runs in priority order: native script wins outright, then
// the romanized token ratio, then a statistical identifier. The first two
// steps are deterministic given the profile's pattern list; the statistical
// step never surfaces a failure, it falls back to the profile default.
type Detector struct {
	profile *Profile
	log     zerolog.Logger
}

// DetectorOption configures a Detector.
type DetectorOption func(*Detector)

// WithLogger sets the detector's logger.
func WithLogger(log zerolog.Logger) DetectorOption {
	return func(d *Detector) { d.log = log }
}

// NewDetector builds a detector for the given profile. A nil profile selects
// the Tamil profile.
func NewDetector(profile *Profile, opts ...DetectorOption) *Detector {
	if profile == nil {
		profile = TamilProfile()
	}
	d := &Detector{profile: profile, log: zerolog.Nop()}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// Profile returns the active profile.
func (d *Detector) Profile() *Profile { return d.profile }

// Detect classifies text into one of the profile's language categories.
func (d *Detector) Detect(text string) Language {
	text = strings.TrimSpace(text)
	if text == "" {
		return d.profile.Default
	}

	if d.profile.HasNativeScript(text) {
		return d.profile.Native
	}

	if d.profile.romanizedMatchRatio(text) >= d.profile.RomanizedRatio {
		return d.profile.Romanized
	}

	info := whatlanggo.Detect(text)
	if info.Lang == d.profile.StatisticalLang {
		d.log.Debug().Str("text", truncate(text, 40)).Msg("statistical identifier chose native language")
		return d.profile.Native
	}
	return d.profile.Default
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n]
}
