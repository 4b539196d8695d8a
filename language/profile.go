package language

import (
	"regexp"
	"strings"

	"github.com/abadojack/whatlanggo"
)

// Profile describes one bilingual/trilingual environment: the primary
// language, the native-script language, the romanized dialect, and the
// signals that separate them. The detector is profile-driven so other
// script-mixing language pairs can reuse it.
type Profile struct {
	// Default is returned for empty input and when nothing else matches.
	Default Language

	// Native is the language written in the native script block.
	Native Language

	// Romanized is the mixed dialect written with the primary alphabet.
	Romanized Language

	// ScriptLo and ScriptHi bound the native script's Unicode block.
	ScriptLo, ScriptHi rune

	// RomanizedRatio is the fraction of tokens that must match the
	// romanized pattern list before the text classifies as Romanized.
	RomanizedRatio float64

	// StatisticalLang maps the statistical identifier's output to Native.
	StatisticalLang whatlanggo.Lang

	romanized *regexp.Regexp
}

// Romanized Tamil function words and particles. One alternation keeps
// matching a single pass over the utterance.
var tanglishWords = []string{
	`naan`, `nee`, `avan`, `aval`, `avanga`, `enna`, `epdi`, `yaaruku`,
	`romba`, `konjam`, `seri`, `illa`, `irukku`, `vandhen`, `poren`, `vaanga`,
	`sollu`, `kelunga`, `paaru`, `paarungal`, `vareenga`, `pogalam`,
	`amma`, `appa`, `akka`, `anna`, `thambi`, `thangachi`,
	`enaku`, `unaku`, `avanuku`, `avaluku`, `evanukkum`,
	`pannunga`, `pannuren`, `pannitaan`, `sollunga`,
	`vendaam`, `venum`, `mudiyaathu`, `mudiyum`,
	`eppo`, `eppadi`, `enga`, `yaar`, `yen`, `ethu`,
	`nalla`, `periya`, `chinna`, `pudhu`, `pazhaiya`,
	`thaan`, `dhaan`, `pola`, `maari`, `kooda`,
}

// TamilProfile returns the default profile: English primary, Tamil native
// script (U+0B80..U+0BFF), Tanglish romanized dialect.
func TamilProfile() *Profile {
	p := &Profile{
		Default:         English,
		Native:          Tamil,
		Romanized:       Tanglish,
		ScriptLo:        0x0B80,
		ScriptHi:        0x0BFF,
		RomanizedRatio:  0.2,
		StatisticalLang: whatlanggo.Tam,
	}
	p.romanized = regexp.MustCompile(`\b(` + strings.Join(tanglishWords, `|`) + `)\b`)
	return p
}

// HasNativeScript reports whether s contains any rune from the native
// script block.
func (p *Profile) HasNativeScript(s string) bool {
	for _, r := range s {
		if r >= p.ScriptLo && r <= p.ScriptHi {
			return true
		}
	}
	return false
}

// romanizedMatchRatio returns the fraction of whitespace-delimited tokens
// matching the romanized pattern list.
func (p *Profile) romanizedMatchRatio(s string) float64 {
	words := strings.Fields(s)
	if len(words) == 0 {
		return 0
	}
	matches := p.romanized.FindAllString(strings.ToLower(s), -1)
	return float64(len(matches)) / float64(len(words))
}
