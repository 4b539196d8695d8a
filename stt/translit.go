package stt

import (
	"regexp"
	"strings"
)

// TransliterationDetector spots a native-language-biased engine's systematic
// failure mode: English speech rendered as native-script phonetic
// approximations ("your college" coming back as "யுவர் காலேஜ்"). Such output
// is garbled English, not genuine native-language content, and must lose
// arbitration to the general engine.
type TransliterationDetector struct {
	script  *regexp.Regexp
	markers *regexp.Regexp
	ratio   float64
}

// Tamil-script fragments that phonetically transliterate common English
// words and numbers.
var tamilTranslitMarkers = regexp.MustCompile(
	`(தி|இஸ்|யுவர்|மை|வாட்|ஹவ்|கேன்|வில்|நாட்|ஆர்|யூ|ஹலோ|நோ|யெஸ்|` +
		`பட்|ஃபார்|இட்|வித்|ஃப்ரம்|ஆஃப்|அண்ட்|` +
		`கால|காலேஜ்|ஸ்கூல்|பேங்க்|ஹாஸ்பிடல்|` +
		`ப்ளீஸ்|தேங்க்|சார்|சர்|மேம்|ஓகே|` +
		`ஒன்|டூ|த்ரீ|ஃபோர்|ஃபைவ்|சிக்ஸ்|செவன்|எயிட்|நைன்|டென்|` +
		`சிஎஸ்|ஐடி|எம்பிஏ|எம்சிஏ|ஏஐ)`)

var tamilScriptRe = regexp.MustCompile(`[\x{0B80}-\x{0BFF}]`)

// NewTamilTransliterationDetector returns the detector for the Tamil script
// with the default 40% marker-token threshold.
func NewTamilTransliterationDetector() *TransliterationDetector {
	return &TransliterationDetector{
		script:  tamilScriptRe,
		markers: tamilTranslitMarkers,
		ratio:   0.4,
	}
}

// HasScript reports whether text contains native-script characters.
func (d *TransliterationDetector) HasScript(text string) bool {
	return d.script.MatchString(text)
}

// IsTransliterated reports whether native-script text is mostly
// transliterated English: more than the threshold fraction of tokens match a
// marker fragment. Texts without native script, or with fewer than two
// tokens, never classify as transliterated.
func (d *TransliterationDetector) IsTransliterated(text string) bool {
	if text == "" || !d.script.MatchString(text) {
		return false
	}
	words := strings.Fields(text)
	if len(words) < 2 {
		return false
	}
	matched := 0
	for _, w := range words {
		if d.markers.MatchString(w) {
			matched++
		}
	}
	return float64(matched)/float64(len(words)) > d.ratio
}
