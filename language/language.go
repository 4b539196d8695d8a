// Package language classifies utterances into the language categories the
// call pipeline routes on: the primary language, the native-script language,
// and the romanized mixed dialect spoken with the primary alphabet.
package language

// Language is a detected language category.
type Language string

const (
	// Unknown means no utterance has been classified yet. Consumers fall
	// back to English behavior but may pass the value through to engines
	// that can self-detect.
	Unknown Language = "unknown"

	// English is the primary language and the default classification.
	English Language = "english"

	// Tamil is the native-script language (Tamil Unicode block).
	Tamil Language = "tamil"

	// Tanglish is Tamil spoken and written with the Latin alphabet.
	Tanglish Language = "tanglish"
)

// Valid reports whether l is one of the known categories.
func (l Language) Valid() bool {
	switch l {
	case English, Tamil, Tanglish:
		return true
	}
	return false
}
