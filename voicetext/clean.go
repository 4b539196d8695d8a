// Package voicetext prepares generated text for speech: it strips formatting
// and chat-assistant phrasing the voice channel cannot carry, and normalizes
// proper nouns and numbers so synthesis engines pronounce them instead of
// spelling them out.
package voicetext

import (
	"regexp"
	"strings"
)

var (
	boldRe      = regexp.MustCompile(`\*\*(.*?)\*\*`)
	italicRe    = regexp.MustCompile(`\*(.*?)\*`)
	underlineRe = regexp.MustCompile(`_(.*?)_`)
	bulletRe    = regexp.MustCompile(`(?m)^[-*•]\s*`)
	numListRe   = regexp.MustCompile(`(?m)^\d+[.)]\s*`)

	whitespaceRe  = regexp.MustCompile(`\s+`)
	spacePunctRe  = regexp.MustCompile(`\s+([,.?!])`)
	emojiRe       = regexp.MustCompile(`[\x{1F600}-\x{1F64F}\x{1F300}-\x{1F5FF}\x{1F680}-\x{1F6FF}\x{1F1E0}-\x{1F1FF}\x{2702}-\x{27B0}]+`)
)

// Assistant boilerplate that marks text as machine-generated. Matched
// case-insensitively and removed together with the clause it opens.
var aiPhraseRes = compileAll(`(?i)`,
	`I'd be happy to help[^.!]*[.!]?\s*`,
	`Is there anything else[^?]*\?\s*`,
	`Feel free to[^.!]*[.!]?\s*`,
	`Don't hesitate to[^.!]*[.!]?\s*`,
	`Let me know if[^.!]*[.!]?\s*`,
	`How (may|can) I (assist|help) you[^?]*\?\s*`,
	`I'm here to help[^.!]*[.!]?\s*`,
	`As (an|a) (AI|language model)[^.!]*[.!]?\s*`,
	`Certainly[!,.]?\s*`,
	`Absolutely[!,.]?\s*`,
	`Of course[!,.]?\s*`,
	`Great question[!,.]?\s*`,
	`That's a (great|good) question[!,.]?\s*`,
)

// Tamil equivalents of the same boilerplate.
var tamilAIPhraseRes = compileAll(``,
	`வரவேற்கிறோம்[^.!]*[.!]?\s*`,
	`உதவி செய்ய[^.!]*[.!]?\s*`,
	`வேறு ஏதாவது[^?]*\?\s*`,
	`மேலும் ஏதாவது[^?]*\?\s*`,
	`உங்களுக்கு உதவ[^.!]*[.!]?\s*`,
)

func compileAll(prefix string, patterns ...string) []*regexp.Regexp {
	res := make([]*regexp.Regexp, 0, len(patterns))
	for _, p := range patterns {
		res = append(res, regexp.MustCompile(prefix+p))
	}
	return res
}

// terminal punctuation for English plus the Tamil purna viram.
const sentenceEnders = ".!?।"

// CleanForVoice rewrites a model response into something a voice can say:
// markdown and list syntax removed, assistant boilerplate removed, emoji
// removed, at most two sentences, and a clean ending when the model was cut
// off mid-word by its token limit.
func CleanForVoice(text string) string {
	text = boldRe.ReplaceAllString(text, "$1")
	text = italicRe.ReplaceAllString(text, "$1")
	text = underlineRe.ReplaceAllString(text, "$1")

	text = bulletRe.ReplaceAllString(text, "")
	text = numListRe.ReplaceAllString(text, "")

	for _, re := range aiPhraseRes {
		text = re.ReplaceAllString(text, "")
	}
	for _, re := range tamilAIPhraseRes {
		text = re.ReplaceAllString(text, "")
	}

	text = emojiRe.ReplaceAllString(text, "")

	text = strings.TrimSpace(whitespaceRe.ReplaceAllString(text, " "))
	text = spacePunctRe.ReplaceAllString(text, "$1")

	if sentences := splitSentences(text); len(sentences) > 2 {
		text = strings.Join(sentences[:2], " ")
	}

	return repairTruncation(text)
}

// splitSentences splits on terminal punctuation followed by whitespace.
func splitSentences(text string) []string {
	var out []string
	runes := []rune(text)
	start := 0
	for i := 0; i < len(runes); i++ {
		if strings.ContainsRune(sentenceEnders, runes[i]) {
			// Consume a run of enders ("?!", "...") as one boundary.
			j := i + 1
			for j < len(runes) && strings.ContainsRune(sentenceEnders, runes[j]) {
				j++
			}
			if j >= len(runes) || runes[j] == ' ' {
				out = append(out, strings.TrimSpace(string(runes[start:j])))
				start = j
			}
			i = j - 1
		}
	}
	if rest := strings.TrimSpace(string(runes[start:])); rest != "" {
		out = append(out, rest)
	}
	return out
}

// repairTruncation fixes responses that stop mid-word: trim back to the last
// clause boundary when one sits in the latter half of the text, otherwise
// close with a period.
func repairTruncation(text string) string {
	if text == "" {
		return text
	}
	runes := []rune(text)
	last := runes[len(runes)-1]
	if strings.ContainsRune(sentenceEnders+",", last) {
		return text
	}
	boundary := -1
	for i, r := range runes {
		if strings.ContainsRune(sentenceEnders+",", r) {
			boundary = i
		}
	}
	if boundary > len(runes)/2 {
		return string(runes[:boundary+1])
	}
	return strings.TrimRight(text, " ") + "."
}
