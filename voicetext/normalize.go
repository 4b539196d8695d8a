package voicetext

import (
	"regexp"
	"strings"
)

// Legal and formal suffixes synthesis engines read out robotically.
var legalSuffixRes = compileAll(`(?i)`,
	`\b(Private|Pvt\.?)\s*(Limited|Ltd\.?)\b`,
	`\bLLC\b`,
	`\bLLP\b`,
	`\bInc\.?\b`,
	`\bCorp(oration)?\.?\b`,
	`\bPLC\b`,
	`\b(Registered|Regd\.?)\b`,
)

var institutionKeywords = []string{
	"institute", "university", "college", "school",
	"academy", "foundation", "centre", "center",
	"hospital", "medical", "polytechnic",
}

var businessKeywords = []string{
	"solutions", "services", "systems", "technologies",
	"enterprises", "industries", "manufacturing", "automation",
	"consulting", "analytics", "ventures", "labs",
}

// Conversational words whose presence means the text already reads like
// speech rather than a formal entity name.
var commonWords = map[string]struct{}{
	"marketing": {}, "ai": {}, "hello": {}, "welcome": {}, "thank": {},
	"help": {}, "today": {}, "call": {}, "about": {}, "regarding": {},
	"from": {}, "with": {},
}

// Acronyms kept upper-case when repairing ALL-CAPS runs.
var preservedAcronyms = map[string]struct{}{
	"AI": {}, "IT": {}, "HR": {}, "CEO": {}, "CTO": {},
	"USA": {}, "UK": {}, "EU": {}, "IIT": {}, "IIM": {}, "NIT": {},
}

var (
	nonWordRe    = regexp.MustCompile(`[^\w]`)
	trailingRe   = regexp.MustCompile(`[,\s]+$`)
	phoneRe      = regexp.MustCompile(`\b(\d{10,})\b`)
	maxNameWords = 6
)

// NormalizeForSpeech prepares arbitrary text for synthesis: phone numbers
// grouped for digit-by-digit reading, ALL-CAPS runs repaired, and legal
// suffixes stripped wherever a company name appears mid-sentence. Entity
// names get the heavier PrepareName treatment before they reach a sentence.
func NormalizeForSpeech(text string) string {
	text = normalizeNumbers(text)
	text = normalizeCaps(text)
	text = removeLegalSuffixes(text)
	return strings.TrimSpace(whitespaceRe.ReplaceAllString(text, " "))
}

// PrepareName normalizes a proper noun (campaign or company name) so the
// synthesis engine pronounces it naturally instead of spelling it out.
func PrepareName(text string) string {
	if strings.TrimSpace(text) == "" {
		return text
	}
	text = normalizeCaps(text)
	text = removeLegalSuffixes(text)
	text = addNaturalPauses(text)
	text = addContextualPhrase(text)
	return strings.TrimSpace(whitespaceRe.ReplaceAllString(text, " "))
}

// normalizeCaps converts ALL-CAPS words to title case; engines spell out
// capitalized runs letter by letter. Known acronyms stay upper-case.
func normalizeCaps(text string) string {
	words := strings.Fields(text)
	for i, word := range words {
		clean := nonWordRe.ReplaceAllString(word, "")
		if _, ok := preservedAcronyms[strings.ToUpper(clean)]; ok {
			continue
		}
		if len(clean) > 2 && clean == strings.ToUpper(clean) && clean != strings.ToLower(clean) {
			words[i] = titleCase(word)
		}
	}
	return strings.Join(words, " ")
}

func titleCase(word string) string {
	lower := strings.ToLower(word)
	r := []rune(lower)
	for i, c := range r {
		if c >= 'a' && c <= 'z' {
			r[i] = c - 'a' + 'A'
			break
		}
	}
	return string(r)
}

func removeLegalSuffixes(text string) string {
	for _, re := range legalSuffixRes {
		text = re.ReplaceAllString(text, "")
	}
	return trailingRe.ReplaceAllString(text, "")
}

// addNaturalPauses inserts a comma into long formal names that have none,
// breaking after an institution/business keyword or a connecting word.
func addNaturalPauses(text string) string {
	words := strings.Fields(text)
	if len(words) <= maxNameWords || strings.Contains(text, ",") {
		return text
	}
	breakAfter := map[string]struct{}{"of": {}, "for": {}, "and": {}, "in": {}}
	for i, word := range words {
		lower := strings.ToLower(strings.TrimRight(word, ".,"))
		if containsWord(institutionKeywords, lower) || containsWord(businessKeywords, lower) {
			if i+1 < len(words) && i+1 >= 3 {
				words[i] = strings.TrimRight(word, ",") + ","
				break
			}
		}
		if _, ok := breakAfter[lower]; ok && i > 2 && i+1 < len(words) {
			words[i+1] = strings.TrimRight(words[i+1], ",") + ","
			break
		}
	}
	return strings.Join(words, " ")
}

// addContextualPhrase appends an entity hint ("an educational institute") so
// the engine paces an unfamiliar name like a known kind of thing.
func addContextualPhrase(text string) string {
	lower := strings.ToLower(text)

	common := 0
	for w := range commonWords {
		if strings.Contains(lower, w) {
			common++
		}
	}
	if common >= 2 {
		return text
	}
	for _, phrase := range []string{"a company", "an institute", "a college", "regarding", "about", "called", "known as"} {
		if strings.Contains(lower, phrase) {
			return text
		}
	}

	switch {
	case containsAny(lower, "institute", "university", "college", "school", "academy"):
		return withComma(text) + " an educational institute"
	case containsAny(lower, "hospital", "medical", "clinic", "healthcare"):
		return withComma(text) + " a healthcare organization"
	case containsAny(lower, businessKeywords...):
		return withComma(text) + " a technology company"
	case len(strings.Fields(text)) > 5:
		return withComma(text) + " a leading organization"
	}
	return text
}

func withComma(text string) string {
	text = strings.TrimSpace(text)
	if strings.HasSuffix(text, ",") {
		return text
	}
	return text + ","
}

func containsAny(haystack string, needles ...string) bool {
	for _, n := range needles {
		if strings.Contains(haystack, n) {
			return true
		}
	}
	return false
}

func containsWord(list []string, word string) bool {
	for _, w := range list {
		if w == word {
			return true
		}
	}
	return false
}

// normalizeNumbers groups phone-length digit runs so the engine reads them
// digit by digit with pauses instead of as one large number.
func normalizeNumbers(text string) string {
	return phoneRe.ReplaceAllStringFunc(text, func(number string) string {
		if len(number) == 10 {
			return number[:3] + ", " + number[3:6] + ", " + number[6:]
		}
		var groups []string
		for i := 0; i < len(number); i += 3 {
			end := i + 3
			if end > len(number) {
				end = len(number)
			}
			groups = append(groups, number[i:end])
		}
		return strings.Join(groups, ", ")
	})
}
