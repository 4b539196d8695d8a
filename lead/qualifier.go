// Package lead scores callers as sales leads from conversation transcripts.
//
// Scoring is gated behind explicit business intent: greetings and small talk
// never move the score, so a polite caller who wants nothing does not look
// like a prospect.
package lead

import (
	"regexp"
	"strings"
)

// Tier is the qualification bucket assigned to a lead.
type Tier string

const (
	TierNone Tier = "none"
	TierHot  Tier = "hot"
	TierWarm Tier = "warm"
	TierCold Tier = "cold"
)

// Signal is a tagged marker extracted from one utterance, formatted as
// "<category>:<pattern-id>" with category either "intent" or "negative".
// Signals are never deduplicated: repetition strengthens the score.
type Signal string

// Category returns the portion before the colon.
func (s Signal) Category() string {
	if i := strings.IndexByte(string(s), ':'); i >= 0 {
		return string(s)[:i]
	}
	return string(s)
}

// Qualification is the outcome of scoring a finished conversation.
// Recomputing over identical inputs yields identical results.
type Qualification struct {
	Tier            Tier    `json:"tier"`
	Score           float64 `json:"score"`
	IntentSignals   int     `json:"intent_signals"`
	NegativeSignals int     `json:"negative_signals"`
	UserTurns       int     `json:"user_turns"`
	Reason          string  `json:"reason,omitempty"`
}

type pattern struct {
	id string
	re *regexp.Regexp
}

func compilePatterns(pairs [][2]string) []pattern {
	out := make([]pattern, 0, len(pairs))
	for _, p := range pairs {
		out = append(out, pattern{id: p[0], re: regexp.MustCompile(`(?i)` + p[1])})
	}
	return out
}

// Explicit business-intent expressions. Each needs clear interest, not just
// mention of the product.
var intentPatterns = compilePatterns([][2]string{
	{"pricing", `\b(price|pricing|cost|how much|quote|rate|fee)s?\b`},
	{"offer", `\b(discount|offer|deal|package)s?\b`},
	{"demo", `\b(demo|trial|free trial|test|try it|see it)(\s|$)`},
	{"walkthrough", `\b(show me|walk me through|demonstrate)\b`},
	{"feature", `\b(feature|capability|what can|does it|can it)\b`},
	{"plan", `\b(plan|tier|version|edition)s?\b`},
	{"growth", `\b(marketing help|grow my|business growth|get more)\b`},
	{"leadgen", `\b(lead generation|customer acquisition|sales help)\b`},
	{"purchase", `\b(buy|purchase|subscribe|sign up|get started)\b`},
	{"interest", `\b(interested in|want to know about|tell me about)\s+(your|the)\s+(product|service|solution)\b`},
})

// Disinterest expressions.
var negativePatterns = compilePatterns([][2]string{
	{"refusal", `\b(not interested|no thanks?|don'?t want|don'?t need)\b`},
	{"cost", `\b(too expensive|can'?t afford|out of budget)\b`},
	{"dnc", `\b(stop|remove|unsubscribe|don'?t call)\b`},
	{"satisfied", `\b(already have|using another|happy with)\b`},
	{"goodbye", `\b(bye|goodbye|hang up|gotta go)\b`},
})

// Small talk that must never trigger scoring.
var casualPatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?i)^(hi|hello|hey|yo)(\s|$|!|\?)`),
	regexp.MustCompile(`(?i)\b(how are you|what'?s up|how'?s it going)\b`),
	regexp.MustCompile(`(?i)\b(good|fine|great|okay|alright)\s*(thanks?)?\b`),
	regexp.MustCompile(`(?i)\b(what'?s your name|who are you)\b`),
	regexp.MustCompile(`(?i)\b(weather|time|day|today)\b`),
	regexp.MustCompile(`(?i)\b(thanks?|thank you|cool|nice)\b`),
}

// userPrefix marks user-authored transcript lines.
const userPrefix = "User:"

// Qualifier extracts lead signals from utterances and scores transcripts.
// It holds only compiled patterns; all methods are pure functions of their
// inputs.
type Qualifier struct {
	intent   []pattern
	negative []pattern
	casual   []*regexp.Regexp

	base            float64
	intentWeight    float64
	negativeWeight  float64
	engagementBonus float64
	engagementTurns int
	hotThreshold    float64
	warmThreshold   float64
}

// NewQualifier builds a qualifier with the default pattern lists and weights.
func NewQualifier() *Qualifier {
	return &Qualifier{
		intent:   intentPatterns,
		negative: negativePatterns,
		casual:   casualPatterns,

		base:            0.3,
		intentWeight:    0.15,
		negativeWeight:  0.2,
		engagementBonus: 0.1,
		engagementTurns: 4,
		hotThreshold:    0.6,
		warmThreshold:   0.35,
	}
}

// IsCasual reports whether text is small talk: at most three tokens and a
// match against the casual pattern list.
func (q *Qualifier) IsCasual(text string) bool {
	text = strings.ToLower(strings.TrimSpace(text))
	if len(strings.Fields(text)) > 3 {
		return false
	}
	for _, re := range q.casual {
		if re.MatchString(text) {
			return true
		}
	}
	return false
}

// HasIntent reports whether text contains an explicit business-intent match.
func (q *Qualifier) HasIntent(text string) bool {
	for _, p := range q.intent {
		if p.re.MatchString(text) {
			return true
		}
	}
	return false
}

// ExtractSignals scans one utterance for intent and disinterest markers.
// Casual small talk yields no signals regardless of other matches; that
// override is what keeps "hi" and "thanks" out of the score.
func (q *Qualifier) ExtractSignals(text string) []Signal {
	if q.IsCasual(text) {
		return nil
	}
	var signals []Signal
	for _, p := range q.intent {
		if p.re.MatchString(text) {
			signals = append(signals, Signal("intent:"+p.id))
		}
	}
	for _, p := range q.negative {
		if p.re.MatchString(text) {
			signals = append(signals, Signal("negative:"+p.id))
		}
	}
	return signals
}

// shouldQualify gates scoring: at least one user turn must carry explicit
// business intent.
func (q *Qualifier) shouldQualify(transcript []string) bool {
	for _, line := range transcript {
		if !strings.HasPrefix(line, userPrefix) {
			continue
		}
		text := strings.TrimSpace(strings.TrimPrefix(line, userPrefix))
		if q.HasIntent(text) {
			return true
		}
	}
	return false
}

// Qualify scores a finished conversation. Without demonstrated intent the
// result is TierNone with a zero score no matter what the signal list holds.
func (q *Qualifier) Qualify(transcript []string, signals []Signal) Qualification {
	userTurns := 0
	for _, line := range transcript {
		if strings.HasPrefix(line, userPrefix) {
			userTurns++
		}
	}

	if !q.shouldQualify(transcript) {
		return Qualification{
			Tier:      TierNone,
			Score:     0.0,
			UserTurns: userTurns,
			Reason:    "no explicit business intent detected",
		}
	}

	intentCount, negativeCount := 0, 0
	for _, s := range signals {
		switch s.Category() {
		case "intent":
			intentCount++
		case "negative":
			negativeCount++
		}
	}

	score := q.base
	score += float64(intentCount) * q.intentWeight
	score -= float64(negativeCount) * q.negativeWeight
	if userTurns >= q.engagementTurns {
		score += q.engagementBonus
	}
	if score < 0 {
		score = 0
	}
	if score > 1 {
		score = 1
	}

	var tier Tier
	switch {
	case negativeCount > intentCount:
		tier = TierCold
	case score >= q.hotThreshold:
		tier = TierHot
	case score >= q.warmThreshold:
		tier = TierWarm
	default:
		tier = TierCold
	}

	return Qualification{
		Tier:            tier,
		Score:           score,
		IntentSignals:   intentCount,
		NegativeSignals: negativeCount,
		UserTurns:       userTurns,
	}
}

// Summary returns a human-readable description of a tier.
func Summary(tier Tier) string {
	switch tier {
	case TierHot:
		return "Strong purchase intent - ready to convert"
	case TierWarm:
		return "Showing interest - needs nurturing"
	case TierCold:
		return "Low interest - may re-engage later"
	default:
		return "No business intent detected"
	}
}
