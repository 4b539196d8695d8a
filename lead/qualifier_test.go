package lead

import (
	"reflect"
	"testing"
)

func TestIsCasual(t *testing.T) {
	q := NewQualifier()

	cases := []struct {
		text string
		want bool
	}{
		{"hi", true},
		{"Hello!", true},
		{"thanks", true},
		{"good, thanks", true},
		{"hi, I want to know your pricing please", false},
		{"interested in your product", false},
	}
	for _, tc := range cases {
		if got := q.IsCasual(tc.text); got != tc.want {
			t.Fatalf("IsCasual(%q) = %v, want %v", tc.text, got, tc.want)
		}
	}
}

func TestExtractSignals(t *testing.T) {
	q := NewQualifier()

	got := q.ExtractSignals("What is the pricing for the premium plan?")
	want := []Signal{"intent:pricing", "intent:plan"}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("ExtractSignals = %v, want %v", got, want)
	}

	got = q.ExtractSignals("Not interested, please don't call again")
	want = []Signal{"negative:refusal", "negative:dnc"}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("ExtractSignals = %v, want %v", got, want)
	}

	// The casual override: "thanks" suppresses everything.
	if got := q.ExtractSignals("thanks"); got != nil {
		t.Fatalf("ExtractSignals(casual) = %v, want nil", got)
	}
}

func TestExtractSignalsIsPure(t *testing.T) {
	q := NewQualifier()
	text := "Can you show me a demo of the pricing plans?"

	first := q.ExtractSignals(text)
	second := q.ExtractSignals(text)
	if !reflect.DeepEqual(first, second) {
		t.Fatalf("repeated extraction diverged: %v vs %v", first, second)
	}
}

func TestQualifyGatesOnIntent(t *testing.T) {
	q := NewQualifier()

	// A polite conversation with zero business intent scores nothing even
	// when the signal list is non-empty.
	transcript := []string{
		"User: hello",
		"Agent: Hi there! How are you?",
		"User: good, thanks",
	}
	got := q.Qualify(transcript, []Signal{"intent:pricing"})
	if got.Tier != TierNone || got.Score != 0 {
		t.Fatalf("Qualify = %+v, want TierNone with zero score", got)
	}
	if got.UserTurns != 2 {
		t.Fatalf("UserTurns = %d, want 2", got.UserTurns)
	}
}

func TestQualifyWarmLead(t *testing.T) {
	q := NewQualifier()

	transcript := []string{
		"User: I wanted to ask about pricing",
		"Agent: Sure! Our plans start at five thousand rupees.",
		"User: okay, what features does it have?",
		"Agent: Lead tracking, campaign analytics, and more.",
	}
	signals := []Signal{"intent:pricing", "intent:feature"}

	got := q.Qualify(transcript, signals)
	// 0.3 + 2*0.15 = 0.6: exactly at the hot threshold.
	if got.Tier != TierHot {
		t.Fatalf("Tier = %s, want %s", got.Tier, TierHot)
	}
	if got.Score < 0.59 || got.Score > 0.61 {
		t.Fatalf("Score = %g, want 0.6", got.Score)
	}
	if got.IntentSignals != 2 || got.NegativeSignals != 0 {
		t.Fatalf("signal counts = %d/%d", got.IntentSignals, got.NegativeSignals)
	}
}

func TestQualifyEngagementBonus(t *testing.T) {
	q := NewQualifier()

	transcript := []string{
		"User: tell me about the price",
		"Agent: ...",
		"User: okay",
		"Agent: ...",
		"User: and the trial?",
		"Agent: ...",
		"User: hmm",
		"Agent: ...",
	}
	got := q.Qualify(transcript, []Signal{"intent:pricing"})
	// 0.3 + 0.15 + 0.1 engagement = 0.55: warm.
	if got.Tier != TierWarm {
		t.Fatalf("Tier = %s, want %s", got.Tier, TierWarm)
	}
	if got.Score < 0.54 || got.Score > 0.56 {
		t.Fatalf("Score = %g, want 0.55", got.Score)
	}
}

func TestQualifyNegativesForceCold(t *testing.T) {
	q := NewQualifier()

	transcript := []string{
		"User: how much does it cost?",
		"Agent: Five thousand rupees a month.",
		"User: too expensive, not interested",
	}
	signals := []Signal{"intent:pricing", "negative:cost", "negative:refusal"}

	got := q.Qualify(transcript, signals)
	if got.Tier != TierCold {
		t.Fatalf("Tier = %s, want %s", got.Tier, TierCold)
	}
	if got.NegativeSignals != 2 || got.IntentSignals != 1 {
		t.Fatalf("signal counts = %d/%d", got.IntentSignals, got.NegativeSignals)
	}
}

func TestQualifyScoreClamped(t *testing.T) {
	q := NewQualifier()

	transcript := []string{"User: what is the price?"}
	many := make([]Signal, 10)
	for i := range many {
		many[i] = "negative:refusal"
	}
	got := q.Qualify(transcript, many)
	if got.Score != 0 {
		t.Fatalf("Score = %g, want clamp to 0", got.Score)
	}

	many = make([]Signal, 10)
	for i := range many {
		many[i] = "intent:pricing"
	}
	got = q.Qualify(transcript, many)
	if got.Score != 1 {
		t.Fatalf("Score = %g, want clamp to 1", got.Score)
	}
}

func TestSignalCategory(t *testing.T) {
	if Signal("intent:pricing").Category() != "intent" {
		t.Fatal("Category should strip the pattern id")
	}
	if Signal("negative:dnc").Category() != "negative" {
		t.Fatal("Category should strip the pattern id")
	}
}
