package faq

import (
	"context"
	"errors"
	"strings"
	"testing"
)

// keywordEmbedder maps texts onto a tiny fixed vocabulary so similarity is
// deterministic: each dimension counts one keyword.
type keywordEmbedder struct {
	vocab []string
	calls int
	err   error
}

func (e *keywordEmbedder) Embed(ctx context.Context, texts []string) ([][]float32, error) {
	e.calls++
	if e.err != nil {
		return nil, e.err
	}
	out := make([][]float32, len(texts))
	for i, text := range texts {
		v := make([]float32, len(e.vocab))
		lower := strings.ToLower(text)
		for d, word := range e.vocab {
			v[d] = float32(strings.Count(lower, word))
		}
		out[i] = v
	}
	return out, nil
}

func newTestEmbedder() *keywordEmbedder {
	return &keywordEmbedder{vocab: []string{"price", "demo", "support", "refund"}}
}

var testFAQs = []FAQ{
	{Question: "What is the price?", Answer: "Five thousand rupees per month.", Keywords: []string{"price", "cost"}},
	{Question: "Can I get a demo?", Answer: "Yes, demos run every Tuesday.", Keywords: []string{"demo"}},
	{Question: "Do you offer support?", Answer: "Support is available around the clock.", Keywords: []string{"support"}},
}

func TestIndexLoadAndRetrieve(t *testing.T) {
	idx := NewIndex(newTestEmbedder())
	ctx := context.Background()

	if err := idx.Load(ctx, "camp-1", testFAQs); err != nil {
		t.Fatalf("Load error: %v", err)
	}
	if !idx.IsLoaded("camp-1") {
		t.Fatal("IsLoaded should report true after Load")
	}

	results, err := idx.Retrieve(ctx, "camp-1", "how much is the price", 3, 0.5)
	if err != nil {
		t.Fatalf("Retrieve error: %v", err)
	}
	if len(results) != 1 {
		t.Fatalf("got %d results, want 1: %v", len(results), results)
	}
	if results[0].FAQ.Question != "What is the price?" {
		t.Fatalf("wrong FAQ retrieved: %q", results[0].FAQ.Question)
	}
	if results[0].Score < 0.99 {
		t.Fatalf("Score = %g, want ~1.0 for identical direction", results[0].Score)
	}
}

func TestIndexRetrieveUnloadedCampaign(t *testing.T) {
	embedder := newTestEmbedder()
	idx := NewIndex(embedder)

	results, err := idx.Retrieve(context.Background(), "missing", "price", 3, 0.5)
	if err != nil {
		t.Fatalf("Retrieve error: %v", err)
	}
	if results != nil {
		t.Fatalf("got %v, want nil for unloaded campaign", results)
	}
	if embedder.calls != 0 {
		t.Fatal("query must not be embedded when the campaign is unloaded")
	}
}

func TestIndexLoadReplaces(t *testing.T) {
	idx := NewIndex(newTestEmbedder())
	ctx := context.Background()

	if err := idx.Load(ctx, "camp-1", testFAQs); err != nil {
		t.Fatalf("Load error: %v", err)
	}
	replacement := []FAQ{{Question: "What about refunds?", Answer: "Full refund within 30 days.", Keywords: []string{"refund"}}}
	if err := idx.Load(ctx, "camp-1", replacement); err != nil {
		t.Fatalf("Load error: %v", err)
	}

	results, err := idx.Retrieve(ctx, "camp-1", "price demo support", 3, 0.5)
	if err != nil {
		t.Fatalf("Retrieve error: %v", err)
	}
	if len(results) != 0 {
		t.Fatalf("old FAQs still retrievable after replacement: %v", results)
	}
}

func TestIndexLoadErrors(t *testing.T) {
	embedder := newTestEmbedder()
	idx := NewIndex(embedder)
	ctx := context.Background()

	if err := idx.Load(ctx, "camp-1", nil); err == nil {
		t.Fatal("Load with no FAQs should fail")
	}

	embedder.err = errors.New("backend down")
	if err := idx.Load(ctx, "camp-1", testFAQs); err == nil {
		t.Fatal("Load should surface embedder failure")
	}
	if idx.IsLoaded("camp-1") {
		t.Fatal("failed Load must not register the campaign")
	}
}

func TestIndexRemove(t *testing.T) {
	idx := NewIndex(newTestEmbedder())
	ctx := context.Background()

	if err := idx.Load(ctx, "camp-1", testFAQs); err != nil {
		t.Fatalf("Load error: %v", err)
	}
	idx.Remove("camp-1")
	if idx.IsLoaded("camp-1") {
		t.Fatal("IsLoaded should report false after Remove")
	}
	idx.Remove("camp-1") // absent campaign is a no-op
}

func TestFormatContext(t *testing.T) {
	if got := FormatContext(nil); got != "" {
		t.Fatalf("FormatContext(nil) = %q, want empty", got)
	}

	got := FormatContext([]Result{
		{FAQ: FAQ{Question: "What is the price?", Answer: "Five thousand rupees."}},
		{FAQ: FAQ{Question: "Can I get a demo?", Answer: "Yes, on Tuesdays."}},
	})
	for _, want := range []string{
		"Here are some relevant FAQ answers",
		"Q1: What is the price?",
		"A1: Five thousand rupees.",
		"Q2: Can I get a demo?",
		"A2: Yes, on Tuesdays.",
	} {
		if !strings.Contains(got, want) {
			t.Fatalf("FormatContext missing %q in %q", want, got)
		}
	}
}
