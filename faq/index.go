// Package faq maintains per-campaign semantic search indexes over
// question/answer pairs. Vectors are L2-normalized at load time so inner
// product equals cosine similarity and scores always report as similarity,
// never raw distance.
package faq

import (
	"context"
	"fmt"
	"math"
	"sort"
	"strings"
	"sync"

	"github.com/rs/zerolog"
)

// FAQ is one question/answer pair with optional retrieval keywords.
type FAQ struct {
	Question string   `json:"question"`
	Answer   string   `json:"answer"`
	Keywords []string `json:"keywords,omitempty"`
}

// Result pairs a retrieved FAQ with its similarity score in [-1, 1].
type Result struct {
	FAQ   FAQ
	Score float64
}

// Embedder turns texts into fixed-dimension vectors. The same embedder must
// serve both load and query for scores to be meaningful.
type Embedder interface {
	Embed(ctx context.Context, texts []string) ([][]float32, error)
}

// campaignIndex is an immutable snapshot; Load swaps whole snapshots so
// readers never observe a half-rebuilt index.
type campaignIndex struct {
	faqs    []FAQ
	vectors [][]float32
}

// Index is the per-campaign FAQ store, shared across sessions.
type Index struct {
	embedder Embedder
	log      zerolog.Logger

	mu        sync.RWMutex
	campaigns map[string]*campaignIndex
}

// IndexOption configures an Index.
type IndexOption func(*Index)

// WithLogger sets the index logger.
func WithLogger(log zerolog.Logger) IndexOption {
	return func(i *Index) { i.log = log }
}

// NewIndex builds an empty index backed by the given embedder.
func NewIndex(embedder Embedder, opts ...IndexOption) *Index {
	idx := &Index{
		embedder:  embedder,
		log:       zerolog.Nop(),
		campaigns: make(map[string]*campaignIndex),
	}
	for _, opt := range opts {
		opt(idx)
	}
	return idx
}

// Load embeds the FAQs and atomically replaces any prior index for the
// campaign. On embedding failure the prior index is left as-is but callers
// must not rely on rollback semantics.
func (i *Index) Load(ctx context.Context, campaignID string, faqs []FAQ) error {
	if len(faqs) == 0 {
		return fmt.Errorf("faq: no FAQs provided for campaign %s", campaignID)
	}

	docs := make([]string, len(faqs))
	for n, f := range faqs {
		doc := f.Question
		if len(f.Keywords) > 0 {
			doc += " " + strings.Join(f.Keywords, " ")
		}
		docs[n] = doc
	}

	vectors, err := i.embedder.Embed(ctx, docs)
	if err != nil {
		return fmt.Errorf("faq: embed campaign %s: %w", campaignID, err)
	}
	if len(vectors) != len(faqs) {
		return fmt.Errorf("faq: embedder returned %d vectors for %d documents", len(vectors), len(faqs))
	}
	for n := range vectors {
		normalize(vectors[n])
	}

	snapshot := &campaignIndex{
		faqs:    append([]FAQ(nil), faqs...),
		vectors: vectors,
	}

	i.mu.Lock()
	i.campaigns[campaignID] = snapshot
	i.mu.Unlock()

	i.log.Info().Str("campaign", campaignID).Int("faqs", len(faqs)).Msg("FAQ index loaded")
	return nil
}

// Retrieve returns up to topK FAQs whose similarity to the query meets the
// threshold, ordered by descending score. An unloaded campaign returns empty.
func (i *Index) Retrieve(ctx context.Context, campaignID, query string, topK int, threshold float64) ([]Result, error) {
	i.mu.RLock()
	snapshot := i.campaigns[campaignID]
	i.mu.RUnlock()
	if snapshot == nil {
		return nil, nil
	}

	vectors, err := i.embedder.Embed(ctx, []string{query})
	if err != nil {
		return nil, fmt.Errorf("faq: embed query: %w", err)
	}
	if len(vectors) == 0 {
		return nil, fmt.Errorf("faq: embedder returned no vector for query")
	}
	qv := vectors[0]
	normalize(qv)

	results := make([]Result, 0, topK)
	for n, v := range snapshot.vectors {
		score := dot(qv, v)
		if score >= threshold {
			results = append(results, Result{FAQ: snapshot.faqs[n], Score: score})
		}
	}
	sort.Slice(results, func(a, b int) bool { return results[a].Score > results[b].Score })
	if topK > 0 && len(results) > topK {
		results = results[:topK]
	}
	return results, nil
}

// FormatContext renders retrieval results as the numbered Q/A block injected
// into the generation prompt. Empty input yields an empty string.
func FormatContext(results []Result) string {
	if len(results) == 0 {
		return ""
	}
	var b strings.Builder
	b.WriteString("Here are some relevant FAQ answers that may help:")
	for n, r := range results {
		fmt.Fprintf(&b, "\n\nQ%d: %s\nA%d: %s", n+1, r.FAQ.Question, n+1, r.FAQ.Answer)
	}
	return b.String()
}

// Remove deletes a campaign's index. Removing an absent campaign is a no-op.
func (i *Index) Remove(campaignID string) {
	i.mu.Lock()
	delete(i.campaigns, campaignID)
	i.mu.Unlock()
}

// IsLoaded reports whether a campaign has an index.
func (i *Index) IsLoaded(campaignID string) bool {
	i.mu.RLock()
	defer i.mu.RUnlock()
	return i.campaigns[campaignID] != nil
}

func normalize(v []float32) {
	var sum float64
	for _, x := range v {
		sum += float64(x) * float64(x)
	}
	if sum == 0 {
		return
	}
	norm := float32(math.Sqrt(sum))
	for n := range v {
		v[n] /= norm
	}
}

func dot(a, b []float32) float64 {
	var sum float64
	n := len(a)
	if len(b) < n {
		n = len(b)
	}
	for i := 0; i < n; i++ {
		sum += float64(a[i]) * float64(b[i])
	}
	return sum
}
