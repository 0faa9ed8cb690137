package service

import (
	"context"
	"fmt"
	"log/slog"
	"math"
	"sort"
	"strings"
	"sync"
	"time"

	"golang.org/x/sync/singleflight"

	"github.com/studenthub/tutor-engine/internal/domain"
)

// VectorSource is the backing store for the semantic corpus.
type VectorSource interface {
	ListKnowledgeVectors(ctx context.Context) ([]domain.KnowledgeVector, error)
}

// Retriever ranks the semantic corpus against a query vector and assembles
// the grounding context block.
//
// The corpus is cached in-process with a bounded TTL and refreshed
// wholesale on expiry. Refresh is single-flight: concurrent callers share
// one backing-store read, and readers always see either the previous
// generation or the new one, never a mix.
type Retriever struct {
	source    VectorSource
	threshold float64
	topK      int
	ttl       time.Duration
	now       func() time.Time

	group     singleflight.Group
	mu        sync.RWMutex
	vectors   []domain.KnowledgeVector
	expiresAt time.Time
}

// NewRetriever creates a retriever with the given relevance threshold,
// result cap, and cache TTL.
func NewRetriever(source VectorSource, threshold float64, topK int, ttl time.Duration) *Retriever {
	return &Retriever{
		source:    source,
		threshold: threshold,
		topK:      topK,
		ttl:       ttl,
		now:       time.Now,
	}
}

// Invalidate forces a reload on the next retrieval.
func (r *Retriever) Invalidate() {
	r.mu.Lock()
	r.expiresAt = time.Time{}
	r.mu.Unlock()
}

// RetrieveContext ranks the cached corpus by cosine similarity to the
// query vector and returns an attributed context block built from the
// matches above the relevance threshold.
//
// A backing-store failure is retrieval degradation, not a request failure:
// the caller gets an empty, low-confidence result and the generation layer
// falls back to its ungrounded persona.
func (r *Retriever) RetrieveContext(ctx context.Context, queryVector []float32) domain.RetrievalResult {
	vectors := r.cachedOrRefresh(ctx)
	if len(vectors) == 0 {
		return domain.RetrievalResult{}
	}

	type scored struct {
		vec        domain.KnowledgeVector
		similarity float64
	}

	var matches []scored
	for _, kv := range vectors {
		sim := cosineSimilarity(queryVector, kv.Embedding)
		if sim > r.threshold {
			matches = append(matches, scored{vec: kv, similarity: sim})
		}
	}

	sort.SliceStable(matches, func(i, j int) bool {
		return matches[i].similarity > matches[j].similarity
	})

	if len(matches) > r.topK {
		matches = matches[:r.topK]
	}

	// Within the selected set, QA entries lead the context block: direct
	// answers ground the model better than tutorial prose.
	sort.SliceStable(matches, func(i, j int) bool {
		return matches[i].vec.Type == "qa" && matches[j].vec.Type != "qa"
	})

	blocks := make([]string, len(matches))
	for i, m := range matches {
		blocks[i] = fmt.Sprintf("[Source: %s (%s)]\n%s", m.vec.Heading, m.vec.Type, m.vec.Content)
	}

	return domain.RetrievalResult{
		Context:        strings.Join(blocks, "\n\n"),
		HighConfidence: len(matches) > 0,
	}
}

// cachedOrRefresh returns the current corpus generation, reloading it
// through a single-flight fetch when the TTL has lapsed. On fetch failure
// it falls back to the stale generation (possibly empty).
func (r *Retriever) cachedOrRefresh(ctx context.Context) []domain.KnowledgeVector {
	r.mu.RLock()
	if r.vectors != nil && r.now().Before(r.expiresAt) {
		vectors := r.vectors
		r.mu.RUnlock()
		return vectors
	}
	r.mu.RUnlock()

	fetched, err, _ := r.group.Do("refresh", func() (interface{}, error) {
		// Another caller may have finished the refresh while we queued.
		r.mu.RLock()
		if r.vectors != nil && r.now().Before(r.expiresAt) {
			vectors := r.vectors
			r.mu.RUnlock()
			return vectors, nil
		}
		r.mu.RUnlock()

		vectors, err := r.source.ListKnowledgeVectors(ctx)
		if err != nil {
			return nil, err
		}
		if vectors == nil {
			// An empty corpus is still a valid generation; cache it.
			vectors = []domain.KnowledgeVector{}
		}

		r.mu.Lock()
		r.vectors = vectors
		r.expiresAt = r.now().Add(r.ttl)
		r.mu.Unlock()

		slog.Info("vector cache refreshed", "vectors", len(vectors))
		return vectors, nil
	})
	if err != nil {
		slog.Warn("vector cache refresh failed, serving stale generation", "error", err)
		r.mu.RLock()
		defer r.mu.RUnlock()
		return r.vectors
	}

	return fetched.([]domain.KnowledgeVector)
}

// cosineSimilarity returns the cosine of the angle between two vectors,
// range [-1, 1]. Mismatched dimensions or zero vectors score 0, which
// keeps them safely below any sensible relevance threshold.
func cosineSimilarity(a, b []float32) float64 {
	if len(a) == 0 || len(a) != len(b) {
		return 0
	}

	var dot, normA, normB float64
	for i := range a {
		dot += float64(a[i]) * float64(b[i])
		normA += float64(a[i]) * float64(a[i])
		normB += float64(b[i]) * float64(b[i])
	}
	if normA == 0 || normB == 0 {
		return 0
	}
	return dot / (math.Sqrt(normA) * math.Sqrt(normB))
}
