// Package search implements the lexical relevance index over the curated
// knowledge corpus. The corpus is immutable after load, so Search is safe
// for unlimited concurrent use without locking.
package search

import (
	"encoding/json"
	"log/slog"
	"os"
	"sort"
	"strings"

	"github.com/studenthub/tutor-engine/internal/domain"
	"github.com/studenthub/tutor-engine/internal/nlp"
)

// Scoring weights, in decreasing order of confidence: an exact title hit
// outranks an exact token hit, which outranks a loose content hit.
const (
	contextBoost      = 20
	titleMatchScore   = 10
	tokenMatchScore   = 5
	contentMatchScore = 1
)

// DefaultLimit caps how many items a query may return.
const DefaultLimit = 3

// Index is an in-memory lexical index over knowledge items.
type Index struct {
	items []domain.KnowledgeItem
	limit int
}

// New builds an index over the given corpus. A nil or empty corpus is valid
// and yields an index that returns no results.
func New(items []domain.KnowledgeItem) *Index {
	return &Index{items: items, limit: DefaultLimit}
}

// Load reads the static knowledge index JSON from disk. A missing or
// unreadable file degrades to an empty corpus so the rest of the engine
// keeps serving.
func Load(path string) *Index {
	data, err := os.ReadFile(path)
	if err != nil {
		slog.Warn("knowledge index not found, starting with empty corpus", "path", path, "error", err)
		return New(nil)
	}

	var items []domain.KnowledgeItem
	if err := json.Unmarshal(data, &items); err != nil {
		slog.Warn("knowledge index unreadable, starting with empty corpus", "path", path, "error", err)
		return New(nil)
	}

	slog.Info("knowledge index loaded", "path", path, "items", len(items))
	return New(items)
}

// Len returns the corpus size.
func (ix *Index) Len() int {
	return len(ix.items)
}

// Items returns the full corpus in load order.
func (ix *Index) Items() []domain.KnowledgeItem {
	return ix.items
}

type scoredMatch struct {
	item  domain.KnowledgeItem
	score int
}

// Search scores the corpus against a tokenized query plus an optional
// context hint and returns up to DefaultLimit items, descending by
// relevance. Ties keep corpus order, so identical inputs always produce
// identical output.
func (ix *Index) Search(query, contextHint string) []domain.KnowledgeItem {
	queryTokens := nlp.Tokenize(query)
	if len(queryTokens) == 0 {
		return nil
	}

	hint := strings.ToLower(contextHint)

	var matches []scoredMatch
	for _, item := range ix.items {
		title := strings.ToLower(item.Title)
		content := strings.ToLower(item.Content)

		score := 0
		if hint != "" && strings.Contains(title, hint) {
			score += contextBoost
		}

		for _, token := range queryTokens {
			if strings.Contains(title, token) {
				score += titleMatchScore
			}
			if containsToken(item.Tokens, token) {
				score += tokenMatchScore
			}
			if strings.Contains(content, token) {
				score += contentMatchScore
			}
		}

		if score > 0 {
			matches = append(matches, scoredMatch{item: item, score: score})
		}
	}

	sort.SliceStable(matches, func(i, j int) bool {
		return matches[i].score > matches[j].score
	})

	if len(matches) > ix.limit {
		matches = matches[:ix.limit]
	}

	results := make([]domain.KnowledgeItem, len(matches))
	for i, m := range matches {
		results[i] = m.item
	}
	return results
}

func containsToken(tokens []string, token string) bool {
	for _, t := range tokens {
		if t == token {
			return true
		}
	}
	return false
}
