package search

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/studenthub/tutor-engine/internal/domain"
)

func testCorpus() []domain.KnowledgeItem {
	return []domain.KnowledgeItem{
		{
			ID:      "html-intro",
			Title:   "Introduction to HTML",
			Content: "HTML is the markup language of the web.",
			Tokens:  []string{"html", "introduction"},
			Type:    domain.KnowledgeTutorial,
			URL:     "/subjects/web/html-intro",
		},
		{
			ID:      "css-intro",
			Title:   "Introduction to CSS",
			Content: "CSS styles HTML documents.",
			Tokens:  []string{"css", "introduction"},
			Type:    domain.KnowledgeTutorial,
			URL:     "/subjects/web/css-intro",
		},
		{
			ID:      "arrays",
			Title:   "Arrays",
			Content: "An array stores elements in contiguous memory.",
			Tokens:  []string{"array", "arrays"},
			Type:    domain.KnowledgeConcept,
			URL:     "/subjects/data-structures/arrays",
		},
		{
			ID:      "linked-lists",
			Title:   "Linked Lists",
			Content: "A linked list chains nodes with pointers.",
			Tokens:  []string{"linked", "list"},
			Type:    domain.KnowledgeConcept,
			URL:     "/subjects/data-structures/linked-lists",
		},
	}
}

func TestSearchTopResultMatchesTitle(t *testing.T) {
	ix := New(testCorpus())

	results := ix.Search("html", "")
	require.NotEmpty(t, results)
	assert.Contains(t, results[0].Title, "HTML")
}

func TestSearchEmptyQueryShortCircuits(t *testing.T) {
	ix := New(testCorpus())

	assert.Empty(t, ix.Search("", ""))
	assert.Empty(t, ix.Search("   ", "anything"))
}

func TestSearchEmptyCorpus(t *testing.T) {
	ix := New(nil)

	assert.Empty(t, ix.Search("html", ""))
}

func TestSearchNoMatches(t *testing.T) {
	ix := New(testCorpus())

	assert.Empty(t, ix.Search("quantum chromodynamics", ""))
}

func TestSearchIdempotent(t *testing.T) {
	ix := New(testCorpus())

	first := ix.Search("introduction html", "")
	second := ix.Search("introduction html", "")
	assert.Equal(t, first, second)
}

func TestSearchBoundedOutput(t *testing.T) {
	var items []domain.KnowledgeItem
	for i := 0; i < 20; i++ {
		items = append(items, domain.KnowledgeItem{
			ID:      string(rune('a' + i)),
			Title:   "Sorting algorithms",
			Content: "sorting",
			Tokens:  []string{"sorting"},
		})
	}
	ix := New(items)

	results := ix.Search("sorting", "")
	assert.Len(t, results, DefaultLimit)
}

func TestSearchMonotonicRelevance(t *testing.T) {
	ix := New(testCorpus())

	// "introduction" matches both intro items equally; "html" pushes the
	// HTML item ahead of CSS (title + token + content hits).
	results := ix.Search("introduction html", "")
	require.True(t, len(results) >= 2)
	assert.Equal(t, "html-intro", results[0].ID)
	assert.Equal(t, "css-intro", results[1].ID)
}

func TestSearchTiesKeepCorpusOrder(t *testing.T) {
	items := []domain.KnowledgeItem{
		{ID: "first", Title: "Graph Traversal", Tokens: []string{"graph"}},
		{ID: "second", Title: "Graph Coloring", Tokens: []string{"graph"}},
		{ID: "third", Title: "Graph Cycles", Tokens: []string{"graph"}},
	}
	ix := New(items)

	results := ix.Search("graph", "")
	require.Len(t, results, 3)
	assert.Equal(t, "first", results[0].ID)
	assert.Equal(t, "second", results[1].ID)
	assert.Equal(t, "third", results[2].ID)
}

func TestSearchContextBoost(t *testing.T) {
	ix := New(testCorpus())

	// Both intro items match "introduction"; the context hint tips CSS over HTML.
	results := ix.Search("introduction", "css")
	require.NotEmpty(t, results)
	assert.Equal(t, "css-intro", results[0].ID)
}

func TestLoadMissingFileDegradesToEmpty(t *testing.T) {
	ix := Load(filepath.Join(t.TempDir(), "nope.json"))

	assert.Equal(t, 0, ix.Len())
	assert.Empty(t, ix.Search("html", ""))
}

func TestLoadCorruptFileDegradesToEmpty(t *testing.T) {
	path := filepath.Join(t.TempDir(), "index.json")
	require.NoError(t, os.WriteFile(path, []byte("{not json"), 0o644))

	ix := Load(path)
	assert.Equal(t, 0, ix.Len())
}

func TestLoadValidFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "index.json")
	payload := `[{"id":"x","title":"X Marks","description":"","content":"x content","tokens":["x"],"type":"concept","url":"/x"}]`
	require.NoError(t, os.WriteFile(path, []byte(payload), 0o644))

	ix := Load(path)
	require.Equal(t, 1, ix.Len())

	results := ix.Search("x", "")
	require.Len(t, results, 1)
	assert.True(t, strings.Contains(results[0].Title, "X"))
}
