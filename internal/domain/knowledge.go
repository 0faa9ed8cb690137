package domain

// KnowledgeItemType classifies entries in the curated lexical corpus.
type KnowledgeItemType string

const (
	KnowledgeConcept  KnowledgeItemType = "concept"
	KnowledgeProblem  KnowledgeItemType = "problem"
	KnowledgeTutorial KnowledgeItemType = "tutorial"
)

// KnowledgeItem is a curated snippet from the course material, loaded once at
// startup from the static knowledge index. Read-only after load.
type KnowledgeItem struct {
	ID          string            `json:"id"`
	Title       string            `json:"title"`
	Description string            `json:"description"`
	Content     string            `json:"content"`
	Tokens      []string          `json:"tokens"`
	Type        KnowledgeItemType `json:"type"`
	URL         string            `json:"url"`
}

// KnowledgeVector is a semantic corpus entry: a snippet plus its precomputed
// embedding, stored in the knowledge_vectors table.
type KnowledgeVector struct {
	ID        string    `json:"id"        db:"id"`
	Heading   string    `json:"heading"   db:"heading"`
	Content   string    `json:"content"   db:"content"`
	Type      string    `json:"type"      db:"type"`
	Embedding []float32 `json:"-"         db:"embedding"`
}

// RetrievalResult is the grounding context assembled for one query.
// HighConfidence is true when at least one vector cleared the relevance
// threshold, which permits the strict-grounding generation policy.
type RetrievalResult struct {
	Context        string
	HighConfidence bool
}
