package store

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/studenthub/tutor-engine/internal/domain"
)

// VectorStore handles pgvector-specific operations for the
// knowledge_vectors collection. Read-mostly: the engine only writes through
// the offline indexer.
type VectorStore struct {
	store     *PostgresStore
	dimension int
}

// NewVectorStore creates a vector store backed by the given Postgres store.
func NewVectorStore(store *PostgresStore, dimension int) *VectorStore {
	return &VectorStore{store: store, dimension: dimension}
}

// ListKnowledgeVectors fetches the whole semantic corpus. Only the fields
// the retriever needs are selected.
func (v *VectorStore) ListKnowledgeVectors(ctx context.Context) ([]domain.KnowledgeVector, error) {
	query := `SELECT id, heading, content, type, embedding::text FROM knowledge_vectors`

	rows, err := v.store.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("list knowledge vectors: %w", err)
	}
	defer rows.Close()

	var vectors []domain.KnowledgeVector
	for rows.Next() {
		var kv domain.KnowledgeVector
		var raw string
		if err := rows.Scan(&kv.ID, &kv.Heading, &kv.Content, &kv.Type, &raw); err != nil {
			return nil, fmt.Errorf("scan knowledge vector: %w", err)
		}
		kv.Embedding, err = parseVector(raw)
		if err != nil {
			return nil, fmt.Errorf("knowledge vector %s: %w", kv.ID, err)
		}
		vectors = append(vectors, kv)
	}
	return vectors, rows.Err()
}

// UpsertKnowledgeVectors replaces rows by id. Used by cmd/indexer when the
// curated corpus is re-embedded.
func (v *VectorStore) UpsertKnowledgeVectors(ctx context.Context, vectors []domain.KnowledgeVector) error {
	if len(vectors) == 0 {
		return nil
	}

	tx, err := v.store.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	stmt, err := tx.PrepareContext(ctx,
		`INSERT INTO knowledge_vectors (id, heading, content, type, embedding)
		 VALUES ($1, $2, $3, $4, $5::vector)
		 ON CONFLICT (id) DO UPDATE SET
			heading = EXCLUDED.heading,
			content = EXCLUDED.content,
			type = EXCLUDED.type,
			embedding = EXCLUDED.embedding`)
	if err != nil {
		return fmt.Errorf("prepare: %w", err)
	}
	defer stmt.Close()

	for _, kv := range vectors {
		if _, err := stmt.ExecContext(ctx, kv.ID, kv.Heading, kv.Content, kv.Type, vectorToString(kv.Embedding)); err != nil {
			return fmt.Errorf("upsert knowledge vector %s: %w", kv.ID, err)
		}
	}

	return tx.Commit()
}

// vectorToString converts a float32 slice to pgvector string format: [0.1,0.2,0.3].
func vectorToString(v []float32) string {
	parts := make([]string, len(v))
	for i, val := range v {
		parts[i] = fmt.Sprintf("%g", val)
	}
	return "[" + strings.Join(parts, ",") + "]"
}

// parseVector is the inverse of vectorToString.
func parseVector(s string) ([]float32, error) {
	s = strings.TrimSpace(s)
	s = strings.TrimPrefix(s, "[")
	s = strings.TrimSuffix(s, "]")
	if s == "" {
		return nil, nil
	}

	parts := strings.Split(s, ",")
	vec := make([]float32, len(parts))
	for i, p := range parts {
		f, err := strconv.ParseFloat(strings.TrimSpace(p), 32)
		if err != nil {
			return nil, fmt.Errorf("parse vector component %d: %w", i, err)
		}
		vec[i] = float32(f)
	}
	return vec, nil
}
