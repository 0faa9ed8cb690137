// Command indexer re-embeds the curated knowledge corpus and loads the
// vectors into Postgres. Run it whenever the course material changes:
//
//	go run ./cmd/indexer -input data/knowledgeVectors.json
//
// The input file holds the semantic corpus entries without embeddings;
// the indexer batches them through the embedding endpoint and upserts
// the result into knowledge_vectors.
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/joho/godotenv"

	"github.com/studenthub/tutor-engine/internal/adapter/ai"
	"github.com/studenthub/tutor-engine/internal/adapter/store"
	"github.com/studenthub/tutor-engine/internal/domain"
	"github.com/studenthub/tutor-engine/pkg/config"

	_ "github.com/lib/pq"
)

const embedBatchSize = 16

type corpusEntry struct {
	ID      string `json:"id"`
	Heading string `json:"heading"`
	Content string `json:"content"`
	Type    string `json:"type"`
}

func main() {
	inputPath := flag.String("input", "data/knowledgeVectors.json", "path to the semantic corpus JSON")
	timeout := flag.Duration("timeout", 10*time.Minute, "overall deadline for the run")
	flag.Parse()

	_ = godotenv.Load()
	cfg := config.Load()

	ctx, cancel := context.WithTimeout(context.Background(), *timeout)
	defer cancel()

	if err := run(ctx, cfg, *inputPath); err != nil {
		slog.Error("indexing failed", "error", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, cfg *config.Config, inputPath string) error {
	raw, err := os.ReadFile(inputPath)
	if err != nil {
		return fmt.Errorf("read corpus: %w", err)
	}

	var entries []corpusEntry
	if err := json.Unmarshal(raw, &entries); err != nil {
		return fmt.Errorf("parse corpus: %w", err)
	}
	if len(entries) == 0 {
		return fmt.Errorf("corpus %s is empty", inputPath)
	}
	slog.Info("corpus loaded", "path", inputPath, "entries", len(entries))

	pgStore, err := store.NewPostgresStore(cfg.DatabaseURL)
	if err != nil {
		return fmt.Errorf("connect database: %w", err)
	}
	defer pgStore.Close()

	vectorStore := store.NewVectorStore(pgStore, cfg.EmbeddingDimension)

	provider := ai.NewOllamaProvider(
		ai.EndpointConfig{
			BaseURL: cfg.OllamaEmbedURL,
			Model:   cfg.OllamaEmbedModel,
			Token:   cfg.OllamaEmbedToken,
		},
		ai.EndpointConfig{
			BaseURL: cfg.OllamaChatURL,
			Model:   cfg.OllamaChatModel,
			Token:   cfg.OllamaChatToken,
		},
	)

	var vectors []domain.KnowledgeVector
	for start := 0; start < len(entries); start += embedBatchSize {
		end := start + embedBatchSize
		if end > len(entries) {
			end = len(entries)
		}
		batch := entries[start:end]

		texts := make([]string, len(batch))
		for i, e := range batch {
			// Heading plus content in one passage: queries match either.
			texts[i] = e.Heading + "\n" + e.Content
		}

		embeddings, err := provider.EmbedBatch(ctx, texts)
		if err != nil {
			return fmt.Errorf("embed batch %d-%d: %w", start, end, err)
		}

		for i, e := range batch {
			if len(embeddings[i]) != cfg.EmbeddingDimension {
				return fmt.Errorf("entry %s: got %d dimensions, want %d", e.ID, len(embeddings[i]), cfg.EmbeddingDimension)
			}
			vectors = append(vectors, domain.KnowledgeVector{
				ID:        e.ID,
				Heading:   e.Heading,
				Content:   e.Content,
				Type:      e.Type,
				Embedding: embeddings[i],
			})
		}
		slog.Info("batch embedded", "done", end, "total", len(entries))
	}

	if err := vectorStore.UpsertKnowledgeVectors(ctx, vectors); err != nil {
		return fmt.Errorf("upsert vectors: %w", err)
	}

	slog.Info("✅ corpus indexed", "vectors", len(vectors), "model", cfg.OllamaEmbedModel)
	return nil
}
