package port

import "context"

// GenerateOptions bound the sampling behavior of a generation call.
type GenerateOptions struct {
	Temperature float64
	MaxTokens   int
}

// StreamChunk is one fragment of a streamed generation. Err is set at most
// once, as the final chunk, when the stream dies mid-flight.
type StreamChunk struct {
	Content string
	Err     error
}

// AIProvider abstracts the embedding/generation backend. Implementations can
// target Ollama, OpenAI, or any API offering "text -> vector" and
// "prompt -> token stream".
type AIProvider interface {
	// ModelName returns the identifier of the generation model in use.
	ModelName() string

	// Embed generates a retrieval-query embedding for the given text.
	// Returns ErrEmbeddingEmpty when the provider yields no vector and
	// a wrapped ErrAIUnavailable on transport failure.
	Embed(ctx context.Context, text string) ([]float32, error)

	// EmbedBatch generates embeddings for multiple texts in one call.
	EmbedBatch(ctx context.Context, texts []string) ([][]float32, error)

	// GenerateStream sends a system+user prompt and streams the response.
	// The channel closes when generation finishes or ctx is cancelled.
	GenerateStream(ctx context.Context, systemPrompt, userPrompt string, opts GenerateOptions) (<-chan StreamChunk, error)
}
