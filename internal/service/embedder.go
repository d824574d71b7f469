package service

import "context"

// Embedder produces fixed-length embedding vectors for free text. The
// contract is semantic stability: the same text yields a comparable vector
// across calls. Implementations must be safe for concurrent use.
type Embedder interface {
	// Embed returns the embedding vector for a single text
	Embed(ctx context.Context, text string) ([]float32, error)

	// EmbedBatch returns one embedding per input text, in input order
	EmbedBatch(ctx context.Context, texts []string) ([][]float32, error)
}

// Ensure implementations satisfy Embedder
var (
	_ Embedder = (*OpenAIClient)(nil)
	_ Embedder = (*CachedEmbedder)(nil)
)
