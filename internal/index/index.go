package index

import "context"

// Match is one nearest-neighbor result: the listing id, its cosine
// similarity to the query vector, and the metadata stored with it.
type Match struct {
	ID       string
	Score    float64
	Metadata map[string]any
}

// Record is a listing to upsert into the index
type Record struct {
	ID        string
	Embedding []float32
	Metadata  map[string]any
}

// Index is the nearest-neighbor query surface consumed by the search
// engine. Implementations must be safe for concurrent use.
type Index interface {
	// Query returns the topK vectors nearest to the query vector,
	// constrained by the filter, with metadata but not raw vectors.
	// Results are ordered most-similar first.
	Query(ctx context.Context, vector []float32, topK int, filter Filter) ([]Match, error)
}
