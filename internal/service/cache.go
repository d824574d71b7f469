package service

import (
	"context"
	"time"

	"github.com/karlseguin/ccache/v3"
)

// CachedEmbedder wraps an Embedder with an in-process LRU so repeated
// query texts skip the upstream embedding call. Entries are TTL-bounded;
// the cache is keyed by the exact text.
type CachedEmbedder struct {
	inner Embedder
	cache *ccache.Cache[[]float32]
	ttl   time.Duration
}

// NewCachedEmbedder creates a caching layer over the given embedder
func NewCachedEmbedder(inner Embedder, maxEntries int64, ttl time.Duration) *CachedEmbedder {
	return &CachedEmbedder{
		inner: inner,
		cache: ccache.New(ccache.Configure[[]float32]().MaxSize(maxEntries)),
		ttl:   ttl,
	}
}

// Embed returns a cached vector when available, otherwise delegates and
// stores the result
func (c *CachedEmbedder) Embed(ctx context.Context, text string) ([]float32, error) {
	if item := c.cache.Get(text); item != nil && !item.Expired() {
		return item.Value(), nil
	}

	vector, err := c.inner.Embed(ctx, text)
	if err != nil {
		return nil, err
	}

	c.cache.Set(text, vector, c.ttl)
	return vector, nil
}

// EmbedBatch delegates to the wrapped embedder without caching; batch
// inputs are listing documents, not repeated user queries
func (c *CachedEmbedder) EmbedBatch(ctx context.Context, texts []string) ([][]float32, error) {
	return c.inner.EmbedBatch(ctx, texts)
}
