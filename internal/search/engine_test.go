package search

import (
	"context"
	"errors"
	"testing"

	"core/internal/index"
	"core/internal/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeEmbedder struct {
	vector []float32
	err    error
	calls  int
}

func (f *fakeEmbedder) Embed(ctx context.Context, text string) ([]float32, error) {
	f.calls++
	if f.err != nil {
		return nil, f.err
	}
	return f.vector, nil
}

func (f *fakeEmbedder) EmbedBatch(ctx context.Context, texts []string) ([][]float32, error) {
	out := make([][]float32, len(texts))
	for i := range texts {
		out[i] = f.vector
	}
	return out, nil
}

// fakeIndex answers queries through respond and records every filter it saw
type fakeIndex struct {
	respond func(filter index.Filter) []index.Match
	err     error
	filters []index.Filter
}

func (f *fakeIndex) Query(ctx context.Context, vector []float32, topK int, filter index.Filter) ([]index.Match, error) {
	f.filters = append(f.filters, filter.Clone())
	if f.err != nil {
		return nil, f.err
	}
	return f.respond(filter), nil
}

func apartmentMatch() index.Match {
	return index.Match{
		ID:    "lst-1",
		Score: 0.91,
		Metadata: map[string]any{
			"type":  "apartment",
			"price": 480000.0,
			"city":  "downtown",
		},
	}
}

func TestEngine_StrictQueryHit(t *testing.T) {
	// Scenario: matching apartment exists, no relaxation needed
	idx := &fakeIndex{
		respond: func(filter index.Filter) []index.Match {
			return []index.Match{apartmentMatch()}
		},
	}
	engine := NewEngine(&fakeEmbedder{vector: []float32{0.1, 0.2}}, idx)

	criteria := &model.SearchCriteria{
		PriceMax:     floatPtr(500000),
		PropertyType: "apartment",
	}

	results, err := engine.Search(context.Background(), "modern flat downtown", criteria, 5)
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.Len(t, idx.filters, 1)

	assert.Equal(t, "lst-1", results[0]["id"])
	assert.Equal(t, 0.91, results[0]["score"])
	assert.Equal(t, "apartment", results[0]["type"])
	assert.Equal(t, 480000.0, results[0]["price"])
}

func TestEngine_FullRelaxationLadder(t *testing.T) {
	// Scenario: nothing matches type or city; only the unfiltered query
	// returns the globally most-similar listings
	idx := &fakeIndex{
		respond: func(filter index.Filter) []index.Match {
			if len(filter) == 0 {
				return []index.Match{apartmentMatch()}
			}
			return nil
		},
	}
	engine := NewEngine(&fakeEmbedder{vector: []float32{0.1}}, idx)

	criteria := &model.SearchCriteria{
		PropertyType: "castle",
		City:         "nowhere",
	}

	results, err := engine.Search(context.Background(), "modern flat downtown", criteria, 5)
	require.NoError(t, err)
	require.Len(t, results, 1)

	// initial {type, city} -> drop type -> drop city (now empty) -> hit
	require.Len(t, idx.filters, 3)
	assert.True(t, idx.filters[0].Has("type"))
	assert.True(t, idx.filters[0].Has("city"))
	assert.False(t, idx.filters[1].Has("type"))
	assert.True(t, idx.filters[1].Has("city"))
	assert.Empty(t, idx.filters[2])
}

func TestEngine_PriceOnlyStep(t *testing.T) {
	// Scenario: a listing matches the budget but nothing else; the ladder
	// must reach the price-only rung before it finds it
	idx := &fakeIndex{
		respond: func(filter index.Filter) []index.Match {
			if len(filter) == 1 && filter.Has("price") {
				return []index.Match{apartmentMatch()}
			}
			return nil
		},
	}
	engine := NewEngine(&fakeEmbedder{vector: []float32{0.1}}, idx)

	criteria := &model.SearchCriteria{
		PriceMax:     floatPtr(500000),
		PropertyType: "castle",
		City:         "nowhere",
		Amenities:    []string{"Moat"},
	}

	results, err := engine.Search(context.Background(), "modern flat downtown", criteria, 5)
	require.NoError(t, err)
	require.Len(t, results, 1)

	// initial -> drop type -> drop city -> price only
	require.Len(t, idx.filters, 4)
	last := idx.filters[3]
	assert.Len(t, last, 1)
	assert.True(t, last.Has("price"))
}

func TestEngine_EmptyIndex(t *testing.T) {
	// Scenario: empty index; full relaxation still yields a valid empty
	// response, not an error
	idx := &fakeIndex{
		respond: func(filter index.Filter) []index.Match { return nil },
	}
	engine := NewEngine(&fakeEmbedder{vector: []float32{0.1}}, idx)

	criteria := &model.SearchCriteria{
		PropertyType: "apartment",
		City:         "downtown",
		PriceMax:     floatPtr(500000),
	}

	results, err := engine.Search(context.Background(), "anything", criteria, 5)
	require.NoError(t, err)
	assert.Empty(t, results)
	assert.NotNil(t, results)
}

func TestEngine_RelaxationMonotonicity(t *testing.T) {
	// Each relaxation step must be a strict predicate subset of the
	// previous one: constraints are only ever removed
	idx := &fakeIndex{
		respond: func(filter index.Filter) []index.Match { return nil },
	}
	engine := NewEngine(&fakeEmbedder{vector: []float32{0.1}}, idx)

	criteria := &model.SearchCriteria{
		PriceMin:     floatPtr(100000),
		PriceMax:     floatPtr(500000),
		PropertyType: "apartment",
		City:         "downtown",
		Bedrooms:     intPtr(3),
		Amenities:    []string{"Pool"},
	}

	_, err := engine.Search(context.Background(), "flat", criteria, 5)
	require.NoError(t, err)
	require.Greater(t, len(idx.filters), 1)

	for i := 1; i < len(idx.filters); i++ {
		prev, curr := idx.filters[i-1], idx.filters[i]
		assert.Less(t, len(curr), len(prev), "step %d must remove predicates", i)
		for field := range curr {
			assert.True(t, prev.Has(field), "step %d added field %q", i, field)
		}
	}
}

func TestEngine_EmbeddingFailureIsFatal(t *testing.T) {
	idx := &fakeIndex{
		respond: func(filter index.Filter) []index.Match { return nil },
	}
	engine := NewEngine(&fakeEmbedder{err: errors.New("model unavailable")}, idx)

	_, err := engine.Search(context.Background(), "flat", &model.SearchCriteria{}, 5)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to embed query")
	assert.Empty(t, idx.filters)
}

func TestEngine_IndexFailureIsFatal(t *testing.T) {
	idx := &fakeIndex{err: errors.New("connection refused")}
	engine := NewEngine(&fakeEmbedder{vector: []float32{0.1}}, idx)

	_, err := engine.Search(context.Background(), "flat", &model.SearchCriteria{}, 5)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to query index")
}

func TestEngine_Idempotence(t *testing.T) {
	idx := &fakeIndex{
		respond: func(filter index.Filter) []index.Match {
			return []index.Match{
				apartmentMatch(),
				{ID: "lst-2", Score: 0.80, Metadata: map[string]any{"type": "villa"}},
			}
		},
	}
	engine := NewEngine(&fakeEmbedder{vector: []float32{0.1}}, idx)
	criteria := &model.SearchCriteria{PropertyType: "apartment"}

	first, err := engine.Search(context.Background(), "flat", criteria, 5)
	require.NoError(t, err)
	second, err := engine.Search(context.Background(), "flat", criteria, 5)
	require.NoError(t, err)

	assert.Equal(t, first, second)
}
