package search

import (
	"context"
	"fmt"

	"core/internal/index"
	"core/internal/model"
	"core/internal/service"
)

// Engine orchestrates a single search: embed the query, run the filtered
// nearest-neighbor query, and walk the relaxation ladder when the strict
// query comes back empty. Holds no per-request state; safe for concurrent
// use as long as its collaborators are.
type Engine struct {
	embedder service.Embedder
	index    index.Index
}

// NewEngine creates a search engine over the given collaborators
func NewEngine(embedder service.Embedder, idx index.Index) *Engine {
	return &Engine{
		embedder: embedder,
		index:    idx,
	}
}

// relaxStep is one rung of the relaxation ladder: it derives a strictly
// weaker filter from the current one, or reports that it does not apply.
type relaxStep struct {
	name  string
	apply func(index.Filter) (index.Filter, bool)
}

// The ladder drops the most commonly over-specified constraints first and
// converges to an unfiltered query in at most four extra index calls. Each
// step only removes predicates; a step that would leave the filter
// unchanged is skipped.
var relaxSteps = []relaxStep{
	{
		name: "drop-type",
		apply: func(f index.Filter) (index.Filter, bool) {
			if !f.Has("type") {
				return nil, false
			}
			return f.Without("type"), true
		},
	},
	{
		name: "drop-city",
		apply: func(f index.Filter) (index.Filter, bool) {
			if !f.Has("city") {
				return nil, false
			}
			return f.Without("city"), true
		},
	},
	{
		name: "price-only",
		apply: func(f index.Filter) (index.Filter, bool) {
			if !f.Has("price") || len(f) == 1 {
				return nil, false
			}
			return f.Only("price"), true
		},
	},
	{
		name: "unfiltered",
		apply: func(f index.Filter) (index.Filter, bool) {
			if len(f) == 0 {
				return nil, false
			}
			return index.Filter{}, true
		},
	},
}

// Search embeds the query text, compiles the criteria and returns the
// first non-empty result set along the relaxation ladder. Zero matches
// after full relaxation is a valid empty result, not an error. Collaborator
// failures propagate immediately; nothing is retried.
func (e *Engine) Search(ctx context.Context, query string, criteria *model.SearchCriteria, topK int) ([]model.SearchResult, error) {
	vector, err := e.embedder.Embed(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to embed query: %w", err)
	}

	filter := Compile(criteria)

	matches, err := e.index.Query(ctx, vector, topK, filter)
	if err != nil {
		return nil, fmt.Errorf("failed to query index: %w", err)
	}

	for _, step := range relaxSteps {
		if len(matches) > 0 {
			break
		}
		relaxed, ok := step.apply(filter)
		if !ok {
			continue
		}
		filter = relaxed

		matches, err = e.index.Query(ctx, vector, topK, filter)
		if err != nil {
			return nil, fmt.Errorf("failed to query index (%s): %w", step.name, err)
		}
	}

	return Project(matches), nil
}
