package search

import (
	"testing"

	"core/internal/index"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestProject_MergesMetadataWithIDAndScore(t *testing.T) {
	matches := []index.Match{
		{ID: "a", Score: 0.9, Metadata: map[string]any{"city": "downtown", "price": 100.0}},
		{ID: "b", Score: 0.7, Metadata: nil},
	}

	results := Project(matches)
	require.Len(t, results, 2)

	assert.Equal(t, "a", results[0]["id"])
	assert.Equal(t, 0.9, results[0]["score"])
	assert.Equal(t, "downtown", results[0]["city"])
	assert.Equal(t, 100.0, results[0]["price"])

	// absent metadata is an empty record, never a fault
	assert.Equal(t, "b", results[1]["id"])
	assert.Equal(t, 0.7, results[1]["score"])
	assert.Len(t, results[1], 2)
}

func TestProject_PreservesOrder(t *testing.T) {
	matches := []index.Match{
		{ID: "first", Score: 0.5},
		{ID: "second", Score: 0.9},
		{ID: "third", Score: 0.1},
	}

	results := Project(matches)
	require.Len(t, results, 3)
	assert.Equal(t, "first", results[0]["id"])
	assert.Equal(t, "second", results[1]["id"])
	assert.Equal(t, "third", results[2]["id"])
}

func TestProject_Empty(t *testing.T) {
	results := Project(nil)
	assert.NotNil(t, results)
	assert.Empty(t, results)
}
