package search

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEngine(t *testing.T) {
	e, err := NewMemEngine()
	require.NoError(t, err)
	defer e.Close()

	require.NoError(t, e.Index(1, "Safety violation in the warehouse", "Forklifts operated without training", "safety"))
	require.NoError(t, e.Index(2, "Expense fraud", "Fabricated travel receipts", "finance"))

	t.Run("match by title", func(t *testing.T) {
		hits, err := e.Search("warehouse", 10)
		require.NoError(t, err)
		require.Len(t, hits, 1)
		assert.Equal(t, uint(1), hits[0].ID)
	})

	t.Run("match by description", func(t *testing.T) {
		hits, err := e.Search("receipts", 10)
		require.NoError(t, err)
		require.Len(t, hits, 1)
		assert.Equal(t, uint(2), hits[0].ID)
	})

	t.Run("no match", func(t *testing.T) {
		hits, err := e.Search("unrelated", 10)
		require.NoError(t, err)
		assert.Empty(t, hits)
	})

	t.Run("removed documents stop matching", func(t *testing.T) {
		require.NoError(t, e.Remove(1))
		hits, err := e.Search("warehouse", 10)
		require.NoError(t, err)
		assert.Empty(t, hits)
	})
}
