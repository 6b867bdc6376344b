package vectorindex

import (
	"fmt"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Rayyan1704/StudyMate/pkg/errors"
)

const testVersion = "fake/model/3"

func unit(x, y, z float32) []float32 {
	norm := x*x + y*y + z*z
	if norm == 0 {
		return []float32{0, 0, 0}
	}
	inv := 1 / sqrt32(norm)
	return []float32{x * inv, y * inv, z * inv}
}

func sqrt32(v float32) float32 {
	// Newton iterations are plenty for test vectors
	guess := v
	for i := 0; i < 20; i++ {
		guess = (guess + v/guess) / 2
	}
	return guess
}

func TestInsertAndSearch(t *testing.T) {
	ix := NewIndex(3, testVersion)

	require.NoError(t, ix.Insert("c1", "d1", 0, unit(1, 0, 0)))
	require.NoError(t, ix.Insert("c2", "d1", 1, unit(0, 1, 0)))
	require.NoError(t, ix.Insert("c3", "d2", 0, unit(1, 1, 0)))
	assert.Equal(t, 3, ix.Len())

	hits, err := ix.Search(unit(1, 0, 0), testVersion, 10, 0)
	require.NoError(t, err)
	require.NotEmpty(t, hits)

	assert.Equal(t, "c1", hits[0].ChunkID)
	assert.InDelta(t, 1.0, float64(hits[0].Score), 1e-5)
}

func TestSearchTopK(t *testing.T) {
	ix := NewIndex(3, testVersion)
	for i := 0; i < 10; i++ {
		require.NoError(t, ix.Insert(
			fmt.Sprintf("c%d", i), "d1", i, unit(1, float32(i)*0.1, 0)))
	}

	hits, err := ix.Search(unit(1, 0, 0), testVersion, 3, 0)
	require.NoError(t, err)
	assert.Len(t, hits, 3)

	// scores descend
	for i := 1; i < len(hits); i++ {
		assert.GreaterOrEqual(t, hits[i-1].Score, hits[i].Score)
	}
}

func TestSearchMinScore(t *testing.T) {
	ix := NewIndex(3, testVersion)
	require.NoError(t, ix.Insert("close", "d1", 0, unit(1, 0.1, 0)))
	require.NoError(t, ix.Insert("far", "d1", 1, unit(0, 0, 1)))

	hits, err := ix.Search(unit(1, 0, 0), testVersion, 10, 0.5)
	require.NoError(t, err)
	require.Len(t, hits, 1)
	assert.Equal(t, "close", hits[0].ChunkID)
}

func TestSearchEmptyIndex(t *testing.T) {
	ix := NewIndex(3, testVersion)
	hits, err := ix.Search(unit(1, 0, 0), testVersion, 5, 0)
	require.NoError(t, err)
	assert.Empty(t, hits)
}

func TestSearchTieBreakByOrdinal(t *testing.T) {
	ix := NewIndex(3, testVersion)
	v := unit(1, 2, 3)
	// identical vectors produce identical scores
	require.NoError(t, ix.Insert("z-late", "d1", 5, v))
	require.NoError(t, ix.Insert("a-early", "d1", 2, v))

	hits, err := ix.Search(v, testVersion, 2, 0)
	require.NoError(t, err)
	require.Len(t, hits, 2)
	assert.Equal(t, 2, hits[0].Ordinal)
	assert.Equal(t, 5, hits[1].Ordinal)
}

func TestVersionMismatch(t *testing.T) {
	ix := NewIndex(3, testVersion)
	require.NoError(t, ix.Insert("c1", "d1", 0, unit(1, 0, 0)))

	_, err := ix.Search(unit(1, 0, 0), "other/model/3", 5, 0)
	require.Error(t, err)
	assert.True(t, errors.IsCode(err, errors.ErrIndexVersionMismatch.Code))
}

func TestDimensionMismatch(t *testing.T) {
	ix := NewIndex(3, testVersion)

	err := ix.Insert("c1", "d1", 0, []float32{1, 0})
	require.Error(t, err)
	assert.True(t, errors.IsCode(err, errors.ErrDimensionMismatch.Code))

	_, err = ix.Search([]float32{1, 0}, testVersion, 5, 0)
	require.Error(t, err)
	assert.True(t, errors.IsCode(err, errors.ErrDimensionMismatch.Code))
}

func TestInsertReplacesExistingChunk(t *testing.T) {
	ix := NewIndex(3, testVersion)
	require.NoError(t, ix.Insert("c1", "d1", 0, unit(1, 0, 0)))
	require.NoError(t, ix.Insert("c1", "d1", 0, unit(0, 1, 0)))
	assert.Equal(t, 1, ix.Len())

	hits, err := ix.Search(unit(0, 1, 0), testVersion, 1, 0.9)
	require.NoError(t, err)
	require.Len(t, hits, 1)
	assert.Equal(t, "c1", hits[0].ChunkID)
}

func TestDeleteByDocument(t *testing.T) {
	ix := NewIndex(3, testVersion)
	require.NoError(t, ix.Insert("c1", "d1", 0, unit(1, 0, 0)))
	require.NoError(t, ix.Insert("c2", "d1", 1, unit(0, 1, 0)))
	require.NoError(t, ix.Insert("c3", "d2", 0, unit(0, 0, 1)))

	removed := ix.DeleteByDocument("d1")
	assert.Equal(t, 2, removed)
	assert.Equal(t, 1, ix.Len())

	// idempotent
	assert.Equal(t, 0, ix.DeleteByDocument("d1"))

	// remaining chunk still searchable after rebuild
	hits, err := ix.Search(unit(0, 0, 1), testVersion, 5, 0)
	require.NoError(t, err)
	require.Len(t, hits, 1)
	assert.Equal(t, "c3", hits[0].ChunkID)

	// and replaceable
	require.NoError(t, ix.Insert("c3", "d2", 0, unit(1, 0, 0)))
	assert.Equal(t, 1, ix.Len())
}

func TestConcurrentSearchDuringInsert(t *testing.T) {
	ix := NewIndex(3, testVersion)
	var wg sync.WaitGroup

	wg.Add(1)
	go func() {
		defer wg.Done()
		for i := 0; i < 500; i++ {
			_ = ix.Insert(fmt.Sprintf("c%d", i), "d1", i, unit(1, float32(i), 0))
		}
	}()

	for g := 0; g < 4; g++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := 0; i < 200; i++ {
				hits, err := ix.Search(unit(1, 0, 0), testVersion, 5, 0)
				assert.NoError(t, err)
				assert.LessOrEqual(t, len(hits), 5)
			}
		}()
	}
	wg.Wait()
	assert.Equal(t, 500, ix.Len())
}
