package llm

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Rayyan1704/StudyMate/pkg/errors"
)

func TestCachedEmbedSingle(t *testing.T) {
	base := &fakeProvider{name: "fake", model: "m", dimension: 4}
	cached := NewCachedEmbeddingProvider(base, 16)

	ctx := context.Background()
	v1, err := cached.EmbedSingle(ctx, "hello")
	require.NoError(t, err)
	require.Len(t, v1, 4)
	assert.Equal(t, 1, base.calls)

	// second call for the same content hits the cache
	v2, err := cached.EmbedSingle(ctx, "hello")
	require.NoError(t, err)
	assert.Equal(t, v1, v2)
	assert.Equal(t, 1, base.calls)

	stats := cached.CacheStats()
	assert.Equal(t, uint64(1), stats.Hits)
}

func TestCachedEmbedBatchPartialMiss(t *testing.T) {
	base := &fakeProvider{name: "fake", model: "m", dimension: 4}
	cached := NewCachedEmbeddingProvider(base, 16)
	ctx := context.Background()

	// warm one entry
	_, err := cached.EmbedSingle(ctx, "b")
	require.NoError(t, err)
	require.Equal(t, 1, base.calls)

	vecs, err := cached.Embed(ctx, []string{"a", "b", "c"})
	require.NoError(t, err)
	require.Len(t, vecs, 3)
	for _, v := range vecs {
		assert.Len(t, v, 4)
	}

	// one more provider call covering both misses
	assert.Equal(t, 2, base.calls)

	// fully cached batch does not call the provider
	_, err = cached.Embed(ctx, []string{"a", "b", "c"})
	require.NoError(t, err)
	assert.Equal(t, 2, base.calls)
}

func TestCachedEmbedPropagatesError(t *testing.T) {
	base := &fakeProvider{
		name: "fake", model: "m", dimension: 4,
		fail: errors.ErrEmbeddingUnavailable,
	}
	cached := NewCachedEmbeddingProvider(base, 16)

	_, err := cached.Embed(context.Background(), []string{"x"})
	require.Error(t, err)
	assert.True(t, errors.IsCode(err, errors.ErrEmbeddingUnavailable.Code))
}

func TestCachedEmbedEviction(t *testing.T) {
	base := &fakeProvider{name: "fake", model: "m", dimension: 2}
	cached := NewCachedEmbeddingProvider(base, 2)
	ctx := context.Background()

	_, err := cached.Embed(ctx, []string{"a", "b"})
	require.NoError(t, err)
	_, err = cached.EmbedSingle(ctx, "c") // evicts "a"
	require.NoError(t, err)

	calls := base.calls
	_, err = cached.EmbedSingle(ctx, "a")
	require.NoError(t, err)
	assert.Equal(t, calls+1, base.calls, "evicted entry must be re-embedded")
}

func TestCachedEmbedEmpty(t *testing.T) {
	base := &fakeProvider{name: "fake", model: "m", dimension: 2}
	cached := NewCachedEmbeddingProvider(base, 4)

	vecs, err := cached.Embed(context.Background(), nil)
	require.NoError(t, err)
	assert.Nil(t, vecs)
	assert.Equal(t, 0, base.calls)
}

func TestClearCache(t *testing.T) {
	base := &fakeProvider{name: "fake", model: "m", dimension: 2}
	cached := NewCachedEmbeddingProvider(base, 4)
	ctx := context.Background()

	_, err := cached.EmbedSingle(ctx, "x")
	require.NoError(t, err)
	cached.ClearCache()

	_, err = cached.EmbedSingle(ctx, "x")
	require.NoError(t, err)
	assert.Equal(t, 2, base.calls)
}
