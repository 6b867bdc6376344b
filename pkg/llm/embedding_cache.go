package llm

import (
	"context"
	"crypto/sha256"
	"encoding/hex"

	"github.com/kart-io/logger"

	"github.com/Rayyan1704/StudyMate/pkg/cache"
)

// DefaultEmbeddingCacheSize bounds the in-process embedding cache.
const DefaultEmbeddingCacheSize = 4096

// CachedEmbeddingProvider wraps an EmbeddingProvider with a bounded
// in-process LRU cache keyed by the SHA-256 of the text. Identical
// chunk content across re-uploads is embedded once; eviction keeps
// memory bounded without an external service.
type CachedEmbeddingProvider struct {
	provider EmbeddingProvider
	cache    *cache.LRU[string, []float32]
}

// NewCachedEmbeddingProvider creates a caching wrapper holding at most
// size entries. A size below 1 falls back to DefaultEmbeddingCacheSize.
func NewCachedEmbeddingProvider(provider EmbeddingProvider, size int) *CachedEmbeddingProvider {
	if size < 1 {
		size = DefaultEmbeddingCacheSize
	}
	return &CachedEmbeddingProvider{
		provider: provider,
		cache:    cache.NewLRU[string, []float32](size),
	}
}

func cacheKey(text string) string {
	hash := sha256.Sum256([]byte(text))
	return hex.EncodeToString(hash[:])
}

// EmbedSingle generates an embedding for one text, served from cache
// when the content was seen before.
func (c *CachedEmbeddingProvider) EmbedSingle(ctx context.Context, text string) ([]float32, error) {
	key := cacheKey(text)
	if vec, ok := c.cache.Get(key); ok {
		return vec, nil
	}

	vec, err := c.provider.EmbedSingle(ctx, text)
	if err != nil {
		return nil, err
	}
	c.cache.Set(key, vec)
	return vec, nil
}

// Embed generates embeddings for multiple texts. Cached entries are
// filled locally; the remainder goes to the backend in a single call.
func (c *CachedEmbeddingProvider) Embed(ctx context.Context, texts []string) ([][]float32, error) {
	if len(texts) == 0 {
		return nil, nil
	}

	embeddings := make([][]float32, len(texts))
	var uncachedIndices []int
	var uncachedTexts []string

	for i, text := range texts {
		if vec, ok := c.cache.Get(cacheKey(text)); ok {
			embeddings[i] = vec
			continue
		}
		uncachedIndices = append(uncachedIndices, i)
		uncachedTexts = append(uncachedTexts, text)
	}

	if len(uncachedTexts) == 0 {
		logger.Debugw("all embeddings served from cache", "total", len(texts))
		return embeddings, nil
	}

	logger.Debugw("embedding cache partial miss",
		"total", len(texts),
		"uncached", len(uncachedTexts),
	)

	fresh, err := c.provider.Embed(ctx, uncachedTexts)
	if err != nil {
		return nil, err
	}
	if len(fresh) != len(uncachedTexts) {
		logger.Warnw("provider returned unexpected embedding count",
			"expected", len(uncachedTexts),
			"got", len(fresh),
		)
		return c.provider.Embed(ctx, texts)
	}

	for i, idx := range uncachedIndices {
		embeddings[idx] = fresh[i]
		c.cache.Set(cacheKey(uncachedTexts[i]), fresh[i])
	}

	return embeddings, nil
}

// Name returns the underlying provider name.
func (c *CachedEmbeddingProvider) Name() string {
	return c.provider.Name()
}

// Model returns the underlying model identifier.
func (c *CachedEmbeddingProvider) Model() string {
	return c.provider.Model()
}

// Dimension returns the underlying vector width.
func (c *CachedEmbeddingProvider) Dimension() int {
	return c.provider.Dimension()
}

// ClearCache drops all cached embeddings.
func (c *CachedEmbeddingProvider) ClearCache() {
	c.cache.Clear()
}

// CacheStats returns cache hit/miss counters.
func (c *CachedEmbeddingProvider) CacheStats() cache.Stats {
	return c.cache.Stats()
}

var _ EmbeddingProvider = (*CachedEmbeddingProvider)(nil)
