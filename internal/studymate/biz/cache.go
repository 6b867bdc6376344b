package biz

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"time"

	"github.com/kart-io/logger"
	goredis "github.com/redis/go-redis/v9"

	"github.com/Rayyan1704/StudyMate/internal/model"
)

// RetrievalCacheConfig configures the redis-backed retrieval cache.
type RetrievalCacheConfig struct {
	Enabled   bool
	TTL       time.Duration
	KeyPrefix string
}

// DefaultRetrievalCacheConfig returns the disabled default.
func DefaultRetrievalCacheConfig() *RetrievalCacheConfig {
	return &RetrievalCacheConfig{
		Enabled:   false,
		TTL:       30 * time.Minute,
		KeyPrefix: "sm:retr:",
	}
}

// RetrievalCache caches retrieval results per session. Entries are
// keyed by session plus a hash of mode and query, and the whole
// session prefix is invalidated on any write to the session's corpus.
// A nil redis client disables the cache entirely.
type RetrievalCache struct {
	redis  *goredis.Client
	config *RetrievalCacheConfig
}

// NewRetrievalCache creates a retrieval cache.
func NewRetrievalCache(redis *goredis.Client, config *RetrievalCacheConfig) *RetrievalCache {
	if config == nil {
		config = DefaultRetrievalCacheConfig()
	}
	if config.KeyPrefix == "" {
		config.KeyPrefix = "sm:retr:"
	}
	return &RetrievalCache{redis: redis, config: config}
}

func (c *RetrievalCache) enabled() bool {
	return c != nil && c.config.Enabled && c.redis != nil
}

func (c *RetrievalCache) sessionPrefix(sessionID string) string {
	return c.config.KeyPrefix + sessionID + ":"
}

func (c *RetrievalCache) cacheKey(sessionID, mode, query string) string {
	hash := sha256.Sum256([]byte(mode + "|" + query))
	return c.sessionPrefix(sessionID) + hex.EncodeToString(hash[:])
}

// Get returns the cached result for a query, or nil on miss. Cache
// failures are logged and treated as misses.
func (c *RetrievalCache) Get(ctx context.Context, sessionID, mode, query string) *model.RetrievalResult {
	if !c.enabled() {
		return nil
	}

	key := c.cacheKey(sessionID, mode, query)
	data, err := c.redis.Get(ctx, key).Bytes()
	if err != nil {
		if err != goredis.Nil {
			logger.Warnw("retrieval cache get failed", "error", err.Error(), "key", key)
		}
		return nil
	}

	var result model.RetrievalResult
	if err := json.Unmarshal(data, &result); err != nil {
		logger.Warnw("dropping corrupt retrieval cache entry", "error", err.Error(), "key", key)
		_ = c.redis.Del(ctx, key).Err()
		return nil
	}
	return &result
}

// Set caches a retrieval result. Failures are logged, not returned;
// the cache is best-effort.
func (c *RetrievalCache) Set(ctx context.Context, sessionID string, result *model.RetrievalResult) {
	if !c.enabled() || result == nil {
		return
	}

	data, err := json.Marshal(result)
	if err != nil {
		logger.Warnw("failed to marshal retrieval result for caching", "error", err.Error())
		return
	}

	key := c.cacheKey(sessionID, result.Mode, result.Query)
	if err := c.redis.Set(ctx, key, data, c.config.TTL).Err(); err != nil {
		logger.Warnw("retrieval cache set failed", "error", err.Error(), "key", key)
	}
}

// InvalidateSession drops every cached result for a session. Called
// after ingest completion and on document or session deletion.
func (c *RetrievalCache) InvalidateSession(ctx context.Context, sessionID string) {
	if !c.enabled() {
		return
	}

	pattern := c.sessionPrefix(sessionID) + "*"
	iter := c.redis.Scan(ctx, 0, pattern, 0).Iterator()

	deleted := 0
	for iter.Next(ctx) {
		if err := c.redis.Del(ctx, iter.Val()).Err(); err != nil {
			logger.Warnw("failed to delete retrieval cache key", "error", err.Error(), "key", iter.Val())
			continue
		}
		deleted++
	}
	if err := iter.Err(); err != nil {
		logger.Warnw("retrieval cache invalidation scan failed", "error", err.Error(), "session_id", sessionID)
		return
	}
	if deleted > 0 {
		logger.Debugw("invalidated retrieval cache", "session_id", sessionID, "deleted", deleted)
	}
}

// Stats reports cache state for a session.
func (c *RetrievalCache) Stats(ctx context.Context, sessionID string) map[string]interface{} {
	if !c.enabled() {
		return map[string]interface{}{"enabled": false}
	}

	pattern := c.sessionPrefix(sessionID) + "*"
	iter := c.redis.Scan(ctx, 0, pattern, 0).Iterator()
	keys := 0
	for iter.Next(ctx) {
		keys++
	}
	if err := iter.Err(); err != nil {
		logger.Warnw("retrieval cache stats scan failed", "error", err.Error())
	}

	return map[string]interface{}{
		"enabled":   true,
		"key_count": keys,
		"ttl":       c.config.TTL.String(),
	}
}
