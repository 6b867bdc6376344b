package biz

import (
	"context"
	"time"

	"github.com/kart-io/logger"
	goredis "github.com/redis/go-redis/v9"

	"github.com/Rayyan1704/StudyMate/internal/pkg/docproc"
	"github.com/Rayyan1704/StudyMate/internal/studymate/store"
	"github.com/Rayyan1704/StudyMate/pkg/llm"
	"github.com/Rayyan1704/StudyMate/pkg/pool"
	"github.com/Rayyan1704/StudyMate/pkg/vectorindex"
)

// EngineConfig carries the engine's tuning knobs.
type EngineConfig struct {
	ChunkSize      int
	ChunkOverlap   int
	MinScore       float32
	TokenBudget    int
	HistoryWindow  int
	EmbedBatchSize int
	MaxFileSize    int64
	Cache          *RetrievalCacheConfig
}

// DefaultEngineConfig returns the engine defaults.
func DefaultEngineConfig() *EngineConfig {
	return &EngineConfig{
		ChunkSize:      1000,
		ChunkOverlap:   200,
		MinScore:       0.25,
		TokenBudget:    4096,
		HistoryWindow:  20,
		EmbedBatchSize: 32,
		MaxFileSize:    20 << 20,
		Cache:          DefaultRetrievalCacheConfig(),
	}
}

// Engine is the retrieval engine: it owns ingestion, per-session
// indexes, retrieval, context assembly, and session lifecycle.
type Engine struct {
	config    *EngineConfig
	factory   store.Factory
	indexes   *vectorindex.Manager
	embedder  llm.EmbeddingProvider
	processor *docproc.Processor
	pool      *pool.Pool
	cache     *RetrievalCache
	retriever *Retriever
	assembler *Assembler
	guards    *guardSet
}

// NewEngine assembles the engine. The redis client may be nil, which
// disables the retrieval cache.
func NewEngine(config *EngineConfig, factory store.Factory, embedder llm.EmbeddingProvider, ingestPool *pool.Pool, redis *goredis.Client) *Engine {
	if config == nil {
		config = DefaultEngineConfig()
	}

	indexes := vectorindex.NewManager(embedder.Dimension(), llm.Version(embedder))
	cache := NewRetrievalCache(redis, config.Cache)

	return &Engine{
		config:    config,
		factory:   factory,
		indexes:   indexes,
		embedder:  embedder,
		processor: docproc.NewProcessor(config.MaxFileSize),
		pool:      ingestPool,
		cache:     cache,
		retriever: NewRetriever(embedder, indexes, factory, config.MinScore),
		assembler: NewAssembler(config.TokenBudget, config.HistoryWindow),
		guards:    newGuardSet(),
	}
}

// Indexes exposes the index arena for stats reporting.
func (e *Engine) Indexes() *vectorindex.Manager {
	return e.indexes
}

// EmbeddingVersion returns the version string the indexes are pinned to.
func (e *Engine) EmbeddingVersion() string {
	return llm.Version(e.embedder)
}

// Close drains the ingest pool and closes the store.
func (e *Engine) Close() error {
	if e.pool != nil {
		if err := e.pool.ReleaseTimeout(30 * time.Second); err != nil {
			logger.Warnw("ingest pool did not drain cleanly", "error", err.Error())
		}
	}
	return e.factory.Close()
}

// Startup reconciles the durable store with the in-memory indexes:
// it resumes interrupted delete cascades, fails documents stranded in
// pending by a crash, and rebuilds each session's index from the
// persisted chunk embeddings so retrieval matches what the listings
// report.
func (e *Engine) Startup(ctx context.Context) error {
	if err := e.sweepOrphans(ctx); err != nil {
		return err
	}
	if err := e.failInterrupted(ctx); err != nil {
		return err
	}
	return e.rebuildIndexes(ctx)
}
