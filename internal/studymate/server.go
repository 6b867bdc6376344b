package studymate

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/kart-io/logger"
	goredis "github.com/redis/go-redis/v9"

	"github.com/Rayyan1704/StudyMate/internal/studymate/biz"
	"github.com/Rayyan1704/StudyMate/internal/studymate/handler"
	"github.com/Rayyan1704/StudyMate/internal/studymate/router"
	"github.com/Rayyan1704/StudyMate/internal/studymate/store"
	"github.com/Rayyan1704/StudyMate/pkg/llm"
	_ "github.com/Rayyan1704/StudyMate/pkg/llm/ollama"
	_ "github.com/Rayyan1704/StudyMate/pkg/llm/openai"
	"github.com/Rayyan1704/StudyMate/pkg/llm/resilience"
	"github.com/Rayyan1704/StudyMate/pkg/pool"
)

// Server is the assembled StudyMate HTTP server.
type Server struct {
	opts       *Options
	engine     *biz.Engine
	httpServer *http.Server
	redis      *goredis.Client
}

// NewServer builds the full service from validated options: logger,
// metadata store, optional redis cache, embedding provider, worker
// pool, retrieval engine, and HTTP routes.
func NewServer(opts *Options) (*Server, error) {
	if err := opts.Log.Init(); err != nil {
		return nil, fmt.Errorf("failed to initialize logger: %w", err)
	}

	gin.SetMode(opts.Server.Mode)

	factory, err := store.NewSQLiteFactory(opts.Store.Path)
	if err != nil {
		return nil, fmt.Errorf("failed to open metadata store: %w", err)
	}

	redisClient := connectRedis(opts.Cache)

	provider, err := llm.NewEmbeddingProvider(opts.Embedding.Provider, opts.Embedding.ToConfigMap())
	if err != nil {
		factory.Close()
		return nil, fmt.Errorf("failed to create embedding provider: %w", err)
	}
	// providers retry transient failures themselves, the outer wrapper
	// only contributes the circuit breaker
	retryConfig := resilience.DefaultRetryConfig()
	retryConfig.MaxAttempts = 1
	resilient := resilience.NewResilientEmbeddingProvider(provider, retryConfig, nil)
	embedder := llm.NewCachedEmbeddingProvider(resilient, opts.Embedding.CacheSize)

	poolConfig := pool.IngestPoolConfig()
	poolConfig.Capacity = opts.Engine.IngestWorkers
	ingestPool, err := pool.NewPool("ingest", pool.IngestPool, poolConfig)
	if err != nil {
		factory.Close()
		return nil, fmt.Errorf("failed to create ingest pool: %w", err)
	}

	engineConfig := &biz.EngineConfig{
		ChunkSize:      opts.Engine.ChunkSize,
		ChunkOverlap:   opts.Engine.ChunkOverlap,
		MinScore:       opts.Engine.MinScore,
		TokenBudget:    opts.Engine.TokenBudget,
		HistoryWindow:  opts.Engine.HistoryWindow,
		EmbedBatchSize: opts.Engine.EmbedBatchSize,
		MaxFileSize:    opts.Engine.MaxFileSize,
		Cache: &biz.RetrievalCacheConfig{
			Enabled:   opts.Cache.Enabled && redisClient != nil,
			TTL:       opts.Cache.TTL,
			KeyPrefix: opts.Cache.KeyPrefix,
		},
	}
	engine := biz.NewEngine(engineConfig, factory, embedder, ingestPool, redisClient)

	handlers := &router.Handlers{
		Session:  handler.NewSessionHandler(engine),
		Document: handler.NewDocumentHandler(engine),
		Context:  handler.NewContextHandler(engine),
		Health:   handler.NewHealthHandler(),
	}
	ginEngine := router.Register(handlers)
	ginEngine.MaxMultipartMemory = opts.Server.MaxUploadSize

	httpServer := &http.Server{
		Addr:         opts.Server.Addr,
		Handler:      ginEngine,
		ReadTimeout:  opts.Server.ReadTimeout,
		WriteTimeout: opts.Server.WriteTimeout,
	}

	logger.Infow("StudyMate server assembled",
		"addr", opts.Server.Addr,
		"store", opts.Store.Path,
		"embedding_provider", opts.Embedding.Provider,
		"embedding_version", engine.EmbeddingVersion(),
		"cache_enabled", engineConfig.Cache.Enabled,
	)

	return &Server{
		opts:       opts,
		engine:     engine,
		httpServer: httpServer,
		redis:      redisClient,
	}, nil
}

// connectRedis dials redis when the cache is enabled. A failed ping
// disables the cache rather than failing startup.
func connectRedis(opts *CacheOptions) *goredis.Client {
	if opts == nil || !opts.Enabled {
		return nil
	}

	client := goredis.NewClient(&goredis.Options{
		Addr:         fmt.Sprintf("%s:%d", opts.Redis.Host, opts.Redis.Port),
		Password:     opts.Redis.Password,
		DB:           opts.Redis.Database,
		MaxRetries:   opts.Redis.MaxRetries,
		PoolSize:     opts.Redis.PoolSize,
		MinIdleConns: opts.Redis.MinIdleConns,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		logger.Warnw("redis unavailable, retrieval cache disabled",
			"addr", client.Options().Addr, "error", err)
		client.Close()
		return nil
	}

	logger.Infow("redis connected", "addr", client.Options().Addr)
	return client
}

// Run starts the HTTP server and blocks until a shutdown signal.
func (s *Server) Run() error {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	if err := s.engine.Startup(ctx); err != nil {
		cancel()
		return fmt.Errorf("engine startup failed: %w", err)
	}
	cancel()

	errCh := make(chan error, 1)
	go func() {
		logger.Infow("HTTP server listening", "addr", s.httpServer.Addr)
		if err := s.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-errCh:
		s.shutdown()
		return err
	case sig := <-quit:
		logger.Infow("shutdown signal received", "signal", sig.String())
	}

	return s.shutdown()
}

// shutdown stops accepting requests, drains in-flight ingestion, and
// releases resources.
func (s *Server) shutdown() error {
	ctx, cancel := context.WithTimeout(context.Background(), s.opts.Server.ShutdownTimeout)
	defer cancel()

	if err := s.httpServer.Shutdown(ctx); err != nil {
		logger.Errorw("HTTP server shutdown error", "error", err)
	}

	if err := s.engine.Close(); err != nil {
		logger.Errorw("engine close error", "error", err)
	}

	if s.redis != nil {
		if err := s.redis.Close(); err != nil {
			logger.Errorw("redis close error", "error", err)
		}
	}

	logger.Info("StudyMate server stopped")
	return nil
}
