// Package studymate provides the StudyMate service application.
package studymate

import (
	"fmt"
	"time"

	"github.com/spf13/pflag"

	logopts "github.com/Rayyan1704/StudyMate/pkg/options/logger"
)

// Options contains all StudyMate service options.
type Options struct {
	// Server contains HTTP server configuration.
	Server *ServerOptions `json:"server" mapstructure:"server"`

	// Log contains logger configuration.
	Log *logopts.Options `json:"log" mapstructure:"log"`

	// Store contains metadata store configuration.
	Store *StoreOptions `json:"store" mapstructure:"store"`

	// Embedding contains the embedding provider configuration.
	Embedding *ProviderOptions `json:"embedding" mapstructure:"embedding"`

	// Engine contains retrieval engine tuning.
	Engine *EngineOptions `json:"engine" mapstructure:"engine"`

	// Cache contains retrieval cache configuration.
	Cache *CacheOptions `json:"cache" mapstructure:"cache"`
}

// ServerOptions contains HTTP server configuration.
type ServerOptions struct {
	// Addr is the listen address.
	Addr string `json:"addr" mapstructure:"addr"`

	// Mode is the gin mode (debug, release, test).
	Mode string `json:"mode" mapstructure:"mode"`

	// ReadTimeout is the request read timeout.
	ReadTimeout time.Duration `json:"read-timeout" mapstructure:"read-timeout"`

	// WriteTimeout is the response write timeout.
	WriteTimeout time.Duration `json:"write-timeout" mapstructure:"write-timeout"`

	// ShutdownTimeout bounds graceful shutdown.
	ShutdownTimeout time.Duration `json:"shutdown-timeout" mapstructure:"shutdown-timeout"`

	// MaxUploadSize caps multipart memory buffering.
	MaxUploadSize int64 `json:"max-upload-size" mapstructure:"max-upload-size"`
}

// StoreOptions contains metadata store configuration.
type StoreOptions struct {
	// Path is the sqlite database file, or ":memory:".
	Path string `json:"path" mapstructure:"path"`
}

// ProviderOptions configures the embedding provider.
type ProviderOptions struct {
	// Provider is the provider name (ollama, openai).
	Provider string `json:"provider" mapstructure:"provider"`

	// BaseURL is the provider API base URL.
	BaseURL string `json:"base-url" mapstructure:"base-url"`

	// APIKey is the API key (required for openai).
	APIKey string `json:"api-key" mapstructure:"api-key"`

	// Model is the embedding model name.
	Model string `json:"model" mapstructure:"model"`

	// Dimension is the embedding vector dimension.
	Dimension int `json:"dimension" mapstructure:"dimension"`

	// Timeout is the per-request timeout.
	Timeout time.Duration `json:"timeout" mapstructure:"timeout"`

	// MaxRetries is the retry count for transient failures.
	MaxRetries int `json:"max-retries" mapstructure:"max-retries"`

	// CacheSize is the embedding LRU cache capacity in entries.
	CacheSize int `json:"cache-size" mapstructure:"cache-size"`
}

// ToConfigMap converts the provider options into the config map the
// provider factory consumes.
func (o *ProviderOptions) ToConfigMap() map[string]any {
	return map[string]any{
		"base_url":    o.BaseURL,
		"api_key":     o.APIKey,
		"embed_model": o.Model,
		"dimension":   o.Dimension,
		"timeout":     o.Timeout,
		"max_retries": o.MaxRetries,
	}
}

// EngineOptions contains retrieval engine tuning.
type EngineOptions struct {
	// ChunkSize is the chunk target length in characters.
	ChunkSize int `json:"chunk-size" mapstructure:"chunk-size"`

	// ChunkOverlap is the overlap between consecutive chunks.
	ChunkOverlap int `json:"chunk-overlap" mapstructure:"chunk-overlap"`

	// MinScore is the minimum similarity score for retrieval.
	MinScore float32 `json:"min-score" mapstructure:"min-score"`

	// TokenBudget is the hard context token ceiling.
	TokenBudget int `json:"token-budget" mapstructure:"token-budget"`

	// HistoryWindow is the maximum history turns considered.
	HistoryWindow int `json:"history-window" mapstructure:"history-window"`

	// EmbedBatchSize is the embedding batch size.
	EmbedBatchSize int `json:"embed-batch-size" mapstructure:"embed-batch-size"`

	// MaxFileSize is the upload size limit in bytes.
	MaxFileSize int64 `json:"max-file-size" mapstructure:"max-file-size"`

	// IngestWorkers is the ingest pool capacity.
	IngestWorkers int `json:"ingest-workers" mapstructure:"ingest-workers"`
}

// CacheOptions contains retrieval cache configuration.
type CacheOptions struct {
	// Enabled toggles the redis retrieval cache.
	Enabled bool `json:"enabled" mapstructure:"enabled"`

	// TTL is the cache entry lifetime.
	TTL time.Duration `json:"ttl" mapstructure:"ttl"`

	// KeyPrefix is the cache key prefix.
	KeyPrefix string `json:"key-prefix" mapstructure:"key-prefix"`

	// Redis contains the redis connection configuration.
	Redis *RedisOptions `json:"redis" mapstructure:"redis"`
}

// RedisOptions contains redis connection configuration.
type RedisOptions struct {
	Host         string `json:"host" mapstructure:"host"`
	Port         int    `json:"port" mapstructure:"port"`
	Password     string `json:"password" mapstructure:"password"`
	Database     int    `json:"database" mapstructure:"database"`
	MaxRetries   int    `json:"max-retries" mapstructure:"max-retries"`
	PoolSize     int    `json:"pool-size" mapstructure:"pool-size"`
	MinIdleConns int    `json:"min-idle-conns" mapstructure:"min-idle-conns"`
}

// NewOptions creates new Options with defaults.
func NewOptions() *Options {
	return &Options{
		Server: &ServerOptions{
			Addr:            ":8083",
			Mode:            "release",
			ReadTimeout:     30 * time.Second,
			WriteTimeout:    90 * time.Second,
			ShutdownTimeout: 30 * time.Second,
			MaxUploadSize:   32 << 20,
		},
		Log: logopts.NewOptions(),
		Store: &StoreOptions{
			Path: "_output/studymate.db",
		},
		Embedding: &ProviderOptions{
			Provider:   "ollama",
			BaseURL:    "http://localhost:11434",
			Model:      "nomic-embed-text",
			Dimension:  768,
			Timeout:    30 * time.Second,
			MaxRetries: 3,
			CacheSize:  4096,
		},
		Engine: &EngineOptions{
			ChunkSize:      1000,
			ChunkOverlap:   200,
			MinScore:       0.25,
			TokenBudget:    4096,
			HistoryWindow:  20,
			EmbedBatchSize: 32,
			MaxFileSize:    20 << 20,
			IngestWorkers:  8,
		},
		Cache: &CacheOptions{
			Enabled:   false,
			TTL:       30 * time.Minute,
			KeyPrefix: "sm:retr:",
			Redis: &RedisOptions{
				Host:         "localhost",
				Port:         6379,
				Database:     0,
				MaxRetries:   3,
				PoolSize:     10,
				MinIdleConns: 5,
			},
		},
	}
}

// AddFlags adds flags to the flagset.
func (o *Options) AddFlags(fs *pflag.FlagSet) {
	o.Log.AddFlags(fs)
	o.addServerFlags(fs)
	o.addStoreFlags(fs)
	o.addEmbeddingFlags(fs)
	o.addEngineFlags(fs)
	o.addCacheFlags(fs)
}

func (o *Options) addServerFlags(fs *pflag.FlagSet) {
	fs.StringVar(&o.Server.Addr, "server.addr", o.Server.Addr, "HTTP listen address")
	fs.StringVar(&o.Server.Mode, "server.mode", o.Server.Mode, "HTTP server mode (debug, release, test)")
	fs.DurationVar(&o.Server.ReadTimeout, "server.read-timeout", o.Server.ReadTimeout, "Request read timeout")
	fs.DurationVar(&o.Server.WriteTimeout, "server.write-timeout", o.Server.WriteTimeout, "Response write timeout")
	fs.DurationVar(&o.Server.ShutdownTimeout, "server.shutdown-timeout", o.Server.ShutdownTimeout, "Graceful shutdown timeout")
	fs.Int64Var(&o.Server.MaxUploadSize, "server.max-upload-size", o.Server.MaxUploadSize, "Multipart memory limit in bytes")
}

func (o *Options) addStoreFlags(fs *pflag.FlagSet) {
	fs.StringVar(&o.Store.Path, "store.path", o.Store.Path, "SQLite database path")
}

func (o *Options) addEmbeddingFlags(fs *pflag.FlagSet) {
	fs.StringVar(&o.Embedding.Provider, "embedding.provider", o.Embedding.Provider, "Embedding provider (ollama, openai)")
	fs.StringVar(&o.Embedding.BaseURL, "embedding.base-url", o.Embedding.BaseURL, "Embedding API base URL")
	fs.StringVar(&o.Embedding.APIKey, "embedding.api-key", o.Embedding.APIKey, "Embedding API key (for openai)")
	fs.StringVar(&o.Embedding.Model, "embedding.model", o.Embedding.Model, "Embedding model name")
	fs.IntVar(&o.Embedding.Dimension, "embedding.dimension", o.Embedding.Dimension, "Embedding vector dimension")
	fs.DurationVar(&o.Embedding.Timeout, "embedding.timeout", o.Embedding.Timeout, "Embedding request timeout")
	fs.IntVar(&o.Embedding.MaxRetries, "embedding.max-retries", o.Embedding.MaxRetries, "Embedding max retries")
	fs.IntVar(&o.Embedding.CacheSize, "embedding.cache-size", o.Embedding.CacheSize, "Embedding LRU cache entries")
}

func (o *Options) addEngineFlags(fs *pflag.FlagSet) {
	fs.IntVar(&o.Engine.ChunkSize, "engine.chunk-size", o.Engine.ChunkSize, "Chunk size in characters")
	fs.IntVar(&o.Engine.ChunkOverlap, "engine.chunk-overlap", o.Engine.ChunkOverlap, "Chunk overlap in characters")
	fs.Float32Var(&o.Engine.MinScore, "engine.min-score", o.Engine.MinScore, "Minimum similarity score")
	fs.IntVar(&o.Engine.TokenBudget, "engine.token-budget", o.Engine.TokenBudget, "Context token budget")
	fs.IntVar(&o.Engine.HistoryWindow, "engine.history-window", o.Engine.HistoryWindow, "Maximum history turns")
	fs.IntVar(&o.Engine.EmbedBatchSize, "engine.embed-batch-size", o.Engine.EmbedBatchSize, "Embedding batch size")
	fs.Int64Var(&o.Engine.MaxFileSize, "engine.max-file-size", o.Engine.MaxFileSize, "Upload size limit in bytes")
	fs.IntVar(&o.Engine.IngestWorkers, "engine.ingest-workers", o.Engine.IngestWorkers, "Ingest worker pool capacity")
}

func (o *Options) addCacheFlags(fs *pflag.FlagSet) {
	fs.BoolVar(&o.Cache.Enabled, "cache.enabled", o.Cache.Enabled, "Enable retrieval result cache")
	fs.DurationVar(&o.Cache.TTL, "cache.ttl", o.Cache.TTL, "Cache TTL duration")
	fs.StringVar(&o.Cache.KeyPrefix, "cache.key-prefix", o.Cache.KeyPrefix, "Cache key prefix")
	fs.StringVar(&o.Cache.Redis.Host, "cache.redis.host", o.Cache.Redis.Host, "Redis host")
	fs.IntVar(&o.Cache.Redis.Port, "cache.redis.port", o.Cache.Redis.Port, "Redis port")
	fs.StringVar(&o.Cache.Redis.Password, "cache.redis.password", o.Cache.Redis.Password, "Redis password")
	fs.IntVar(&o.Cache.Redis.Database, "cache.redis.database", o.Cache.Redis.Database, "Redis database number")
	fs.IntVar(&o.Cache.Redis.MaxRetries, "cache.redis.max-retries", o.Cache.Redis.MaxRetries, "Redis max retries")
	fs.IntVar(&o.Cache.Redis.PoolSize, "cache.redis.pool-size", o.Cache.Redis.PoolSize, "Redis connection pool size")
	fs.IntVar(&o.Cache.Redis.MinIdleConns, "cache.redis.min-idle-conns", o.Cache.Redis.MinIdleConns, "Redis minimum idle connections")
}

// Complete completes the options.
func (o *Options) Complete() error {
	if o.Engine.ChunkOverlap >= o.Engine.ChunkSize {
		o.Engine.ChunkOverlap = o.Engine.ChunkSize / 2
	}
	return nil
}

// Validate validates the options.
func (o *Options) Validate() error {
	if err := o.Log.Validate(); err != nil {
		return err
	}
	if o.Server.Addr == "" {
		return fmt.Errorf("server.addr is required")
	}
	if o.Store.Path == "" {
		return fmt.Errorf("store.path is required")
	}
	if o.Embedding.Provider == "" {
		return fmt.Errorf("embedding.provider is required")
	}
	if o.Embedding.Provider == "openai" && o.Embedding.APIKey == "" {
		return fmt.Errorf("embedding.api-key is required for openai provider")
	}
	if o.Embedding.Dimension <= 0 {
		return fmt.Errorf("embedding.dimension must be positive")
	}
	if o.Embedding.Timeout <= 0 {
		return fmt.Errorf("embedding.timeout must be positive")
	}
	if o.Engine.ChunkSize <= 0 {
		return fmt.Errorf("engine.chunk-size must be positive")
	}
	if o.Engine.ChunkOverlap < 0 {
		return fmt.Errorf("engine.chunk-overlap cannot be negative")
	}
	if o.Engine.MinScore < -1 || o.Engine.MinScore > 1 {
		return fmt.Errorf("engine.min-score must be within [-1, 1]")
	}
	if o.Engine.TokenBudget <= 0 {
		return fmt.Errorf("engine.token-budget must be positive")
	}
	if o.Engine.IngestWorkers <= 0 {
		return fmt.Errorf("engine.ingest-workers must be positive")
	}
	return nil
}
