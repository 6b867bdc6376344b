package resilience

import (
	"context"
	"errors"
	"net"
	"strings"

	"github.com/Rayyan1704/StudyMate/pkg/llm"
)

// ResilientEmbeddingProvider wraps an embedding provider with retry and
// circuit breaking. Name, Model, and Dimension pass through unchanged so
// the embedding version is unaffected by the wrapper.
type ResilientEmbeddingProvider struct {
	provider llm.EmbeddingProvider
	retry    *RetryConfig
	cb       *CircuitBreaker
}

// NewResilientEmbeddingProvider wraps provider with the given retry and
// breaker configurations, nil means defaults.
func NewResilientEmbeddingProvider(
	provider llm.EmbeddingProvider,
	retryConfig *RetryConfig,
	cbConfig *CircuitBreakerConfig,
) *ResilientEmbeddingProvider {
	if retryConfig == nil {
		retryConfig = DefaultRetryConfig()
	}
	if retryConfig.RetryableErrors == nil {
		retryConfig.RetryableErrors = IsRetryableError
	}

	return &ResilientEmbeddingProvider{
		provider: provider,
		retry:    retryConfig,
		cb:       NewCircuitBreaker(cbConfig),
	}
}

// Embed generates embeddings for multiple texts with retry and breaking.
func (r *ResilientEmbeddingProvider) Embed(ctx context.Context, texts []string) ([][]float32, error) {
	var result [][]float32

	err := RetryWithCircuitBreaker(ctx, r.retry, r.cb, func() error {
		var callErr error
		result, callErr = r.provider.Embed(ctx, texts)
		return callErr
	})

	return result, err
}

// EmbedSingle generates an embedding for one text with retry and breaking.
func (r *ResilientEmbeddingProvider) EmbedSingle(ctx context.Context, text string) ([]float32, error) {
	var result []float32

	err := RetryWithCircuitBreaker(ctx, r.retry, r.cb, func() error {
		var callErr error
		result, callErr = r.provider.EmbedSingle(ctx, text)
		return callErr
	})

	return result, err
}

// Name returns the wrapped provider name.
func (r *ResilientEmbeddingProvider) Name() string {
	return r.provider.Name()
}

// Model returns the wrapped provider model.
func (r *ResilientEmbeddingProvider) Model() string {
	return r.provider.Model()
}

// Dimension returns the wrapped provider dimension.
func (r *ResilientEmbeddingProvider) Dimension() int {
	return r.provider.Dimension()
}

// CircuitBreaker exposes the breaker for monitoring.
func (r *ResilientEmbeddingProvider) CircuitBreaker() *CircuitBreaker {
	return r.cb
}

// IsRetryableError reports whether an error is transient.
func IsRetryableError(err error) bool {
	if err == nil {
		return false
	}

	if errors.Is(err, ErrCircuitBreakerOpen) {
		return false
	}

	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return false
	}

	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return true
	}

	var dnsErr *net.DNSError
	if errors.As(err, &dnsErr) {
		return true
	}

	var opErr *net.OpError
	if errors.As(err, &opErr) {
		return true
	}

	errMsg := err.Error()
	switch {
	case strings.Contains(errMsg, "status code 5"):
		return true
	case strings.Contains(errMsg, "status code 429"), strings.Contains(errMsg, "rate limit"):
		return true
	case strings.Contains(errMsg, "status code 408"):
		return true
	case strings.Contains(errMsg, "EOF"), strings.Contains(errMsg, "connection reset"):
		return true
	}

	return false
}
