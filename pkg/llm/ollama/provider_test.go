package ollama

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Rayyan1704/StudyMate/pkg/errors"
	"github.com/Rayyan1704/StudyMate/pkg/llm"
)

func newTestProvider(url string, retries int) *Provider {
	cfg := DefaultConfig()
	cfg.BaseURL = url
	cfg.MaxRetries = retries
	cfg.Timeout = 2 * time.Second
	cfg.Dimension = 3
	return NewProviderWithConfig(cfg)
}

func TestEmbed(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/api/embed", r.URL.Path)

		var req embedRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		require.Equal(t, "nomic-embed-text", req.Model)

		resp := embedResponse{Model: req.Model}
		for range req.Input {
			resp.Embeddings = append(resp.Embeddings, []float32{0.1, 0.2, 0.3})
		}
		_ = json.NewEncoder(w).Encode(resp)
	}))
	defer srv.Close()

	p := newTestProvider(srv.URL, 0)
	vecs, err := p.Embed(context.Background(), []string{"one", "two"})
	require.NoError(t, err)
	require.Len(t, vecs, 2)
	assert.Equal(t, []float32{0.1, 0.2, 0.3}, vecs[0])
}

func TestEmbedRetriesThenSucceeds(t *testing.T) {
	var attempts atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if attempts.Add(1) < 3 {
			w.WriteHeader(http.StatusInternalServerError)
			return
		}
		_ = json.NewEncoder(w).Encode(embedResponse{Embeddings: [][]float32{{1, 2, 3}}})
	}))
	defer srv.Close()

	p := newTestProvider(srv.URL, 3)
	vecs, err := p.Embed(context.Background(), []string{"x"})
	require.NoError(t, err)
	assert.Len(t, vecs, 1)
	assert.Equal(t, int32(3), attempts.Load())
}

func TestEmbedExhaustedRetries(t *testing.T) {
	var attempts atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		attempts.Add(1)
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	p := newTestProvider(srv.URL, 2)
	_, err := p.Embed(context.Background(), []string{"x"})
	require.Error(t, err)
	assert.True(t, errors.IsCode(err, errors.ErrEmbeddingUnavailable.Code))
	assert.Equal(t, int32(3), attempts.Load())
}

func TestEmbedBadRequestDoesNotRetry(t *testing.T) {
	var attempts atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		attempts.Add(1)
		w.WriteHeader(http.StatusBadRequest)
	}))
	defer srv.Close()

	p := newTestProvider(srv.URL, 3)
	_, err := p.Embed(context.Background(), []string{"x"})
	require.Error(t, err)
	assert.Equal(t, int32(1), attempts.Load())
}

func TestEmbedCountMismatch(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewEncoder(w).Encode(embedResponse{Embeddings: [][]float32{{1}}})
	}))
	defer srv.Close()

	p := newTestProvider(srv.URL, 0)
	_, err := p.Embed(context.Background(), []string{"a", "b"})
	require.Error(t, err)
	assert.True(t, errors.IsCode(err, errors.ErrProviderResponse.Code))
}

func TestChat(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/api/chat", r.URL.Path)
		var req chatRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		require.False(t, req.Stream)
		_ = json.NewEncoder(w).Encode(chatResponse{
			Message: chatMessage{Role: "assistant", Content: "hi there"},
			Done:    true,
		})
	}))
	defer srv.Close()

	p := newTestProvider(srv.URL, 0)
	out, err := p.Chat(context.Background(), []llm.Message{{Role: llm.RoleUser, Content: "hello"}})
	require.NoError(t, err)
	assert.Equal(t, "hi there", out)
}

func TestProviderIdentity(t *testing.T) {
	p := newTestProvider("http://localhost:11434", 0)
	assert.Equal(t, "ollama", p.Name())
	assert.Equal(t, "nomic-embed-text", p.Model())
	assert.Equal(t, 3, p.Dimension())
	assert.Equal(t, "ollama/nomic-embed-text/3", llm.Version(p))
}

func TestNewProviderFromMap(t *testing.T) {
	p, err := NewProvider(map[string]any{
		"base_url":    "http://example:11434",
		"embed_model": "all-minilm",
		"dimension":   384,
	})
	require.NoError(t, err)
	assert.Equal(t, "all-minilm", p.Model())
	assert.Equal(t, 384, p.Dimension())
}
