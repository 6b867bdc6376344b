// Package openai implements the OpenAI provider. It also works with
// OpenAI-compatible endpoints (Azure OpenAI, LocalAI, vLLM) via the
// base_url setting.
package openai

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/Rayyan1704/StudyMate/pkg/errors"
	"github.com/Rayyan1704/StudyMate/pkg/llm"
)

const ProviderName = "openai"

func init() {
	llm.RegisterProvider(ProviderName, NewProvider)
}

// Config holds OpenAI provider configuration.
type Config struct {
	// BaseURL is the API base address. Point it at any
	// OpenAI-compatible service.
	BaseURL string `json:"base_url" mapstructure:"base_url"`

	// APIKey is the bearer token.
	APIKey string `json:"api_key" mapstructure:"api_key"`

	// EmbedModel is the embedding model.
	EmbedModel string `json:"embed_model" mapstructure:"embed_model"`

	// ChatModel is the chat model.
	ChatModel string `json:"chat_model" mapstructure:"chat_model"`

	// Dimension is the embedding vector width.
	Dimension int `json:"dimension" mapstructure:"dimension"`

	// Timeout is the per-request timeout.
	Timeout time.Duration `json:"timeout" mapstructure:"timeout"`

	// MaxRetries is the retry budget for transient failures.
	MaxRetries int `json:"max_retries" mapstructure:"max_retries"`
}

// DefaultConfig returns the default configuration.
func DefaultConfig() *Config {
	return &Config{
		BaseURL:    "https://api.openai.com/v1",
		EmbedModel: "text-embedding-3-small",
		ChatModel:  "gpt-4o-mini",
		Dimension:  1536,
		Timeout:    30 * time.Second,
		MaxRetries: 3,
	}
}

// Provider is the OpenAI implementation.
type Provider struct {
	config     *Config
	httpClient *http.Client
}

// NewProvider creates an OpenAI provider from a configuration map.
func NewProvider(configMap map[string]any) (llm.Provider, error) {
	cfg := DefaultConfig()

	if v, ok := configMap["base_url"].(string); ok && v != "" {
		cfg.BaseURL = v
	}
	if v, ok := configMap["api_key"].(string); ok && v != "" {
		cfg.APIKey = v
	}
	if v, ok := configMap["embed_model"].(string); ok && v != "" {
		cfg.EmbedModel = v
	}
	if v, ok := configMap["chat_model"].(string); ok && v != "" {
		cfg.ChatModel = v
	}
	if v, ok := configMap["dimension"].(int); ok && v > 0 {
		cfg.Dimension = v
	}
	if v, ok := configMap["timeout"].(time.Duration); ok && v > 0 {
		cfg.Timeout = v
	}
	if v, ok := configMap["max_retries"].(int); ok && v > 0 {
		cfg.MaxRetries = v
	}

	if cfg.APIKey == "" {
		return nil, fmt.Errorf("openai: api_key is required")
	}

	return NewProviderWithConfig(cfg), nil
}

// NewProviderWithConfig creates an OpenAI provider from structured config.
func NewProviderWithConfig(cfg *Config) *Provider {
	return &Provider{
		config: cfg,
		httpClient: &http.Client{
			Timeout: cfg.Timeout,
		},
	}
}

// Name returns the provider name.
func (p *Provider) Name() string {
	return ProviderName
}

// Model returns the embedding model identifier.
func (p *Provider) Model() string {
	return p.config.EmbedModel
}

// Dimension returns the embedding vector width.
func (p *Provider) Dimension() int {
	return p.config.Dimension
}

type embedRequest struct {
	Model string   `json:"model"`
	Input []string `json:"input"`
}

type embedResponse struct {
	Data []struct {
		Index     int       `json:"index"`
		Embedding []float32 `json:"embedding"`
	} `json:"data"`
}

// Embed generates embeddings for multiple texts.
func (p *Provider) Embed(ctx context.Context, texts []string) ([][]float32, error) {
	if len(texts) == 0 {
		return nil, nil
	}

	body, err := json.Marshal(embedRequest{
		Model: p.config.EmbedModel,
		Input: texts,
	})
	if err != nil {
		return nil, fmt.Errorf("marshal embed request: %w", err)
	}

	respBody, err := p.doJSONWithRetry(ctx, p.config.BaseURL+"/embeddings", body)
	if err != nil {
		return nil, errors.ErrEmbeddingUnavailable.WithCause(err)
	}

	var embedResp embedResponse
	if err := json.Unmarshal(respBody, &embedResp); err != nil {
		return nil, errors.ErrProviderResponse.WithCause(err)
	}
	if len(embedResp.Data) != len(texts) {
		return nil, errors.ErrProviderResponse.WithMessagef(
			"expected %d embeddings, got %d", len(texts), len(embedResp.Data))
	}

	// the API may return entries out of order
	embeddings := make([][]float32, len(texts))
	for _, d := range embedResp.Data {
		if d.Index < 0 || d.Index >= len(texts) {
			return nil, errors.ErrProviderResponse.WithMessagef("embedding index %d out of range", d.Index)
		}
		embeddings[d.Index] = d.Embedding
	}

	return embeddings, nil
}

// EmbedSingle generates an embedding for a single text.
func (p *Provider) EmbedSingle(ctx context.Context, text string) ([]float32, error) {
	embeddings, err := p.Embed(ctx, []string{text})
	if err != nil {
		return nil, err
	}
	if len(embeddings) == 0 {
		return nil, errors.ErrProviderResponse.WithMessage("no embedding returned")
	}
	return embeddings[0], nil
}

type chatRequest struct {
	Model    string        `json:"model"`
	Messages []chatMessage `json:"messages"`
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatResponse struct {
	Choices []struct {
		Message chatMessage `json:"message"`
	} `json:"choices"`
}

// Chat runs a multi-turn conversation.
func (p *Provider) Chat(ctx context.Context, messages []llm.Message) (string, error) {
	chatMessages := make([]chatMessage, len(messages))
	for i, msg := range messages {
		chatMessages[i] = chatMessage{
			Role:    string(msg.Role),
			Content: msg.Content,
		}
	}

	body, err := json.Marshal(chatRequest{
		Model:    p.config.ChatModel,
		Messages: chatMessages,
	})
	if err != nil {
		return "", fmt.Errorf("marshal chat request: %w", err)
	}

	respBody, err := p.doJSONWithRetry(ctx, p.config.BaseURL+"/chat/completions", body)
	if err != nil {
		return "", err
	}

	var chatResp chatResponse
	if err := json.Unmarshal(respBody, &chatResp); err != nil {
		return "", errors.ErrProviderResponse.WithCause(err)
	}
	if len(chatResp.Choices) == 0 {
		return "", errors.ErrProviderResponse.WithMessage("no choices returned")
	}

	return chatResp.Choices[0].Message.Content, nil
}

// Generate produces text from a single prompt.
func (p *Provider) Generate(ctx context.Context, prompt string, systemPrompt string) (string, error) {
	var messages []llm.Message
	if systemPrompt != "" {
		messages = append(messages, llm.Message{Role: llm.RoleSystem, Content: systemPrompt})
	}
	messages = append(messages, llm.Message{Role: llm.RoleUser, Content: prompt})
	return p.Chat(ctx, messages)
}

// doJSONWithRetry posts a JSON body with bounded retries and linear
// backoff. A fresh request is built per attempt. 4xx responses other
// than 429 do not retry.
func (p *Provider) doJSONWithRetry(ctx context.Context, url string, body []byte) ([]byte, error) {
	var lastErr error
	for i := 0; i <= p.config.MaxRetries; i++ {
		if i > 0 {
			select {
			case <-ctx.Done():
				return nil, ctx.Err()
			case <-time.After(time.Duration(i) * 500 * time.Millisecond):
			}
		}

		req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
		if err != nil {
			return nil, fmt.Errorf("create request: %w", err)
		}
		req.Header.Set("Content-Type", "application/json")
		req.Header.Set("Authorization", "Bearer "+p.config.APIKey)

		resp, err := p.httpClient.Do(req)
		if err != nil {
			lastErr = err
			continue
		}

		respBody, err := io.ReadAll(resp.Body)
		resp.Body.Close()
		if err != nil {
			lastErr = err
			continue
		}

		if resp.StatusCode == http.StatusOK {
			return respBody, nil
		}
		lastErr = fmt.Errorf("status %d: %s", resp.StatusCode, string(respBody))
		if resp.StatusCode >= 400 && resp.StatusCode < 500 && resp.StatusCode != http.StatusTooManyRequests {
			return nil, lastErr
		}
	}
	return nil, lastErr
}
