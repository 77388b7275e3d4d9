// Package openai generates answers through an OpenAI-compatible
// /chat/completions endpoint.
package openai

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/CrisMolina12/CatchaiIA/internal/domain"
)

const (
	DefaultBaseURL     = "https://generativelanguage.googleapis.com/v1beta/openai"
	DefaultModel       = "gemini-1.5-flash"
	DefaultTemperature = 0.1
	DefaultMaxTokens   = 2048
	DefaultTimeout     = 120 * time.Second
)

type Config struct {
	BaseURL     string
	APIKey      string
	Model       string
	Temperature float64
	MaxTokens   int
	Timeout     time.Duration
}

// Client implements domain.Generator. It makes exactly one request per call.
type Client struct {
	client      *http.Client
	baseURL     string
	model       string
	temperature float64
	maxTokens   int
	logger      *zap.Logger

	mu     sync.RWMutex
	apiKey string
}

var _ domain.Generator = (*Client)(nil)

type chatRequest struct {
	Model       string        `json:"model"`
	Messages    []chatMessage `json:"messages"`
	Temperature float64       `json:"temperature"`
	MaxTokens   int           `json:"max_tokens,omitempty"`
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

type apiError struct {
	Error struct {
		Message string `json:"message"`
		Status  string `json:"status"`
	} `json:"error"`
}

func NewClient(cfg Config, logger *zap.Logger) (*Client, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("llm: %w", domain.ErrMissingCredential)
	}
	if cfg.BaseURL == "" {
		cfg.BaseURL = DefaultBaseURL
	}
	if cfg.Model == "" {
		cfg.Model = DefaultModel
	}
	if cfg.Temperature < 0 {
		cfg.Temperature = DefaultTemperature
	}
	if cfg.MaxTokens <= 0 {
		cfg.MaxTokens = DefaultMaxTokens
	}
	if cfg.Timeout == 0 {
		cfg.Timeout = DefaultTimeout
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Client{
		client:      &http.Client{Timeout: cfg.Timeout},
		baseURL:     strings.TrimRight(cfg.BaseURL, "/"),
		apiKey:      cfg.APIKey,
		model:       cfg.Model,
		temperature: cfg.Temperature,
		maxTokens:   cfg.MaxTokens,
		logger:      logger,
	}, nil
}

// Generate sends prompt as a single user message and returns the first choice.
// Failures carry the HTTP status and provider message in their text.
func (c *Client) Generate(ctx context.Context, prompt string) (string, error) {
	body, err := json.Marshal(chatRequest{
		Model:       c.model,
		Messages:    []chatMessage{{Role: "user", Content: prompt}},
		Temperature: c.temperature,
		MaxTokens:   c.maxTokens,
	})
	if err != nil {
		return "", fmt.Errorf("marshal request: %w", err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/chat/completions", bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.key())

	start := time.Now()
	resp, err := c.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("send request: %w", err)
	}
	defer resp.Body.Close()

	payload, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("read response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("chat completions failed (status %d): %s", resp.StatusCode, providerMessage(payload))
	}

	var out chatResponse
	if err := json.Unmarshal(payload, &out); err != nil {
		return "", fmt.Errorf("decode response: %w", err)
	}
	if len(out.Choices) == 0 {
		return "", errors.New("chat completions returned no choices")
	}
	c.logger.Debug("answer generated",
		zap.String("model", c.model),
		zap.Int("prompt_chars", len(prompt)),
		zap.Duration("latency", time.Since(start)))
	return strings.TrimSpace(out.Choices[0].Message.Content), nil
}

// SetAPIKey switches the credential used by subsequent calls.
func (c *Client) SetAPIKey(key string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.apiKey = key
}

func (c *Client) key() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.apiKey
}

// providerMessage pulls the error message out of an OpenAI-style body, which
// some providers wrap in a one-element array.
func providerMessage(payload []byte) string {
	var single apiError
	if err := json.Unmarshal(payload, &single); err == nil && single.Error.Message != "" {
		return single.Error.Message
	}
	var list []apiError
	if err := json.Unmarshal(payload, &list); err == nil && len(list) > 0 && list[0].Error.Message != "" {
		return list[0].Error.Message
	}
	return strings.TrimSpace(string(payload))
}
