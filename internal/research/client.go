// Package research talks to the external LLM-backed research service. One
// request is issued per generation cycle; the response is free-form prose
// plus citation URLs.
package research

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"go.uber.org/zap"

	"sectorbrief/internal/model"
	"sectorbrief/internal/util"
)

// Client is an HTTP client for an OpenAI-compatible research endpoint that
// supports recency and domain filtering (Perplexity-style).
type Client struct {
	baseURL    string
	apiKey     string
	model      string
	recency    string
	domains    []string
	minContent int
	maxTokens  int
	httpClient *http.Client
	logger     *zap.Logger
}

// Result is the raw research output for one generation cycle.
type Result struct {
	Content   string
	Citations []string
}

// NewClient creates a research client from configuration.
func NewClient(cfg model.ResearchConfig, httpCfg model.HTTPConfig, logger *zap.Logger) *Client {
	timeout := cfg.Timeout
	if timeout == 0 {
		timeout = 90 * time.Second
	}
	minContent := cfg.MinContentLength
	if minContent == 0 {
		minContent = 100
	}

	return &Client{
		baseURL:    strings.TrimSuffix(cfg.BaseURL, "/"),
		apiKey:     cfg.APIKey,
		model:      cfg.Model,
		recency:    cfg.RecencyFilter,
		domains:    cfg.AllowedDomains,
		minContent: minContent,
		maxTokens:  cfg.MaxTokens,
		httpClient: &http.Client{
			Timeout: timeout,
			Transport: &http.Transport{
				Proxy: util.ProxyFunc(httpCfg),
			},
		},
		logger: logger,
	}
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatRequest struct {
	Model               string        `json:"model"`
	Messages            []chatMessage `json:"messages"`
	MaxTokens           int           `json:"max_tokens,omitempty"`
	Temperature         float64       `json:"temperature"`
	SearchRecencyFilter string        `json:"search_recency_filter,omitempty"`
	SearchDomainFilter  []string      `json:"search_domain_filter,omitempty"`
}

type chatResponse struct {
	Choices []struct {
		Message chatMessage `json:"message"`
	} `json:"choices"`
	Citations []string `json:"citations"`
	Usage     struct {
		TotalTokens int `json:"total_tokens"`
	} `json:"usage"`
}

// Fetch issues the single per-cycle research request for a sector. It fails
// with *APIError on non-2xx status and *ShortContentError when the returned
// content is below the minimum length.
func (c *Client) Fetch(ctx context.Context, sector model.Sector) (*Result, error) {
	body, err := json.Marshal(chatRequest{
		Model: c.model,
		Messages: []chatMessage{
			{Role: "system", Content: systemPrompt(sector)},
			{Role: "user", Content: userPrompt(sector)},
		},
		MaxTokens:           c.maxTokens,
		Temperature:         0.2,
		SearchRecencyFilter: c.recency,
		SearchDomainFilter:  c.domains,
	})
	if err != nil {
		return nil, fmt.Errorf("marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/chat/completions", bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.apiKey)

	c.logger.Debug("research request",
		zap.String("sector", string(sector)),
		zap.String("model", c.model))

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("research request: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	respBody, err := io.ReadAll(io.LimitReader(resp.Body, 4_000_000))
	if err != nil {
		return nil, fmt.Errorf("read response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, &APIError{
			StatusCode: resp.StatusCode,
			Body:       truncate(string(respBody), 300),
		}
	}

	var parsed chatResponse
	if err := json.Unmarshal(respBody, &parsed); err != nil {
		return nil, fmt.Errorf("decode response: %w", err)
	}
	if len(parsed.Choices) == 0 {
		return nil, &ShortContentError{Length: 0, Min: c.minContent}
	}

	content := strings.TrimSpace(parsed.Choices[0].Message.Content)
	if len(content) < c.minContent {
		return nil, &ShortContentError{Length: len(content), Min: c.minContent}
	}

	c.logger.Debug("research response",
		zap.String("sector", string(sector)),
		zap.Int("content_len", len(content)),
		zap.Int("citations", len(parsed.Citations)),
		zap.Int("tokens", parsed.Usage.TotalTokens))

	return &Result{Content: content, Citations: parsed.Citations}, nil
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}
