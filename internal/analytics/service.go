// Package analytics derives market and economic indicator snapshots by
// requesting structured JSON from the research endpoint, memoized behind the
// short-TTL cache to bound external-call volume. Unlike the brief pipeline's
// free-text path, responses here are contracted to be parseable JSON.
package analytics

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	openai "github.com/sashabaranov/go-openai"
	"go.uber.org/zap"

	"sectorbrief/internal/cache"
	"sectorbrief/internal/model"
)

// MarketIndicators is a derived sector-market snapshot.
type MarketIndicators struct {
	Sector      model.Sector `json:"sector"`
	Sentiment   string       `json:"sentiment"` // bullish | neutral | bearish
	IndexChange float64      `json:"index_change_percent"`
	TopMovers   []Mover      `json:"top_movers"`
	Summary     string       `json:"summary"`
	GeneratedAt time.Time    `json:"generated_at"`
}

// Mover is a notable constituent move.
type Mover struct {
	Symbol        string  `json:"symbol"`
	ChangePercent float64 `json:"change_percent"`
}

// EconomicIndicators is a derived macro snapshot relevant to a sector.
type EconomicIndicators struct {
	Sector      model.Sector `json:"sector"`
	Indicators  []Indicator  `json:"indicators"`
	Summary     string       `json:"summary"`
	GeneratedAt time.Time    `json:"generated_at"`
}

// Indicator is one named macro figure.
type Indicator struct {
	Name  string  `json:"name"`
	Value float64 `json:"value"`
	Unit  string  `json:"unit"`
}

// Service requests indicator snapshots and caches them.
type Service struct {
	client *openai.Client
	model  string
	cache  cache.Cache
	ttl    time.Duration
	logger *zap.Logger
	now    func() time.Time
}

// NewService creates the analytics service against an OpenAI-compatible
// endpoint.
func NewService(cfg model.AnalyticsConfig, c cache.Cache, logger *zap.Logger) *Service {
	clientConfig := openai.DefaultConfig(cfg.APIKey)
	if cfg.BaseURL != "" {
		clientConfig.BaseURL = cfg.BaseURL
	}

	ttl := cfg.CacheTTL
	if ttl == 0 {
		ttl = cache.DefaultTTL
	}

	return &Service{
		client: openai.NewClientWithConfig(clientConfig),
		model:  cfg.Model,
		cache:  c,
		ttl:    ttl,
		logger: logger,
		now:    time.Now,
	}
}

// MarketIndicators returns the cached or freshly derived market snapshot for
// a sector.
func (s *Service) MarketIndicators(ctx context.Context, sector model.Sector) (*MarketIndicators, error) {
	key := cache.Key("market", sector)
	if data, ok := s.cache.Get(key); ok {
		var cached MarketIndicators
		if err := json.Unmarshal(data, &cached); err == nil {
			return &cached, nil
		}
	}

	prompt := fmt.Sprintf(`Summarize today's %s sector market state. Respond with only valid JSON:
{"sentiment": "bullish|neutral|bearish", "index_change_percent": 0.0, "top_movers": [{"symbol": "", "change_percent": 0.0}], "summary": ""}`,
		strings.ToLower(sector.DisplayName()))

	var out MarketIndicators
	if err := s.queryJSON(ctx, prompt, &out); err != nil {
		return nil, fmt.Errorf("market indicators for %s: %w", sector, err)
	}
	out.Sector = sector
	out.GeneratedAt = s.now().UTC()

	s.put(key, out)
	return &out, nil
}

// EconomicIndicators returns the cached or freshly derived macro snapshot for
// a sector.
func (s *Service) EconomicIndicators(ctx context.Context, sector model.Sector) (*EconomicIndicators, error) {
	key := cache.Key("economic", sector)
	if data, ok := s.cache.Get(key); ok {
		var cached EconomicIndicators
		if err := json.Unmarshal(data, &cached); err == nil {
			return &cached, nil
		}
	}

	prompt := fmt.Sprintf(`List the macro indicators most relevant to the %s sector today. Respond with only valid JSON:
{"indicators": [{"name": "", "value": 0.0, "unit": ""}], "summary": ""}`,
		strings.ToLower(sector.DisplayName()))

	var out EconomicIndicators
	if err := s.queryJSON(ctx, prompt, &out); err != nil {
		return nil, fmt.Errorf("economic indicators for %s: %w", sector, err)
	}
	out.Sector = sector
	out.GeneratedAt = s.now().UTC()

	s.put(key, out)
	return &out, nil
}

func (s *Service) queryJSON(ctx context.Context, prompt string, out interface{}) error {
	resp, err := s.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: s.model,
		Messages: []openai.ChatCompletionMessage{
			{
				Role:    openai.ChatMessageRoleSystem,
				Content: "You are a financial data service. Respond with only valid JSON, no prose.",
			},
			{
				Role:    openai.ChatMessageRoleUser,
				Content: prompt,
			},
		},
		Temperature: 0.1,
	})
	if err != nil {
		return fmt.Errorf("chat completion: %w", err)
	}
	if len(resp.Choices) == 0 {
		return fmt.Errorf("empty completion response")
	}

	raw := stripCodeFence(resp.Choices[0].Message.Content)
	if err := json.Unmarshal([]byte(raw), out); err != nil {
		return fmt.Errorf("parse indicator JSON: %w", err)
	}
	return nil
}

func (s *Service) put(key string, value interface{}) {
	data, err := json.Marshal(value)
	if err != nil {
		return
	}
	if err := s.cache.Set(key, data, s.ttl); err != nil {
		s.logger.Warn("cache set failed", zap.String("key", key), zap.Error(err))
	}
}

// stripCodeFence tolerates models that wrap JSON in a markdown fence despite
// instructions.
func stripCodeFence(s string) string {
	s = strings.TrimSpace(s)
	if strings.HasPrefix(s, "```") {
		s = strings.TrimPrefix(s, "```json")
		s = strings.TrimPrefix(s, "```")
		if idx := strings.LastIndex(s, "```"); idx >= 0 {
			s = s[:idx]
		}
	}
	return strings.TrimSpace(s)
}
