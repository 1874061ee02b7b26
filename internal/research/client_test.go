package research

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"go.uber.org/zap"

	"sectorbrief/internal/model"
)

func testConfig(baseURL string) model.ResearchConfig {
	return model.ResearchConfig{
		BaseURL:          baseURL,
		APIKey:           "test-key",
		Model:            "sonar-pro",
		RecencyFilter:    "day",
		AllowedDomains:   []string{"reuters.com", "defensenews.com"},
		MinContentLength: 100,
		MaxTokens:        2000,
	}
}

func newTestClient(baseURL string) *Client {
	return NewClient(testConfig(baseURL), model.HTTPConfig{}, zap.NewNop())
}

func TestFetch_Success(t *testing.T) {
	content := strings.Repeat("Defense sector research content. ", 10)

	var gotReq chatRequest
	var gotAuth string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/chat/completions" {
			t.Errorf("Unexpected path %q", r.URL.Path)
		}
		gotAuth = r.Header.Get("Authorization")
		if err := json.NewDecoder(r.Body).Decode(&gotReq); err != nil {
			t.Fatalf("Failed to decode request: %v", err)
		}

		resp := map[string]any{
			"choices":   []map[string]any{{"message": map[string]any{"role": "assistant", "content": content}}},
			"citations": []string{"https://reuters.com/a", "https://defensenews.com/b"},
		}
		_ = json.NewEncoder(w).Encode(resp)
	}))
	defer srv.Close()

	result, err := newTestClient(srv.URL).Fetch(context.Background(), model.SectorDefense)
	if err != nil {
		t.Fatalf("Fetch failed: %v", err)
	}

	if result.Content != strings.TrimSpace(content) {
		t.Errorf("Unexpected content %q", result.Content)
	}
	if len(result.Citations) != 2 {
		t.Errorf("Expected 2 citations, got %d", len(result.Citations))
	}
	if gotAuth != "Bearer test-key" {
		t.Errorf("Expected bearer auth, got %q", gotAuth)
	}
	if gotReq.SearchRecencyFilter != "day" {
		t.Errorf("Expected recency filter day, got %q", gotReq.SearchRecencyFilter)
	}
	if len(gotReq.SearchDomainFilter) != 2 {
		t.Errorf("Expected 2 domain filters, got %v", gotReq.SearchDomainFilter)
	}
	if len(gotReq.Messages) != 2 || gotReq.Messages[0].Role != "system" {
		t.Errorf("Expected system+user messages, got %v", gotReq.Messages)
	}
	if !strings.Contains(gotReq.Messages[1].Content, "LMT") {
		t.Errorf("Expected watchlist tickers in user prompt, got %q", gotReq.Messages[1].Content)
	}
}

func TestFetch_APIError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "upstream unavailable", http.StatusBadGateway)
	}))
	defer srv.Close()

	_, err := newTestClient(srv.URL).Fetch(context.Background(), model.SectorPharma)
	if err == nil {
		t.Fatal("Expected error for non-2xx response")
	}

	var apiErr *APIError
	if !errors.As(err, &apiErr) {
		t.Fatalf("Expected *APIError, got %T: %v", err, err)
	}
	if apiErr.StatusCode != http.StatusBadGateway {
		t.Errorf("Expected status 502, got %d", apiErr.StatusCode)
	}
}

func TestFetch_ShortContent(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		resp := map[string]any{
			"choices": []map[string]any{{"message": map[string]any{"role": "assistant", "content": "too short"}}},
		}
		_ = json.NewEncoder(w).Encode(resp)
	}))
	defer srv.Close()

	_, err := newTestClient(srv.URL).Fetch(context.Background(), model.SectorEnergy)
	if err == nil {
		t.Fatal("Expected error for short content")
	}

	var shortErr *ShortContentError
	if !errors.As(err, &shortErr) {
		t.Fatalf("Expected *ShortContentError, got %T: %v", err, err)
	}
	if shortErr.Length != len("too short") || shortErr.Min != 100 {
		t.Errorf("Unexpected short content error fields: %+v", shortErr)
	}
}

func TestFetch_EmptyChoices(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"choices":[]}`))
	}))
	defer srv.Close()

	_, err := newTestClient(srv.URL).Fetch(context.Background(), model.SectorDefense)

	var shortErr *ShortContentError
	if !errors.As(err, &shortErr) {
		t.Fatalf("Expected *ShortContentError for empty choices, got %T: %v", err, err)
	}
}
