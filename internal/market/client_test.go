package market

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestGetQuote_Success(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/real-time/LMT" {
			t.Errorf("Unexpected path %q", r.URL.Path)
		}
		if r.URL.Query().Get("api_token") != "test-token" {
			t.Errorf("Expected api_token in query, got %q", r.URL.Query().Get("api_token"))
		}
		if r.URL.Query().Get("fmt") != "json" {
			t.Errorf("Expected fmt=json, got %q", r.URL.Query().Get("fmt"))
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"code":"LMT","close":452.18,"change":3.42,"change_p":0.76,"volume":1245000}`))
	}))
	defer srv.Close()

	client := NewClient("test-token", WithBaseURL(srv.URL), WithRateLimit(100))
	quote, err := client.GetQuote(context.Background(), "LMT")
	if err != nil {
		t.Fatalf("GetQuote failed: %v", err)
	}

	if quote.Symbol != "LMT" {
		t.Errorf("Expected symbol LMT, got %q", quote.Symbol)
	}
	if quote.Price != 452.18 {
		t.Errorf("Expected price 452.18, got %v", quote.Price)
	}
	if quote.ChangePercent != 0.76 {
		t.Errorf("Expected change percent 0.76, got %v", quote.ChangePercent)
	}
	if quote.Volume != 1245000 {
		t.Errorf("Expected volume 1245000, got %v", quote.Volume)
	}
}

func TestGetQuote_FillsMissingSymbol(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"close":101.5,"change":-0.3,"change_p":-0.29,"volume":50000}`))
	}))
	defer srv.Close()

	client := NewClient("test-token", WithBaseURL(srv.URL), WithRateLimit(100))
	quote, err := client.GetQuote(context.Background(), "PFE")
	if err != nil {
		t.Fatalf("GetQuote failed: %v", err)
	}
	if quote.Symbol != "PFE" {
		t.Errorf("Expected requested symbol backfilled, got %q", quote.Symbol)
	}
}

func TestGetQuote_APIError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "unknown symbol", http.StatusNotFound)
	}))
	defer srv.Close()

	client := NewClient("test-token", WithBaseURL(srv.URL), WithRateLimit(100))
	_, err := client.GetQuote(context.Background(), "ZZZZ")
	if err == nil {
		t.Fatal("Expected error for 404 response")
	}

	var apiErr *APIError
	if !errors.As(err, &apiErr) {
		t.Fatalf("Expected *APIError, got %T: %v", err, err)
	}
	if apiErr.StatusCode != http.StatusNotFound || apiErr.Symbol != "ZZZZ" {
		t.Errorf("Unexpected error fields: %+v", apiErr)
	}
}

func TestGetQuote_ContextCancelled(t *testing.T) {
	client := NewClient("test-token", WithRateLimit(100))
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if _, err := client.GetQuote(ctx, "LMT"); err == nil {
		t.Fatal("Expected error for cancelled context")
	}
}
