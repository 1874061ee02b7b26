package enrich

import (
	"context"
	"errors"
	"sync"
	"testing"

	"go.uber.org/zap"

	"sectorbrief/internal/market"
	"sectorbrief/internal/model"
)

type fakeQuotes struct {
	mu     sync.Mutex
	quotes map[string]*market.Quote
	calls  []string
}

func (f *fakeQuotes) GetQuote(_ context.Context, symbol string) (*market.Quote, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, symbol)
	if q, ok := f.quotes[symbol]; ok {
		return q, nil
	}
	return nil, &market.APIError{StatusCode: 404, Symbol: symbol}
}

type fakeStore struct {
	mu      sync.Mutex
	stocks  []model.Stock
	created []model.Stock
	listErr error
}

func (f *fakeStore) GetStocks(context.Context) ([]model.Stock, error) {
	if f.listErr != nil {
		return nil, f.listErr
	}
	return f.stocks, nil
}

func (f *fakeStore) CreateStock(_ context.Context, st model.Stock) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.created = append(f.created, st)
	return nil
}

func TestEnrich_MergesQuoteData(t *testing.T) {
	quotes := &fakeQuotes{quotes: map[string]*market.Quote{
		"LMT": {Symbol: "LMT", Price: 452.18, Change: 3.42, ChangePercent: 0.76},
	}}
	e := New(quotes, &fakeStore{}, zap.NewNop())

	out := e.Enrich(context.Background(), []model.StockHighlight{
		{Symbol: "LMT", Name: "Lockheed Martin", ContractValue: "$2.3 billion"},
	})

	if len(out) != 1 {
		t.Fatalf("Expected 1 highlight, got %d", len(out))
	}
	if out[0].Price != 452.18 || out[0].Change != 3.42 || out[0].ChangePercent != 0.76 {
		t.Errorf("Expected quote data merged, got %+v", out[0])
	}
	if out[0].ContractValue != "$2.3 billion" {
		t.Errorf("Expected extracted fields preserved, got %+v", out[0])
	}
}

func TestEnrich_ZeroFillsOnFailure(t *testing.T) {
	quotes := &fakeQuotes{quotes: map[string]*market.Quote{
		"RTX": {Symbol: "RTX", Price: 128.6, Change: -0.4, ChangePercent: -0.31},
	}}
	e := New(quotes, &fakeStore{}, zap.NewNop())

	out := e.Enrich(context.Background(), []model.StockHighlight{
		{Symbol: "LMT", Name: "Lockheed Martin", Price: 999},
		{Symbol: "RTX", Name: "RTX Corporation"},
	})

	if len(out) != 2 {
		t.Fatalf("Expected failed lookup to keep highlight, got %d", len(out))
	}
	if out[0].Price != 0 || out[0].Change != 0 || out[0].ChangePercent != 0 {
		t.Errorf("Expected zero-filled numeric fields, got %+v", out[0])
	}
	if out[1].Price != 128.6 {
		t.Errorf("Expected second highlight still enriched, got %+v", out[1])
	}
}

func TestDiscoverCompanies_RegistersUnknownWatchlistSymbols(t *testing.T) {
	quotes := &fakeQuotes{quotes: map[string]*market.Quote{
		"AVAV": {Symbol: "AVAV", Price: 185.4, Change: 1.2, ChangePercent: 0.65, Volume: 320000},
	}}
	store := &fakeStore{stocks: []model.Stock{{Symbol: "LMT"}}}
	e := New(quotes, store, zap.NewNop())

	content := "AeroVironment (AVAV) and Lockheed Martin (LMT) both rose, while NATO officials met in Brussels."
	e.DiscoverCompanies(context.Background(), content, model.SectorDefense)

	if len(store.created) != 1 {
		t.Fatalf("Expected 1 discovered company, got %d: %+v", len(store.created), store.created)
	}
	st := store.created[0]
	if st.Symbol != "AVAV" || st.Name != "AeroVironment" || st.Sector != model.SectorDefense {
		t.Errorf("Unexpected discovered stock %+v", st)
	}
	if st.Price != 185.4 || st.Volume != 320000 {
		t.Errorf("Expected quote data on discovered stock, got %+v", st)
	}
	if st.ID == "" {
		t.Error("Expected generated ID on discovered stock")
	}
	if st.LastUpdated.IsZero() {
		t.Error("Expected LastUpdated set on discovered stock")
	}
}

func TestDiscoverCompanies_QuoteFailureStillRegisters(t *testing.T) {
	store := &fakeStore{}
	e := New(&fakeQuotes{}, store, zap.NewNop())

	e.DiscoverCompanies(context.Background(), "Palantir (PLTR) expanded its defense footprint.", model.SectorDefense)

	if len(store.created) != 1 {
		t.Fatalf("Expected discovery despite quote failure, got %d", len(store.created))
	}
	if store.created[0].Price != 0 {
		t.Errorf("Expected zero price on failed quote, got %+v", store.created[0])
	}
}

func TestDiscoverCompanies_SkipsWhenListingFails(t *testing.T) {
	store := &fakeStore{listErr: errors.New("db down")}
	e := New(&fakeQuotes{}, store, zap.NewNop())

	e.DiscoverCompanies(context.Background(), "Boeing (BA) delivered tankers.", model.SectorDefense)

	if len(store.created) != 0 {
		t.Errorf("Expected no registrations when listing fails, got %d", len(store.created))
	}
}

func TestDiscoverCompanies_DeduplicatesTokens(t *testing.T) {
	quotes := &fakeQuotes{quotes: map[string]*market.Quote{"BA": {Symbol: "BA", Price: 210}}}
	store := &fakeStore{}
	e := New(quotes, store, zap.NewNop())

	e.DiscoverCompanies(context.Background(), "BA rallied early. BA held gains into the close.", model.SectorDefense)

	if len(store.created) != 1 {
		t.Errorf("Expected repeated token registered once, got %d", len(store.created))
	}
}
