// Package enrich augments extracted ticker mentions with live quote data and
// registers newly discovered symbols in the stock store.
package enrich

import (
	"context"
	"regexp"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"sectorbrief/internal/market"
	"sectorbrief/internal/model"
)

// QuoteService resolves a symbol to a live quote.
type QuoteService interface {
	GetQuote(ctx context.Context, symbol string) (*market.Quote, error)
}

// StockStore is the subset of the persistent store used for discovery.
type StockStore interface {
	GetStocks(ctx context.Context) ([]model.Stock, error)
	CreateStock(ctx context.Context, st model.Stock) error
}

// tickerTokenRe matches candidate ticker symbols in raw content.
var tickerTokenRe = regexp.MustCompile(`\b[A-Z]{2,5}\b`)

// Enricher merges quote data into highlights and discovers new companies.
type Enricher struct {
	quotes QuoteService
	store  StockStore
	logger *zap.Logger
	now    func() time.Time
}

// New creates an Enricher.
func New(quotes QuoteService, store StockStore, logger *zap.Logger) *Enricher {
	return &Enricher{
		quotes: quotes,
		store:  store,
		logger: logger,
		now:    time.Now,
	}
}

// Enrich fills each highlight's numeric fields from a live quote. Symbols are
// resolved one at a time; a failed lookup zero-fills that highlight and the
// rest continue, so partial enrichment failure never drops a highlight.
func (e *Enricher) Enrich(ctx context.Context, highlights []model.StockHighlight) []model.StockHighlight {
	out := make([]model.StockHighlight, len(highlights))
	for i, h := range highlights {
		quote, err := e.quotes.GetQuote(ctx, h.Symbol)
		if err != nil {
			e.logger.Warn("quote lookup failed, zero-filling highlight",
				zap.String("symbol", h.Symbol),
				zap.Error(err))
			h.Price, h.Change, h.ChangePercent = 0, 0, 0
			out[i] = h
			continue
		}
		h.Price = quote.Price
		h.Change = quote.Change
		h.ChangePercent = quote.ChangePercent
		out[i] = h
	}
	return out
}

// DiscoverCompanies scans raw content for uppercase ticker tokens, keeps
// those on the sector's watchlist, and registers any symbol the store does
// not yet track. Discovery failures are logged, never fatal.
func (e *Enricher) DiscoverCompanies(ctx context.Context, content string, sector model.Sector) {
	known, err := e.store.GetStocks(ctx)
	if err != nil {
		e.logger.Warn("company discovery skipped: cannot list stocks", zap.Error(err))
		return
	}
	tracked := make(map[string]bool, len(known))
	for _, st := range known {
		tracked[st.Symbol] = true
	}

	seen := make(map[string]bool)
	for _, token := range tickerTokenRe.FindAllString(content, -1) {
		if seen[token] || tracked[token] {
			continue
		}
		seen[token] = true

		company, ok := model.CompanyBySymbol(sector, token)
		if !ok {
			continue
		}

		stock := model.Stock{
			ID:          uuid.NewString(),
			Symbol:      company.Symbol,
			Name:        company.Name,
			Sector:      sector,
			LastUpdated: e.now(),
		}
		if quote, err := e.quotes.GetQuote(ctx, token); err == nil {
			stock.Price = quote.Price
			stock.Change = quote.Change
			stock.ChangePercent = quote.ChangePercent
			stock.Volume = quote.Volume
		} else {
			e.logger.Warn("discovered company quoted with zeros",
				zap.String("symbol", token),
				zap.Error(err))
		}

		if err := e.store.CreateStock(ctx, stock); err != nil {
			e.logger.Warn("failed to register discovered company",
				zap.String("symbol", token),
				zap.Error(err))
			continue
		}
		e.logger.Info("registered newly discovered company",
			zap.String("symbol", token),
			zap.String("sector", string(sector)))
	}
}
