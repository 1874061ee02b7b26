// Package pipeline orchestrates one generation cycle: guard, fetch, extract,
// enrich, assemble, write. Any failure releases the guard and leaves the
// store untouched beyond already-completed stages; no intermediate state is
// persisted.
package pipeline

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"sectorbrief/internal/extract"
	"sectorbrief/internal/model"
	"sectorbrief/internal/research"
)

// ErrGenerationInProgress is returned when the guard rejects a run because
// one is already in flight for the sector.
var ErrGenerationInProgress = errors.New("generation already in progress for sector")

// ResearchService issues the single per-cycle research request.
type ResearchService interface {
	Fetch(ctx context.Context, sector model.Sector) (*research.Result, error)
}

// EnrichService merges live quotes into highlights and registers discovered
// companies.
type EnrichService interface {
	Enrich(ctx context.Context, highlights []model.StockHighlight) []model.StockHighlight
	DiscoverCompanies(ctx context.Context, content string, sector model.Sector)
}

// BriefStore is the subset of the persistent store the writer needs.
type BriefStore interface {
	GetDailyNews(ctx context.Context, date string, sector model.Sector) (*model.IntelligenceBrief, error)
	CreateDailyNews(ctx context.Context, brief *model.IntelligenceBrief) error
	DeleteDailyNews(ctx context.Context, date string, sector model.Sector) error
}

// SourceVerifier annotates citation accessibility. Optional.
type SourceVerifier interface {
	Verify(ctx context.Context, sources []model.Source) []model.Source
}

// Generator runs the synthesis pipeline for one sector at a time.
type Generator struct {
	research ResearchService
	enricher EnrichService
	store    BriefStore
	verifier SourceVerifier
	guard    *Guard
	loc      *time.Location
	logger   *zap.Logger
	now      func() time.Time
}

// NewGenerator wires the pipeline. verifier may be nil.
func NewGenerator(researchSvc ResearchService, enricher EnrichService, store BriefStore, verifier SourceVerifier, loc *time.Location, logger *zap.Logger) *Generator {
	if loc == nil {
		loc = time.UTC
	}
	return &Generator{
		research: researchSvc,
		enricher: enricher,
		store:    store,
		verifier: verifier,
		guard:    NewGuard(),
		loc:      loc,
		logger:   logger,
		now:      time.Now,
	}
}

// Guard exposes the generation guard for state inspection.
func (g *Generator) Guard() *Guard {
	return g.guard
}

// Generate runs one full cycle for a sector and returns the stored brief.
// It returns ErrGenerationInProgress when another run holds the guard; any
// fetch or short-content failure aborts before the store is touched.
func (g *Generator) Generate(ctx context.Context, sector model.Sector) (*model.IntelligenceBrief, error) {
	if !g.guard.TryEnter(sector) {
		return nil, ErrGenerationInProgress
	}
	defer g.guard.Leave(sector)

	now := g.now().In(g.loc)
	date := now.Format(model.DateLayout)

	g.logger.Info("generation started",
		zap.String("sector", string(sector)),
		zap.String("date", date))

	result, err := g.research.Fetch(ctx, sector)
	if err != nil {
		return nil, fmt.Errorf("fetch research: %w", err)
	}

	fields := extract.Extract(result.Content, sector, now, result.Citations)

	highlights := g.enricher.Enrich(ctx, fields.StockHighlights)
	g.enricher.DiscoverCompanies(ctx, result.Content, sector)

	sources := fields.Sources
	if g.verifier != nil {
		sources = g.verifier.Verify(ctx, sources)
	}

	brief := &model.IntelligenceBrief{
		ID:                   uuid.NewString(),
		Sector:               sector,
		Date:                 date,
		Title:                fields.Title,
		Summary:              fields.Summary,
		KeyDevelopments:      fields.KeyDevelopments,
		MarketImpact:         fields.MarketImpact,
		ConflictUpdates:      fields.ConflictUpdates,
		StockHighlights:      highlights,
		GeopoliticalAnalysis: fields.GeopoliticalAnalysis,
		Sources:              sources,
		CreatedAt:            g.now().UTC(),
	}

	// Delete before insert: a crash in between leaves "no brief", never two.
	if err := g.store.DeleteDailyNews(ctx, date, sector); err != nil {
		return nil, fmt.Errorf("clear existing brief: %w", err)
	}
	if err := g.store.CreateDailyNews(ctx, brief); err != nil {
		return nil, fmt.Errorf("persist brief: %w", err)
	}

	g.guard.MarkRun(sector, date)
	g.logger.Info("generation completed",
		zap.String("sector", string(sector)),
		zap.String("date", date),
		zap.Int("highlights", len(brief.StockHighlights)),
		zap.Int("conflicts", len(brief.ConflictUpdates)))

	return brief, nil
}

// TodayBrief returns the stored brief for the current day, lazily generating
// one when absent.
func (g *Generator) TodayBrief(ctx context.Context, sector model.Sector) (*model.IntelligenceBrief, error) {
	date := g.now().In(g.loc).Format(model.DateLayout)

	brief, err := g.store.GetDailyNews(ctx, date, sector)
	if err != nil {
		return nil, fmt.Errorf("load brief: %w", err)
	}
	if brief != nil {
		return brief, nil
	}
	return g.Generate(ctx, sector)
}
