// Package server exposes the trigger surface over HTTP: today's brief with
// lazy generation, explicit generate-now, and cached analytics.
package server

import (
	"context"
	"net/http"
	"time"

	"go.uber.org/zap"

	"sectorbrief/internal/analytics"
	"sectorbrief/internal/model"
)

// BriefService is the pipeline surface the server needs.
type BriefService interface {
	TodayBrief(ctx context.Context, sector model.Sector) (*model.IntelligenceBrief, error)
	Generate(ctx context.Context, sector model.Sector) (*model.IntelligenceBrief, error)
}

// AnalyticsService serves derived indicator snapshots.
type AnalyticsService interface {
	MarketIndicators(ctx context.Context, sector model.Sector) (*analytics.MarketIndicators, error)
	EconomicIndicators(ctx context.Context, sector model.Sector) (*analytics.EconomicIndicators, error)
}

// Server is the HTTP trigger surface.
type Server struct {
	httpServer *http.Server
	briefs     BriefService
	analytics  AnalyticsService
	logger     *zap.Logger
}

// New creates the server. analyticsSvc may be nil when the analytics endpoint
// is not configured.
func New(addr string, briefs BriefService, analyticsSvc AnalyticsService, logger *zap.Logger) *Server {
	s := &Server{
		briefs:    briefs,
		analytics: analyticsSvc,
		logger:    logger,
	}
	s.httpServer = &http.Server{
		Addr:              addr,
		Handler:           s.routes(),
		ReadHeaderTimeout: 10 * time.Second,
	}
	return s
}

// Start begins serving. Blocks until the listener fails or Shutdown runs.
func (s *Server) Start() error {
	s.logger.Info("http server listening", zap.String("addr", s.httpServer.Addr))
	err := s.httpServer.ListenAndServe()
	if err == http.ErrServerClosed {
		return nil
	}
	return err
}

// Shutdown drains in-flight requests.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.httpServer.Shutdown(ctx)
}
