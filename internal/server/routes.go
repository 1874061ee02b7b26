package server

import (
	"encoding/json"
	"errors"
	"net/http"

	"go.uber.org/zap"

	"sectorbrief/internal/model"
	"sectorbrief/internal/pipeline"
	"sectorbrief/internal/research"
)

func (s *Server) routes() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /health", s.handleHealth)
	mux.HandleFunc("GET /api/briefs/today", s.handleTodayBrief)
	mux.HandleFunc("POST /api/briefs/generate", s.handleGenerate)
	mux.HandleFunc("GET /api/analytics/market", s.handleMarketIndicators)
	mux.HandleFunc("GET /api/analytics/economic", s.handleEconomicIndicators)
	return mux
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// handleTodayBrief returns the brief for the current day, generating one when
// none exists yet.
func (s *Server) handleTodayBrief(w http.ResponseWriter, r *http.Request) {
	sector, ok := s.sectorParam(w, r)
	if !ok {
		return
	}

	brief, err := s.briefs.TodayBrief(r.Context(), sector)
	if err != nil {
		s.writeGenerationError(w, sector, err)
		return
	}
	writeJSON(w, http.StatusOK, brief)
}

// handleGenerate bypasses the schedule but still respects the generation
// guard.
func (s *Server) handleGenerate(w http.ResponseWriter, r *http.Request) {
	sector, ok := s.sectorParam(w, r)
	if !ok {
		return
	}

	brief, err := s.briefs.Generate(r.Context(), sector)
	if err != nil {
		s.writeGenerationError(w, sector, err)
		return
	}
	writeJSON(w, http.StatusCreated, brief)
}

func (s *Server) handleMarketIndicators(w http.ResponseWriter, r *http.Request) {
	sector, ok := s.sectorParam(w, r)
	if !ok {
		return
	}
	if s.analytics == nil {
		writeError(w, http.StatusNotImplemented, "analytics not configured")
		return
	}

	indicators, err := s.analytics.MarketIndicators(r.Context(), sector)
	if err != nil {
		s.logger.Error("market indicators failed", zap.String("sector", string(sector)), zap.Error(err))
		writeError(w, http.StatusBadGateway, "analytics unavailable")
		return
	}
	writeJSON(w, http.StatusOK, indicators)
}

func (s *Server) handleEconomicIndicators(w http.ResponseWriter, r *http.Request) {
	sector, ok := s.sectorParam(w, r)
	if !ok {
		return
	}
	if s.analytics == nil {
		writeError(w, http.StatusNotImplemented, "analytics not configured")
		return
	}

	indicators, err := s.analytics.EconomicIndicators(r.Context(), sector)
	if err != nil {
		s.logger.Error("economic indicators failed", zap.String("sector", string(sector)), zap.Error(err))
		writeError(w, http.StatusBadGateway, "analytics unavailable")
		return
	}
	writeJSON(w, http.StatusOK, indicators)
}

func (s *Server) sectorParam(w http.ResponseWriter, r *http.Request) (model.Sector, bool) {
	raw := r.URL.Query().Get("sector")
	if raw == "" {
		raw = string(model.SectorDefense)
	}
	sector, err := model.ParseSector(raw)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return "", false
	}
	return sector, true
}

// writeGenerationError maps pipeline failures to status codes. The user-
// visible failure is always "no brief available", never a partial brief.
func (s *Server) writeGenerationError(w http.ResponseWriter, sector model.Sector, err error) {
	var apiErr *research.APIError
	var shortErr *research.ShortContentError

	switch {
	case errors.Is(err, pipeline.ErrGenerationInProgress):
		writeError(w, http.StatusConflict, "generation already in progress")
	case errors.As(err, &apiErr), errors.As(err, &shortErr):
		s.logger.Error("research failed", zap.String("sector", string(sector)), zap.Error(err))
		writeError(w, http.StatusBadGateway, "no brief available for this sector today")
	default:
		s.logger.Error("generation failed", zap.String("sector", string(sector)), zap.Error(err))
		writeError(w, http.StatusInternalServerError, "no brief available for this sector today")
	}
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}
