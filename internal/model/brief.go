package model

import "time"

// DateLayout is the calendar-day format used as part of the brief's natural key.
const DateLayout = "2006-01-02"

// IntelligenceBrief is the structured daily output record for one sector.
// At most one brief exists per (Date, Sector) at any observable instant;
// the store's delete-then-insert writer enforces this.
type IntelligenceBrief struct {
	ID                   string           `json:"id"`
	Sector               Sector           `json:"sector"`
	Date                 string           `json:"date"` // DateLayout, in the scheduler's time zone
	Title                string           `json:"title"`
	Summary              string           `json:"summary"`
	KeyDevelopments      []string         `json:"key_developments"`
	MarketImpact         string           `json:"market_impact"`
	ConflictUpdates      []ConflictUpdate `json:"conflict_updates"`
	StockHighlights      []StockHighlight `json:"stock_highlights"`
	GeopoliticalAnalysis string           `json:"geopolitical_analysis"`
	Sources              []Source         `json:"sources"`
	CreatedAt            time.Time        `json:"created_at"`
}

// Severity classifies a conflict update. It is never taken verbatim from
// upstream text; the extractor derives it from a keyword lexicon.
type Severity string

const (
	SeverityLow      Severity = "low"
	SeverityMedium   Severity = "medium"
	SeverityHigh     Severity = "high"
	SeverityCritical Severity = "critical"
)

// ConflictUpdate is a regional situation summary with derived severity.
type ConflictUpdate struct {
	Region      string   `json:"region"`
	Description string   `json:"description"`
	Severity    Severity `json:"severity"`
}

// StockHighlight is a company mention extracted from research text and
// enriched with live quote data. Numeric fields are always present: zero on
// enrichment failure, so consumers never branch on missing prices.
type StockHighlight struct {
	Symbol        string  `json:"symbol"`
	Name          string  `json:"name"`
	Price         float64 `json:"price"`
	Change        float64 `json:"change"`
	ChangePercent float64 `json:"change_percent"`
	Reason        string  `json:"reason"`
	MarketCap     string  `json:"market_cap,omitempty"`     // amount as quoted in text, e.g. "$850 billion"
	ContractValue string  `json:"contract_value,omitempty"` // amount as quoted in text, e.g. "$2.3 billion"
}

// SourceCategory classifies a citation by its domain.
type SourceCategory string

const (
	SourceNews       SourceCategory = "news"
	SourceFinancial  SourceCategory = "financial"
	SourceGovernment SourceCategory = "government"
	SourceDefense    SourceCategory = "defense"
	SourceOther      SourceCategory = "other"
)

// Source is a classified citation from the research response.
type Source struct {
	Title      string         `json:"title"`
	URL        string         `json:"url"`
	Domain     string         `json:"domain"`
	Category   SourceCategory `json:"category"`
	Accessible bool           `json:"accessible,omitempty"`
}
