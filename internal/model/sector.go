package model

import "fmt"

// Sector partitions briefs and company lists.
type Sector string

const (
	SectorDefense Sector = "defense"
	SectorPharma  Sector = "pharma"
	SectorEnergy  Sector = "energy"
)

// AllSectors lists every supported sector in display order.
func AllSectors() []Sector {
	return []Sector{SectorDefense, SectorPharma, SectorEnergy}
}

// ParseSector validates a sector name.
func ParseSector(s string) (Sector, error) {
	switch Sector(s) {
	case SectorDefense, SectorPharma, SectorEnergy:
		return Sector(s), nil
	}
	return "", fmt.Errorf("unknown sector %q (want defense, pharma or energy)", s)
}

// DisplayName returns the sector's human-readable name.
func (s Sector) DisplayName() string {
	switch s {
	case SectorDefense:
		return "Defense"
	case SectorPharma:
		return "Pharmaceutical"
	case SectorEnergy:
		return "Energy"
	}
	return string(s)
}

// Company is a tracked company in a sector's watchlist.
type Company struct {
	Symbol string
	Name   string
}

// sectorCompanies is the fixed per-sector watchlist used for stock highlight
// extraction and company discovery.
var sectorCompanies = map[Sector][]Company{
	SectorDefense: {
		{Symbol: "LMT", Name: "Lockheed Martin"},
		{Symbol: "RTX", Name: "RTX Corporation"},
		{Symbol: "NOC", Name: "Northrop Grumman"},
		{Symbol: "GD", Name: "General Dynamics"},
		{Symbol: "BA", Name: "Boeing"},
		{Symbol: "LHX", Name: "L3Harris"},
		{Symbol: "HII", Name: "Huntington Ingalls"},
		{Symbol: "TXT", Name: "Textron"},
		{Symbol: "LDOS", Name: "Leidos"},
		{Symbol: "KTOS", Name: "Kratos Defense"},
		{Symbol: "AVAV", Name: "AeroVironment"},
		{Symbol: "PLTR", Name: "Palantir"},
	},
	SectorPharma: {
		{Symbol: "PFE", Name: "Pfizer"},
		{Symbol: "JNJ", Name: "Johnson & Johnson"},
		{Symbol: "MRK", Name: "Merck"},
		{Symbol: "ABBV", Name: "AbbVie"},
		{Symbol: "LLY", Name: "Eli Lilly"},
		{Symbol: "BMY", Name: "Bristol Myers Squibb"},
		{Symbol: "AMGN", Name: "Amgen"},
		{Symbol: "GILD", Name: "Gilead Sciences"},
		{Symbol: "MRNA", Name: "Moderna"},
		{Symbol: "NVO", Name: "Novo Nordisk"},
	},
	SectorEnergy: {
		{Symbol: "XOM", Name: "ExxonMobil"},
		{Symbol: "CVX", Name: "Chevron"},
		{Symbol: "COP", Name: "ConocoPhillips"},
		{Symbol: "SLB", Name: "Schlumberger"},
		{Symbol: "OXY", Name: "Occidental Petroleum"},
		{Symbol: "HAL", Name: "Halliburton"},
		{Symbol: "NEE", Name: "NextEra Energy"},
		{Symbol: "FSLR", Name: "First Solar"},
		{Symbol: "VLO", Name: "Valero"},
		{Symbol: "PSX", Name: "Phillips 66"},
	},
}

// Companies returns the fixed watchlist for a sector.
func Companies(s Sector) []Company {
	return sectorCompanies[s]
}

// CompanyBySymbol looks up a watchlist entry by ticker.
func CompanyBySymbol(s Sector, symbol string) (Company, bool) {
	for _, c := range sectorCompanies[s] {
		if c.Symbol == symbol {
			return c, true
		}
	}
	return Company{}, false
}
