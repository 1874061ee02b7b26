package extract

import "sectorbrief/internal/model"

// conflictRegions is the fixed region list scanned for conflict updates.
var conflictRegions = []string{
	"Ukraine",
	"Russia",
	"Gaza",
	"Israel",
	"Iran",
	"Taiwan",
	"South China Sea",
	"North Korea",
	"Syria",
	"Red Sea",
	"Middle East",
	"Sahel",
}

// severityLexicon orders keyword tiers from most to least severe. The first
// tier with a match in the surrounding sentence wins; no match means medium.
var severityLexicon = []struct {
	severity model.Severity
	keywords []string
}{
	{model.SeverityCritical, []string{
		"nuclear", "invasion", "catastrophic", "mass casualties",
		"chemical weapons", "full-scale",
	}},
	{model.SeverityHigh, []string{
		"escalat", "offensive", "missile", "airstrike", "strike",
		"attack", "bombardment",
	}},
	{model.SeverityMedium, []string{
		"conflict", "tension", "clash", "mobilization", "sanctions",
		"buildup",
	}},
	{model.SeverityLow, []string{
		"routine", "stable", "ceasefire", "de-escalation", "talks",
		"negotiation", "withdrawal",
	}},
}

// summaryThemes maps thematic keyword groups to opening sentences. Matched
// themes contribute one opener each, in order.
var summaryThemes = []struct {
	keywords []string
	opener   string
}{
	{
		keywords: []string{"contract", "award", "funding", "procurement"},
		opener:   "New contracts and funding moves headline today's developments.",
	},
	{
		keywords: []string{"earnings", "revenue", "stock", "shares", "profit"},
		opener:   "Earnings and market activity shaped sector sentiment.",
	},
	{
		keywords: []string{"geopolitical", "conflict", "war", "tensions", "sanctions"},
		opener:   "Geopolitical developments remain a driving factor.",
	},
	{
		keywords: []string{"technology", "weapons", "missile", "drone", "systems", "trial", "approval"},
		opener:   "Technology and program news rounds out the picture.",
	},
}

// impactKeywords flag a paragraph as market-impact analysis.
var impactKeywords = []string{"outlook", "analysis", "implications", "forecast"}

// geoKeywords flag a paragraph as geopolitical analysis.
var geoKeywords = []string{
	"geopolitical", "sanctions", "alliance", "treaty", "diplomatic",
	"nato", "sovereignty", "tensions",
}

// developmentKeywords drive the fallback chain for key developments.
var developmentKeywords = []string{"contract", "award"}

// sectorKeywords steer summary paragraph selection per sector.
var sectorKeywords = map[model.Sector][]string{
	model.SectorDefense: {"defense", "military", "contract", "weapons", "pentagon"},
	model.SectorPharma:  {"drug", "fda", "trial", "pharmaceutical", "treatment"},
	model.SectorEnergy:  {"oil", "gas", "energy", "opec", "renewable"},
}

// fallbackSummaries are the templated defaults when no thematic signal exists.
var fallbackSummaries = map[model.Sector]string{
	model.SectorDefense: "Defense sector activity continued today across contracts, programs and global security developments. Market participants are monitoring procurement decisions and regional tensions for their impact on major contractors.",
	model.SectorPharma:  "Pharmaceutical sector activity continued today across regulatory decisions, clinical programs and commercial developments. Market participants are monitoring FDA actions and pipeline progress for their impact on major drugmakers.",
	model.SectorEnergy:  "Energy sector activity continued today across commodity markets, projects and policy developments. Market participants are monitoring supply dynamics and geopolitical risk for their impact on major producers.",
}
