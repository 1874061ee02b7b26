// Package extract converts free-form research prose into the structured
// fields of an intelligence brief. Extraction is pure: no I/O, and every
// field falls back through an ordered heuristic chain to a templated default,
// so the result is always structurally complete.
package extract

import (
	"fmt"
	"regexp"
	"strings"
	"time"

	"sectorbrief/internal/model"
)

const (
	maxConflictUpdates = 5
	maxStockHighlights = 8
	maxKeyDevelopments = 6
	minDevelopmentLen  = 40
	maxSummaryLen      = 800
	maxImpactLen       = 600
)

// Fields is the extractor's structured output, merged with enrichment data by
// the pipeline's assembler.
type Fields struct {
	Title                string
	Summary              string
	KeyDevelopments      []string
	MarketImpact         string
	ConflictUpdates      []model.ConflictUpdate
	StockHighlights      []model.StockHighlight
	GeopoliticalAnalysis string
	Sources              []model.Source
}

var (
	currencyRe = regexp.MustCompile(`(?i)\$\s?\d[\d,]*(?:\.\d+)?(?:\s?(?:trillion|billion|million|bn|mn|[btm])\b)?`)
	percentRe  = regexp.MustCompile(`\d+(?:\.\d+)?\s?%`)
	bulletRe   = regexp.MustCompile(`^\s*(?:[•\-\*]|\d+[.)])\s+(.+)$`)
)

// Extract maps cleaned research content to brief fields. The title is
// templated from the date rather than extracted; sources come from the
// citation URL list.
func Extract(content string, sector model.Sector, date time.Time, citations []string) Fields {
	text := Clean(content)
	paragraphs := splitParagraphs(text)
	sentences := splitSentences(text)

	return Fields{
		Title:                buildTitle(sector, date),
		Summary:              extractSummary(text, paragraphs, sector),
		KeyDevelopments:      extractDevelopments(text, sentences, sector),
		MarketImpact:         extractKeywordParagraph(paragraphs, impactKeywords, fallbackImpact(sector)),
		ConflictUpdates:      extractConflicts(sentences),
		StockHighlights:      extractHighlights(sentences, sector),
		GeopoliticalAnalysis: extractKeywordParagraph(paragraphs, geoKeywords, fallbackGeo(sector)),
		Sources:              classifySources(citations),
	}
}

func buildTitle(sector model.Sector, date time.Time) string {
	return fmt.Sprintf("%s Intelligence Brief - %s", sector.DisplayName(), date.Format("January 2, 2006"))
}

// extractSummary builds an opening sentence per matched theme, then appends
// up to two paragraphs mentioning currency amounts or sector keywords.
func extractSummary(text string, paragraphs []string, sector model.Sector) string {
	lower := strings.ToLower(text)

	var parts []string
	for _, theme := range summaryThemes {
		if containsAny(lower, theme.keywords) {
			parts = append(parts, theme.opener)
		}
	}

	appended := 0
	for _, p := range paragraphs {
		if appended >= 2 {
			break
		}
		if currencyRe.MatchString(p) || containsAny(strings.ToLower(p), sectorKeywords[sector]) {
			parts = append(parts, strings.TrimSpace(p))
			appended++
		}
	}

	if len(parts) == 0 {
		return fallbackSummaries[sector]
	}
	return truncateAtWord(strings.Join(parts, " "), maxSummaryLen)
}

// extractDevelopments prefers bulleted or numbered list items, falling back
// to sentences carrying money, percentage or contract language.
func extractDevelopments(text string, sentences []string, sector model.Sector) []string {
	var items []string
	for _, line := range strings.Split(text, "\n") {
		m := bulletRe.FindStringSubmatch(line)
		if m == nil {
			continue
		}
		item := strings.TrimSpace(m[1])
		if len(item) > minDevelopmentLen {
			items = append(items, item)
		}
		if len(items) == maxKeyDevelopments {
			return items
		}
	}

	if len(items) < 3 {
		for _, s := range sentences {
			if len(items) == maxKeyDevelopments {
				break
			}
			lower := strings.ToLower(s)
			if strings.Contains(s, "$") || strings.Contains(s, "%") || containsAny(lower, developmentKeywords) {
				if !containsString(items, s) {
					items = append(items, s)
				}
			}
		}
	}

	if len(items) == 0 {
		items = []string{fmt.Sprintf("No major %s sector developments were identified in today's research.", sector)}
	}
	return items
}

// extractKeywordParagraph returns the first paragraph matching any keyword,
// then the first paragraph with a money or percentage figure, then the
// templated default.
func extractKeywordParagraph(paragraphs []string, keywords []string, fallback string) string {
	for _, p := range paragraphs {
		if containsAny(strings.ToLower(p), keywords) {
			return truncateAtWord(strings.TrimSpace(p), maxImpactLen)
		}
	}
	for _, p := range paragraphs {
		if currencyRe.MatchString(p) || percentRe.MatchString(p) {
			return truncateAtWord(strings.TrimSpace(p), maxImpactLen)
		}
	}
	return fallback
}

// extractConflicts takes the first sentence naming each known region and
// derives severity from the lexicon, most-severe tier first.
func extractConflicts(sentences []string) []model.ConflictUpdate {
	var updates []model.ConflictUpdate
	for _, region := range conflictRegions {
		if len(updates) == maxConflictUpdates {
			break
		}
		for _, s := range sentences {
			if !strings.Contains(s, region) {
				continue
			}
			updates = append(updates, model.ConflictUpdate{
				Region:      region,
				Description: s,
				Severity:    ClassifySeverity(s),
			})
			break
		}
	}
	return updates
}

// ClassifySeverity scans a sentence against the severity lexicon. Tiers are
// ordered critical > high > medium > low and the most severe match wins;
// no match defaults to medium.
func ClassifySeverity(sentence string) model.Severity {
	lower := strings.ToLower(sentence)
	for _, tier := range severityLexicon {
		if containsAny(lower, tier.keywords) {
			return tier.severity
		}
	}
	return model.SeverityMedium
}

// extractHighlights finds the first sentence mentioning each watchlist
// company by name or ticker. A currency amount in a contract sentence becomes
// ContractValue; in any other sentence it becomes MarketCap.
func extractHighlights(sentences []string, sector model.Sector) []model.StockHighlight {
	var highlights []model.StockHighlight
	for _, company := range model.Companies(sector) {
		if len(highlights) == maxStockHighlights {
			break
		}
		symbolRe := regexp.MustCompile(`\b` + regexp.QuoteMeta(company.Symbol) + `\b`)
		for _, s := range sentences {
			if !strings.Contains(s, company.Name) && !symbolRe.MatchString(s) {
				continue
			}
			h := model.StockHighlight{
				Symbol: company.Symbol,
				Name:   company.Name,
				Reason: s,
			}
			if amount := currencyRe.FindString(s); amount != "" {
				if strings.Contains(strings.ToLower(s), "contract") {
					h.ContractValue = strings.TrimSpace(amount)
				} else {
					h.MarketCap = strings.TrimSpace(amount)
				}
			}
			highlights = append(highlights, h)
			break
		}
	}
	return highlights
}

func fallbackImpact(sector model.Sector) string {
	return fmt.Sprintf("Market impact for the %s sector could not be assessed from today's research; watch major constituents for follow-through.", sector)
}

func fallbackGeo(sector model.Sector) string {
	return fmt.Sprintf("No distinct geopolitical analysis emerged for the %s sector today.", sector)
}

// splitParagraphs splits text on blank lines, dropping short fragments.
func splitParagraphs(text string) []string {
	var out []string
	for _, p := range strings.Split(text, "\n\n") {
		p = strings.TrimSpace(p)
		if len(p) >= 40 {
			out = append(out, p)
		}
	}
	return out
}

// splitSentences breaks text into sentences on terminator-plus-space
// boundaries, keeping those of plausible length.
func splitSentences(text string) []string {
	text = strings.ReplaceAll(text, "\n", " ")

	var sentences []string
	var current strings.Builder
	for i, r := range text {
		current.WriteRune(r)
		if r == '.' || r == '!' || r == '?' {
			if i+1 >= len(text) || text[i+1] == ' ' || text[i+1] == '\t' {
				appendSentence(&sentences, current.String())
				current.Reset()
			}
		}
	}
	appendSentence(&sentences, current.String())
	return sentences
}

func appendSentence(sentences *[]string, raw string) {
	s := strings.TrimSpace(raw)
	if len(s) >= 20 && len(s) <= 600 {
		*sentences = append(*sentences, s)
	}
}

func truncateAtWord(s string, max int) string {
	if len(s) <= max {
		return s
	}
	cut := s[:max]
	if idx := strings.LastIndex(cut, " "); idx > 0 {
		cut = cut[:idx]
	}
	return cut + "..."
}

func containsAny(haystack string, needles []string) bool {
	for _, n := range needles {
		if strings.Contains(haystack, n) {
			return true
		}
	}
	return false
}

func containsString(items []string, s string) bool {
	for _, item := range items {
		if item == s {
			return true
		}
	}
	return false
}
