package extract

import (
	"net/url"
	"strings"

	"golang.org/x/net/publicsuffix"

	"sectorbrief/internal/model"
)

// domainCategories maps domain fragments to source categories. Order matters:
// the first fragment list with a match wins.
var domainCategories = []struct {
	category  model.SourceCategory
	fragments []string
}{
	{model.SourceDefense, []string{
		"defensenews", "janes", "breakingdefense", "defenseone",
		"militarytimes", "warzone", "navalnews",
	}},
	{model.SourceGovernment, []string{
		".gov", ".mil", "nato.int", "europa.eu", "un.org", "who.int",
	}},
	{model.SourceFinancial, []string{
		"bloomberg", "ft.com", "wsj", "cnbc", "marketwatch", "barrons",
		"investors.com", "fool.com", "seekingalpha",
	}},
	{model.SourceNews, []string{
		"reuters", "apnews", "bbc", "cnn", "nytimes", "theguardian",
		"washingtonpost", "aljazeera",
	}},
}

// classifySources maps citation URLs into classified Source records. The
// domain is normalized to its registrable form (eTLD+1) where possible.
func classifySources(citations []string) []model.Source {
	sources := make([]model.Source, 0, len(citations))
	for _, raw := range citations {
		parsed, err := url.Parse(raw)
		if err != nil || parsed.Host == "" {
			continue
		}

		host := strings.ToLower(parsed.Hostname())
		domain := host
		if d, err := publicsuffix.EffectiveTLDPlusOne(host); err == nil {
			domain = d
		}

		sources = append(sources, model.Source{
			Title:    sourceTitle(parsed, domain),
			URL:      raw,
			Domain:   domain,
			Category: classifyDomain(host),
		})
	}
	return sources
}

func classifyDomain(host string) model.SourceCategory {
	for _, entry := range domainCategories {
		for _, fragment := range entry.fragments {
			if strings.Contains(host, fragment) {
				return entry.category
			}
		}
	}
	return model.SourceOther
}

// sourceTitle derives a readable title from the URL's last path segment,
// falling back to the domain.
func sourceTitle(parsed *url.URL, domain string) string {
	path := strings.Trim(parsed.Path, "/")
	if path == "" {
		return domain
	}

	segments := strings.Split(path, "/")
	last := segments[len(segments)-1]
	last = strings.TrimSuffix(last, ".html")
	last = strings.ReplaceAll(last, "_", " ")
	last = strings.ReplaceAll(last, "-", " ")
	last = strings.TrimSpace(last)
	if len(last) < 4 {
		return domain
	}
	return last
}
