package research

import (
	"fmt"
	"strings"

	"sectorbrief/internal/model"
)

func systemPrompt(sector model.Sector) string {
	return fmt.Sprintf("You are a %s industry analyst. Report only developments "+
		"from today, with specific figures, contract values and company names. "+
		"Cite reputable sources.", strings.ToLower(sector.DisplayName()))
}

func userPrompt(sector model.Sector) string {
	companies := model.Companies(sector)
	tickers := make([]string, 0, len(companies))
	for _, c := range companies {
		tickers = append(tickers, fmt.Sprintf("%s (%s)", c.Name, c.Symbol))
	}

	switch sector {
	case model.SectorDefense:
		return fmt.Sprintf("What happened today in the global defense industry? "+
			"Cover new contracts and awards with dollar amounts, earnings and stock "+
			"moves, active conflict developments by region, and weapons or technology "+
			"programs. Mention these companies where relevant: %s.",
			strings.Join(tickers, ", "))
	case model.SectorPharma:
		return fmt.Sprintf("What happened today in the pharmaceutical industry? "+
			"Cover FDA decisions, trial results, deals and funding with dollar "+
			"amounts, earnings and stock moves, and regulatory or geopolitical "+
			"developments affecting drug supply. Mention these companies where "+
			"relevant: %s.", strings.Join(tickers, ", "))
	case model.SectorEnergy:
		return fmt.Sprintf("What happened today in the global energy industry? "+
			"Cover oil and gas prices, new projects and contracts with dollar "+
			"amounts, earnings and stock moves, and geopolitical developments "+
			"affecting supply by region. Mention these companies where relevant: %s.",
			strings.Join(tickers, ", "))
	}
	return fmt.Sprintf("What happened today in the %s industry?", sector)
}
