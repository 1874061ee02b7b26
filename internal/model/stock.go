package model

import "time"

// Stock is a tracked company record in the persistent store. New rows are
// created exclusively by the enrichment client's company-discovery pass.
type Stock struct {
	ID            string    `json:"id"`
	Symbol        string    `json:"symbol"`
	Name          string    `json:"name"`
	Sector        Sector    `json:"sector"`
	Price         float64   `json:"price"`
	Change        float64   `json:"change"`
	ChangePercent float64   `json:"change_percent"`
	Volume        int64     `json:"volume"`
	LastUpdated   time.Time `json:"last_updated"`
}
