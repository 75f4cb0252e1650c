package domain

// BoardSummary holds aggregate figures for the idea board.
type BoardSummary struct {
	Total         int           `json:"total"`
	Counts        []StatusCount `json:"counts"`
	MedianAgeDays float64       `json:"median_age_days"`
	MeanAgeDays   float64       `json:"mean_age_days"`
}
