package dto

import "ai-trendboard-be/pkg/table"

type RunTrendRequest struct {
	TopRank     int `json:"top_rank" validate:"omitempty,min=1"`
	Concurrency int `json:"concurrency" validate:"omitempty,min=1,max=64"`
}

type CategoryError struct {
	Category string `json:"category"`
	Error    string `json:"error"`
}

type RunTrendResponse struct {
	Categories int             `json:"categories"`
	Summarized int             `json:"summarized"`
	Failed     []CategoryError `json:"failed,omitempty"`
}

type GetTrendsResponse struct {
	Table    *table.Table `json:"table"`
	RowCount int          `json:"row_count"`
}
