package dto

// RunEnrichmentRequest selects rows by within-category rank; TopRank 0
// means every row. Concurrency 0 falls back to the configured bound.
type RunEnrichmentRequest struct {
	TopRank     int `json:"top_rank" validate:"omitempty,min=1"`
	Concurrency int `json:"concurrency" validate:"omitempty,min=1,max=64"`
}

// RowError isolates one failed work unit; the rest of the batch is
// unaffected by it.
type RowError struct {
	Row   int    `json:"row"`
	Error string `json:"error"`
}

type RunEnrichmentResponse struct {
	Selected int        `json:"selected"`
	Enriched int        `json:"enriched"`
	Failed   []RowError `json:"failed,omitempty"`
}

type ProgressResponse struct {
	Fraction float64 `json:"fraction"`
}

// ProgressEvent is the payload published on the progress topic and
// pushed to websocket clients.
type ProgressEvent struct {
	SessionID string  `json:"session_id"`
	Batch     string  `json:"batch"` // "enrichment" | "trend"
	Completed int     `json:"completed"`
	Total     int     `json:"total"`
	Fraction  float64 `json:"fraction"`
}
