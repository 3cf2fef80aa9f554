package store

import (
	"time"

	"ai-trendboard-be/pkg/table"
)

// ChatMessage is one role-tagged entry of the session transcript.
type ChatMessage struct {
	Role      string    `json:"role"` // "user" | "assistant"
	Content   string    `json:"content"`
	ImageURL  string    `json:"image_url,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

// Session is the authoritative per-session state: it owns the product
// table, the derived trend table, the chat transcript and the service
// credentials for the lifetime of one dashboard session. All reads and
// writes between UI actions and the enrichment engine go through it.
type Session struct {
	ID            string `json:"id"`
	Authenticated bool   `json:"authenticated"`
	APIKey        string `json:"api_key,omitempty"`

	// The single product table; replaced wholesale on upload,
	// cleared wholesale on reset.
	Table *table.Table `json:"table,omitempty"`

	// Derived category→summary table; a trend run fully replaces it.
	Trends *table.Table `json:"trends,omitempty"`

	Transcript    []ChatMessage `json:"transcript"`
	StagedUploads []string      `json:"staged_uploads"`

	// Fraction of the last/ongoing enrichment batch, 0..1.
	Progress float64 `json:"progress"`

	CreatedAt time.Time `json:"created_at"`
}

const (
	RoleUser      = "user"
	RoleAssistant = "assistant"
)
