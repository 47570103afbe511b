package domain

import "time"

// Link represents a shortened link in our system
// This is our "domain model" - the single entity the service manages
type Link struct {
	ID            int64      `json:"id"`              // Surrogate key assigned by the store
	Code          string     `json:"code"`            // The short identifier (e.g., "aB3xY9")
	URL           string     `json:"url"`             // The full URL to redirect to
	CreatedAt     time.Time  `json:"created_at"`      // When the link was created
	Clicks        int64      `json:"clicks"`          // Number of recorded clicks
	LastClickedAt *time.Time `json:"last_clicked_at"` // Nil until the first click (pointer = nullable)
}

// NewLink is a constructor function that creates a link with sensible defaults
// The ID is left zero; the store assigns it on insert
func NewLink(code, url string) *Link {
	return &Link{
		Code:      code,
		URL:       url,
		CreatedAt: time.Now(),
		Clicks:    0,
	}
}
