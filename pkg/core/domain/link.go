package domain

import "time"

// Link represents a shortened URL record
type Link struct {
	ID          string    `json:"id"`
	OriginalURL string    `json:"original_url"`
	ShortCode   string    `json:"short_code"`
	Alias       string    `json:"alias,omitempty"` // user-chosen or AI-suggested code, empty when generated
	CreatedAt   time.Time `json:"created_at"`
	Clicks      int64     `json:"clicks"`
	Password    string    `json:"password,omitempty"`    // stored only, never checked on the redirect path
	ExpiryDate  string    `json:"expiry_date,omitempty"` // stored as submitted (YYYY-MM-DD), never checked
	Category    string    `json:"category"`
	SafetyScore int       `json:"safety_score"`
	Tags        []string  `json:"tags,omitempty"`
	BlockBots   bool      `json:"block_bots,omitempty"`
}

// ShortenOptions carries the optional knobs of a shorten request.
type ShortenOptions struct {
	Alias      string
	Password   string
	ExpiryDate string
	Tags       []string
	BlockBots  bool
	AIEnabled  bool
}
