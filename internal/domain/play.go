package domain

import "time"

// PlaySession records a single sitting of play against a library entry.
// Logging a session also accrues its minutes onto the entry's total.
type PlaySession struct {
	ID             string    `json:"id"`
	LibraryEntryID string    `json:"library_entry_id"`
	PlayedAt       time.Time `json:"played_at"`
	Minutes        int64     `json:"minutes"`
	Note           string    `json:"note,omitempty"`
	CreatedAt      time.Time `json:"created_at"`
}
