// Package domain contains the core business entities and domain logic for the PlayDeck game library.
package domain

// Game represents a catalog entry in the game library.
// Games are shared across all users; per-user state lives on LibraryEntry.
type Game struct {
	Syncable
	Title         string `json:"title"`
	Summary       string `json:"summary,omitempty"`
	Developer     string `json:"developer,omitempty"`
	Publisher     string `json:"publisher,omitempty"`
	ReleaseYear   int    `json:"release_year,omitempty"`
	CoverBlurHash string `json:"cover_blurhash,omitempty"`
	HasCover      bool   `json:"has_cover"`
}
