package domain

// LibraryEntry represents one user's ownership of one game.
// At most one entry exists per (user, game) pair; the store enforces this
// with a unique index and the fusion transaction preserves it.
type LibraryEntry struct {
	Syncable
	UserID          string `json:"user_id"`
	GameID          string `json:"game_id"`
	PlaytimeMinutes int64  `json:"playtime_minutes"`
	IsFavorite      bool   `json:"is_favorite"`
	IsPinned        bool   `json:"is_pinned"`
}

// AddPlaytime accrues played minutes onto the entry.
// Negative deltas are ignored; playtime only moves forward.
func (e *LibraryEntry) AddPlaytime(minutes int64) {
	if minutes <= 0 {
		return
	}
	e.PlaytimeMinutes += minutes
	e.Touch()
}

// MergeFrom folds another entry for the same user into this one.
// Playtime is summed and the favorite/pinned flags are combined with OR,
// so a signal set on either entry survives the merge.
func (e *LibraryEntry) MergeFrom(other *LibraryEntry) {
	e.PlaytimeMinutes += other.PlaytimeMinutes
	e.IsFavorite = e.IsFavorite || other.IsFavorite
	e.IsPinned = e.IsPinned || other.IsPinned
	e.Touch()
}
