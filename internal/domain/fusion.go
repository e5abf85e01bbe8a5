package domain

// FusionResult describes the outcome of fusing a duplicate game into a
// surviving one. Repointed counts entries that simply moved to the surviving
// game; Merged counts entries that collided with an existing entry and were
// folded into it.
type FusionResult struct {
	SurvivingGameID string `json:"surviving_game_id"`
	RemovedGameID   string `json:"removed_game_id"`
	Repointed       int    `json:"repointed"`
	Merged          int    `json:"merged"`
}

// EntriesTouched returns the total number of library entries the fusion
// rewrote, in either branch.
func (r FusionResult) EntriesTouched() int {
	return r.Repointed + r.Merged
}
