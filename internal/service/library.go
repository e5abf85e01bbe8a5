package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/playdeckapp/playdeck-server/internal/domain"
	domainerrors "github.com/playdeckapp/playdeck-server/internal/errors"
	"github.com/playdeckapp/playdeck-server/internal/id"
	"github.com/playdeckapp/playdeck-server/internal/store"
)

// LibraryService manages per-user library entries and play sessions.
// Every operation is scoped to an owner; admins may read other users'
// entries but never mutate them.
type LibraryService struct {
	store  store.Store
	logger *slog.Logger
}

// NewLibraryService creates a new library service.
func NewLibraryService(store store.Store, logger *slog.Logger) *LibraryService {
	return &LibraryService{
		store:  store,
		logger: logger,
	}
}

// AddGameRequest contains the fields for adding a game to a user's library.
type AddGameRequest struct {
	GameID     string `json:"game_id" validate:"required"`
	IsFavorite bool   `json:"is_favorite"`
	IsPinned   bool   `json:"is_pinned"`
}

// UpdateEntryRequest contains the flags that can be patched on an entry.
type UpdateEntryRequest struct {
	IsFavorite *bool `json:"is_favorite,omitempty"`
	IsPinned   *bool `json:"is_pinned,omitempty"`
}

// LogPlayRequest contains the fields for recording a play session.
type LogPlayRequest struct {
	Minutes  int64      `json:"minutes" validate:"required,min=1,max=10080"`
	PlayedAt *time.Time `json:"played_at,omitempty"`
	Note     string     `json:"note" validate:"max=2000"`
}

// AddGame creates a library entry linking the user to a catalog game.
// A user can hold at most one entry per game.
func (s *LibraryService) AddGame(ctx context.Context, userID string, req AddGameRequest) (*domain.LibraryEntry, error) {
	if err := validate.Validate(req); err != nil {
		return nil, err
	}

	// The game must exist in the catalog.
	if _, err := s.store.GetGame(ctx, req.GameID); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, domainerrors.NotFound("game not found")
		}
		return nil, fmt.Errorf("get game: %w", err)
	}

	entryID, err := id.Generate("entry")
	if err != nil {
		return nil, fmt.Errorf("generate entry ID: %w", err)
	}

	entry := &domain.LibraryEntry{
		Syncable: domain.Syncable{
			ID: entryID,
		},
		UserID:     userID,
		GameID:     req.GameID,
		IsFavorite: req.IsFavorite,
		IsPinned:   req.IsPinned,
	}
	entry.InitTimestamps()

	if err := s.store.CreateEntry(ctx, entry); err != nil {
		if errors.Is(err, store.ErrAlreadyExists) {
			return nil, domainerrors.Conflict("game is already in your library")
		}
		return nil, fmt.Errorf("create entry: %w", err)
	}

	if s.logger != nil {
		s.logger.Info("Game added to library",
			"user_id", userID,
			"game_id", req.GameID,
			"entry_id", entryID,
		)
	}

	return entry, nil
}

// GetEntry loads an entry and verifies the actor may see it.
// Owners always can; admins can read anyone's.
func (s *LibraryService) GetEntry(ctx context.Context, actor *domain.User, entryID string) (*domain.LibraryEntry, error) {
	entry, err := s.store.GetEntry(ctx, entryID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, domainerrors.NotFound("library entry not found")
		}
		return nil, fmt.Errorf("get entry: %w", err)
	}

	if entry.UserID != actor.ID && !actor.IsAdmin() {
		return nil, domainerrors.Forbidden("not your library entry")
	}

	return entry, nil
}

// getOwnedEntry loads an entry the actor must own outright; admin status
// does not grant write access to someone else's library.
func (s *LibraryService) getOwnedEntry(ctx context.Context, actorID, entryID string) (*domain.LibraryEntry, error) {
	entry, err := s.store.GetEntry(ctx, entryID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, domainerrors.NotFound("library entry not found")
		}
		return nil, fmt.Errorf("get entry: %w", err)
	}

	if entry.UserID != actorID {
		return nil, domainerrors.Forbidden("not your library entry")
	}

	return entry, nil
}

// ListEntries returns a user's library sorted by title or playtime.
func (s *LibraryService) ListEntries(ctx context.Context, userID string, sort store.EntrySort) ([]*domain.LibraryEntry, error) {
	entries, err := s.store.ListEntriesForUser(ctx, userID, sort)
	if err != nil {
		if errors.Is(err, store.ErrInvalidInput) {
			return nil, domainerrors.Validation("sort must be title or playtime")
		}
		return nil, fmt.Errorf("list entries: %w", err)
	}
	return entries, nil
}

// UpdateEntry patches the favorite/pinned flags on an entry.
func (s *LibraryService) UpdateEntry(ctx context.Context, actorID, entryID string, req UpdateEntryRequest) (*domain.LibraryEntry, error) {
	entry, err := s.getOwnedEntry(ctx, actorID, entryID)
	if err != nil {
		return nil, err
	}

	if req.IsFavorite != nil {
		entry.IsFavorite = *req.IsFavorite
	}
	if req.IsPinned != nil {
		entry.IsPinned = *req.IsPinned
	}
	entry.Touch()

	if err := s.store.UpdateEntry(ctx, entry); err != nil {
		return nil, fmt.Errorf("update entry: %w", err)
	}

	return entry, nil
}

// RemoveEntry deletes an entry and everything attached to it: play
// sessions, objectives with their tasks, notes and canvases go in the
// same transaction.
func (s *LibraryService) RemoveEntry(ctx context.Context, actorID, entryID string) error {
	entry, err := s.getOwnedEntry(ctx, actorID, entryID)
	if err != nil {
		return err
	}

	if err := s.store.DeleteEntry(ctx, entry.ID); err != nil {
		return fmt.Errorf("delete entry: %w", err)
	}

	if s.logger != nil {
		s.logger.Info("Library entry removed",
			"user_id", actorID,
			"entry_id", entryID,
			"game_id", entry.GameID,
		)
	}

	return nil
}

// LogPlay records a play session and accrues its minutes onto the entry.
func (s *LibraryService) LogPlay(ctx context.Context, actorID, entryID string, req LogPlayRequest) (*domain.PlaySession, error) {
	if err := validate.Validate(req); err != nil {
		return nil, err
	}

	entry, err := s.getOwnedEntry(ctx, actorID, entryID)
	if err != nil {
		return nil, err
	}

	playID, err := id.Generate("play")
	if err != nil {
		return nil, fmt.Errorf("generate play ID: %w", err)
	}

	now := time.Now()
	playedAt := now
	if req.PlayedAt != nil {
		playedAt = *req.PlayedAt
	}

	play := &domain.PlaySession{
		ID:             playID,
		LibraryEntryID: entry.ID,
		PlayedAt:       playedAt,
		Minutes:        req.Minutes,
		Note:           req.Note,
		CreatedAt:      now,
	}

	if err := s.store.CreatePlaySession(ctx, play); err != nil {
		return nil, fmt.Errorf("create play session: %w", err)
	}

	entry.AddPlaytime(req.Minutes)
	if err := s.store.UpdateEntry(ctx, entry); err != nil {
		return nil, fmt.Errorf("update entry playtime: %w", err)
	}

	return play, nil
}

// ListPlays returns an entry's play sessions, most recent first.
func (s *LibraryService) ListPlays(ctx context.Context, actor *domain.User, entryID string) ([]*domain.PlaySession, error) {
	if _, err := s.GetEntry(ctx, actor, entryID); err != nil {
		return nil, err
	}

	plays, err := s.store.ListPlaySessionsForEntry(ctx, entryID)
	if err != nil {
		return nil, fmt.Errorf("list play sessions: %w", err)
	}
	return plays, nil
}

// DeletePlay removes a play session and subtracts its minutes from the
// entry's accrued playtime.
func (s *LibraryService) DeletePlay(ctx context.Context, actorID, entryID, playID string) error {
	entry, err := s.getOwnedEntry(ctx, actorID, entryID)
	if err != nil {
		return err
	}

	play, err := s.store.GetPlaySession(ctx, playID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return domainerrors.NotFound("play session not found")
		}
		return fmt.Errorf("get play session: %w", err)
	}
	if play.LibraryEntryID != entry.ID {
		return domainerrors.NotFound("play session not found")
	}

	if err := s.store.DeletePlaySession(ctx, playID); err != nil {
		return fmt.Errorf("delete play session: %w", err)
	}

	entry.PlaytimeMinutes -= play.Minutes
	if entry.PlaytimeMinutes < 0 {
		entry.PlaytimeMinutes = 0
	}
	entry.Touch()
	if err := s.store.UpdateEntry(ctx, entry); err != nil {
		return fmt.Errorf("update entry playtime: %w", err)
	}

	return nil
}
