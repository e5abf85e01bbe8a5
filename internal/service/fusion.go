package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"github.com/playdeckapp/playdeck-server/internal/domain"
	domainerrors "github.com/playdeckapp/playdeck-server/internal/errors"
	"github.com/playdeckapp/playdeck-server/internal/media/images"
	"github.com/playdeckapp/playdeck-server/internal/store"
)

// FusionService merges duplicate catalog games. Fusing game A into game B
// repoints every library entry from A to B; where a user already owns B,
// their A entry is folded into the B entry instead. The whole operation
// runs in a single database transaction and either completes or leaves
// the catalog untouched.
type FusionService struct {
	store   store.Store
	storage *images.Storage
	logger  *slog.Logger

	// mu serializes fusions. Concurrent fusions touching overlapping games
	// could each observe the other's half-applied state; one at a time is
	// plenty for an admin-only operation.
	mu sync.Mutex
}

// NewFusionService creates a new fusion service.
func NewFusionService(store store.Store, storage *images.Storage, logger *slog.Logger) *FusionService {
	return &FusionService{
		store:   store,
		storage: storage,
		logger:  logger,
	}
}

// FuseGames merges the game removeID into the game keepID and deletes
// removeID. Only admins may fuse. Both games must exist; fusing a game
// into itself is rejected.
func (s *FusionService) FuseGames(ctx context.Context, actor *domain.User, removeID, keepID string) (*domain.FusionResult, error) {
	if actor == nil || !actor.IsAdmin() {
		return nil, domainerrors.Forbidden("admin access required")
	}
	if removeID == "" || keepID == "" {
		return nil, domainerrors.Validation("both game IDs are required")
	}
	if removeID == keepID {
		return nil, domainerrors.Validation("cannot fuse a game into itself")
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, err := s.store.GetGame(ctx, removeID); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, domainerrors.NotFoundf("game %s not found", removeID)
		}
		return nil, fmt.Errorf("get game: %w", err)
	}
	if _, err := s.store.GetGame(ctx, keepID); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, domainerrors.NotFoundf("game %s not found", keepID)
		}
		return nil, fmt.Errorf("get game: %w", err)
	}

	result := &domain.FusionResult{
		SurvivingGameID: keepID,
		RemovedGameID:   removeID,
	}

	// A cancelled request must not abandon the transaction halfway through;
	// once fusion starts it runs to commit or rollback on its own terms.
	txCtx := context.WithoutCancel(ctx)

	err := s.store.RunGameFusion(txCtx, func(tx store.FusionTx) error {
		entries, err := tx.ListEntriesForGame(txCtx, removeID)
		if err != nil {
			return fmt.Errorf("list entries for game %s: %w", removeID, err)
		}

		for _, entry := range entries {
			target, err := tx.GetEntryByUserAndGame(txCtx, entry.UserID, keepID)
			switch {
			case errors.Is(err, store.ErrNotFound):
				// No collision: the entry just moves to the surviving game.
				if err := tx.RepointEntry(txCtx, entry.ID, keepID); err != nil {
					return fmt.Errorf("repoint entry %s: %w", entry.ID, err)
				}
				result.Repointed++

			case err != nil:
				return fmt.Errorf("look up entry for user %s: %w", entry.UserID, err)

			default:
				// The user owns both games. Fold the losing entry into the
				// surviving one and hand over its journal.
				if err := tx.RepointEntryDependents(txCtx, entry.ID, target.ID); err != nil {
					return fmt.Errorf("repoint dependents of entry %s: %w", entry.ID, err)
				}
				target.MergeFrom(entry)
				if err := tx.UpdateEntry(txCtx, target); err != nil {
					return fmt.Errorf("update entry %s: %w", target.ID, err)
				}
				if err := tx.DeleteEntry(txCtx, entry.ID); err != nil {
					return fmt.Errorf("delete entry %s: %w", entry.ID, err)
				}
				result.Merged++
			}
		}

		if err := tx.DeleteGame(txCtx, removeID); err != nil {
			return fmt.Errorf("delete game %s: %w", removeID, err)
		}
		return nil
	})
	if err != nil {
		// Games were verified above, so a mid-transaction disappearance is a
		// store fault rather than caller error.
		if errors.Is(err, store.ErrNotFound) {
			return nil, domainerrors.Wrap(err, domainerrors.CodeInternal, "fusion transaction failed")
		}
		return nil, fmt.Errorf("run game fusion: %w", err)
	}

	// The database committed; the cover file is now orphaned. Deleting it is
	// best effort and never fails the fusion.
	if s.storage != nil {
		if err := s.storage.Delete(removeID); err != nil {
			if s.logger != nil {
				s.logger.Warn("failed to delete cover after fusion",
					slog.String("game_id", removeID),
					slog.String("error", err.Error()))
			}
		}
	}

	if s.logger != nil {
		s.logger.Info("fused games",
			slog.String("removed_game_id", removeID),
			slog.String("surviving_game_id", keepID),
			slog.Int("repointed", result.Repointed),
			slog.Int("merged", result.Merged))
	}

	return result, nil
}
