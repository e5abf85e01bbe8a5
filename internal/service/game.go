package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/playdeckapp/playdeck-server/internal/domain"
	domainerrors "github.com/playdeckapp/playdeck-server/internal/errors"
	"github.com/playdeckapp/playdeck-server/internal/id"
	"github.com/playdeckapp/playdeck-server/internal/media/covers"
	"github.com/playdeckapp/playdeck-server/internal/media/images"
	"github.com/playdeckapp/playdeck-server/internal/store"
)

// GameService handles the shared game catalog.
// Reads are open to all authenticated users; writes are admin-only and the
// handlers enforce that before calling in.
type GameService struct {
	store     store.Store
	storage   *images.Storage
	processor *images.Processor
	fetcher   *covers.Fetcher
	logger    *slog.Logger
}

// NewGameService creates a new game catalog service.
func NewGameService(
	store store.Store,
	storage *images.Storage,
	processor *images.Processor,
	logger *slog.Logger,
) *GameService {
	return &GameService{
		store:     store,
		storage:   storage,
		processor: processor,
		fetcher:   covers.NewFetcher(),
		logger:    logger,
	}
}

// CreateGameRequest contains the fields for adding a game to the catalog.
type CreateGameRequest struct {
	Title       string `json:"title" validate:"required,max=500"`
	Summary     string `json:"summary" validate:"max=5000"`
	Developer   string `json:"developer" validate:"max=200"`
	Publisher   string `json:"publisher" validate:"max=200"`
	ReleaseYear int    `json:"release_year" validate:"omitempty,min=1950,max=2100"`
}

// UpdateGameRequest contains the fields that can be patched on a game.
type UpdateGameRequest struct {
	Title       *string `json:"title,omitempty" validate:"omitempty,min=1,max=500"`
	Summary     *string `json:"summary,omitempty" validate:"omitempty,max=5000"`
	Developer   *string `json:"developer,omitempty" validate:"omitempty,max=200"`
	Publisher   *string `json:"publisher,omitempty" validate:"omitempty,max=200"`
	ReleaseYear *int    `json:"release_year,omitempty" validate:"omitempty,min=1950,max=2100"`
}

// CreateGame adds a new game to the catalog.
func (s *GameService) CreateGame(ctx context.Context, req CreateGameRequest) (*domain.Game, error) {
	if err := validate.Validate(req); err != nil {
		return nil, err
	}

	gameID, err := id.Generate("game")
	if err != nil {
		return nil, fmt.Errorf("generate game ID: %w", err)
	}

	game := &domain.Game{
		Syncable: domain.Syncable{
			ID: gameID,
		},
		Title:       req.Title,
		Summary:     req.Summary,
		Developer:   req.Developer,
		Publisher:   req.Publisher,
		ReleaseYear: req.ReleaseYear,
	}
	game.InitTimestamps()

	if err := s.store.CreateGame(ctx, game); err != nil {
		return nil, fmt.Errorf("create game: %w", err)
	}

	if s.logger != nil {
		s.logger.Info("Game added to catalog",
			"game_id", gameID,
			"title", game.Title,
		)
	}

	return game, nil
}

// GetGame returns a game by ID.
func (s *GameService) GetGame(ctx context.Context, gameID string) (*domain.Game, error) {
	game, err := s.store.GetGame(ctx, gameID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, domainerrors.NotFound("game not found")
		}
		return nil, fmt.Errorf("get game: %w", err)
	}
	return game, nil
}

// ListGames returns the full catalog ordered by title.
func (s *GameService) ListGames(ctx context.Context) ([]*domain.Game, error) {
	games, err := s.store.ListGames(ctx)
	if err != nil {
		return nil, fmt.Errorf("list games: %w", err)
	}
	return games, nil
}

// UpdateGame patches a game's catalog fields.
func (s *GameService) UpdateGame(ctx context.Context, gameID string, req UpdateGameRequest) (*domain.Game, error) {
	if err := validate.Validate(req); err != nil {
		return nil, err
	}

	game, err := s.GetGame(ctx, gameID)
	if err != nil {
		return nil, err
	}

	if req.Title != nil {
		game.Title = *req.Title
	}
	if req.Summary != nil {
		game.Summary = *req.Summary
	}
	if req.Developer != nil {
		game.Developer = *req.Developer
	}
	if req.Publisher != nil {
		game.Publisher = *req.Publisher
	}
	if req.ReleaseYear != nil {
		game.ReleaseYear = *req.ReleaseYear
	}
	game.Touch()

	if err := s.store.UpdateGame(ctx, game); err != nil {
		return nil, fmt.Errorf("update game: %w", err)
	}

	return game, nil
}

// DeleteGame removes a game from the catalog.
// Refused while any user's library still references the game; fuse or
// remove the entries first.
func (s *GameService) DeleteGame(ctx context.Context, gameID string) error {
	count, err := s.store.CountEntriesForGame(ctx, gameID)
	if err != nil {
		return fmt.Errorf("count entries: %w", err)
	}
	if count > 0 {
		return domainerrors.Conflictf("game is in %d libraries and cannot be deleted", count)
	}

	if err := s.store.DeleteGame(ctx, gameID); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return domainerrors.NotFound("game not found")
		}
		return fmt.Errorf("delete game: %w", err)
	}

	// Cover removal is best effort; the row is already gone.
	if err := s.storage.Delete(gameID); err != nil && s.logger != nil {
		s.logger.Warn("Failed to delete cover image",
			"game_id", gameID,
			"error", err,
		)
	}

	if s.logger != nil {
		s.logger.Info("Game deleted from catalog", "game_id", gameID)
	}

	return nil
}

// CoverResponse carries cover bytes plus the hash handlers use for ETags.
type CoverResponse struct {
	Data []byte
	Hash string
}

// UploadCover processes and stores a cover image for a game, then records
// the BlurHash on the game row.
func (s *GameService) UploadCover(ctx context.Context, gameID string, data []byte) (*domain.Game, error) {
	game, err := s.GetGame(ctx, gameID)
	if err != nil {
		return nil, err
	}

	result, err := s.processor.Process(gameID, data)
	if err != nil {
		return nil, domainerrors.Validation("invalid cover image").WithCause(err)
	}

	game.CoverBlurHash = result.BlurHash
	game.HasCover = true
	game.Touch()

	if err := s.store.UpdateGame(ctx, game); err != nil {
		return nil, fmt.Errorf("update game: %w", err)
	}

	if s.logger != nil {
		s.logger.Info("Cover uploaded",
			"game_id", gameID,
			"width", result.Width,
			"height", result.Height,
		)
	}

	return game, nil
}

// SetCoverFromURL downloads a cover image by link and runs it through the
// same processing pipeline as a direct upload.
func (s *GameService) SetCoverFromURL(ctx context.Context, gameID, rawURL string) (*domain.Game, error) {
	if _, err := s.GetGame(ctx, gameID); err != nil {
		return nil, err
	}

	data, err := s.fetcher.Fetch(ctx, rawURL)
	if err != nil {
		return nil, err
	}

	game, err := s.UploadCover(ctx, gameID, data)
	if err != nil {
		return nil, err
	}

	if s.logger != nil {
		s.logger.Info("Cover fetched",
			"game_id", gameID,
			"source", covers.Source(rawURL),
		)
	}

	return game, nil
}

// GetCover returns a game's stored cover bytes.
func (s *GameService) GetCover(ctx context.Context, gameID string) (*CoverResponse, error) {
	game, err := s.GetGame(ctx, gameID)
	if err != nil {
		return nil, err
	}
	if !game.HasCover || !s.storage.Exists(gameID) {
		return nil, domainerrors.NotFound("game has no cover")
	}

	data, err := s.storage.Get(gameID)
	if err != nil {
		return nil, fmt.Errorf("read cover: %w", err)
	}
	hash, err := s.storage.Hash(gameID)
	if err != nil {
		return nil, fmt.Errorf("hash cover: %w", err)
	}

	return &CoverResponse{Data: data, Hash: hash}, nil
}
