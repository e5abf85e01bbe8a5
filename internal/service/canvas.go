package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/playdeckapp/playdeck-server/internal/domain"
	domainerrors "github.com/playdeckapp/playdeck-server/internal/errors"
	"github.com/playdeckapp/playdeck-server/internal/id"
	"github.com/playdeckapp/playdeck-server/internal/store"
)

// CanvasService manages freeform planning canvases attached to library
// entries. Canvas content is an opaque JSON document owned by the client.
type CanvasService struct {
	store   store.Store
	library *LibraryService
	logger  *slog.Logger
}

// NewCanvasService creates a new canvas service.
func NewCanvasService(store store.Store, library *LibraryService, logger *slog.Logger) *CanvasService {
	return &CanvasService{
		store:   store,
		library: library,
		logger:  logger,
	}
}

// CreateCanvasRequest contains the fields for a new canvas.
type CreateCanvasRequest struct {
	Name    string `json:"name" validate:"required,max=500"`
	Content string `json:"content" validate:"max=1000000"`
}

// UpdateCanvasRequest contains the fields that can be patched on a canvas.
type UpdateCanvasRequest struct {
	Name    *string `json:"name,omitempty" validate:"omitempty,min=1,max=500"`
	Content *string `json:"content,omitempty" validate:"omitempty,max=1000000"`
}

// CreateCanvas adds a canvas to a library entry the actor owns.
func (s *CanvasService) CreateCanvas(ctx context.Context, actorID, entryID string, req CreateCanvasRequest) (*domain.Canvas, error) {
	if err := validate.Validate(req); err != nil {
		return nil, err
	}

	if _, err := s.library.getOwnedEntry(ctx, actorID, entryID); err != nil {
		return nil, err
	}

	canvasID, err := id.Generate("canvas")
	if err != nil {
		return nil, fmt.Errorf("generate canvas ID: %w", err)
	}

	canvas := &domain.Canvas{
		Syncable: domain.Syncable{
			ID: canvasID,
		},
		LibraryEntryID: entryID,
		Name:           req.Name,
		Content:        req.Content,
	}
	canvas.InitTimestamps()

	if err := s.store.CreateCanvas(ctx, canvas); err != nil {
		return nil, fmt.Errorf("create canvas: %w", err)
	}

	return canvas, nil
}

// ListCanvases returns an entry's canvases.
func (s *CanvasService) ListCanvases(ctx context.Context, actor *domain.User, entryID string) ([]*domain.Canvas, error) {
	if _, err := s.library.GetEntry(ctx, actor, entryID); err != nil {
		return nil, err
	}

	canvases, err := s.store.ListCanvasesForEntry(ctx, entryID)
	if err != nil {
		return nil, fmt.Errorf("list canvases: %w", err)
	}
	return canvases, nil
}

// UpdateCanvas patches a canvas.
func (s *CanvasService) UpdateCanvas(ctx context.Context, actorID, canvasID string, req UpdateCanvasRequest) (*domain.Canvas, error) {
	if err := validate.Validate(req); err != nil {
		return nil, err
	}

	canvas, err := s.getOwnedCanvas(ctx, actorID, canvasID)
	if err != nil {
		return nil, err
	}

	if req.Name != nil {
		canvas.Name = *req.Name
	}
	if req.Content != nil {
		canvas.Content = *req.Content
	}
	canvas.Touch()

	if err := s.store.UpdateCanvas(ctx, canvas); err != nil {
		return nil, fmt.Errorf("update canvas: %w", err)
	}

	return canvas, nil
}

// DeleteCanvas removes a canvas.
func (s *CanvasService) DeleteCanvas(ctx context.Context, actorID, canvasID string) error {
	if _, err := s.getOwnedCanvas(ctx, actorID, canvasID); err != nil {
		return err
	}

	if err := s.store.DeleteCanvas(ctx, canvasID); err != nil {
		return fmt.Errorf("delete canvas: %w", err)
	}
	return nil
}

func (s *CanvasService) getOwnedCanvas(ctx context.Context, actorID, canvasID string) (*domain.Canvas, error) {
	canvas, err := s.store.GetCanvas(ctx, canvasID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, domainerrors.NotFound("canvas not found")
		}
		return nil, fmt.Errorf("get canvas: %w", err)
	}

	if _, err := s.library.getOwnedEntry(ctx, actorID, canvas.LibraryEntryID); err != nil {
		return nil, err
	}

	return canvas, nil
}
