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

// NoteService manages freeform notes attached to library entries.
type NoteService struct {
	store   store.Store
	library *LibraryService
	logger  *slog.Logger
}

// NewNoteService creates a new note service.
func NewNoteService(store store.Store, library *LibraryService, logger *slog.Logger) *NoteService {
	return &NoteService{
		store:   store,
		library: library,
		logger:  logger,
	}
}

// CreateNoteRequest contains the fields for a new note.
type CreateNoteRequest struct {
	Title string `json:"title" validate:"required,max=500"`
	Body  string `json:"body" validate:"max=100000"`
}

// UpdateNoteRequest contains the fields that can be patched on a note.
type UpdateNoteRequest struct {
	Title *string `json:"title,omitempty" validate:"omitempty,min=1,max=500"`
	Body  *string `json:"body,omitempty" validate:"omitempty,max=100000"`
}

// CreateNote adds a note to a library entry the actor owns.
func (s *NoteService) CreateNote(ctx context.Context, actorID, entryID string, req CreateNoteRequest) (*domain.Note, error) {
	if err := validate.Validate(req); err != nil {
		return nil, err
	}

	if _, err := s.library.getOwnedEntry(ctx, actorID, entryID); err != nil {
		return nil, err
	}

	noteID, err := id.Generate("note")
	if err != nil {
		return nil, fmt.Errorf("generate note ID: %w", err)
	}

	note := &domain.Note{
		Syncable: domain.Syncable{
			ID: noteID,
		},
		LibraryEntryID: entryID,
		Title:          req.Title,
		Body:           req.Body,
	}
	note.InitTimestamps()

	if err := s.store.CreateNote(ctx, note); err != nil {
		return nil, fmt.Errorf("create note: %w", err)
	}

	return note, nil
}

// ListNotes returns an entry's notes.
func (s *NoteService) ListNotes(ctx context.Context, actor *domain.User, entryID string) ([]*domain.Note, error) {
	if _, err := s.library.GetEntry(ctx, actor, entryID); err != nil {
		return nil, err
	}

	notes, err := s.store.ListNotesForEntry(ctx, entryID)
	if err != nil {
		return nil, fmt.Errorf("list notes: %w", err)
	}
	return notes, nil
}

// UpdateNote patches a note.
func (s *NoteService) UpdateNote(ctx context.Context, actorID, noteID string, req UpdateNoteRequest) (*domain.Note, error) {
	if err := validate.Validate(req); err != nil {
		return nil, err
	}

	note, err := s.getOwnedNote(ctx, actorID, noteID)
	if err != nil {
		return nil, err
	}

	if req.Title != nil {
		note.Title = *req.Title
	}
	if req.Body != nil {
		note.Body = *req.Body
	}
	note.Touch()

	if err := s.store.UpdateNote(ctx, note); err != nil {
		return nil, fmt.Errorf("update note: %w", err)
	}

	return note, nil
}

// DeleteNote removes a note.
func (s *NoteService) DeleteNote(ctx context.Context, actorID, noteID string) error {
	if _, err := s.getOwnedNote(ctx, actorID, noteID); err != nil {
		return err
	}

	if err := s.store.DeleteNote(ctx, noteID); err != nil {
		return fmt.Errorf("delete note: %w", err)
	}
	return nil
}

func (s *NoteService) getOwnedNote(ctx context.Context, actorID, noteID string) (*domain.Note, error) {
	note, err := s.store.GetNote(ctx, noteID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, domainerrors.NotFound("note not found")
		}
		return nil, fmt.Errorf("get note: %w", err)
	}

	if _, err := s.library.getOwnedEntry(ctx, actorID, note.LibraryEntryID); err != nil {
		return nil, err
	}

	return note, nil
}
