package api

import (
	"context"
	"net/http"
	"time"

	"github.com/danielgtaylor/huma/v2"

	"github.com/playdeckapp/playdeck-server/internal/domain"
	"github.com/playdeckapp/playdeck-server/internal/service"
)

func (s *Server) registerNoteRoutes() {
	huma.Register(s.api, huma.Operation{
		OperationID: "createNote",
		Method:      http.MethodPost,
		Path:        "/api/v1/library/{id}/notes",
		Summary:     "Create note",
		Description: "Adds a note to one of the authenticated user's library entries",
		Tags:        []string{"Notes"},
		Security:    []map[string][]string{{"bearer": {}}},
	}, s.handleCreateNote)

	huma.Register(s.api, huma.Operation{
		OperationID: "listNotes",
		Method:      http.MethodGet,
		Path:        "/api/v1/library/{id}/notes",
		Summary:     "List notes",
		Description: "Returns the notes attached to a library entry",
		Tags:        []string{"Notes"},
		Security:    []map[string][]string{{"bearer": {}}},
	}, s.handleListNotes)

	huma.Register(s.api, huma.Operation{
		OperationID: "updateNote",
		Method:      http.MethodPatch,
		Path:        "/api/v1/notes/{id}",
		Summary:     "Update note",
		Description: "Patches a note's title or body",
		Tags:        []string{"Notes"},
		Security:    []map[string][]string{{"bearer": {}}},
	}, s.handleUpdateNote)

	huma.Register(s.api, huma.Operation{
		OperationID: "deleteNote",
		Method:      http.MethodDelete,
		Path:        "/api/v1/notes/{id}",
		Summary:     "Delete note",
		Description: "Deletes a note",
		Tags:        []string{"Notes"},
		Security:    []map[string][]string{{"bearer": {}}},
	}, s.handleDeleteNote)
}

// === DTOs ===

// NoteResponse contains note data in API responses.
type NoteResponse struct {
	ID             string    `json:"id" doc:"Note ID"`
	LibraryEntryID string    `json:"library_entry_id" doc:"Owning entry ID"`
	Title          string    `json:"title" doc:"Note title"`
	Body           string    `json:"body,omitempty" doc:"Note body"`
	CreatedAt      time.Time `json:"created_at" doc:"Creation timestamp"`
	UpdatedAt      time.Time `json:"updated_at" doc:"Last update timestamp"`
}

// NoteOutput wraps a note response for Huma.
type NoteOutput struct {
	Body NoteResponse
}

// NoteListOutput wraps a note list for Huma.
type NoteListOutput struct {
	Body []NoteResponse
}

// CreateNoteRequest is the request body for creating a note.
type CreateNoteRequest struct {
	Title string `json:"title" validate:"required,max=500" doc:"Note title"`
	Body  string `json:"body,omitempty" validate:"omitempty,max=100000" doc:"Note body"`
}

// CreateNoteInput wraps the create request for Huma.
type CreateNoteInput struct {
	Authorization string `header:"Authorization" doc:"Bearer token"`
	ID            string `path:"id" doc:"Library entry ID"`
	Body          CreateNoteRequest
}

// UpdateNoteRequest is the request body for patching a note.
type UpdateNoteRequest struct {
	Title *string `json:"title,omitempty" validate:"omitempty,min=1,max=500" doc:"Note title"`
	Body  *string `json:"body,omitempty" validate:"omitempty,max=100000" doc:"Note body"`
}

// UpdateNoteInput wraps the update request for Huma.
type UpdateNoteInput struct {
	Authorization string `header:"Authorization" doc:"Bearer token"`
	ID            string `path:"id" doc:"Note ID"`
	Body          UpdateNoteRequest
}

// NoteIDInput identifies a note by path.
type NoteIDInput struct {
	Authorization string `header:"Authorization" doc:"Bearer token"`
	ID            string `path:"id" doc:"Note ID"`
}

// === Handlers ===

func (s *Server) handleCreateNote(ctx context.Context, input *CreateNoteInput) (*NoteOutput, error) {
	userID, err := GetUserID(ctx)
	if err != nil {
		return nil, err
	}

	note, err := s.services.Note.CreateNote(ctx, userID, input.ID, service.CreateNoteRequest{
		Title: input.Body.Title,
		Body:  input.Body.Body,
	})
	if err != nil {
		return nil, err
	}

	return &NoteOutput{Body: mapNoteResponse(note)}, nil
}

func (s *Server) handleListNotes(ctx context.Context, input *EntryInput) (*NoteListOutput, error) {
	user, err := s.RequireUser(ctx)
	if err != nil {
		return nil, err
	}

	notes, err := s.services.Note.ListNotes(ctx, user, input.ID)
	if err != nil {
		return nil, err
	}

	out := make([]NoteResponse, 0, len(notes))
	for _, note := range notes {
		out = append(out, mapNoteResponse(note))
	}

	return &NoteListOutput{Body: out}, nil
}

func (s *Server) handleUpdateNote(ctx context.Context, input *UpdateNoteInput) (*NoteOutput, error) {
	userID, err := GetUserID(ctx)
	if err != nil {
		return nil, err
	}

	note, err := s.services.Note.UpdateNote(ctx, userID, input.ID, service.UpdateNoteRequest{
		Title: input.Body.Title,
		Body:  input.Body.Body,
	})
	if err != nil {
		return nil, err
	}

	return &NoteOutput{Body: mapNoteResponse(note)}, nil
}

func (s *Server) handleDeleteNote(ctx context.Context, input *NoteIDInput) (*MessageOutput, error) {
	userID, err := GetUserID(ctx)
	if err != nil {
		return nil, err
	}

	if err := s.services.Note.DeleteNote(ctx, userID, input.ID); err != nil {
		return nil, err
	}

	return &MessageOutput{Body: MessageResponse{Message: "Note deleted"}}, nil
}

func mapNoteResponse(n *domain.Note) NoteResponse {
	return NoteResponse{
		ID:             n.ID,
		LibraryEntryID: n.LibraryEntryID,
		Title:          n.Title,
		Body:           n.Body,
		CreatedAt:      n.CreatedAt,
		UpdatedAt:      n.UpdatedAt,
	}
}
