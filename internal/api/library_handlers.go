package api

import (
	"context"
	"net/http"
	"time"

	"github.com/danielgtaylor/huma/v2"

	"github.com/playdeckapp/playdeck-server/internal/domain"
	"github.com/playdeckapp/playdeck-server/internal/service"
	"github.com/playdeckapp/playdeck-server/internal/store"
)

func (s *Server) registerLibraryRoutes() {
	huma.Register(s.api, huma.Operation{
		OperationID: "addGameToLibrary",
		Method:      http.MethodPost,
		Path:        "/api/v1/library",
		Summary:     "Add game to library",
		Description: "Adds a catalog game to the authenticated user's library. Each game can appear at most once per user.",
		Tags:        []string{"Library"},
		Security:    []map[string][]string{{"bearer": {}}},
	}, s.handleAddGameToLibrary)

	huma.Register(s.api, huma.Operation{
		OperationID: "listLibrary",
		Method:      http.MethodGet,
		Path:        "/api/v1/library",
		Summary:     "List library",
		Description: "Returns the authenticated user's library, sorted by title or playtime",
		Tags:        []string{"Library"},
		Security:    []map[string][]string{{"bearer": {}}},
	}, s.handleListLibrary)

	huma.Register(s.api, huma.Operation{
		OperationID: "getLibraryEntry",
		Method:      http.MethodGet,
		Path:        "/api/v1/library/{id}",
		Summary:     "Get library entry",
		Description: "Returns a single library entry",
		Tags:        []string{"Library"},
		Security:    []map[string][]string{{"bearer": {}}},
	}, s.handleGetLibraryEntry)

	huma.Register(s.api, huma.Operation{
		OperationID: "updateLibraryEntry",
		Method:      http.MethodPatch,
		Path:        "/api/v1/library/{id}",
		Summary:     "Update library entry",
		Description: "Patches the favorite and pinned flags on an entry",
		Tags:        []string{"Library"},
		Security:    []map[string][]string{{"bearer": {}}},
	}, s.handleUpdateLibraryEntry)

	huma.Register(s.api, huma.Operation{
		OperationID: "removeLibraryEntry",
		Method:      http.MethodDelete,
		Path:        "/api/v1/library/{id}",
		Summary:     "Remove library entry",
		Description: "Removes an entry and everything attached to it (play sessions, objectives, notes, canvases)",
		Tags:        []string{"Library"},
		Security:    []map[string][]string{{"bearer": {}}},
	}, s.handleRemoveLibraryEntry)

	huma.Register(s.api, huma.Operation{
		OperationID: "logPlaySession",
		Method:      http.MethodPost,
		Path:        "/api/v1/library/{id}/plays",
		Summary:     "Log play session",
		Description: "Records a play session and accrues its minutes onto the entry",
		Tags:        []string{"Library"},
		Security:    []map[string][]string{{"bearer": {}}},
	}, s.handleLogPlaySession)

	huma.Register(s.api, huma.Operation{
		OperationID: "listPlaySessions",
		Method:      http.MethodGet,
		Path:        "/api/v1/library/{id}/plays",
		Summary:     "List play sessions",
		Description: "Returns an entry's play sessions, most recent first",
		Tags:        []string{"Library"},
		Security:    []map[string][]string{{"bearer": {}}},
	}, s.handleListPlaySessions)

	huma.Register(s.api, huma.Operation{
		OperationID: "deletePlaySession",
		Method:      http.MethodDelete,
		Path:        "/api/v1/library/{id}/plays/{playID}",
		Summary:     "Delete play session",
		Description: "Deletes a play session and subtracts its minutes from the entry",
		Tags:        []string{"Library"},
		Security:    []map[string][]string{{"bearer": {}}},
	}, s.handleDeletePlaySession)
}

// === DTOs ===

// LibraryEntryResponse contains library entry data in API responses.
type LibraryEntryResponse struct {
	ID              string    `json:"id" doc:"Entry ID"`
	UserID          string    `json:"user_id" doc:"Owner user ID"`
	GameID          string    `json:"game_id" doc:"Catalog game ID"`
	PlaytimeMinutes int64     `json:"playtime_minutes" doc:"Accumulated playtime in minutes"`
	IsFavorite      bool      `json:"is_favorite" doc:"Favorite flag"`
	IsPinned        bool      `json:"is_pinned" doc:"Pinned flag"`
	CreatedAt       time.Time `json:"created_at" doc:"Creation timestamp"`
	UpdatedAt       time.Time `json:"updated_at" doc:"Last update timestamp"`
}

// LibraryEntryOutput wraps an entry response for Huma.
type LibraryEntryOutput struct {
	Body LibraryEntryResponse
}

// LibraryListOutput wraps an entry list for Huma.
type LibraryListOutput struct {
	Body []LibraryEntryResponse
}

// AddGameRequest is the request body for adding a game to the library.
type AddGameRequest struct {
	GameID     string `json:"game_id" validate:"required" doc:"Catalog game ID"`
	IsFavorite bool   `json:"is_favorite,omitempty" doc:"Favorite flag"`
	IsPinned   bool   `json:"is_pinned,omitempty" doc:"Pinned flag"`
}

// AddGameInput wraps the add request for Huma.
type AddGameInput struct {
	Authorization string `header:"Authorization" doc:"Bearer token"`
	Body          AddGameRequest
}

// ListLibraryInput carries the optional sort parameter.
type ListLibraryInput struct {
	Authorization string `header:"Authorization" doc:"Bearer token"`
	Sort          string `query:"sort" enum:"title,playtime" doc:"Sort order (default title)"`
}

// EntryInput identifies a library entry by path.
type EntryInput struct {
	Authorization string `header:"Authorization" doc:"Bearer token"`
	ID            string `path:"id" doc:"Library entry ID"`
}

// UpdateEntryRequest is the request body for patching an entry.
type UpdateEntryRequest struct {
	IsFavorite *bool `json:"is_favorite,omitempty" doc:"Favorite flag"`
	IsPinned   *bool `json:"is_pinned,omitempty" doc:"Pinned flag"`
}

// UpdateEntryInput wraps the update request for Huma.
type UpdateEntryInput struct {
	Authorization string `header:"Authorization" doc:"Bearer token"`
	ID            string `path:"id" doc:"Library entry ID"`
	Body          UpdateEntryRequest
}

// LogPlayRequest is the request body for logging a play session.
type LogPlayRequest struct {
	Minutes  int64      `json:"minutes" validate:"required,min=1,max=10080" doc:"Minutes played (max one week)"`
	PlayedAt *FlexTime  `json:"played_at,omitempty" doc:"When the session happened, RFC3339 or epoch milliseconds (default now)"`
	Note     string     `json:"note,omitempty" validate:"omitempty,max=2000" doc:"Freeform note"`
}

// LogPlayInput wraps the play request for Huma.
type LogPlayInput struct {
	Authorization string `header:"Authorization" doc:"Bearer token"`
	ID            string `path:"id" doc:"Library entry ID"`
	Body          LogPlayRequest
}

// PlaySessionResponse contains play session data in API responses.
type PlaySessionResponse struct {
	ID             string    `json:"id" doc:"Play session ID"`
	LibraryEntryID string    `json:"library_entry_id" doc:"Owning entry ID"`
	PlayedAt       time.Time `json:"played_at" doc:"When the session happened"`
	Minutes        int64     `json:"minutes" doc:"Minutes played"`
	Note           string    `json:"note,omitempty" doc:"Freeform note"`
	CreatedAt      time.Time `json:"created_at" doc:"Creation timestamp"`
}

// PlaySessionOutput wraps a play session for Huma.
type PlaySessionOutput struct {
	Body PlaySessionResponse
}

// PlaySessionListOutput wraps a play session list for Huma.
type PlaySessionListOutput struct {
	Body []PlaySessionResponse
}

// DeletePlayInput identifies a play session within an entry.
type DeletePlayInput struct {
	Authorization string `header:"Authorization" doc:"Bearer token"`
	ID            string `path:"id" doc:"Library entry ID"`
	PlayID        string `path:"playID" doc:"Play session ID"`
}

// === Handlers ===

func (s *Server) handleAddGameToLibrary(ctx context.Context, input *AddGameInput) (*LibraryEntryOutput, error) {
	userID, err := GetUserID(ctx)
	if err != nil {
		return nil, err
	}

	entry, err := s.services.Library.AddGame(ctx, userID, service.AddGameRequest{
		GameID:     input.Body.GameID,
		IsFavorite: input.Body.IsFavorite,
		IsPinned:   input.Body.IsPinned,
	})
	if err != nil {
		return nil, err
	}

	return &LibraryEntryOutput{Body: mapEntryResponse(entry)}, nil
}

func (s *Server) handleListLibrary(ctx context.Context, input *ListLibraryInput) (*LibraryListOutput, error) {
	userID, err := GetUserID(ctx)
	if err != nil {
		return nil, err
	}

	sort := store.EntrySort(input.Sort)
	if input.Sort == "" {
		sort = store.EntrySortTitle
	}

	entries, err := s.services.Library.ListEntries(ctx, userID, sort)
	if err != nil {
		return nil, err
	}

	out := make([]LibraryEntryResponse, 0, len(entries))
	for _, entry := range entries {
		out = append(out, mapEntryResponse(entry))
	}

	return &LibraryListOutput{Body: out}, nil
}

func (s *Server) handleGetLibraryEntry(ctx context.Context, input *EntryInput) (*LibraryEntryOutput, error) {
	user, err := s.RequireUser(ctx)
	if err != nil {
		return nil, err
	}

	entry, err := s.services.Library.GetEntry(ctx, user, input.ID)
	if err != nil {
		return nil, err
	}

	return &LibraryEntryOutput{Body: mapEntryResponse(entry)}, nil
}

func (s *Server) handleUpdateLibraryEntry(ctx context.Context, input *UpdateEntryInput) (*LibraryEntryOutput, error) {
	userID, err := GetUserID(ctx)
	if err != nil {
		return nil, err
	}

	entry, err := s.services.Library.UpdateEntry(ctx, userID, input.ID, service.UpdateEntryRequest{
		IsFavorite: input.Body.IsFavorite,
		IsPinned:   input.Body.IsPinned,
	})
	if err != nil {
		return nil, err
	}

	return &LibraryEntryOutput{Body: mapEntryResponse(entry)}, nil
}

func (s *Server) handleRemoveLibraryEntry(ctx context.Context, input *EntryInput) (*MessageOutput, error) {
	userID, err := GetUserID(ctx)
	if err != nil {
		return nil, err
	}

	if err := s.services.Library.RemoveEntry(ctx, userID, input.ID); err != nil {
		return nil, err
	}

	return &MessageOutput{Body: MessageResponse{Message: "Library entry removed"}}, nil
}

func (s *Server) handleLogPlaySession(ctx context.Context, input *LogPlayInput) (*PlaySessionOutput, error) {
	userID, err := GetUserID(ctx)
	if err != nil {
		return nil, err
	}

	var playedAt *time.Time
	if input.Body.PlayedAt != nil {
		playedAt = &input.Body.PlayedAt.Time
	}

	play, err := s.services.Library.LogPlay(ctx, userID, input.ID, service.LogPlayRequest{
		Minutes:  input.Body.Minutes,
		PlayedAt: playedAt,
		Note:     input.Body.Note,
	})
	if err != nil {
		return nil, err
	}

	return &PlaySessionOutput{Body: mapPlayResponse(play)}, nil
}

func (s *Server) handleListPlaySessions(ctx context.Context, input *EntryInput) (*PlaySessionListOutput, error) {
	user, err := s.RequireUser(ctx)
	if err != nil {
		return nil, err
	}

	plays, err := s.services.Library.ListPlays(ctx, user, input.ID)
	if err != nil {
		return nil, err
	}

	out := make([]PlaySessionResponse, 0, len(plays))
	for _, play := range plays {
		out = append(out, mapPlayResponse(play))
	}

	return &PlaySessionListOutput{Body: out}, nil
}

func (s *Server) handleDeletePlaySession(ctx context.Context, input *DeletePlayInput) (*MessageOutput, error) {
	userID, err := GetUserID(ctx)
	if err != nil {
		return nil, err
	}

	if err := s.services.Library.DeletePlay(ctx, userID, input.ID, input.PlayID); err != nil {
		return nil, err
	}

	return &MessageOutput{Body: MessageResponse{Message: "Play session deleted"}}, nil
}

// === Helpers ===

func mapEntryResponse(entry *domain.LibraryEntry) LibraryEntryResponse {
	return LibraryEntryResponse{
		ID:              entry.ID,
		UserID:          entry.UserID,
		GameID:          entry.GameID,
		PlaytimeMinutes: entry.PlaytimeMinutes,
		IsFavorite:      entry.IsFavorite,
		IsPinned:        entry.IsPinned,
		CreatedAt:       entry.CreatedAt,
		UpdatedAt:       entry.UpdatedAt,
	}
}

func mapPlayResponse(play *domain.PlaySession) PlaySessionResponse {
	return PlaySessionResponse{
		ID:             play.ID,
		LibraryEntryID: play.LibraryEntryID,
		PlayedAt:       play.PlayedAt,
		Minutes:        play.Minutes,
		Note:           play.Note,
		CreatedAt:      play.CreatedAt,
	}
}
