package api

import (
	"context"
	"net/http"
	"time"

	"github.com/danielgtaylor/huma/v2"
	"github.com/go-chi/chi/v5"

	"github.com/playdeckapp/playdeck-server/internal/domain"
	"github.com/playdeckapp/playdeck-server/internal/service"
)

func (s *Server) registerGameRoutes() {
	huma.Register(s.api, huma.Operation{
		OperationID: "createGame",
		Method:      http.MethodPost,
		Path:        "/api/v1/games",
		Summary:     "Create game",
		Description: "Adds a new game to the shared catalog. Admin only.",
		Tags:        []string{"Games"},
		Security:    []map[string][]string{{"bearer": {}}},
	}, s.handleCreateGame)

	huma.Register(s.api, huma.Operation{
		OperationID: "listGames",
		Method:      http.MethodGet,
		Path:        "/api/v1/games",
		Summary:     "List games",
		Description: "Returns all catalog games ordered by title",
		Tags:        []string{"Games"},
		Security:    []map[string][]string{{"bearer": {}}},
	}, s.handleListGames)

	huma.Register(s.api, huma.Operation{
		OperationID: "getGame",
		Method:      http.MethodGet,
		Path:        "/api/v1/games/{id}",
		Summary:     "Get game",
		Description: "Returns a single catalog game",
		Tags:        []string{"Games"},
		Security:    []map[string][]string{{"bearer": {}}},
	}, s.handleGetGame)

	huma.Register(s.api, huma.Operation{
		OperationID: "updateGame",
		Method:      http.MethodPatch,
		Path:        "/api/v1/games/{id}",
		Summary:     "Update game",
		Description: "Patches catalog game metadata. Admin only.",
		Tags:        []string{"Games"},
		Security:    []map[string][]string{{"bearer": {}}},
	}, s.handleUpdateGame)

	huma.Register(s.api, huma.Operation{
		OperationID: "deleteGame",
		Method:      http.MethodDelete,
		Path:        "/api/v1/games/{id}",
		Summary:     "Delete game",
		Description: "Removes a game from the catalog. Fails while library entries reference it. Admin only.",
		Tags:        []string{"Games"},
		Security:    []map[string][]string{{"bearer": {}}},
	}, s.handleDeleteGame)

	huma.Register(s.api, huma.Operation{
		OperationID: "uploadGameCover",
		Method:      http.MethodPost,
		Path:        "/api/v1/games/{id}/cover",
		Summary:     "Upload game cover",
		Description: "Uploads a cover image for a game. Accepts raw image bytes. Admin only.",
		Tags:        []string{"Games"},
		Security:    []map[string][]string{{"bearer": {}}},
		// One past the limit so the handler sees in-budget bodies whole;
		// anything larger gets 413 from the framework's body reader.
		MaxBodyBytes: MaxUploadSize + 1,
	}, s.handleUploadGameCover)

	huma.Register(s.api, huma.Operation{
		OperationID: "setGameCoverFromURL",
		Method:      http.MethodPost,
		Path:        "/api/v1/games/{id}/cover/from-url",
		Summary:     "Set game cover from URL",
		Description: "Downloads a cover image from a URL and stores it. Admin only.",
		Tags:        []string{"Games"},
		Security:    []map[string][]string{{"bearer": {}}},
	}, s.handleSetGameCoverFromURL)

	// Direct chi route for cover streaming with caching headers.
	s.router.Get("/api/v1/games/{id}/cover", s.handleServeGameCover)
}

// === DTOs ===

// GameResponse contains catalog game data in API responses.
type GameResponse struct {
	ID            string    `json:"id" doc:"Game ID"`
	Title         string    `json:"title" doc:"Game title"`
	Summary       string    `json:"summary,omitempty" doc:"Short description"`
	Developer     string    `json:"developer,omitempty" doc:"Developer name"`
	Publisher     string    `json:"publisher,omitempty" doc:"Publisher name"`
	ReleaseYear   int       `json:"release_year,omitempty" doc:"Year of release"`
	CoverBlurHash string    `json:"cover_blurhash,omitempty" doc:"BlurHash placeholder for the cover"`
	HasCover      bool      `json:"has_cover" doc:"Whether a cover image exists"`
	CreatedAt     time.Time `json:"created_at" doc:"Creation timestamp"`
	UpdatedAt     time.Time `json:"updated_at" doc:"Last update timestamp"`
}

// GameOutput wraps a game response for Huma.
type GameOutput struct {
	Body GameResponse
}

// GameListOutput wraps a game list for Huma.
type GameListOutput struct {
	Body []GameResponse
}

// CreateGameRequest is the request body for game creation.
type CreateGameRequest struct {
	Title       string `json:"title" validate:"required,max=500" doc:"Game title"`
	Summary     string `json:"summary,omitempty" validate:"omitempty,max=5000" doc:"Short description"`
	Developer   string `json:"developer,omitempty" validate:"omitempty,max=200" doc:"Developer name"`
	Publisher   string `json:"publisher,omitempty" validate:"omitempty,max=200" doc:"Publisher name"`
	ReleaseYear int    `json:"release_year,omitempty" validate:"omitempty,min=1950,max=2100" doc:"Year of release"`
}

// CreateGameInput wraps the create request for Huma.
type CreateGameInput struct {
	Authorization string `header:"Authorization" doc:"Bearer token"`
	Body          CreateGameRequest
}

// GetGameInput identifies a game by path.
type GetGameInput struct {
	Authorization string `header:"Authorization" doc:"Bearer token"`
	ID            string `path:"id" doc:"Game ID"`
}

// UpdateGameRequest is the request body for patching a game.
type UpdateGameRequest struct {
	Title       *string `json:"title,omitempty" validate:"omitempty,min=1,max=500" doc:"Game title"`
	Summary     *string `json:"summary,omitempty" validate:"omitempty,max=5000" doc:"Short description"`
	Developer   *string `json:"developer,omitempty" validate:"omitempty,max=200" doc:"Developer name"`
	Publisher   *string `json:"publisher,omitempty" validate:"omitempty,max=200" doc:"Publisher name"`
	ReleaseYear *int    `json:"release_year,omitempty" validate:"omitempty,min=1950,max=2100" doc:"Year of release"`
}

// UpdateGameInput wraps the update request for Huma.
type UpdateGameInput struct {
	Authorization string `header:"Authorization" doc:"Bearer token"`
	ID            string `path:"id" doc:"Game ID"`
	Body          UpdateGameRequest
}

// UploadGameCoverInput carries raw image bytes for a cover upload.
type UploadGameCoverInput struct {
	Authorization string `header:"Authorization" doc:"Bearer token"`
	ID            string `path:"id" doc:"Game ID"`
	RawBody       []byte
}

// SetGameCoverFromURLRequest names the remote image to use as a cover.
type SetGameCoverFromURLRequest struct {
	URL string `json:"url" validate:"required,url,max=2000" doc:"Image URL (http or https)"`
}

// SetGameCoverFromURLInput wraps the request for Huma.
type SetGameCoverFromURLInput struct {
	Authorization string `header:"Authorization" doc:"Bearer token"`
	ID            string `path:"id" doc:"Game ID"`
	Body          SetGameCoverFromURLRequest
}

// === Handlers ===

func (s *Server) handleCreateGame(ctx context.Context, input *CreateGameInput) (*GameOutput, error) {
	if _, err := s.RequireAdmin(ctx); err != nil {
		return nil, err
	}

	game, err := s.services.Game.CreateGame(ctx, service.CreateGameRequest{
		Title:       input.Body.Title,
		Summary:     input.Body.Summary,
		Developer:   input.Body.Developer,
		Publisher:   input.Body.Publisher,
		ReleaseYear: input.Body.ReleaseYear,
	})
	if err != nil {
		return nil, err
	}

	return &GameOutput{Body: mapGameResponse(game)}, nil
}

func (s *Server) handleListGames(ctx context.Context, _ *AuthenticatedInput) (*GameListOutput, error) {
	if _, err := GetUserID(ctx); err != nil {
		return nil, err
	}

	games, err := s.services.Game.ListGames(ctx)
	if err != nil {
		return nil, err
	}

	out := make([]GameResponse, 0, len(games))
	for _, game := range games {
		out = append(out, mapGameResponse(game))
	}

	return &GameListOutput{Body: out}, nil
}

func (s *Server) handleGetGame(ctx context.Context, input *GetGameInput) (*GameOutput, error) {
	if _, err := GetUserID(ctx); err != nil {
		return nil, err
	}

	game, err := s.services.Game.GetGame(ctx, input.ID)
	if err != nil {
		return nil, err
	}

	return &GameOutput{Body: mapGameResponse(game)}, nil
}

func (s *Server) handleUpdateGame(ctx context.Context, input *UpdateGameInput) (*GameOutput, error) {
	if _, err := s.RequireAdmin(ctx); err != nil {
		return nil, err
	}

	game, err := s.services.Game.UpdateGame(ctx, input.ID, service.UpdateGameRequest{
		Title:       input.Body.Title,
		Summary:     input.Body.Summary,
		Developer:   input.Body.Developer,
		Publisher:   input.Body.Publisher,
		ReleaseYear: input.Body.ReleaseYear,
	})
	if err != nil {
		return nil, err
	}

	return &GameOutput{Body: mapGameResponse(game)}, nil
}

func (s *Server) handleDeleteGame(ctx context.Context, input *GetGameInput) (*MessageOutput, error) {
	if _, err := s.RequireAdmin(ctx); err != nil {
		return nil, err
	}

	if err := s.services.Game.DeleteGame(ctx, input.ID); err != nil {
		return nil, err
	}

	return &MessageOutput{Body: MessageResponse{Message: "Game deleted"}}, nil
}

func (s *Server) handleUploadGameCover(ctx context.Context, input *UploadGameCoverInput) (*GameOutput, error) {
	if _, err := s.RequireAdmin(ctx); err != nil {
		return nil, err
	}

	if len(input.RawBody) == 0 {
		return nil, huma.Error400BadRequest("Cover image data is required")
	}
	if len(input.RawBody) > MaxUploadSize {
		return nil, huma.NewError(http.StatusRequestEntityTooLarge, "Cover image exceeds size limit")
	}

	game, err := s.services.Game.UploadCover(ctx, input.ID, input.RawBody)
	if err != nil {
		return nil, err
	}

	return &GameOutput{Body: mapGameResponse(game)}, nil
}

func (s *Server) handleSetGameCoverFromURL(ctx context.Context, input *SetGameCoverFromURLInput) (*GameOutput, error) {
	if _, err := s.RequireAdmin(ctx); err != nil {
		return nil, err
	}

	game, err := s.services.Game.SetCoverFromURL(ctx, input.ID, input.Body.URL)
	if err != nil {
		return nil, err
	}

	return &GameOutput{Body: mapGameResponse(game)}, nil
}

// handleServeGameCover streams a cover image directly, bypassing the JSON
// envelope. Covers are content-addressed by game, so long cache lifetimes
// with an ETag revalidation are safe.
func (s *Server) handleServeGameCover(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if id == "" {
		http.Error(w, "game ID required", http.StatusBadRequest)
		return
	}

	cover, err := s.services.Game.GetCover(r.Context(), id)
	if err != nil {
		http.NotFound(w, r)
		return
	}

	etag := `"` + cover.Hash + `"`
	if match := r.Header.Get("If-None-Match"); match == etag {
		w.WriteHeader(http.StatusNotModified)
		return
	}

	w.Header().Set("Content-Type", "image/jpeg")
	w.Header().Set("Cache-Control", CacheOneWeek)
	w.Header().Set("ETag", etag)
	if _, err := w.Write(cover.Data); err != nil {
		s.logger.Warn("failed to write cover response", "game_id", id, "error", err)
	}
}

func mapGameResponse(game *domain.Game) GameResponse {
	return GameResponse{
		ID:            game.ID,
		Title:         game.Title,
		Summary:       game.Summary,
		Developer:     game.Developer,
		Publisher:     game.Publisher,
		ReleaseYear:   game.ReleaseYear,
		CoverBlurHash: game.CoverBlurHash,
		HasCover:      game.HasCover,
		CreatedAt:     game.CreatedAt,
		UpdatedAt:     game.UpdatedAt,
	}
}
