package api

import (
	"context"
	"net/http"

	"github.com/danielgtaylor/huma/v2"
)

func (s *Server) registerAdminRoutes() {
	huma.Register(s.api, huma.Operation{
		OperationID: "adminListUsers",
		Method:      http.MethodGet,
		Path:        "/api/v1/admin/users",
		Summary:     "List users",
		Description: "Returns every user account. Admin only.",
		Tags:        []string{"Admin"},
		Security:    []map[string][]string{{"bearer": {}}},
	}, s.handleAdminListUsers)

	huma.Register(s.api, huma.Operation{
		OperationID: "adminListPendingUsers",
		Method:      http.MethodGet,
		Path:        "/api/v1/admin/users/pending",
		Summary:     "List pending users",
		Description: "Returns accounts awaiting approval. Admin only.",
		Tags:        []string{"Admin"},
		Security:    []map[string][]string{{"bearer": {}}},
	}, s.handleAdminListPendingUsers)

	huma.Register(s.api, huma.Operation{
		OperationID: "adminApproveUser",
		Method:      http.MethodPost,
		Path:        "/api/v1/admin/users/{id}/approve",
		Summary:     "Approve user",
		Description: "Activates a pending account so it can sign in. Admin only.",
		Tags:        []string{"Admin"},
		Security:    []map[string][]string{{"bearer": {}}},
	}, s.handleAdminApproveUser)

	huma.Register(s.api, huma.Operation{
		OperationID: "adminFuseGames",
		Method:      http.MethodPost,
		Path:        "/api/v1/admin/games/fuse",
		Summary:     "Fuse duplicate games",
		Description: "Merges a duplicate catalog game into a surviving one, moving or merging every user's library entry, then deletes the duplicate. Admin only.",
		Tags:        []string{"Admin"},
		Security:    []map[string][]string{{"bearer": {}}},
	}, s.handleAdminFuseGames)
}

// === DTOs ===

// UserListOutput wraps a user list for Huma.
type UserListOutput struct {
	Body []UserResponse
}

// ApproveUserInput identifies the account to approve.
type ApproveUserInput struct {
	Authorization string `header:"Authorization" doc:"Bearer token"`
	ID            string `path:"id" doc:"User ID"`
}

// FuseGamesRequest is the request body for fusing duplicate games.
type FuseGamesRequest struct {
	GameIDToRemove string `json:"game_id_to_remove" validate:"required" doc:"Duplicate game that will be deleted"`
	GameIDToKeep   string `json:"game_id_to_keep" validate:"required" doc:"Game that survives the fusion"`
}

// FuseGamesInput wraps the fuse request for Huma.
type FuseGamesInput struct {
	Authorization string `header:"Authorization" doc:"Bearer token"`
	Body          FuseGamesRequest
}

// FuseGamesResponse reports what the fusion touched.
type FuseGamesResponse struct {
	SurvivingGameID string `json:"surviving_game_id" doc:"Game that survived"`
	RemovedGameID   string `json:"removed_game_id" doc:"Game that was deleted"`
	RepointedCount  int    `json:"repointed_count" doc:"Entries moved to the surviving game"`
	MergedCount     int    `json:"merged_count" doc:"Entries folded into an existing entry"`
}

// FuseGamesOutput wraps the fuse response for Huma.
type FuseGamesOutput struct {
	Body FuseGamesResponse
}

// === Handlers ===

func (s *Server) handleAdminListUsers(ctx context.Context, input *AuthenticatedInput) (*UserListOutput, error) {
	if _, err := s.RequireAdmin(ctx); err != nil {
		return nil, err
	}

	users, err := s.services.Admin.ListUsers(ctx)
	if err != nil {
		return nil, err
	}

	out := make([]UserResponse, 0, len(users))
	for _, u := range users {
		out = append(out, mapUserResponse(u))
	}

	return &UserListOutput{Body: out}, nil
}

func (s *Server) handleAdminListPendingUsers(ctx context.Context, input *AuthenticatedInput) (*UserListOutput, error) {
	if _, err := s.RequireAdmin(ctx); err != nil {
		return nil, err
	}

	users, err := s.services.Admin.ListPendingUsers(ctx)
	if err != nil {
		return nil, err
	}

	out := make([]UserResponse, 0, len(users))
	for _, u := range users {
		out = append(out, mapUserResponse(u))
	}

	return &UserListOutput{Body: out}, nil
}

func (s *Server) handleAdminApproveUser(ctx context.Context, input *ApproveUserInput) (*UserOutput, error) {
	admin, err := s.RequireAdmin(ctx)
	if err != nil {
		return nil, err
	}

	user, err := s.services.Admin.ApproveUser(ctx, admin.ID, input.ID)
	if err != nil {
		return nil, err
	}

	return &UserOutput{Body: mapUserResponse(user)}, nil
}

func (s *Server) handleAdminFuseGames(ctx context.Context, input *FuseGamesInput) (*FuseGamesOutput, error) {
	admin, err := s.RequireAdmin(ctx)
	if err != nil {
		return nil, err
	}

	result, err := s.services.Fusion.FuseGames(ctx, admin, input.Body.GameIDToRemove, input.Body.GameIDToKeep)
	if err != nil {
		return nil, err
	}

	return &FuseGamesOutput{Body: FuseGamesResponse{
		SurvivingGameID: result.SurvivingGameID,
		RemovedGameID:   result.RemovedGameID,
		RepointedCount:  result.Repointed,
		MergedCount:     result.Merged,
	}}, nil
}
