package api

import (
	"context"
	"net/http"
	"time"

	"github.com/danielgtaylor/huma/v2"

	"github.com/playdeckapp/playdeck-server/internal/domain"
)

func (s *Server) registerSessionRoutes() {
	huma.Register(s.api, huma.Operation{
		OperationID: "listSessions",
		Method:      http.MethodGet,
		Path:        "/api/v1/sessions",
		Summary:     "List sessions",
		Description: "Returns the authenticated user's active sessions",
		Tags:        []string{"Sessions"},
		Security:    []map[string][]string{{"bearer": {}}},
	}, s.handleListSessions)

	huma.Register(s.api, huma.Operation{
		OperationID: "deleteSession",
		Method:      http.MethodDelete,
		Path:        "/api/v1/sessions/{id}",
		Summary:     "Revoke session",
		Description: "Revokes one of the authenticated user's sessions",
		Tags:        []string{"Sessions"},
		Security:    []map[string][]string{{"bearer": {}}},
	}, s.handleDeleteSession)
}

// === DTOs ===

// SessionResponse contains session metadata in API responses.
type SessionResponse struct {
	ID         string    `json:"id" doc:"Session ID"`
	DeviceType string    `json:"device_type,omitempty" doc:"Device type"`
	Platform   string    `json:"platform,omitempty" doc:"Platform"`
	ClientName string    `json:"client_name,omitempty" doc:"Client name"`
	DeviceName string    `json:"device_name,omitempty" doc:"Device name"`
	IPAddress  string    `json:"ip_address,omitempty" doc:"Last known IP"`
	CreatedAt  time.Time `json:"created_at" doc:"Session creation time"`
	ExpiresAt  time.Time `json:"expires_at" doc:"Refresh token expiry"`
}

// SessionListOutput wraps a session list for Huma.
type SessionListOutput struct {
	Body []SessionResponse
}

// DeleteSessionInput identifies the session to revoke.
type DeleteSessionInput struct {
	Authorization string `header:"Authorization" doc:"Bearer token"`
	ID            string `path:"id" doc:"Session ID"`
}

// === Handlers ===

func (s *Server) handleListSessions(ctx context.Context, _ *AuthenticatedInput) (*SessionListOutput, error) {
	userID, err := GetUserID(ctx)
	if err != nil {
		return nil, err
	}

	sessions, err := s.services.Session.ListUserSessions(ctx, userID)
	if err != nil {
		return nil, err
	}

	out := make([]SessionResponse, 0, len(sessions))
	for _, sess := range sessions {
		out = append(out, mapSessionResponse(sess))
	}

	return &SessionListOutput{Body: out}, nil
}

func (s *Server) handleDeleteSession(ctx context.Context, input *DeleteSessionInput) (*MessageOutput, error) {
	userID, err := GetUserID(ctx)
	if err != nil {
		return nil, err
	}

	sess, err := s.store.GetSession(ctx, input.ID)
	if err != nil {
		return nil, huma.Error404NotFound("Session not found")
	}
	if sess.UserID != userID {
		return nil, huma.Error404NotFound("Session not found")
	}

	if err := s.services.Session.DeleteSession(ctx, input.ID); err != nil {
		return nil, err
	}

	return &MessageOutput{Body: MessageResponse{Message: "Session revoked"}}, nil
}

func mapSessionResponse(sess *domain.Session) SessionResponse {
	return SessionResponse{
		ID:         sess.ID,
		DeviceType: sess.DeviceType,
		Platform:   sess.Platform,
		ClientName: sess.ClientName,
		DeviceName: sess.DeviceName,
		IPAddress:  sess.IPAddress,
		CreatedAt:  sess.CreatedAt,
		ExpiresAt:  sess.ExpiresAt,
	}
}
