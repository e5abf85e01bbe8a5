package api

import (
	"context"
	"encoding/hex"
	"encoding/json"
	"log/slog"
	"net/http"
	"testing"
	"time"

	"github.com/danielgtaylor/huma/v2/humatest"
	"github.com/stretchr/testify/require"

	"github.com/playdeckapp/playdeck-server/internal/auth"
	"github.com/playdeckapp/playdeck-server/internal/domain"
	"github.com/playdeckapp/playdeck-server/internal/media/images"
	"github.com/playdeckapp/playdeck-server/internal/service"
	"github.com/playdeckapp/playdeck-server/internal/store/sqlite"
)

// testEnvelope mirrors APIEnvelope with a typed data field for unmarshaling
// in tests.
type testEnvelope[T any] struct {
	Version int    `json:"v"`
	Success bool   `json:"success"`
	Data    T      `json:"data"`
	Error   string `json:"error,omitempty"`
}

// testErrorEnvelope mirrors APIErrorEnvelope for asserting error responses.
type testErrorEnvelope struct {
	Version int    `json:"v"`
	Success bool   `json:"success"`
	Code    string `json:"code"`
	Message string `json:"message"`
}

// testServer wraps the API server with a humatest client and the pieces
// tests need to mint users and inspect state directly.
type testServer struct {
	*Server
	api          humatest.TestAPI
	tokenService *auth.TokenService
}

func setupTestServer(t *testing.T) *testServer {
	t.Helper()

	tmpDir := t.TempDir()

	logger := slog.New(slog.NewTextHandler(testWriter{t}, &slog.HandlerOptions{Level: slog.LevelError}))

	st, err := sqlite.Open(tmpDir+"/test.db", logger)
	require.NoError(t, err)
	t.Cleanup(func() { _ = st.Close() })

	authKey, err := auth.LoadOrGenerateKey(tmpDir)
	require.NoError(t, err)

	tokenService, err := auth.NewTokenService(
		hex.EncodeToString(authKey),
		15*time.Minute,
		30*24*time.Hour,
	)
	require.NoError(t, err)

	storage, err := images.NewStorage(tmpDir)
	require.NoError(t, err)
	processor := images.NewProcessor(storage, logger)

	sessionService := service.NewSessionService(st, tokenService, logger)
	authService := service.NewAuthService(st, tokenService, sessionService, logger)
	libraryService := service.NewLibraryService(st, logger)

	services := &Services{
		Auth:      authService,
		Session:   sessionService,
		Admin:     service.NewAdminService(st, logger),
		Game:      service.NewGameService(st, storage, processor, logger),
		Library:   libraryService,
		Objective: service.NewObjectiveService(st, libraryService, logger),
		Note:      service.NewNoteService(st, libraryService, logger),
		Canvas:    service.NewCanvasService(st, libraryService, logger),
		Fusion:    service.NewFusionService(st, storage, logger),
	}

	s := NewServer(st, services, &StorageServices{Covers: storage}, logger)

	return &testServer{
		Server:       s,
		api:          humatest.Wrap(t, s.api),
		tokenService: tokenService,
	}
}

// testWriter routes log output through the test log so it only shows on
// failure.
type testWriter struct{ t *testing.T }

func (w testWriter) Write(p []byte) (int, error) {
	w.t.Log(string(p))
	return len(p), nil
}

// setupRootAdmin performs initial server setup and returns the root admin's
// access token and user ID.
func (ts *testServer) setupRootAdmin(t *testing.T) (token string, userID string) {
	t.Helper()

	resp := ts.api.Post("/api/v1/auth/setup", map[string]any{
		"email":      "admin@example.com",
		"password":   "RootPassword123!",
		"first_name": "Root",
		"last_name":  "Admin",
	})
	require.Equal(t, http.StatusOK, resp.Code, "Setup failed: %s", resp.Body.String())

	var envelope testEnvelope[AuthResponse]
	require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &envelope))

	claims, err := ts.tokenService.VerifyAccessToken(envelope.Data.AccessToken)
	require.NoError(t, err)

	return envelope.Data.AccessToken, claims.UserID
}

// createMemberUser registers a user, approves it through the admin API, logs
// it in, and returns its access token and user ID.
func (ts *testServer) createMemberUser(t *testing.T, adminToken, email string) (token string, userID string) {
	t.Helper()

	resp := ts.api.Post("/api/v1/auth/register", map[string]any{
		"email":      email,
		"password":   "MemberPassword123!",
		"first_name": "Member",
		"last_name":  "User",
	})
	require.Equal(t, http.StatusOK, resp.Code, "Register failed: %s", resp.Body.String())

	var registered testEnvelope[RegisterResponse]
	require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &registered))

	resp = ts.api.Post("/api/v1/admin/users/"+registered.Data.UserID+"/approve",
		"Authorization: Bearer "+adminToken)
	require.Equal(t, http.StatusOK, resp.Code, "Approve failed: %s", resp.Body.String())

	resp = ts.api.Post("/api/v1/auth/login", map[string]any{
		"email":    email,
		"password": "MemberPassword123!",
		"device_info": map[string]any{
			"device_type": "desktop",
			"platform":    "Linux",
		},
	})
	require.Equal(t, http.StatusOK, resp.Code, "Login failed: %s", resp.Body.String())

	var envelope testEnvelope[AuthResponse]
	require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &envelope))

	return envelope.Data.AccessToken, registered.Data.UserID
}

// createCatalogGame inserts a game directly into the store.
func (ts *testServer) createCatalogGame(t *testing.T, gameID, title string) {
	t.Helper()

	now := time.Now()
	game := &domain.Game{
		Syncable: domain.Syncable{
			ID:        gameID,
			CreatedAt: now,
			UpdatedAt: now,
		},
		Title: title,
	}
	require.NoError(t, ts.store.CreateGame(context.Background(), game))
}

// addToLibrary adds a catalog game to a user's library through the API and
// returns the entry ID.
func (ts *testServer) addToLibrary(t *testing.T, token, gameID string) string {
	t.Helper()

	resp := ts.api.Post("/api/v1/library",
		"Authorization: Bearer "+token,
		map[string]any{"game_id": gameID})
	require.Equal(t, http.StatusOK, resp.Code, "Add to library failed: %s", resp.Body.String())

	var envelope testEnvelope[LibraryEntryResponse]
	require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &envelope))

	return envelope.Data.ID
}

// decodeError unmarshals an error envelope and returns its code.
func decodeError(t *testing.T, body []byte) testErrorEnvelope {
	t.Helper()

	var envelope testErrorEnvelope
	require.NoError(t, json.Unmarshal(body, &envelope))
	require.False(t, envelope.Success)

	return envelope
}
