package api

import (
	"context"
	"encoding/json"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/playdeckapp/playdeck-server/internal/store"
)

func TestAdminListUsers_RequiresAdmin(t *testing.T) {
	ts := setupTestServer(t)
	adminToken, _ := ts.setupRootAdmin(t)
	memberToken, _ := ts.createMemberUser(t, adminToken, "member@example.com")

	resp := ts.api.Get("/api/v1/admin/users", "Authorization: Bearer "+memberToken)
	require.Equal(t, http.StatusForbidden, resp.Code, resp.Body.String())

	resp = ts.api.Get("/api/v1/admin/users", "Authorization: Bearer "+adminToken)
	require.Equal(t, http.StatusOK, resp.Code, resp.Body.String())

	var envelope testEnvelope[[]UserResponse]
	require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &envelope))
	assert.Len(t, envelope.Data, 2)
}

func TestAdminApproveUser_ActivatesPendingAccount(t *testing.T) {
	ts := setupTestServer(t)
	adminToken, _ := ts.setupRootAdmin(t)

	resp := ts.api.Post("/api/v1/auth/register", map[string]any{
		"email":      "pending@example.com",
		"password":   "PendingPassword123!",
		"first_name": "Pending",
		"last_name":  "User",
	})
	require.Equal(t, http.StatusOK, resp.Code, resp.Body.String())

	var registered testEnvelope[RegisterResponse]
	require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &registered))

	resp = ts.api.Get("/api/v1/admin/users/pending", "Authorization: Bearer "+adminToken)
	require.Equal(t, http.StatusOK, resp.Code, resp.Body.String())

	var pending testEnvelope[[]UserResponse]
	require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &pending))
	require.Len(t, pending.Data, 1)
	assert.Equal(t, registered.Data.UserID, pending.Data[0].ID)

	resp = ts.api.Post("/api/v1/admin/users/"+registered.Data.UserID+"/approve",
		"Authorization: Bearer "+adminToken)
	require.Equal(t, http.StatusOK, resp.Code, resp.Body.String())

	var approved testEnvelope[UserResponse]
	require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &approved))
	assert.Equal(t, "active", approved.Data.Status)
}

func TestFuseGamesEndpoint_RequiresAdmin(t *testing.T) {
	ts := setupTestServer(t)
	adminToken, _ := ts.setupRootAdmin(t)
	memberToken, _ := ts.createMemberUser(t, adminToken, "member@example.com")

	ts.createCatalogGame(t, "game-a", "Hollow Knight")
	ts.createCatalogGame(t, "game-b", "Hollow Knight (duplicate)")

	resp := ts.api.Post("/api/v1/admin/games/fuse",
		"Authorization: Bearer "+memberToken,
		map[string]any{
			"game_id_to_remove": "game-b",
			"game_id_to_keep":   "game-a",
		})
	require.Equal(t, http.StatusForbidden, resp.Code, resp.Body.String())
}

func TestFuseGamesEndpoint_RequiresAuthentication(t *testing.T) {
	ts := setupTestServer(t)

	resp := ts.api.Post("/api/v1/admin/games/fuse",
		map[string]any{
			"game_id_to_remove": "game-b",
			"game_id_to_keep":   "game-a",
		})
	require.Equal(t, http.StatusUnauthorized, resp.Code, resp.Body.String())

	envelope := decodeError(t, resp.Body.Bytes())
	assert.Equal(t, "UNAUTHORIZED", envelope.Code)
}

func TestFuseGamesEndpoint_RejectsSameGame(t *testing.T) {
	ts := setupTestServer(t)
	adminToken, _ := ts.setupRootAdmin(t)

	ts.createCatalogGame(t, "game-a", "Hollow Knight")

	resp := ts.api.Post("/api/v1/admin/games/fuse",
		"Authorization: Bearer "+adminToken,
		map[string]any{
			"game_id_to_remove": "game-a",
			"game_id_to_keep":   "game-a",
		})
	require.Equal(t, http.StatusBadRequest, resp.Code, resp.Body.String())

	envelope := decodeError(t, resp.Body.Bytes())
	assert.Equal(t, "VALIDATION", envelope.Code)
}

func TestFuseGamesEndpoint_MissingGame(t *testing.T) {
	ts := setupTestServer(t)
	adminToken, _ := ts.setupRootAdmin(t)

	ts.createCatalogGame(t, "game-a", "Hollow Knight")

	resp := ts.api.Post("/api/v1/admin/games/fuse",
		"Authorization: Bearer "+adminToken,
		map[string]any{
			"game_id_to_remove": "game-missing",
			"game_id_to_keep":   "game-a",
		})
	require.Equal(t, http.StatusNotFound, resp.Code, resp.Body.String())
}

func TestFuseGamesEndpoint_RepointsAndMerges(t *testing.T) {
	ts := setupTestServer(t)
	adminToken, _ := ts.setupRootAdmin(t)
	aliceToken, _ := ts.createMemberUser(t, adminToken, "alice@example.com")
	bobToken, _ := ts.createMemberUser(t, adminToken, "bob@example.com")

	ts.createCatalogGame(t, "game-keep", "Hollow Knight")
	ts.createCatalogGame(t, "game-remove", "Hollow Knight (duplicate)")

	// Alice only has the duplicate, so her entry is repointed.
	aliceEntryID := ts.addToLibrary(t, aliceToken, "game-remove")

	// Bob has both, so his duplicate entry is merged away.
	bobKeepEntryID := ts.addToLibrary(t, bobToken, "game-keep")
	ts.addToLibrary(t, bobToken, "game-remove")

	resp := ts.api.Post("/api/v1/admin/games/fuse",
		"Authorization: Bearer "+adminToken,
		map[string]any{
			"game_id_to_remove": "game-remove",
			"game_id_to_keep":   "game-keep",
		})
	require.Equal(t, http.StatusOK, resp.Code, resp.Body.String())

	var envelope testEnvelope[FuseGamesResponse]
	require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &envelope))
	assert.Equal(t, "game-keep", envelope.Data.SurvivingGameID)
	assert.Equal(t, "game-remove", envelope.Data.RemovedGameID)
	assert.Equal(t, 1, envelope.Data.RepointedCount)
	assert.Equal(t, 1, envelope.Data.MergedCount)

	// The duplicate game is gone from the catalog.
	_, err := ts.store.GetGame(context.Background(), "game-remove")
	assert.ErrorIs(t, err, store.ErrNotFound)

	// Alice's entry survived and now points at the surviving game.
	entry, err := ts.store.GetEntry(context.Background(), aliceEntryID)
	require.NoError(t, err)
	assert.Equal(t, "game-keep", entry.GameID)

	// Bob is down to a single entry, the one that was already on the
	// surviving game.
	entry, err = ts.store.GetEntry(context.Background(), bobKeepEntryID)
	require.NoError(t, err)
	assert.Equal(t, "game-keep", entry.GameID)
}
