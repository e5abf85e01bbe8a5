package api

import (
	"encoding/json"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAddGameToLibrary_DuplicateRejected(t *testing.T) {
	ts := setupTestServer(t)
	adminToken, _ := ts.setupRootAdmin(t)
	token, _ := ts.createMemberUser(t, adminToken, "player@example.com")

	ts.createCatalogGame(t, "game-a", "Celeste")

	ts.addToLibrary(t, token, "game-a")

	resp := ts.api.Post("/api/v1/library",
		"Authorization: Bearer "+token,
		map[string]any{"game_id": "game-a"})
	require.Equal(t, http.StatusConflict, resp.Code, resp.Body.String())
}

func TestListLibrary_SortedByTitle(t *testing.T) {
	ts := setupTestServer(t)
	adminToken, _ := ts.setupRootAdmin(t)
	token, _ := ts.createMemberUser(t, adminToken, "player@example.com")

	ts.createCatalogGame(t, "game-z", "Zelda")
	ts.createCatalogGame(t, "game-a", "Animal Well")
	ts.addToLibrary(t, token, "game-z")
	ts.addToLibrary(t, token, "game-a")

	resp := ts.api.Get("/api/v1/library", "Authorization: Bearer "+token)
	require.Equal(t, http.StatusOK, resp.Code, resp.Body.String())

	var envelope testEnvelope[[]LibraryEntryResponse]
	require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &envelope))
	require.Len(t, envelope.Data, 2)
	assert.Equal(t, "game-a", envelope.Data[0].GameID)
	assert.Equal(t, "game-z", envelope.Data[1].GameID)
}

func TestGetLibraryEntry_OtherUsersCannotRead(t *testing.T) {
	ts := setupTestServer(t)
	adminToken, _ := ts.setupRootAdmin(t)
	aliceToken, _ := ts.createMemberUser(t, adminToken, "alice@example.com")
	bobToken, _ := ts.createMemberUser(t, adminToken, "bob@example.com")

	ts.createCatalogGame(t, "game-a", "Celeste")
	entryID := ts.addToLibrary(t, aliceToken, "game-a")

	resp := ts.api.Get("/api/v1/library/"+entryID, "Authorization: Bearer "+bobToken)
	require.Equal(t, http.StatusForbidden, resp.Code, resp.Body.String())

	// Admins can read any entry.
	resp = ts.api.Get("/api/v1/library/"+entryID, "Authorization: Bearer "+adminToken)
	require.Equal(t, http.StatusOK, resp.Code, resp.Body.String())
}

func TestLogPlaySession_AccruesPlaytime(t *testing.T) {
	ts := setupTestServer(t)
	adminToken, _ := ts.setupRootAdmin(t)
	token, _ := ts.createMemberUser(t, adminToken, "player@example.com")

	ts.createCatalogGame(t, "game-a", "Celeste")
	entryID := ts.addToLibrary(t, token, "game-a")

	resp := ts.api.Post("/api/v1/library/"+entryID+"/plays",
		"Authorization: Bearer "+token,
		map[string]any{"minutes": 45, "note": "reached the summit"})
	require.Equal(t, http.StatusOK, resp.Code, resp.Body.String())

	resp = ts.api.Post("/api/v1/library/"+entryID+"/plays",
		"Authorization: Bearer "+token,
		map[string]any{"minutes": 30})
	require.Equal(t, http.StatusOK, resp.Code, resp.Body.String())

	resp = ts.api.Get("/api/v1/library/"+entryID, "Authorization: Bearer "+token)
	require.Equal(t, http.StatusOK, resp.Code, resp.Body.String())

	var entry testEnvelope[LibraryEntryResponse]
	require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &entry))
	assert.Equal(t, int64(75), entry.Data.PlaytimeMinutes)

	resp = ts.api.Get("/api/v1/library/"+entryID+"/plays", "Authorization: Bearer "+token)
	require.Equal(t, http.StatusOK, resp.Code, resp.Body.String())

	var plays testEnvelope[[]PlaySessionResponse]
	require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &plays))
	assert.Len(t, plays.Data, 2)
}

func TestDeletePlaySession_SubtractsPlaytime(t *testing.T) {
	ts := setupTestServer(t)
	adminToken, _ := ts.setupRootAdmin(t)
	token, _ := ts.createMemberUser(t, adminToken, "player@example.com")

	ts.createCatalogGame(t, "game-a", "Celeste")
	entryID := ts.addToLibrary(t, token, "game-a")

	resp := ts.api.Post("/api/v1/library/"+entryID+"/plays",
		"Authorization: Bearer "+token,
		map[string]any{"minutes": 60})
	require.Equal(t, http.StatusOK, resp.Code, resp.Body.String())

	var play testEnvelope[PlaySessionResponse]
	require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &play))

	resp = ts.api.Delete("/api/v1/library/"+entryID+"/plays/"+play.Data.ID,
		"Authorization: Bearer "+token)
	require.Equal(t, http.StatusOK, resp.Code, resp.Body.String())

	resp = ts.api.Get("/api/v1/library/"+entryID, "Authorization: Bearer "+token)
	require.Equal(t, http.StatusOK, resp.Code, resp.Body.String())

	var entry testEnvelope[LibraryEntryResponse]
	require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &entry))
	assert.Equal(t, int64(0), entry.Data.PlaytimeMinutes)
}

func TestUpdateLibraryEntry_PatchesFlags(t *testing.T) {
	ts := setupTestServer(t)
	adminToken, _ := ts.setupRootAdmin(t)
	token, _ := ts.createMemberUser(t, adminToken, "player@example.com")

	ts.createCatalogGame(t, "game-a", "Celeste")
	entryID := ts.addToLibrary(t, token, "game-a")

	resp := ts.api.Patch("/api/v1/library/"+entryID,
		"Authorization: Bearer "+token,
		map[string]any{"is_favorite": true})
	require.Equal(t, http.StatusOK, resp.Code, resp.Body.String())

	var entry testEnvelope[LibraryEntryResponse]
	require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &entry))
	assert.True(t, entry.Data.IsFavorite)
	assert.False(t, entry.Data.IsPinned)
}

func TestRemoveLibraryEntry_Gone(t *testing.T) {
	ts := setupTestServer(t)
	adminToken, _ := ts.setupRootAdmin(t)
	token, _ := ts.createMemberUser(t, adminToken, "player@example.com")

	ts.createCatalogGame(t, "game-a", "Celeste")
	entryID := ts.addToLibrary(t, token, "game-a")

	resp := ts.api.Delete("/api/v1/library/"+entryID, "Authorization: Bearer "+token)
	require.Equal(t, http.StatusOK, resp.Code, resp.Body.String())

	resp = ts.api.Get("/api/v1/library/"+entryID, "Authorization: Bearer "+token)
	require.Equal(t, http.StatusNotFound, resp.Code, resp.Body.String())
}
