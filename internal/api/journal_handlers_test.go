package api

import (
	"encoding/json"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestObjectiveLifecycle(t *testing.T) {
	ts := setupTestServer(t)
	adminToken, _ := ts.setupRootAdmin(t)
	token, _ := ts.createMemberUser(t, adminToken, "player@example.com")

	ts.createCatalogGame(t, "game-a", "Elden Ring")
	entryID := ts.addToLibrary(t, token, "game-a")

	resp := ts.api.Post("/api/v1/library/"+entryID+"/objectives",
		"Authorization: Bearer "+token,
		map[string]any{"title": "Defeat Margit", "description": "First shardbearer"})
	require.Equal(t, http.StatusOK, resp.Code, resp.Body.String())

	var objective testEnvelope[ObjectiveResponse]
	require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &objective))
	assert.False(t, objective.Data.IsComplete)

	resp = ts.api.Post("/api/v1/objectives/"+objective.Data.ID+"/tasks",
		"Authorization: Bearer "+token,
		map[string]any{"title": "Level up vigor"})
	require.Equal(t, http.StatusOK, resp.Code, resp.Body.String())

	var task testEnvelope[TaskResponse]
	require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &task))

	resp = ts.api.Patch("/api/v1/tasks/"+task.Data.ID,
		"Authorization: Bearer "+token,
		map[string]any{"is_complete": true})
	require.Equal(t, http.StatusOK, resp.Code, resp.Body.String())

	resp = ts.api.Patch("/api/v1/objectives/"+objective.Data.ID,
		"Authorization: Bearer "+token,
		map[string]any{"is_complete": true})
	require.Equal(t, http.StatusOK, resp.Code, resp.Body.String())

	var updated testEnvelope[ObjectiveResponse]
	require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &updated))
	assert.True(t, updated.Data.IsComplete)

	resp = ts.api.Delete("/api/v1/objectives/"+objective.Data.ID,
		"Authorization: Bearer "+token)
	require.Equal(t, http.StatusOK, resp.Code, resp.Body.String())

	// Tasks go down with their objective.
	resp = ts.api.Get("/api/v1/objectives/"+objective.Data.ID+"/tasks",
		"Authorization: Bearer "+token)
	require.Equal(t, http.StatusNotFound, resp.Code, resp.Body.String())
}

func TestObjectives_OtherUsersCannotTouch(t *testing.T) {
	ts := setupTestServer(t)
	adminToken, _ := ts.setupRootAdmin(t)
	aliceToken, _ := ts.createMemberUser(t, adminToken, "alice@example.com")
	bobToken, _ := ts.createMemberUser(t, adminToken, "bob@example.com")

	ts.createCatalogGame(t, "game-a", "Elden Ring")
	entryID := ts.addToLibrary(t, aliceToken, "game-a")

	resp := ts.api.Post("/api/v1/library/"+entryID+"/objectives",
		"Authorization: Bearer "+aliceToken,
		map[string]any{"title": "Defeat Margit"})
	require.Equal(t, http.StatusOK, resp.Code, resp.Body.String())

	var objective testEnvelope[ObjectiveResponse]
	require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &objective))

	resp = ts.api.Patch("/api/v1/objectives/"+objective.Data.ID,
		"Authorization: Bearer "+bobToken,
		map[string]any{"is_complete": true})
	require.Equal(t, http.StatusForbidden, resp.Code, resp.Body.String())
}

func TestNoteLifecycle(t *testing.T) {
	ts := setupTestServer(t)
	adminToken, _ := ts.setupRootAdmin(t)
	token, _ := ts.createMemberUser(t, adminToken, "player@example.com")

	ts.createCatalogGame(t, "game-a", "Outer Wilds")
	entryID := ts.addToLibrary(t, token, "game-a")

	resp := ts.api.Post("/api/v1/library/"+entryID+"/notes",
		"Authorization: Bearer "+token,
		map[string]any{"title": "Quantum moon", "body": "Look away to travel"})
	require.Equal(t, http.StatusOK, resp.Code, resp.Body.String())

	var note testEnvelope[NoteResponse]
	require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &note))

	resp = ts.api.Patch("/api/v1/notes/"+note.Data.ID,
		"Authorization: Bearer "+token,
		map[string]any{"body": "Look away to travel with it"})
	require.Equal(t, http.StatusOK, resp.Code, resp.Body.String())

	resp = ts.api.Get("/api/v1/library/"+entryID+"/notes",
		"Authorization: Bearer "+token)
	require.Equal(t, http.StatusOK, resp.Code, resp.Body.String())

	var notes testEnvelope[[]NoteResponse]
	require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &notes))
	require.Len(t, notes.Data, 1)
	assert.Equal(t, "Look away to travel with it", notes.Data[0].Body)

	resp = ts.api.Delete("/api/v1/notes/"+note.Data.ID, "Authorization: Bearer "+token)
	require.Equal(t, http.StatusOK, resp.Code, resp.Body.String())
}

func TestCanvasLifecycle(t *testing.T) {
	ts := setupTestServer(t)
	adminToken, _ := ts.setupRootAdmin(t)
	token, _ := ts.createMemberUser(t, adminToken, "player@example.com")

	ts.createCatalogGame(t, "game-a", "Factorio")
	entryID := ts.addToLibrary(t, token, "game-a")

	resp := ts.api.Post("/api/v1/library/"+entryID+"/canvases",
		"Authorization: Bearer "+token,
		map[string]any{"name": "Base layout", "content": `{"nodes":[]}`})
	require.Equal(t, http.StatusOK, resp.Code, resp.Body.String())

	var canvas testEnvelope[CanvasResponse]
	require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &canvas))
	assert.Equal(t, "Base layout", canvas.Data.Name)

	resp = ts.api.Patch("/api/v1/canvases/"+canvas.Data.ID,
		"Authorization: Bearer "+token,
		map[string]any{"name": "Main bus layout"})
	require.Equal(t, http.StatusOK, resp.Code, resp.Body.String())

	resp = ts.api.Get("/api/v1/library/"+entryID+"/canvases",
		"Authorization: Bearer "+token)
	require.Equal(t, http.StatusOK, resp.Code, resp.Body.String())

	var canvases testEnvelope[[]CanvasResponse]
	require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &canvases))
	require.Len(t, canvases.Data, 1)
	assert.Equal(t, "Main bus layout", canvases.Data[0].Name)

	resp = ts.api.Delete("/api/v1/canvases/"+canvas.Data.ID, "Authorization: Bearer "+token)
	require.Equal(t, http.StatusOK, resp.Code, resp.Body.String())
}
