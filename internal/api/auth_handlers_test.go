package api

import (
	"encoding/json"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSetupEndpoint_CreatesRootAdmin(t *testing.T) {
	ts := setupTestServer(t)

	resp := ts.api.Post("/api/v1/auth/setup", map[string]any{
		"email":      "admin@example.com",
		"password":   "RootPassword123!",
		"first_name": "Root",
		"last_name":  "Admin",
	})
	require.Equal(t, http.StatusOK, resp.Code, resp.Body.String())

	var envelope testEnvelope[AuthResponse]
	require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &envelope))
	assert.True(t, envelope.Success)
	assert.NotEmpty(t, envelope.Data.AccessToken)
	assert.NotEmpty(t, envelope.Data.RefreshToken)
	assert.Equal(t, "admin", envelope.Data.User.Role)
	assert.True(t, envelope.Data.User.IsRoot)
}

func TestSetupEndpoint_SecondCallRejected(t *testing.T) {
	ts := setupTestServer(t)
	ts.setupRootAdmin(t)

	resp := ts.api.Post("/api/v1/auth/setup", map[string]any{
		"email":      "second@example.com",
		"password":   "AnotherPassword123!",
		"first_name": "Second",
		"last_name":  "Admin",
	})
	require.Equal(t, http.StatusConflict, resp.Code, resp.Body.String())

	envelope := decodeError(t, resp.Body.Bytes())
	assert.Equal(t, "ALREADY_CONFIGURED", envelope.Code)
}

func TestRegisterEndpoint_PendingUntilApproved(t *testing.T) {
	ts := setupTestServer(t)
	ts.setupRootAdmin(t)

	resp := ts.api.Post("/api/v1/auth/register", map[string]any{
		"email":      "new@example.com",
		"password":   "NewPassword123!",
		"first_name": "New",
		"last_name":  "User",
	})
	require.Equal(t, http.StatusOK, resp.Code, resp.Body.String())

	var registered testEnvelope[RegisterResponse]
	require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &registered))
	assert.NotEmpty(t, registered.Data.UserID)

	// Pending accounts cannot sign in yet.
	resp = ts.api.Post("/api/v1/auth/login", map[string]any{
		"email":    "new@example.com",
		"password": "NewPassword123!",
		"device_info": map[string]any{
			"device_type": "desktop",
			"platform":    "Linux",
		},
	})
	require.Equal(t, http.StatusForbidden, resp.Code, resp.Body.String())
}

func TestLoginEndpoint_WrongPassword(t *testing.T) {
	ts := setupTestServer(t)
	ts.setupRootAdmin(t)

	resp := ts.api.Post("/api/v1/auth/login", map[string]any{
		"email":    "admin@example.com",
		"password": "WrongPassword123!",
		"device_info": map[string]any{
			"device_type": "desktop",
			"platform":    "Linux",
		},
	})
	require.Equal(t, http.StatusUnauthorized, resp.Code, resp.Body.String())

	envelope := decodeError(t, resp.Body.Bytes())
	assert.Equal(t, "INVALID_CREDENTIALS", envelope.Code)
}

func TestRefreshEndpoint_RotatesTokens(t *testing.T) {
	ts := setupTestServer(t)
	ts.setupRootAdmin(t)

	resp := ts.api.Post("/api/v1/auth/login", map[string]any{
		"email":    "admin@example.com",
		"password": "RootPassword123!",
		"device_info": map[string]any{
			"device_type": "desktop",
			"platform":    "Linux",
		},
	})
	require.Equal(t, http.StatusOK, resp.Code, resp.Body.String())

	var login testEnvelope[AuthResponse]
	require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &login))

	resp = ts.api.Post("/api/v1/auth/refresh", map[string]any{
		"refresh_token": login.Data.RefreshToken,
	})
	require.Equal(t, http.StatusOK, resp.Code, resp.Body.String())

	var refreshed testEnvelope[AuthResponse]
	require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &refreshed))
	assert.NotEmpty(t, refreshed.Data.RefreshToken)
	assert.NotEqual(t, login.Data.RefreshToken, refreshed.Data.RefreshToken)

	// The old refresh token is spent.
	resp = ts.api.Post("/api/v1/auth/refresh", map[string]any{
		"refresh_token": login.Data.RefreshToken,
	})
	require.Equal(t, http.StatusUnauthorized, resp.Code, resp.Body.String())
}

func TestGetCurrentUser_RequiresAuth(t *testing.T) {
	ts := setupTestServer(t)
	token, userID := ts.setupRootAdmin(t)

	resp := ts.api.Get("/api/v1/users/me")
	require.Equal(t, http.StatusUnauthorized, resp.Code, resp.Body.String())

	resp = ts.api.Get("/api/v1/users/me", "Authorization: Bearer "+token)
	require.Equal(t, http.StatusOK, resp.Code, resp.Body.String())

	var envelope testEnvelope[UserResponse]
	require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &envelope))
	assert.Equal(t, userID, envelope.Data.ID)
	assert.Equal(t, "admin@example.com", envelope.Data.Email)
}
