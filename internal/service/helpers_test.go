package service

import (
	"context"
	"log/slog"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/playdeckapp/playdeck-server/internal/auth"
	"github.com/playdeckapp/playdeck-server/internal/domain"
	"github.com/playdeckapp/playdeck-server/internal/store"
	"github.com/playdeckapp/playdeck-server/internal/store/sqlite"
)

// newTestStore opens a real sqlite store in a temp directory.
func newTestStore(t *testing.T) *sqlite.Store {
	t.Helper()

	logger := slog.New(slog.NewTextHandler(testWriter{t}, &slog.HandlerOptions{Level: slog.LevelWarn}))
	s, err := sqlite.Open(filepath.Join(t.TempDir(), "test.db"), logger)
	require.NoError(t, err)
	t.Cleanup(func() {
		_ = s.Close() //nolint:errcheck // Test cleanup
	})
	return s
}

// testWriter routes store logs through the test log.
type testWriter struct {
	t *testing.T
}

func (w testWriter) Write(p []byte) (int, error) {
	w.t.Log(strings.TrimRight(string(p), "\n"))
	return len(p), nil
}

func newTestLogger(t *testing.T) *slog.Logger {
	t.Helper()
	return slog.New(slog.NewTextHandler(testWriter{t}, &slog.HandlerOptions{Level: slog.LevelDebug}))
}

// newTestTokenService builds a token service with a fixed key.
func newTestTokenService(t *testing.T) *auth.TokenService {
	t.Helper()

	ts, err := auth.NewTokenService(strings.Repeat("ab", 32), 15*time.Minute, 30*24*time.Hour)
	require.NoError(t, err)
	return ts
}

func seedUser(t *testing.T, s store.Store, id string, admin bool) *domain.User {
	t.Helper()

	user := &domain.User{
		Email:       id + "@example.com",
		DisplayName: id,
		FirstName:   "Test",
		LastName:    "User",
		Role:        domain.RoleMember,
		Status:      domain.UserStatusActive,
	}
	user.ID = id
	if admin {
		user.Role = domain.RoleAdmin
	}
	user.InitTimestamps()
	require.NoError(t, s.CreateUser(context.Background(), user))
	return user
}

func seedGame(t *testing.T, s store.Store, id, title string) *domain.Game {
	t.Helper()

	game := &domain.Game{Title: title}
	game.ID = id
	game.InitTimestamps()
	require.NoError(t, s.CreateGame(context.Background(), game))
	return game
}

func seedEntry(t *testing.T, s store.Store, id, userID, gameID string, playtime int64) *domain.LibraryEntry {
	t.Helper()

	entry := &domain.LibraryEntry{
		UserID:          userID,
		GameID:          gameID,
		PlaytimeMinutes: playtime,
	}
	entry.ID = id
	entry.InitTimestamps()
	require.NoError(t, s.CreateEntry(context.Background(), entry))
	return entry
}
