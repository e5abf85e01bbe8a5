package service

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/playdeckapp/playdeck-server/internal/domain"
	domainerrors "github.com/playdeckapp/playdeck-server/internal/errors"
	"github.com/playdeckapp/playdeck-server/internal/media/images"
	"github.com/playdeckapp/playdeck-server/internal/store"
)

func TestFuseGames_RequiresAdmin(t *testing.T) {
	s := newTestStore(t)
	svc := NewFusionService(s, nil, newTestLogger(t))

	member := seedUser(t, s, "user-member", false)
	seedGame(t, s, "game-a", "Hollow Knight")
	seedGame(t, s, "game-b", "Hollow Knight (duplicate)")

	_, err := svc.FuseGames(context.Background(), member, "game-b", "game-a")
	requireErrorCode(t, err, domainerrors.CodeForbidden)

	_, err = svc.FuseGames(context.Background(), nil, "game-b", "game-a")
	requireErrorCode(t, err, domainerrors.CodeForbidden)
}

func TestFuseGames_Validation(t *testing.T) {
	s := newTestStore(t)
	svc := NewFusionService(s, nil, newTestLogger(t))
	admin := seedUser(t, s, "user-admin", true)
	seedGame(t, s, "game-a", "Hades")

	tests := []struct {
		name     string
		removeID string
		keepID   string
	}{
		{"same game", "game-a", "game-a"},
		{"empty remove ID", "", "game-a"},
		{"empty keep ID", "game-a", ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.FuseGames(context.Background(), admin, tt.removeID, tt.keepID)
			requireErrorCode(t, err, domainerrors.CodeValidation)
		})
	}
}

func TestFuseGames_MissingGame(t *testing.T) {
	s := newTestStore(t)
	svc := NewFusionService(s, nil, newTestLogger(t))
	admin := seedUser(t, s, "user-admin", true)
	seedGame(t, s, "game-a", "Celeste")

	_, err := svc.FuseGames(context.Background(), admin, "game-missing", "game-a")
	requireErrorCode(t, err, domainerrors.CodeNotFound)

	_, err = svc.FuseGames(context.Background(), admin, "game-a", "game-missing")
	requireErrorCode(t, err, domainerrors.CodeNotFound)

	// Nothing was deleted by the failed attempts.
	_, err = s.GetGame(context.Background(), "game-a")
	require.NoError(t, err)
}

func TestFuseGames_RepointAndMerge(t *testing.T) {
	s := newTestStore(t)
	svc := NewFusionService(s, nil, newTestLogger(t))
	ctx := context.Background()

	admin := seedUser(t, s, "user-admin", true)
	seedUser(t, s, "user-a", false)
	seedUser(t, s, "user-b", false)
	seedGame(t, s, "game-keep", "Outer Wilds")
	seedGame(t, s, "game-remove", "Outer Wilds (duplicate)")

	// user-a owns only the duplicate: their entry just moves over.
	seedEntry(t, s, "entry-a", "user-a", "game-remove", 200)

	// user-b owns both: their duplicate entry folds into the surviving one.
	keep := seedEntry(t, s, "entry-b-keep", "user-b", "game-keep", 100)
	lose := &domain.LibraryEntry{
		UserID:          "user-b",
		GameID:          "game-remove",
		PlaytimeMinutes: 50,
		IsFavorite:      true,
	}
	lose.ID = "entry-b-lose"
	lose.InitTimestamps()
	require.NoError(t, s.CreateEntry(ctx, lose))

	note := &domain.Note{LibraryEntryID: "entry-b-lose", Title: "Route notes"}
	note.ID = "note-1"
	note.InitTimestamps()
	require.NoError(t, s.CreateNote(ctx, note))

	result, err := svc.FuseGames(ctx, admin, "game-remove", "game-keep")
	require.NoError(t, err)

	assert.Equal(t, "game-keep", result.SurvivingGameID)
	assert.Equal(t, "game-remove", result.RemovedGameID)
	assert.Equal(t, 1, result.Repointed)
	assert.Equal(t, 1, result.Merged)

	// user-a's entry now points at the surviving game, playtime intact.
	entryA, err := s.GetEntry(ctx, "entry-a")
	require.NoError(t, err)
	assert.Equal(t, "game-keep", entryA.GameID)
	assert.Equal(t, int64(200), entryA.PlaytimeMinutes)

	// user-b's surviving entry absorbed the duplicate.
	entryB, err := s.GetEntry(ctx, keep.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(150), entryB.PlaytimeMinutes)
	assert.True(t, entryB.IsFavorite)

	// The duplicate entry and game are gone, the note moved over.
	_, err = s.GetEntry(ctx, "entry-b-lose")
	assert.ErrorIs(t, err, store.ErrNotFound)
	_, err = s.GetGame(ctx, "game-remove")
	assert.ErrorIs(t, err, store.ErrNotFound)
	movedNote, err := s.GetNote(ctx, "note-1")
	require.NoError(t, err)
	assert.Equal(t, "entry-b-keep", movedNote.LibraryEntryID)
}

func TestFuseGames_RollbackLeavesEverythingIntact(t *testing.T) {
	s := newTestStore(t)
	failing := &fusionFailStore{Store: s}
	svc := NewFusionService(failing, nil, newTestLogger(t))
	ctx := context.Background()

	admin := seedUser(t, s, "user-admin", true)
	seedUser(t, s, "user-a", false)
	seedGame(t, s, "game-keep", "Animal Well")
	seedGame(t, s, "game-remove", "Animal Well (duplicate)")
	seedEntry(t, s, "entry-a", "user-a", "game-remove", 75)

	_, err := svc.FuseGames(ctx, admin, "game-remove", "game-keep")
	require.Error(t, err)

	// The repoint happened inside the transaction but must be rolled back.
	entry, err := s.GetEntry(ctx, "entry-a")
	require.NoError(t, err)
	assert.Equal(t, "game-remove", entry.GameID)
	_, err = s.GetGame(ctx, "game-remove")
	require.NoError(t, err)
}

func TestFuseGames_DeletesOrphanedCover(t *testing.T) {
	s := newTestStore(t)
	storage, err := images.NewStorage(t.TempDir())
	require.NoError(t, err)
	svc := NewFusionService(s, storage, newTestLogger(t))
	ctx := context.Background()

	admin := seedUser(t, s, "user-admin", true)
	seedGame(t, s, "game-keep", "Tunic")
	seedGame(t, s, "game-remove", "Tunic (duplicate)")
	require.NoError(t, storage.Save("game-remove", []byte("jpeg-bytes")))

	_, err = svc.FuseGames(ctx, admin, "game-remove", "game-keep")
	require.NoError(t, err)

	assert.False(t, storage.Exists("game-remove"))
}

// requireErrorCode asserts err carries the given domain error code.
func requireErrorCode(t *testing.T, err error, code domainerrors.Code) {
	t.Helper()

	require.Error(t, err)
	var derr *domainerrors.Error
	require.True(t, errors.As(err, &derr), "expected *errors.Error, got %T: %v", err, err)
	assert.Equal(t, code, derr.Code)
}

// fusionFailStore wraps a real store and fails the final delete inside the
// fusion transaction, forcing a rollback.
type fusionFailStore struct {
	store.Store
}

func (s *fusionFailStore) RunGameFusion(ctx context.Context, fn func(tx store.FusionTx) error) error {
	return s.Store.RunGameFusion(ctx, func(tx store.FusionTx) error {
		return fn(&fusionFailTx{FusionTx: tx})
	})
}

type fusionFailTx struct {
	store.FusionTx
}

func (tx *fusionFailTx) DeleteGame(ctx context.Context, id string) error {
	return errors.New("injected failure")
}
