package sqlite

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/playdeckapp/playdeck-server/internal/domain"
	"github.com/playdeckapp/playdeck-server/internal/store"
)

func makeTestGame(id, title string) *domain.Game {
	now := time.Now()
	return &domain.Game{
		Syncable: domain.Syncable{
			ID:        id,
			CreatedAt: now,
			UpdatedAt: now,
		},
		Title:       title,
		Summary:     "A test game.",
		Developer:   "Test Studio",
		Publisher:   "Test Publisher",
		ReleaseYear: 2020,
	}
}

func TestCreateAndGetGame(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	game := makeTestGame("game-1", "Hollow Knight")
	game.CoverBlurHash = "LEHV6nWB2yk8pyo0adR*.7kCMdnj"
	game.HasCover = true

	if err := s.CreateGame(ctx, game); err != nil {
		t.Fatalf("CreateGame: %v", err)
	}

	got, err := s.GetGame(ctx, "game-1")
	if err != nil {
		t.Fatalf("GetGame: %v", err)
	}
	if got.Title != "Hollow Knight" {
		t.Errorf("Title: got %q, want %q", got.Title, "Hollow Knight")
	}
	if got.Developer != "Test Studio" {
		t.Errorf("Developer: got %q, want %q", got.Developer, "Test Studio")
	}
	if got.ReleaseYear != 2020 {
		t.Errorf("ReleaseYear: got %d, want 2020", got.ReleaseYear)
	}
	if !got.HasCover {
		t.Error("HasCover: expected true")
	}
	if got.CoverBlurHash != game.CoverBlurHash {
		t.Errorf("CoverBlurHash: got %q, want %q", got.CoverBlurHash, game.CoverBlurHash)
	}
}

func TestGetGame_NotFound(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	_, err := s.GetGame(ctx, "nonexistent")
	if !errors.Is(err, store.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestCreateGame_DuplicateID(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	if err := s.CreateGame(ctx, makeTestGame("game-1", "Celeste")); err != nil {
		t.Fatalf("CreateGame: %v", err)
	}
	err := s.CreateGame(ctx, makeTestGame("game-1", "Celeste Again"))
	if !errors.Is(err, store.ErrAlreadyExists) {
		t.Fatalf("expected ErrAlreadyExists, got %v", err)
	}
}

func TestListGames_OrderedByTitle(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	for _, g := range []*domain.Game{
		makeTestGame("game-1", "Outer Wilds"),
		makeTestGame("game-2", "celeste"),
		makeTestGame("game-3", "Hades"),
	} {
		if err := s.CreateGame(ctx, g); err != nil {
			t.Fatalf("CreateGame: %v", err)
		}
	}

	games, err := s.ListGames(ctx)
	if err != nil {
		t.Fatalf("ListGames: %v", err)
	}
	if len(games) != 3 {
		t.Fatalf("expected 3 games, got %d", len(games))
	}
	// Case-insensitive title order.
	wantOrder := []string{"celeste", "Hades", "Outer Wilds"}
	for i, want := range wantOrder {
		if games[i].Title != want {
			t.Errorf("games[%d].Title: got %q, want %q", i, games[i].Title, want)
		}
	}
}

func TestUpdateGame(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	game := makeTestGame("game-1", "Hades")
	if err := s.CreateGame(ctx, game); err != nil {
		t.Fatalf("CreateGame: %v", err)
	}

	game.Summary = "Roguelike dungeon crawler."
	game.HasCover = true
	game.Touch()
	if err := s.UpdateGame(ctx, game); err != nil {
		t.Fatalf("UpdateGame: %v", err)
	}

	got, err := s.GetGame(ctx, "game-1")
	if err != nil {
		t.Fatalf("GetGame: %v", err)
	}
	if got.Summary != "Roguelike dungeon crawler." {
		t.Errorf("Summary: got %q", got.Summary)
	}
	if !got.HasCover {
		t.Error("HasCover: expected true")
	}
}

func TestDeleteGame(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	if err := s.CreateGame(ctx, makeTestGame("game-1", "Hades")); err != nil {
		t.Fatalf("CreateGame: %v", err)
	}
	if err := s.DeleteGame(ctx, "game-1"); err != nil {
		t.Fatalf("DeleteGame: %v", err)
	}
	if _, err := s.GetGame(ctx, "game-1"); !errors.Is(err, store.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
	if err := s.DeleteGame(ctx, "game-1"); !errors.Is(err, store.ErrNotFound) {
		t.Fatalf("expected ErrNotFound on double delete, got %v", err)
	}
}

func TestDeleteGame_RefusedWhileReferenced(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	if err := s.CreateUser(ctx, makeTestUser("user-1", "alice@example.com")); err != nil {
		t.Fatalf("CreateUser: %v", err)
	}
	if err := s.CreateGame(ctx, makeTestGame("game-1", "Hades")); err != nil {
		t.Fatalf("CreateGame: %v", err)
	}
	if err := s.CreateEntry(ctx, makeTestEntry("entry-1", "user-1", "game-1")); err != nil {
		t.Fatalf("CreateEntry: %v", err)
	}

	// The entry's foreign key holds the game in place.
	if err := s.DeleteGame(ctx, "game-1"); err == nil {
		t.Fatal("expected error deleting referenced game, got nil")
	}
	if _, err := s.GetGame(ctx, "game-1"); err != nil {
		t.Fatalf("game should survive refused delete: %v", err)
	}

	count, err := s.CountEntriesForGame(ctx, "game-1")
	if err != nil {
		t.Fatalf("CountEntriesForGame: %v", err)
	}
	if count != 1 {
		t.Errorf("expected 1 entry, got %d", count)
	}
}
