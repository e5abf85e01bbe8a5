package sqlite

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/playdeckapp/playdeck-server/internal/domain"
	"github.com/playdeckapp/playdeck-server/internal/store"
)

func makeTestPlaySession(id, entryID string, minutes int64) *domain.PlaySession {
	now := time.Now()
	return &domain.PlaySession{
		ID:             id,
		LibraryEntryID: entryID,
		PlayedAt:       now,
		Minutes:        minutes,
		CreatedAt:      now,
	}
}

func makeTestObjective(id, entryID, title string) *domain.Objective {
	now := time.Now()
	return &domain.Objective{
		Syncable: domain.Syncable{
			ID:        id,
			CreatedAt: now,
			UpdatedAt: now,
		},
		LibraryEntryID: entryID,
		Title:          title,
	}
}

func makeTestTask(id, objectiveID, title string) *domain.Task {
	now := time.Now()
	return &domain.Task{
		Syncable: domain.Syncable{
			ID:        id,
			CreatedAt: now,
			UpdatedAt: now,
		},
		ObjectiveID: objectiveID,
		Title:       title,
	}
}

func makeTestNote(id, entryID, title string) *domain.Note {
	now := time.Now()
	return &domain.Note{
		Syncable: domain.Syncable{
			ID:        id,
			CreatedAt: now,
			UpdatedAt: now,
		},
		LibraryEntryID: entryID,
		Title:          title,
		Body:           "some notes",
	}
}

func makeTestCanvas(id, entryID, name string) *domain.Canvas {
	now := time.Now()
	return &domain.Canvas{
		Syncable: domain.Syncable{
			ID:        id,
			CreatedAt: now,
			UpdatedAt: now,
		},
		LibraryEntryID: entryID,
		Name:           name,
		Content:        `{"nodes":[]}`,
	}
}

// seedEntry creates a user, game and entry so journal tests have something
// to attach records to.
func seedEntry(t *testing.T, s *Store, entryID string) {
	t.Helper()
	ctx := context.Background()
	seedUserAndGames(t, s, "user-1", "game-1")
	if err := s.CreateEntry(ctx, makeTestEntry(entryID, "user-1", "game-1")); err != nil {
		t.Fatalf("CreateEntry: %v", err)
	}
}

func TestPlaySessions(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	seedEntry(t, s, "entry-1")

	older := makeTestPlaySession("play-1", "entry-1", 30)
	older.PlayedAt = time.Now().Add(-2 * time.Hour)
	older.Note = "first run"
	if err := s.CreatePlaySession(ctx, older); err != nil {
		t.Fatalf("CreatePlaySession: %v", err)
	}
	if err := s.CreatePlaySession(ctx, makeTestPlaySession("play-2", "entry-1", 45)); err != nil {
		t.Fatalf("CreatePlaySession: %v", err)
	}

	got, err := s.GetPlaySession(ctx, "play-1")
	if err != nil {
		t.Fatalf("GetPlaySession: %v", err)
	}
	if got.Minutes != 30 {
		t.Errorf("Minutes: got %d, want 30", got.Minutes)
	}
	if got.Note != "first run" {
		t.Errorf("Note: got %q, want %q", got.Note, "first run")
	}

	// Most recent first.
	plays, err := s.ListPlaySessionsForEntry(ctx, "entry-1")
	if err != nil {
		t.Fatalf("ListPlaySessionsForEntry: %v", err)
	}
	if len(plays) != 2 {
		t.Fatalf("expected 2 plays, got %d", len(plays))
	}
	if plays[0].ID != "play-2" {
		t.Errorf("expected play-2 first, got %q", plays[0].ID)
	}

	if err := s.DeletePlaySession(ctx, "play-1"); err != nil {
		t.Fatalf("DeletePlaySession: %v", err)
	}
	if _, err := s.GetPlaySession(ctx, "play-1"); !errors.Is(err, store.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestCreatePlaySession_MissingEntry(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	err := s.CreatePlaySession(ctx, makeTestPlaySession("play-1", "no-such-entry", 30))
	if err == nil {
		t.Fatal("expected error for missing entry, got nil")
	}
}

func TestObjectivesAndTasks(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	seedEntry(t, s, "entry-1")

	obj := makeTestObjective("obj-1", "entry-1", "100% the map")
	obj.Description = "Every room, every secret."
	if err := s.CreateObjective(ctx, obj); err != nil {
		t.Fatalf("CreateObjective: %v", err)
	}
	if err := s.CreateTask(ctx, makeTestTask("task-1", "obj-1", "Find the hidden area")); err != nil {
		t.Fatalf("CreateTask: %v", err)
	}
	if err := s.CreateTask(ctx, makeTestTask("task-2", "obj-1", "Collect all charms")); err != nil {
		t.Fatalf("CreateTask: %v", err)
	}

	got, err := s.GetObjective(ctx, "obj-1")
	if err != nil {
		t.Fatalf("GetObjective: %v", err)
	}
	if got.Description != "Every room, every secret." {
		t.Errorf("Description: got %q", got.Description)
	}
	if got.IsComplete {
		t.Error("IsComplete: expected false")
	}

	got.IsComplete = true
	got.Touch()
	if err := s.UpdateObjective(ctx, got); err != nil {
		t.Fatalf("UpdateObjective: %v", err)
	}

	tasks, err := s.ListTasksForObjective(ctx, "obj-1")
	if err != nil {
		t.Fatalf("ListTasksForObjective: %v", err)
	}
	if len(tasks) != 2 {
		t.Fatalf("expected 2 tasks, got %d", len(tasks))
	}

	task := tasks[0]
	task.IsComplete = true
	task.Touch()
	if err := s.UpdateTask(ctx, task); err != nil {
		t.Fatalf("UpdateTask: %v", err)
	}
	updated, err := s.GetTask(ctx, task.ID)
	if err != nil {
		t.Fatalf("GetTask: %v", err)
	}
	if !updated.IsComplete {
		t.Error("IsComplete: expected true after update")
	}

	// Deleting the objective takes its tasks with it.
	if err := s.DeleteObjective(ctx, "obj-1"); err != nil {
		t.Fatalf("DeleteObjective: %v", err)
	}
	if _, err := s.GetTask(ctx, "task-1"); !errors.Is(err, store.ErrNotFound) {
		t.Fatalf("task-1: expected ErrNotFound, got %v", err)
	}
	if _, err := s.GetTask(ctx, "task-2"); !errors.Is(err, store.ErrNotFound) {
		t.Fatalf("task-2: expected ErrNotFound, got %v", err)
	}
}

func TestNotes(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	seedEntry(t, s, "entry-1")

	if err := s.CreateNote(ctx, makeTestNote("note-1", "entry-1", "Boss patterns")); err != nil {
		t.Fatalf("CreateNote: %v", err)
	}

	note, err := s.GetNote(ctx, "note-1")
	if err != nil {
		t.Fatalf("GetNote: %v", err)
	}
	note.Body = "Phase two starts at half health."
	note.Touch()
	if err := s.UpdateNote(ctx, note); err != nil {
		t.Fatalf("UpdateNote: %v", err)
	}

	notes, err := s.ListNotesForEntry(ctx, "entry-1")
	if err != nil {
		t.Fatalf("ListNotesForEntry: %v", err)
	}
	if len(notes) != 1 {
		t.Fatalf("expected 1 note, got %d", len(notes))
	}
	if notes[0].Body != "Phase two starts at half health." {
		t.Errorf("Body: got %q", notes[0].Body)
	}

	if err := s.DeleteNote(ctx, "note-1"); err != nil {
		t.Fatalf("DeleteNote: %v", err)
	}
	if _, err := s.GetNote(ctx, "note-1"); !errors.Is(err, store.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestCanvases(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	seedEntry(t, s, "entry-1")

	if err := s.CreateCanvas(ctx, makeTestCanvas("canvas-1", "entry-1", "Route planning")); err != nil {
		t.Fatalf("CreateCanvas: %v", err)
	}

	canvas, err := s.GetCanvas(ctx, "canvas-1")
	if err != nil {
		t.Fatalf("GetCanvas: %v", err)
	}
	canvas.Content = `{"nodes":[{"id":"n1"}]}`
	canvas.Touch()
	if err := s.UpdateCanvas(ctx, canvas); err != nil {
		t.Fatalf("UpdateCanvas: %v", err)
	}

	canvases, err := s.ListCanvasesForEntry(ctx, "entry-1")
	if err != nil {
		t.Fatalf("ListCanvasesForEntry: %v", err)
	}
	if len(canvases) != 1 {
		t.Fatalf("expected 1 canvas, got %d", len(canvases))
	}
	if canvases[0].Content != `{"nodes":[{"id":"n1"}]}` {
		t.Errorf("Content: got %q", canvases[0].Content)
	}

	if err := s.DeleteCanvas(ctx, "canvas-1"); err != nil {
		t.Fatalf("DeleteCanvas: %v", err)
	}
	if _, err := s.GetCanvas(ctx, "canvas-1"); !errors.Is(err, store.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}
