package store

import (
	"context"

	"github.com/playdeckapp/playdeck-server/internal/domain"
)

// Store defines the interface for all persistence operations.
type Store interface {
	// Lifecycle
	Close() error

	// Users
	CreateUser(ctx context.Context, user *domain.User) error
	GetUser(ctx context.Context, id string) (*domain.User, error)
	GetUserByEmail(ctx context.Context, email string) (*domain.User, error)
	UpdateUser(ctx context.Context, user *domain.User) error
	ListUsers(ctx context.Context) ([]*domain.User, error)
	ListPendingUsers(ctx context.Context) ([]*domain.User, error)
	CountUsers(ctx context.Context) (int, error)

	// Auth Sessions
	CreateSession(ctx context.Context, session *domain.Session) error
	GetSession(ctx context.Context, id string) (*domain.Session, error)
	GetSessionByRefreshToken(ctx context.Context, tokenHash string) (*domain.Session, error)
	UpdateSession(ctx context.Context, session *domain.Session) error
	DeleteSession(ctx context.Context, id string) error
	ListUserSessions(ctx context.Context, userID string) ([]*domain.Session, error)
	DeleteAllUserSessions(ctx context.Context, userID string) error
	DeleteExpiredSessions(ctx context.Context) (int, error)

	// Games
	CreateGame(ctx context.Context, game *domain.Game) error
	GetGame(ctx context.Context, id string) (*domain.Game, error)
	UpdateGame(ctx context.Context, game *domain.Game) error
	DeleteGame(ctx context.Context, id string) error
	ListGames(ctx context.Context) ([]*domain.Game, error)
	CountEntriesForGame(ctx context.Context, gameID string) (int, error)

	// Library entries
	CreateEntry(ctx context.Context, entry *domain.LibraryEntry) error
	GetEntry(ctx context.Context, id string) (*domain.LibraryEntry, error)
	GetEntryByUserAndGame(ctx context.Context, userID, gameID string) (*domain.LibraryEntry, error)
	UpdateEntry(ctx context.Context, entry *domain.LibraryEntry) error
	DeleteEntry(ctx context.Context, id string) error
	ListEntriesForUser(ctx context.Context, userID string, sort EntrySort) ([]*domain.LibraryEntry, error)
	ListEntriesForGame(ctx context.Context, gameID string) ([]*domain.LibraryEntry, error)

	// Play sessions
	CreatePlaySession(ctx context.Context, play *domain.PlaySession) error
	GetPlaySession(ctx context.Context, id string) (*domain.PlaySession, error)
	DeletePlaySession(ctx context.Context, id string) error
	ListPlaySessionsForEntry(ctx context.Context, entryID string) ([]*domain.PlaySession, error)

	// Objectives and tasks
	CreateObjective(ctx context.Context, objective *domain.Objective) error
	GetObjective(ctx context.Context, id string) (*domain.Objective, error)
	UpdateObjective(ctx context.Context, objective *domain.Objective) error
	DeleteObjective(ctx context.Context, id string) error
	ListObjectivesForEntry(ctx context.Context, entryID string) ([]*domain.Objective, error)
	CreateTask(ctx context.Context, task *domain.Task) error
	GetTask(ctx context.Context, id string) (*domain.Task, error)
	UpdateTask(ctx context.Context, task *domain.Task) error
	DeleteTask(ctx context.Context, id string) error
	ListTasksForObjective(ctx context.Context, objectiveID string) ([]*domain.Task, error)

	// Notes
	CreateNote(ctx context.Context, note *domain.Note) error
	GetNote(ctx context.Context, id string) (*domain.Note, error)
	UpdateNote(ctx context.Context, note *domain.Note) error
	DeleteNote(ctx context.Context, id string) error
	ListNotesForEntry(ctx context.Context, entryID string) ([]*domain.Note, error)

	// Canvases
	CreateCanvas(ctx context.Context, canvas *domain.Canvas) error
	GetCanvas(ctx context.Context, id string) (*domain.Canvas, error)
	UpdateCanvas(ctx context.Context, canvas *domain.Canvas) error
	DeleteCanvas(ctx context.Context, id string) error
	ListCanvasesForEntry(ctx context.Context, entryID string) ([]*domain.Canvas, error)

	// Fusion
	RunGameFusion(ctx context.Context, fn func(tx FusionTx) error) error
}

// EntrySort selects the ordering for a user's library listing.
type EntrySort string

const (
	// EntrySortTitle orders entries by their game's title.
	EntrySortTitle EntrySort = "title"
	// EntrySortPlaytime orders entries by accumulated playtime, most played first.
	EntrySortPlaytime EntrySort = "playtime"
)

// FusionTx is the transaction handle the game-fusion algorithm runs against.
// Every operation executes inside one database transaction: if fn returns an
// error the whole transaction rolls back, otherwise it commits.
type FusionTx interface {
	// GetGame loads a game inside the transaction.
	GetGame(ctx context.Context, id string) (*domain.Game, error)
	// DeleteGame removes a game row. Fails if library entries still reference it.
	DeleteGame(ctx context.Context, id string) error

	// ListEntriesForGame loads every library entry referencing a game.
	ListEntriesForGame(ctx context.Context, gameID string) ([]*domain.LibraryEntry, error)
	// GetEntryByUserAndGame loads a user's entry for a game, or ErrNotFound.
	GetEntryByUserAndGame(ctx context.Context, userID, gameID string) (*domain.LibraryEntry, error)
	// RepointEntry moves an entry to a different game.
	RepointEntry(ctx context.Context, entryID, gameID string) error
	// UpdateEntry persists merged playtime and flags on an entry.
	UpdateEntry(ctx context.Context, entry *domain.LibraryEntry) error
	// DeleteEntry removes an entry row without touching its dependents.
	DeleteEntry(ctx context.Context, id string) error

	// RepointEntryDependents moves every dependent record (play sessions,
	// objectives, notes, canvases) from one entry to another. Tasks follow
	// their objective and are never rewritten.
	RepointEntryDependents(ctx context.Context, fromEntryID, toEntryID string) error
}
