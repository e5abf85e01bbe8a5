package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/playdeckapp/playdeck-server/internal/domain"
	"github.com/playdeckapp/playdeck-server/internal/store"
)

// entryColumns is the ordered list of columns selected in library entry
// queries. Must match the scan order in scanEntry.
const entryColumns = `id, created_at, updated_at, deleted_at, user_id, game_id,
	playtime_minutes, is_favorite, is_pinned`

// scanEntry scans a sql.Row (or sql.Rows via its Scan method) into a
// domain.LibraryEntry.
func scanEntry(scanner interface{ Scan(dest ...any) error }) (*domain.LibraryEntry, error) {
	var e domain.LibraryEntry

	var (
		createdAt  string
		updatedAt  string
		deletedAt  sql.NullString
		isFavorite int
		isPinned   int
	)

	err := scanner.Scan(
		&e.ID,
		&createdAt,
		&updatedAt,
		&deletedAt,
		&e.UserID,
		&e.GameID,
		&e.PlaytimeMinutes,
		&isFavorite,
		&isPinned,
	)
	if err != nil {
		return nil, err
	}

	e.CreatedAt, err = parseTime(createdAt)
	if err != nil {
		return nil, err
	}
	e.UpdatedAt, err = parseTime(updatedAt)
	if err != nil {
		return nil, err
	}
	e.DeletedAt, err = parseNullableTime(deletedAt)
	if err != nil {
		return nil, err
	}

	e.IsFavorite = isFavorite != 0
	e.IsPinned = isPinned != 0

	return &e, nil
}

// CreateEntry inserts a new library entry.
// Returns store.ErrAlreadyExists if the user already has an entry for the
// same game (one entry per user per game).
func (s *Store) CreateEntry(ctx context.Context, entry *domain.LibraryEntry) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO library_entries (
			id, created_at, updated_at, deleted_at, user_id, game_id,
			playtime_minutes, is_favorite, is_pinned
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		entry.ID,
		formatTime(entry.CreatedAt),
		formatTime(entry.UpdatedAt),
		nullTimeString(entry.DeletedAt),
		entry.UserID,
		entry.GameID,
		entry.PlaytimeMinutes,
		boolToInt(entry.IsFavorite),
		boolToInt(entry.IsPinned),
	)
	if err != nil {
		if strings.Contains(err.Error(), "UNIQUE constraint failed") {
			return store.ErrAlreadyExists
		}
		if strings.Contains(err.Error(), "FOREIGN KEY constraint failed") {
			return store.ErrInvalidInput.WithMessage("user or game does not exist")
		}
		return err
	}
	return nil
}

// GetEntry retrieves a library entry by ID.
// Returns store.ErrNotFound if the entry does not exist.
func (s *Store) GetEntry(ctx context.Context, id string) (*domain.LibraryEntry, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT `+entryColumns+` FROM library_entries WHERE id = ? AND deleted_at IS NULL`, id)

	e, err := scanEntry(row)
	if err == sql.ErrNoRows {
		return nil, store.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return e, nil
}

// GetEntryByUserAndGame retrieves the entry a user has for a given game.
// Returns store.ErrNotFound if the user has no entry for the game.
func (s *Store) GetEntryByUserAndGame(ctx context.Context, userID, gameID string) (*domain.LibraryEntry, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT `+entryColumns+` FROM library_entries
		 WHERE user_id = ? AND game_id = ? AND deleted_at IS NULL`, userID, gameID)

	e, err := scanEntry(row)
	if err == sql.ErrNoRows {
		return nil, store.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return e, nil
}

// ListEntriesForUser returns all library entries belonging to a user,
// ordered by the requested sort.
func (s *Store) ListEntriesForUser(ctx context.Context, userID string, sort store.EntrySort) ([]*domain.LibraryEntry, error) {
	var orderBy string
	switch sort {
	case store.EntrySortPlaytime:
		orderBy = "e.playtime_minutes DESC, g.title COLLATE NOCASE ASC"
	case store.EntrySortTitle, "":
		orderBy = "g.title COLLATE NOCASE ASC"
	default:
		return nil, store.ErrInvalidInput.WithMessage(fmt.Sprintf("unknown sort %q", sort))
	}

	// Qualified column names since the games join is only used for ordering.
	cols := "e.id, e.created_at, e.updated_at, e.deleted_at, e.user_id, e.game_id, e.playtime_minutes, e.is_favorite, e.is_pinned"

	rows, err := s.db.QueryContext(ctx,
		`SELECT `+cols+` FROM library_entries e
		 JOIN games g ON g.id = e.game_id
		 WHERE e.user_id = ? AND e.deleted_at IS NULL
		 ORDER BY `+orderBy, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var entries []*domain.LibraryEntry
	for rows.Next() {
		e, err := scanEntry(rows)
		if err != nil {
			return nil, err
		}
		entries = append(entries, e)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return entries, nil
}

// ListEntriesForGame returns all library entries referencing a game,
// across all users.
func (s *Store) ListEntriesForGame(ctx context.Context, gameID string) ([]*domain.LibraryEntry, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT `+entryColumns+` FROM library_entries
		 WHERE game_id = ? AND deleted_at IS NULL ORDER BY created_at ASC`, gameID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var entries []*domain.LibraryEntry
	for rows.Next() {
		e, err := scanEntry(rows)
		if err != nil {
			return nil, err
		}
		entries = append(entries, e)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return entries, nil
}

// UpdateEntry performs a full row update on an existing library entry.
// Returns store.ErrNotFound if the entry does not exist.
func (s *Store) UpdateEntry(ctx context.Context, entry *domain.LibraryEntry) error {
	result, err := s.db.ExecContext(ctx, `
		UPDATE library_entries SET
			created_at = ?,
			updated_at = ?,
			playtime_minutes = ?,
			is_favorite = ?,
			is_pinned = ?
		WHERE id = ? AND deleted_at IS NULL`,
		formatTime(entry.CreatedAt),
		formatTime(entry.UpdatedAt),
		entry.PlaytimeMinutes,
		boolToInt(entry.IsFavorite),
		boolToInt(entry.IsPinned),
		entry.ID,
	)
	if err != nil {
		return err
	}

	n, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return store.ErrNotFound
	}
	return nil
}

// DeleteEntry removes a library entry and everything hanging off it:
// play sessions, objectives (with their tasks), notes and canvases.
// Runs in a transaction so a partial delete never survives.
// Returns store.ErrNotFound if the entry does not exist.
func (s *Store) DeleteEntry(ctx context.Context, id string) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if err := deleteEntryDependents(ctx, tx, id); err != nil {
		return err
	}

	result, err := tx.ExecContext(ctx, `DELETE FROM library_entries WHERE id = ?`, id)
	if err != nil {
		return err
	}
	n, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return store.ErrNotFound
	}

	return tx.Commit()
}

// deleteEntryDependents removes all rows that reference a library entry.
// Tasks go first since they hang off objectives.
func deleteEntryDependents(ctx context.Context, tx *sql.Tx, entryID string) error {
	if _, err := tx.ExecContext(ctx,
		`DELETE FROM tasks WHERE objective_id IN (SELECT id FROM objectives WHERE library_entry_id = ?)`,
		entryID); err != nil {
		return err
	}
	for _, table := range []string{"play_sessions", "objectives", "notes", "canvases"} {
		if _, err := tx.ExecContext(ctx,
			`DELETE FROM `+table+` WHERE library_entry_id = ?`, entryID); err != nil {
			return err
		}
	}
	return nil
}
