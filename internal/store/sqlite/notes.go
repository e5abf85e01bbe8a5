package sqlite

import (
	"context"
	"database/sql"
	"strings"

	"github.com/playdeckapp/playdeck-server/internal/domain"
	"github.com/playdeckapp/playdeck-server/internal/store"
)

const noteColumns = `id, created_at, updated_at, deleted_at, library_entry_id, title, body`

func scanNote(scanner interface{ Scan(dest ...any) error }) (*domain.Note, error) {
	var n domain.Note

	var (
		createdAt string
		updatedAt string
		deletedAt sql.NullString
	)

	err := scanner.Scan(
		&n.ID,
		&createdAt,
		&updatedAt,
		&deletedAt,
		&n.LibraryEntryID,
		&n.Title,
		&n.Body,
	)
	if err != nil {
		return nil, err
	}

	n.CreatedAt, err = parseTime(createdAt)
	if err != nil {
		return nil, err
	}
	n.UpdatedAt, err = parseTime(updatedAt)
	if err != nil {
		return nil, err
	}
	n.DeletedAt, err = parseNullableTime(deletedAt)
	if err != nil {
		return nil, err
	}

	return &n, nil
}

// CreateNote inserts a new note for a library entry.
func (s *Store) CreateNote(ctx context.Context, note *domain.Note) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO notes (
			id, created_at, updated_at, deleted_at, library_entry_id, title, body
		) VALUES (?, ?, ?, ?, ?, ?, ?)`,
		note.ID,
		formatTime(note.CreatedAt),
		formatTime(note.UpdatedAt),
		nullTimeString(note.DeletedAt),
		note.LibraryEntryID,
		note.Title,
		note.Body,
	)
	if err != nil {
		if strings.Contains(err.Error(), "UNIQUE constraint failed") {
			return store.ErrAlreadyExists
		}
		if strings.Contains(err.Error(), "FOREIGN KEY constraint failed") {
			return store.ErrInvalidInput.WithMessage("library entry does not exist")
		}
		return err
	}
	return nil
}

// GetNote retrieves a note by ID.
func (s *Store) GetNote(ctx context.Context, id string) (*domain.Note, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT `+noteColumns+` FROM notes WHERE id = ? AND deleted_at IS NULL`, id)

	n, err := scanNote(row)
	if err == sql.ErrNoRows {
		return nil, store.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return n, nil
}

// UpdateNote performs a full row update on an existing note.
func (s *Store) UpdateNote(ctx context.Context, note *domain.Note) error {
	result, err := s.db.ExecContext(ctx, `
		UPDATE notes SET
			updated_at = ?,
			title = ?,
			body = ?
		WHERE id = ? AND deleted_at IS NULL`,
		formatTime(note.UpdatedAt),
		note.Title,
		note.Body,
		note.ID,
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

// DeleteNote removes a note by ID.
func (s *Store) DeleteNote(ctx context.Context, id string) error {
	result, err := s.db.ExecContext(ctx, `DELETE FROM notes WHERE id = ?`, id)
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

// ListNotesForEntry returns a library entry's notes, most recently updated first.
func (s *Store) ListNotesForEntry(ctx context.Context, entryID string) ([]*domain.Note, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT `+noteColumns+` FROM notes
		 WHERE library_entry_id = ? AND deleted_at IS NULL ORDER BY updated_at DESC`, entryID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var notes []*domain.Note
	for rows.Next() {
		n, err := scanNote(rows)
		if err != nil {
			return nil, err
		}
		notes = append(notes, n)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return notes, nil
}
