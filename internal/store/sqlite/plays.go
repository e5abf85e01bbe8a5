package sqlite

import (
	"context"
	"database/sql"
	"strings"

	"github.com/playdeckapp/playdeck-server/internal/domain"
	"github.com/playdeckapp/playdeck-server/internal/store"
)

const playColumns = `id, library_entry_id, played_at, minutes, note, created_at`

func scanPlaySession(scanner interface{ Scan(dest ...any) error }) (*domain.PlaySession, error) {
	var p domain.PlaySession

	var (
		playedAt  string
		createdAt string
	)

	err := scanner.Scan(
		&p.ID,
		&p.LibraryEntryID,
		&playedAt,
		&p.Minutes,
		&p.Note,
		&createdAt,
	)
	if err != nil {
		return nil, err
	}

	p.PlayedAt, err = parseTime(playedAt)
	if err != nil {
		return nil, err
	}
	p.CreatedAt, err = parseTime(createdAt)
	if err != nil {
		return nil, err
	}

	return &p, nil
}

// CreatePlaySession records a play session against a library entry.
func (s *Store) CreatePlaySession(ctx context.Context, play *domain.PlaySession) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO play_sessions (
			id, library_entry_id, played_at, minutes, note, created_at
		) VALUES (?, ?, ?, ?, ?, ?)`,
		play.ID,
		play.LibraryEntryID,
		formatTime(play.PlayedAt),
		play.Minutes,
		play.Note,
		formatTime(play.CreatedAt),
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

// GetPlaySession retrieves a play session by ID.
func (s *Store) GetPlaySession(ctx context.Context, id string) (*domain.PlaySession, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT `+playColumns+` FROM play_sessions WHERE id = ?`, id)

	p, err := scanPlaySession(row)
	if err == sql.ErrNoRows {
		return nil, store.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return p, nil
}

// DeletePlaySession removes a play session by ID.
func (s *Store) DeletePlaySession(ctx context.Context, id string) error {
	result, err := s.db.ExecContext(ctx,
		`DELETE FROM play_sessions WHERE id = ?`, id)
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

// ListPlaySessionsForEntry returns a library entry's play sessions,
// most recent first.
func (s *Store) ListPlaySessionsForEntry(ctx context.Context, entryID string) ([]*domain.PlaySession, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT `+playColumns+` FROM play_sessions
		 WHERE library_entry_id = ? ORDER BY played_at DESC`, entryID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var plays []*domain.PlaySession
	for rows.Next() {
		p, err := scanPlaySession(rows)
		if err != nil {
			return nil, err
		}
		plays = append(plays, p)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return plays, nil
}
