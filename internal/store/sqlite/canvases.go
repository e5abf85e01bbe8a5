package sqlite

import (
	"context"
	"database/sql"
	"strings"

	"github.com/playdeckapp/playdeck-server/internal/domain"
	"github.com/playdeckapp/playdeck-server/internal/store"
)

const canvasColumns = `id, created_at, updated_at, deleted_at, library_entry_id, name, content`

func scanCanvas(scanner interface{ Scan(dest ...any) error }) (*domain.Canvas, error) {
	var c domain.Canvas

	var (
		createdAt string
		updatedAt string
		deletedAt sql.NullString
	)

	err := scanner.Scan(
		&c.ID,
		&createdAt,
		&updatedAt,
		&deletedAt,
		&c.LibraryEntryID,
		&c.Name,
		&c.Content,
	)
	if err != nil {
		return nil, err
	}

	c.CreatedAt, err = parseTime(createdAt)
	if err != nil {
		return nil, err
	}
	c.UpdatedAt, err = parseTime(updatedAt)
	if err != nil {
		return nil, err
	}
	c.DeletedAt, err = parseNullableTime(deletedAt)
	if err != nil {
		return nil, err
	}

	return &c, nil
}

// CreateCanvas inserts a new canvas for a library entry.
func (s *Store) CreateCanvas(ctx context.Context, canvas *domain.Canvas) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO canvases (
			id, created_at, updated_at, deleted_at, library_entry_id, name, content
		) VALUES (?, ?, ?, ?, ?, ?, ?)`,
		canvas.ID,
		formatTime(canvas.CreatedAt),
		formatTime(canvas.UpdatedAt),
		nullTimeString(canvas.DeletedAt),
		canvas.LibraryEntryID,
		canvas.Name,
		canvas.Content,
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

// GetCanvas retrieves a canvas by ID.
func (s *Store) GetCanvas(ctx context.Context, id string) (*domain.Canvas, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT `+canvasColumns+` FROM canvases WHERE id = ? AND deleted_at IS NULL`, id)

	c, err := scanCanvas(row)
	if err == sql.ErrNoRows {
		return nil, store.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return c, nil
}

// UpdateCanvas performs a full row update on an existing canvas.
func (s *Store) UpdateCanvas(ctx context.Context, canvas *domain.Canvas) error {
	result, err := s.db.ExecContext(ctx, `
		UPDATE canvases SET
			updated_at = ?,
			name = ?,
			content = ?
		WHERE id = ? AND deleted_at IS NULL`,
		formatTime(canvas.UpdatedAt),
		canvas.Name,
		canvas.Content,
		canvas.ID,
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

// DeleteCanvas removes a canvas by ID.
func (s *Store) DeleteCanvas(ctx context.Context, id string) error {
	result, err := s.db.ExecContext(ctx, `DELETE FROM canvases WHERE id = ?`, id)
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

// ListCanvasesForEntry returns a library entry's canvases, most recently updated first.
func (s *Store) ListCanvasesForEntry(ctx context.Context, entryID string) ([]*domain.Canvas, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT `+canvasColumns+` FROM canvases
		 WHERE library_entry_id = ? AND deleted_at IS NULL ORDER BY updated_at DESC`, entryID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var canvases []*domain.Canvas
	for rows.Next() {
		c, err := scanCanvas(rows)
		if err != nil {
			return nil, err
		}
		canvases = append(canvases, c)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return canvases, nil
}
