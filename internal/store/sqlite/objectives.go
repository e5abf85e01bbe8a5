package sqlite

import (
	"context"
	"database/sql"
	"strings"

	"github.com/playdeckapp/playdeck-server/internal/domain"
	"github.com/playdeckapp/playdeck-server/internal/store"
)

const objectiveColumns = `id, created_at, updated_at, deleted_at, library_entry_id,
	title, description, is_complete`

func scanObjective(scanner interface{ Scan(dest ...any) error }) (*domain.Objective, error) {
	var o domain.Objective

	var (
		createdAt  string
		updatedAt  string
		deletedAt  sql.NullString
		isComplete int
	)

	err := scanner.Scan(
		&o.ID,
		&createdAt,
		&updatedAt,
		&deletedAt,
		&o.LibraryEntryID,
		&o.Title,
		&o.Description,
		&isComplete,
	)
	if err != nil {
		return nil, err
	}

	o.CreatedAt, err = parseTime(createdAt)
	if err != nil {
		return nil, err
	}
	o.UpdatedAt, err = parseTime(updatedAt)
	if err != nil {
		return nil, err
	}
	o.DeletedAt, err = parseNullableTime(deletedAt)
	if err != nil {
		return nil, err
	}

	o.IsComplete = isComplete != 0

	return &o, nil
}

// CreateObjective inserts a new objective for a library entry.
func (s *Store) CreateObjective(ctx context.Context, objective *domain.Objective) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO objectives (
			id, created_at, updated_at, deleted_at, library_entry_id,
			title, description, is_complete
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		objective.ID,
		formatTime(objective.CreatedAt),
		formatTime(objective.UpdatedAt),
		nullTimeString(objective.DeletedAt),
		objective.LibraryEntryID,
		objective.Title,
		objective.Description,
		boolToInt(objective.IsComplete),
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

// GetObjective retrieves an objective by ID.
func (s *Store) GetObjective(ctx context.Context, id string) (*domain.Objective, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT `+objectiveColumns+` FROM objectives WHERE id = ? AND deleted_at IS NULL`, id)

	o, err := scanObjective(row)
	if err == sql.ErrNoRows {
		return nil, store.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return o, nil
}

// UpdateObjective performs a full row update on an existing objective.
func (s *Store) UpdateObjective(ctx context.Context, objective *domain.Objective) error {
	result, err := s.db.ExecContext(ctx, `
		UPDATE objectives SET
			updated_at = ?,
			title = ?,
			description = ?,
			is_complete = ?
		WHERE id = ? AND deleted_at IS NULL`,
		formatTime(objective.UpdatedAt),
		objective.Title,
		objective.Description,
		boolToInt(objective.IsComplete),
		objective.ID,
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

// DeleteObjective removes an objective and its tasks.
func (s *Store) DeleteObjective(ctx context.Context, id string) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx,
		`DELETE FROM tasks WHERE objective_id = ?`, id); err != nil {
		return err
	}

	result, err := tx.ExecContext(ctx, `DELETE FROM objectives WHERE id = ?`, id)
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

// ListObjectivesForEntry returns a library entry's objectives, oldest first.
func (s *Store) ListObjectivesForEntry(ctx context.Context, entryID string) ([]*domain.Objective, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT `+objectiveColumns+` FROM objectives
		 WHERE library_entry_id = ? AND deleted_at IS NULL ORDER BY created_at ASC`, entryID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var objectives []*domain.Objective
	for rows.Next() {
		o, err := scanObjective(rows)
		if err != nil {
			return nil, err
		}
		objectives = append(objectives, o)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return objectives, nil
}
