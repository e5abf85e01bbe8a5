package sqlite

import (
	"context"
	"database/sql"
	"strings"

	"github.com/playdeckapp/playdeck-server/internal/domain"
	"github.com/playdeckapp/playdeck-server/internal/store"
)

const taskColumns = `id, created_at, updated_at, deleted_at, objective_id, title, is_complete`

func scanTask(scanner interface{ Scan(dest ...any) error }) (*domain.Task, error) {
	var t domain.Task

	var (
		createdAt  string
		updatedAt  string
		deletedAt  sql.NullString
		isComplete int
	)

	err := scanner.Scan(
		&t.ID,
		&createdAt,
		&updatedAt,
		&deletedAt,
		&t.ObjectiveID,
		&t.Title,
		&isComplete,
	)
	if err != nil {
		return nil, err
	}

	t.CreatedAt, err = parseTime(createdAt)
	if err != nil {
		return nil, err
	}
	t.UpdatedAt, err = parseTime(updatedAt)
	if err != nil {
		return nil, err
	}
	t.DeletedAt, err = parseNullableTime(deletedAt)
	if err != nil {
		return nil, err
	}

	t.IsComplete = isComplete != 0

	return &t, nil
}

// CreateTask inserts a new task under an objective.
func (s *Store) CreateTask(ctx context.Context, task *domain.Task) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO tasks (
			id, created_at, updated_at, deleted_at, objective_id, title, is_complete
		) VALUES (?, ?, ?, ?, ?, ?, ?)`,
		task.ID,
		formatTime(task.CreatedAt),
		formatTime(task.UpdatedAt),
		nullTimeString(task.DeletedAt),
		task.ObjectiveID,
		task.Title,
		boolToInt(task.IsComplete),
	)
	if err != nil {
		if strings.Contains(err.Error(), "UNIQUE constraint failed") {
			return store.ErrAlreadyExists
		}
		if strings.Contains(err.Error(), "FOREIGN KEY constraint failed") {
			return store.ErrInvalidInput.WithMessage("objective does not exist")
		}
		return err
	}
	return nil
}

// GetTask retrieves a task by ID.
func (s *Store) GetTask(ctx context.Context, id string) (*domain.Task, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT `+taskColumns+` FROM tasks WHERE id = ? AND deleted_at IS NULL`, id)

	t, err := scanTask(row)
	if err == sql.ErrNoRows {
		return nil, store.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return t, nil
}

// UpdateTask performs a full row update on an existing task.
func (s *Store) UpdateTask(ctx context.Context, task *domain.Task) error {
	result, err := s.db.ExecContext(ctx, `
		UPDATE tasks SET
			updated_at = ?,
			title = ?,
			is_complete = ?
		WHERE id = ? AND deleted_at IS NULL`,
		formatTime(task.UpdatedAt),
		task.Title,
		boolToInt(task.IsComplete),
		task.ID,
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

// DeleteTask removes a task by ID.
func (s *Store) DeleteTask(ctx context.Context, id string) error {
	result, err := s.db.ExecContext(ctx, `DELETE FROM tasks WHERE id = ?`, id)
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

// ListTasksForObjective returns an objective's tasks, oldest first.
func (s *Store) ListTasksForObjective(ctx context.Context, objectiveID string) ([]*domain.Task, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT `+taskColumns+` FROM tasks
		 WHERE objective_id = ? AND deleted_at IS NULL ORDER BY created_at ASC`, objectiveID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var tasks []*domain.Task
	for rows.Next() {
		t, err := scanTask(rows)
		if err != nil {
			return nil, err
		}
		tasks = append(tasks, t)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return tasks, nil
}
