package sqlite

import (
	"context"
	"database/sql"
	"strings"

	"github.com/playdeckapp/playdeck-server/internal/domain"
	"github.com/playdeckapp/playdeck-server/internal/store"
)

// RunGameFusion runs fn against a single transaction. If fn returns an
// error the transaction rolls back and nothing it did survives; otherwise
// it commits.
func (s *Store) RunGameFusion(ctx context.Context, fn func(tx store.FusionTx) error) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if err := fn(&fusionTx{tx: tx}); err != nil {
		return err
	}

	return tx.Commit()
}

// fusionTx implements store.FusionTx over a *sql.Tx.
type fusionTx struct {
	tx *sql.Tx
}

func (f *fusionTx) GetGame(ctx context.Context, id string) (*domain.Game, error) {
	row := f.tx.QueryRowContext(ctx,
		`SELECT `+gameColumns+` FROM games WHERE id = ? AND deleted_at IS NULL`, id)

	g, err := scanGame(row)
	if err == sql.ErrNoRows {
		return nil, store.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return g, nil
}

func (f *fusionTx) DeleteGame(ctx context.Context, id string) error {
	result, err := f.tx.ExecContext(ctx, `DELETE FROM games WHERE id = ?`, id)
	if err != nil {
		if strings.Contains(err.Error(), "FOREIGN KEY constraint failed") {
			return store.ErrInvalidInput.WithMessage("game is still referenced by library entries")
		}
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

func (f *fusionTx) ListEntriesForGame(ctx context.Context, gameID string) ([]*domain.LibraryEntry, error) {
	rows, err := f.tx.QueryContext(ctx,
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

func (f *fusionTx) GetEntryByUserAndGame(ctx context.Context, userID, gameID string) (*domain.LibraryEntry, error) {
	row := f.tx.QueryRowContext(ctx,
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

func (f *fusionTx) RepointEntry(ctx context.Context, entryID, gameID string) error {
	result, err := f.tx.ExecContext(ctx,
		`UPDATE library_entries SET game_id = ?, updated_at = ? WHERE id = ?`,
		gameID, formatTime(nowUTC()), entryID)
	if err != nil {
		if strings.Contains(err.Error(), "UNIQUE constraint failed") {
			return store.ErrAlreadyExists
		}
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

func (f *fusionTx) UpdateEntry(ctx context.Context, entry *domain.LibraryEntry) error {
	result, err := f.tx.ExecContext(ctx, `
		UPDATE library_entries SET
			updated_at = ?,
			playtime_minutes = ?,
			is_favorite = ?,
			is_pinned = ?
		WHERE id = ?`,
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

func (f *fusionTx) DeleteEntry(ctx context.Context, id string) error {
	result, err := f.tx.ExecContext(ctx,
		`DELETE FROM library_entries WHERE id = ?`, id)
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

// RepointEntryDependents rewrites every record hanging off fromEntryID to
// reference toEntryID instead. Tasks reference objectives, not entries, so
// they follow their objective untouched.
func (f *fusionTx) RepointEntryDependents(ctx context.Context, fromEntryID, toEntryID string) error {
	for _, table := range []string{"play_sessions", "objectives", "notes", "canvases"} {
		if _, err := f.tx.ExecContext(ctx,
			`UPDATE `+table+` SET library_entry_id = ? WHERE library_entry_id = ?`,
			toEntryID, fromEntryID); err != nil {
			return err
		}
	}
	return nil
}
