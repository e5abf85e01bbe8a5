package sqlite

import (
	"context"
	"database/sql"
	"strings"

	"github.com/playdeckapp/playdeck-server/internal/domain"
	"github.com/playdeckapp/playdeck-server/internal/store"
)

// gameColumns is the ordered list of columns selected in game queries.
// Must match the scan order in scanGame.
const gameColumns = `id, created_at, updated_at, deleted_at, title, summary,
	developer, publisher, release_year, cover_blurhash, has_cover`

// scanGame scans a sql.Row (or sql.Rows via its Scan method) into a domain.Game.
func scanGame(scanner interface{ Scan(dest ...any) error }) (*domain.Game, error) {
	var g domain.Game

	var (
		createdAt string
		updatedAt string
		deletedAt sql.NullString
		hasCover  int
	)

	err := scanner.Scan(
		&g.ID,
		&createdAt,
		&updatedAt,
		&deletedAt,
		&g.Title,
		&g.Summary,
		&g.Developer,
		&g.Publisher,
		&g.ReleaseYear,
		&g.CoverBlurHash,
		&hasCover,
	)
	if err != nil {
		return nil, err
	}

	g.CreatedAt, err = parseTime(createdAt)
	if err != nil {
		return nil, err
	}
	g.UpdatedAt, err = parseTime(updatedAt)
	if err != nil {
		return nil, err
	}
	g.DeletedAt, err = parseNullableTime(deletedAt)
	if err != nil {
		return nil, err
	}

	g.HasCover = hasCover != 0

	return &g, nil
}

// CreateGame inserts a new game into the database.
// Returns store.ErrAlreadyExists if the game ID already exists.
func (s *Store) CreateGame(ctx context.Context, game *domain.Game) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO games (
			id, created_at, updated_at, deleted_at, title, summary,
			developer, publisher, release_year, cover_blurhash, has_cover
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		game.ID,
		formatTime(game.CreatedAt),
		formatTime(game.UpdatedAt),
		nullTimeString(game.DeletedAt),
		game.Title,
		game.Summary,
		game.Developer,
		game.Publisher,
		game.ReleaseYear,
		game.CoverBlurHash,
		boolToInt(game.HasCover),
	)
	if err != nil {
		if strings.Contains(err.Error(), "UNIQUE constraint failed") {
			return store.ErrAlreadyExists
		}
		return err
	}
	return nil
}

// GetGame retrieves a game by ID.
// Returns store.ErrNotFound if the game does not exist.
func (s *Store) GetGame(ctx context.Context, id string) (*domain.Game, error) {
	row := s.db.QueryRowContext(ctx,
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

// ListGames returns all games ordered by title.
func (s *Store) ListGames(ctx context.Context) ([]*domain.Game, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT `+gameColumns+` FROM games WHERE deleted_at IS NULL ORDER BY title COLLATE NOCASE ASC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var games []*domain.Game
	for rows.Next() {
		g, err := scanGame(rows)
		if err != nil {
			return nil, err
		}
		games = append(games, g)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return games, nil
}

// UpdateGame performs a full row update on an existing game.
// Returns store.ErrNotFound if the game does not exist.
func (s *Store) UpdateGame(ctx context.Context, game *domain.Game) error {
	result, err := s.db.ExecContext(ctx, `
		UPDATE games SET
			created_at = ?,
			updated_at = ?,
			title = ?,
			summary = ?,
			developer = ?,
			publisher = ?,
			release_year = ?,
			cover_blurhash = ?,
			has_cover = ?
		WHERE id = ? AND deleted_at IS NULL`,
		formatTime(game.CreatedAt),
		formatTime(game.UpdatedAt),
		game.Title,
		game.Summary,
		game.Developer,
		game.Publisher,
		game.ReleaseYear,
		game.CoverBlurHash,
		boolToInt(game.HasCover),
		game.ID,
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

// DeleteGame performs a hard delete of a game by ID.
// The catalog must actually forget removed games, so this is not a soft
// delete. Returns store.ErrInvalidInput if library entries still reference
// the game, store.ErrNotFound if it does not exist.
func (s *Store) DeleteGame(ctx context.Context, id string) error {
	result, err := s.db.ExecContext(ctx,
		`DELETE FROM games WHERE id = ?`, id)
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

// CountEntriesForGame returns how many library entries reference a game.
func (s *Store) CountEntriesForGame(ctx context.Context, gameID string) (int, error) {
	var count int
	err := s.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM library_entries WHERE game_id = ?`, gameID).Scan(&count)
	if err != nil {
		return 0, err
	}
	return count, nil
}
