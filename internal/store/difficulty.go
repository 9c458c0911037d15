package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
)

// difficultyRepo implements DifficultyRepo on the SQLite store.
type difficultyRepo struct {
	db *sql.DB
}

func (r *difficultyRepo) Level(ctx context.Context, module string) (int, bool, error) {
	var level int
	err := r.db.QueryRowContext(ctx,
		`SELECT level FROM difficulty_levels WHERE module = ?`, module).Scan(&level)
	if errors.Is(err, sql.ErrNoRows) {
		return 0, false, nil
	}
	if err != nil {
		return 0, false, fmt.Errorf("query level: %w", err)
	}
	return level, true, nil
}

func (r *difficultyRepo) SaveLevel(ctx context.Context, module string, level int) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO difficulty_levels (module, level) VALUES (?, ?)
		 ON CONFLICT (module) DO UPDATE SET level = excluded.level`,
		module, level)
	if err != nil {
		return fmt.Errorf("save level: %w", err)
	}
	return nil
}
