package coach

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/nchua/liftquest/internal/sqlite"
)

// sqliteCatalogRepository implements Catalog against the exercises table.
type sqliteCatalogRepository struct {
	baseRepository
}

func newSQLiteCatalogRepository(db *sqlite.Database, logger *slog.Logger) *sqliteCatalogRepository {
	return &sqliteCatalogRepository{baseRepository: newBaseRepository(db, logger)}
}

// ResolveByID returns the exercise with the given id.
func (r *sqliteCatalogRepository) ResolveByID(ctx context.Context, id int64) (CatalogExercise, error) {
	var exercise CatalogExercise
	err := r.db.ReadOnly.QueryRowContext(ctx, `
		SELECT id, name FROM exercises WHERE id = ?`, id).Scan(&exercise.ID, &exercise.Name)
	if errors.Is(err, sql.ErrNoRows) {
		return CatalogExercise{}, ErrNotFound
	}
	if err != nil {
		return CatalogExercise{}, fmt.Errorf("query exercise: %w", err)
	}
	return exercise, nil
}

// FindByName looks up an exercise by name. The exercises table collates
// NOCASE so the match is case-insensitive.
func (r *sqliteCatalogRepository) FindByName(ctx context.Context, name string) (CatalogExercise, bool, error) {
	var exercise CatalogExercise
	err := r.db.ReadOnly.QueryRowContext(ctx, `
		SELECT id, name FROM exercises WHERE name = ?`, strings.TrimSpace(name)).
		Scan(&exercise.ID, &exercise.Name)
	if errors.Is(err, sql.ErrNoRows) {
		return CatalogExercise{}, false, nil
	}
	if err != nil {
		return CatalogExercise{}, false, fmt.Errorf("query exercise by name: %w", err)
	}
	return exercise, true, nil
}

// FindByNames returns every exercise matching one of the given names.
func (r *sqliteCatalogRepository) FindByNames(ctx context.Context, names []string) (_ []CatalogExercise, err error) {
	if len(names) == 0 {
		return nil, nil
	}

	placeholders := strings.Repeat("?,", len(names))
	placeholders = placeholders[:len(placeholders)-1]
	args := make([]any, len(names))
	for i, name := range names {
		args[i] = strings.TrimSpace(name)
	}

	rows, err := r.db.ReadOnly.QueryContext(ctx,
		`SELECT id, name FROM exercises WHERE name IN (`+placeholders+`)`, args...)
	if err != nil {
		return nil, fmt.Errorf("query exercises by names: %w", err)
	}
	defer func() {
		if closeErr := rows.Close(); closeErr != nil {
			err = errors.Join(err, fmt.Errorf("close rows: %w", closeErr))
		}
	}()

	var exercises []CatalogExercise
	for rows.Next() {
		var exercise CatalogExercise
		if err = rows.Scan(&exercise.ID, &exercise.Name); err != nil {
			return nil, fmt.Errorf("scan exercise row: %w", err)
		}
		exercises = append(exercises, exercise)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate exercise rows: %w", err)
	}
	return exercises, nil
}

// EnsureByName creates the exercise if it does not exist and returns it.
func (r *sqliteCatalogRepository) EnsureByName(ctx context.Context, name string) (CatalogExercise, error) {
	trimmed := strings.TrimSpace(name)
	if trimmed == "" {
		return CatalogExercise{}, errors.New("exercise name cannot be empty")
	}

	_, err := r.db.ReadWrite.ExecContext(ctx, `
		INSERT INTO exercises (name) VALUES (?)
		ON CONFLICT (name) DO NOTHING`, trimmed)
	if err != nil {
		return CatalogExercise{}, fmt.Errorf("insert exercise: %w", err)
	}

	var exercise CatalogExercise
	err = r.db.ReadWrite.QueryRowContext(ctx, `
		SELECT id, name FROM exercises WHERE name = ?`, trimmed).
		Scan(&exercise.ID, &exercise.Name)
	if err != nil {
		return CatalogExercise{}, fmt.Errorf("query exercise after insert: %w", err)
	}
	return exercise, nil
}
