package coach

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/nchua/liftquest/internal/sqlite"
)

// sqliteUserRepository handles database operations for users.
type sqliteUserRepository struct {
	baseRepository
}

func newSQLiteUserRepository(db *sqlite.Database, logger *slog.Logger) *sqliteUserRepository {
	return &sqliteUserRepository{baseRepository: newBaseRepository(db, logger)}
}

// Ensure creates the user if it does not exist and returns its id.
func (r *sqliteUserRepository) Ensure(ctx context.Context, displayName string) (int64, error) {
	_, err := r.db.ReadWrite.ExecContext(ctx, `
		INSERT INTO users (display_name) VALUES (?)
		ON CONFLICT (display_name) DO NOTHING`, displayName)
	if err != nil {
		return 0, fmt.Errorf("insert user: %w", err)
	}

	var id int64
	err = r.db.ReadWrite.QueryRowContext(ctx, `
		SELECT id FROM users WHERE display_name = ?`, displayName).Scan(&id)
	if err != nil {
		return 0, fmt.Errorf("query user id: %w", err)
	}
	return id, nil
}
