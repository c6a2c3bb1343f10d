package coach

import (
	"log/slog"
	"time"

	"github.com/nchua/liftquest/internal/sqlite"
)

const timestampFormat = "2006-01-02T15:04:05.000Z"
const dateFormat = time.DateOnly

// baseRepository carries the shared database handles and logger for the
// SQLite repositories.
type baseRepository struct {
	db     *sqlite.Database
	logger *slog.Logger
}

func newBaseRepository(db *sqlite.Database, logger *slog.Logger) baseRepository {
	return baseRepository{db: db, logger: logger}
}

func formatDate(date time.Time) string {
	return date.Format(dateFormat)
}

func parseDate(s string) (time.Time, error) {
	return time.Parse(dateFormat, s)
}

func formatTimestamp(t time.Time) string {
	return t.UTC().Format(timestampFormat)
}

func parseTimestamp(s string) (time.Time, error) {
	return time.Parse(timestampFormat, s)
}

// repository aggregates the per-entity repositories.
type repository struct {
	users    *sqliteUserRepository
	catalog  *sqliteCatalogRepository
	goals    *sqliteGoalRepository
	missions *sqliteMissionRepository
}

// repositoryFactory creates SQLite-backed repositories sharing one database.
type repositoryFactory struct {
	db     *sqlite.Database
	logger *slog.Logger
}

func newRepositoryFactory(db *sqlite.Database, logger *slog.Logger) repositoryFactory {
	return repositoryFactory{db: db, logger: logger}
}

func (f repositoryFactory) newRepository() *repository {
	catalog := newSQLiteCatalogRepository(f.db, f.logger)
	return &repository{
		users:    newSQLiteUserRepository(f.db, f.logger),
		catalog:  catalog,
		goals:    newSQLiteGoalRepository(f.db, f.logger),
		missions: newSQLiteMissionRepository(f.db, f.logger),
	}
}
