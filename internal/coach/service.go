package coach

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/nchua/liftquest/internal/sqlite"
)

// Service handles the business logic for goal tracking and weekly mission
// coaching.
type Service struct {
	repo    *repository
	planner planner
	logger  *slog.Logger
	now     func() time.Time
}

// NewService creates a new coaching service.
func NewService(db *sqlite.Database, logger *slog.Logger) *Service {
	factory := newRepositoryFactory(db, logger)
	repo := factory.newRepository()
	return &Service{
		repo:    repo,
		planner: planner{catalog: repo.catalog},
		logger:  logger,
		now:     time.Now,
	}
}

// Catalog exposes the exercise catalog.
func (s *Service) Catalog() Catalog {
	return s.repo.catalog
}

// EnsureUser creates the user on first login and returns its id.
func (s *Service) EnsureUser(ctx context.Context, displayName string) (int64, error) {
	id, err := s.repo.users.Ensure(ctx, displayName)
	if err != nil {
		return 0, fmt.Errorf("ensure user: %w", err)
	}
	return id, nil
}

// plannedGoals resolves the active goals' catalog entries and muscle groups
// for plan building.
func (s *Service) plannedGoals(ctx context.Context, goals []Goal) ([]plannedGoal, error) {
	planned := make([]plannedGoal, 0, len(goals))
	for _, goal := range goals {
		exercise, err := s.repo.catalog.ResolveByID(ctx, goal.ExerciseID)
		if err != nil {
			return nil, fmt.Errorf("resolve goal exercise: %w", err)
		}
		planned = append(planned, plannedGoal{
			goal:         goal,
			exerciseName: exercise.Name,
			group:        classifyMuscleGroup(exercise.Name),
		})
	}
	return planned, nil
}
