package coach

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"
)

// GoalDraft is the input for creating a goal.
type GoalDraft struct {
	ExerciseName string
	TargetWeight float64
	TargetReps   int
	WeightUnit   WeightUnit
	Deadline     time.Time
	Notes        string
}

func (d GoalDraft) validate(now time.Time) error {
	if strings.TrimSpace(d.ExerciseName) == "" {
		return fmt.Errorf("%w: exercise name cannot be empty", ErrInvalidInput)
	}
	if d.TargetWeight <= 0 {
		return fmt.Errorf("%w: target weight must be positive", ErrInvalidInput)
	}
	if d.TargetReps < 1 {
		return fmt.Errorf("%w: target reps must be at least 1", ErrInvalidInput)
	}
	if d.WeightUnit != UnitPounds && d.WeightUnit != UnitKilograms {
		return fmt.Errorf("%w: unknown weight unit %q", ErrInvalidInput, d.WeightUnit)
	}
	if !d.Deadline.After(now) {
		return fmt.Errorf("%w: deadline must be in the future", ErrInvalidInput)
	}
	return nil
}

// CreateGoal creates an active goal for the user. The exercise is created in
// the catalog if it is not known yet, and the starting estimated 1RM is
// seeded from the user's best showing on any equivalent exercise.
func (s *Service) CreateGoal(ctx context.Context, userID int64, draft GoalDraft) (Goal, error) {
	now := s.now()
	if err := draft.validate(now); err != nil {
		return Goal{}, err
	}

	exercise, err := s.repo.catalog.EnsureByName(ctx, draft.ExerciseName)
	if err != nil {
		return Goal{}, fmt.Errorf("resolve exercise: %w", err)
	}

	equivalentIDs, err := equivalentExerciseIDs(ctx, s.repo.catalog, exercise.ID)
	if err != nil {
		return Goal{}, fmt.Errorf("resolve equivalent exercises: %w", err)
	}
	best, err := s.repo.goals.BestE1RMForExercises(ctx, userID, equivalentIDs)
	if err != nil {
		return Goal{}, fmt.Errorf("seed starting estimated 1RM: %w", err)
	}

	goal := Goal{
		UserID:       userID,
		ExerciseID:   exercise.ID,
		TargetWeight: draft.TargetWeight,
		TargetReps:   draft.TargetReps,
		WeightUnit:   draft.WeightUnit,
		Deadline:     draft.Deadline,
		StartingE1RM: best,
		CurrentE1RM:  best,
		Notes:        draft.Notes,
		CreatedAt:    now.UTC(),
	}
	goal, err = s.repo.goals.Insert(ctx, goal)
	if err != nil {
		return Goal{}, err
	}

	s.logger.LogAttrs(ctx, slog.LevelInfo, "goal created",
		slog.Int64("goal_id", goal.ID), slog.Int64("exercise_id", goal.ExerciseID))
	return goal, nil
}

// ListGoals retrieves the user's goals, optionally filtered by status.
func (s *Service) ListGoals(ctx context.Context, userID int64, statuses ...GoalStatus) ([]Goal, error) {
	goals, err := s.repo.goals.List(ctx, userID, statuses...)
	if err != nil {
		return nil, fmt.Errorf("list goals: %w", err)
	}
	return goals, nil
}

// GetGoal retrieves one goal owned by the user.
func (s *Service) GetGoal(ctx context.Context, userID, goalID int64) (Goal, error) {
	return s.repo.goals.Get(ctx, userID, goalID)
}

// GoalUpdate carries the changeable fields of an active goal. Nil fields are
// left untouched.
type GoalUpdate struct {
	TargetWeight *float64
	TargetReps   *int
	Deadline     *time.Time
	Notes        *string
}

// UpdateGoal adjusts an active goal's target, deadline or notes.
func (s *Service) UpdateGoal(ctx context.Context, userID, goalID int64, update GoalUpdate) (Goal, error) {
	now := s.now()
	return s.repo.goals.Update(ctx, userID, goalID, func(goal *Goal) error {
		if goal.Status != GoalStatusActive {
			return ErrInvalidTransition
		}
		if update.TargetWeight != nil {
			if *update.TargetWeight <= 0 {
				return fmt.Errorf("%w: target weight must be positive", ErrInvalidInput)
			}
			goal.TargetWeight = *update.TargetWeight
		}
		if update.TargetReps != nil {
			if *update.TargetReps < 1 {
				return fmt.Errorf("%w: target reps must be at least 1", ErrInvalidInput)
			}
			goal.TargetReps = *update.TargetReps
		}
		if update.Deadline != nil {
			if !update.Deadline.After(now) {
				return fmt.Errorf("%w: deadline must be in the future", ErrInvalidInput)
			}
			goal.Deadline = *update.Deadline
		}
		if update.Notes != nil {
			goal.Notes = *update.Notes
		}
		// A raised target may already be met by the current best.
		if goal.CurrentE1RM != nil && *goal.CurrentE1RM >= targetE1RM(*goal) {
			goal.Status = GoalStatusCompleted
			achievedAt := now.UTC()
			goal.AchievedAt = &achievedAt
		}
		return nil
	})
}

// AbandonGoal marks an active goal abandoned.
func (s *Service) AbandonGoal(ctx context.Context, userID, goalID int64) (Goal, error) {
	now := s.now()
	return s.repo.goals.Update(ctx, userID, goalID, func(goal *Goal) error {
		if goal.Status != GoalStatusActive {
			return ErrInvalidTransition
		}
		goal.Status = GoalStatusAbandoned
		abandonedAt := now.UTC()
		goal.AbandonedAt = &abandonedAt
		return nil
	})
}
