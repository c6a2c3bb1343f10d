package coach

import (
	"context"
	"fmt"
	"log/slog"
)

// bestLift is the strongest set shown on one exercise in a session.
type bestLift struct {
	e1rm   float64
	weight float64
	reps   int
}

// bestLifts reduces a logged session to the best estimated 1RM per exercise.
func bestLifts(session LoggedSession) map[int64]bestLift {
	best := make(map[int64]bestLift)
	for _, exercise := range session.Exercises {
		for _, set := range exercise.Sets {
			e1rm := EstimateE1RM(set.Weight, set.Reps)
			if e1rm <= 0 {
				continue
			}
			if current, ok := best[exercise.ExerciseID]; !ok || e1rm > current.e1rm {
				best[exercise.ExerciseID] = bestLift{e1rm: e1rm, weight: set.Weight, reps: set.Reps}
			}
		}
	}
	return best
}

// OnWorkoutLogged processes a logged training session: goal progress is
// recorded for exact exercise matches, and the accepted mission's next
// pending day is credited when any logged exercise is equivalent to a goal
// lift. Mission completion settles synchronously, so the result already
// carries the earned XP.
func (s *Service) OnWorkoutLogged(ctx context.Context, userID int64, session LoggedSession) (WorkoutLogResult, error) {
	now := s.now()
	var result WorkoutLogResult

	best := bestLifts(session)
	if len(best) == 0 {
		return result, nil
	}

	var workoutID *int64
	if session.ID != 0 {
		id := session.ID
		workoutID = &id
	}

	activeGoals, err := s.repo.goals.List(ctx, userID, GoalStatusActive)
	if err != nil {
		return result, fmt.Errorf("list active goals: %w", err)
	}
	for _, goal := range activeGoals {
		lift, ok := best[goal.ExerciseID]
		if !ok {
			continue
		}
		weight, reps := lift.weight, lift.reps
		updated, recorded, err := s.repo.goals.RecordProgress(
			ctx, userID, goal.ID, lift.e1rm, &weight, &reps, workoutID, now)
		if err != nil {
			return result, fmt.Errorf("record goal progress: %w", err)
		}
		if recorded {
			result.GoalsProgressed = append(result.GoalsProgressed, updated)
			if updated.Status == GoalStatusCompleted {
				s.logger.LogAttrs(ctx, slog.LevelInfo, "goal achieved",
					slog.Int64("goal_id", updated.ID), slog.Float64("e1rm", lift.e1rm))
			}
		}
	}

	mission, found, err := s.repo.missions.FindAcceptedForUser(ctx, userID, now)
	if err != nil {
		return result, fmt.Errorf("find accepted mission: %w", err)
	}
	if !found {
		return result, nil
	}

	creditedGoalIDs, err := s.matchMissionGoals(ctx, userID, mission, best)
	if err != nil {
		return result, err
	}
	// A session that trains none of the mission's goals leaves the plan
	// untouched.
	if len(creditedGoalIDs) == 0 {
		return result, nil
	}

	workout, credited, completedMission, err := s.repo.missions.CreditWorkout(
		ctx, mission.ID, session.ID, creditedGoalIDs, now)
	if err != nil {
		return result, fmt.Errorf("credit mission workout: %w", err)
	}
	if credited {
		result.MissionWorkoutsCompleted = append(result.MissionWorkoutsCompleted, workout)
	}
	if completedMission != nil {
		result.MissionsCompleted = append(result.MissionsCompleted, *completedMission)
		result.XPEarned += completedMission.XPEarned
		s.logger.LogAttrs(ctx, slog.LevelInfo, "mission completed",
			slog.Int64("mission_id", completedMission.ID),
			slog.Int("xp_earned", completedMission.XPEarned))
	}
	return result, nil
}

// matchMissionGoals returns the ids of mission goals trained by the session.
// A goal counts when the session contains its lift or a catalog exercise in
// the same equivalence class.
func (s *Service) matchMissionGoals(
	ctx context.Context,
	userID int64,
	mission Mission,
	best map[int64]bestLift,
) ([]int64, error) {
	var credited []int64
	for _, mg := range mission.Goals {
		goal, err := s.repo.goals.Get(ctx, userID, mg.GoalID)
		if err != nil {
			return nil, fmt.Errorf("resolve mission goal: %w", err)
		}
		equivalentIDs, err := equivalentExerciseIDs(ctx, s.repo.catalog, goal.ExerciseID)
		if err != nil {
			return nil, fmt.Errorf("resolve equivalent exercises: %w", err)
		}
		for _, exerciseID := range equivalentIDs {
			if _, ok := best[exerciseID]; ok {
				credited = append(credited, mg.GoalID)
				break
			}
		}
	}
	return credited, nil
}
