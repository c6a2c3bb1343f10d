package coach

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"
)

const (
	xpBaseReward    = 50
	xpPerGoalReward = 50
	missionDays     = 7
)

func xpRewardFor(goalCount int) int {
	return xpBaseReward + xpPerGoalReward*goalCount
}

// targetWeekStart returns the Monday whose mission the user should see now.
// On Sunday that is already the upcoming Monday so the next week's plan can
// be previewed and accepted before it begins.
func targetWeekStart(now time.Time) time.Time {
	day := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
	if now.Weekday() == time.Sunday {
		return day.AddDate(0, 0, 1)
	}
	return day.AddDate(0, 0, -int(now.Weekday()-time.Monday))
}

// mintable reports whether a new mission may be generated now. Missions are
// only minted at the week boundary.
func mintable(now time.Time) bool {
	return now.Weekday() == time.Sunday || now.Weekday() == time.Monday
}

// CurrentMission returns the mission for the week the user should currently
// be looking at, minting one at the week boundary when active goals exist.
// When no mission applies the view carries the reason instead.
func (s *Service) CurrentMission(ctx context.Context, userID int64) (MissionView, error) {
	now := s.now()
	weekStart := targetWeekStart(now)

	if err := s.repo.missions.ExpireStale(ctx, userID, now); err != nil {
		return MissionView{}, err
	}

	activeGoals, err := s.repo.goals.List(ctx, userID, GoalStatusActive)
	if err != nil {
		return MissionView{}, fmt.Errorf("list active goals: %w", err)
	}

	mission, err := s.repo.missions.GetByWeek(ctx, userID, weekStart)
	switch {
	case err == nil:
		return s.reconcileMission(ctx, mission, activeGoals, now)
	case errors.Is(err, ErrNotFound):
		// fall through to minting
	default:
		return MissionView{}, err
	}

	if len(activeGoals) == 0 {
		return MissionView{Reason: "Set a strength goal to receive a weekly mission."}, nil
	}
	if !mintable(now) {
		return MissionView{Reason: "Your next mission arrives on Sunday."}, nil
	}

	mission, err = s.mintMission(ctx, userID, weekStart, activeGoals, now)
	if err != nil {
		return MissionView{}, err
	}
	return MissionView{Mission: &mission}, nil
}

// reconcileMission brings an already-minted mission up to date with the
// user's current goals before returning it. The plan is only rebuilt while
// no day has been completed.
func (s *Service) reconcileMission(
	ctx context.Context,
	mission Mission,
	activeGoals []Goal,
	now time.Time,
) (MissionView, error) {
	if !missionNeedsRebuild(mission, activeGoals) {
		return MissionView{Mission: &mission}, nil
	}
	if len(activeGoals) == 0 {
		return MissionView{Mission: &mission}, nil
	}

	rebuilt, err := s.rebuildMission(ctx, mission, activeGoals, now)
	if err != nil {
		return MissionView{}, err
	}
	return MissionView{Mission: &rebuilt}, nil
}

// missionNeedsRebuild reports whether the mission's plan is stale: the goal
// set changed since minting, a planned day is missing or a prescription
// never received a weight. Completed days freeze the plan.
func missionNeedsRebuild(mission Mission, activeGoals []Goal) bool {
	if mission.Status != MissionStatusOffered && mission.Status != MissionStatusAccepted {
		return false
	}
	for _, workout := range mission.Workouts {
		if workout.Status == WorkoutStatusCompleted {
			return false
		}
	}

	if len(mission.Workouts) == 0 {
		return true
	}
	for _, workout := range mission.Workouts {
		if len(workout.Prescriptions) == 0 {
			return true
		}
		for _, prescription := range workout.Prescriptions {
			if prescription.Weight == nil {
				return true
			}
		}
	}

	if len(mission.Goals) != len(activeGoals) {
		return true
	}
	linked := make(map[int64]bool, len(mission.Goals))
	for _, mg := range mission.Goals {
		linked[mg.GoalID] = true
	}
	for _, goal := range activeGoals {
		if !linked[goal.ID] {
			return true
		}
	}
	return false
}

// mintMission generates and stores the week's mission for the active goals.
func (s *Service) mintMission(
	ctx context.Context,
	userID int64,
	weekStart time.Time,
	activeGoals []Goal,
	now time.Time,
) (Mission, error) {
	planned, err := s.plannedGoals(ctx, activeGoals)
	if err != nil {
		return Mission{}, err
	}
	split, days, err := s.planner.buildPlan(ctx, planned, now)
	if err != nil {
		return Mission{}, fmt.Errorf("build weekly plan: %w", err)
	}

	weeklyTarget, coachingMessage := missionCopy(split, planned, len(days))
	mission := Mission{
		UserID:          userID,
		TrainingSplit:   split,
		WeekStart:       weekStart,
		WeekEnd:         weekStart.AddDate(0, 0, missionDays-1),
		XPReward:        xpRewardFor(len(activeGoals)),
		WeeklyTarget:    weeklyTarget,
		CoachingMessage: coachingMessage,
	}

	goalIDs := make([]int64, len(activeGoals))
	for i, goal := range activeGoals {
		goalIDs[i] = goal.ID
	}

	mission, err = s.repo.missions.Create(ctx, mission, goalIDs, days)
	if err != nil {
		return Mission{}, err
	}
	s.logger.LogAttrs(ctx, slog.LevelInfo, "mission minted",
		slog.Int64("mission_id", mission.ID),
		slog.String("training_split", string(mission.TrainingSplit)),
		slog.Int("goal_count", len(goalIDs)))
	return mission, nil
}

// rebuildMission regenerates the mission's plan in place for the current
// goal set, keeping its status and week.
func (s *Service) rebuildMission(
	ctx context.Context,
	mission Mission,
	activeGoals []Goal,
	now time.Time,
) (Mission, error) {
	planned, err := s.plannedGoals(ctx, activeGoals)
	if err != nil {
		return Mission{}, err
	}
	split, days, err := s.planner.buildPlan(ctx, planned, now)
	if err != nil {
		return Mission{}, fmt.Errorf("build weekly plan: %w", err)
	}

	mission.TrainingSplit = split
	mission.XPReward = xpRewardFor(len(activeGoals))
	mission.WeeklyTarget, mission.CoachingMessage = missionCopy(split, planned, len(days))

	goalIDs := make([]int64, len(activeGoals))
	for i, goal := range activeGoals {
		goalIDs[i] = goal.ID
	}

	mission, err = s.repo.missions.Backfill(ctx, mission, goalIDs, days)
	if err != nil {
		return Mission{}, err
	}
	s.logger.LogAttrs(ctx, slog.LevelInfo, "mission plan rebuilt",
		slog.Int64("mission_id", mission.ID),
		slog.String("training_split", string(mission.TrainingSplit)))
	return mission, nil
}

// AcceptMission accepts an offered mission.
func (s *Service) AcceptMission(ctx context.Context, userID, missionID int64) (Mission, error) {
	return s.repo.missions.Accept(ctx, userID, missionID, s.now())
}

// DeclineMission declines an offered mission.
func (s *Service) DeclineMission(ctx context.Context, userID, missionID int64) (Mission, error) {
	return s.repo.missions.Decline(ctx, userID, missionID, s.now())
}

// missionCopy writes the weekly target and coaching message for a split.
func missionCopy(split SplitType, planned []plannedGoal, dayCount int) (string, string) {
	names := make([]string, len(planned))
	for i, pg := range planned {
		names[i] = pg.exerciseName
	}

	switch split {
	case SplitSingleFocus:
		return fmt.Sprintf("Complete %d sessions built around %s.", dayCount, names[0]),
			fmt.Sprintf("Every session this week feeds your %s. Lead with the heavy day, then let the volume work drive it up.", names[0])
	case SplitSameGroup:
		return fmt.Sprintf("Complete %d sessions alternating which lift leads.", dayCount),
			fmt.Sprintf("Your goals share a movement pattern, so each of %s gets its own heavy day while the others ride along lighter.", strings.Join(names, " and "))
	case SplitPPL:
		return fmt.Sprintf("Hit each movement pattern once across %d sessions.", dayCount),
			"Push, pull and legs each get a dedicated day. Spread the sessions out and your goal lifts all get trained fresh."
	case SplitUpperLower:
		return fmt.Sprintf("Complete %d sessions split between upper and lower body.", dayCount),
			"Two upper days bracket a lower day. Go heavy early in the week and chase volume at the end."
	default:
		return fmt.Sprintf("Complete %d full-body sessions.", dayCount),
			"All your goal lifts, every session, at stepped intensities. Heavy first, volume last."
	}
}
