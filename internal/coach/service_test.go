package coach

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/nchua/liftquest/internal/sqlite"
	"github.com/nchua/liftquest/internal/testhelpers"
)

// monday is the fixed reference point for the clock-driven tests.
var monday = time.Date(2025, 3, 3, 9, 0, 0, 0, time.UTC) //nolint:gochecknoglobals // test fixture.

type testClock struct {
	now time.Time
}

func (c *testClock) advance(d time.Duration) {
	c.now = c.now.Add(d)
}

func newTestService(t *testing.T) (*Service, *testClock) {
	t.Helper()
	// The database's background optimizer logs through the test writer, so
	// its context must end before the test does.
	ctx, cancel := context.WithCancel(context.Background())
	logger := testhelpers.NewLogger(testhelpers.NewWriter(t))

	db, err := sqlite.NewDatabase(ctx, ":memory:", logger)
	if err != nil {
		cancel()
		t.Fatalf("open database: %v", err)
	}
	t.Cleanup(func() {
		if closeErr := db.Close(); closeErr != nil {
			t.Errorf("close database: %v", closeErr)
		}
	})
	t.Cleanup(cancel)

	svc := NewService(db, logger)
	clock := &testClock{now: monday}
	svc.now = func() time.Time { return clock.now }
	return svc, clock
}

func mustUser(t *testing.T, svc *Service, name string) int64 {
	t.Helper()
	userID, err := svc.EnsureUser(context.Background(), name)
	if err != nil {
		t.Fatalf("ensure user: %v", err)
	}
	return userID
}

func mustCreateGoal(t *testing.T, svc *Service, userID int64, exercise string, targetWeight float64) Goal {
	t.Helper()
	goal, err := svc.CreateGoal(context.Background(), userID, GoalDraft{
		ExerciseName: exercise,
		TargetWeight: targetWeight,
		TargetReps:   1,
		WeightUnit:   UnitPounds,
		Deadline:     monday.AddDate(0, 0, 56),
	})
	if err != nil {
		t.Fatalf("create goal: %v", err)
	}
	return goal
}

func mustExerciseID(t *testing.T, svc *Service, name string) int64 {
	t.Helper()
	exercise, found, err := svc.Catalog().FindByName(context.Background(), name)
	if err != nil || !found {
		t.Fatalf("find exercise %q: found=%v err=%v", name, found, err)
	}
	return exercise.ID
}

func logLift(t *testing.T, svc *Service, userID, sessionID, exerciseID int64, weight float64, reps int) WorkoutLogResult {
	t.Helper()
	result, err := svc.OnWorkoutLogged(context.Background(), userID, LoggedSession{
		ID: sessionID,
		Exercises: []LoggedExercise{
			{ExerciseID: exerciseID, Sets: []LoggedSet{{Weight: weight, Reps: reps}}},
		},
	})
	if err != nil {
		t.Fatalf("log workout: %v", err)
	}
	return result
}

func TestGoalLifecycle(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()
	userID := mustUser(t, svc, "Casey")

	goal := mustCreateGoal(t, svc, userID, "Bench Press", 225)
	if goal.Status != GoalStatusActive {
		t.Errorf("status = %v, want active", goal.Status)
	}

	notes := "pause reps only"
	updated, err := svc.UpdateGoal(ctx, userID, goal.ID, GoalUpdate{Notes: &notes})
	if err != nil {
		t.Fatalf("update goal: %v", err)
	}
	if updated.Notes != notes {
		t.Errorf("notes = %q, want %q", updated.Notes, notes)
	}

	abandoned, err := svc.AbandonGoal(ctx, userID, goal.ID)
	if err != nil {
		t.Fatalf("abandon goal: %v", err)
	}
	if abandoned.Status != GoalStatusAbandoned || abandoned.AbandonedAt == nil {
		t.Errorf("abandoned goal = %+v", abandoned)
	}

	if _, err = svc.AbandonGoal(ctx, userID, goal.ID); !errors.Is(err, ErrInvalidTransition) {
		t.Errorf("second abandon error = %v, want ErrInvalidTransition", err)
	}

	if _, err = svc.GetGoal(ctx, userID+1, goal.ID); !errors.Is(err, ErrNotFound) {
		t.Errorf("foreign owner error = %v, want ErrNotFound", err)
	}
}

func TestGoalLimit(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()
	userID := mustUser(t, svc, "Casey")

	lifts := []string{"Bench Press", "Back Squat", "Deadlift", "Overhead Press", "Barbell Row"}
	for _, lift := range lifts {
		mustCreateGoal(t, svc, userID, lift, 225)
	}

	_, err := svc.CreateGoal(ctx, userID, GoalDraft{
		ExerciseName: "Hip Thrust",
		TargetWeight: 315,
		TargetReps:   1,
		WeightUnit:   UnitPounds,
		Deadline:     monday.AddDate(0, 0, 56),
	})
	if !errors.Is(err, ErrGoalLimitExceeded) {
		t.Errorf("sixth goal error = %v, want ErrGoalLimitExceeded", err)
	}

	// Abandoning one frees a slot.
	goals, err := svc.ListGoals(ctx, userID, GoalStatusActive)
	if err != nil {
		t.Fatal(err)
	}
	if _, err = svc.AbandonGoal(ctx, userID, goals[0].ID); err != nil {
		t.Fatal(err)
	}
	mustCreateGoal(t, svc, userID, "Hip Thrust", 315)
}

func TestProgressIsMonotone(t *testing.T) {
	svc, _ := newTestService(t)
	userID := mustUser(t, svc, "Casey")
	goal := mustCreateGoal(t, svc, userID, "Bench Press", 260)
	benchID := mustExerciseID(t, svc, "Bench Press")

	result := logLift(t, svc, userID, 1, benchID, 185, 5)
	if len(result.GoalsProgressed) != 1 {
		t.Fatalf("first log progressed %d goals, want 1", len(result.GoalsProgressed))
	}
	first := *result.GoalsProgressed[0].CurrentE1RM

	result = logLift(t, svc, userID, 2, benchID, 190, 5)
	if len(result.GoalsProgressed) != 1 {
		t.Fatalf("second log progressed %d goals, want 1", len(result.GoalsProgressed))
	}
	second := *result.GoalsProgressed[0].CurrentE1RM
	if second <= first {
		t.Errorf("e1rm did not rise: %v then %v", first, second)
	}

	// A weaker session must not lower the recorded best.
	result = logLift(t, svc, userID, 3, benchID, 160, 5)
	if len(result.GoalsProgressed) != 0 {
		t.Errorf("weaker session progressed %d goals, want 0", len(result.GoalsProgressed))
	}
	stored, err := svc.GetGoal(context.Background(), userID, goal.ID)
	if err != nil {
		t.Fatal(err)
	}
	if *stored.CurrentE1RM != second {
		t.Errorf("stored e1rm = %v, want %v", *stored.CurrentE1RM, second)
	}

	snapshots, err := svc.repo.goals.ListSnapshots(context.Background(), goal.ID)
	if err != nil {
		t.Fatal(err)
	}
	if len(snapshots) != 2 {
		t.Errorf("len(snapshots) = %d, want 2 (weaker session must not append)", len(snapshots))
	}
}

func TestGoalAutoCompletes(t *testing.T) {
	svc, _ := newTestService(t)
	userID := mustUser(t, svc, "Casey")
	mustCreateGoal(t, svc, userID, "Bench Press", 225)
	benchID := mustExerciseID(t, svc, "Bench Press")

	// 200x5 estimates 233.3, past the 232.5 target for a 225 single.
	result := logLift(t, svc, userID, 1, benchID, 200, 5)
	if len(result.GoalsProgressed) != 1 {
		t.Fatalf("progressed %d goals, want 1", len(result.GoalsProgressed))
	}
	achieved := result.GoalsProgressed[0]
	if achieved.Status != GoalStatusCompleted {
		t.Errorf("status = %v, want completed", achieved.Status)
	}
	if achieved.AchievedAt == nil {
		t.Error("achieved goal missing AchievedAt")
	}
}

func TestMissionLifecycle(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()
	userID := mustUser(t, svc, "Casey")
	goal := mustCreateGoal(t, svc, userID, "Bench Press", 260)
	benchID := mustExerciseID(t, svc, "Bench Press")
	inclineID := mustExerciseID(t, svc, "Incline Bench Press")

	view, err := svc.CurrentMission(ctx, userID)
	if err != nil {
		t.Fatalf("current mission: %v", err)
	}
	if view.Mission == nil {
		t.Fatalf("no mission minted on Monday: %q", view.Reason)
	}
	mission := *view.Mission
	if mission.TrainingSplit != SplitSingleFocus {
		t.Errorf("split = %v, want single_focus", mission.TrainingSplit)
	}
	if mission.Status != MissionStatusOffered {
		t.Errorf("status = %v, want offered", mission.Status)
	}
	if mission.XPReward != 100 {
		t.Errorf("xp reward = %d, want 100", mission.XPReward)
	}
	if len(mission.Workouts) != 3 {
		t.Fatalf("len(workouts) = %d, want 3", len(mission.Workouts))
	}
	for _, workout := range mission.Workouts {
		if len(workout.Prescriptions) == 0 {
			t.Fatalf("day %d has no prescriptions", workout.DayNumber)
		}
		for _, prescription := range workout.Prescriptions {
			if prescription.Weight == nil {
				t.Errorf("day %d prescription for exercise %d has no weight",
					workout.DayNumber, prescription.ExerciseID)
			}
		}
	}

	// Fetching again returns the same mission, not a new one.
	again, err := svc.CurrentMission(ctx, userID)
	if err != nil {
		t.Fatal(err)
	}
	if again.Mission == nil || again.Mission.ID != mission.ID {
		t.Error("second fetch minted a different mission")
	}

	accepted, err := svc.AcceptMission(ctx, userID, mission.ID)
	if err != nil {
		t.Fatalf("accept mission: %v", err)
	}
	if accepted.Status != MissionStatusAccepted || accepted.AcceptedAt == nil {
		t.Errorf("accepted mission = %+v", accepted)
	}
	if _, err = svc.AcceptMission(ctx, userID, mission.ID); !errors.Is(err, ErrInvalidTransition) {
		t.Errorf("double accept error = %v, want ErrInvalidTransition", err)
	}

	// Three sessions complete the three planned days. The second uses an
	// equivalent movement and must still credit the goal.
	sessions := []int64{101, 102, 103}
	exercises := []int64{benchID, inclineID, benchID}
	var lastResult WorkoutLogResult
	for i := range sessions {
		lastResult = logLift(t, svc, userID, sessions[i], exercises[i], 135, 5)
		if len(lastResult.MissionWorkoutsCompleted) != 1 {
			t.Fatalf("session %d completed %d mission days, want 1",
				i+1, len(lastResult.MissionWorkoutsCompleted))
		}
	}

	if len(lastResult.MissionsCompleted) != 1 {
		t.Fatalf("mission did not complete with the last day")
	}
	completed := lastResult.MissionsCompleted[0]
	if completed.Status != MissionStatusCompleted {
		t.Errorf("status = %v, want completed", completed.Status)
	}
	if lastResult.XPEarned != 100 {
		t.Errorf("xp earned = %d, want 100", lastResult.XPEarned)
	}
	if len(completed.Goals) != 1 {
		t.Fatalf("len(mission goals) = %d, want 1", len(completed.Goals))
	}
	mg := completed.Goals[0]
	if mg.GoalID != goal.ID || mg.WorkoutsCompleted != 3 || !mg.IsSatisfied {
		t.Errorf("mission goal = %+v, want 3 credited workouts and satisfied", mg)
	}
}

func TestMissionMidweekWithoutMission(t *testing.T) {
	svc, clock := newTestService(t)
	ctx := context.Background()
	userID := mustUser(t, svc, "Casey")
	mustCreateGoal(t, svc, userID, "Bench Press", 260)

	// Wednesday with no mission minted at the boundary.
	clock.advance(48 * time.Hour)
	view, err := svc.CurrentMission(ctx, userID)
	if err != nil {
		t.Fatal(err)
	}
	if view.Mission != nil {
		t.Error("mission minted mid-week")
	}
	if view.Reason == "" {
		t.Error("missing reason for absent mission")
	}
}

func TestMissionRequiresGoals(t *testing.T) {
	svc, _ := newTestService(t)
	view, err := svc.CurrentMission(context.Background(), mustUser(t, svc, "Casey"))
	if err != nil {
		t.Fatal(err)
	}
	if view.Mission != nil {
		t.Error("mission minted without goals")
	}
	if view.Reason == "" {
		t.Error("missing reason for absent mission")
	}
}

func TestMissionDecline(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()
	userID := mustUser(t, svc, "Casey")
	mustCreateGoal(t, svc, userID, "Bench Press", 260)

	view, err := svc.CurrentMission(ctx, userID)
	if err != nil || view.Mission == nil {
		t.Fatalf("current mission: %v", err)
	}

	declined, err := svc.DeclineMission(ctx, userID, view.Mission.ID)
	if err != nil {
		t.Fatalf("decline mission: %v", err)
	}
	if declined.Status != MissionStatusDeclined || declined.DeclinedAt == nil {
		t.Errorf("declined mission = %+v", declined)
	}
	if _, err = svc.AcceptMission(ctx, userID, view.Mission.ID); !errors.Is(err, ErrInvalidTransition) {
		t.Errorf("accept after decline error = %v, want ErrInvalidTransition", err)
	}
}

func TestMissionExpiresLazily(t *testing.T) {
	svc, clock := newTestService(t)
	ctx := context.Background()
	userID := mustUser(t, svc, "Casey")
	mustCreateGoal(t, svc, userID, "Bench Press", 260)

	view, err := svc.CurrentMission(ctx, userID)
	if err != nil || view.Mission == nil {
		t.Fatalf("current mission: %v", err)
	}

	// Ten days later the week is over.
	clock.advance(10 * 24 * time.Hour)
	if _, err = svc.AcceptMission(ctx, userID, view.Mission.ID); !errors.Is(err, ErrMissionExpired) {
		t.Errorf("accept stale mission error = %v, want ErrMissionExpired", err)
	}

	stored, err := svc.repo.missions.Get(ctx, userID, view.Mission.ID)
	if err != nil {
		t.Fatal(err)
	}
	if stored.Status != MissionStatusExpired {
		t.Errorf("status = %v, want expired", stored.Status)
	}
}

func TestMissionRebuildsForNewGoal(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()
	userID := mustUser(t, svc, "Casey")
	mustCreateGoal(t, svc, userID, "Bench Press", 260)

	view, err := svc.CurrentMission(ctx, userID)
	if err != nil || view.Mission == nil {
		t.Fatalf("current mission: %v", err)
	}
	if view.Mission.TrainingSplit != SplitSingleFocus {
		t.Fatalf("split = %v, want single_focus", view.Mission.TrainingSplit)
	}

	squat := mustCreateGoal(t, svc, userID, "Back Squat", 315)

	rebuilt, err := svc.CurrentMission(ctx, userID)
	if err != nil || rebuilt.Mission == nil {
		t.Fatalf("current mission after new goal: %v", err)
	}
	if rebuilt.Mission.ID != view.Mission.ID {
		t.Error("rebuild minted a new mission instead of reusing the week's")
	}
	if rebuilt.Mission.TrainingSplit == SplitSingleFocus {
		t.Error("split did not change for the second goal")
	}
	if rebuilt.Mission.XPReward != 150 {
		t.Errorf("xp reward = %d, want 150", rebuilt.Mission.XPReward)
	}

	linked := make(map[int64]bool)
	for _, mg := range rebuilt.Mission.Goals {
		linked[mg.GoalID] = true
	}
	if !linked[squat.ID] {
		t.Error("new goal not linked into the rebuilt mission")
	}
}

func TestUnrelatedSessionLeavesMissionUntouched(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()
	userID := mustUser(t, svc, "Casey")
	mustCreateGoal(t, svc, userID, "Bench Press", 260)

	view, err := svc.CurrentMission(ctx, userID)
	if err != nil || view.Mission == nil {
		t.Fatalf("current mission: %v", err)
	}
	if _, err = svc.AcceptMission(ctx, userID, view.Mission.ID); err != nil {
		t.Fatalf("accept mission: %v", err)
	}

	// A session training none of the mission's goals must not consume a
	// planned day.
	lateralID := mustExerciseID(t, svc, "Lateral Raise")
	result := logLift(t, svc, userID, 1, lateralID, 25, 12)
	if len(result.MissionWorkoutsCompleted) != 0 {
		t.Errorf("unrelated session consumed %d mission workouts, want 0", len(result.MissionWorkoutsCompleted))
	}
	if len(result.MissionsCompleted) != 0 || result.XPEarned != 0 {
		t.Errorf("unrelated session completed missions: %+v", result)
	}

	mission, err := svc.repo.missions.Get(ctx, userID, view.Mission.ID)
	if err != nil {
		t.Fatal(err)
	}
	for _, workout := range mission.Workouts {
		if workout.Status != WorkoutStatusPending {
			t.Errorf("day %d status = %v, want pending", workout.DayNumber, workout.Status)
		}
	}
}

func TestStaleAcceptedMissionExpires(t *testing.T) {
	svc, clock := newTestService(t)
	ctx := context.Background()
	userID := mustUser(t, svc, "Casey")
	mustCreateGoal(t, svc, userID, "Bench Press", 260)

	week1, err := svc.CurrentMission(ctx, userID)
	if err != nil || week1.Mission == nil {
		t.Fatalf("current mission: %v", err)
	}
	if _, err = svc.AcceptMission(ctx, userID, week1.Mission.ID); err != nil {
		t.Fatalf("accept mission: %v", err)
	}

	// The next Monday. The unfinished week must settle as expired and make
	// room for the new one.
	clock.advance(7 * 24 * time.Hour)
	week2, err := svc.CurrentMission(ctx, userID)
	if err != nil {
		t.Fatalf("current mission next week: %v", err)
	}
	if week2.Mission == nil {
		t.Fatalf("no mission minted next week: %q", week2.Reason)
	}
	if week2.Mission.ID == week1.Mission.ID {
		t.Fatal("next week returned the stale mission")
	}

	if _, err = svc.AcceptMission(ctx, userID, week2.Mission.ID); err != nil {
		t.Errorf("accept next week's mission: %v", err)
	}

	stale, err := svc.repo.missions.Get(ctx, userID, week1.Mission.ID)
	if err != nil {
		t.Fatal(err)
	}
	if stale.Status != MissionStatusExpired {
		t.Errorf("stale mission status = %v, want expired", stale.Status)
	}
}

func TestCreditingRequiresEquivalentCatalogExercise(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()
	userID := mustUser(t, svc, "Casey")
	goal, err := svc.CreateGoal(ctx, userID, GoalDraft{
		ExerciseName: "Sandbag Carry",
		TargetWeight: 150,
		TargetReps:   1,
		WeightUnit:   UnitPounds,
		Deadline:     monday.AddDate(0, 0, 56),
	})
	if err != nil {
		t.Fatalf("create goal: %v", err)
	}

	view, err := svc.CurrentMission(ctx, userID)
	if err != nil || view.Mission == nil {
		t.Fatalf("current mission: %v", err)
	}
	if _, err = svc.AcceptMission(ctx, userID, view.Mission.ID); err != nil {
		t.Fatalf("accept mission: %v", err)
	}

	// Sharing a name prefix is not equivalence for exercises outside the
	// movement classes.
	medley, err := svc.repo.catalog.EnsureByName(ctx, "Sandbag Carry Medley")
	if err != nil {
		t.Fatalf("ensure exercise: %v", err)
	}
	result := logLift(t, svc, userID, 1, medley.ID, 100, 10)
	if len(result.MissionWorkoutsCompleted) != 0 {
		t.Errorf("prefix-named exercise credited %d mission workouts, want 0", len(result.MissionWorkoutsCompleted))
	}

	// The goal's own lift still credits.
	result = logLift(t, svc, userID, 2, goal.ExerciseID, 100, 3)
	if len(result.MissionWorkoutsCompleted) != 1 {
		t.Errorf("goal lift credited %d mission workouts, want 1", len(result.MissionWorkoutsCompleted))
	}
}

func TestWorkoutWithoutMissionOnlyTracksGoals(t *testing.T) {
	svc, clock := newTestService(t)
	userID := mustUser(t, svc, "Casey")
	mustCreateGoal(t, svc, userID, "Bench Press", 260)
	benchID := mustExerciseID(t, svc, "Bench Press")

	// Mid-week, never fetched nor accepted a mission.
	clock.advance(72 * time.Hour)
	result := logLift(t, svc, userID, 1, benchID, 185, 5)
	if len(result.GoalsProgressed) != 1 {
		t.Errorf("progressed %d goals, want 1", len(result.GoalsProgressed))
	}
	if len(result.MissionWorkoutsCompleted) != 0 || result.XPEarned != 0 {
		t.Errorf("unexpected mission crediting: %+v", result)
	}
}
