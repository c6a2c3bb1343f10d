package coach

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/nchua/liftquest/internal/ptr"
)

// fakeCatalog is an in-memory Catalog for plan-building tests.
type fakeCatalog struct {
	exercises []CatalogExercise
}

func newFakeCatalog(names ...string) *fakeCatalog {
	catalog := &fakeCatalog{}
	for i, name := range names {
		catalog.exercises = append(catalog.exercises, CatalogExercise{ID: int64(i + 1), Name: name})
	}
	return catalog
}

func (c *fakeCatalog) ResolveByID(_ context.Context, id int64) (CatalogExercise, error) {
	for _, exercise := range c.exercises {
		if exercise.ID == id {
			return exercise, nil
		}
	}
	return CatalogExercise{}, ErrNotFound
}

func (c *fakeCatalog) FindByName(_ context.Context, name string) (CatalogExercise, bool, error) {
	for _, exercise := range c.exercises {
		if strings.EqualFold(exercise.Name, strings.TrimSpace(name)) {
			return exercise, true, nil
		}
	}
	return CatalogExercise{}, false, nil
}

func (c *fakeCatalog) FindByNames(ctx context.Context, names []string) ([]CatalogExercise, error) {
	var found []CatalogExercise
	for _, name := range names {
		if exercise, ok, _ := c.FindByName(ctx, name); ok {
			found = append(found, exercise)
		}
	}
	return found, nil
}

func (c *fakeCatalog) mustID(t *testing.T, name string) int64 {
	t.Helper()
	exercise, ok, _ := c.FindByName(context.Background(), name)
	if !ok {
		t.Fatalf("exercise %q not in fake catalog", name)
	}
	return exercise.ID
}

func testGoal(id, exerciseID int64, now time.Time) Goal {
	return Goal{
		ID:           id,
		UserID:       1,
		ExerciseID:   exerciseID,
		TargetWeight: 225,
		TargetReps:   1,
		WeightUnit:   UnitPounds,
		Deadline:     now.AddDate(0, 0, 56),
		CurrentE1RM:  ptr.Ref(200.0),
		Status:       GoalStatusActive,
	}
}

func plannedFor(t *testing.T, catalog *fakeCatalog, now time.Time, names ...string) []plannedGoal {
	t.Helper()
	goals := make([]plannedGoal, 0, len(names))
	for i, name := range names {
		goals = append(goals, plannedGoal{
			goal:         testGoal(int64(i+1), catalog.mustID(t, name), now),
			exerciseName: name,
			group:        classifyMuscleGroup(name),
		})
	}
	return goals
}

func TestBuildPlanSingleFocus(t *testing.T) {
	now := time.Date(2025, 3, 3, 0, 0, 0, 0, time.UTC)
	catalog := newFakeCatalog("Bench Press", "Close Grip Bench Press", "Overhead Press",
		"Tricep Pushdown", "Chest Fly", "Lateral Raise")
	p := planner{catalog: catalog}

	split, days, err := p.buildPlan(context.Background(), plannedFor(t, catalog, now, "Bench Press"), now)
	if err != nil {
		t.Fatal(err)
	}
	if split != SplitSingleFocus {
		t.Fatalf("split = %v, want %v", split, SplitSingleFocus)
	}
	if len(days) != 3 {
		t.Fatalf("len(days) = %d, want 3", len(days))
	}

	for i, day := range days {
		if day.dayNumber != i+1 {
			t.Errorf("day %d numbered %d", i, day.dayNumber)
		}
		if day.primaryLift == nil || *day.primaryLift != "Bench Press" {
			t.Errorf("day %d primary lift = %v, want Bench Press", i, day.primaryLift)
		}
		if len(day.prescriptions) == 0 {
			t.Fatalf("day %d has no prescriptions", i)
		}
		first := day.prescriptions[0]
		if first.ExerciseID != catalog.mustID(t, "Bench Press") {
			t.Errorf("day %d does not lead with the goal lift", i)
		}
		if first.Weight == nil {
			t.Errorf("day %d goal lift has no weight", i)
		}
	}

	if heavy := days[0].prescriptions[0]; heavy.Sets != 4 || heavy.Reps != 5 {
		t.Errorf("heavy day scheme = %dx%d, want 4x5", heavy.Sets, heavy.Reps)
	}
	if volume := days[2].prescriptions[0]; volume.Reps != 10 {
		t.Errorf("volume day reps = %d, want 10", volume.Reps)
	}
}

func TestBuildPlanPPLDropsEmptyBuckets(t *testing.T) {
	now := time.Date(2025, 3, 3, 0, 0, 0, 0, time.UTC)
	catalog := newFakeCatalog("Bench Press", "Back Squat", "Barbell Row", "Deadlift",
		"Romanian Deadlift", "Leg Press", "Leg Curl", "Walking Lunge")
	p := planner{catalog: catalog}

	// Push and legs goals but nothing for pull: the pull day must vanish and
	// the remaining days renumber contiguously.
	goals := plannedFor(t, catalog, now, "Bench Press", "Back Squat", "Deadlift", "Leg Press")

	days, err := p.buildPPL(context.Background(), goals, now)
	if err != nil {
		t.Fatal(err)
	}
	if len(days) != 2 {
		t.Fatalf("len(days) = %d, want 2", len(days))
	}
	if days[0].dayNumber != 1 || days[1].dayNumber != 2 {
		t.Errorf("day numbers = %d, %d, want contiguous from 1", days[0].dayNumber, days[1].dayNumber)
	}
	if days[0].focus != "Push" || days[1].focus != "Legs" {
		t.Errorf("focus = %q, %q, want Push, Legs", days[0].focus, days[1].focus)
	}
}

func TestBuildPlanSameGroupAlternatesLead(t *testing.T) {
	now := time.Date(2025, 3, 3, 0, 0, 0, 0, time.UTC)
	catalog := newFakeCatalog("Overhead Press", "Bench Press")
	p := planner{catalog: catalog}

	days, err := p.buildSameGroup(context.Background(),
		plannedFor(t, catalog, now, "Overhead Press", "Bench Press"), now)
	if err != nil {
		t.Fatal(err)
	}
	if len(days) != 3 {
		t.Fatalf("len(days) = %d, want 3", len(days))
	}
	// Alphabetical order decides who leads the first heavy day.
	if days[0].primaryLift == nil || *days[0].primaryLift != "Bench Press" {
		t.Errorf("day 1 lead = %v, want Bench Press", days[0].primaryLift)
	}
	if days[1].primaryLift == nil || *days[1].primaryLift != "Overhead Press" {
		t.Errorf("day 2 lead = %v, want Overhead Press", days[1].primaryLift)
	}
	if days[2].primaryLift != nil {
		t.Errorf("volume day has a primary lift: %v", *days[2].primaryLift)
	}

	lead := days[0].prescriptions[0]
	if lead.Sets != 4 || lead.Reps != 5 {
		t.Errorf("lead scheme = %dx%d, want 4x5", lead.Sets, lead.Reps)
	}
	support := days[0].prescriptions[1]
	if support.Sets != 2 || support.Reps != 8 {
		t.Errorf("support scheme = %dx%d, want 2x8", support.Sets, support.Reps)
	}
}

func TestAccessoryPrescriptionsSkipUnknownAndScaleWeights(t *testing.T) {
	// Only two of the push accessories exist in this catalog.
	catalog := newFakeCatalog("Close Grip Bench Press", "Tricep Pushdown")
	p := planner{catalog: catalog}

	base := 200.0
	accessories, err := p.accessoryPrescriptions(
		context.Background(), GroupPush, false, 3, &base, UnitPounds, 1)
	if err != nil {
		t.Fatal(err)
	}
	if len(accessories) != 2 {
		t.Fatalf("len(accessories) = %d, want 2", len(accessories))
	}
	for i, accessory := range accessories {
		if accessory.OrderIndex != i+1 {
			t.Errorf("accessory %d order index = %d", i, accessory.OrderIndex)
		}
		if accessory.Weight == nil {
			t.Errorf("accessory %d has no weight", i)
		}
	}
	// Close grip bench scales at 60% of the 200 base.
	if got := *accessories[0].Weight; got != 120 {
		t.Errorf("close grip weight = %v, want 120", got)
	}
}

func TestBuildPlanFullBodyTrainsEveryGoalEachDay(t *testing.T) {
	now := time.Date(2025, 3, 3, 0, 0, 0, 0, time.UTC)
	catalog := newFakeCatalog("Clean and Jerk", "Back Squat")
	p := planner{catalog: catalog}

	goals := plannedFor(t, catalog, now, "Clean and Jerk", "Back Squat")
	split, days, err := p.buildPlan(context.Background(), goals, now)
	if err != nil {
		t.Fatal(err)
	}
	if split != SplitFullBody {
		t.Fatalf("split = %v, want %v", split, SplitFullBody)
	}
	if len(days) != 3 {
		t.Fatalf("len(days) = %d, want 3", len(days))
	}

	wantReps := []int{5, 8, 10}
	for i, day := range days {
		goalEntries := 0
		for _, prescription := range day.prescriptions {
			if prescription.ExerciseID == goals[0].goal.ExerciseID ||
				prescription.ExerciseID == goals[1].goal.ExerciseID {
				goalEntries++
				if prescription.Reps != wantReps[i] {
					t.Errorf("day %d goal reps = %d, want %d", i+1, prescription.Reps, wantReps[i])
				}
			}
		}
		if goalEntries != 2 {
			t.Errorf("day %d trains %d goal lifts, want 2", i+1, goalEntries)
		}
	}
}
