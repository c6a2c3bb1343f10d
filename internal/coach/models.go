package coach

import (
	"context"
	"time"
)

// WeightUnit is the unit a goal's target weight is expressed in.
type WeightUnit string

const (
	UnitPounds    WeightUnit = "lb"
	UnitKilograms WeightUnit = "kg"
)

// roundingIncrement returns the plate increment weights are rounded to.
func (u WeightUnit) roundingIncrement() float64 {
	if u == UnitKilograms {
		return 2.5
	}
	return 5
}

// GoalStatus is the lifecycle state of a strength goal.
type GoalStatus string

const (
	GoalStatusActive    GoalStatus = "active"
	GoalStatusCompleted GoalStatus = "completed"
	GoalStatusAbandoned GoalStatus = "abandoned"
)

// Goal is a user's declared strength target on one exercise.
type Goal struct {
	ID           int64
	UserID       int64
	ExerciseID   int64
	TargetWeight float64
	TargetReps   int
	WeightUnit   WeightUnit
	Deadline     time.Time
	StartingE1RM *float64
	CurrentE1RM  *float64
	Status       GoalStatus
	Notes        string
	CreatedAt    time.Time
	AchievedAt   *time.Time
	AbandonedAt  *time.Time
}

// ProgressSnapshot records a new personal-best estimated 1RM observed on a
// goal's exercise. Snapshots are append-only.
type ProgressSnapshot struct {
	ID         int64
	GoalID     int64
	RecordedAt time.Time
	E1RM       float64
	Weight     *float64
	Reps       *int
	WorkoutID  *int64
}

// PaceStatus classifies how a goal is trending against its deadline.
type PaceStatus string

const (
	PaceAhead   PaceStatus = "ahead"
	PaceOnTrack PaceStatus = "on_track"
	PaceBehind  PaceStatus = "behind"
)

// SplitType is the weekly training-split strategy chosen for a mission.
type SplitType string

const (
	SplitSingleFocus SplitType = "single_focus"
	SplitSameGroup   SplitType = "same_group"
	SplitPPL         SplitType = "push_pull_legs"
	SplitUpperLower  SplitType = "upper_lower"
	SplitFullBody    SplitType = "full_body"
)

// MuscleGroup is the coarse classification used by the split selector.
type MuscleGroup string

const (
	GroupPush     MuscleGroup = "push"
	GroupPull     MuscleGroup = "pull"
	GroupLegs     MuscleGroup = "legs"
	GroupFullBody MuscleGroup = "full_body"
)

// MissionStatus is the lifecycle state of a weekly mission.
type MissionStatus string

const (
	MissionStatusOffered   MissionStatus = "offered"
	MissionStatusAccepted  MissionStatus = "accepted"
	MissionStatusCompleted MissionStatus = "completed"
	MissionStatusDeclined  MissionStatus = "declined"
	MissionStatusExpired   MissionStatus = "expired"
)

// terminal reports whether the status admits no further transitions.
func (s MissionStatus) terminal() bool {
	return s == MissionStatusCompleted || s == MissionStatusDeclined || s == MissionStatusExpired
}

// Mission is a system-generated weekly training plan targeting the user's
// active goals. At most one exists per (user, week start).
type Mission struct {
	ID              int64
	UserID          int64
	TrainingSplit   SplitType
	WeekStart       time.Time
	WeekEnd         time.Time
	Status          MissionStatus
	XPReward        int
	XPEarned        int
	WeeklyTarget    string
	CoachingMessage string
	AcceptedAt      *time.Time
	CompletedAt     *time.Time
	DeclinedAt      *time.Time
	Goals           []MissionGoal
	Workouts        []MissionWorkout
}

// MissionGoal links a mission to one of the goals it targets.
type MissionGoal struct {
	ID                int64
	MissionID         int64
	GoalID            int64
	WorkoutsCompleted int
	IsSatisfied       bool
}

// WorkoutStatus is the state of one planned workout day within a mission.
type WorkoutStatus string

const (
	WorkoutStatusPending   WorkoutStatus = "pending"
	WorkoutStatusCompleted WorkoutStatus = "completed"
)

// MissionWorkout is one planned training day within a mission.
type MissionWorkout struct {
	ID                 int64
	MissionID          int64
	DayNumber          int
	Focus              string
	PrimaryLift        *string
	Status             WorkoutStatus
	CompletedWorkoutID *int64
	CompletedAt        *time.Time
	CompletionNotes    string
	Prescriptions      []Prescription
}

// Prescription is a single planned exercise entry within a workout day.
type Prescription struct {
	ID               int64
	MissionWorkoutID int64
	ExerciseID       int64
	OrderIndex       int
	Sets             int
	Reps             int
	Weight           *float64
	WeightUnit       WeightUnit
	Notes            string
}

// CatalogExercise is an entry in the exercise catalog.
type CatalogExercise struct {
	ID   int64
	Name string
}

// Catalog resolves exercise names and ids. The production implementation is
// backed by the exercises table; tests substitute an in-memory fake.
type Catalog interface {
	// ResolveByID returns the exercise with the given id.
	ResolveByID(ctx context.Context, id int64) (CatalogExercise, error)
	// FindByName looks up an exercise by name, case-insensitively. The
	// boolean reports whether a match was found.
	FindByName(ctx context.Context, name string) (CatalogExercise, bool, error)
	// FindByNames returns every exercise whose name matches one of the given
	// names, case-insensitively.
	FindByNames(ctx context.Context, names []string) ([]CatalogExercise, error)
}

// LoggedSet is one performed set within a logged training session.
type LoggedSet struct {
	Weight float64
	Reps   int
}

// LoggedExercise groups the performed sets of one exercise.
type LoggedExercise struct {
	ExerciseID int64
	Sets       []LoggedSet
}

// LoggedSession is a training session reported by the workout log.
type LoggedSession struct {
	ID        int64
	Exercises []LoggedExercise
}

// WorkoutLogResult summarises everything a logged session affected.
type WorkoutLogResult struct {
	GoalsProgressed          []Goal
	MissionWorkoutsCompleted []MissionWorkout
	MissionsCompleted        []Mission
	XPEarned                 int
}

// MissionView is the result of fetching the current week's mission. Mission
// is nil when no mission applies, with Reason explaining why.
type MissionView struct {
	Mission *Mission
	Reason  string
}
