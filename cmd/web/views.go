package main

import (
	"time"

	"github.com/nchua/liftquest/internal/coach"
)

// JSON views over the coaching engine's domain types. Dates are rendered as
// calendar days, timestamps as RFC 3339.

type goalView struct {
	ID           int64      `json:"id"`
	ExerciseID   int64      `json:"exercise_id"`
	TargetWeight float64    `json:"target_weight"`
	TargetReps   int        `json:"target_reps"`
	WeightUnit   string     `json:"weight_unit"`
	Deadline     string     `json:"deadline"`
	StartingE1RM *float64   `json:"starting_e1rm,omitempty"`
	CurrentE1RM  *float64   `json:"current_e1rm,omitempty"`
	Status       string     `json:"status"`
	Notes        string     `json:"notes,omitempty"`
	CreatedAt    time.Time  `json:"created_at"`
	AchievedAt   *time.Time `json:"achieved_at,omitempty"`
	AbandonedAt  *time.Time `json:"abandoned_at,omitempty"`
}

func newGoalView(goal coach.Goal) goalView {
	return goalView{
		ID:           goal.ID,
		ExerciseID:   goal.ExerciseID,
		TargetWeight: goal.TargetWeight,
		TargetReps:   goal.TargetReps,
		WeightUnit:   string(goal.WeightUnit),
		Deadline:     goal.Deadline.Format(time.DateOnly),
		StartingE1RM: goal.StartingE1RM,
		CurrentE1RM:  goal.CurrentE1RM,
		Status:       string(goal.Status),
		Notes:        goal.Notes,
		CreatedAt:    goal.CreatedAt,
		AchievedAt:   goal.AchievedAt,
		AbandonedAt:  goal.AbandonedAt,
	}
}

func newGoalViews(goals []coach.Goal) []goalView {
	views := make([]goalView, len(goals))
	for i, goal := range goals {
		views[i] = newGoalView(goal)
	}
	return views
}

type paceView struct {
	Status             string  `json:"status"`
	ProgressPercent    float64 `json:"progress_percent"`
	CurrentE1RM        float64 `json:"current_e1rm"`
	TargetE1RM         float64 `json:"target_e1rm"`
	RequiredWeeklyGain float64 `json:"required_weekly_gain"`
	ActualWeeklyGain   float64 `json:"actual_weekly_gain"`
	WeeksRemaining     int     `json:"weeks_remaining"`
}

func newPaceView(report coach.PaceReport) paceView {
	return paceView{
		Status:             string(report.Status),
		ProgressPercent:    report.ProgressPercent,
		CurrentE1RM:        report.CurrentE1RM,
		TargetE1RM:         report.TargetE1RM,
		RequiredWeeklyGain: report.RequiredWeeklyGain,
		ActualWeeklyGain:   report.ActualWeeklyGain,
		WeeksRemaining:     report.WeeksRemaining,
	}
}

type prescriptionView struct {
	ExerciseID int64    `json:"exercise_id"`
	OrderIndex int      `json:"order_index"`
	Sets       int      `json:"sets"`
	Reps       int      `json:"reps"`
	Weight     *float64 `json:"weight,omitempty"`
	WeightUnit string   `json:"weight_unit"`
	Notes      string   `json:"notes,omitempty"`
}

type missionWorkoutView struct {
	ID                 int64              `json:"id"`
	DayNumber          int                `json:"day_number"`
	Focus              string             `json:"focus"`
	PrimaryLift        *string            `json:"primary_lift,omitempty"`
	Status             string             `json:"status"`
	CompletedWorkoutID *int64             `json:"completed_workout_id,omitempty"`
	CompletedAt        *time.Time         `json:"completed_at,omitempty"`
	Prescriptions      []prescriptionView `json:"prescriptions"`
}

type missionGoalView struct {
	GoalID            int64 `json:"goal_id"`
	WorkoutsCompleted int   `json:"workouts_completed"`
	IsSatisfied       bool  `json:"is_satisfied"`
}

type missionDetailView struct {
	ID              int64                `json:"id"`
	TrainingSplit   string               `json:"training_split"`
	WeekStart       string               `json:"week_start"`
	WeekEnd         string               `json:"week_end"`
	Status          string               `json:"status"`
	XPReward        int                  `json:"xp_reward"`
	XPEarned        int                  `json:"xp_earned"`
	WeeklyTarget    string               `json:"weekly_target"`
	CoachingMessage string               `json:"coaching_message"`
	AcceptedAt      *time.Time           `json:"accepted_at,omitempty"`
	CompletedAt     *time.Time           `json:"completed_at,omitempty"`
	DeclinedAt      *time.Time           `json:"declined_at,omitempty"`
	Goals           []missionGoalView    `json:"goals"`
	Workouts        []missionWorkoutView `json:"workouts"`
}

func newMissionDetailView(mission coach.Mission) missionDetailView {
	view := missionDetailView{
		ID:              mission.ID,
		TrainingSplit:   string(mission.TrainingSplit),
		WeekStart:       mission.WeekStart.Format(time.DateOnly),
		WeekEnd:         mission.WeekEnd.Format(time.DateOnly),
		Status:          string(mission.Status),
		XPReward:        mission.XPReward,
		XPEarned:        mission.XPEarned,
		WeeklyTarget:    mission.WeeklyTarget,
		CoachingMessage: mission.CoachingMessage,
		AcceptedAt:      mission.AcceptedAt,
		CompletedAt:     mission.CompletedAt,
		DeclinedAt:      mission.DeclinedAt,
		Goals:           make([]missionGoalView, 0, len(mission.Goals)),
		Workouts:        make([]missionWorkoutView, 0, len(mission.Workouts)),
	}
	for _, mg := range mission.Goals {
		view.Goals = append(view.Goals, missionGoalView{
			GoalID:            mg.GoalID,
			WorkoutsCompleted: mg.WorkoutsCompleted,
			IsSatisfied:       mg.IsSatisfied,
		})
	}
	for _, workout := range mission.Workouts {
		workoutView := missionWorkoutView{
			ID:                 workout.ID,
			DayNumber:          workout.DayNumber,
			Focus:              workout.Focus,
			PrimaryLift:        workout.PrimaryLift,
			Status:             string(workout.Status),
			CompletedWorkoutID: workout.CompletedWorkoutID,
			CompletedAt:        workout.CompletedAt,
			Prescriptions:      make([]prescriptionView, 0, len(workout.Prescriptions)),
		}
		for _, p := range workout.Prescriptions {
			workoutView.Prescriptions = append(workoutView.Prescriptions, prescriptionView{
				ExerciseID: p.ExerciseID,
				OrderIndex: p.OrderIndex,
				Sets:       p.Sets,
				Reps:       p.Reps,
				Weight:     p.Weight,
				WeightUnit: string(p.WeightUnit),
				Notes:      p.Notes,
			})
		}
		view.Workouts = append(view.Workouts, workoutView)
	}
	return view
}
