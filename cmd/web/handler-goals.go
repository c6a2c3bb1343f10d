package main

import (
	"net/http"
	"time"

	"github.com/nchua/liftquest/internal/coach"
	"github.com/nchua/liftquest/internal/contexthelpers"
)

// goalsGET lists the user's goals. An optional status query parameter
// filters by lifecycle state.
func (app *application) goalsGET(w http.ResponseWriter, r *http.Request) {
	userID := contexthelpers.AuthenticatedUserID(r.Context())

	var statuses []coach.GoalStatus
	if status := r.URL.Query().Get("status"); status != "" {
		statuses = append(statuses, coach.GoalStatus(status))
	}

	goals, err := app.coachService.ListGoals(r.Context(), userID, statuses...)
	if err != nil {
		app.serverError(w, r, err)
		return
	}
	app.writeJSON(w, r, http.StatusOK, struct {
		Goals []goalView `json:"goals"`
	}{Goals: newGoalViews(goals)})
}

// goalsPOST creates a goal.
func (app *application) goalsPOST(w http.ResponseWriter, r *http.Request) {
	userID := contexthelpers.AuthenticatedUserID(r.Context())

	var input struct {
		ExerciseName string  `json:"exercise_name"`
		TargetWeight float64 `json:"target_weight"`
		TargetReps   int     `json:"target_reps"`
		WeightUnit   string  `json:"weight_unit"`
		Deadline     string  `json:"deadline"`
		Notes        string  `json:"notes"`
	}
	if !app.readJSON(w, r, &input) {
		return
	}
	deadline, err := time.Parse(time.DateOnly, input.Deadline)
	if err != nil {
		app.clientError(w, r, http.StatusBadRequest, "deadline must be a date formatted YYYY-MM-DD")
		return
	}

	goal, err := app.coachService.CreateGoal(r.Context(), userID, coach.GoalDraft{
		ExerciseName: input.ExerciseName,
		TargetWeight: input.TargetWeight,
		TargetReps:   input.TargetReps,
		WeightUnit:   coach.WeightUnit(input.WeightUnit),
		Deadline:     deadline,
		Notes:        input.Notes,
	})
	if err != nil {
		app.coachError(w, r, err)
		return
	}
	app.writeJSON(w, r, http.StatusCreated, newGoalView(goal))
}

// goalUpdatePOST adjusts an active goal's target, deadline or notes.
func (app *application) goalUpdatePOST(w http.ResponseWriter, r *http.Request) {
	userID := contexthelpers.AuthenticatedUserID(r.Context())
	goalID, ok := app.parseIDParam(w, r, "goalID")
	if !ok {
		return
	}

	var input struct {
		TargetWeight *float64 `json:"target_weight"`
		TargetReps   *int     `json:"target_reps"`
		Deadline     *string  `json:"deadline"`
		Notes        *string  `json:"notes"`
	}
	if !app.readJSON(w, r, &input) {
		return
	}

	update := coach.GoalUpdate{
		TargetWeight: input.TargetWeight,
		TargetReps:   input.TargetReps,
		Notes:        input.Notes,
	}
	if input.Deadline != nil {
		deadline, err := time.Parse(time.DateOnly, *input.Deadline)
		if err != nil {
			app.clientError(w, r, http.StatusBadRequest, "deadline must be a date formatted YYYY-MM-DD")
			return
		}
		update.Deadline = &deadline
	}

	goal, err := app.coachService.UpdateGoal(r.Context(), userID, goalID, update)
	if err != nil {
		app.coachError(w, r, err)
		return
	}
	app.writeJSON(w, r, http.StatusOK, newGoalView(goal))
}

// goalAbandonPOST abandons an active goal.
func (app *application) goalAbandonPOST(w http.ResponseWriter, r *http.Request) {
	userID := contexthelpers.AuthenticatedUserID(r.Context())
	goalID, ok := app.parseIDParam(w, r, "goalID")
	if !ok {
		return
	}

	goal, err := app.coachService.AbandonGoal(r.Context(), userID, goalID)
	if err != nil {
		app.coachError(w, r, err)
		return
	}
	app.writeJSON(w, r, http.StatusOK, newGoalView(goal))
}

// goalPaceGET reports whether the goal is trending toward its deadline.
func (app *application) goalPaceGET(w http.ResponseWriter, r *http.Request) {
	userID := contexthelpers.AuthenticatedUserID(r.Context())
	goalID, ok := app.parseIDParam(w, r, "goalID")
	if !ok {
		return
	}

	report, err := app.coachService.GoalPace(r.Context(), userID, goalID)
	if err != nil {
		app.coachError(w, r, err)
		return
	}
	app.writeJSON(w, r, http.StatusOK, newPaceView(report))
}
