package main

import (
	"net/http"

	"github.com/nchua/liftquest/internal/coach"
	"github.com/nchua/liftquest/internal/contexthelpers"
)

// workoutsPOST ingests a logged training session. Goal progress and mission
// crediting settle before the response is written.
func (app *application) workoutsPOST(w http.ResponseWriter, r *http.Request) {
	userID := contexthelpers.AuthenticatedUserID(r.Context())

	var input struct {
		ID        int64 `json:"id"`
		Exercises []struct {
			ExerciseID int64 `json:"exercise_id"`
			Sets       []struct {
				Weight float64 `json:"weight"`
				Reps   int     `json:"reps"`
			} `json:"sets"`
		} `json:"exercises"`
	}
	if !app.readJSON(w, r, &input) {
		return
	}
	if len(input.Exercises) == 0 {
		app.clientError(w, r, http.StatusBadRequest, "at least one exercise is required")
		return
	}

	session := coach.LoggedSession{ID: input.ID}
	for _, exercise := range input.Exercises {
		logged := coach.LoggedExercise{ExerciseID: exercise.ExerciseID}
		for _, set := range exercise.Sets {
			logged.Sets = append(logged.Sets, coach.LoggedSet{Weight: set.Weight, Reps: set.Reps})
		}
		session.Exercises = append(session.Exercises, logged)
	}

	result, err := app.coachService.OnWorkoutLogged(r.Context(), userID, session)
	if err != nil {
		app.coachError(w, r, err)
		return
	}

	payload := struct {
		GoalsProgressed   []goalView           `json:"goals_progressed"`
		WorkoutsCompleted []missionWorkoutView `json:"mission_workouts_completed"`
		MissionsCompleted []missionDetailView  `json:"missions_completed"`
		XPEarned          int                  `json:"xp_earned"`
	}{
		GoalsProgressed:   newGoalViews(result.GoalsProgressed),
		WorkoutsCompleted: make([]missionWorkoutView, 0, len(result.MissionWorkoutsCompleted)),
		MissionsCompleted: make([]missionDetailView, 0, len(result.MissionsCompleted)),
		XPEarned:          result.XPEarned,
	}
	if payload.GoalsProgressed == nil {
		payload.GoalsProgressed = []goalView{}
	}
	for _, workout := range result.MissionWorkoutsCompleted {
		payload.WorkoutsCompleted = append(payload.WorkoutsCompleted, missionWorkoutView{
			ID:                 workout.ID,
			DayNumber:          workout.DayNumber,
			Focus:              workout.Focus,
			PrimaryLift:        workout.PrimaryLift,
			Status:             string(workout.Status),
			CompletedWorkoutID: workout.CompletedWorkoutID,
			CompletedAt:        workout.CompletedAt,
			Prescriptions:      []prescriptionView{},
		})
	}
	for _, mission := range result.MissionsCompleted {
		payload.MissionsCompleted = append(payload.MissionsCompleted, newMissionDetailView(mission))
	}
	app.writeJSON(w, r, http.StatusOK, payload)
}
