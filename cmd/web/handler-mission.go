package main

import (
	"net/http"

	"github.com/nchua/liftquest/internal/contexthelpers"
)

// missionGET returns the mission for the week the user should currently see.
// When no mission applies, the response explains why instead.
func (app *application) missionGET(w http.ResponseWriter, r *http.Request) {
	userID := contexthelpers.AuthenticatedUserID(r.Context())

	view, err := app.coachService.CurrentMission(r.Context(), userID)
	if err != nil {
		app.coachError(w, r, err)
		return
	}

	var payload struct {
		Mission *missionDetailView `json:"mission"`
		Reason  string             `json:"reason,omitempty"`
	}
	if view.Mission != nil {
		detail := newMissionDetailView(*view.Mission)
		payload.Mission = &detail
	}
	payload.Reason = view.Reason
	app.writeJSON(w, r, http.StatusOK, payload)
}

// missionAcceptPOST accepts an offered mission.
func (app *application) missionAcceptPOST(w http.ResponseWriter, r *http.Request) {
	userID := contexthelpers.AuthenticatedUserID(r.Context())
	missionID, ok := app.parseIDParam(w, r, "missionID")
	if !ok {
		return
	}

	mission, err := app.coachService.AcceptMission(r.Context(), userID, missionID)
	if err != nil {
		app.coachError(w, r, err)
		return
	}
	app.writeJSON(w, r, http.StatusOK, newMissionDetailView(mission))
}

// missionDeclinePOST declines an offered mission.
func (app *application) missionDeclinePOST(w http.ResponseWriter, r *http.Request) {
	userID := contexthelpers.AuthenticatedUserID(r.Context())
	missionID, ok := app.parseIDParam(w, r, "missionID")
	if !ok {
		return
	}

	mission, err := app.coachService.DeclineMission(r.Context(), userID, missionID)
	if err != nil {
		app.coachError(w, r, err)
		return
	}
	app.writeJSON(w, r, http.StatusOK, newMissionDetailView(mission))
}
