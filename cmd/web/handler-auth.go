package main

import (
	"net/http"
	"strings"
)

// loginPOST signs the user in by display name, creating the account on first
// login.
func (app *application) loginPOST(w http.ResponseWriter, r *http.Request) {
	var input struct {
		DisplayName string `json:"display_name"`
	}
	if !app.readJSON(w, r, &input) {
		return
	}
	input.DisplayName = strings.TrimSpace(input.DisplayName)
	if input.DisplayName == "" {
		app.clientError(w, r, http.StatusBadRequest, "display_name is required")
		return
	}

	userID, err := app.coachService.EnsureUser(r.Context(), input.DisplayName)
	if err != nil {
		app.serverError(w, r, err)
		return
	}

	if err = app.sessionManager.RenewToken(r.Context()); err != nil {
		app.serverError(w, r, err)
		return
	}
	app.sessionManager.Put(r.Context(), sessionKeyUserID, userID)

	app.writeJSON(w, r, http.StatusOK, struct {
		UserID      int64  `json:"user_id"`
		DisplayName string `json:"display_name"`
	}{UserID: userID, DisplayName: input.DisplayName})
}

// logoutPOST destroys the session.
func (app *application) logoutPOST(w http.ResponseWriter, r *http.Request) {
	if err := app.sessionManager.RenewToken(r.Context()); err != nil {
		app.serverError(w, r, err)
		return
	}
	app.sessionManager.Remove(r.Context(), sessionKeyUserID)
	w.WriteHeader(http.StatusNoContent)
}

// healthy responds with a JSON object indicating that the server is healthy.
func (app *application) healthy(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	_, _ = w.Write([]byte(`{"status":"ok"}`))
}
