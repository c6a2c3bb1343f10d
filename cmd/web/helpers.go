package main

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/nchua/liftquest/internal/coach"
	"github.com/nchua/liftquest/internal/errors"
)

type errorResponse struct {
	Error string `json:"error"`
}

func (app *application) writeJSON(w http.ResponseWriter, r *http.Request, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		app.logger.LogAttrs(r.Context(), slog.LevelError, "encode response", errors.SlogError(err))
	}
}

func (app *application) serverError(w http.ResponseWriter, r *http.Request, err error) {
	app.logger.LogAttrs(r.Context(), slog.LevelError, "server error", errors.SlogError(err))
	app.writeJSON(w, r, http.StatusInternalServerError, errorResponse{Error: "internal server error"})
}

func (app *application) clientError(w http.ResponseWriter, r *http.Request, status int, message string) {
	app.writeJSON(w, r, status, errorResponse{Error: message})
}

// coachError maps the coaching engine's sentinel errors onto HTTP statuses.
// Anything unrecognised is a server error.
func (app *application) coachError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, coach.ErrNotFound):
		app.clientError(w, r, http.StatusNotFound, "not found")
	case errors.Is(err, coach.ErrGoalLimitExceeded):
		app.clientError(w, r, http.StatusUnprocessableEntity, "active goal limit reached")
	case errors.Is(err, coach.ErrMissionExpired):
		app.clientError(w, r, http.StatusConflict, "mission expired")
	case errors.Is(err, coach.ErrInvalidTransition):
		app.clientError(w, r, http.StatusConflict, "invalid state transition")
	case errors.Is(err, coach.ErrInvalidInput):
		app.clientError(w, r, http.StatusBadRequest, err.Error())
	default:
		app.serverError(w, r, err)
	}
}

// readJSON decodes the request body into dst. Returns false after responding
// when the body is not valid JSON for dst.
func (app *application) readJSON(w http.ResponseWriter, r *http.Request, dst any) bool {
	decoder := json.NewDecoder(r.Body)
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(dst); err != nil {
		app.clientError(w, r, http.StatusBadRequest, "invalid request body")
		return false
	}
	return true
}

// parseIDParam parses an int64 path parameter. On failure, sends HTTP 404
// response automatically.
func (app *application) parseIDParam(w http.ResponseWriter, r *http.Request, name string) (int64, bool) {
	id, err := strconv.ParseInt(r.PathValue(name), 10, 64)
	if err != nil || id < 1 {
		app.clientError(w, r, http.StatusNotFound, "not found")
		return 0, false
	}
	return id, true
}
