package main

import (
	"net/http"
)

func (app *application) routes() *http.ServeMux {
	mux := http.NewServeMux()

	var (
		base = func(next http.Handler) http.Handler {
			return app.logAndTraceRequest(secureHeaders(app.crossOriginProtection(app.timeout(next))))
		}
		session = func(next http.Handler) http.Handler {
			return app.recoverPanic(noCache(app.sessionManager.LoadAndSave(app.authenticate(base(next)))))
		}
		mustSession = func(next http.Handler) http.Handler {
			return session(app.mustAuthenticate(next))
		}
	)

	mux.Handle("POST /api/login", session(http.HandlerFunc(app.loginPOST)))
	mux.Handle("POST /api/logout", session(http.HandlerFunc(app.logoutPOST)))
	mux.Handle("GET /api/healthy", session(http.HandlerFunc(app.healthy)))

	mux.Handle("GET /api/goals", mustSession(http.HandlerFunc(app.goalsGET)))
	mux.Handle("POST /api/goals", mustSession(http.HandlerFunc(app.goalsPOST)))
	mux.Handle("POST /api/goals/{goalID}/update", mustSession(http.HandlerFunc(app.goalUpdatePOST)))
	mux.Handle("POST /api/goals/{goalID}/abandon", mustSession(http.HandlerFunc(app.goalAbandonPOST)))
	mux.Handle("GET /api/goals/{goalID}/pace", mustSession(http.HandlerFunc(app.goalPaceGET)))

	mux.Handle("GET /api/mission", mustSession(http.HandlerFunc(app.missionGET)))
	mux.Handle("POST /api/missions/{missionID}/accept", mustSession(http.HandlerFunc(app.missionAcceptPOST)))
	mux.Handle("POST /api/missions/{missionID}/decline", mustSession(http.HandlerFunc(app.missionDeclinePOST)))

	mux.Handle("POST /api/workouts", mustSession(http.HandlerFunc(app.workoutsPOST)))

	return mux
}
