package main

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus/promhttp"
)

func (app *application) routes() *http.ServeMux {
	mux := http.NewServeMux()

	var (
		base = func(next http.Handler) http.Handler {
			return app.logAndTraceRequest(secureHeaders(app.crossOriginProtection(app.timeout(next))))
		}
		noAuth = func(next http.Handler) http.Handler {
			return app.recoverPanic(base(next))
		}
		session = func(next http.Handler) http.Handler {
			return app.recoverPanic(noCache(app.sessionManager.LoadAndSave(
				app.authenticate(base(next)))))
		}
		mustSession = func(next http.Handler) http.Handler {
			return session(app.mustAuthenticate(next))
		}
	)

	mux.Handle("POST /api/session", session(http.HandlerFunc(app.sessionPOST)))
	mux.Handle("POST /api/logout", mustSession(http.HandlerFunc(app.logoutPOST)))
	mux.Handle("GET /api/healthy", noAuth(http.HandlerFunc(app.healthy)))

	mux.Handle("GET /api/plans/{planID}/schedule", mustSession(http.HandlerFunc(app.scheduleGET)))
	mux.Handle("GET /api/plans/{planID}/matches", mustSession(http.HandlerFunc(app.matchesGET)))
	mux.Handle("POST /api/plans/{planID}/matches/accept", mustSession(http.HandlerFunc(app.matchAcceptPOST)))
	mux.Handle("POST /api/plans/{planID}/workouts/{workoutID}/skip", mustSession(http.HandlerFunc(app.workoutSkipPOST)))

	mux.Handle("POST /api/activities", mustSession(http.HandlerFunc(app.activityPOST)))

	mux.Handle("GET /metrics", noAuth(promhttp.Handler()))

	return mux
}
