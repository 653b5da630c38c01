package main

import (
	"net/http"
	"strconv"

	"github.com/mlehtola/tricoach/internal/contexthelpers"
)

// matchesGET resolves candidate pairings between the plan's uncompleted
// workouts and the athlete's recent activities for human review. The
// days_back query parameter overrides the configured lookback window.
func (app *application) matchesGET(w http.ResponseWriter, r *http.Request) {
	planID, ok := app.parsePlanIDParam(w, r)
	if !ok {
		return
	}
	athleteID := contexthelpers.AuthenticatedAthleteID(r.Context())

	lookbackDays := app.lookbackDays
	if daysBack := r.URL.Query().Get("days_back"); daysBack != "" {
		parsed, err := strconv.Atoi(daysBack)
		if err != nil || parsed <= 0 {
			app.clientError(w, r, http.StatusBadRequest, "days_back must be a positive integer")
			return
		}
		lookbackDays = parsed
	}

	result, err := app.matchingService.FindMatches(r.Context(), athleteID, planID, lookbackDays)
	if err != nil {
		app.domainError(w, r, err)
		return
	}

	app.writeJSON(w, r, http.StatusOK, toMatchResultJSON(result))
}

// matchAcceptPOST commits a reviewed pairing as a workout completion.
func (app *application) matchAcceptPOST(w http.ResponseWriter, r *http.Request) {
	planID, ok := app.parsePlanIDParam(w, r)
	if !ok {
		return
	}
	athleteID := contexthelpers.AuthenticatedAthleteID(r.Context())

	var req struct {
		WorkoutID  int64 `json:"workout_id"`
		ActivityID int64 `json:"activity_id"`
	}
	if !app.decodeJSON(w, r, &req) {
		return
	}
	if req.WorkoutID == 0 || req.ActivityID == 0 {
		app.clientError(w, r, http.StatusBadRequest, "workout_id and activity_id are required")
		return
	}

	completion, err := app.matchingService.AcceptMatch(r.Context(), athleteID, planID, req.WorkoutID, req.ActivityID)
	if err != nil {
		app.domainError(w, r, err)
		return
	}

	app.writeJSON(w, r, http.StatusOK, envelope{"completion": toCompletionJSON(completion)})
}
