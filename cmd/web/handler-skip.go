package main

import (
	"net/http"
	"strings"

	"github.com/mlehtola/tricoach/internal/contexthelpers"
)

// workoutSkipPOST marks a planned workout as deliberately not done.
func (app *application) workoutSkipPOST(w http.ResponseWriter, r *http.Request) {
	planID, ok := app.parsePlanIDParam(w, r)
	if !ok {
		return
	}
	workoutID, ok := app.parseWorkoutIDParam(w, r)
	if !ok {
		return
	}
	athleteID := contexthelpers.AuthenticatedAthleteID(r.Context())

	var req struct {
		Reason string `json:"reason"`
	}
	if !app.decodeJSON(w, r, &req) {
		return
	}
	req.Reason = strings.TrimSpace(req.Reason)
	if req.Reason == "" {
		app.clientError(w, r, http.StatusBadRequest, "reason is required")
		return
	}

	if err := app.planService.Skip(r.Context(), athleteID, planID, workoutID, req.Reason); err != nil {
		app.domainError(w, r, err)
		return
	}

	app.writeJSON(w, r, http.StatusOK, envelope{"status": "skipped"})
}
