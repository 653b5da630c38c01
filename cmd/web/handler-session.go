package main

import (
	"net/http"
	"strings"
)

// sessionKeyAthleteID is the session key holding the signed-in athlete's ID.
const sessionKeyAthleteID = "athleteID"

// sessionPOST signs an athlete in by display name, creating the athlete on
// first sight. Token renewal prevents session fixation.
func (app *application) sessionPOST(w http.ResponseWriter, r *http.Request) {
	var req struct {
		DisplayName string `json:"display_name"`
	}
	if !app.decodeJSON(w, r, &req) {
		return
	}
	req.DisplayName = strings.TrimSpace(req.DisplayName)
	if req.DisplayName == "" {
		app.clientError(w, r, http.StatusBadRequest, "display_name is required")
		return
	}

	athleteID, err := app.planService.EnsureAthlete(r.Context(), req.DisplayName)
	if err != nil {
		app.serverError(w, r, err)
		return
	}

	if err = app.sessionManager.RenewToken(r.Context()); err != nil {
		app.serverError(w, r, err)
		return
	}
	app.sessionManager.Put(r.Context(), sessionKeyAthleteID, athleteID)

	app.writeJSON(w, r, http.StatusOK, envelope{"athlete_id": athleteID})
}

// logoutPOST destroys the session.
func (app *application) logoutPOST(w http.ResponseWriter, r *http.Request) {
	if err := app.sessionManager.Destroy(r.Context()); err != nil {
		app.serverError(w, r, err)
		return
	}
	app.writeJSON(w, r, http.StatusOK, envelope{"status": "signed out"})
}
