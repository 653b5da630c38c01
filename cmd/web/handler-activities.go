package main

import (
	"net/http"
	"time"

	"github.com/mlehtola/tricoach/internal/activity"
	"github.com/mlehtola/tricoach/internal/contexthelpers"
)

// activityPOST ingests an activity delivered by the tracker sync process. The
// activity is stored and auto-matched against the athlete's active plan;
// whether a match was found is part of the response, never an error.
func (app *application) activityPOST(w http.ResponseWriter, r *http.Request) {
	athleteID := contexthelpers.AuthenticatedAthleteID(r.Context())

	var req struct {
		ID                  int64     `json:"id"`
		Name                string    `json:"name"`
		SportType           string    `json:"sport_type"`
		StartDate           time.Time `json:"start_date"`
		MovingTimeSeconds   int       `json:"moving_time_seconds"`
		DistanceMeters      *float64  `json:"distance_meters"`
		AverageHeartRate    *float64  `json:"average_heart_rate"`
		AveragePowerWatts   *float64  `json:"average_power_watts"`
		ElevationGainMeters *float64  `json:"elevation_gain_meters"`
	}
	if !app.decodeJSON(w, r, &req) {
		return
	}
	if req.ID == 0 || req.SportType == "" || req.StartDate.IsZero() {
		app.clientError(w, r, http.StatusBadRequest, "id, sport_type and start_date are required")
		return
	}

	completion, err := app.matchingService.IngestActivity(r.Context(), activity.Activity{
		ID:                  req.ID,
		AthleteID:           athleteID,
		Name:                req.Name,
		SportType:           req.SportType,
		StartDate:           req.StartDate,
		MovingTimeSeconds:   req.MovingTimeSeconds,
		DistanceMeters:      req.DistanceMeters,
		AverageHeartRate:    req.AverageHeartRate,
		AveragePowerWatts:   req.AveragePowerWatts,
		ElevationGainMeters: req.ElevationGainMeters,
	})
	if err != nil {
		app.domainError(w, r, err)
		return
	}

	response := envelope{"matched": completion != nil}
	if completion != nil {
		response["completion"] = toCompletionJSON(*completion)
	}
	app.writeJSON(w, r, http.StatusCreated, response)
}
