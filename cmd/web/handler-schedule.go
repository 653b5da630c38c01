package main

import (
	"net/http"
	"time"

	"github.com/mlehtola/tricoach/internal/contexthelpers"
)

// scheduleGET returns the plan's workouts projected onto the calendar, each
// joined with its completion when one exists.
func (app *application) scheduleGET(w http.ResponseWriter, r *http.Request) {
	planID, ok := app.parsePlanIDParam(w, r)
	if !ok {
		return
	}
	athleteID := contexthelpers.AuthenticatedAthleteID(r.Context())

	p, scheduled, err := app.planService.Schedule(r.Context(), athleteID, planID)
	if err != nil {
		app.domainError(w, r, err)
		return
	}

	workouts := make([]scheduledWorkoutJSON, 0, len(scheduled))
	for _, sw := range scheduled {
		workouts = append(workouts, toScheduledWorkoutJSON(sw))
	}

	app.writeJSON(w, r, http.StatusOK, envelope{
		"plan": envelope{
			"id":           p.ID.String(),
			"name":         p.Name,
			"start_date":   p.StartDate.Format(time.DateOnly),
			"current_week": p.CurrentWeek,
			"total_weeks":  p.TotalWeeks,
			"status":       string(p.Status),
		},
		"workouts": workouts,
	})
}
