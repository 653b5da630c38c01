package main

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/google/uuid"

	"github.com/mlehtola/tricoach/internal/activity"
	"github.com/mlehtola/tricoach/internal/errors"
	"github.com/mlehtola/tricoach/internal/matching"
	"github.com/mlehtola/tricoach/internal/plan"
)

// maxRequestBody caps JSON request bodies at one megabyte.
const maxRequestBody = 1 << 20

func (app *application) serverError(w http.ResponseWriter, r *http.Request, err error) {
	app.logger.LogAttrs(r.Context(), slog.LevelError, "server error", errors.SlogError(err))
	app.writeJSON(w, r, http.StatusInternalServerError, envelope{"error": "internal server error"})
}

func (app *application) clientError(w http.ResponseWriter, r *http.Request, status int, message string) {
	app.writeJSON(w, r, status, envelope{"error": message})
}

// domainError translates service errors into HTTP responses. Unknown errors
// fall through to a 500.
func (app *application) domainError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, plan.ErrNotFound):
		app.clientError(w, r, http.StatusNotFound, "plan or workout no longer available")
	case errors.Is(err, activity.ErrNotFound):
		app.clientError(w, r, http.StatusNotFound, "activity no longer available")
	case errors.Is(err, plan.ErrConflict):
		app.clientError(w, r, http.StatusConflict, "already completed")
	case errors.Is(err, matching.ErrNoMatch):
		app.clientError(w, r, http.StatusUnprocessableEntity, "no unambiguous match")
	default:
		app.serverError(w, r, err)
	}
}

type envelope map[string]any

func (app *application) writeJSON(w http.ResponseWriter, r *http.Request, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		app.logger.LogAttrs(r.Context(), slog.LevelError, "encode response", slog.Any("error", err))
	}
}

// decodeJSON reads a JSON request body into dst. On failure it sends a 400
// response and returns false.
func (app *application) decodeJSON(w http.ResponseWriter, r *http.Request, dst any) bool {
	r.Body = http.MaxBytesReader(w, r.Body, maxRequestBody)
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(dst); err != nil {
		app.clientError(w, r, http.StatusBadRequest, fmt.Sprintf("malformed request body: %v", err))
		return false
	}
	return true
}

// parsePlanIDParam parses the "planID" path parameter from the request URL.
// On failure, sends HTTP 404 response automatically.
func (app *application) parsePlanIDParam(w http.ResponseWriter, r *http.Request) (uuid.UUID, bool) {
	planID, err := uuid.Parse(r.PathValue("planID"))
	if err != nil {
		app.clientError(w, r, http.StatusNotFound, "unknown plan")
		return uuid.UUID{}, false
	}
	return planID, true
}

// parseWorkoutIDParam parses the "workoutID" path parameter from the request URL.
// On failure, sends HTTP 404 response automatically.
func (app *application) parseWorkoutIDParam(w http.ResponseWriter, r *http.Request) (int64, bool) {
	workoutID, err := strconv.ParseInt(r.PathValue("workoutID"), 10, 64)
	if err != nil {
		app.clientError(w, r, http.StatusNotFound, "unknown workout")
		return 0, false
	}
	return workoutID, true
}
