// Package activity stores workout records ingested from the external
// fitness-tracking service.
package activity

import (
	"time"

	"github.com/mlehtola/tricoach/internal/errors"
)

// ErrNotFound is returned when an activity does not exist, e.g. because it
// was deleted upstream after it was suggested as a match.
var ErrNotFound = errors.NewSentinel("activity not found")

// Activity is a single recorded session as reported by the tracking service.
// It is immutable once stored. The identifier comes from the source system
// and is unique per source.
//
// Optional fields are pointers so that absence stays distinguishable from
// zero: an activity without distance is not an activity of zero distance.
type Activity struct {
	ID                  int64
	AthleteID           int
	Name                string
	SportType           string
	StartDate           time.Time
	MovingTimeSeconds   int
	DistanceMeters      *float64
	AverageHeartRate    *float64
	AveragePowerWatts   *float64
	ElevationGainMeters *float64
}
