// Package matching reconciles externally recorded activities against a
// training plan's scheduled workouts. It scores every plausible pairing,
// resolves a one-to-one assignment and commits accepted pairs as workout
// completions.
package matching

import (
	"github.com/mlehtola/tricoach/internal/activity"
	"github.com/mlehtola/tricoach/internal/errors"
	"github.com/mlehtola/tricoach/internal/plan"
)

// ErrNoMatch is returned by AutoMatch when zero or more than one eligible
// workout exists for the activity's day. It is a legitimate negative result,
// not a failure.
var ErrNoMatch = errors.NewSentinel("no unambiguous match")

// Candidate pairs a scheduled workout with an activity at a given confidence.
// Candidates live only within a single resolution pass and are never
// persisted.
type Candidate struct {
	Workout    plan.ScheduledWorkout
	Activity   activity.Activity
	Confidence int
	Reasons    []string
	Warnings   []string
}

// Result is the outcome of one resolution pass over a plan's lookback window.
// The three tiers partition the claimed candidates; workouts and activities
// never claimed are reported on their respective unmatched lists.
type Result struct {
	HighConfidence      []Candidate
	MediumConfidence    []Candidate
	LowConfidence       []Candidate
	UnmatchedWorkouts   []plan.ScheduledWorkout
	UnmatchedActivities []activity.Activity
}
