// Package plan holds a user's training plan, its planned workouts and their
// completion records.
package plan

import (
	"time"

	"github.com/google/uuid"

	"github.com/mlehtola/tricoach/internal/errors"
)

var (
	// ErrNotFound is returned when a plan, workout or completion does not exist.
	ErrNotFound = errors.NewSentinel("not found")
	// ErrConflict is returned when a storage uniqueness constraint rejects a
	// write, e.g. two concurrent commits for the same planned workout.
	ErrConflict = errors.NewSentinel("conflicting completion")
)

// Discipline is the sport of a planned workout.
type Discipline string

const (
	DisciplineSwim     Discipline = "swim"
	DisciplineBike     Discipline = "bike"
	DisciplineRun      Discipline = "run"
	DisciplineBrick    Discipline = "brick"
	DisciplineStrength Discipline = "strength"
	DisciplineRest     Discipline = "rest"
)

// Status is the lifecycle state of a training plan.
type Status string

const (
	StatusActive    Status = "active"
	StatusCompleted Status = "completed"
	StatusAbandoned Status = "abandoned"
)

// Plan is an athlete's instantiation of a training plan template.
type Plan struct {
	ID          uuid.UUID
	AthleteID   int
	Name        string
	StartDate   time.Time
	CurrentWeek int
	TotalWeeks  int
	Status      Status
}

// Workout is a template-derived training session target. It is created when
// the plan is instantiated and never mutated afterwards.
//
// Target fields are pointers because not every workout prescribes them: a
// rest day has neither, a strength session typically has only a duration.
type Workout struct {
	ID                    int64
	PlanID                uuid.UUID
	Week                  int
	Day                   int // 1 = Monday ... 7 = Sunday.
	Discipline            Discipline
	TargetDurationMinutes *int
	TargetDistanceMiles   *float64
	Description           string
}

// Completion records that a planned workout was either done or deliberately
// skipped. At most one completion exists per (plan, workout) pair.
type Completion struct {
	PlanID                uuid.UUID
	WorkoutID             int64
	ActivityID            *int64
	Skipped               bool
	SkipReason            string
	CompletedDate         *time.Time
	ActualDurationMinutes *int
	ActualDistanceMiles   *float64
	Notes                 string
}

// ScheduledWorkout is a workout projected onto the calendar, joined with its
// completion if one exists.
type ScheduledWorkout struct {
	Workout
	ScheduledDate time.Time
	Today         bool
	Overdue       bool
	Completion    *Completion
}
