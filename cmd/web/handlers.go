package main

import (
	"time"

	"github.com/mlehtola/tricoach/internal/activity"
	"github.com/mlehtola/tricoach/internal/matching"
	"github.com/mlehtola/tricoach/internal/plan"
)

// JSON shapes shared by the handlers. Dates without a time of day are
// rendered as 2006-01-02, timestamps as RFC 3339.

type scheduledWorkoutJSON struct {
	ID                    int64           `json:"id"`
	Week                  int             `json:"week"`
	Day                   int             `json:"day"`
	Discipline            string          `json:"discipline"`
	TargetDurationMinutes *int            `json:"target_duration_minutes,omitempty"`
	TargetDistanceMiles   *float64        `json:"target_distance_miles,omitempty"`
	Description           string          `json:"description,omitempty"`
	ScheduledDate         string          `json:"scheduled_date"`
	Today                 bool            `json:"today"`
	Overdue               bool            `json:"overdue"`
	Completion            *completionJSON `json:"completion,omitempty"`
}

type completionJSON struct {
	WorkoutID             int64    `json:"workout_id"`
	ActivityID            *int64   `json:"activity_id,omitempty"`
	Skipped               bool     `json:"skipped"`
	SkipReason            string   `json:"skip_reason,omitempty"`
	CompletedDate         *string  `json:"completed_date,omitempty"`
	ActualDurationMinutes *int     `json:"actual_duration_minutes,omitempty"`
	ActualDistanceMiles   *float64 `json:"actual_distance_miles,omitempty"`
	Notes                 string   `json:"notes,omitempty"`
}

type activityJSON struct {
	ID                  int64     `json:"id"`
	Name                string    `json:"name"`
	SportType           string    `json:"sport_type"`
	StartDate           time.Time `json:"start_date"`
	MovingTimeSeconds   int       `json:"moving_time_seconds"`
	DistanceMeters      *float64  `json:"distance_meters,omitempty"`
	AverageHeartRate    *float64  `json:"average_heart_rate,omitempty"`
	AveragePowerWatts   *float64  `json:"average_power_watts,omitempty"`
	ElevationGainMeters *float64  `json:"elevation_gain_meters,omitempty"`
}

type candidateJSON struct {
	Workout    scheduledWorkoutJSON `json:"workout"`
	Activity   activityJSON         `json:"activity"`
	Confidence int                  `json:"confidence"`
	Reasons    []string             `json:"reasons,omitempty"`
	Warnings   []string             `json:"warnings,omitempty"`
}

type matchResultJSON struct {
	HighConfidence      []candidateJSON        `json:"high_confidence"`
	MediumConfidence    []candidateJSON        `json:"medium_confidence"`
	LowConfidence       []candidateJSON        `json:"low_confidence"`
	UnmatchedWorkouts   []scheduledWorkoutJSON `json:"unmatched_workouts"`
	UnmatchedActivities []activityJSON         `json:"unmatched_activities"`
}

func toScheduledWorkoutJSON(sw plan.ScheduledWorkout) scheduledWorkoutJSON {
	out := scheduledWorkoutJSON{
		ID:                    sw.ID,
		Week:                  sw.Week,
		Day:                   sw.Day,
		Discipline:            string(sw.Discipline),
		TargetDurationMinutes: sw.TargetDurationMinutes,
		TargetDistanceMiles:   sw.TargetDistanceMiles,
		Description:           sw.Description,
		ScheduledDate:         sw.ScheduledDate.Format(time.DateOnly),
		Today:                 sw.Today,
		Overdue:               sw.Overdue,
	}
	if sw.Completion != nil {
		c := toCompletionJSON(*sw.Completion)
		out.Completion = &c
	}
	return out
}

func toCompletionJSON(c plan.Completion) completionJSON {
	out := completionJSON{
		WorkoutID:             c.WorkoutID,
		ActivityID:            c.ActivityID,
		Skipped:               c.Skipped,
		SkipReason:            c.SkipReason,
		ActualDurationMinutes: c.ActualDurationMinutes,
		ActualDistanceMiles:   c.ActualDistanceMiles,
		Notes:                 c.Notes,
	}
	if c.CompletedDate != nil {
		s := c.CompletedDate.Format(time.DateOnly)
		out.CompletedDate = &s
	}
	return out
}

func toActivityJSON(a activity.Activity) activityJSON {
	return activityJSON{
		ID:                  a.ID,
		Name:                a.Name,
		SportType:           a.SportType,
		StartDate:           a.StartDate,
		MovingTimeSeconds:   a.MovingTimeSeconds,
		DistanceMeters:      a.DistanceMeters,
		AverageHeartRate:    a.AverageHeartRate,
		AveragePowerWatts:   a.AveragePowerWatts,
		ElevationGainMeters: a.ElevationGainMeters,
	}
}

func toCandidateJSON(c matching.Candidate) candidateJSON {
	return candidateJSON{
		Workout:    toScheduledWorkoutJSON(c.Workout),
		Activity:   toActivityJSON(c.Activity),
		Confidence: c.Confidence,
		Reasons:    c.Reasons,
		Warnings:   c.Warnings,
	}
}

func toMatchResultJSON(r matching.Result) matchResultJSON {
	out := matchResultJSON{
		HighConfidence:      []candidateJSON{},
		MediumConfidence:    []candidateJSON{},
		LowConfidence:       []candidateJSON{},
		UnmatchedWorkouts:   []scheduledWorkoutJSON{},
		UnmatchedActivities: []activityJSON{},
	}
	for _, c := range r.HighConfidence {
		out.HighConfidence = append(out.HighConfidence, toCandidateJSON(c))
	}
	for _, c := range r.MediumConfidence {
		out.MediumConfidence = append(out.MediumConfidence, toCandidateJSON(c))
	}
	for _, c := range r.LowConfidence {
		out.LowConfidence = append(out.LowConfidence, toCandidateJSON(c))
	}
	for _, w := range r.UnmatchedWorkouts {
		out.UnmatchedWorkouts = append(out.UnmatchedWorkouts, toScheduledWorkoutJSON(w))
	}
	for _, a := range r.UnmatchedActivities {
		out.UnmatchedActivities = append(out.UnmatchedActivities, toActivityJSON(a))
	}
	return out
}
