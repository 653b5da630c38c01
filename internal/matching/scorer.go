package matching

import (
	"fmt"
	"math"
	"time"

	"github.com/mlehtola/tricoach/internal/activity"
	"github.com/mlehtola/tricoach/internal/plan"
)

// milesPerMeter converts tracker distances to the plan's unit.
const milesPerMeter = 0.000621371

// minConfidence is the floor below which a candidate pair is discarded
// outright rather than offered for review.
const minConfidence = 40

// sportTypesByDiscipline maps a workout discipline to the external sport-type
// strings that count as the same kind of session. Strings are matched
// case-sensitively as delivered by the source. Disciplines without an entry,
// rest days and bricks, are never matched automatically.
var sportTypesByDiscipline = map[plan.Discipline][]string{
	plan.DisciplineSwim:     {"Swim"},
	plan.DisciplineBike:     {"Ride", "VirtualRide", "EBikeRide"},
	plan.DisciplineRun:      {"Run", "VirtualRun"},
	plan.DisciplineStrength: {"WeightTraining", "Workout"},
}

// disciplineMatches reports whether an activity's sport type belongs to the
// workout discipline's accepted set.
func disciplineMatches(d plan.Discipline, sportType string) bool {
	for _, t := range sportTypesByDiscipline[d] {
		if t == sportType {
			return true
		}
	}
	return false
}

// dayDifference is the absolute difference in calendar days between two
// instants, ignoring the time of day.
func dayDifference(a, b time.Time) int {
	ay, am, ad := a.Date()
	by, bm, bd := b.Date()
	da := time.Date(ay, am, ad, 0, 0, 0, 0, time.UTC)
	db := time.Date(by, bm, bd, 0, 0, 0, 0, time.UTC)
	diff := int(da.Sub(db).Hours() / 24)
	if diff < 0 {
		diff = -diff
	}
	return diff
}

// score computes the confidence that a scheduled workout and an activity are
// the same real-world session. It is deterministic and performs no I/O.
//
// Confidence is the sum of four independently capped signals: date proximity
// up to 40, discipline up to 30, duration up to 20 and distance up to 10.
// A signal whose inputs are absent is skipped without penalty.
func score(w plan.ScheduledWorkout, a activity.Activity) Candidate {
	c := Candidate{
		Workout:  w,
		Activity: a,
	}

	switch days := dayDifference(w.ScheduledDate, a.StartDate); days {
	case 0:
		c.Confidence += 40
		c.Reasons = append(c.Reasons, "same day")
	case 1:
		c.Confidence += 30
		c.Reasons = append(c.Reasons, "1 day apart")
	case 2:
		c.Confidence += 20
		c.Reasons = append(c.Reasons, "2 days apart")
	case 3:
		c.Confidence += 10
		c.Reasons = append(c.Reasons, "3 days apart")
	default:
		c.Warnings = append(c.Warnings, fmt.Sprintf("%d days apart", days))
	}

	if disciplineMatches(w.Discipline, a.SportType) {
		c.Confidence += 30
		c.Reasons = append(c.Reasons, fmt.Sprintf("%s matches planned %s", a.SportType, w.Discipline))
	} else {
		c.Warnings = append(c.Warnings, fmt.Sprintf("different discipline: %s vs planned %s", a.SportType, w.Discipline))
	}

	if w.TargetDurationMinutes != nil && a.MovingTimeSeconds > 0 {
		target := float64(*w.TargetDurationMinutes)
		actual := float64(a.MovingTimeSeconds) / 60
		diff := math.Abs(target-actual) / target
		switch {
		case diff <= 0.10:
			c.Confidence += 20
			c.Reasons = append(c.Reasons, "duration within 10%")
		case diff <= 0.20:
			c.Confidence += 15
			c.Reasons = append(c.Reasons, "duration within 20%")
		case diff <= 0.30:
			c.Confidence += 10
			c.Reasons = append(c.Reasons, "duration within 30%")
		default:
			c.Warnings = append(c.Warnings, fmt.Sprintf("duration off by %.0f%%", diff*100))
		}
	}

	if w.TargetDistanceMiles != nil && a.DistanceMeters != nil {
		target := *w.TargetDistanceMiles
		actual := *a.DistanceMeters * milesPerMeter
		diff := math.Abs(target-actual) / target
		switch {
		case diff <= 0.10:
			c.Confidence += 10
			c.Reasons = append(c.Reasons, "distance within 10%")
		case diff <= 0.20:
			c.Confidence += 5
			c.Reasons = append(c.Reasons, "distance within 20%")
		default:
			c.Warnings = append(c.Warnings, fmt.Sprintf("distance off by %.0f%%", diff*100))
		}
	}

	return c
}
