package plan

import (
	"log/slog"
	"time"

	"github.com/mlehtola/tricoach/internal/errors"
)

var (
	// ErrInvalidWeek is returned when a workout's week falls outside the plan.
	ErrInvalidWeek = errors.NewSentinel("week outside plan range")
	// ErrInvalidWeekday is returned when a workout's day is not in 1..7.
	ErrInvalidWeekday = errors.NewSentinel("weekday outside 1..7")
)

// ProjectDate resolves a (week, day) slot to a calendar date. Week 1 day 1 is
// the plan's start date, and days count Monday through Sunday regardless of
// which weekday the plan starts on.
func ProjectDate(startDate time.Time, week, day, totalWeeks int) (time.Time, error) {
	if week < 1 || week > totalWeeks {
		return time.Time{}, errors.Wrap(ErrInvalidWeek, "project date",
			slog.Int("week", week), slog.Int("totalWeeks", totalWeeks))
	}
	if day < 1 || day > 7 {
		return time.Time{}, errors.Wrap(ErrInvalidWeekday, "project date", slog.Int("day", day))
	}
	return startDate.AddDate(0, 0, (week-1)*7+(day-1)), nil
}

// BuildSchedule projects a plan's workouts onto the calendar and joins each
// with its completion. The result is ordered by scheduled date, then by
// weekday slot for workouts sharing a date.
func BuildSchedule(
	p Plan,
	workouts []Workout,
	completions map[int64]Completion,
	now time.Time,
) ([]ScheduledWorkout, error) {
	scheduled := make([]ScheduledWorkout, 0, len(workouts))
	for _, w := range workouts {
		date, err := ProjectDate(p.StartDate, w.Week, w.Day, p.TotalWeeks)
		if err != nil {
			return nil, errors.Wrap(err, "build schedule", slog.Int64("workoutID", w.ID))
		}
		sw := ScheduledWorkout{
			Workout:       w,
			ScheduledDate: date,
			Today:         IsToday(date, now),
		}
		if c, ok := completions[w.ID]; ok {
			sw.Completion = &c
		}
		sw.Overdue = IsOverdue(date, now, sw.Completion != nil)
		scheduled = append(scheduled, sw)
	}
	return scheduled, nil
}

// IsToday reports whether two instants fall on the same calendar date,
// ignoring the time of day.
func IsToday(date, now time.Time) bool {
	dy, dm, dd := date.Date()
	ny, nm, nd := now.Date()
	return dy == ny && dm == nm && dd == nd
}

// IsOverdue reports whether an uncompleted workout's scheduled date has
// passed. A workout scheduled for today is not yet overdue.
func IsOverdue(scheduled, now time.Time, completed bool) bool {
	if completed {
		return false
	}
	y, m, d := now.Date()
	startOfToday := time.Date(y, m, d, 0, 0, 0, 0, now.Location())
	return scheduled.Before(startOfToday) && !IsToday(scheduled, now)
}
