package plan

import (
	"testing"
	"time"

	"github.com/mlehtola/tricoach/internal/errors"
)

func TestProjectDate(t *testing.T) {
	t.Parallel()

	start := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC) // a Monday

	tests := []struct {
		name       string
		week       int
		day        int
		totalWeeks int
		want       time.Time
		wantErr    error
	}{
		{
			name:       "first slot is the start date",
			week:       1,
			day:        1,
			totalWeeks: 8,
			want:       start,
		},
		{
			name:       "week 2 day 3",
			week:       2,
			day:        3,
			totalWeeks: 8,
			want:       time.Date(2024, 1, 10, 0, 0, 0, 0, time.UTC),
		},
		{
			name:       "last slot of the plan",
			week:       8,
			day:        7,
			totalWeeks: 8,
			want:       time.Date(2024, 2, 25, 0, 0, 0, 0, time.UTC),
		},
		{
			name:       "week zero",
			week:       0,
			day:        1,
			totalWeeks: 8,
			wantErr:    ErrInvalidWeek,
		},
		{
			name:       "week past the plan",
			week:       9,
			day:        1,
			totalWeeks: 8,
			wantErr:    ErrInvalidWeek,
		},
		{
			name:       "day zero",
			week:       1,
			day:        0,
			totalWeeks: 8,
			wantErr:    ErrInvalidWeekday,
		},
		{
			name:       "day eight",
			week:       1,
			day:        8,
			totalWeeks: 8,
			wantErr:    ErrInvalidWeekday,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got, err := ProjectDate(start, tt.week, tt.day, tt.totalWeeks)
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Fatalf("ProjectDate() error = %v, want %v", err, tt.wantErr)
				}
				return
			}
			if err != nil {
				t.Fatalf("ProjectDate() error = %v", err)
			}
			if !got.Equal(tt.want) {
				t.Errorf("ProjectDate() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestProjectDateMidweekStart(t *testing.T) {
	t.Parallel()

	// Day numbering is relative to the start date, not the calendar week.
	start := time.Date(2024, 1, 3, 0, 0, 0, 0, time.UTC) // a Wednesday
	got, err := ProjectDate(start, 1, 2, 4)
	if err != nil {
		t.Fatalf("ProjectDate() error = %v", err)
	}
	want := time.Date(2024, 1, 4, 0, 0, 0, 0, time.UTC)
	if !got.Equal(want) {
		t.Errorf("ProjectDate() = %v, want %v", got, want)
	}
}

func TestIsToday(t *testing.T) {
	t.Parallel()

	now := time.Date(2024, 3, 15, 23, 45, 0, 0, time.UTC)

	if !IsToday(time.Date(2024, 3, 15, 0, 0, 0, 0, time.UTC), now) {
		t.Error("IsToday() ignores the time of day")
	}
	if IsToday(time.Date(2024, 3, 16, 0, 0, 0, 0, time.UTC), now) {
		t.Error("IsToday() is false for tomorrow")
	}
}

func TestIsOverdue(t *testing.T) {
	t.Parallel()

	now := time.Date(2024, 3, 15, 14, 30, 0, 0, time.UTC)

	tests := []struct {
		name      string
		scheduled time.Time
		completed bool
		want      bool
	}{
		{
			name:      "yesterday uncompleted",
			scheduled: time.Date(2024, 3, 14, 0, 0, 0, 0, time.UTC),
			want:      true,
		},
		{
			name:      "today is not overdue",
			scheduled: time.Date(2024, 3, 15, 0, 0, 0, 0, time.UTC),
			want:      false,
		},
		{
			name:      "tomorrow",
			scheduled: time.Date(2024, 3, 16, 0, 0, 0, 0, time.UTC),
			want:      false,
		},
		{
			name:      "yesterday but completed",
			scheduled: time.Date(2024, 3, 14, 0, 0, 0, 0, time.UTC),
			completed: true,
			want:      false,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			if got := IsOverdue(tt.scheduled, now, tt.completed); got != tt.want {
				t.Errorf("IsOverdue() = %v, want %v", got, tt.want)
			}
		})
	}
}
