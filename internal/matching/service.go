package matching

import (
	"context"
	"fmt"
	"log/slog"
	"math"
	"time"

	"github.com/google/uuid"

	"github.com/mlehtola/tricoach/internal/activity"
	"github.com/mlehtola/tricoach/internal/errors"
	"github.com/mlehtola/tricoach/internal/plan"
	"github.com/mlehtola/tricoach/internal/sqlite"
)

// DefaultLookbackDays is the trailing window considered when the caller does
// not ask for a specific one.
const DefaultLookbackDays = 14

// Service handles the business logic for reconciling activities with plans.
type Service struct {
	plans      *plan.Repository
	activities *activity.Repository
	logger     *slog.Logger
}

// NewService creates a new matching service.
func NewService(db *sqlite.Database, logger *slog.Logger) *Service {
	return &Service{
		plans:      plan.NewRepository(db, logger),
		activities: activity.NewRepository(db, logger),
		logger:     logger,
	}
}

// FindMatches resolves candidate pairings between the plan's uncompleted
// workouts scheduled within the lookback window and the athlete's activities
// in the same window.
func (s *Service) FindMatches(ctx context.Context, athleteID int, planID uuid.UUID, lookbackDays int) (Result, error) {
	if lookbackDays <= 0 {
		lookbackDays = DefaultLookbackDays
	}
	now := time.Now()
	// The window is day-granular: a workout scheduled exactly lookbackDays
	// ago stays eligible for the whole day, not only until now's clock time.
	y, m, d := now.UTC().Date()
	windowStart := time.Date(y, m, d, 0, 0, 0, 0, time.UTC).AddDate(0, 0, -lookbackDays)

	p, err := s.plans.Get(ctx, athleteID, planID)
	if err != nil {
		return Result{}, fmt.Errorf("get plan: %w", err)
	}

	scheduled, completions, err := s.scheduledWorkouts(ctx, p, now)
	if err != nil {
		return Result{}, err
	}

	eligible := make([]plan.ScheduledWorkout, 0, len(scheduled))
	for _, sw := range scheduled {
		if sw.Completion != nil {
			continue
		}
		if sw.ScheduledDate.Before(windowStart) || sw.ScheduledDate.After(now) {
			continue
		}
		eligible = append(eligible, sw)
	}

	acts, err := s.activities.ListSince(ctx, athleteID, windowStart)
	if err != nil {
		return Result{}, fmt.Errorf("list activities: %w", err)
	}

	// An activity already linked to a completion in this plan is spoken for
	// and must not be offered against a second workout.
	linked := make(map[int64]bool)
	for _, c := range completions {
		if c.ActivityID != nil {
			linked[*c.ActivityID] = true
		}
	}
	unlinked := make([]activity.Activity, 0, len(acts))
	for _, a := range acts {
		if !linked[a.ID] {
			unlinked = append(unlinked, a)
		}
	}

	result, err := resolve(ctx, eligible, unlinked)
	if err != nil {
		return Result{}, fmt.Errorf("resolve matches: %w", err)
	}
	observeResult(result)

	s.logger.LogAttrs(ctx, slog.LevelInfo, "matches resolved",
		slog.String("planID", planID.String()),
		slog.Int("high", len(result.HighConfidence)),
		slog.Int("medium", len(result.MediumConfidence)),
		slog.Int("low", len(result.LowConfidence)),
		slog.Int("unmatchedWorkouts", len(result.UnmatchedWorkouts)),
		slog.Int("unmatchedActivities", len(result.UnmatchedActivities)))

	return result, nil
}

// AcceptMatch commits a reviewed pairing as a workout completion. It fails
// with activity.ErrNotFound when the activity was deleted upstream between
// scoring and acceptance, which is a legitimate race the caller reports as
// "no longer available".
func (s *Service) AcceptMatch(
	ctx context.Context,
	athleteID int,
	planID uuid.UUID,
	workoutID int64,
	activityID int64,
) (plan.Completion, error) {
	if _, err := s.plans.Get(ctx, athleteID, planID); err != nil {
		return plan.Completion{}, fmt.Errorf("get plan: %w", err)
	}
	if _, err := s.plans.GetWorkout(ctx, planID, workoutID); err != nil {
		return plan.Completion{}, fmt.Errorf("get planned workout: %w", err)
	}
	a, err := s.activities.Get(ctx, athleteID, activityID)
	if err != nil {
		return plan.Completion{}, fmt.Errorf("get activity: %w", err)
	}
	return s.commit(ctx, planID, workoutID, a)
}

// AutoMatch commits an activity against the plan without review. It is a
// deliberately stricter shortcut than batch resolution: only workouts
// scheduled on the activity's own day count, only the discipline mapping is
// consulted, and the match commits only when exactly one such workout is
// still uncompleted. Anything else returns ErrNoMatch.
func (s *Service) AutoMatch(ctx context.Context, athleteID int, planID uuid.UUID, a activity.Activity) (plan.Completion, error) {
	p, err := s.plans.Get(ctx, athleteID, planID)
	if err != nil {
		return plan.Completion{}, fmt.Errorf("get plan: %w", err)
	}

	scheduled, _, err := s.scheduledWorkouts(ctx, p, time.Now())
	if err != nil {
		return plan.Completion{}, err
	}

	var eligible []plan.ScheduledWorkout
	for _, sw := range scheduled {
		if sw.Completion != nil {
			continue
		}
		if dayDifference(sw.ScheduledDate, a.StartDate) != 0 {
			continue
		}
		if !disciplineMatches(sw.Discipline, a.SportType) {
			continue
		}
		eligible = append(eligible, sw)
	}

	if len(eligible) != 1 {
		autoMatchTotal.WithLabelValues("no_match").Inc()
		return plan.Completion{}, errors.Wrap(ErrNoMatch, "auto match",
			slog.Int64("activityID", a.ID),
			slog.Int("eligibleWorkouts", len(eligible)))
	}

	c, err := s.commit(ctx, planID, eligible[0].ID, a)
	if err != nil {
		return plan.Completion{}, err
	}
	autoMatchTotal.WithLabelValues("matched").Inc()
	return c, nil
}

// IngestActivity stores an activity delivered by the sync process and tries
// to auto-match it against the athlete's active plan. A missing active plan
// or an ambiguous day are normal negative outcomes, not errors.
func (s *Service) IngestActivity(ctx context.Context, a activity.Activity) (*plan.Completion, error) {
	if err := s.activities.Upsert(ctx, a); err != nil {
		return nil, fmt.Errorf("upsert activity: %w", err)
	}

	p, err := s.plans.ActiveForAthlete(ctx, a.AthleteID)
	if errors.Is(err, plan.ErrNotFound) {
		autoMatchTotal.WithLabelValues("no_active_plan").Inc()
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get active plan: %w", err)
	}

	c, err := s.AutoMatch(ctx, a.AthleteID, p.ID, a)
	if errors.Is(err, ErrNoMatch) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("auto match ingested activity: %w", err)
	}
	return &c, nil
}

// scheduledWorkouts loads a plan's workouts joined with completions and
// projects them onto the calendar.
func (s *Service) scheduledWorkouts(
	ctx context.Context,
	p plan.Plan,
	now time.Time,
) ([]plan.ScheduledWorkout, map[int64]plan.Completion, error) {
	workouts, err := s.plans.ListWorkouts(ctx, p.ID)
	if err != nil {
		return nil, nil, fmt.Errorf("list planned workouts: %w", err)
	}
	completions, err := s.plans.ListCompletions(ctx, p.ID)
	if err != nil {
		return nil, nil, fmt.Errorf("list completions: %w", err)
	}
	scheduled, err := plan.BuildSchedule(p, workouts, completions, now)
	if err != nil {
		return nil, nil, fmt.Errorf("build schedule: %w", err)
	}
	return scheduled, completions, nil
}

// commit writes the completion derived from the activity's authoritative
// record. The upsert makes repeated commits of the same pairing converge on
// one row.
func (s *Service) commit(ctx context.Context, planID uuid.UUID, workoutID int64, a activity.Activity) (plan.Completion, error) {
	completedDate := a.StartDate
	durationMinutes := int(math.Round(float64(a.MovingTimeSeconds) / 60))

	c := plan.Completion{
		PlanID:                planID,
		WorkoutID:             workoutID,
		ActivityID:            &a.ID,
		CompletedDate:         &completedDate,
		ActualDurationMinutes: &durationMinutes,
		Notes:                 fmt.Sprintf("Matched from activity %d: %s", a.ID, a.Name),
	}
	if a.DistanceMeters != nil {
		miles := *a.DistanceMeters * milesPerMeter
		c.ActualDistanceMiles = &miles
	}

	if err := s.plans.UpsertCompletion(ctx, c); err != nil {
		return plan.Completion{}, fmt.Errorf("upsert completion: %w", err)
	}
	completionsCommittedTotal.Inc()

	s.logger.LogAttrs(ctx, slog.LevelInfo, "completion committed",
		slog.String("planID", planID.String()),
		slog.Int64("workoutID", workoutID),
		slog.Int64("activityID", a.ID))

	return c, nil
}
