package plan

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/mlehtola/tricoach/internal/sqlite"
)

// Service handles the business logic for plan management.
type Service struct {
	repo   *Repository
	logger *slog.Logger
}

// NewService creates a new plan service.
func NewService(db *sqlite.Database, logger *slog.Logger) *Service {
	return &Service{
		repo:   NewRepository(db, logger),
		logger: logger,
	}
}

// Repository exposes the underlying repository for collaborating services.
func (s *Service) Repository() *Repository {
	return s.repo
}

// EnsureAthlete returns the athlete ID for a display name, creating the
// athlete on first sight.
func (s *Service) EnsureAthlete(ctx context.Context, displayName string) (int, error) {
	id, err := s.repo.EnsureAthlete(ctx, displayName)
	if err != nil {
		return 0, fmt.Errorf("ensure athlete: %w", err)
	}
	return id, nil
}

// Create stores a plan together with its planned workouts. The generated
// workout IDs are written back into the returned slice.
func (s *Service) Create(ctx context.Context, p Plan, workouts []Workout) ([]Workout, error) {
	if err := s.repo.Create(ctx, p); err != nil {
		return nil, fmt.Errorf("create plan: %w", err)
	}
	created := make([]Workout, 0, len(workouts))
	for _, w := range workouts {
		w.PlanID = p.ID
		id, err := s.repo.CreateWorkout(ctx, w)
		if err != nil {
			return nil, fmt.Errorf("create planned workout: %w", err)
		}
		w.ID = id
		created = append(created, w)
	}
	return created, nil
}

// Schedule returns the plan's workouts projected onto the calendar, joined
// with completions and flagged relative to the current date.
func (s *Service) Schedule(ctx context.Context, athleteID int, planID uuid.UUID) (Plan, []ScheduledWorkout, error) {
	p, err := s.repo.Get(ctx, athleteID, planID)
	if err != nil {
		return Plan{}, nil, fmt.Errorf("get plan: %w", err)
	}

	workouts, err := s.repo.ListWorkouts(ctx, planID)
	if err != nil {
		return Plan{}, nil, fmt.Errorf("list planned workouts: %w", err)
	}

	completions, err := s.repo.ListCompletions(ctx, planID)
	if err != nil {
		return Plan{}, nil, fmt.Errorf("list completions: %w", err)
	}

	scheduled, err := BuildSchedule(p, workouts, completions, time.Now())
	if err != nil {
		return Plan{}, nil, fmt.Errorf("build schedule: %w", err)
	}
	return p, scheduled, nil
}

// Skip marks a planned workout as deliberately not done. Skipping overwrites
// any earlier completion for the workout.
func (s *Service) Skip(ctx context.Context, athleteID int, planID uuid.UUID, workoutID int64, reason string) error {
	if _, err := s.repo.Get(ctx, athleteID, planID); err != nil {
		return fmt.Errorf("get plan: %w", err)
	}
	if _, err := s.repo.GetWorkout(ctx, planID, workoutID); err != nil {
		return fmt.Errorf("get planned workout: %w", err)
	}

	err := s.repo.UpsertCompletion(ctx, Completion{
		PlanID:     planID,
		WorkoutID:  workoutID,
		Skipped:    true,
		SkipReason: reason,
	})
	if err != nil {
		return fmt.Errorf("upsert skip completion: %w", err)
	}

	s.logger.LogAttrs(ctx, slog.LevelInfo, "workout skipped",
		slog.String("planID", planID.String()),
		slog.Int64("workoutID", workoutID))

	return nil
}
