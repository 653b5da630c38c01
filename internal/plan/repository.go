package plan

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/mlehtola/tricoach/internal/sqlite"
)

const dateFormat = time.DateOnly

// Repository handles database operations for plans, planned workouts and
// completions.
type Repository struct {
	db     *sqlite.Database
	logger *slog.Logger
}

// NewRepository creates a new SQLite-backed plan repository.
func NewRepository(db *sqlite.Database, logger *slog.Logger) *Repository {
	return &Repository{
		db:     db,
		logger: logger,
	}
}

// EnsureAthlete returns the athlete ID for a display name, creating the
// athlete on first sight.
func (r *Repository) EnsureAthlete(ctx context.Context, displayName string) (int, error) {
	var id int
	err := r.db.ReadOnly.QueryRowContext(ctx, `
		SELECT id FROM athletes WHERE display_name = ?`, displayName).Scan(&id)
	if err == nil {
		return id, nil
	}
	if !errors.Is(err, sql.ErrNoRows) {
		return 0, fmt.Errorf("query athlete: %w", err)
	}

	res, err := r.db.ReadWrite.ExecContext(ctx, `
		INSERT INTO athletes (display_name, created_at)
		VALUES (?, ?)`, displayName, time.Now().UTC().Format(dateFormat))
	if err != nil {
		return 0, fmt.Errorf("insert athlete: %w", err)
	}
	insertID, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("athlete insert id: %w", err)
	}
	return int(insertID), nil
}

// Create stores a new training plan.
func (r *Repository) Create(ctx context.Context, p Plan) error {
	_, err := r.db.ReadWrite.ExecContext(ctx, `
		INSERT INTO training_plans (id, athlete_id, name, start_date, current_week, total_weeks, status)
		VALUES (?, ?, ?, ?, ?, ?, ?)`,
		p.ID.String(),
		p.AthleteID,
		p.Name,
		p.StartDate.Format(dateFormat),
		p.CurrentWeek,
		p.TotalWeeks,
		string(p.Status),
	)
	if err != nil {
		if sqlite.IsConstraintError(err) {
			return ErrConflict
		}
		return fmt.Errorf("insert plan: %w", err)
	}
	return nil
}

// CreateWorkout stores a planned workout and returns its generated ID.
func (r *Repository) CreateWorkout(ctx context.Context, w Workout) (int64, error) {
	res, err := r.db.ReadWrite.ExecContext(ctx, `
		INSERT INTO planned_workouts (
			plan_id, week, day, discipline, target_duration_minutes, target_distance_miles, description
		) VALUES (?, ?, ?, ?, ?, ?, ?)`,
		w.PlanID.String(),
		w.Week,
		w.Day,
		string(w.Discipline),
		w.TargetDurationMinutes,
		w.TargetDistanceMiles,
		w.Description,
	)
	if err != nil {
		if sqlite.IsConstraintError(err) {
			return 0, ErrConflict
		}
		return 0, fmt.Errorf("insert planned workout: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("planned workout insert id: %w", err)
	}
	return id, nil
}

// Get retrieves a plan by ID, scoped to the athlete.
func (r *Repository) Get(ctx context.Context, athleteID int, id uuid.UUID) (Plan, error) {
	row := r.db.ReadOnly.QueryRowContext(ctx, `
		SELECT id, athlete_id, name, start_date, current_week, total_weeks, status
		FROM training_plans
		WHERE id = ? AND athlete_id = ?`, id.String(), athleteID)
	return scanPlan(row.Scan)
}

// ActiveForAthlete retrieves the athlete's active plan. An athlete has at
// most one active plan at a time.
func (r *Repository) ActiveForAthlete(ctx context.Context, athleteID int) (Plan, error) {
	row := r.db.ReadOnly.QueryRowContext(ctx, `
		SELECT id, athlete_id, name, start_date, current_week, total_weeks, status
		FROM training_plans
		WHERE athlete_id = ? AND status = ?
		ORDER BY start_date DESC
		LIMIT 1`, athleteID, string(StatusActive))
	return scanPlan(row.Scan)
}

// GetWorkout retrieves a single planned workout within a plan.
func (r *Repository) GetWorkout(ctx context.Context, planID uuid.UUID, workoutID int64) (Workout, error) {
	row := r.db.ReadOnly.QueryRowContext(ctx, `
		SELECT id, plan_id, week, day, discipline, target_duration_minutes, target_distance_miles, description
		FROM planned_workouts
		WHERE id = ? AND plan_id = ?`, workoutID, planID.String())

	w, err := scanWorkout(row.Scan)
	if errors.Is(err, sql.ErrNoRows) {
		return Workout{}, ErrNotFound
	}
	if err != nil {
		return Workout{}, fmt.Errorf("query planned workout: %w", err)
	}
	return w, nil
}

// ListWorkouts retrieves all planned workouts of a plan ordered by their
// position in the schedule.
func (r *Repository) ListWorkouts(ctx context.Context, planID uuid.UUID) (_ []Workout, err error) {
	rows, err := r.db.ReadOnly.QueryContext(ctx, `
		SELECT id, plan_id, week, day, discipline, target_duration_minutes, target_distance_miles, description
		FROM planned_workouts
		WHERE plan_id = ?
		ORDER BY week, day`, planID.String())
	if err != nil {
		return nil, fmt.Errorf("query planned workouts: %w", err)
	}
	defer func() {
		if closeErr := rows.Close(); closeErr != nil {
			err = errors.Join(err, fmt.Errorf("close rows: %w", closeErr))
		}
	}()

	var workouts []Workout
	for rows.Next() {
		var w Workout
		if w, err = scanWorkout(rows.Scan); err != nil {
			return nil, fmt.Errorf("scan planned workout: %w", err)
		}
		workouts = append(workouts, w)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("rows error: %w", err)
	}

	return workouts, nil
}

// ListCompletions retrieves all completions of a plan keyed by workout ID.
func (r *Repository) ListCompletions(ctx context.Context, planID uuid.UUID) (_ map[int64]Completion, err error) {
	rows, err := r.db.ReadOnly.QueryContext(ctx, `
		SELECT plan_id, workout_id, activity_id, skipped, skip_reason,
		       completed_date, actual_duration_minutes, actual_distance_miles, notes
		FROM workout_completions
		WHERE plan_id = ?`, planID.String())
	if err != nil {
		return nil, fmt.Errorf("query completions: %w", err)
	}
	defer func() {
		if closeErr := rows.Close(); closeErr != nil {
			err = errors.Join(err, fmt.Errorf("close rows: %w", closeErr))
		}
	}()

	completions := make(map[int64]Completion)
	for rows.Next() {
		var c Completion
		if c, err = scanCompletion(rows.Scan); err != nil {
			return nil, fmt.Errorf("scan completion: %w", err)
		}
		completions[c.WorkoutID] = c
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("rows error: %w", err)
	}

	return completions, nil
}

// GetCompletion retrieves the completion of a single planned workout.
func (r *Repository) GetCompletion(ctx context.Context, planID uuid.UUID, workoutID int64) (Completion, error) {
	row := r.db.ReadOnly.QueryRowContext(ctx, `
		SELECT plan_id, workout_id, activity_id, skipped, skip_reason,
		       completed_date, actual_duration_minutes, actual_distance_miles, notes
		FROM workout_completions
		WHERE plan_id = ? AND workout_id = ?`, planID.String(), workoutID)

	c, err := scanCompletion(row.Scan)
	if errors.Is(err, sql.ErrNoRows) {
		return Completion{}, ErrNotFound
	}
	if err != nil {
		return Completion{}, fmt.Errorf("query completion: %w", err)
	}
	return c, nil
}

// UpsertCompletion stores a completion, replacing any previous record for the
// same planned workout. Committing the same match twice therefore converges
// on a single row.
func (r *Repository) UpsertCompletion(ctx context.Context, c Completion) error {
	var completedDate *string
	if c.CompletedDate != nil {
		s := c.CompletedDate.Format(dateFormat)
		completedDate = &s
	}

	_, err := r.db.ReadWrite.ExecContext(ctx, `
		INSERT INTO workout_completions (
			plan_id, workout_id, activity_id, skipped, skip_reason,
			completed_date, actual_duration_minutes, actual_distance_miles, notes
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT (plan_id, workout_id) DO UPDATE SET
			activity_id = excluded.activity_id,
			skipped = excluded.skipped,
			skip_reason = excluded.skip_reason,
			completed_date = excluded.completed_date,
			actual_duration_minutes = excluded.actual_duration_minutes,
			actual_distance_miles = excluded.actual_distance_miles,
			notes = excluded.notes`,
		c.PlanID.String(),
		c.WorkoutID,
		c.ActivityID,
		c.Skipped,
		c.SkipReason,
		completedDate,
		c.ActualDurationMinutes,
		c.ActualDistanceMiles,
		c.Notes,
	)
	if err != nil {
		if sqlite.IsConstraintError(err) {
			return ErrConflict
		}
		return fmt.Errorf("upsert completion: %w", err)
	}
	return nil
}

// scanPlan reads one plan row via the given scan function.
func scanPlan(scan func(dest ...any) error) (Plan, error) {
	var (
		p            Plan
		idStr        string
		startDateStr string
		statusStr    string
	)
	err := scan(&idStr, &p.AthleteID, &p.Name, &startDateStr, &p.CurrentWeek, &p.TotalWeeks, &statusStr)
	if errors.Is(err, sql.ErrNoRows) {
		return Plan{}, ErrNotFound
	}
	if err != nil {
		return Plan{}, fmt.Errorf("scan plan: %w", err)
	}

	if p.ID, err = uuid.Parse(idStr); err != nil {
		return Plan{}, fmt.Errorf("parse plan id: %w", err)
	}
	if p.StartDate, err = time.Parse(dateFormat, startDateStr); err != nil {
		return Plan{}, fmt.Errorf("parse start_date: %w", err)
	}
	p.Status = Status(statusStr)

	return p, nil
}

// scanWorkout reads one planned workout row via the given scan function.
func scanWorkout(scan func(dest ...any) error) (Workout, error) {
	var (
		w             Workout
		planIDStr     string
		disciplineStr string
	)
	if err := scan(
		&w.ID,
		&planIDStr,
		&w.Week,
		&w.Day,
		&disciplineStr,
		&w.TargetDurationMinutes,
		&w.TargetDistanceMiles,
		&w.Description,
	); err != nil {
		return Workout{}, err
	}

	planID, err := uuid.Parse(planIDStr)
	if err != nil {
		return Workout{}, fmt.Errorf("parse plan id: %w", err)
	}
	w.PlanID = planID
	w.Discipline = Discipline(disciplineStr)

	return w, nil
}

// scanCompletion reads one completion row via the given scan function.
func scanCompletion(scan func(dest ...any) error) (Completion, error) {
	var (
		c                Completion
		planIDStr        string
		completedDateStr sql.NullString
	)
	if err := scan(
		&planIDStr,
		&c.WorkoutID,
		&c.ActivityID,
		&c.Skipped,
		&c.SkipReason,
		&completedDateStr,
		&c.ActualDurationMinutes,
		&c.ActualDistanceMiles,
		&c.Notes,
	); err != nil {
		return Completion{}, err
	}

	planID, err := uuid.Parse(planIDStr)
	if err != nil {
		return Completion{}, fmt.Errorf("parse plan id: %w", err)
	}
	c.PlanID = planID

	if completedDateStr.Valid {
		completedDate, err := time.Parse(dateFormat, completedDateStr.String)
		if err != nil {
			return Completion{}, fmt.Errorf("parse completed_date: %w", err)
		}
		c.CompletedDate = &completedDate
	}

	return c, nil
}
