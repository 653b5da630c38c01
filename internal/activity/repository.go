package activity

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/mlehtola/tricoach/internal/sqlite"
)

const timestampFormat = "2006-01-02T15:04:05.000Z"

// Repository handles database operations for activities.
type Repository struct {
	db     *sqlite.Database
	logger *slog.Logger
}

// NewRepository creates a new SQLite-backed activity repository.
func NewRepository(db *sqlite.Database, logger *slog.Logger) *Repository {
	return &Repository{
		db:     db,
		logger: logger,
	}
}

// Upsert stores an activity, replacing any previous record with the same
// source identifier. The sync process may deliver the same activity more
// than once, e.g. on webhook retries.
func (r *Repository) Upsert(ctx context.Context, a Activity) error {
	_, err := r.db.ReadWrite.ExecContext(ctx, `
		INSERT INTO activities (
			id, athlete_id, name, sport_type, start_date, moving_time_seconds,
			distance_meters, average_heart_rate, average_power_watts, elevation_gain_meters
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT (id) DO UPDATE SET
			name = excluded.name,
			sport_type = excluded.sport_type,
			start_date = excluded.start_date,
			moving_time_seconds = excluded.moving_time_seconds,
			distance_meters = excluded.distance_meters,
			average_heart_rate = excluded.average_heart_rate,
			average_power_watts = excluded.average_power_watts,
			elevation_gain_meters = excluded.elevation_gain_meters`,
		a.ID,
		a.AthleteID,
		a.Name,
		a.SportType,
		a.StartDate.UTC().Format(timestampFormat),
		a.MovingTimeSeconds,
		a.DistanceMeters,
		a.AverageHeartRate,
		a.AveragePowerWatts,
		a.ElevationGainMeters,
	)
	if err != nil {
		return fmt.Errorf("upsert activity: %w", err)
	}
	return nil
}

// Get retrieves a single activity by its source identifier, scoped to the
// athlete so one athlete cannot read another's data.
func (r *Repository) Get(ctx context.Context, athleteID int, id int64) (Activity, error) {
	row := r.db.ReadOnly.QueryRowContext(ctx, `
		SELECT id, athlete_id, name, sport_type, start_date, moving_time_seconds,
		       distance_meters, average_heart_rate, average_power_watts, elevation_gain_meters
		FROM activities
		WHERE id = ? AND athlete_id = ?`, id, athleteID)

	a, err := scanActivity(row.Scan)
	if errors.Is(err, sql.ErrNoRows) {
		return Activity{}, ErrNotFound
	}
	if err != nil {
		return Activity{}, fmt.Errorf("query activity: %w", err)
	}
	return a, nil
}

// ListSince retrieves all activities for an athlete starting at or after the
// given time, ordered by start date descending.
func (r *Repository) ListSince(ctx context.Context, athleteID int, since time.Time) (_ []Activity, err error) {
	rows, err := r.db.ReadOnly.QueryContext(ctx, `
		SELECT id, athlete_id, name, sport_type, start_date, moving_time_seconds,
		       distance_meters, average_heart_rate, average_power_watts, elevation_gain_meters
		FROM activities
		WHERE athlete_id = ? AND start_date >= ?
		ORDER BY start_date DESC`,
		athleteID, since.UTC().Format(timestampFormat))
	if err != nil {
		return nil, fmt.Errorf("query activities: %w", err)
	}
	defer func() {
		if closeErr := rows.Close(); closeErr != nil {
			err = errors.Join(err, fmt.Errorf("close rows: %w", closeErr))
		}
	}()

	var activities []Activity
	for rows.Next() {
		var a Activity
		if a, err = scanActivity(rows.Scan); err != nil {
			return nil, fmt.Errorf("scan activity: %w", err)
		}
		activities = append(activities, a)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("rows error: %w", err)
	}

	return activities, nil
}

// scanActivity reads one activity row via the given scan function.
func scanActivity(scan func(dest ...any) error) (Activity, error) {
	var (
		a            Activity
		startDateStr string
	)
	if err := scan(
		&a.ID,
		&a.AthleteID,
		&a.Name,
		&a.SportType,
		&startDateStr,
		&a.MovingTimeSeconds,
		&a.DistanceMeters,
		&a.AverageHeartRate,
		&a.AveragePowerWatts,
		&a.ElevationGainMeters,
	); err != nil {
		return Activity{}, err
	}

	startDate, err := time.Parse(timestampFormat, startDateStr)
	if err != nil {
		return Activity{}, fmt.Errorf("parse start_date: %w", err)
	}
	a.StartDate = startDate

	return a, nil
}
