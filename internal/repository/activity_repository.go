package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/noszczynski/bike-stats-sub000/internal/models"
)

const activityColumns = `id, user_id, name, source, sport, start_time_ms, fit_processed,
	total_distance_m, total_timer_time_s, total_elapsed_time_s, avg_speed_ms, max_speed_ms,
	avg_heart_rate_bpm, max_heart_rate_bpm, avg_cadence_rpm, max_cadence_rpm,
	total_ascent_m, total_calories, synthetic_session,
	zone_1_seconds, zone_2_seconds, zone_3_seconds, zone_4_seconds, zone_5_seconds,
	created_at_ms, updated_at_ms`

// ActivityRepository handles database operations for activities
type ActivityRepository struct {
	db  DBTX
	now func() time.Time
}

// NewActivityRepository creates a new activity repository
func NewActivityRepository(db DBTX) *ActivityRepository {
	return &ActivityRepository{db: db, now: time.Now}
}

// WithTx returns a repository bound to tx.
func (r *ActivityRepository) WithTx(tx DBTX) *ActivityRepository {
	return &ActivityRepository{db: tx, now: r.now}
}

// Create inserts a new activity and sets its ID and timestamps
func (r *ActivityRepository) Create(ctx context.Context, a *models.Activity) error {
	now := r.now().UTC()
	if a.Source == "" {
		a.Source = "manual"
	}
	res, err := r.db.ExecContext(ctx, `INSERT INTO activities (user_id, name, source, sport, start_time_ms, created_at_ms, updated_at_ms)
		VALUES (?, ?, ?, ?, ?, ?, ?)`,
		a.UserID, a.Name, a.Source, a.Sport, nullMillis(a.StartTime), toMillis(now), toMillis(now))
	if err != nil {
		return fmt.Errorf("failed to create activity: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return fmt.Errorf("failed to get activity id: %w", err)
	}
	a.ID = id
	a.CreatedAt = fromMillis(toMillis(now))
	a.UpdatedAt = a.CreatedAt
	return nil
}

// GetByID retrieves an activity. Returns nil, nil when it does not exist.
func (r *ActivityRepository) GetByID(ctx context.Context, id int64) (*models.Activity, error) {
	row := r.db.QueryRowContext(ctx, `SELECT `+activityColumns+` FROM activities WHERE id = ?`, id)
	a, err := scanActivity(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get activity: %w", err)
	}
	return a, nil
}

// ListByUser returns a page of the user's activities, newest first, and the
// total count.
func (r *ActivityRepository) ListByUser(ctx context.Context, userID string, filter models.ActivityFilter) ([]models.Activity, int64, error) {
	var total int64
	err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM activities WHERE user_id = ?`, userID).Scan(&total)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to count activities: %w", err)
	}

	if filter.Page < 1 {
		filter.Page = 1
	}
	if filter.PageSize < 1 {
		filter.PageSize = 20
	}
	if filter.PageSize > 100 {
		filter.PageSize = 100
	}
	offset := (filter.Page - 1) * filter.PageSize

	rows, err := r.db.QueryContext(ctx, `SELECT `+activityColumns+` FROM activities
		WHERE user_id = ?
		ORDER BY COALESCE(start_time_ms, created_at_ms) DESC, id DESC
		LIMIT ? OFFSET ?`, userID, filter.PageSize, offset)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to query activities: %w", err)
	}
	defer rows.Close()

	activities := []models.Activity{}
	for rows.Next() {
		a, err := scanActivity(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("failed to scan activity: %w", err)
		}
		activities = append(activities, *a)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("failed to iterate activities: %w", err)
	}
	return activities, total, nil
}

// MarkFitProcessed claims the activity for a FIT import. It reports false
// when the activity was already processed.
func (r *ActivityRepository) MarkFitProcessed(ctx context.Context, id int64) (bool, error) {
	res, err := r.db.ExecContext(ctx, `UPDATE activities SET fit_processed = 1, updated_at_ms = ?
		WHERE id = ? AND fit_processed = 0`, toMillis(r.now()), id)
	if err != nil {
		return false, fmt.Errorf("failed to mark activity processed: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("failed to mark activity processed: %w", err)
	}
	return n == 1, nil
}

// UpdateSessionSummary writes the imported session aggregates together with
// sport and start time.
func (r *ActivityRepository) UpdateSessionSummary(ctx context.Context, id int64, sport string, start *time.Time, s models.SessionSummary) error {
	_, err := r.db.ExecContext(ctx, `UPDATE activities SET
		sport = CASE WHEN ? != '' THEN ? ELSE sport END,
		start_time_ms = COALESCE(?, start_time_ms),
		total_distance_m = ?, total_timer_time_s = ?, total_elapsed_time_s = ?,
		avg_speed_ms = ?, max_speed_ms = ?,
		avg_heart_rate_bpm = ?, max_heart_rate_bpm = ?,
		avg_cadence_rpm = ?, max_cadence_rpm = ?,
		total_ascent_m = ?, total_calories = ?, synthetic_session = ?,
		updated_at_ms = ?
		WHERE id = ?`,
		sport, sport, nullMillis(start),
		s.TotalDistanceM, s.TotalTimerTimeS, s.TotalElapsedS,
		s.AvgSpeedMS, s.MaxSpeedMS,
		s.AvgHeartRateBPM, s.MaxHeartRateBPM,
		s.AvgCadenceRPM, s.MaxCadenceRPM,
		s.TotalAscentM, s.TotalCalories, s.SyntheticSession,
		toMillis(r.now()), id)
	if err != nil {
		return fmt.Errorf("failed to update session summary: %w", err)
	}
	return nil
}

// UpdateZoneSeconds stores the five time-in-zone durations.
func (r *ActivityRepository) UpdateZoneSeconds(ctx context.Context, id int64, seconds [5]int64) error {
	_, err := r.db.ExecContext(ctx, `UPDATE activities SET
		zone_1_seconds = ?, zone_2_seconds = ?, zone_3_seconds = ?, zone_4_seconds = ?, zone_5_seconds = ?,
		updated_at_ms = ?
		WHERE id = ?`,
		seconds[0], seconds[1], seconds[2], seconds[3], seconds[4], toMillis(r.now()), id)
	if err != nil {
		return fmt.Errorf("failed to update zone seconds: %w", err)
	}
	return nil
}

// ResetFitData clears the processed flag and everything derived from the
// FIT file.
func (r *ActivityRepository) ResetFitData(ctx context.Context, id int64) error {
	_, err := r.db.ExecContext(ctx, `UPDATE activities SET
		fit_processed = 0,
		total_distance_m = NULL, total_timer_time_s = NULL, total_elapsed_time_s = NULL,
		avg_speed_ms = NULL, max_speed_ms = NULL,
		avg_heart_rate_bpm = NULL, max_heart_rate_bpm = NULL,
		avg_cadence_rpm = NULL, max_cadence_rpm = NULL,
		total_ascent_m = NULL, total_calories = NULL, synthetic_session = 0,
		zone_1_seconds = NULL, zone_2_seconds = NULL, zone_3_seconds = NULL,
		zone_4_seconds = NULL, zone_5_seconds = NULL,
		updated_at_ms = ?
		WHERE id = ?`, toMillis(r.now()), id)
	if err != nil {
		return fmt.Errorf("failed to reset fit data: %w", err)
	}
	return nil
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanActivity(row rowScanner) (*models.Activity, error) {
	var (
		a                models.Activity
		start            sql.NullInt64
		created, updated int64
	)
	err := row.Scan(
		&a.ID, &a.UserID, &a.Name, &a.Source, &a.Sport, &start, &a.FitProcessed,
		&a.Summary.TotalDistanceM, &a.Summary.TotalTimerTimeS, &a.Summary.TotalElapsedS,
		&a.Summary.AvgSpeedMS, &a.Summary.MaxSpeedMS,
		&a.Summary.AvgHeartRateBPM, &a.Summary.MaxHeartRateBPM,
		&a.Summary.AvgCadenceRPM, &a.Summary.MaxCadenceRPM,
		&a.Summary.TotalAscentM, &a.Summary.TotalCalories, &a.Summary.SyntheticSession,
		&a.Zone1Seconds, &a.Zone2Seconds, &a.Zone3Seconds, &a.Zone4Seconds, &a.Zone5Seconds,
		&created, &updated,
	)
	if err != nil {
		return nil, err
	}
	a.StartTime = timePtr(start)
	a.CreatedAt = fromMillis(created)
	a.UpdatedAt = fromMillis(updated)
	return &a, nil
}
