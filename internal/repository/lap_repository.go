package repository

import (
	"context"
	"fmt"

	"github.com/noszczynski/bike-stats-sub000/internal/models"
)

const lapInsertColumns = 19

// LapRepository handles database operations for laps
type LapRepository struct {
	db        DBTX
	batchSize int
}

// NewLapRepository creates a new lap repository
func NewLapRepository(db DBTX, batchSize int) *LapRepository {
	batchSize = clampBatchSize(batchSize, lapInsertColumns)
	return &LapRepository{db: db, batchSize: batchSize}
}

// WithTx returns a repository bound to tx.
func (r *LapRepository) WithTx(tx DBTX) *LapRepository {
	return &LapRepository{db: tx, batchSize: r.batchSize}
}

// BulkInsert writes laps, skipping any whose (activity_id, lap_number)
// already exists.
func (r *LapRepository) BulkInsert(ctx context.Context, laps []models.Lap) (int64, error) {
	var inserted int64
	for start := 0; start < len(laps); start += r.batchSize {
		end := start + r.batchSize
		if end > len(laps) {
			end = len(laps)
		}
		chunk := laps[start:end]

		args := make([]interface{}, 0, len(chunk)*lapInsertColumns)
		for _, l := range chunk {
			args = append(args,
				l.ActivityID, l.LapNumber, l.Source, toMillis(l.StartTime), toMillis(l.EndTime),
				l.DistanceM, l.MovingTimeS, l.ElapsedTimeS,
				l.AvgSpeedMS, l.MaxSpeedMS, l.AvgHeartRateBPM, l.MaxHeartRateBPM,
				l.AvgCadenceRPM, l.MaxCadenceRPM, l.TotalElevationGainM,
				l.StartLatitude, l.StartLongitude, l.EndLatitude, l.EndLongitude,
			)
		}
		query := `INSERT OR IGNORE INTO laps
			(activity_id, lap_number, source, start_time_ms, end_time_ms,
			distance_m, moving_time_s, elapsed_time_s,
			avg_speed_ms, max_speed_ms, avg_heart_rate_bpm, max_heart_rate_bpm,
			avg_cadence_rpm, max_cadence_rpm, total_elevation_gain_m,
			start_latitude, start_longitude, end_latitude, end_longitude)
			VALUES ` + placeholders(len(chunk), lapInsertColumns)

		res, err := r.db.ExecContext(ctx, query, args...)
		if err != nil {
			return inserted, fmt.Errorf("failed to insert laps: %w", err)
		}
		n, err := res.RowsAffected()
		if err != nil {
			return inserted, fmt.Errorf("failed to count inserted laps: %w", err)
		}
		inserted += n
	}
	return inserted, nil
}

// ListByActivity returns the activity's laps ordered by lap number.
func (r *LapRepository) ListByActivity(ctx context.Context, activityID int64) ([]models.Lap, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT id, activity_id, lap_number, source, start_time_ms, end_time_ms,
		distance_m, moving_time_s, elapsed_time_s,
		avg_speed_ms, max_speed_ms, avg_heart_rate_bpm, max_heart_rate_bpm,
		avg_cadence_rpm, max_cadence_rpm, total_elevation_gain_m,
		start_latitude, start_longitude, end_latitude, end_longitude
		FROM laps WHERE activity_id = ? ORDER BY lap_number`, activityID)
	if err != nil {
		return nil, fmt.Errorf("failed to query laps: %w", err)
	}
	defer rows.Close()

	laps := []models.Lap{}
	for rows.Next() {
		var (
			l          models.Lap
			start, end int64
		)
		err := rows.Scan(&l.ID, &l.ActivityID, &l.LapNumber, &l.Source, &start, &end,
			&l.DistanceM, &l.MovingTimeS, &l.ElapsedTimeS,
			&l.AvgSpeedMS, &l.MaxSpeedMS, &l.AvgHeartRateBPM, &l.MaxHeartRateBPM,
			&l.AvgCadenceRPM, &l.MaxCadenceRPM, &l.TotalElevationGainM,
			&l.StartLatitude, &l.StartLongitude, &l.EndLatitude, &l.EndLongitude)
		if err != nil {
			return nil, fmt.Errorf("failed to scan lap: %w", err)
		}
		l.StartTime = fromMillis(start)
		l.EndTime = fromMillis(end)
		laps = append(laps, l)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate laps: %w", err)
	}
	return laps, nil
}

// DeleteByActivity removes every lap of the activity.
func (r *LapRepository) DeleteByActivity(ctx context.Context, activityID int64) (int64, error) {
	res, err := r.db.ExecContext(ctx, `DELETE FROM laps WHERE activity_id = ?`, activityID)
	if err != nil {
		return 0, fmt.Errorf("failed to delete laps: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("failed to delete laps: %w", err)
	}
	return n, nil
}
