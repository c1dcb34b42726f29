package repository

import (
	"context"
	"fmt"

	"github.com/noszczynski/bike-stats-sub000/internal/models"
)

const trackpointInsertColumns = 11

// TrackpointRepository handles database operations for trackpoints
type TrackpointRepository struct {
	db        DBTX
	batchSize int
}

// NewTrackpointRepository creates a new trackpoint repository. batchSize
// is clamped to what one INSERT can bind.
func NewTrackpointRepository(db DBTX, batchSize int) *TrackpointRepository {
	batchSize = clampBatchSize(batchSize, trackpointInsertColumns)
	return &TrackpointRepository{db: db, batchSize: batchSize}
}

// WithTx returns a repository bound to tx.
func (r *TrackpointRepository) WithTx(tx DBTX) *TrackpointRepository {
	return &TrackpointRepository{db: tx, batchSize: r.batchSize}
}

// BulkInsert writes trackpoints in chunks of the batch size. Rows that
// collide on (activity_id, seq) are skipped, so a re-run inserts nothing.
// Returns the number of rows inserted.
func (r *TrackpointRepository) BulkInsert(ctx context.Context, points []models.Trackpoint) (int64, error) {
	var inserted int64
	for start := 0; start < len(points); start += r.batchSize {
		end := start + r.batchSize
		if end > len(points) {
			end = len(points)
		}
		chunk := points[start:end]

		args := make([]interface{}, 0, len(chunk)*trackpointInsertColumns)
		for _, p := range chunk {
			args = append(args,
				p.ActivityID, p.Seq, toMillis(p.Timestamp),
				p.Latitude, p.Longitude, p.AltitudeM, p.DistanceM, p.SpeedMS,
				p.HeartRateBPM, p.CadenceRPM, p.TemperatureC,
			)
		}
		query := `INSERT OR IGNORE INTO trackpoints
			(activity_id, seq, timestamp_ms, latitude, longitude, altitude_m, distance_m, speed_ms,
			heart_rate_bpm, cadence_rpm, temperature_c)
			VALUES ` + placeholders(len(chunk), trackpointInsertColumns)

		res, err := r.db.ExecContext(ctx, query, args...)
		if err != nil {
			return inserted, fmt.Errorf("failed to insert trackpoints %d-%d: %w", start, end, err)
		}
		n, err := res.RowsAffected()
		if err != nil {
			return inserted, fmt.Errorf("failed to count inserted trackpoints: %w", err)
		}
		inserted += n
	}
	return inserted, nil
}

// ListByActivity returns the activity's trackpoints ordered by time, then
// by position in the source file.
func (r *TrackpointRepository) ListByActivity(ctx context.Context, activityID int64) ([]models.Trackpoint, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT id, activity_id, seq, timestamp_ms, latitude, longitude,
		altitude_m, distance_m, speed_ms, heart_rate_bpm, cadence_rpm, temperature_c
		FROM trackpoints WHERE activity_id = ?
		ORDER BY timestamp_ms, seq`, activityID)
	if err != nil {
		return nil, fmt.Errorf("failed to query trackpoints: %w", err)
	}
	defer rows.Close()

	points := []models.Trackpoint{}
	for rows.Next() {
		var (
			p  models.Trackpoint
			ts int64
		)
		err := rows.Scan(&p.ID, &p.ActivityID, &p.Seq, &ts, &p.Latitude, &p.Longitude,
			&p.AltitudeM, &p.DistanceM, &p.SpeedMS, &p.HeartRateBPM, &p.CadenceRPM, &p.TemperatureC)
		if err != nil {
			return nil, fmt.Errorf("failed to scan trackpoint: %w", err)
		}
		p.Timestamp = fromMillis(ts)
		points = append(points, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate trackpoints: %w", err)
	}
	return points, nil
}

// CountByActivity returns the number of stored trackpoints.
func (r *TrackpointRepository) CountByActivity(ctx context.Context, activityID int64) (int64, error) {
	var n int64
	err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM trackpoints WHERE activity_id = ?`, activityID).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("failed to count trackpoints: %w", err)
	}
	return n, nil
}

// DeleteByActivity removes every trackpoint of the activity.
func (r *TrackpointRepository) DeleteByActivity(ctx context.Context, activityID int64) (int64, error) {
	res, err := r.db.ExecContext(ctx, `DELETE FROM trackpoints WHERE activity_id = ?`, activityID)
	if err != nil {
		return 0, fmt.Errorf("failed to delete trackpoints: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("failed to delete trackpoints: %w", err)
	}
	return n, nil
}
