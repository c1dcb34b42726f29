package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/noszczynski/bike-stats-sub000/internal/models"
)

// SettingsRepository handles per-user settings
type SettingsRepository struct {
	db DBTX
}

// NewSettingsRepository creates a new settings repository
func NewSettingsRepository(db DBTX) *SettingsRepository {
	return &SettingsRepository{db: db}
}

// GetZoneBoundaries returns the user's heart-rate zone boundaries. Users
// without settings get all-zero boundaries.
func (r *SettingsRepository) GetZoneBoundaries(ctx context.Context, userID string) (models.ZoneBoundaries, error) {
	var b models.ZoneBoundaries
	err := r.db.QueryRowContext(ctx, `SELECT zone_1_max, zone_2_max, zone_3_max, zone_4_max
		FROM user_settings WHERE user_id = ?`, userID).
		Scan(&b.Zone1Max, &b.Zone2Max, &b.Zone3Max, &b.Zone4Max)
	if err == sql.ErrNoRows {
		return models.ZoneBoundaries{}, nil
	}
	if err != nil {
		return models.ZoneBoundaries{}, fmt.Errorf("failed to get zone boundaries: %w", err)
	}
	return b, nil
}

// UpsertZoneBoundaries stores the user's heart-rate zone boundaries.
func (r *SettingsRepository) UpsertZoneBoundaries(ctx context.Context, userID string, b models.ZoneBoundaries) error {
	_, err := r.db.ExecContext(ctx, `INSERT INTO user_settings (user_id, zone_1_max, zone_2_max, zone_3_max, zone_4_max, updated_at_ms)
		VALUES (?, ?, ?, ?, ?, ?)
		ON CONFLICT(user_id) DO UPDATE SET
			zone_1_max = excluded.zone_1_max,
			zone_2_max = excluded.zone_2_max,
			zone_3_max = excluded.zone_3_max,
			zone_4_max = excluded.zone_4_max,
			updated_at_ms = excluded.updated_at_ms`,
		userID, b.Zone1Max, b.Zone2Max, b.Zone3Max, b.Zone4Max, time.Now().UnixMilli())
	if err != nil {
		return fmt.Errorf("failed to upsert zone boundaries: %w", err)
	}
	return nil
}
