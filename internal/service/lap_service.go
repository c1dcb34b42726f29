package service

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"

	"github.com/noszczynski/bike-stats-sub000/internal/analysis/laps"
	"github.com/noszczynski/bike-stats-sub000/internal/database"
	"github.com/noszczynski/bike-stats-sub000/internal/models"
	"github.com/noszczynski/bike-stats-sub000/internal/repository"
)

// LapService lists and regenerates laps
type LapService struct {
	db             *sql.DB
	activities     *ActivityService
	trackpointRepo *repository.TrackpointRepository
	lapRepo        *repository.LapRepository
	locks          *keyedMutex
	logger         *slog.Logger
}

// NewLapService creates a new lap service
func NewLapService(
	db *sql.DB,
	activities *ActivityService,
	trackpointRepo *repository.TrackpointRepository,
	lapRepo *repository.LapRepository,
	logger *slog.Logger,
) *LapService {
	if logger == nil {
		logger = slog.Default()
	}
	return &LapService{
		db:             db,
		activities:     activities,
		trackpointRepo: trackpointRepo,
		lapRepo:        lapRepo,
		locks:          newKeyedMutex(),
		logger:         logger,
	}
}

// List returns the activity's laps
func (s *LapService) List(ctx context.Context, userID string, activityID int64) ([]models.Lap, error) {
	if _, err := s.activities.Get(ctx, userID, activityID); err != nil {
		return nil, err
	}
	result, err := s.lapRepo.ListByActivity(ctx, activityID)
	if err != nil {
		return nil, fmt.Errorf("failed to list laps: %w", err)
	}
	return result, nil
}

// Regenerate replaces the activity's laps with laps of targetM meters.
// Regenerations of one activity run one at a time; the new laps are fully
// computed before the old ones are deleted, and delete plus insert share a
// transaction.
func (s *LapService) Regenerate(ctx context.Context, userID string, activityID int64, targetM float64) ([]models.Lap, error) {
	if err := laps.ValidateTargetDistance(targetM); err != nil {
		return nil, err
	}
	if _, err := s.activities.Get(ctx, userID, activityID); err != nil {
		return nil, err
	}

	unlock := s.locks.Lock(activityID)
	defer unlock()

	trackpoints, err := s.trackpointRepo.ListByActivity(ctx, activityID)
	if err != nil {
		return nil, fmt.Errorf("failed to load trackpoints: %w", err)
	}
	generated, err := laps.Generate(trackpoints, targetM)
	if err != nil {
		return nil, err
	}
	for i := range generated {
		generated[i].ActivityID = activityID
	}

	err = database.Transaction(ctx, s.db, func(tx *sql.Tx) error {
		lapRepo := s.lapRepo.WithTx(tx)
		if _, err := lapRepo.DeleteByActivity(ctx, activityID); err != nil {
			return err
		}
		_, err := lapRepo.BulkInsert(ctx, generated)
		return err
	})
	if err != nil {
		return nil, fmt.Errorf("failed to replace laps: %w", err)
	}

	s.logger.Info("laps regenerated", "activity_id", activityID, "target_m", targetM, "laps", len(generated))

	return s.lapRepo.ListByActivity(ctx, activityID)
}
