package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/noszczynski/bike-stats-sub000/internal/database"
	"github.com/noszczynski/bike-stats-sub000/internal/fitfile"
	"github.com/noszczynski/bike-stats-sub000/internal/models"
	"github.com/noszczynski/bike-stats-sub000/internal/normalize"
	"github.com/noszczynski/bike-stats-sub000/internal/repository"
)

// UploadService imports FIT files into activities
type UploadService struct {
	db             *sql.DB
	activities     *ActivityService
	activityRepo   *repository.ActivityRepository
	trackpointRepo *repository.TrackpointRepository
	lapRepo        *repository.LapRepository
	logger         *slog.Logger
}

// NewUploadService creates a new upload service
func NewUploadService(
	db *sql.DB,
	activities *ActivityService,
	activityRepo *repository.ActivityRepository,
	trackpointRepo *repository.TrackpointRepository,
	lapRepo *repository.LapRepository,
	logger *slog.Logger,
) *UploadService {
	if logger == nil {
		logger = slog.Default()
	}
	return &UploadService{
		db:             db,
		activities:     activities,
		activityRepo:   activityRepo,
		trackpointRepo: trackpointRepo,
		lapRepo:        lapRepo,
		logger:         logger,
	}
}

// ImportFIT decodes data and attaches its trackpoints, device laps and
// session summary to the activity in one transaction. A processed activity
// is rejected before the file is decoded.
func (s *UploadService) ImportFIT(ctx context.Context, userID string, activityID int64, data []byte) (*models.ImportResult, error) {
	activity, err := s.activities.Get(ctx, userID, activityID)
	if err != nil {
		return nil, err
	}
	if activity.FitProcessed {
		return nil, ErrAlreadyProcessed
	}
	if !fitfile.Validate(data) {
		return nil, fmt.Errorf("%w: %w", ErrInvalidFormat, fitfile.ErrInvalidHeader)
	}

	raw, err := fitfile.Decode(data)
	if err != nil {
		if errors.Is(err, fitfile.ErrNoActivityData) {
			return nil, err
		}
		return nil, fmt.Errorf("%w: %w", ErrInvalidFormat, err)
	}

	trackpoints, laps := normalize.Normalize(raw, activity.ID)
	summary := normalize.SessionSummary(raw)
	sport := normalize.SportName(raw)
	var start *time.Time
	if t := normalize.StartTime(raw); !t.IsZero() {
		start = &t
	}

	var inserted, lapsInserted int64
	err = database.Transaction(ctx, s.db, func(tx *sql.Tx) error {
		won, err := s.activityRepo.WithTx(tx).MarkFitProcessed(ctx, activity.ID)
		if err != nil {
			return err
		}
		if !won {
			return ErrAlreadyProcessed
		}
		if inserted, err = s.trackpointRepo.WithTx(tx).BulkInsert(ctx, trackpoints); err != nil {
			return err
		}
		if lapsInserted, err = s.lapRepo.WithTx(tx).BulkInsert(ctx, laps); err != nil {
			return err
		}
		return s.activityRepo.WithTx(tx).UpdateSessionSummary(ctx, activity.ID, sport, start, summary)
	})
	if err != nil {
		if errors.Is(err, ErrAlreadyProcessed) {
			return nil, err
		}
		return nil, fmt.Errorf("failed to store FIT data: %w", err)
	}

	s.logger.Info("fit file imported",
		"activity_id", activity.ID,
		"trackpoints", inserted,
		"laps", lapsInserted,
		"synthetic_session", summary.SyntheticSession,
		"warnings", len(raw.Warnings))

	return &models.ImportResult{
		ActivityID:      activity.ID,
		TrackpointCount: int(inserted),
		LapCount:        int(lapsInserted),
		Warnings:        raw.Warnings,
	}, nil
}

// DeleteFITData removes the imported trackpoints and laps and clears the
// processed flag, so a file can be uploaded again.
func (s *UploadService) DeleteFITData(ctx context.Context, userID string, activityID int64) error {
	activity, err := s.activities.Get(ctx, userID, activityID)
	if err != nil {
		return err
	}

	var deleted int64
	err = database.Transaction(ctx, s.db, func(tx *sql.Tx) error {
		var err error
		if deleted, err = s.trackpointRepo.WithTx(tx).DeleteByActivity(ctx, activity.ID); err != nil {
			return err
		}
		if _, err := s.lapRepo.WithTx(tx).DeleteByActivity(ctx, activity.ID); err != nil {
			return err
		}
		return s.activityRepo.WithTx(tx).ResetFitData(ctx, activity.ID)
	})
	if err != nil {
		return fmt.Errorf("failed to delete FIT data: %w", err)
	}

	s.logger.Info("fit data deleted", "activity_id", activity.ID, "trackpoints", deleted)
	return nil
}
