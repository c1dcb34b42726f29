package service

import (
	"context"
	"fmt"

	"github.com/noszczynski/bike-stats-sub000/internal/export"
	"github.com/noszczynski/bike-stats-sub000/internal/repository"
)

// ExportService renders activity data for download
type ExportService struct {
	activities     *ActivityService
	trackpointRepo *repository.TrackpointRepository
}

// NewExportService creates a new export service
func NewExportService(activities *ActivityService, trackpointRepo *repository.TrackpointRepository) *ExportService {
	return &ExportService{activities: activities, trackpointRepo: trackpointRepo}
}

// TrackpointsParquet returns the activity's trackpoints as a parquet file.
func (s *ExportService) TrackpointsParquet(ctx context.Context, userID string, activityID int64) ([]byte, error) {
	if _, err := s.activities.Get(ctx, userID, activityID); err != nil {
		return nil, err
	}
	trackpoints, err := s.trackpointRepo.ListByActivity(ctx, activityID)
	if err != nil {
		return nil, fmt.Errorf("failed to load trackpoints: %w", err)
	}
	if len(trackpoints) == 0 {
		return nil, fmt.Errorf("activity %d has no trackpoints: %w", activityID, ErrNotFound)
	}
	data, err := export.TrackpointsParquet(trackpoints)
	if err != nil {
		return nil, fmt.Errorf("failed to export trackpoints: %w", err)
	}
	return data, nil
}
