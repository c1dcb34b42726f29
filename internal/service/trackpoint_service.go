package service

import (
	"context"
	"fmt"

	"github.com/noszczynski/bike-stats-sub000/internal/models"
	"github.com/noszczynski/bike-stats-sub000/internal/repository"
)

// TrackpointService reads an activity's trackpoints
type TrackpointService struct {
	activities     *ActivityService
	trackpointRepo *repository.TrackpointRepository
}

// NewTrackpointService creates a new trackpoint service
func NewTrackpointService(activities *ActivityService, trackpointRepo *repository.TrackpointRepository) *TrackpointService {
	return &TrackpointService{activities: activities, trackpointRepo: trackpointRepo}
}

// List returns the trackpoints in time order. With skipEmpty, samples that
// carry no channel at all are left out.
func (s *TrackpointService) List(ctx context.Context, userID string, activityID int64, skipEmpty bool) ([]models.Trackpoint, error) {
	if _, err := s.activities.Get(ctx, userID, activityID); err != nil {
		return nil, err
	}
	points, err := s.trackpointRepo.ListByActivity(ctx, activityID)
	if err != nil {
		return nil, fmt.Errorf("failed to list trackpoints: %w", err)
	}
	if !skipEmpty {
		return points, nil
	}

	filtered := points[:0]
	for _, p := range points {
		if !p.IsEmpty() {
			filtered = append(filtered, p)
		}
	}
	return filtered, nil
}
