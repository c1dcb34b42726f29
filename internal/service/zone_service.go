package service

import (
	"context"
	"fmt"
	"math"

	"github.com/noszczynski/bike-stats-sub000/internal/analysis/zones"
	"github.com/noszczynski/bike-stats-sub000/internal/repository"
)

// ZoneService computes heart-rate time in zone
type ZoneService struct {
	activities     *ActivityService
	activityRepo   *repository.ActivityRepository
	trackpointRepo *repository.TrackpointRepository
	settingsRepo   *repository.SettingsRepository
}

// NewZoneService creates a new zone service
func NewZoneService(
	activities *ActivityService,
	activityRepo *repository.ActivityRepository,
	trackpointRepo *repository.TrackpointRepository,
	settingsRepo *repository.SettingsRepository,
) *ZoneService {
	return &ZoneService{
		activities:     activities,
		activityRepo:   activityRepo,
		trackpointRepo: trackpointRepo,
		settingsRepo:   settingsRepo,
	}
}

// Compute classifies the activity's trackpoints with the user's current
// boundaries and stores the five durations on the activity. The summary is
// recomputed on every call.
func (s *ZoneService) Compute(ctx context.Context, userID string, activityID int64) (*zones.Summary, error) {
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

	hasHeartRate := false
	for _, tp := range trackpoints {
		if tp.HeartRateBPM != nil {
			hasHeartRate = true
			break
		}
	}
	if !hasHeartRate {
		return nil, ErrNoHeartRateData
	}

	boundaries, err := s.settingsRepo.GetZoneBoundaries(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to load zone boundaries: %w", err)
	}

	summary := zones.Compute(trackpoints, boundaries)

	var seconds [zones.NumZones]int64
	for i, z := range summary.Zones() {
		seconds[i] = int64(math.Round(z.Seconds))
	}
	if err := s.activityRepo.UpdateZoneSeconds(ctx, activityID, seconds); err != nil {
		return nil, fmt.Errorf("failed to store zone seconds: %w", err)
	}
	return &summary, nil
}
