package service

import (
	"context"
	"fmt"

	"github.com/noszczynski/bike-stats-sub000/internal/models"
	"github.com/noszczynski/bike-stats-sub000/internal/repository"
)

// MaxHeartRateBPM is the highest accepted zone boundary.
const MaxHeartRateBPM = 250

// SettingsService manages per-user settings
type SettingsService struct {
	settingsRepo *repository.SettingsRepository
}

// NewSettingsService creates a new settings service
func NewSettingsService(settingsRepo *repository.SettingsRepository) *SettingsService {
	return &SettingsService{settingsRepo: settingsRepo}
}

// GetZones returns the user's zone boundaries
func (s *SettingsService) GetZones(ctx context.Context, userID string) (models.ZoneBoundaries, error) {
	b, err := s.settingsRepo.GetZoneBoundaries(ctx, userID)
	if err != nil {
		return models.ZoneBoundaries{}, fmt.Errorf("failed to get zone boundaries: %w", err)
	}
	return b, nil
}

// UpdateZones stores new zone boundaries
func (s *SettingsService) UpdateZones(ctx context.Context, userID string, b models.ZoneBoundaries) (models.ZoneBoundaries, error) {
	if err := ValidateZoneBoundaries(b); err != nil {
		return models.ZoneBoundaries{}, err
	}
	if err := s.settingsRepo.UpsertZoneBoundaries(ctx, userID, b); err != nil {
		return models.ZoneBoundaries{}, fmt.Errorf("failed to update zone boundaries: %w", err)
	}
	return b, nil
}

// ValidateZoneBoundaries requires 0 <= z1 <= z2 <= z3 <= z4 <= 250.
func ValidateZoneBoundaries(b models.ZoneBoundaries) error {
	if b.Zone1Max < 0 || b.Zone1Max > b.Zone2Max || b.Zone2Max > b.Zone3Max ||
		b.Zone3Max > b.Zone4Max || b.Zone4Max > MaxHeartRateBPM {
		return fmt.Errorf("%w: got %d/%d/%d/%d", ErrInvalidZoneBoundaries, b.Zone1Max, b.Zone2Max, b.Zone3Max, b.Zone4Max)
	}
	return nil
}
