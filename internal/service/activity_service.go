package service

import (
	"context"
	"fmt"
	"math"

	"github.com/noszczynski/bike-stats-sub000/internal/models"
	"github.com/noszczynski/bike-stats-sub000/internal/repository"
)

// ActivityService handles business logic for activities
type ActivityService struct {
	activityRepo *repository.ActivityRepository
}

// NewActivityService creates a new activity service
func NewActivityService(activityRepo *repository.ActivityRepository) *ActivityService {
	return &ActivityService{activityRepo: activityRepo}
}

// Create creates an activity owned by userID
func (s *ActivityService) Create(ctx context.Context, userID string, req models.CreateActivityRequest) (*models.Activity, error) {
	a := &models.Activity{
		UserID:    userID,
		Name:      req.Name,
		Source:    req.Source,
		StartTime: req.StartTime,
	}
	if err := s.activityRepo.Create(ctx, a); err != nil {
		return nil, fmt.Errorf("failed to create activity: %w", err)
	}
	return a, nil
}

// Get returns the activity when it exists and belongs to userID.
// Activities of other users are reported as ErrNotFound.
func (s *ActivityService) Get(ctx context.Context, userID string, id int64) (*models.Activity, error) {
	a, err := s.activityRepo.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to get activity: %w", err)
	}
	if a == nil || a.UserID != userID {
		return nil, fmt.Errorf("activity %d: %w", id, ErrNotFound)
	}
	return a, nil
}

// List returns a page of the user's activities
func (s *ActivityService) List(ctx context.Context, userID string, filter models.ActivityFilter) (*models.ActivitiesResponse, error) {
	if filter.Page < 1 {
		filter.Page = 1
	}
	if filter.PageSize < 1 {
		filter.PageSize = 20
	}
	if filter.PageSize > 100 {
		filter.PageSize = 100
	}

	activities, total, err := s.activityRepo.ListByUser(ctx, userID, filter)
	if err != nil {
		return nil, fmt.Errorf("failed to list activities: %w", err)
	}

	totalPages := int(math.Ceil(float64(total) / float64(filter.PageSize)))

	return &models.ActivitiesResponse{
		Data:       activities,
		Total:      total,
		Page:       filter.Page,
		PageSize:   filter.PageSize,
		TotalPages: totalPages,
	}, nil
}
