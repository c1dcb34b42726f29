package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/noszczynski/bike-stats-sub000/internal/middleware"
	"github.com/noszczynski/bike-stats-sub000/internal/models"
	"github.com/noszczynski/bike-stats-sub000/internal/service"
	"github.com/noszczynski/bike-stats-sub000/pkg/response"
)

// ActivityHandler handles HTTP requests for activities
type ActivityHandler struct {
	activityService *service.ActivityService
}

// NewActivityHandler creates a new activity handler
func NewActivityHandler(activityService *service.ActivityService) *ActivityHandler {
	return &ActivityHandler{
		activityService: activityService,
	}
}

// CreateActivity handles POST /api/v1/activities
func (h *ActivityHandler) CreateActivity(c *gin.Context) {
	var req models.CreateActivityRequest
	// Bind request body
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request body")
		return
	}

	// Create activity
	activity, err := h.activityService.Create(c.Request.Context(), middleware.GetUserID(c), req)
	if err != nil {
		writeError(c, err)
		return
	}

	response.Created(c, activity)
}

// ListActivities handles GET /api/v1/activities
func (h *ActivityHandler) ListActivities(c *gin.Context) {
	var filter models.ActivityFilter
	// Parse query parameters
	if err := c.ShouldBindQuery(&filter); err != nil {
		response.BadRequest(c, "Invalid query parameters")
		return
	}

	// List activities
	result, err := h.activityService.List(c.Request.Context(), middleware.GetUserID(c), filter)
	if err != nil {
		writeError(c, err)
		return
	}

	response.Success(c, result)
}

// GetActivity handles GET /api/v1/activities/:id
func (h *ActivityHandler) GetActivity(c *gin.Context) {
	// Parse ID
	id, ok := parseID(c)
	if !ok {
		return
	}

	// Get activity
	activity, err := h.activityService.Get(c.Request.Context(), middleware.GetUserID(c), id)
	if err != nil {
		writeError(c, err)
		return
	}

	response.Success(c, activity)
}
