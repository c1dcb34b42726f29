package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/noszczynski/bike-stats-sub000/internal/middleware"
	"github.com/noszczynski/bike-stats-sub000/internal/models"
	"github.com/noszczynski/bike-stats-sub000/internal/service"
	"github.com/noszczynski/bike-stats-sub000/pkg/response"
)

// LapHandler handles HTTP requests for laps
type LapHandler struct {
	lapService *service.LapService
}

// NewLapHandler creates a new lap handler
func NewLapHandler(lapService *service.LapService) *LapHandler {
	return &LapHandler{
		lapService: lapService,
	}
}

// ListLaps handles GET /api/v1/activities/:id/laps
func (h *LapHandler) ListLaps(c *gin.Context) {
	// Parse ID
	id, ok := parseID(c)
	if !ok {
		return
	}

	// Get laps
	laps, err := h.lapService.List(c.Request.Context(), middleware.GetUserID(c), id)
	if err != nil {
		writeError(c, err)
		return
	}

	response.Success(c, laps)
}

// GenerateLaps handles POST /api/v1/activities/:id/laps/generate
func (h *LapHandler) GenerateLaps(c *gin.Context) {
	// Parse ID
	id, ok := parseID(c)
	if !ok {
		return
	}

	// Bind target distance
	var req models.GenerateLapsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Request body must contain distance_m")
		return
	}

	// Replace laps
	laps, err := h.lapService.Regenerate(c.Request.Context(), middleware.GetUserID(c), id, req.DistanceM)
	if err != nil {
		writeError(c, err)
		return
	}

	response.Success(c, laps)
}
