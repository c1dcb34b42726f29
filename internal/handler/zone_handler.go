package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/noszczynski/bike-stats-sub000/internal/middleware"
	"github.com/noszczynski/bike-stats-sub000/internal/service"
	"github.com/noszczynski/bike-stats-sub000/pkg/response"
)

// ZoneHandler handles heart-rate zone requests
type ZoneHandler struct {
	zoneService *service.ZoneService
}

// NewZoneHandler creates a new zone handler
func NewZoneHandler(zoneService *service.ZoneService) *ZoneHandler {
	return &ZoneHandler{
		zoneService: zoneService,
	}
}

// GetZones handles GET /api/v1/activities/:id/zones
func (h *ZoneHandler) GetZones(c *gin.Context) {
	// Parse ID
	id, ok := parseID(c)
	if !ok {
		return
	}

	// Compute zones
	summary, err := h.zoneService.Compute(c.Request.Context(), middleware.GetUserID(c), id)
	if err != nil {
		writeError(c, err)
		return
	}

	response.Success(c, summary)
}
