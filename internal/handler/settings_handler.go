package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/noszczynski/bike-stats-sub000/internal/middleware"
	"github.com/noszczynski/bike-stats-sub000/internal/models"
	"github.com/noszczynski/bike-stats-sub000/internal/service"
	"github.com/noszczynski/bike-stats-sub000/pkg/response"
)

// SettingsHandler handles per-user settings
type SettingsHandler struct {
	settingsService *service.SettingsService
}

// NewSettingsHandler creates a new settings handler
func NewSettingsHandler(settingsService *service.SettingsService) *SettingsHandler {
	return &SettingsHandler{
		settingsService: settingsService,
	}
}

// GetZones handles GET /api/v1/settings/zones
func (h *SettingsHandler) GetZones(c *gin.Context) {
	b, err := h.settingsService.GetZones(c.Request.Context(), middleware.GetUserID(c))
	if err != nil {
		writeError(c, err)
		return
	}

	response.Success(c, b)
}

// UpdateZones handles PUT /api/v1/settings/zones
func (h *SettingsHandler) UpdateZones(c *gin.Context) {
	var req models.ZoneBoundaries
	// Bind zone boundaries
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request body")
		return
	}

	// Save zone boundaries
	b, err := h.settingsService.UpdateZones(c.Request.Context(), middleware.GetUserID(c), req)
	if err != nil {
		writeError(c, err)
		return
	}

	response.Success(c, b)
}
