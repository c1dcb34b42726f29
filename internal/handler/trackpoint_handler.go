package handler

import (
	"fmt"

	"github.com/gin-gonic/gin"

	"github.com/noszczynski/bike-stats-sub000/internal/middleware"
	"github.com/noszczynski/bike-stats-sub000/internal/models"
	"github.com/noszczynski/bike-stats-sub000/internal/service"
	"github.com/noszczynski/bike-stats-sub000/pkg/response"
)

// ParquetContentType is the media type of parquet downloads.
const ParquetContentType = "application/vnd.apache.parquet"

// TrackpointHandler handles HTTP requests for trackpoints
type TrackpointHandler struct {
	trackpointService *service.TrackpointService
	exportService     *service.ExportService
}

// NewTrackpointHandler creates a new trackpoint handler
func NewTrackpointHandler(trackpointService *service.TrackpointService, exportService *service.ExportService) *TrackpointHandler {
	return &TrackpointHandler{
		trackpointService: trackpointService,
		exportService:     exportService,
	}
}

// ListTrackpoints handles GET /api/v1/activities/:id/trackpoints
func (h *TrackpointHandler) ListTrackpoints(c *gin.Context) {
	// Parse ID
	id, ok := parseID(c)
	if !ok {
		return
	}

	var filter models.TrackpointFilter
	// Parse query parameters
	if err := c.ShouldBindQuery(&filter); err != nil {
		response.BadRequest(c, "Invalid query parameters")
		return
	}

	// Get trackpoints
	points, err := h.trackpointService.List(c.Request.Context(), middleware.GetUserID(c), id, filter.SkipEmpty)
	if err != nil {
		writeError(c, err)
		return
	}

	response.Success(c, models.TrackpointsResponse{
		ActivityID: id,
		Data:       points,
		Total:      len(points),
	})
}

// ExportTrackpoints handles GET /api/v1/activities/:id/trackpoints/export
func (h *TrackpointHandler) ExportTrackpoints(c *gin.Context) {
	// Parse ID
	id, ok := parseID(c)
	if !ok {
		return
	}

	// Encode parquet
	data, err := h.exportService.TrackpointsParquet(c.Request.Context(), middleware.GetUserID(c), id)
	if err != nil {
		writeError(c, err)
		return
	}

	// Send as attachment
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=\"activity-%d-trackpoints.parquet\"", id))
	c.Data(200, ParquetContentType, data)
}
