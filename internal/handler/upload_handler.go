package handler

import (
	"io"

	"github.com/gin-gonic/gin"

	"github.com/noszczynski/bike-stats-sub000/internal/middleware"
	"github.com/noszczynski/bike-stats-sub000/internal/service"
	"github.com/noszczynski/bike-stats-sub000/pkg/response"
)

// UploadFormField is the multipart field holding the FIT file.
const UploadFormField = "file"

// UploadHandler handles FIT file uploads
type UploadHandler struct {
	uploadService *service.UploadService
}

// NewUploadHandler creates a new upload handler
func NewUploadHandler(uploadService *service.UploadService) *UploadHandler {
	return &UploadHandler{
		uploadService: uploadService,
	}
}

// UploadFIT handles POST /api/v1/activities/:id/fit
func (h *UploadHandler) UploadFIT(c *gin.Context) {
	// Parse ID
	id, ok := parseID(c)
	if !ok {
		return
	}

	// Read uploaded file
	header, err := c.FormFile(UploadFormField)
	if err != nil {
		if isTooLarge(err) {
			writeError(c, err)
			return
		}
		response.BadRequest(c, "Missing FIT file in form field \""+UploadFormField+"\"")
		return
	}

	file, err := header.Open()
	if err != nil {
		writeError(c, err)
		return
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		writeError(c, err)
		return
	}

	// Import FIT file
	result, err := h.uploadService.ImportFIT(c.Request.Context(), middleware.GetUserID(c), id, data)
	if err != nil {
		writeError(c, err)
		return
	}

	response.Created(c, result)
}

// DeleteFIT handles DELETE /api/v1/activities/:id/fit
func (h *UploadHandler) DeleteFIT(c *gin.Context) {
	// Parse ID
	id, ok := parseID(c)
	if !ok {
		return
	}

	// Drop FIT data
	if err := h.uploadService.DeleteFITData(c.Request.Context(), middleware.GetUserID(c), id); err != nil {
		writeError(c, err)
		return
	}

	response.Success(c, nil)
}
