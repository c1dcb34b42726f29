package handler

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/noszczynski/bike-stats-sub000/internal/analysis/laps"
	"github.com/noszczynski/bike-stats-sub000/internal/fitfile"
	"github.com/noszczynski/bike-stats-sub000/internal/service"
	"github.com/noszczynski/bike-stats-sub000/pkg/response"
)

// writeError maps a service error to its HTTP status. Unclassified errors
// are attached to the context for logging and Sentry and answered with a
// generic 500.
func writeError(c *gin.Context, err error) {
	var tooLarge *http.MaxBytesError
	switch {
	case errors.As(err, &tooLarge):
		response.RequestEntityTooLarge(c, "Upload exceeds "+strconv.FormatInt(tooLarge.Limit, 10)+" bytes")
	case errors.Is(err, service.ErrNotFound):
		response.NotFound(c, "Activity or activity data not found")
	case errors.Is(err, service.ErrAlreadyProcessed):
		response.Conflict(c, "FIT file already processed for this activity")
	case errors.Is(err, service.ErrInvalidFormat):
		response.BadRequest(c, "Invalid FIT file: "+err.Error())
	case errors.Is(err, fitfile.ErrNoActivityData):
		response.UnprocessableEntity(c, "FIT file contains no activity data")
	case errors.Is(err, service.ErrNoHeartRateData):
		response.UnprocessableEntity(c, "No heart rate data available for this activity")
	case errors.Is(err, laps.ErrNoDistanceData):
		response.UnprocessableEntity(c, "No distance data available for this activity")
	case errors.Is(err, laps.ErrDistanceTooShort):
		response.UnprocessableEntity(c, "Unable to generate laps, distance too short")
	case errors.Is(err, laps.ErrInvalidTargetDistance):
		response.BadRequest(c, "Distance must be greater than 100 m and at most 50000 m")
	case errors.Is(err, service.ErrInvalidZoneBoundaries):
		response.BadRequest(c, err.Error())
	default:
		_ = c.Error(err)
		response.InternalError(c, "Internal server error")
	}
}

// parseID reads the :id path parameter, answering 400 when it is not a
// positive integer.
func parseID(c *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		response.BadRequest(c, "Invalid activity ID")
		return 0, false
	}
	return id, true
}

func isTooLarge(err error) bool {
	var tooLarge *http.MaxBytesError
	return errors.As(err, &tooLarge)
}
