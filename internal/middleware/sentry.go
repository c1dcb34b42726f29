package middleware

import (
	sentrygin "github.com/getsentry/sentry-go/gin"
	"github.com/gin-gonic/gin"

	"github.com/noszczynski/bike-stats-sub000/internal/reporting"
)

// Sentry attaches a request-scoped hub and reports panics. The panic is
// re-raised so gin's recovery still writes the 500.
func Sentry() gin.HandlerFunc {
	return sentrygin.New(sentrygin.Options{Repanic: true})
}

// ReportServerErrors sends the errors attached to a 5xx response to Sentry.
func ReportServerErrors() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		if c.Writer.Status() < 500 {
			return
		}
		hub := sentrygin.GetHubFromContext(c)
		for _, e := range c.Errors {
			reporting.CaptureException(hub, e.Err, map[string]interface{}{
				"request": map[string]interface{}{
					"id":      GetRequestID(c),
					"route":   c.FullPath(),
					"user_id": GetUserID(c),
				},
			})
		}
	}
}
