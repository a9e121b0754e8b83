package endpoint

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/kbukum/pipekit/observability"
)

// HealthChecker builds the current service health.
type HealthChecker func(ctx context.Context) *observability.ServiceHealth

// Health returns a handler that reports service health. A service that is
// down answers 503.
func Health(checker HealthChecker) gin.HandlerFunc {
	return func(c *gin.Context) {
		health := checker(c.Request.Context())

		httpStatus := http.StatusOK
		if health.Status == observability.HealthStatusDown {
			httpStatus = http.StatusServiceUnavailable
		}

		c.JSON(httpStatus, gin.H{
			"status":     health.Status,
			"service":    health.Service,
			"version":    health.Version,
			"timestamp":  time.Now().UTC().Format(time.RFC3339),
			"components": health.Components,
		})
	}
}
