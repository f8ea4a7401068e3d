package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/dynamisinc/cobra-poc-sub007/internal/metrics"
)

// HealthCheck handles health check requests
func HealthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, metrics.GetMetricsCollector().GetHealthStatus())
}

// Metrics handles metrics snapshot requests
func Metrics(c *gin.Context) {
	c.JSON(http.StatusOK, metrics.GetMetricsCollector().GetMetrics())
}
