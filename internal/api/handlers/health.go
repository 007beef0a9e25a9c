// Package handlers provides HTTP handlers for the API.
package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/unifiedui/cache-service/internal/api/dto"
	"github.com/unifiedui/cache-service/internal/services/cacheadmin"
)

// HealthHandler handles health check endpoints.
type HealthHandler struct {
	cacheService cacheadmin.Service
}

// NewHealthHandler creates a new HealthHandler.
func NewHealthHandler(cacheService cacheadmin.Service) *HealthHandler {
	return &HealthHandler{
		cacheService: cacheService,
	}
}

// cacheHealth returns "healthy", "unhealthy" or "disabled".
func (h *HealthHandler) cacheHealth(c *gin.Context) string {
	status, err := h.cacheService.Status(c.Request.Context())
	if err != nil {
		return "unhealthy"
	}
	if !status.Enabled {
		return "disabled"
	}
	if err := h.cacheService.Ping(c.Request.Context()); err != nil {
		return "unhealthy"
	}
	return "healthy"
}

// Health handles the /health endpoint.
// @Summary Health check
// @Description Returns the overall health status and component statuses. A disabled cache counts as healthy.
// @Tags Health
// @Produce json
// @Success 200 {object} dto.HealthResponse "Service healthy"
// @Failure 503 {object} dto.HealthResponse "Service unhealthy"
// @Router /health [get]
func (h *HealthHandler) Health(c *gin.Context) {
	components := map[string]string{
		"cache": h.cacheHealth(c),
	}

	status := "healthy"
	statusCode := http.StatusOK
	if components["cache"] == "unhealthy" {
		status = "unhealthy"
		statusCode = http.StatusServiceUnavailable
	}

	c.JSON(statusCode, dto.HealthResponse{
		Status:     status,
		Components: components,
	})
}

// Ready handles the /ready endpoint.
// @Summary Readiness check
// @Description Returns 200 if the service is ready to accept traffic
// @Tags Health
// @Produce json
// @Success 200 {object} map[string]string "Service ready"
// @Failure 503 {object} map[string]string "Service not ready"
// @Router /ready [get]
func (h *HealthHandler) Ready(c *gin.Context) {
	if h.cacheHealth(c) == "unhealthy" {
		c.JSON(http.StatusServiceUnavailable, gin.H{
			"status": "not ready",
			"reason": "cache unavailable",
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"status": "ready",
	})
}

// Live handles the /live endpoint.
// @Summary Liveness check
// @Description Returns 200 if the service is alive
// @Tags Health
// @Produce json
// @Success 200 {object} map[string]string "Service alive"
// @Router /live [get]
func (h *HealthHandler) Live(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status": "alive",
	})
}
