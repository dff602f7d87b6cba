package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/eshaffer321/saletrack/internal/api/dto"
	"github.com/eshaffer321/saletrack/internal/application/health"
)

// HealthHandler serves the liveness probe and on-demand health checks.
type HealthHandler struct {
	monitor *health.Monitor
}

// NewHealthHandler creates a new health handler. monitor may be nil, in which
// case only the liveness probe is useful.
func NewHealthHandler(monitor *health.Monitor) *HealthHandler {
	return &HealthHandler{monitor: monitor}
}

// Live handles GET /health.
func (h *HealthHandler) Live(c *gin.Context) {
	c.JSON(http.StatusOK, dto.NewHealthResponse())
}

// Check handles POST /api/health-check. It runs every check and returns the
// report without mailing it.
func (h *HealthHandler) Check(c *gin.Context) {
	if h.monitor == nil {
		writeError(c, http.StatusServiceUnavailable, dto.UnavailableError("health monitor not initialized"))
		return
	}

	report := h.monitor.RunChecks(c.Request.Context())
	c.JSON(http.StatusOK, dto.HealthReportResponse{
		Success: true,
		Healthy: report.Healthy(),
		Report:  report,
	})
}
