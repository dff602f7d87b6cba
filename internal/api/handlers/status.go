package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/eshaffer321/saletrack/internal/api/dto"
	"github.com/eshaffer321/saletrack/internal/application/health"
	"github.com/eshaffer321/saletrack/internal/application/monitor"
)

const pingTimeout = 3 * time.Second

// StatusHandler reports whether the collaborators are reachable.
type StatusHandler struct {
	mailbox health.Pinger
	store   health.Pinger
	monitor *monitor.Monitor
	health  *health.Monitor
}

// NewStatusHandler creates a status handler. Any argument may be nil.
func NewStatusHandler(mailbox, store health.Pinger, mon *monitor.Monitor, hm *health.Monitor) *StatusHandler {
	return &StatusHandler{mailbox: mailbox, store: store, monitor: mon, health: hm}
}

// Get handles GET /api/status.
func (h *StatusHandler) Get(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), pingTimeout)
	defer cancel()

	resp := dto.StatusResponse{
		MailboxConnected: reachable(ctx, h.mailbox),
		StoreConnected:   reachable(ctx, h.store),
	}

	if h.monitor != nil {
		resp.OrderCount = h.monitor.OrderCount()
		if t, ok := h.monitor.Window().Watermark(); ok {
			resp.LastScan = &t
		}
	}
	if h.health != nil {
		if t, ok := h.health.LastCheck(); ok {
			resp.LastHealthCheck = &t
		}
	}

	c.JSON(http.StatusOK, resp)
}

func reachable(ctx context.Context, p health.Pinger) bool {
	return p != nil && p.Ping(ctx) == nil
}
