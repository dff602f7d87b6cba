package handlers

import (
	"errors"
	"net/http"
	"sync"

	"github.com/gin-gonic/gin"

	"github.com/eshaffer321/saletrack/internal/api/dto"
	"github.com/eshaffer321/saletrack/internal/application/monitor"
	"github.com/eshaffer321/saletrack/internal/domain/order"
)

// OrdersHandler runs scans and serves the collected orders.
type OrdersHandler struct {
	monitor  *monitor.Monitor
	notifier monitor.Notifier

	// scanMu serializes scans so two requests never race on the watermark
	scanMu sync.Mutex
}

// NewOrdersHandler creates a new orders handler.
func NewOrdersHandler(mon *monitor.Monitor, notifier monitor.Notifier) *OrdersHandler {
	return &OrdersHandler{monitor: mon, notifier: notifier}
}

// CheckEmails handles POST /api/check-emails.
func (h *OrdersHandler) CheckEmails(c *gin.Context) {
	var req dto.CheckEmailsRequest
	if !bindJSON(c, &req, true) {
		return
	}
	if req.SearchWindowDays < 0 {
		writeError(c, http.StatusBadRequest, dto.ValidationError("search_window_days must not be negative"))
		return
	}

	h.scanMu.Lock()
	batch, err := h.monitor.CheckEmails(c.Request.Context(), req.ForceFullSearch, req.SearchWindowDays)
	h.scanMu.Unlock()

	if err != nil {
		_ = c.Error(err)
		if errors.Is(err, monitor.ErrSearchFailed) {
			writeError(c, http.StatusServiceUnavailable, dto.UnavailableError("mailbox search failed, try again later"))
			return
		}
		writeError(c, http.StatusInternalServerError, dto.InternalError())
		return
	}

	c.JSON(http.StatusOK, dto.CheckEmailsResponse{
		Success:    true,
		OrderCount: h.monitor.OrderCount(),
		NewOrders:  len(batch),
		Orders:     nonNil(batch),
	})
}

// List handles GET /api/orders.
func (h *OrdersHandler) List(c *gin.Context) {
	orders := h.monitor.Orders()
	c.JSON(http.StatusOK, dto.OrdersResponse{
		Success: true,
		Count:   len(orders),
		Orders:  nonNil(orders),
	})
}

// Clear handles DELETE /api/orders.
func (h *OrdersHandler) Clear(c *gin.Context) {
	h.monitor.ClearOrders()
	c.JSON(http.StatusOK, dto.SuccessResponse{Success: true, Message: "orders cleared"})
}

// SendReport handles POST /api/send-orders-report.
func (h *OrdersHandler) SendReport(c *gin.Context) {
	var req dto.SendReportRequest
	if !bindJSON(c, &req, true) {
		return
	}
	if req.RecipientEmail == "" {
		writeError(c, http.StatusBadRequest, dto.BadRequestError("No recipient email provided"))
		return
	}

	if err := h.monitor.SendOrdersReport(c.Request.Context(), h.notifier, req.RecipientEmail); err != nil {
		_ = c.Error(err)
		writeError(c, http.StatusBadGateway, dto.UnavailableError("failed to send orders report"))
		return
	}

	c.JSON(http.StatusOK, dto.SuccessResponse{Success: true})
}

func nonNil(orders []order.Record) []order.Record {
	if orders == nil {
		return []order.Record{}
	}
	return orders
}
