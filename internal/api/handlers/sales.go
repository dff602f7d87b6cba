package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/eshaffer321/saletrack/internal/api/dto"
	"github.com/eshaffer321/saletrack/internal/application/inventory"
)

// SalesHandler exposes the sales log.
type SalesHandler struct {
	ledger *inventory.Ledger
	now    func() time.Time
}

// NewSalesHandler creates a new sales handler.
func NewSalesHandler(ledger *inventory.Ledger) *SalesHandler {
	return &SalesHandler{ledger: ledger, now: time.Now}
}

// List handles GET /api/sales.
func (h *SalesHandler) List(c *gin.Context) {
	sales, err := h.ledger.ListSales(c.Request.Context())
	if err != nil {
		_ = c.Error(err)
		writeError(c, http.StatusBadGateway, dto.UnavailableError("failed to read sales"))
		return
	}
	if sales == nil {
		sales = []inventory.SaleRow{}
	}

	c.JSON(http.StatusOK, dto.SalesResponse{Success: true, Count: len(sales), Sales: sales})
}

// Log handles POST /api/sales.
func (h *SalesHandler) Log(c *gin.Context) {
	var req dto.LogSaleRequest
	if !bindJSON(c, &req, false) {
		return
	}

	date := h.now()
	if req.Date != "" {
		parsed, err := time.Parse(time.RFC3339, req.Date)
		if err != nil {
			writeError(c, http.StatusBadRequest, dto.ValidationError("date must be RFC 3339"))
			return
		}
		date = parsed
	}

	sale := inventory.Sale{
		Date:             date,
		BuyerName:        req.BuyerName,
		ItemName:         req.ItemName,
		SKU:              req.SKU,
		TrackingNumber:   req.TrackingNumber,
		FoundInInventory: req.FoundInInventory,
	}
	if err := h.ledger.LogSale(c.Request.Context(), sale); err != nil {
		_ = c.Error(err)
		writeError(c, http.StatusBadGateway, dto.UnavailableError("failed to log sale"))
		return
	}

	c.JSON(http.StatusCreated, dto.SuccessResponse{Success: true})
}
