package handlers

import (
	"errors"
	"net/http"
	"sync"

	"github.com/gin-gonic/gin"

	"github.com/eshaffer321/saletrack/internal/api/dto"
	"github.com/eshaffer321/saletrack/internal/application/inventory"
)

// InventoryHandler exposes the inventory ledger.
type InventoryHandler struct {
	ledger *inventory.Ledger

	// writeMu serializes quantity updates made through this process
	writeMu sync.Mutex
}

// NewInventoryHandler creates a new inventory handler.
func NewInventoryHandler(ledger *inventory.Ledger) *InventoryHandler {
	return &InventoryHandler{ledger: ledger}
}

// Add handles POST /api/inventory/add.
func (h *InventoryHandler) Add(c *gin.Context) {
	var req dto.AddInventoryRequest
	if !bindJSON(c, &req, false) {
		return
	}

	if err := h.ledger.AddItem(c.Request.Context(), req.SKU, req.Name, req.LocationCode, *req.Quantity); err != nil {
		_ = c.Error(err)
		writeError(c, http.StatusBadGateway, dto.UnavailableError("failed to add inventory item"))
		return
	}

	c.JSON(http.StatusCreated, dto.SuccessResponse{Success: true})
}

// Update handles POST /api/inventory/update.
func (h *InventoryHandler) Update(c *gin.Context) {
	var req dto.UpdateInventoryRequest
	if !bindJSON(c, &req, false) {
		return
	}

	h.writeMu.Lock()
	result, err := h.ledger.UpdateQuantity(c.Request.Context(), req.SKU, *req.QuantityChange)
	h.writeMu.Unlock()

	resp := dto.UpdateInventoryResponse{
		Success:     result.Success,
		Message:     result.Message,
		NewQuantity: result.NewQuantity,
	}
	if err != nil {
		_ = c.Error(err)
	}
	c.JSON(updateStatus(err), resp)
}

// Location handles GET /api/inventory/location/:sku.
func (h *InventoryHandler) Location(c *gin.Context) {
	sku := c.Param("sku")

	location, found, err := h.ledger.GetLocation(c.Request.Context(), sku)
	if err != nil {
		_ = c.Error(err)
		writeError(c, http.StatusBadGateway, dto.UnavailableError("failed to read inventory"))
		return
	}

	resp := dto.LocationResponse{Success: true, SKU: sku}
	if found {
		resp.Location = &location
	}
	c.JSON(http.StatusOK, resp)
}

// List handles GET /api/inventory.
func (h *InventoryHandler) List(c *gin.Context) {
	items, err := h.ledger.ListInventory(c.Request.Context())
	if err != nil {
		_ = c.Error(err)
		writeError(c, http.StatusBadGateway, dto.UnavailableError("failed to read inventory"))
		return
	}
	if items == nil {
		items = []inventory.Item{}
	}

	c.JSON(http.StatusOK, dto.InventoryResponse{Success: true, Count: len(items), Items: items})
}

// updateStatus maps ledger errors onto HTTP status codes
func updateStatus(err error) int {
	switch {
	case err == nil:
		return http.StatusOK
	case errors.Is(err, inventory.ErrSkuNotFound):
		return http.StatusNotFound
	case errors.Is(err, inventory.ErrInsufficientInventory), errors.Is(err, inventory.ErrConflict):
		return http.StatusConflict
	case errors.Is(err, inventory.ErrReadFailed), errors.Is(err, inventory.ErrWriteFailed):
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}
