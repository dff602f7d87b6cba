package dto

import (
	"time"

	"github.com/eshaffer321/saletrack/internal/application/health"
	"github.com/eshaffer321/saletrack/internal/application/inventory"
	"github.com/eshaffer321/saletrack/internal/domain/order"
)

// HealthResponse is returned by the liveness endpoint.
type HealthResponse struct {
	Status    string `json:"status"`
	Timestamp string `json:"timestamp"`
}

// NewHealthResponse creates a healthy response stamped with the current time.
func NewHealthResponse() HealthResponse {
	return HealthResponse{
		Status:    "ok",
		Timestamp: time.Now().UTC().Format(time.RFC3339),
	}
}

// StatusResponse reports collaborator reachability and scan state.
type StatusResponse struct {
	MailboxConnected bool       `json:"mailbox_connected"`
	StoreConnected   bool       `json:"store_connected"`
	OrderCount       int        `json:"order_count"`
	LastScan         *time.Time `json:"last_scan,omitempty"`
	LastHealthCheck  *time.Time `json:"last_health_check,omitempty"`
}

// SuccessResponse is the bare {success, message} envelope.
type SuccessResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message,omitempty"`
}

// CheckEmailsResponse summarizes a scan.
type CheckEmailsResponse struct {
	Success    bool           `json:"success"`
	OrderCount int            `json:"order_count"`
	NewOrders  int            `json:"new_orders"`
	Orders     []order.Record `json:"orders"`
}

// OrdersResponse lists the collected orders.
type OrdersResponse struct {
	Success bool           `json:"success"`
	Count   int            `json:"count"`
	Orders  []order.Record `json:"orders"`
}

// UpdateInventoryResponse reports a quantity change.
type UpdateInventoryResponse struct {
	Success     bool   `json:"success"`
	Message     string `json:"message"`
	NewQuantity int    `json:"new_quantity,omitempty"`
}

// LocationResponse reports where a SKU is stored. Location is null when the
// SKU is unknown.
type LocationResponse struct {
	Success  bool    `json:"success"`
	SKU      string  `json:"sku"`
	Location *string `json:"location"`
}

// InventoryResponse lists inventory rows.
type InventoryResponse struct {
	Success bool             `json:"success"`
	Count   int              `json:"count"`
	Items   []inventory.Item `json:"items"`
}

// SalesResponse lists sales log rows.
type SalesResponse struct {
	Success bool                `json:"success"`
	Count   int                 `json:"count"`
	Sales   []inventory.SaleRow `json:"sales"`
}

// HealthReportResponse returns the result of an on-demand check run.
type HealthReportResponse struct {
	Success bool          `json:"success"`
	Healthy bool          `json:"healthy"`
	Report  health.Report `json:"report"`
}
