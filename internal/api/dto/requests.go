package dto

// CheckEmailsRequest starts a mailbox scan.
// SearchWindowDays <= 0 keeps the configured window.
type CheckEmailsRequest struct {
	ForceFullSearch  bool `json:"force_full_search"`
	SearchWindowDays int  `json:"search_window_days"`
}

// SendReportRequest mails the collected orders.
type SendReportRequest struct {
	RecipientEmail string `json:"recipient_email"`
}

// AddInventoryRequest appends an inventory row.
type AddInventoryRequest struct {
	SKU          string `json:"sku" binding:"required"`
	Name         string `json:"name" binding:"required"`
	LocationCode string `json:"location_code" binding:"required"`
	Quantity     *int   `json:"quantity" binding:"required,gte=0"`
}

// UpdateInventoryRequest applies a signed quantity change.
type UpdateInventoryRequest struct {
	SKU            string `json:"sku" binding:"required"`
	QuantityChange *int   `json:"quantity_change" binding:"required"`
}

// LogSaleRequest appends a row to the sales log.
// Date is RFC 3339; empty means now.
type LogSaleRequest struct {
	Date             string `json:"date"`
	BuyerName        string `json:"buyer_name"`
	ItemName         string `json:"item_name" binding:"required"`
	SKU              string `json:"sku"`
	TrackingNumber   string `json:"tracking_number"`
	FoundInInventory bool   `json:"found_in_inventory"`
}
