package request

import (
	"time"

	"github.com/google/uuid"
)

// PurchaseItemRequest is one line of a purchase order
type PurchaseItemRequest struct {
	ProductID    uuid.UUID `json:"product_id" binding:"required"`
	Quantity     int       `json:"quantity" binding:"required,min=1"`
	UnitCost     float64   `json:"unit_cost" binding:"required,min=0"`
	SellingPrice float64   `json:"selling_price" binding:"required,min=0"`
	BatchNo      string    `json:"batch_no" binding:"omitempty,max=100"`
	ExpiresAt    time.Time `json:"expires_at" binding:"required"`
}

// CreatePurchaseRequest represents a purchase order creation request
type CreatePurchaseRequest struct {
	SupplierID uuid.UUID             `json:"supplier_id" binding:"required"`
	Date       *time.Time            `json:"date"`
	Items      []PurchaseItemRequest `json:"items" binding:"required,min=1,dive"`
}

// PurchaseFilterRequest represents purchase list filter parameters
type PurchaseFilterRequest struct {
	Search     string `form:"search"`
	Status     string `form:"status"`
	SupplierID string `form:"supplier_id"`
	Page       int    `form:"page"`
	PerPage    int    `form:"per_page"`
}
