package request

import "github.com/google/uuid"

// SaleFilterRequest represents sale list filter parameters
type SaleFilterRequest struct {
	Search     string `form:"search"`
	Status     string `form:"status"`
	CustomerID string `form:"customer_id"`
	StartDate  string `form:"start_date"` // YYYY-MM-DD
	EndDate    string `form:"end_date"`   // YYYY-MM-DD
	SortBy     string `form:"sort_by"`
	SortOrder  string `form:"sort_order"`
	Page       int    `form:"page"`
	PerPage    int    `form:"per_page"`
	Limit      int    `form:"limit"`
}

// PayDueRequest records a payment against an outstanding sale balance
type PayDueRequest struct {
	Amount float64 `json:"amount" binding:"required,gt=0"`
}

// ReturnItemRequest is one line of a sale return
type ReturnItemRequest struct {
	SaleItemID uuid.UUID `json:"sale_item_id" binding:"required"`
	Quantity   int       `json:"quantity" binding:"required,min=1"`
}

// CreateReturnRequest represents a sale return request
type CreateReturnRequest struct {
	SaleID uuid.UUID           `json:"sale_id" binding:"required"`
	Reason *string             `json:"reason"`
	Items  []ReturnItemRequest `json:"items" binding:"required,min=1,dive"`
}
