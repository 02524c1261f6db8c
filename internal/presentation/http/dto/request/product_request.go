package request

import (
	"time"

	"github.com/google/uuid"
)

// CreateProductRequest represents a product creation request
type CreateProductRequest struct {
	CategoryID    *uuid.UUID `json:"category_id"`
	Name          string     `json:"name" binding:"required,min=2,max=255"`
	GenericName   string     `json:"generic_name" binding:"omitempty,max=255"`
	Code          string     `json:"code" binding:"omitempty,max=100"`
	Strength      *string    `json:"strength"`
	QuantityAlert int        `json:"quantity_alert" binding:"min=0"`
	Notes         *string    `json:"notes"`
}

// UpdateProductRequest represents a product update request
type UpdateProductRequest struct {
	CategoryID    *uuid.UUID `json:"category_id"`
	Name          *string    `json:"name" binding:"omitempty,min=2,max=255"`
	GenericName   *string    `json:"generic_name" binding:"omitempty,max=255"`
	Strength      *string    `json:"strength"`
	QuantityAlert *int       `json:"quantity_alert" binding:"omitempty,min=0"`
	Notes         *string    `json:"notes"`
}

// AddBatchRequest represents a direct inventory lot intake
type AddBatchRequest struct {
	BatchNo      string    `json:"batch_no" binding:"omitempty,max=100"`
	Quantity     int       `json:"quantity" binding:"required,min=1"`
	BuyingPrice  float64   `json:"buying_price" binding:"min=0"`
	SellingPrice float64   `json:"selling_price" binding:"required,min=0"`
	ExpiresAt    time.Time `json:"expires_at" binding:"required"`
}

// ProductFilterRequest represents product filter parameters
type ProductFilterRequest struct {
	Search     string `form:"search"`
	CategoryID string `form:"category_id"`
	LowStock   bool   `form:"low_stock"`
	SortBy     string `form:"sort_by"`
	SortOrder  string `form:"sort_order"`
	Page       int    `form:"page"`
	PerPage    int    `form:"per_page"`
	Limit      int    `form:"limit"` // For cursor-based pagination
}
