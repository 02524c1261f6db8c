package entity

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/pharmaline/pos-api/internal/domain/enum"
)

// Sale represents a completed (or pending-payment) till transaction
type Sale struct {
	ID                uuid.UUID          `gorm:"type:uuid;primary_key" json:"id"`
	StoreID           uuid.UUID          `gorm:"type:uuid;not null;index" json:"store_id"`
	UserID            uuid.UUID          `gorm:"type:uuid;not null;index" json:"user_id"`
	CustomerID        *uuid.UUID         `gorm:"type:uuid;index" json:"customer_id,omitempty"`
	SaleDate          time.Time          `gorm:"type:date;not null" json:"sale_date"`
	Status            enum.SaleStatus    `gorm:"default:0" json:"status"`
	TotalItems        int                `gorm:"default:0" json:"total_items"`
	SubTotal          int64              `gorm:"default:0" json:"-"` // Stored in cents, excluded from JSON
	Tax               int64              `gorm:"default:0" json:"-"` // Stored in cents, excluded from JSON
	DiscountPct       float64            `gorm:"default:0" json:"discount_pct"`
	Discount          int64              `gorm:"default:0" json:"-"` // Stored in cents, excluded from JSON
	Total             int64              `gorm:"default:0" json:"-"` // Stored in cents, excluded from JSON
	InvoiceNo         string             `gorm:"size:100;unique;not null" json:"invoice_no"`
	PaymentMethod     enum.PaymentMethod `gorm:"default:0" json:"payment_method"`
	PaymentStatus     enum.PaymentStatus `gorm:"default:0" json:"payment_status"`
	Pay               int64              `gorm:"default:0" json:"-"` // Stored in cents, excluded from JSON
	Due               int64              `gorm:"default:0" json:"-"` // Stored in cents, excluded from JSON
	CreatedAt         time.Time          `json:"created_at"`
	UpdatedAt         time.Time          `json:"updated_at"`
	DeletedAt         gorm.DeletedAt     `gorm:"index" json:"-"`

	// Relationships
	Store    Store      `gorm:"foreignKey:StoreID" json:"-"`
	User     User       `gorm:"foreignKey:UserID" json:"-"`
	Customer *Customer  `gorm:"foreignKey:CustomerID" json:"customer,omitempty"`
	Items    []SaleItem `gorm:"foreignKey:SaleID" json:"items,omitempty"`
}

// MarshalJSON custom marshaler to convert cents to decimal for API responses
func (s Sale) MarshalJSON() ([]byte, error) {
	type Alias Sale
	return json.Marshal(&struct {
		Alias
		SubTotal float64 `json:"sub_total"`
		Tax      float64 `json:"tax"`
		Discount float64 `json:"discount"`
		Total    float64 `json:"total"`
		Pay      float64 `json:"pay"`
		Due      float64 `json:"due"`
	}{
		Alias:    Alias(s),
		SubTotal: float64(s.SubTotal) / 100,
		Tax:      float64(s.Tax) / 100,
		Discount: float64(s.Discount) / 100,
		Total:    float64(s.Total) / 100,
		Pay:      float64(s.Pay) / 100,
		Due:      float64(s.Due) / 100,
	})
}

// BeforeCreate generates a UUID before creating a new sale
func (s *Sale) BeforeCreate(tx *gorm.DB) error {
	if s.ID == uuid.Nil {
		s.ID = uuid.New()
	}
	return nil
}

// TableName returns the table name for the Sale model
func (Sale) TableName() string {
	return "sales"
}

// SaleItem represents a line item in a sale, pinned to the batch it was
// dispensed from
type SaleItem struct {
	ID          uuid.UUID      `gorm:"type:uuid;primary_key" json:"id"`
	SaleID      uuid.UUID      `gorm:"type:uuid;not null;index" json:"sale_id"`
	ProductID   uuid.UUID      `gorm:"type:uuid;not null;index" json:"product_id"`
	BatchID     uuid.UUID      `gorm:"type:uuid;not null;index" json:"batch_id"`
	Quantity    int            `gorm:"not null" json:"quantity"`
	UnitPrice   int64          `gorm:"not null" json:"-"` // Stored in cents, excluded from JSON
	DiscountPct float64        `gorm:"default:0" json:"discount_pct"`
	Total       int64          `gorm:"not null" json:"-"` // Stored in cents, excluded from JSON
	CreatedAt   time.Time      `json:"created_at"`
	UpdatedAt   time.Time      `json:"updated_at"`
	DeletedAt   gorm.DeletedAt `gorm:"index" json:"-"`

	// Relationships
	Sale    Sale         `gorm:"foreignKey:SaleID" json:"-"`
	Product Product      `gorm:"foreignKey:ProductID" json:"product,omitempty"`
	Batch   ProductBatch `gorm:"foreignKey:BatchID" json:"batch,omitempty"`
}

// MarshalJSON custom marshaler to convert cents to decimal for API responses
func (si SaleItem) MarshalJSON() ([]byte, error) {
	type Alias SaleItem
	return json.Marshal(&struct {
		Alias
		UnitPrice float64 `json:"unit_price"`
		Total     float64 `json:"total"`
	}{
		Alias:     Alias(si),
		UnitPrice: float64(si.UnitPrice) / 100,
		Total:     float64(si.Total) / 100,
	})
}

// BeforeCreate generates a UUID before creating a new sale item
func (si *SaleItem) BeforeCreate(tx *gorm.DB) error {
	if si.ID == uuid.Nil {
		si.ID = uuid.New()
	}
	return nil
}

// TableName returns the table name for the SaleItem model
func (SaleItem) TableName() string {
	return "sale_items"
}

// SaleReturn represents a refund of some or all items of a sale. Returned
// quantities go back to the batch they were dispensed from.
type SaleReturn struct {
	ID          uuid.UUID      `gorm:"type:uuid;primary_key" json:"id"`
	StoreID     uuid.UUID      `gorm:"type:uuid;not null;index" json:"store_id"`
	UserID      uuid.UUID      `gorm:"type:uuid;not null;index" json:"user_id"`
	SaleID      uuid.UUID      `gorm:"type:uuid;not null;index" json:"sale_id"`
	ReturnNo    string         `gorm:"size:100;unique;not null" json:"return_no"`
	Reason      *string        `gorm:"type:text" json:"reason,omitempty"`
	RefundTotal int64          `gorm:"default:0" json:"-"` // Stored in cents, excluded from JSON
	CreatedAt   time.Time      `json:"created_at"`
	UpdatedAt   time.Time      `json:"updated_at"`
	DeletedAt   gorm.DeletedAt `gorm:"index" json:"-"`

	// Relationships
	Store Store            `gorm:"foreignKey:StoreID" json:"-"`
	User  User             `gorm:"foreignKey:UserID" json:"-"`
	Sale  Sale             `gorm:"foreignKey:SaleID" json:"-"`
	Items []SaleReturnItem `gorm:"foreignKey:ReturnID" json:"items,omitempty"`
}

// MarshalJSON custom marshaler to convert cents to decimal for API responses
func (r SaleReturn) MarshalJSON() ([]byte, error) {
	type Alias SaleReturn
	return json.Marshal(&struct {
		Alias
		RefundTotal float64 `json:"refund_total"`
	}{
		Alias:       Alias(r),
		RefundTotal: float64(r.RefundTotal) / 100,
	})
}

// BeforeCreate generates a UUID before creating a new return
func (r *SaleReturn) BeforeCreate(tx *gorm.DB) error {
	if r.ID == uuid.Nil {
		r.ID = uuid.New()
	}
	return nil
}

// TableName returns the table name for the SaleReturn model
func (SaleReturn) TableName() string {
	return "sale_returns"
}

// SaleReturnItem represents one returned line
type SaleReturnItem struct {
	ID           uuid.UUID      `gorm:"type:uuid;primary_key" json:"id"`
	ReturnID     uuid.UUID      `gorm:"type:uuid;not null;index" json:"return_id"`
	SaleItemID   uuid.UUID      `gorm:"type:uuid;not null;index" json:"sale_item_id"`
	ProductID    uuid.UUID      `gorm:"type:uuid;not null;index" json:"product_id"`
	BatchID      uuid.UUID      `gorm:"type:uuid;not null;index" json:"batch_id"`
	Quantity     int            `gorm:"not null" json:"quantity"`
	RefundAmount int64          `gorm:"not null" json:"-"` // Stored in cents, excluded from JSON
	CreatedAt    time.Time      `json:"created_at"`
	DeletedAt    gorm.DeletedAt `gorm:"index" json:"-"`

	// Relationships
	Return  SaleReturn `gorm:"foreignKey:ReturnID" json:"-"`
	Product Product    `gorm:"foreignKey:ProductID" json:"product,omitempty"`
}

// MarshalJSON custom marshaler to convert cents to decimal for API responses
func (ri SaleReturnItem) MarshalJSON() ([]byte, error) {
	type Alias SaleReturnItem
	return json.Marshal(&struct {
		Alias
		RefundAmount float64 `json:"refund_amount"`
	}{
		Alias:        Alias(ri),
		RefundAmount: float64(ri.RefundAmount) / 100,
	})
}

// BeforeCreate generates a UUID before creating a new return item
func (ri *SaleReturnItem) BeforeCreate(tx *gorm.DB) error {
	if ri.ID == uuid.Nil {
		ri.ID = uuid.New()
	}
	return nil
}

// TableName returns the table name for the SaleReturnItem model
func (SaleReturnItem) TableName() string {
	return "sale_return_items"
}
