package entity

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/pharmaline/pos-api/internal/domain/enum"
)

// Purchase represents a stock intake from a supplier. Receiving an approved
// purchase is what creates product batches.
type Purchase struct {
	ID          uuid.UUID           `gorm:"type:uuid;primary_key" json:"id"`
	StoreID     uuid.UUID           `gorm:"type:uuid;not null;index" json:"store_id"`
	UserID      uuid.UUID           `gorm:"type:uuid;not null;index" json:"user_id"`
	SupplierID  *uuid.UUID          `gorm:"type:uuid;index" json:"supplier_id,omitempty"`
	PurchaseNo  string              `gorm:"size:100;unique;not null" json:"purchase_no"`
	Date        time.Time           `gorm:"type:date;not null" json:"date"`
	Status      enum.PurchaseStatus `gorm:"default:0" json:"status"`
	TotalAmount int64               `gorm:"default:0" json:"-"` // Stored in cents, excluded from JSON
	CreatedAt   time.Time           `json:"created_at"`
	UpdatedAt   time.Time           `json:"updated_at"`
	DeletedAt   gorm.DeletedAt      `gorm:"index" json:"-"`

	// Relationships
	Store    Store          `gorm:"foreignKey:StoreID" json:"-"`
	User     User           `gorm:"foreignKey:UserID" json:"-"`
	Supplier *Supplier      `gorm:"foreignKey:SupplierID" json:"supplier,omitempty"`
	Items    []PurchaseItem `gorm:"foreignKey:PurchaseID" json:"items,omitempty"`
}

// MarshalJSON custom marshaler to convert cents to decimal for API responses
func (p Purchase) MarshalJSON() ([]byte, error) {
	type Alias Purchase
	return json.Marshal(&struct {
		Alias
		TotalAmount float64 `json:"total_amount"`
	}{
		Alias:       Alias(p),
		TotalAmount: float64(p.TotalAmount) / 100,
	})
}

// BeforeCreate generates a UUID before creating a new purchase
func (p *Purchase) BeforeCreate(tx *gorm.DB) error {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	return nil
}

// TableName returns the table name for the Purchase model
func (Purchase) TableName() string {
	return "purchases"
}

// PurchaseItem represents one product lot on a purchase. Batch details
// (number, expiry, prices) become a ProductBatch when the purchase is
// received.
type PurchaseItem struct {
	ID           uuid.UUID      `gorm:"type:uuid;primary_key" json:"id"`
	PurchaseID   uuid.UUID      `gorm:"type:uuid;not null;index" json:"purchase_id"`
	ProductID    uuid.UUID      `gorm:"type:uuid;not null;index" json:"product_id"`
	BatchNo      string         `gorm:"size:100" json:"batch_no"`
	Quantity     int            `gorm:"not null" json:"quantity"`
	UnitCost     int64          `gorm:"not null" json:"-"` // Stored in cents, excluded from JSON
	SellingPrice int64          `gorm:"default:0" json:"-"` // Stored in cents, excluded from JSON
	ExpiresAt    time.Time      `gorm:"type:date;not null" json:"expires_at"`
	Total        int64          `gorm:"not null" json:"-"` // Stored in cents, excluded from JSON
	CreatedAt    time.Time      `json:"created_at"`
	UpdatedAt    time.Time      `json:"updated_at"`
	DeletedAt    gorm.DeletedAt `gorm:"index" json:"-"`

	// Relationships
	Purchase Purchase `gorm:"foreignKey:PurchaseID" json:"-"`
	Product  Product  `gorm:"foreignKey:ProductID" json:"product,omitempty"`
}

// MarshalJSON custom marshaler to convert cents to decimal for API responses
func (pi PurchaseItem) MarshalJSON() ([]byte, error) {
	type Alias PurchaseItem
	return json.Marshal(&struct {
		Alias
		UnitCost     float64 `json:"unit_cost"`
		SellingPrice float64 `json:"selling_price"`
		Total        float64 `json:"total"`
	}{
		Alias:        Alias(pi),
		UnitCost:     float64(pi.UnitCost) / 100,
		SellingPrice: float64(pi.SellingPrice) / 100,
		Total:        float64(pi.Total) / 100,
	})
}

// BeforeCreate generates a UUID before creating a new purchase item
func (pi *PurchaseItem) BeforeCreate(tx *gorm.DB) error {
	if pi.ID == uuid.Nil {
		pi.ID = uuid.New()
	}
	return nil
}

// TableName returns the table name for the PurchaseItem model
func (PurchaseItem) TableName() string {
	return "purchase_items"
}
