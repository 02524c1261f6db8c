package entity

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Product represents a dispensable product in the catalog. Stock is held in
// batches, each with its own expiry date and prices, so the till can dispense
// first-expiry-first-out.
type Product struct {
	ID            uuid.UUID      `gorm:"type:uuid;primary_key" json:"id"`
	StoreID       uuid.UUID      `gorm:"type:uuid;not null;index" json:"store_id"`
	UserID        uuid.UUID      `gorm:"type:uuid;not null;index" json:"user_id"`
	CategoryID    *uuid.UUID     `gorm:"type:uuid;index" json:"category_id,omitempty"`
	Name          string         `gorm:"size:255;not null" json:"name"`
	GenericName   string         `gorm:"size:255" json:"generic_name"`
	Slug          string         `gorm:"size:255;unique;not null" json:"slug"`
	Code          string         `gorm:"size:100;unique;not null" json:"code"`
	Strength      *string        `gorm:"size:100" json:"strength,omitempty"`
	Quantity      int            `gorm:"default:0" json:"quantity"`
	QuantityAlert int            `gorm:"default:0" json:"quantity_alert"`
	Notes         *string        `gorm:"type:text" json:"notes,omitempty"`
	CreatedAt     time.Time      `json:"created_at"`
	UpdatedAt     time.Time      `json:"updated_at"`
	DeletedAt     gorm.DeletedAt `gorm:"index" json:"-"`

	// Relationships
	Store    Store          `gorm:"foreignKey:StoreID" json:"-"`
	User     User           `gorm:"foreignKey:UserID" json:"-"`
	Category *Category      `gorm:"foreignKey:CategoryID" json:"category,omitempty"`
	Batches  []ProductBatch `gorm:"foreignKey:ProductID" json:"batches,omitempty"`
}

// BeforeCreate generates a UUID before creating a new product
func (p *Product) BeforeCreate(tx *gorm.DB) error {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	return nil
}

// TableName returns the table name for the Product model
func (Product) TableName() string {
	return "products"
}

// TotalStock sums quantities across loaded batches
func (p *Product) TotalStock() int {
	total := 0
	for _, b := range p.Batches {
		total += b.Quantity
	}
	return total
}

// EarliestExpiryBatch returns the in-stock batch that expires soonest, or nil
// when no batch has stock. Expired batches are not skipped here; dispensing
// policy blocks them upstream where needed.
func (p *Product) EarliestExpiryBatch() *ProductBatch {
	var best *ProductBatch
	for i := range p.Batches {
		b := &p.Batches[i]
		if b.Quantity <= 0 {
			continue
		}
		if best == nil || b.ExpiresAt.Before(best.ExpiresAt) {
			best = b
		}
	}
	return best
}

// BatchByID finds a loaded batch by its ID
func (p *Product) BatchByID(batchID uuid.UUID) *ProductBatch {
	for i := range p.Batches {
		if p.Batches[i].ID == batchID {
			return &p.Batches[i]
		}
	}
	return nil
}

// ProductBatch represents one inventory lot of a product
type ProductBatch struct {
	ID           uuid.UUID      `gorm:"type:uuid;primary_key" json:"id"`
	ProductID    uuid.UUID      `gorm:"type:uuid;not null;index" json:"product_id"`
	BatchNo      string         `gorm:"size:100;not null" json:"batch_no"`
	Quantity     int            `gorm:"default:0" json:"quantity"`
	BuyingPrice  int64          `gorm:"default:0" json:"-"` // Stored in cents, excluded from JSON
	SellingPrice int64          `gorm:"default:0" json:"-"` // Stored in cents, excluded from JSON
	ExpiresAt    time.Time      `gorm:"type:date;not null;index" json:"expires_at"`
	CreatedAt    time.Time      `json:"created_at"`
	UpdatedAt    time.Time      `json:"updated_at"`
	DeletedAt    gorm.DeletedAt `gorm:"index" json:"-"`

	// Relationships
	Product Product `gorm:"foreignKey:ProductID" json:"-"`
}

// MarshalJSON custom marshaler to convert cents to decimal for API responses
func (b ProductBatch) MarshalJSON() ([]byte, error) {
	type Alias ProductBatch
	return json.Marshal(&struct {
		Alias
		BuyingPrice  float64 `json:"buying_price"`
		SellingPrice float64 `json:"selling_price"`
	}{
		Alias:        Alias(b),
		BuyingPrice:  float64(b.BuyingPrice) / 100,
		SellingPrice: float64(b.SellingPrice) / 100,
	})
}

// BeforeCreate generates a UUID before creating a new batch
func (b *ProductBatch) BeforeCreate(tx *gorm.DB) error {
	if b.ID == uuid.Nil {
		b.ID = uuid.New()
	}
	return nil
}

// TableName returns the table name for the ProductBatch model
func (ProductBatch) TableName() string {
	return "product_batches"
}

// IsExpired reports whether the batch is past its expiry date
func (b *ProductBatch) IsExpired(now time.Time) bool {
	return b.ExpiresAt.Before(now)
}

// Category represents a product category
type Category struct {
	ID        uuid.UUID      `gorm:"type:uuid;primary_key" json:"id"`
	StoreID   uuid.UUID      `gorm:"type:uuid;not null;index" json:"store_id"`
	UserID    uuid.UUID      `gorm:"type:uuid;not null;index" json:"user_id"`
	Name      string         `gorm:"size:255;not null" json:"name"`
	Slug      string         `gorm:"size:255;unique;not null" json:"slug"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`

	// Relationships
	Store    Store     `gorm:"foreignKey:StoreID" json:"-"`
	User     User      `gorm:"foreignKey:UserID" json:"-"`
	Products []Product `gorm:"foreignKey:CategoryID" json:"-"`
}

// BeforeCreate generates a UUID before creating a new category
func (c *Category) BeforeCreate(tx *gorm.DB) error {
	if c.ID == uuid.Nil {
		c.ID = uuid.New()
	}
	return nil
}

// TableName returns the table name for the Category model
func (Category) TableName() string {
	return "categories"
}
