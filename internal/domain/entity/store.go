package entity

import (
	"database/sql/driver"
	"encoding/json"
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Store represents a pharmacy/retail branch. All catalog and sales data is
// scoped to a store.
type Store struct {
	ID        uuid.UUID      `gorm:"type:uuid;primary_key" json:"id"`
	Name      string         `gorm:"size:255;not null" json:"name"`
	Slug      string         `gorm:"size:255;unique;not null" json:"slug"`
	Settings  StoreSettings  `gorm:"type:jsonb;serializer:json" json:"settings"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`

	// Relationships
	Users []User `gorm:"foreignKey:StoreID" json:"-"`
}

// BeforeCreate generates a UUID before creating a new store
func (s *Store) BeforeCreate(tx *gorm.DB) error {
	if s.ID == uuid.Nil {
		s.ID = uuid.New()
	}
	return nil
}

// TableName returns the table name for the Store model
func (Store) TableName() string {
	return "stores"
}

// StoreSettings holds per-store customization (receipt header, locale)
type StoreSettings struct {
	Address  string `json:"address,omitempty"`
	Phone    string `json:"phone,omitempty"`
	TaxID    string `json:"tax_id,omitempty"`
	Currency string `json:"currency,omitempty"`
	Timezone string `json:"timezone,omitempty"`
	// ReceiptFooter is printed at the bottom of every receipt.
	ReceiptFooter string `json:"receipt_footer,omitempty"`
}

// Scan implements the sql.Scanner interface for StoreSettings
func (ss *StoreSettings) Scan(value interface{}) error {
	if value == nil {
		*ss = StoreSettings{}
		return nil
	}

	var bytes []byte
	switch v := value.(type) {
	case []byte:
		bytes = v
	case string:
		bytes = []byte(v)
	default:
		return errors.New("failed to scan StoreSettings: unsupported type")
	}

	return json.Unmarshal(bytes, ss)
}

// Value implements the driver.Valuer interface for StoreSettings
func (ss StoreSettings) Value() (driver.Value, error) {
	return json.Marshal(ss)
}

// DefaultStoreSettings returns default settings for new stores
func DefaultStoreSettings() StoreSettings {
	return StoreSettings{
		Currency:      "KES",
		Timezone:      "Africa/Nairobi",
		ReceiptFooter: "Thank you, get well soon!",
	}
}
