package entity

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// HeldOrderSlot is the durable storage cell for a store's parked carts. One
// row per store; the payload is the JSON-encoded list of held orders and is
// always replaced whole. Version increments on every write so concurrent
// tills can detect a lost update.
type HeldOrderSlot struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	StoreID   uuid.UUID `gorm:"type:uuid;uniqueIndex;not null" json:"store_id"`
	Version   int64     `gorm:"not null;default:0" json:"version"`
	Payload   string    `gorm:"type:jsonb;not null;default:'[]'" json:"payload"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (HeldOrderSlot) TableName() string {
	return "held_order_slots"
}

func (s *HeldOrderSlot) BeforeCreate(tx *gorm.DB) error {
	if s.ID == uuid.Nil {
		s.ID = uuid.New()
	}
	return nil
}
