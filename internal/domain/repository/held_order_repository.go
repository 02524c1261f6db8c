package repository

import (
	"context"

	"github.com/google/uuid"
	"github.com/pharmaline/pos-api/internal/domain/entity"
)

// HeldOrderList is the full set of parked carts for one store, persisted as
// a single versioned document so the list can be replaced atomically.
type HeldOrderList struct {
	Version int64              `json:"version"`
	Orders  []entity.HeldOrder `json:"orders"`
}

// HeldOrderRepository stores held-order lists keyed by store. The list is a
// whole-document slot: Get reads the current list (nil when none has ever
// been written), Put replaces it.
type HeldOrderRepository interface {
	Get(ctx context.Context, storeID uuid.UUID) (*HeldOrderList, error)
	Put(ctx context.Context, storeID uuid.UUID, list *HeldOrderList) error
}
