package repository

import (
	"context"
	"encoding/json"
	"errors"
	"sync"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/pharmaline/pos-api/internal/domain/entity"
	domainRepo "github.com/pharmaline/pos-api/internal/domain/repository"
)

type heldOrderRepository struct {
	db *gorm.DB
}

// NewHeldOrderRepository creates a gorm-backed held-order store. Each store
// owns one slot row; reads and writes move the whole list at once.
func NewHeldOrderRepository(db *gorm.DB) domainRepo.HeldOrderRepository {
	return &heldOrderRepository{db: db}
}

func (r *heldOrderRepository) Get(ctx context.Context, storeID uuid.UUID) (*domainRepo.HeldOrderList, error) {
	var slot entity.HeldOrderSlot
	err := r.db.WithContext(ctx).First(&slot, "store_id = ?", storeID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	var orders []entity.HeldOrder
	if err := json.Unmarshal([]byte(slot.Payload), &orders); err != nil {
		return nil, err
	}
	return &domainRepo.HeldOrderList{Version: slot.Version, Orders: orders}, nil
}

func (r *heldOrderRepository) Put(ctx context.Context, storeID uuid.UUID, list *domainRepo.HeldOrderList) error {
	payload, err := json.Marshal(list.Orders)
	if err != nil {
		return err
	}

	slot := entity.HeldOrderSlot{
		StoreID: storeID,
		Version: list.Version + 1,
		Payload: string(payload),
	}
	return r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "store_id"}},
		DoUpdates: clause.Assignments(map[string]interface{}{
			"version": slot.Version,
			"payload": slot.Payload,
		}),
	}).Create(&slot).Error
}

type memoryHeldOrderRepository struct {
	mu    sync.RWMutex
	slots map[uuid.UUID]*domainRepo.HeldOrderList
}

// NewMemoryHeldOrderRepository creates an in-memory held-order store. Used
// in tests and as a fallback when durable storage is unavailable.
func NewMemoryHeldOrderRepository() domainRepo.HeldOrderRepository {
	return &memoryHeldOrderRepository{slots: make(map[uuid.UUID]*domainRepo.HeldOrderList)}
}

func (r *memoryHeldOrderRepository) Get(ctx context.Context, storeID uuid.UUID) (*domainRepo.HeldOrderList, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	slot, ok := r.slots[storeID]
	if !ok {
		return nil, nil
	}
	orders := make([]entity.HeldOrder, len(slot.Orders))
	copy(orders, slot.Orders)
	return &domainRepo.HeldOrderList{Version: slot.Version, Orders: orders}, nil
}

func (r *memoryHeldOrderRepository) Put(ctx context.Context, storeID uuid.UUID, list *domainRepo.HeldOrderList) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	orders := make([]entity.HeldOrder, len(list.Orders))
	copy(orders, list.Orders)
	r.slots[storeID] = &domainRepo.HeldOrderList{Version: list.Version + 1, Orders: orders}
	return nil
}
