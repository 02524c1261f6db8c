package service

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/pharmaline/pos-api/internal/domain/entity"
	"github.com/pharmaline/pos-api/internal/domain/repository"
	"github.com/pharmaline/pos-api/pkg/apperror"
	"github.com/pharmaline/pos-api/pkg/utils"
)

// HoldService parks and recalls carts. Held orders live in an in-memory
// working set and are mirrored to durable storage on every change; a
// storage failure is logged but never blocks the till, so a hold always
// succeeds from the cashier's point of view.
type HoldService struct {
	cartService *CartService
	heldRepo    repository.HeldOrderRepository
	logger      *zap.Logger

	mu    sync.Mutex
	lists map[uuid.UUID]*repository.HeldOrderList // keyed by store
}

// NewHoldService creates a new hold service
func NewHoldService(cartService *CartService, heldRepo repository.HeldOrderRepository, logger *zap.Logger) *HoldService {
	return &HoldService{
		cartService: cartService,
		heldRepo:    heldRepo,
		logger:      logger,
		lists:       make(map[uuid.UUID]*repository.HeldOrderList),
	}
}

// listLocked returns the store's working set, loading it from storage on
// first access. A read failure starts from an empty list.
func (s *HoldService) listLocked(ctx context.Context, storeID uuid.UUID) *repository.HeldOrderList {
	if list, ok := s.lists[storeID]; ok {
		return list
	}

	list, err := s.heldRepo.Get(ctx, storeID)
	if err != nil {
		s.logger.Warn("failed to load held orders, starting empty",
			zap.String("store_id", storeID.String()), zap.Error(err))
		list = nil
	}
	if list == nil {
		list = &repository.HeldOrderList{Orders: []entity.HeldOrder{}}
	}
	s.lists[storeID] = list
	return list
}

// persistLocked mirrors the working set to durable storage, best effort
func (s *HoldService) persistLocked(ctx context.Context, storeID uuid.UUID, list *repository.HeldOrderList) {
	if err := s.heldRepo.Put(ctx, storeID, list); err != nil {
		s.logger.Warn("failed to persist held orders, kept in memory only",
			zap.String("store_id", storeID.String()),
			zap.Int("held_count", len(list.Orders)),
			zap.Error(err))
		return
	}
	list.Version++
}

// HoldCart snapshots the till's cart under a fresh reference code and clears
// the cart for the next customer. Snapshot and clear happen in one cart
// critical section, so a concurrent scan cannot fall between the two.
func (s *HoldService) HoldCart(ctx context.Context, storeID, tillID uuid.UUID) (*entity.HeldOrder, error) {
	held, err := s.cartService.HoldSnapshot(tillID, utils.ShortCode(), time.Now())
	if err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	list := s.listLocked(ctx, storeID)
	list.Orders = append(list.Orders, *held)
	s.persistLocked(ctx, storeID, list)

	return held, nil
}

// ListHeldOrders returns the store's parked carts, newest first
func (s *HoldService) ListHeldOrders(ctx context.Context, storeID uuid.UUID) []entity.HeldOrder {
	s.mu.Lock()
	defer s.mu.Unlock()

	list := s.listLocked(ctx, storeID)
	orders := make([]entity.HeldOrder, len(list.Orders))
	copy(orders, list.Orders)
	for i, j := 0, len(orders)-1; i < j; i, j = i+1, j-1 {
		orders[i], orders[j] = orders[j], orders[i]
	}
	return orders
}

// RecallCart restores a held order into the till's cart and removes it from
// the held list. The current cart is replaced outright; the caller confirms
// with the cashier before discarding anything.
func (s *HoldService) RecallCart(ctx context.Context, storeID, tillID uuid.UUID, ref string) (*entity.CartLedger, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	list := s.listLocked(ctx, storeID)
	idx := -1
	for i := range list.Orders {
		if list.Orders[i].Ref == ref {
			idx = i
			break
		}
	}
	if idx == -1 {
		return nil, apperror.NewNotFoundError("Held order")
	}

	held := list.Orders[idx]
	list.Orders = append(list.Orders[:idx], list.Orders[idx+1:]...)
	s.persistLocked(ctx, storeID, list)

	ledger := &entity.CartLedger{
		Items:             make([]entity.LineItem, len(held.Items)),
		CustomerID:        held.CustomerID,
		PaymentMethod:     held.PaymentMethod,
		GlobalDiscountPct: held.GlobalDiscountPct,
		TaxRate:           held.TaxRate,
	}
	copy(ledger.Items, held.Items)
	ledger.SetGlobalDiscount(held.GlobalDiscountPct) // recomputes totals

	s.cartService.ReplaceCart(tillID, ledger)
	return ledger, nil
}

// DeleteHeldOrder discards a parked cart without recalling it
func (s *HoldService) DeleteHeldOrder(ctx context.Context, storeID uuid.UUID, ref string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	list := s.listLocked(ctx, storeID)
	for i := range list.Orders {
		if list.Orders[i].Ref == ref {
			list.Orders = append(list.Orders[:i], list.Orders[i+1:]...)
			s.persistLocked(ctx, storeID, list)
			return nil
		}
	}
	return apperror.NewNotFoundError("Held order")
}
