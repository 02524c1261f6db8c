package service

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/pharmaline/pos-api/internal/domain/entity"
	"github.com/pharmaline/pos-api/internal/domain/enum"
	"github.com/pharmaline/pos-api/internal/domain/repository"
	"github.com/pharmaline/pos-api/internal/infrastructure/cache"
	"github.com/pharmaline/pos-api/pkg/apperror"
)

// CartService manages the in-progress cart of each till session. A till
// session is identified by the cashier's user ID; each session owns exactly
// one ledger, created lazily on first use.
type CartService struct {
	productRepo  repository.ProductRepository
	customerRepo repository.CustomerRepository
	productCache *cache.ProductCache
	taxRate      float64
	logger       *zap.Logger

	mu      sync.Mutex
	ledgers map[uuid.UUID]*entity.CartLedger
}

// NewCartService creates a new cart service
func NewCartService(
	productRepo repository.ProductRepository,
	customerRepo repository.CustomerRepository,
	productCache *cache.ProductCache,
	taxRate float64,
	logger *zap.Logger,
) *CartService {
	return &CartService{
		productRepo:  productRepo,
		customerRepo: customerRepo,
		productCache: productCache,
		taxRate:      taxRate,
		logger:       logger,
		ledgers:      make(map[uuid.UUID]*entity.CartLedger),
	}
}

// Ledger returns the session's cart, creating it on first access. The
// returned ledger must only be used while holding the session lock; callers
// outside this package go through the service methods instead.
func (s *CartService) Ledger(tillID uuid.UUID) *entity.CartLedger {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.ledgerLocked(tillID)
}

func (s *CartService) ledgerLocked(tillID uuid.UUID) *entity.CartLedger {
	ledger, ok := s.ledgers[tillID]
	if !ok {
		ledger = entity.NewCartLedger(s.taxRate)
		s.ledgers[tillID] = ledger
	}
	return ledger
}

// GetCart returns a copy-safe view of the session's cart
func (s *CartService) GetCart(tillID uuid.UUID) *entity.CartLedger {
	return s.Ledger(tillID)
}

// AddItem looks up the product and adds the requested quantity to the cart.
// The product read goes through the cache; a miss falls back to the
// database and primes the cache for the next scan.
func (s *CartService) AddItem(ctx context.Context, tillID, productID uuid.UUID, quantity int) (*entity.CartLedger, error) {
	if quantity <= 0 {
		return nil, apperror.ErrInvalidQuantity
	}

	product := s.productCache.Get(ctx, productID)
	if product == nil {
		var err error
		product, err = s.productRepo.GetByID(ctx, productID)
		if err != nil {
			return nil, err
		}
		if product == nil {
			return nil, apperror.NewNotFoundError("Product")
		}
		s.productCache.Set(ctx, product)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	ledger := s.ledgerLocked(tillID)
	if err := ledger.AddItem(product, quantity); err != nil {
		return nil, err
	}
	return ledger, nil
}

// UpdateQuantity changes the quantity of an existing line
func (s *CartService) UpdateQuantity(tillID, productID, batchID uuid.UUID, quantity int) (*entity.CartLedger, error) {
	if quantity <= 0 {
		return nil, apperror.ErrInvalidQuantity
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	ledger := s.ledgerLocked(tillID)
	ledger.UpdateQuantity(productID, batchID, quantity)
	return ledger, nil
}

// RemoveItem removes one line by its (product, batch) pair
func (s *CartService) RemoveItem(tillID, productID, batchID uuid.UUID) *entity.CartLedger {
	s.mu.Lock()
	defer s.mu.Unlock()

	ledger := s.ledgerLocked(tillID)
	ledger.RemoveItem(productID, batchID)
	return ledger
}

// RemoveProduct removes every line of the product across all batches
func (s *CartService) RemoveProduct(tillID, productID uuid.UUID) *entity.CartLedger {
	s.mu.Lock()
	defer s.mu.Unlock()

	ledger := s.ledgerLocked(tillID)
	ledger.RemoveProduct(productID)
	return ledger
}

// SetLineDiscount applies a percentage discount to one line
func (s *CartService) SetLineDiscount(tillID, productID, batchID uuid.UUID, percent float64) (*entity.CartLedger, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	ledger := s.ledgerLocked(tillID)
	if err := ledger.SetLineDiscount(productID, batchID, percent); err != nil {
		return nil, err
	}
	return ledger, nil
}

// SetGlobalDiscount applies a cart-wide percentage discount
func (s *CartService) SetGlobalDiscount(tillID uuid.UUID, percent float64) *entity.CartLedger {
	s.mu.Lock()
	defer s.mu.Unlock()

	ledger := s.ledgerLocked(tillID)
	ledger.SetGlobalDiscount(percent)
	return ledger
}

// SetCustomer validates and selects the customer for the sale. Passing nil
// reverts to walk-in.
func (s *CartService) SetCustomer(ctx context.Context, tillID uuid.UUID, customerID *uuid.UUID) (*entity.CartLedger, error) {
	if customerID != nil {
		customer, err := s.customerRepo.GetByID(ctx, *customerID)
		if err != nil {
			return nil, err
		}
		if customer == nil {
			return nil, apperror.NewNotFoundError("Customer")
		}
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	ledger := s.ledgerLocked(tillID)
	ledger.SetCustomer(customerID)
	return ledger, nil
}

// SetPaymentMethod selects how the sale will be paid
func (s *CartService) SetPaymentMethod(tillID uuid.UUID, method enum.PaymentMethod) *entity.CartLedger {
	s.mu.Lock()
	defer s.mu.Unlock()

	ledger := s.ledgerLocked(tillID)
	ledger.SetPaymentMethod(method)
	return ledger
}

// CheckoutSnapshot builds a checkout payload under the session lock, so a
// concurrent item scan cannot tear the payload. Returns nil for an empty
// cart.
func (s *CartService) CheckoutSnapshot(tillID uuid.UUID) *entity.CheckoutPayload {
	s.mu.Lock()
	defer s.mu.Unlock()

	ledger := s.ledgerLocked(tillID)
	if ledger.IsEmpty() {
		return nil
	}
	return ledger.CheckoutPayload()
}

// CommitCheckout removes the submitted payload lines from the cart. Items
// scanned while the submission was in flight stay in the cart unsold.
func (s *CartService) CommitCheckout(tillID uuid.UUID, payload *entity.CheckoutPayload) *entity.CartLedger {
	s.mu.Lock()
	defer s.mu.Unlock()

	ledger := s.ledgerLocked(tillID)
	ledger.RemoveCheckedOut(payload)
	return ledger
}

// HoldSnapshot snapshots the cart under the session lock and clears it in
// the same critical section, so an item scanned during the hold ends up in
// exactly one of the two carts.
func (s *CartService) HoldSnapshot(tillID uuid.UUID, ref string, now time.Time) (*entity.HeldOrder, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	ledger := s.ledgerLocked(tillID)
	if ledger.IsEmpty() {
		return nil, apperror.ErrEmptyCart
	}
	held := ledger.Snapshot(ref, now)
	ledger.Clear()
	return held, nil
}

// ClearCart empties the session's cart
func (s *CartService) ClearCart(tillID uuid.UUID) *entity.CartLedger {
	s.mu.Lock()
	defer s.mu.Unlock()

	ledger := s.ledgerLocked(tillID)
	ledger.Clear()
	return ledger
}

// ReplaceCart swaps the session's cart for the given ledger. Used by recall.
func (s *CartService) ReplaceCart(tillID uuid.UUID, ledger *entity.CartLedger) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.ledgers[tillID] = ledger
}
