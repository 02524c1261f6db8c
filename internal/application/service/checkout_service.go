package service

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/pharmaline/pos-api/internal/domain/entity"
	"github.com/pharmaline/pos-api/pkg/apperror"
)

// SaleCreator turns a checkout payload into a persisted sale. Implemented
// by SaleService; a narrow interface keeps checkout testable without a
// database.
type SaleCreator interface {
	CreateSale(ctx context.Context, storeID, userID uuid.UUID, payload *entity.CheckoutPayload) (*entity.Sale, error)
}

// CheckoutService submits a till's cart as a sale. Each till has a busy
// flag: while a submission is in flight, further attempts are rejected
// rather than queued, so a double-tap cannot create two sales. On success
// the cart is cleared; on failure it is preserved untouched so the cashier
// can retry or amend, and nothing retries automatically.
type CheckoutService struct {
	cartService *CartService
	sales       SaleCreator
	timeout     time.Duration
	logger      *zap.Logger

	mu   sync.Mutex
	busy map[uuid.UUID]bool
}

// NewCheckoutService creates a new checkout service
func NewCheckoutService(cartService *CartService, sales SaleCreator, timeout time.Duration, logger *zap.Logger) *CheckoutService {
	if timeout <= 0 {
		timeout = 15 * time.Second
	}
	return &CheckoutService{
		cartService: cartService,
		sales:       sales,
		timeout:     timeout,
		logger:      logger,
		busy:        make(map[uuid.UUID]bool),
	}
}

// IsBusy reports whether the till has a checkout in flight
func (s *CheckoutService) IsBusy(tillID uuid.UUID) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.busy[tillID]
}

func (s *CheckoutService) acquire(tillID uuid.UUID) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.busy[tillID] {
		return false
	}
	s.busy[tillID] = true
	return true
}

func (s *CheckoutService) release(tillID uuid.UUID) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.busy, tillID)
}

// Checkout submits the till's cart. Returns the created sale on success.
func (s *CheckoutService) Checkout(ctx context.Context, storeID, tillID uuid.UUID) (*entity.Sale, error) {
	if !s.acquire(tillID) {
		return nil, apperror.ErrCheckoutInProgress
	}
	defer s.release(tillID)

	payload := s.cartService.CheckoutSnapshot(tillID)
	if payload == nil {
		return nil, apperror.ErrEmptyCart
	}

	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	sale, err := s.sales.CreateSale(ctx, storeID, tillID, payload)
	if err != nil {
		// Cart stays as-is; the cashier decides whether to retry
		s.logger.Warn("checkout failed, cart preserved",
			zap.String("till_id", tillID.String()),
			zap.Int("items", len(payload.Items)),
			zap.Error(err))
		return nil, err
	}

	// Only the submitted lines leave the cart; anything scanned while the
	// submission was in flight stays for the next sale
	s.cartService.CommitCheckout(tillID, payload)
	s.logger.Info("checkout complete",
		zap.String("till_id", tillID.String()),
		zap.String("invoice_no", sale.InvoiceNo))
	return sale, nil
}
