package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/pharmaline/pos-api/internal/domain/entity"
	"github.com/pharmaline/pos-api/pkg/apperror"
)

// fakeSaleCreator records the payloads it receives and answers with a
// canned sale or error. An optional gate blocks CreateSale until released,
// to hold a checkout in flight.
type fakeSaleCreator struct {
	err      error
	gate     chan struct{}
	started  chan struct{}
	payloads []*entity.CheckoutPayload
	deadline time.Time
}

func (f *fakeSaleCreator) CreateSale(ctx context.Context, storeID, userID uuid.UUID, payload *entity.CheckoutPayload) (*entity.Sale, error) {
	f.payloads = append(f.payloads, payload)
	if d, ok := ctx.Deadline(); ok {
		f.deadline = d
	}
	if f.started != nil {
		select {
		case f.started <- struct{}{}:
		default:
		}
	}
	if f.gate != nil {
		<-f.gate
	}
	if f.err != nil {
		return nil, f.err
	}
	return &entity.Sale{ID: uuid.New(), InvoiceNo: "INV-TEST0001", Total: payload.Total}, nil
}

func TestCheckout_EmptyCart(t *testing.T) {
	cartSvc := newTestCartService()
	checkoutSvc := NewCheckoutService(cartSvc, &fakeSaleCreator{}, 0, zap.NewNop())

	_, err := checkoutSvc.Checkout(context.Background(), uuid.New(), uuid.New())
	assert.ErrorIs(t, err, apperror.ErrEmptyCart)
}

func TestCheckout_SuccessClearsCart(t *testing.T) {
	cartSvc := newTestCartService()
	sales := &fakeSaleCreator{}
	checkoutSvc := NewCheckoutService(cartSvc, sales, 0, zap.NewNop())

	tillID := uuid.New()
	product := cartProduct("Paracetamol", 10, 1000)
	require.NoError(t, cartSvc.Ledger(tillID).AddItem(product, 2))

	sale, err := checkoutSvc.Checkout(context.Background(), uuid.New(), tillID)
	require.NoError(t, err)
	assert.Equal(t, "INV-TEST0001", sale.InvoiceNo)

	require.Len(t, sales.payloads, 1)
	assert.Equal(t, int64(2000), sales.payloads[0].SubTotal)

	assert.True(t, cartSvc.GetCart(tillID).IsEmpty())
	assert.False(t, checkoutSvc.IsBusy(tillID))
}

func TestCheckout_FailurePreservesCart(t *testing.T) {
	cartSvc := newTestCartService()
	sales := &fakeSaleCreator{err: errors.New("backend unreachable")}
	checkoutSvc := NewCheckoutService(cartSvc, sales, 0, zap.NewNop())

	tillID := uuid.New()
	customerID := uuid.New()
	product := cartProduct("Ibuprofen", 10, 500)

	ledger := cartSvc.Ledger(tillID)
	require.NoError(t, ledger.AddItem(product, 3))
	ledger.SetCustomer(&customerID)
	ledger.SetGlobalDiscount(5)
	wantTotal := ledger.Total

	_, err := checkoutSvc.Checkout(context.Background(), uuid.New(), tillID)
	require.Error(t, err)

	// Exactly one attempt; nothing retries on its own
	assert.Len(t, sales.payloads, 1)

	after := cartSvc.GetCart(tillID)
	require.Len(t, after.Items, 1)
	assert.Equal(t, 3, after.Items[0].Quantity)
	assert.Equal(t, customerID, *after.CustomerID)
	assert.Equal(t, wantTotal, after.Total)
	assert.False(t, checkoutSvc.IsBusy(tillID))
}

func TestCheckout_RejectsConcurrentSubmit(t *testing.T) {
	cartSvc := newTestCartService()
	sales := &fakeSaleCreator{gate: make(chan struct{})}
	checkoutSvc := NewCheckoutService(cartSvc, sales, 0, zap.NewNop())

	tillID := uuid.New()
	storeID := uuid.New()
	product := cartProduct("Amoxicillin", 10, 800)
	require.NoError(t, cartSvc.Ledger(tillID).AddItem(product, 1))

	done := make(chan error, 1)
	go func() {
		_, err := checkoutSvc.Checkout(context.Background(), storeID, tillID)
		done <- err
	}()

	// Wait until the first submit is in flight
	require.Eventually(t, func() bool {
		return checkoutSvc.IsBusy(tillID)
	}, time.Second, time.Millisecond)

	_, err := checkoutSvc.Checkout(context.Background(), storeID, tillID)
	assert.ErrorIs(t, err, apperror.ErrCheckoutInProgress)

	close(sales.gate)
	require.NoError(t, <-done)
	assert.False(t, checkoutSvc.IsBusy(tillID))

	// The till is free again once the first submit finished
	require.NoError(t, cartSvc.Ledger(tillID).AddItem(product, 1))
	_, err = checkoutSvc.Checkout(context.Background(), storeID, tillID)
	assert.NoError(t, err)
}

func TestCheckout_KeepsItemsScannedWhileInFlight(t *testing.T) {
	cartSvc := newTestCartService()
	sales := &fakeSaleCreator{gate: make(chan struct{}), started: make(chan struct{}, 1)}
	checkoutSvc := NewCheckoutService(cartSvc, sales, 0, zap.NewNop())

	tillID := uuid.New()
	storeID := uuid.New()
	first := cartProduct("Paracetamol", 10, 1000)
	second := cartProduct("Ibuprofen", 10, 500)
	require.NoError(t, cartSvc.Ledger(tillID).AddItem(first, 2))

	done := make(chan error, 1)
	go func() {
		_, err := checkoutSvc.Checkout(context.Background(), storeID, tillID)
		done <- err
	}()
	// Wait until the payload has been snapshotted and handed to the backend
	<-sales.started

	// The cashier keeps scanning for the next customer while the submit
	// is in flight
	ledger := cartSvc.Ledger(tillID)
	require.NoError(t, ledger.AddItem(first, 1))
	require.NoError(t, ledger.AddItem(second, 1))

	close(sales.gate)
	require.NoError(t, <-done)

	// The sale contains exactly what was submitted
	require.Len(t, sales.payloads, 1)
	require.Len(t, sales.payloads[0].Items, 1)
	assert.Equal(t, 2, sales.payloads[0].Items[0].Quantity)
	assert.Equal(t, int64(2000), sales.payloads[0].SubTotal)

	// The mid-flight scans survive the successful checkout
	after := cartSvc.GetCart(tillID)
	require.Len(t, after.Items, 2)
	assert.Equal(t, first.ID, after.Items[0].ProductID)
	assert.Equal(t, 1, after.Items[0].Quantity)
	assert.Equal(t, second.ID, after.Items[1].ProductID)
	assert.Equal(t, 1, after.Items[1].Quantity)
	assert.Equal(t, int64(1500), after.SubTotal)
}

func TestCheckout_AppliesConfiguredTimeout(t *testing.T) {
	cartSvc := newTestCartService()
	sales := &fakeSaleCreator{}
	checkoutSvc := NewCheckoutService(cartSvc, sales, 2*time.Second, zap.NewNop())

	tillID := uuid.New()
	product := cartProduct("Saline", 10, 300)
	require.NoError(t, cartSvc.Ledger(tillID).AddItem(product, 1))

	start := time.Now()
	_, err := checkoutSvc.Checkout(context.Background(), uuid.New(), tillID)
	require.NoError(t, err)

	require.False(t, sales.deadline.IsZero())
	remaining := sales.deadline.Sub(start)
	assert.Greater(t, remaining, time.Second)
	assert.LessOrEqual(t, remaining, 2*time.Second+100*time.Millisecond)
}
