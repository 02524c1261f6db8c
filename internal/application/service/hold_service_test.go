package service

import (
	"context"
	"errors"
	"net/http"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/pharmaline/pos-api/internal/domain/entity"
	"github.com/pharmaline/pos-api/internal/domain/repository"
	infraRepo "github.com/pharmaline/pos-api/internal/infrastructure/repository"
	"github.com/pharmaline/pos-api/pkg/apperror"
)

// failingHeldOrderRepository simulates durable storage that is down
type failingHeldOrderRepository struct {
	puts int
}

func (r *failingHeldOrderRepository) Get(ctx context.Context, storeID uuid.UUID) (*repository.HeldOrderList, error) {
	return nil, errors.New("storage unavailable")
}

func (r *failingHeldOrderRepository) Put(ctx context.Context, storeID uuid.UUID, list *repository.HeldOrderList) error {
	r.puts++
	return errors.New("storage unavailable")
}

func newTestCartService() *CartService {
	return NewCartService(nil, nil, nil, 0.16, zap.NewNop())
}

func cartProduct(name string, qty int, price int64) *entity.Product {
	id := uuid.New()
	return &entity.Product{
		ID:   id,
		Name: name,
		Batches: []entity.ProductBatch{{
			ID:           uuid.New(),
			ProductID:    id,
			BatchNo:      "B1",
			Quantity:     qty,
			SellingPrice: price,
			ExpiresAt:    time.Now().AddDate(1, 0, 0),
		}},
	}
}

func TestHoldCart_EmptyCart(t *testing.T) {
	cartSvc := newTestCartService()
	holdSvc := NewHoldService(cartSvc, infraRepo.NewMemoryHeldOrderRepository(), zap.NewNop())

	_, err := holdSvc.HoldCart(context.Background(), uuid.New(), uuid.New())
	assert.ErrorIs(t, err, apperror.ErrEmptyCart)
}

func TestHoldCart_ThenRecall_RoundTrips(t *testing.T) {
	cartSvc := newTestCartService()
	holdSvc := NewHoldService(cartSvc, infraRepo.NewMemoryHeldOrderRepository(), zap.NewNop())

	storeID := uuid.New()
	tillID := uuid.New()
	customerID := uuid.New()

	product := cartProduct("Paracetamol", 10, 1000)
	ledger := cartSvc.Ledger(tillID)
	require.NoError(t, ledger.AddItem(product, 3))
	ledger.SetCustomer(&customerID)
	ledger.SetGlobalDiscount(10)

	wantSub, wantTotal := ledger.SubTotal, ledger.Total

	held, err := holdSvc.HoldCart(context.Background(), storeID, tillID)
	require.NoError(t, err)
	assert.Len(t, held.Ref, 8)
	assert.Equal(t, wantTotal, held.Total)

	// Holding frees the till
	assert.True(t, cartSvc.GetCart(tillID).IsEmpty())

	recalled, err := holdSvc.RecallCart(context.Background(), storeID, tillID, held.Ref)
	require.NoError(t, err)

	require.Len(t, recalled.Items, 1)
	assert.Equal(t, product.ID, recalled.Items[0].ProductID)
	assert.Equal(t, 3, recalled.Items[0].Quantity)
	assert.Equal(t, int64(1000), recalled.Items[0].UnitPrice)
	assert.Equal(t, customerID, *recalled.CustomerID)
	assert.Equal(t, float64(10), recalled.GlobalDiscountPct)
	assert.Equal(t, wantSub, recalled.SubTotal)
	assert.Equal(t, wantTotal, recalled.Total)

	// The recalled cart is the till's active cart again
	assert.Equal(t, recalled, cartSvc.GetCart(tillID))

	// And the held list no longer has the order
	assert.Empty(t, holdSvc.ListHeldOrders(context.Background(), storeID))
}

func TestRecallCart_UnknownRef(t *testing.T) {
	cartSvc := newTestCartService()
	holdSvc := NewHoldService(cartSvc, infraRepo.NewMemoryHeldOrderRepository(), zap.NewNop())

	_, err := holdSvc.RecallCart(context.Background(), uuid.New(), uuid.New(), "NOPE1234")
	require.Error(t, err)

	var appErr *apperror.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, http.StatusNotFound, appErr.Code)
}

func TestListHeldOrders_NewestFirst(t *testing.T) {
	cartSvc := newTestCartService()
	holdSvc := NewHoldService(cartSvc, infraRepo.NewMemoryHeldOrderRepository(), zap.NewNop())

	storeID := uuid.New()
	tillID := uuid.New()
	ctx := context.Background()

	first := cartProduct("First", 10, 100)
	require.NoError(t, cartSvc.Ledger(tillID).AddItem(first, 1))
	heldFirst, err := holdSvc.HoldCart(ctx, storeID, tillID)
	require.NoError(t, err)

	second := cartProduct("Second", 10, 200)
	require.NoError(t, cartSvc.Ledger(tillID).AddItem(second, 1))
	heldSecond, err := holdSvc.HoldCart(ctx, storeID, tillID)
	require.NoError(t, err)

	orders := holdSvc.ListHeldOrders(ctx, storeID)
	require.Len(t, orders, 2)
	assert.Equal(t, heldSecond.Ref, orders[0].Ref)
	assert.Equal(t, heldFirst.Ref, orders[1].Ref)
}

func TestHoldCart_StorageFailureDoesNotBlockTill(t *testing.T) {
	cartSvc := newTestCartService()
	repo := &failingHeldOrderRepository{}
	holdSvc := NewHoldService(cartSvc, repo, zap.NewNop())

	storeID := uuid.New()
	tillID := uuid.New()
	ctx := context.Background()

	product := cartProduct("Aspirin", 10, 250)
	require.NoError(t, cartSvc.Ledger(tillID).AddItem(product, 2))

	held, err := holdSvc.HoldCart(ctx, storeID, tillID)
	require.NoError(t, err)
	require.Equal(t, 1, repo.puts)

	// The in-memory working set still serves the held order
	orders := holdSvc.ListHeldOrders(ctx, storeID)
	require.Len(t, orders, 1)
	assert.Equal(t, held.Ref, orders[0].Ref)

	recalled, err := holdSvc.RecallCart(ctx, storeID, tillID, held.Ref)
	require.NoError(t, err)
	assert.Equal(t, int64(500), recalled.SubTotal)
}

func TestHoldSnapshot_SnapshotsAndClearsTogether(t *testing.T) {
	cartSvc := newTestCartService()
	tillID := uuid.New()

	product := cartProduct("Zinc", 10, 700)
	require.NoError(t, cartSvc.Ledger(tillID).AddItem(product, 2))

	held, err := cartSvc.HoldSnapshot(tillID, "REF00001", time.Now())
	require.NoError(t, err)
	assert.Equal(t, int64(1400), held.SubTotal)
	assert.True(t, cartSvc.GetCart(tillID).IsEmpty())

	_, err = cartSvc.HoldSnapshot(tillID, "REF00002", time.Now())
	assert.ErrorIs(t, err, apperror.ErrEmptyCart)
}

func TestDeleteHeldOrder(t *testing.T) {
	cartSvc := newTestCartService()
	holdSvc := NewHoldService(cartSvc, infraRepo.NewMemoryHeldOrderRepository(), zap.NewNop())

	storeID := uuid.New()
	tillID := uuid.New()
	ctx := context.Background()

	product := cartProduct("Lozenges", 10, 150)
	require.NoError(t, cartSvc.Ledger(tillID).AddItem(product, 1))
	held, err := holdSvc.HoldCart(ctx, storeID, tillID)
	require.NoError(t, err)

	require.NoError(t, holdSvc.DeleteHeldOrder(ctx, storeID, held.Ref))
	assert.Empty(t, holdSvc.ListHeldOrders(ctx, storeID))

	err = holdSvc.DeleteHeldOrder(ctx, storeID, held.Ref)
	assert.Error(t, err)
}
