package entity

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pharmaline/pos-api/internal/domain/enum"
	"github.com/pharmaline/pos-api/pkg/apperror"
)

func date(s string) time.Time {
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		panic(err)
	}
	return t
}

func testProduct(name string, batches ...ProductBatch) *Product {
	return &Product{
		ID:      uuid.New(),
		Name:    name,
		Batches: batches,
	}
}

func testBatch(no string, qty int, price int64, expires string) ProductBatch {
	return ProductBatch{
		ID:           uuid.New(),
		BatchNo:      no,
		Quantity:     qty,
		SellingPrice: price,
		ExpiresAt:    date(expires),
	}
}

func TestAddItem_PicksEarliestExpiringBatch(t *testing.T) {
	product := testProduct("Paracetamol 500mg",
		testBatch("B1", 10, 500, "2025-01-01"),
		testBatch("B2", 10, 500, "2024-06-01"),
		testBatch("B3", 10, 500, "2026-01-01"),
	)

	ledger := NewCartLedger(0.16)
	require.NoError(t, ledger.AddItem(product, 2))

	require.Len(t, ledger.Items, 1)
	assert.Equal(t, product.Batches[1].ID, ledger.Items[0].BatchID)
	assert.Equal(t, "B2", ledger.Items[0].BatchNo)
}

func TestAddItem_SkipsEmptyBatches(t *testing.T) {
	product := testProduct("Amoxicillin",
		testBatch("B1", 0, 800, "2024-06-01"),
		testBatch("B2", 5, 800, "2025-01-01"),
	)

	ledger := NewCartLedger(0)
	require.NoError(t, ledger.AddItem(product, 1))

	require.Len(t, ledger.Items, 1)
	assert.Equal(t, "B2", ledger.Items[0].BatchNo)
}

func TestAddItem_MergesDuplicateLines(t *testing.T) {
	product := testProduct("Ibuprofen", testBatch("B1", 20, 300, "2025-01-01"))

	ledger := NewCartLedger(0)
	require.NoError(t, ledger.AddItem(product, 2))
	require.NoError(t, ledger.AddItem(product, 3))

	require.Len(t, ledger.Items, 1)
	assert.Equal(t, 5, ledger.Items[0].Quantity)
	assert.Equal(t, int64(1500), ledger.SubTotal)
}

func TestAddItem_Errors(t *testing.T) {
	ledger := NewCartLedger(0)

	noBatches := testProduct("Empty")
	assert.ErrorIs(t, ledger.AddItem(noBatches, 1), apperror.ErrNoBatches)

	outOfStock := testProduct("Sold out", testBatch("B1", 0, 100, "2025-01-01"))
	assert.ErrorIs(t, ledger.AddItem(outOfStock, 1), apperror.ErrOutOfStock)

	inStock := testProduct("OK", testBatch("B1", 5, 100, "2025-01-01"))
	assert.ErrorIs(t, ledger.AddItem(inStock, 0), apperror.ErrInvalidQuantity)
	assert.ErrorIs(t, ledger.AddItem(inStock, -1), apperror.ErrInvalidQuantity)
	assert.True(t, ledger.IsEmpty())
}

func TestAddItem_SnapshotsUnitPrice(t *testing.T) {
	product := testProduct("Cough syrup", testBatch("B1", 10, 1250, "2025-01-01"))

	ledger := NewCartLedger(0)
	require.NoError(t, ledger.AddItem(product, 1))

	// A later price change must not move the open cart
	product.Batches[0].SellingPrice = 2000
	ledger.UpdateQuantity(product.ID, product.Batches[0].ID, 3)

	assert.Equal(t, int64(1250), ledger.Items[0].UnitPrice)
	assert.Equal(t, int64(3750), ledger.SubTotal)
}

func TestUpdateQuantity_MissingRowIsNoOp(t *testing.T) {
	product := testProduct("Aspirin", testBatch("B1", 10, 200, "2025-01-01"))

	ledger := NewCartLedger(0)
	require.NoError(t, ledger.AddItem(product, 2))

	ledger.UpdateQuantity(uuid.New(), uuid.New(), 99)

	assert.Equal(t, 2, ledger.Items[0].Quantity)
	assert.Equal(t, int64(400), ledger.SubTotal)
}

func TestRemoveItem_MatchesFullPair(t *testing.T) {
	batchA := testBatch("B1", 10, 500, "2024-06-01")
	batchB := testBatch("B2", 10, 500, "2025-01-01")
	product := testProduct("Metformin", batchA, batchB)

	ledger := NewCartLedger(0)
	require.NoError(t, ledger.AddItem(product, 2)) // draws from B1

	// Wrong batch ID must not remove the B1 row
	ledger.RemoveItem(product.ID, batchB.ID)
	require.Len(t, ledger.Items, 1)

	ledger.RemoveItem(product.ID, batchA.ID)
	assert.True(t, ledger.IsEmpty())
	assert.Zero(t, ledger.Total)
}

func TestRemoveProduct_DropsAllBatches(t *testing.T) {
	product := testProduct("Insulin",
		testBatch("B1", 5, 3000, "2024-06-01"),
		testBatch("B2", 5, 3000, "2025-01-01"),
	)
	other := testProduct("Syringes", testBatch("S1", 50, 100, "2026-01-01"))

	ledger := NewCartLedger(0)
	require.NoError(t, ledger.AddItem(product, 1))
	// Second line for the same product from the other batch
	ledger.Items = append(ledger.Items, LineItem{
		ProductID: product.ID,
		BatchID:   product.Batches[1].ID,
		Quantity:  1,
		UnitPrice: 3000,
	})
	require.NoError(t, ledger.AddItem(other, 2))

	ledger.RemoveProduct(product.ID)

	require.Len(t, ledger.Items, 1)
	assert.Equal(t, other.ID, ledger.Items[0].ProductID)
	assert.Equal(t, int64(200), ledger.SubTotal)
}

func TestSetLineDiscount(t *testing.T) {
	product := testProduct("Vitamin C", testBatch("B1", 10, 1000, "2025-01-01"))

	ledger := NewCartLedger(0)
	require.NoError(t, ledger.AddItem(product, 2))

	require.NoError(t, ledger.SetLineDiscount(product.ID, product.Batches[0].ID, 10))
	assert.Equal(t, int64(1800), ledger.SubTotal)

	assert.ErrorIs(t, ledger.SetLineDiscount(product.ID, product.Batches[0].ID, -1), apperror.ErrInvalidDiscount)
	assert.ErrorIs(t, ledger.SetLineDiscount(product.ID, product.Batches[0].ID, 101), apperror.ErrInvalidDiscount)
	// Rejected values leave the previous discount in place
	assert.Equal(t, int64(1800), ledger.SubTotal)
}

func TestSetGlobalDiscount_ClampsAndRecomputes(t *testing.T) {
	product := testProduct("Bandages", testBatch("B1", 10, 1000, "2025-01-01"))

	ledger := NewCartLedger(0)
	require.NoError(t, ledger.AddItem(product, 1))

	ledger.SetGlobalDiscount(150)
	assert.Equal(t, float64(100), ledger.GlobalDiscountPct)
	assert.Equal(t, int64(0), ledger.Total)

	ledger.SetGlobalDiscount(-5)
	assert.Equal(t, float64(0), ledger.GlobalDiscountPct)
	assert.Equal(t, int64(1000), ledger.Total)
}

func TestRecomputeTotals_Deterministic(t *testing.T) {
	product := testProduct("Antacid", testBatch("B1", 30, 333, "2025-01-01"))

	ledger := NewCartLedger(0.16)
	require.NoError(t, ledger.AddItem(product, 3))
	require.NoError(t, ledger.SetLineDiscount(product.ID, product.Batches[0].ID, 7.5))
	ledger.SetGlobalDiscount(12.5)

	sub, tax, total := ledger.SubTotal, ledger.Tax, ledger.Total

	// Recomputing without changing inputs must not drift the totals
	ledger.SetGlobalDiscount(12.5)
	ledger.SetGlobalDiscount(12.5)

	assert.Equal(t, sub, ledger.SubTotal)
	assert.Equal(t, tax, ledger.Tax)
	assert.Equal(t, total, ledger.Total)
	assert.Equal(t, sub+tax-ledger.GlobalDiscountAmount(), ledger.Total)
}

func TestTotals_WithTaxAndDiscounts(t *testing.T) {
	a := testProduct("Drug A", testBatch("A1", 10, 1000, "2025-01-01"))
	b := testProduct("Drug B", testBatch("B1", 10, 500, "2025-01-01"))

	ledger := NewCartLedger(0.16)
	require.NoError(t, ledger.AddItem(a, 2)) // 2000
	require.NoError(t, ledger.AddItem(b, 1)) // 500
	require.NoError(t, ledger.SetLineDiscount(b.ID, b.Batches[0].ID, 20))

	// 2000 + 400 = 2400; tax 384; no global discount
	assert.Equal(t, int64(2400), ledger.SubTotal)
	assert.Equal(t, int64(384), ledger.Tax)
	assert.Equal(t, int64(2784), ledger.Total)

	ledger.SetGlobalDiscount(10)
	assert.Equal(t, int64(240), ledger.GlobalDiscountAmount())
	assert.Equal(t, int64(2544), ledger.Total)
}

func TestCheckoutPayload_IsPureSnapshot(t *testing.T) {
	product := testProduct("Eye drops", testBatch("B1", 10, 750, "2025-01-01"))
	customerID := uuid.New()

	ledger := NewCartLedger(0.16)
	require.NoError(t, ledger.AddItem(product, 2))
	ledger.SetCustomer(&customerID)
	ledger.SetPaymentMethod(enum.PaymentMethodCard)
	ledger.SetGlobalDiscount(10)

	before := *ledger
	payload := ledger.CheckoutPayload()

	assert.Equal(t, before.SubTotal, ledger.SubTotal)
	assert.Equal(t, before.Total, ledger.Total)
	assert.Len(t, ledger.Items, 1)

	require.Len(t, payload.Items, 1)
	assert.Equal(t, product.ID, payload.Items[0].ProductID)
	assert.Equal(t, int64(1500), payload.Items[0].SubTotal)
	assert.Equal(t, &customerID, payload.CustomerID)
	assert.Equal(t, enum.PaymentMethodCard, payload.Payment.Method)
	assert.Equal(t, enum.PaymentStatusPending, payload.Payment.Status)
	assert.Equal(t, ledger.Total, payload.Total)
	assert.Equal(t, ledger.GlobalDiscountAmount(), payload.Discount)
}

func TestRemoveCheckedOut_KeepsExcessQuantity(t *testing.T) {
	first := testProduct("Drug A", testBatch("A1", 10, 1000, "2025-01-01"))
	second := testProduct("Drug B", testBatch("B1", 10, 500, "2025-01-01"))

	ledger := NewCartLedger(0)
	require.NoError(t, ledger.AddItem(first, 2))
	payload := ledger.CheckoutPayload()

	// More items land in the cart after the payload was taken
	require.NoError(t, ledger.AddItem(first, 1))
	require.NoError(t, ledger.AddItem(second, 1))

	ledger.RemoveCheckedOut(payload)

	require.Len(t, ledger.Items, 2)
	assert.Equal(t, first.ID, ledger.Items[0].ProductID)
	assert.Equal(t, 1, ledger.Items[0].Quantity)
	assert.Equal(t, second.ID, ledger.Items[1].ProductID)
	assert.Equal(t, 1, ledger.Items[1].Quantity)
	assert.Equal(t, int64(1500), ledger.SubTotal)
}

func TestRemoveCheckedOut_EmptiesToClear(t *testing.T) {
	product := testProduct("Drug A", testBatch("A1", 10, 1000, "2025-01-01"))
	customerID := uuid.New()

	ledger := NewCartLedger(0.16)
	require.NoError(t, ledger.AddItem(product, 2))
	ledger.SetCustomer(&customerID)
	ledger.SetGlobalDiscount(10)

	payload := ledger.CheckoutPayload()
	ledger.RemoveCheckedOut(payload)

	assert.True(t, ledger.IsEmpty())
	assert.Nil(t, ledger.CustomerID)
	assert.Zero(t, ledger.GlobalDiscountPct)
	assert.Zero(t, ledger.Total)
	assert.Equal(t, 0.16, ledger.TaxRate)
}

func TestClear_KeepsTaxRate(t *testing.T) {
	product := testProduct("Gauze", testBatch("B1", 10, 400, "2025-01-01"))
	customerID := uuid.New()

	ledger := NewCartLedger(0.16)
	require.NoError(t, ledger.AddItem(product, 1))
	ledger.SetCustomer(&customerID)
	ledger.SetPaymentMethod(enum.PaymentMethodMobileBanking)
	ledger.SetGlobalDiscount(5)

	ledger.Clear()

	assert.True(t, ledger.IsEmpty())
	assert.Nil(t, ledger.CustomerID)
	assert.Equal(t, enum.PaymentMethodCash, ledger.PaymentMethod)
	assert.Zero(t, ledger.GlobalDiscountPct)
	assert.Zero(t, ledger.SubTotal)
	assert.Zero(t, ledger.Tax)
	assert.Zero(t, ledger.Total)
	assert.Equal(t, 0.16, ledger.TaxRate)
}

func TestSnapshot_DeepCopies(t *testing.T) {
	product := testProduct("Thermometer", testBatch("B1", 10, 2500, "2025-01-01"))
	customerID := uuid.New()

	ledger := NewCartLedger(0.16)
	require.NoError(t, ledger.AddItem(product, 1))
	ledger.SetCustomer(&customerID)
	ledger.SetGlobalDiscount(10)

	now := time.Now()
	held := ledger.Snapshot("AB12CD34", now)

	assert.Equal(t, "AB12CD34", held.Ref)
	assert.Equal(t, now, held.CreatedAt)
	assert.Equal(t, ledger.Total, held.Total)
	assert.Equal(t, ledger.TaxRate, held.TaxRate)
	assert.Equal(t, ledger.GlobalDiscountAmount(), held.Adjustment)

	// Mutating the ledger afterwards must not reach the snapshot
	ledger.Items[0].Quantity = 99
	other := uuid.New()
	ledger.CustomerID = &other

	assert.Equal(t, 1, held.Items[0].Quantity)
	assert.Equal(t, customerID, *held.CustomerID)
}
