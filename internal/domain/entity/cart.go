package entity

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/pharmaline/pos-api/internal/domain/enum"
	"github.com/pharmaline/pos-api/pkg/apperror"
)

// LineItem is one row of the in-progress cart. Rows are keyed by the
// (product, batch) pair: adding the same product from the same batch again
// merges into the existing row instead of appending a duplicate.
type LineItem struct {
	ProductID   uuid.UUID `json:"product_id"`
	BatchID     uuid.UUID `json:"batch_id"`
	ProductName string    `json:"product_name"`
	GenericName string    `json:"generic_name,omitempty"`
	BatchNo     string    `json:"batch_no"`
	Quantity    int       `json:"quantity"`
	// UnitPrice is a snapshot of the batch selling price at the time the
	// item was added; later price edits do not affect an open cart.
	UnitPrice   int64   `json:"unit_price"`
	DiscountPct float64 `json:"discount_pct"`
}

// Subtotal returns the line total in cents after the line discount
func (li *LineItem) Subtotal() int64 {
	return lineSubtotal(li.UnitPrice, li.Quantity, li.DiscountPct)
}

func lineSubtotal(unitPrice int64, qty int, discountPct float64) int64 {
	line := decimal.NewFromInt(unitPrice).Mul(decimal.NewFromInt(int64(qty)))
	if discountPct != 0 {
		factor := decimal.NewFromInt(1).Sub(decimal.NewFromFloat(discountPct).Div(decimal.NewFromInt(100)))
		line = line.Mul(factor)
	}
	return line.Round(0).IntPart()
}

// CartLedger holds the state of the sale in progress at one till: line
// items, the selected customer and payment method, and running totals. The
// totals are derived; every mutating operation recomputes them from the
// items, so they can never drift from the rows.
//
// A ledger is confined to a single till session and is never touched by two
// requests at once; synchronization lives in the service that owns the
// sessions.
type CartLedger struct {
	Items             []LineItem         `json:"items"`
	CustomerID        *uuid.UUID         `json:"customer_id,omitempty"` // nil = walk-in
	PaymentMethod     enum.PaymentMethod `json:"payment_method"`
	GlobalDiscountPct float64            `json:"global_discount_pct"`
	TaxRate           float64            `json:"tax_rate"` // fraction, e.g. 0.16
	SubTotal          int64              `json:"sub_total"`
	Tax               int64              `json:"tax"`
	Total             int64              `json:"total"`
}

// NewCartLedger creates an empty ledger with the configured tax rate
func NewCartLedger(taxRate float64) *CartLedger {
	return &CartLedger{
		Items:         []LineItem{},
		PaymentMethod: enum.PaymentMethodCash,
		TaxRate:       taxRate,
	}
}

// IsEmpty reports whether the ledger has no line items
func (l *CartLedger) IsEmpty() bool {
	return len(l.Items) == 0
}

// AddItem adds quantity units of a product to the cart. The batch is chosen
// for the caller: the in-stock batch with the soonest expiry date wins
// (first-expiry-first-out dispensing). If a row for that (product, batch)
// already exists its quantity is incremented.
func (l *CartLedger) AddItem(product *Product, quantity int) error {
	if quantity <= 0 {
		return apperror.ErrInvalidQuantity
	}
	if len(product.Batches) == 0 {
		return apperror.ErrNoBatches
	}
	if product.TotalStock() <= 0 {
		return apperror.ErrOutOfStock
	}

	batch := product.EarliestExpiryBatch()
	if batch == nil {
		return apperror.ErrOutOfStock
	}

	l.addFromBatch(product, batch, quantity)
	l.recomputeTotals()
	return nil
}

func (l *CartLedger) addFromBatch(product *Product, batch *ProductBatch, quantity int) {
	for i := range l.Items {
		if l.Items[i].ProductID == product.ID && l.Items[i].BatchID == batch.ID {
			l.Items[i].Quantity += quantity
			return
		}
	}

	l.Items = append(l.Items, LineItem{
		ProductID:   product.ID,
		BatchID:     batch.ID,
		ProductName: product.Name,
		GenericName: product.GenericName,
		BatchNo:     batch.BatchNo,
		Quantity:    quantity,
		UnitPrice:   batch.SellingPrice,
		DiscountPct: 0,
	})
}

// UpdateQuantity replaces the quantity of the row matching both IDs. A
// missing row is a no-op. The caller validates that quantity is positive;
// the ledger does not clamp.
func (l *CartLedger) UpdateQuantity(productID, batchID uuid.UUID, quantity int) {
	for i := range l.Items {
		if l.Items[i].ProductID == productID && l.Items[i].BatchID == batchID {
			l.Items[i].Quantity = quantity
			break
		}
	}
	l.recomputeTotals()
}

// RemoveItem removes the row matching the full (product, batch) pair.
// Matching on the pair rather than product alone preserves the
// one-row-per-batch shape of the cart.
func (l *CartLedger) RemoveItem(productID, batchID uuid.UUID) {
	for i := range l.Items {
		if l.Items[i].ProductID == productID && l.Items[i].BatchID == batchID {
			l.Items = append(l.Items[:i], l.Items[i+1:]...)
			break
		}
	}
	l.recomputeTotals()
}

// RemoveProduct removes every row of the given product, regardless of batch
func (l *CartLedger) RemoveProduct(productID uuid.UUID) {
	kept := l.Items[:0]
	for _, item := range l.Items {
		if item.ProductID != productID {
			kept = append(kept, item)
		}
	}
	l.Items = kept
	l.recomputeTotals()
}

// SetLineDiscount sets the percentage discount of one row. Out-of-range
// values are rejected.
func (l *CartLedger) SetLineDiscount(productID, batchID uuid.UUID, percent float64) error {
	if percent < 0 || percent > 100 {
		return apperror.ErrInvalidDiscount
	}
	for i := range l.Items {
		if l.Items[i].ProductID == productID && l.Items[i].BatchID == batchID {
			l.Items[i].DiscountPct = percent
			break
		}
	}
	l.recomputeTotals()
	return nil
}

// SetGlobalDiscount sets the cart-wide percentage discount, clamped to [0,100]
func (l *CartLedger) SetGlobalDiscount(percent float64) {
	if percent < 0 {
		percent = 0
	}
	if percent > 100 {
		percent = 100
	}
	l.GlobalDiscountPct = percent
	l.recomputeTotals()
}

// SetCustomer selects the customer for the sale; nil means walk-in
func (l *CartLedger) SetCustomer(customerID *uuid.UUID) {
	l.CustomerID = customerID
}

// SetPaymentMethod selects how the sale will be paid
func (l *CartLedger) SetPaymentMethod(method enum.PaymentMethod) {
	l.PaymentMethod = method
}

// recomputeTotals derives subtotal, tax and total from the items. It reads
// nothing but the rows and the discount/tax fields, so calling it twice in a
// row always yields the same result.
func (l *CartLedger) recomputeTotals() {
	sub := decimal.Zero
	for i := range l.Items {
		sub = sub.Add(decimal.NewFromInt(l.Items[i].Subtotal()))
	}
	subCents := sub.Round(0).IntPart()

	tax := decimal.NewFromInt(subCents).
		Mul(decimal.NewFromFloat(l.TaxRate)).
		Round(0).IntPart()

	globalDiscount := decimal.NewFromInt(subCents).
		Mul(decimal.NewFromFloat(l.GlobalDiscountPct)).
		Div(decimal.NewFromInt(100)).
		Round(0).IntPart()

	l.SubTotal = subCents
	l.Tax = tax
	l.Total = subCents + tax - globalDiscount
}

// GlobalDiscountAmount returns the cart-wide discount in cents
func (l *CartLedger) GlobalDiscountAmount() int64 {
	return decimal.NewFromInt(l.SubTotal).
		Mul(decimal.NewFromFloat(l.GlobalDiscountPct)).
		Div(decimal.NewFromInt(100)).
		Round(0).IntPart()
}

// Clear empties the ledger back to its mount state: no items, walk-in
// customer, cash payment, zero totals. The tax rate is configuration and
// survives.
func (l *CartLedger) Clear() {
	l.Items = []LineItem{}
	l.CustomerID = nil
	l.PaymentMethod = enum.PaymentMethodCash
	l.GlobalDiscountPct = 0
	l.SubTotal = 0
	l.Tax = 0
	l.Total = 0
}

// CheckoutItem is one line of a checkout payload
type CheckoutItem struct {
	ProductID   uuid.UUID `json:"product_id"`
	BatchID     uuid.UUID `json:"batch_id"`
	Quantity    int       `json:"quantity"`
	UnitPrice   int64     `json:"unit_price"`
	DiscountPct float64   `json:"discount_pct"`
	SubTotal    int64     `json:"sub_total"`
}

// CheckoutPayment carries payment details for a new sale
type CheckoutPayment struct {
	Method enum.PaymentMethod `json:"method"`
	Status enum.PaymentStatus `json:"status"`
}

// CheckoutPayload is the sale-creation request produced from a ledger
type CheckoutPayload struct {
	CustomerID  *uuid.UUID      `json:"customer_id,omitempty"`
	Items       []CheckoutItem  `json:"items"`
	SubTotal    int64           `json:"sub_total"`
	Tax         int64           `json:"tax"`
	DiscountPct float64         `json:"discount_pct"`
	Discount    int64           `json:"discount"`
	Total       int64           `json:"total"`
	Payment     CheckoutPayment `json:"payment"`
}

// CheckoutPayload builds the sale-creation request from the current ledger
// state. It is a pure snapshot; the ledger is not mutated.
func (l *CartLedger) CheckoutPayload() *CheckoutPayload {
	items := make([]CheckoutItem, 0, len(l.Items))
	for i := range l.Items {
		li := &l.Items[i]
		items = append(items, CheckoutItem{
			ProductID:   li.ProductID,
			BatchID:     li.BatchID,
			Quantity:    li.Quantity,
			UnitPrice:   li.UnitPrice,
			DiscountPct: li.DiscountPct,
			SubTotal:    li.Subtotal(),
		})
	}

	return &CheckoutPayload{
		CustomerID:  l.CustomerID,
		Items:       items,
		SubTotal:    l.SubTotal,
		Tax:         l.Tax,
		DiscountPct: l.GlobalDiscountPct,
		Discount:    l.GlobalDiscountAmount(),
		Total:       l.Total,
		Payment: CheckoutPayment{
			Method: l.PaymentMethod,
			Status: enum.PaymentStatusPending,
		},
	}
}

// RemoveCheckedOut subtracts the submitted payload lines from the ledger.
// Lines added or grown after the payload was snapshotted keep their excess
// quantity; when nothing survives the ledger resets fully.
func (l *CartLedger) RemoveCheckedOut(payload *CheckoutPayload) {
	for _, sold := range payload.Items {
		for i := range l.Items {
			if l.Items[i].ProductID == sold.ProductID && l.Items[i].BatchID == sold.BatchID {
				l.Items[i].Quantity -= sold.Quantity
				break
			}
		}
	}

	kept := l.Items[:0]
	for _, item := range l.Items {
		if item.Quantity > 0 {
			kept = append(kept, item)
		}
	}
	l.Items = kept

	if len(l.Items) == 0 {
		l.Clear()
		return
	}
	l.recomputeTotals()
}

// HeldOrder is a cart snapshot parked under a short reference code so the
// till is free for the next customer. Snapshots live in durable storage
// independent of the active ledger.
type HeldOrder struct {
	Ref               string             `json:"ref"`
	Items             []LineItem         `json:"items"`
	CustomerID        *uuid.UUID         `json:"customer_id,omitempty"`
	PaymentMethod     enum.PaymentMethod `json:"payment_method"`
	SubTotal          int64              `json:"sub_total"`
	Tax               int64              `json:"tax"`
	TaxRate           float64            `json:"tax_rate"`
	GlobalDiscountPct float64            `json:"global_discount_pct"`
	// Adjustment is the cart-wide discount in cents at hold time, kept so
	// the held list can show the amount without recomputing it.
	Adjustment int64 `json:"adjustment"`
	Total             int64              `json:"total"`
	CreatedAt         time.Time          `json:"created_at"`
}

// Snapshot deep-copies the ledger into a held order under the given ref
func (l *CartLedger) Snapshot(ref string, now time.Time) *HeldOrder {
	items := make([]LineItem, len(l.Items))
	copy(items, l.Items)

	var customerID *uuid.UUID
	if l.CustomerID != nil {
		id := *l.CustomerID
		customerID = &id
	}

	return &HeldOrder{
		Ref:               ref,
		Items:             items,
		CustomerID:        customerID,
		PaymentMethod:     l.PaymentMethod,
		SubTotal:          l.SubTotal,
		Tax:               l.Tax,
		TaxRate:           l.TaxRate,
		GlobalDiscountPct: l.GlobalDiscountPct,
		Adjustment:        l.GlobalDiscountAmount(),
		Total:             l.Total,
		CreatedAt:         now,
	}
}
