package request

import "github.com/google/uuid"

// AddCartItemRequest adds a product to the active cart. The batch is chosen
// automatically by earliest expiry.
type AddCartItemRequest struct {
	ProductID uuid.UUID `json:"product_id" binding:"required"`
	Quantity  int       `json:"quantity" binding:"required,min=1"`
}

// UpdateCartItemRequest changes the quantity of a specific cart line
type UpdateCartItemRequest struct {
	ProductID uuid.UUID `json:"product_id" binding:"required"`
	BatchID   uuid.UUID `json:"batch_id" binding:"required"`
	Quantity  int       `json:"quantity" binding:"required,min=1"`
}

// RemoveCartItemRequest removes a single cart line
type RemoveCartItemRequest struct {
	ProductID uuid.UUID `json:"product_id" binding:"required"`
	BatchID   uuid.UUID `json:"batch_id" binding:"required"`
}

// LineDiscountRequest applies a percent discount to a cart line
type LineDiscountRequest struct {
	ProductID uuid.UUID `json:"product_id" binding:"required"`
	BatchID   uuid.UUID `json:"batch_id" binding:"required"`
	Percent   float64   `json:"percent" binding:"min=0,max=100"`
}

// GlobalDiscountRequest applies a percent discount to the whole cart
type GlobalDiscountRequest struct {
	Percent float64 `json:"percent" binding:"min=0,max=100"`
}

// SetCustomerRequest attaches a customer to the cart. A null customer ID
// reverts to the walk-in customer.
type SetCustomerRequest struct {
	CustomerID *uuid.UUID `json:"customer_id"`
}

// SetPaymentMethodRequest selects the payment method for the cart
type SetPaymentMethodRequest struct {
	Method string `json:"method" binding:"required,oneof=cash card mobile_banking"`
}
