package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/pharmaline/pos-api/internal/application/service"
	"github.com/pharmaline/pos-api/internal/domain/enum"
	"github.com/pharmaline/pos-api/internal/presentation/http/dto/request"
	"github.com/pharmaline/pos-api/internal/presentation/http/dto/response"
)

// POSHandler handles the active cart, hold/recall and checkout. Each
// authenticated cashier gets their own till, keyed by user ID.
type POSHandler struct {
	cartService     *service.CartService
	holdService     *service.HoldService
	checkoutService *service.CheckoutService
}

// NewPOSHandler creates a new POS handler
func NewPOSHandler(
	cartService *service.CartService,
	holdService *service.HoldService,
	checkoutService *service.CheckoutService,
) *POSHandler {
	return &POSHandler{
		cartService:     cartService,
		holdService:     holdService,
		checkoutService: checkoutService,
	}
}

// GetCart returns the current cart for the cashier's till
func (h *POSHandler) GetCart(c *gin.Context) {
	userID := GetUserID(c)
	if userID == nil {
		response.Unauthorized(c, "User not authenticated")
		return
	}

	cart := h.cartService.GetCart(*userID)
	response.OK(c, "Cart retrieved successfully", cart)
}

// AddItem adds a product to the cart, drawing from the earliest-expiring batch
func (h *POSHandler) AddItem(c *gin.Context) {
	userID := GetUserID(c)
	if userID == nil {
		response.Unauthorized(c, "User not authenticated")
		return
	}

	var req request.AddCartItemRequest
	if !bindJSON(c, &req) {
		return
	}

	cart, err := h.cartService.AddItem(c.Request.Context(), *userID, req.ProductID, req.Quantity)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Item added to cart", cart)
}

// UpdateItem changes the quantity on a cart line
func (h *POSHandler) UpdateItem(c *gin.Context) {
	userID := GetUserID(c)
	if userID == nil {
		response.Unauthorized(c, "User not authenticated")
		return
	}

	var req request.UpdateCartItemRequest
	if !bindJSON(c, &req) {
		return
	}

	cart, err := h.cartService.UpdateQuantity(*userID, req.ProductID, req.BatchID, req.Quantity)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Cart updated", cart)
}

// RemoveItem removes a single cart line
func (h *POSHandler) RemoveItem(c *gin.Context) {
	userID := GetUserID(c)
	if userID == nil {
		response.Unauthorized(c, "User not authenticated")
		return
	}

	var req request.RemoveCartItemRequest
	if !bindJSON(c, &req) {
		return
	}

	cart := h.cartService.RemoveItem(*userID, req.ProductID, req.BatchID)
	response.OK(c, "Item removed from cart", cart)
}

// RemoveProduct removes all cart lines for a product, across batches
func (h *POSHandler) RemoveProduct(c *gin.Context) {
	userID := GetUserID(c)
	if userID == nil {
		response.Unauthorized(c, "User not authenticated")
		return
	}

	productID, err := uuid.Parse(c.Param("product_id"))
	if err != nil {
		response.BadRequest(c, "Invalid product ID")
		return
	}

	cart := h.cartService.RemoveProduct(*userID, productID)
	response.OK(c, "Product removed from cart", cart)
}

// SetLineDiscount applies a percent discount to a single cart line
func (h *POSHandler) SetLineDiscount(c *gin.Context) {
	userID := GetUserID(c)
	if userID == nil {
		response.Unauthorized(c, "User not authenticated")
		return
	}

	var req request.LineDiscountRequest
	if !bindJSON(c, &req) {
		return
	}

	cart, err := h.cartService.SetLineDiscount(*userID, req.ProductID, req.BatchID, req.Percent)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Line discount applied", cart)
}

// SetGlobalDiscount applies a percent discount to the whole cart
func (h *POSHandler) SetGlobalDiscount(c *gin.Context) {
	userID := GetUserID(c)
	if userID == nil {
		response.Unauthorized(c, "User not authenticated")
		return
	}

	var req request.GlobalDiscountRequest
	if !bindJSON(c, &req) {
		return
	}

	cart := h.cartService.SetGlobalDiscount(*userID, req.Percent)
	response.OK(c, "Discount applied", cart)
}

// SetCustomer attaches a customer to the cart
func (h *POSHandler) SetCustomer(c *gin.Context) {
	userID := GetUserID(c)
	if userID == nil {
		response.Unauthorized(c, "User not authenticated")
		return
	}

	var req request.SetCustomerRequest
	if !bindJSON(c, &req) {
		return
	}

	cart, err := h.cartService.SetCustomer(c.Request.Context(), *userID, req.CustomerID)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Customer set", cart)
}

// SetPaymentMethod selects the payment method for the cart
func (h *POSHandler) SetPaymentMethod(c *gin.Context) {
	userID := GetUserID(c)
	if userID == nil {
		response.Unauthorized(c, "User not authenticated")
		return
	}

	var req request.SetPaymentMethodRequest
	if !bindJSON(c, &req) {
		return
	}

	cart := h.cartService.SetPaymentMethod(*userID, enum.ParsePaymentMethod(req.Method))
	response.OK(c, "Payment method set", cart)
}

// ClearCart empties the cart
func (h *POSHandler) ClearCart(c *gin.Context) {
	userID := GetUserID(c)
	if userID == nil {
		response.Unauthorized(c, "User not authenticated")
		return
	}

	cart := h.cartService.ClearCart(*userID)
	response.OK(c, "Cart cleared", cart)
}

// HoldCart parks the current cart under a short reference code
func (h *POSHandler) HoldCart(c *gin.Context) {
	userID := GetUserID(c)
	if userID == nil {
		response.Unauthorized(c, "User not authenticated")
		return
	}

	held, err := h.holdService.HoldCart(c.Request.Context(), GetStoreID(c), *userID)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Cart held", held)
}

// ListHeldOrders lists the store's held orders, newest first
func (h *POSHandler) ListHeldOrders(c *gin.Context) {
	userID := GetUserID(c)
	if userID == nil {
		response.Unauthorized(c, "User not authenticated")
		return
	}

	held := h.holdService.ListHeldOrders(c.Request.Context(), GetStoreID(c))
	response.OK(c, "Held orders retrieved successfully", held)
}

// RecallCart restores a held order onto the cashier's till
func (h *POSHandler) RecallCart(c *gin.Context) {
	userID := GetUserID(c)
	if userID == nil {
		response.Unauthorized(c, "User not authenticated")
		return
	}

	ref := c.Param("ref")
	if ref == "" {
		response.BadRequest(c, "Hold reference is required")
		return
	}

	cart, err := h.holdService.RecallCart(c.Request.Context(), GetStoreID(c), *userID, ref)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Cart recalled", cart)
}

// DeleteHeldOrder discards a held order without recalling it
func (h *POSHandler) DeleteHeldOrder(c *gin.Context) {
	userID := GetUserID(c)
	if userID == nil {
		response.Unauthorized(c, "User not authenticated")
		return
	}

	ref := c.Param("ref")
	if ref == "" {
		response.BadRequest(c, "Hold reference is required")
		return
	}

	if err := h.holdService.DeleteHeldOrder(c.Request.Context(), GetStoreID(c), ref); err != nil {
		response.Error(c, err)
		return
	}

	response.NoContent(c)
}

// Checkout submits the cart as a sale. A till can only have one checkout in
// flight; the cart is cleared on success and preserved on failure.
func (h *POSHandler) Checkout(c *gin.Context) {
	userID := GetUserID(c)
	if userID == nil {
		response.Unauthorized(c, "User not authenticated")
		return
	}

	sale, err := h.checkoutService.Checkout(c.Request.Context(), GetStoreID(c), *userID)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Created(c, "Sale completed successfully", sale)
}
