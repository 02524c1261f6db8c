package handler

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/pharmaline/pos-api/internal/application/service"
	"github.com/pharmaline/pos-api/internal/domain/enum"
	"github.com/pharmaline/pos-api/internal/domain/repository"
	"github.com/pharmaline/pos-api/internal/presentation/http/dto/request"
	"github.com/pharmaline/pos-api/internal/presentation/http/dto/response"
	"github.com/pharmaline/pos-api/pkg/pagination"
)

// PurchaseHandler handles purchase order HTTP requests
type PurchaseHandler struct {
	purchaseService *service.PurchaseService
}

// NewPurchaseHandler creates a new purchase handler
func NewPurchaseHandler(purchaseService *service.PurchaseService) *PurchaseHandler {
	return &PurchaseHandler{purchaseService: purchaseService}
}

// List handles listing purchases
func (h *PurchaseHandler) List(c *gin.Context) {
	var filter request.PurchaseFilterRequest
	if err := c.ShouldBindQuery(&filter); err != nil {
		response.BadRequest(c, "Invalid query parameters")
		return
	}

	params := &repository.PurchaseFilterParams{
		Pagination: &pagination.PaginationParams{
			Page:    filter.Page,
			PerPage: filter.PerPage,
		},
		Search: filter.Search,
	}

	switch filter.Status {
	case "pending", "Pending":
		status := enum.PurchaseStatusPending
		params.Status = &status
	case "received", "Received":
		status := enum.PurchaseStatusReceived
		params.Status = &status
	}

	if filter.SupplierID != "" {
		supID, err := uuid.Parse(filter.SupplierID)
		if err == nil {
			params.SupplierID = &supID
		}
	}

	result, err := h.purchaseService.ListPurchases(c.Request.Context(), GetStoreID(c), params)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.SuccessWithPagination(c, 200, "Purchases retrieved successfully", result)
}

// Create handles creating a purchase order
func (h *PurchaseHandler) Create(c *gin.Context) {
	userID := GetUserID(c)
	if userID == nil {
		response.Unauthorized(c, "User not authenticated")
		return
	}

	var req request.CreatePurchaseRequest
	if !bindJSON(c, &req) {
		return
	}

	items := make([]service.PurchaseItemInput, 0, len(req.Items))
	for _, item := range req.Items {
		items = append(items, service.PurchaseItemInput{
			ProductID:    item.ProductID,
			BatchNo:      item.BatchNo,
			Quantity:     item.Quantity,
			UnitCost:     item.UnitCost,
			SellingPrice: item.SellingPrice,
			ExpiresAt:    item.ExpiresAt,
		})
	}

	date := time.Now()
	if req.Date != nil {
		date = *req.Date
	}

	purchase, err := h.purchaseService.CreatePurchase(c.Request.Context(), &service.CreatePurchaseInput{
		StoreID:    GetStoreID(c),
		UserID:     *userID,
		SupplierID: req.SupplierID,
		Date:       date,
		Items:      items,
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Created(c, "Purchase created successfully", purchase)
}

// Get handles getting a single purchase
func (h *PurchaseHandler) Get(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "Invalid purchase ID")
		return
	}

	purchase, err := h.purchaseService.GetPurchase(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Purchase retrieved successfully", purchase)
}

// Receive handles marking a purchase as received, creating inventory batches
func (h *PurchaseHandler) Receive(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "Invalid purchase ID")
		return
	}

	purchase, err := h.purchaseService.ReceivePurchase(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Purchase received successfully", purchase)
}

// Delete handles deleting a pending purchase
func (h *PurchaseHandler) Delete(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "Invalid purchase ID")
		return
	}

	if err := h.purchaseService.DeletePurchase(c.Request.Context(), id); err != nil {
		response.Error(c, err)
		return
	}

	response.NoContent(c)
}
