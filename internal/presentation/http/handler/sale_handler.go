package handler

import (
	"strconv"
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

// SaleHandler handles sale history HTTP requests
type SaleHandler struct {
	saleService *service.SaleService
}

// NewSaleHandler creates a new sale handler
func NewSaleHandler(saleService *service.SaleService) *SaleHandler {
	return &SaleHandler{saleService: saleService}
}

func parseSaleStatus(s string) *enum.SaleStatus {
	var status enum.SaleStatus
	switch s {
	case "pending", "Pending":
		status = enum.SaleStatusPending
	case "complete", "Complete":
		status = enum.SaleStatusComplete
	case "cancel", "Cancel":
		status = enum.SaleStatusCancel
	default:
		return nil
	}
	return &status
}

func parseDate(s string) *time.Time {
	if s == "" {
		return nil
	}
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		return nil
	}
	return &t
}

// List handles listing sales (supports both page-based and cursor-based pagination)
func (h *SaleHandler) List(c *gin.Context) {
	var filter request.SaleFilterRequest
	if err := c.ShouldBindQuery(&filter); err != nil {
		response.BadRequest(c, "Invalid query parameters")
		return
	}

	if cursor := c.Query("cursor"); cursor != "" || c.Query("limit") != "" {
		h.listWithCursor(c, &filter)
		return
	}

	params := &repository.SaleFilterParams{
		Pagination: &pagination.PaginationParams{
			Page:    filter.Page,
			PerPage: filter.PerPage,
		},
		Search:    filter.Search,
		Status:    parseSaleStatus(filter.Status),
		StartDate: parseDate(filter.StartDate),
		EndDate:   parseDate(filter.EndDate),
		SortBy:    filter.SortBy,
		SortOrder: filter.SortOrder,
	}

	if filter.CustomerID != "" {
		custID, err := uuid.Parse(filter.CustomerID)
		if err == nil {
			params.CustomerID = &custID
		}
	}

	result, err := h.saleService.ListSales(c.Request.Context(), GetStoreID(c), params)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.SuccessWithPagination(c, 200, "Sales retrieved successfully", result)
}

func (h *SaleHandler) listWithCursor(c *gin.Context, filter *request.SaleFilterRequest) {
	limit := 15
	if filter.Limit > 0 {
		limit = filter.Limit
	}

	params := &repository.SaleCursorFilterParams{
		Cursor: &pagination.CursorParams{
			Cursor:    c.Query("cursor"),
			Direction: pagination.CursorDirection(c.DefaultQuery("direction", "next")),
			Limit:     limit,
		},
		Search:    filter.Search,
		Status:    parseSaleStatus(filter.Status),
		StartDate: parseDate(filter.StartDate),
		EndDate:   parseDate(filter.EndDate),
	}

	if filter.CustomerID != "" {
		custID, err := uuid.Parse(filter.CustomerID)
		if err == nil {
			params.CustomerID = &custID
		}
	}

	result, err := h.saleService.ListSalesWithCursor(c.Request.Context(), GetStoreID(c), params)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.SuccessWithCursor(c, 200, "Sales retrieved successfully", result)
}

// Get handles getting a single sale with its items
func (h *SaleHandler) Get(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "Invalid sale ID")
		return
	}

	sale, err := h.saleService.GetSale(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Sale retrieved successfully", sale)
}

// Cancel handles cancelling a sale and restoring its stock
func (h *SaleHandler) Cancel(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "Invalid sale ID")
		return
	}

	if err := h.saleService.CancelSale(c.Request.Context(), id); err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Sale cancelled successfully", nil)
}

// GetDue handles listing sales with an outstanding balance
func (h *SaleHandler) GetDue(c *gin.Context) {
	params := &pagination.PaginationParams{Page: 1, PerPage: 15}
	if v := c.Query("page"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			params.Page = n
		}
	}
	if v := c.Query("per_page"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			params.PerPage = n
		}
	}

	result, err := h.saleService.GetDueSales(c.Request.Context(), GetStoreID(c), params)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.SuccessWithPagination(c, 200, "Due sales retrieved successfully", result)
}

// PayDue handles recording a payment against an outstanding balance
func (h *SaleHandler) PayDue(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "Invalid sale ID")
		return
	}

	var req request.PayDueRequest
	if !bindJSON(c, &req) {
		return
	}

	if err := h.saleService.PayDue(c.Request.Context(), id, req.Amount); err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Payment recorded successfully", nil)
}

// ReturnHandler handles sale return HTTP requests
type ReturnHandler struct {
	returnService *service.ReturnService
}

// NewReturnHandler creates a new return handler
func NewReturnHandler(returnService *service.ReturnService) *ReturnHandler {
	return &ReturnHandler{returnService: returnService}
}

// Create handles creating a sale return
func (h *ReturnHandler) Create(c *gin.Context) {
	userID := GetUserID(c)
	if userID == nil {
		response.Unauthorized(c, "User not authenticated")
		return
	}

	var req request.CreateReturnRequest
	if !bindJSON(c, &req) {
		return
	}

	items := make([]service.ReturnItemInput, 0, len(req.Items))
	for _, item := range req.Items {
		items = append(items, service.ReturnItemInput{
			SaleItemID: item.SaleItemID,
			Quantity:   item.Quantity,
		})
	}

	ret, err := h.returnService.CreateReturn(c.Request.Context(), &service.CreateReturnInput{
		StoreID: GetStoreID(c),
		UserID:  *userID,
		SaleID:  req.SaleID,
		Reason:  req.Reason,
		Items:   items,
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Created(c, "Return processed successfully", ret)
}

// Get handles getting a single return
func (h *ReturnHandler) Get(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "Invalid return ID")
		return
	}

	ret, err := h.returnService.GetReturn(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Return retrieved successfully", ret)
}

// List handles listing returns
func (h *ReturnHandler) List(c *gin.Context) {
	var params pagination.PaginationParams
	if err := c.ShouldBindQuery(&params); err != nil {
		response.BadRequest(c, "Invalid query parameters")
		return
	}

	result, err := h.returnService.ListReturns(c.Request.Context(), GetStoreID(c), &params)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.SuccessWithPagination(c, 200, "Returns retrieved successfully", result)
}

// ListForSale handles listing returns for a specific sale
func (h *ReturnHandler) ListForSale(c *gin.Context) {
	saleID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "Invalid sale ID")
		return
	}

	returns, err := h.returnService.ListReturnsForSale(c.Request.Context(), saleID)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Returns retrieved successfully", returns)
}
