package service

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/pharmaline/pos-api/internal/domain/entity"
	"github.com/pharmaline/pos-api/internal/domain/enum"
	"github.com/pharmaline/pos-api/internal/domain/repository"
	"github.com/pharmaline/pos-api/internal/infrastructure/cache"
	"github.com/pharmaline/pos-api/pkg/apperror"
	"github.com/pharmaline/pos-api/pkg/pagination"
	"github.com/pharmaline/pos-api/pkg/utils"
)

// SaleService handles sale creation and history
type SaleService struct {
	saleRepo     repository.SaleRepository
	productRepo  repository.ProductRepository
	customerRepo repository.CustomerRepository
	productCache *cache.ProductCache
}

// NewSaleService creates a new sale service
func NewSaleService(
	saleRepo repository.SaleRepository,
	productRepo repository.ProductRepository,
	customerRepo repository.CustomerRepository,
	productCache *cache.ProductCache,
) *SaleService {
	return &SaleService{
		saleRepo:     saleRepo,
		productRepo:  productRepo,
		customerRepo: customerRepo,
		productCache: productCache,
	}
}

// CreateSale persists a checkout payload as a sale. Stock is decremented
// atomically per batch before the sale rows are written; if writing fails
// the decrements are rolled back.
func (s *SaleService) CreateSale(ctx context.Context, storeID, userID uuid.UUID, payload *entity.CheckoutPayload) (*entity.Sale, error) {
	if len(payload.Items) == 0 {
		return nil, apperror.ErrEmptyCart
	}

	// Validate customer if provided
	if payload.CustomerID != nil {
		customer, err := s.customerRepo.GetByID(ctx, *payload.CustomerID)
		if err != nil {
			return nil, err
		}
		if customer == nil {
			return nil, apperror.NewNotFoundError("Customer")
		}
	}

	// Batch fetch all products in one query (prevents N+1)
	productIDs := make([]uuid.UUID, len(payload.Items))
	for i, item := range payload.Items {
		productIDs[i] = item.ProductID
	}
	products, err := s.productRepo.GetByIDs(ctx, productIDs)
	if err != nil {
		return nil, err
	}
	productMap := make(map[uuid.UUID]*entity.Product, len(products))
	for i := range products {
		productMap[products[i].ID] = &products[i]
	}

	var totalItems int
	saleItems := make([]entity.SaleItem, 0, len(payload.Items))
	stockDecrements := make(map[uuid.UUID]int)

	for _, item := range payload.Items {
		product, exists := productMap[item.ProductID]
		if !exists {
			return nil, apperror.NewNotFoundError(fmt.Sprintf("Product %s", item.ProductID))
		}
		if product.BatchByID(item.BatchID) == nil {
			return nil, apperror.NewBadRequestError(
				fmt.Sprintf("Batch no longer exists for %s", product.Name))
		}

		totalItems += item.Quantity
		saleItems = append(saleItems, entity.SaleItem{
			ProductID:   item.ProductID,
			BatchID:     item.BatchID,
			Quantity:    item.Quantity,
			UnitPrice:   item.UnitPrice,
			DiscountPct: item.DiscountPct,
			Total:       item.SubTotal,
		})
		stockDecrements[item.BatchID] += item.Quantity
	}

	// Atomically decrement batch stock; race-condition safe
	failedIDs, err := s.productRepo.AtomicDecrementBatchStock(ctx, stockDecrements)
	if err != nil {
		return nil, err
	}
	if len(failedIDs) > 0 {
		var failedNames []string
		for _, batchID := range failedIDs {
			for _, item := range payload.Items {
				if item.BatchID == batchID {
					if product, exists := productMap[item.ProductID]; exists {
						failedNames = append(failedNames, product.Name)
					}
					break
				}
			}
		}
		return nil, apperror.NewBadRequestError(fmt.Sprintf("Insufficient stock for: %v", failedNames))
	}

	paymentStatus := payload.Payment.Status
	status := enum.SaleStatusPending
	pay := int64(0)
	due := payload.Total
	// Cash and card settle at the counter
	if payload.Payment.Method != enum.PaymentMethodMobileBanking {
		paymentStatus = enum.PaymentStatusPaid
		status = enum.SaleStatusComplete
		pay = payload.Total
		due = 0
	}

	sale := &entity.Sale{
		StoreID:       storeID,
		UserID:        userID,
		CustomerID:    payload.CustomerID,
		SaleDate:      time.Now(),
		Status:        status,
		TotalItems:    totalItems,
		SubTotal:      payload.SubTotal,
		Tax:           payload.Tax,
		DiscountPct:   payload.DiscountPct,
		Discount:      payload.Discount,
		Total:         payload.Total,
		InvoiceNo:     utils.GenerateInvoiceNo(),
		PaymentMethod: payload.Payment.Method,
		PaymentStatus: paymentStatus,
		Pay:           pay,
		Due:           due,
		Items:         saleItems,
	}

	if err := s.saleRepo.Create(ctx, sale); err != nil {
		// Stock was already decremented; restore it
		_ = s.productRepo.AtomicIncrementBatchStock(ctx, stockDecrements)
		return nil, err
	}

	s.productCache.Invalidate(ctx, productIDs...)

	return s.saleRepo.GetWithDetails(ctx, sale.ID)
}

// GetSale retrieves a sale with its items
func (s *SaleService) GetSale(ctx context.Context, id uuid.UUID) (*entity.Sale, error) {
	sale, err := s.saleRepo.GetWithDetails(ctx, id)
	if err != nil {
		return nil, err
	}
	if sale == nil {
		return nil, apperror.NewNotFoundError("Sale")
	}
	return sale, nil
}

// ListSales lists sales with filtering
func (s *SaleService) ListSales(ctx context.Context, storeID uuid.UUID, params *repository.SaleFilterParams) (*pagination.PaginatedResult[entity.Sale], error) {
	sales, total, err := s.saleRepo.List(ctx, storeID, params)
	if err != nil {
		return nil, err
	}

	pag := pagination.NewPagination(params.Pagination.Page, params.Pagination.PerPage, total)
	return pagination.NewPaginatedResult(sales, pag), nil
}

// ListSalesWithCursor lists sales with cursor-based pagination
func (s *SaleService) ListSalesWithCursor(ctx context.Context, storeID uuid.UUID, params *repository.SaleCursorFilterParams) (*pagination.CursorPaginatedResult[entity.Sale], error) {
	sales, err := s.saleRepo.ListWithCursor(ctx, storeID, params)
	if err != nil {
		return nil, err
	}

	hasPrev := params.Cursor.Cursor != ""

	cursorPag, items := pagination.NewCursorPagination(sales, params.Cursor.Limit,
		func(sale entity.Sale) string { return sale.ID.String() },
		func(sale entity.Sale) time.Time { return sale.CreatedAt },
	)
	cursorPag.HasPrev = hasPrev

	return pagination.NewCursorPaginatedResult(items, cursorPag), nil
}

// CancelSale cancels a sale and restores stock to its batches
func (s *SaleService) CancelSale(ctx context.Context, saleID uuid.UUID) error {
	sale, err := s.saleRepo.GetWithDetails(ctx, saleID)
	if err != nil {
		return err
	}
	if sale == nil {
		return apperror.NewNotFoundError("Sale")
	}
	if sale.Status == enum.SaleStatusCancel {
		return apperror.NewBadRequestError("Sale is already cancelled")
	}

	stockIncrements := make(map[uuid.UUID]int)
	productIDs := make([]uuid.UUID, 0, len(sale.Items))
	for _, item := range sale.Items {
		stockIncrements[item.BatchID] += item.Quantity
		productIDs = append(productIDs, item.ProductID)
	}

	if err := s.productRepo.AtomicIncrementBatchStock(ctx, stockIncrements); err != nil {
		return err
	}
	s.productCache.Invalidate(ctx, productIDs...)

	return s.saleRepo.UpdateStatus(ctx, saleID, enum.SaleStatusCancel)
}

// GetDueSales returns sales with outstanding balances
func (s *SaleService) GetDueSales(ctx context.Context, storeID uuid.UUID, params *pagination.PaginationParams) (*pagination.PaginatedResult[entity.Sale], error) {
	sales, total, err := s.saleRepo.GetDueSales(ctx, storeID, params)
	if err != nil {
		return nil, err
	}

	pag := pagination.NewPagination(params.Page, params.PerPage, total)
	return pagination.NewPaginatedResult(sales, pag), nil
}

// PayDue records a payment towards a sale's outstanding balance
func (s *SaleService) PayDue(ctx context.Context, saleID uuid.UUID, amount float64) error {
	sale, err := s.saleRepo.GetByID(ctx, saleID)
	if err != nil {
		return err
	}
	if sale == nil {
		return apperror.NewNotFoundError("Sale")
	}
	if amount <= 0 {
		return apperror.NewBadRequestError("Payment amount must be positive")
	}

	amountCents := int64(amount * 100)
	sale.Pay += amountCents
	sale.Due -= amountCents

	if sale.Due <= 0 {
		sale.Due = 0
		sale.Status = enum.SaleStatusComplete
		sale.PaymentStatus = enum.PaymentStatusPaid
	} else {
		sale.PaymentStatus = enum.PaymentStatusPartial
	}

	return s.saleRepo.Update(ctx, sale)
}
