package service

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/pharmaline/pos-api/internal/domain/entity"
	"github.com/pharmaline/pos-api/internal/domain/enum"
	"github.com/pharmaline/pos-api/internal/domain/repository"
	"github.com/pharmaline/pos-api/internal/infrastructure/cache"
	"github.com/pharmaline/pos-api/pkg/apperror"
	"github.com/pharmaline/pos-api/pkg/pagination"
	"github.com/pharmaline/pos-api/pkg/utils"
)

// ReturnService handles refunds of sold items. Returned units go back to
// the batch they were dispensed from.
type ReturnService struct {
	returnRepo   repository.SaleReturnRepository
	saleRepo     repository.SaleRepository
	productRepo  repository.ProductRepository
	productCache *cache.ProductCache
}

// NewReturnService creates a new return service
func NewReturnService(
	returnRepo repository.SaleReturnRepository,
	saleRepo repository.SaleRepository,
	productRepo repository.ProductRepository,
	productCache *cache.ProductCache,
) *ReturnService {
	return &ReturnService{
		returnRepo:   returnRepo,
		saleRepo:     saleRepo,
		productRepo:  productRepo,
		productCache: productCache,
	}
}

// ReturnItemInput represents one line of a return request
type ReturnItemInput struct {
	SaleItemID uuid.UUID
	Quantity   int
}

// CreateReturnInput represents the create return input
type CreateReturnInput struct {
	StoreID uuid.UUID
	UserID  uuid.UUID
	SaleID  uuid.UUID
	Reason  *string
	Items   []ReturnItemInput
}

// CreateReturn validates the requested quantities against what was sold and
// not yet returned, restores stock, and records the refund. The refund per
// unit honors the line discount the customer actually paid.
func (s *ReturnService) CreateReturn(ctx context.Context, input *CreateReturnInput) (*entity.SaleReturn, error) {
	if len(input.Items) == 0 {
		return nil, apperror.NewBadRequestError("Return must have at least one item")
	}

	sale, err := s.saleRepo.GetWithDetails(ctx, input.SaleID)
	if err != nil {
		return nil, err
	}
	if sale == nil {
		return nil, apperror.NewNotFoundError("Sale")
	}
	if sale.Status == enum.SaleStatusCancel {
		return nil, apperror.NewBadRequestError("Cancelled sales cannot be returned")
	}

	saleItemMap := make(map[uuid.UUID]*entity.SaleItem, len(sale.Items))
	for i := range sale.Items {
		saleItemMap[sale.Items[i].ID] = &sale.Items[i]
	}

	alreadyReturned, err := s.returnRepo.ReturnedQuantities(ctx, input.SaleID)
	if err != nil {
		return nil, err
	}

	var refundTotal int64
	returnItems := make([]entity.SaleReturnItem, 0, len(input.Items))
	stockIncrements := make(map[uuid.UUID]int)
	productIDs := make([]uuid.UUID, 0, len(input.Items))

	for _, item := range input.Items {
		saleItem, exists := saleItemMap[item.SaleItemID]
		if !exists {
			return nil, apperror.NewNotFoundError("Sale item")
		}
		if item.Quantity <= 0 {
			return nil, apperror.ErrInvalidQuantity
		}

		returnable := saleItem.Quantity - alreadyReturned[item.SaleItemID]
		if item.Quantity > returnable {
			return nil, apperror.NewBadRequestError(
				fmt.Sprintf("Only %d units of this item can still be returned", returnable))
		}

		// Refund at the effective per-unit price after the line discount
		refund := decimal.NewFromInt(saleItem.UnitPrice).
			Mul(decimal.NewFromInt(int64(item.Quantity)))
		if saleItem.DiscountPct != 0 {
			factor := decimal.NewFromInt(1).
				Sub(decimal.NewFromFloat(saleItem.DiscountPct).Div(decimal.NewFromInt(100)))
			refund = refund.Mul(factor)
		}
		refundCents := refund.Round(0).IntPart()
		refundTotal += refundCents

		returnItems = append(returnItems, entity.SaleReturnItem{
			SaleItemID:   item.SaleItemID,
			ProductID:    saleItem.ProductID,
			BatchID:      saleItem.BatchID,
			Quantity:     item.Quantity,
			RefundAmount: refundCents,
		})
		stockIncrements[saleItem.BatchID] += item.Quantity
		productIDs = append(productIDs, saleItem.ProductID)
	}

	if err := s.productRepo.AtomicIncrementBatchStock(ctx, stockIncrements); err != nil {
		return nil, err
	}

	ret := &entity.SaleReturn{
		StoreID:     input.StoreID,
		UserID:      input.UserID,
		SaleID:      input.SaleID,
		ReturnNo:    utils.GenerateReturnNo(),
		Reason:      input.Reason,
		RefundTotal: refundTotal,
		Items:       returnItems,
	}

	if err := s.returnRepo.Create(ctx, ret); err != nil {
		return nil, err
	}

	s.productCache.Invalidate(ctx, productIDs...)
	return s.returnRepo.GetByID(ctx, ret.ID)
}

// GetReturn retrieves a return with its items
func (s *ReturnService) GetReturn(ctx context.Context, id uuid.UUID) (*entity.SaleReturn, error) {
	ret, err := s.returnRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if ret == nil {
		return nil, apperror.NewNotFoundError("Return")
	}
	return ret, nil
}

// ListReturns lists returns for a store
func (s *ReturnService) ListReturns(ctx context.Context, storeID uuid.UUID, params *pagination.PaginationParams) (*pagination.PaginatedResult[entity.SaleReturn], error) {
	returns, total, err := s.returnRepo.List(ctx, storeID, params)
	if err != nil {
		return nil, err
	}

	pag := pagination.NewPagination(params.Page, params.PerPage, total)
	return pagination.NewPaginatedResult(returns, pag), nil
}

// ListReturnsForSale lists all returns recorded against one sale
func (s *ReturnService) ListReturnsForSale(ctx context.Context, saleID uuid.UUID) ([]entity.SaleReturn, error) {
	return s.returnRepo.GetBySaleID(ctx, saleID)
}
