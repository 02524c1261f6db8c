package service

import (
	"context"
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

// PurchaseService handles stock intake from suppliers. A purchase is
// recorded as pending and turns into inventory batches when received.
type PurchaseService struct {
	purchaseRepo repository.PurchaseRepository
	productRepo  repository.ProductRepository
	supplierRepo repository.SupplierRepository
	productCache *cache.ProductCache
}

// NewPurchaseService creates a new purchase service
func NewPurchaseService(
	purchaseRepo repository.PurchaseRepository,
	productRepo repository.ProductRepository,
	supplierRepo repository.SupplierRepository,
	productCache *cache.ProductCache,
) *PurchaseService {
	return &PurchaseService{
		purchaseRepo: purchaseRepo,
		productRepo:  productRepo,
		supplierRepo: supplierRepo,
		productCache: productCache,
	}
}

// PurchaseItemInput represents one line of a purchase order
type PurchaseItemInput struct {
	ProductID    uuid.UUID
	BatchNo      string
	Quantity     int
	UnitCost     float64
	SellingPrice float64
	ExpiresAt    time.Time
}

// CreatePurchaseInput represents the create purchase input
type CreatePurchaseInput struct {
	StoreID    uuid.UUID
	UserID     uuid.UUID
	SupplierID uuid.UUID
	Date       time.Time
	Items      []PurchaseItemInput
}

// CreatePurchase records a pending purchase order
func (s *PurchaseService) CreatePurchase(ctx context.Context, input *CreatePurchaseInput) (*entity.Purchase, error) {
	if len(input.Items) == 0 {
		return nil, apperror.NewBadRequestError("Purchase must have at least one item")
	}

	supplier, err := s.supplierRepo.GetByID(ctx, input.SupplierID)
	if err != nil {
		return nil, err
	}
	if supplier == nil {
		return nil, apperror.NewNotFoundError("Supplier")
	}

	productIDs := make([]uuid.UUID, len(input.Items))
	for i, item := range input.Items {
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

	var totalAmount int64
	items := make([]entity.PurchaseItem, 0, len(input.Items))
	for _, item := range input.Items {
		if _, exists := productMap[item.ProductID]; !exists {
			return nil, apperror.NewNotFoundError("Product")
		}
		if item.Quantity <= 0 {
			return nil, apperror.ErrInvalidQuantity
		}

		batchNo := item.BatchNo
		if batchNo == "" {
			batchNo = utils.GenerateBatchNo()
		}

		unitCostCents := int64(item.UnitCost * 100)
		lineTotal := unitCostCents * int64(item.Quantity)
		totalAmount += lineTotal

		items = append(items, entity.PurchaseItem{
			ProductID:    item.ProductID,
			BatchNo:      batchNo,
			Quantity:     item.Quantity,
			UnitCost:     unitCostCents,
			SellingPrice: int64(item.SellingPrice * 100),
			ExpiresAt:    item.ExpiresAt,
			Total:        lineTotal,
		})
	}

	date := input.Date
	if date.IsZero() {
		date = time.Now()
	}

	purchase := &entity.Purchase{
		StoreID:     input.StoreID,
		UserID:      input.UserID,
		SupplierID:  &input.SupplierID,
		PurchaseNo:  utils.GeneratePurchaseNo(),
		Date:        date,
		Status:      enum.PurchaseStatusPending,
		TotalAmount: totalAmount,
		Items:       items,
	}

	if err := s.purchaseRepo.Create(ctx, purchase); err != nil {
		return nil, err
	}
	return s.purchaseRepo.GetWithDetails(ctx, purchase.ID)
}

// GetPurchase retrieves a purchase with its items
func (s *PurchaseService) GetPurchase(ctx context.Context, id uuid.UUID) (*entity.Purchase, error) {
	purchase, err := s.purchaseRepo.GetWithDetails(ctx, id)
	if err != nil {
		return nil, err
	}
	if purchase == nil {
		return nil, apperror.NewNotFoundError("Purchase")
	}
	return purchase, nil
}

// ListPurchases lists purchases with filtering
func (s *PurchaseService) ListPurchases(ctx context.Context, storeID uuid.UUID, params *repository.PurchaseFilterParams) (*pagination.PaginatedResult[entity.Purchase], error) {
	purchases, total, err := s.purchaseRepo.List(ctx, storeID, params)
	if err != nil {
		return nil, err
	}

	pag := pagination.NewPagination(params.Pagination.Page, params.Pagination.PerPage, total)
	return pagination.NewPaginatedResult(purchases, pag), nil
}

// ReceivePurchase marks a pending purchase as received and converts each
// line into an inventory batch. Receiving is what actually raises stock.
func (s *PurchaseService) ReceivePurchase(ctx context.Context, id uuid.UUID) (*entity.Purchase, error) {
	purchase, err := s.purchaseRepo.GetWithDetails(ctx, id)
	if err != nil {
		return nil, err
	}
	if purchase == nil {
		return nil, apperror.NewNotFoundError("Purchase")
	}
	if purchase.Status == enum.PurchaseStatusReceived {
		return nil, apperror.NewBadRequestError("Purchase has already been received")
	}

	productIDs := make([]uuid.UUID, 0, len(purchase.Items))
	for _, item := range purchase.Items {
		batch := &entity.ProductBatch{
			ProductID:    item.ProductID,
			BatchNo:      item.BatchNo,
			Quantity:     item.Quantity,
			BuyingPrice:  item.UnitCost,
			SellingPrice: item.SellingPrice,
			ExpiresAt:    item.ExpiresAt,
		}
		if err := s.productRepo.CreateProductBatch(ctx, batch); err != nil {
			return nil, err
		}
		productIDs = append(productIDs, item.ProductID)
	}

	if err := s.purchaseRepo.UpdateStatus(ctx, id, enum.PurchaseStatusReceived); err != nil {
		return nil, err
	}

	s.productCache.Invalidate(ctx, productIDs...)
	return s.purchaseRepo.GetWithDetails(ctx, id)
}

// DeletePurchase removes a purchase order. Received purchases stay; their
// stock is already on the shelf.
func (s *PurchaseService) DeletePurchase(ctx context.Context, id uuid.UUID) error {
	purchase, err := s.purchaseRepo.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if purchase == nil {
		return apperror.NewNotFoundError("Purchase")
	}
	if purchase.Status == enum.PurchaseStatusReceived {
		return apperror.NewBadRequestError("Received purchases cannot be deleted")
	}
	return s.purchaseRepo.Delete(ctx, id)
}
