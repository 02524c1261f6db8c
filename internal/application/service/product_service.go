package service

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/pharmaline/pos-api/internal/domain/entity"
	"github.com/pharmaline/pos-api/internal/domain/repository"
	"github.com/pharmaline/pos-api/internal/infrastructure/cache"
	"github.com/pharmaline/pos-api/pkg/apperror"
	"github.com/pharmaline/pos-api/pkg/pagination"
	"github.com/pharmaline/pos-api/pkg/utils"
)

// ProductService handles product catalog and batch operations
type ProductService struct {
	productRepo  repository.ProductRepository
	categoryRepo repository.CategoryRepository
	productCache *cache.ProductCache
}

// NewProductService creates a new product service
func NewProductService(
	productRepo repository.ProductRepository,
	categoryRepo repository.CategoryRepository,
	productCache *cache.ProductCache,
) *ProductService {
	return &ProductService{
		productRepo:  productRepo,
		categoryRepo: categoryRepo,
		productCache: productCache,
	}
}

// CreateProductInput represents the create product input
type CreateProductInput struct {
	StoreID       uuid.UUID
	UserID        uuid.UUID
	CategoryID    *uuid.UUID
	Name          string
	GenericName   string
	Code          string
	Strength      *string
	QuantityAlert int
	Notes         *string
}

// CreateProduct creates a new catalog entry. Stock arrives later through
// purchases or direct batch intake.
func (s *ProductService) CreateProduct(ctx context.Context, input *CreateProductInput) (*entity.Product, error) {
	if input.CategoryID != nil {
		category, err := s.categoryRepo.GetByID(ctx, *input.CategoryID)
		if err != nil {
			return nil, err
		}
		if category == nil {
			return nil, apperror.NewNotFoundError("Category")
		}
	}

	code := input.Code
	if code == "" {
		code = utils.GenerateProductCode()
	} else {
		existing, err := s.productRepo.GetByCode(ctx, code)
		if err != nil {
			return nil, err
		}
		if existing != nil {
			return nil, apperror.NewConflictError("Product code already exists")
		}
	}

	product := &entity.Product{
		StoreID:       input.StoreID,
		UserID:        input.UserID,
		CategoryID:    input.CategoryID,
		Name:          input.Name,
		GenericName:   input.GenericName,
		Slug:          utils.Slugify(input.Name),
		Code:          code,
		Strength:      input.Strength,
		QuantityAlert: input.QuantityAlert,
		Notes:         input.Notes,
	}

	if err := s.productRepo.Create(ctx, product); err != nil {
		return nil, err
	}
	return product, nil
}

// GetProduct retrieves a product with its batches
func (s *ProductService) GetProduct(ctx context.Context, id uuid.UUID) (*entity.Product, error) {
	product, err := s.productRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if product == nil {
		return nil, apperror.NewNotFoundError("Product")
	}
	return product, nil
}

// UpdateProductInput represents the update product input
type UpdateProductInput struct {
	CategoryID    *uuid.UUID
	Name          *string
	GenericName   *string
	Strength      *string
	QuantityAlert *int
	Notes         *string
}

// UpdateProduct updates catalog fields and invalidates the cache entry
func (s *ProductService) UpdateProduct(ctx context.Context, id uuid.UUID, input *UpdateProductInput) (*entity.Product, error) {
	product, err := s.productRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if product == nil {
		return nil, apperror.NewNotFoundError("Product")
	}

	if input.CategoryID != nil {
		category, err := s.categoryRepo.GetByID(ctx, *input.CategoryID)
		if err != nil {
			return nil, err
		}
		if category == nil {
			return nil, apperror.NewNotFoundError("Category")
		}
		product.CategoryID = input.CategoryID
	}
	if input.Name != nil {
		product.Name = *input.Name
		product.Slug = utils.Slugify(*input.Name)
	}
	if input.GenericName != nil {
		product.GenericName = *input.GenericName
	}
	if input.Strength != nil {
		product.Strength = input.Strength
	}
	if input.QuantityAlert != nil {
		product.QuantityAlert = *input.QuantityAlert
	}
	if input.Notes != nil {
		product.Notes = input.Notes
	}

	if err := s.productRepo.Update(ctx, product); err != nil {
		return nil, err
	}

	s.productCache.Invalidate(ctx, id)
	return product, nil
}

// DeleteProduct removes a product from the catalog
func (s *ProductService) DeleteProduct(ctx context.Context, id uuid.UUID) error {
	product, err := s.productRepo.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if product == nil {
		return apperror.NewNotFoundError("Product")
	}

	if err := s.productRepo.Delete(ctx, id); err != nil {
		return err
	}

	s.productCache.Invalidate(ctx, id)
	return nil
}

// ListProducts lists products with filtering
func (s *ProductService) ListProducts(ctx context.Context, storeID uuid.UUID, params *repository.ProductFilterParams) (*pagination.PaginatedResult[entity.Product], error) {
	products, total, err := s.productRepo.List(ctx, storeID, params)
	if err != nil {
		return nil, err
	}

	pag := pagination.NewPagination(params.Pagination.Page, params.Pagination.PerPage, total)
	return pagination.NewPaginatedResult(products, pag), nil
}

// ListProductsWithCursor lists products with cursor-based pagination
func (s *ProductService) ListProductsWithCursor(ctx context.Context, storeID uuid.UUID, params *repository.ProductCursorFilterParams) (*pagination.CursorPaginatedResult[entity.Product], error) {
	products, err := s.productRepo.ListWithCursor(ctx, storeID, params)
	if err != nil {
		return nil, err
	}

	hasPrev := params.Cursor.Cursor != ""

	cursorPag, items := pagination.NewCursorPagination(products, params.Cursor.Limit,
		func(p entity.Product) string { return p.ID.String() },
		func(p entity.Product) time.Time { return p.CreatedAt },
	)
	cursorPag.HasPrev = hasPrev

	return pagination.NewCursorPaginatedResult(items, cursorPag), nil
}

// GetLowStockProducts returns products at or below their alert threshold
func (s *ProductService) GetLowStockProducts(ctx context.Context, storeID uuid.UUID) ([]entity.Product, error) {
	return s.productRepo.GetLowStock(ctx, storeID)
}

// AddBatchInput represents a direct stock intake for one batch
type AddBatchInput struct {
	ProductID    uuid.UUID
	BatchNo      string
	Quantity     int
	BuyingPrice  float64
	SellingPrice float64
	ExpiresAt    time.Time
}

// AddBatch adds an inventory lot directly, outside the purchase flow
func (s *ProductService) AddBatch(ctx context.Context, input *AddBatchInput) (*entity.ProductBatch, error) {
	if input.Quantity <= 0 {
		return nil, apperror.ErrInvalidQuantity
	}

	product, err := s.productRepo.GetByID(ctx, input.ProductID)
	if err != nil {
		return nil, err
	}
	if product == nil {
		return nil, apperror.NewNotFoundError("Product")
	}

	batchNo := input.BatchNo
	if batchNo == "" {
		batchNo = utils.GenerateBatchNo()
	}

	batch := &entity.ProductBatch{
		ProductID:    input.ProductID,
		BatchNo:      batchNo,
		Quantity:     input.Quantity,
		BuyingPrice:  int64(input.BuyingPrice * 100),
		SellingPrice: int64(input.SellingPrice * 100),
		ExpiresAt:    input.ExpiresAt,
	}

	if err := s.productRepo.CreateProductBatch(ctx, batch); err != nil {
		return nil, err
	}

	s.productCache.Invalidate(ctx, input.ProductID)
	return batch, nil
}

// GetExpiringBatches returns in-stock batches expiring within the window
func (s *ProductService) GetExpiringBatches(ctx context.Context, storeID uuid.UUID, withinDays int) ([]entity.ProductBatch, error) {
	cutoff := time.Now().AddDate(0, 0, withinDays)
	return s.productRepo.GetExpiringBatches(ctx, storeID, cutoff)
}
