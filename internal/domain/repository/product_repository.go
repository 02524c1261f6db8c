package repository

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/pharmaline/pos-api/internal/domain/entity"
	"github.com/pharmaline/pos-api/pkg/pagination"
)

// ProductRepository defines the interface for product data operations
type ProductRepository interface {
	Create(ctx context.Context, product *entity.Product) error
	GetByID(ctx context.Context, id uuid.UUID) (*entity.Product, error)
	// GetByIDs retrieves multiple products by their IDs in a single query (prevents N+1)
	GetByIDs(ctx context.Context, ids []uuid.UUID) ([]entity.Product, error)
	GetBySlug(ctx context.Context, slug string) (*entity.Product, error)
	GetByCode(ctx context.Context, code string) (*entity.Product, error)
	Update(ctx context.Context, product *entity.Product) error
	Delete(ctx context.Context, id uuid.UUID) error
	List(ctx context.Context, storeID uuid.UUID, params *ProductFilterParams) ([]entity.Product, int64, error)
	ListWithCursor(ctx context.Context, storeID uuid.UUID, params *ProductCursorFilterParams) ([]entity.Product, error)
	GetLowStock(ctx context.Context, storeID uuid.UUID) ([]entity.Product, error)

	// Batch operations. Stock lives on batches; the product-level quantity
	// is a denormalized sum kept in step by the same transaction.

	CreateProductBatch(ctx context.Context, batch *entity.ProductBatch) error
	GetBatchByID(ctx context.Context, id uuid.UUID) (*entity.ProductBatch, error)
	UpdateProductBatch(ctx context.Context, batch *entity.ProductBatch) error
	DeleteProductBatch(ctx context.Context, id uuid.UUID) error
	// GetExpiringBatches returns in-stock batches expiring on or before the cutoff
	GetExpiringBatches(ctx context.Context, storeID uuid.UUID, cutoff time.Time) ([]entity.ProductBatch, error)
	// AtomicDecrementBatchStock atomically decrements stock for multiple batches,
	// only where sufficient. Returns the batch IDs that failed (insufficient
	// stock); if any fail the entire transaction is rolled back. Product-level
	// quantities are adjusted in the same transaction.
	AtomicDecrementBatchStock(ctx context.Context, decrements map[uuid.UUID]int) (failedIDs []uuid.UUID, err error)
	// AtomicIncrementBatchStock atomically increments stock for multiple batches
	// (for cancellations and returns).
	AtomicIncrementBatchStock(ctx context.Context, increments map[uuid.UUID]int) error
}

// ProductFilterParams contains filtering parameters for product queries
type ProductFilterParams struct {
	Pagination *pagination.PaginationParams
	Search     string
	CategoryID *uuid.UUID
	LowStock   bool
	SortBy     string
	SortOrder  string
}

// ProductCursorFilterParams contains cursor-based filtering parameters for product queries
type ProductCursorFilterParams struct {
	Cursor     *pagination.CursorParams
	Search     string
	CategoryID *uuid.UUID
	LowStock   bool
}

// CategoryRepository defines the interface for category data operations
type CategoryRepository interface {
	Create(ctx context.Context, category *entity.Category) error
	GetByID(ctx context.Context, id uuid.UUID) (*entity.Category, error)
	GetBySlug(ctx context.Context, slug string) (*entity.Category, error)
	Update(ctx context.Context, category *entity.Category) error
	Delete(ctx context.Context, id uuid.UUID) error
	List(ctx context.Context, storeID uuid.UUID, params *pagination.PaginationParams, search string) ([]entity.Category, int64, error)
}
