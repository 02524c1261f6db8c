package repository

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/pharmaline/pos-api/internal/domain/entity"
	"github.com/pharmaline/pos-api/internal/domain/enum"
	"github.com/pharmaline/pos-api/pkg/pagination"
)

// SaleRepository defines the interface for sale data operations
type SaleRepository interface {
	Create(ctx context.Context, sale *entity.Sale) error
	GetByID(ctx context.Context, id uuid.UUID) (*entity.Sale, error)
	GetByInvoiceNo(ctx context.Context, invoiceNo string) (*entity.Sale, error)
	// GetWithDetails loads a sale with its items, products and customer preloaded
	GetWithDetails(ctx context.Context, id uuid.UUID) (*entity.Sale, error)
	Update(ctx context.Context, sale *entity.Sale) error
	Delete(ctx context.Context, id uuid.UUID) error
	List(ctx context.Context, storeID uuid.UUID, params *SaleFilterParams) ([]entity.Sale, int64, error)
	ListWithCursor(ctx context.Context, storeID uuid.UUID, params *SaleCursorFilterParams) ([]entity.Sale, error)
	UpdateStatus(ctx context.Context, id uuid.UUID, status enum.SaleStatus) error
	// GetDueSales returns sales with an outstanding balance
	GetDueSales(ctx context.Context, storeID uuid.UUID, params *pagination.PaginationParams) ([]entity.Sale, int64, error)
}

// SaleFilterParams contains filtering parameters for sale queries
type SaleFilterParams struct {
	Pagination *pagination.PaginationParams
	Search     string
	Status     *enum.SaleStatus
	CustomerID *uuid.UUID
	UserID     *uuid.UUID
	StartDate  *time.Time
	EndDate    *time.Time
	SortBy     string
	SortOrder  string
}

// SaleCursorFilterParams contains cursor-based filtering for sale queries
type SaleCursorFilterParams struct {
	Cursor     *pagination.CursorParams
	Search     string
	Status     *enum.SaleStatus
	CustomerID *uuid.UUID
	StartDate  *time.Time
	EndDate    *time.Time
}

// SaleReturnRepository defines the interface for sale return data operations
type SaleReturnRepository interface {
	Create(ctx context.Context, ret *entity.SaleReturn) error
	GetByID(ctx context.Context, id uuid.UUID) (*entity.SaleReturn, error)
	GetBySaleID(ctx context.Context, saleID uuid.UUID) ([]entity.SaleReturn, error)
	List(ctx context.Context, storeID uuid.UUID, params *pagination.PaginationParams) ([]entity.SaleReturn, int64, error)
	// ReturnedQuantities returns already-returned quantity per sale item for the sale
	ReturnedQuantities(ctx context.Context, saleID uuid.UUID) (map[uuid.UUID]int, error)
}
