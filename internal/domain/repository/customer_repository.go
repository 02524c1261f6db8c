package repository

import (
	"context"

	"github.com/google/uuid"
	"github.com/pharmaline/pos-api/internal/domain/entity"
	"github.com/pharmaline/pos-api/pkg/pagination"
)

// CustomerRepository defines the interface for customer data operations
type CustomerRepository interface {
	Create(ctx context.Context, customer *entity.Customer) error
	GetByID(ctx context.Context, id uuid.UUID) (*entity.Customer, error)
	GetByEmail(ctx context.Context, email string) (*entity.Customer, error)
	// GetWalkIn returns the store's built-in walk-in customer record
	GetWalkIn(ctx context.Context, storeID uuid.UUID) (*entity.Customer, error)
	Update(ctx context.Context, customer *entity.Customer) error
	Delete(ctx context.Context, id uuid.UUID) error
	List(ctx context.Context, storeID uuid.UUID, params *pagination.PaginationParams, search string) ([]entity.Customer, int64, error)
	ListWithCursor(ctx context.Context, storeID uuid.UUID, params *pagination.CursorParams, search string) ([]entity.Customer, error)
}

// SupplierRepository defines the interface for supplier data operations
type SupplierRepository interface {
	Create(ctx context.Context, supplier *entity.Supplier) error
	GetByID(ctx context.Context, id uuid.UUID) (*entity.Supplier, error)
	GetByEmail(ctx context.Context, email string) (*entity.Supplier, error)
	Update(ctx context.Context, supplier *entity.Supplier) error
	Delete(ctx context.Context, id uuid.UUID) error
	List(ctx context.Context, storeID uuid.UUID, params *pagination.PaginationParams, search string) ([]entity.Supplier, int64, error)
}
