package repository

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/pharmaline/pos-api/internal/domain/entity"
	"github.com/pharmaline/pos-api/internal/domain/enum"
	domainRepo "github.com/pharmaline/pos-api/internal/domain/repository"
	"github.com/pharmaline/pos-api/pkg/pagination"
)

type saleRepository struct {
	db *gorm.DB
}

// NewSaleRepository creates a new sale repository
func NewSaleRepository(db *gorm.DB) domainRepo.SaleRepository {
	return &saleRepository{db: db}
}

func (r *saleRepository) Create(ctx context.Context, sale *entity.Sale) error {
	return r.db.WithContext(ctx).Create(sale).Error
}

func (r *saleRepository) GetByID(ctx context.Context, id uuid.UUID) (*entity.Sale, error) {
	var sale entity.Sale
	err := r.db.WithContext(ctx).First(&sale, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	return &sale, err
}

func (r *saleRepository) GetByInvoiceNo(ctx context.Context, invoiceNo string) (*entity.Sale, error) {
	var sale entity.Sale
	err := r.db.WithContext(ctx).First(&sale, "invoice_no = ?", invoiceNo).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	return &sale, err
}

func (r *saleRepository) GetWithDetails(ctx context.Context, id uuid.UUID) (*entity.Sale, error) {
	var sale entity.Sale
	err := r.db.WithContext(ctx).
		Preload("Items").
		Preload("Items.Product").
		Preload("Customer").
		Preload("User").
		First(&sale, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	return &sale, err
}

func (r *saleRepository) Update(ctx context.Context, sale *entity.Sale) error {
	return r.db.WithContext(ctx).Save(sale).Error
}

func (r *saleRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Delete(&entity.Sale{}, "id = ?", id).Error
}

func (r *saleRepository) List(ctx context.Context, storeID uuid.UUID, params *domainRepo.SaleFilterParams) ([]entity.Sale, int64, error) {
	var sales []entity.Sale
	var total int64

	query := r.applyFilters(r.db.WithContext(ctx).Model(&entity.Sale{}).
		Where("store_id = ?", storeID), params)

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	sortBy := "created_at"
	sortOrder := "DESC"
	if params.SortBy != "" {
		sortBy = params.SortBy
	}
	if params.SortOrder == "ASC" || params.SortOrder == "asc" {
		sortOrder = "ASC"
	}

	params.Pagination.Validate()
	err := query.Offset(params.Pagination.Offset()).Limit(params.Pagination.PerPage).
		Preload("Customer").
		Order(sortBy + " " + sortOrder).
		Find(&sales).Error

	return sales, total, err
}

func (r *saleRepository) applyFilters(query *gorm.DB, params *domainRepo.SaleFilterParams) *gorm.DB {
	if params.Search != "" {
		query = query.Where("invoice_no ILIKE ?", "%"+params.Search+"%")
	}
	if params.Status != nil {
		query = query.Where("status = ?", *params.Status)
	}
	if params.CustomerID != nil {
		query = query.Where("customer_id = ?", *params.CustomerID)
	}
	if params.UserID != nil {
		query = query.Where("user_id = ?", *params.UserID)
	}
	if params.StartDate != nil {
		query = query.Where("sale_date >= ?", *params.StartDate)
	}
	if params.EndDate != nil {
		query = query.Where("sale_date <= ?", *params.EndDate)
	}
	return query
}

func (r *saleRepository) ListWithCursor(ctx context.Context, storeID uuid.UUID, params *domainRepo.SaleCursorFilterParams) ([]entity.Sale, error) {
	var sales []entity.Sale

	params.Cursor.Validate()
	query := r.db.WithContext(ctx).Model(&entity.Sale{}).
		Where("store_id = ?", storeID)

	if params.Search != "" {
		query = query.Where("invoice_no ILIKE ?", "%"+params.Search+"%")
	}
	if params.Status != nil {
		query = query.Where("status = ?", *params.Status)
	}
	if params.CustomerID != nil {
		query = query.Where("customer_id = ?", *params.CustomerID)
	}
	if params.StartDate != nil {
		query = query.Where("sale_date >= ?", *params.StartDate)
	}
	if params.EndDate != nil {
		query = query.Where("sale_date <= ?", *params.EndDate)
	}

	if params.Cursor.Cursor != "" {
		cursor, err := pagination.DecodeCursor(params.Cursor.Cursor)
		if err != nil {
			return nil, err
		}
		if params.Cursor.Direction == pagination.CursorNext {
			query = query.Where("(created_at, id) > (?, ?)", cursor.CreatedAt, cursor.ID)
		} else {
			query = query.Where("(created_at, id) < (?, ?)", cursor.CreatedAt, cursor.ID)
		}
	}

	err := query.Limit(params.Cursor.Limit + 1).
		Preload("Customer").
		Order("created_at ASC, id ASC").
		Find(&sales).Error

	return sales, err
}

func (r *saleRepository) UpdateStatus(ctx context.Context, id uuid.UUID, status enum.SaleStatus) error {
	return r.db.WithContext(ctx).Model(&entity.Sale{}).
		Where("id = ?", id).
		Update("status", status).Error
}

func (r *saleRepository) GetDueSales(ctx context.Context, storeID uuid.UUID, params *pagination.PaginationParams) ([]entity.Sale, int64, error) {
	var sales []entity.Sale
	var total int64

	query := r.db.WithContext(ctx).Model(&entity.Sale{}).
		Where("store_id = ? AND due > 0 AND status <> ?", storeID, enum.SaleStatusCancel)

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	params.Validate()
	err := query.Offset(params.Offset()).Limit(params.PerPage).
		Preload("Customer").
		Order("created_at DESC").
		Find(&sales).Error

	return sales, total, err
}

type saleReturnRepository struct {
	db *gorm.DB
}

// NewSaleReturnRepository creates a new sale return repository
func NewSaleReturnRepository(db *gorm.DB) domainRepo.SaleReturnRepository {
	return &saleReturnRepository{db: db}
}

func (r *saleReturnRepository) Create(ctx context.Context, ret *entity.SaleReturn) error {
	return r.db.WithContext(ctx).Create(ret).Error
}

func (r *saleReturnRepository) GetByID(ctx context.Context, id uuid.UUID) (*entity.SaleReturn, error) {
	var ret entity.SaleReturn
	err := r.db.WithContext(ctx).
		Preload("Items").
		First(&ret, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	return &ret, err
}

func (r *saleReturnRepository) GetBySaleID(ctx context.Context, saleID uuid.UUID) ([]entity.SaleReturn, error) {
	var returns []entity.SaleReturn
	err := r.db.WithContext(ctx).
		Preload("Items").
		Where("sale_id = ?", saleID).
		Order("created_at DESC").
		Find(&returns).Error
	return returns, err
}

func (r *saleReturnRepository) List(ctx context.Context, storeID uuid.UUID, params *pagination.PaginationParams) ([]entity.SaleReturn, int64, error) {
	var returns []entity.SaleReturn
	var total int64

	query := r.db.WithContext(ctx).Model(&entity.SaleReturn{}).
		Where("store_id = ?", storeID)

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	params.Validate()
	err := query.Offset(params.Offset()).Limit(params.PerPage).
		Preload("Items").
		Order("created_at DESC").
		Find(&returns).Error

	return returns, total, err
}

// ReturnedQuantities sums already-returned units per sale item
func (r *saleReturnRepository) ReturnedQuantities(ctx context.Context, saleID uuid.UUID) (map[uuid.UUID]int, error) {
	type row struct {
		SaleItemID uuid.UUID
		Total      int
	}
	var rows []row
	err := r.db.WithContext(ctx).Model(&entity.SaleReturnItem{}).
		Select("sale_return_items.sale_item_id, SUM(sale_return_items.quantity) AS total").
		Joins("JOIN sale_returns ON sale_returns.id = sale_return_items.return_id").
		Where("sale_returns.sale_id = ?", saleID).
		Group("sale_return_items.sale_item_id").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}

	result := make(map[uuid.UUID]int, len(rows))
	for _, r := range rows {
		result[r.SaleItemID] = r.Total
	}
	return result, nil
}
