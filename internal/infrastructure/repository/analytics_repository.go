package repository

import (
	"context"
	"database/sql"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	domainRepo "github.com/pharmaline/pos-api/internal/domain/repository"
)

type analyticsRepository struct {
	db *gorm.DB
}

// NewAnalyticsRepository creates a new analytics repository
func NewAnalyticsRepository(db *gorm.DB) domainRepo.AnalyticsRepository {
	return &analyticsRepository{db: db}
}

func (r *analyticsRepository) GetTodaySummary(ctx context.Context, storeID uuid.UUID) (*domainRepo.TodaySummaryResult, error) {
	now := time.Now()
	startOfDay := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())

	var result domainRepo.TodaySummaryResult
	err := r.db.WithContext(ctx).Raw(`
		SELECT
			COALESCE(SUM(total), 0) / 100.0 as revenue,
			COUNT(id) as sale_count,
			COALESCE(SUM(total_items), 0) as items_sold
		FROM sales
		WHERE store_id = ? AND status = 1 AND sale_date >= ?
	`, storeID, startOfDay).Scan(&result).Error

	if err != nil {
		return nil, err
	}
	return &result, nil
}

func (r *analyticsRepository) GetTopProducts(ctx context.Context, storeID uuid.UUID, limit int) ([]domainRepo.TopProductResult, error) {
	var results []domainRepo.TopProductResult

	err := r.db.WithContext(ctx).Raw(`
		SELECT
			p.id as product_id,
			p.name as product_name,
			p.code as product_code,
			COALESCE(SUM(si.quantity), 0) as quantity_sold,
			COALESCE(SUM(si.total), 0) / 100.0 as revenue
		FROM sale_items si
		JOIN products p ON p.id = si.product_id
		JOIN sales s ON s.id = si.sale_id
		WHERE s.store_id = ? AND s.status = 1
		GROUP BY p.id, p.name, p.code
		ORDER BY revenue DESC
		LIMIT ?
	`, storeID, limit).Scan(&results).Error

	if err != nil {
		return nil, err
	}

	return results, nil
}

func (r *analyticsRepository) GetTopCustomers(ctx context.Context, storeID uuid.UUID, limit int) ([]domainRepo.TopCustomerResult, error) {
	var results []domainRepo.TopCustomerResult

	err := r.db.WithContext(ctx).Raw(`
		SELECT
			c.id as customer_id,
			c.name as customer_name,
			COALESCE(SUM(s.total), 0) / 100.0 as total_spent,
			COUNT(s.id) as sale_count
		FROM sales s
		JOIN customers c ON c.id = s.customer_id
		WHERE s.store_id = ? AND s.status = 1 AND s.customer_id IS NOT NULL
		GROUP BY c.id, c.name
		ORDER BY total_spent DESC
		LIMIT ?
	`, storeID, limit).Scan(&results).Error

	if err != nil {
		return nil, err
	}

	return results, nil
}

func (r *analyticsRepository) GetDailySales(ctx context.Context, storeID uuid.UUID, days int) ([]domainRepo.DailySalesResult, error) {
	results := make([]domainRepo.DailySalesResult, 0, days)
	now := time.Now()

	for i := days - 1; i >= 0; i-- {
		date := now.AddDate(0, 0, -i)
		startOfDay := time.Date(date.Year(), date.Month(), date.Day(), 0, 0, 0, 0, date.Location())
		endOfDay := startOfDay.Add(24 * time.Hour)

		var row struct {
			Revenue sql.NullFloat64
			Cost    sql.NullFloat64
		}
		err := r.db.WithContext(ctx).Raw(`
			SELECT
				COALESCE(SUM(si.total), 0) / 100.0 as revenue,
				COALESCE(SUM(pb.buying_price * si.quantity), 0) / 100.0 as cost
			FROM sales s
			LEFT JOIN sale_items si ON si.sale_id = s.id
			LEFT JOIN product_batches pb ON pb.id = si.batch_id
			WHERE s.store_id = ? AND s.status = 1
			AND s.sale_date >= ? AND s.sale_date < ?
		`, storeID, startOfDay, endOfDay).Scan(&row).Error

		if err != nil {
			return nil, err
		}

		rev := 0.0
		if row.Revenue.Valid {
			rev = row.Revenue.Float64
		}
		cost := 0.0
		if row.Cost.Valid {
			cost = row.Cost.Float64
		}

		results = append(results, domainRepo.DailySalesResult{
			Date:    startOfDay,
			Revenue: rev,
			Profit:  rev - cost,
		})
	}

	return results, nil
}

func (r *analyticsRepository) GetTotalRevenue(ctx context.Context, storeID uuid.UUID) (float64, error) {
	var revenue float64
	err := r.db.WithContext(ctx).Raw(`
		SELECT COALESCE(SUM(total), 0) / 100.0
		FROM sales
		WHERE store_id = ? AND status = 1
	`, storeID).Scan(&revenue).Error

	return revenue, err
}

func (r *analyticsRepository) GetMonthlyRevenue(ctx context.Context, storeID uuid.UUID) (float64, error) {
	now := time.Now()
	startOfMonth := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location())

	var revenue float64
	err := r.db.WithContext(ctx).Raw(`
		SELECT COALESCE(SUM(total), 0) / 100.0
		FROM sales
		WHERE store_id = ? AND status = 1 AND sale_date >= ?
	`, storeID, startOfMonth).Scan(&revenue).Error

	return revenue, err
}
