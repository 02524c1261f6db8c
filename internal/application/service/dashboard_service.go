package service

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/pharmaline/pos-api/internal/domain/entity"
	"github.com/pharmaline/pos-api/internal/domain/repository"
)

// DashboardService provides store-level statistics for the admin screens
type DashboardService struct {
	analyticsRepo repository.AnalyticsRepository
	productRepo   repository.ProductRepository
	expiryWindow  int
}

// NewDashboardService creates a new dashboard service
func NewDashboardService(
	analyticsRepo repository.AnalyticsRepository,
	productRepo repository.ProductRepository,
	expiryWindowDays int,
) *DashboardService {
	if expiryWindowDays <= 0 {
		expiryWindowDays = 90
	}
	return &DashboardService{
		analyticsRepo: analyticsRepo,
		productRepo:   productRepo,
		expiryWindow:  expiryWindowDays,
	}
}

// DashboardStats represents dashboard statistics
type DashboardStats struct {
	TodayRevenue    float64                      `json:"today_revenue"`
	TodaySaleCount  int                          `json:"today_sale_count"`
	TodayItemsSold  int                          `json:"today_items_sold"`
	TotalRevenue    float64                      `json:"total_revenue"`
	MonthlyRevenue  float64                      `json:"monthly_revenue"`
	LowStockCount   int                          `json:"low_stock_count"`
	ExpiringBatches int                          `json:"expiring_batches"`
	TopProducts     []repository.TopProductResult `json:"top_products"`
	TopCustomers    []repository.TopCustomerResult `json:"top_customers"`
	DailySalesData  []DailySalesPoint            `json:"daily_sales_data"`
}

// DailySalesPoint represents a daily sales data point
type DailySalesPoint struct {
	Date    string  `json:"date"`
	Revenue float64 `json:"revenue"`
	Profit  float64 `json:"profit"`
}

// GetDashboardStats returns dashboard statistics for one store
func (s *DashboardService) GetDashboardStats(ctx context.Context, storeID uuid.UUID) (*DashboardStats, error) {
	stats := &DashboardStats{}

	today, err := s.analyticsRepo.GetTodaySummary(ctx, storeID)
	if err != nil {
		return nil, err
	}
	stats.TodayRevenue = today.Revenue
	stats.TodaySaleCount = today.SaleCount
	stats.TodayItemsSold = today.ItemsSold

	stats.TotalRevenue, err = s.analyticsRepo.GetTotalRevenue(ctx, storeID)
	if err != nil {
		return nil, err
	}

	stats.MonthlyRevenue, err = s.analyticsRepo.GetMonthlyRevenue(ctx, storeID)
	if err != nil {
		return nil, err
	}

	lowStock, err := s.productRepo.GetLowStock(ctx, storeID)
	if err != nil {
		return nil, err
	}
	stats.LowStockCount = len(lowStock)

	cutoff := time.Now().AddDate(0, 0, s.expiryWindow)
	expiring, err := s.productRepo.GetExpiringBatches(ctx, storeID, cutoff)
	if err != nil {
		return nil, err
	}
	stats.ExpiringBatches = len(expiring)

	stats.TopProducts, err = s.analyticsRepo.GetTopProducts(ctx, storeID, 5)
	if err != nil {
		return nil, err
	}

	stats.TopCustomers, err = s.analyticsRepo.GetTopCustomers(ctx, storeID, 5)
	if err != nil {
		return nil, err
	}

	daily, err := s.analyticsRepo.GetDailySales(ctx, storeID, 7)
	if err != nil {
		return nil, err
	}
	stats.DailySalesData = make([]DailySalesPoint, 0, len(daily))
	for _, d := range daily {
		stats.DailySalesData = append(stats.DailySalesData, DailySalesPoint{
			Date:    d.Date.Format("Jan 02"),
			Revenue: d.Revenue,
			Profit:  d.Profit,
		})
	}

	return stats, nil
}

// GetLowStockProducts lists products at or below their alert threshold
func (s *DashboardService) GetLowStockProducts(ctx context.Context, storeID uuid.UUID) ([]entity.Product, error) {
	return s.productRepo.GetLowStock(ctx, storeID)
}

// GetExpiringBatches lists in-stock batches expiring within the alert window
func (s *DashboardService) GetExpiringBatches(ctx context.Context, storeID uuid.UUID) ([]entity.ProductBatch, error) {
	cutoff := time.Now().AddDate(0, 0, s.expiryWindow)
	return s.productRepo.GetExpiringBatches(ctx, storeID, cutoff)
}
