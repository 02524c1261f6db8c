package repository

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// TopProductResult represents a product's sales performance
type TopProductResult struct {
	ProductID    uuid.UUID
	ProductName  string
	ProductCode  string
	QuantitySold int
	Revenue      float64
}

// TopCustomerResult represents a customer's spending data
type TopCustomerResult struct {
	CustomerID   uuid.UUID
	CustomerName string
	TotalSpent   float64
	SaleCount    int
}

// DailySalesResult represents sales data for a single day
type DailySalesResult struct {
	Date    time.Time
	Revenue float64
	Profit  float64
}

// TodaySummaryResult aggregates today's trading activity
type TodaySummaryResult struct {
	Revenue   float64
	SaleCount int
	ItemsSold int
}

// AnalyticsRepository defines interface for analytics/aggregation queries
type AnalyticsRepository interface {
	// GetTodaySummary returns revenue, sale count and items sold for today
	GetTodaySummary(ctx context.Context, storeID uuid.UUID) (*TodaySummaryResult, error)

	// GetTopProducts returns top selling products by revenue
	GetTopProducts(ctx context.Context, storeID uuid.UUID, limit int) ([]TopProductResult, error)

	// GetTopCustomers returns top customers by total spending
	GetTopCustomers(ctx context.Context, storeID uuid.UUID, limit int) ([]TopCustomerResult, error)

	// GetDailySales returns daily sales data for the last N days
	GetDailySales(ctx context.Context, storeID uuid.UUID, days int) ([]DailySalesResult, error)

	// GetTotalRevenue returns total revenue from completed sales
	GetTotalRevenue(ctx context.Context, storeID uuid.UUID) (float64, error)

	// GetMonthlyRevenue returns revenue for the current month
	GetMonthlyRevenue(ctx context.Context, storeID uuid.UUID) (float64, error)
}
