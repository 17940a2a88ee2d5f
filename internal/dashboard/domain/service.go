// Package domain defines the dashboard read models: aggregate views over
// sales, payments, customers and stock. Everything here is derived, never
// authoritative; the UI polls these endpoints.
package domain

import (
	"context"
	"time"

	"github.com/bwmarrin/snowflake"
)

type Summary struct {
	TodayRevenue      int64     `json:"today_revenue"`
	TodaySales        int64     `json:"today_sales"`
	OutstandingCredit int64     `json:"outstanding_credit"`
	LowStockProducts  int64     `json:"low_stock_products"`
	GeneratedAt       time.Time `json:"generated_at"`
}

type TrendPoint struct {
	Date    string `json:"date"`
	Revenue int64  `json:"revenue"`
	Sales   int64  `json:"sales"`
}

type TopProduct struct {
	ProductID    snowflake.ID `json:"product_id"`
	Name         string       `json:"name"`
	QuantitySold int64        `json:"quantity_sold"`
	Revenue      int64        `json:"revenue"`
}

// CreditAnalytics buckets customers by how much of their limit is in use.
type CreditAnalytics struct {
	TotalLimit       int64 `json:"total_limit"`
	TotalOutstanding int64 `json:"total_outstanding"`
	Comfortable      int64 `json:"comfortable"`
	Elevated         int64 `json:"elevated"`
	Critical         int64 `json:"critical"`
}

type MethodBreakdown struct {
	Method string `json:"method"`
	Count  int64  `json:"count"`
	Total  int64  `json:"total"`
}

// CustomerSegments counts customers by purchase recency.
type CustomerSegments struct {
	Active         int64 `json:"active"`
	AtRisk         int64 `json:"at_risk"`
	Dormant        int64 `json:"dormant"`
	NeverPurchased int64 `json:"never_purchased"`
}

type Service interface {
	Summary(ctx context.Context) (Summary, error)
	SalesTrends(ctx context.Context, days int) ([]TrendPoint, error)
	TopProducts(ctx context.Context, limit int) ([]TopProduct, error)
	CreditAnalytics(ctx context.Context) (CreditAnalytics, error)
	PaymentAnalytics(ctx context.Context) ([]MethodBreakdown, error)
	CustomerSegments(ctx context.Context) (CustomerSegments, error)
}
