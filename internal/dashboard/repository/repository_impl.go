package repository

import (
	"context"
	"time"

	"github.com/agroflowhq/agroflow/internal/dashboard/domain"
	"gorm.io/gorm"
)

type repo struct{}

func Provide() domain.Repository {
	return &repo{}
}

func (r *repo) SalesSince(ctx context.Context, db *gorm.DB, since time.Time) ([]domain.SaleRow, error) {
	var rows []domain.SaleRow
	err := db.WithContext(ctx).
		Table("sales").
		Select("created_at, total_amount").
		Where("created_at >= ?", since).
		Where("status <> ?", "cancelled").
		Order("created_at asc").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	return rows, nil
}

func (r *repo) OutstandingCredit(ctx context.Context, db *gorm.DB) (int64, error) {
	var total int64
	err := db.WithContext(ctx).
		Table("customers").
		Select("COALESCE(SUM(credit_balance), 0)").
		Scan(&total).Error
	return total, err
}

func (r *repo) LowStockCount(ctx context.Context, db *gorm.DB) (int64, error) {
	var count int64
	err := db.WithContext(ctx).
		Table("products").
		Where("quantity <= stock_threshold").
		Count(&count).Error
	return count, err
}

func (r *repo) TopProducts(ctx context.Context, db *gorm.DB, limit int) ([]domain.TopProduct, error) {
	var products []domain.TopProduct
	err := db.WithContext(ctx).
		Table("sale_items").
		Select("product_id, name, SUM(quantity) AS quantity_sold, SUM(quantity * unit_price) AS revenue").
		Group("product_id, name").
		Order("revenue desc").
		Limit(limit).
		Scan(&products).Error
	if err != nil {
		return nil, err
	}
	return products, nil
}

func (r *repo) CreditPositions(ctx context.Context, db *gorm.DB) ([]domain.CreditPosition, error) {
	var positions []domain.CreditPosition
	err := db.WithContext(ctx).
		Table("customers").
		Select("credit_limit, credit_balance").
		Scan(&positions).Error
	if err != nil {
		return nil, err
	}
	return positions, nil
}

func (r *repo) PaymentsByMethod(ctx context.Context, db *gorm.DB) ([]domain.MethodBreakdown, error) {
	var breakdown []domain.MethodBreakdown
	err := db.WithContext(ctx).
		Table("payments").
		Select("method, COUNT(*) AS count, COALESCE(SUM(amount), 0) AS total").
		Group("method").
		Order("total desc").
		Scan(&breakdown).Error
	if err != nil {
		return nil, err
	}
	return breakdown, nil
}

func (r *repo) LastPurchaseDates(ctx context.Context, db *gorm.DB) ([]*time.Time, error) {
	var rows []struct {
		LastPurchaseDate *time.Time
	}
	err := db.WithContext(ctx).
		Table("customers").
		Select("last_purchase_date").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	dates := make([]*time.Time, 0, len(rows))
	for _, row := range rows {
		dates = append(dates, row.LastPurchaseDate)
	}
	return dates, nil
}
