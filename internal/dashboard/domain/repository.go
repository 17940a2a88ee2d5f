package domain

import (
	"context"
	"time"

	"gorm.io/gorm"
)

type SaleRow struct {
	CreatedAt   time.Time
	TotalAmount int64
}

type CreditPosition struct {
	CreditLimit   int64
	CreditBalance int64
}

type Repository interface {
	SalesSince(ctx context.Context, db *gorm.DB, since time.Time) ([]SaleRow, error)
	OutstandingCredit(ctx context.Context, db *gorm.DB) (int64, error)
	LowStockCount(ctx context.Context, db *gorm.DB) (int64, error)
	TopProducts(ctx context.Context, db *gorm.DB, limit int) ([]TopProduct, error)
	CreditPositions(ctx context.Context, db *gorm.DB) ([]CreditPosition, error)
	PaymentsByMethod(ctx context.Context, db *gorm.DB) ([]MethodBreakdown, error)
	LastPurchaseDates(ctx context.Context, db *gorm.DB) ([]*time.Time, error)
}
