package domain

import (
	"context"

	"github.com/agroflowhq/agroflow/pkg/db/pagination"
	"github.com/bwmarrin/snowflake"
	"gorm.io/gorm"
)

type ListSaleFilter struct {
	CustomerID snowflake.ID
	Status     string
}

type Repository interface {
	Insert(ctx context.Context, db *gorm.DB, sale *Sale) error
	FindByID(ctx context.Context, db *gorm.DB, id snowflake.ID) (*Sale, error)
	List(ctx context.Context, db *gorm.DB, filter ListSaleFilter, page pagination.Pagination) ([]*Sale, error)

	// ApplyPayment atomically adds amount to paid_amount and flips status to
	// completed when the sale becomes fully paid. It returns false without
	// mutating anything when the payment would exceed total_amount.
	ApplyPayment(ctx context.Context, db *gorm.DB, id snowflake.ID, amount int64) (bool, error)
}
