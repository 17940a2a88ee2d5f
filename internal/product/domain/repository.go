package domain

import (
	"context"

	"github.com/agroflowhq/agroflow/pkg/db/pagination"
	"github.com/bwmarrin/snowflake"
	"gorm.io/gorm"
)

type ListProductFilter struct {
	Name     string
	Category string
}

type Repository interface {
	Insert(ctx context.Context, db *gorm.DB, product *Product) error
	Update(ctx context.Context, db *gorm.DB, product *Product) error
	FindByID(ctx context.Context, db *gorm.DB, id snowflake.ID) (*Product, error)
	List(ctx context.Context, db *gorm.DB, filter ListProductFilter, page pagination.Pagination) ([]*Product, error)
	ListBelowThreshold(ctx context.Context, db *gorm.DB) ([]*Product, error)

	// DecrementStock atomically takes qty units off the shelf. It returns
	// false without mutating anything when available stock is insufficient.
	DecrementStock(ctx context.Context, db *gorm.DB, id snowflake.ID, qty int) (bool, error)
}
