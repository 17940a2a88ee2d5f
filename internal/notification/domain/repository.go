package domain

import (
	"context"

	saledomain "github.com/agroflowhq/agroflow/internal/sale/domain"
	"github.com/bwmarrin/snowflake"
	"gorm.io/gorm"
)

type Repository interface {
	// OpenCreditSales returns the customer's unsettled credit sales that carry
	// a due date, oldest due first.
	OpenCreditSales(ctx context.Context, db *gorm.DB, customerID snowflake.ID) ([]saledomain.Sale, error)
}
