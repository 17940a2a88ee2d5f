package repository

import (
	"context"

	"github.com/agroflowhq/agroflow/internal/notification/domain"
	saledomain "github.com/agroflowhq/agroflow/internal/sale/domain"
	"github.com/bwmarrin/snowflake"
	"gorm.io/gorm"
)

type repo struct{}

func Provide() domain.Repository {
	return &repo{}
}

func (r *repo) OpenCreditSales(ctx context.Context, db *gorm.DB, customerID snowflake.ID) ([]saledomain.Sale, error) {
	var sales []saledomain.Sale
	err := db.WithContext(ctx).
		Where("customer_id = ?", customerID).
		Where("payment_type = ?", saledomain.PaymentTypeCredit).
		Where("status = ?", saledomain.StatusPending).
		Where("due_date IS NOT NULL").
		Order("due_date asc, id asc").
		Find(&sales).Error
	if err != nil {
		return nil, err
	}
	return sales, nil
}
