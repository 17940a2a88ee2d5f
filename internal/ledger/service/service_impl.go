package service

import (
	"context"
	"time"

	"github.com/agroflowhq/agroflow/internal/config"
	"github.com/agroflowhq/agroflow/internal/ledger/domain"
	"github.com/bwmarrin/snowflake"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type Params struct {
	fx.In

	DB  *gorm.DB
	Log *zap.Logger
	Cfg config.Config
}

type Service struct {
	db           *gorm.DB
	log          *zap.Logger
	releaseClamp bool
}

func New(p Params) domain.Service {
	return &Service{
		db:           p.DB,
		log:          p.Log.Named("ledger.service"),
		releaseClamp: p.Cfg.Credit.ReleaseClamp,
	}
}

type creditRow struct {
	CreditLimit   int64
	CreditBalance int64
}

func (s *Service) ReserveCredit(ctx context.Context, tx *gorm.DB, customerID snowflake.ID, amount int64, opts domain.ReserveOptions) (domain.Reservation, error) {
	if amount <= 0 {
		return domain.Reservation{}, domain.ErrInvalidAmount
	}
	if tx == nil {
		tx = s.db
	}

	now := time.Now().UTC()

	var result *gorm.DB
	if opts.AllowExceed {
		result = tx.WithContext(ctx).Exec(
			`UPDATE customers SET credit_balance = credit_balance + ?, updated_at = ? WHERE id = ?`,
			amount, now, customerID,
		)
	} else {
		result = tx.WithContext(ctx).Exec(
			`UPDATE customers SET credit_balance = credit_balance + ?, updated_at = ?
			 WHERE id = ? AND credit_balance + ? <= credit_limit`,
			amount, now, customerID, amount,
		)
	}
	if result.Error != nil {
		return domain.Reservation{}, result.Error
	}

	if result.RowsAffected == 0 {
		exists, err := s.exists(ctx, tx, customerID)
		if err != nil {
			return domain.Reservation{}, err
		}
		if !exists {
			return domain.Reservation{}, domain.ErrCustomerNotFound
		}
		return domain.Reservation{}, domain.ErrCreditLimitExceeded
	}

	row, err := s.read(ctx, tx, customerID)
	if err != nil {
		return domain.Reservation{}, err
	}

	reservation := domain.Reservation{
		NewBalance: row.CreditBalance,
		Exceeded:   row.CreditBalance > row.CreditLimit,
	}
	if reservation.Exceeded {
		s.log.Warn("credit reserved past limit",
			zap.String("customer_id", customerID.String()),
			zap.Int64("balance", row.CreditBalance),
			zap.Int64("limit", row.CreditLimit),
		)
	}
	return reservation, nil
}

func (s *Service) ReleaseCredit(ctx context.Context, tx *gorm.DB, customerID snowflake.ID, amount int64) (int64, error) {
	if amount <= 0 {
		return 0, domain.ErrInvalidAmount
	}
	if tx == nil {
		tx = s.db
	}

	now := time.Now().UTC()

	var result *gorm.DB
	if s.releaseClamp {
		result = tx.WithContext(ctx).Exec(
			`UPDATE customers
			 SET credit_balance = CASE WHEN credit_balance >= ? THEN credit_balance - ? ELSE 0 END,
			     updated_at = ?
			 WHERE id = ?`,
			amount, amount, now, customerID,
		)
	} else {
		result = tx.WithContext(ctx).Exec(
			`UPDATE customers SET credit_balance = credit_balance - ?, updated_at = ?
			 WHERE id = ? AND credit_balance >= ?`,
			amount, now, customerID, amount,
		)
	}
	if result.Error != nil {
		return 0, result.Error
	}

	if result.RowsAffected == 0 {
		exists, err := s.exists(ctx, tx, customerID)
		if err != nil {
			return 0, err
		}
		if !exists {
			return 0, domain.ErrCustomerNotFound
		}
		return 0, domain.ErrOverRelease
	}

	row, err := s.read(ctx, tx, customerID)
	if err != nil {
		return 0, err
	}
	return row.CreditBalance, nil
}

func (s *Service) AvailableCredit(ctx context.Context, customerID snowflake.ID) (domain.Available, error) {
	row, err := s.read(ctx, s.db, customerID)
	if err != nil {
		return domain.Available{}, err
	}

	available := row.CreditLimit - row.CreditBalance
	if available < 0 {
		available = 0
	}
	return domain.Available{
		CreditLimit:   row.CreditLimit,
		CreditBalance: row.CreditBalance,
		Available:     available,
	}, nil
}

func (s *Service) exists(ctx context.Context, tx *gorm.DB, customerID snowflake.ID) (bool, error) {
	var count int64
	err := tx.WithContext(ctx).
		Table("customers").
		Where("id = ?", customerID).
		Count(&count).Error
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

func (s *Service) read(ctx context.Context, tx *gorm.DB, customerID snowflake.ID) (creditRow, error) {
	var row creditRow
	result := tx.WithContext(ctx).
		Table("customers").
		Select("credit_limit", "credit_balance").
		Where("id = ?", customerID).
		Take(&row)
	if result.Error == gorm.ErrRecordNotFound {
		return creditRow{}, domain.ErrCustomerNotFound
	}
	if result.Error != nil {
		return creditRow{}, result.Error
	}
	return row, nil
}
