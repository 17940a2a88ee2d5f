package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/agroflowhq/agroflow/internal/clock"
	"github.com/agroflowhq/agroflow/internal/config"
	customerdomain "github.com/agroflowhq/agroflow/internal/customer/domain"
	"github.com/agroflowhq/agroflow/internal/notification/domain"
	"github.com/bwmarrin/snowflake"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type Params struct {
	fx.In

	DB           *gorm.DB
	Log          *zap.Logger
	Cfg          config.Config
	Clock        clock.Clock
	Repo         domain.Repository
	CustomerRepo customerdomain.Repository
}

type Service struct {
	db           *gorm.DB
	log          *zap.Logger
	cfg          config.Config
	clock        clock.Clock
	repo         domain.Repository
	customerRepo customerdomain.Repository
}

func New(p Params) domain.Service {
	return &Service{
		db:           p.DB,
		log:          p.Log.Named("notification.service"),
		cfg:          p.Cfg,
		clock:        p.Clock,
		repo:         p.Repo,
		customerRepo: p.CustomerRepo,
	}
}

func (s *Service) ForCustomer(ctx context.Context, customerID string) (domain.DeriveResponse, error) {
	id, err := parseID(customerID)
	if err != nil {
		return domain.DeriveResponse{}, domain.ErrInvalidID
	}

	customer, err := s.customerRepo.FindByID(ctx, s.db, id)
	if err != nil {
		return domain.DeriveResponse{}, err
	}
	if customer == nil {
		return domain.DeriveResponse{}, domain.ErrCustomerNotFound
	}

	sales, err := s.repo.OpenCreditSales(ctx, s.db, id)
	if err != nil {
		return domain.DeriveResponse{}, err
	}

	now := s.clock.Now().UTC()
	window := s.cfg.Credit.UpcomingWindow
	notifications := make([]domain.Notification, 0, len(sales)+1)

	for i := range sales {
		sale := sales[i]
		if sale.DueDate == nil {
			continue
		}
		due := sale.DueDate.UTC()

		switch {
		case due.Before(now):
			days := int(now.Sub(due).Hours() / 24)
			notifications = append(notifications, domain.Notification{
				Type:        domain.TypeOverdue,
				CustomerID:  id,
				Sale:        &sale,
				DaysOverdue: days,
				DerivedAt:   now,
			})
		case !due.After(now.Add(window)):
			days := int(due.Sub(now).Hours() / 24)
			notifications = append(notifications, domain.Notification{
				Type:         domain.TypeUpcoming,
				CustomerID:   id,
				Sale:         &sale,
				DaysUntilDue: days,
				DerivedAt:    now,
			})
		}
	}

	if customer.CreditLimit > 0 {
		ratio := float64(customer.CreditBalance) / float64(customer.CreditLimit)
		if ratio >= s.cfg.Credit.WarningRatio {
			notifications = append(notifications, domain.Notification{
				Type:       domain.TypeCreditWarning,
				CustomerID: id,
				Credit: &domain.CreditSnapshot{
					CreditLimit:   customer.CreditLimit,
					CreditBalance: customer.CreditBalance,
					Ratio:         ratio,
				},
				DerivedAt: now,
			})
		}
	}

	return domain.DeriveResponse{Notifications: notifications}, nil
}

func parseID(value string) (snowflake.ID, error) {
	id, err := snowflake.ParseString(strings.TrimSpace(value))
	if err != nil || id == 0 {
		return 0, fmt.Errorf("invalid id %q", value)
	}
	return id, nil
}
