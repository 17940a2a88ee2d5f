package service

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/agroflowhq/agroflow/internal/config"
	customerdomain "github.com/agroflowhq/agroflow/internal/customer/domain"
	ledgerdomain "github.com/agroflowhq/agroflow/internal/ledger/domain"
	"github.com/agroflowhq/agroflow/internal/money"
	obsmetrics "github.com/agroflowhq/agroflow/internal/observability/metrics"
	productdomain "github.com/agroflowhq/agroflow/internal/product/domain"
	"github.com/agroflowhq/agroflow/internal/sale/domain"
	"github.com/agroflowhq/agroflow/pkg/db/pagination"
	"github.com/bwmarrin/snowflake"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type Params struct {
	fx.In

	DB           *gorm.DB
	Log          *zap.Logger
	GenID        *snowflake.Node
	Cfg          config.Config
	Repo         domain.Repository
	CustomerRepo customerdomain.Repository
	ProductRepo  productdomain.Repository
	Ledger       ledgerdomain.Service
	Metrics      *obsmetrics.Metrics `optional:"true"`
}

type Service struct {
	db           *gorm.DB
	log          *zap.Logger
	genID        *snowflake.Node
	cfg          config.Config
	repo         domain.Repository
	customerRepo customerdomain.Repository
	productRepo  productdomain.Repository
	ledger       ledgerdomain.Service
	metrics      *obsmetrics.Metrics
}

func New(p Params) domain.Service {
	return &Service{
		db:           p.DB,
		log:          p.Log.Named("sale.service"),
		genID:        p.GenID,
		cfg:          p.Cfg,
		repo:         p.Repo,
		customerRepo: p.CustomerRepo,
		productRepo:  p.ProductRepo,
		ledger:       p.Ledger,
		metrics:      p.Metrics,
	}
}

// Post commits a sale all-or-nothing: stock checks, stock decrements, the
// credit reservation and the sale insert share one transaction, so any
// failure leaves stock and balances untouched.
func (s *Service) Post(ctx context.Context, req domain.PostSaleRequest) (domain.PostSaleResponse, error) {
	customerID, err := parseID(req.CustomerID)
	if err != nil {
		return domain.PostSaleResponse{}, domain.ErrCustomerNotFound
	}

	paymentType := strings.ToLower(strings.TrimSpace(req.PaymentType))
	switch paymentType {
	case domain.PaymentTypeCash, domain.PaymentTypeCredit, domain.PaymentTypeOnline:
	default:
		return domain.PostSaleResponse{}, domain.ErrInvalidPaymentType
	}

	if len(req.Items) == 0 {
		return domain.PostSaleResponse{}, domain.ErrInvalidItems
	}
	if paymentType == domain.PaymentTypeCredit && req.CreditDetails == nil {
		return domain.PostSaleResponse{}, domain.ErrDueDateRequired
	}

	var (
		sale          domain.Sale
		creditWarning bool
	)

	txErr := s.db.Transaction(func(tx *gorm.DB) error {
		customer, err := s.customerRepo.FindByID(ctx, tx, customerID)
		if err != nil {
			return err
		}
		if customer == nil {
			return domain.ErrCustomerNotFound
		}

		now := time.Now().UTC()
		saleID := s.genID.Generate()
		items := make([]domain.SaleItem, 0, len(req.Items))
		var total int64

		for i, line := range req.Items {
			productID, err := parseID(line.ProductID)
			if err != nil {
				return domain.ErrProductNotFound
			}
			if line.Quantity <= 0 {
				return domain.ErrInvalidItems
			}

			product, err := s.productRepo.FindByID(ctx, tx, productID)
			if err != nil {
				return err
			}
			if product == nil {
				return domain.ErrProductNotFound
			}

			ok, err := s.productRepo.DecrementStock(ctx, tx, productID, line.Quantity)
			if err != nil {
				return err
			}
			if !ok {
				return domain.ErrInsufficientStock
			}

			extension, err := money.MulQty(product.Price, line.Quantity)
			if err != nil {
				return domain.ErrInvalidItems
			}
			total += extension

			items = append(items, domain.SaleItem{
				ID:        s.genID.Generate(),
				SaleID:    saleID,
				ProductID: productID,
				Name:      product.Name,
				Quantity:  line.Quantity,
				UnitPrice: product.Price,
				Position:  i,
			})
		}

		if paymentType == domain.PaymentTypeCredit {
			reservation, err := s.ledger.ReserveCredit(ctx, tx, customerID, total, ledgerdomain.ReserveOptions{
				AllowExceed: s.cfg.Credit.Enforcement == config.EnforcementWarn,
			})
			if err != nil {
				if errors.Is(err, ledgerdomain.ErrCreditLimitExceeded) {
					s.metrics.CreditLimitRejected()
					return domain.ErrCreditLimitExceeded
				}
				if errors.Is(err, ledgerdomain.ErrCustomerNotFound) {
					return domain.ErrCustomerNotFound
				}
				return err
			}
			creditWarning = reservation.Exceeded
		}

		sale = domain.Sale{
			ID:          saleID,
			CustomerID:  customerID,
			TotalAmount: total,
			PaymentType: paymentType,
			Status:      domain.StatusPending,
			Items:       items,
			CreatedAt:   now,
			UpdatedAt:   now,
		}
		if paymentType == domain.PaymentTypeCredit {
			due := req.CreditDetails.DueDate.UTC()
			sale.DueDate = &due
			sale.InterestRateBps = req.CreditDetails.InterestRateBps
		}
		if paymentType == domain.PaymentTypeCash {
			// cash settles at the counter; no follow-up payment posting
			sale.PaidAmount = total
			sale.Status = domain.StatusCompleted
		}

		if err := s.repo.Insert(ctx, tx, &sale); err != nil {
			return err
		}

		return tx.WithContext(ctx).Exec(
			`UPDATE customers SET last_purchase_date = ?, updated_at = ? WHERE id = ?`,
			now, now, customerID,
		).Error
	})
	if txErr != nil {
		return domain.PostSaleResponse{}, txErr
	}

	s.metrics.SalePosted(paymentType)
	s.log.Info("sale posted",
		zap.String("sale_id", sale.ID.String()),
		zap.String("customer_id", sale.CustomerID.String()),
		zap.String("payment_type", sale.PaymentType),
		zap.Int64("total_amount", sale.TotalAmount),
		zap.Bool("credit_warning", creditWarning),
	)

	return domain.PostSaleResponse{Sale: sale, CreditWarning: creditWarning}, nil
}

func (s *Service) GetByID(ctx context.Context, id string) (domain.Sale, error) {
	saleID, err := parseID(id)
	if err != nil {
		return domain.Sale{}, domain.ErrInvalidID
	}

	sale, err := s.repo.FindByID(ctx, s.db, saleID)
	if err != nil {
		return domain.Sale{}, err
	}
	if sale == nil {
		return domain.Sale{}, domain.ErrNotFound
	}
	return *sale, nil
}

func (s *Service) List(ctx context.Context, req domain.ListSaleRequest) (domain.ListSaleResponse, error) {
	pageSize := req.PageSize
	if pageSize <= 0 {
		pageSize = 50
	}

	filter := domain.ListSaleFilter{Status: strings.TrimSpace(req.Status)}
	if strings.TrimSpace(req.CustomerID) != "" {
		customerID, err := parseID(req.CustomerID)
		if err != nil {
			return domain.ListSaleResponse{}, domain.ErrInvalidID
		}
		filter.CustomerID = customerID
	}

	items, err := s.repo.List(ctx, s.db, filter, pagination.Pagination{
		PageToken: req.PageToken,
		PageSize:  pageSize,
	})
	if err != nil {
		return domain.ListSaleResponse{}, err
	}

	pageInfo := pagination.BuildCursorPageInfo(items, pageSize, func(sale *domain.Sale) string {
		token, err := pagination.EncodeCursor(pagination.Cursor{
			ID:        sale.ID.String(),
			CreatedAt: sale.CreatedAt.Format(time.RFC3339Nano),
		})
		if err != nil {
			return ""
		}
		return token
	})
	if pageInfo != nil && pageInfo.HasMore && len(items) > pageSize {
		items = items[:pageSize]
	}

	sales := make([]domain.Sale, 0, len(items))
	for _, item := range items {
		if item == nil {
			continue
		}
		sales = append(sales, *item)
	}

	resp := domain.ListSaleResponse{Sales: sales}
	if pageInfo != nil {
		resp.PageInfo = *pageInfo
	}

	return resp, nil
}

func (s *Service) UPIPayload(ctx context.Context, id string) (string, error) {
	if s.cfg.UPIPayeeVPA == "" {
		return "", domain.ErrUPINotConfigured
	}

	sale, err := s.GetByID(ctx, id)
	if err != nil {
		return "", err
	}
	if sale.Outstanding() <= 0 {
		return "", domain.ErrSaleSettled
	}

	query := url.Values{}
	query.Set("pa", s.cfg.UPIPayeeVPA)
	query.Set("pn", s.cfg.UPIPayeeName)
	query.Set("am", money.FormatMinor(sale.Outstanding()))
	query.Set("cu", "INR")
	query.Set("tn", fmt.Sprintf("Sale %s", sale.ID.String()))

	return "upi://pay?" + query.Encode(), nil
}

func parseID(value string) (snowflake.ID, error) {
	id, err := snowflake.ParseString(strings.TrimSpace(value))
	if err != nil || id == 0 {
		return 0, fmt.Errorf("invalid id %q", value)
	}
	return id, nil
}
