package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/agroflowhq/agroflow/internal/gateway"
	ledgerdomain "github.com/agroflowhq/agroflow/internal/ledger/domain"
	obsmetrics "github.com/agroflowhq/agroflow/internal/observability/metrics"
	"github.com/agroflowhq/agroflow/internal/payment/domain"
	saledomain "github.com/agroflowhq/agroflow/internal/sale/domain"
	"github.com/agroflowhq/agroflow/pkg/db/pagination"
	"github.com/bwmarrin/snowflake"
	"github.com/google/uuid"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type Params struct {
	fx.In

	DB       *gorm.DB
	Log      *zap.Logger
	GenID    *snowflake.Node
	Repo     domain.Repository
	SaleRepo saledomain.Repository
	Ledger   ledgerdomain.Service
	Gateway  gateway.Gateway     `optional:"true"`
	Retry    gateway.RetryPolicy `optional:"true"`
	Metrics  *obsmetrics.Metrics `optional:"true"`
}

type Service struct {
	db       *gorm.DB
	log      *zap.Logger
	genID    *snowflake.Node
	repo     domain.Repository
	saleRepo saledomain.Repository
	ledger   ledgerdomain.Service
	gateway  gateway.Gateway
	retry    gateway.RetryPolicy
	metrics  *obsmetrics.Metrics
}

func New(p Params) domain.Service {
	return &Service{
		db:       p.DB,
		log:      p.Log.Named("payment.service"),
		genID:    p.GenID,
		repo:     p.Repo,
		saleRepo: p.SaleRepo,
		ledger:   p.Ledger,
		gateway:  p.Gateway,
		retry:    p.Retry,
		metrics:  p.Metrics,
	}
}

// Post applies a payment to a sale. The paid-amount update, the credit
// release and the payment row share one transaction; a payment that would
// push paid_amount past total_amount is rejected without mutating anything.
func (s *Service) Post(ctx context.Context, req domain.PostPaymentRequest) (domain.PostPaymentResponse, error) {
	saleID, err := parseID(req.SaleID)
	if err != nil {
		return domain.PostPaymentResponse{}, domain.ErrInvalidID
	}
	if req.Amount <= 0 {
		return domain.PostPaymentResponse{}, domain.ErrInvalidAmount
	}

	method := strings.ToLower(strings.TrimSpace(req.Method))
	if !domain.ValidMethod(method) {
		return domain.PostPaymentResponse{}, domain.ErrInvalidMethod
	}

	reference := strings.TrimSpace(req.Reference)
	if reference == "" {
		reference = uuid.NewString()
	}

	payment := domain.Payment{
		ID:        s.genID.Generate(),
		SaleID:    saleID,
		Amount:    req.Amount,
		Method:    method,
		Reference: reference,
		Notes:     req.Notes,
		CreatedAt: time.Now().UTC(),
	}

	if method == domain.MethodOnline {
		if s.gateway == nil || s.gateway.KeyID() == "" {
			return domain.PostPaymentResponse{}, domain.ErrGatewayNotConfigured
		}
		if req.Gateway == nil {
			return domain.PostPaymentResponse{}, domain.ErrVerificationFailed
		}
		if !s.gateway.VerifySignature(req.Gateway.OrderID, req.Gateway.PaymentID, req.Gateway.Signature) {
			return domain.PostPaymentResponse{}, domain.ErrVerificationFailed
		}
		payment.GatewayOrderID = req.Gateway.OrderID
		payment.GatewayPaymentID = req.Gateway.PaymentID
		payment.Verified = true
	}

	var settled bool

	txErr := s.db.Transaction(func(tx *gorm.DB) error {
		sale, err := s.saleRepo.FindByID(ctx, tx, saleID)
		if err != nil {
			return err
		}
		if sale == nil {
			return domain.ErrSaleNotFound
		}
		if sale.Outstanding() <= 0 {
			return domain.ErrSaleSettled
		}

		ok, err := s.saleRepo.ApplyPayment(ctx, tx, saleID, req.Amount)
		if err != nil {
			return err
		}
		if !ok {
			return domain.ErrOverpaymentRejected
		}

		if sale.PaymentType == saledomain.PaymentTypeCredit {
			if _, err := s.ledger.ReleaseCredit(ctx, tx, sale.CustomerID, req.Amount); err != nil {
				return err
			}
		}

		payment.CustomerID = sale.CustomerID
		settled = sale.PaidAmount+req.Amount >= sale.TotalAmount

		return s.repo.Insert(ctx, tx, &payment)
	})
	if txErr != nil {
		return domain.PostPaymentResponse{}, txErr
	}

	s.metrics.PaymentPosted(method)
	s.log.Info("payment posted",
		zap.String("payment_id", payment.ID.String()),
		zap.String("sale_id", payment.SaleID.String()),
		zap.String("method", payment.Method),
		zap.Int64("amount", payment.Amount),
		zap.Bool("sale_settled", settled),
	)

	return domain.PostPaymentResponse{Payment: payment, SaleSettled: settled}, nil
}

// PostBulk posts each payment independently and reports the per-entry
// outcome in request order. One bad entry does not stop the batch.
func (s *Service) PostBulk(ctx context.Context, requests []domain.PostPaymentRequest) (domain.BulkPostResponse, error) {
	if len(requests) == 0 {
		return domain.BulkPostResponse{}, domain.ErrEmptyBatch
	}

	resp := domain.BulkPostResponse{Results: make([]domain.BulkResult, 0, len(requests))}
	for _, req := range requests {
		result := domain.BulkResult{SaleID: req.SaleID}
		posted, err := s.Post(ctx, req)
		if err != nil {
			result.Error = err.Error()
			resp.Failed++
		} else {
			result.Payment = &posted.Payment
			resp.Succeeded++
		}
		resp.Results = append(resp.Results, result)
	}
	return resp, nil
}

func (s *Service) CreateOrder(ctx context.Context, saleID string) (domain.CheckoutOrder, error) {
	id, err := parseID(saleID)
	if err != nil {
		return domain.CheckoutOrder{}, domain.ErrInvalidID
	}
	if s.gateway == nil || s.gateway.KeyID() == "" {
		return domain.CheckoutOrder{}, domain.ErrGatewayNotConfigured
	}

	sale, err := s.saleRepo.FindByID(ctx, s.db, id)
	if err != nil {
		return domain.CheckoutOrder{}, err
	}
	if sale == nil {
		return domain.CheckoutOrder{}, domain.ErrSaleNotFound
	}
	if sale.Outstanding() <= 0 {
		return domain.CheckoutOrder{}, domain.ErrSaleSettled
	}

	order, err := s.gateway.CreateOrder(ctx, gateway.CreateOrderRequest{
		Amount:  sale.Outstanding(),
		Receipt: sale.ID.String(),
	})
	if err != nil {
		if errors.Is(err, gateway.ErrNotConfigured) {
			return domain.CheckoutOrder{}, domain.ErrGatewayNotConfigured
		}
		return domain.CheckoutOrder{}, err
	}

	return domain.CheckoutOrder{
		OrderID:  order.ID,
		Amount:   order.Amount,
		Currency: order.Currency,
		KeyID:    s.gateway.KeyID(),
	}, nil
}

// OrderStatus fetches the order from the gateway. Transient gateway errors
// are retried within the bounded policy; the ledger itself never retries.
func (s *Service) OrderStatus(ctx context.Context, orderID string) (domain.CheckoutOrder, string, error) {
	if s.gateway == nil || s.gateway.KeyID() == "" {
		return domain.CheckoutOrder{}, "", domain.ErrGatewayNotConfigured
	}
	if strings.TrimSpace(orderID) == "" {
		return domain.CheckoutOrder{}, "", domain.ErrInvalidID
	}

	var order gateway.Order
	err := gateway.Poll(ctx, s.retry, func(ctx context.Context) (bool, error) {
		fetched, err := s.gateway.FetchOrder(ctx, orderID)
		if err != nil {
			if errors.Is(err, gateway.ErrNotConfigured) {
				return true, domain.ErrGatewayNotConfigured
			}
			return false, err
		}
		order = fetched
		return true, nil
	})
	if err != nil {
		return domain.CheckoutOrder{}, "", err
	}

	return domain.CheckoutOrder{
		OrderID:  order.ID,
		Amount:   order.Amount,
		Currency: order.Currency,
		KeyID:    s.gateway.KeyID(),
	}, order.Status, nil
}

func (s *Service) ListBySale(ctx context.Context, saleID string) ([]domain.Payment, error) {
	id, err := parseID(saleID)
	if err != nil {
		return nil, domain.ErrInvalidID
	}
	return s.repo.FindBySale(ctx, s.db, id)
}

func (s *Service) List(ctx context.Context, req domain.ListPaymentRequest) (domain.ListPaymentResponse, error) {
	pageSize := req.PageSize
	if pageSize <= 0 {
		pageSize = 50
	}

	var filter domain.ListPaymentFilter
	if strings.TrimSpace(req.CustomerID) != "" {
		customerID, err := parseID(req.CustomerID)
		if err != nil {
			return domain.ListPaymentResponse{}, domain.ErrInvalidID
		}
		filter.CustomerID = customerID
	}

	items, err := s.repo.List(ctx, s.db, filter, pagination.Pagination{
		PageToken: req.PageToken,
		PageSize:  pageSize,
	})
	if err != nil {
		return domain.ListPaymentResponse{}, err
	}

	pageInfo := pagination.BuildCursorPageInfo(items, pageSize, func(payment *domain.Payment) string {
		token, err := pagination.EncodeCursor(pagination.Cursor{
			ID:        payment.ID.String(),
			CreatedAt: payment.CreatedAt.Format(time.RFC3339Nano),
		})
		if err != nil {
			return ""
		}
		return token
	})
	if pageInfo != nil && pageInfo.HasMore && len(items) > pageSize {
		items = items[:pageSize]
	}

	payments := make([]domain.Payment, 0, len(items))
	for _, item := range items {
		if item == nil {
			continue
		}
		payments = append(payments, *item)
	}

	resp := domain.ListPaymentResponse{Payments: payments}
	if pageInfo != nil {
		resp.PageInfo = *pageInfo
	}

	return resp, nil
}

func parseID(value string) (snowflake.ID, error) {
	id, err := snowflake.ParseString(strings.TrimSpace(value))
	if err != nil || id == 0 {
		return 0, fmt.Errorf("invalid id %q", value)
	}
	return id, nil
}
