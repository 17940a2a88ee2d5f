package domain

import (
	"context"
	"errors"

	"github.com/agroflowhq/agroflow/pkg/db/pagination"
)

type GatewayDetails struct {
	OrderID   string
	PaymentID string
	Signature string
}

type PostPaymentRequest struct {
	SaleID string
	Amount int64
	Method string
	// Reference is the caller's receipt reference; generated when absent.
	Reference string
	Notes     string
	Gateway   *GatewayDetails
}

type PostPaymentResponse struct {
	Payment Payment `json:"payment"`
	// SaleSettled is set when this payment paid the sale off completely.
	SaleSettled bool `json:"sale_settled"`
}

// BulkResult carries the per-request outcome of a bulk posting. Results keep
// the request order; a failed entry never blocks the rest of the batch.
type BulkResult struct {
	SaleID  string   `json:"sale_id"`
	Payment *Payment `json:"payment,omitempty"`
	Error   string   `json:"error,omitempty"`
}

type BulkPostResponse struct {
	Results   []BulkResult `json:"results"`
	Succeeded int          `json:"succeeded"`
	Failed    int          `json:"failed"`
}

// CheckoutOrder is what a client needs to open the hosted payment flow for a
// sale's outstanding amount.
type CheckoutOrder struct {
	OrderID  string `json:"order_id"`
	Amount   int64  `json:"amount"`
	Currency string `json:"currency"`
	KeyID    string `json:"key_id"`
}

type ListPaymentRequest struct {
	PageToken  string
	PageSize   int
	CustomerID string
}

type ListPaymentResponse struct {
	pagination.PageInfo
	Payments []Payment `json:"payments"`
}

type Service interface {
	Post(context.Context, PostPaymentRequest) (PostPaymentResponse, error)
	PostBulk(ctx context.Context, requests []PostPaymentRequest) (BulkPostResponse, error)
	// CreateOrder opens a gateway order for the sale's outstanding amount so
	// the client can collect it through the hosted checkout.
	CreateOrder(ctx context.Context, saleID string) (CheckoutOrder, error)
	// OrderStatus reads the gateway's view of an order, retrying transient
	// gateway failures within the configured bound.
	OrderStatus(ctx context.Context, orderID string) (CheckoutOrder, string, error)
	ListBySale(ctx context.Context, saleID string) ([]Payment, error)
	List(context.Context, ListPaymentRequest) (ListPaymentResponse, error)
}

var (
	ErrInvalidAmount        = errors.New("invalid_amount")
	ErrInvalidMethod        = errors.New("invalid_method")
	ErrInvalidID            = errors.New("invalid_id")
	ErrSaleNotFound         = errors.New("sale_not_found")
	ErrSaleSettled          = errors.New("sale_settled")
	ErrOverpaymentRejected  = errors.New("overpayment_rejected")
	ErrVerificationFailed   = errors.New("verification_failed")
	ErrGatewayNotConfigured = errors.New("gateway_not_configured")
	ErrEmptyBatch           = errors.New("empty_batch")
)
