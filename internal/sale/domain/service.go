package domain

import (
	"context"
	"errors"
	"time"

	"github.com/agroflowhq/agroflow/pkg/db/pagination"
)

type PostSaleLine struct {
	ProductID string
	Quantity  int
}

type CreditDetails struct {
	DueDate         time.Time
	InterestRateBps int
}

type PostSaleRequest struct {
	CustomerID    string
	Items         []PostSaleLine
	PaymentType   string
	CreditDetails *CreditDetails
}

type PostSaleResponse struct {
	Sale Sale `json:"sale"`
	// CreditWarning is set when warn-mode enforcement let the sale through
	// past the customer's credit limit.
	CreditWarning bool `json:"credit_warning,omitempty"`
}

type ListSaleRequest struct {
	PageToken  string
	PageSize   int
	CustomerID string
	Status     string
}

type ListSaleResponse struct {
	pagination.PageInfo
	Sales []Sale `json:"sales"`
}

type Service interface {
	Post(context.Context, PostSaleRequest) (PostSaleResponse, error)
	GetByID(ctx context.Context, id string) (Sale, error)
	List(context.Context, ListSaleRequest) (ListSaleResponse, error)
	// UPIPayload builds a upi:// intent string for the sale's outstanding
	// amount; rendering the QR image is a client concern.
	UPIPayload(ctx context.Context, id string) (string, error)
}

var (
	ErrCustomerNotFound    = errors.New("customer_not_found")
	ErrProductNotFound     = errors.New("product_not_found")
	ErrInsufficientStock   = errors.New("insufficient_stock")
	ErrCreditLimitExceeded = errors.New("credit_limit_exceeded")
	ErrInvalidItems        = errors.New("invalid_items")
	ErrInvalidPaymentType  = errors.New("invalid_payment_type")
	ErrDueDateRequired     = errors.New("due_date_required")
	ErrInvalidID           = errors.New("invalid_id")
	ErrNotFound            = errors.New("not_found")
	ErrSaleSettled         = errors.New("sale_settled")
	ErrUPINotConfigured    = errors.New("upi_not_configured")
)
