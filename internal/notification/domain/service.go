// Package domain defines the notification deriver: a read-only projection
// over open credit sales and the customer's credit position. Nothing is
// persisted; the same inputs always derive the same set of signals.
package domain

import (
	"context"
	"errors"
	"time"

	saledomain "github.com/agroflowhq/agroflow/internal/sale/domain"
	"github.com/bwmarrin/snowflake"
)

const (
	TypeOverdue       = "overdue"
	TypeUpcoming      = "upcoming"
	TypeCreditWarning = "credit_warning"
)

// CreditSnapshot is the balance picture attached to a credit_warning signal.
type CreditSnapshot struct {
	CreditLimit   int64   `json:"credit_limit"`
	CreditBalance int64   `json:"credit_balance"`
	Ratio         float64 `json:"ratio"`
}

// Notification is one derived signal. Overdue and upcoming signals carry the
// triggering sale; credit_warning carries the balance snapshot instead.
type Notification struct {
	Type       string           `json:"type"`
	CustomerID snowflake.ID     `json:"customer_id"`
	Sale       *saledomain.Sale `json:"sale,omitempty"`
	Credit     *CreditSnapshot  `json:"credit,omitempty"`
	// DaysOverdue is set on overdue signals, DaysUntilDue on upcoming ones.
	DaysOverdue  int       `json:"days_overdue,omitempty"`
	DaysUntilDue int       `json:"days_until_due,omitempty"`
	DerivedAt    time.Time `json:"derived_at"`
}

type DeriveResponse struct {
	Notifications []Notification `json:"notifications"`
}

type Service interface {
	// ForCustomer derives the current signal set for one customer.
	ForCustomer(ctx context.Context, customerID string) (DeriveResponse, error)
}

var (
	ErrInvalidID        = errors.New("invalid_id")
	ErrCustomerNotFound = errors.New("customer_not_found")
)
