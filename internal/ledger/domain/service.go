// Package domain defines the credit ledger contract: the single owner of
// customer credit-balance arithmetic. All balance mutation in the application
// funnels through this service so the limit invariant is enforced in exactly
// one place, as a conditional update rather than read-then-write.
package domain

import (
	"context"
	"errors"

	"github.com/bwmarrin/snowflake"
	"gorm.io/gorm"
)

// Reservation is the outcome of ReserveCredit.
type Reservation struct {
	NewBalance int64
	// Exceeded is set when the reservation pushed the balance over the limit,
	// which can only happen with AllowExceed (warn-mode posting).
	Exceeded bool
}

type ReserveOptions struct {
	// AllowExceed posts the reservation even past the credit limit and
	// reports the breach instead of rejecting it.
	AllowExceed bool
}

// Available is the read-side view of a customer's credit position.
type Available struct {
	CreditLimit   int64 `json:"credit_limit"`
	CreditBalance int64 `json:"credit_balance"`
	Available     int64 `json:"available"`
}

// Service methods take the caller's transaction handle so reservations and
// releases commit or roll back together with the sale or payment that caused
// them.
type Service interface {
	ReserveCredit(ctx context.Context, tx *gorm.DB, customerID snowflake.ID, amount int64, opts ReserveOptions) (Reservation, error)
	ReleaseCredit(ctx context.Context, tx *gorm.DB, customerID snowflake.ID, amount int64) (int64, error)
	AvailableCredit(ctx context.Context, customerID snowflake.ID) (Available, error)
}

var (
	ErrCustomerNotFound    = errors.New("customer_not_found")
	ErrCreditLimitExceeded = errors.New("credit_limit_exceeded")
	ErrInvalidAmount       = errors.New("invalid_amount")
	ErrOverRelease         = errors.New("over_release")
)
