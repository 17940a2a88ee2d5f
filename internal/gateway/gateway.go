// Package gateway defines the payment-gateway contract consumed by payment
// posting. The gateway is an opaque oracle: it creates orders and answers
// whether a payment signature is genuine.
package gateway

import (
	"context"
	"errors"
	"time"
)

type CreateOrderRequest struct {
	Amount   int64
	Currency string
	Receipt  string
}

type Order struct {
	ID       string `json:"id"`
	Amount   int64  `json:"amount"`
	Currency string `json:"currency"`
	Status   string `json:"status"`
}

type Gateway interface {
	CreateOrder(ctx context.Context, req CreateOrderRequest) (Order, error)
	// VerifySignature reports whether the signature matches the order and
	// payment ids. Pure computation, no network.
	VerifySignature(orderID, paymentID, signature string) bool
	// FetchOrder reads the current state of an order from the provider.
	FetchOrder(ctx context.Context, orderID string) (Order, error)
	// KeyID is the public key the browser checkout needs.
	KeyID() string
}

var (
	ErrNotConfigured = errors.New("gateway_not_configured")
	ErrOrderFailed   = errors.New("gateway_order_failed")
)

// RetryPolicy bounds the polling loop callers run while waiting for an
// external payment to settle. The ledger itself never retries.
type RetryPolicy struct {
	MaxAttempts int
	Backoff     time.Duration
}

func DefaultRetryPolicy() RetryPolicy {
	return RetryPolicy{MaxAttempts: 5, Backoff: 2 * time.Second}
}

// Poll runs fn until it reports done, the attempts are exhausted, or the
// context is cancelled.
func Poll(ctx context.Context, policy RetryPolicy, fn func(ctx context.Context) (done bool, err error)) error {
	if policy.MaxAttempts <= 0 {
		policy.MaxAttempts = 1
	}

	var lastErr error
	for attempt := 0; attempt < policy.MaxAttempts; attempt++ {
		if attempt > 0 && policy.Backoff > 0 {
			timer := time.NewTimer(policy.Backoff)
			select {
			case <-ctx.Done():
				timer.Stop()
				return ctx.Err()
			case <-timer.C:
			}
		}

		done, err := fn(ctx)
		if done {
			return err
		}
		lastErr = err
	}

	if lastErr != nil {
		return lastErr
	}
	return errors.New("retry attempts exhausted")
}
