package server

import (
	"errors"
	"net/http"

	customerdomain "github.com/agroflowhq/agroflow/internal/customer/domain"
	"github.com/agroflowhq/agroflow/internal/money"
	notificationdomain "github.com/agroflowhq/agroflow/internal/notification/domain"
	paymentdomain "github.com/agroflowhq/agroflow/internal/payment/domain"
	productdomain "github.com/agroflowhq/agroflow/internal/product/domain"
	saledomain "github.com/agroflowhq/agroflow/internal/sale/domain"
	"github.com/gin-gonic/gin"
)

// ErrorResponse is the uniform error envelope.
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message"`
}

var (
	errUnauthorized = errors.New("unauthorized")
	errForbidden    = errors.New("forbidden")
)

// ErrorHandlingMiddleware converts errors attached to the gin context into
// the JSON envelope. Handlers call c.Error(err) and return.
func ErrorHandlingMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		lastErr := c.Errors.Last()
		if lastErr == nil || c.Writer.Written() {
			return
		}

		status, code := mapError(lastErr.Err)
		c.JSON(status, ErrorResponse{Error: code, Message: lastErr.Err.Error()})
	}
}

// Classify names the error category for request logs.
func Classify(err error) string {
	_, code := mapError(err)
	return code
}

func mapError(err error) (int, string) {
	switch {
	case errors.Is(err, errUnauthorized):
		return http.StatusUnauthorized, "unauthorized"

	case errors.Is(err, errForbidden):
		return http.StatusForbidden, "forbidden"

	case errors.Is(err, customerdomain.ErrNotFound),
		errors.Is(err, productdomain.ErrNotFound),
		errors.Is(err, saledomain.ErrNotFound),
		errors.Is(err, saledomain.ErrCustomerNotFound),
		errors.Is(err, saledomain.ErrProductNotFound),
		errors.Is(err, paymentdomain.ErrSaleNotFound),
		errors.Is(err, notificationdomain.ErrCustomerNotFound):
		return http.StatusNotFound, "not_found"

	case errors.Is(err, customerdomain.ErrCodeTaken),
		errors.Is(err, productdomain.ErrSKUTaken):
		return http.StatusConflict, "conflict"

	case errors.Is(err, saledomain.ErrInsufficientStock),
		errors.Is(err, saledomain.ErrCreditLimitExceeded),
		errors.Is(err, saledomain.ErrSaleSettled),
		errors.Is(err, paymentdomain.ErrOverpaymentRejected),
		errors.Is(err, paymentdomain.ErrSaleSettled),
		errors.Is(err, paymentdomain.ErrVerificationFailed):
		return http.StatusUnprocessableEntity, "unprocessable"

	case errors.Is(err, saledomain.ErrUPINotConfigured),
		errors.Is(err, paymentdomain.ErrGatewayNotConfigured):
		return http.StatusServiceUnavailable, "unavailable"

	case errors.Is(err, customerdomain.ErrInvalidName),
		errors.Is(err, customerdomain.ErrInvalidCode),
		errors.Is(err, customerdomain.ErrInvalidCreditLimit),
		errors.Is(err, customerdomain.ErrInvalidID),
		errors.Is(err, productdomain.ErrInvalidSKU),
		errors.Is(err, productdomain.ErrInvalidName),
		errors.Is(err, productdomain.ErrInvalidPrice),
		errors.Is(err, productdomain.ErrInvalidQuantity),
		errors.Is(err, productdomain.ErrInvalidID),
		errors.Is(err, saledomain.ErrInvalidItems),
		errors.Is(err, saledomain.ErrInvalidPaymentType),
		errors.Is(err, saledomain.ErrDueDateRequired),
		errors.Is(err, saledomain.ErrInvalidID),
		errors.Is(err, paymentdomain.ErrInvalidAmount),
		errors.Is(err, paymentdomain.ErrInvalidMethod),
		errors.Is(err, paymentdomain.ErrInvalidID),
		errors.Is(err, paymentdomain.ErrEmptyBatch),
		errors.Is(err, notificationdomain.ErrInvalidID),
		errors.Is(err, money.ErrInvalidAmount),
		errors.Is(err, money.ErrNegativeAmount):
		return http.StatusBadRequest, "validation_error"

	default:
		return http.StatusInternalServerError, "internal_error"
	}
}
