package domain

import (
	"time"

	"github.com/bwmarrin/snowflake"
)

const (
	MethodCash         = "cash"
	MethodBankTransfer = "bank_transfer"
	MethodCreditCard   = "credit_card"
	MethodCheck        = "check"
	MethodOnline       = "online"
)

type Payment struct {
	ID         snowflake.ID `gorm:"primaryKey" json:"id"`
	SaleID     snowflake.ID `gorm:"not null;index" json:"sale_id"`
	CustomerID snowflake.ID `gorm:"not null;index" json:"customer_id"`
	Amount     int64        `gorm:"not null" json:"amount"`
	Method     string       `gorm:"not null" json:"method"`
	Reference  string       `json:"reference,omitempty"`
	// GatewayOrderID and GatewayPaymentID are only set for online payments.
	GatewayOrderID   string    `json:"gateway_order_id,omitempty"`
	GatewayPaymentID string    `json:"gateway_payment_id,omitempty"`
	Verified         bool      `gorm:"not null;default:false" json:"verified"`
	Notes            string    `json:"notes,omitempty"`
	CreatedAt        time.Time `gorm:"not null;default:CURRENT_TIMESTAMP;index" json:"created_at"`
}

func (Payment) TableName() string { return "payments" }

// ValidMethod reports whether method is one of the accepted payment methods.
func ValidMethod(method string) bool {
	switch method {
	case MethodCash, MethodBankTransfer, MethodCreditCard, MethodCheck, MethodOnline:
		return true
	}
	return false
}
