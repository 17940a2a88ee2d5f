package domain

import (
	"time"

	"github.com/bwmarrin/snowflake"
)

const (
	PaymentTypeCash   = "cash"
	PaymentTypeCredit = "credit"
	PaymentTypeOnline = "online"

	StatusPending   = "pending"
	StatusCompleted = "completed"
	StatusCancelled = "cancelled"
)

type Sale struct {
	ID              snowflake.ID `gorm:"primaryKey" json:"id"`
	CustomerID      snowflake.ID `gorm:"not null;index" json:"customer_id"`
	TotalAmount     int64        `gorm:"not null" json:"total_amount"`
	PaidAmount      int64        `gorm:"not null;default:0" json:"paid_amount"`
	PaymentType     string       `gorm:"not null" json:"payment_type"`
	Status          string       `gorm:"not null;default:'pending';index" json:"status"`
	DueDate         *time.Time   `json:"due_date,omitempty"`
	InterestRateBps int          `gorm:"not null;default:0" json:"interest_rate_bps"`
	Items           []SaleItem   `gorm:"foreignKey:SaleID" json:"items"`
	CreatedAt       time.Time    `gorm:"not null;default:CURRENT_TIMESTAMP;index" json:"created_at"`
	UpdatedAt       time.Time    `gorm:"not null;default:CURRENT_TIMESTAMP" json:"updated_at"`
}

func (Sale) TableName() string { return "sales" }

// Outstanding is the unpaid remainder of the sale.
func (s Sale) Outstanding() int64 {
	return s.TotalAmount - s.PaidAmount
}

func (s Sale) IsOpen() bool {
	return s.Status == StatusPending
}

// SaleItem is the immutable line snapshot taken at posting time: product name
// and unit price are copied so later product edits do not rewrite history.
type SaleItem struct {
	ID        snowflake.ID `gorm:"primaryKey" json:"id"`
	SaleID    snowflake.ID `gorm:"not null;index" json:"sale_id"`
	ProductID snowflake.ID `gorm:"not null;index" json:"product_id"`
	Name      string       `gorm:"not null" json:"name"`
	Quantity  int          `gorm:"not null" json:"quantity"`
	UnitPrice int64        `gorm:"not null" json:"unit_price"`
	Position  int          `gorm:"not null;default:0" json:"position"`
}

func (SaleItem) TableName() string { return "sale_items" }
