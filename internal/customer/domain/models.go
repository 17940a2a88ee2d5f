package domain

import (
	"time"

	"github.com/bwmarrin/snowflake"
	"gorm.io/datatypes"
)

type Customer struct {
	ID               snowflake.ID      `gorm:"primaryKey" json:"id"`
	Code             string            `gorm:"not null;uniqueIndex:ux_customers_code" json:"code"`
	Name             string            `gorm:"not null" json:"name"`
	Email            string            `gorm:"not null;default:''" json:"email,omitempty"`
	Phone            string            `gorm:"not null;default:''" json:"phone,omitempty"`
	Address          string            `gorm:"not null;default:''" json:"address,omitempty"`
	CreditLimit      int64             `gorm:"not null;default:0" json:"credit_limit"`
	CreditBalance    int64             `gorm:"not null;default:0" json:"credit_balance"`
	CreditScore      int               `gorm:"not null;default:0" json:"credit_score"`
	LastPurchaseDate *time.Time        `json:"last_purchase_date,omitempty"`
	Metadata         datatypes.JSONMap `gorm:"type:jsonb" json:"metadata,omitempty"`
	CreatedAt        time.Time         `gorm:"not null;default:CURRENT_TIMESTAMP" json:"created_at"`
	UpdatedAt        time.Time         `gorm:"not null;default:CURRENT_TIMESTAMP" json:"updated_at"`
}

func (Customer) TableName() string { return "customers" }
