package domain

import (
	"time"

	"github.com/bwmarrin/snowflake"
	"gorm.io/datatypes"
)

type Product struct {
	ID              snowflake.ID      `gorm:"primaryKey" json:"id"`
	SKU             string            `gorm:"column:sku;not null;uniqueIndex:ux_products_sku" json:"sku"`
	Name            string            `gorm:"not null" json:"name"`
	Description     string            `gorm:"not null;default:''" json:"description,omitempty"`
	Category        string            `gorm:"not null;default:''" json:"category,omitempty"`
	Price           int64             `gorm:"not null;default:0" json:"price"`
	Quantity        int               `gorm:"not null;default:0" json:"quantity"`
	StockThreshold  int               `gorm:"not null;default:0" json:"stock_threshold"`
	SupplierName    string            `gorm:"not null;default:''" json:"supplier_name,omitempty"`
	SupplierContact string            `gorm:"not null;default:''" json:"supplier_contact,omitempty"`
	Metadata        datatypes.JSONMap `gorm:"type:jsonb" json:"metadata,omitempty"`
	CreatedAt       time.Time         `gorm:"not null;default:CURRENT_TIMESTAMP" json:"created_at"`
	UpdatedAt       time.Time         `gorm:"not null;default:CURRENT_TIMESTAMP" json:"updated_at"`
}

func (Product) TableName() string { return "products" }

// LowStock reports whether on-hand quantity has fallen to the reorder threshold.
func (p Product) LowStock() bool {
	return p.Quantity <= p.StockThreshold
}
