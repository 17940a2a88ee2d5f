package domain

import (
	"context"
	"errors"

	"github.com/agroflowhq/agroflow/pkg/db/pagination"
)

type CreateProductRequest struct {
	SKU             string
	Name            string
	Description     string
	Category        string
	Price           int64
	Quantity        int
	StockThreshold  int
	SupplierName    string
	SupplierContact string
}

type UpdateProductRequest struct {
	ID              string
	Name            *string
	Description     *string
	Category        *string
	Price           *int64
	Quantity        *int
	StockThreshold  *int
	SupplierName    *string
	SupplierContact *string
}

type ListProductRequest struct {
	PageToken string
	PageSize  int
	Name      string
	Category  string
}

type ListProductResponse struct {
	pagination.PageInfo
	Products []Product `json:"products"`
}

type Service interface {
	Create(context.Context, CreateProductRequest) (Product, error)
	Update(context.Context, UpdateProductRequest) (Product, error)
	List(context.Context, ListProductRequest) (ListProductResponse, error)
	GetByID(ctx context.Context, id string) (Product, error)
	LowStock(ctx context.Context) ([]Product, error)
}

var (
	ErrInvalidSKU      = errors.New("invalid_sku")
	ErrInvalidName     = errors.New("invalid_name")
	ErrInvalidPrice    = errors.New("invalid_price")
	ErrInvalidQuantity = errors.New("invalid_quantity")
	ErrInvalidID       = errors.New("invalid_id")
	ErrSKUTaken        = errors.New("sku_taken")
	ErrNotFound        = errors.New("not_found")
)
