package domain

import (
	"context"
	"errors"

	"github.com/agroflowhq/agroflow/pkg/db/pagination"
)

type CreateCustomerRequest struct {
	Name        string
	Code        string
	Email       string
	Phone       string
	Address     string
	CreditLimit int64
	CreditScore int
}

type UpdateCustomerRequest struct {
	ID          string
	Name        *string
	Email       *string
	Phone       *string
	Address     *string
	CreditLimit *int64
	CreditScore *int
}

type ListCustomerRequest struct {
	PageToken string
	PageSize  int
	Name      string
	Code      string
}

type ListCustomerResponse struct {
	pagination.PageInfo
	Customers []Customer `json:"customers"`
}

type GetCustomerRequest struct {
	ID string
}

type Service interface {
	Create(context.Context, CreateCustomerRequest) (Customer, error)
	Update(context.Context, UpdateCustomerRequest) (Customer, error)
	List(context.Context, ListCustomerRequest) (ListCustomerResponse, error)
	GetByID(context.Context, GetCustomerRequest) (Customer, error)
}

var (
	ErrInvalidName        = errors.New("invalid_name")
	ErrInvalidCode        = errors.New("invalid_code")
	ErrInvalidCreditLimit = errors.New("invalid_credit_limit")
	ErrInvalidID          = errors.New("invalid_id")
	ErrCodeTaken          = errors.New("code_taken")
	ErrNotFound           = errors.New("not_found")
)
