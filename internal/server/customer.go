package server

import (
	"errors"
	"net/http"
	"strconv"

	customerdomain "github.com/agroflowhq/agroflow/internal/customer/domain"
	ledgerdomain "github.com/agroflowhq/agroflow/internal/ledger/domain"
	"github.com/agroflowhq/agroflow/internal/money"
	"github.com/bwmarrin/snowflake"
	"github.com/gin-gonic/gin"
)

type createCustomerRequest struct {
	Name        string `json:"name" binding:"required"`
	Code        string `json:"code"`
	Email       string `json:"email"`
	Phone       string `json:"phone"`
	Address     string `json:"address"`
	CreditLimit string `json:"credit_limit"`
	CreditScore int    `json:"credit_score"`
}

type updateCustomerRequest struct {
	Name        *string `json:"name"`
	Email       *string `json:"email"`
	Phone       *string `json:"phone"`
	Address     *string `json:"address"`
	CreditLimit *string `json:"credit_limit"`
	CreditScore *int    `json:"credit_score"`
}

func (s *Server) createCustomer(c *gin.Context) {
	var req createCustomerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.Error(customerdomain.ErrInvalidName)
		return
	}

	var creditLimit int64
	if req.CreditLimit != "" {
		parsed, err := money.ParseMinor(req.CreditLimit)
		if err != nil || parsed < 0 {
			c.Error(customerdomain.ErrInvalidCreditLimit)
			return
		}
		creditLimit = parsed
	}

	customer, err := s.customers.Create(c.Request.Context(), customerdomain.CreateCustomerRequest{
		Name:        req.Name,
		Code:        req.Code,
		Email:       req.Email,
		Phone:       req.Phone,
		Address:     req.Address,
		CreditLimit: creditLimit,
		CreditScore: req.CreditScore,
	})
	if err != nil {
		c.Error(err)
		return
	}

	c.JSON(http.StatusCreated, customer)
}

func (s *Server) updateCustomer(c *gin.Context) {
	var req updateCustomerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.Error(customerdomain.ErrInvalidID)
		return
	}

	update := customerdomain.UpdateCustomerRequest{
		ID:          c.Param("id"),
		Name:        req.Name,
		Email:       req.Email,
		Phone:       req.Phone,
		Address:     req.Address,
		CreditScore: req.CreditScore,
	}
	if req.CreditLimit != nil {
		parsed, err := money.ParseMinor(*req.CreditLimit)
		if err != nil || parsed < 0 {
			c.Error(customerdomain.ErrInvalidCreditLimit)
			return
		}
		update.CreditLimit = &parsed
	}

	customer, err := s.customers.Update(c.Request.Context(), update)
	if err != nil {
		c.Error(err)
		return
	}

	c.JSON(http.StatusOK, customer)
}

func (s *Server) getCustomer(c *gin.Context) {
	customer, err := s.customers.GetByID(c.Request.Context(), customerdomain.GetCustomerRequest{ID: c.Param("id")})
	if err != nil {
		c.Error(err)
		return
	}
	c.JSON(http.StatusOK, customer)
}

func (s *Server) listCustomers(c *gin.Context) {
	pageSize, _ := strconv.Atoi(c.Query("page_size"))
	resp, err := s.customers.List(c.Request.Context(), customerdomain.ListCustomerRequest{
		PageToken: c.Query("page_token"),
		PageSize:  pageSize,
		Name:      c.Query("name"),
		Code:      c.Query("code"),
	})
	if err != nil {
		c.Error(err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

type creditResponse struct {
	CreditLimit   string `json:"credit_limit"`
	CreditBalance string `json:"credit_balance"`
	Available     string `json:"available"`
}

func (s *Server) getCustomerCredit(c *gin.Context) {
	id, err := snowflake.ParseString(c.Param("id"))
	if err != nil || id == 0 {
		c.Error(customerdomain.ErrInvalidID)
		return
	}

	available, err := s.ledger.AvailableCredit(c.Request.Context(), id)
	if err != nil {
		if errors.Is(err, ledgerdomain.ErrCustomerNotFound) {
			c.Error(customerdomain.ErrNotFound)
			return
		}
		c.Error(err)
		return
	}

	c.JSON(http.StatusOK, creditResponse{
		CreditLimit:   money.FormatMinor(available.CreditLimit),
		CreditBalance: money.FormatMinor(available.CreditBalance),
		Available:     money.FormatMinor(available.Available),
	})
}

func (s *Server) getCustomerNotifications(c *gin.Context) {
	resp, err := s.notifications.ForCustomer(c.Request.Context(), c.Param("id"))
	if err != nil {
		c.Error(err)
		return
	}
	c.JSON(http.StatusOK, resp)
}
