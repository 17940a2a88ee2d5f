package server

import (
	"net/http"
	"strconv"

	"github.com/agroflowhq/agroflow/internal/money"
	paymentdomain "github.com/agroflowhq/agroflow/internal/payment/domain"
	"github.com/gin-gonic/gin"
)

type gatewayDetailsRequest struct {
	OrderID   string `json:"order_id" binding:"required"`
	PaymentID string `json:"payment_id" binding:"required"`
	Signature string `json:"signature" binding:"required"`
}

type postPaymentRequest struct {
	SaleID    string                 `json:"sale_id" binding:"required"`
	Amount    string                 `json:"amount" binding:"required"`
	Method    string                 `json:"method" binding:"required"`
	Reference string                 `json:"reference"`
	Notes     string                 `json:"notes"`
	Gateway   *gatewayDetailsRequest `json:"gateway"`
}

func (r postPaymentRequest) toDomain() (paymentdomain.PostPaymentRequest, error) {
	amount, err := money.ParsePositiveMinor(r.Amount)
	if err != nil {
		return paymentdomain.PostPaymentRequest{}, paymentdomain.ErrInvalidAmount
	}

	req := paymentdomain.PostPaymentRequest{
		SaleID:    r.SaleID,
		Amount:    amount,
		Method:    r.Method,
		Reference: r.Reference,
		Notes:     r.Notes,
	}
	if r.Gateway != nil {
		req.Gateway = &paymentdomain.GatewayDetails{
			OrderID:   r.Gateway.OrderID,
			PaymentID: r.Gateway.PaymentID,
			Signature: r.Gateway.Signature,
		}
	}
	return req, nil
}

func (s *Server) postPayment(c *gin.Context) {
	var req postPaymentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.Error(paymentdomain.ErrInvalidAmount)
		return
	}

	post, err := req.toDomain()
	if err != nil {
		c.Error(err)
		return
	}

	resp, err := s.payments.Post(c.Request.Context(), post)
	if err != nil {
		c.Error(err)
		return
	}

	c.JSON(http.StatusCreated, resp)
}

type bulkPaymentRequest struct {
	Payments []postPaymentRequest `json:"payments" binding:"required"`
}

func (s *Server) postBulkPayments(c *gin.Context) {
	var req bulkPaymentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.Error(paymentdomain.ErrEmptyBatch)
		return
	}

	posts := make([]paymentdomain.PostPaymentRequest, 0, len(req.Payments))
	for _, entry := range req.Payments {
		post, err := entry.toDomain()
		if err != nil {
			// carry the bad amount through so the batch result reports it
			post = paymentdomain.PostPaymentRequest{SaleID: entry.SaleID, Method: entry.Method}
		}
		posts = append(posts, post)
	}

	resp, err := s.payments.PostBulk(c.Request.Context(), posts)
	if err != nil {
		c.Error(err)
		return
	}

	c.JSON(http.StatusOK, resp)
}

func (s *Server) createPaymentOrder(c *gin.Context) {
	order, err := s.payments.CreateOrder(c.Request.Context(), c.Param("id"))
	if err != nil {
		c.Error(err)
		return
	}
	c.JSON(http.StatusCreated, order)
}

func (s *Server) getOrderStatus(c *gin.Context) {
	order, status, err := s.payments.OrderStatus(c.Request.Context(), c.Param("id"))
	if err != nil {
		c.Error(err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"order": order, "status": status})
}

func (s *Server) listSalePayments(c *gin.Context) {
	payments, err := s.payments.ListBySale(c.Request.Context(), c.Param("id"))
	if err != nil {
		c.Error(err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"payments": payments})
}

func (s *Server) listPayments(c *gin.Context) {
	pageSize, _ := strconv.Atoi(c.Query("page_size"))
	resp, err := s.payments.List(c.Request.Context(), paymentdomain.ListPaymentRequest{
		PageToken:  c.Query("page_token"),
		PageSize:   pageSize,
		CustomerID: c.Query("customer_id"),
	})
	if err != nil {
		c.Error(err)
		return
	}
	c.JSON(http.StatusOK, resp)
}
