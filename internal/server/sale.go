package server

import (
	"net/http"
	"strconv"
	"time"

	saledomain "github.com/agroflowhq/agroflow/internal/sale/domain"
	"github.com/gin-gonic/gin"
)

type saleLineRequest struct {
	ProductID string `json:"product_id" binding:"required"`
	Quantity  int    `json:"quantity" binding:"required"`
}

type creditDetailsRequest struct {
	DueDate         string `json:"due_date" binding:"required"`
	InterestRateBps int    `json:"interest_rate_bps"`
}

type postSaleRequest struct {
	CustomerID  string                `json:"customer_id" binding:"required"`
	PaymentType string                `json:"payment_type" binding:"required"`
	Items       []saleLineRequest     `json:"items" binding:"required"`
	Credit      *creditDetailsRequest `json:"credit"`
}

func (s *Server) postSale(c *gin.Context) {
	var req postSaleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.Error(saledomain.ErrInvalidItems)
		return
	}

	post := saledomain.PostSaleRequest{
		CustomerID:  req.CustomerID,
		PaymentType: req.PaymentType,
		Items:       make([]saledomain.PostSaleLine, 0, len(req.Items)),
	}
	for _, line := range req.Items {
		post.Items = append(post.Items, saledomain.PostSaleLine{
			ProductID: line.ProductID,
			Quantity:  line.Quantity,
		})
	}
	if req.Credit != nil {
		due, err := time.Parse(time.RFC3339, req.Credit.DueDate)
		if err != nil {
			c.Error(saledomain.ErrDueDateRequired)
			return
		}
		post.CreditDetails = &saledomain.CreditDetails{
			DueDate:         due,
			InterestRateBps: req.Credit.InterestRateBps,
		}
	}

	resp, err := s.sales.Post(c.Request.Context(), post)
	if err != nil {
		c.Error(err)
		return
	}

	c.JSON(http.StatusCreated, resp)
}

func (s *Server) getSale(c *gin.Context) {
	sale, err := s.sales.GetByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		c.Error(err)
		return
	}
	c.JSON(http.StatusOK, sale)
}

func (s *Server) listSales(c *gin.Context) {
	pageSize, _ := strconv.Atoi(c.Query("page_size"))
	resp, err := s.sales.List(c.Request.Context(), saledomain.ListSaleRequest{
		PageToken:  c.Query("page_token"),
		PageSize:   pageSize,
		CustomerID: c.Query("customer_id"),
		Status:     c.Query("status"),
	})
	if err != nil {
		c.Error(err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (s *Server) getSaleQR(c *gin.Context) {
	payload, err := s.sales.UPIPayload(c.Request.Context(), c.Param("id"))
	if err != nil {
		c.Error(err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"payload": payload})
}
