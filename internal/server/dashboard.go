package server

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
)

func (s *Server) getDashboardSummary(c *gin.Context) {
	summary, err := s.dashboard.Summary(c.Request.Context())
	if err != nil {
		c.Error(err)
		return
	}
	c.JSON(http.StatusOK, summary)
}

func (s *Server) getSalesTrends(c *gin.Context) {
	days, _ := strconv.Atoi(c.Query("days"))
	points, err := s.dashboard.SalesTrends(c.Request.Context(), days)
	if err != nil {
		c.Error(err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"trends": points})
}

func (s *Server) getTopProducts(c *gin.Context) {
	limit, _ := strconv.Atoi(c.Query("limit"))
	products, err := s.dashboard.TopProducts(c.Request.Context(), limit)
	if err != nil {
		c.Error(err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"products": products})
}

func (s *Server) getCreditAnalytics(c *gin.Context) {
	analytics, err := s.dashboard.CreditAnalytics(c.Request.Context())
	if err != nil {
		c.Error(err)
		return
	}
	c.JSON(http.StatusOK, analytics)
}

func (s *Server) getPaymentAnalytics(c *gin.Context) {
	breakdown, err := s.dashboard.PaymentAnalytics(c.Request.Context())
	if err != nil {
		c.Error(err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"methods": breakdown})
}

func (s *Server) getCustomerSegments(c *gin.Context) {
	segments, err := s.dashboard.CustomerSegments(c.Request.Context())
	if err != nil {
		c.Error(err)
		return
	}
	c.JSON(http.StatusOK, segments)
}
