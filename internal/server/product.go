package server

import (
	"net/http"
	"strconv"

	"github.com/agroflowhq/agroflow/internal/money"
	productdomain "github.com/agroflowhq/agroflow/internal/product/domain"
	"github.com/gin-gonic/gin"
)

type createProductRequest struct {
	SKU             string `json:"sku"`
	Name            string `json:"name" binding:"required"`
	Description     string `json:"description"`
	Category        string `json:"category"`
	Price           string `json:"price" binding:"required"`
	Quantity        int    `json:"quantity"`
	StockThreshold  int    `json:"stock_threshold"`
	SupplierName    string `json:"supplier_name"`
	SupplierContact string `json:"supplier_contact"`
}

type updateProductRequest struct {
	Name            *string `json:"name"`
	Description     *string `json:"description"`
	Category        *string `json:"category"`
	Price           *string `json:"price"`
	Quantity        *int    `json:"quantity"`
	StockThreshold  *int    `json:"stock_threshold"`
	SupplierName    *string `json:"supplier_name"`
	SupplierContact *string `json:"supplier_contact"`
}

func (s *Server) createProduct(c *gin.Context) {
	var req createProductRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.Error(productdomain.ErrInvalidName)
		return
	}

	price, err := money.ParseMinor(req.Price)
	if err != nil || price < 0 {
		c.Error(productdomain.ErrInvalidPrice)
		return
	}

	product, err := s.products.Create(c.Request.Context(), productdomain.CreateProductRequest{
		SKU:             req.SKU,
		Name:            req.Name,
		Description:     req.Description,
		Category:        req.Category,
		Price:           price,
		Quantity:        req.Quantity,
		StockThreshold:  req.StockThreshold,
		SupplierName:    req.SupplierName,
		SupplierContact: req.SupplierContact,
	})
	if err != nil {
		c.Error(err)
		return
	}

	c.JSON(http.StatusCreated, product)
}

func (s *Server) updateProduct(c *gin.Context) {
	var req updateProductRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.Error(productdomain.ErrInvalidID)
		return
	}

	update := productdomain.UpdateProductRequest{
		ID:              c.Param("id"),
		Name:            req.Name,
		Description:     req.Description,
		Category:        req.Category,
		Quantity:        req.Quantity,
		StockThreshold:  req.StockThreshold,
		SupplierName:    req.SupplierName,
		SupplierContact: req.SupplierContact,
	}
	if req.Price != nil {
		price, err := money.ParseMinor(*req.Price)
		if err != nil || price < 0 {
			c.Error(productdomain.ErrInvalidPrice)
			return
		}
		update.Price = &price
	}

	product, err := s.products.Update(c.Request.Context(), update)
	if err != nil {
		c.Error(err)
		return
	}

	c.JSON(http.StatusOK, product)
}

func (s *Server) getProduct(c *gin.Context) {
	product, err := s.products.GetByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		c.Error(err)
		return
	}
	c.JSON(http.StatusOK, product)
}

func (s *Server) listProducts(c *gin.Context) {
	pageSize, _ := strconv.Atoi(c.Query("page_size"))
	resp, err := s.products.List(c.Request.Context(), productdomain.ListProductRequest{
		PageToken: c.Query("page_token"),
		PageSize:  pageSize,
		Name:      c.Query("name"),
		Category:  c.Query("category"),
	})
	if err != nil {
		c.Error(err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (s *Server) listLowStockProducts(c *gin.Context) {
	products, err := s.products.LowStock(c.Request.Context())
	if err != nil {
		c.Error(err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"products": products})
}
