package server

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/agroflowhq/agroflow/internal/clock"
	"github.com/agroflowhq/agroflow/internal/config"
	customerdomain "github.com/agroflowhq/agroflow/internal/customer/domain"
	customerrepo "github.com/agroflowhq/agroflow/internal/customer/repository"
	customerservice "github.com/agroflowhq/agroflow/internal/customer/service"
	dashboardrepo "github.com/agroflowhq/agroflow/internal/dashboard/repository"
	dashboardservice "github.com/agroflowhq/agroflow/internal/dashboard/service"
	ledgerservice "github.com/agroflowhq/agroflow/internal/ledger/service"
	notificationrepo "github.com/agroflowhq/agroflow/internal/notification/repository"
	notificationservice "github.com/agroflowhq/agroflow/internal/notification/service"
	paymentdomain "github.com/agroflowhq/agroflow/internal/payment/domain"
	paymentrepo "github.com/agroflowhq/agroflow/internal/payment/repository"
	paymentservice "github.com/agroflowhq/agroflow/internal/payment/service"
	productdomain "github.com/agroflowhq/agroflow/internal/product/domain"
	productrepo "github.com/agroflowhq/agroflow/internal/product/repository"
	productservice "github.com/agroflowhq/agroflow/internal/product/service"
	saledomain "github.com/agroflowhq/agroflow/internal/sale/domain"
	salerepo "github.com/agroflowhq/agroflow/internal/sale/repository"
	saleservice "github.com/agroflowhq/agroflow/internal/sale/service"
	"github.com/bwmarrin/snowflake"
	"github.com/gin-gonic/gin"
	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

func newTestEngine(t *testing.T) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(
		&customerdomain.Customer{},
		&productdomain.Product{},
		&saledomain.Sale{},
		&saledomain.SaleItem{},
		&paymentdomain.Payment{},
	))

	node, err := snowflake.NewNode(1)
	require.NoError(t, err)

	cfg := config.Config{
		AppName:      "agroflow",
		AppVersion:   "test",
		UPIPayeeVPA:  "shop@upi",
		UPIPayeeName: "AgroFlow",
		Credit: config.CreditConfig{
			Enforcement:    config.EnforcementBlock,
			WarningRatio:   0.9,
			UpcomingWindow: 7 * 24 * time.Hour,
		},
	}
	log := zap.NewNop()

	customers := customerservice.New(customerservice.Params{DB: db, Log: log, GenID: node, Repo: customerrepo.Provide()})
	products := productservice.New(productservice.Params{DB: db, Log: log, GenID: node, Repo: productrepo.Provide()})
	ledger := ledgerservice.New(ledgerservice.Params{DB: db, Log: log, Cfg: cfg})
	sales := saleservice.New(saleservice.Params{
		DB: db, Log: log, GenID: node, Cfg: cfg,
		Repo:         salerepo.Provide(),
		CustomerRepo: customerrepo.Provide(),
		ProductRepo:  productrepo.Provide(),
		Ledger:       ledger,
	})
	payments := paymentservice.New(paymentservice.Params{
		DB: db, Log: log, GenID: node,
		Repo:     paymentrepo.Provide(),
		SaleRepo: salerepo.Provide(),
		Ledger:   ledger,
	})
	notifications := notificationservice.New(notificationservice.Params{
		DB: db, Log: log, Cfg: cfg,
		Clock:        clock.NewSystemClock(),
		Repo:         notificationrepo.Provide(),
		CustomerRepo: customerrepo.Provide(),
	})
	dash := dashboardservice.New(dashboardservice.Params{
		DB: db, Log: log, Cfg: cfg,
		Clock: clock.NewSystemClock(),
		Repo:  dashboardrepo.Provide(),
	})

	srv := New(Params{
		Cfg:           cfg,
		Log:           log,
		Customers:     customers,
		Products:      products,
		Sales:         sales,
		Payments:      payments,
		Ledger:        ledger,
		Notifications: notifications,
		Dashboard:     dash,
	})
	return srv.Engine()
}

func doJSON(t *testing.T, engine *gin.Engine, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var reader *bytes.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-User-ID", "u-1")
	req.Header.Set("X-User-Role", "admin")

	rec := httptest.NewRecorder()
	engine.ServeHTTP(rec, req)
	return rec
}

func decode(t *testing.T, rec *httptest.ResponseRecorder, out any) {
	t.Helper()
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), out))
}

func TestHealth(t *testing.T) {
	engine := newTestEngine(t)

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	rec := httptest.NewRecorder()
	engine.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.NotEmpty(t, rec.Header().Get("X-Request-Id"))
}

func TestAPIRequiresPrincipal(t *testing.T) {
	engine := newTestEngine(t)

	req := httptest.NewRequest(http.MethodGet, "/api/customers", nil)
	rec := httptest.NewRecorder()
	engine.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	var resp ErrorResponse
	decode(t, rec, &resp)
	assert.Equal(t, "unauthorized", resp.Error)
}

func TestSaleFlowOverHTTP(t *testing.T) {
	engine := newTestEngine(t)

	rec := doJSON(t, engine, http.MethodPost, "/api/customers", gin.H{
		"name":         "Ravi Traders",
		"credit_limit": "100.00",
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	var customer customerdomain.Customer
	decode(t, rec, &customer)
	assert.Equal(t, int64(10000), customer.CreditLimit)
	assert.Equal(t, "ravi-traders", customer.Code)

	rec = doJSON(t, engine, http.MethodPost, "/api/products", gin.H{
		"name":     "Urea 50kg",
		"sku":      "URZ-50",
		"price":    "10.00",
		"quantity": 10,
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	var product productdomain.Product
	decode(t, rec, &product)
	assert.Equal(t, int64(1000), product.Price)

	due := time.Now().UTC().AddDate(0, 1, 0).Format(time.RFC3339)
	rec = doJSON(t, engine, http.MethodPost, "/api/sales", gin.H{
		"customer_id":  customer.ID.String(),
		"payment_type": "credit",
		"items": []gin.H{
			{"product_id": product.ID.String(), "quantity": 2},
		},
		"credit": gin.H{"due_date": due},
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	var posted struct {
		Sale struct {
			ID          snowflake.ID `json:"id"`
			TotalAmount int64        `json:"total_amount"`
			Status      string       `json:"status"`
		} `json:"sale"`
	}
	decode(t, rec, &posted)
	assert.Equal(t, int64(2000), posted.Sale.TotalAmount)
	assert.Equal(t, "pending", posted.Sale.Status)

	rec = doJSON(t, engine, http.MethodGet, "/api/customers/"+customer.ID.String()+"/credit", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var credit creditResponse
	decode(t, rec, &credit)
	assert.Equal(t, "20.00", credit.CreditBalance)
	assert.Equal(t, "80.00", credit.Available)

	rec = doJSON(t, engine, http.MethodPost, "/api/payments", gin.H{
		"sale_id": posted.Sale.ID.String(),
		"amount":  "20.00",
		"method":  "cash",
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	var paymentResp paymentdomain.PostPaymentResponse
	decode(t, rec, &paymentResp)
	assert.True(t, paymentResp.SaleSettled)
	assert.NotEmpty(t, paymentResp.Payment.Reference)

	rec = doJSON(t, engine, http.MethodGet, "/api/customers/"+customer.ID.String()+"/credit", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	decode(t, rec, &credit)
	assert.Equal(t, "0.00", credit.CreditBalance)
}

func TestErrorEnvelopes(t *testing.T) {
	engine := newTestEngine(t)

	rec := doJSON(t, engine, http.MethodPost, "/api/customers", gin.H{"name": "Shop"})
	require.Equal(t, http.StatusCreated, rec.Code)
	var customer customerdomain.Customer
	decode(t, rec, &customer)

	rec = doJSON(t, engine, http.MethodPost, "/api/products", gin.H{
		"name": "Seeds", "sku": "S-1", "price": "5.00", "quantity": 1,
	})
	require.Equal(t, http.StatusCreated, rec.Code)
	var product productdomain.Product
	decode(t, rec, &product)

	rec = doJSON(t, engine, http.MethodPost, "/api/sales", gin.H{
		"customer_id":  customer.ID.String(),
		"payment_type": "cash",
		"items": []gin.H{
			{"product_id": product.ID.String(), "quantity": 5},
		},
	})
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	var errResp ErrorResponse
	decode(t, rec, &errResp)
	assert.Equal(t, "unprocessable", errResp.Error)
	assert.Equal(t, "insufficient_stock", errResp.Message)

	rec = doJSON(t, engine, http.MethodGet, "/api/sales/999999", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = doJSON(t, engine, http.MethodPost, "/api/payments", gin.H{
		"sale_id": "1", "amount": "-5.00", "method": "cash",
	})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	decode(t, rec, &errResp)
	assert.Equal(t, "validation_error", errResp.Error)
}

func TestProductMutationRequiresAdmin(t *testing.T) {
	engine := newTestEngine(t)

	raw, err := json.Marshal(gin.H{"name": "Seeds", "sku": "S-1", "price": "5.00"})
	require.NoError(t, err)
	req := httptest.NewRequest(http.MethodPost, "/api/products", bytes.NewReader(raw))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-User-ID", "u-2")
	req.Header.Set("X-User-Role", "staff")

	rec := httptest.NewRecorder()
	engine.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusForbidden, rec.Code)
}

func TestDashboardEndpoints(t *testing.T) {
	engine := newTestEngine(t)

	rec := doJSON(t, engine, http.MethodGet, "/api/dashboard/summary", nil)
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = doJSON(t, engine, http.MethodGet, "/api/dashboard/sales-trends?days=3", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
	var trends struct {
		Trends []struct {
			Date string `json:"date"`
		} `json:"trends"`
	}
	decode(t, rec, &trends)
	assert.Len(t, trends.Trends, 3)

	rec = doJSON(t, engine, http.MethodGet, "/api/analytics/customer-segments", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
}
