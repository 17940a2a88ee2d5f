package service

import (
	"context"
	"testing"
	"time"

	"github.com/agroflowhq/agroflow/internal/clock"
	"github.com/agroflowhq/agroflow/internal/config"
	customerdomain "github.com/agroflowhq/agroflow/internal/customer/domain"
	"github.com/agroflowhq/agroflow/internal/dashboard/domain"
	dashboardrepo "github.com/agroflowhq/agroflow/internal/dashboard/repository"
	paymentdomain "github.com/agroflowhq/agroflow/internal/payment/domain"
	productdomain "github.com/agroflowhq/agroflow/internal/product/domain"
	saledomain "github.com/agroflowhq/agroflow/internal/sale/domain"
	"github.com/bwmarrin/snowflake"
	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

var testNow = time.Date(2026, 3, 15, 15, 30, 0, 0, time.UTC)

type env struct {
	db   *gorm.DB
	node *snowflake.Node
	svc  domain.Service
}

func newEnv(t *testing.T) *env {
	t.Helper()

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

	svc := New(Params{
		DB:    db,
		Log:   zap.NewNop(),
		Cfg:   config.Config{Credit: config.CreditConfig{WarningRatio: 0.9}},
		Clock: clock.NewFakeClock(testNow),
		Repo:  dashboardrepo.Provide(),
	})

	return &env{db: db, node: node, svc: svc}
}

func (e *env) seedSale(t *testing.T, total int64, createdAt time.Time, status string) snowflake.ID {
	t.Helper()
	customerID := e.node.Generate()
	require.NoError(t, e.db.Create(&customerdomain.Customer{
		ID:   customerID,
		Code: "c-" + customerID.String(),
		Name: "Customer",
	}).Error)
	id := e.node.Generate()
	require.NoError(t, e.db.Create(&saledomain.Sale{
		ID:          id,
		CustomerID:  customerID,
		TotalAmount: total,
		PaymentType: saledomain.PaymentTypeCash,
		Status:      status,
		CreatedAt:   createdAt,
		UpdatedAt:   createdAt,
	}).Error)
	return id
}

func TestSummaryCountsTodayOnly(t *testing.T) {
	e := newEnv(t)
	e.seedSale(t, 2500, testNow.Add(-time.Hour), saledomain.StatusCompleted)
	e.seedSale(t, 1000, testNow.Add(-2*time.Hour), saledomain.StatusPending)
	e.seedSale(t, 9999, testNow.Add(-48*time.Hour), saledomain.StatusCompleted)
	e.seedSale(t, 500, testNow.Add(-time.Hour), saledomain.StatusCancelled)

	require.NoError(t, e.db.Create(&productdomain.Product{
		ID:             e.node.Generate(),
		SKU:            "sku-1",
		Name:           "Urea 50kg",
		Price:          1000,
		Quantity:       2,
		StockThreshold: 5,
	}).Error)

	summary, err := e.svc.Summary(context.Background())
	require.NoError(t, err)
	assert.Equal(t, int64(3500), summary.TodayRevenue)
	assert.Equal(t, int64(2), summary.TodaySales)
	assert.Equal(t, int64(1), summary.LowStockProducts)
	assert.Equal(t, testNow, summary.GeneratedAt)
}

func TestSummaryOutstandingCredit(t *testing.T) {
	e := newEnv(t)
	for _, balance := range []int64{1000, 2500} {
		id := e.node.Generate()
		require.NoError(t, e.db.Create(&customerdomain.Customer{
			ID:            id,
			Code:          "c-" + id.String(),
			Name:          "Customer",
			CreditLimit:   10000,
			CreditBalance: balance,
		}).Error)
	}

	summary, err := e.svc.Summary(context.Background())
	require.NoError(t, err)
	assert.Equal(t, int64(3500), summary.OutstandingCredit)
}

func TestSalesTrendsZeroFilled(t *testing.T) {
	e := newEnv(t)
	e.seedSale(t, 2000, testNow.Add(-time.Hour), saledomain.StatusCompleted)
	e.seedSale(t, 3000, testNow.AddDate(0, 0, -2), saledomain.StatusCompleted)
	e.seedSale(t, 7000, testNow.AddDate(0, 0, -10), saledomain.StatusCompleted)

	points, err := e.svc.SalesTrends(context.Background(), 7)
	require.NoError(t, err)
	require.Len(t, points, 7)

	assert.Equal(t, "2026-03-09", points[0].Date)
	assert.Equal(t, "2026-03-15", points[6].Date)
	assert.Equal(t, int64(2000), points[6].Revenue)
	assert.Equal(t, int64(1), points[6].Sales)
	assert.Equal(t, int64(3000), points[4].Revenue)
	assert.Zero(t, points[0].Revenue)
}

func TestTopProductsOrderedByRevenue(t *testing.T) {
	e := newEnv(t)
	saleID := e.seedSale(t, 10000, testNow, saledomain.StatusCompleted)
	seeds := []struct {
		name  string
		qty   int
		price int64
	}{
		{"Urea 50kg", 10, 500},
		{"DAP 50kg", 2, 1500},
		{"Seeds 1kg", 50, 200},
	}
	for i, seed := range seeds {
		require.NoError(t, e.db.Create(&saledomain.SaleItem{
			ID:        e.node.Generate(),
			SaleID:    saleID,
			ProductID: e.node.Generate(),
			Name:      seed.name,
			Quantity:  seed.qty,
			UnitPrice: seed.price,
			Position:  i,
		}).Error)
	}

	top, err := e.svc.TopProducts(context.Background(), 2)
	require.NoError(t, err)
	require.Len(t, top, 2)
	assert.Equal(t, "Seeds 1kg", top[0].Name)
	assert.Equal(t, int64(10000), top[0].Revenue)
	assert.Equal(t, "Urea 50kg", top[1].Name)
	assert.Equal(t, int64(50), top[0].QuantitySold)
}

func TestCreditAnalyticsBuckets(t *testing.T) {
	e := newEnv(t)
	seeds := []struct{ limit, balance int64 }{
		{10000, 1000}, // comfortable
		{10000, 6000}, // elevated
		{10000, 9500}, // critical
		{0, 0},        // no limit, not bucketed
	}
	for _, seed := range seeds {
		id := e.node.Generate()
		require.NoError(t, e.db.Create(&customerdomain.Customer{
			ID:            id,
			Code:          "c-" + id.String(),
			Name:          "Customer",
			CreditLimit:   seed.limit,
			CreditBalance: seed.balance,
		}).Error)
	}

	analytics, err := e.svc.CreditAnalytics(context.Background())
	require.NoError(t, err)
	assert.Equal(t, int64(30000), analytics.TotalLimit)
	assert.Equal(t, int64(16500), analytics.TotalOutstanding)
	assert.Equal(t, int64(1), analytics.Comfortable)
	assert.Equal(t, int64(1), analytics.Elevated)
	assert.Equal(t, int64(1), analytics.Critical)
}

func TestPaymentAnalyticsGroupsByMethod(t *testing.T) {
	e := newEnv(t)
	saleID := e.seedSale(t, 10000, testNow, saledomain.StatusPending)
	seeds := []struct {
		method string
		amount int64
	}{
		{paymentdomain.MethodCash, 1000},
		{paymentdomain.MethodCash, 2000},
		{paymentdomain.MethodOnline, 5000},
	}
	for _, seed := range seeds {
		require.NoError(t, e.db.Create(&paymentdomain.Payment{
			ID:         e.node.Generate(),
			SaleID:     saleID,
			CustomerID: e.node.Generate(),
			Amount:     seed.amount,
			Method:     seed.method,
			CreatedAt:  testNow,
		}).Error)
	}

	breakdown, err := e.svc.PaymentAnalytics(context.Background())
	require.NoError(t, err)
	require.Len(t, breakdown, 2)
	assert.Equal(t, paymentdomain.MethodOnline, breakdown[0].Method)
	assert.Equal(t, int64(5000), breakdown[0].Total)
	assert.Equal(t, paymentdomain.MethodCash, breakdown[1].Method)
	assert.Equal(t, int64(2), breakdown[1].Count)
	assert.Equal(t, int64(3000), breakdown[1].Total)
}

func TestCustomerSegmentsByRecency(t *testing.T) {
	e := newEnv(t)
	recent := testNow.Add(-5 * 24 * time.Hour)
	stale := testNow.Add(-45 * 24 * time.Hour)
	ancient := testNow.Add(-200 * 24 * time.Hour)
	seeds := []*time.Time{&recent, &stale, &ancient, nil}
	for _, date := range seeds {
		id := e.node.Generate()
		require.NoError(t, e.db.Create(&customerdomain.Customer{
			ID:               id,
			Code:             "c-" + id.String(),
			Name:             "Customer",
			LastPurchaseDate: date,
		}).Error)
	}

	segments, err := e.svc.CustomerSegments(context.Background())
	require.NoError(t, err)
	assert.Equal(t, int64(1), segments.Active)
	assert.Equal(t, int64(1), segments.AtRisk)
	assert.Equal(t, int64(1), segments.Dormant)
	assert.Equal(t, int64(1), segments.NeverPurchased)
}
