package service

import (
	"context"
	"testing"
	"time"

	"github.com/agroflowhq/agroflow/internal/config"
	customerdomain "github.com/agroflowhq/agroflow/internal/customer/domain"
	customerrepo "github.com/agroflowhq/agroflow/internal/customer/repository"
	ledgerservice "github.com/agroflowhq/agroflow/internal/ledger/service"
	productdomain "github.com/agroflowhq/agroflow/internal/product/domain"
	productrepo "github.com/agroflowhq/agroflow/internal/product/repository"
	"github.com/agroflowhq/agroflow/internal/sale/domain"
	salerepo "github.com/agroflowhq/agroflow/internal/sale/repository"
	"github.com/bwmarrin/snowflake"
	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type env struct {
	db   *gorm.DB
	node *snowflake.Node
	cfg  config.Config
}

func newEnv(t *testing.T) *env {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(
		&customerdomain.Customer{},
		&productdomain.Product{},
		&domain.Sale{},
		&domain.SaleItem{},
	))

	node, err := snowflake.NewNode(1)
	require.NoError(t, err)

	return &env{db: db, node: node, cfg: config.Config{
		UPIPayeeVPA:  "shop@upi",
		UPIPayeeName: "AgroFlow",
		Credit:       config.CreditConfig{Enforcement: config.EnforcementBlock},
	}}
}

func (e *env) service(t *testing.T) domain.Service {
	t.Helper()
	ledger := ledgerservice.New(ledgerservice.Params{
		DB:  e.db,
		Log: zap.NewNop(),
		Cfg: e.cfg,
	})
	return New(Params{
		DB:           e.db,
		Log:          zap.NewNop(),
		GenID:        e.node,
		Cfg:          e.cfg,
		Repo:         salerepo.Provide(),
		CustomerRepo: customerrepo.Provide(),
		ProductRepo:  productrepo.Provide(),
		Ledger:       ledger,
	})
}

func (e *env) seedCustomer(t *testing.T, limit, balance int64) snowflake.ID {
	t.Helper()
	id := e.node.Generate()
	require.NoError(t, e.db.Create(&customerdomain.Customer{
		ID:            id,
		Code:          "c-" + id.String(),
		Name:          "Test Customer",
		CreditLimit:   limit,
		CreditBalance: balance,
	}).Error)
	return id
}

func (e *env) seedProduct(t *testing.T, price int64, quantity int) snowflake.ID {
	t.Helper()
	id := e.node.Generate()
	require.NoError(t, e.db.Create(&productdomain.Product{
		ID:       id,
		SKU:      "sku-" + id.String(),
		Name:     "Urea 50kg",
		Price:    price,
		Quantity: quantity,
	}).Error)
	return id
}

func (e *env) productQuantity(t *testing.T, id snowflake.ID) int {
	t.Helper()
	var product productdomain.Product
	require.NoError(t, e.db.Where("id = ?", id).Take(&product).Error)
	return product.Quantity
}

func (e *env) customerBalance(t *testing.T, id snowflake.ID) int64 {
	t.Helper()
	var customer customerdomain.Customer
	require.NoError(t, e.db.Where("id = ?", id).Take(&customer).Error)
	return customer.CreditBalance
}

func TestPostCashSaleTotalsAndSnapshots(t *testing.T) {
	e := newEnv(t)
	svc := e.service(t)
	customerID := e.seedCustomer(t, 0, 0)
	// 2 x 10.00 + 1 x 5.00 = 25.00
	tenner := e.seedProduct(t, 1000, 10)
	fiver := e.seedProduct(t, 500, 10)

	resp, err := svc.Post(context.Background(), domain.PostSaleRequest{
		CustomerID:  customerID.String(),
		PaymentType: domain.PaymentTypeCash,
		Items: []domain.PostSaleLine{
			{ProductID: tenner.String(), Quantity: 2},
			{ProductID: fiver.String(), Quantity: 1},
		},
	})
	require.NoError(t, err)

	sale := resp.Sale
	assert.Equal(t, int64(2500), sale.TotalAmount)
	assert.Equal(t, int64(2500), sale.PaidAmount)
	assert.Equal(t, domain.StatusCompleted, sale.Status)
	require.Len(t, sale.Items, 2)
	assert.Equal(t, "Urea 50kg", sale.Items[0].Name)
	assert.Equal(t, int64(1000), sale.Items[0].UnitPrice)
	assert.Equal(t, 0, sale.Items[0].Position)
	assert.Equal(t, 1, sale.Items[1].Position)

	assert.Equal(t, 8, e.productQuantity(t, tenner))
	assert.Equal(t, 9, e.productQuantity(t, fiver))

	var customer customerdomain.Customer
	require.NoError(t, e.db.Where("id = ?", customerID).Take(&customer).Error)
	require.NotNil(t, customer.LastPurchaseDate)
}

func TestPostInsufficientStockRollsBackEverything(t *testing.T) {
	e := newEnv(t)
	svc := e.service(t)
	customerID := e.seedCustomer(t, 0, 0)
	plenty := e.seedProduct(t, 1000, 10)
	scarce := e.seedProduct(t, 500, 1)

	_, err := svc.Post(context.Background(), domain.PostSaleRequest{
		CustomerID:  customerID.String(),
		PaymentType: domain.PaymentTypeCash,
		Items: []domain.PostSaleLine{
			{ProductID: plenty.String(), Quantity: 3},
			{ProductID: scarce.String(), Quantity: 5},
		},
	})
	assert.ErrorIs(t, err, domain.ErrInsufficientStock)

	// the first line's decrement must not survive the failed second line
	assert.Equal(t, 10, e.productQuantity(t, plenty))
	assert.Equal(t, 1, e.productQuantity(t, scarce))

	var count int64
	require.NoError(t, e.db.Model(&domain.Sale{}).Count(&count).Error)
	assert.Zero(t, count)
}

func TestPostCreditSaleReservesBalance(t *testing.T) {
	e := newEnv(t)
	svc := e.service(t)
	customerID := e.seedCustomer(t, 10000, 0)
	productID := e.seedProduct(t, 2500, 10)
	due := time.Now().UTC().AddDate(0, 1, 0)

	resp, err := svc.Post(context.Background(), domain.PostSaleRequest{
		CustomerID:  customerID.String(),
		PaymentType: domain.PaymentTypeCredit,
		Items:       []domain.PostSaleLine{{ProductID: productID.String(), Quantity: 1}},
		CreditDetails: &domain.CreditDetails{
			DueDate:         due,
			InterestRateBps: 150,
		},
	})
	require.NoError(t, err)
	assert.Equal(t, domain.StatusPending, resp.Sale.Status)
	assert.Zero(t, resp.Sale.PaidAmount)
	require.NotNil(t, resp.Sale.DueDate)
	assert.Equal(t, 150, resp.Sale.InterestRateBps)
	assert.False(t, resp.CreditWarning)

	assert.Equal(t, int64(2500), e.customerBalance(t, customerID))
}

func TestPostCreditLimitExceededRollsBackStock(t *testing.T) {
	e := newEnv(t)
	svc := e.service(t)
	// limit 100.00, balance 90.00; a 20.00 credit sale must be rejected whole
	customerID := e.seedCustomer(t, 10000, 9000)
	productID := e.seedProduct(t, 2000, 10)
	due := time.Now().UTC().AddDate(0, 1, 0)

	_, err := svc.Post(context.Background(), domain.PostSaleRequest{
		CustomerID:    customerID.String(),
		PaymentType:   domain.PaymentTypeCredit,
		Items:         []domain.PostSaleLine{{ProductID: productID.String(), Quantity: 1}},
		CreditDetails: &domain.CreditDetails{DueDate: due},
	})
	assert.ErrorIs(t, err, domain.ErrCreditLimitExceeded)

	assert.Equal(t, 10, e.productQuantity(t, productID))
	assert.Equal(t, int64(9000), e.customerBalance(t, customerID))
}

func TestPostWarnModePostsPastLimit(t *testing.T) {
	e := newEnv(t)
	e.cfg.Credit.Enforcement = config.EnforcementWarn
	svc := e.service(t)
	customerID := e.seedCustomer(t, 10000, 9000)
	productID := e.seedProduct(t, 2000, 10)
	due := time.Now().UTC().AddDate(0, 1, 0)

	resp, err := svc.Post(context.Background(), domain.PostSaleRequest{
		CustomerID:    customerID.String(),
		PaymentType:   domain.PaymentTypeCredit,
		Items:         []domain.PostSaleLine{{ProductID: productID.String(), Quantity: 1}},
		CreditDetails: &domain.CreditDetails{DueDate: due},
	})
	require.NoError(t, err)
	assert.True(t, resp.CreditWarning)
	assert.Equal(t, int64(11000), e.customerBalance(t, customerID))
	assert.Equal(t, 9, e.productQuantity(t, productID))
}

func TestPostValidation(t *testing.T) {
	e := newEnv(t)
	svc := e.service(t)
	customerID := e.seedCustomer(t, 0, 0)
	productID := e.seedProduct(t, 1000, 10)

	_, err := svc.Post(context.Background(), domain.PostSaleRequest{
		CustomerID:  customerID.String(),
		PaymentType: "barter",
		Items:       []domain.PostSaleLine{{ProductID: productID.String(), Quantity: 1}},
	})
	assert.ErrorIs(t, err, domain.ErrInvalidPaymentType)

	_, err = svc.Post(context.Background(), domain.PostSaleRequest{
		CustomerID:  customerID.String(),
		PaymentType: domain.PaymentTypeCash,
	})
	assert.ErrorIs(t, err, domain.ErrInvalidItems)

	_, err = svc.Post(context.Background(), domain.PostSaleRequest{
		CustomerID:  customerID.String(),
		PaymentType: domain.PaymentTypeCash,
		Items:       []domain.PostSaleLine{{ProductID: productID.String(), Quantity: 0}},
	})
	assert.ErrorIs(t, err, domain.ErrInvalidItems)

	_, err = svc.Post(context.Background(), domain.PostSaleRequest{
		CustomerID:  customerID.String(),
		PaymentType: domain.PaymentTypeCredit,
		Items:       []domain.PostSaleLine{{ProductID: productID.String(), Quantity: 1}},
	})
	assert.ErrorIs(t, err, domain.ErrDueDateRequired)

	_, err = svc.Post(context.Background(), domain.PostSaleRequest{
		CustomerID:  e.node.Generate().String(),
		PaymentType: domain.PaymentTypeCash,
		Items:       []domain.PostSaleLine{{ProductID: productID.String(), Quantity: 1}},
	})
	assert.ErrorIs(t, err, domain.ErrCustomerNotFound)

	_, err = svc.Post(context.Background(), domain.PostSaleRequest{
		CustomerID:  customerID.String(),
		PaymentType: domain.PaymentTypeCash,
		Items:       []domain.PostSaleLine{{ProductID: e.node.Generate().String(), Quantity: 1}},
	})
	assert.ErrorIs(t, err, domain.ErrProductNotFound)
}

func TestUPIPayloadForOutstanding(t *testing.T) {
	e := newEnv(t)
	svc := e.service(t)
	customerID := e.seedCustomer(t, 10000, 0)
	productID := e.seedProduct(t, 2500, 10)
	due := time.Now().UTC().AddDate(0, 1, 0)

	resp, err := svc.Post(context.Background(), domain.PostSaleRequest{
		CustomerID:    customerID.String(),
		PaymentType:   domain.PaymentTypeCredit,
		Items:         []domain.PostSaleLine{{ProductID: productID.String(), Quantity: 1}},
		CreditDetails: &domain.CreditDetails{DueDate: due},
	})
	require.NoError(t, err)

	payload, err := svc.UPIPayload(context.Background(), resp.Sale.ID.String())
	require.NoError(t, err)
	assert.Contains(t, payload, "upi://pay?")
	assert.Contains(t, payload, "pa=shop%40upi")
	assert.Contains(t, payload, "am=25.00")
	assert.Contains(t, payload, "cu=INR")
}

func TestUPIPayloadSettledSale(t *testing.T) {
	e := newEnv(t)
	svc := e.service(t)
	customerID := e.seedCustomer(t, 0, 0)
	productID := e.seedProduct(t, 2500, 10)

	resp, err := svc.Post(context.Background(), domain.PostSaleRequest{
		CustomerID:  customerID.String(),
		PaymentType: domain.PaymentTypeCash,
		Items:       []domain.PostSaleLine{{ProductID: productID.String(), Quantity: 1}},
	})
	require.NoError(t, err)

	_, err = svc.UPIPayload(context.Background(), resp.Sale.ID.String())
	assert.ErrorIs(t, err, domain.ErrSaleSettled)
}

func TestUPIPayloadNotConfigured(t *testing.T) {
	e := newEnv(t)
	e.cfg.UPIPayeeVPA = ""
	svc := e.service(t)

	_, err := svc.UPIPayload(context.Background(), e.node.Generate().String())
	assert.ErrorIs(t, err, domain.ErrUPINotConfigured)
}

func TestListFiltersByCustomerAndStatus(t *testing.T) {
	e := newEnv(t)
	svc := e.service(t)
	first := e.seedCustomer(t, 0, 0)
	second := e.seedCustomer(t, 0, 0)
	productID := e.seedProduct(t, 1000, 100)

	for _, customerID := range []snowflake.ID{first, first, second} {
		_, err := svc.Post(context.Background(), domain.PostSaleRequest{
			CustomerID:  customerID.String(),
			PaymentType: domain.PaymentTypeCash,
			Items:       []domain.PostSaleLine{{ProductID: productID.String(), Quantity: 1}},
		})
		require.NoError(t, err)
	}

	resp, err := svc.List(context.Background(), domain.ListSaleRequest{CustomerID: first.String()})
	require.NoError(t, err)
	assert.Len(t, resp.Sales, 2)

	resp, err = svc.List(context.Background(), domain.ListSaleRequest{Status: domain.StatusPending})
	require.NoError(t, err)
	assert.Empty(t, resp.Sales)
}
