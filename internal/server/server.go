package server

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/agroflowhq/agroflow/internal/config"
	customerdomain "github.com/agroflowhq/agroflow/internal/customer/domain"
	dashboarddomain "github.com/agroflowhq/agroflow/internal/dashboard/domain"
	ledgerdomain "github.com/agroflowhq/agroflow/internal/ledger/domain"
	notificationdomain "github.com/agroflowhq/agroflow/internal/notification/domain"
	obslogger "github.com/agroflowhq/agroflow/internal/observability/logger"
	obsmetrics "github.com/agroflowhq/agroflow/internal/observability/metrics"
	paymentdomain "github.com/agroflowhq/agroflow/internal/payment/domain"
	productdomain "github.com/agroflowhq/agroflow/internal/product/domain"
	saledomain "github.com/agroflowhq/agroflow/internal/sale/domain"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

type Params struct {
	fx.In

	Cfg           config.Config
	Log           *zap.Logger
	Customers     customerdomain.Service
	Products      productdomain.Service
	Sales         saledomain.Service
	Payments      paymentdomain.Service
	Ledger        ledgerdomain.Service
	Notifications notificationdomain.Service
	Dashboard     dashboarddomain.Service
	Metrics       *obsmetrics.Metrics `optional:"true"`
}

type Server struct {
	cfg           config.Config
	log           *zap.Logger
	customers     customerdomain.Service
	products      productdomain.Service
	sales         saledomain.Service
	payments      paymentdomain.Service
	ledger        ledgerdomain.Service
	notifications notificationdomain.Service
	dashboard     dashboarddomain.Service
	metrics       *obsmetrics.Metrics
}

func New(p Params) *Server {
	return &Server{
		cfg:           p.Cfg,
		log:           p.Log.Named("server"),
		customers:     p.Customers,
		products:      p.Products,
		sales:         p.Sales,
		payments:      p.Payments,
		ledger:        p.Ledger,
		notifications: p.Notifications,
		dashboard:     p.Dashboard,
		metrics:       p.Metrics,
	}
}

// Engine builds the gin engine with the full middleware chain and routes.
func (s *Server) Engine() *gin.Engine {
	if s.cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	engine := gin.New()
	engine.Use(gin.Recovery())
	engine.Use(obslogger.GinMiddleware(obslogger.MiddlewareConfig{
		Log:             s.log,
		ErrorClassifier: Classify,
	}))
	engine.Use(obsmetrics.GinMiddleware(s.metrics))
	engine.Use(ErrorHandlingMiddleware())

	engine.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":  "ok",
			"service": s.cfg.AppName,
			"version": s.cfg.AppVersion,
		})
	})
	if s.cfg.Metrics.Enabled {
		engine.GET("/metrics", gin.WrapH(promhttp.Handler()))
	}

	api := engine.Group("/api")
	api.Use(PrincipalMiddleware())

	api.POST("/customers", s.createCustomer)
	api.GET("/customers", s.listCustomers)
	api.GET("/customers/:id", s.getCustomer)
	api.PUT("/customers/:id", s.updateCustomer)
	api.GET("/customers/:id/credit", s.getCustomerCredit)
	api.GET("/customers/:id/notifications", s.getCustomerNotifications)

	api.POST("/products", RequireAdmin(), s.createProduct)
	api.GET("/products", s.listProducts)
	api.GET("/products/low-stock", s.listLowStockProducts)
	api.GET("/products/:id", s.getProduct)
	api.PUT("/products/:id", RequireAdmin(), s.updateProduct)

	api.POST("/sales", s.postSale)
	api.GET("/sales", s.listSales)
	api.GET("/sales/:id", s.getSale)
	api.GET("/sales/:id/qr", s.getSaleQR)
	api.GET("/sales/:id/payments", s.listSalePayments)
	api.POST("/sales/:id/order", s.createPaymentOrder)

	api.POST("/payments", s.postPayment)
	api.POST("/payments/bulk", s.postBulkPayments)
	api.GET("/payments", s.listPayments)
	api.GET("/orders/:id", s.getOrderStatus)

	api.GET("/dashboard/summary", s.getDashboardSummary)
	api.GET("/dashboard/sales-trends", s.getSalesTrends)
	api.GET("/dashboard/top-products", s.getTopProducts)

	api.GET("/analytics/credit", s.getCreditAnalytics)
	api.GET("/analytics/payments", s.getPaymentAnalytics)
	api.GET("/analytics/customer-segments", s.getCustomerSegments)

	return engine
}

// Run wires the HTTP server into the fx lifecycle.
func Run(lc fx.Lifecycle, s *Server) {
	srv := &http.Server{
		Addr:              s.cfg.HTTPAddr,
		Handler:           s.Engine(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			go func() {
				s.log.Info("http server listening", zap.String("addr", srv.Addr))
				if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
					s.log.Error("http server stopped", zap.Error(err))
				}
			}()
			return nil
		},
		OnStop: func(ctx context.Context) error {
			return srv.Shutdown(ctx)
		},
	})
}

var Module = fx.Module("server",
	fx.Provide(New),
	fx.Invoke(Run),
)
