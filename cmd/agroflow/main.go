package main

import (
	"github.com/agroflowhq/agroflow/internal/cache"
	"github.com/agroflowhq/agroflow/internal/clock"
	"github.com/agroflowhq/agroflow/internal/config"
	"github.com/agroflowhq/agroflow/internal/customer"
	"github.com/agroflowhq/agroflow/internal/dashboard"
	"github.com/agroflowhq/agroflow/internal/gateway"
	"github.com/agroflowhq/agroflow/internal/gateway/razorpay"
	"github.com/agroflowhq/agroflow/internal/ledger"
	"github.com/agroflowhq/agroflow/internal/logger"
	"github.com/agroflowhq/agroflow/internal/migration"
	"github.com/agroflowhq/agroflow/internal/notification"
	"github.com/agroflowhq/agroflow/internal/observability/metrics"
	"github.com/agroflowhq/agroflow/internal/payment"
	"github.com/agroflowhq/agroflow/internal/product"
	"github.com/agroflowhq/agroflow/internal/sale"
	"github.com/agroflowhq/agroflow/internal/server"
	"github.com/agroflowhq/agroflow/pkg/db"
	"github.com/bwmarrin/snowflake"
	"go.uber.org/fx"
)

func newSnowflakeNode() (*snowflake.Node, error) {
	return snowflake.NewNode(1)
}

func main() {
	fx.New(
		config.Module,
		logger.Module,
		clock.Module,
		db.Module,
		migration.Module,
		cache.Module,
		metrics.Module,
		gateway.Module,
		razorpay.Module,

		fx.Provide(newSnowflakeNode),

		customer.Module,
		product.Module,
		ledger.Module,
		sale.Module,
		payment.Module,
		notification.Module,
		dashboard.Module,
		server.Module,
	).Run()
}
