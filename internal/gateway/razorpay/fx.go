package razorpay

import (
	"github.com/agroflowhq/agroflow/internal/config"
	"github.com/agroflowhq/agroflow/internal/gateway"
	"go.uber.org/fx"
)

func Provide(cfg config.Config) gateway.Gateway {
	return New(cfg.RazorpayKeyID, cfg.RazorpayKeySecret)
}

var Module = fx.Module("gateway.razorpay",
	fx.Provide(Provide),
)
