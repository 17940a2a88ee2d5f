package payment

import (
	"github.com/agroflowhq/agroflow/internal/payment/repository"
	"github.com/agroflowhq/agroflow/internal/payment/service"
	"go.uber.org/fx"
)

var Module = fx.Module("payment",
	fx.Provide(
		repository.Provide,
		service.New,
	),
)
