package sale

import (
	"github.com/agroflowhq/agroflow/internal/sale/repository"
	"github.com/agroflowhq/agroflow/internal/sale/service"
	"go.uber.org/fx"
)

var Module = fx.Module("sale.service",
	fx.Provide(repository.Provide),
	fx.Provide(service.New),
)
