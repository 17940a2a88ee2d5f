package customer

import (
	"github.com/agroflowhq/agroflow/internal/customer/repository"
	"github.com/agroflowhq/agroflow/internal/customer/service"
	"go.uber.org/fx"
)

var Module = fx.Module("customer.service",
	fx.Provide(repository.Provide),
	fx.Provide(service.New),
)
