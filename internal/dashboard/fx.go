package dashboard

import (
	"github.com/agroflowhq/agroflow/internal/dashboard/repository"
	"github.com/agroflowhq/agroflow/internal/dashboard/service"
	"go.uber.org/fx"
)

var Module = fx.Module("dashboard",
	fx.Provide(
		repository.Provide,
		service.New,
	),
)
