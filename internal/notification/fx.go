package notification

import (
	"github.com/agroflowhq/agroflow/internal/notification/repository"
	"github.com/agroflowhq/agroflow/internal/notification/service"
	"go.uber.org/fx"
)

var Module = fx.Module("notification",
	fx.Provide(
		repository.Provide,
		service.New,
	),
)
