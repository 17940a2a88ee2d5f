package product

import (
	"github.com/agroflowhq/agroflow/internal/product/cache"
	"github.com/agroflowhq/agroflow/internal/product/repository"
	"github.com/agroflowhq/agroflow/internal/product/service"
	"go.uber.org/fx"
)

var Module = fx.Module("product.service",
	fx.Provide(repository.Provide),
	fx.Provide(service.New),
	fx.Decorate(cache.Wrap),
)
