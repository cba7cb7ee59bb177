package product

import (
	"github.com/thiagosouza28/ideart-cloud/internal/product/service"
	"go.uber.org/fx"
)

var Module = fx.Module("product.service",
	fx.Provide(service.NewService),
)
