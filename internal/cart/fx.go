package cart

import (
	"github.com/thiagosouza28/ideart-cloud/internal/cart/service"
	"go.uber.org/fx"
)

var Module = fx.Module("cart.service",
	fx.Provide(service.NewService),
)
