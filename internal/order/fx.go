package order

import (
	"github.com/thiagosouza28/ideart-cloud/internal/order/service"
	"go.uber.org/fx"
)

var Module = fx.Module("order.service",
	fx.Provide(service.NewService),
)
