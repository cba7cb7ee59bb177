package customer

import (
	"github.com/thiagosouza28/ideart-cloud/internal/customer/service"
	"go.uber.org/fx"
)

var Module = fx.Module("customer.service",
	fx.Provide(service.NewService),
)
