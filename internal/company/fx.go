package company

import (
	"github.com/thiagosouza28/ideart-cloud/internal/company/service"
	"go.uber.org/fx"
)

var Module = fx.Module("company.service",
	fx.Provide(service.NewService),
)
