package report

import (
	"github.com/thiagosouza28/ideart-cloud/internal/report/service"
	"go.uber.org/fx"
)

var Module = fx.Module("report.service",
	fx.Provide(service.NewService),
)
