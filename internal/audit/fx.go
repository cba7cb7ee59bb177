package audit

import (
	"github.com/thiagosouza28/ideart-cloud/internal/audit/repository"
	"github.com/thiagosouza28/ideart-cloud/internal/audit/service"
	"go.uber.org/fx"
)

var Module = fx.Module("audit.service",
	fx.Provide(repository.Provide),
	fx.Provide(service.NewService),
)
