package plan

import (
	"go.uber.org/fx"

	plandomain "github.com/thiagosouza28/ideart-cloud/internal/plan/domain"
	"github.com/thiagosouza28/ideart-cloud/internal/plan/service"
	"github.com/thiagosouza28/ideart-cloud/pkg/repository"
)

var Module = fx.Module("plan.service",
	fx.Provide(repository.ProvideStore[plandomain.Plan]),
	fx.Provide(service.NewService),
)
