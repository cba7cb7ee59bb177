package auth

import (
	"github.com/thiagosouza28/ideart-cloud/internal/auth/service"
	"go.uber.org/fx"
)

var Module = fx.Module("auth.service",
	fx.Provide(service.NewService),
)
