package auth

import (
	"github.com/retentionops/portal/internal/auth/repository"
	"github.com/retentionops/portal/internal/auth/service"
	"go.uber.org/fx"
)

var Module = fx.Module("auth.service",
	fx.Provide(repository.New),
	fx.Provide(service.New),
)
