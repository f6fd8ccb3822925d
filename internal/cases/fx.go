package cases

import (
	"github.com/retentionops/portal/internal/cases/repository"
	"github.com/retentionops/portal/internal/cases/service"
	"go.uber.org/fx"
)

var Module = fx.Module("cases.service",
	fx.Provide(repository.Provide),
	fx.Provide(service.New),
)
