package calls

import (
	"github.com/retentionops/portal/internal/calls/repository"
	"github.com/retentionops/portal/internal/calls/service"
	"go.uber.org/fx"
)

var Module = fx.Module("calls.service",
	fx.Provide(repository.Provide),
	fx.Provide(service.New),
)
