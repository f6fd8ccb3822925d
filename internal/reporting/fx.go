package reporting

import (
	"github.com/retentionops/portal/internal/reporting/repository"
	"github.com/retentionops/portal/internal/reporting/service"
	"go.uber.org/fx"
)

var Module = fx.Module("reporting.service",
	fx.Provide(repository.Provide),
	fx.Provide(service.New),
)
