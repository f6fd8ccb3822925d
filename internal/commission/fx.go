package commission

import (
	"github.com/retentionops/portal/internal/commission/repository"
	"go.uber.org/fx"
)

var Module = fx.Module("commission",
	fx.Provide(repository.Provide),
)
