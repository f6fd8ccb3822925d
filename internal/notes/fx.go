package notes

import (
	"github.com/retentionops/portal/internal/notes/repository"
	"github.com/retentionops/portal/internal/notes/service"
	"go.uber.org/fx"
)

var Module = fx.Module("notes.service",
	fx.Provide(repository.Provide),
	fx.Provide(service.New),
)
