package board

import (
	"github.com/retentionops/portal/internal/board/monday"
	"github.com/retentionops/portal/internal/board/service"
	"go.uber.org/fx"
)

var Module = fx.Module("board.service",
	fx.Provide(monday.NewClient),
	fx.Provide(service.New),
)
