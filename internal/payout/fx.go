package payout

import (
	"github.com/retentionops/portal/internal/payout/service"
	"github.com/retentionops/portal/internal/payout/stripe"
	"go.uber.org/fx"
)

var Module = fx.Module("payout.service",
	fx.Provide(stripe.NewGateway),
	fx.Provide(service.New),
)
