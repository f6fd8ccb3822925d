package main

import (
	"github.com/bwmarrin/snowflake"
	"go.uber.org/fx"

	"github.com/retentionops/portal/internal/config"
	"github.com/retentionops/portal/internal/migration"
	"github.com/retentionops/portal/internal/observability"
	"github.com/retentionops/portal/internal/server"
	"github.com/retentionops/portal/pkg/db"
)

func main() {
	app := fx.New(
		// Core infrastructure
		config.Module,
		observability.Module,
		fx.Provide(RegisterSnowflake),
		db.Module,
		migration.Module,

		// HTTP surface; feature modules ride in through server.Module.
		server.Module,
	)
	app.Run()
}

func RegisterSnowflake() *snowflake.Node {
	node, err := snowflake.NewNode(1)
	if err != nil {
		panic(err)
	}
	return node
}
