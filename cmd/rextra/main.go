package main

import (
	"github.com/bwmarrin/snowflake"
	"github.com/rextra/rextra/internal/clock"
	"github.com/rextra/rextra/internal/config"
	"github.com/rextra/rextra/internal/migration"
	"github.com/rextra/rextra/internal/observability"
	"github.com/rextra/rextra/internal/server"
	"github.com/rextra/rextra/pkg/db"
	"go.uber.org/fx"
)

func main() {
	app := fx.New(
		config.Module,
		observability.Module,
		fx.Provide(RegisterSnowflake),
		db.Module,
		clock.Module,
		migration.Module,
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
