package main

import (
	"github.com/bwmarrin/snowflake"
	"github.com/tallybook/tallybook/internal/clock"
	"github.com/tallybook/tallybook/internal/config"
	"github.com/tallybook/tallybook/internal/migration"
	"github.com/tallybook/tallybook/internal/observability"
	"github.com/tallybook/tallybook/internal/scheduler"
	"github.com/tallybook/tallybook/internal/server"
	"github.com/tallybook/tallybook/pkg/db"
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
		scheduler.Module,
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
