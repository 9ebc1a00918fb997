package main

import (
	"github.com/bwmarrin/snowflake"
	"github.com/smallbiznis/balanza/internal/clock"
	"github.com/smallbiznis/balanza/internal/config"
	"github.com/smallbiznis/balanza/internal/migration"
	"github.com/smallbiznis/balanza/internal/observability"
	"github.com/smallbiznis/balanza/internal/server"
	"github.com/smallbiznis/balanza/pkg/db"
	"go.uber.org/fx"
)

func main() {
	app := fx.New(
		config.Module,
		observability.Module,
		fx.Provide(RegisterSnowflake),
		db.Module,
		clock.Module,
		server.Module,
		migration.Module,
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
