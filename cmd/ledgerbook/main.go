package main

import (
	"github.com/bwmarrin/snowflake"
	"github.com/shopspring/decimal"
	"github.com/smallbiznis/ledgerbook/internal/cache"
	"github.com/smallbiznis/ledgerbook/internal/clock"
	"github.com/smallbiznis/ledgerbook/internal/config"
	"github.com/smallbiznis/ledgerbook/internal/idempotency"
	"github.com/smallbiznis/ledgerbook/internal/migration"
	"github.com/smallbiznis/ledgerbook/internal/observability"
	"github.com/smallbiznis/ledgerbook/internal/scheduler"
	"github.com/smallbiznis/ledgerbook/internal/server"
	"github.com/smallbiznis/ledgerbook/pkg/db"
	"go.uber.org/fx"
)

func main() {
	// Amounts go over the wire as JSON numbers.
	decimal.MarshalJSONWithoutQuotes = true

	app := fx.New(
		config.Module,
		observability.Module,
		fx.Provide(RegisterSnowflake),
		db.Module,
		clock.Module,
		cache.Module,
		idempotency.Module,
		migration.Module,
		server.Module,
		scheduler.Module,
	)
	app.Run()
}

func RegisterSnowflake(cfg config.Config) (*snowflake.Node, error) {
	return snowflake.NewNode(cfg.NodeID)
}
