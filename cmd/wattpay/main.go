package main

import (
	"github.com/bwmarrin/snowflake"
	"github.com/wattpay/wattpay/internal/alarm"
	"github.com/wattpay/wattpay/internal/clock"
	"github.com/wattpay/wattpay/internal/config"
	"github.com/wattpay/wattpay/internal/logger"
	"github.com/wattpay/wattpay/internal/migration"
	"github.com/wattpay/wattpay/internal/observability/metrics"
	"github.com/wattpay/wattpay/internal/payment"
	"github.com/wattpay/wattpay/internal/pricefeed"
	"github.com/wattpay/wattpay/internal/ratelimit"
	"github.com/wattpay/wattpay/internal/reading"
	"github.com/wattpay/wattpay/internal/server"
	"github.com/wattpay/wattpay/internal/user"
	"github.com/wattpay/wattpay/internal/wallet"
	"github.com/wattpay/wattpay/pkg/db"
	"go.uber.org/fx"
)

func main() {
	app := fx.New(
		config.Module,
		logger.Module,
		fx.Provide(RegisterSnowflake),
		db.Module,
		clock.Module,
		migration.Module,
		metrics.Module,

		wallet.Module,
		user.Module,
		alarm.Module,
		pricefeed.Module,
		payment.Module,
		reading.Module,
		ratelimit.Module,

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
