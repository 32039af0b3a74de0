// Command seeder loads a year of demo readings for a user. Set SEED_USER_ID
// to seed an existing user; otherwise a demo user is created.
package main

import (
	"context"
	"os"
	"strings"

	"github.com/bwmarrin/snowflake"
	"github.com/wattpay/wattpay/internal/clock"
	"github.com/wattpay/wattpay/internal/config"
	"github.com/wattpay/wattpay/internal/logger"
	"github.com/wattpay/wattpay/internal/migration"
	readingrepo "github.com/wattpay/wattpay/internal/reading/repository"
	"github.com/wattpay/wattpay/internal/seed"
	"github.com/wattpay/wattpay/internal/user"
	userdomain "github.com/wattpay/wattpay/internal/user/domain"
	"github.com/wattpay/wattpay/internal/wallet"
	"github.com/wattpay/wattpay/pkg/db"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

func main() {
	app := fx.New(
		config.Module,
		logger.Module,
		fx.Provide(RegisterSnowflake),
		db.Module,
		clock.Module,
		migration.Module,

		wallet.Module,
		user.Module,
		fx.Provide(readingrepo.Provide),
		fx.Provide(seed.New),

		fx.Invoke(run),
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

func run(lc fx.Lifecycle, sh fx.Shutdowner, seeder *seed.Seeder, usersvc userdomain.Service, clk clock.Clock, log *zap.Logger) {
	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			go func() {
				if err := seedOnce(context.Background(), seeder, usersvc, clk); err != nil {
					log.Error("seeding failed", zap.Error(err))
				}
				_ = sh.Shutdown()
			}()
			return nil
		},
	})
}

func seedOnce(ctx context.Context, seeder *seed.Seeder, usersvc userdomain.Service, clk clock.Clock) error {
	target, err := resolveUser(ctx, usersvc)
	if err != nil {
		return err
	}
	return seeder.Run(ctx, target, clk.Now())
}

func resolveUser(ctx context.Context, usersvc userdomain.Service) (*userdomain.User, error) {
	if id := strings.TrimSpace(os.Getenv("SEED_USER_ID")); id != "" {
		return usersvc.GetByID(ctx, id)
	}

	created, err := usersvc.Create(ctx, userdomain.CreateRequest{
		Name:     "Demo User",
		Email:    "demo@wattpay.local",
		Tariff:   0.30,
		Currency: "EUR",
	})
	if err != nil {
		return nil, err
	}
	return usersvc.GetByID(ctx, created.ID)
}
