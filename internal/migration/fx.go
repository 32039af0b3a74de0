package migration

import (
	alarmdomain "github.com/wattpay/wattpay/internal/alarm/domain"
	"github.com/wattpay/wattpay/internal/config"
	paymentdomain "github.com/wattpay/wattpay/internal/payment/domain"
	readingdomain "github.com/wattpay/wattpay/internal/reading/domain"
	userdomain "github.com/wattpay/wattpay/internal/user/domain"
	"go.uber.org/fx"
	"gorm.io/gorm"
)

// The versioned SQL migrations target postgres. Other dialects (sqlite for
// development, mysql) fall back to schema sync from the models.
var Module = fx.Module("migrations",
	fx.Invoke(func(conn *gorm.DB, cfg config.Config) error {
		if cfg.DBType == "postgres" {
			sqlDB, err := conn.DB()
			if err != nil {
				return err
			}
			return RunMigrations(sqlDB)
		}

		return conn.AutoMigrate(
			&userdomain.User{},
			&alarmdomain.Alarm{},
			&alarmdomain.HistoryEntry{},
			&paymentdomain.Payment{},
			&readingdomain.MeterReading{},
		)
	}),
)
