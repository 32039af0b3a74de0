// Package seed loads a year of synthetic meter readings for one user so
// charts and alarms have data to work against in development.
package seed

import (
	"context"
	"time"

	"github.com/bwmarrin/snowflake"
	readingdomain "github.com/wattpay/wattpay/internal/reading/domain"
	"github.com/wattpay/wattpay/internal/reading/repository"
	userdomain "github.com/wattpay/wattpay/internal/user/domain"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

const seedMeterID = "seed-meter"

// Monthly consumption in kWh, heating-dominated: high in winter, low in
// summer.
func monthlyConsumption(month time.Month) float64 {
	switch month {
	case time.December, time.January, time.February:
		return 180
	case time.June, time.July, time.August:
		return 80
	default:
		return 120
	}
}

type Seeder struct {
	db    *gorm.DB
	log   *zap.Logger
	genID *snowflake.Node
	repo  repository.Repository
}

func New(db *gorm.DB, log *zap.Logger, genID *snowflake.Node, repo repository.Repository) *Seeder {
	return &Seeder{
		db:    db,
		log:   log.Named("seed"),
		genID: genID,
		repo:  repo,
	}
}

// Run replaces the user's seeded readings with one reading per month for the
// trailing year. Earlier seed runs for the same user are removed first.
func (s *Seeder) Run(ctx context.Context, user *userdomain.User, now time.Time) error {
	removed, err := s.repo.DeleteByUserMeter(ctx, s.db, user.ID, seedMeterID)
	if err != nil {
		return err
	}
	if removed > 0 {
		s.log.Info("previous seed readings removed", zap.Int64("count", removed))
	}

	now = now.UTC()
	for i := 11; i >= 0; i-- {
		ts := now.AddDate(0, -i, 0)
		kw := monthlyConsumption(ts.Month())

		reading := &readingdomain.MeterReading{
			ID:         s.genID.Generate(),
			UserID:     user.ID,
			MeterID:    seedMeterID,
			KWConsumed: kw,
			Cost:       readingdomain.Cost(kw, user.Tariff),
			Currency:   user.Currency,
			Timestamp:  ts,
			CreatedAt:  now,
		}
		if err := s.repo.Insert(ctx, s.db, reading); err != nil {
			return err
		}
	}

	s.log.Info("seed readings loaded",
		zap.String("user_id", user.ID.String()),
		zap.String("meter_id", seedMeterID),
	)
	return nil
}
