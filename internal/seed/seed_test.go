package seed

import (
	"context"
	"testing"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	readingdomain "github.com/wattpay/wattpay/internal/reading/domain"
	readingrepo "github.com/wattpay/wattpay/internal/reading/repository"
	userdomain "github.com/wattpay/wattpay/internal/user/domain"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

func TestSeederLoadsOneYearAndIsRerunnable(t *testing.T) {
	db, err := gorm.Open(sqlite.Open("file::memory:?cache=shared"), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&userdomain.User{}, &readingdomain.MeterReading{}))

	node, err := snowflake.NewNode(1)
	require.NoError(t, err)

	user := &userdomain.User{
		ID:       node.Generate(),
		Name:     "Demo",
		Email:    "demo@example.com",
		Tariff:   0.30,
		Currency: "EUR",
	}
	require.NoError(t, db.Create(user).Error)

	seeder := New(db, zap.NewNop(), node, readingrepo.Provide())
	now := time.Date(2026, 8, 15, 12, 0, 0, 0, time.UTC)

	require.NoError(t, seeder.Run(context.Background(), user, now))
	require.NoError(t, seeder.Run(context.Background(), user, now))

	var readings []readingdomain.MeterReading
	require.NoError(t, db.Where("user_id = ?", user.ID).Order("timestamp ASC").Find(&readings).Error)
	require.Len(t, readings, 12)

	for _, reading := range readings {
		assert.Equal(t, seedMeterID, reading.MeterID)
		assert.InDelta(t, readingdomain.Cost(reading.KWConsumed, user.Tariff), reading.Cost, 1e-9)

		switch reading.Timestamp.Month() {
		case time.December, time.January, time.February:
			assert.InDelta(t, 180, reading.KWConsumed, 1e-9)
		case time.June, time.July, time.August:
			assert.InDelta(t, 80, reading.KWConsumed, 1e-9)
		default:
			assert.InDelta(t, 120, reading.KWConsumed, 1e-9)
		}
	}
}
