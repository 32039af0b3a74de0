package repository

import (
	"context"
	"time"

	"github.com/bwmarrin/snowflake"
	readingdomain "github.com/wattpay/wattpay/internal/reading/domain"
	"gorm.io/gorm"
)

type Repository interface {
	Insert(ctx context.Context, db *gorm.DB, reading *readingdomain.MeterReading) error
	FindByUserInRange(ctx context.Context, db *gorm.DB, userID snowflake.ID, start, end time.Time) ([]readingdomain.MeterReading, error)
	DeleteByUserMeter(ctx context.Context, db *gorm.DB, userID snowflake.ID, meterID string) (int64, error)
}

type repo struct{}

func Provide() Repository {
	return &repo{}
}

func (r *repo) Insert(ctx context.Context, db *gorm.DB, reading *readingdomain.MeterReading) error {
	return db.WithContext(ctx).Create(reading).Error
}

// FindByUserInRange returns the user's readings with timestamps in the
// inclusive [start, end] window, oldest first.
func (r *repo) FindByUserInRange(ctx context.Context, db *gorm.DB, userID snowflake.ID, start, end time.Time) ([]readingdomain.MeterReading, error) {
	var readings []readingdomain.MeterReading
	err := db.WithContext(ctx).
		Where("user_id = ?", userID).
		Where("timestamp >= ?", start).
		Where("timestamp <= ?", end).
		Order("timestamp ASC").
		Find(&readings).Error
	if err != nil {
		return nil, err
	}
	return readings, nil
}

func (r *repo) DeleteByUserMeter(ctx context.Context, db *gorm.DB, userID snowflake.ID, meterID string) (int64, error) {
	res := db.WithContext(ctx).
		Where("user_id = ? AND meter_id = ?", userID, meterID).
		Delete(&readingdomain.MeterReading{})
	return res.RowsAffected, res.Error
}
