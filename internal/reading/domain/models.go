// Package domain contains meter readings and the calendar bucketing used to
// chart them.
package domain

import (
	"time"

	"github.com/bwmarrin/snowflake"
)

// MeterReading is one observed consumption fact. It is written exactly once by
// ingestion and never re-costed: Cost keeps the tariff in effect at write time.
type MeterReading struct {
	ID         snowflake.ID  `json:"id" gorm:"primaryKey"`
	UserID     snowflake.ID  `json:"user_id" gorm:"not null;index:idx_readings_user_ts,priority:1"`
	MeterID    string        `json:"meter_id" gorm:"type:text;not null"`
	KWConsumed float64       `json:"kw_consumed" gorm:"not null"`
	Cost       float64       `json:"cost" gorm:"not null"`
	Currency   string        `json:"currency" gorm:"type:text;not null"`
	PaymentID  *snowflake.ID `json:"payment_id,omitempty"`
	Timestamp  time.Time     `json:"timestamp" gorm:"not null;index:idx_readings_user_ts,priority:2"`
	CreatedAt  time.Time     `json:"created_at" gorm:"not null"`
}

// TableName sets the database table name.
func (MeterReading) TableName() string { return "meter_readings" }

// ChartBucket is one aggregation row: the bucket start, the summed consumption
// and its cost at the tariff current at query time. It is never persisted.
type ChartBucket struct {
	Timestamp time.Time `json:"timestamp"`
	KW        float64   `json:"kw"`
	Price     float64   `json:"price"`
}
