// Package domain contains threshold alarms and their trigger history.
package domain

import (
	"time"

	"github.com/bwmarrin/snowflake"
)

// Kind is the closed set of alarm dimensions. Adding a kind means touching
// Valid and Alarm.Triggered, nothing else.
type Kind string

const (
	// KindMoney compares the monetary cost of a reading against the threshold.
	KindMoney Kind = "money"
	// KindEnergy compares the consumed kWh against the threshold.
	KindEnergy Kind = "energy"
)

func (k Kind) Valid() bool {
	switch k {
	case KindMoney, KindEnergy:
		return true
	default:
		return false
	}
}

// Alarm is a user-owned threshold rule evaluated against every new reading.
type Alarm struct {
	ID        snowflake.ID `json:"id" gorm:"primaryKey"`
	UserID    snowflake.ID `json:"user_id" gorm:"not null;index"`
	Kind      Kind         `json:"kind" gorm:"type:text;not null"`
	Threshold float64      `json:"threshold" gorm:"not null"`
	Active    bool         `json:"active" gorm:"not null"`
	CreatedAt time.Time    `json:"created_at" gorm:"not null"`
	UpdatedAt time.Time    `json:"updated_at" gorm:"not null"`
}

// TableName sets the database table name.
func (Alarm) TableName() string { return "alarms" }

// Triggered reports whether the alarm fires for the observed (price,
// consumption) pair. Inactive alarms never fire; equality with the threshold
// fires. The method is pure, recording the firing is the caller's job.
func (a Alarm) Triggered(price, consumption float64) bool {
	if !a.Active {
		return false
	}
	switch a.Kind {
	case KindMoney:
		return price >= a.Threshold
	case KindEnergy:
		return consumption >= a.Threshold
	default:
		return false
	}
}

// HistoryEntry is the immutable audit record of one firing event. Value holds
// the cost for money alarms and the consumed kWh for energy alarms.
type HistoryEntry struct {
	ID          snowflake.ID `json:"id" gorm:"primaryKey"`
	UserID      snowflake.ID `json:"user_id" gorm:"not null;index"`
	AlarmID     snowflake.ID `json:"alarm_id" gorm:"not null;index"`
	Value       float64      `json:"value" gorm:"not null"`
	TriggeredAt time.Time    `json:"triggered_at" gorm:"not null"`
}

// TableName sets the database table name.
func (HistoryEntry) TableName() string { return "alarm_histories" }
