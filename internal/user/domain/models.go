// Package domain contains persistence models for account holders.
package domain

import (
	"time"

	"github.com/bwmarrin/snowflake"
)

// Wallet holds the on-chain identity of a user. The private key only ever
// appears sealed; decryption is the signing collaborator's concern.
type Wallet struct {
	Address      string `json:"address" gorm:"type:text"`
	PublicKey    string `json:"public_key" gorm:"type:text"`
	EncryptedWIF string `json:"-" gorm:"type:text"`
}

// User owns meter readings, alarms and payments. Tariff is the current price
// per kWh in the user's currency; readings frozen at ingestion keep the tariff
// they were costed with, chart aggregation always recomputes with this value.
type User struct {
	ID        snowflake.ID `json:"id" gorm:"primaryKey"`
	Name      string       `json:"name" gorm:"type:text;not null"`
	Email     string       `json:"email" gorm:"type:text;not null"`
	Tariff    float64      `json:"tariff" gorm:"not null"`
	Currency  string       `json:"currency" gorm:"type:text;not null"`
	Wallet    Wallet       `json:"wallet" gorm:"embedded;embeddedPrefix:wallet_"`
	CreatedAt time.Time    `json:"created_at" gorm:"not null"`
	UpdatedAt time.Time    `json:"updated_at" gorm:"not null"`
}

// TableName sets the database table name.
func (User) TableName() string { return "users" }
