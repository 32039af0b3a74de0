// Package domain contains on-chain payment records and the collaborator
// interfaces the pipeline pays through. Transaction construction and key
// custody stay behind these interfaces; the core only consumes the resulting
// "payment succeeded with tx id X" fact.
package domain

import (
	"context"
	"errors"
	"time"

	"github.com/bwmarrin/snowflake"
	"gorm.io/datatypes"
)

// Payment records one settled micro-payment for a meter reading.
type Payment struct {
	ID         snowflake.ID   `json:"id" gorm:"primaryKey"`
	UserID     snowflake.ID   `json:"user_id" gorm:"not null;index"`
	AmountSats int64          `json:"amount_sats" gorm:"not null"`
	AmountFiat float64        `json:"amount_fiat" gorm:"not null"`
	Currency   string         `json:"currency" gorm:"type:text;not null"`
	TxID       string         `json:"tx_id" gorm:"type:text;not null"`
	Detail     datatypes.JSON `json:"detail,omitempty" gorm:"type:jsonb"`
	CreatedAt  time.Time      `json:"created_at" gorm:"not null"`
}

// TableName sets the database table name.
func (Payment) TableName() string { return "payments" }

type Service interface {
	Pay(ctx context.Context, userID snowflake.ID, satoshis int64) (*Payment, error)
}

// SendRequest asks the chain gateway to move satoshis from the user's wallet
// to the platform address.
type SendRequest struct {
	FromAddress  string
	EncryptedWIF string
	ToAddress    string
	Satoshis     int64
}

type SendResult struct {
	TxID string
}

// ChainGateway is the outbound blockchain collaborator. Implementations must
// honor the context deadline on every call.
type ChainGateway interface {
	SendPayment(ctx context.Context, req SendRequest) (SendResult, error)
	Balance(ctx context.Context, address string) (int64, error)
}

// Signer turns a funding output into a signed raw transaction. Production
// signing is a custody concern and lives outside this repository.
type Signer interface {
	Sign(ctx context.Context, req SigningRequest) (string, error)
}

type SigningRequest struct {
	SourceTxHex  string
	SourceVout   uint32
	EncryptedWIF string
	FromAddress  string
	ToAddress    string
	Satoshis     int64
}

// GatewayConfig is handed to a factory when instantiating a gateway.
type GatewayConfig struct {
	BaseURL string
	APIKey  string
	Timeout time.Duration
	Signer  Signer
}

// GatewayFactory builds a ChainGateway for one provider name.
type GatewayFactory interface {
	Provider() string
	NewGateway(cfg GatewayConfig) (ChainGateway, error)
}

var (
	ErrInvalidAmount     = errors.New("invalid_amount")
	ErrWalletMissing     = errors.New("wallet_missing")
	ErrDestinationUnset  = errors.New("payment_destination_unset")
	ErrNoSpendableOutput = errors.New("no_spendable_output")
	ErrSignerUnavailable = errors.New("signer_unavailable")
	ErrChainUnavailable  = errors.New("chain_unavailable")
	ErrProviderNotFound  = errors.New("chain_provider_not_found")
)
