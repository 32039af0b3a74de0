package service

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/wattpay/wattpay/internal/clock"
	"github.com/wattpay/wattpay/internal/config"
	paymentdomain "github.com/wattpay/wattpay/internal/payment/domain"
	"github.com/wattpay/wattpay/internal/pricefeed"
	userdomain "github.com/wattpay/wattpay/internal/user/domain"
	"github.com/wattpay/wattpay/pkg/repository"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// settlementDetail is the raw settlement context stored alongside each
// payment for audit and support lookups.
type settlementDetail struct {
	Provider    string `json:"provider"`
	FromAddress string `json:"from_address"`
	ToAddress   string `json:"to_address"`
	Satoshis    int64  `json:"satoshis"`
	TxID        string `json:"tx_id"`
}

type Params struct {
	fx.In

	DB      *gorm.DB
	Log     *zap.Logger
	GenID   *snowflake.Node
	Clock   clock.Clock
	Config  config.Config
	UserSvc userdomain.Service
	Gateway paymentdomain.ChainGateway
	Prices  pricefeed.Provider
}

type Service struct {
	log     *zap.Logger
	genID   *snowflake.Node
	clock   clock.Clock
	cfg     config.PaymentConfig
	usersvc userdomain.Service
	gateway paymentdomain.ChainGateway
	prices  pricefeed.Provider

	payments repository.Repository[paymentdomain.Payment]
}

func New(p Params) paymentdomain.Service {
	return &Service{
		log:      p.Log.Named("payment.service"),
		genID:    p.GenID,
		clock:    p.Clock,
		cfg:      p.Config.Payment,
		usersvc:  p.UserSvc,
		gateway:  p.Gateway,
		prices:   p.Prices,
		payments: repository.ProvideStore[paymentdomain.Payment](p.DB),
	}
}

// Pay moves the policy amount from the user's wallet to the platform address
// and records the settled payment. Callers get either a persisted payment
// with a tx id or an error; there is no pending state.
func (s *Service) Pay(ctx context.Context, userID snowflake.ID, satoshis int64) (*paymentdomain.Payment, error) {
	if satoshis <= 0 {
		return nil, paymentdomain.ErrInvalidAmount
	}
	if s.cfg.DestinationAddress == "" {
		return nil, paymentdomain.ErrDestinationUnset
	}

	user, err := s.usersvc.GetByID(ctx, userID.String())
	if err != nil {
		return nil, err
	}
	if user.Wallet.Address == "" {
		return nil, paymentdomain.ErrWalletMissing
	}

	sendCtx, cancel := context.WithTimeout(ctx, time.Duration(s.cfg.TimeoutSeconds)*time.Second)
	defer cancel()

	result, err := s.gateway.SendPayment(sendCtx, paymentdomain.SendRequest{
		FromAddress:  user.Wallet.Address,
		EncryptedWIF: user.Wallet.EncryptedWIF,
		ToAddress:    s.cfg.DestinationAddress,
		Satoshis:     satoshis,
	})
	if err != nil {
		return nil, fmt.Errorf("send payment: %w", err)
	}

	// Fiat conversion is display data; a dead price feed must not undo a
	// payment that already settled on chain.
	fiat, err := s.prices.ConvertSatoshis(ctx, satoshis)
	if err != nil {
		s.log.Warn("fiat conversion unavailable", zap.Error(err), zap.String("tx_id", result.TxID))
		fiat = 0
	}

	detail, err := json.Marshal(settlementDetail{
		Provider:    s.cfg.Gateway,
		FromAddress: user.Wallet.Address,
		ToAddress:   s.cfg.DestinationAddress,
		Satoshis:    satoshis,
		TxID:        result.TxID,
	})
	if err != nil {
		return nil, fmt.Errorf("marshal settlement detail: %w", err)
	}

	payment := &paymentdomain.Payment{
		ID:         s.genID.Generate(),
		UserID:     userID,
		AmountSats: satoshis,
		AmountFiat: fiat,
		Currency:   user.Currency,
		TxID:       result.TxID,
		Detail:     datatypes.JSON(detail),
		CreatedAt:  s.clock.Now().UTC(),
	}

	if err := s.payments.Create(ctx, payment); err != nil {
		return nil, err
	}

	s.log.Info("payment settled",
		zap.String("payment_id", payment.ID.String()),
		zap.String("user_id", userID.String()),
		zap.Int64("amount_sats", satoshis),
		zap.String("tx_id", result.TxID),
	)
	return payment, nil
}
