package service

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/wattpay/wattpay/internal/clock"
	"github.com/wattpay/wattpay/internal/config"
	paymentdomain "github.com/wattpay/wattpay/internal/payment/domain"
	userdomain "github.com/wattpay/wattpay/internal/user/domain"
	userrepo "github.com/wattpay/wattpay/internal/user/repository"
	userservice "github.com/wattpay/wattpay/internal/user/service"
	"github.com/wattpay/wattpay/internal/wallet"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type gatewayStub struct {
	txID string
	err  error
	last paymentdomain.SendRequest
}

func (g *gatewayStub) SendPayment(ctx context.Context, req paymentdomain.SendRequest) (paymentdomain.SendResult, error) {
	g.last = req
	if g.err != nil {
		return paymentdomain.SendResult{}, g.err
	}
	return paymentdomain.SendResult{TxID: g.txID}, nil
}

func (g *gatewayStub) Balance(ctx context.Context, address string) (int64, error) {
	return 0, nil
}

type priceStub struct {
	rate float64
	err  error
}

func (p *priceStub) Rate(ctx context.Context) (float64, error) {
	if p.err != nil {
		return 0, p.err
	}
	return p.rate, nil
}

func (p *priceStub) ConvertSatoshis(ctx context.Context, satoshis int64) (float64, error) {
	if p.err != nil {
		return 0, p.err
	}
	return float64(satoshis) / 100_000_000 * p.rate, nil
}

type paymentFixture struct {
	db      *gorm.DB
	svc     paymentdomain.Service
	usersvc userdomain.Service
	gateway *gatewayStub
	prices  *priceStub
	node    *snowflake.Node
}

func setupPaymentService(t *testing.T) *paymentFixture {
	t.Helper()

	db, err := gorm.Open(sqlite.Open("file::memory:?cache=shared"), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&userdomain.User{}, &paymentdomain.Payment{}))

	node, err := snowflake.NewNode(1)
	require.NoError(t, err)

	clk := clock.NewFakeClock(time.Date(2026, 5, 15, 12, 0, 0, 0, time.UTC))
	log := zap.NewNop()

	usersvc := userservice.New(userservice.Params{
		DB:      db,
		Log:     log,
		GenID:   node,
		Clock:   clk,
		Repo:    userrepo.Provide(),
		Wallets: wallet.NewDevGenerator(),
	})

	gateway := &gatewayStub{txID: "abc123"}
	prices := &priceStub{rate: 30.0}

	cfg := config.Config{
		Payment: config.PaymentConfig{
			Required:           true,
			Satoshis:           100,
			DestinationAddress: "platform-address",
			Gateway:            "dev",
			TimeoutSeconds:     2,
		},
	}

	svc := New(Params{
		DB:      db,
		Log:     log,
		GenID:   node,
		Clock:   clk,
		Config:  cfg,
		UserSvc: usersvc,
		Gateway: gateway,
		Prices:  prices,
	})

	return &paymentFixture{db: db, svc: svc, usersvc: usersvc, gateway: gateway, prices: prices, node: node}
}

func (f *paymentFixture) createUser(t *testing.T) *userdomain.User {
	t.Helper()
	resp, err := f.usersvc.Create(context.Background(), userdomain.CreateRequest{
		Name:     "Payer",
		Email:    "payer@example.com",
		Tariff:   0.20,
		Currency: "EUR",
	})
	require.NoError(t, err)
	user, err := f.usersvc.GetByID(context.Background(), resp.ID)
	require.NoError(t, err)
	return user
}

func TestPayPersistsSettledPayment(t *testing.T) {
	f := setupPaymentService(t)
	user := f.createUser(t)

	payment, err := f.svc.Pay(context.Background(), user.ID, 100)
	require.NoError(t, err)
	assert.Equal(t, "abc123", payment.TxID)
	assert.Equal(t, int64(100), payment.AmountSats)
	assert.InDelta(t, float64(100)/100_000_000*30.0, payment.AmountFiat, 1e-12)
	assert.Equal(t, "EUR", payment.Currency)

	assert.Equal(t, user.Wallet.Address, f.gateway.last.FromAddress)
	assert.Equal(t, "platform-address", f.gateway.last.ToAddress)
	assert.Equal(t, int64(100), f.gateway.last.Satoshis)

	var stored paymentdomain.Payment
	require.NoError(t, f.db.First(&stored, "id = ?", payment.ID).Error)
	assert.Equal(t, "abc123", stored.TxID)
}

func TestPayRecordsSettlementDetail(t *testing.T) {
	f := setupPaymentService(t)
	user := f.createUser(t)

	payment, err := f.svc.Pay(context.Background(), user.ID, 100)
	require.NoError(t, err)

	var stored paymentdomain.Payment
	require.NoError(t, f.db.First(&stored, "id = ?", payment.ID).Error)
	require.NotEmpty(t, stored.Detail)

	var detail map[string]any
	require.NoError(t, json.Unmarshal(stored.Detail, &detail))
	assert.Equal(t, "dev", detail["provider"])
	assert.Equal(t, user.Wallet.Address, detail["from_address"])
	assert.Equal(t, "platform-address", detail["to_address"])
	assert.Equal(t, float64(100), detail["satoshis"])
	assert.Equal(t, "abc123", detail["tx_id"])
}

func TestPayValidation(t *testing.T) {
	f := setupPaymentService(t)
	user := f.createUser(t)

	_, err := f.svc.Pay(context.Background(), user.ID, 0)
	assert.ErrorIs(t, err, paymentdomain.ErrInvalidAmount)

	_, err = f.svc.Pay(context.Background(), f.node.Generate(), 100)
	assert.ErrorIs(t, err, userdomain.ErrUserNotFound)
}

func TestPayGatewayFailureIsSurfaced(t *testing.T) {
	f := setupPaymentService(t)
	user := f.createUser(t)
	f.gateway.err = paymentdomain.ErrNoSpendableOutput

	_, err := f.svc.Pay(context.Background(), user.ID, 100)
	assert.ErrorIs(t, err, paymentdomain.ErrNoSpendableOutput)

	var count int64
	require.NoError(t, f.db.Model(&paymentdomain.Payment{}).Where("user_id = ?", user.ID).Count(&count).Error)
	assert.Zero(t, count)
}

func TestPaySucceedsWithoutPriceFeed(t *testing.T) {
	f := setupPaymentService(t)
	user := f.createUser(t)
	f.prices.err = context.DeadlineExceeded

	payment, err := f.svc.Pay(context.Background(), user.ID, 100)
	require.NoError(t, err)
	assert.Zero(t, payment.AmountFiat)
	assert.Equal(t, "abc123", payment.TxID)
}
