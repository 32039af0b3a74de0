package service

import (
	"context"
	"testing"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/wattpay/wattpay/internal/clock"
	userdomain "github.com/wattpay/wattpay/internal/user/domain"
	"github.com/wattpay/wattpay/internal/user/repository"
	"github.com/wattpay/wattpay/internal/wallet"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

func setupUserService(t *testing.T) userdomain.Service {
	t.Helper()

	db, err := gorm.Open(sqlite.Open("file::memory:?cache=shared"), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&userdomain.User{}))

	node, err := snowflake.NewNode(1)
	require.NoError(t, err)

	return New(Params{
		DB:      db,
		Log:     zap.NewNop(),
		GenID:   node,
		Clock:   clock.NewFakeClock(time.Date(2026, 5, 1, 12, 0, 0, 0, time.UTC)),
		Repo:    repository.Provide(),
		Wallets: wallet.NewDevGenerator(),
	})
}

func TestCreateUser(t *testing.T) {
	svc := setupUserService(t)
	ctx := context.Background()

	resp, err := svc.Create(ctx, userdomain.CreateRequest{
		Name:     "Ada",
		Email:    "ada@example.com",
		Tariff:   0.20,
		Currency: "eur",
	})
	require.NoError(t, err)
	assert.NotEmpty(t, resp.ID)
	assert.Equal(t, "EUR", resp.Currency)
	assert.NotEmpty(t, resp.Address)

	user, err := svc.GetByID(ctx, resp.ID)
	require.NoError(t, err)
	assert.Equal(t, "Ada", user.Name)
	assert.Equal(t, 0.20, user.Tariff)
	assert.NotEmpty(t, user.Wallet.Address)
}

func TestCreateUserValidation(t *testing.T) {
	svc := setupUserService(t)
	ctx := context.Background()

	_, err := svc.Create(ctx, userdomain.CreateRequest{Name: " ", Email: "a@b.c"})
	assert.ErrorIs(t, err, userdomain.ErrInvalidName)

	_, err = svc.Create(ctx, userdomain.CreateRequest{Name: "Ada", Email: "not-an-email"})
	assert.ErrorIs(t, err, userdomain.ErrInvalidEmail)

	_, err = svc.Create(ctx, userdomain.CreateRequest{Name: "Ada", Email: "a@b.c", Tariff: -0.1})
	assert.ErrorIs(t, err, userdomain.ErrInvalidTariff)
}

func TestGetUserByID(t *testing.T) {
	svc := setupUserService(t)
	ctx := context.Background()

	_, err := svc.GetByID(ctx, "garbage")
	assert.ErrorIs(t, err, userdomain.ErrInvalidUserID)

	_, err = svc.GetByID(ctx, "0")
	assert.ErrorIs(t, err, userdomain.ErrInvalidUserID)

	node, err := snowflake.NewNode(2)
	require.NoError(t, err)
	_, err = svc.GetByID(ctx, node.Generate().String())
	assert.ErrorIs(t, err, userdomain.ErrUserNotFound)
}
