package service

import (
	"context"
	"strings"

	"github.com/bwmarrin/snowflake"
	"github.com/wattpay/wattpay/internal/clock"
	userdomain "github.com/wattpay/wattpay/internal/user/domain"
	"github.com/wattpay/wattpay/internal/user/repository"
	"github.com/wattpay/wattpay/internal/wallet"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type Params struct {
	fx.In

	DB      *gorm.DB
	Log     *zap.Logger
	GenID   *snowflake.Node
	Clock   clock.Clock
	Repo    repository.Repository
	Wallets wallet.Generator
}

type Service struct {
	db      *gorm.DB
	log     *zap.Logger
	genID   *snowflake.Node
	clock   clock.Clock
	repo    repository.Repository
	wallets wallet.Generator
}

func New(p Params) userdomain.Service {
	return &Service{
		db:      p.DB,
		log:     p.Log.Named("user.service"),
		genID:   p.GenID,
		clock:   p.Clock,
		repo:    p.Repo,
		wallets: p.Wallets,
	}
}

func (s *Service) Create(ctx context.Context, req userdomain.CreateRequest) (*userdomain.Response, error) {
	name := strings.TrimSpace(req.Name)
	if name == "" {
		return nil, userdomain.ErrInvalidName
	}

	email := strings.TrimSpace(req.Email)
	if email == "" || !strings.Contains(email, "@") {
		return nil, userdomain.ErrInvalidEmail
	}

	if req.Tariff < 0 {
		return nil, userdomain.ErrInvalidTariff
	}

	currency := strings.ToUpper(strings.TrimSpace(req.Currency))
	if currency == "" {
		currency = "EUR"
	}

	w, err := s.wallets.Generate()
	if err != nil {
		return nil, err
	}

	now := s.clock.Now().UTC()
	user := &userdomain.User{
		ID:        s.genID.Generate(),
		Name:      name,
		Email:     email,
		Tariff:    req.Tariff,
		Currency:  currency,
		Wallet:    w,
		CreatedAt: now,
		UpdatedAt: now,
	}

	if err := s.repo.Insert(ctx, s.db, user); err != nil {
		return nil, err
	}

	s.log.Info("user created", zap.String("user_id", user.ID.String()))
	return toResponse(user), nil
}

func (s *Service) GetByID(ctx context.Context, id string) (*userdomain.User, error) {
	userID, err := userdomain.ParseID(id)
	if err != nil {
		return nil, err
	}

	user, err := s.repo.FindByID(ctx, s.db, userID)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, userdomain.ErrUserNotFound
	}
	return user, nil
}

func toResponse(user *userdomain.User) *userdomain.Response {
	return &userdomain.Response{
		ID:       user.ID.String(),
		Name:     user.Name,
		Email:    user.Email,
		Tariff:   user.Tariff,
		Currency: user.Currency,
		Address:  user.Wallet.Address,
	}
}
