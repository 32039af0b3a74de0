package user

import (
	"github.com/wattpay/wattpay/internal/user/repository"
	"github.com/wattpay/wattpay/internal/user/service"
	"go.uber.org/fx"
)

var Module = fx.Module("user.service",
	fx.Provide(repository.Provide),
	fx.Provide(service.New),
)
