package reading

import (
	"github.com/wattpay/wattpay/internal/reading/repository"
	"github.com/wattpay/wattpay/internal/reading/service"
	"go.uber.org/fx"
)

var Module = fx.Module("reading.service",
	fx.Provide(repository.Provide),
	fx.Provide(service.New),
)
