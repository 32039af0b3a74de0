package alarm

import (
	"github.com/wattpay/wattpay/internal/alarm/service"
	"go.uber.org/fx"
)

var Module = fx.Module("alarm.service",
	fx.Provide(service.New),
)
