package payment

import (
	"time"

	"github.com/wattpay/wattpay/internal/config"
	"github.com/wattpay/wattpay/internal/payment/adapters"
	"github.com/wattpay/wattpay/internal/payment/adapters/devchain"
	"github.com/wattpay/wattpay/internal/payment/adapters/whatsonchain"
	"github.com/wattpay/wattpay/internal/payment/domain"
	"github.com/wattpay/wattpay/internal/payment/service"
	"go.uber.org/fx"
)

func newRegistry() *adapters.Registry {
	return adapters.NewRegistry(
		whatsonchain.NewFactory(),
		devchain.NewFactory(),
	)
}

// newSigner binds the configured transaction signer. A nil signer is valid:
// the whatsonchain adapter then reports signer_unavailable on send.
func newSigner(cfg config.Config) domain.Signer {
	if cfg.Payment.SignerMode == "dev" {
		return devchain.NewSigner()
	}
	return nil
}

func newGateway(cfg config.Config, registry *adapters.Registry, signer domain.Signer) (domain.ChainGateway, error) {
	return registry.NewGateway(cfg.Payment.Gateway, domain.GatewayConfig{
		BaseURL: cfg.Payment.APIBaseURL,
		APIKey:  cfg.Payment.APIKey,
		Timeout: time.Duration(cfg.Payment.TimeoutSeconds) * time.Second,
		Signer:  signer,
	})
}

var Module = fx.Module("payment.service",
	fx.Provide(newRegistry),
	fx.Provide(newSigner),
	fx.Provide(newGateway),
	fx.Provide(service.New),
)
