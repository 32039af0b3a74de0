package adapters

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/wattpay/wattpay/internal/payment/adapters/devchain"
	"github.com/wattpay/wattpay/internal/payment/domain"
)

func TestRegistryResolvesProviders(t *testing.T) {
	registry := NewRegistry(devchain.NewFactory())

	assert.True(t, registry.ProviderExists("dev"))
	assert.True(t, registry.ProviderExists(" DEV "))
	assert.False(t, registry.ProviderExists("whatsonchain"))

	gw, err := registry.NewGateway("dev", domain.GatewayConfig{})
	require.NoError(t, err)

	result, err := gw.SendPayment(context.Background(), domain.SendRequest{Satoshis: 100})
	require.NoError(t, err)
	assert.NotEmpty(t, result.TxID)

	_, err = registry.NewGateway("unknown", domain.GatewayConfig{})
	assert.ErrorIs(t, err, domain.ErrProviderNotFound)
}
