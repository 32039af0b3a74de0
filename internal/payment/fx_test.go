package payment

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/wattpay/wattpay/internal/config"
	"github.com/wattpay/wattpay/internal/payment/adapters/devchain"
	paymentdomain "github.com/wattpay/wattpay/internal/payment/domain"
)

func TestNewSignerModes(t *testing.T) {
	signer := newSigner(config.Config{Payment: config.PaymentConfig{SignerMode: "dev"}})
	require.NotNil(t, signer)
	assert.IsType(t, &devchain.Signer{}, signer)

	assert.Nil(t, newSigner(config.Config{}))
}

func TestNewGatewaySendsWithConfiguredSigner(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/address/sender/unspent/all", func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"result":[{"tx_hash":"funding","tx_pos":0,"value":500}]}`))
	})
	mux.HandleFunc("/tx/funding/hex", func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte("0100beef"))
	})
	mux.HandleFunc("/tx/raw", func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`"txid-7"`))
	})
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)

	cfg := config.Config{
		Payment: config.PaymentConfig{
			Gateway:        "whatsonchain",
			APIBaseURL:     srv.URL,
			SignerMode:     "dev",
			TimeoutSeconds: 2,
		},
	}

	gw, err := newGateway(cfg, newRegistry(), newSigner(cfg))
	require.NoError(t, err)

	result, err := gw.SendPayment(context.Background(), paymentdomain.SendRequest{
		FromAddress: "sender",
		ToAddress:   "receiver",
		Satoshis:    100,
	})
	require.NoError(t, err)
	assert.Equal(t, "txid-7", result.TxID)
}

func TestNewGatewayWithoutSignerReportsUnavailable(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/address/sender/unspent/all", func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"result":[{"tx_hash":"funding","tx_pos":0,"value":500}]}`))
	})
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)

	cfg := config.Config{
		Payment: config.PaymentConfig{
			Gateway:        "whatsonchain",
			APIBaseURL:     srv.URL,
			TimeoutSeconds: 2,
		},
	}

	gw, err := newGateway(cfg, newRegistry(), newSigner(cfg))
	require.NoError(t, err)

	_, err = gw.SendPayment(context.Background(), paymentdomain.SendRequest{
		FromAddress: "sender",
		ToAddress:   "receiver",
		Satoshis:    100,
	})
	assert.ErrorIs(t, err, paymentdomain.ErrSignerUnavailable)
}
