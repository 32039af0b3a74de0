package whatsonchain

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	paymentdomain "github.com/wattpay/wattpay/internal/payment/domain"
)

type signerStub struct {
	signedHex string
	err       error
	last      paymentdomain.SigningRequest
}

func (s *signerStub) Sign(ctx context.Context, req paymentdomain.SigningRequest) (string, error) {
	s.last = req
	if s.err != nil {
		return "", s.err
	}
	return s.signedHex, nil
}

func newTestGateway(t *testing.T, handler http.Handler, signer paymentdomain.Signer) paymentdomain.ChainGateway {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	gw, err := NewFactory().NewGateway(paymentdomain.GatewayConfig{
		BaseURL: srv.URL,
		APIKey:  "test-key",
		Timeout: 2 * time.Second,
		Signer:  signer,
	})
	require.NoError(t, err)
	return gw
}

func TestSendPayment(t *testing.T) {
	signer := &signerStub{signedHex: "deadbeef"}

	mux := http.NewServeMux()
	mux.HandleFunc("/address/sender/unspent/all", func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "test-key", r.Header.Get("woc-api-key"))
		// The 150-sat output cannot cover amount plus fee; the 500-sat one can.
		_, _ = w.Write([]byte(`{"result":[{"tx_hash":"small","tx_pos":0,"value":150},{"tx_hash":"funding","tx_pos":1,"value":500}]}`))
	})
	mux.HandleFunc("/tx/funding/hex", func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte("0100beef\n"))
	})
	mux.HandleFunc("/tx/raw", func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		_, _ = w.Write([]byte(`"txid-42"`))
	})

	gw := newTestGateway(t, mux, signer)

	result, err := gw.SendPayment(context.Background(), paymentdomain.SendRequest{
		FromAddress: "sender",
		ToAddress:   "receiver",
		Satoshis:    100,
	})
	require.NoError(t, err)
	assert.Equal(t, "txid-42", result.TxID)

	assert.Equal(t, "0100beef", signer.last.SourceTxHex)
	assert.Equal(t, uint32(1), signer.last.SourceVout)
	assert.Equal(t, "receiver", signer.last.ToAddress)
	assert.Equal(t, int64(100), signer.last.Satoshis)
}

func TestSendPaymentNoSpendableOutput(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/address/sender/unspent/all", func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"result":[{"tx_hash":"small","tx_pos":0,"value":199}]}`))
	})

	gw := newTestGateway(t, mux, &signerStub{signedHex: "deadbeef"})

	_, err := gw.SendPayment(context.Background(), paymentdomain.SendRequest{
		FromAddress: "sender",
		ToAddress:   "receiver",
		Satoshis:    100,
	})
	assert.ErrorIs(t, err, paymentdomain.ErrNoSpendableOutput)
}

func TestSendPaymentWithoutSigner(t *testing.T) {
	gw := newTestGateway(t, http.NewServeMux(), nil)

	_, err := gw.SendPayment(context.Background(), paymentdomain.SendRequest{
		FromAddress: "sender",
		ToAddress:   "receiver",
		Satoshis:    100,
	})
	assert.ErrorIs(t, err, paymentdomain.ErrSignerUnavailable)
}

func TestSendPaymentExplorerDown(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	})

	gw := newTestGateway(t, mux, &signerStub{signedHex: "deadbeef"})

	_, err := gw.SendPayment(context.Background(), paymentdomain.SendRequest{
		FromAddress: "sender",
		ToAddress:   "receiver",
		Satoshis:    100,
	})
	assert.ErrorIs(t, err, paymentdomain.ErrChainUnavailable)
}

func TestBalance(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/address/sender/balance", func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"confirmed":700,"unconfirmed":50}`))
	})

	gw := newTestGateway(t, mux, nil)

	balance, err := gw.Balance(context.Background(), "sender")
	require.NoError(t, err)
	assert.Equal(t, int64(750), balance)
}

func TestFactoryRequiresBaseURL(t *testing.T) {
	_, err := NewFactory().NewGateway(paymentdomain.GatewayConfig{})
	assert.ErrorIs(t, err, paymentdomain.ErrChainUnavailable)
}
