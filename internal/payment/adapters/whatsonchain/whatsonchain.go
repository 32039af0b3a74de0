// Package whatsonchain implements the chain gateway against a
// WhatsOnChain-style REST explorer: funding outputs are selected from the
// sender's unspent set, signing is delegated to the configured Signer, and
// the signed hex is broadcast through the explorer.
package whatsonchain

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"

	paymentdomain "github.com/wattpay/wattpay/internal/payment/domain"
)

// fixedFeeSats mirrors the flat miner fee reserved on top of the payment
// amount when selecting a funding output.
const fixedFeeSats = 100

type Factory struct{}

func NewFactory() *Factory {
	return &Factory{}
}

func (f *Factory) Provider() string {
	return "whatsonchain"
}

func (f *Factory) NewGateway(cfg paymentdomain.GatewayConfig) (paymentdomain.ChainGateway, error) {
	baseURL := strings.TrimRight(strings.TrimSpace(cfg.BaseURL), "/")
	if baseURL == "" {
		return nil, paymentdomain.ErrChainUnavailable
	}

	return &Gateway{
		baseURL: baseURL,
		apiKey:  cfg.APIKey,
		signer:  cfg.Signer,
		httpc:   &http.Client{Timeout: cfg.Timeout},
	}, nil
}

type Gateway struct {
	baseURL string
	apiKey  string
	signer  paymentdomain.Signer
	httpc   *http.Client
}

type unspentOutput struct {
	TxHash string `json:"tx_hash"`
	TxPos  uint32 `json:"tx_pos"`
	Value  int64  `json:"value"`
}

type unspentResponse struct {
	Result []unspentOutput `json:"result"`
}

type balanceResponse struct {
	Confirmed   int64 `json:"confirmed"`
	Unconfirmed int64 `json:"unconfirmed"`
}

func (g *Gateway) SendPayment(ctx context.Context, req paymentdomain.SendRequest) (paymentdomain.SendResult, error) {
	if g.signer == nil {
		return paymentdomain.SendResult{}, paymentdomain.ErrSignerUnavailable
	}

	utxo, err := g.selectOutput(ctx, req.FromAddress, req.Satoshis+fixedFeeSats)
	if err != nil {
		return paymentdomain.SendResult{}, err
	}

	sourceHex, err := g.rawTransaction(ctx, utxo.TxHash)
	if err != nil {
		return paymentdomain.SendResult{}, err
	}

	signedHex, err := g.signer.Sign(ctx, paymentdomain.SigningRequest{
		SourceTxHex:  sourceHex,
		SourceVout:   utxo.TxPos,
		EncryptedWIF: req.EncryptedWIF,
		FromAddress:  req.FromAddress,
		ToAddress:    req.ToAddress,
		Satoshis:     req.Satoshis,
	})
	if err != nil {
		return paymentdomain.SendResult{}, fmt.Errorf("%w: %v", paymentdomain.ErrSignerUnavailable, err)
	}

	txID, err := g.broadcast(ctx, signedHex)
	if err != nil {
		return paymentdomain.SendResult{}, err
	}

	return paymentdomain.SendResult{TxID: txID}, nil
}

func (g *Gateway) Balance(ctx context.Context, address string) (int64, error) {
	var resp balanceResponse
	if err := g.getJSON(ctx, fmt.Sprintf("/address/%s/balance", address), &resp); err != nil {
		return 0, err
	}
	return resp.Confirmed + resp.Unconfirmed, nil
}

// selectOutput picks the first unspent output large enough to cover the
// amount plus the flat fee.
func (g *Gateway) selectOutput(ctx context.Context, address string, satoshis int64) (unspentOutput, error) {
	var resp unspentResponse
	if err := g.getJSON(ctx, fmt.Sprintf("/address/%s/unspent/all", address), &resp); err != nil {
		return unspentOutput{}, err
	}

	for _, utxo := range resp.Result {
		if utxo.Value >= satoshis {
			return utxo, nil
		}
	}
	return unspentOutput{}, paymentdomain.ErrNoSpendableOutput
}

func (g *Gateway) rawTransaction(ctx context.Context, txID string) (string, error) {
	body, err := g.get(ctx, fmt.Sprintf("/tx/%s/hex", txID))
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(string(body)), nil
}

func (g *Gateway) broadcast(ctx context.Context, rawHex string) (string, error) {
	payload, err := json.Marshal(map[string]string{"txhex": rawHex})
	if err != nil {
		return "", err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, g.baseURL+"/tx/raw", bytes.NewReader(payload))
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", "application/json")
	g.authorize(req)

	resp, err := g.httpc.Do(req)
	if err != nil {
		return "", fmt.Errorf("%w: %v", paymentdomain.ErrChainUnavailable, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("%w: %v", paymentdomain.ErrChainUnavailable, err)
	}
	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("%w: broadcast status %d", paymentdomain.ErrChainUnavailable, resp.StatusCode)
	}

	return strings.Trim(strings.TrimSpace(string(body)), `"`), nil
}

func (g *Gateway) getJSON(ctx context.Context, path string, out any) error {
	body, err := g.get(ctx, path)
	if err != nil {
		return err
	}
	if err := json.Unmarshal(body, out); err != nil {
		return fmt.Errorf("%w: %v", paymentdomain.ErrChainUnavailable, err)
	}
	return nil
}

func (g *Gateway) get(ctx context.Context, path string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, g.baseURL+path, nil)
	if err != nil {
		return nil, err
	}
	g.authorize(req)

	resp, err := g.httpc.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", paymentdomain.ErrChainUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%w: status %d for %s", paymentdomain.ErrChainUnavailable, resp.StatusCode, path)
	}
	return io.ReadAll(resp.Body)
}

func (g *Gateway) authorize(req *http.Request) {
	if g.apiKey != "" {
		req.Header.Set("woc-api-key", g.apiKey)
	}
}
