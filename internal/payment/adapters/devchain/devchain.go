// Package devchain is the development chain gateway: payments settle
// instantly with a synthetic transaction id and nothing leaves the process.
package devchain

import (
	"context"
	"crypto/rand"
	"crypto/sha256"
	"encoding/hex"
	"fmt"

	paymentdomain "github.com/wattpay/wattpay/internal/payment/domain"
)

type Factory struct{}

func NewFactory() *Factory {
	return &Factory{}
}

func (f *Factory) Provider() string {
	return "dev"
}

func (f *Factory) NewGateway(cfg paymentdomain.GatewayConfig) (paymentdomain.ChainGateway, error) {
	_ = cfg
	return &Gateway{}, nil
}

type Gateway struct{}

func (g *Gateway) SendPayment(ctx context.Context, req paymentdomain.SendRequest) (paymentdomain.SendResult, error) {
	if err := ctx.Err(); err != nil {
		return paymentdomain.SendResult{}, err
	}
	if req.Satoshis <= 0 {
		return paymentdomain.SendResult{}, paymentdomain.ErrInvalidAmount
	}

	buf := make([]byte, 32)
	if _, err := rand.Read(buf); err != nil {
		return paymentdomain.SendResult{}, err
	}
	return paymentdomain.SendResult{TxID: hex.EncodeToString(buf)}, nil
}

func (g *Gateway) Balance(ctx context.Context, address string) (int64, error) {
	_ = address
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	return 100_000_000, nil
}

// Signer produces a deterministic synthetic signed-transaction hex so the
// explorer-backed send path can run end to end without key custody.
type Signer struct{}

func NewSigner() *Signer {
	return &Signer{}
}

func (s *Signer) Sign(ctx context.Context, req paymentdomain.SigningRequest) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	sum := sha256.Sum256([]byte(fmt.Sprintf("%s:%d:%s:%s:%d",
		req.SourceTxHex, req.SourceVout, req.FromAddress, req.ToAddress, req.Satoshis)))
	return hex.EncodeToString(sum[:]), nil
}
