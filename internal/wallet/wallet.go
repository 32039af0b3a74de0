// Package wallet defines the key-material collaborator. Real key generation
// and custody live outside this service; the dev generator exists so the rest
// of the system can run without a custody backend.
package wallet

import (
	"crypto/rand"
	"encoding/hex"

	userdomain "github.com/wattpay/wattpay/internal/user/domain"
	"go.uber.org/fx"
)

// Generator produces the wallet attached to a newly created user. The WIF is
// expected to arrive already sealed by the custody side.
type Generator interface {
	Generate() (userdomain.Wallet, error)
}

type devGenerator struct{}

// NewDevGenerator returns a Generator producing random, non-spendable key
// material for development and tests.
func NewDevGenerator() Generator { return devGenerator{} }

func (devGenerator) Generate() (userdomain.Wallet, error) {
	seed := make([]byte, 20)
	if _, err := rand.Read(seed); err != nil {
		return userdomain.Wallet{}, err
	}
	return userdomain.Wallet{
		Address:      "dev1" + hex.EncodeToString(seed),
		PublicKey:    "devpub" + hex.EncodeToString(seed),
		EncryptedWIF: "",
	}, nil
}

var Module = fx.Module("wallet",
	fx.Provide(NewDevGenerator),
)
