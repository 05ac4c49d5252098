package greeter

import (
	"github.com/gagliardetto/solana-go"
)

// DeriveAddress computes the address owned by owner that base controls under seed.
// The same inputs always yield the same address; no network access is made.
func DeriveAddress(base solana.PublicKey, seed string, owner solana.PublicKey) (solana.PublicKey, error) {
	addr, err := solana.CreateWithSeed(base, seed, owner)
	if err != nil {
		return solana.PublicKey{}, &InvalidSeedError{Seed: seed, Err: err}
	}
	return addr, nil
}
