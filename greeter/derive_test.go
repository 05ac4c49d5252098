package greeter

import (
	"crypto/sha256"
	"strings"
	"testing"

	"github.com/gagliardetto/solana-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDeriveAddress(t *testing.T) {
	base := solana.NewWallet().PublicKey()
	owner := solana.NewWallet().PublicKey()

	first, err := DeriveAddress(base, "hello", owner)
	require.NoError(t, err)
	second, err := DeriveAddress(base, "hello", owner)
	require.NoError(t, err)
	assert.Equal(t, first, second)

	var preimage []byte
	preimage = append(preimage, base.Bytes()...)
	preimage = append(preimage, "hello"...)
	preimage = append(preimage, owner.Bytes()...)
	hash := sha256.Sum256(preimage)
	assert.Equal(t, solana.PublicKeyFromBytes(hash[:]), first)

	other, err := DeriveAddress(base, "hello!", owner)
	require.NoError(t, err)
	assert.NotEqual(t, first, other)

	swapped, err := DeriveAddress(owner, "hello", base)
	require.NoError(t, err)
	assert.NotEqual(t, first, swapped)
}

func TestDeriveAddress_SeedLength(t *testing.T) {
	base := solana.NewWallet().PublicKey()
	owner := solana.NewWallet().PublicKey()

	_, err := DeriveAddress(base, strings.Repeat("a", solana.MaxSeedLength), owner)
	require.NoError(t, err)

	_, err = DeriveAddress(base, strings.Repeat("a", solana.MaxSeedLength+1), owner)
	require.Error(t, err)
	assert.True(t, IsInvalidSeedError(err))
	assert.ErrorIs(t, err, solana.ErrMaxSeedLengthExceeded)
}
