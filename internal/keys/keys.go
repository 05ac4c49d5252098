package keys

import (
	"errors"
	"fmt"
	"path/filepath"

	"github.com/AlexZinkM/hello-greeter/internal/crypto"

	"github.com/gagliardetto/solana-go"
)

// IsSealed reports whether path names a password protected .cwt key file.
func IsSealed(path string) bool {
	return filepath.Ext(path) == crypto.SealedExtension
}

// LoadPrivateKey loads a keypair from a .cwt file (unsealed with password) or
// from a Solana keygen JSON file.
// password must be []byte for security (caller should zero it after use)
func LoadPrivateKey(path string, password []byte) (solana.PrivateKey, error) {
	if path == "" {
		return nil, errors.New("key path is empty")
	}

	if IsSealed(path) {
		if len(password) == 0 {
			return nil, fmt.Errorf("password required to open %s", path)
		}
		key, err := crypto.UnsealKeypair(path, password)
		if err != nil {
			return nil, fmt.Errorf("failed to unseal %s: %w", path, err)
		}
		return key, nil
	}

	key, err := solana.PrivateKeyFromSolanaKeygenFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read keypair %s: %w", path, err)
	}
	return key, nil
}

// LoadPublicKey resolves the public key of a key file. Sealed files expose
// their address without being decrypted.
func LoadPublicKey(path string) (solana.PublicKey, error) {
	if IsSealed(path) {
		return crypto.ReadSealedAddress(path)
	}

	key, err := LoadPrivateKey(path, nil)
	if err != nil {
		return solana.PublicKey{}, err
	}
	defer clear(key)

	return key.PublicKey(), nil
}

// LoadProgramID resolves the greeter program identity from an explicit base58
// id or from the program's key file. When both are given they must agree.
func LoadProgramID(keyPath, programID string) (solana.PublicKey, error) {
	var fromID, fromKey solana.PublicKey
	var err error

	if programID != "" {
		fromID, err = solana.PublicKeyFromBase58(programID)
		if err != nil {
			return solana.PublicKey{}, fmt.Errorf("invalid program id: %w", err)
		}
	}

	if keyPath != "" {
		fromKey, err = LoadPublicKey(keyPath)
		if err != nil {
			return solana.PublicKey{}, fmt.Errorf("failed to load program key: %w", err)
		}
	}

	switch {
	case programID != "" && keyPath != "":
		if !fromID.Equals(fromKey) {
			return solana.PublicKey{}, fmt.Errorf("program id %s does not match program key %s", fromID, fromKey)
		}
		return fromID, nil
	case programID != "":
		return fromID, nil
	case keyPath != "":
		return fromKey, nil
	default:
		return solana.PublicKey{}, errors.New("program id or program key path is required")
	}
}
