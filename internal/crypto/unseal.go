package crypto

import (
	"bytes"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"os"

	"github.com/AlexZinkM/hello-greeter/internal/model"

	"github.com/gagliardetto/solana-go"
)

// ErrInvalidPassword is returned when a sealed file cannot be opened with the given password.
var ErrInvalidPassword = errors.New("invalid password")

// UnsealKeypair reads and decrypts a .cwt file.
// password must be []byte for security (caller should zero it after use)
func UnsealKeypair(filePath string, password []byte) (solana.PrivateKey, error) {
	sealed, err := readSealedFile(filePath)
	if err != nil {
		return nil, err
	}

	salt, err := base64.StdEncoding.DecodeString(sealed.Salt)
	if err != nil {
		return nil, fmt.Errorf("failed to decode salt: %w", err)
	}

	nonce, err := base64.StdEncoding.DecodeString(sealed.Nonce)
	if err != nil {
		return nil, fmt.Errorf("failed to decode nonce: %w", err)
	}

	ciphertext, err := base64.StdEncoding.DecodeString(sealed.CipherText)
	if err != nil {
		return nil, fmt.Errorf("failed to decode ciphertext: %w", err)
	}

	n := sealed.ScryptN
	if n == 0 {
		n = defaultScryptN
	}

	aesGCM, err := newGCM(password, salt, n)
	if err != nil {
		return nil, err
	}
	if len(nonce) != aesGCM.NonceSize() {
		return nil, errors.New("invalid nonce length")
	}

	plaintext, err := aesGCM.Open(nil, nonce, ciphertext, nil)
	if err != nil {
		return nil, ErrInvalidPassword
	}
	defer clear(plaintext) // wipe decrypted bytes from memory

	var data model.KeypairData
	if err := json.Unmarshal(plaintext, &data); err != nil {
		return nil, fmt.Errorf("failed to unmarshal key data: %w", err)
	}

	if len(data.PrivateKey) != 64 {
		clear(data.PrivateKey)
		return nil, errors.New("invalid private key length")
	}

	key := solana.PrivateKey(data.PrivateKey)
	if key.PublicKey().String() != sealed.Address {
		clear(key)
		return nil, errors.New("private key does not match address")
	}

	return key, nil
}

// ReadSealedAddress reads only the address from a .cwt file (without decryption)
func ReadSealedAddress(filePath string) (solana.PublicKey, error) {
	sealed, err := readSealedFile(filePath)
	if err != nil {
		return solana.PublicKey{}, err
	}

	address, err := solana.PublicKeyFromBase58(sealed.Address)
	if err != nil {
		return solana.PublicKey{}, fmt.Errorf("invalid address in cwt file: %w", err)
	}
	return address, nil
}

func readSealedFile(filePath string) (*model.SealedKeyFile, error) {
	fileInfo, err := os.Stat(filePath)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.New("file does not exist")
		}
		return nil, fmt.Errorf("failed to stat file: %w", err)
	}

	if fileInfo.Size() == 0 {
		return nil, errors.New("file is empty")
	}

	fileData, err := os.ReadFile(filePath)
	if err != nil {
		return nil, fmt.Errorf("failed to read file: %w", err)
	}

	// Skip UTF-8 BOM if present
	fileData = bytes.TrimPrefix(fileData, utf8BOM)

	var sealed model.SealedKeyFile
	if err := json.Unmarshal(fileData, &sealed); err != nil {
		return nil, fmt.Errorf("failed to unmarshal cwt file: %w", err)
	}

	return &sealed, nil
}
