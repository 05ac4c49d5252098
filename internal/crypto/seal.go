package crypto

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/AlexZinkM/hello-greeter/internal/model"

	"github.com/gagliardetto/solana-go"
	"golang.org/x/crypto/scrypt"
)

// SealedExtension is the file extension of password protected key files.
const SealedExtension = ".cwt"

const (
	defaultScryptN = 1 << 18
	scryptR        = 8
	scryptP        = 1
	scryptKeyLen   = 32
	saltLen        = 32
	nonceLen       = 12
)

// ScryptN is the scrypt cost used for new files; it is recorded in the file so
// opening does not depend on the current value. N=2^18 needs ~256MB RAM and
// 0.5-2s per derivation.
var ScryptN = defaultScryptN

var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// SealKeypair encrypts key and writes it to a .cwt file together with its
// public address and a QR code of that address.
// password must be []byte for security (caller should zero it after use)
func SealKeypair(filePath, role string, key solana.PrivateKey, qrCode string, password []byte) error {
	if !strings.HasSuffix(filePath, SealedExtension) {
		return fmt.Errorf("file must have %s extension", SealedExtension)
	}
	if len(key) != 64 {
		return errors.New("invalid private key length")
	}
	if len(password) == 0 {
		return errors.New("password cannot be empty")
	}

	// Refuse to overwrite existing key material
	if fileInfo, err := os.Stat(filePath); err == nil && fileInfo.Size() > 0 {
		return fmt.Errorf("file is not empty: %w", os.ErrExist)
	}

	salt := make([]byte, saltLen)
	if _, err := io.ReadFull(rand.Reader, salt); err != nil {
		return fmt.Errorf("failed to generate salt: %w", err)
	}

	nonce := make([]byte, nonceLen)
	if _, err := io.ReadFull(rand.Reader, nonce); err != nil {
		return fmt.Errorf("failed to generate nonce: %w", err)
	}

	aesGCM, err := newGCM(password, salt, ScryptN)
	if err != nil {
		return err
	}

	plaintext, err := json.Marshal(&model.KeypairData{
		PrivateKey: key,
		CreatedAt:  time.Now().Format(time.RFC3339),
	})
	if err != nil {
		return fmt.Errorf("failed to marshal key data: %w", err)
	}
	defer clear(plaintext) // wipe plaintext bytes from memory

	ciphertext := aesGCM.Seal(nil, nonce, plaintext, nil)

	sealed := model.SealedKeyFile{
		Role:       role,
		Address:    key.PublicKey().String(),
		QR:         qrCode,
		ScryptN:    ScryptN,
		Salt:       base64.StdEncoding.EncodeToString(salt),
		Nonce:      base64.StdEncoding.EncodeToString(nonce),
		CipherText: base64.StdEncoding.EncodeToString(ciphertext),
	}

	fileData, err := json.MarshalIndent(sealed, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal cwt file: %w", err)
	}

	// Add UTF-8 BOM for proper display in Windows
	if err := os.WriteFile(filePath, append(append([]byte{}, utf8BOM...), fileData...), 0600); err != nil {
		return fmt.Errorf("failed to write file: %w", err)
	}

	return nil
}

// newGCM derives the file key from password and returns an AES-256-GCM cipher.
func newGCM(password, salt []byte, n int) (cipher.AEAD, error) {
	key, err := scrypt.Key(password, salt, n, scryptR, scryptP, scryptKeyLen)
	if err != nil {
		return nil, fmt.Errorf("failed to derive key: %w", err)
	}
	defer clear(key)

	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, fmt.Errorf("failed to create cipher: %w", err)
	}

	aesGCM, err := cipher.NewGCM(block)
	if err != nil {
		return nil, fmt.Errorf("failed to create GCM: %w", err)
	}
	return aesGCM, nil
}
