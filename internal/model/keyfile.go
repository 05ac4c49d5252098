package model

// SealedKeyFile represents .cwt file structure
type SealedKeyFile struct {
	Role       string `json:"role"`
	Address    string `json:"address"`
	QR         string `json:"QR"`
	ScryptN    int    `json:"scryptN,omitempty"`
	Salt       string `json:"salt"`
	Nonce      string `json:"nonce"`
	CipherText string `json:"cipherText"`
}

// KeypairData represents decrypted key material
type KeypairData struct {
	PrivateKey []byte `json:"privateKey"` // 64 bytes ed25519 keypair (stored as base64 in JSON)
	CreatedAt  string `json:"createdAt"`
}
