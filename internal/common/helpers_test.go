package common

import (
	"bytes"
	"encoding/base64"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLamportsToSOL(t *testing.T) {
	for lamports, expected := range map[uint64]string{
		0:             "0.000000000",
		1:             "0.000000001",
		946560:        "0.000946560",
		24981836:      "0.024981836",
		1000000000:    "1.000000000",
		2500000000000: "2500.000000000",
	} {
		assert.Equal(t, expected, LamportsToSOL(lamports))
	}
}

func TestExplorerURL(t *testing.T) {
	assert.Equal(t,
		"https://explorer.solana.com/address/abc?cluster=devnet",
		ExplorerURL("https://explorer.solana.com/address/%s?cluster=devnet", "abc"),
	)
}

func TestQRCodeBase64(t *testing.T) {
	encoded, err := QRCodeBase64("7xKXtg2CW87d97TXJSDpbD5jBkheTqA83TZRuJosgAsU")
	require.NoError(t, err)

	png, err := base64.StdEncoding.DecodeString(encoded)
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(png, []byte("\x89PNG\r\n\x1a\n")))
}
