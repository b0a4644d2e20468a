package kalshi

import (
	"crypto"
	"crypto/rand"
	"crypto/rsa"
	"crypto/sha256"
	"crypto/x509"
	"encoding/base64"
	"encoding/pem"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func pemWrite(path string, block *pem.Block) error {
	return os.WriteFile(path, pem.EncodeToMemory(block), 0o600)
}

func writeTestKey(t *testing.T) (*rsa.PrivateKey, string) {
	t.Helper()

	key, err := rsa.GenerateKey(rand.Reader, 2048)
	require.NoError(t, err)

	block := &pem.Block{Type: "RSA PRIVATE KEY", Bytes: x509.MarshalPKCS1PrivateKey(key)}
	path := filepath.Join(t.TempDir(), "test_key.pem")
	require.NoError(t, pemWrite(path, block))

	return key, path
}

func TestSign_MatchesPKCS1v15OverTimestampMethodPath(t *testing.T) {
	key, pemPath := writeTestKey(t)

	auth, err := NewAuth(pemPath, "test-key-id")
	require.NoError(t, err)

	const (
		tsMS   = int64(1700000000000)
		method = "GET"
		path   = "/markets/X/orderbook?depth=5"
	)

	sigB64, err := auth.Sign(tsMS, method, path)
	require.NoError(t, err)

	sigBytes, err := base64.StdEncoding.DecodeString(sigB64)
	require.NoError(t, err)

	message := "1700000000000" + method + path
	digest := sha256.Sum256([]byte(message))

	// A valid RSASSA-PKCS#1 v1.5 signature over the exact concatenated
	// byte string verifies against the matching public key.
	err = rsa.VerifyPKCS1v15(&key.PublicKey, crypto.SHA256, digest[:], sigBytes)
	require.NoError(t, err, "signature must verify as PKCS#1 v1.5 over ts||method||path")
}

func TestSign_DifferentPathsProduceDifferentSignatures(t *testing.T) {
	_, pemPath := writeTestKey(t)
	auth, err := NewAuth(pemPath, "test-key-id")
	require.NoError(t, err)

	sigA, err := auth.Sign(1700000000000, "GET", "/markets/A/orderbook?depth=5")
	require.NoError(t, err)
	sigB, err := auth.Sign(1700000000000, "GET", "/markets/B/orderbook?depth=5")
	require.NoError(t, err)

	require.NotEqual(t, sigA, sigB)
}

func TestHeaders_CarriesAllThreeFields(t *testing.T) {
	_, pemPath := writeTestKey(t)
	auth, err := NewAuth(pemPath, "my-key-id")
	require.NoError(t, err)

	headers, err := auth.Headers("DELETE", "/portfolio/orders/abc")
	require.NoError(t, err)

	require.Equal(t, "my-key-id", headers["KALSHI-ACCESS-KEY"])
	require.NotEmpty(t, headers["KALSHI-ACCESS-TIMESTAMP"])
	require.NotEmpty(t, headers["KALSHI-ACCESS-SIGNATURE"])
}

func TestNewAuth_MissingFileFailsFatally(t *testing.T) {
	_, err := NewAuth(filepath.Join(t.TempDir(), "does-not-exist.pem"), "key-id")
	require.Error(t, err)
}

func TestNewAuth_UnparsablePEMFailsFatally(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.pem")
	require.NoError(t, pemWrite(path, &pem.Block{Type: "RSA PRIVATE KEY", Bytes: []byte("not a key")}))

	_, err := NewAuth(path, "key-id")
	require.Error(t, err)
}
