package kalshi

import (
	"crypto"
	"crypto/rand"
	"crypto/rsa"
	"crypto/sha256"
	"crypto/x509"
	"encoding/base64"
	"encoding/pem"
	"fmt"
	"os"
	"strconv"
	"time"
)

// Auth signs outbound requests with RSASSA-PKCS#1 v1.5 over SHA-256,
// per the exchange's KALSHI-ACCESS-* header scheme. The private key is
// immutable after load, so Auth is safe for concurrent use.
type Auth struct {
	privateKey *rsa.PrivateKey
	apiKeyID   string
}

// NewAuth loads an RSA private key from a PKCS#1 PEM file. A missing or
// unparsable key is a fatal startup error.
func NewAuth(pemPath, apiKeyID string) (*Auth, error) {
	content, err := os.ReadFile(pemPath)
	if err != nil {
		return nil, fmt.Errorf("read RSA key from %s: %w", pemPath, err)
	}

	block, _ := pem.Decode(content)
	if block == nil {
		return nil, fmt.Errorf("parse RSA private key from %s: no PEM block found", pemPath)
	}

	key, err := x509.ParsePKCS1PrivateKey(block.Bytes)
	if err != nil {
		return nil, fmt.Errorf("parse RSA private key (PKCS#1) from %s: %w", pemPath, err)
	}

	return &Auth{privateKey: key, apiKeyID: apiKeyID}, nil
}

// TimestampMS returns the current Unix time in milliseconds.
func TimestampMS() int64 {
	return time.Now().UnixMilli()
}

// Sign computes base64(PKCS#1-v1.5-SHA256(timestampMs || method || path)).
func (a *Auth) Sign(timestampMS int64, method, path string) (string, error) {
	message := strconv.FormatInt(timestampMS, 10) + method + path
	digest := sha256.Sum256([]byte(message))

	signature, err := rsa.SignPKCS1v15(rand.Reader, a.privateKey, crypto.SHA256, digest[:])
	if err != nil {
		return "", fmt.Errorf("sign request: %w", err)
	}

	return base64.StdEncoding.EncodeToString(signature), nil
}

// Headers returns the three KALSHI-ACCESS-* headers for one request.
func (a *Auth) Headers(method, path string) (map[string]string, error) {
	ts := TimestampMS()
	sig, err := a.Sign(ts, method, path)
	if err != nil {
		return nil, err
	}

	return map[string]string{
		"KALSHI-ACCESS-KEY":       a.apiKeyID,
		"KALSHI-ACCESS-TIMESTAMP": strconv.FormatInt(ts, 10),
		"KALSHI-ACCESS-SIGNATURE": sig,
	}, nil
}
