package app

import (
	"testing"

	"go.uber.org/zap"

	"github.com/mselser95/bracket-arb/pkg/config"
)

func TestNew_PropagatesSigningKeyLoadFailure(t *testing.T) {
	cfg := &config.Config{
		Scanner: config.ScannerConfig{IntervalSecs: 30, MinBrackets: 2, MaxBrackets: 15, SeriesCacheSecs: 300},
		Risk:    config.RiskConfig{PositionSize: 5},
		Kalshi:  config.KalshiConfig{BaseURL: "https://example.com", RSAKeyPath: "/nonexistent/key.pem"},
		APIKeyID: "key-1",
	}

	if _, err := New(cfg, zap.NewNop()); err == nil {
		t.Fatal("expected missing key file to fail app construction")
	}
}
