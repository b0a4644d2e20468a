package config

import (
	"os"
	"path/filepath"
	"testing"
)

const validTOML = `
[scanner]
interval_secs = 30

[risk]
min_net_profit_cents = 10
min_roi_pct = 1.0
position_size = 5
max_open_positions = 3

[kalshi]
base_url = "https://api.example.com"
rsa_key_path = "/tmp/key.pem"
`

func writeConfig(t *testing.T, toml string) {
	t.Helper()
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "config.toml"), []byte(toml), 0o644); err != nil {
		t.Fatal(err)
	}
	t.Chdir(dir)
}

func TestLoad_AppliesDefaultsAndRequiredEnv(t *testing.T) {
	writeConfig(t, validTOML)
	t.Setenv("KALSHI_API_KEY_ID", "key-1")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if cfg.Scanner.MinBrackets != 2 || cfg.Scanner.MaxBrackets != 15 {
		t.Errorf("expected default bracket bounds, got min=%d max=%d", cfg.Scanner.MinBrackets, cfg.Scanner.MaxBrackets)
	}
	if cfg.Scanner.SeriesCacheSecs != 300 {
		t.Errorf("expected default series cache ttl, got %d", cfg.Scanner.SeriesCacheSecs)
	}
	if cfg.APIKeyID != "key-1" {
		t.Errorf("expected API key id from env, got %q", cfg.APIKeyID)
	}
	if cfg.LogLevel != "info" {
		t.Errorf("expected default log level, got %q", cfg.LogLevel)
	}
	if cfg.DryRun {
		t.Error("expected dry run off by default")
	}
}

func TestLoad_ParsesDryRunTruthyVariants(t *testing.T) {
	writeConfig(t, validTOML)
	t.Setenv("KALSHI_API_KEY_ID", "key-1")
	t.Setenv("DRY_RUN", "TRUE")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !cfg.DryRun {
		t.Error("expected DRY_RUN=TRUE to parse as true")
	}
}

func TestLoad_MissingAPIKeyIDFails(t *testing.T) {
	writeConfig(t, validTOML)

	if _, err := Load(); err == nil {
		t.Fatal("expected missing KALSHI_API_KEY_ID to fail validation")
	}
}

func TestLoad_RejectsTrailingSlashBaseURL(t *testing.T) {
	writeConfig(t, `
[scanner]
interval_secs = 30
[risk]
min_net_profit_cents = 10
min_roi_pct = 1.0
position_size = 5
max_open_positions = 3
[kalshi]
base_url = "https://api.example.com/"
rsa_key_path = "/tmp/key.pem"
`)
	t.Setenv("KALSHI_API_KEY_ID", "key-1")

	if _, err := Load(); err == nil {
		t.Fatal("expected trailing slash base_url to fail validation")
	}
}

func TestLoad_RejectsMaxBracketsBelowMinBrackets(t *testing.T) {
	writeConfig(t, `
[scanner]
interval_secs = 30
min_brackets = 10
max_brackets = 5
[risk]
min_net_profit_cents = 10
min_roi_pct = 1.0
position_size = 5
max_open_positions = 3
[kalshi]
base_url = "https://api.example.com"
rsa_key_path = "/tmp/key.pem"
`)
	t.Setenv("KALSHI_API_KEY_ID", "key-1")

	if _, err := Load(); err == nil {
		t.Fatal("expected max_brackets < min_brackets to fail validation")
	}
}

func TestConfig_MinROIDecimal_ConvertsFloatToDecimal(t *testing.T) {
	c := &Config{Risk: RiskConfig{MinROIPercent: 2.5}}
	if got := c.MinROIDecimal().InexactFloat64(); got != 2.5 {
		t.Errorf("expected 2.5, got %v", got)
	}
}
