package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"
	"github.com/spf13/viper"
)

// ScannerConfig controls the scan cycle's pacing and event gates.
type ScannerConfig struct {
	IntervalSecs    uint64   `mapstructure:"interval_secs"`
	SeriesFilter    []string `mapstructure:"series_filter"`
	ScanDelayMs     uint64   `mapstructure:"scan_delay_ms"`
	MinBrackets     int      `mapstructure:"min_brackets"`
	MaxBrackets     int      `mapstructure:"max_brackets"`
	SeriesCacheSecs uint64   `mapstructure:"series_cache_secs"`
}

// RiskConfig controls the profitability floors and position sizing
// used by the detector and risk limiter.
type RiskConfig struct {
	MinNetProfitCents int64   `mapstructure:"min_net_profit_cents"`
	MinROIPercent     float64 `mapstructure:"min_roi_pct"`
	PositionSize      int64   `mapstructure:"position_size"`
	// MaxOpenPositions is advisory only; the hardcoded limits in
	// internal/risk are the enforced thresholds. See DESIGN.md.
	MaxOpenPositions uint32 `mapstructure:"max_open_positions"`
}

// KalshiConfig points at the exchange and the signing key.
type KalshiConfig struct {
	BaseURL    string `mapstructure:"base_url"`
	RSAKeyPath string `mapstructure:"rsa_key_path"`
}

// StorageConfig optionally tees persisted rows into Postgres.
type StorageConfig struct {
	PostgresDSN string `mapstructure:"postgres_dsn"`
}

// StatusConfig optionally starts a read-only status HTTP server.
type StatusConfig struct {
	ListenAddr string `mapstructure:"listen_addr"`
}

// Config is the fully-loaded application configuration: config.toml
// plus the environment variables named in SPEC_FULL.md §6.
type Config struct {
	Scanner ScannerConfig `mapstructure:"scanner"`
	Risk    RiskConfig    `mapstructure:"risk"`
	Kalshi  KalshiConfig  `mapstructure:"kalshi"`
	Storage StorageConfig `mapstructure:"storage"`
	Status  StatusConfig  `mapstructure:"status"`

	// Environment-sourced fields, not part of config.toml.
	APIKeyID         string
	DryRun           bool
	TelegramBotToken string
	TelegramChatID   string
	LogLevel         string
}

// Load reads config.toml from the current working directory, applies
// defaults, overlays the required and optional environment variables,
// and validates the result.
func Load() (*Config, error) {
	v := viper.New()
	v.SetConfigName("config")
	v.SetConfigType("toml")
	v.AddConfigPath(".")

	v.SetDefault("scanner.scan_delay_ms", 150)
	v.SetDefault("scanner.min_brackets", 2)
	v.SetDefault("scanner.max_brackets", 15)
	v.SetDefault("scanner.series_cache_secs", 300)
	v.SetDefault("scanner.series_filter", []string{})

	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("read config.toml: %w", err)
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("decode config.toml: %w", err)
	}

	cfg.APIKeyID = os.Getenv("KALSHI_API_KEY_ID")
	cfg.DryRun = parseTruthy(os.Getenv("DRY_RUN"))
	cfg.TelegramBotToken = os.Getenv("TELEGRAM_BOT_TOKEN")
	cfg.TelegramChatID = os.Getenv("TELEGRAM_CHAT_ID")
	cfg.LogLevel = os.Getenv("LOG_LEVEL")
	if cfg.LogLevel == "" {
		cfg.LogLevel = "info"
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("validate config: %w", err)
	}

	return &cfg, nil
}

func parseTruthy(v string) bool {
	b, err := strconv.ParseBool(strings.ToLower(v))
	return err == nil && b
}

// MinROIDecimal converts the configured ROI percent floor into the
// fixed-precision decimal the detector's gates expect.
func (c *Config) MinROIDecimal() decimal.Decimal {
	return decimal.NewFromFloat(c.Risk.MinROIPercent)
}

// Validate checks the loaded configuration for required fields and
// internally-consistent ranges.
func (c *Config) Validate() error {
	if c.Scanner.IntervalSecs == 0 {
		return fmt.Errorf("scanner.interval_secs is required")
	}
	if c.Scanner.MinBrackets < 1 {
		return fmt.Errorf("scanner.min_brackets must be at least 1, got %d", c.Scanner.MinBrackets)
	}
	if c.Scanner.MaxBrackets < c.Scanner.MinBrackets {
		return fmt.Errorf("scanner.max_brackets (%d) must be >= scanner.min_brackets (%d)",
			c.Scanner.MaxBrackets, c.Scanner.MinBrackets)
	}
	if c.Risk.PositionSize == 0 {
		return fmt.Errorf("risk.position_size is required")
	}
	if c.Kalshi.BaseURL == "" {
		return fmt.Errorf("kalshi.base_url is required")
	}
	if strings.HasSuffix(c.Kalshi.BaseURL, "/") {
		return fmt.Errorf("kalshi.base_url must not have a trailing slash, got %q", c.Kalshi.BaseURL)
	}
	if c.Kalshi.RSAKeyPath == "" {
		return fmt.Errorf("kalshi.rsa_key_path is required")
	}
	if c.APIKeyID == "" {
		return fmt.Errorf("KALSHI_API_KEY_ID environment variable is required")
	}
	return nil
}
