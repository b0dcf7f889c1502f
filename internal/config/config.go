// Package config provides configuration management for the dispatch application.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/viper"
)

// Config holds all application configuration.
type Config struct {
	Trading       TradingConfig      `mapstructure:"trading"`
	Dispatch      DispatchConfig     `mapstructure:"dispatch"`
	MarketData    MarketDataConfig   `mapstructure:"marketdata"`
	Storage       StorageConfig      `mapstructure:"storage"`
	Server        ServerConfig       `mapstructure:"server"`
	Notifications NotificationConfig `mapstructure:"notifications"`
	Logging       LoggingConfig      `mapstructure:"logging"`
	Credentials   Credentials        `mapstructure:"-"` // Loaded separately
}

// TradingConfig holds order construction configuration. Quantity is a
// fixed lot count applied to every account; it is deliberately not
// derived from account capital.
type TradingConfig struct {
	Strategy        string `mapstructure:"strategy"`
	Quantity        int    `mapstructure:"quantity"`
	Product         string `mapstructure:"product"`          // INTRADAY, MARGIN
	ExchangeSegment string `mapstructure:"exchange_segment"` // NSE_FNO, BSE_FNO
}

// DispatchConfig holds multi-account dispatch configuration.
type DispatchConfig struct {
	OrdersPerSecond float64       `mapstructure:"orders_per_second"`
	Burst           int           `mapstructure:"burst"`
	OrderTimeout    time.Duration `mapstructure:"order_timeout"`
}

// MarketDataConfig holds option-chain API configuration.
type MarketDataConfig struct {
	BaseURL     string                      `mapstructure:"base_url"`
	Underlyings map[string]UnderlyingConfig `mapstructure:"underlyings"`
}

// UnderlyingConfig maps an alert symbol to the broker's underlying
// instrument identifiers.
type UnderlyingConfig struct {
	Scrip   int    `mapstructure:"scrip"`
	Segment string `mapstructure:"segment"` // IDX_I etc.
}

// StorageConfig holds persistence configuration.
type StorageConfig struct {
	DBPath        string `mapstructure:"db_path"`
	BackupLogPath string `mapstructure:"backup_log_path"`
	AccountsCSV   string `mapstructure:"accounts_csv"`
	SecuritiesCSV string `mapstructure:"securities_csv"`
}

// ServerConfig holds webhook listener configuration.
type ServerConfig struct {
	Addr      string `mapstructure:"addr"`
	Path      string `mapstructure:"path"`
	AuthToken string `mapstructure:"auth_token"`
}

// NotificationConfig holds notification configuration.
type NotificationConfig struct {
	Enabled  bool           `mapstructure:"enabled"`
	Telegram TelegramConfig `mapstructure:"telegram"`
	Webhook  WebhookConfig  `mapstructure:"webhook"`
}

// TelegramConfig holds Telegram notification configuration.
type TelegramConfig struct {
	Enabled  bool   `mapstructure:"enabled"`
	BotToken string `mapstructure:"bot_token"`
	ChatID   string `mapstructure:"chat_id"`
}

// WebhookConfig holds webhook notification configuration.
type WebhookConfig struct {
	Enabled bool   `mapstructure:"enabled"`
	URL     string `mapstructure:"url"`
}

// LoggingConfig holds logging configuration.
type LoggingConfig struct {
	Level string `mapstructure:"level"`
}

// Credentials holds market-data API credentials. Per-account broker
// tokens live in the account book, not here.
type Credentials struct {
	Data DataCredentials `mapstructure:"data"`
}

// DataCredentials holds credentials for the option-chain data API.
type DataCredentials struct {
	ClientID    string `mapstructure:"client_id"`
	AccessToken string `mapstructure:"access_token"`
}

// DefaultConfigDir returns the default configuration directory.
func DefaultConfigDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ".config/optiontrade"
	}
	return filepath.Join(home, ".config", "optiontrade")
}

// Load loads configuration from the specified directory.
// If configDir is empty, uses the default config directory.
func Load(configDir string) (*Config, error) {
	if configDir == "" {
		configDir = DefaultConfigDir()
	}

	cfg := &Config{}

	if err := loadConfigFile(configDir, cfg); err != nil {
		return nil, fmt.Errorf("loading config.toml: %w", err)
	}

	if err := loadCredentials(configDir, &cfg.Credentials); err != nil {
		return nil, fmt.Errorf("loading credentials.toml: %w", err)
	}

	applyEnvOverrides(cfg)

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("validating config: %w", err)
	}

	return cfg, nil
}

func loadConfigFile(configDir string, target *Config) error {
	v := viper.New()
	v.SetConfigName("config")
	v.SetConfigType("toml")
	v.AddConfigPath(configDir)

	setDefaults(v, configDir)

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); ok {
			return createTemplateConfig(configDir)
		}
		return err
	}

	return v.Unmarshal(target)
}

func setDefaults(v *viper.Viper, configDir string) {
	v.SetDefault("trading.strategy", "BB TRAP")
	v.SetDefault("trading.quantity", 75)
	v.SetDefault("trading.product", "INTRADAY")
	v.SetDefault("trading.exchange_segment", "NSE_FNO")

	v.SetDefault("dispatch.orders_per_second", 0.5)
	v.SetDefault("dispatch.burst", 1)
	v.SetDefault("dispatch.order_timeout", 10*time.Second)

	v.SetDefault("marketdata.base_url", "https://api.dhan.co/v2")

	v.SetDefault("storage.db_path", filepath.Join(configDir, "trades.db"))
	v.SetDefault("storage.backup_log_path", filepath.Join(configDir, "trades-backup.jsonl"))
	v.SetDefault("storage.accounts_csv", filepath.Join(configDir, "accounts.csv"))
	v.SetDefault("storage.securities_csv", filepath.Join(configDir, "securities.csv"))

	v.SetDefault("server.addr", ":8080")
	v.SetDefault("server.path", "/webhook")

	v.SetDefault("logging.level", "info")
}

func loadCredentials(configDir string, creds *Credentials) error {
	v := viper.New()
	v.SetConfigName("credentials")
	v.SetConfigType("toml")
	v.AddConfigPath(configDir)

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); ok {
			return createTemplateCredentials(configDir)
		}
		return err
	}

	return v.Unmarshal(creds)
}

func applyEnvOverrides(cfg *Config) {
	if v := os.Getenv("OPTIONTRADE_DATA_CLIENT_ID"); v != "" {
		cfg.Credentials.Data.ClientID = v
	}
	if v := os.Getenv("OPTIONTRADE_DATA_ACCESS_TOKEN"); v != "" {
		cfg.Credentials.Data.AccessToken = v
	}
	if v := os.Getenv("OPTIONTRADE_TELEGRAM_BOT_TOKEN"); v != "" {
		cfg.Notifications.Telegram.BotToken = v
	}
	if v := os.Getenv("OPTIONTRADE_WEBHOOK_AUTH_TOKEN"); v != "" {
		cfg.Server.AuthToken = v
	}
}

// Validate validates the configuration.
func (c *Config) Validate() error {
	if c.Trading.Quantity <= 0 {
		return fmt.Errorf("trading.quantity must be positive, got %d", c.Trading.Quantity)
	}
	if c.Trading.ExchangeSegment != "NSE_FNO" && c.Trading.ExchangeSegment != "BSE_FNO" {
		return fmt.Errorf("invalid exchange_segment: %s", c.Trading.ExchangeSegment)
	}
	if c.Dispatch.OrdersPerSecond <= 0 {
		return fmt.Errorf("dispatch.orders_per_second must be positive")
	}
	if c.Dispatch.Burst < 1 {
		return fmt.Errorf("dispatch.burst must be at least 1")
	}
	if c.Dispatch.OrderTimeout <= 0 {
		return fmt.Errorf("dispatch.order_timeout must be positive")
	}
	return nil
}
