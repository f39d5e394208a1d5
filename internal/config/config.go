package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

type Config struct {
	Database    DatabaseConfig
	OpenFinance OpenFinanceConfig
	Watcher     WatcherConfig
	Alerts      AlertsConfig
	Reports     ReportsConfig
	Telegram    TelegramConfig
	RabbitMQ    RabbitMQConfig
	Telemetry   TelemetryConfig
}

type DatabaseConfig struct {
	// URL is the full postgres connection string. Empty selects the
	// in-memory store, which is the development default.
	URL string
}

type OpenFinanceConfig struct {
	BaseURL      string
	ClientID     string
	ClientSecret string
	ItemID       string
}

type WatcherConfig struct {
	PollInterval time.Duration
}

type AlertsConfig struct {
	// LargeTransactionCents is the absolute amount at or above which a new
	// transaction fires an alert.
	LargeTransactionCents int64
	// InvestmentSwingPct is the absolute daily change, in percent, at or
	// above which a position fires an alert.
	InvestmentSwingPct float64
}

type ReportsConfig struct {
	Enabled   bool
	DailyTime string
	Timezone  string
}

type TelegramConfig struct {
	BotToken string
	ChatID   string
}

type RabbitMQConfig struct {
	URL      string
	Exchange string
}

type TelemetryConfig struct {
	Enabled      bool
	ServiceName  string
	OTLPEndpoint string
	MetricsPort  string
}

func Load() (*Config, error) {
	pollSeconds, err := strconv.Atoi(getEnv("POLL_INTERVAL_SECONDS", "300"))
	if err != nil {
		return nil, fmt.Errorf("invalid POLL_INTERVAL_SECONDS: %w", err)
	}
	if pollSeconds <= 0 {
		return nil, fmt.Errorf("POLL_INTERVAL_SECONDS must be positive, got %d", pollSeconds)
	}

	largeTransaction, err := strconv.ParseFloat(getEnv("LARGE_TRANSACTION_THRESHOLD", "200"), 64)
	if err != nil {
		return nil, fmt.Errorf("invalid LARGE_TRANSACTION_THRESHOLD: %w", err)
	}
	if largeTransaction < 0 {
		return nil, fmt.Errorf("LARGE_TRANSACTION_THRESHOLD must not be negative")
	}

	swingPct, err := strconv.ParseFloat(getEnv("INVESTMENT_ALERT_THRESHOLD", "3.0"), 64)
	if err != nil {
		return nil, fmt.Errorf("invalid INVESTMENT_ALERT_THRESHOLD: %w", err)
	}
	if swingPct < 0 {
		return nil, fmt.Errorf("INVESTMENT_ALERT_THRESHOLD must not be negative")
	}

	cfg := &Config{
		Database: DatabaseConfig{
			URL: getEnv("DATABASE_URL", ""),
		},
		OpenFinance: OpenFinanceConfig{
			BaseURL:      getEnv("OPENFINANCE_BASE_URL", "https://api.pluggy.ai"),
			ClientID:     getEnv("OPENFINANCE_CLIENT_ID", ""),
			ClientSecret: getEnv("OPENFINANCE_CLIENT_SECRET", ""),
			ItemID:       getEnv("OPENFINANCE_ITEM_ID", ""),
		},
		Watcher: WatcherConfig{
			PollInterval: time.Duration(pollSeconds) * time.Second,
		},
		Alerts: AlertsConfig{
			LargeTransactionCents: int64(largeTransaction * 100),
			InvestmentSwingPct:    swingPct,
		},
		Reports: ReportsConfig{
			Enabled:   getBoolEnv("REPORTS_ENABLED", true),
			DailyTime: getEnv("DAILY_REPORT_TIME", "08:00"),
			Timezone:  getEnv("REPORT_TIMEZONE", "America/Sao_Paulo"),
		},
		Telegram: TelegramConfig{
			BotToken: getEnv("TELEGRAM_BOT_TOKEN", ""),
			ChatID:   getEnv("TELEGRAM_CHAT_ID", ""),
		},
		RabbitMQ: RabbitMQConfig{
			URL:      getEnv("RABBITMQ_URL", ""),
			Exchange: getEnv("RABBITMQ_EXCHANGE", "finova.notifications"),
		},
		Telemetry: TelemetryConfig{
			Enabled:      getBoolEnv("OTEL_ENABLED", false),
			ServiceName:  getEnv("OTEL_SERVICE_NAME", "finova"),
			OTLPEndpoint: getEnv("OTEL_EXPORTER_ENDPOINT", "localhost:4317"),
			MetricsPort:  getEnv("METRICS_PORT", "9090"),
		},
	}

	if cfg.OpenFinance.ClientID == "" {
		return nil, fmt.Errorf("OPENFINANCE_CLIENT_ID is required")
	}
	if cfg.OpenFinance.ClientSecret == "" {
		return nil, fmt.Errorf("OPENFINANCE_CLIENT_SECRET is required")
	}
	if cfg.Telegram.BotToken != "" && cfg.Telegram.ChatID == "" {
		return nil, fmt.Errorf("TELEGRAM_CHAT_ID is required when TELEGRAM_BOT_TOKEN is set")
	}

	return cfg, nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getBoolEnv(key string, defaultValue bool) bool {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	switch strings.ToLower(value) {
	case "true", "1", "yes":
		return true
	case "false", "0", "no":
		return false
	default:
		return defaultValue
	}
}
