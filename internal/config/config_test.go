package config

import (
	"testing"
	"time"
)

func setRequired(t *testing.T) {
	t.Setenv("OPENFINANCE_CLIENT_ID", "client-id")
	t.Setenv("OPENFINANCE_CLIENT_SECRET", "client-secret")
}

func TestLoad_Defaults(t *testing.T) {
	setRequired(t)

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if cfg.Watcher.PollInterval != 5*time.Minute {
		t.Errorf("PollInterval = %v, want 5m", cfg.Watcher.PollInterval)
	}
	if cfg.Alerts.LargeTransactionCents != 20000 {
		t.Errorf("LargeTransactionCents = %d, want 20000", cfg.Alerts.LargeTransactionCents)
	}
	if cfg.Alerts.InvestmentSwingPct != 3.0 {
		t.Errorf("InvestmentSwingPct = %v, want 3.0", cfg.Alerts.InvestmentSwingPct)
	}
	if cfg.Reports.DailyTime != "08:00" {
		t.Errorf("DailyTime = %q, want 08:00", cfg.Reports.DailyTime)
	}
	if cfg.Database.URL != "" {
		t.Errorf("Database.URL should default to empty, got %q", cfg.Database.URL)
	}
}

func TestLoad_Overrides(t *testing.T) {
	setRequired(t)
	t.Setenv("POLL_INTERVAL_SECONDS", "60")
	t.Setenv("LARGE_TRANSACTION_THRESHOLD", "350.50")
	t.Setenv("INVESTMENT_ALERT_THRESHOLD", "5")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if cfg.Watcher.PollInterval != time.Minute {
		t.Errorf("PollInterval = %v, want 1m", cfg.Watcher.PollInterval)
	}
	if cfg.Alerts.LargeTransactionCents != 35050 {
		t.Errorf("LargeTransactionCents = %d, want 35050", cfg.Alerts.LargeTransactionCents)
	}
	if cfg.Alerts.InvestmentSwingPct != 5.0 {
		t.Errorf("InvestmentSwingPct = %v, want 5", cfg.Alerts.InvestmentSwingPct)
	}
}

func TestLoad_MissingCredentials(t *testing.T) {
	t.Setenv("OPENFINANCE_CLIENT_ID", "")
	t.Setenv("OPENFINANCE_CLIENT_SECRET", "")

	if _, err := Load(); err == nil {
		t.Fatal("expected an error when provider credentials are missing")
	}
}

func TestLoad_InvalidPollInterval(t *testing.T) {
	setRequired(t)
	t.Setenv("POLL_INTERVAL_SECONDS", "zero")
	if _, err := Load(); err == nil {
		t.Fatal("expected an error for a non-numeric poll interval")
	}

	t.Setenv("POLL_INTERVAL_SECONDS", "-5")
	if _, err := Load(); err == nil {
		t.Fatal("expected an error for a negative poll interval")
	}
}

func TestLoad_TelegramChatRequiredWithToken(t *testing.T) {
	setRequired(t)
	t.Setenv("TELEGRAM_BOT_TOKEN", "token")
	t.Setenv("TELEGRAM_CHAT_ID", "")

	if _, err := Load(); err == nil {
		t.Fatal("expected an error when the bot token is set without a chat id")
	}
}
