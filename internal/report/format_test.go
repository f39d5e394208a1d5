package report

import (
	"strings"
	"testing"
	"time"

	"github.com/Falleiro/Finova/internal/domain/investment"
	"github.com/Falleiro/Finova/internal/domain/transaction"
)

func TestFormatBRL(t *testing.T) {
	tests := []struct {
		cents int64
		want  string
	}{
		{0, "R$ 0,00"},
		{5, "R$ 0,05"},
		{150075, "R$ 1.500,75"},
		{-4290, "-R$ 42,90"},
		{123456789, "R$ 1.234.567,89"},
		{100000000, "R$ 1.000.000,00"},
	}
	for _, tc := range tests {
		if got := FormatBRL(tc.cents); got != tc.want {
			t.Errorf("FormatBRL(%d) = %q, want %q", tc.cents, got, tc.want)
		}
	}
}

func TestFormatPercent(t *testing.T) {
	if got := FormatPercent(4.0541); got != "+4.05%" {
		t.Errorf("FormatPercent(4.0541) = %q", got)
	}
	if got := FormatPercent(-3.2); got != "-3.20%" {
		t.Errorf("FormatPercent(-3.2) = %q", got)
	}
}

func TestLargeTransactionMessage(t *testing.T) {
	msg := LargeTransactionMessage(&transaction.Transaction{
		ID:          "txn-1",
		AccountID:   "acc-1",
		Amount:      -25000,
		Description: "IFOOD *RESTAURANTE",
		Merchant:    "iFood",
		Category:    transaction.CategoryFoodDelivery,
		Timestamp:   time.Date(2026, 3, 10, 19, 30, 0, 0, time.UTC),
	})

	for _, want := range []string{"-R$ 250,00", "debit", "IFOOD *RESTAURANTE", "iFood", "Food & Delivery", "10/03/2026 19:30"} {
		if !strings.Contains(msg, want) {
			t.Errorf("message missing %q:\n%s", want, msg)
		}
	}
}

func TestInvestmentAlertMessage_Direction(t *testing.T) {
	up := InvestmentAlertMessage(&investment.Investment{Ticker: "PETR4", DailyChangePct: 4.0541, CurrentPrice: 3850, TotalValue: 385000})
	if !strings.Contains(up, "📈") || !strings.Contains(up, "+4.05%") {
		t.Errorf("upward alert malformed:\n%s", up)
	}

	down := InvestmentAlertMessage(&investment.Investment{Ticker: "VALE3", DailyChangePct: -5.1, CurrentPrice: 6100, TotalValue: 610000})
	if !strings.Contains(down, "📉") || !strings.Contains(down, "-5.10%") {
		t.Errorf("downward alert malformed:\n%s", down)
	}
}

func TestDailySummaryMessage_NoTransactions(t *testing.T) {
	msg := DailySummaryMessage(time.Date(2026, 3, 10, 8, 0, 0, 0, time.UTC), Summary{}, nil)
	if !strings.Contains(msg, "No transactions in the last 24 hours.") {
		t.Errorf("expected empty-window text:\n%s", msg)
	}
}

func TestMonthlyReportMessage_NoPreviousMonth(t *testing.T) {
	current := Summarize([]*transaction.Transaction{tx("1", -5000, transaction.CategoryTransport)})
	msg := MonthlyReportMessage(time.Date(2026, 2, 1, 0, 0, 0, 0, time.UTC), current, Summary{})

	if !strings.Contains(msg, "February 2026") {
		t.Errorf("expected month heading:\n%s", msg)
	}
	if !strings.Contains(msg, "No data for the previous month.") {
		t.Errorf("expected missing-baseline text:\n%s", msg)
	}
}
