package report

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/Falleiro/Finova/internal/domain/account"
	"github.com/Falleiro/Finova/internal/domain/investment"
	"github.com/Falleiro/Finova/internal/domain/transaction"
	"github.com/Falleiro/Finova/internal/infrastructure/memory"
)

// stubAPI implements openfinance.API with function fields, so each test
// overrides only what it needs.
type stubAPI struct {
	fetchAccounts     func(ctx context.Context) ([]account.Account, error)
	fetchTransactions func(ctx context.Context, days int) ([]transaction.Transaction, error)
}

func (s *stubAPI) FetchAccounts(ctx context.Context) ([]account.Account, error) {
	if s.fetchAccounts == nil {
		return nil, nil
	}
	return s.fetchAccounts(ctx)
}

func (s *stubAPI) FetchTransactions(ctx context.Context, days int) ([]transaction.Transaction, error) {
	if s.fetchTransactions == nil {
		return nil, nil
	}
	return s.fetchTransactions(ctx, days)
}

func (s *stubAPI) FetchInvestments(context.Context) ([]investment.Investment, error) {
	return nil, nil
}

func (s *stubAPI) Invalidate() {}

func TestDaily_RefreshesAndSummarizes(t *testing.T) {
	store := memory.NewStore()
	now := time.Date(2026, 3, 10, 8, 0, 0, 0, time.UTC)

	api := &stubAPI{
		fetchAccounts: func(context.Context) ([]account.Account, error) {
			return []account.Account{
				{ID: "acc-1", Institution: "Banco Alfa", AccountType: "CHECKING_ACCOUNT", Balance: 150075, Currency: "BRL", LastUpdated: now},
			}, nil
		},
		fetchTransactions: func(context.Context, int) ([]transaction.Transaction, error) {
			return []transaction.Transaction{
				{ID: "t-new", AccountID: "acc-1", Amount: -4290, Description: "ifood", Category: transaction.CategoryFoodDelivery, Timestamp: now.Add(-2 * time.Hour)},
				{ID: "t-old", AccountID: "acc-1", Amount: -9900, Category: transaction.CategoryShopping, Timestamp: now.Add(-40 * time.Hour)},
			}, nil
		},
	}

	msg, err := NewReporter(api, store.Accounts(), store.Transactions()).Daily(context.Background(), now)
	if err != nil {
		t.Fatalf("Daily failed: %v", err)
	}

	// Only the transaction inside the 24h window counts.
	if !strings.Contains(msg, "Transactions: 1") {
		t.Errorf("expected exactly one transaction in window:\n%s", msg)
	}
	if !strings.Contains(msg, "Spent: R$ 42,90") {
		t.Errorf("expected spend total:\n%s", msg)
	}
	if !strings.Contains(msg, "Banco Alfa: R$ 1.500,75") {
		t.Errorf("expected account balance line:\n%s", msg)
	}
}

func TestMonthly_SplitsCalendarMonths(t *testing.T) {
	store := memory.NewStore()
	ctx := context.Background()
	now := time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)

	seed := []transaction.Transaction{
		// February (reported month): 300 spent.
		{ID: "feb-1", AccountID: "acc-1", Amount: -20000, Category: transaction.CategoryTransport, Timestamp: time.Date(2026, 2, 10, 0, 0, 0, 0, time.UTC)},
		{ID: "feb-2", AccountID: "acc-1", Amount: -10000, Category: transaction.CategoryHealth, Timestamp: time.Date(2026, 2, 20, 0, 0, 0, 0, time.UTC)},
		// January (baseline): 200 spent.
		{ID: "jan-1", AccountID: "acc-1", Amount: -20000, Category: transaction.CategoryTransport, Timestamp: time.Date(2026, 1, 15, 0, 0, 0, 0, time.UTC)},
		// March must not leak into the February report.
		{ID: "mar-1", AccountID: "acc-1", Amount: -99900, Category: transaction.CategoryShopping, Timestamp: time.Date(2026, 3, 1, 1, 0, 0, 0, time.UTC)},
	}
	for _, tx := range seed {
		if _, _, err := store.Transactions().InsertIfAbsent(ctx, tx); err != nil {
			t.Fatalf("seed failed: %v", err)
		}
	}

	msg, err := NewReporter(&stubAPI{}, store.Accounts(), store.Transactions()).Monthly(ctx, now)
	if err != nil {
		t.Fatalf("Monthly failed: %v", err)
	}

	if !strings.Contains(msg, "February 2026") {
		t.Errorf("expected February heading:\n%s", msg)
	}
	if !strings.Contains(msg, "Spent: R$ 300,00") {
		t.Errorf("expected February spend of 300:\n%s", msg)
	}
	// Spending rose 100 over January's 200, a 50% increase.
	if !strings.Contains(msg, "Spending: R$ 100,00 (+50.00%)") {
		t.Errorf("expected month-over-month delta:\n%s", msg)
	}
	if strings.Contains(msg, "999,00") {
		t.Errorf("March transaction leaked into the report:\n%s", msg)
	}
}
