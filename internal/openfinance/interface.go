package openfinance

import (
	"context"

	"github.com/Falleiro/Finova/internal/domain/account"
	"github.com/Falleiro/Finova/internal/domain/investment"
	"github.com/Falleiro/Finova/internal/domain/transaction"
)

// API is the boundary the watchers and report builders consume. Each fetch
// returns either the full list of canonical records or an error from the
// taxonomy in errors.go; malformed individual records are skipped, never
// fatal for the batch.
type API interface {
	FetchAccounts(ctx context.Context) ([]account.Account, error)
	FetchTransactions(ctx context.Context, days int) ([]transaction.Transaction, error)
	FetchInvestments(ctx context.Context) ([]investment.Investment, error)
	Invalidate()
}
