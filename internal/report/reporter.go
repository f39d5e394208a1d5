package report

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/Falleiro/Finova/internal/domain/account"
	"github.com/Falleiro/Finova/internal/domain/transaction"
	"github.com/Falleiro/Finova/internal/openfinance"
)

// Reporter assembles the scheduled digests. It refreshes the local cache from
// the provider before summarizing, so a report is never staler than the call
// that produced it.
type Reporter struct {
	api          openfinance.API
	accounts     account.Repository
	transactions transaction.Repository
}

func NewReporter(api openfinance.API, accounts account.Repository, transactions transaction.Repository) *Reporter {
	return &Reporter{api: api, accounts: accounts, transactions: transactions}
}

// Daily builds the digest for the 24 hours preceding now.
func (r *Reporter) Daily(ctx context.Context, now time.Time) (string, error) {
	if err := r.refresh(ctx, 2); err != nil {
		return "", err
	}

	since := now.Add(-24 * time.Hour)
	window, err := r.transactions.ListSince(ctx, since)
	if err != nil {
		return "", fmt.Errorf("failed to load daily window: %w", err)
	}

	accounts, err := r.accounts.List(ctx)
	if err != nil {
		return "", fmt.Errorf("failed to load accounts: %w", err)
	}

	return DailySummaryMessage(now, Summarize(window), accounts), nil
}

// Monthly builds the report for the calendar month that ended just before
// now, compared against the month before that.
func (r *Reporter) Monthly(ctx context.Context, now time.Time) (string, error) {
	if err := r.refresh(ctx, 35); err != nil {
		return "", err
	}

	monthStart := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location())
	reportedMonth := monthStart.AddDate(0, -1, 0)
	previousMonth := monthStart.AddDate(0, -2, 0)

	stored, err := r.transactions.ListSince(ctx, previousMonth)
	if err != nil {
		return "", fmt.Errorf("failed to load monthly window: %w", err)
	}

	var current, previous []*transaction.Transaction
	for _, tx := range stored {
		switch {
		case tx.Timestamp.Before(reportedMonth):
			previous = append(previous, tx)
		case tx.Timestamp.Before(monthStart):
			current = append(current, tx)
		}
	}

	return MonthlyReportMessage(reportedMonth, Summarize(current), Summarize(previous)), nil
}

// refresh pulls accounts and the recent transaction window into the store.
// Individual upsert failures are logged and skipped so one bad record cannot
// sink a whole report.
func (r *Reporter) refresh(ctx context.Context, days int) error {
	accounts, err := r.api.FetchAccounts(ctx)
	if err != nil {
		return fmt.Errorf("failed to refresh accounts: %w", err)
	}
	for _, acc := range accounts {
		if _, err := r.accounts.Upsert(ctx, acc); err != nil {
			log.Printf("Reporter: Failed to upsert account %s: %v", acc.ID, err)
		}
	}

	transactions, err := r.api.FetchTransactions(ctx, days)
	if err != nil {
		return fmt.Errorf("failed to refresh transactions: %w", err)
	}
	for _, tx := range transactions {
		if _, _, err := r.transactions.InsertIfAbsent(ctx, tx); err != nil {
			log.Printf("Reporter: Failed to ingest transaction %s: %v", tx.ID, err)
		}
	}
	return nil
}
