package watcher

import (
	"context"
	"fmt"
	"log"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"

	"github.com/Falleiro/Finova/internal/domain/account"
	"github.com/Falleiro/Finova/internal/domain/notification"
	"github.com/Falleiro/Finova/internal/domain/transaction"
	"github.com/Falleiro/Finova/internal/openfinance"
	"github.com/Falleiro/Finova/internal/report"
)

const transactionWatcherName = "transactions"

// TransactionWatcherConfig wires the transaction poll loop.
type TransactionWatcherConfig struct {
	API           openfinance.API
	Accounts      account.Repository
	Transactions  transaction.Repository
	Notifications notification.Repository
	Messenger     notification.Messenger
	Destination   string

	// ThresholdCents is the absolute amount at or above which a newly
	// ingested transaction fires an alert.
	ThresholdCents int64
	Interval       time.Duration
}

// TransactionWatcher polls accounts and recent transactions, persists them,
// and alerts on large movements. Alerts are edge-triggered: only the cycle
// that first inserts a transaction may alert on it, so restarts and
// re-fetched pages never re-notify.
type TransactionWatcher struct {
	*Watcher
	cfg TransactionWatcherConfig
}

func NewTransactionWatcher(cfg TransactionWatcherConfig) *TransactionWatcher {
	tw := &TransactionWatcher{cfg: cfg}
	tw.Watcher = New(transactionWatcherName, cfg.Interval, tw.poll)
	return tw
}

func (tw *TransactionWatcher) poll(ctx context.Context) error {
	if err := tw.syncAccounts(ctx); err != nil {
		return err
	}
	return tw.syncTransactions(ctx)
}

func (tw *TransactionWatcher) syncAccounts(ctx context.Context) error {
	accounts, err := tw.cfg.API.FetchAccounts(ctx)
	if err != nil {
		return fmt.Errorf("account sync: %w", err)
	}

	for _, acc := range accounts {
		if _, err := tw.cfg.Accounts.Upsert(ctx, acc); err != nil {
			log.Printf("Watcher %s: Failed to upsert account %s: %v", transactionWatcherName, acc.ID, err)
		}
	}
	return nil
}

func (tw *TransactionWatcher) syncTransactions(ctx context.Context) error {
	fetched, err := tw.cfg.API.FetchTransactions(ctx, 1)
	if err != nil {
		return fmt.Errorf("transaction sync: %w", err)
	}

	inserted := 0
	for _, tx := range fetched {
		stored, isNew, err := tw.cfg.Transactions.InsertIfAbsent(ctx, tx)
		if err != nil {
			log.Printf("Watcher %s: Failed to ingest transaction %s: %v", transactionWatcherName, tx.ID, err)
			continue
		}
		if !isNew {
			continue
		}

		inserted++
		recordsIngested.Add(ctx, 1, metric.WithAttributes(attribute.String("watcher", transactionWatcherName)))
		tw.maybeAlert(ctx, stored)
	}

	if inserted > 0 {
		log.Printf("Watcher %s: Ingested %d new transactions", transactionWatcherName, inserted)
	}
	return nil
}

// maybeAlert fires at most once per transaction. Delivery failures are logged
// and the transaction stays unnotified, but since alerting is gated on the
// insert edge the alert is not retried on later cycles. The notification log
// records the attempt either way.
func (tw *TransactionWatcher) maybeAlert(ctx context.Context, tx *transaction.Transaction) {
	if tw.cfg.ThresholdCents <= 0 || tx.AlreadyNotified {
		return
	}
	amount := tx.Amount
	if amount < 0 {
		amount = -amount
	}
	if amount < tw.cfg.ThresholdCents {
		return
	}

	body := report.LargeTransactionMessage(tx)
	delivered := true
	if err := tw.cfg.Messenger.Send(ctx, tw.cfg.Destination, body); err != nil {
		delivered = false
		log.Printf("Watcher %s: Failed to deliver alert for transaction %s: %v", transactionWatcherName, tx.ID, err)
	}

	if delivered {
		alertsFired.Add(ctx, 1, metric.WithAttributes(attribute.String("watcher", transactionWatcherName)))
		if err := tw.cfg.Transactions.MarkNotified(ctx, tx.ID); err != nil {
			log.Printf("Watcher %s: Failed to mark transaction %s notified: %v", transactionWatcherName, tx.ID, err)
		}
	}

	record := notification.New(notification.KindLargeTransaction, tx.ID, body, delivered)
	if err := tw.cfg.Notifications.Record(ctx, record); err != nil {
		log.Printf("Watcher %s: Failed to record notification: %v", transactionWatcherName, err)
	}
}
