// Package memory provides in-memory implementations of the domain
// repositories. They back the test suite and the no-database development
// mode. Every operation takes the store mutex, so check-then-write sequences
// like InsertIfAbsent are atomic with respect to interleaved watcher cycles.
package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/Falleiro/Finova/internal/domain/account"
	"github.com/Falleiro/Finova/internal/domain/investment"
	"github.com/Falleiro/Finova/internal/domain/notification"
	"github.com/Falleiro/Finova/internal/domain/transaction"
)

// Store holds the three entity collections plus the notification log.
type Store struct {
	mu            sync.Mutex
	accounts      map[string]account.Account
	transactions  map[string]transaction.Transaction
	investments   map[string]investment.Investment
	notifications []notification.Notification
}

func NewStore() *Store {
	return &Store{
		accounts:     make(map[string]account.Account),
		transactions: make(map[string]transaction.Transaction),
		investments:  make(map[string]investment.Investment),
	}
}

// Accounts returns the account repository view of the store.
func (s *Store) Accounts() account.Repository { return (*accountRepo)(s) }

// Transactions returns the transaction repository view of the store.
func (s *Store) Transactions() transaction.Repository { return (*transactionRepo)(s) }

// Investments returns the investment repository view of the store.
func (s *Store) Investments() investment.Repository { return (*investmentRepo)(s) }

// Notifications returns the notification log view of the store.
func (s *Store) Notifications() notification.Repository { return (*notificationRepo)(s) }

// ── accounts ────────────────────────────────────────────────────────────────

type accountRepo Store

var _ account.Repository = (*accountRepo)(nil)

func (r *accountRepo) Upsert(_ context.Context, acc account.Account) (*account.Account, error) {
	if err := acc.Validate(); err != nil {
		return nil, err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.accounts[acc.ID] = acc
	stored := acc
	return &stored, nil
}

func (r *accountRepo) GetByID(_ context.Context, id string) (*account.Account, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	acc, ok := r.accounts[id]
	if !ok {
		return nil, account.ErrAccountNotFound
	}
	return &acc, nil
}

func (r *accountRepo) List(_ context.Context) ([]*account.Account, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	accounts := make([]*account.Account, 0, len(r.accounts))
	for _, acc := range r.accounts {
		stored := acc
		accounts = append(accounts, &stored)
	}
	sort.Slice(accounts, func(i, j int) bool { return accounts[i].ID < accounts[j].ID })
	return accounts, nil
}

// ── transactions ────────────────────────────────────────────────────────────

type transactionRepo Store

var _ transaction.Repository = (*transactionRepo)(nil)

func (r *transactionRepo) InsertIfAbsent(_ context.Context, tx transaction.Transaction) (*transaction.Transaction, bool, error) {
	if err := tx.Validate(); err != nil {
		return nil, false, err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if existing, ok := r.transactions[tx.ID]; ok {
		stored := existing
		return &stored, false, nil
	}
	r.transactions[tx.ID] = tx
	stored := tx
	return &stored, true, nil
}

func (r *transactionRepo) GetByID(_ context.Context, id string) (*transaction.Transaction, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	tx, ok := r.transactions[id]
	if !ok {
		return nil, transaction.ErrTransactionNotFound
	}
	return &tx, nil
}

func (r *transactionRepo) ListSince(_ context.Context, since time.Time) ([]*transaction.Transaction, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var transactions []*transaction.Transaction
	for _, tx := range r.transactions {
		if tx.Timestamp.Before(since) {
			continue
		}
		stored := tx
		transactions = append(transactions, &stored)
	}
	sort.Slice(transactions, func(i, j int) bool {
		return transactions[i].Timestamp.After(transactions[j].Timestamp)
	})
	return transactions, nil
}

func (r *transactionRepo) MarkNotified(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	tx, ok := r.transactions[id]
	if !ok {
		return transaction.ErrTransactionNotFound
	}
	tx.AlreadyNotified = true
	r.transactions[id] = tx
	return nil
}

// ── investments ─────────────────────────────────────────────────────────────

type investmentRepo Store

var _ investment.Repository = (*investmentRepo)(nil)

func (r *investmentRepo) Upsert(_ context.Context, inv investment.Investment) (*investment.Investment, error) {
	if err := inv.Validate(); err != nil {
		return nil, err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.investments[inv.AssetID] = inv
	stored := inv
	return &stored, nil
}

func (r *investmentRepo) GetByAssetID(_ context.Context, assetID string) (*investment.Investment, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	inv, ok := r.investments[assetID]
	if !ok {
		return nil, investment.ErrInvestmentNotFound
	}
	return &inv, nil
}

func (r *investmentRepo) List(_ context.Context) ([]*investment.Investment, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	investments := make([]*investment.Investment, 0, len(r.investments))
	for _, inv := range r.investments {
		stored := inv
		investments = append(investments, &stored)
	}
	sort.Slice(investments, func(i, j int) bool {
		return investments[i].TotalValue > investments[j].TotalValue
	})
	return investments, nil
}

func (r *investmentRepo) ClearAlert(_ context.Context, assetID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	inv, ok := r.investments[assetID]
	if !ok {
		return investment.ErrInvestmentNotFound
	}
	inv.AlertTriggered = false
	r.investments[assetID] = inv
	return nil
}

func (r *investmentRepo) ClearTriggeredAlerts(_ context.Context) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for id, inv := range r.investments {
		if inv.AlertTriggered {
			inv.AlertTriggered = false
			r.investments[id] = inv
		}
	}
	return nil
}

// ── notifications ───────────────────────────────────────────────────────────

type notificationRepo Store

var _ notification.Repository = (*notificationRepo)(nil)

func (r *notificationRepo) Record(_ context.Context, n notification.Notification) error {
	if n.ID == "" {
		return notification.ErrInvalidInput
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.notifications = append(r.notifications, n)
	return nil
}

func (r *notificationRepo) ListRecent(_ context.Context, limit int) ([]*notification.Notification, error) {
	if limit <= 0 {
		limit = 50
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	var notifications []*notification.Notification
	for i := len(r.notifications) - 1; i >= 0 && len(notifications) < limit; i-- {
		stored := r.notifications[i]
		notifications = append(notifications, &stored)
	}
	return notifications, nil
}
