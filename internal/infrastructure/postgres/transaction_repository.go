package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/Falleiro/Finova/internal/domain/transaction"
)

type TransactionRepository struct {
	db *DB
}

var _ transaction.Repository = (*TransactionRepository)(nil)

func NewTransactionRepository(db *DB) *TransactionRepository {
	return &TransactionRepository{db: db}
}

// InsertIfAbsent relies on ON CONFLICT DO NOTHING so the check-then-write is
// a single atomic statement: two interleaved ingestions of the same ID can
// never both insert.
func (r *TransactionRepository) InsertIfAbsent(ctx context.Context, tx transaction.Transaction) (*transaction.Transaction, bool, error) {
	if err := tx.Validate(); err != nil {
		return nil, false, err
	}

	query := `
		INSERT INTO transactions (id, account_id, amount_cents, description, merchant, category, event_time, already_notified)
		VALUES ($1, $2, $3, $4, NULLIF($5, ''), $6, $7, $8)
		ON CONFLICT (id) DO NOTHING
	`

	result, err := r.db.ExecContext(ctx, query,
		tx.ID, tx.AccountID, tx.Amount, tx.Description, tx.Merchant,
		string(tx.Category), tx.Timestamp, tx.AlreadyNotified,
	)
	if err != nil {
		return nil, false, fmt.Errorf("failed to insert transaction: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return nil, false, fmt.Errorf("failed to read insert result: %w", err)
	}

	stored, err := r.GetByID(ctx, tx.ID)
	if err != nil {
		return nil, false, err
	}
	return stored, affected == 1, nil
}

func (r *TransactionRepository) GetByID(ctx context.Context, id string) (*transaction.Transaction, error) {
	query := `
		SELECT id, account_id, amount_cents, description, merchant, category, event_time, already_notified
		FROM transactions
		WHERE id = $1
	`

	stored, err := scanTransaction(r.db.QueryRowContext(ctx, query, id))
	if err == sql.ErrNoRows {
		return nil, transaction.ErrTransactionNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get transaction: %w", err)
	}
	return stored, nil
}

func (r *TransactionRepository) ListSince(ctx context.Context, since time.Time) ([]*transaction.Transaction, error) {
	query := `
		SELECT id, account_id, amount_cents, description, merchant, category, event_time, already_notified
		FROM transactions
		WHERE event_time >= $1
		ORDER BY event_time DESC
	`

	rows, err := r.db.QueryContext(ctx, query, since)
	if err != nil {
		return nil, fmt.Errorf("failed to list transactions: %w", err)
	}
	defer rows.Close()

	var transactions []*transaction.Transaction
	for rows.Next() {
		stored, err := scanTransaction(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan transaction: %w", err)
		}
		transactions = append(transactions, stored)
	}
	return transactions, rows.Err()
}

func (r *TransactionRepository) MarkNotified(ctx context.Context, id string) error {
	result, err := r.db.ExecContext(ctx, `UPDATE transactions SET already_notified = TRUE WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to mark transaction notified: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to read update result: %w", err)
	}
	if affected == 0 {
		return transaction.ErrTransactionNotFound
	}
	return nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scanTransaction(row scanner) (*transaction.Transaction, error) {
	var stored transaction.Transaction
	var merchant sql.NullString
	var category string

	err := row.Scan(
		&stored.ID, &stored.AccountID, &stored.Amount, &stored.Description,
		&merchant, &category, &stored.Timestamp, &stored.AlreadyNotified,
	)
	if err != nil {
		return nil, err
	}

	if merchant.Valid {
		stored.Merchant = merchant.String
	}
	stored.Category = transaction.Category(category)
	return &stored, nil
}
