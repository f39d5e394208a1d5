package postgres

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/Falleiro/Finova/internal/domain/account"
)

type AccountRepository struct {
	db *DB
}

// Ensure the interface is satisfied.
var _ account.Repository = (*AccountRepository)(nil)

func NewAccountRepository(db *DB) *AccountRepository {
	return &AccountRepository{db: db}
}

func (r *AccountRepository) Upsert(ctx context.Context, acc account.Account) (*account.Account, error) {
	if err := acc.Validate(); err != nil {
		return nil, err
	}

	query := `
		INSERT INTO accounts (id, institution, account_type, balance_cents, currency, last_updated)
		VALUES ($1, $2, $3, $4, $5, $6)
		ON CONFLICT (id) DO UPDATE SET
			institution   = EXCLUDED.institution,
			account_type  = EXCLUDED.account_type,
			balance_cents = EXCLUDED.balance_cents,
			currency      = EXCLUDED.currency,
			last_updated  = EXCLUDED.last_updated
		RETURNING id, institution, account_type, balance_cents, currency, last_updated
	`

	var stored account.Account
	err := r.db.QueryRowContext(ctx, query,
		acc.ID, acc.Institution, acc.AccountType, acc.Balance, acc.Currency, acc.LastUpdated,
	).Scan(
		&stored.ID, &stored.Institution, &stored.AccountType,
		&stored.Balance, &stored.Currency, &stored.LastUpdated,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to upsert account: %w", err)
	}
	return &stored, nil
}

func (r *AccountRepository) GetByID(ctx context.Context, id string) (*account.Account, error) {
	query := `
		SELECT id, institution, account_type, balance_cents, currency, last_updated
		FROM accounts
		WHERE id = $1
	`

	var stored account.Account
	err := r.db.QueryRowContext(ctx, query, id).Scan(
		&stored.ID, &stored.Institution, &stored.AccountType,
		&stored.Balance, &stored.Currency, &stored.LastUpdated,
	)
	if err == sql.ErrNoRows {
		return nil, account.ErrAccountNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get account: %w", err)
	}
	return &stored, nil
}

func (r *AccountRepository) List(ctx context.Context) ([]*account.Account, error) {
	query := `
		SELECT id, institution, account_type, balance_cents, currency, last_updated
		FROM accounts
		ORDER BY institution, id
	`

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list accounts: %w", err)
	}
	defer rows.Close()

	var accounts []*account.Account
	for rows.Next() {
		var stored account.Account
		if err := rows.Scan(
			&stored.ID, &stored.Institution, &stored.AccountType,
			&stored.Balance, &stored.Currency, &stored.LastUpdated,
		); err != nil {
			return nil, fmt.Errorf("failed to scan account: %w", err)
		}
		accounts = append(accounts, &stored)
	}
	return accounts, rows.Err()
}
