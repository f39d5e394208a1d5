package postgres

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/Falleiro/Finova/internal/domain/investment"
)

type InvestmentRepository struct {
	db *DB
}

var _ investment.Repository = (*InvestmentRepository)(nil)

func NewInvestmentRepository(db *DB) *InvestmentRepository {
	return &InvestmentRepository{db: db}
}

func (r *InvestmentRepository) Upsert(ctx context.Context, inv investment.Investment) (*investment.Investment, error) {
	if err := inv.Validate(); err != nil {
		return nil, err
	}

	query := `
		INSERT INTO investments (asset_id, ticker, name, quantity, current_price_cents,
		                         open_price_cents, total_value_cents, daily_change_pct,
		                         alert_triggered, last_updated)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		ON CONFLICT (asset_id) DO UPDATE SET
			ticker              = EXCLUDED.ticker,
			name                = EXCLUDED.name,
			quantity            = EXCLUDED.quantity,
			current_price_cents = EXCLUDED.current_price_cents,
			open_price_cents    = EXCLUDED.open_price_cents,
			total_value_cents   = EXCLUDED.total_value_cents,
			daily_change_pct    = EXCLUDED.daily_change_pct,
			alert_triggered     = EXCLUDED.alert_triggered,
			last_updated        = EXCLUDED.last_updated
		RETURNING asset_id, ticker, name, quantity, current_price_cents,
		          open_price_cents, total_value_cents, daily_change_pct,
		          alert_triggered, last_updated
	`

	var stored investment.Investment
	err := r.db.QueryRowContext(ctx, query,
		inv.AssetID, inv.Ticker, inv.Name, inv.Quantity, inv.CurrentPrice,
		inv.OpenPrice, inv.TotalValue, inv.DailyChangePct, inv.AlertTriggered, inv.LastUpdated,
	).Scan(
		&stored.AssetID, &stored.Ticker, &stored.Name, &stored.Quantity, &stored.CurrentPrice,
		&stored.OpenPrice, &stored.TotalValue, &stored.DailyChangePct,
		&stored.AlertTriggered, &stored.LastUpdated,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to upsert investment: %w", err)
	}
	return &stored, nil
}

func (r *InvestmentRepository) GetByAssetID(ctx context.Context, assetID string) (*investment.Investment, error) {
	query := `
		SELECT asset_id, ticker, name, quantity, current_price_cents,
		       open_price_cents, total_value_cents, daily_change_pct,
		       alert_triggered, last_updated
		FROM investments
		WHERE asset_id = $1
	`

	var stored investment.Investment
	err := r.db.QueryRowContext(ctx, query, assetID).Scan(
		&stored.AssetID, &stored.Ticker, &stored.Name, &stored.Quantity, &stored.CurrentPrice,
		&stored.OpenPrice, &stored.TotalValue, &stored.DailyChangePct,
		&stored.AlertTriggered, &stored.LastUpdated,
	)
	if err == sql.ErrNoRows {
		return nil, investment.ErrInvestmentNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get investment: %w", err)
	}
	return &stored, nil
}

func (r *InvestmentRepository) List(ctx context.Context) ([]*investment.Investment, error) {
	query := `
		SELECT asset_id, ticker, name, quantity, current_price_cents,
		       open_price_cents, total_value_cents, daily_change_pct,
		       alert_triggered, last_updated
		FROM investments
		ORDER BY total_value_cents DESC
	`

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list investments: %w", err)
	}
	defer rows.Close()

	var investments []*investment.Investment
	for rows.Next() {
		var stored investment.Investment
		if err := rows.Scan(
			&stored.AssetID, &stored.Ticker, &stored.Name, &stored.Quantity, &stored.CurrentPrice,
			&stored.OpenPrice, &stored.TotalValue, &stored.DailyChangePct,
			&stored.AlertTriggered, &stored.LastUpdated,
		); err != nil {
			return nil, fmt.Errorf("failed to scan investment: %w", err)
		}
		investments = append(investments, &stored)
	}
	return investments, rows.Err()
}

func (r *InvestmentRepository) ClearAlert(ctx context.Context, assetID string) error {
	result, err := r.db.ExecContext(ctx, `UPDATE investments SET alert_triggered = FALSE WHERE asset_id = $1`, assetID)
	if err != nil {
		return fmt.Errorf("failed to clear investment alert: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to read update result: %w", err)
	}
	if affected == 0 {
		return investment.ErrInvestmentNotFound
	}
	return nil
}

func (r *InvestmentRepository) ClearTriggeredAlerts(ctx context.Context) error {
	_, err := r.db.ExecContext(ctx, `UPDATE investments SET alert_triggered = FALSE WHERE alert_triggered = TRUE`)
	if err != nil {
		return fmt.Errorf("failed to clear triggered alerts: %w", err)
	}
	return nil
}
