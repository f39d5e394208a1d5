package investment

import "context"

// Repository defines the interface for investment position data access.
type Repository interface {
	// Upsert creates the position on first observation and fully overwrites
	// every field on subsequent ones, including the derived change/alert
	// fields.
	Upsert(ctx context.Context, inv Investment) (*Investment, error)

	// GetByAssetID retrieves a position by asset ID.
	// Returns ErrInvestmentNotFound when absent.
	GetByAssetID(ctx context.Context, assetID string) (*Investment, error)

	// List returns every cached position.
	List(ctx context.Context) ([]*Investment, error)

	// ClearAlert resets the alert flag for a single position after its alert
	// has been delivered.
	ClearAlert(ctx context.Context, assetID string) error

	// ClearTriggeredAlerts resets every position's alert flag to false.
	ClearTriggeredAlerts(ctx context.Context) error
}
