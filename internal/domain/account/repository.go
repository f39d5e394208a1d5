package account

import "context"

// Repository defines the interface for account data access.
// This interface is defined in the domain layer, but implemented in the
// infrastructure layer.
type Repository interface {
	// Upsert creates the account on first observation and fully overwrites
	// every field on subsequent ones (last write wins). Accounts are never
	// deleted.
	Upsert(ctx context.Context, acc Account) (*Account, error)

	// GetByID retrieves an account by its provider-assigned ID.
	// Returns ErrAccountNotFound when absent.
	GetByID(ctx context.Context, id string) (*Account, error)

	// List returns every cached account.
	List(ctx context.Context) ([]*Account, error)
}
