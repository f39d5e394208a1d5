package transaction

import (
	"context"
	"time"
)

// Repository defines the interface for transaction data access.
// Implementations must make InsertIfAbsent a single atomic check-then-write:
// two interleaved ingestions of the same ID must yield exactly one stored row.
type Repository interface {
	// InsertIfAbsent stores the transaction unless its ID already exists.
	// It returns the stored record and whether this call inserted it; for a
	// duplicate, the previously stored record is returned with inserted=false
	// and nothing is mutated.
	InsertIfAbsent(ctx context.Context, tx Transaction) (*Transaction, bool, error)

	// GetByID retrieves a transaction by its provider-assigned ID.
	// Returns ErrTransactionNotFound when absent.
	GetByID(ctx context.Context, id string) (*Transaction, error)

	// ListSince returns all transactions with event time >= since, ordered
	// most-recent-first.
	ListSince(ctx context.Context, since time.Time) ([]*Transaction, error)

	// MarkNotified sets the already_notified flag for the given transaction.
	MarkNotified(ctx context.Context, id string) error
}
