package notification

import "context"

// Repository persists the notification audit log.
type Repository interface {
	// Record appends one notification to the log.
	Record(ctx context.Context, n Notification) error

	// ListRecent returns the most recent notifications, newest first.
	ListRecent(ctx context.Context, limit int) ([]*Notification, error)
}
