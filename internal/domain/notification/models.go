package notification

import (
	"errors"
	"time"

	"github.com/google/uuid"
)

// Kind identifies what fired a notification.
type Kind string

const (
	KindLargeTransaction Kind = "large_transaction"
	KindInvestmentSwing  Kind = "investment_swing"
	KindDailySummary     Kind = "daily_summary"
	KindMonthlyReport    Kind = "monthly_report"
)

var ErrInvalidInput = errors.New("invalid input")

// Notification is one delivered (or attempted) message, kept as an audit log.
// EntityID points at the record that fired it: a transaction ID for
// large-transaction alerts, an asset ID for investment swings, empty for
// reports.
type Notification struct {
	ID        string    `json:"id"`
	Kind      Kind      `json:"kind"`
	EntityID  string    `json:"entityId,omitempty"`
	Body      string    `json:"body"`
	Delivered bool      `json:"delivered"`
	CreatedAt time.Time `json:"createdAt"`
}

// New builds a notification record with a fresh UUID.
func New(kind Kind, entityID, body string, delivered bool) Notification {
	return Notification{
		ID:        uuid.NewString(),
		Kind:      kind,
		EntityID:  entityID,
		Body:      body,
		Delivered: delivered,
		CreatedAt: time.Now().UTC(),
	}
}
