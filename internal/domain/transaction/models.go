package transaction

import (
	"errors"
	"time"
)

// Domain errors
var (
	ErrTransactionNotFound = errors.New("transaction not found")
	ErrInvalidInput        = errors.New("invalid input")
)

// Transaction is the canonical record for a single bank movement.
// Amount is in signed minor units: negative = debit/outflow, positive =
// credit/inflow. Records are append-only; once ingested, amount, category and
// timestamp never change.
type Transaction struct {
	ID              string    `json:"id"`
	AccountID       string    `json:"accountId"`
	Amount          int64     `json:"amountCents"`
	Description     string    `json:"description"`
	Merchant        string    `json:"merchant,omitempty"`
	Category        Category  `json:"category"`
	Timestamp       time.Time `json:"timestamp"`
	AlreadyNotified bool      `json:"alreadyNotified"`
}

// IsDebit reports whether the transaction is an outflow.
func (t *Transaction) IsDebit() bool {
	return t.Amount < 0
}

// Validate checks the minimal invariants required before persisting.
func (t *Transaction) Validate() error {
	if t.ID == "" || t.AccountID == "" {
		return ErrInvalidInput
	}
	if t.Timestamp.IsZero() {
		return ErrInvalidInput
	}
	return nil
}
