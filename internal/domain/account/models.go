package account

import (
	"errors"
	"time"
)

// Domain errors
var (
	ErrAccountNotFound = errors.New("account not found")
	ErrInvalidInput    = errors.New("invalid input")
)

// Account represents a bank account as cached locally from the Open Finance
// provider. Balance is stored in minor currency units (centavos); it is signed
// because credit-card accounts report negative balances.
type Account struct {
	ID          string    `json:"id"`
	Institution string    `json:"institution"`
	AccountType string    `json:"accountType"` // checking / savings / credit_card (open set)
	Balance     int64     `json:"balanceCents"`
	Currency    string    `json:"currency"`
	LastUpdated time.Time `json:"lastUpdated"`
}

// Validate checks the minimal invariants required before persisting.
func (a *Account) Validate() error {
	if a.ID == "" {
		return ErrInvalidInput
	}
	if a.Institution == "" {
		return ErrInvalidInput
	}
	return nil
}
