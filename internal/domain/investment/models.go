package investment

import (
	"errors"
	"time"
)

// Domain errors
var (
	ErrInvestmentNotFound = errors.New("investment not found")
	ErrInvalidInput       = errors.New("invalid input")
)

// Investment is a single portfolio position. Prices and totals are in minor
// units; Quantity may be fractional. DailyChangePct and AlertTriggered are
// derived at normalization time and fully re-derived on every poll.
type Investment struct {
	AssetID        string    `json:"assetId"`
	Ticker         string    `json:"ticker"`
	Name           string    `json:"name"`
	Quantity       float64   `json:"quantity"`
	CurrentPrice   int64     `json:"currentPriceCents"`
	OpenPrice      int64     `json:"openPriceCents"`
	TotalValue     int64     `json:"totalValueCents"`
	DailyChangePct float64   `json:"dailyChangePct"` // signed, 4-decimal precision
	AlertTriggered bool      `json:"alertTriggered"`
	LastUpdated    time.Time `json:"lastUpdated"`
}

// Validate checks the minimal invariants required before persisting.
func (i *Investment) Validate() error {
	if i.AssetID == "" {
		return ErrInvalidInput
	}
	return nil
}
