package openfinance

import (
	"context"
	"encoding/json"
	"log"
	"math"
	"net/url"
	"time"

	"github.com/shopspring/decimal"

	"github.com/Falleiro/Finova/internal/domain/investment"
)

const investmentsPath = "/investments"

type rawInvestment struct {
	ID       string          `json:"id"`
	AssetID  string          `json:"assetId"`
	Code     string          `json:"code"`
	Ticker   string          `json:"ticker"`
	Name     string          `json:"name"`
	Quantity decimal.Decimal `json:"quantity"`

	// Equity-style products expose explicit per-unit prices.
	CurrentPrice decimal.Decimal `json:"currentPrice"`
	OpenPrice    decimal.Decimal `json:"openPrice"`

	// Fixed-income-style products expose totals and yield rates instead.
	Value         decimal.Decimal `json:"value"`
	Balance       decimal.Decimal `json:"balance"`
	Amount        decimal.Decimal `json:"amount"` // invested amount
	LastMonthRate decimal.Decimal `json:"lastMonthRate"`
	AnnualRate    decimal.Decimal `json:"annualRate"`
}

// round4 keeps the derived percentage at 4-decimal precision.
func round4(pct float64) float64 {
	return math.Round(pct*10000) / 10000
}

// FetchInvestments fetches the current portfolio and normalizes each position,
// deriving DailyChangePct and AlertTriggered.
//
// When per-unit prices are available the daily change is
// (current-open)/open*100. Fixed-income products expose only yield rates, so
// the daily rate is approximated as lastMonthRate/30, falling back to
// annualRate/365, else 0; their per-unit prices are back-derived from total
// value and invested amount divided by quantity.
func (c *Client) FetchInvestments(ctx context.Context) ([]investment.Investment, error) {
	params := url.Values{}
	params.Set("itemId", c.itemID)

	var resp listResponse
	if err := c.get(ctx, investmentsPath, params, &resp); err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	investments := make([]investment.Investment, 0, len(resp.Results))
	for _, raw := range resp.Results {
		var item rawInvestment
		if err := json.Unmarshal(raw, &item); err != nil {
			log.Printf("openfinance: %v", &ShapeError{Entity: "investment", Detail: err.Error()})
			continue
		}

		assetID := item.AssetID
		if assetID == "" {
			assetID = item.ID
		}
		if assetID == "" {
			log.Printf("openfinance: %v", &ShapeError{Entity: "investment", Detail: "missing asset id"})
			continue
		}

		quantity, _ := item.Quantity.Float64()
		if quantity == 0 {
			quantity = 1
		}

		var currentPrice, openPrice, totalValue int64
		var dailyChangePct float64

		if item.OpenPrice.IsPositive() {
			currentPrice = ToMinorUnits(item.CurrentPrice)
			openPrice = ToMinorUnits(item.OpenPrice)
			totalValue = int64(math.Round(float64(currentPrice) * quantity))
			dailyChangePct = float64(currentPrice-openPrice) / float64(openPrice) * 100
		} else {
			total := item.Value
			if total.IsZero() {
				total = item.Balance
			}
			totalValue = ToMinorUnits(total)
			invested := ToMinorUnits(item.Amount)

			currentPrice = int64(float64(totalValue) / quantity)
			openPrice = currentPrice
			if invested != 0 {
				openPrice = int64(float64(invested) / quantity)
			}

			switch {
			case !item.LastMonthRate.IsZero():
				rate, _ := item.LastMonthRate.Float64()
				dailyChangePct = rate / 30
			case !item.AnnualRate.IsZero():
				rate, _ := item.AnnualRate.Float64()
				dailyChangePct = rate / 365
			}
		}

		dailyChangePct = round4(dailyChangePct)

		ticker := item.Ticker
		if ticker == "" {
			ticker = item.Code
		}
		if ticker == "" {
			ticker = item.Name
		}

		investments = append(investments, investment.Investment{
			AssetID:        assetID,
			Ticker:         ticker,
			Name:           item.Name,
			Quantity:       quantity,
			CurrentPrice:   currentPrice,
			OpenPrice:      openPrice,
			TotalValue:     totalValue,
			DailyChangePct: dailyChangePct,
			AlertTriggered: math.Abs(dailyChangePct) >= c.alertThreshold,
			LastUpdated:    now,
		})
	}

	log.Printf("openfinance: fetched %d investment positions", len(investments))
	return investments, nil
}
