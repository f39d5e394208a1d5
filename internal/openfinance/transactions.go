package openfinance

import (
	"context"
	"encoding/json"
	"log"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/Falleiro/Finova/internal/domain/transaction"
)

const (
	transactionsPath = "/transactions"
	transactionsPage = 500
)

type rawTransaction struct {
	ID          string          `json:"id"`
	AccountID   string          `json:"accountId"`
	Amount      decimal.Decimal `json:"amount"`
	Type        string          `json:"type"` // DEBIT / CREDIT, may be absent
	Description string          `json:"description"`
	Merchant    json.RawMessage `json:"merchant"` // string or {"name": ...}
	Date        string          `json:"date"`
	Timestamp   string          `json:"timestamp"`
}

// merchantName extracts the merchant display name from either upstream shape.
func merchantName(raw json.RawMessage) string {
	if len(raw) == 0 || string(raw) == "null" {
		return ""
	}
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return strings.TrimSpace(s)
	}
	var obj struct {
		Name string `json:"name"`
	}
	if err := json.Unmarshal(raw, &obj); err == nil {
		return strings.TrimSpace(obj.Name)
	}
	return ""
}

// signedAmount applies the sign convention: an explicit DEBIT tag forces the
// amount negative and CREDIT forces it positive; without a tag the amount's
// own sign is trusted as already carrying direction.
func signedAmount(amount decimal.Decimal, txType string) int64 {
	cents := ToMinorUnits(amount)
	switch strings.ToUpper(txType) {
	case "DEBIT":
		if cents > 0 {
			cents = -cents
		}
	case "CREDIT":
		if cents < 0 {
			cents = -cents
		}
	}
	return cents
}

// parseEventTime accepts the provider's RFC 3339 and "YYYY-MM-DD HH:MM:SS"
// date shapes; an unparsable value falls back to the ingestion time.
func parseEventTime(date, timestamp string) time.Time {
	raw := date
	if raw == "" {
		raw = timestamp
	}
	for _, layout := range []string{time.RFC3339Nano, time.RFC3339, "2006-01-02 15:04:05", "2006-01-02"} {
		if ts, err := time.Parse(layout, raw); err == nil {
			return ts.UTC()
		}
	}
	return time.Now().UTC()
}

// FetchTransactions fetches transactions for the last `days` days across all
// accounts. It resolves the account IDs first, then issues one paginated
// windowed query per account; results are concatenated without further
// windowing.
func (c *Client) FetchTransactions(ctx context.Context, days int) ([]transaction.Transaction, error) {
	accountIDs, err := c.fetchAccountIDs(ctx)
	if err != nil {
		return nil, err
	}

	to := time.Now().UTC()
	from := to.AddDate(0, 0, -days)

	var transactions []transaction.Transaction
	for _, accountID := range accountIDs {
		txs, err := c.fetchAccountTransactions(ctx, accountID, from, to)
		if err != nil {
			return nil, err
		}
		transactions = append(transactions, txs...)
	}

	log.Printf("openfinance: fetched %d transactions (last %dd)", len(transactions), days)
	return transactions, nil
}

func (c *Client) fetchAccountTransactions(ctx context.Context, accountID string, from, to time.Time) ([]transaction.Transaction, error) {
	var transactions []transaction.Transaction

	page := 1
	for {
		params := url.Values{}
		params.Set("accountId", accountID)
		params.Set("from", from.Format("2006-01-02"))
		params.Set("to", to.Format("2006-01-02"))
		params.Set("pageSize", strconv.Itoa(transactionsPage))
		params.Set("page", strconv.Itoa(page))

		var resp listResponse
		if err := c.get(ctx, transactionsPath, params, &resp); err != nil {
			return nil, err
		}

		for _, raw := range resp.Results {
			var item rawTransaction
			if err := json.Unmarshal(raw, &item); err != nil {
				log.Printf("openfinance: %v", &ShapeError{Entity: "transaction", Detail: err.Error()})
				continue
			}
			if item.ID == "" {
				log.Printf("openfinance: %v", &ShapeError{Entity: "transaction", Detail: "missing id"})
				continue
			}

			owner := item.AccountID
			if owner == "" {
				owner = accountID
			}
			merchant := merchantName(item.Merchant)

			transactions = append(transactions, transaction.Transaction{
				ID:              item.ID,
				AccountID:       owner,
				Amount:          signedAmount(item.Amount, item.Type),
				Description:     item.Description,
				Merchant:        merchant,
				Category:        transaction.Classify(item.Description, merchant),
				Timestamp:       parseEventTime(item.Date, item.Timestamp),
				AlreadyNotified: false,
			})
		}

		if resp.TotalPages == 0 || page >= resp.TotalPages {
			break
		}
		page++
	}

	return transactions, nil
}
