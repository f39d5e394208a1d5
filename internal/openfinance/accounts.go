package openfinance

import (
	"context"
	"encoding/json"
	"log"
	"net/url"
	"time"

	"github.com/shopspring/decimal"

	"github.com/Falleiro/Finova/internal/domain/account"
)

const accountsPath = "/accounts"

// listResponse is the provider's standard paginated envelope. Results are
// kept raw so one malformed record can be skipped without failing the batch.
type listResponse struct {
	Results    []json.RawMessage `json:"results"`
	Page       int               `json:"page"`
	TotalPages int               `json:"totalPages"`
}

type rawInstitution struct {
	Name string `json:"name"`
}

type rawAccount struct {
	ID           string          `json:"id"`
	Name         string          `json:"name"`
	Type         string          `json:"type"`
	Subtype      string          `json:"subtype"`
	Balance      decimal.Decimal `json:"balance"`
	CurrencyCode string          `json:"currencyCode"`
	Institution  *rawInstitution `json:"institution"`
}

// FetchAccounts fetches all accounts connected to the configured item and
// normalizes them to canonical records.
func (c *Client) FetchAccounts(ctx context.Context) ([]account.Account, error) {
	params := url.Values{}
	params.Set("itemId", c.itemID)

	var resp listResponse
	if err := c.get(ctx, accountsPath, params, &resp); err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	accounts := make([]account.Account, 0, len(resp.Results))
	for _, raw := range resp.Results {
		var item rawAccount
		if err := json.Unmarshal(raw, &item); err != nil {
			log.Printf("openfinance: %v", &ShapeError{Entity: "account", Detail: err.Error()})
			continue
		}
		if item.ID == "" {
			log.Printf("openfinance: %v", &ShapeError{Entity: "account", Detail: "missing id"})
			continue
		}

		institution := item.Name
		if item.Institution != nil && item.Institution.Name != "" {
			institution = item.Institution.Name
		}
		if institution == "" {
			institution = "Unknown"
		}

		accType := item.Subtype
		if accType == "" {
			accType = item.Type
		}
		if accType == "" {
			accType = "CHECKING_ACCOUNT"
		}

		currency := item.CurrencyCode
		if currency == "" {
			currency = "BRL"
		}

		accounts = append(accounts, account.Account{
			ID:          item.ID,
			Institution: institution,
			AccountType: accType,
			Balance:     ToMinorUnits(item.Balance),
			Currency:    currency,
			LastUpdated: now,
		})
	}

	log.Printf("openfinance: fetched %d accounts", len(accounts))
	return accounts, nil
}

// fetchAccountIDs resolves the account identifiers required by the
// per-account transaction queries.
func (c *Client) fetchAccountIDs(ctx context.Context) ([]string, error) {
	params := url.Values{}
	params.Set("itemId", c.itemID)

	var resp listResponse
	if err := c.get(ctx, accountsPath, params, &resp); err != nil {
		return nil, err
	}

	ids := make([]string, 0, len(resp.Results))
	for _, raw := range resp.Results {
		var item struct {
			ID string `json:"id"`
		}
		if err := json.Unmarshal(raw, &item); err != nil || item.ID == "" {
			continue
		}
		ids = append(ids, item.ID)
	}
	return ids, nil
}
