package openfinance

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
)

// newTestServer wires an /auth endpoint plus the given data handlers and
// returns a client pointed at it.
func newTestServer(t *testing.T, handlers map[string]http.HandlerFunc) (*Client, *httptest.Server, *atomic.Int32) {
	t.Helper()

	var authCalls atomic.Int32
	mux := http.NewServeMux()
	mux.HandleFunc("/auth", func(w http.ResponseWriter, r *http.Request) {
		authCalls.Add(1)
		var body struct {
			ClientID     string `json:"clientId"`
			ClientSecret string `json:"clientSecret"`
		}
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil || body.ClientID != "client-id" {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		json.NewEncoder(w).Encode(map[string]string{"apiKey": "test-api-key"})
	})
	for path, h := range handlers {
		mux.HandleFunc(path, h)
	}

	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)

	client := NewClient(Config{
		BaseURL:           srv.URL,
		ClientID:          "client-id",
		ClientSecret:      "client-secret",
		ItemID:            "item-1",
		AlertThresholdPct: 3.0,
	})
	return client, srv, &authCalls
}

func requireAPIKey(t *testing.T, r *http.Request) bool {
	t.Helper()
	return r.Header.Get("X-API-KEY") == "test-api-key"
}

func TestFetchAccounts_NormalizesBalances(t *testing.T) {
	client, _, authCalls := newTestServer(t, map[string]http.HandlerFunc{
		"/accounts": func(w http.ResponseWriter, r *http.Request) {
			if !requireAPIKey(t, r) {
				w.WriteHeader(http.StatusUnauthorized)
				return
			}
			if r.URL.Query().Get("itemId") != "item-1" {
				t.Errorf("itemId = %q, want %q", r.URL.Query().Get("itemId"), "item-1")
			}
			w.Write([]byte(`{"results":[
				{"id":"acc-1","name":"Conta Corrente","type":"BANK","subtype":"CHECKING_ACCOUNT",
				 "balance":"1500.75","currencyCode":"BRL","institution":{"name":"Nubank"}}
			]}`))
		},
	})

	accounts, err := client.FetchAccounts(context.Background())
	if err != nil {
		t.Fatalf("FetchAccounts() error = %v", err)
	}
	if len(accounts) != 1 {
		t.Fatalf("got %d accounts, want 1", len(accounts))
	}
	acc := accounts[0]
	if acc.ID != "acc-1" {
		t.Errorf("ID = %q, want %q", acc.ID, "acc-1")
	}
	if acc.Balance != 150075 {
		t.Errorf("Balance = %d, want 150075", acc.Balance)
	}
	if acc.Institution != "Nubank" {
		t.Errorf("Institution = %q, want %q", acc.Institution, "Nubank")
	}
	if acc.AccountType != "CHECKING_ACCOUNT" {
		t.Errorf("AccountType = %q, want CHECKING_ACCOUNT", acc.AccountType)
	}
	if got := authCalls.Load(); got != 1 {
		t.Errorf("auth calls = %d, want 1", got)
	}
}

func TestGetToken_CachedAcrossCalls(t *testing.T) {
	client, _, authCalls := newTestServer(t, map[string]http.HandlerFunc{
		"/accounts": func(w http.ResponseWriter, r *http.Request) {
			w.Write([]byte(`{"results":[]}`))
		},
	})

	ctx := context.Background()
	for i := 0; i < 3; i++ {
		if _, err := client.FetchAccounts(ctx); err != nil {
			t.Fatalf("FetchAccounts() #%d error = %v", i, err)
		}
	}
	if got := authCalls.Load(); got != 1 {
		t.Errorf("auth calls = %d, want 1 (token must be cached)", got)
	}
}

func TestGetToken_ExchangeFailureIsAuthError(t *testing.T) {
	client, _, _ := newTestServer(t, nil)
	client.clientID = "wrong"

	_, err := client.FetchAccounts(context.Background())
	var authErr *AuthError
	if !errors.As(err, &authErr) {
		t.Fatalf("error = %v, want *AuthError", err)
	}
}

func TestGet_UnauthorizedInvalidatesToken(t *testing.T) {
	var dataCalls atomic.Int32
	client, _, authCalls := newTestServer(t, map[string]http.HandlerFunc{
		"/accounts": func(w http.ResponseWriter, r *http.Request) {
			if dataCalls.Add(1) == 1 {
				// Simulate an expired token on the first data call.
				w.WriteHeader(http.StatusUnauthorized)
				return
			}
			w.Write([]byte(`{"results":[]}`))
		},
	})

	ctx := context.Background()
	_, err := client.FetchAccounts(ctx)
	var fetchErr *FetchError
	if !errors.As(err, &fetchErr) {
		t.Fatalf("first call error = %v, want *FetchError", err)
	}

	// Next call must re-acquire a token and succeed.
	if _, err := client.FetchAccounts(ctx); err != nil {
		t.Fatalf("second call error = %v", err)
	}
	if got := authCalls.Load(); got != 2 {
		t.Errorf("auth calls = %d, want 2 (401 must invalidate the cache)", got)
	}
}

func TestFetchAccounts_SkipsMalformedRecord(t *testing.T) {
	client, _, _ := newTestServer(t, map[string]http.HandlerFunc{
		"/accounts": func(w http.ResponseWriter, r *http.Request) {
			w.Write([]byte(`{"results":[
				{"id":"","balance":"10.00"},
				{"id":"acc-2","name":"Poupança","subtype":"SAVINGS_ACCOUNT","balance":"20.00"}
			]}`))
		},
	})

	accounts, err := client.FetchAccounts(context.Background())
	if err != nil {
		t.Fatalf("FetchAccounts() error = %v", err)
	}
	if len(accounts) != 1 {
		t.Fatalf("got %d accounts, want 1 (malformed record must be skipped)", len(accounts))
	}
	if accounts[0].ID != "acc-2" {
		t.Errorf("ID = %q, want acc-2", accounts[0].ID)
	}
}

func TestFetchTransactions_SignConvention(t *testing.T) {
	client, _, _ := newTestServer(t, map[string]http.HandlerFunc{
		"/accounts": func(w http.ResponseWriter, r *http.Request) {
			w.Write([]byte(`{"results":[{"id":"acc-1"}]}`))
		},
		"/transactions": func(w http.ResponseWriter, r *http.Request) {
			if r.URL.Query().Get("accountId") != "acc-1" {
				t.Errorf("accountId = %q, want acc-1", r.URL.Query().Get("accountId"))
			}
			w.Write([]byte(`{"results":[
				{"id":"tx-1","accountId":"acc-1","amount":"42.90","type":"DEBIT",
				 "description":"iFood pedido","date":"2026-01-15T12:00:00Z"},
				{"id":"tx-2","accountId":"acc-1","amount":"42.90","type":"CREDIT",
				 "description":"Pix recebido","date":"2026-01-15T13:00:00Z"},
				{"id":"tx-3","accountId":"acc-1","amount":"-10.50",
				 "description":"sem tag","date":"2026-01-15T14:00:00Z"}
			],"page":1,"totalPages":1}`))
		},
	})

	txs, err := client.FetchTransactions(context.Background(), 1)
	if err != nil {
		t.Fatalf("FetchTransactions() error = %v", err)
	}
	if len(txs) != 3 {
		t.Fatalf("got %d transactions, want 3", len(txs))
	}
	if txs[0].Amount != -4290 {
		t.Errorf("debit amount = %d, want -4290", txs[0].Amount)
	}
	if txs[1].Amount != 4290 {
		t.Errorf("credit amount = %d, want 4290", txs[1].Amount)
	}
	if txs[2].Amount != -1050 {
		t.Errorf("untagged amount = %d, want -1050 (own sign trusted)", txs[2].Amount)
	}
	if txs[0].Category != "Food & Delivery" {
		t.Errorf("category = %q, want Food & Delivery", txs[0].Category)
	}
}

func TestFetchTransactions_Paginates(t *testing.T) {
	var page2Served atomic.Bool
	client, _, _ := newTestServer(t, map[string]http.HandlerFunc{
		"/accounts": func(w http.ResponseWriter, r *http.Request) {
			w.Write([]byte(`{"results":[{"id":"acc-1"}]}`))
		},
		"/transactions": func(w http.ResponseWriter, r *http.Request) {
			switch r.URL.Query().Get("page") {
			case "1":
				w.Write([]byte(`{"results":[{"id":"tx-1","amount":"-1.00","description":"a","date":"2026-01-15T12:00:00Z"}],"page":1,"totalPages":2}`))
			case "2":
				page2Served.Store(true)
				w.Write([]byte(`{"results":[{"id":"tx-2","amount":"-2.00","description":"b","date":"2026-01-15T12:00:00Z"}],"page":2,"totalPages":2}`))
			default:
				t.Errorf("unexpected page %q", r.URL.Query().Get("page"))
				w.Write([]byte(`{"results":[]}`))
			}
		},
	})

	txs, err := client.FetchTransactions(context.Background(), 1)
	if err != nil {
		t.Fatalf("FetchTransactions() error = %v", err)
	}
	if len(txs) != 2 {
		t.Fatalf("got %d transactions, want 2", len(txs))
	}
	if !page2Served.Load() {
		t.Error("second page was never requested")
	}
}

func TestFetchInvestments_PriceBasedChange(t *testing.T) {
	client, _, _ := newTestServer(t, map[string]http.HandlerFunc{
		"/investments": func(w http.ResponseWriter, r *http.Request) {
			w.Write([]byte(`{"results":[
				{"id":"inv-1","ticker":"PETR4","name":"Petrobras","quantity":"100",
				 "currentPrice":"38.50","openPrice":"37.00"}
			]}`))
		},
	})

	invs, err := client.FetchInvestments(context.Background())
	if err != nil {
		t.Fatalf("FetchInvestments() error = %v", err)
	}
	if len(invs) != 1 {
		t.Fatalf("got %d investments, want 1", len(invs))
	}
	inv := invs[0]
	// (3850 - 3700) / 3700 * 100 = 4.0541 (rounded to 4 decimals)
	if inv.DailyChangePct != 4.0541 {
		t.Errorf("DailyChangePct = %v, want 4.0541", inv.DailyChangePct)
	}
	if !inv.AlertTriggered {
		t.Error("AlertTriggered = false, want true (4.05% >= 3.0%)")
	}
	if inv.TotalValue != 385000 {
		t.Errorf("TotalValue = %d, want 385000", inv.TotalValue)
	}
}

func TestFetchInvestments_RateBasedChange(t *testing.T) {
	client, _, _ := newTestServer(t, map[string]http.HandlerFunc{
		"/investments": func(w http.ResponseWriter, r *http.Request) {
			w.Write([]byte(`{"results":[
				{"id":"inv-2","name":"CDB Liquidez","quantity":"1",
				 "value":"10250.00","amount":"10000.00","lastMonthRate":"3"}
			]}`))
		},
	})

	invs, err := client.FetchInvestments(context.Background())
	if err != nil {
		t.Fatalf("FetchInvestments() error = %v", err)
	}
	inv := invs[0]
	if inv.DailyChangePct != 0.1 {
		t.Errorf("DailyChangePct = %v, want 0.1 (monthly 3%% / 30)", inv.DailyChangePct)
	}
	if inv.AlertTriggered {
		t.Error("AlertTriggered = true, want false (0.1% < 3.0%)")
	}
	if inv.CurrentPrice != 1025000 {
		t.Errorf("CurrentPrice = %d, want 1025000 (back-derived from value/quantity)", inv.CurrentPrice)
	}
	if inv.OpenPrice != 1000000 {
		t.Errorf("OpenPrice = %d, want 1000000 (back-derived from amount/quantity)", inv.OpenPrice)
	}
}
