package openfinance

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"
)

const (
	authTimeout    = 15 * time.Second
	requestTimeout = 30 * time.Second
	authPath       = "/auth"
)

// Client handles communication with the Open Finance aggregation API.
// It owns the ephemeral access token: the token is acquired lazily on the
// first request, cached for the process lifetime, and invalidated whenever
// the API answers 401 so the next call re-acquires it. Acquisition is
// serialized with a mutex, so concurrent callers cannot race two exchanges.
type Client struct {
	httpClient   *http.Client
	baseURL      string
	clientID     string
	clientSecret string
	itemID       string

	// alertThreshold is the |daily change %| at or above which a normalized
	// investment position carries AlertTriggered=true.
	alertThreshold float64

	mu    sync.Mutex
	token string
}

// Ensure Client implements API.
var _ API = (*Client)(nil)

// Config carries the upstream credentials and endpoint.
type Config struct {
	BaseURL           string
	ClientID          string
	ClientSecret      string
	ItemID            string
	AlertThresholdPct float64
}

// NewClient creates a new Open Finance API client.
func NewClient(cfg Config) *Client {
	return &Client{
		httpClient: &http.Client{
			Timeout: requestTimeout,
		},
		baseURL:        strings.TrimRight(cfg.BaseURL, "/"),
		clientID:       cfg.ClientID,
		clientSecret:   cfg.ClientSecret,
		itemID:         cfg.ItemID,
		alertThreshold: cfg.AlertThresholdPct,
	}
}

type authRequest struct {
	ClientID     string `json:"clientId"`
	ClientSecret string `json:"clientSecret"`
}

type authResponse struct {
	APIKey string `json:"apiKey"`
}

// getToken returns the cached access token, exchanging the client credentials
// for a fresh one when the cache is empty. A failed exchange is an AuthError
// and leaves the cache empty.
func (c *Client) getToken(ctx context.Context) (string, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.token != "" {
		return c.token, nil
	}

	body, err := json.Marshal(authRequest{ClientID: c.clientID, ClientSecret: c.clientSecret})
	if err != nil {
		return "", &AuthError{Err: err}
	}

	ctx, cancel := context.WithTimeout(ctx, authTimeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+authPath, bytes.NewReader(body))
	if err != nil {
		return "", &AuthError{Err: err}
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", &AuthError{Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		raw, _ := io.ReadAll(resp.Body)
		return "", &AuthError{Err: fmt.Errorf("token exchange returned status %d: %s", resp.StatusCode, string(raw))}
	}

	var auth authResponse
	if err := json.NewDecoder(resp.Body).Decode(&auth); err != nil {
		return "", &AuthError{Err: fmt.Errorf("failed to decode token response: %w", err)}
	}
	if auth.APIKey == "" {
		return "", &AuthError{Err: fmt.Errorf("token exchange returned an empty apiKey")}
	}

	c.token = auth.APIKey
	return c.token, nil
}

// Invalidate clears the cached token so the next call re-acquires it.
func (c *Client) Invalidate() {
	c.mu.Lock()
	c.token = ""
	c.mu.Unlock()
}

// get performs an authenticated GET and decodes the JSON response into out.
// A 401 invalidates the cached token before returning, so the next cycle
// re-authenticates.
func (c *Client) get(ctx context.Context, path string, params url.Values, out any) error {
	token, err := c.getToken(ctx)
	if err != nil {
		return err
	}

	u := c.baseURL + path
	if len(params) > 0 {
		u += "?" + params.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return &FetchError{Op: "GET " + path, Err: err}
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-API-KEY", token)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return &FetchError{Op: "GET " + path, Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		if resp.StatusCode == http.StatusUnauthorized {
			// Token may have expired; force a refresh on the next call.
			c.Invalidate()
			log.Printf("openfinance: 401 on %s, cached token invalidated", path)
		}
		raw, _ := io.ReadAll(resp.Body)
		return &FetchError{Op: "GET " + path, Err: fmt.Errorf("status %d: %s", resp.StatusCode, string(raw))}
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return &FetchError{Op: "GET " + path, Err: fmt.Errorf("failed to decode response: %w", err)}
	}
	return nil
}
