// Package quote fetches the latest market price for a ticker symbol.
package quote

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"networth/internal/metrics"
)

const defaultBaseURL = "https://api.twelvedata.com"

// ErrNoPrice is returned when the provider answers without a usable price.
var ErrNoPrice = errors.New("no price in response")

// PriceSource resolves the latest price for a ticker.
type PriceSource interface {
	Price(ctx context.Context, symbol string) (decimal.Decimal, error)
}

// priceResponse covers both the success and the error body of the /price endpoint.
type priceResponse struct {
	Price   string `json:"price"`
	Code    int    `json:"code"`
	Message string `json:"message"`
	Status  string `json:"status"`
}

// Client talks to a Twelve Data compatible /price endpoint.
type Client struct {
	httpClient *http.Client
	baseURL    string // overridable for tests
	apiKey     string
}

// NewClient creates a quote client. An empty baseURL selects the public API.
func NewClient(httpClient *http.Client, baseURL, apiKey string) *Client {
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 5 * time.Second}
	}
	if baseURL == "" {
		baseURL = defaultBaseURL
	}
	return &Client{
		httpClient: httpClient,
		baseURL:    strings.TrimRight(baseURL, "/"),
		apiKey:     apiKey,
	}
}

// Price fetches the latest price for symbol.
func (c *Client) Price(ctx context.Context, symbol string) (decimal.Decimal, error) {
	price, err := c.fetch(ctx, symbol)
	if err != nil {
		metrics.RecordQuoteLookup("error")
		return decimal.Zero, fmt.Errorf("quote %s: %w", symbol, err)
	}
	metrics.RecordQuoteLookup("ok")
	return price, nil
}

func (c *Client) fetch(ctx context.Context, symbol string) (decimal.Decimal, error) {
	q := url.Values{}
	q.Set("symbol", strings.ToUpper(symbol))
	if c.apiKey != "" {
		q.Set("apikey", c.apiKey)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/price?"+q.Encode(), nil)
	if err != nil {
		return decimal.Zero, fmt.Errorf("building request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return decimal.Zero, fmt.Errorf("http request: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return decimal.Zero, fmt.Errorf("unexpected status %d", resp.StatusCode)
	}

	var body priceResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return decimal.Zero, fmt.Errorf("decoding response: %w", err)
	}
	if body.Status == "error" {
		return decimal.Zero, fmt.Errorf("provider error %d: %s", body.Code, body.Message)
	}
	if body.Price == "" {
		return decimal.Zero, ErrNoPrice
	}

	price, err := decimal.NewFromString(body.Price)
	if err != nil {
		return decimal.Zero, fmt.Errorf("parsing price %q: %w", body.Price, err)
	}
	if !price.IsPositive() {
		return decimal.Zero, ErrNoPrice
	}
	return price, nil
}
