package marketdata

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"golang.org/x/time/rate"

	"github.com/catherineraj6/lab1-226/internal/contracts"
	"github.com/catherineraj6/lab1-226/pkg/config"
	"github.com/catherineraj6/lab1-226/pkg/httpclient"
	"github.com/catherineraj6/lab1-226/pkg/logger"
)

// seriesKey is the payload key carrying the daily series
const seriesKey = "Time Series (Daily)"

// Client handles communication with the Alpha Vantage daily price API
// ⭐ SSOT: 시세 API 호출은 이 클라이언트에서만
type Client struct {
	httpClient  *httpclient.Client
	logger      *logger.Logger
	apiKey      string
	urlTemplate string
}

// NewClient creates a new market data client.
// The free API tier is tightly rate limited, so the shared HTTP client
// gets a limiter sized from config before any request goes out.
func NewClient(cfg config.VantageConfig, httpClient *httpclient.Client, log *logger.Logger) *Client {
	if cfg.RatePerMin > 0 {
		limiter := rate.NewLimiter(rate.Every(time.Minute/time.Duration(cfg.RatePerMin)), 1)
		httpClient = httpClient.WithRateLimiter(limiter)
	}

	return &Client{
		httpClient:  httpClient,
		logger:      log,
		apiKey:      cfg.APIKey,
		urlTemplate: cfg.URLTemplate,
	}
}

// requestURL interpolates the symbol and API key into the URL template
func (c *Client) requestURL(symbol string) string {
	url := strings.ReplaceAll(c.urlTemplate, "{symbol}", symbol)
	return strings.ReplaceAll(url, "{vantage_api_key}", c.apiKey)
}

// DailySeries fetches the full daily time series for a symbol.
// A payload without the series key (rate-limit notes, unknown symbols)
// yields an empty series; a body that is not JSON is an error.
func (c *Client) DailySeries(ctx context.Context, symbol string) (contracts.Series, error) {
	resp, err := c.httpClient.Get(ctx, c.requestURL(symbol))
	if err != nil {
		return nil, fmt.Errorf("HTTP request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		c.logger.WithFields(map[string]interface{}{
			"symbol":      symbol,
			"status_code": resp.StatusCode,
		}).Warn("Unexpected status from market data API")
	}

	var payload map[string]json.RawMessage
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return nil, fmt.Errorf("decode response failed: %w", err)
	}

	series := contracts.Series{}
	if raw, ok := payload[seriesKey]; ok {
		if err := json.Unmarshal(raw, &series); err != nil {
			return nil, fmt.Errorf("decode series failed: %w", err)
		}
	}

	c.logger.WithFields(map[string]interface{}{
		"symbol": symbol,
		"count":  len(series),
	}).Debug("Fetched daily series")

	return series, nil
}
