package marketdata

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/catherineraj6/lab1-226/pkg/config"
	"github.com/catherineraj6/lab1-226/pkg/httpclient"
	"github.com/catherineraj6/lab1-226/pkg/logger"
)

func newTestLogger() *logger.Logger {
	return logger.New(&config.Config{
		Env:       "test",
		LogLevel:  "error",
		LogFormat: "json",
	})
}

func newTestClient(t *testing.T, serverURL string) *Client {
	t.Helper()
	log := newTestLogger()
	cfg := config.VantageConfig{
		APIKey:      "demo-key",
		URLTemplate: serverURL + "/query?symbol={symbol}&apikey={vantage_api_key}",
		Timeout:     5 * time.Second,
		RatePerMin:  0, // No limiter in tests
	}
	return NewClient(cfg, httpclient.New(log, cfg.Timeout), log)
}

func TestRequestURL(t *testing.T) {
	cfg := config.VantageConfig{
		APIKey:      "abc123",
		URLTemplate: "https://example.com/query?symbol={symbol}&apikey={vantage_api_key}",
	}
	log := newTestLogger()
	c := NewClient(cfg, httpclient.New(log, time.Second), log)

	got := c.requestURL("AAPL")
	want := "https://example.com/query?symbol=AAPL&apikey=abc123"
	if got != want {
		t.Errorf("requestURL() = %s, want %s", got, want)
	}
}

func TestDailySeries(t *testing.T) {
	var requestedURL string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requestedURL = r.URL.String()
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{
			"Meta Data": {
				"1. Information": "Daily Prices (open, high, low, close) and Volumes",
				"2. Symbol": "AAPL"
			},
			"Time Series (Daily)": {
				"2026-08-20": {
					"1. open": "229.9800",
					"2. high": "232.8700",
					"3. low": "229.3500",
					"4. close": "232.7800",
					"5. volume": "42445300"
				},
				"2026-08-19": {
					"1. open": "231.2750",
					"2. high": "232.4200",
					"3. low": "229.3500",
					"4. close": "230.5600",
					"5. volume": "39402564"
				}
			}
		}`))
	}))
	defer server.Close()

	c := newTestClient(t, server.URL)

	series, err := c.DailySeries(context.Background(), "AAPL")
	if err != nil {
		t.Fatalf("DailySeries() failed: %v", err)
	}

	if requestedURL != "/query?symbol=AAPL&apikey=demo-key" {
		t.Errorf("Unexpected request URL: %s", requestedURL)
	}

	if len(series) != 2 {
		t.Fatalf("Expected 2 entries, got %d", len(series))
	}

	fields, ok := series["2026-08-20"]
	if !ok {
		t.Fatal("Expected entry for 2026-08-20")
	}
	if fields["1. open"] != "229.9800" {
		t.Errorf("Expected open 229.9800, got %s", fields["1. open"])
	}
	if fields["4. close"] != "232.7800" {
		t.Errorf("Expected close 232.7800, got %s", fields["4. close"])
	}
	if fields["5. volume"] != "42445300" {
		t.Errorf("Expected volume 42445300, got %s", fields["5. volume"])
	}
}

func TestDailySeriesMissingKey(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		// Rate-limit note: no series key at all
		w.Write([]byte(`{"Note": "Thank you for using Alpha Vantage! Our standard API rate limit is 25 requests per day."}`))
	}))
	defer server.Close()

	c := newTestClient(t, server.URL)

	series, err := c.DailySeries(context.Background(), "AAPL")
	if err != nil {
		t.Fatalf("DailySeries() failed: %v", err)
	}

	if len(series) != 0 {
		t.Errorf("Expected empty series, got %d entries", len(series))
	}
}

func TestDailySeriesInvalidJSON(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`<html>not json</html>`))
	}))
	defer server.Close()

	c := newTestClient(t, server.URL)

	_, err := c.DailySeries(context.Background(), "AAPL")
	if err == nil {
		t.Fatal("Expected error for non-JSON body, got nil")
	}
}

func TestDailySeriesNon200StillDecoded(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
		w.Write([]byte(`{}`))
	}))
	defer server.Close()

	c := newTestClient(t, server.URL)

	// The body is decoded regardless of status; an empty payload is an empty series
	series, err := c.DailySeries(context.Background(), "AAPL")
	if err != nil {
		t.Fatalf("DailySeries() failed: %v", err)
	}
	if len(series) != 0 {
		t.Errorf("Expected empty series, got %d entries", len(series))
	}
}
