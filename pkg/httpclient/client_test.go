package httpclient

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"golang.org/x/time/rate"

	"github.com/catherineraj6/lab1-226/pkg/config"
	"github.com/catherineraj6/lab1-226/pkg/logger"
)

func newTestLogger() *logger.Logger {
	cfg := &config.Config{
		Env:       "test",
		LogLevel:  "error", // Reduce log noise
		LogFormat: "json",
	}
	return logger.New(cfg)
}

func TestNew(t *testing.T) {
	log := newTestLogger()

	client := New(log, 10*time.Second)
	if client == nil {
		t.Fatal("Expected client to be created")
	}

	if client.httpClient == nil {
		t.Error("Expected http.Client to be initialized")
	}

	if client.httpClient.Timeout != 10*time.Second {
		t.Errorf("Expected timeout=10s, got %v", client.httpClient.Timeout)
	}

	if client.logger == nil {
		t.Error("Expected logger to be set")
	}
}

func TestNewDefaultTimeout(t *testing.T) {
	client := New(newTestLogger(), 0)

	if client.httpClient.Timeout != 30*time.Second {
		t.Errorf("Expected default timeout=30s, got %v", client.httpClient.Timeout)
	}
}

func TestGet(t *testing.T) {
	// Create test server
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet {
			t.Errorf("Expected GET request, got %s", r.Method)
		}
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{"status":"ok"}`))
	}))
	defer server.Close()

	client := New(newTestLogger(), 5*time.Second)
	ctx := context.Background()

	resp, err := client.Get(ctx, server.URL)
	if err != nil {
		t.Fatalf("GET request failed: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		t.Errorf("Expected status 200, got %d", resp.StatusCode)
	}
}

func TestGetNoRetryOn5xx(t *testing.T) {
	attempts := 0
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		attempts++
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer server.Close()

	client := New(newTestLogger(), 5*time.Second)

	resp, err := client.Get(context.Background(), server.URL)
	if err != nil {
		t.Fatalf("GET request failed: %v", err)
	}
	defer resp.Body.Close()

	// A 5xx is handed back to the caller, never retried
	if resp.StatusCode != http.StatusServiceUnavailable {
		t.Errorf("Expected status 503, got %d", resp.StatusCode)
	}

	if attempts != 1 {
		t.Errorf("Expected exactly 1 attempt, got %d", attempts)
	}
}

func TestRateLimiterWait(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	// 1 request per 100ms, burst of 1
	limiter := rate.NewLimiter(rate.Every(100*time.Millisecond), 1)
	client := New(newTestLogger(), 5*time.Second).WithRateLimiter(limiter)

	start := time.Now()
	for i := 0; i < 3; i++ {
		resp, err := client.Get(context.Background(), server.URL)
		if err != nil {
			t.Fatalf("GET request failed: %v", err)
		}
		resp.Body.Close()
	}
	elapsed := time.Since(start)

	// Requests 2 and 3 must have waited for the limiter
	if elapsed < 200*time.Millisecond {
		t.Errorf("Expected rate limiter to delay requests, elapsed %v", elapsed)
	}
}

func TestRateLimiterCancelledContext(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	// Limiter that would block for a long time on the second request
	limiter := rate.NewLimiter(rate.Every(time.Hour), 1)
	client := New(newTestLogger(), 5*time.Second).WithRateLimiter(limiter)

	// First request consumes the burst
	resp, err := client.Get(context.Background(), server.URL)
	if err != nil {
		t.Fatalf("GET request failed: %v", err)
	}
	resp.Body.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	_, err = client.Get(ctx, server.URL)
	if err == nil {
		t.Error("Expected error when context expires while waiting on limiter")
	}
}
