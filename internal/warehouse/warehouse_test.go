package warehouse

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/catherineraj6/lab1-226/pkg/config"
	"github.com/catherineraj6/lab1-226/pkg/logger"
)

func newTestLogger() *logger.Logger {
	return logger.New(&config.Config{
		Env:       "test",
		LogLevel:  "error",
		LogFormat: "json",
	})
}

func TestNewMissingAccount(t *testing.T) {
	cfg := config.SnowflakeConfig{
		User:     "tester",
		Password: "secret",
		// Account intentionally empty: DSN construction must fail
		Warehouse:   "compute_wh",
		ConnTimeout: time.Second,
	}

	_, err := New(cfg, "dev", newTestLogger())
	if err == nil {
		t.Fatal("Expected error with empty account, got nil")
	}
}

func TestNewIntegration(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping integration test in short mode")
	}
	if os.Getenv("SNOWFLAKE_ACCOUNT") == "" {
		t.Skip("SNOWFLAKE_ACCOUNT not set, skipping integration test")
	}

	cfg := config.SnowflakeConfig{
		User:        os.Getenv("SNOWFLAKE_USERID"),
		Password:    os.Getenv("SNOWFLAKE_PASSWORD"),
		Account:     os.Getenv("SNOWFLAKE_ACCOUNT"),
		Warehouse:   "compute_wh",
		ConnTimeout: 30 * time.Second,
	}

	w, err := New(cfg, "dev", newTestLogger())
	if err != nil {
		t.Fatalf("Failed to connect: %v", err)
	}
	defer w.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := w.Ping(ctx); err != nil {
		t.Errorf("Ping failed: %v", err)
	}

	version, err := w.Version(ctx)
	if err != nil {
		t.Errorf("Version failed: %v", err)
	}
	t.Logf("Snowflake version: %s", version)

	sess, err := w.OpenSession(ctx)
	if err != nil {
		t.Fatalf("OpenSession failed: %v", err)
	}
	if err := sess.Exec(ctx, "SELECT 1"); err != nil {
		t.Errorf("Exec failed: %v", err)
	}
	if err := sess.Close(); err != nil {
		t.Errorf("Close failed: %v", err)
	}
}
