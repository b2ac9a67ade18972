package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config holds all configuration for the application
// ⭐ SSOT: 모든 환경변수는 여기서만 읽음
type Config struct {
	// Server
	Port string
	Env  string // development, staging, production

	// Snowflake warehouse
	Snowflake SnowflakeConfig

	// Run history store (optional Postgres)
	RunsDB RunsDBConfig

	// Market data API
	Vantage VantageConfig

	// Pipelines
	Ingest   IngestConfig
	Forecast ForecastConfig

	// Scheduler
	Scheduler SchedulerConfig

	// Logging
	LogLevel  string
	LogFormat string
}

// SnowflakeConfig holds Snowflake connection configuration
type SnowflakeConfig struct {
	User       string
	Password   string
	Account    string // Example: 'xyz12345.us-east-1'
	Warehouse  string
	Database   string // ingest pipeline database
	MLDatabase string // train/predict pipeline database

	ConnTimeout time.Duration
}

// RunsDBConfig holds the optional Postgres run-ledger configuration
type RunsDBConfig struct {
	URL string

	// Connection Pool
	MaxConns        int
	MinConns        int
	MaxConnLifetime time.Duration
	MaxConnIdleTime time.Duration
}

// Enabled reports whether a run ledger is configured
func (c RunsDBConfig) Enabled() bool {
	return c.URL != ""
}

// VantageConfig holds Alpha Vantage API configuration
type VantageConfig struct {
	APIKey      string
	URLTemplate string // with {symbol} and {vantage_api_key} placeholders
	Timeout     time.Duration
	RatePerMin  int // free tier allows 5 requests/minute
}

// IngestConfig holds daily price ingestion pipeline configuration
type IngestConfig struct {
	Symbols       []string
	PricesTable   string
	ForecastTable string
	ModelName     string
	WindowDays    int
}

// ForecastConfig holds train/predict pipeline configuration
type ForecastConfig struct {
	TrainInputTable string
	TrainView       string
	ForecastTable   string
	FunctionName    string
	FinalTable      string
}

// SchedulerConfig holds cron scheduler configuration
type SchedulerConfig struct {
	IngestSchedule       string // 6-field cron (with seconds)
	TrainPredictSchedule string
	MaxRetries           int
	HistoryLimit         int
}

// Load reads configuration from environment variables
// ⭐ SSOT: 이 함수만 os.Getenv()를 호출함
func Load() (*Config, error) {
	// Try multiple paths for .env file
	loadEnvFile()

	cfg := &Config{
		// Server
		Port: getEnv("PORT", "8088"),
		Env:  getEnv("ENV", "development"),

		// Snowflake
		Snowflake: SnowflakeConfig{
			User:        getEnv("SNOWFLAKE_USERID", ""),
			Password:    getEnv("SNOWFLAKE_PASSWORD", ""),
			Account:     getEnv("SNOWFLAKE_ACCOUNT", ""),
			Warehouse:   getEnv("SNOWFLAKE_WAREHOUSE", "compute_wh"),
			Database:    getEnv("SNOWFLAKE_DATABASE", "dev"),
			MLDatabase:  getEnv("SNOWFLAKE_ML_DATABASE", "dev2"),
			ConnTimeout: getEnvAsDuration("SNOWFLAKE_CONN_TIMEOUT", "30s"),
		},

		// Run ledger (optional)
		RunsDB: RunsDBConfig{
			URL:             getEnv("RUNS_DATABASE_URL", ""),
			MaxConns:        getEnvAsInt("RUNS_DB_MAX_CONNS", 5),
			MinConns:        getEnvAsInt("RUNS_DB_MIN_CONNS", 1),
			MaxConnLifetime: getEnvAsDuration("RUNS_DB_MAX_CONN_LIFETIME", "1h"),
			MaxConnIdleTime: getEnvAsDuration("RUNS_DB_MAX_CONN_IDLE_TIME", "30m"),
		},

		// Market data API
		Vantage: VantageConfig{
			APIKey:      getEnv("VANTAGE_API_KEY", ""),
			URLTemplate: getEnv("VANTAGE_API_URL", "https://www.alphavantage.co/query?function=TIME_SERIES_DAILY&symbol={symbol}&apikey={vantage_api_key}"),
			Timeout:     getEnvAsDuration("VANTAGE_TIMEOUT", "30s"),
			RatePerMin:  getEnvAsInt("VANTAGE_RATE_PER_MIN", 5),
		},

		// Pipelines
		Ingest: IngestConfig{
			Symbols:       getEnvAsSlice("SYMBOLS", []string{"AAPL", "GOOG"}),
			PricesTable:   getEnv("PRICES_TABLE", "dev.raw_data.stock_prices"),
			ForecastTable: getEnv("INGEST_FORECAST_TABLE", "dev.raw_data.forecast_data"),
			ModelName:     getEnv("INGEST_MODEL_NAME", "stock_price_forecasting"),
			WindowDays:    getEnvAsInt("INGEST_WINDOW_DAYS", 90),
		},

		Forecast: ForecastConfig{
			TrainInputTable: getEnv("TRAIN_INPUT_TABLE", "dev2.rawdata2.stock_prices"),
			TrainView:       getEnv("TRAIN_VIEW", "dev2.adhoc.stock_data_view"),
			ForecastTable:   getEnv("FORECAST_TABLE", "dev2.adhoc.stock_data_forecast"),
			FunctionName:    getEnv("FORECAST_FUNCTION_NAME", "dev2.analytics.predict_stock_price"),
			FinalTable:      getEnv("FINAL_TABLE", "dev2.analytics.stock_data_final"),
		},

		// Scheduler
		Scheduler: SchedulerConfig{
			IngestSchedule:       getEnv("INGEST_SCHEDULE", "0 0 0 * * *"),
			TrainPredictSchedule: getEnv("TRAIN_PREDICT_SCHEDULE", "0 30 2 * * *"),
			MaxRetries:           getEnvAsInt("SCHEDULER_MAX_RETRIES", 0),
			HistoryLimit:         getEnvAsInt("SCHEDULER_HISTORY_LIMIT", 50),
		},

		// Logging
		LogLevel:  getEnv("LOG_LEVEL", "debug"),
		LogFormat: getEnv("LOG_FORMAT", "json"),
	}

	// Validate configuration
	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return cfg, nil
}

// validate checks if required configuration values are set
func (c *Config) validate() error {
	// Snowflake credentials are required
	if c.Snowflake.User == "" {
		return fmt.Errorf("SNOWFLAKE_USERID is required")
	}
	if c.Snowflake.Password == "" {
		return fmt.Errorf("SNOWFLAKE_PASSWORD is required")
	}
	if c.Snowflake.Account == "" {
		return fmt.Errorf("SNOWFLAKE_ACCOUNT is required")
	}

	// Validate environment
	if c.Env != "development" && c.Env != "staging" && c.Env != "production" {
		return fmt.Errorf("ENV must be one of: development, staging, production")
	}

	if len(c.Ingest.Symbols) == 0 {
		return fmt.Errorf("SYMBOLS must list at least one symbol")
	}

	return nil
}

// Helper functions (private, only used within this file)

// loadEnvFile tries to load .env from multiple locations
func loadEnvFile() {
	// Try paths in order of priority
	paths := []string{
		".env", // Current directory
	}

	// Also try relative to executable
	if exe, err := os.Executable(); err == nil {
		exeDir := filepath.Dir(exe)
		paths = append(paths,
			filepath.Join(exeDir, ".env"),
			filepath.Join(exeDir, "..", ".env"),
			filepath.Join(exeDir, "..", "..", ".env"),
		)
	}

	for _, path := range paths {
		if _, err := os.Stat(path); err == nil {
			_ = godotenv.Load(path)
			return
		}
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}

	value, err := strconv.Atoi(valueStr)
	if err != nil {
		return defaultValue
	}

	return value
}

func getEnvAsDuration(key string, defaultValue string) time.Duration {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		valueStr = defaultValue
	}

	duration, err := time.ParseDuration(valueStr)
	if err != nil {
		// Fallback to default
		duration, _ = time.ParseDuration(defaultValue)
	}

	return duration
}

func getEnvAsSlice(key string, defaultValue []string) []string {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}

	parts := strings.Split(valueStr, ",")
	values := make([]string, 0, len(parts))
	for _, p := range parts {
		if trimmed := strings.TrimSpace(p); trimmed != "" {
			values = append(values, trimmed)
		}
	}

	if len(values) == 0 {
		return defaultValue
	}

	return values
}
