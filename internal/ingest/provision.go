package ingest

import (
	"context"
	"fmt"

	"github.com/catherineraj6/lab1-226/internal/contracts"
	"github.com/catherineraj6/lab1-226/pkg/logger"
)

const createForecastTableTemplate = `
CREATE OR REPLACE TABLE %s (
    symbol VARCHAR,
    forecast_date DATE,
    predicted_open NUMBER,
    predicted_close NUMBER,
    predicted_min NUMBER,
    predicted_max NUMBER,
    predicted_volume NUMBER
)`

const createModelTemplate = `
CREATE OR REPLACE MODEL %s
AS
SELECT
    symbol,
    date,
    close AS target,
    open, high, low, volume
FROM
    %s
WHERE
    date < CURRENT_DATE()`

const insertForecastTemplate = `
INSERT INTO %s (symbol, forecast_date, predicted_open, predicted_close, predicted_min, predicted_max, predicted_volume)
SELECT
    symbol,
    DATEADD(day, seq4(), CURRENT_DATE()) AS forecast_date,
    forecast.open AS predicted_open,
    forecast.close AS predicted_close,
    forecast.low AS predicted_min,
    forecast.high AS predicted_max,
    forecast.volume AS predicted_volume
FROM
    TABLE(FORECAST(
        MODEL => '%s',
        TIME_COLUMN => 'date',
        TARGET_COLUMN => 'close',
        MAX_FORECAST_DAYS => 7
    ))`

// ForecastTableProvisioner recreates the forecast output table.
// One fixed statement on a fresh session, no transaction.
type ForecastTableProvisioner struct {
	pool   contracts.SessionPool
	table  string
	logger *logger.Logger
}

// NewForecastTableProvisioner creates the provisioner for the given table
func NewForecastTableProvisioner(pool contracts.SessionPool, table string, log *logger.Logger) *ForecastTableProvisioner {
	return &ForecastTableProvisioner{pool: pool, table: table, logger: log}
}

// Provision recreates the forecast table
func (p *ForecastTableProvisioner) Provision(ctx context.Context) error {
	session, err := p.pool.OpenSession(ctx)
	if err != nil {
		return fmt.Errorf("create forecast table: %w", err)
	}
	defer session.Close()

	if err := session.Exec(ctx, fmt.Sprintf(createForecastTableTemplate, p.table)); err != nil {
		p.logger.WithError(err).Error("Error creating forecast table")
		return fmt.Errorf("create forecast table: %w", err)
	}

	p.logger.WithField("table", p.table).Info("Forecast table created successfully")
	return nil
}

// ModelProvisioner recreates the warehouse-native forecasting model over
// the historical prices table.
type ModelProvisioner struct {
	pool        contracts.SessionPool
	model       string
	pricesTable string
	logger      *logger.Logger
}

// NewModelProvisioner creates the provisioner for the given model name
func NewModelProvisioner(pool contracts.SessionPool, model, pricesTable string, log *logger.Logger) *ModelProvisioner {
	return &ModelProvisioner{pool: pool, model: model, pricesTable: pricesTable, logger: log}
}

// Provision recreates the forecasting model
func (p *ModelProvisioner) Provision(ctx context.Context) error {
	session, err := p.pool.OpenSession(ctx)
	if err != nil {
		return fmt.Errorf("create forecasting model: %w", err)
	}
	defer session.Close()

	if err := session.Exec(ctx, fmt.Sprintf(createModelTemplate, p.model, p.pricesTable)); err != nil {
		p.logger.WithError(err).Error("Error creating forecasting model")
		return fmt.Errorf("create forecasting model: %w", err)
	}

	p.logger.WithField("model", p.model).Info("Forecasting model created successfully")
	return nil
}

// ForecastInserter materializes the model's 7-day forecast into the
// forecast table.
type ForecastInserter struct {
	pool   contracts.SessionPool
	table  string
	model  string
	logger *logger.Logger
}

// NewForecastInserter creates the inserter for the given table and model
func NewForecastInserter(pool contracts.SessionPool, table, model string, log *logger.Logger) *ForecastInserter {
	return &ForecastInserter{pool: pool, table: table, model: model, logger: log}
}

// Insert runs the forecast and inserts its rows
func (p *ForecastInserter) Insert(ctx context.Context) error {
	session, err := p.pool.OpenSession(ctx)
	if err != nil {
		return fmt.Errorf("insert forecast data: %w", err)
	}
	defer session.Close()

	if err := session.Exec(ctx, fmt.Sprintf(insertForecastTemplate, p.table, p.model)); err != nil {
		p.logger.WithError(err).Error("Error inserting forecast data")
		return fmt.Errorf("insert forecast data: %w", err)
	}

	p.logger.WithField("table", p.table).Info("Forecast data inserted successfully")
	return nil
}
