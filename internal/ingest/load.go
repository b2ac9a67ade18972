package ingest

import (
	"context"
	"fmt"

	"github.com/catherineraj6/lab1-226/internal/contracts"
	"github.com/catherineraj6/lab1-226/pkg/logger"
)

const createPricesTableTemplate = `
CREATE OR REPLACE TABLE %s (
    symbol VARCHAR,
    date DATE,
    open NUMBER,
    close NUMBER,
    min NUMBER,
    max NUMBER,
    volume NUMBER
)`

const insertPriceTemplate = `
INSERT INTO %s (symbol, date, open, close, min, max, volume)
VALUES (?, ?, ?, ?, ?, ?, ?)`

// Loader writes price records into the prices table.
// The whole load runs in one explicit transaction on a fresh session:
// recreate the table, insert every record, commit. Any failure rolls the
// transaction back and surfaces the original error.
type Loader struct {
	pool   contracts.SessionPool
	table  string
	logger *logger.Logger
}

// NewLoader creates a Loader targeting the given table
func NewLoader(pool contracts.SessionPool, table string, log *logger.Logger) *Loader {
	return &Loader{pool: pool, table: table, logger: log}
}

// Load concatenates the per-symbol batches and loads them.
// An empty concatenation logs a notice and returns without touching
// the warehouse.
func (l *Loader) Load(ctx context.Context, batches ...[]contracts.PriceRecord) error {
	var all []contracts.PriceRecord
	for _, batch := range batches {
		all = append(all, batch...)
	}

	if len(all) == 0 {
		l.logger.Info("No data to load")
		return nil
	}

	session, err := l.pool.OpenSession(ctx)
	if err != nil {
		return fmt.Errorf("load prices: %w", err)
	}
	defer session.Close()

	if err := l.loadAll(ctx, session, all); err != nil {
		// Explicit rollback before surfacing the error; the deferred
		// close still runs afterwards.
		if rbErr := session.Exec(ctx, "ROLLBACK;"); rbErr != nil {
			l.logger.WithError(rbErr).Warn("Rollback failed")
		}
		l.logger.WithError(err).Error("An error occurred while loading data")
		return fmt.Errorf("load prices: %w", err)
	}

	l.logger.WithFields(map[string]interface{}{
		"table": l.table,
		"rows":  len(all),
	}).Info("Data loaded successfully")

	return nil
}

// loadAll runs the transactional statement sequence
func (l *Loader) loadAll(ctx context.Context, session contracts.Session, records []contracts.PriceRecord) error {
	if err := session.Exec(ctx, "BEGIN;"); err != nil {
		return err
	}

	if err := session.Exec(ctx, fmt.Sprintf(createPricesTableTemplate, l.table)); err != nil {
		return err
	}

	insertSQL := fmt.Sprintf(insertPriceTemplate, l.table)
	for _, record := range records {
		err := session.Exec(ctx, insertSQL,
			record.Symbol,
			record.Date,
			record.Open,
			record.Close,
			record.Min,
			record.Max,
			record.Volume,
		)
		if err != nil {
			return err
		}
	}

	return session.Exec(ctx, "COMMIT;")
}
