package ingest

import (
	"context"
	"fmt"
	"time"

	"github.com/catherineraj6/lab1-226/internal/contracts"
	"github.com/catherineraj6/lab1-226/pkg/logger"
)

// SeriesFetcher fetches a symbol's complete daily series
type SeriesFetcher interface {
	DailySeries(ctx context.Context, symbol string) (contracts.Series, error)
}

// Extractor pulls one symbol's trailing window from the market data API.
// The window is evaluated against the wall clock at extraction time, so
// repeated runs for the same symbol see different windows.
type Extractor struct {
	fetcher    SeriesFetcher
	windowDays int
	now        func() time.Time
	logger     *logger.Logger
}

// NewExtractor creates an Extractor with the given trailing window
func NewExtractor(fetcher SeriesFetcher, windowDays int, log *logger.Logger) *Extractor {
	return &Extractor{
		fetcher:    fetcher,
		windowDays: windowDays,
		now:        time.Now,
		logger:     log,
	}
}

// WithClock overrides the wall clock, for tests
func (e *Extractor) WithClock(now func() time.Time) *Extractor {
	e.now = now
	return e
}

// Extract fetches the symbol's daily series and keeps only entries dated
// within the trailing window. An entry dated exactly at the cutoff stays in.
func (e *Extractor) Extract(ctx context.Context, symbol string) (contracts.RawSeries, error) {
	series, err := e.fetcher.DailySeries(ctx, symbol)
	if err != nil {
		return contracts.RawSeries{}, fmt.Errorf("extract %s: %w", symbol, err)
	}

	cutoff := e.now().AddDate(0, 0, -e.windowDays)

	filtered := contracts.Series{}
	for date, fields := range series {
		parsed, err := time.Parse("2006-01-02", date)
		if err != nil {
			return contracts.RawSeries{}, fmt.Errorf("extract %s: parse series date %q: %w", symbol, date, err)
		}
		if !parsed.Before(cutoff) {
			filtered[date] = fields
		}
	}

	e.logger.WithFields(map[string]interface{}{
		"symbol":   symbol,
		"fetched":  len(series),
		"windowed": len(filtered),
	}).Debug("Extracted daily series")

	return contracts.RawSeries{Symbol: symbol, Data: filtered}, nil
}
