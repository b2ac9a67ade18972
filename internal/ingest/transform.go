package ingest

import (
	"fmt"
	"strconv"

	"github.com/shopspring/decimal"

	"github.com/catherineraj6/lab1-226/internal/contracts"
)

// Transform flattens a raw series into one PriceRecord per date entry.
// Pure function: no I/O, no clock. Output order follows map iteration and
// is not chronological; sort downstream if order matters.
func Transform(raw contracts.RawSeries) ([]contracts.PriceRecord, error) {
	records := make([]contracts.PriceRecord, 0, len(raw.Data))

	for date, fields := range raw.Data {
		record, err := recordFrom(raw.Symbol, date, fields)
		if err != nil {
			return nil, err
		}
		records = append(records, record)
	}

	return records, nil
}

// recordFrom maps one date entry's API fields onto a PriceRecord
func recordFrom(symbol, date string, fields contracts.Fields) (contracts.PriceRecord, error) {
	open, err := decimalField(fields, "1. open")
	if err != nil {
		return contracts.PriceRecord{}, fmt.Errorf("transform %s %s: %w", symbol, date, err)
	}
	max, err := decimalField(fields, "2. high")
	if err != nil {
		return contracts.PriceRecord{}, fmt.Errorf("transform %s %s: %w", symbol, date, err)
	}
	min, err := decimalField(fields, "3. low")
	if err != nil {
		return contracts.PriceRecord{}, fmt.Errorf("transform %s %s: %w", symbol, date, err)
	}
	closePrice, err := decimalField(fields, "4. close")
	if err != nil {
		return contracts.PriceRecord{}, fmt.Errorf("transform %s %s: %w", symbol, date, err)
	}
	volume, err := int64Field(fields, "5. volume")
	if err != nil {
		return contracts.PriceRecord{}, fmt.Errorf("transform %s %s: %w", symbol, date, err)
	}

	return contracts.PriceRecord{
		Symbol: symbol,
		Date:   date,
		Open:   open,
		Close:  closePrice,
		Min:    min,
		Max:    max,
		Volume: volume,
	}, nil
}

func decimalField(fields contracts.Fields, key string) (decimal.Decimal, error) {
	raw, ok := fields[key]
	if !ok {
		return decimal.Decimal{}, fmt.Errorf("missing field %q", key)
	}
	value, err := decimal.NewFromString(raw)
	if err != nil {
		return decimal.Decimal{}, fmt.Errorf("parse field %q: %w", key, err)
	}
	return value, nil
}

func int64Field(fields contracts.Fields, key string) (int64, error) {
	raw, ok := fields[key]
	if !ok {
		return 0, fmt.Errorf("missing field %q", key)
	}
	value, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("parse field %q: %w", key, err)
	}
	return value, nil
}
