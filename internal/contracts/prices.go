package contracts

import (
	"github.com/shopspring/decimal"
)

// Fields holds the raw per-date values exactly as the market data API returns them
type Fields map[string]string

// Series maps trading dates (YYYY-MM-DD) to their raw field values
type Series map[string]Fields

// RawSeries carries one symbol's windowed daily series from extract to transform
// ⭐ SSOT: extract → transform 데이터 전달
type RawSeries struct {
	Symbol string `json:"symbol"`
	Data   Series `json:"data"`
}

// Empty reports whether the series carries no entries
func (r RawSeries) Empty() bool {
	return len(r.Data) == 0
}

// PriceRecord is one flattened daily price row bound for the warehouse.
// Records are built once by transform and consumed once by load.
type PriceRecord struct {
	Symbol string          `json:"symbol"`
	Date   string          `json:"date"` // YYYY-MM-DD
	Open   decimal.Decimal `json:"open"`
	Close  decimal.Decimal `json:"close"`
	Min    decimal.Decimal `json:"min"`
	Max    decimal.Decimal `json:"max"`
	Volume int64           `json:"volume"`
}
