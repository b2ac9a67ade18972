package contracts

import (
	"encoding/json"
	"testing"

	"github.com/shopspring/decimal"
)

func TestRawSeries_Empty(t *testing.T) {
	tests := []struct {
		name   string
		series RawSeries
		want   bool
	}{
		{
			name:   "nil data",
			series: RawSeries{Symbol: "AAPL"},
			want:   true,
		},
		{
			name:   "empty map",
			series: RawSeries{Symbol: "AAPL", Data: Series{}},
			want:   true,
		},
		{
			name: "one entry",
			series: RawSeries{
				Symbol: "AAPL",
				Data: Series{
					"2026-08-20": Fields{"1. open": "229.9800"},
				},
			},
			want: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.series.Empty(); got != tt.want {
				t.Errorf("Empty() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestPriceRecord_JSON(t *testing.T) {
	original := PriceRecord{
		Symbol: "GOOG",
		Date:   "2026-08-19",
		Open:   decimal.RequireFromString("201.3500"),
		Close:  decimal.RequireFromString("203.9000"),
		Min:    decimal.RequireFromString("200.1200"),
		Max:    decimal.RequireFromString("204.4400"),
		Volume: 18223311,
	}

	// Marshal
	data, err := json.Marshal(original)
	if err != nil {
		t.Fatalf("Failed to marshal: %v", err)
	}

	// Unmarshal
	var decoded PriceRecord
	if err := json.Unmarshal(data, &decoded); err != nil {
		t.Fatalf("Failed to unmarshal: %v", err)
	}

	// Verify
	if decoded.Symbol != original.Symbol {
		t.Errorf("Symbol mismatch: got %s, want %s", decoded.Symbol, original.Symbol)
	}
	if decoded.Date != original.Date {
		t.Errorf("Date mismatch: got %s, want %s", decoded.Date, original.Date)
	}
	if !decoded.Close.Equal(original.Close) {
		t.Errorf("Close mismatch: got %s, want %s", decoded.Close, original.Close)
	}
	if decoded.Volume != original.Volume {
		t.Errorf("Volume mismatch: got %d, want %d", decoded.Volume, original.Volume)
	}
}
