package engine

import (
	"brokerage/types"
	"testing"

	"github.com/shopspring/decimal"
)

func position(quantity, totalCost string, marketData *types.MarketData) *types.Position {
	return &types.Position{
		Quantity:   d(quantity),
		TotalCost:  d(totalCost),
		Instrument: &types.Instrument{Id: 5, Ticker: "ACME"},
		MarketData: marketData,
	}
}

func snapshot(close, previousClose string) *types.MarketData {
	return &types.MarketData{InstrumentId: 5, Close: d(close), PreviousClose: d(previousClose)}
}

func TestValuate(t *testing.T) {
	tests := []struct {
		name            string
		positions       []*types.Position
		wantTotal       decimal.Decimal
		wantValue       decimal.Decimal
		wantPerformance decimal.Decimal
	}{
		{
			name:            "gain against average cost",
			positions:       []*types.Position{position("10", "1000", snapshot("120", "100"))},
			wantTotal:       d("1200"),
			wantValue:       d("1200"),
			wantPerformance: d("20"),
		},
		{
			name:            "zero close falls back to previous close",
			positions:       []*types.Position{position("10", "1000", snapshot("0", "95"))},
			wantTotal:       d("950"),
			wantValue:       d("950"),
			wantPerformance: d("-5"),
		},
		{
			name:            "no snapshot values at zero",
			positions:       []*types.Position{position("10", "1000", nil)},
			wantTotal:       d("0"),
			wantValue:       d("0"),
			wantPerformance: d("-100"),
		},
		{
			name:            "zero quantity guards the average-cost division",
			positions:       []*types.Position{position("0", "250", snapshot("120", "100"))},
			wantTotal:       d("0"),
			wantValue:       d("0"),
			wantPerformance: d("0"),
		},
		{
			name:            "values and performance round to 2 decimals",
			positions:       []*types.Position{position("3", "100", snapshot("33.335", "0"))},
			wantTotal:       d("100.01"),
			wantValue:       d("100.01"),
			wantPerformance: d("0.01"),
		},
		{
			// avgPrice is negative here, so the performance guard kicks in.
			name:            "negative quantity is surfaced, not hidden",
			positions:       []*types.Position{position("-5", "-500", snapshot("120", "100"))},
			wantTotal:       d("-600"),
			wantValue:       d("-600"),
			wantPerformance: d("0"),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Valuate(tt.positions)
			if !got.PortfolioValue.Equal(tt.wantTotal) {
				t.Errorf("portfolioValue = %v, want %v", got.PortfolioValue, tt.wantTotal)
			}
			if len(got.Assets) != 1 {
				t.Fatalf("assets = %d, want 1", len(got.Assets))
			}
			asset := got.Assets[0]
			if !asset.PositionValue.Equal(tt.wantValue) {
				t.Errorf("positionValue = %v, want %v", asset.PositionValue, tt.wantValue)
			}
			if !asset.Performance.Equal(tt.wantPerformance) {
				t.Errorf("performance = %v, want %v", asset.Performance, tt.wantPerformance)
			}
			if asset.Ticker != "ACME" || asset.InstrumentId != 5 {
				t.Errorf("asset identity = %s/%d, want ACME/5", asset.Ticker, asset.InstrumentId)
			}
		})
	}
}

func TestValuateSumsAcrossPositions(t *testing.T) {
	positions := []*types.Position{
		position("10", "1000", snapshot("120", "100")),
		position("2", "100", snapshot("60", "50")),
	}
	got := Valuate(positions)
	if !got.PortfolioValue.Equal(d("1320")) {
		t.Errorf("portfolioValue = %v, want 1320", got.PortfolioValue)
	}
	if len(got.Assets) != 2 {
		t.Errorf("assets = %d, want 2", len(got.Assets))
	}
}
