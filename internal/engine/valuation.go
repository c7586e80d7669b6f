package engine

import (
	"brokerage/types"

	"github.com/shopspring/decimal"
)

var oneHundred = decimal.NewFromInt(100)

// Valuate prices a set of positions against their latest market snapshot and
// sums the portfolio value. Pure; every division is guarded.
func Valuate(positions []*types.Position) types.PortfolioSummary {
	summary := types.PortfolioSummary{Assets: make([]types.Asset, 0, len(positions))}

	for _, position := range positions {
		asset := valuateAsset(position)
		summary.PortfolioValue = summary.PortfolioValue.Add(asset.PositionValue)
		summary.Assets = append(summary.Assets, asset)
	}
	return summary
}

func valuateAsset(position *types.Position) types.Asset {
	price := currentPrice(position.MarketData)
	positionValue := position.Quantity.Mul(price).Round(2)

	avgPrice := decimal.Zero
	if !position.Quantity.IsZero() {
		avgPrice = position.TotalCost.Div(position.Quantity.Abs())
	}

	performance := decimal.Zero
	if avgPrice.IsPositive() {
		performance = price.Sub(avgPrice).Div(avgPrice).Mul(oneHundred).Round(2)
	}

	asset := types.Asset{
		Quantity:      position.Quantity,
		PositionValue: positionValue,
		Performance:   performance,
	}
	if position.Instrument != nil {
		asset.InstrumentId = position.Instrument.Id
		asset.Ticker = position.Instrument.Ticker
	}
	return asset
}

// currentPrice is the latest close, falling back to the previous close when
// the close is missing (stored as zero), and to zero when there is no
// snapshot at all.
func currentPrice(marketData *types.MarketData) decimal.Decimal {
	if marketData == nil {
		return decimal.Zero
	}
	if !marketData.Close.IsZero() {
		return marketData.Close
	}
	return marketData.PreviousClose
}
