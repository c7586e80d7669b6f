package types

import (
	"time"

	"github.com/shopspring/decimal"
)

// MarketData is one daily snapshot for an instrument. The core always works
// with the single most recent snapshot (max Date) per instrument.
type MarketData struct {
	InstrumentId  int64           `json:"instrumentId"`
	High          decimal.Decimal `json:"high"`
	Low           decimal.Decimal `json:"low"`
	Open          decimal.Decimal `json:"open"`
	Close         decimal.Decimal `json:"close"`
	PreviousClose decimal.Decimal `json:"previousClose"`
	Date          time.Time       `json:"date"`
}
