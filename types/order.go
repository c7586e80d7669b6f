package types

import (
	"time"

	"github.com/shopspring/decimal"
)

type Side string

type OrderType string

type OrderStatus string

const (
	SideBuy     Side = "BUY"
	SideSell    Side = "SELL"
	SideCashIn  Side = "CASH_IN"
	SideCashOut Side = "CASH_OUT"

	TypeMarket OrderType = "MARKET"
	TypeLimit  OrderType = "LIMIT"

	StatusNew       OrderStatus = "NEW"
	StatusFilled    OrderStatus = "FILLED"
	StatusRejected  OrderStatus = "REJECTED"
	StatusCancelled OrderStatus = "CANCELLED"
)

// Order is an append-only row of the orders table. Once written it is never
// mutated; a rejected or filled order is a terminal fact.
//
// Size is the stored magnitude and is always non-negative; the sign of its
// effect comes from Side. Price is zero for the cash sides (the column is
// NULL, read back as zero).
type Order struct {
	Id           int64
	UserId       int64
	InstrumentId int64
	Side         Side
	Size         decimal.Decimal
	Price        decimal.Decimal
	Type         OrderType
	Status       OrderStatus
	Datetime     time.Time

	// Joined references, populated by the order history queries. Instrument
	// is nil when the row had no matching instrument, MarketData is nil when
	// the instrument has no snapshot at all.
	Instrument *Instrument
	MarketData *MarketData
}
