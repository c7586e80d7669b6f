package types

import (
	"sort"

	"github.com/shopspring/decimal"
)

// Position is a user's net holding in one instrument, derived from order
// history on every read. It is never persisted.
type Position struct {
	Quantity   decimal.Decimal
	TotalCost  decimal.Decimal
	Instrument *Instrument
	MarketData *MarketData
}

// Portfolio is the result of replaying a user's order history.
//
// Cash only tracks CASH_IN/CASH_OUT movements; trades never touch it.
// AssignCash is the notional amount reserved by orders still in NEW status.
type Portfolio struct {
	Positions  map[int64]*Position
	Cash       decimal.Decimal
	AssignCash decimal.Decimal
}

func NewPortfolio() *Portfolio {
	return &Portfolio{
		Positions: make(map[int64]*Position),
	}
}

// PositionList returns the positions ordered by instrument id, so downstream
// output is deterministic.
func (p *Portfolio) PositionList() []*Position {
	ids := make([]int64, 0, len(p.Positions))
	for id := range p.Positions {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })

	positions := make([]*Position, 0, len(ids))
	for _, id := range ids {
		positions = append(positions, p.Positions[id])
	}
	return positions
}

// Asset is the valuated view of one position, produced only for responses.
type Asset struct {
	InstrumentId  int64           `json:"instrument"`
	Quantity      decimal.Decimal `json:"quantity"`
	PositionValue decimal.Decimal `json:"positionValue"`
	Performance   decimal.Decimal `json:"performance"`
	Ticker        string          `json:"ticker"`
}

// PortfolioSummary is the output of valuating a set of positions.
type PortfolioSummary struct {
	PortfolioValue decimal.Decimal
	Assets         []Asset
}

// PortfolioView is the boundary payload for a portfolio read.
type PortfolioView struct {
	TotalValue             decimal.Decimal `json:"totalValue"`
	TotalValueTicker       string          `json:"totalValueTicker"`
	AvailableBalance       decimal.Decimal `json:"availableBalance"`
	AvailableBalanceTicker string          `json:"availableBalanceTicker"`
	Assets                 []Asset         `json:"assets"`
}
