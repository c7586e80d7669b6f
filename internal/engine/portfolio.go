package engine

import (
	"brokerage/types"
	"errors"
	"fmt"

	"github.com/rs/zerolog/log"
)

var ErrUnknownOrderSide = errors.New("unknown order side in trade replay")

// Replay folds an ordered order history into a Portfolio.
//
// The input must already be filtered to a single user with status FILLED or
// NEW, and sorted ascending by datetime. Replay is a pure reconstruction of
// history: it never rejects an order, and the only failure mode is a
// corrupted side value on a trade row.
//
// Two behaviors are intentional and load-bearing, not bugs to fix here:
//   - BUY/SELL never adjust Cash; cash moves only on CASH_IN/CASH_OUT.
//   - A SELL may drive a position negative. It is logged and kept; share
//     sufficiency is enforced at submission time, not during replay.
func Replay(orders []types.Order) (*types.Portfolio, error) {
	portfolio := types.NewPortfolio()

	for i := range orders {
		order := &orders[i]
		switch {
		case order.Status == types.StatusNew:
			// Reserved, not yet spendable.
			portfolio.AssignCash = portfolio.AssignCash.Add(order.Size.Mul(order.Price))
		case order.Side == types.SideCashIn:
			portfolio.Cash = portfolio.Cash.Add(order.Size)
		case order.Side == types.SideCashOut:
			portfolio.Cash = portfolio.Cash.Sub(order.Size)
		default:
			if err := applyTrade(portfolio, order); err != nil {
				return nil, err
			}
		}
	}
	return portfolio, nil
}

func applyTrade(portfolio *types.Portfolio, order *types.Order) error {
	position, ok := portfolio.Positions[order.InstrumentId]
	if !ok {
		position = &types.Position{
			Instrument: order.Instrument,
			MarketData: order.MarketData,
		}
		portfolio.Positions[order.InstrumentId] = position
	}

	switch order.Side {
	case types.SideBuy:
		position.Quantity = position.Quantity.Add(order.Size)
		position.TotalCost = position.TotalCost.Add(order.Size.Mul(order.Price))
	case types.SideSell:
		position.Quantity = position.Quantity.Sub(order.Size)
		if position.Quantity.IsNegative() {
			log.Warn().
				Int64("instrument_id", order.InstrumentId).
				Str("quantity", position.Quantity.String()).
				Msg("position went negative during replay")
		}
		position.TotalCost = position.TotalCost.Sub(order.Size.Mul(order.Price))
	default:
		return fmt.Errorf("%w: %q", ErrUnknownOrderSide, order.Side)
	}
	return nil
}
