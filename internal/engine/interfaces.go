package engine

import (
	"brokerage/types"
	"context"
	"errors"
)

// Lookup errors the store must return so the engine can tell "absent" from a
// storage failure.
var (
	ErrInstrumentNotFound = errors.New("instrument not found")
	ErrUserNotFound       = errors.New("user not found")
)

// dataStore is the persistence contract the engine consumes. The repository
// package implements it against Postgres; tests implement it in memory.
type dataStore interface {
	// FindInstrument returns ErrInstrumentNotFound when no such row exists.
	FindInstrument(ctx context.Context, id int64) (*types.Instrument, error)

	// SearchInstruments matches term as a case-insensitive substring of
	// ticker or name, ordered ascending by ticker, capped at 20 rows.
	SearchInstruments(ctx context.Context, term string) ([]types.Instrument, error)

	// LatestMarketData returns the snapshot with the greatest date for the
	// instrument, or (nil, nil) when the instrument has none.
	LatestMarketData(ctx context.Context, instrumentId int64) (*types.MarketData, error)

	// ValidOrders returns the user's FILLED and NEW orders sorted ascending
	// by datetime, with Instrument and the latest MarketData attached. The
	// engine replays them as-is and does not re-sort.
	ValidOrders(ctx context.Context, userId int64) ([]types.Order, error)

	// FilledOrders returns only the user's FILLED orders, sorted ascending
	// by datetime, with Instrument attached.
	FilledOrders(ctx context.Context, userId int64) ([]types.Order, error)

	// SaveOrder inserts the order and assigns its Id.
	SaveOrder(ctx context.Context, order *types.Order) error

	UserExists(ctx context.Context, userId int64) (bool, error)
}
