// Package engine implements the portfolio core: ledger replay, asset
// valuation, order validation and order submission. State is never stored;
// every read re-derives positions and cash from the full order history.
package engine

import (
	"brokerage/types"
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog"
)

// Currency every monetary figure is denominated in.
const Currency = "ARS"

type Service struct {
	store dataStore
	log   zerolog.Logger
	locks userLocks
	now   func() time.Time
}

func NewService(store dataStore, log zerolog.Logger) *Service {
	return &Service{
		store: store,
		log:   log.With().Str("component", "engine").Logger(),
		locks: newUserLocks(),
		now:   time.Now,
	}
}

// GetPortfolio rebuilds the user's portfolio from scratch and values it
// against the latest market snapshots.
func (s *Service) GetPortfolio(ctx context.Context, userId int64) (types.PortfolioView, error) {
	exists, err := s.store.UserExists(ctx, userId)
	if err != nil {
		return types.PortfolioView{}, fmt.Errorf("user lookup: %w", err)
	}
	if !exists {
		return types.PortfolioView{}, ErrUserNotFound
	}

	orders, err := s.store.ValidOrders(ctx, userId)
	if err != nil {
		return types.PortfolioView{}, fmt.Errorf("order history: %w", err)
	}

	portfolio, err := Replay(orders)
	if err != nil {
		return types.PortfolioView{}, err
	}
	summary := Valuate(portfolio.PositionList())

	totalValue := summary.PortfolioValue.Add(portfolio.Cash).Add(portfolio.AssignCash)
	return types.PortfolioView{
		TotalValue:             totalValue.Round(2),
		TotalValueTicker:       Currency,
		AvailableBalance:       portfolio.Cash.Round(2),
		AvailableBalanceTicker: Currency,
		Assets:                 summary.Assets,
	}, nil
}

// SearchInstruments matches query against ticker or name. A blank query
// returns an empty result without touching the store.
func (s *Service) SearchInstruments(ctx context.Context, query string) ([]types.Instrument, error) {
	term := strings.TrimSpace(query)
	if term == "" {
		return []types.Instrument{}, nil
	}
	instruments, err := s.store.SearchInstruments(ctx, term)
	if err != nil {
		return nil, fmt.Errorf("search instruments: %w", err)
	}
	return instruments, nil
}
