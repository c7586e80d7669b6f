package engine

import (
	"brokerage/types"
	"context"
	"errors"
	"fmt"

	"github.com/shopspring/decimal"
)

// Rejection reasons. An order that fails one of these is still persisted, as
// a REJECTED record, so the history keeps a complete audit trail.
var (
	ErrNoMarketData            = errors.New("no market data available")
	ErrInvalidMarketPrice      = errors.New("invalid market price")
	ErrPriceRequired           = errors.New("price is required for LIMIT orders")
	ErrQuantityNotInteger      = errors.New("the quantity must be a positive integer")
	ErrAmountTooSmall          = errors.New("total amount too small to buy any shares")
	ErrMissingQuantityOrAmount = errors.New("either quantity or totalAmount must be provided")
	ErrInsufficientFunds       = errors.New("insufficient funds")
	ErrInsufficientShares      = errors.New("insufficient shares")
)

var rejectionReasons = []error{
	ErrNoMarketData,
	ErrInvalidMarketPrice,
	ErrPriceRequired,
	ErrQuantityNotInteger,
	ErrAmountTooSmall,
	ErrMissingQuantityOrAmount,
	ErrInsufficientFunds,
	ErrInsufficientShares,
}

// IsRejection reports whether err is a validation verdict rather than a
// lookup miss or a storage failure.
func IsRejection(err error) bool {
	for _, reason := range rejectionReasons {
		if errors.Is(err, reason) {
			return true
		}
	}
	return false
}

// SubmitOrderRequest is a raw submission. Quantity, TotalAmount and Price are
// optional; a zero decimal means the caller did not provide the field.
type SubmitOrderRequest struct {
	UserId       int64           `json:"userId"`
	InstrumentId int64           `json:"instrumentId"`
	Side         types.Side      `json:"side"`
	Type         types.OrderType `json:"type"`
	Quantity     decimal.Decimal `json:"quantity"`
	TotalAmount  decimal.Decimal `json:"totalAmount"`
	Price        decimal.Decimal `json:"price"`
}

// validation carries the normalized size and price to persist.
type validation struct {
	quantity decimal.Decimal
	price    decimal.Decimal
}

// validateOrder runs the sequential checks, short-circuiting on the first
// failure. The check order is part of the contract: it determines which
// reason the caller sees when several apply.
func (s *Service) validateOrder(ctx context.Context, req SubmitOrderRequest) (validation, error) {
	if _, err := s.store.FindInstrument(ctx, req.InstrumentId); err != nil {
		return validation{}, err
	}

	marketPrice, err := s.marketPrice(ctx, req.InstrumentId)
	if err != nil {
		return validation{}, err
	}

	price := marketPrice
	if req.Type == types.TypeLimit {
		price = req.Price
		if !req.Price.IsPositive() {
			return validation{}, ErrPriceRequired
		}
	}

	quantity, err := resolveQuantity(req, price)
	if err != nil {
		return validation{}, err
	}

	if err := s.validateSufficiency(ctx, req, quantity, price); err != nil {
		return validation{}, err
	}

	return validation{quantity: quantity, price: price}, nil
}

// marketPrice resolves the latest tradable price: close, falling back to
// open. It must be strictly positive.
func (s *Service) marketPrice(ctx context.Context, instrumentId int64) (decimal.Decimal, error) {
	marketData, err := s.store.LatestMarketData(ctx, instrumentId)
	if err != nil {
		return decimal.Zero, fmt.Errorf("latest market data: %w", err)
	}
	if marketData == nil {
		return decimal.Zero, ErrNoMarketData
	}

	price := marketData.Close
	if price.IsZero() {
		price = marketData.Open
	}
	if !price.IsPositive() {
		return decimal.Zero, ErrInvalidMarketPrice
	}
	return price, nil
}

func resolveQuantity(req SubmitOrderRequest, price decimal.Decimal) (decimal.Decimal, error) {
	if !req.Quantity.IsZero() {
		if !req.Quantity.IsInteger() || !req.Quantity.IsPositive() {
			return decimal.Zero, ErrQuantityNotInteger
		}
		return req.Quantity, nil
	}
	if !req.TotalAmount.IsZero() {
		quantity := req.TotalAmount.Div(price).Floor()
		if !quantity.IsPositive() {
			return decimal.Zero, ErrAmountTooSmall
		}
		return quantity, nil
	}
	return decimal.Zero, ErrMissingQuantityOrAmount
}

// validateSufficiency checks funds (BUY) or shares (SELL) against a replay of
// the user's FILLED orders only. Orders still in NEW status, and the cash
// they reserve, do not count here.
func (s *Service) validateSufficiency(ctx context.Context, req SubmitOrderRequest, quantity, price decimal.Decimal) error {
	orders, err := s.store.FilledOrders(ctx, req.UserId)
	if err != nil {
		return fmt.Errorf("filled orders: %w", err)
	}
	portfolio, err := Replay(orders)
	if err != nil {
		return fmt.Errorf("replay filled orders: %w", err)
	}

	switch req.Side {
	case types.SideBuy:
		required := quantity.Mul(price)
		if portfolio.Cash.LessThan(required) {
			return ErrInsufficientFunds
		}
	case types.SideSell:
		summary := Valuate(portfolio.PositionList())
		for _, asset := range summary.Assets {
			if asset.InstrumentId != req.InstrumentId {
				continue
			}
			if asset.Quantity.LessThan(quantity) {
				return ErrInsufficientShares
			}
			return nil
		}
		return ErrInsufficientShares
	}
	return nil
}
