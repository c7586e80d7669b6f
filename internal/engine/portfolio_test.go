package engine

import (
	"brokerage/types"
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"
)

func d(value string) decimal.Decimal {
	return decimal.RequireFromString(value)
}

func filledOrder(instrumentId int64, side types.Side, size, price string) types.Order {
	return types.Order{
		UserId:       1,
		InstrumentId: instrumentId,
		Side:         side,
		Size:         d(size),
		Price:        d(price),
		Type:         types.TypeMarket,
		Status:       types.StatusFilled,
		Datetime:     time.UnixMilli(1),
		Instrument:   &types.Instrument{Id: instrumentId, Ticker: "TICK"},
	}
}

func newOrder(instrumentId int64, side types.Side, size, price string) types.Order {
	order := filledOrder(instrumentId, side, size, price)
	order.Status = types.StatusNew
	return order
}

func TestReplay(t *testing.T) {
	tests := []struct {
		name           string
		orders         []types.Order
		wantCash       decimal.Decimal
		wantAssignCash decimal.Decimal
		wantPositions  map[int64]*types.Position
		wantErr        error
	}{
		{
			name: "cash in and out",
			orders: []types.Order{
				filledOrder(66, types.SideCashIn, "5000", "0"),
				filledOrder(66, types.SideCashOut, "1200", "0"),
			},
			wantCash:       d("3800"),
			wantAssignCash: decimal.Zero,
			wantPositions:  map[int64]*types.Position{},
		},
		{
			name: "buy opens a position and does not touch cash",
			orders: []types.Order{
				filledOrder(66, types.SideCashIn, "5000", "0"),
				filledOrder(5, types.SideBuy, "10", "100"),
			},
			wantCash:       d("5000"),
			wantAssignCash: decimal.Zero,
			wantPositions: map[int64]*types.Position{
				5: {Quantity: d("10"), TotalCost: d("1000")},
			},
		},
		{
			name: "sell reduces quantity and cost",
			orders: []types.Order{
				filledOrder(5, types.SideBuy, "10", "100"),
				filledOrder(5, types.SideSell, "4", "110"),
			},
			wantCash:       decimal.Zero,
			wantAssignCash: decimal.Zero,
			wantPositions: map[int64]*types.Position{
				5: {Quantity: d("6"), TotalCost: d("560")},
			},
		},
		{
			name: "sell beyond held quantity is kept, not rejected",
			orders: []types.Order{
				filledOrder(5, types.SideBuy, "3", "100"),
				filledOrder(5, types.SideSell, "8", "100"),
			},
			wantCash:       decimal.Zero,
			wantAssignCash: decimal.Zero,
			wantPositions: map[int64]*types.Position{
				5: {Quantity: d("-5"), TotalCost: d("-500")},
			},
		},
		{
			name: "NEW order reserves cash and leaves positions alone",
			orders: []types.Order{
				filledOrder(66, types.SideCashIn, "5000", "0"),
				newOrder(5, types.SideBuy, "9", "100"),
			},
			wantCash:       d("5000"),
			wantAssignCash: d("900"),
			wantPositions:  map[int64]*types.Position{},
		},
		{
			name: "trades across instruments stay separate",
			orders: []types.Order{
				filledOrder(5, types.SideBuy, "10", "100"),
				filledOrder(7, types.SideBuy, "2", "50"),
				filledOrder(5, types.SideSell, "5", "120"),
			},
			wantCash:       decimal.Zero,
			wantAssignCash: decimal.Zero,
			wantPositions: map[int64]*types.Position{
				5: {Quantity: d("5"), TotalCost: d("400")},
				7: {Quantity: d("2"), TotalCost: d("100")},
			},
		},
		{
			name: "corrupted side on a trade row fails",
			orders: []types.Order{
				filledOrder(5, "SHORT", "10", "100"),
			},
			wantErr: ErrUnknownOrderSide,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Replay(tt.orders)
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Fatalf("Replay() error = %v, want %v", err, tt.wantErr)
				}
				return
			}
			if err != nil {
				t.Fatalf("Replay() unexpected error: %v", err)
			}
			if !got.Cash.Equal(tt.wantCash) {
				t.Errorf("cash = %v, want %v", got.Cash, tt.wantCash)
			}
			if !got.AssignCash.Equal(tt.wantAssignCash) {
				t.Errorf("assignCash = %v, want %v", got.AssignCash, tt.wantAssignCash)
			}
			if len(got.Positions) != len(tt.wantPositions) {
				t.Fatalf("positions = %d, want %d", len(got.Positions), len(tt.wantPositions))
			}
			for id, want := range tt.wantPositions {
				pos, ok := got.Positions[id]
				if !ok {
					t.Fatalf("missing position for instrument %d", id)
				}
				if !pos.Quantity.Equal(want.Quantity) {
					t.Errorf("instrument %d quantity = %v, want %v", id, pos.Quantity, want.Quantity)
				}
				if !pos.TotalCost.Equal(want.TotalCost) {
					t.Errorf("instrument %d totalCost = %v, want %v", id, pos.TotalCost, want.TotalCost)
				}
			}
		})
	}
}

func TestReplayIsIdempotent(t *testing.T) {
	orders := []types.Order{
		filledOrder(66, types.SideCashIn, "5000", "0"),
		filledOrder(5, types.SideBuy, "10", "100"),
		newOrder(5, types.SideBuy, "2", "50"),
		filledOrder(5, types.SideSell, "3", "120"),
	}

	first, err := Replay(orders)
	if err != nil {
		t.Fatal(err)
	}
	second, err := Replay(orders)
	if err != nil {
		t.Fatal(err)
	}

	if !first.Cash.Equal(second.Cash) || !first.AssignCash.Equal(second.AssignCash) {
		t.Errorf("cash diverged between replays: %v/%v vs %v/%v",
			first.Cash, first.AssignCash, second.Cash, second.AssignCash)
	}
	for id, pos := range first.Positions {
		other := second.Positions[id]
		if other == nil || !pos.Quantity.Equal(other.Quantity) || !pos.TotalCost.Equal(other.TotalCost) {
			t.Errorf("position %d diverged between replays", id)
		}
	}
}

func TestReplayAttachesFirstSeenMarketData(t *testing.T) {
	snapshot := &types.MarketData{InstrumentId: 5, Close: d("120"), Date: time.UnixMilli(1)}
	first := filledOrder(5, types.SideBuy, "10", "100")
	first.MarketData = snapshot
	second := filledOrder(5, types.SideBuy, "1", "100")

	portfolio, err := Replay([]types.Order{first, second})
	if err != nil {
		t.Fatal(err)
	}
	if portfolio.Positions[5].MarketData != snapshot {
		t.Error("position should keep the market data of the first order seen")
	}
}
