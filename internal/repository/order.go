package repository

import (
	"brokerage/types"
	"context"
	"time"

	"github.com/shopspring/decimal"
)

// validOrdersQuery loads a user's FILLED and NEW orders with the instrument
// and the single most recent snapshot per instrument, sorted by datetime —
// the exact shape the ledger replay contract requires.
const validOrdersQuery = `
SELECT o.id, o.userid, o.instrumentid, o.side, o.size, COALESCE(o.price, 0),
       o.type, o.status, o.datetime,
       i.ticker, i.name, i.type,
       md.high, md.low, md.open, md.close, md.previousclose, md.date
FROM orders o
LEFT JOIN instruments i ON i.id = o.instrumentid
LEFT JOIN LATERAL (
    SELECT COALESCE(high, 0) AS high, COALESCE(low, 0) AS low,
           COALESCE(open, 0) AS open, COALESCE(close, 0) AS close,
           COALESCE(previousclose, 0) AS previousclose, date
    FROM marketdata
    WHERE instrumentid = i.id
    ORDER BY date DESC
    LIMIT 1
) md ON true
WHERE o.userid = $1 AND o.status IN ('FILLED', 'NEW')
ORDER BY o.datetime`

const filledOrdersQuery = `
SELECT o.id, o.userid, o.instrumentid, o.side, o.size, COALESCE(o.price, 0),
       o.type, o.status, o.datetime,
       i.ticker, i.name, i.type,
       NULL::numeric, NULL::numeric, NULL::numeric, NULL::numeric, NULL::numeric, NULL::timestamp
FROM orders o
LEFT JOIN instruments i ON i.id = o.instrumentid
WHERE o.userid = $1 AND o.status = 'FILLED'
ORDER BY o.datetime`

// ValidOrders returns the order history a portfolio read replays.
func (db *Database) ValidOrders(ctx context.Context, userId int64) ([]types.Order, error) {
	return db.queryOrders(ctx, validOrdersQuery, userId)
}

// FilledOrders returns only settled orders, the input of the sufficiency
// check on submission. No market data is attached.
func (db *Database) FilledOrders(ctx context.Context, userId int64) ([]types.Order, error) {
	return db.queryOrders(ctx, filledOrdersQuery, userId)
}

func (db *Database) queryOrders(ctx context.Context, query string, userId int64) ([]types.Order, error) {
	rows, err := db.conn.Query(ctx, query, userId)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var orders []types.Order
	for rows.Next() {
		var (
			order                             types.Order
			ticker, name, instrumentType      *string
			high, low, open, close, prevClose *decimal.Decimal
			date                              *time.Time
		)
		err := rows.Scan(
			&order.Id, &order.UserId, &order.InstrumentId, &order.Side, &order.Size,
			&order.Price, &order.Type, &order.Status, &order.Datetime,
			&ticker, &name, &instrumentType,
			&high, &low, &open, &close, &prevClose, &date,
		)
		if err != nil {
			return nil, err
		}

		if ticker != nil {
			order.Instrument = &types.Instrument{
				Id:     order.InstrumentId,
				Ticker: *ticker,
				Name:   *name,
				Type:   types.InstrumentType(*instrumentType),
			}
		}
		if date != nil {
			order.MarketData = &types.MarketData{
				InstrumentId:  order.InstrumentId,
				High:          *high,
				Low:           *low,
				Open:          *open,
				Close:         *close,
				PreviousClose: *prevClose,
				Date:          *date,
			}
		}
		orders = append(orders, order)
	}
	return orders, rows.Err()
}

// SaveOrder inserts the order and fills in its assigned id.
func (db *Database) SaveOrder(ctx context.Context, order *types.Order) error {
	row := db.conn.QueryRow(ctx,
		`INSERT INTO orders (userid, instrumentid, side, size, price, type, status, datetime)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		 RETURNING id`,
		order.UserId, order.InstrumentId, order.Side, order.Size, order.Price,
		order.Type, order.Status, order.Datetime,
	)
	return row.Scan(&order.Id)
}
