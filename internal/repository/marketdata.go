package repository

import (
	"brokerage/types"
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
)

// LatestMarketData returns the most recent snapshot for the instrument, or
// (nil, nil) when the instrument has none.
func (db *Database) LatestMarketData(ctx context.Context, instrumentId int64) (*types.MarketData, error) {
	row := db.conn.QueryRow(ctx,
		`SELECT instrumentid, COALESCE(high, 0), COALESCE(low, 0), COALESCE(open, 0),
		        COALESCE(close, 0), COALESCE(previousclose, 0), date
		 FROM marketdata
		 WHERE instrumentid = $1
		 ORDER BY date DESC
		 LIMIT 1`, instrumentId)

	var marketData types.MarketData
	err := row.Scan(
		&marketData.InstrumentId,
		&marketData.High, &marketData.Low, &marketData.Open,
		&marketData.Close, &marketData.PreviousClose,
		&marketData.Date,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return &marketData, nil
}
