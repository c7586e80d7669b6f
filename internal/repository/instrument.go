package repository

import (
	"brokerage/internal/engine"
	"brokerage/types"
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
)

const searchLimit = 20

// FindInstrument retrieves one instrument by id.
func (db *Database) FindInstrument(ctx context.Context, id int64) (*types.Instrument, error) {
	row := db.conn.QueryRow(ctx,
		`SELECT id, ticker, name, type FROM instruments WHERE id = $1`, id)

	var instrument types.Instrument
	if err := row.Scan(&instrument.Id, &instrument.Ticker, &instrument.Name, &instrument.Type); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("instrument %d: %w", id, engine.ErrInstrumentNotFound)
		}
		return nil, err
	}
	return &instrument, nil
}

// SearchInstruments matches term as a case-insensitive substring of ticker or
// name, ordered by ticker, capped at 20 rows. The caller guards against blank
// terms.
func (db *Database) SearchInstruments(ctx context.Context, term string) ([]types.Instrument, error) {
	pattern := "%" + term + "%"
	rows, err := db.conn.Query(ctx,
		`SELECT id, ticker, name, type
		 FROM instruments
		 WHERE ticker ILIKE $1 OR name ILIKE $1
		 ORDER BY ticker ASC
		 LIMIT $2`, pattern, searchLimit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	instruments := []types.Instrument{}
	for rows.Next() {
		var instrument types.Instrument
		if err := rows.Scan(&instrument.Id, &instrument.Ticker, &instrument.Name, &instrument.Type); err != nil {
			return nil, err
		}
		instruments = append(instruments, instrument)
	}
	return instruments, rows.Err()
}
