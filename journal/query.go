package journal

import (
	"database/sql"
	"errors"
	"fmt"
	"time"
)

const selectTrades = `
	SELECT trade_id, symbol, side, quantity, price, time
	FROM trades`

type scanner interface {
	Scan(dest ...any) error
}

func scanTrade(s scanner) (TradeRecord, error) {
	var rec TradeRecord
	err := s.Scan(
		&rec.TradeID,
		&rec.Symbol,
		&rec.Side,
		&rec.Quantity,
		&rec.Price,
		&rec.Time,
	)
	return rec, err
}

// GetTrade returns a single trade record by ID.
func (j *SQLite) GetTrade(tradeID string) (TradeRecord, error) {
	rec, err := scanTrade(j.db.QueryRow(selectTrades+` WHERE trade_id = ?`, tradeID))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return TradeRecord{}, fmt.Errorf("trade %q not found", tradeID)
		}
		return TradeRecord{}, err
	}
	return rec, nil
}

// ListTrades returns the trades for symbol in time order, or every trade
// when symbol is empty.
func (j *SQLite) ListTrades(symbol string) ([]TradeRecord, error) {
	if symbol == "" {
		return j.list(selectTrades + ` ORDER BY time ASC, trade_id ASC`)
	}
	return j.list(selectTrades+` WHERE symbol = ? ORDER BY time ASC, trade_id ASC`, symbol)
}

// ListTradesBetween returns trades whose time is within [start, end).
func (j *SQLite) ListTradesBetween(start, end time.Time) ([]TradeRecord, error) {
	return j.list(selectTrades+`
		WHERE time >= ? AND time < ?
		ORDER BY time ASC, trade_id ASC`, start.UTC(), end.UTC())
}

func (j *SQLite) list(query string, args ...any) ([]TradeRecord, error) {
	rows, err := j.db.Query(query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []TradeRecord
	for rows.Next() {
		rec, err := scanTrade(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}
