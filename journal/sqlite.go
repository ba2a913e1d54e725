package journal

import (
	"database/sql"

	_ "github.com/mattn/go-sqlite3"
)

type SQLite struct {
	db *sql.DB
}

func NewSQLite(path string) (*SQLite, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, err
	}

	if _, err := db.Exec(Schema); err != nil {
		_ = db.Close()
		return nil, err
	}

	return &SQLite{db: db}, nil
}

func (j *SQLite) RecordTrade(t TradeRecord) error {
	_, err := j.db.Exec(`
		INSERT INTO trades
		(trade_id, symbol, side, quantity, price, time)
		VALUES (?, ?, ?, ?, ?, ?)`,
		t.TradeID, t.Symbol, t.Side, t.Quantity, t.Price, t.Time.UTC(),
	)
	return err
}

func (j *SQLite) Close() error {
	return j.db.Close()
}
