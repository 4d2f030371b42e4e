package journal

import (
	"database/sql"
	"fmt"

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
		db.Close()
		return nil, err
	}

	return &SQLite{db: db}, nil
}

func (j *SQLite) AppendTrade(t TradeRecord) error {
	_, err := j.db.Exec(`
		INSERT INTO trades
		(time, order_id, symbol, side, quantity, price, kind, status, pnl, strategy)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		t.Time, t.OrderID, t.Symbol, t.Side, t.Quantity,
		t.Price, t.Kind, string(t.Status), t.PnL, t.Strategy,
	)
	return err
}

func (j *SQLite) AppendEvent(e BreakerEvent) error {
	_, err := j.db.Exec(`
		INSERT INTO breaker_events (time, action, reason)
		VALUES (?, ?, ?)`,
		e.Time, e.Action, e.Reason,
	)
	return err
}

func (j *SQLite) SaveDay(d DayStat) error {
	_, err := j.db.Exec(`
		INSERT INTO daily (day, pnl, trades) VALUES (?, ?, ?)
		ON CONFLICT(day) DO UPDATE SET pnl = excluded.pnl, trades = excluded.trades`,
		d.Day, d.PnL, d.Trades,
	)
	return err
}

func (j *SQLite) LoadDay(day string) (DayStat, bool, error) {
	var d DayStat
	row := j.db.QueryRow(`SELECT day, pnl, trades FROM daily WHERE day = ?`, day)
	err := row.Scan(&d.Day, &d.PnL, &d.Trades)
	if err == sql.ErrNoRows {
		return DayStat{}, false, nil
	}
	if err != nil {
		return DayStat{}, false, err
	}
	return d, true, nil
}

// TailTrades returns the most recent n trade records, oldest first.
func (j *SQLite) TailTrades(n int) ([]TradeRecord, error) {
	rows, err := j.db.Query(`
		SELECT time, order_id, symbol, side, quantity, price, kind, status, pnl, strategy
		FROM trades
		ORDER BY time DESC, rowid DESC
		LIMIT ?`, n)
	if err != nil {
		return nil, err
	}
	out, err := scanTrades(rows)
	if err != nil {
		return nil, err
	}
	reverse(out)
	return out, nil
}

// TradesBySymbol returns the most recent n records for one symbol,
// oldest first.
func (j *SQLite) TradesBySymbol(symbol string, n int) ([]TradeRecord, error) {
	rows, err := j.db.Query(`
		SELECT time, order_id, symbol, side, quantity, price, kind, status, pnl, strategy
		FROM trades
		WHERE symbol = ?
		ORDER BY time DESC, rowid DESC
		LIMIT ?`, symbol, n)
	if err != nil {
		return nil, err
	}
	out, err := scanTrades(rows)
	if err != nil {
		return nil, err
	}
	reverse(out)
	return out, nil
}

func scanTrades(rows *sql.Rows) ([]TradeRecord, error) {
	defer rows.Close()

	var out []TradeRecord
	for rows.Next() {
		var rec TradeRecord
		var status string
		if err := rows.Scan(
			&rec.Time,
			&rec.OrderID,
			&rec.Symbol,
			&rec.Side,
			&rec.Quantity,
			&rec.Price,
			&rec.Kind,
			&status,
			&rec.PnL,
			&rec.Strategy,
		); err != nil {
			return nil, err
		}
		rec.Status = Status(status)
		out = append(out, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

func reverse(recs []TradeRecord) {
	for i, j := 0, len(recs)-1; i < j; i, j = i+1, j-1 {
		recs[i], recs[j] = recs[j], recs[i]
	}
}

func (j *SQLite) Close() error {
	if j.db == nil {
		return fmt.Errorf("journal already closed")
	}
	err := j.db.Close()
	j.db = nil
	return err
}
