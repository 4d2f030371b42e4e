// journal/schema.go
package journal

const Schema = `
CREATE TABLE IF NOT EXISTS trades (
	time DATETIME NOT NULL,
	order_id TEXT NOT NULL,
	symbol TEXT NOT NULL,
	side TEXT NOT NULL,
	quantity INTEGER NOT NULL,
	price REAL NOT NULL,
	kind TEXT NOT NULL,
	status TEXT NOT NULL,
	pnl REAL NOT NULL,
	strategy TEXT NOT NULL
);

CREATE TABLE IF NOT EXISTS breaker_events (
	time DATETIME NOT NULL,
	action TEXT NOT NULL,
	reason TEXT NOT NULL
);

CREATE TABLE IF NOT EXISTS daily (
	day TEXT PRIMARY KEY,
	pnl REAL NOT NULL,
	trades INTEGER NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_trades_time ON trades(time);
CREATE INDEX IF NOT EXISTS idx_trades_symbol ON trades(symbol);
`
