package journal

import (
	"database/sql"
	"fmt"
	"path/filepath"
	"testing"
	"time"

	_ "github.com/mattn/go-sqlite3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestSQLite(t *testing.T) (*SQLite, string) {
	t.Helper()

	dir := t.TempDir()
	path := filepath.Join(dir, "test.db")

	j, err := NewSQLite(path)
	require.NoError(t, err)

	return j, path
}

func testTrade(i int) TradeRecord {
	return TradeRecord{
		Time:     time.Date(2025, 3, 4, 10, 0, i, 0, time.UTC),
		OrderID:  fmt.Sprintf("OID-%d", i),
		Symbol:   "RELIANCE",
		Side:     "BUY",
		Quantity: 10,
		Price:    2500.5,
		Kind:     "LIMIT",
		Status:   StatusPlaced,
		Strategy: "test",
	}
}

func TestSQLiteSchemaCreated(t *testing.T) {
	t.Parallel()

	j, path := newTestSQLite(t)
	assert.NoError(t, j.Close())

	db, err := sql.Open("sqlite3", path)
	assert.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	rows, err := db.Query(`SELECT name FROM sqlite_master WHERE type='table' AND name IN ('trades','breaker_events','daily')`)
	assert.NoError(t, err)
	defer rows.Close()

	found := map[string]bool{}
	for rows.Next() {
		var name string
		assert.NoError(t, rows.Scan(&name))
		found[name] = true
	}
	assert.NoError(t, rows.Err())

	assert.True(t, found["trades"])
	assert.True(t, found["breaker_events"])
	assert.True(t, found["daily"])
}

func TestSQLiteAppendAndTailTrades(t *testing.T) {
	t.Parallel()

	j, _ := newTestSQLite(t)
	t.Cleanup(func() { _ = j.Close() })

	for i := 0; i < 5; i++ {
		require.NoError(t, j.AppendTrade(testTrade(i)))
	}

	tail, err := j.TailTrades(3)
	require.NoError(t, err)
	require.Len(t, tail, 3)

	// Oldest first within the tail.
	assert.Equal(t, "OID-2", tail[0].OrderID)
	assert.Equal(t, "OID-4", tail[2].OrderID)
	assert.Equal(t, StatusPlaced, tail[0].Status)
	assert.True(t, tail[0].Time.Equal(testTrade(2).Time))
}

func TestSQLiteTradesBySymbol(t *testing.T) {
	t.Parallel()

	j, _ := newTestSQLite(t)
	t.Cleanup(func() { _ = j.Close() })

	require.NoError(t, j.AppendTrade(testTrade(0)))
	other := testTrade(1)
	other.Symbol = "INFY"
	require.NoError(t, j.AppendTrade(other))
	require.NoError(t, j.AppendTrade(testTrade(2)))

	recs, err := j.TradesBySymbol("RELIANCE", 10)
	require.NoError(t, err)
	require.Len(t, recs, 2)
	assert.Equal(t, "OID-0", recs[0].OrderID)
	assert.Equal(t, "OID-2", recs[1].OrderID)
}

func TestSQLiteBreakerEvents(t *testing.T) {
	t.Parallel()

	j, path := newTestSQLite(t)

	ev := BreakerEvent{
		Time:   time.Date(2025, 3, 4, 11, 0, 0, 0, time.UTC),
		Action: "TRIP",
		Reason: "daily loss limit exceeded",
	}
	require.NoError(t, j.AppendEvent(ev))
	assert.NoError(t, j.Close())

	db, err := sql.Open("sqlite3", path)
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	var (
		ts     time.Time
		action string
		reason string
	)
	err = db.QueryRow(`SELECT time, action, reason FROM breaker_events LIMIT 1`).Scan(&ts, &action, &reason)
	require.NoError(t, err)
	assert.True(t, ts.Equal(ev.Time))
	assert.Equal(t, "TRIP", action)
	assert.Equal(t, "daily loss limit exceeded", reason)
}

func TestSQLiteDayStatUpsert(t *testing.T) {
	t.Parallel()

	j, _ := newTestSQLite(t)
	t.Cleanup(func() { _ = j.Close() })

	_, ok, err := j.LoadDay("2025-03-04")
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, j.SaveDay(DayStat{Day: "2025-03-04", PnL: -100, Trades: 1}))
	require.NoError(t, j.SaveDay(DayStat{Day: "2025-03-04", PnL: -250, Trades: 2}))

	d, ok, err := j.LoadDay("2025-03-04")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, -250.0, d.PnL)
	assert.Equal(t, 2, d.Trades)
}
