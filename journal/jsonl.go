package journal

import (
	"bufio"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"
)

// JSONL is a file-backed Journal: one JSON object per line, appended to
// trades.jsonl and events.jsonl under dir. Day counters live in a small
// day.json snapshot rewritten atomically on every change. Suited to
// deployments without sqlite; the files double as a human-greppable
// audit log.
type JSONL struct {
	dir    string
	trades *os.File
	events *os.File
}

type jsonlTrade struct {
	Time     string  `json:"timestamp"`
	OrderID  string  `json:"order_id"`
	Symbol   string  `json:"symbol"`
	Side     string  `json:"side"`
	Quantity int64   `json:"quantity"`
	Price    float64 `json:"price"`
	Kind     string  `json:"kind"`
	Status   string  `json:"status"`
	PnL      float64 `json:"pnl"`
	Strategy string  `json:"strategy"`
}

type jsonlEvent struct {
	Time   string `json:"timestamp"`
	Action string `json:"action"`
	Reason string `json:"reason"`
}

func NewJSONL(dir string) (*JSONL, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create journal dir: %w", err)
	}
	tf, err := os.OpenFile(filepath.Join(dir, "trades.jsonl"), os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		return nil, err
	}
	ef, err := os.OpenFile(filepath.Join(dir, "events.jsonl"), os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		tf.Close()
		return nil, err
	}
	return &JSONL{dir: dir, trades: tf, events: ef}, nil
}

func (j *JSONL) AppendTrade(t TradeRecord) error {
	return appendLine(j.trades, jsonlTrade{
		Time:     t.Time.UTC().Format(time.RFC3339Nano),
		OrderID:  t.OrderID,
		Symbol:   t.Symbol,
		Side:     t.Side,
		Quantity: t.Quantity,
		Price:    t.Price,
		Kind:     t.Kind,
		Status:   string(t.Status),
		PnL:      t.PnL,
		Strategy: t.Strategy,
	})
}

func (j *JSONL) AppendEvent(e BreakerEvent) error {
	return appendLine(j.events, jsonlEvent{
		Time:   e.Time.UTC().Format(time.RFC3339Nano),
		Action: e.Action,
		Reason: e.Reason,
	})
}

func appendLine(f *os.File, v any) error {
	b, err := json.Marshal(v)
	if err != nil {
		return err
	}
	b = append(b, '\n')
	if _, err := f.Write(b); err != nil {
		return err
	}
	return f.Sync()
}

func (j *JSONL) dayPath() string { return filepath.Join(j.dir, "day.json") }

func (j *JSONL) SaveDay(d DayStat) error {
	b, err := json.MarshalIndent(d, "", "  ")
	if err != nil {
		return err
	}
	return writeFileAtomic(j.dayPath(), b, 0o644)
}

func (j *JSONL) LoadDay(day string) (DayStat, bool, error) {
	b, err := os.ReadFile(j.dayPath())
	if os.IsNotExist(err) {
		return DayStat{}, false, nil
	}
	if err != nil {
		return DayStat{}, false, err
	}
	var d DayStat
	if err := json.Unmarshal(b, &d); err != nil {
		return DayStat{}, false, err
	}
	if d.Day != day {
		// Snapshot is from another trading day; fresh counters.
		return DayStat{}, false, nil
	}
	return d, true, nil
}

func (j *JSONL) TailTrades(n int) ([]TradeRecord, error) {
	all, err := j.readTrades()
	if err != nil {
		return nil, err
	}
	if len(all) > n {
		all = all[len(all)-n:]
	}
	return all, nil
}

func (j *JSONL) TradesBySymbol(symbol string, n int) ([]TradeRecord, error) {
	all, err := j.readTrades()
	if err != nil {
		return nil, err
	}
	var out []TradeRecord
	for _, r := range all {
		if r.Symbol == symbol {
			out = append(out, r)
		}
	}
	if len(out) > n {
		out = out[len(out)-n:]
	}
	return out, nil
}

func (j *JSONL) readTrades() ([]TradeRecord, error) {
	f, err := os.Open(filepath.Join(j.dir, "trades.jsonl"))
	if os.IsNotExist(err) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	defer f.Close()

	var out []TradeRecord
	sc := bufio.NewScanner(f)
	for sc.Scan() {
		line := sc.Bytes()
		if len(line) == 0 {
			continue
		}
		var jt jsonlTrade
		if err := json.Unmarshal(line, &jt); err != nil {
			return nil, fmt.Errorf("corrupt trade line: %w", err)
		}
		ts, err := time.Parse(time.RFC3339Nano, jt.Time)
		if err != nil {
			return nil, fmt.Errorf("corrupt trade timestamp: %w", err)
		}
		out = append(out, TradeRecord{
			Time:     ts,
			OrderID:  jt.OrderID,
			Symbol:   jt.Symbol,
			Side:     jt.Side,
			Quantity: jt.Quantity,
			Price:    jt.Price,
			Kind:     jt.Kind,
			Status:   Status(jt.Status),
			PnL:      jt.PnL,
			Strategy: jt.Strategy,
		})
	}
	if err := sc.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

func (j *JSONL) Close() error {
	if err := j.trades.Close(); err != nil {
		return err
	}
	return j.events.Close()
}
