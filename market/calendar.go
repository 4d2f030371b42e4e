package market

import (
	"fmt"
	"time"
)

// Calendar answers whether the market accepts orders at a given instant.
// The gate treats it as an oracle; session rules live entirely here.
type Calendar interface {
	IsOpen(t time.Time) bool
}

// TimeOfDay is a wall-clock time within a trading day, e.g. 09:15.
type TimeOfDay struct {
	Hour   int
	Minute int
}

// ParseTimeOfDay parses "HH:MM".
func ParseTimeOfDay(s string) (TimeOfDay, error) {
	var tod TimeOfDay
	if _, err := fmt.Sscanf(s, "%d:%d", &tod.Hour, &tod.Minute); err != nil {
		return TimeOfDay{}, fmt.Errorf("parse time of day %q: %w", s, err)
	}
	if tod.Hour < 0 || tod.Hour > 23 || tod.Minute < 0 || tod.Minute > 59 {
		return TimeOfDay{}, fmt.Errorf("time of day %q out of range", s)
	}
	return tod, nil
}

func (t TimeOfDay) minutes() int { return t.Hour*60 + t.Minute }

func (t TimeOfDay) String() string { return fmt.Sprintf("%02d:%02d", t.Hour, t.Minute) }

// SessionCalendar is a config-driven Calendar: one regular session per day
// plus optional pre- and post-market windows, evaluated in the exchange
// timezone.
type SessionCalendar struct {
	Open  TimeOfDay
	Close TimeOfDay

	PreOpenStart  TimeOfDay
	PostCloseEnd  TimeOfDay
	PostOpenStart TimeOfDay

	AllowPreMarket  bool
	AllowPostMarket bool

	Loc *time.Location
}

// NSECalendar returns the default session used by the gate: NSE regular
// hours 09:15-15:30 IST, post-market 15:40-16:00, both extensions off.
func NSECalendar() *SessionCalendar {
	loc, err := time.LoadLocation("Asia/Kolkata")
	if err != nil {
		loc = time.FixedZone("IST", 5*3600+1800)
	}
	return &SessionCalendar{
		Open:          TimeOfDay{9, 15},
		Close:         TimeOfDay{15, 30},
		PreOpenStart:  TimeOfDay{9, 0},
		PostOpenStart: TimeOfDay{15, 40},
		PostCloseEnd:  TimeOfDay{16, 0},
		Loc:           loc,
	}
}

// IsOpen reports whether t falls inside the regular session, or inside an
// enabled pre/post window. The regular session is inclusive on both ends;
// the pre-market window ends exclusively at the open.
func (c *SessionCalendar) IsOpen(t time.Time) bool {
	loc := c.Loc
	if loc == nil {
		loc = time.UTC
	}
	lt := t.In(loc)
	m := lt.Hour()*60 + lt.Minute()

	if m >= c.Open.minutes() && m <= c.Close.minutes() {
		return true
	}
	if c.AllowPreMarket && m >= c.PreOpenStart.minutes() && m < c.Open.minutes() {
		return true
	}
	if c.AllowPostMarket && m >= c.PostOpenStart.minutes() && m <= c.PostCloseEnd.minutes() {
		return true
	}
	return false
}
