package period

import (
	"fmt"
	"time"
)

// Period is a calendar month. Every monetary record is keyed by one.
type Period struct {
	Year  int
	Month time.Month
}

// New returns the period for year/month, rejecting months outside 1-12.
func New(year int, month time.Month) (Period, error) {
	if month < time.January || month > time.December {
		return Period{}, ErrInvalidMonth
	}
	if year < 1 {
		return Period{}, ErrInvalidYear
	}
	return Period{Year: year, Month: month}, nil
}

// Of returns the period containing t, in t's location.
func Of(t time.Time) Period {
	return Period{Year: t.Year(), Month: t.Month()}
}

// Parse parses "YYYY-MM".
func Parse(s string) (Period, error) {
	t, err := time.Parse("2006-01", s)
	if err != nil {
		return Period{}, fmt.Errorf("%w: %q", ErrInvalidFormat, s)
	}
	return Of(t), nil
}

func (p Period) String() string {
	return fmt.Sprintf("%04d-%02d", p.Year, int(p.Month))
}

func (p Period) IsZero() bool {
	return p.Year == 0 && p.Month == 0
}

func (p Period) Next() Period {
	return p.AddMonths(1)
}

func (p Period) Prev() Period {
	return p.AddMonths(-1)
}

// AddMonths shifts the period by n months (negative n goes back).
func (p Period) AddMonths(n int) Period {
	idx := p.Year*12 + int(p.Month) - 1 + n
	return Period{Year: idx / 12, Month: time.Month(idx%12 + 1)}
}

// Start is the first instant of the month in loc.
func (p Period) Start(loc *time.Location) time.Time {
	return time.Date(p.Year, p.Month, 1, 0, 0, 0, 0, loc)
}

// End is the last instant of the month in loc.
func (p Period) End(loc *time.Location) time.Time {
	return p.Next().Start(loc).Add(-time.Nanosecond)
}

// Contains reports whether t falls inside the month (t is compared in its own location).
func (p Period) Contains(t time.Time) bool {
	return t.Year() == p.Year && t.Month() == p.Month
}

func (p Period) Before(o Period) bool {
	return p.index() < o.index()
}

func (p Period) After(o Period) bool {
	return p.index() > o.index()
}

// MonthsUntil returns how many months o is after p (negative when o is earlier).
func (p Period) MonthsUntil(o Period) int {
	return o.index() - p.index()
}

func (p Period) index() int {
	return p.Year*12 + int(p.Month) - 1
}

// MarshalText encodes the period as "YYYY-MM".
func (p Period) MarshalText() ([]byte, error) {
	return []byte(p.String()), nil
}

// UnmarshalText decodes "YYYY-MM".
func (p *Period) UnmarshalText(b []byte) error {
	parsed, err := Parse(string(b))
	if err != nil {
		return err
	}
	*p = parsed
	return nil
}
