package period

import "time"

// FiscalYearStartMonth is the first month of a fiscal year (April 1 - March 31).
const FiscalYearStartMonth = time.April

// Resolver derives the canonical periods relative to a wall clock.
//
// Payroll runs retrospectively: once a month closes it is processed, so the
// working period for payroll and reporting is always the one before Current.
type Resolver struct {
	now func() time.Time
	loc *time.Location
}

// NewResolver builds a resolver. A nil clock uses time.Now, a nil location UTC.
func NewResolver(now func() time.Time, loc *time.Location) *Resolver {
	if now == nil {
		now = time.Now
	}
	if loc == nil {
		loc = time.UTC
	}
	return &Resolver{now: now, loc: loc}
}

func (r *Resolver) Now() time.Time {
	return r.now().In(r.loc)
}

func (r *Resolver) Location() *time.Location {
	return r.loc
}

// Current is the wall-clock month.
func (r *Resolver) Current() Period {
	return Of(r.Now())
}

// Prior is the month payroll operates on.
func (r *Resolver) Prior() Period {
	return r.Current().Prev()
}

// Of returns the period containing t, evaluated in the resolver's location.
func (r *Resolver) Of(t time.Time) Period {
	return Of(t.In(r.loc))
}

// Target resolves a self-service lookup: the explicit period when given, otherwise Prior.
func (r *Resolver) Target(explicit *Period) Period {
	if explicit != nil && !explicit.IsZero() {
		return *explicit
	}
	return r.Prior()
}

// IsOpen reports whether p still accepts component postings. Only the
// current month is open; a month closes as soon as the next one begins.
func (r *Resolver) IsOpen(p Period) bool {
	return p == r.Current()
}

// Range is an inclusive time window.
type Range struct {
	Start time.Time
	End   time.Time
	loc   *time.Location
}

// FiscalYearRange maps (startYear, endYear) to [April 1 startYear, March 31 endYear].
func (r *Resolver) FiscalYearRange(startYear, endYear int) (Range, error) {
	return FiscalYearRange(startYear, endYear, r.loc)
}

// MaxFiscalYears bounds the number of fiscal years one range may cover.
const MaxFiscalYears = 10

// FiscalYearRange maps (startYear, endYear) to [April 1 startYear, March 31 endYear] in loc.
func FiscalYearRange(startYear, endYear int, loc *time.Location) (Range, error) {
	if startYear > endYear {
		return Range{}, ErrInvalidRange
	}
	if endYear-startYear > MaxFiscalYears {
		return Range{}, ErrRangeTooWide
	}
	if loc == nil {
		loc = time.UTC
	}
	first := Period{Year: startYear, Month: FiscalYearStartMonth}
	last := Period{Year: endYear, Month: FiscalYearStartMonth}.Prev()
	return Range{
		Start: first.Start(loc),
		End:   last.End(loc),
		loc:   loc,
	}, nil
}

// Periods lists the months covered by the range in order. An inverted range
// (same start and end fiscal year) covers nothing.
func (rg Range) Periods() []Period {
	if rg.End.Before(rg.Start) {
		return nil
	}
	first := Of(rg.Start)
	last := Of(rg.End)
	out := make([]Period, 0, first.MonthsUntil(last)+1)
	for p := first; !p.After(last); p = p.Next() {
		out = append(out, p)
	}
	return out
}

// Contains reports whether p lies fully inside the range.
func (rg Range) Contains(p Period) bool {
	loc := rg.loc
	if loc == nil {
		loc = time.UTC
	}
	return !p.Start(loc).Before(rg.Start) && !p.End(loc).After(rg.End)
}

// FiscalYearOf returns the year the fiscal year containing p started in.
func FiscalYearOf(p Period) int {
	if p.Month < FiscalYearStartMonth {
		return p.Year - 1
	}
	return p.Year
}
