package payout

import (
	"fmt"
	"time"
)

// Period is one calendar month in a fixed location
type Period struct {
	Year     int
	Month    time.Month
	Location *time.Location
}

// NewPeriod validates year and month. A nil location means UTC.
func NewPeriod(year, month int, loc *time.Location) (Period, error) {
	if year < 1970 || year > 9999 {
		return Period{}, &ConfigurationError{Field: "year", Err: fmt.Errorf("%w: year %d", ErrInvalidPeriod, year)}
	}
	if month < 1 || month > 12 {
		return Period{}, &ConfigurationError{Field: "month", Err: fmt.Errorf("%w: month %d", ErrInvalidPeriod, month)}
	}
	if loc == nil {
		loc = time.UTC
	}
	return Period{Year: year, Month: time.Month(month), Location: loc}, nil
}

func (p Period) location() *time.Location {
	if p.Location == nil {
		return time.UTC
	}
	return p.Location
}

// Start is midnight on the first day of the month
func (p Period) Start() time.Time {
	return time.Date(p.Year, p.Month, 1, 0, 0, 0, 0, p.location())
}

// End is the exclusive upper bound: midnight on the first day of the next month
func (p Period) End() time.Time {
	return p.Start().AddDate(0, 1, 0)
}

// LastDay returns the number of days in the month
func (p Period) LastDay() int {
	return p.End().AddDate(0, 0, -1).Day()
}

// Contains reports whether t lies in [Start, End)
func (p Period) Contains(t time.Time) bool {
	return !t.Before(p.Start()) && t.Before(p.End())
}

// CutoffForDay returns the last second of the given day of the month
func (p Period) CutoffForDay(day int) (time.Time, error) {
	if day < 1 || day > p.LastDay() {
		return time.Time{}, &ConfigurationError{
			Field: "cutoff_day",
			Err:   fmt.Errorf("%w: day %d not in 1..%d", ErrInvalidCutoffDay, day, p.LastDay()),
		}
	}
	return time.Date(p.Year, p.Month, day, 23, 59, 59, 0, p.location()), nil
}

// ValidateCutoff rejects a cutoff that would skip every payout or accept all of them
func (p Period) ValidateCutoff(cutoff time.Time) error {
	if cutoff.Before(p.Start()) || !cutoff.Before(p.End()) {
		return &ConfigurationError{
			Field: "cutoff",
			Err: fmt.Errorf("%w: %s not in [%s, %s)", ErrCutoffOutsidePeriod,
				cutoff.Format(time.RFC3339), p.Start().Format(time.RFC3339), p.End().Format(time.RFC3339)),
		}
	}
	return nil
}

// Key is the compact YYYYMM form used in generated payout ids
func (p Period) Key() string {
	return fmt.Sprintf("%04d%02d", p.Year, int(p.Month))
}

// String renders the period as "September 2025"
func (p Period) String() string {
	return fmt.Sprintf("%s %d", p.Month.String(), p.Year)
}
