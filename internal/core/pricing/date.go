package pricing

import (
	"errors"
	"fmt"
	"time"
)

// ErrInvalidDate marks malformed calendar-date input that should return
// HTTP 400. Raised before any store access.
var ErrInvalidDate = errors.New("invalid date")

const isoDateLayout = "2006-01-02"

// CalendarDate is a calendar day broken into its components.
// Ordering is lexicographic on (Year, Month, Day); DateRecord ids carry no
// chronological meaning and must never be used for ordering.
type CalendarDate struct {
	Year  int
	Month int
	Day   int
}

// ParseISO parses a "YYYY-MM-DD" string into a CalendarDate.
// Any failure wraps ErrInvalidDate with the offending value.
func ParseISO(s string) (CalendarDate, error) {
	t, err := time.Parse(isoDateLayout, s)
	if err != nil {
		return CalendarDate{}, fmt.Errorf("%w: %q must match YYYY-MM-DD", ErrInvalidDate, s)
	}
	return CalendarDate{Year: t.Year(), Month: int(t.Month()), Day: t.Day()}, nil
}

// FromTime converts a timestamp to its calendar day.
func FromTime(t time.Time) CalendarDate {
	return CalendarDate{Year: t.Year(), Month: int(t.Month()), Day: t.Day()}
}

// Before reports whether d orders strictly before other on (year, month, day).
func (d CalendarDate) Before(other CalendarDate) bool {
	if d.Year != other.Year {
		return d.Year < other.Year
	}
	if d.Month != other.Month {
		return d.Month < other.Month
	}
	return d.Day < other.Day
}

func (d CalendarDate) String() string {
	return fmt.Sprintf("%04d-%02d-%02d", d.Year, d.Month, d.Day)
}

// Span bounds a query by optional start and end calendar dates.
//
// Matching is component-wise: year, month and day are each bounded
// independently rather than compared as whole dates, so a span starting
// 2024-03-15 admits 2024-01-20 only if every component clears its own
// bound (here it does not: month 1 < 3). This mirrors the filtering the
// SQL layer applies and is imprecise across month and year boundaries.
type Span struct {
	Start *CalendarDate
	End   *CalendarDate
}

// ParseSpan parses optional ISO start/end strings into a Span.
// Empty strings mean "unbounded" on that side.
func ParseSpan(start, end string) (Span, error) {
	var span Span
	if start != "" {
		d, err := ParseISO(start)
		if err != nil {
			return Span{}, err
		}
		span.Start = &d
	}
	if end != "" {
		d, err := ParseISO(end)
		if err != nil {
			return Span{}, err
		}
		span.End = &d
	}
	return span, nil
}

// Contains reports whether a date falls inside the span under the
// component-wise semantics described on Span.
func (s Span) Contains(d CalendarDate) bool {
	if s.Start != nil {
		if d.Year < s.Start.Year || d.Month < s.Start.Month || d.Day < s.Start.Day {
			return false
		}
	}
	if s.End != nil {
		if d.Year > s.End.Year || d.Month > s.End.Month || d.Day > s.End.Day {
			return false
		}
	}
	return true
}

// TrendWindow returns the closed lookback span [now − days, now] used by
// trend analysis. days <= 0 falls back to the 30-day default.
func TrendWindow(now time.Time, days int) Span {
	if days <= 0 {
		days = 30
	}
	end := FromTime(now)
	start := FromTime(now.AddDate(0, 0, -days))
	return Span{Start: &start, End: &end}
}
