package pricing

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestParseISO(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    CalendarDate
		wantErr bool
	}{
		{name: "valid", input: "2024-03-15", want: CalendarDate{Year: 2024, Month: 3, Day: 15}},
		{name: "single digit padded", input: "2024-01-05", want: CalendarDate{Year: 2024, Month: 1, Day: 5}},
		{name: "not a date", input: "yesterday", wantErr: true},
		{name: "wrong separator", input: "2024/03/15", wantErr: true},
		{name: "month out of range", input: "2024-13-01", wantErr: true},
		{name: "empty", input: "", wantErr: true},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got, err := ParseISO(tc.input)
			if tc.wantErr {
				require.ErrorIs(t, err, ErrInvalidDate)
				return
			}
			require.NoError(t, err)
			require.Equal(t, tc.want, got)
		})
	}
}

func TestCalendarDateBefore(t *testing.T) {
	a := CalendarDate{Year: 2024, Month: 1, Day: 10}
	b := CalendarDate{Year: 2024, Month: 2, Day: 5}
	c := CalendarDate{Year: 2024, Month: 3, Day: 1}

	require.True(t, a.Before(b))
	require.True(t, b.Before(c))
	require.False(t, c.Before(a))
	require.False(t, a.Before(a))

	// A later id-like day in an earlier year still orders first.
	require.True(t, CalendarDate{Year: 2023, Month: 12, Day: 31}.Before(a))
}

func TestSpanContains_ComponentWise(t *testing.T) {
	start := CalendarDate{Year: 2024, Month: 3, Day: 15}
	span := Span{Start: &start}

	// Every component clears its bound.
	require.True(t, span.Contains(CalendarDate{Year: 2024, Month: 3, Day: 15}))
	require.True(t, span.Contains(CalendarDate{Year: 2024, Month: 4, Day: 20}))
	require.True(t, span.Contains(CalendarDate{Year: 2025, Month: 3, Day: 16}))

	// Chronologically after the start but month or day below its own
	// bound; the component-wise filter excludes these.
	require.False(t, span.Contains(CalendarDate{Year: 2024, Month: 4, Day: 1}))
	require.False(t, span.Contains(CalendarDate{Year: 2025, Month: 1, Day: 20}))

	end := CalendarDate{Year: 2024, Month: 6, Day: 10}
	bounded := Span{Start: &start, End: &end}
	require.True(t, bounded.Contains(CalendarDate{Year: 2024, Month: 5, Day: 20}) == false) // day 20 > end day 10
	require.True(t, bounded.Contains(CalendarDate{Year: 2024, Month: 4, Day: 18}) == false)
	require.True(t, bounded.Contains(CalendarDate{Year: 2024, Month: 5, Day: 10}))
}

func TestParseSpan(t *testing.T) {
	span, err := ParseSpan("", "")
	require.NoError(t, err)
	require.Nil(t, span.Start)
	require.Nil(t, span.End)
	require.True(t, span.Contains(CalendarDate{Year: 2024, Month: 1, Day: 1}))

	span, err = ParseSpan("2024-01-01", "2024-12-31")
	require.NoError(t, err)
	require.Equal(t, CalendarDate{Year: 2024, Month: 1, Day: 1}, *span.Start)
	require.Equal(t, CalendarDate{Year: 2024, Month: 12, Day: 31}, *span.End)

	_, err = ParseSpan("01/01/2024", "")
	require.ErrorIs(t, err, ErrInvalidDate)

	_, err = ParseSpan("2024-01-01", "soon")
	require.ErrorIs(t, err, ErrInvalidDate)
}

func TestTrendWindow(t *testing.T) {
	now := time.Date(2024, 6, 15, 10, 30, 0, 0, time.UTC)

	span := TrendWindow(now, 10)
	require.Equal(t, CalendarDate{Year: 2024, Month: 6, Day: 5}, *span.Start)
	require.Equal(t, CalendarDate{Year: 2024, Month: 6, Day: 15}, *span.End)

	// Zero and negative fall back to the 30-day default.
	span = TrendWindow(now, 0)
	require.Equal(t, CalendarDate{Year: 2024, Month: 5, Day: 16}, *span.Start)

	span = TrendWindow(now, -5)
	require.Equal(t, CalendarDate{Year: 2024, Month: 5, Day: 16}, *span.Start)
}
