package timeutil

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStartOfDay(t *testing.T) {
	ts := time.Date(2026, 8, 28, 17, 42, 13, 500, time.UTC)
	assert.Equal(t, time.Date(2026, 8, 28, 0, 0, 0, 0, time.UTC), StartOfDay(ts))
}

func TestEndOfDay(t *testing.T) {
	ts := time.Date(2026, 8, 28, 3, 0, 0, 0, time.UTC)
	end := EndOfDay(ts)

	assert.Equal(t, 23, end.Hour())
	assert.Equal(t, 59, end.Minute())
	assert.Equal(t, 59, end.Second())
	assert.Equal(t, 999_000_000, end.Nanosecond())
}

func TestStartOfDay_ConvertsToUTC(t *testing.T) {
	loc := time.FixedZone("UTC+5", 5*3600)
	// 02:30 local on Aug 29 is still Aug 28 in UTC.
	ts := time.Date(2026, 8, 29, 2, 30, 0, 0, loc)

	assert.Equal(t, time.Date(2026, 8, 28, 0, 0, 0, 0, time.UTC), StartOfDay(ts))
}

func TestStartOfWeek(t *testing.T) {
	tests := []struct {
		name string
		in   time.Time
		want time.Time
	}{
		{
			name: "wednesday maps to same week monday",
			in:   time.Date(2026, 8, 26, 12, 0, 0, 0, time.UTC),
			want: time.Date(2026, 8, 24, 0, 0, 0, 0, time.UTC),
		},
		{
			name: "monday maps to itself",
			in:   time.Date(2026, 8, 24, 0, 0, 0, 0, time.UTC),
			want: time.Date(2026, 8, 24, 0, 0, 0, 0, time.UTC),
		},
		{
			name: "sunday is day seven of the week",
			in:   time.Date(2026, 8, 30, 23, 59, 0, 0, time.UTC),
			want: time.Date(2026, 8, 24, 0, 0, 0, 0, time.UTC),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, StartOfWeek(tt.in))
		})
	}
}

func TestStartOfMonth(t *testing.T) {
	ts := time.Date(2026, 8, 28, 17, 0, 0, 0, time.UTC)
	assert.Equal(t, time.Date(2026, 8, 1, 0, 0, 0, 0, time.UTC), StartOfMonth(ts))
}

func TestIsSameDay(t *testing.T) {
	a := time.Date(2026, 8, 28, 0, 0, 0, 0, time.UTC)
	b := time.Date(2026, 8, 28, 23, 59, 59, 0, time.UTC)
	c := time.Date(2026, 8, 29, 0, 0, 0, 0, time.UTC)

	assert.True(t, IsSameDay(a, b))
	assert.False(t, IsSameDay(b, c))
}

func TestIsConsecutiveDay(t *testing.T) {
	d1 := time.Date(2026, 8, 28, 20, 0, 0, 0, time.UTC)
	d2 := time.Date(2026, 8, 29, 6, 0, 0, 0, time.UTC)
	d3 := time.Date(2026, 8, 30, 6, 0, 0, 0, time.UTC)

	assert.True(t, IsConsecutiveDay(d1, d2))
	assert.False(t, IsConsecutiveDay(d1, d3))
	assert.False(t, IsConsecutiveDay(d2, d1))
}

func TestDaysBetween(t *testing.T) {
	d1 := time.Date(2026, 8, 1, 23, 0, 0, 0, time.UTC)
	d2 := time.Date(2026, 8, 28, 1, 0, 0, 0, time.UTC)

	assert.Equal(t, 27, DaysBetween(d1, d2))
	assert.Equal(t, 27, DaysBetween(d2, d1))
	assert.Equal(t, 0, DaysBetween(d1, d1))
}

func TestParseDate(t *testing.T) {
	got, err := ParseDate("2026-08-28")
	require.NoError(t, err)
	assert.Equal(t, time.Date(2026, 8, 28, 0, 0, 0, 0, time.UTC), got)

	_, err = ParseDate("not-a-date")
	assert.Error(t, err)
}

func TestFormatDateStr(t *testing.T) {
	loc := time.FixedZone("UTC+5", 5*3600)
	ts := time.Date(2026, 8, 29, 2, 30, 0, 0, loc)

	assert.Equal(t, "2026-08-28", FormatDateStr(ts))
}
