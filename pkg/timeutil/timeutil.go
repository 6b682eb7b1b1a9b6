// Package timeutil provides UTC calendar utilities for QuizHive Rankings.
// All ranking windows are computed in UTC to avoid DST ambiguity: the user
// base spans timezones, and UTC is the only boundary that is stable and
// reproducible across them. Handles day/week/month bounds and date math.
// No external dependencies - uses only standard library.
package timeutil

import (
	"time"
)

// Now returns the current time in UTC.
func Now() time.Time {
	return time.Now().UTC()
}

// ToUTC converts a time to UTC.
func ToUTC(t time.Time) time.Time {
	return t.UTC()
}

// Date creates a UTC time with the given date at midnight.
func Date(year, month, day int) time.Time {
	return time.Date(year, time.Month(month), day, 0, 0, 0, 0, time.UTC)
}

// DateTime creates a UTC time with the given date and time.
func DateTime(year, month, day, hour, min, sec int) time.Time {
	return time.Date(year, time.Month(month), day, hour, min, sec, 0, time.UTC)
}

// StartOfDay returns the start of the day (00:00:00.000) in UTC.
func StartOfDay(t time.Time) time.Time {
	utc := t.UTC()
	return time.Date(utc.Year(), utc.Month(), utc.Day(), 0, 0, 0, 0, time.UTC)
}

// EndOfDay returns the end of the day (23:59:59.999) in UTC.
// Millisecond precision matches the resolution of the attempt log timestamps.
func EndOfDay(t time.Time) time.Time {
	utc := t.UTC()
	return time.Date(utc.Year(), utc.Month(), utc.Day(), 23, 59, 59, 999*int(time.Millisecond), time.UTC)
}

// StartOfWeek returns the start of the ISO week (Monday 00:00:00) in UTC.
func StartOfWeek(t time.Time) time.Time {
	utc := t.UTC()
	weekday := int(utc.Weekday())
	if weekday == 0 {
		weekday = 7 // Sunday counts as day 7, not day 1
	}
	daysBack := weekday - 1 // Monday = 1
	monday := utc.AddDate(0, 0, -daysBack)
	return time.Date(monday.Year(), monday.Month(), monday.Day(), 0, 0, 0, 0, time.UTC)
}

// StartOfMonth returns the 1st of the month at 00:00:00 in UTC.
func StartOfMonth(t time.Time) time.Time {
	utc := t.UTC()
	return time.Date(utc.Year(), utc.Month(), 1, 0, 0, 0, 0, time.UTC)
}

// IsToday returns true if the time falls on the current UTC day.
func IsToday(t time.Time) bool {
	return IsSameDay(t, Now())
}

// IsYesterday returns true if the time falls on the previous UTC day.
func IsYesterday(t time.Time) bool {
	return IsSameDay(t, Now().AddDate(0, 0, -1))
}

// IsSameDay returns true if two times fall on the same UTC calendar day.
func IsSameDay(t1, t2 time.Time) bool {
	u1, u2 := t1.UTC(), t2.UTC()
	return u1.Year() == u2.Year() && u1.Month() == u2.Month() && u1.Day() == u2.Day()
}

// IsConsecutiveDay returns true if t2 is exactly one calendar day after t1.
func IsConsecutiveDay(t1, t2 time.Time) bool {
	return IsSameDay(t1.AddDate(0, 0, 1), t2)
}

// DaysBetween returns the number of whole calendar days between two times.
// The result is non-negative regardless of argument order.
func DaysBetween(t1, t2 time.Time) int {
	d1 := StartOfDay(t1)
	d2 := StartOfDay(t2)
	if d1.After(d2) {
		d1, d2 = d2, d1
	}
	return int(d2.Sub(d1).Hours() / 24)
}

// DaysSince returns the number of whole calendar days since the given time.
func DaysSince(t time.Time) int {
	return DaysBetween(t, Now())
}

// FormatDateStr formats a time as "2006-01-02" in UTC.
func FormatDateStr(t time.Time) string {
	return t.UTC().Format("2006-01-02")
}

// FormatDateTimeStr formats a time as "2006-01-02 15:04:05" in UTC.
func FormatDateTimeStr(t time.Time) string {
	return t.UTC().Format("2006-01-02 15:04:05")
}

// ParseDate parses a "2006-01-02" date string as UTC.
func ParseDate(value string) (time.Time, error) {
	return time.ParseInLocation("2006-01-02", value, time.UTC)
}
