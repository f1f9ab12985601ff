package models

import (
	"time"

	"gorm.io/datatypes"
)

// DateOf returns the calendar date of t, as seen in t's own location,
// normalized to UTC midnight so every stored date compares equal.
func DateOf(t time.Time) datatypes.Date {
	y, m, d := t.Date()
	return datatypes.Date(time.Date(y, m, d, 0, 0, 0, 0, time.UTC))
}

// ClockOf returns the wall-clock time of day of t.
func ClockOf(t time.Time) datatypes.Time {
	h, m, s := t.Clock()
	return datatypes.NewTime(h, m, s, 0)
}

// Combine places a wall-clock time on a calendar date in loc.
func Combine(date datatypes.Date, clock datatypes.Time, loc *time.Location) time.Time {
	y, m, d := time.Time(date).Date()
	offset := time.Duration(clock)
	h := int(offset / time.Hour)
	offset -= time.Duration(h) * time.Hour
	mi := int(offset / time.Minute)
	offset -= time.Duration(mi) * time.Minute
	s := int(offset / time.Second)
	return time.Date(y, m, d, h, mi, s, 0, loc)
}

// SameDate compares the calendar part of two dates.
func SameDate(a, b datatypes.Date) bool {
	ay, am, ad := time.Time(a).Date()
	by, bm, bd := time.Time(b).Date()
	return ay == by && am == bm && ad == bd
}

// DateBefore reports whether a falls on an earlier calendar day than b.
func DateBefore(a, b datatypes.Date) bool {
	return time.Time(DateOf(time.Time(a))).Before(time.Time(DateOf(time.Time(b))))
}

// FormatDate renders a date as YYYY-MM-DD.
func FormatDate(d datatypes.Date) string {
	return time.Time(d).Format("2006-01-02")
}

// Weekday maps a date onto 0 (Monday) through 6 (Sunday).
func Weekday(d datatypes.Date) int {
	return (int(time.Time(d).Weekday()) + 6) % 7
}
