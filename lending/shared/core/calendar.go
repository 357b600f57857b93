package core

import (
	"time"
)

const day = 24 * time.Hour

// Days converts a number of days to a duration of strict 24-hour days.
func Days(n int) time.Duration {
	return time.Duration(n) * day
}

// SameLocalDay reports whether t falls on the calendar day of now, in now's location.
func SameLocalDay(t time.Time, now time.Time) bool {
	ty, tm, td := t.In(now.Location()).Date()
	ny, nm, nd := now.Date()

	return ty == ny && tm == nm && td == nd
}

// MonthsBefore subtracts calendar months from now. The day is clamped to the last day of the
// target month, so Mar 31 minus one month is Feb 28 (or 29).
func MonthsBefore(now time.Time, months int) time.Time {
	y, m, d := now.Date()
	h, mi, s := now.Clock()

	firstOfTarget := time.Date(y, m-time.Month(months), 1, h, mi, s, now.Nanosecond(), now.Location())
	lastDay := daysIn(firstOfTarget.Year(), firstOfTarget.Month(), now.Location())

	return time.Date(firstOfTarget.Year(), firstOfTarget.Month(), min(d, lastDay), h, mi, s, now.Nanosecond(), now.Location())
}

func daysIn(year int, month time.Month, loc *time.Location) int {
	return time.Date(year, month+1, 0, 0, 0, 0, 0, loc).Day()
}
