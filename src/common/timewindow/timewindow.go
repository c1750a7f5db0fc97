// Package timewindow classifies UTC departure timestamps against the
// tracked Italian local-time windows, compensating for the European
// summer/winter clock change without a timezone database.
package timewindow

import "time"

type Direction int

const (
	Outbound Direction = iota
	Return
)

func (d Direction) String() string {
	if d == Return {
		return "return"
	}
	return "outbound"
}

// IsSummerTime reports whether t falls inside European summer time:
// from 01:00 UTC on the last Sunday of March (inclusive) to 01:00 UTC on
// the last Sunday of October (exclusive) of t's UTC year.
func IsSummerTime(t time.Time) bool {
	u := t.UTC()
	dstStart := lastSundayAtOne(u.Year(), time.March)
	dstEnd := lastSundayAtOne(u.Year(), time.October)
	return !u.Before(dstStart) && u.Before(dstEnd)
}

// lastSundayAtOne returns 01:00 UTC on the last Sunday of the month: the
// month's last day minus its weekday offset from Sunday.
func lastSundayAtOne(year int, month time.Month) time.Time {
	lastDay := time.Date(year, month+1, 0, 0, 0, 0, 0, time.UTC)
	return time.Date(year, month, lastDay.Day()-int(lastDay.Weekday()), 1, 0, 0, 0, time.UTC)
}

// Matcher decides whether a UTC departure falls in the tracked window for
// a direction. The zero tolerance matcher is exact: outbound matches only
// 07:00 local, return matches only 16:55, 17:00 and 17:05 local.
type Matcher struct {
	tolerance time.Duration
}

func NewMatcher() *Matcher {
	return &Matcher{}
}

// NewTolerantMatcher accepts any departure within tolerance of the target
// local hour (07:00 outbound, 17:00 return).
//
// Deprecated: the tolerant band over-matched adjacent departures and has
// been superseded by the exact matcher. Kept for comparison runs only.
func NewTolerantMatcher(tolerance time.Duration) *Matcher {
	return &Matcher{tolerance: tolerance}
}

func (m *Matcher) Matches(dir Direction, departure time.Time) bool {
	if m.tolerance > 0 {
		return m.matchesTolerant(dir, departure)
	}
	if dir == Return {
		return MatchesReturn(departure)
	}
	return MatchesOutbound(departure)
}

// MatchesOutbound reports whether departure is exactly 07:00 local:
// 05:00 UTC in summer, 06:00 UTC in winter.
func MatchesOutbound(departure time.Time) bool {
	u := departure.UTC()
	if u.Minute() != 0 {
		return false
	}
	if IsSummerTime(u) {
		return u.Hour() == 5
	}
	return u.Hour() == 6
}

// MatchesReturn reports whether departure is exactly 16:55, 17:00 or
// 17:05 local: {14:55, 15:00, 15:05} UTC in summer, {15:55, 16:00, 16:05}
// UTC in winter.
func MatchesReturn(departure time.Time) bool {
	u := departure.UTC()
	hour, minute := u.Hour(), u.Minute()
	if IsSummerTime(u) {
		return (hour == 14 && minute == 55) || (hour == 15 && (minute == 0 || minute == 5))
	}
	return (hour == 15 && minute == 55) || (hour == 16 && (minute == 0 || minute == 5))
}

func (m *Matcher) matchesTolerant(dir Direction, departure time.Time) bool {
	u := departure.UTC()

	// local offset from UTC in hours
	offset := 1
	if IsSummerTime(u) {
		offset = 2
	}

	localMinutes := (u.Hour()+offset)*60 + u.Minute()

	target := 7 * 60
	if dir == Return {
		target = 17 * 60
	}

	diff := localMinutes - target
	if diff < 0 {
		diff = -diff
	}
	return diff <= int(m.tolerance.Minutes())
}
