// Package timeutil owns the reporting period arithmetic. The live "this
// week" window is Monday-anchored while the emailed report window ends on
// the most recently completed Sunday; the two are intentionally different
// conventions and must not be unified.
package timeutil

import "time"

// DayRange returns local midnight through the next local midnight
// (end exclusive) for the day containing now.
func DayRange(now time.Time, loc *time.Location) (start, end time.Time) {
	n := now.In(loc)
	start = time.Date(n.Year(), n.Month(), n.Day(), 0, 0, 0, 0, loc)
	end = start.AddDate(0, 0, 1)
	return start, end
}

// WeekRange returns the ISO week containing now: Monday 00:00:00 local
// through the following Monday 00:00:00 (end exclusive).
func WeekRange(now time.Time, loc *time.Location) (start, end time.Time) {
	n := now.In(loc)
	daysSinceMonday := (int(n.Weekday()) + 6) % 7
	monday := n.AddDate(0, 0, -daysSinceMonday)
	start = time.Date(monday.Year(), monday.Month(), monday.Day(), 0, 0, 0, 0, loc)
	end = start.AddDate(0, 0, 7)
	return start, end
}

// ReportPeriod returns the emailed-report window: it ends at the most
// recently completed Sunday 23:59:59.999999999 local and spans backward
// 7*weeks days. A Sunday "now" uses the previous Sunday, since the current
// one is not yet complete.
func ReportPeriod(now time.Time, weeks int, loc *time.Location) (start, end time.Time) {
	if weeks < 1 {
		weeks = 1
	}
	n := now.In(loc)
	daysBack := int(n.Weekday())
	if daysBack == 0 {
		daysBack = 7
	}
	sunday := n.AddDate(0, 0, -daysBack)
	nextMidnight := time.Date(sunday.Year(), sunday.Month(), sunday.Day(), 0, 0, 0, 0, loc).AddDate(0, 0, 1)
	end = nextMidnight.Add(-time.Nanosecond)
	start = nextMidnight.AddDate(0, 0, -7*weeks)
	return start, end
}

// FormatClock renders a timestamp as e.g. "9:05 AM" in the given zone.
func FormatClock(t time.Time, loc *time.Location) string {
	return t.In(loc).Format("3:04 PM")
}
