package service

import "time"

// Week arithmetic for the selection engine. Weeks run Monday 00:00:00 through
// Sunday 23:59:59.999 in the caller's location; a Sunday timestamp belongs to
// the week that started six days earlier. All functions are pure; callers
// persist their own week markers.

// CurrentWeekStart returns the most recent Monday at midnight for now.
func CurrentWeekStart(now time.Time) time.Time {
	offset := int(now.Weekday()) - int(time.Monday)
	if offset < 0 {
		offset = 6
	}
	y, m, d := now.AddDate(0, 0, -offset).Date()
	return time.Date(y, m, d, 0, 0, 0, 0, now.Location())
}

// WeekEnd returns the inclusive end of the week starting at weekStart.
func WeekEnd(weekStart time.Time) time.Time {
	y, m, d := weekStart.AddDate(0, 0, 6).Date()
	return time.Date(y, m, d, 23, 59, 59, int(999*time.Millisecond), weekStart.Location())
}

// IsNewWeek reports whether now falls in a later week than the stored marker.
// A missing marker always counts as a new week.
func IsNewWeek(lastWeekStart *time.Time, now time.Time) bool {
	if lastWeekStart == nil {
		return true
	}
	current := CurrentWeekStart(now)
	ly, lm, ld := lastWeekStart.Date()
	cy, cm, cd := current.Date()
	return ly != cy || lm != cm || ld != cd
}
