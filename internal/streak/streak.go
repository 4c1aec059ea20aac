// Package streak counts consecutive calendar days of activity.
//
// Entries are grouped by calendar day in the caller's location before any
// counting, so several entries on one day count as a single streak day.
package streak

import (
	"sort"
	"time"
)

// Day truncates t to midnight in loc
func Day(t time.Time, loc *time.Location) time.Time {
	if loc == nil {
		loc = time.Local
	}
	t = t.In(loc)
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, loc)
}

// Days returns the distinct calendar days in dates, most recent first
func Days(dates []time.Time, loc *time.Location) []time.Time {
	seen := make(map[time.Time]struct{}, len(dates))
	days := make([]time.Time, 0, len(dates))
	for _, d := range dates {
		day := Day(d, loc)
		if _, ok := seen[day]; ok {
			continue
		}
		seen[day] = struct{}{}
		days = append(days, day)
	}
	sort.Slice(days, func(i, j int) bool { return days[i].After(days[j]) })
	return days
}

// Current returns the number of consecutive days ending today that have at
// least one entry. Days after today are ignored.
func Current(dates []time.Time, now time.Time, loc *time.Location) int {
	today := Day(now, loc)
	streak := 0
	for _, day := range Days(dates, loc) {
		if day.After(today) {
			continue
		}
		if daysBetween(day, today) != streak {
			break
		}
		streak++
	}
	return streak
}

// Longest returns the longest run of consecutive days in dates
func Longest(dates []time.Time, loc *time.Location) int {
	days := Days(dates, loc)
	best, run := 0, 0
	for i, day := range days {
		if i > 0 && daysBetween(day, days[i-1]) == 1 {
			run++
		} else {
			run = 1
		}
		if run > best {
			best = run
		}
	}
	return best
}

// daysBetween counts calendar days from a to b. Both must be midnights in
// the same location; the date arithmetic keeps DST days at length one.
func daysBetween(a, b time.Time) int {
	ua := time.Date(a.Year(), a.Month(), a.Day(), 0, 0, 0, 0, time.UTC)
	ub := time.Date(b.Year(), b.Month(), b.Day(), 0, 0, 0, 0, time.UTC)
	return int(ub.Sub(ua).Hours() / 24)
}
