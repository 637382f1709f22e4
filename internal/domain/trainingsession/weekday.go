package trainingsession

import (
	"strings"
	"time"
)

// Day of week constants
const (
	Monday    = "monday"
	Tuesday   = "tuesday"
	Wednesday = "wednesday"
	Thursday  = "thursday"
	Friday    = "friday"
	Saturday  = "saturday"
	Sunday    = "sunday"
)

// ValidWeekdays contains all valid weekday values, Monday first.
var ValidWeekdays = []string{Monday, Tuesday, Wednesday, Thursday, Friday, Saturday, Sunday}

// weekdayNames is indexed by time.Weekday (Sunday == 0).
var weekdayNames = [7]string{Sunday, Monday, Tuesday, Wednesday, Thursday, Friday, Saturday}

// WeekdayName returns the lower-case weekday name for wd.
func WeekdayName(wd time.Weekday) string {
	return weekdayNames[wd]
}

// IsValidWeekday reports whether day is one of ValidWeekdays.
func IsValidWeekday(day string) bool {
	for _, d := range ValidWeekdays {
		if d == day {
			return true
		}
	}
	return false
}

// weekdaySet normalizes names into a lookup set and reports the first unknown name.
func weekdaySet(days []string) (map[string]bool, string) {
	set := make(map[string]bool, len(days))
	for _, d := range days {
		name := strings.ToLower(strings.TrimSpace(d))
		if !IsValidWeekday(name) {
			return nil, d
		}
		set[name] = true
	}
	return set, ""
}
