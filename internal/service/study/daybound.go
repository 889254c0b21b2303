package study

import "time"

// DayStart returns the start of the current day in the given timezone,
// converted to UTC.
func DayStart(now time.Time, tz *time.Location) time.Time {
	local := now.In(tz)
	dayStart := time.Date(local.Year(), local.Month(), local.Day(), 0, 0, 0, 0, tz)
	return dayStart.UTC()
}

// NextDayStart returns the start of the next day in the given timezone,
// converted to UTC. Cards due strictly before this instant are due "today";
// it is the exclusive end-of-day bound for the learning cohort and for
// same-session re-insertion.
func NextDayStart(now time.Time, tz *time.Location) time.Time {
	dayStart := DayStart(now, tz)
	// AddDate handles DST correctly, Add(24h) does not.
	next := dayStart.In(tz).AddDate(0, 0, 1)
	return time.Date(next.Year(), next.Month(), next.Day(), 0, 0, 0, 0, tz).UTC()
}

// ParseTimezone parses a timezone string, returning UTC as fallback.
func ParseTimezone(tz string) *time.Location {
	loc, err := time.LoadLocation(tz)
	if err != nil {
		return time.UTC
	}
	return loc
}
