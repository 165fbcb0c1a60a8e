package analytics

import "time"

// dayKey returns the UTC calendar-day key for a timestamp.
func dayKey(t time.Time) string {
	return t.UTC().Format("2006-01-02")
}

// dateOnly truncates a timestamp to UTC midnight.
func dateOnly(t time.Time) time.Time {
	u := t.UTC()
	return time.Date(u.Year(), u.Month(), u.Day(), 0, 0, 0, 0, time.UTC)
}

// daysBetween returns the whole calendar days from a to b (b >= a).
func daysBetween(a, b time.Time) int {
	return int(dateOnly(b).Sub(dateOnly(a)) / (24 * time.Hour))
}
