package record

import "time"

// DateLayout is the textual form of a record date, on screen and on disk.
const DateLayout = "2006-01-02"

// Day strips the clock part of t and returns midnight UTC of the same calendar day.
func Day(t time.Time) time.Time {
	if t.IsZero() {
		return t
	}
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// Date builds a calendar date.
func Date(year int, month time.Month, day int) time.Time {
	return time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
}

// ParseDate parses a YYYY-MM-DD date.
func ParseDate(s string) (time.Time, error) {
	return time.Parse(DateLayout, s)
}

func FormatDate(t time.Time) string {
	return t.Format(DateLayout)
}
