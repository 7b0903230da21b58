package scheduling

import "time"

// WorkingDays returns every date in [start, end] whose weekday is not
// Saturday or Sunday, in ascending order.
func WorkingDays(start, end time.Time) []time.Time {
	start, end = Date(start), Date(end)
	var days []time.Time
	for d := start; !d.After(end); d = d.AddDate(0, 0, 1) {
		switch d.Weekday() {
		case time.Saturday, time.Sunday:
		default:
			days = append(days, d)
		}
	}
	return days
}

// endOfMonth returns the last day of t's month.
func endOfMonth(t time.Time) time.Time {
	return NewDate(t.Year(), t.Month(), 1).AddDate(0, 1, -1)
}
