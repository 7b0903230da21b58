package scheduling

import (
	"math"
	"time"
)

// Recurrence period bounds, in months.
const (
	MinPeriodMonths = 0.5
	MaxPeriodMonths = 12
)

// IdealDates computes target dates for count occurrences of one diagnostic
// on one piece of equipment, spread across the year's period windows and
// across peer equipment needing the same diagnostic type.
//
// Starting at start, successive windows open every ceil(periodMonths) months
// until a window would start past December 31. Each window is clipped to the
// year and, when it would span past its starting month, to that month alone,
// so longer periods get a single placement near each period start. Within
// the window's working days the date at position
// round(rank/(peerCount-1)×(days-1)) is chosen — the midpoint when there is
// only one peer — so same-type tasks on different equipment land on
// different days. Occurrences are dealt to windows evenly; windows with no
// working days drop their occurrences silently.
//
// The result is ascending and deterministic for identical inputs.
func IdealDates(year int, periodMonths float64, count int, start time.Time, rank, peerCount int) ([]time.Time, error) {
	if periodMonths < MinPeriodMonths || periodMonths > MaxPeriodMonths {
		return nil, validationErrorf("diagnostic period must be between %v and %v months, got %v",
			MinPeriodMonths, MaxPeriodMonths, periodMonths)
	}
	if count <= 0 {
		return nil, nil
	}

	start = Date(start)
	yearEnd := NewDate(year, time.December, 31)
	stepMonths := int(math.Ceil(periodMonths))

	var windowStarts []time.Time
	for ws := start; !ws.After(yearEnd); ws = ws.AddDate(0, stepMonths, 0) {
		windowStarts = append(windowStarts, ws)
	}
	if len(windowStarts) == 0 {
		return nil, nil
	}

	dates := make([]time.Time, 0, count)
	for i, ws := range windowStarts {
		we := ws.AddDate(0, stepMonths, -1)
		if we.After(yearEnd) {
			we = yearEnd
		}
		if we.Year() != ws.Year() || we.Month() != ws.Month() {
			we = endOfMonth(ws)
		}

		days := WorkingDays(ws, we)
		if len(days) == 0 {
			continue
		}

		var pos int
		if peerCount <= 1 {
			pos = len(days) / 2
		} else {
			pos = int(math.Round(float64(rank) / float64(peerCount-1) * float64(len(days)-1)))
		}
		if pos < 0 {
			pos = 0
		}
		if pos >= len(days) {
			pos = len(days) - 1
		}

		for k := 0; k < occurrencesInWindow(count, len(windowStarts), i); k++ {
			dates = append(dates, days[pos])
		}
	}
	return dates, nil
}

// occurrencesInWindow deals count occurrences across numWindows windows as
// evenly as possible, earlier windows taking the remainder.
func occurrencesInWindow(count, numWindows, window int) int {
	base := count / numWindows
	if window < count%numWindows {
		return base + 1
	}
	return base
}

// OccurrencesPerYear converts a recurrence period into the number of
// occurrences in one year: round(12 / periodMonths).
func OccurrencesPerYear(periodMonths float64) int {
	return int(math.Round(12.0 / periodMonths))
}
