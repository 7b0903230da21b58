package scheduling

import (
	"fmt"
	"strings"
	"time"

	"github.com/vkarpov/plantmind/internal/models"
)

// defectNote is prepended to an entry's notes when a defect is reported.
const defectNote = "Defect found"

// RelocateResult reports the outcome of moving an entry to a new date.
// Conflicts are a normal outcome, not an error: callers are expected to
// retry with a different date.
type RelocateResult struct {
	Success bool
	Message string
	Entry   *models.ScheduleEntry
}

// RelocateEntry moves one entry to newDate after validating that the date is
// inside the schedule's year, that the equipment is free that day, and that
// the day's capacity still holds with the entry counted on its new date.
func (e *Engine) RelocateEntry(entryID uint, newDate time.Time) (RelocateResult, error) {
	entry, err := e.entries.ByID(entryID)
	if err != nil {
		return RelocateResult{}, fmt.Errorf("scheduling: entry %d: %w", entryID, err)
	}
	schedule, err := e.schedules.FindByID(entry.ScheduleID)
	if err != nil {
		return RelocateResult{}, fmt.Errorf("scheduling: schedule %d: %w", entry.ScheduleID, err)
	}

	newDate = Date(newDate)
	if newDate.Year() != schedule.Year {
		return RelocateResult{
			Message: fmt.Sprintf("date %s is outside the schedule year %d",
				newDate.Format("2006-01-02"), schedule.Year),
			Entry: entry,
		}, nil
	}

	onDate, err := e.entries.ByScheduleDate(schedule.ID, newDate)
	if err != nil {
		return RelocateResult{}, fmt.Errorf("scheduling: entries on %s: %w", newDate.Format("2006-01-02"), err)
	}

	durations := make(map[int]int)
	otherMinutes := 0
	for _, other := range onDate {
		if other.ID == entry.ID {
			continue
		}
		if other.Equipment == entry.Equipment {
			return RelocateResult{
				Message: fmt.Sprintf("equipment %q already has a diagnostic on %s",
					entry.Equipment, newDate.Format("2006-01-02")),
				Entry: entry,
			}, nil
		}
		durations[other.DurationMinutes]++
		otherMinutes += other.DurationMinutes
	}
	durations[entry.DurationMinutes]++

	shiftMinutes := schedule.ShiftDurationHours * 60
	if !CanExecuteInParallel(durations, schedule.WorkersCount, shiftMinutes) {
		available := schedule.WorkersCount*shiftMinutes - otherMinutes
		return RelocateResult{
			Message: fmt.Sprintf(
				"not enough free time on %s: required %d min, available %d min (workers: %d, shift: %d h)",
				newDate.Format("2006-01-02"), entry.DurationMinutes, available,
				schedule.WorkersCount, schedule.ShiftDurationHours),
			Entry: entry,
		}, nil
	}

	entry.ScheduledDate = newDate
	if err := e.entries.Save(entry); err != nil {
		return RelocateResult{}, fmt.Errorf("scheduling: save entry %d: %w", entryID, err)
	}
	return RelocateResult{Success: true, Message: "date updated", Entry: entry}, nil
}

// SetEntryStatus marks an entry complete or incomplete. Completion stamps
// the completion date; clearing it removes the date. A reported defect is
// recorded once at the head of the entry's notes. The scheduled date is
// never touched.
func (e *Engine) SetEntryStatus(entryID uint, completed, defectFound bool) (*models.ScheduleEntry, error) {
	entry, err := e.entries.ByID(entryID)
	if err != nil {
		return nil, fmt.Errorf("scheduling: entry %d: %w", entryID, err)
	}

	entry.Completed = completed
	if completed {
		today := Date(e.now())
		entry.CompletedDate = &today
		if defectFound && !strings.Contains(entry.Notes, defectNote) {
			if entry.Notes == "" {
				entry.Notes = defectNote
			} else {
				entry.Notes = defectNote + ". " + entry.Notes
			}
		}
	} else {
		entry.CompletedDate = nil
	}

	if err := e.entries.Save(entry); err != nil {
		return nil, fmt.Errorf("scheduling: save entry %d: %w", entryID, err)
	}
	return entry, nil
}
