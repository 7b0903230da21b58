package scheduling

import (
	"fmt"
	"sort"
	"time"

	"github.com/vkarpov/plantmind/internal/models"
)

// EntryView is one schedule entry prepared for calendar rendering, carrying
// its effective duration and the type's display metadata.
type EntryView struct {
	ID              uint     `json:"id"`
	Equipment       string   `json:"equipment"`
	Area            string   `json:"area"`
	Type            TypeInfo `json:"type"`
	ScheduledDate   string   `json:"scheduledDate"`
	DurationMinutes int      `json:"durationMinutes"`
	Completed       bool     `json:"completed"`
	CompletedDate   string   `json:"completedDate,omitempty"`
	Notes           string   `json:"notes,omitempty"`
}

// NewEntryView converts a persisted entry to its rendering form. The entry's
// DiagnosticType must be populated.
func NewEntryView(en models.ScheduleEntry) EntryView {
	view := EntryView{
		ID:        en.ID,
		Equipment: en.Equipment,
		Area:      en.Area,
		Type: TypeInfo{
			ID:              en.DiagnosticType.ID,
			Code:            en.DiagnosticType.Code,
			Name:            en.DiagnosticType.Name,
			DurationMinutes: en.DiagnosticType.DurationMinutes,
			ColorCode:       en.DiagnosticType.ColorCode,
		},
		ScheduledDate:   Date(en.ScheduledDate).Format("2006-01-02"),
		DurationMinutes: en.DurationMinutes,
		Completed:       en.Completed,
		Notes:           en.Notes,
	}
	if en.CompletedDate != nil {
		view.CompletedDate = Date(*en.CompletedDate).Format("2006-01-02")
	}
	return view
}

// MonthView groups one month's entries by equipment and by date. Every date
// of the month is present for every equipment, empty slices included, so a
// calendar grid can be rendered directly.
type MonthView struct {
	ScheduleID  uint                             `json:"scheduleId"`
	Year        int                              `json:"year"`
	Month       int                              `json:"month"`
	StartDate   string                           `json:"startDate"`
	EndDate     string                           `json:"endDate"`
	WorkingDays []string                         `json:"workingDays"`
	Equipment   map[string]map[string][]EntryView `json:"equipment"`
}

// MonthSchedule assembles the calendar view for one month of a schedule.
func (e *Engine) MonthSchedule(scheduleID uint, month int) (*MonthView, error) {
	if month < 1 || month > 12 {
		return nil, validationErrorf("month must be between 1 and 12, got %d", month)
	}
	schedule, err := e.schedules.FindByID(scheduleID)
	if err != nil {
		return nil, fmt.Errorf("scheduling: schedule %d: %w", scheduleID, err)
	}

	start := NewDate(schedule.Year, time.Month(month), 1)
	end := endOfMonth(start)

	entries, err := e.entries.ByScheduleDateRange(scheduleID, start, end)
	if err != nil {
		return nil, fmt.Errorf("scheduling: entries for %d-%02d: %w", schedule.Year, month, err)
	}

	equipmentSet := make(map[string]bool)
	for _, en := range entries {
		equipmentSet[en.Equipment] = true
	}
	names := make([]string, 0, len(equipmentSet))
	for name := range equipmentSet {
		names = append(names, name)
	}
	sort.Strings(names)

	grid := make(map[string]map[string][]EntryView, len(names))
	for _, name := range names {
		dates := make(map[string][]EntryView)
		for d := start; !d.After(end); d = d.AddDate(0, 0, 1) {
			dates[d.Format("2006-01-02")] = []EntryView{}
		}
		grid[name] = dates
	}

	for _, en := range entries {
		view := NewEntryView(en)
		grid[en.Equipment][view.ScheduledDate] = append(grid[en.Equipment][view.ScheduledDate], view)
	}

	workingDays := WorkingDays(start, end)
	wd := make([]string, len(workingDays))
	for i, d := range workingDays {
		wd[i] = d.Format("2006-01-02")
	}

	return &MonthView{
		ScheduleID:  schedule.ID,
		Year:        schedule.Year,
		Month:       month,
		StartDate:   start.Format("2006-01-02"),
		EndDate:     end.Format("2006-01-02"),
		WorkingDays: wd,
		Equipment:   grid,
	}, nil
}
