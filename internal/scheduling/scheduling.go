// Package scheduling implements the diagnostics scheduling engine: it expands
// equipment inspection requests into dated schedule entries spread evenly
// across a calendar year, bounded by workforce capacity and one-task-per-
// equipment-per-day exclusivity.
package scheduling

import (
	"errors"
	"time"

	"github.com/vkarpov/plantmind/internal/models"
)

// ErrNotFound is returned (wrapped) by stores when a schedule or entry does
// not exist.
var ErrNotFound = errors.New("not found")

// ScheduleStore persists yearly schedules.
type ScheduleStore interface {
	// FindByYear returns the schedule for a year, or an error satisfying
	// errors.Is(err, ErrNotFound).
	FindByYear(year int) (*models.Schedule, error)
	FindByID(id uint) (*models.Schedule, error)
	Create(s *models.Schedule) error
	// Delete removes the schedule and all of its entries.
	Delete(s *models.Schedule) error
}

// EntryStore persists schedule entries. Implementations must populate each
// entry's DiagnosticType on reads.
type EntryStore interface {
	BySchedule(scheduleID uint) ([]models.ScheduleEntry, error)
	ByScheduleDateRange(scheduleID uint, start, end time.Time) ([]models.ScheduleEntry, error)
	ByScheduleDate(scheduleID uint, date time.Time) ([]models.ScheduleEntry, error)
	ByID(id uint) (*models.ScheduleEntry, error)
	SaveAll(entries []models.ScheduleEntry) error
	DeleteByIDs(ids []uint) error
	Save(e *models.ScheduleEntry) error
}

// TypeCatalog exposes the diagnostic type catalog.
type TypeCatalog interface {
	Active() ([]models.DiagnosticType, error)
}

// TypeInfo is a snapshot of one diagnostic type, with the duration possibly
// overridden by the caller.
type TypeInfo struct {
	ID              uint
	Code            string
	Name            string
	DurationMinutes int
	ColorCode       string
}

// EquipmentRequest asks for recurring diagnostics on one piece of equipment.
// Periods maps a diagnostic type code to its recurrence period in months
// (0.5–12). Durations optionally overrides the type's default duration.
type EquipmentRequest struct {
	Equipment string             `json:"equipment" yaml:"equipment"`
	Area      string             `json:"area" yaml:"area"`
	Periods   map[string]float64 `json:"periods" yaml:"periods"`
	Durations map[string]int     `json:"durations,omitempty" yaml:"durations,omitempty"`
}

// task is one transient occurrence produced during request expansion. Tasks
// exist only within a single build and are discarded once entries are saved.
type task struct {
	equipment    string
	area         string
	typ          TypeInfo
	periodMonths float64
	seq          int
	total        int
}

// Date truncates t to a date at midnight UTC. All engine computations and map
// keys use this normal form.
func Date(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

// NewDate builds a normalized date from components.
func NewDate(year int, month time.Month, day int) time.Time {
	return time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
}
