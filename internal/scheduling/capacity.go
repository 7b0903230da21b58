package scheduling

import (
	"time"

	"github.com/vkarpov/plantmind/internal/models"
)

// CanExecuteInParallel reports whether tasks with the given durations fit one
// day's work-time budget. durations maps a duration in minutes to the number
// of tasks with that duration. The model approximates concurrent execution by
// total work-minutes: the sum over duration×count must not exceed
// workersCount×shiftMinutes. It does not bin-pack across discrete workers, so
// it can accept days that are feasible in aggregate minutes only.
func CanExecuteInParallel(durations map[int]int, workersCount, shiftMinutes int) bool {
	total := 0
	for duration, count := range durations {
		total += duration * count
	}
	return total <= workersCount*shiftMinutes
}

// dayLoad tracks what is already planned for the days of one build: entries
// persisted before the build started and tasks placed during it.
type dayLoad struct {
	existing map[time.Time][]models.ScheduleEntry
	pending  map[time.Time][]task
}

func newDayLoad(existing []models.ScheduleEntry) *dayLoad {
	l := &dayLoad{
		existing: make(map[time.Time][]models.ScheduleEntry),
		pending:  make(map[time.Time][]task),
	}
	for _, e := range existing {
		d := Date(e.ScheduledDate)
		l.existing[d] = append(l.existing[d], e)
	}
	return l
}

// place records a task placement for date.
func (l *dayLoad) place(date time.Time, t task) {
	l.pending[date] = append(l.pending[date], t)
}

// taskCount returns the number of entries and pending tasks on date.
func (l *dayLoad) taskCount(date time.Time) int {
	return len(l.existing[date]) + len(l.pending[date])
}

// canScheduleTask reports whether a task for equipment with the given
// duration can run on date. It fails if the equipment already has a
// diagnostic that day (existing or pending), then checks the parallel
// capacity over every duration scheduled for the day plus the candidate.
func (l *dayLoad) canScheduleTask(date time.Time, equipment string, durationMinutes, workersCount, shiftHours int) bool {
	for _, e := range l.existing[date] {
		if e.Equipment == equipment {
			return false
		}
	}
	for _, t := range l.pending[date] {
		if t.equipment == equipment {
			return false
		}
	}

	durations := make(map[int]int)
	for _, e := range l.existing[date] {
		durations[e.DurationMinutes]++
	}
	for _, t := range l.pending[date] {
		durations[t.typ.DurationMinutes]++
	}
	durations[durationMinutes]++

	return CanExecuteInParallel(durations, workersCount, shiftHours*60)
}
