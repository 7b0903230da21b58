package scheduling

import (
	"fmt"
	"sort"
	"time"

	"github.com/vkarpov/plantmind/internal/models"
)

// fakeStore is an in-memory implementation of ScheduleStore, EntryStore and
// TypeCatalog for engine tests.
type fakeStore struct {
	schedules map[uint]models.Schedule
	entries   map[uint]models.ScheduleEntry
	types     []models.DiagnosticType

	nextScheduleID uint
	nextEntryID    uint
}

func newFakeStore(types ...models.DiagnosticType) *fakeStore {
	return &fakeStore{
		schedules: make(map[uint]models.Schedule),
		entries:   make(map[uint]models.ScheduleEntry),
		types:     types,
	}
}

func (f *fakeStore) FindByYear(year int) (*models.Schedule, error) {
	for _, s := range f.schedules {
		if s.Year == year {
			copied := s
			return &copied, nil
		}
	}
	return nil, fmt.Errorf("schedule for %d: %w", year, ErrNotFound)
}

func (f *fakeStore) FindByID(id uint) (*models.Schedule, error) {
	s, ok := f.schedules[id]
	if !ok {
		return nil, fmt.Errorf("schedule %d: %w", id, ErrNotFound)
	}
	copied := s
	return &copied, nil
}

func (f *fakeStore) Create(s *models.Schedule) error {
	f.nextScheduleID++
	s.ID = f.nextScheduleID
	f.schedules[s.ID] = *s
	return nil
}

func (f *fakeStore) Delete(s *models.Schedule) error {
	delete(f.schedules, s.ID)
	for id, e := range f.entries {
		if e.ScheduleID == s.ID {
			delete(f.entries, id)
		}
	}
	return nil
}

func (f *fakeStore) BySchedule(scheduleID uint) ([]models.ScheduleEntry, error) {
	var out []models.ScheduleEntry
	for _, e := range f.entries {
		if e.ScheduleID == scheduleID {
			out = append(out, f.withType(e))
		}
	}
	sortEntries(out)
	return out, nil
}

func (f *fakeStore) ByScheduleDateRange(scheduleID uint, start, end time.Time) ([]models.ScheduleEntry, error) {
	var out []models.ScheduleEntry
	for _, e := range f.entries {
		d := Date(e.ScheduledDate)
		if e.ScheduleID == scheduleID && !d.Before(Date(start)) && !d.After(Date(end)) {
			out = append(out, f.withType(e))
		}
	}
	sortEntries(out)
	return out, nil
}

func (f *fakeStore) ByScheduleDate(scheduleID uint, date time.Time) ([]models.ScheduleEntry, error) {
	return f.ByScheduleDateRange(scheduleID, date, date)
}

func (f *fakeStore) ByID(id uint) (*models.ScheduleEntry, error) {
	e, ok := f.entries[id]
	if !ok {
		return nil, fmt.Errorf("entry %d: %w", id, ErrNotFound)
	}
	copied := f.withType(e)
	return &copied, nil
}

func (f *fakeStore) SaveAll(entries []models.ScheduleEntry) error {
	for i := range entries {
		f.nextEntryID++
		entries[i].ID = f.nextEntryID
		f.entries[entries[i].ID] = entries[i]
	}
	return nil
}

func (f *fakeStore) DeleteByIDs(ids []uint) error {
	for _, id := range ids {
		delete(f.entries, id)
	}
	return nil
}

func (f *fakeStore) Save(e *models.ScheduleEntry) error {
	if e.ID == 0 {
		f.nextEntryID++
		e.ID = f.nextEntryID
	}
	f.entries[e.ID] = *e
	return nil
}

func (f *fakeStore) Active() ([]models.DiagnosticType, error) {
	var out []models.DiagnosticType
	for _, t := range f.types {
		if t.Active {
			out = append(out, t)
		}
	}
	return out, nil
}

func (f *fakeStore) withType(e models.ScheduleEntry) models.ScheduleEntry {
	for _, t := range f.types {
		if t.ID == e.DiagnosticTypeID {
			e.DiagnosticType = t
			break
		}
	}
	return e
}

func sortEntries(entries []models.ScheduleEntry) {
	sort.Slice(entries, func(i, j int) bool {
		if !entries[i].ScheduledDate.Equal(entries[j].ScheduledDate) {
			return entries[i].ScheduledDate.Before(entries[j].ScheduledDate)
		}
		return entries[i].ID < entries[j].ID
	})
}

var _ ScheduleStore = (*fakeStore)(nil)
var _ EntryStore = (*fakeStore)(nil)
var _ TypeCatalog = (*fakeStore)(nil)
