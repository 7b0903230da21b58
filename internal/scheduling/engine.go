package scheduling

import (
	"errors"
	"fmt"
	"math"
	"sort"
	"time"

	"github.com/vkarpov/plantmind/internal/models"
)

// DefaultShiftHours is the shift duration used when a request leaves it unset.
const DefaultShiftHours = 7

// Engine builds and mutates yearly diagnostic schedules. It is synchronous
// and holds no state between calls; the diagnostic type map is rebuilt from
// the catalog at the start of every operation.
type Engine struct {
	schedules ScheduleStore
	entries   EntryStore
	types     TypeCatalog

	now func() time.Time
}

// NewEngine wires an Engine to its collaborators.
func NewEngine(schedules ScheduleStore, entries EntryStore, types TypeCatalog) *Engine {
	return &Engine{
		schedules: schedules,
		entries:   entries,
		types:     types,
		now:       time.Now,
	}
}

// CreateRequest describes a new yearly schedule.
type CreateRequest struct {
	Year               int
	WorkersCount       int
	ShiftDurationHours int       // 0 means DefaultShiftHours
	StartDate          time.Time // zero means January 1 of Year
	Equipment          []EquipmentRequest
}

// CreateYearly creates a schedule for a year, expands every equipment
// request into dated tasks, and persists the resulting entries. Nothing is
// written unless every task finds a feasible day.
func (e *Engine) CreateYearly(req CreateRequest) (*models.Schedule, error) {
	if req.WorkersCount <= 0 {
		return nil, validationErrorf("workers count must be positive, got %d", req.WorkersCount)
	}
	shiftHours := req.ShiftDurationHours
	if shiftHours == 0 {
		shiftHours = DefaultShiftHours
	}
	if shiftHours < 0 {
		return nil, validationErrorf("shift duration must be positive, got %d", req.ShiftDurationHours)
	}

	if _, err := e.schedules.FindByYear(req.Year); err == nil {
		return nil, validationErrorf("schedule for year %d already exists", req.Year)
	} else if !errors.Is(err, ErrNotFound) {
		return nil, fmt.Errorf("scheduling: look up year %d: %w", req.Year, err)
	}

	typeMap, err := e.buildTypeMap()
	if err != nil {
		return nil, err
	}

	start := Date(req.StartDate)
	if req.StartDate.IsZero() {
		start = NewDate(req.Year, time.January, 1)
	}
	yearEnd := NewDate(req.Year, time.December, 31)
	workingDays := WorkingDays(start, yearEnd)

	tasks, totalMinutes, err := expandTasks(req.Equipment, typeMap)
	if err != nil {
		return nil, err
	}

	availableHours := len(workingDays) * shiftHours * req.WorkersCount
	requiredHours := int(math.Ceil(float64(totalMinutes) / 60.0))
	if requiredHours > availableHours {
		return nil, &CapacityError{RequiredHours: requiredHours, AvailableHours: availableHours}
	}

	load := newDayLoad(nil)
	p := newPlacer(workingDays, req.WorkersCount, shiftHours, load)
	if err := placeAll(tasks, req.Year, start, p); err != nil {
		return nil, err
	}

	schedule := &models.Schedule{
		Year:               req.Year,
		WorkersCount:       req.WorkersCount,
		ShiftDurationHours: shiftHours,
	}
	if err := e.schedules.Create(schedule); err != nil {
		return nil, fmt.Errorf("scheduling: create schedule for %d: %w", req.Year, err)
	}
	if err := e.entries.SaveAll(entriesFromLoad(schedule.ID, load)); err != nil {
		return nil, fmt.Errorf("scheduling: save entries for %d: %w", req.Year, err)
	}
	return schedule, nil
}

// AddEquipment expands and places additional equipment requests against an
// existing schedule. Entries for any (equipment, type) pair being
// re-submitted are deleted first, so repeating a request re-creates rather
// than duplicates its entries. The total-year capacity check from
// CreateYearly is intentionally skipped: incremental additions are bounded
// by the per-day capacity check during placement.
func (e *Engine) AddEquipment(scheduleID uint, equipment []EquipmentRequest, startDate time.Time) (*models.Schedule, error) {
	schedule, err := e.schedules.FindByID(scheduleID)
	if err != nil {
		return nil, fmt.Errorf("scheduling: schedule %d: %w", scheduleID, err)
	}

	typeMap, err := e.buildTypeMap()
	if err != nil {
		return nil, err
	}

	start := Date(startDate)
	if startDate.IsZero() {
		start = NewDate(schedule.Year, time.January, 1)
	}
	workingDays := WorkingDays(start, NewDate(schedule.Year, time.December, 31))

	tasks, _, err := expandTasks(equipment, typeMap)
	if err != nil {
		return nil, err
	}

	existing, err := e.entries.BySchedule(scheduleID)
	if err != nil {
		return nil, fmt.Errorf("scheduling: load entries for schedule %d: %w", scheduleID, err)
	}

	// Remove prior entries for every equipment+type pair in this batch.
	resubmitted := make(map[string]bool)
	for _, t := range tasks {
		resubmitted[t.equipment+"|"+t.typ.Code] = true
	}
	var stale []uint
	for _, en := range existing {
		if resubmitted[en.Equipment+"|"+en.DiagnosticType.Code] {
			stale = append(stale, en.ID)
		}
	}
	if len(stale) > 0 {
		if err := e.entries.DeleteByIDs(stale); err != nil {
			return nil, fmt.Errorf("scheduling: delete replaced entries: %w", err)
		}
		if existing, err = e.entries.BySchedule(scheduleID); err != nil {
			return nil, fmt.Errorf("scheduling: reload entries for schedule %d: %w", scheduleID, err)
		}
	}

	load := newDayLoad(existing)
	p := newPlacer(workingDays, schedule.WorkersCount, schedule.ShiftDurationHours, load)
	if err := placeAll(tasks, schedule.Year, start, p); err != nil {
		return nil, err
	}

	if err := e.entries.SaveAll(entriesFromLoad(schedule.ID, load)); err != nil {
		return nil, fmt.Errorf("scheduling: save entries for schedule %d: %w", scheduleID, err)
	}
	return schedule, nil
}

// DeleteSchedule removes a schedule and all of its entries.
func (e *Engine) DeleteSchedule(scheduleID uint) error {
	schedule, err := e.schedules.FindByID(scheduleID)
	if err != nil {
		return fmt.Errorf("scheduling: schedule %d: %w", scheduleID, err)
	}
	if err := e.schedules.Delete(schedule); err != nil {
		return fmt.Errorf("scheduling: delete schedule %d: %w", scheduleID, err)
	}
	return nil
}

// buildTypeMap snapshots the active diagnostic type catalog, keyed by code.
func (e *Engine) buildTypeMap() (map[string]TypeInfo, error) {
	types, err := e.types.Active()
	if err != nil {
		return nil, fmt.Errorf("scheduling: load diagnostic types: %w", err)
	}
	m := make(map[string]TypeInfo, len(types))
	for _, t := range types {
		m[t.Code] = TypeInfo{
			ID:              t.ID,
			Code:            t.Code,
			Name:            t.Name,
			DurationMinutes: t.DurationMinutes,
			ColorCode:       t.ColorCode,
		}
	}
	return m, nil
}

// expandTasks turns equipment requests into transient tasks and totals the
// requested work in minutes. Type codes are processed in sorted order so
// expansion is deterministic.
func expandTasks(reqs []EquipmentRequest, typeMap map[string]TypeInfo) ([]task, int, error) {
	var tasks []task
	totalMinutes := 0
	for _, eq := range reqs {
		if eq.Equipment == "" {
			return nil, 0, validationErrorf("equipment name is required")
		}
		codes := make([]string, 0, len(eq.Periods))
		for code := range eq.Periods {
			codes = append(codes, code)
		}
		sort.Strings(codes)

		for _, code := range codes {
			period := eq.Periods[code]
			if period < MinPeriodMonths || period > MaxPeriodMonths {
				return nil, 0, validationErrorf(
					"diagnostic period for type %q must be between %v and %v months, got %v",
					code, MinPeriodMonths, MaxPeriodMonths, period)
			}
			info, ok := typeMap[code]
			if !ok {
				return nil, 0, validationErrorf("unknown diagnostic type code %q", code)
			}
			if override, ok := eq.Durations[code]; ok && override > 0 {
				info.DurationMinutes = override
			}

			count := OccurrencesPerYear(period)
			for i := 0; i < count; i++ {
				tasks = append(tasks, task{
					equipment:    eq.Equipment,
					area:         eq.Area,
					typ:          info,
					periodMonths: period,
					seq:          i,
					total:        count,
				})
				totalMinutes += info.DurationMinutes
			}
		}
	}
	return tasks, totalMinutes, nil
}

// placeAll assigns a concrete date to every task, group by group. Groups are
// keyed by equipment+type and processed in sorted key order; peer ranks are
// derived from the sorted set of equipment sharing each type, keeping the
// whole build deterministic.
func placeAll(tasks []task, year int, start time.Time, p *placer) error {
	groups := make(map[string][]task)
	var keys []string
	for _, t := range tasks {
		key := t.equipment + "|" + t.typ.Code
		if _, ok := groups[key]; !ok {
			keys = append(keys, key)
		}
		groups[key] = append(groups[key], t)
	}
	sort.Strings(keys)

	ranks, peers := peerRanks(tasks)

	for _, key := range keys {
		group := groups[key]
		first := group[0]
		ideal, err := IdealDates(year, first.periodMonths, len(group), start,
			ranks[key], peers[first.typ.Code])
		if err != nil {
			return err
		}
		for i := 0; i < len(group) && i < len(ideal); i++ {
			t := group[i]
			date, ok := p.findNearIdeal(ideal[i], t)
			if !ok {
				date, ok = p.findFallback(t)
			}
			if !ok {
				return &PlacementError{Equipment: t.equipment, TypeCode: t.typ.Code}
			}
			p.load.place(date, t)
		}
	}
	return nil
}

// peerRanks computes, for each equipment+type group, the equipment's 0-based
// rank among all equipment in this batch needing the same type, plus the
// per-type peer counts.
func peerRanks(tasks []task) (map[string]int, map[string]int) {
	byType := make(map[string]map[string]bool)
	for _, t := range tasks {
		if byType[t.typ.Code] == nil {
			byType[t.typ.Code] = make(map[string]bool)
		}
		byType[t.typ.Code][t.equipment] = true
	}

	ranks := make(map[string]int)
	peers := make(map[string]int)
	for code, equipmentSet := range byType {
		names := make([]string, 0, len(equipmentSet))
		for name := range equipmentSet {
			names = append(names, name)
		}
		sort.Strings(names)
		peers[code] = len(names)
		for i, name := range names {
			ranks[name+"|"+code] = i
		}
	}
	return ranks, peers
}

// entriesFromLoad materializes this run's placements as schedule entries,
// ordered by date then placement order.
func entriesFromLoad(scheduleID uint, load *dayLoad) []models.ScheduleEntry {
	dates := make([]time.Time, 0, len(load.pending))
	for d := range load.pending {
		dates = append(dates, d)
	}
	sort.Slice(dates, func(i, j int) bool { return dates[i].Before(dates[j]) })

	var entries []models.ScheduleEntry
	for _, d := range dates {
		for _, t := range load.pending[d] {
			entries = append(entries, models.ScheduleEntry{
				ScheduleID:       scheduleID,
				Equipment:        t.equipment,
				Area:             t.area,
				DiagnosticTypeID: t.typ.ID,
				ScheduledDate:    d,
				DurationMinutes:  t.typ.DurationMinutes,
			})
		}
	}
	return entries
}
