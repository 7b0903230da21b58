// Package store provides the GORM-backed persistence layer behind the
// scheduling engine's store interfaces.
package store

import (
	"errors"
	"fmt"
	"time"

	"github.com/vkarpov/plantmind/internal/models"
	"github.com/vkarpov/plantmind/internal/scheduling"
	"gorm.io/gorm"
)

// Store implements scheduling.ScheduleStore, scheduling.EntryStore and
// scheduling.TypeCatalog on top of a GORM connection.
type Store struct {
	db *gorm.DB
}

var (
	_ scheduling.ScheduleStore = (*Store)(nil)
	_ scheduling.EntryStore    = (*Store)(nil)
	_ scheduling.TypeCatalog   = (*Store)(nil)
)

func New(db *gorm.DB) *Store {
	return &Store{db: db}
}

// FindByYear returns the schedule for a year. A missing schedule satisfies
// errors.Is(err, scheduling.ErrNotFound).
func (s *Store) FindByYear(year int) (*models.Schedule, error) {
	var schedule models.Schedule
	if err := s.db.Where("year = ?", year).First(&schedule).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("store: schedule for year %d: %w", year, scheduling.ErrNotFound)
		}
		return nil, fmt.Errorf("store: find schedule for year %d: %w", year, err)
	}
	return &schedule, nil
}

func (s *Store) FindByID(id uint) (*models.Schedule, error) {
	var schedule models.Schedule
	if err := s.db.First(&schedule, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("store: schedule %d: %w", id, scheduling.ErrNotFound)
		}
		return nil, fmt.Errorf("store: find schedule %d: %w", id, err)
	}
	return &schedule, nil
}

// AllSchedules returns every schedule, newest year first.
func (s *Store) AllSchedules() ([]models.Schedule, error) {
	var schedules []models.Schedule
	if err := s.db.Order("year DESC").Find(&schedules).Error; err != nil {
		return nil, fmt.Errorf("store: list schedules: %w", err)
	}
	return schedules, nil
}

func (s *Store) Create(schedule *models.Schedule) error {
	if err := s.db.Create(schedule).Error; err != nil {
		return fmt.Errorf("store: create schedule for year %d: %w", schedule.Year, err)
	}
	return nil
}

// Delete removes the schedule and all of its entries in one transaction.
func (s *Store) Delete(schedule *models.Schedule) error {
	err := s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("schedule_id = ?", schedule.ID).Delete(&models.ScheduleEntry{}).Error; err != nil {
			return err
		}
		return tx.Delete(schedule).Error
	})
	if err != nil {
		return fmt.Errorf("store: delete schedule %d: %w", schedule.ID, err)
	}
	return nil
}

// BySchedule returns all entries of a schedule ordered by date, with the
// diagnostic type populated.
func (s *Store) BySchedule(scheduleID uint) ([]models.ScheduleEntry, error) {
	var entries []models.ScheduleEntry
	if err := s.db.Preload("DiagnosticType").
		Where("schedule_id = ?", scheduleID).
		Order("scheduled_date ASC, id ASC").
		Find(&entries).Error; err != nil {
		return nil, fmt.Errorf("store: entries for schedule %d: %w", scheduleID, err)
	}
	return entries, nil
}

func (s *Store) ByScheduleDateRange(scheduleID uint, start, end time.Time) ([]models.ScheduleEntry, error) {
	var entries []models.ScheduleEntry
	if err := s.db.Preload("DiagnosticType").
		Where("schedule_id = ? AND scheduled_date >= ? AND scheduled_date <= ?", scheduleID, start, end).
		Order("scheduled_date ASC, id ASC").
		Find(&entries).Error; err != nil {
		return nil, fmt.Errorf("store: entries for schedule %d in %s..%s: %w",
			scheduleID, start.Format("2006-01-02"), end.Format("2006-01-02"), err)
	}
	return entries, nil
}

func (s *Store) ByScheduleDate(scheduleID uint, date time.Time) ([]models.ScheduleEntry, error) {
	return s.ByScheduleDateRange(scheduleID, date, date)
}

func (s *Store) ByID(id uint) (*models.ScheduleEntry, error) {
	var entry models.ScheduleEntry
	if err := s.db.Preload("DiagnosticType").First(&entry, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("store: entry %d: %w", id, scheduling.ErrNotFound)
		}
		return nil, fmt.Errorf("store: find entry %d: %w", id, err)
	}
	return &entry, nil
}

func (s *Store) SaveAll(entries []models.ScheduleEntry) error {
	if len(entries) == 0 {
		return nil
	}
	if err := s.db.Create(&entries).Error; err != nil {
		return fmt.Errorf("store: save %d entries: %w", len(entries), err)
	}
	return nil
}

func (s *Store) DeleteByIDs(ids []uint) error {
	if len(ids) == 0 {
		return nil
	}
	if err := s.db.Delete(&models.ScheduleEntry{}, ids).Error; err != nil {
		return fmt.Errorf("store: delete %d entries: %w", len(ids), err)
	}
	return nil
}

func (s *Store) Save(entry *models.ScheduleEntry) error {
	if err := s.db.Save(entry).Error; err != nil {
		return fmt.Errorf("store: save entry %d: %w", entry.ID, err)
	}
	return nil
}

// Upcoming returns incomplete entries scheduled within [start, end] across
// all schedules, for digest notifications.
func (s *Store) Upcoming(start, end time.Time) ([]models.ScheduleEntry, error) {
	var entries []models.ScheduleEntry
	if err := s.db.Preload("DiagnosticType").
		Where("completed = ? AND scheduled_date >= ? AND scheduled_date <= ?", false, start, end).
		Order("scheduled_date ASC, equipment ASC").
		Find(&entries).Error; err != nil {
		return nil, fmt.Errorf("store: upcoming entries %s..%s: %w",
			start.Format("2006-01-02"), end.Format("2006-01-02"), err)
	}
	return entries, nil
}

// Active returns the active diagnostic types ordered by code.
func (s *Store) Active() ([]models.DiagnosticType, error) {
	var types []models.DiagnosticType
	if err := s.db.Where("active = ?", true).Order("code ASC").Find(&types).Error; err != nil {
		return nil, fmt.Errorf("store: active diagnostic types: %w", err)
	}
	return types, nil
}
