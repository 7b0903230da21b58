// Package reports computes maintenance analytics over breakdown reports,
// repair records and schedule entries.
package reports

import (
	"fmt"
	"time"

	"github.com/vkarpov/plantmind/internal/models"
	"gorm.io/gorm"
)

// EquipmentBreakdowns holds breakdown totals for one piece of equipment.
type EquipmentBreakdowns struct {
	Equipment       string `json:"equipment"`
	Count           int    `json:"count"`
	DowntimeMinutes int    `json:"downtime_minutes"`
}

// TopEquipment returns the equipment with the most breakdowns in [start, end],
// most frequent first, at most limit rows.
func TopEquipment(db *gorm.DB, start, end time.Time, limit int) ([]EquipmentBreakdowns, error) {
	var rows []EquipmentBreakdowns
	if err := db.Model(&models.BreakdownReport{}).
		Select("equipment, count(*) as count, sum(downtime_minutes) as downtime_minutes").
		Where("reported_at >= ? AND reported_at < ?", start, end).
		Group("equipment").
		Order("count DESC, equipment ASC").
		Limit(limit).
		Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("reports: top equipment: %w", err)
	}
	return rows, nil
}

// CauseCount holds the breakdown count for one recorded cause.
type CauseCount struct {
	Cause string `json:"cause"`
	Count int    `json:"count"`
}

// TopCauses returns the most frequent breakdown causes in [start, end].
func TopCauses(db *gorm.DB, start, end time.Time, limit int) ([]CauseCount, error) {
	var rows []CauseCount
	if err := db.Model(&models.BreakdownReport{}).
		Select("cause, count(*) as count").
		Where("reported_at >= ? AND reported_at < ? AND cause != ''", start, end).
		Group("cause").
		Order("count DESC, cause ASC").
		Limit(limit).
		Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("reports: top causes: %w", err)
	}
	return rows, nil
}

// AreaDowntime holds aggregate downtime for one plant area.
type AreaDowntime struct {
	Area            string `json:"area"`
	Count           int    `json:"count"`
	DowntimeMinutes int    `json:"downtime_minutes"`
}

// DowntimeByArea returns per-area breakdown downtime in [start, end], worst
// area first.
func DowntimeByArea(db *gorm.DB, start, end time.Time) ([]AreaDowntime, error) {
	var rows []AreaDowntime
	if err := db.Model(&models.BreakdownReport{}).
		Select("area, count(*) as count, sum(downtime_minutes) as downtime_minutes").
		Where("reported_at >= ? AND reported_at < ? AND area != ''", start, end).
		Group("area").
		Order("downtime_minutes DESC, area ASC").
		Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("reports: downtime by area: %w", err)
	}
	return rows, nil
}

// MonthCount holds one month's breakdown count. Month is 1-12.
type MonthCount struct {
	Month int `json:"month"`
	Count int `json:"count"`
}

// BreakdownDynamics returns breakdown counts per month of a year. Months
// without breakdowns are present with a zero count.
func BreakdownDynamics(db *gorm.DB, year int) ([]MonthCount, error) {
	start := time.Date(year, time.January, 1, 0, 0, 0, 0, time.UTC)
	end := start.AddDate(1, 0, 0)

	var reports []models.BreakdownReport
	if err := db.Select("reported_at").
		Where("reported_at >= ? AND reported_at < ?", start, end).
		Find(&reports).Error; err != nil {
		return nil, fmt.Errorf("reports: breakdown dynamics for %d: %w", year, err)
	}

	counts := make([]MonthCount, 12)
	for i := range counts {
		counts[i].Month = i + 1
	}
	for _, r := range reports {
		counts[int(r.ReportedAt.Month())-1].Count++
	}
	return counts, nil
}

// MonthCompletion holds one month's scheduled vs completed diagnostics.
type MonthCompletion struct {
	Month     int `json:"month"`
	Scheduled int `json:"scheduled"`
	Completed int `json:"completed"`
}

// CompletionDynamics returns per-month scheduled and completed entry counts
// for one schedule.
func CompletionDynamics(db *gorm.DB, scheduleID uint) ([]MonthCompletion, error) {
	var entries []models.ScheduleEntry
	if err := db.Select("scheduled_date, completed").
		Where("schedule_id = ?", scheduleID).
		Find(&entries).Error; err != nil {
		return nil, fmt.Errorf("reports: completion dynamics for schedule %d: %w", scheduleID, err)
	}

	months := make([]MonthCompletion, 12)
	for i := range months {
		months[i].Month = i + 1
	}
	for _, e := range entries {
		m := int(e.ScheduledDate.Month()) - 1
		months[m].Scheduled++
		if e.Completed {
			months[m].Completed++
		}
	}
	return months, nil
}

// RepairHistory returns the most recent repair records for a piece of
// equipment, newest first.
func RepairHistory(db *gorm.DB, equipment string, limit int) ([]models.RepairRecord, error) {
	var records []models.RepairRecord
	if err := db.Where("equipment = ?", equipment).
		Order("repaired_at DESC").
		Limit(limit).
		Find(&records).Error; err != nil {
		return nil, fmt.Errorf("reports: repair history for %s: %w", equipment, err)
	}
	return records, nil
}

// RecentBreakdowns returns the most recent breakdown reports for a piece of
// equipment, newest first.
func RecentBreakdowns(db *gorm.DB, equipment string, limit int) ([]models.BreakdownReport, error) {
	var reports []models.BreakdownReport
	if err := db.Where("equipment = ?", equipment).
		Order("reported_at DESC").
		Limit(limit).
		Find(&reports).Error; err != nil {
		return nil, fmt.Errorf("reports: recent breakdowns for %s: %w", equipment, err)
	}
	return reports, nil
}
