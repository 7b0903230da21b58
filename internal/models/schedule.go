package models

import "time"

// Schedule is the yearly container of planned diagnostics for one
// workforce configuration. One schedule exists per calendar year.
type Schedule struct {
	ID                 uint `gorm:"primaryKey;autoIncrement"`
	Year               int  `gorm:"uniqueIndex;not null"`
	WorkersCount       int  `gorm:"not null"`
	ShiftDurationHours int  `gorm:"not null;default:7"`
	CreatedAt          time.Time
	UpdatedAt          time.Time

	Entries []ScheduleEntry `gorm:"foreignKey:ScheduleID"`
}

// ScheduleEntry is one concrete, dated occurrence of a diagnostic type on
// one piece of equipment. DurationMinutes is a snapshot taken at planning
// time and may differ from the type's current default.
type ScheduleEntry struct {
	ID               uint      `gorm:"primaryKey;autoIncrement"`
	ScheduleID       uint      `gorm:"not null;index:idx_schedule_date"`
	Equipment        string    `gorm:"size:128;not null;index"`
	Area             string    `gorm:"size:128"`
	DiagnosticTypeID uint      `gorm:"not null"`
	ScheduledDate    time.Time `gorm:"not null;index:idx_schedule_date"`
	DurationMinutes  int       `gorm:"not null"`
	Completed        bool      `gorm:"default:false"`
	CompletedDate    *time.Time
	Notes            string `gorm:"type:text"`

	Schedule       Schedule       `gorm:"foreignKey:ScheduleID"`
	DiagnosticType DiagnosticType `gorm:"foreignKey:DiagnosticTypeID"`
}
