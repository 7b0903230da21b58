package models

import "time"

// BreakdownReport records one equipment breakdown, fed by the shop-floor
// intake and consumed by the reporting dashboards.
type BreakdownReport struct {
	ID              uint      `gorm:"primaryKey;autoIncrement"`
	Equipment       string    `gorm:"size:128;not null;index"`
	Area            string    `gorm:"size:128;index"`
	Cause           string    `gorm:"size:255"`
	Description     string    `gorm:"type:text"`
	DowntimeMinutes int       `gorm:"default:0"`
	ReportedAt      time.Time `gorm:"not null;index"`
	Resolved        bool      `gorm:"default:false"`
	ResolvedAt      *time.Time
}

// RepairRecord documents how a breakdown was fixed. Used as retrieval
// context for the troubleshooting assistant.
type RepairRecord struct {
	ID              uint      `gorm:"primaryKey;autoIncrement"`
	Equipment       string    `gorm:"size:128;not null;index"`
	Area            string    `gorm:"size:128"`
	Problem         string    `gorm:"type:text"`
	Solution        string    `gorm:"type:text"`
	Mechanic        string    `gorm:"size:64"`
	DurationMinutes int       `gorm:"default:0"`
	RepairedAt      time.Time `gorm:"not null;index"`
}
