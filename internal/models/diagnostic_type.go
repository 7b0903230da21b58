package models

// DiagnosticType is a catalog entry for one category of equipment
// inspection. Read-only to the scheduling engine.
type DiagnosticType struct {
	ID              uint   `gorm:"primaryKey;autoIncrement"`
	Code            string `gorm:"size:16;uniqueIndex;not null"`
	Name            string `gorm:"size:128;not null"`
	DurationMinutes int    `gorm:"not null"`
	ColorCode       string `gorm:"size:16"`
	Active          bool   `gorm:"default:true"`
}
