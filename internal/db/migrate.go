package db

import (
	"fmt"

	"github.com/vkarpov/plantmind/internal/config"
	"github.com/vkarpov/plantmind/internal/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// AllModels returns the list of all GORM models for migration.
func AllModels() []interface{} {
	return []interface{}{
		&models.Schedule{},
		&models.ScheduleEntry{},
		&models.DiagnosticType{},
		&models.BreakdownReport{},
		&models.RepairRecord{},
	}
}

// AutoMigrate creates or updates all tables.
func AutoMigrate(db *gorm.DB) error {
	if err := db.AutoMigrate(AllModels()...); err != nil {
		return fmt.Errorf("db: auto-migrate: %w", err)
	}
	return nil
}

// SeedTypes upserts DiagnosticType rows from configuration. Types present in
// the database but absent from the config are left untouched.
func SeedTypes(db *gorm.DB, types []config.TypeConfig) error {
	for _, tc := range types {
		dt := models.DiagnosticType{
			Code:            tc.Code,
			Name:            tc.Name,
			DurationMinutes: tc.DurationMinutes,
			ColorCode:       tc.ColorCode,
			Active:          true,
		}

		result := db.Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "code"}},
			DoUpdates: clause.AssignmentColumns([]string{"name", "duration_minutes", "color_code", "active"}),
		}).Create(&dt)
		if result.Error != nil {
			return fmt.Errorf("db: seed diagnostic type %q: %w", tc.Code, result.Error)
		}
	}
	return nil
}
