package db

import (
	"strings"
	"testing"

	"github.com/vkarpov/plantmind/internal/config"
	"github.com/vkarpov/plantmind/internal/models"
)

func TestDSN(t *testing.T) {
	tests := []struct {
		name     string
		user     string
		password string
		host     string
		port     int
		database string
		want     string
	}{
		{
			name:     "local root without password",
			user:     "root",
			host:     "127.0.0.1",
			port:     3306,
			database: "plantmind",
			want:     "root@tcp(127.0.0.1:3306)/plantmind?parseTime=true&charset=utf8mb4",
		},
		{
			name:     "credentials",
			user:     "maint",
			password: "s3cret",
			host:     "db.plant.local",
			port:     3307,
			database: "plantmind",
			want:     "maint:s3cret@tcp(db.plant.local:3307)/plantmind?parseTime=true&charset=utf8mb4",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := DSN(tt.user, tt.password, tt.host, tt.port, tt.database)
			if got != tt.want {
				t.Errorf("DSN() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestDSN_ParseTimeFlag(t *testing.T) {
	dsn := DSN("root", "", "localhost", 3306, "test")
	if !strings.Contains(dsn, "parseTime=true") {
		t.Errorf("DSN missing parseTime=true: %s", dsn)
	}
}

func TestAutoMigrate_CreatesAllTables(t *testing.T) {
	db, err := ConnectSQLite(":memory:")
	if err != nil {
		t.Fatalf("ConnectSQLite: %v", err)
	}
	if err := AutoMigrate(db); err != nil {
		t.Fatalf("AutoMigrate: %v", err)
	}
	for _, m := range AllModels() {
		if !db.Migrator().HasTable(m) {
			t.Errorf("missing table for %T", m)
		}
	}
}

func TestSeedTypes_Upserts(t *testing.T) {
	db, err := ConnectSQLite(":memory:")
	if err != nil {
		t.Fatalf("ConnectSQLite: %v", err)
	}
	if err := AutoMigrate(db); err != nil {
		t.Fatalf("AutoMigrate: %v", err)
	}

	types := []config.TypeConfig{
		{Code: "VIBRATION", Name: "Vibration analysis", DurationMinutes: 30, ColorCode: "#FFD700"},
		{Code: "THERMAL", Name: "Thermal imaging", DurationMinutes: 45, ColorCode: "#FF4500"},
	}
	if err := SeedTypes(db, types); err != nil {
		t.Fatalf("SeedTypes: %v", err)
	}

	var count int64
	if err := db.Model(&models.DiagnosticType{}).Count(&count).Error; err != nil {
		t.Fatalf("count: %v", err)
	}
	if count != 2 {
		t.Errorf("types = %d, want 2", count)
	}

	// Re-seeding with a changed duration updates in place instead of
	// duplicating.
	types[0].DurationMinutes = 40
	if err := SeedTypes(db, types); err != nil {
		t.Fatalf("SeedTypes again: %v", err)
	}
	if err := db.Model(&models.DiagnosticType{}).Count(&count).Error; err != nil {
		t.Fatalf("count: %v", err)
	}
	if count != 2 {
		t.Errorf("types after re-seed = %d, want 2", count)
	}
	var dt models.DiagnosticType
	if err := db.Where("code = ?", "VIBRATION").First(&dt).Error; err != nil {
		t.Fatalf("find VIBRATION: %v", err)
	}
	if dt.DurationMinutes != 40 {
		t.Errorf("duration = %d, want the updated 40", dt.DurationMinutes)
	}
}
