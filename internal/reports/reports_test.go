package reports

import (
	"testing"
	"time"

	"github.com/vkarpov/plantmind/internal/models"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func openReportsTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("open test db: %v", err)
	}
	if err := db.AutoMigrate(
		&models.BreakdownReport{},
		&models.RepairRecord{},
		&models.Schedule{},
		&models.ScheduleEntry{},
	); err != nil {
		t.Fatalf("auto migrate: %v", err)
	}
	return db
}

func breakdown(equipment, area, cause string, downtime int, at time.Time) models.BreakdownReport {
	return models.BreakdownReport{
		Equipment: equipment, Area: area, Cause: cause,
		DowntimeMinutes: downtime, ReportedAt: at,
	}
}

func TestTopEquipment(t *testing.T) {
	db := openReportsTestDB(t)
	jan := time.Date(2025, time.January, 10, 12, 0, 0, 0, time.UTC)
	for _, b := range []models.BreakdownReport{
		breakdown("Pump-1", "Boiler", "bearing wear", 120, jan),
		breakdown("Pump-1", "Boiler", "seal leak", 60, jan.AddDate(0, 1, 0)),
		breakdown("Fan-1", "Roof", "belt slip", 30, jan),
		breakdown("Pump-2", "Boiler", "bearing wear", 500, jan.AddDate(2, 0, 0)), // outside range
	} {
		if err := db.Create(&b).Error; err != nil {
			t.Fatalf("seed: %v", err)
		}
	}

	start := time.Date(2025, time.January, 1, 0, 0, 0, 0, time.UTC)
	end := start.AddDate(1, 0, 0)
	rows, err := TopEquipment(db, start, end, 10)
	if err != nil {
		t.Fatalf("TopEquipment: %v", err)
	}
	if len(rows) != 2 {
		t.Fatalf("len = %d, want 2", len(rows))
	}
	if rows[0].Equipment != "Pump-1" || rows[0].Count != 2 || rows[0].DowntimeMinutes != 180 {
		t.Errorf("rows[0] = %+v, want Pump-1 with 2 breakdowns, 180 min", rows[0])
	}
	if rows[1].Equipment != "Fan-1" {
		t.Errorf("rows[1] = %+v, want Fan-1", rows[1])
	}
}

func TestTopCauses_LimitAndEmptyCause(t *testing.T) {
	db := openReportsTestDB(t)
	at := time.Date(2025, time.March, 1, 0, 0, 0, 0, time.UTC)
	for _, b := range []models.BreakdownReport{
		breakdown("Pump-1", "Boiler", "bearing wear", 10, at),
		breakdown("Pump-2", "Boiler", "bearing wear", 10, at),
		breakdown("Fan-1", "Roof", "belt slip", 10, at),
		breakdown("Fan-2", "Roof", "", 10, at), // unrecorded cause stays out
	} {
		if err := db.Create(&b).Error; err != nil {
			t.Fatalf("seed: %v", err)
		}
	}

	start := time.Date(2025, time.January, 1, 0, 0, 0, 0, time.UTC)
	rows, err := TopCauses(db, start, start.AddDate(1, 0, 0), 1)
	if err != nil {
		t.Fatalf("TopCauses: %v", err)
	}
	if len(rows) != 1 {
		t.Fatalf("len = %d, want limit 1", len(rows))
	}
	if rows[0].Cause != "bearing wear" || rows[0].Count != 2 {
		t.Errorf("rows[0] = %+v, want bearing wear ×2", rows[0])
	}
}

func TestDowntimeByArea(t *testing.T) {
	db := openReportsTestDB(t)
	at := time.Date(2025, time.May, 5, 0, 0, 0, 0, time.UTC)
	for _, b := range []models.BreakdownReport{
		breakdown("Pump-1", "Boiler", "x", 100, at),
		breakdown("Pump-2", "Boiler", "x", 50, at),
		breakdown("Fan-1", "Roof", "x", 200, at),
	} {
		if err := db.Create(&b).Error; err != nil {
			t.Fatalf("seed: %v", err)
		}
	}

	start := time.Date(2025, time.January, 1, 0, 0, 0, 0, time.UTC)
	rows, err := DowntimeByArea(db, start, start.AddDate(1, 0, 0))
	if err != nil {
		t.Fatalf("DowntimeByArea: %v", err)
	}
	if len(rows) != 2 {
		t.Fatalf("len = %d, want 2", len(rows))
	}
	if rows[0].Area != "Roof" || rows[0].DowntimeMinutes != 200 {
		t.Errorf("rows[0] = %+v, want Roof first with 200 min", rows[0])
	}
	if rows[1].Area != "Boiler" || rows[1].DowntimeMinutes != 150 || rows[1].Count != 2 {
		t.Errorf("rows[1] = %+v, want Boiler with 150 min over 2 breakdowns", rows[1])
	}
}

func TestBreakdownDynamics_FillsEmptyMonths(t *testing.T) {
	db := openReportsTestDB(t)
	for _, b := range []models.BreakdownReport{
		breakdown("Pump-1", "Boiler", "x", 10, time.Date(2025, time.February, 3, 0, 0, 0, 0, time.UTC)),
		breakdown("Pump-1", "Boiler", "x", 10, time.Date(2025, time.February, 20, 0, 0, 0, 0, time.UTC)),
		breakdown("Fan-1", "Roof", "x", 10, time.Date(2025, time.November, 1, 0, 0, 0, 0, time.UTC)),
		breakdown("Fan-1", "Roof", "x", 10, time.Date(2024, time.December, 31, 0, 0, 0, 0, time.UTC)),
	} {
		if err := db.Create(&b).Error; err != nil {
			t.Fatalf("seed: %v", err)
		}
	}

	counts, err := BreakdownDynamics(db, 2025)
	if err != nil {
		t.Fatalf("BreakdownDynamics: %v", err)
	}
	if len(counts) != 12 {
		t.Fatalf("len = %d, want 12 months", len(counts))
	}
	for i, c := range counts {
		if c.Month != i+1 {
			t.Fatalf("counts[%d].Month = %d", i, c.Month)
		}
	}
	if counts[1].Count != 2 || counts[10].Count != 1 {
		t.Errorf("February = %d, November = %d; want 2 and 1", counts[1].Count, counts[10].Count)
	}
	if counts[0].Count != 0 {
		t.Errorf("January = %d, want 0", counts[0].Count)
	}
}

func TestCompletionDynamics(t *testing.T) {
	db := openReportsTestDB(t)
	schedule := models.Schedule{Year: 2025, WorkersCount: 2, ShiftDurationHours: 7}
	if err := db.Create(&schedule).Error; err != nil {
		t.Fatalf("seed schedule: %v", err)
	}
	entries := []models.ScheduleEntry{
		{ScheduleID: schedule.ID, Equipment: "Pump-1", DiagnosticTypeID: 1,
			ScheduledDate: time.Date(2025, time.March, 3, 0, 0, 0, 0, time.UTC), Completed: true},
		{ScheduleID: schedule.ID, Equipment: "Pump-1", DiagnosticTypeID: 1,
			ScheduledDate: time.Date(2025, time.March, 17, 0, 0, 0, 0, time.UTC)},
		{ScheduleID: schedule.ID, Equipment: "Fan-1", DiagnosticTypeID: 1,
			ScheduledDate: time.Date(2025, time.July, 7, 0, 0, 0, 0, time.UTC)},
	}
	if err := db.Create(&entries).Error; err != nil {
		t.Fatalf("seed entries: %v", err)
	}

	months, err := CompletionDynamics(db, schedule.ID)
	if err != nil {
		t.Fatalf("CompletionDynamics: %v", err)
	}
	if len(months) != 12 {
		t.Fatalf("len = %d, want 12", len(months))
	}
	march := months[2]
	if march.Scheduled != 2 || march.Completed != 1 {
		t.Errorf("March = %+v, want 2 scheduled, 1 completed", march)
	}
	july := months[6]
	if july.Scheduled != 1 || july.Completed != 0 {
		t.Errorf("July = %+v, want 1 scheduled, 0 completed", july)
	}
}

func TestRepairHistory_NewestFirstWithLimit(t *testing.T) {
	db := openReportsTestDB(t)
	base := time.Date(2025, time.January, 1, 0, 0, 0, 0, time.UTC)
	for i := 0; i < 5; i++ {
		r := models.RepairRecord{
			Equipment: "Pump-1", Problem: "leak", Solution: "new seal",
			Mechanic: "Ivanov", RepairedAt: base.AddDate(0, i, 0),
		}
		if err := db.Create(&r).Error; err != nil {
			t.Fatalf("seed: %v", err)
		}
	}

	records, err := RepairHistory(db, "Pump-1", 3)
	if err != nil {
		t.Fatalf("RepairHistory: %v", err)
	}
	if len(records) != 3 {
		t.Fatalf("len = %d, want 3", len(records))
	}
	if !records[0].RepairedAt.After(records[1].RepairedAt) {
		t.Error("records not newest first")
	}

	none, err := RepairHistory(db, "Fan-9", 3)
	if err != nil {
		t.Fatalf("RepairHistory unknown equipment: %v", err)
	}
	if len(none) != 0 {
		t.Errorf("len = %d, want 0 for unknown equipment", len(none))
	}
}

func TestRecentBreakdowns(t *testing.T) {
	db := openReportsTestDB(t)
	at := time.Date(2025, time.June, 1, 0, 0, 0, 0, time.UTC)
	for _, b := range []models.BreakdownReport{
		breakdown("Pump-1", "Boiler", "old", 10, at),
		breakdown("Pump-1", "Boiler", "new", 10, at.AddDate(0, 1, 0)),
		breakdown("Fan-1", "Roof", "other", 10, at),
	} {
		if err := db.Create(&b).Error; err != nil {
			t.Fatalf("seed: %v", err)
		}
	}

	reports, err := RecentBreakdowns(db, "Pump-1", 10)
	if err != nil {
		t.Fatalf("RecentBreakdowns: %v", err)
	}
	if len(reports) != 2 {
		t.Fatalf("len = %d, want 2", len(reports))
	}
	if reports[0].Cause != "new" {
		t.Errorf("reports[0].Cause = %q, want the newest", reports[0].Cause)
	}
}
