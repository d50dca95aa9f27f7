package database

import (
	"cleanops/internal/models"

	logger "github.com/Bparsons0904/goLogger"
)

// MigratedModels lists every table the service owns, parents before children.
func MigratedModels() []any {
	return []any{
		&models.Facility{},
		&models.FacilityCleaningSettings{},
		&models.Reservation{},
		&models.Staff{},
		&models.StaffGroup{},
		&models.StaffGroupMember{},
		&models.StaffAvailability{},
		&models.CleaningTask{},
		&models.CleaningShift{},
		&models.SyncRun{},
	}
}

// MigrateModels runs GORM AutoMigrate for all models
func (db *DB) MigrateModels() error {
	log := logger.New("database").Function("MigrateModels")
	log.Info("Starting database migration")

	for _, model := range MigratedModels() {
		if err := db.SQL.AutoMigrate(model); err != nil {
			return log.Err("Failed to migrate model", err, "model", model)
		}
	}

	log.Info("Database migration completed successfully")
	return nil
}

// CreateIndexes creates partial indexes GORM tags cannot express. Failures are
// logged and skipped.
func (db *DB) CreateIndexes() error {
	log := logger.New("database").Function("CreateIndexes")
	log.Info("Creating additional database indexes")

	indexes := []string{
		"CREATE INDEX IF NOT EXISTS idx_cleaning_tasks_open ON cleaning_tasks(scheduled_date, status) WHERE deleted_at IS NULL AND status NOT IN ('completed', 'verified', 'cancelled')",
		"CREATE INDEX IF NOT EXISTS idx_cleaning_shifts_active_staff ON cleaning_shifts(staff_id, assigned_date) WHERE deleted_at IS NULL AND status <> 'cancelled'",
		"CREATE INDEX IF NOT EXISTS idx_cleaning_shifts_active_task ON cleaning_shifts(task_id) WHERE deleted_at IS NULL AND status <> 'cancelled'",
		"CREATE INDEX IF NOT EXISTS idx_reservations_active_checkout ON reservations(check_out_date) WHERE deleted_at IS NULL AND is_cancelled = false",
	}

	for _, indexSQL := range indexes {
		if err := db.SQL.Exec(indexSQL).Error; err != nil {
			log.Warn("Failed to create index", "sql", indexSQL, "error", err)
		}
	}

	log.Info("Additional database indexes created")
	return nil
}
