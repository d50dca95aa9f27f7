package initialize

import (
	"time"

	"cleanops/config"

	logger "github.com/Bparsons0904/goLogger"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	. "cleanops/internal/models"
)

func InitializeTables(db *gorm.DB, config config.Config, log logger.Logger) error {
	log = log.Function("InitializeTables")
	log.Info("Initializing essential production data")

	if err := initializeCalendars(db, time.Now().UTC(), log); err != nil {
		return log.Err("failed to initialize availability calendars", err)
	}

	log.Info("Table initialization complete")
	return nil
}

// initializeCalendars gives every active staff member an all-available
// calendar for the current and next month. Existing calendars are untouched.
func initializeCalendars(db *gorm.DB, now time.Time, log logger.Logger) error {
	var staff []Staff
	if err := db.Where("is_active = ?", true).Find(&staff).Error; err != nil {
		return log.Err("failed to load staff", err)
	}

	current := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, time.UTC)
	months := []time.Time{current, current.AddDate(0, 1, 0)}

	created := 0
	for _, member := range staff {
		for _, month := range months {
			calendar := NewMonthAvailability(member.ID, month.Year(), month.Month(), true)
			result := db.Clauses(clause.OnConflict{DoNothing: true}).Create(calendar)
			if result.Error != nil {
				return log.Err("failed to create calendar", result.Error,
					"staffID", member.ID,
					"year", month.Year(),
					"month", int(month.Month()),
				)
			}
			created += int(result.RowsAffected)
		}
	}

	log.Info("Availability calendars initialized", "staff", len(staff), "created", created)
	return nil
}
