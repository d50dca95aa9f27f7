// Package testdb opens throwaway in-memory SQLite databases migrated with the
// service schema, plus small fixture builders for service tests.
package testdb

import (
	"testing"
	"time"

	"cleanops/internal/database"
	"cleanops/internal/models"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormLogger "gorm.io/gorm/logger"
)

// New returns a migrated database that lives as long as the test.
func New(t *testing.T) database.DB {
	t.Helper()

	sql, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: gormLogger.Default.LogMode(gormLogger.Silent),
		NowFunc: func() time.Time {
			return time.Now().UTC()
		},
	})
	require.NoError(t, err)

	sqlDB, err := sql.DB()
	require.NoError(t, err)
	// every connection to :memory: is a new database
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })

	require.NoError(t, sql.AutoMigrate(database.MigratedModels()...))

	return database.NewFromGorm(sql, database.Cache{})
}

func Facility(t *testing.T, db *gorm.DB, name string, maxGuests int) *models.Facility {
	t.Helper()

	facility := &models.Facility{Name: name, MaxGuests: maxGuests, Bedrooms: 1, IsActive: true}
	require.NoError(t, db.Create(facility).Error)
	return facility
}

type StaffOption func(*models.Staff)

func Staff(t *testing.T, db *gorm.DB, name string, opts ...StaffOption) *models.Staff {
	t.Helper()

	staff := &models.Staff{
		Name:                      name,
		SkillLevel:                1,
		RatePerProperty:           models.DefaultStaffRate,
		RatePerPropertyWithOption: models.DefaultStaffRateWithOption,
		TransportationFee:         decimal.NewFromInt(500),
		IsActive:                  true,
	}
	for _, opt := range opts {
		opt(staff)
	}
	require.NoError(t, db.Create(staff).Error)
	return staff
}

func WithRate(rate int64) StaffOption {
	return func(s *models.Staff) { s.RatePerProperty = decimal.NewFromInt(rate) }
}

func WithSkill(level int) StaffOption {
	return func(s *models.Staff) { s.SkillLevel = level }
}

func Inactive() StaffOption {
	return func(s *models.Staff) { s.IsActive = false }
}

func Group(t *testing.T, db *gorm.DB, name string, members ...*models.Staff) *models.StaffGroup {
	t.Helper()

	group := &models.StaffGroup{
		Name:                      name,
		MaxPropertiesPerDay:       3,
		RatePerProperty:           models.DefaultGroupRate,
		RatePerPropertyWithOption: models.DefaultGroupRateWithOption,
		TransportationFee:         decimal.NewFromInt(1000),
		IsActive:                  true,
	}
	require.NoError(t, db.Omit("Members").Create(group).Error)

	for _, member := range members {
		require.NoError(t, db.Omit("Staff").Create(&models.StaffGroupMember{
			GroupID:    group.ID,
			StaffID:    member.ID,
			JoinedDate: models.DateOf(time.Now()),
		}).Error)
	}
	return group
}

func Reservation(
	t *testing.T,
	db *gorm.DB,
	externalID string,
	facility *models.Facility,
	checkout time.Time,
) *models.Reservation {
	t.Helper()

	reservation := &models.Reservation{
		Source:       "test",
		ExternalID:   externalID,
		FacilityID:   &facility.ID,
		RoomType:     facility.Name,
		GuestName:    "Guest " + externalID,
		GuestCount:   2,
		CheckInDate:  models.DateOf(checkout).AddDate(0, 0, -2),
		CheckOutDate: models.DateOf(checkout),
	}
	require.NoError(t, db.Omit("Facility").Create(reservation).Error)
	return reservation
}

type TaskOption func(*models.CleaningTask)

func Task(
	t *testing.T,
	db *gorm.DB,
	facility *models.Facility,
	date time.Time,
	opts ...TaskOption,
) *models.CleaningTask {
	t.Helper()

	task := &models.CleaningTask{
		FacilityID:               facility.ID,
		CheckoutDate:             models.DateOf(date),
		CheckoutTime:             "10:00",
		ScheduledDate:            models.DateOf(date),
		ScheduledStartTime:       "11:00",
		ScheduledEndTime:         "13:00",
		EstimatedDurationMinutes: 120,
		Status:                   models.TaskStatusUnassigned,
	}
	for _, opt := range opts {
		opt(task)
	}
	require.NoError(t, db.Omit("Facility", "Reservation", "Shifts").Create(task).Error)
	return task
}

func WithPriority(priority int) TaskOption {
	return func(task *models.CleaningTask) { task.Priority = &priority }
}

func ForReservation(reservation *models.Reservation) TaskOption {
	return func(task *models.CleaningTask) { task.ReservationID = &reservation.ID }
}

func WithWindow(start, end models.ClockTime) TaskOption {
	return func(task *models.CleaningTask) {
		task.ScheduledStartTime = start
		task.ScheduledEndTime = end
	}
}

func RestrictedTo(group *models.StaffGroup) TaskOption {
	return func(task *models.CleaningTask) { task.RestrictedGroupID = &group.ID }
}

func WithNotes(notes string) TaskOption {
	return func(task *models.CleaningTask) { task.Notes = notes }
}
