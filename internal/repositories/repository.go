package repositories

import (
	"errors"
	"fmt"

	"cleanops/internal/database"
	"cleanops/internal/types"

	"gorm.io/gorm"
)

type Repository struct {
	Facility     FacilityRepository
	Reservation  ReservationRepository
	Staff        StaffRepository
	StaffGroup   StaffGroupRepository
	Availability AvailabilityRepository
	Task         TaskRepository
	Shift        ShiftRepository
	SyncRun      SyncRunRepository
}

func New(db database.DB) Repository {
	return Repository{
		Facility:     NewFacilityRepository(),
		Reservation:  NewReservationRepository(),
		Staff:        NewStaffRepository(),
		StaffGroup:   NewStaffGroupRepository(),
		Availability: NewAvailabilityRepository(db.Cache.Availability),
		Task:         NewTaskRepository(),
		Shift:        NewShiftRepository(),
		SyncRun:      NewSyncRunRepository(),
	}
}

func notFound(kind string, id any) error {
	return fmt.Errorf("%w: %s %v not found", types.ErrNotFound, kind, id)
}

func persistence(err error) error {
	return fmt.Errorf("%w: %w", types.ErrPersistence, err)
}

func isNotFound(err error) bool {
	return errors.Is(err, gorm.ErrRecordNotFound)
}
