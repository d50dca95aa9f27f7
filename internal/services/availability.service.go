package services

import (
	"context"
	"time"

	"cleanops/internal/repositories"
	"cleanops/internal/types"

	logger "github.com/Bparsons0904/goLogger"
	"github.com/google/uuid"
	"gorm.io/gorm"

	. "cleanops/internal/models"
)

// AvailabilityService owns the per-month staff calendars. A month that was
// never recorded counts as fully available.
type AvailabilityService struct {
	availabilityRepo repositories.AvailabilityRepository
	staffRepo        repositories.StaffRepository
	transaction      *TransactionService
	db               *gorm.DB
	log              logger.Logger
}

func NewAvailabilityService(
	repos repositories.Repository,
	db *gorm.DB,
	transaction *TransactionService,
) *AvailabilityService {
	return &AvailabilityService{
		availabilityRepo: repos.Availability,
		staffRepo:        repos.Staff,
		transaction:      transaction,
		db:               db,
		log:              logger.New("availabilityService"),
	}
}

func validateMonth(log logger.Logger, year, month int) error {
	if year < 1 || month < 1 || month > 12 {
		return log.ErrorWithType(types.ErrValidation, "invalid year or month", "year", year, "month", month)
	}
	return nil
}

func toMonthAvailability(availability *StaffAvailability) *types.MonthAvailability {
	return &types.MonthAvailability{
		StaffID: availability.StaffID,
		Year:    availability.Year,
		Month:   availability.Month,
		Days:    availability.MonthDays(),
		Notes:   availability.Notes,
	}
}

// IsAvailable is true when no calendar exists for the date's month.
func (s *AvailabilityService) IsAvailable(
	ctx context.Context,
	staffID uuid.UUID,
	date time.Time,
) (bool, error) {
	availability, err := s.availabilityRepo.Get(ctx, s.db, staffID, date.Year(), date.Month())
	if err != nil {
		return false, err
	}
	if availability == nil {
		return true, nil
	}
	return availability.IsAvailable(date.Day()), nil
}

// AvailabilityForDate resolves many staff members in one query. Staff without
// a calendar are reported available.
func (s *AvailabilityService) AvailabilityForDate(
	ctx context.Context,
	tx *gorm.DB,
	staffIDs []uuid.UUID,
	date time.Time,
) (map[uuid.UUID]bool, error) {
	calendars, err := s.availabilityRepo.GetForStaff(ctx, tx, staffIDs, date.Year(), date.Month())
	if err != nil {
		return nil, err
	}

	result := make(map[uuid.UUID]bool, len(staffIDs))
	for _, staffID := range staffIDs {
		calendar, ok := calendars[staffID]
		result[staffID] = !ok || calendar.IsAvailable(date.Day())
	}
	return result, nil
}

// GetMonth returns the calendar, creating an all-available one on first read.
func (s *AvailabilityService) GetMonth(
	ctx context.Context,
	staffID uuid.UUID,
	year, month int,
) (*types.MonthAvailability, error) {
	log := s.log.TraceFromContext(ctx).Function("GetMonth")

	if err := validateMonth(log, year, month); err != nil {
		return nil, err
	}

	var availability *StaffAvailability
	err := s.transaction.Execute(ctx, func(ctx context.Context, tx *gorm.DB) error {
		if _, err := s.staffRepo.GetByID(ctx, tx, staffID); err != nil {
			return err
		}

		existing, err := s.availabilityRepo.Get(ctx, tx, staffID, year, time.Month(month))
		if err != nil {
			return err
		}
		if existing != nil {
			availability = existing
			return nil
		}

		availability = NewMonthAvailability(staffID, year, time.Month(month), true)
		return s.availabilityRepo.Save(ctx, tx, availability)
	})
	if err != nil {
		return nil, err
	}

	return toMonthAvailability(availability), nil
}

// SetMonth replaces every day of the month. days must cover the whole month.
func (s *AvailabilityService) SetMonth(
	ctx context.Context,
	staffID uuid.UUID,
	year, month int,
	req types.SetMonthAvailabilityRequest,
) (*types.MonthAvailability, error) {
	log := s.log.TraceFromContext(ctx).Function("SetMonth")

	if err := validateMonth(log, year, month); err != nil {
		return nil, err
	}

	daysInMonth := DaysIn(year, time.Month(month))
	if len(req.Days) != daysInMonth {
		return nil, log.ErrorWithType(
			types.ErrValidation,
			"days must contain one entry per day of the month",
			"expected", daysInMonth,
			"received", len(req.Days),
		)
	}

	var availability *StaffAvailability
	err := s.transaction.Execute(ctx, func(ctx context.Context, tx *gorm.DB) error {
		var err error
		availability, err = s.loadOrNew(ctx, tx, staffID, year, month, true)
		if err != nil {
			return err
		}

		for i, available := range req.Days {
			if err := availability.SetDay(i+1, available); err != nil {
				return err
			}
		}
		availability.Notes = req.Notes

		return s.availabilityRepo.Save(ctx, tx, availability)
	})
	if err != nil {
		return nil, err
	}

	return toMonthAvailability(availability), nil
}

func (s *AvailabilityService) SetDay(
	ctx context.Context,
	staffID uuid.UUID,
	year, month, day int,
	available bool,
) error {
	log := s.log.TraceFromContext(ctx).Function("SetDay")

	if err := validateMonth(log, year, month); err != nil {
		return err
	}
	if day < 1 || day > DaysIn(year, time.Month(month)) {
		return log.ErrorWithType(types.ErrValidation, "day is outside the month", "day", day)
	}

	err := s.transaction.Execute(ctx, func(ctx context.Context, tx *gorm.DB) error {
		availability, err := s.loadOrNew(ctx, tx, staffID, year, month, true)
		if err != nil {
			return err
		}

		if err := availability.SetDay(day, available); err != nil {
			return err
		}
		return s.availabilityRepo.Save(ctx, tx, availability)
	})
	if err != nil {
		return err
	}

	return nil
}

// InitializeMonth resets every day of the month to defaultAvailable, creating
// the calendar when needed.
func (s *AvailabilityService) InitializeMonth(
	ctx context.Context,
	staffID uuid.UUID,
	year, month int,
	defaultAvailable bool,
) (*types.MonthAvailability, error) {
	log := s.log.TraceFromContext(ctx).Function("InitializeMonth")

	if err := validateMonth(log, year, month); err != nil {
		return nil, err
	}

	var availability *StaffAvailability
	err := s.transaction.Execute(ctx, func(ctx context.Context, tx *gorm.DB) error {
		var err error
		availability, err = s.loadOrNew(ctx, tx, staffID, year, month, defaultAvailable)
		if err != nil {
			return err
		}

		availability.Days = AllDays(defaultAvailable)
		return s.availabilityRepo.Save(ctx, tx, availability)
	})
	if err != nil {
		return nil, err
	}

	return toMonthAvailability(availability), nil
}

// AvailableStaffForDate lists active staff whose calendar allows the date.
func (s *AvailabilityService) AvailableStaffForDate(
	ctx context.Context,
	date time.Time,
) ([]*Staff, error) {
	staff, err := s.staffRepo.GetActive(ctx, s.db)
	if err != nil {
		return nil, err
	}

	ids := make([]uuid.UUID, len(staff))
	for i, member := range staff {
		ids[i] = member.ID
	}

	availability, err := s.AvailabilityForDate(ctx, s.db, ids, date)
	if err != nil {
		return nil, err
	}

	available := make([]*Staff, 0, len(staff))
	for _, member := range staff {
		if availability[member.ID] {
			available = append(available, member)
		}
	}
	return available, nil
}

func (s *AvailabilityService) loadOrNew(
	ctx context.Context,
	tx *gorm.DB,
	staffID uuid.UUID,
	year, month int,
	defaultAvailable bool,
) (*StaffAvailability, error) {
	if _, err := s.staffRepo.GetByID(ctx, tx, staffID); err != nil {
		return nil, err
	}

	availability, err := s.availabilityRepo.Get(ctx, tx, staffID, year, time.Month(month))
	if err != nil {
		return nil, err
	}
	if availability == nil {
		availability = NewMonthAvailability(staffID, year, time.Month(month), defaultAvailable)
	}
	return availability, nil
}

// MonthOverview lists every active staff member's calendar for the month.
// Nothing is created for staff without a calendar.
func (s *AvailabilityService) MonthOverview(
	ctx context.Context,
	year, month int,
) (*types.MonthOverview, error) {
	log := s.log.TraceFromContext(ctx).Function("MonthOverview")

	if err := validateMonth(log, year, month); err != nil {
		return nil, err
	}

	staff, err := s.staffRepo.GetActive(ctx, s.db)
	if err != nil {
		return nil, err
	}

	ids := make([]uuid.UUID, 0, len(staff))
	for _, member := range staff {
		ids = append(ids, member.ID)
	}
	calendars, err := s.availabilityRepo.GetForStaff(ctx, s.db, ids, year, time.Month(month))
	if err != nil {
		return nil, err
	}

	overview := &types.MonthOverview{
		Year:  year,
		Month: month,
		Staff: make([]types.StaffMonthAvailability, 0, len(staff)),
	}
	for _, member := range staff {
		row := types.StaffMonthAvailability{StaffID: member.ID, StaffName: member.Name}
		if calendar, ok := calendars[member.ID]; ok {
			row.Days = calendar.MonthDays()
			row.Notes = calendar.Notes
			row.Recorded = true
		} else {
			row.Days = NewMonthAvailability(member.ID, year, time.Month(month), true).MonthDays()
		}
		overview.Staff = append(overview.Staff, row)
	}

	return overview, nil
}
