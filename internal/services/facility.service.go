package services

import (
	"context"
	"strings"

	"cleanops/internal/repositories"
	"cleanops/internal/types"

	logger "github.com/Bparsons0904/goLogger"
	"github.com/google/uuid"
	"gorm.io/gorm"

	. "cleanops/internal/models"
)

type FacilityService struct {
	facilityRepo repositories.FacilityRepository
	transaction  *TransactionService
	db           *gorm.DB
	log          logger.Logger
}

func NewFacilityService(
	repos repositories.Repository,
	db *gorm.DB,
	transaction *TransactionService,
) *FacilityService {
	return &FacilityService{
		facilityRepo: repos.Facility,
		transaction:  transaction,
		db:           db,
		log:          logger.New("facilityService"),
	}
}

func (s *FacilityService) ListFacilities(ctx context.Context) ([]*Facility, error) {
	return s.facilityRepo.GetAll(ctx, s.db)
}

func (s *FacilityService) GetFacility(ctx context.Context, id uuid.UUID) (*Facility, error) {
	return s.facilityRepo.GetByID(ctx, s.db, id)
}

func (s *FacilityService) CreateFacility(
	ctx context.Context,
	req types.CreateFacilityRequest,
) (*Facility, error) {
	log := s.log.TraceFromContext(ctx).Function("CreateFacility")

	name := strings.TrimSpace(req.Name)
	if name == "" {
		return nil, log.ErrorWithType(types.ErrValidation, "name is required")
	}
	if req.MaxGuests < 0 || req.Bedrooms < 0 {
		return nil, log.ErrorWithType(types.ErrValidation, "maxGuests and bedrooms must not be negative")
	}

	facility := &Facility{
		Name:          name,
		FacilityGroup: strings.TrimSpace(req.FacilityGroup),
		Address:       req.Address,
		MaxGuests:     req.MaxGuests,
		Bedrooms:      req.Bedrooms,
		IsActive:      true,
	}

	err := s.transaction.Execute(ctx, func(ctx context.Context, tx *gorm.DB) error {
		existing, err := s.facilityRepo.GetByName(ctx, tx, name)
		if err != nil {
			return err
		}
		if existing != nil {
			return log.ErrorWithType(types.ErrConflict, "facility name already exists", "name", name)
		}
		return s.facilityRepo.Create(ctx, tx, facility)
	})
	if err != nil {
		return nil, err
	}

	log.Info("Facility created", "facilityID", facility.ID, "name", facility.Name)
	return facility, nil
}

func (s *FacilityService) UpdateFacility(
	ctx context.Context,
	id uuid.UUID,
	req types.UpdateFacilityRequest,
) (*Facility, error) {
	log := s.log.TraceFromContext(ctx).Function("UpdateFacility")

	err := s.transaction.Execute(ctx, func(ctx context.Context, tx *gorm.DB) error {
		facility, err := s.facilityRepo.GetByID(ctx, tx, id)
		if err != nil {
			return err
		}

		if req.Name != nil {
			name := strings.TrimSpace(*req.Name)
			if name == "" {
				return log.ErrorWithType(types.ErrValidation, "name must not be blank")
			}
			if name != facility.Name {
				existing, err := s.facilityRepo.GetByName(ctx, tx, name)
				if err != nil {
					return err
				}
				if existing != nil {
					return log.ErrorWithType(types.ErrConflict, "facility name already exists", "name", name)
				}
			}
			facility.Name = name
		}
		if req.FacilityGroup != nil {
			facility.FacilityGroup = strings.TrimSpace(*req.FacilityGroup)
		}
		if req.Address != nil {
			facility.Address = *req.Address
		}
		if req.MaxGuests != nil {
			if *req.MaxGuests <= 0 {
				return log.ErrorWithType(types.ErrValidation, "maxGuests must be positive")
			}
			facility.MaxGuests = *req.MaxGuests
		}
		if req.Bedrooms != nil {
			if *req.Bedrooms <= 0 {
				return log.ErrorWithType(types.ErrValidation, "bedrooms must be positive")
			}
			facility.Bedrooms = *req.Bedrooms
		}
		if req.IsActive != nil {
			facility.IsActive = *req.IsActive
		}

		return s.facilityRepo.Update(ctx, tx, facility)
	})
	if err != nil {
		return nil, err
	}

	return s.facilityRepo.GetByID(ctx, s.db, id)
}

func (s *FacilityService) GetSettings(
	ctx context.Context,
	facilityID uuid.UUID,
) (*FacilityCleaningSettings, error) {
	if _, err := s.facilityRepo.GetByID(ctx, s.db, facilityID); err != nil {
		return nil, err
	}
	return s.facilityRepo.GetSettings(ctx, s.db, facilityID)
}

// CreateSettings fails with a conflict when the facility already has settings.
func (s *FacilityService) CreateSettings(
	ctx context.Context,
	facilityID uuid.UUID,
	req types.FacilitySettingsRequest,
) (*FacilityCleaningSettings, error) {
	log := s.log.TraceFromContext(ctx).Function("CreateSettings")

	settings := &FacilityCleaningSettings{FacilityID: facilityID}
	if err := applySettings(log, settings, req); err != nil {
		return nil, err
	}

	err := s.transaction.Execute(ctx, func(ctx context.Context, tx *gorm.DB) error {
		if _, err := s.facilityRepo.GetByID(ctx, tx, facilityID); err != nil {
			return err
		}
		return s.facilityRepo.CreateSettings(ctx, tx, settings)
	})
	if err != nil {
		return nil, err
	}

	return settings, nil
}

func (s *FacilityService) UpdateSettings(
	ctx context.Context,
	facilityID uuid.UUID,
	req types.FacilitySettingsRequest,
) (*FacilityCleaningSettings, error) {
	log := s.log.TraceFromContext(ctx).Function("UpdateSettings")

	var settings *FacilityCleaningSettings
	err := s.transaction.Execute(ctx, func(ctx context.Context, tx *gorm.DB) error {
		var err error
		settings, err = s.facilityRepo.GetSettings(ctx, tx, facilityID)
		if err != nil {
			return err
		}
		if err := applySettings(log, settings, req); err != nil {
			return err
		}
		return s.facilityRepo.UpdateSettings(ctx, tx, settings)
	})
	if err != nil {
		return nil, err
	}

	return settings, nil
}

func applySettings(
	log logger.Logger,
	settings *FacilityCleaningSettings,
	req types.FacilitySettingsRequest,
) error {
	if req.StandardDurationMinutes < 0 || req.DeepCleaningDurationMinutes < 0 ||
		req.MinCleaningIntervalHours < 0 {
		return log.ErrorWithType(types.ErrValidation, "durations and intervals must not be negative")
	}

	var start, end ClockTime
	if req.PreferredStartTime != "" || req.PreferredEndTime != "" {
		var err error
		if start, err = ParseClockTime(req.PreferredStartTime); err != nil {
			return log.ErrorWithType(types.ErrValidation, err.Error())
		}
		if end, err = ParseClockTime(req.PreferredEndTime); err != nil {
			return log.ErrorWithType(types.ErrValidation, err.Error())
		}
		if err := ValidateWindow(start, end); err != nil {
			return log.ErrorWithType(types.ErrValidation, err.Error())
		}
	}

	checklist := make([]ChecklistItem, 0, len(req.Checklist))
	for _, item := range req.Checklist {
		name := strings.TrimSpace(item.Name)
		if name == "" {
			return log.ErrorWithType(types.ErrValidation, "checklist items need a name")
		}
		checklist = append(checklist, ChecklistItem{Name: name, Required: item.Required})
	}

	settings.StandardDurationMinutes = req.StandardDurationMinutes
	settings.DeepCleaningDurationMinutes = req.DeepCleaningDurationMinutes
	settings.MinCleaningIntervalHours = req.MinCleaningIntervalHours
	settings.PreferredStartTime = start
	settings.PreferredEndTime = end
	settings.Checklist = checklist
	settings.RequiredSupplies = nonNilStrings(req.RequiredSupplies)
	settings.PreferredStaffIDs = uniqueIDs(req.PreferredStaffIDs)
	settings.AutoAssign = req.AutoAssign
	settings.SpecialInstructions = req.SpecialInstructions
	return nil
}

func nonNilStrings(values []string) []string {
	if values == nil {
		return []string{}
	}
	return values
}
