package services

import (
	"context"
	"strings"
	"time"

	"cleanops/internal/repositories"
	"cleanops/internal/types"

	logger "github.com/Bparsons0904/goLogger"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	. "cleanops/internal/models"
)

// StaffService manages the staff and staff group directory.
type StaffService struct {
	staffRepo   repositories.StaffRepository
	groupRepo   repositories.StaffGroupRepository
	transaction *TransactionService
	db          *gorm.DB
	now         func() time.Time
	log         logger.Logger
}

func NewStaffService(
	repos repositories.Repository,
	db *gorm.DB,
	transaction *TransactionService,
) *StaffService {
	return &StaffService{
		staffRepo:   repos.Staff,
		groupRepo:   repos.StaffGroup,
		transaction: transaction,
		db:          db,
		now:         func() time.Time { return time.Now().UTC() },
		log:         logger.New("staffService"),
	}
}

func rateOrDefault(rate *decimal.Decimal, fallback decimal.Decimal) decimal.Decimal {
	if rate == nil {
		return fallback
	}
	return rate.Round(2)
}

func validateRates(log logger.Logger, rates ...*decimal.Decimal) error {
	for _, rate := range rates {
		if rate != nil && rate.IsNegative() {
			return log.ErrorWithType(types.ErrValidation, "rates and fees must not be negative")
		}
	}
	return nil
}

func validateSkillLevel(log logger.Logger, level int) error {
	if level < 1 || level > 5 {
		return log.ErrorWithType(types.ErrValidation, "skillLevel must be between 1 and 5", "skillLevel", level)
	}
	return nil
}

func (s *StaffService) ListStaff(ctx context.Context) ([]*Staff, error) {
	return s.staffRepo.GetAll(ctx, s.db)
}

func (s *StaffService) GetStaff(ctx context.Context, id uuid.UUID) (*Staff, error) {
	return s.staffRepo.GetByID(ctx, s.db, id)
}

func (s *StaffService) CreateStaff(ctx context.Context, req types.CreateStaffRequest) (*Staff, error) {
	log := s.log.TraceFromContext(ctx).Function("CreateStaff")

	name := strings.TrimSpace(req.Name)
	if name == "" {
		return nil, log.ErrorWithType(types.ErrValidation, "name is required")
	}

	skillLevel := req.SkillLevel
	if skillLevel == 0 {
		skillLevel = 1
	}
	if err := validateSkillLevel(log, skillLevel); err != nil {
		return nil, err
	}
	if err := validateRates(log, req.RatePerProperty, req.RatePerPropertyWithOption, req.TransportationFee); err != nil {
		return nil, err
	}

	staff := &Staff{
		Name:                      name,
		Email:                     strings.TrimSpace(req.Email),
		Phone:                     strings.TrimSpace(req.Phone),
		SkillLevel:                skillLevel,
		CanDrive:                  req.CanDrive,
		HasCar:                    req.HasCar,
		CanHandleLargeProperties:  req.CanHandleLargeProperties,
		AvailableFacilities:       uniqueIDs(req.AvailableFacilities),
		RatePerProperty:           rateOrDefault(req.RatePerProperty, DefaultStaffRate),
		RatePerPropertyWithOption: rateOrDefault(req.RatePerPropertyWithOption, DefaultStaffRateWithOption),
		TransportationFee:         rateOrDefault(req.TransportationFee, decimal.Zero),
		IsActive:                  true,
		Notes:                     req.Notes,
	}

	err := s.transaction.Execute(ctx, func(ctx context.Context, tx *gorm.DB) error {
		return s.staffRepo.Create(ctx, tx, staff)
	})
	if err != nil {
		return nil, err
	}

	log.Info("Staff created", "staffID", staff.ID)
	return staff, nil
}

func (s *StaffService) UpdateStaff(
	ctx context.Context,
	id uuid.UUID,
	req types.UpdateStaffRequest,
) (*Staff, error) {
	log := s.log.TraceFromContext(ctx).Function("UpdateStaff")

	if err := validateRates(log, req.RatePerProperty, req.RatePerPropertyWithOption, req.TransportationFee); err != nil {
		return nil, err
	}
	if req.SkillLevel != nil {
		if err := validateSkillLevel(log, *req.SkillLevel); err != nil {
			return nil, err
		}
	}

	var staff *Staff
	err := s.transaction.Execute(ctx, func(ctx context.Context, tx *gorm.DB) error {
		var err error
		if staff, err = s.staffRepo.GetByID(ctx, tx, id); err != nil {
			return err
		}

		if req.Name != nil {
			name := strings.TrimSpace(*req.Name)
			if name == "" {
				return log.ErrorWithType(types.ErrValidation, "name must not be blank")
			}
			staff.Name = name
		}
		if req.Email != nil {
			staff.Email = strings.TrimSpace(*req.Email)
		}
		if req.Phone != nil {
			staff.Phone = strings.TrimSpace(*req.Phone)
		}
		if req.SkillLevel != nil {
			staff.SkillLevel = *req.SkillLevel
		}
		if req.CanDrive != nil {
			staff.CanDrive = *req.CanDrive
		}
		if req.HasCar != nil {
			staff.HasCar = *req.HasCar
		}
		if req.CanHandleLargeProperties != nil {
			staff.CanHandleLargeProperties = *req.CanHandleLargeProperties
		}
		if req.AvailableFacilities != nil {
			staff.AvailableFacilities = uniqueIDs(req.AvailableFacilities)
		}
		if req.RatePerProperty != nil {
			staff.RatePerProperty = req.RatePerProperty.Round(2)
		}
		if req.RatePerPropertyWithOption != nil {
			staff.RatePerPropertyWithOption = req.RatePerPropertyWithOption.Round(2)
		}
		if req.TransportationFee != nil {
			staff.TransportationFee = req.TransportationFee.Round(2)
		}
		if req.IsActive != nil {
			staff.IsActive = *req.IsActive
		}
		if req.Notes != nil {
			staff.Notes = *req.Notes
		}

		return s.staffRepo.Update(ctx, tx, staff)
	})
	if err != nil {
		return nil, err
	}

	return staff, nil
}

// DeactivateStaff keeps the record and its history; inactive staff are never
// candidates for new shifts.
func (s *StaffService) DeactivateStaff(ctx context.Context, id uuid.UUID) error {
	inactive := false
	_, err := s.UpdateStaff(ctx, id, types.UpdateStaffRequest{IsActive: &inactive})
	return err
}

func (s *StaffService) ListGroups(ctx context.Context) ([]*StaffGroup, error) {
	return s.groupRepo.GetAll(ctx, s.db)
}

func (s *StaffService) GetGroup(ctx context.Context, id uuid.UUID) (*StaffGroup, error) {
	return s.groupRepo.GetByID(ctx, s.db, id)
}

func (s *StaffService) CreateGroup(
	ctx context.Context,
	req types.CreateGroupRequest,
) (*StaffGroup, error) {
	log := s.log.TraceFromContext(ctx).Function("CreateGroup")

	name := strings.TrimSpace(req.Name)
	if name == "" {
		return nil, log.ErrorWithType(types.ErrValidation, "name is required")
	}
	if req.MaxPropertiesPerDay < 0 {
		return nil, log.ErrorWithType(types.ErrValidation, "maxPropertiesPerDay must not be negative")
	}
	if err := validateRates(log, req.RatePerProperty, req.RatePerPropertyWithOption, req.TransportationFee); err != nil {
		return nil, err
	}

	group := &StaffGroup{
		Name:                        name,
		Description:                 req.Description,
		CanHandleLargeProperties:    req.CanHandleLargeProperties,
		CanHandleMultipleProperties: req.CanHandleMultipleProperties,
		MaxPropertiesPerDay:         req.MaxPropertiesPerDay,
		AvailableFacilities:         uniqueIDs(req.AvailableFacilities),
		RatePerProperty:             rateOrDefault(req.RatePerProperty, DefaultGroupRate),
		RatePerPropertyWithOption:   rateOrDefault(req.RatePerPropertyWithOption, DefaultGroupRateWithOption),
		TransportationFee:           rateOrDefault(req.TransportationFee, decimal.Zero),
		IsActive:                    true,
	}

	err := s.transaction.Execute(ctx, func(ctx context.Context, tx *gorm.DB) error {
		memberIDs := uniqueIDs(req.MemberIDs)
		staff, err := s.staffRepo.GetByIDs(ctx, tx, memberIDs)
		if err != nil {
			return err
		}
		for _, id := range memberIDs {
			if _, ok := staff[id]; !ok {
				return log.ErrorWithType(types.ErrNotFound, "group member not found", "staffID", id)
			}
		}

		if err := s.groupRepo.Create(ctx, tx, group); err != nil {
			return err
		}

		joined := DateOf(s.now())
		for _, id := range memberIDs {
			if err := s.groupRepo.AddMember(ctx, tx, &StaffGroupMember{
				GroupID:    group.ID,
				StaffID:    id,
				JoinedDate: joined,
			}); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	log.Info("Staff group created", "groupID", group.ID, "members", len(req.MemberIDs))
	return s.groupRepo.GetByID(ctx, s.db, group.ID)
}

func (s *StaffService) AddGroupMember(
	ctx context.Context,
	groupID uuid.UUID,
	req types.AddMemberRequest,
) (*StaffGroup, error) {
	log := s.log.TraceFromContext(ctx).Function("AddGroupMember")

	if req.StaffID == uuid.Nil {
		return nil, log.ErrorWithType(types.ErrValidation, "staffId is required")
	}

	err := s.transaction.Execute(ctx, func(ctx context.Context, tx *gorm.DB) error {
		if _, err := s.groupRepo.GetByID(ctx, tx, groupID); err != nil {
			return err
		}
		if _, err := s.staffRepo.GetByID(ctx, tx, req.StaffID); err != nil {
			return err
		}
		return s.groupRepo.AddMember(ctx, tx, &StaffGroupMember{
			GroupID:    groupID,
			StaffID:    req.StaffID,
			Role:       strings.TrimSpace(req.Role),
			IsLeader:   req.IsLeader,
			JoinedDate: DateOf(s.now()),
		})
	})
	if err != nil {
		return nil, err
	}

	return s.groupRepo.GetByID(ctx, s.db, groupID)
}

// EndGroupMembership stamps today's leave date on the active membership.
func (s *StaffService) EndGroupMembership(ctx context.Context, groupID, staffID uuid.UUID) error {
	return s.transaction.Execute(ctx, func(ctx context.Context, tx *gorm.DB) error {
		return s.groupRepo.EndMembership(ctx, tx, groupID, staffID, s.now())
	})
}

func (s *StaffService) UpdateGroup(
	ctx context.Context,
	id uuid.UUID,
	req types.UpdateGroupRequest,
) (*StaffGroup, error) {
	log := s.log.TraceFromContext(ctx).Function("UpdateGroup")

	if req.MaxPropertiesPerDay != nil && *req.MaxPropertiesPerDay < 0 {
		return nil, log.ErrorWithType(types.ErrValidation, "maxPropertiesPerDay must not be negative")
	}
	if err := validateRates(log, req.RatePerProperty, req.RatePerPropertyWithOption, req.TransportationFee); err != nil {
		return nil, err
	}

	err := s.transaction.Execute(ctx, func(ctx context.Context, tx *gorm.DB) error {
		group, err := s.groupRepo.GetByID(ctx, tx, id)
		if err != nil {
			return err
		}

		if req.Name != nil {
			name := strings.TrimSpace(*req.Name)
			if name == "" {
				return log.ErrorWithType(types.ErrValidation, "name must not be blank")
			}
			group.Name = name
		}
		if req.Description != nil {
			group.Description = *req.Description
		}
		if req.CanHandleLargeProperties != nil {
			group.CanHandleLargeProperties = *req.CanHandleLargeProperties
		}
		if req.CanHandleMultipleProperties != nil {
			group.CanHandleMultipleProperties = *req.CanHandleMultipleProperties
		}
		if req.MaxPropertiesPerDay != nil {
			group.MaxPropertiesPerDay = *req.MaxPropertiesPerDay
		}
		if req.AvailableFacilities != nil {
			group.AvailableFacilities = uniqueIDs(req.AvailableFacilities)
		}
		if req.RatePerProperty != nil {
			group.RatePerProperty = req.RatePerProperty.Round(2)
		}
		if req.RatePerPropertyWithOption != nil {
			group.RatePerPropertyWithOption = req.RatePerPropertyWithOption.Round(2)
		}
		if req.TransportationFee != nil {
			group.TransportationFee = req.TransportationFee.Round(2)
		}
		if req.IsActive != nil {
			group.IsActive = *req.IsActive
		}

		return s.groupRepo.Update(ctx, tx, group)
	})
	if err != nil {
		return nil, err
	}

	log.Info("Staff group updated", "groupID", id)
	return s.groupRepo.GetByID(ctx, s.db, id)
}

// DeactivateGroup is a logical delete. Memberships and shift history stay;
// inactive groups are rejected by group assignment.
func (s *StaffService) DeactivateGroup(ctx context.Context, id uuid.UUID) error {
	inactive := false
	_, err := s.UpdateGroup(ctx, id, types.UpdateGroupRequest{IsActive: &inactive})
	return err
}
