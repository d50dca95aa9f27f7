package staffController

import (
	"context"

	"cleanops/internal/services"
	"cleanops/internal/types"
	"cleanops/internal/utils"

	logger "github.com/Bparsons0904/goLogger"
	"github.com/google/uuid"

	. "cleanops/internal/models"
)

// StaffController covers individual staff, their monthly availability and
// staff groups.
type StaffController struct {
	staffService        *services.StaffService
	availabilityService *services.AvailabilityService
	log                 logger.Logger
}

type StaffControllerInterface interface {
	ListStaff(ctx context.Context) ([]*Staff, error)
	GetStaff(ctx context.Context, id uuid.UUID) (*Staff, error)
	CreateStaff(ctx context.Context, req types.CreateStaffRequest) (*Staff, error)
	UpdateStaff(ctx context.Context, id uuid.UUID, req types.UpdateStaffRequest) (*Staff, error)
	DeleteStaff(ctx context.Context, id uuid.UUID) error

	GetAvailability(ctx context.Context, staffID uuid.UUID, year, month int) (*types.MonthAvailability, error)
	SetAvailability(
		ctx context.Context,
		staffID uuid.UUID,
		year, month int,
		req types.SetMonthAvailabilityRequest,
	) (*types.MonthAvailability, error)
	SetDayAvailability(
		ctx context.Context,
		staffID uuid.UUID,
		year, month, day int,
		req types.SetDayAvailabilityRequest,
	) error
	InitializeAvailability(
		ctx context.Context,
		staffID uuid.UUID,
		year, month int,
		req types.InitializeMonthRequest,
	) (*types.MonthAvailability, error)
	AvailableStaff(ctx context.Context, date string) ([]*Staff, error)
	AvailabilityOverview(ctx context.Context, year, month int) (*types.MonthOverview, error)

	ListGroups(ctx context.Context) ([]*StaffGroup, error)
	GetGroup(ctx context.Context, id uuid.UUID) (*StaffGroup, error)
	CreateGroup(ctx context.Context, req types.CreateGroupRequest) (*StaffGroup, error)
	UpdateGroup(ctx context.Context, id uuid.UUID, req types.UpdateGroupRequest) (*StaffGroup, error)
	DeleteGroup(ctx context.Context, id uuid.UUID) error
	AddGroupMember(ctx context.Context, groupID uuid.UUID, req types.AddMemberRequest) (*StaffGroup, error)
	RemoveGroupMember(ctx context.Context, groupID, staffID uuid.UUID) error
}

func New(services services.Service) StaffControllerInterface {
	return &StaffController{
		staffService:        services.Staff,
		availabilityService: services.Availability,
		log:                 logger.New("staffController"),
	}
}

func (c *StaffController) ListStaff(ctx context.Context) ([]*Staff, error) {
	return c.staffService.ListStaff(ctx)
}

func (c *StaffController) GetStaff(ctx context.Context, id uuid.UUID) (*Staff, error) {
	return c.staffService.GetStaff(ctx, id)
}

func (c *StaffController) CreateStaff(ctx context.Context, req types.CreateStaffRequest) (*Staff, error) {
	log := c.log.TraceFromContext(ctx).Function("CreateStaff")

	staff, err := c.staffService.CreateStaff(ctx, req)
	if err != nil {
		return nil, err
	}

	log.Info("Staff created", "staffID", staff.ID, "name", staff.Name)
	return staff, nil
}

func (c *StaffController) UpdateStaff(
	ctx context.Context,
	id uuid.UUID,
	req types.UpdateStaffRequest,
) (*Staff, error) {
	return c.staffService.UpdateStaff(ctx, id, req)
}

// DeleteStaff deactivates; shift history keeps pointing at the record.
func (c *StaffController) DeleteStaff(ctx context.Context, id uuid.UUID) error {
	log := c.log.TraceFromContext(ctx).Function("DeleteStaff")

	if err := c.staffService.DeactivateStaff(ctx, id); err != nil {
		return err
	}

	log.Info("Staff deactivated", "staffID", id)
	return nil
}

func (c *StaffController) GetAvailability(
	ctx context.Context,
	staffID uuid.UUID,
	year, month int,
) (*types.MonthAvailability, error) {
	return c.availabilityService.GetMonth(ctx, staffID, year, month)
}

func (c *StaffController) SetAvailability(
	ctx context.Context,
	staffID uuid.UUID,
	year, month int,
	req types.SetMonthAvailabilityRequest,
) (*types.MonthAvailability, error) {
	return c.availabilityService.SetMonth(ctx, staffID, year, month, req)
}

func (c *StaffController) SetDayAvailability(
	ctx context.Context,
	staffID uuid.UUID,
	year, month, day int,
	req types.SetDayAvailabilityRequest,
) error {
	return c.availabilityService.SetDay(ctx, staffID, year, month, day, req.Available)
}

func (c *StaffController) InitializeAvailability(
	ctx context.Context,
	staffID uuid.UUID,
	year, month int,
	req types.InitializeMonthRequest,
) (*types.MonthAvailability, error) {
	return c.availabilityService.InitializeMonth(ctx, staffID, year, month, req.DefaultAvailable)
}

func (c *StaffController) AvailableStaff(ctx context.Context, date string) ([]*Staff, error) {
	day, err := utils.RequireDateParam("date", date)
	if err != nil {
		return nil, err
	}
	return c.availabilityService.AvailableStaffForDate(ctx, day)
}

func (c *StaffController) AvailabilityOverview(
	ctx context.Context,
	year, month int,
) (*types.MonthOverview, error) {
	return c.availabilityService.MonthOverview(ctx, year, month)
}

func (c *StaffController) ListGroups(ctx context.Context) ([]*StaffGroup, error) {
	return c.staffService.ListGroups(ctx)
}

func (c *StaffController) GetGroup(ctx context.Context, id uuid.UUID) (*StaffGroup, error) {
	return c.staffService.GetGroup(ctx, id)
}

func (c *StaffController) CreateGroup(ctx context.Context, req types.CreateGroupRequest) (*StaffGroup, error) {
	log := c.log.TraceFromContext(ctx).Function("CreateGroup")

	group, err := c.staffService.CreateGroup(ctx, req)
	if err != nil {
		return nil, err
	}

	log.Info("Staff group created", "groupID", group.ID, "members", len(group.Members))
	return group, nil
}

func (c *StaffController) UpdateGroup(
	ctx context.Context,
	id uuid.UUID,
	req types.UpdateGroupRequest,
) (*StaffGroup, error) {
	return c.staffService.UpdateGroup(ctx, id, req)
}

// DeleteGroup deactivates the group; its shifts and memberships are kept.
func (c *StaffController) DeleteGroup(ctx context.Context, id uuid.UUID) error {
	log := c.log.TraceFromContext(ctx).Function("DeleteGroup")

	if err := c.staffService.DeactivateGroup(ctx, id); err != nil {
		return err
	}

	log.Info("Staff group deactivated", "groupID", id)
	return nil
}

func (c *StaffController) AddGroupMember(
	ctx context.Context,
	groupID uuid.UUID,
	req types.AddMemberRequest,
) (*StaffGroup, error) {
	return c.staffService.AddGroupMember(ctx, groupID, req)
}

func (c *StaffController) RemoveGroupMember(ctx context.Context, groupID, staffID uuid.UUID) error {
	return c.staffService.EndGroupMembership(ctx, groupID, staffID)
}
