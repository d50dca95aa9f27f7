package shiftController

import (
	"context"
	"fmt"

	"cleanops/internal/repositories"
	"cleanops/internal/services"
	"cleanops/internal/types"
	"cleanops/internal/utils"

	logger "github.com/Bparsons0904/goLogger"
	"github.com/google/uuid"

	. "cleanops/internal/models"
)

type ShiftQuery struct {
	Date    string `query:"date"`
	StaffID string `query:"staffId"`
	TaskID  string `query:"taskId"`
	GroupID string `query:"groupId"`
	From    string `query:"from"`
	To      string `query:"to"`
}

type ShiftController struct {
	shiftService *services.ShiftService
	log          logger.Logger
}

type ShiftControllerInterface interface {
	GetShift(ctx context.Context, id uuid.UUID) (*CleaningShift, error)
	ListShifts(ctx context.Context, query ShiftQuery) ([]*CleaningShift, error)
	CreateShift(ctx context.Context, req types.CreateShiftRequest) (*CleaningShift, error)
	UpdateShift(ctx context.Context, id uuid.UUID, req types.UpdateShiftRequest) (*CleaningShift, error)
	DeleteShift(ctx context.Context, id uuid.UUID) (bool, error)
	CheckIn(ctx context.Context, id uuid.UUID, req types.CheckInRequest) (*CleaningShift, error)
	CheckOut(ctx context.Context, id uuid.UUID, req types.CheckOutRequest) (*CleaningShift, error)
}

func New(services services.Service) ShiftControllerInterface {
	return &ShiftController{
		shiftService: services.Shift,
		log:          logger.New("shiftController"),
	}
}

func (c *ShiftController) GetShift(ctx context.Context, id uuid.UUID) (*CleaningShift, error) {
	return c.shiftService.GetShift(ctx, id)
}

func (c *ShiftController) ListShifts(ctx context.Context, query ShiftQuery) ([]*CleaningShift, error) {
	var filter repositories.ShiftFilter
	var err error

	if filter.Date, err = utils.ParseDateParam("date", query.Date); err != nil {
		return nil, err
	}
	if filter.StaffID, err = utils.ParseUUIDParam("staffId", query.StaffID); err != nil {
		return nil, err
	}
	if filter.TaskID, err = utils.ParseUUIDParam("taskId", query.TaskID); err != nil {
		return nil, err
	}
	if filter.GroupID, err = utils.ParseUUIDParam("groupId", query.GroupID); err != nil {
		return nil, err
	}
	if filter.From, err = utils.ParseDateParam("from", query.From); err != nil {
		return nil, err
	}
	if filter.To, err = utils.ParseDateParam("to", query.To); err != nil {
		return nil, err
	}
	if filter.From != nil && filter.To != nil && filter.To.Before(*filter.From) {
		return nil, fmt.Errorf("%w: to is before from", types.ErrValidation)
	}

	return c.shiftService.ListShifts(ctx, filter)
}

func (c *ShiftController) CreateShift(ctx context.Context, req types.CreateShiftRequest) (*CleaningShift, error) {
	log := c.log.TraceFromContext(ctx).Function("CreateShift")

	shift, err := c.shiftService.CreateShift(ctx, req)
	if err != nil {
		return nil, err
	}

	log.Info("Shift created", "shiftID", shift.ID, "taskID", shift.TaskID)
	return shift, nil
}

func (c *ShiftController) UpdateShift(
	ctx context.Context,
	id uuid.UUID,
	req types.UpdateShiftRequest,
) (*CleaningShift, error) {
	return c.shiftService.UpdateShift(ctx, id, req)
}

func (c *ShiftController) DeleteShift(ctx context.Context, id uuid.UUID) (bool, error) {
	return c.shiftService.DeleteShift(ctx, id)
}

func (c *ShiftController) CheckIn(
	ctx context.Context,
	id uuid.UUID,
	req types.CheckInRequest,
) (*CleaningShift, error) {
	return c.shiftService.CheckIn(ctx, id, req)
}

func (c *ShiftController) CheckOut(
	ctx context.Context,
	id uuid.UUID,
	req types.CheckOutRequest,
) (*CleaningShift, error) {
	return c.shiftService.CheckOut(ctx, id, req)
}
