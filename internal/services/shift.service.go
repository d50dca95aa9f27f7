package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"cleanops/config"
	"cleanops/internal/repositories"
	"cleanops/internal/types"

	logger "github.com/Bparsons0904/goLogger"
	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	. "cleanops/internal/models"
)

// ShiftService is the ledger of assignments. Every path that adds or removes
// an active shift goes through addShiftTx or detachShiftTx so sibling wages
// and the task status stay consistent.
type ShiftService struct {
	shiftRepo   repositories.ShiftRepository
	taskRepo    repositories.TaskRepository
	staffRepo   repositories.StaffRepository
	transaction *TransactionService
	db          *gorm.DB
	defaults    config.CleaningDefaults
	now         func() time.Time
	log         logger.Logger
}

func NewShiftService(
	repos repositories.Repository,
	db *gorm.DB,
	transaction *TransactionService,
	defaults config.CleaningDefaults,
) *ShiftService {
	return &ShiftService{
		shiftRepo:   repos.Shift,
		taskRepo:    repos.Task,
		staffRepo:   repos.Staff,
		transaction: transaction,
		db:          db,
		defaults:    defaults,
		now:         func() time.Time { return time.Now().UTC() },
		log:         logger.New("shiftService"),
	}
}

func shiftPayer(shift *CleaningShift) (PayRateSource, error) {
	switch {
	case shift.StaffID != nil && shift.Staff != nil:
		return shift.Staff, nil
	case shift.GroupID != nil && shift.Group != nil:
		return shift.Group, nil
	}
	return nil, fmt.Errorf("%w: shift %s has no staff or group loaded", types.ErrPersistence, shift.ID)
}

// acceptsShifts reports whether a task in this status may gain a shift.
func acceptsShifts(status TaskStatus) bool {
	return status == TaskStatusUnassigned || status.IsStaffed()
}

// addShiftTx persists shift for task, splitting pay across the new headcount
// and moving an unassigned task to assigned.
func (s *ShiftService) addShiftTx(
	ctx context.Context,
	tx *gorm.DB,
	task *CleaningTask,
	shift *CleaningShift,
	payer PayRateSource,
) error {
	siblings, err := s.shiftRepo.GetActiveByTask(ctx, tx, task.ID)
	if err != nil {
		return err
	}

	headcount := len(siblings) + 1
	shift.TaskID = task.ID
	shift.ApplyWage(payer, headcount)
	if err := s.shiftRepo.Create(ctx, tx, shift); err != nil {
		return err
	}

	if err := s.recomputeSiblings(ctx, tx, siblings, headcount); err != nil {
		return err
	}

	if task.Status == TaskStatusUnassigned {
		if err := task.UpdateStatus(TaskStatusAssigned); err != nil {
			return err
		}
		return s.taskRepo.Save(ctx, tx, task)
	}
	return nil
}

// detachShiftTx runs after a shift stopped counting (deleted or cancelled). It
// re-splits pay over the remaining shifts and reverts the task when none are
// left.
func (s *ShiftService) detachShiftTx(ctx context.Context, tx *gorm.DB, taskID uuid.UUID) error {
	remaining, err := s.shiftRepo.GetActiveByTask(ctx, tx, taskID)
	if err != nil {
		return err
	}

	if err := s.recomputeSiblings(ctx, tx, remaining, len(remaining)); err != nil {
		return err
	}
	if len(remaining) > 0 {
		return nil
	}

	task, err := s.taskRepo.GetByID(ctx, tx, taskID)
	if err != nil {
		return err
	}
	if !task.Status.IsStaffed() {
		return nil
	}
	if err := task.UpdateStatus(TaskStatusUnassigned); err != nil {
		return err
	}
	return s.taskRepo.Save(ctx, tx, task)
}

func (s *ShiftService) recomputeSiblings(
	ctx context.Context,
	tx *gorm.DB,
	siblings []*CleaningShift,
	headcount int,
) error {
	for _, sibling := range siblings {
		payer, err := shiftPayer(sibling)
		if err != nil {
			return err
		}
		sibling.ApplyWage(payer, headcount)
		if err := s.shiftRepo.Save(ctx, tx, sibling); err != nil {
			return err
		}
	}
	return nil
}

// hasOverlap reports whether staffID already works a window on date that
// overlaps start-end.
func (s *ShiftService) hasOverlap(
	ctx context.Context,
	tx *gorm.DB,
	staffID uuid.UUID,
	date time.Time,
	start, end ClockTime,
) (bool, error) {
	existing, err := s.shiftRepo.GetActiveByStaffForDate(ctx, tx, staffID, date)
	if err != nil {
		return false, err
	}
	for _, shift := range existing {
		if WindowsOverlap(start, end, shift.ScheduledStartTime, shift.ScheduledEndTime) {
			return true, nil
		}
	}
	return false, nil
}

func (s *ShiftService) CreateShift(
	ctx context.Context,
	req types.CreateShiftRequest,
) (*CleaningShift, error) {
	log := s.log.TraceFromContext(ctx).Function("CreateShift")

	if req.StaffID == uuid.Nil || req.TaskID == uuid.Nil {
		return nil, log.ErrorWithType(types.ErrValidation, "staffId and taskId are required")
	}
	if req.Bonus != nil && req.Bonus.IsNegative() {
		return nil, log.ErrorWithType(types.ErrValidation, "bonus cannot be negative")
	}

	var shift *CleaningShift
	err := s.transaction.Execute(ctx, func(ctx context.Context, tx *gorm.DB) error {
		task, err := s.taskRepo.GetByID(ctx, tx, req.TaskID)
		if err != nil {
			return err
		}
		if !acceptsShifts(task.Status) {
			return log.ErrorWithType(
				types.ErrValidation,
				fmt.Sprintf("task %s cannot take shifts while %s", task.ID, task.Status),
			)
		}

		staff, err := s.staffRepo.GetByID(ctx, tx, req.StaffID)
		if err != nil {
			return err
		}
		if !staff.IsActive {
			return log.ErrorWithType(types.ErrValidation, "staff member is inactive", "staffID", staff.ID)
		}

		exists, err := s.shiftRepo.ExistsActiveForStaffAndTask(ctx, tx, staff.ID, task.ID)
		if err != nil {
			return err
		}
		if exists {
			return fmt.Errorf("%w: staff %s is already assigned to task %s", types.ErrConflict, staff.ID, task.ID)
		}

		assignedDate := task.ScheduledDate
		if req.AssignedDate != "" {
			parsed, err := ParseDate(req.AssignedDate)
			if err != nil {
				return log.ErrorWithType(types.ErrValidation, err.Error())
			}
			assignedDate = parsed
		}

		start, end := task.ScheduledStartTime, task.ScheduledEndTime
		reqStart, reqEnd, explicit, err := ParseWindow(req.ScheduledStartTime, req.ScheduledEndTime)
		if err != nil {
			return log.ErrorWithType(types.ErrValidation, err.Error())
		}
		if explicit {
			start, end = reqStart, reqEnd
		}
		if err := ValidateWindow(start, end); err != nil {
			return log.ErrorWithType(types.ErrValidation, err.Error(), "start", start, "end", end)
		}

		if s.defaults.ValidateOverlap {
			overlap, err := s.hasOverlap(ctx, tx, staff.ID, assignedDate, start, end)
			if err != nil {
				return err
			}
			if overlap {
				return fmt.Errorf(
					"%w: staff %s already works an overlapping window on %s",
					types.ErrConflict,
					staff.ID,
					FormatDate(assignedDate),
				)
			}
		}

		staffID := staff.ID
		shift = &CleaningShift{
			StaffID:            &staffID,
			AssignedDate:       DateOf(assignedDate),
			ScheduledStartTime: start,
			ScheduledEndTime:   end,
			Status:             ShiftStatusScheduled,
			IsOptionIncluded:   req.IsOptionIncluded,
			Notes:              req.Notes,
			CreatedBy:          req.CreatedBy,
		}
		if req.Bonus != nil {
			shift.Bonus = req.Bonus.Round(2)
		}

		return s.addShiftTx(ctx, tx, task, shift, staff)
	})
	if err != nil {
		return nil, err
	}

	log.Info("Shift created", "shiftID", shift.ID, "taskID", shift.TaskID, "staffID", req.StaffID)
	return s.shiftRepo.GetByID(ctx, s.db, shift.ID)
}

func (s *ShiftService) GetShift(ctx context.Context, id uuid.UUID) (*CleaningShift, error) {
	return s.shiftRepo.GetByID(ctx, s.db, id)
}

func (s *ShiftService) ListShifts(
	ctx context.Context,
	filter repositories.ShiftFilter,
) ([]*CleaningShift, error) {
	return s.shiftRepo.List(ctx, s.db, filter)
}

// DeleteShift removes a shift and re-splits pay on its task. It reports false
// when the shift does not exist.
func (s *ShiftService) DeleteShift(ctx context.Context, id uuid.UUID) (bool, error) {
	log := s.log.TraceFromContext(ctx).Function("DeleteShift")

	err := s.transaction.Execute(ctx, func(ctx context.Context, tx *gorm.DB) error {
		shift, err := s.shiftRepo.GetByID(ctx, tx, id)
		if err != nil {
			return err
		}

		if err := s.shiftRepo.Delete(ctx, tx, shift.ID); err != nil {
			return err
		}
		return s.detachShiftTx(ctx, tx, shift.TaskID)
	})
	if errors.Is(err, types.ErrNotFound) {
		return false, nil
	}
	if err != nil {
		return false, err
	}

	log.Info("Shift deleted", "shiftID", id)
	return true, nil
}

func (s *ShiftService) UpdateShift(
	ctx context.Context,
	id uuid.UUID,
	req types.UpdateShiftRequest,
) (*CleaningShift, error) {
	log := s.log.TraceFromContext(ctx).Function("UpdateShift")

	if req.PerformanceRating != nil && (*req.PerformanceRating < 1 || *req.PerformanceRating > 5) {
		return nil, log.ErrorWithType(types.ErrValidation, "performanceRating must be between 1 and 5")
	}
	if req.Bonus != nil && req.Bonus.IsNegative() {
		return nil, log.ErrorWithType(types.ErrValidation, "bonus cannot be negative")
	}

	err := s.transaction.Execute(ctx, func(ctx context.Context, tx *gorm.DB) error {
		shift, err := s.shiftRepo.GetByID(ctx, tx, id)
		if err != nil {
			return err
		}

		start, end := shift.ScheduledStartTime, shift.ScheduledEndTime
		if req.ScheduledStartTime != nil {
			start = ClockTime(*req.ScheduledStartTime)
		}
		if req.ScheduledEndTime != nil {
			end = ClockTime(*req.ScheduledEndTime)
		}
		if err := ValidateWindow(start, end); err != nil {
			return log.ErrorWithType(types.ErrValidation, err.Error(), "start", start, "end", end)
		}
		shift.ScheduledStartTime, shift.ScheduledEndTime = start, end

		if req.IsOptionIncluded != nil || req.Bonus != nil {
			if req.IsOptionIncluded != nil {
				shift.IsOptionIncluded = *req.IsOptionIncluded
			}
			if req.Bonus != nil {
				shift.Bonus = req.Bonus.Round(2)
			}
			payer, err := shiftPayer(shift)
			if err != nil {
				return err
			}
			shift.ApplyWage(payer, shift.NumAssignedStaff)
		}

		if req.PerformanceRating != nil {
			shift.PerformanceRating = req.PerformanceRating
		}
		if req.Notes != nil {
			shift.Notes = *req.Notes
		}
		if req.CancellationReason != nil {
			shift.CancellationReason = *req.CancellationReason
		}

		if req.Status == nil || ShiftStatus(*req.Status) == shift.Status {
			return s.shiftRepo.Save(ctx, tx, shift)
		}

		next := ShiftStatus(*req.Status)
		if !next.IsValid() {
			return log.ErrorWithType(types.ErrValidation, "unknown shift status", "status", *req.Status)
		}
		return s.transitionTx(ctx, tx, log, shift, next)
	})
	if err != nil {
		return nil, err
	}

	return s.shiftRepo.GetByID(ctx, s.db, id)
}

// transitionTx moves a shift to next, stamps actual times and carries the
// change over to the owning task.
func (s *ShiftService) transitionTx(
	ctx context.Context,
	tx *gorm.DB,
	log logger.Logger,
	shift *CleaningShift,
	next ShiftStatus,
) error {
	if err := shift.UpdateStatus(next); err != nil {
		return invalidTransition(log, "shift", shift.Status, next)
	}

	now := s.now()
	switch next {
	case ShiftStatusInProgress:
		if shift.ActualStartTime == nil {
			shift.ActualStartTime = &now
		}
	case ShiftStatusCompleted:
		if shift.ActualEndTime == nil {
			shift.ActualEndTime = &now
		}
	}

	if err := s.shiftRepo.Save(ctx, tx, shift); err != nil {
		return err
	}

	switch next {
	case ShiftStatusInProgress:
		return s.startTaskTx(ctx, tx, shift.TaskID, now)
	case ShiftStatusCompleted:
		return s.completeTaskIfDoneTx(ctx, tx, shift.TaskID, now)
	case ShiftStatusCancelled:
		if err := s.detachShiftTx(ctx, tx, shift.TaskID); err != nil {
			return err
		}
		return s.completeTaskIfDoneTx(ctx, tx, shift.TaskID, now)
	}
	return nil
}

func (s *ShiftService) startTaskTx(
	ctx context.Context,
	tx *gorm.DB,
	taskID uuid.UUID,
	at time.Time,
) error {
	task, err := s.taskRepo.GetByID(ctx, tx, taskID)
	if err != nil {
		return err
	}
	if task.Status != TaskStatusAssigned {
		return nil
	}

	if err := task.UpdateStatus(TaskStatusInProgress); err != nil {
		return err
	}
	if task.ActualStartTime == nil {
		task.ActualStartTime = &at
	}
	return s.taskRepo.Save(ctx, tx, task)
}

// completeTaskIfDoneTx completes the task once every active shift on it is
// completed.
func (s *ShiftService) completeTaskIfDoneTx(
	ctx context.Context,
	tx *gorm.DB,
	taskID uuid.UUID,
	at time.Time,
) error {
	shifts, err := s.shiftRepo.GetActiveByTask(ctx, tx, taskID)
	if err != nil {
		return err
	}
	for _, shift := range shifts {
		if shift.Status != ShiftStatusCompleted {
			return nil
		}
	}

	task, err := s.taskRepo.GetByID(ctx, tx, taskID)
	if err != nil {
		return err
	}
	if !task.Status.IsStaffed() {
		return nil
	}

	if task.Status == TaskStatusAssigned {
		if err := task.UpdateStatus(TaskStatusInProgress); err != nil {
			return err
		}
	}
	if err := task.UpdateStatus(TaskStatusCompleted); err != nil {
		return err
	}
	if task.ActualStartTime == nil {
		task.ActualStartTime = earliestStart(shifts, at)
	}
	task.ActualEndTime = &at
	task.RecomputeActualDuration()

	return s.taskRepo.Save(ctx, tx, task)
}

func earliestStart(shifts []*CleaningShift, fallback time.Time) *time.Time {
	earliest := fallback
	for _, shift := range shifts {
		if shift.ActualStartTime != nil && shift.ActualStartTime.Before(earliest) {
			earliest = *shift.ActualStartTime
		}
	}
	return &earliest
}

func (s *ShiftService) CheckIn(
	ctx context.Context,
	id uuid.UUID,
	req types.CheckInRequest,
) (*CleaningShift, error) {
	log := s.log.TraceFromContext(ctx).Function("CheckIn")

	err := s.transaction.Execute(ctx, func(ctx context.Context, tx *gorm.DB) error {
		shift, err := s.shiftRepo.GetByID(ctx, tx, id)
		if err != nil {
			return err
		}

		if len(req.Location) > 0 {
			shift.CheckInLocation = datatypes.JSON(req.Location)
		}
		return s.transitionTx(ctx, tx, log, shift, ShiftStatusInProgress)
	})
	if err != nil {
		return nil, err
	}

	log.Info("Shift checked in", "shiftID", id)
	return s.shiftRepo.GetByID(ctx, s.db, id)
}

func (s *ShiftService) CheckOut(
	ctx context.Context,
	id uuid.UUID,
	req types.CheckOutRequest,
) (*CleaningShift, error) {
	log := s.log.TraceFromContext(ctx).Function("CheckOut")

	err := s.transaction.Execute(ctx, func(ctx context.Context, tx *gorm.DB) error {
		shift, err := s.shiftRepo.GetByID(ctx, tx, id)
		if err != nil {
			return err
		}

		if len(req.Location) > 0 {
			shift.CheckOutLocation = datatypes.JSON(req.Location)
		}
		if notes := strings.TrimSpace(req.Notes); notes != "" {
			if shift.Notes != "" {
				shift.Notes += "\n"
			}
			shift.Notes += notes
		}
		// checking out without a check-in starts and finishes the shift in one go
		if shift.Status == ShiftStatusScheduled || shift.Status == ShiftStatusConfirmed {
			if err := s.transitionTx(ctx, tx, log, shift, ShiftStatusInProgress); err != nil {
				return err
			}
		}
		return s.transitionTx(ctx, tx, log, shift, ShiftStatusCompleted)
	})
	if err != nil {
		return nil, err
	}

	log.Info("Shift checked out", "shiftID", id)
	return s.shiftRepo.GetByID(ctx, s.db, id)
}
