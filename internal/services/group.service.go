package services

import (
	"context"
	"fmt"
	"time"

	"cleanops/config"
	"cleanops/internal/repositories"
	"cleanops/internal/types"

	logger "github.com/Bparsons0904/goLogger"
	"github.com/google/uuid"
	"gorm.io/gorm"

	. "cleanops/internal/models"
)

const groupAssignCreatedBy = "group-assign"

// GroupAssignmentService hands whole tasks to a staff group. A group shift is
// paid the group's flat rate and is never split.
type GroupAssignmentService struct {
	groupRepo   repositories.StaffGroupRepository
	taskRepo    repositories.TaskRepository
	shiftRepo   repositories.ShiftRepository
	shifts      *ShiftService
	lock        *LockService
	transaction *TransactionService
	defaults    config.CleaningDefaults
	log         logger.Logger
}

func NewGroupAssignmentService(
	repos repositories.Repository,
	transaction *TransactionService,
	lock *LockService,
	shifts *ShiftService,
	defaults config.CleaningDefaults,
) *GroupAssignmentService {
	return &GroupAssignmentService{
		groupRepo:   repos.StaffGroup,
		taskRepo:    repos.Task,
		shiftRepo:   repos.Shift,
		shifts:      shifts,
		lock:        lock,
		transaction: transaction,
		defaults:    defaults,
		log:         logger.New("groupAssignmentService"),
	}
}

// AssignGroupToTasks creates one group shift per task. Tasks that already
// have any active shift are skipped, so repeating a call is a no-op.
func (s *GroupAssignmentService) AssignGroupToTasks(
	ctx context.Context,
	groupID uuid.UUID,
	req types.GroupAssignRequest,
) (*types.GroupAssignResult, error) {
	log := s.log.TraceFromContext(ctx).Function("AssignGroupToTasks")

	if len(req.TaskIDs) == 0 {
		return nil, log.ErrorWithType(types.ErrValidation, "taskIds must not be empty")
	}

	var assignedDate *time.Time
	if req.AssignedDate != "" {
		parsed, err := ParseDate(req.AssignedDate)
		if err != nil {
			return nil, log.ErrorWithType(types.ErrValidation, err.Error())
		}
		assignedDate = &parsed
	}

	start, end, explicit, err := ParseWindow(req.StartTime, req.EndTime)
	if err != nil {
		return nil, log.ErrorWithType(types.ErrValidation, err.Error())
	}
	if !explicit {
		start, end = ClockTime(s.defaults.GroupStartTime), ClockTime(s.defaults.GroupEndTime)
	}
	if err := ValidateWindow(start, end); err != nil {
		return nil, log.ErrorWithType(types.ErrValidation, err.Error(), "start", start, "end", end)
	}

	var result *types.GroupAssignResult
	err = s.lock.WithLock(ctx, groupAssignLockPrefix+groupID.String(), func() error {
		return s.transaction.Execute(ctx, func(ctx context.Context, tx *gorm.DB) error {
			group, err := s.groupRepo.GetByID(ctx, tx, groupID)
			if err != nil {
				return err
			}
			if !group.IsActive {
				return log.ErrorWithType(types.ErrValidation, "staff group is inactive", "groupID", groupID)
			}

			result = &types.GroupAssignResult{Shifts: []types.GroupShift{}, Errors: []string{}}

			tasks, err := s.taskRepo.GetByIDs(ctx, tx, req.TaskIDs)
			if err != nil {
				return err
			}

			for _, taskID := range uniqueIDs(req.TaskIDs) {
				if err := ctx.Err(); err != nil {
					return err
				}

				task, ok := tasks[taskID]
				if !ok {
					result.Errors = append(result.Errors, fmt.Sprintf("Task %s not found", taskID))
					continue
				}

				existing, err := s.shiftRepo.GetActiveByTask(ctx, tx, task.ID)
				if err != nil {
					return err
				}
				if len(existing) > 0 {
					result.SkippedCount++
					continue
				}
				if !acceptsShifts(task.Status) {
					result.Errors = append(
						result.Errors,
						fmt.Sprintf("Task %s cannot be assigned while %s", task.ID, task.Status),
					)
					continue
				}

				date := task.ScheduledDate
				if assignedDate != nil {
					date = *assignedDate
				}

				shift := &CleaningShift{
					GroupID:            &group.ID,
					AssignedDate:       DateOf(date),
					ScheduledStartTime: start,
					ScheduledEndTime:   end,
					Status:             ShiftStatusScheduled,
					IsOptionIncluded:   req.IsOptionIncluded,
					Notes:              req.Notes,
					CreatedBy:          groupAssignCreatedBy,
				}
				if err := s.shifts.addShiftTx(ctx, tx, task, shift, group); err != nil {
					return err
				}

				result.AssignedCount++
				result.Shifts = append(result.Shifts, types.GroupShift{
					ID:                 shift.ID,
					TaskID:             task.ID,
					AssignedDate:       FormatDate(shift.AssignedDate),
					ScheduledStartTime: shift.ScheduledStartTime.String(),
					ScheduledEndTime:   shift.ScheduledEndTime.String(),
					TotalPayment:       shift.TotalPayment,
				})
			}
			return nil
		})
	})
	if err != nil {
		return nil, err
	}

	result.Success = len(result.Errors) == 0
	log.Info(
		"Group assignment finished",
		"groupID", groupID,
		"assigned", result.AssignedCount,
		"skipped", result.SkippedCount,
	)
	return result, nil
}

// UnassignGroupFromTask removes the group's shift from the task. It reports
// false when the group holds no active shift there.
func (s *GroupAssignmentService) UnassignGroupFromTask(
	ctx context.Context,
	groupID, taskID uuid.UUID,
) (bool, error) {
	log := s.log.TraceFromContext(ctx).Function("UnassignGroupFromTask")

	removed := false
	err := s.transaction.Execute(ctx, func(ctx context.Context, tx *gorm.DB) error {
		shifts, err := s.shiftRepo.List(ctx, tx, repositories.ShiftFilter{GroupID: &groupID, TaskID: &taskID})
		if err != nil {
			return err
		}

		for _, shift := range shifts {
			if !shift.IsActive() {
				continue
			}
			if err := s.shiftRepo.Delete(ctx, tx, shift.ID); err != nil {
				return err
			}
			removed = true
		}
		if !removed {
			return nil
		}
		return s.shifts.detachShiftTx(ctx, tx, taskID)
	})
	if err != nil {
		return false, err
	}

	if removed {
		log.Info("Group unassigned from task", "groupID", groupID, "taskID", taskID)
	}
	return removed, nil
}
