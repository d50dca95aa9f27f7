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

const autoAssignCreatedBy = "auto-assign"

// AssignmentService runs greedy assignment passes: tasks are ordered by
// urgency and each one goes to the best scoring eligible staff member.
type AssignmentService struct {
	taskRepo     repositories.TaskRepository
	staffRepo    repositories.StaffRepository
	groupRepo    repositories.StaffGroupRepository
	shiftRepo    repositories.ShiftRepository
	facilityRepo repositories.FacilityRepository
	availability *AvailabilityService
	shifts       *ShiftService
	lock         *LockService
	transaction  *TransactionService
	db           *gorm.DB
	defaults     config.CleaningDefaults
	log          logger.Logger
}

func NewAssignmentService(
	repos repositories.Repository,
	db *gorm.DB,
	transaction *TransactionService,
	lock *LockService,
	availability *AvailabilityService,
	shifts *ShiftService,
	defaults config.CleaningDefaults,
) *AssignmentService {
	return &AssignmentService{
		taskRepo:     repos.Task,
		staffRepo:    repos.Staff,
		groupRepo:    repos.StaffGroup,
		shiftRepo:    repos.Shift,
		facilityRepo: repos.Facility,
		availability: availability,
		shifts:       shifts,
		lock:         lock,
		transaction:  transaction,
		db:           db,
		defaults:     defaults,
		log:          logger.New("assignmentService"),
	}
}

// AutoAssign assigns each task to one staff member on the target date.
// Problems with individual tasks are reported in the result; storage failures
// abort and roll back the whole batch.
func (s *AssignmentService) AutoAssign(
	ctx context.Context,
	req types.AutoAssignRequest,
) (*types.AutoAssignResult, error) {
	log := s.log.TraceFromContext(ctx).Function("AutoAssign")

	date, err := ParseDate(req.Date)
	if err != nil {
		return nil, log.ErrorWithType(types.ErrValidation, err.Error())
	}
	if len(req.TaskIDs) == 0 {
		return nil, log.ErrorWithType(types.ErrValidation, "taskIds must not be empty")
	}

	done := log.Timer("auto assign batch")
	defer done()

	var result *types.AutoAssignResult
	err = s.lock.WithLock(ctx, assignLockPrefix+FormatDate(date), func() error {
		return s.transaction.Execute(ctx, func(ctx context.Context, tx *gorm.DB) error {
			result = &types.AutoAssignResult{
				Assignments: []types.Assignment{},
				Errors:      []string{},
			}
			return s.autoAssignTx(ctx, tx, date, uniqueIDs(req.TaskIDs), result)
		})
	})
	if err != nil {
		return nil, err
	}

	result.Success = result.AssignedCount > 0
	result.Message = fmt.Sprintf(
		"Assigned %d of %d tasks",
		result.AssignedCount,
		result.AssignedCount+result.FailedCount,
	)

	log.Info(
		"Auto assignment finished",
		"date", FormatDate(date),
		"assigned", result.AssignedCount,
		"failed", result.FailedCount,
	)
	return result, nil
}

func uniqueIDs(ids []uuid.UUID) []uuid.UUID {
	seen := make(map[uuid.UUID]bool, len(ids))
	unique := make([]uuid.UUID, 0, len(ids))
	for _, id := range ids {
		if seen[id] {
			continue
		}
		seen[id] = true
		unique = append(unique, id)
	}
	return unique
}

type batchRecorder struct {
	result *types.AutoAssignResult
}

func (r *batchRecorder) fail(format string, args ...any) {
	r.result.FailedCount++
	r.result.Errors = append(r.result.Errors, fmt.Sprintf(format, args...))
}

func (s *AssignmentService) autoAssignTx(
	ctx context.Context,
	tx *gorm.DB,
	date time.Time,
	taskIDs []uuid.UUID,
	result *types.AutoAssignResult,
) error {
	recorder := &batchRecorder{result: result}

	tasks, err := s.taskRepo.GetByIDs(ctx, tx, taskIDs)
	if err != nil {
		return err
	}

	pending := make([]*CleaningTask, 0, len(taskIDs))
	for _, id := range taskIDs {
		task, ok := tasks[id]
		switch {
		case !ok:
			recorder.fail("Task %s not found", id)
		case task.Status != TaskStatusUnassigned:
			recorder.fail("Task %s is already assigned", id)
		default:
			pending = append(pending, task)
		}
	}
	if len(pending) == 0 {
		return nil
	}

	staff, err := s.staffRepo.GetActive(ctx, tx)
	if err != nil {
		return err
	}
	if len(staff) == 0 {
		for _, task := range pending {
			recorder.fail("No available staff for task %s", task.ID)
		}
		return nil
	}

	staffIDs := make([]uuid.UUID, len(staff))
	for i, member := range staff {
		staffIDs[i] = member.ID
	}

	available, err := s.availability.AvailabilityForDate(ctx, tx, staffIDs, date)
	if err != nil {
		return err
	}

	load, err := s.shiftRepo.CountActiveByStaffForDate(ctx, tx, date)
	if err != nil {
		return err
	}

	busy := map[uuid.UUID][]timeWindow{}
	if s.defaults.ValidateOverlap {
		if busy, err = s.bookedWindows(ctx, tx, date); err != nil {
			return err
		}
	}

	groupMembers := map[uuid.UUID]map[uuid.UUID]bool{}

	for _, task := range OrderTasks(pending, date) {
		if err := ctx.Err(); err != nil {
			return err
		}

		var members map[uuid.UUID]bool
		if task.RestrictedGroupID != nil {
			if members, err = s.restrictedMembers(ctx, tx, *task.RestrictedGroupID, groupMembers); err != nil {
				return err
			}
		}

		best, ok := PickBest(staff, CandidateContext{
			Task:           task,
			LargeThreshold: s.defaults.LargeFacilityGuests,
			Available:      available,
			Load:           load,
			GroupMembers:   members,
			Busy:           busy,
			CheckOverlap:   s.defaults.ValidateOverlap,
		})
		if !ok {
			recorder.fail("No eligible staff for task %s", task.ID)
			continue
		}

		staffID := best.Staff.ID
		shift := &CleaningShift{
			StaffID:            &staffID,
			AssignedDate:       DateOf(date),
			ScheduledStartTime: task.ScheduledStartTime,
			ScheduledEndTime:   task.ScheduledEndTime,
			Status:             ShiftStatusScheduled,
			CreatedBy:          autoAssignCreatedBy,
		}
		// a failure here leaves the batch half written, so it aborts
		if err := s.shifts.addShiftTx(ctx, tx, task, shift, best.Staff); err != nil {
			return err
		}

		load[staffID]++
		busy[staffID] = append(busy[staffID], timeWindow{Start: shift.ScheduledStartTime, End: shift.ScheduledEndTime})

		result.AssignedCount++
		result.Assignments = append(result.Assignments, types.Assignment{
			TaskID:    task.ID,
			StaffID:   staffID,
			StaffName: best.Staff.Name,
			ShiftID:   shift.ID,
			Score:     best.Score,
			Reasons:   best.Reasons,
		})
	}

	return nil
}

func (s *AssignmentService) restrictedMembers(
	ctx context.Context,
	tx *gorm.DB,
	groupID uuid.UUID,
	cache map[uuid.UUID]map[uuid.UUID]bool,
) (map[uuid.UUID]bool, error) {
	if members, ok := cache[groupID]; ok {
		return members, nil
	}

	ids, err := s.groupRepo.GetActiveMemberIDs(ctx, tx, groupID)
	if err != nil {
		return nil, err
	}

	members := make(map[uuid.UUID]bool, len(ids))
	for _, id := range ids {
		members[id] = true
	}
	cache[groupID] = members
	return members, nil
}

func (s *AssignmentService) bookedWindows(
	ctx context.Context,
	tx *gorm.DB,
	date time.Time,
) (map[uuid.UUID][]timeWindow, error) {
	shifts, err := s.shiftRepo.List(ctx, tx, repositories.ShiftFilter{Date: &date})
	if err != nil {
		return nil, err
	}

	busy := map[uuid.UUID][]timeWindow{}
	for _, shift := range shifts {
		if shift.StaffID == nil || !shift.IsActive() {
			continue
		}
		busy[*shift.StaffID] = append(busy[*shift.StaffID], timeWindow{
			Start: shift.ScheduledStartTime,
			End:   shift.ScheduledEndTime,
		})
	}
	return busy, nil
}

// AutoAssignForDate assigns every unassigned task on date whose facility has
// auto assignment switched on.
func (s *AssignmentService) AutoAssignForDate(
	ctx context.Context,
	date time.Time,
) (*types.AutoAssignResult, error) {
	log := s.log.TraceFromContext(ctx).Function("AutoAssignForDate")

	status := TaskStatusUnassigned
	tasks, err := s.taskRepo.List(ctx, s.db, repositories.TaskFilter{Date: &date, Status: &status})
	if err != nil {
		return nil, err
	}

	facilityIDs := make([]uuid.UUID, 0, len(tasks))
	for _, task := range tasks {
		facilityIDs = append(facilityIDs, task.FacilityID)
	}
	facilities, err := s.facilityRepo.GetByIDs(ctx, s.db, uniqueIDs(facilityIDs))
	if err != nil {
		return nil, err
	}

	var taskIDs []uuid.UUID
	for _, task := range tasks {
		facility, ok := facilities[task.FacilityID]
		if ok && facility.Settings != nil && facility.Settings.AutoAssign {
			taskIDs = append(taskIDs, task.ID)
		}
	}

	if len(taskIDs) == 0 {
		log.Info("No tasks eligible for auto assignment", "date", FormatDate(date))
		return &types.AutoAssignResult{
			Message:     "No tasks to assign",
			Assignments: []types.Assignment{},
			Errors:      []string{},
		}, nil
	}

	return s.AutoAssign(ctx, types.AutoAssignRequest{TaskIDs: taskIDs, Date: FormatDate(date)})
}
