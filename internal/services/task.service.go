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
	"gorm.io/gorm"

	. "cleanops/internal/models"
)

type TaskService struct {
	taskRepo        repositories.TaskRepository
	facilityRepo    repositories.FacilityRepository
	reservationRepo repositories.ReservationRepository
	groupRepo       repositories.StaffGroupRepository
	shiftRepo       repositories.ShiftRepository
	transaction     *TransactionService
	db              *gorm.DB
	defaults        config.CleaningDefaults
	now             func() time.Time
	log             logger.Logger
}

func NewTaskService(
	repos repositories.Repository,
	db *gorm.DB,
	transaction *TransactionService,
	defaults config.CleaningDefaults,
) *TaskService {
	return &TaskService{
		taskRepo:        repos.Task,
		facilityRepo:    repos.Facility,
		reservationRepo: repos.Reservation,
		groupRepo:       repos.StaffGroup,
		shiftRepo:       repos.Shift,
		transaction:     transaction,
		db:              db,
		defaults:        defaults,
		now:             func() time.Time { return time.Now().UTC() },
		log:             logger.New("taskService"),
	}
}

// taskWindow picks the scheduled window for a new task: explicit values win,
// then the facility's preferred window, then the configured fallback.
func taskWindow(
	start, end ClockTime,
	settings *FacilityCleaningSettings,
	fallbackStart, fallbackEnd string,
) (ClockTime, ClockTime) {
	if start != "" && end != "" {
		return start, end
	}
	if settings != nil && settings.HasPreferredWindow() {
		return settings.PreferredStartTime, settings.PreferredEndTime
	}
	return ClockTime(fallbackStart), ClockTime(fallbackEnd)
}

func taskDuration(requested int, settings *FacilityCleaningSettings, fallback int) int {
	if requested > 0 {
		return requested
	}
	if settings != nil && settings.StandardDurationMinutes > 0 {
		return settings.StandardDurationMinutes
	}
	return fallback
}

func validatePriority(log logger.Logger, priority *int) error {
	if priority == nil {
		return nil
	}
	if *priority < MinTaskPriority || *priority > MaxTaskPriority {
		return log.ErrorWithType(types.ErrValidation, "priority must be between 1 and 5", "priority", *priority)
	}
	return nil
}

func invalidTransition(log logger.Logger, kind string, from, to any) error {
	return log.ErrorWithType(
		types.ErrValidation,
		fmt.Sprintf("%s cannot move from %v to %v", kind, from, to),
	)
}

func (s *TaskService) CreateTask(
	ctx context.Context,
	req types.CreateTaskRequest,
) (*CleaningTask, error) {
	log := s.log.TraceFromContext(ctx).Function("CreateTask")

	if req.FacilityID == uuid.Nil {
		return nil, log.ErrorWithType(types.ErrValidation, "facilityId is required")
	}

	checkoutDate, err := ParseDate(req.CheckoutDate)
	if err != nil {
		return nil, log.ErrorWithType(types.ErrValidation, err.Error())
	}

	scheduledDate := checkoutDate
	if req.ScheduledDate != "" {
		if scheduledDate, err = ParseDate(req.ScheduledDate); err != nil {
			return nil, log.ErrorWithType(types.ErrValidation, err.Error())
		}
	}

	checkoutTime := ClockTime(s.defaults.CheckoutTime)
	if req.CheckoutTime != "" {
		if checkoutTime, err = ParseClockTime(req.CheckoutTime); err != nil {
			return nil, log.ErrorWithType(types.ErrValidation, err.Error())
		}
	}

	if err := validatePriority(log, req.Priority); err != nil {
		return nil, err
	}

	var task *CleaningTask
	err = s.transaction.Execute(ctx, func(ctx context.Context, tx *gorm.DB) error {
		facility, err := s.facilityRepo.GetByID(ctx, tx, req.FacilityID)
		if err != nil {
			return err
		}

		if req.ReservationID != nil {
			if _, err := s.reservationRepo.GetByID(ctx, tx, *req.ReservationID); err != nil {
				return err
			}
		}
		if req.RestrictedGroupID != nil {
			if _, err := s.groupRepo.GetByID(ctx, tx, *req.RestrictedGroupID); err != nil {
				return err
			}
		}

		explicitStart, explicitEnd, _, err := ParseWindow(req.ScheduledStartTime, req.ScheduledEndTime)
		if err != nil {
			return log.ErrorWithType(types.ErrValidation, err.Error())
		}
		start, end := taskWindow(
			explicitStart,
			explicitEnd,
			facility.Settings,
			s.defaults.CreateStartTime,
			s.defaults.CreateEndTime,
		)
		if err := ValidateWindow(start, end); err != nil {
			return log.ErrorWithType(types.ErrValidation, err.Error(), "start", start, "end", end)
		}

		duration := taskDuration(
			req.EstimatedDurationMinutes,
			facility.Settings,
			s.defaults.DefaultDurationMinutes,
		)

		task = &CleaningTask{
			ReservationID:            req.ReservationID,
			FacilityID:               facility.ID,
			CheckoutDate:             DateOf(checkoutDate),
			CheckoutTime:             checkoutTime,
			ScheduledDate:            DateOf(scheduledDate),
			ScheduledStartTime:       start,
			ScheduledEndTime:         end,
			EstimatedDurationMinutes: duration,
			Priority:                 req.Priority,
			Status:                   TaskStatusUnassigned,
			RestrictedGroupID:        req.RestrictedGroupID,
			SpecialInstructions:      req.SpecialInstructions,
			SuppliesNeeded:           req.SuppliesNeeded,
			Notes:                    strings.TrimSpace(req.Notes),
		}
		if task.SuppliesNeeded == nil && facility.Settings != nil {
			task.SuppliesNeeded = facility.Settings.RequiredSupplies
		}

		return s.taskRepo.Create(ctx, tx, task)
	})
	if err != nil {
		return nil, err
	}

	log.Info("Task created", "taskID", task.ID, "facilityID", task.FacilityID)
	return s.taskRepo.GetByID(ctx, s.db, task.ID)
}

func (s *TaskService) GetTask(ctx context.Context, id uuid.UUID) (*CleaningTask, error) {
	return s.taskRepo.GetByID(ctx, s.db, id)
}

func (s *TaskService) ListTasks(
	ctx context.Context,
	filter repositories.TaskFilter,
) ([]*CleaningTask, error) {
	return s.taskRepo.List(ctx, s.db, filter)
}

// NeedsRevisionTasks lists tasks waiting on a revision, optionally for one
// facility.
func (s *TaskService) NeedsRevisionTasks(
	ctx context.Context,
	facilityID *uuid.UUID,
) ([]*CleaningTask, error) {
	status := TaskStatusNeedsRevision
	return s.taskRepo.List(ctx, s.db, repositories.TaskFilter{
		Status:     &status,
		FacilityID: facilityID,
	})
}

// manualTaskStatuses are the statuses a caller may set directly. Assignment
// states are driven by shifts and the revision workflow.
var manualTaskStatuses = map[TaskStatus]bool{
	TaskStatusInProgress: true,
	TaskStatusCompleted:  true,
	TaskStatusCancelled:  true,
}

func (s *TaskService) UpdateTask(
	ctx context.Context,
	id uuid.UUID,
	req types.UpdateTaskRequest,
) (*CleaningTask, error) {
	log := s.log.TraceFromContext(ctx).Function("UpdateTask")

	if err := validatePriority(log, req.Priority); err != nil {
		return nil, err
	}

	err := s.transaction.Execute(ctx, func(ctx context.Context, tx *gorm.DB) error {
		task, err := s.taskRepo.GetByID(ctx, tx, id)
		if err != nil {
			return err
		}

		if err := s.applyTaskUpdate(log, task, req); err != nil {
			return err
		}

		return s.taskRepo.Save(ctx, tx, task)
	})
	if err != nil {
		return nil, err
	}

	return s.taskRepo.GetByID(ctx, s.db, id)
}

func (s *TaskService) applyTaskUpdate(
	log logger.Logger,
	task *CleaningTask,
	req types.UpdateTaskRequest,
) error {
	if req.ScheduledDate != nil {
		date, err := ParseDate(*req.ScheduledDate)
		if err != nil {
			return log.ErrorWithType(types.ErrValidation, err.Error())
		}
		task.ScheduledDate = DateOf(date)
	}

	start, end := task.ScheduledStartTime, task.ScheduledEndTime
	if req.ScheduledStartTime != nil {
		start = ClockTime(*req.ScheduledStartTime)
	}
	if req.ScheduledEndTime != nil {
		end = ClockTime(*req.ScheduledEndTime)
	}
	if err := ValidateWindow(start, end); err != nil {
		return log.ErrorWithType(types.ErrValidation, err.Error(), "start", start, "end", end)
	}
	task.ScheduledStartTime, task.ScheduledEndTime = start, end

	if req.EstimatedDurationMinutes != nil {
		if *req.EstimatedDurationMinutes <= 0 {
			return log.ErrorWithType(types.ErrValidation, "estimatedDurationMinutes must be positive")
		}
		task.EstimatedDurationMinutes = *req.EstimatedDurationMinutes
	}
	if req.Priority != nil {
		task.Priority = req.Priority
	}
	if req.RestrictedGroupID != nil {
		if *req.RestrictedGroupID == uuid.Nil {
			task.RestrictedGroupID = nil
		} else {
			task.RestrictedGroupID = req.RestrictedGroupID
		}
	}
	if req.SpecialInstructions != nil {
		task.SpecialInstructions = *req.SpecialInstructions
	}
	if req.SuppliesNeeded != nil {
		task.SuppliesNeeded = req.SuppliesNeeded
	}
	if req.Notes != nil {
		task.Notes = *req.Notes
	}

	for _, field := range []struct {
		value  *string
		target **time.Time
	}{
		{req.ActualStartTime, &task.ActualStartTime},
		{req.ActualEndTime, &task.ActualEndTime},
	} {
		if field.value == nil {
			continue
		}
		parsed, err := time.Parse(time.RFC3339, *field.value)
		if err != nil {
			return log.ErrorWithType(types.ErrValidation, "actual times must be RFC3339", "value", *field.value)
		}
		parsed = parsed.UTC()
		*field.target = &parsed
	}

	if req.Status != nil {
		next := TaskStatus(*req.Status)
		if !next.IsValid() || !manualTaskStatuses[next] {
			return log.ErrorWithType(types.ErrValidation, "status cannot be set directly", "status", *req.Status)
		}
		if next != task.Status {
			if err := task.UpdateStatus(next); err != nil {
				return invalidTransition(log, "task", task.Status, next)
			}
			now := s.now()
			if next == TaskStatusInProgress && task.ActualStartTime == nil {
				task.ActualStartTime = &now
			}
			if next == TaskStatusCompleted && task.ActualEndTime == nil {
				task.ActualEndTime = &now
			}
		}
	}

	task.RecomputeActualDuration()
	return nil
}

// VerifyTask signs off a completed task.
func (s *TaskService) VerifyTask(
	ctx context.Context,
	id uuid.UUID,
	req types.VerifyTaskRequest,
) (*CleaningTask, error) {
	log := s.log.TraceFromContext(ctx).Function("VerifyTask")

	verifiedBy := strings.TrimSpace(req.VerifiedBy)
	if verifiedBy == "" {
		return nil, log.ErrorWithType(types.ErrValidation, "verifiedBy is required")
	}

	err := s.transaction.Execute(ctx, func(ctx context.Context, tx *gorm.DB) error {
		task, err := s.taskRepo.GetByID(ctx, tx, id)
		if err != nil {
			return err
		}

		if err := task.UpdateStatus(TaskStatusVerified); err != nil {
			return invalidTransition(log, "task", task.Status, TaskStatusVerified)
		}

		now := s.now()
		task.VerifiedBy = &verifiedBy
		task.VerifiedAt = &now
		task.VerificationNotes = req.Notes

		return s.taskRepo.Save(ctx, tx, task)
	})
	if err != nil {
		return nil, err
	}

	return s.taskRepo.GetByID(ctx, s.db, id)
}

// AutoCreateTasks creates one task per active reservation checking out on
// date that has no task yet.
func (s *TaskService) AutoCreateTasks(
	ctx context.Context,
	date time.Time,
) (*types.AutoCreateResult, error) {
	log := s.log.TraceFromContext(ctx).Function("AutoCreateTasks")

	result := &types.AutoCreateResult{
		Date:    FormatDate(date),
		TaskIDs: []uuid.UUID{},
	}

	err := s.transaction.Execute(ctx, func(ctx context.Context, tx *gorm.DB) error {
		reservations, err := s.reservationRepo.GetActiveByCheckoutDate(ctx, tx, date)
		if err != nil {
			return err
		}

		ids := make([]uuid.UUID, len(reservations))
		for i, reservation := range reservations {
			ids[i] = reservation.ID
		}
		covered, err := s.taskRepo.GetCoveredReservationIDs(ctx, tx, ids)
		if err != nil {
			return err
		}

		for _, reservation := range reservations {
			if err := ctx.Err(); err != nil {
				return err
			}
			if covered[reservation.ID] {
				result.Skipped++
				continue
			}

			facility, err := s.ResolveFacility(ctx, tx, reservation)
			if err != nil {
				return err
			}

			task := s.taskForReservation(
				reservation,
				facility,
				ClockTime(s.defaults.CreateStartTime),
				ClockTime(s.defaults.CreateEndTime),
				taskDuration(0, facility.Settings, s.defaults.DefaultDurationMinutes),
			)
			if err := s.taskRepo.Create(ctx, tx, task); err != nil {
				return err
			}

			result.Created++
			result.TaskIDs = append(result.TaskIDs, task.ID)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	log.Info("Auto created tasks", "date", result.Date, "created", result.Created, "skipped", result.Skipped)
	return result, nil
}

func (s *TaskService) taskForReservation(
	reservation *Reservation,
	facility *Facility,
	start, end ClockTime,
	duration int,
) *CleaningTask {
	priority := s.defaults.DefaultPriority
	reservationID := reservation.ID

	task := &CleaningTask{
		ReservationID:            &reservationID,
		FacilityID:               facility.ID,
		CheckoutDate:             DateOf(reservation.CheckOutDate),
		CheckoutTime:             ClockTime(s.defaults.CheckoutTime),
		ScheduledDate:            DateOf(reservation.CheckOutDate),
		ScheduledStartTime:       start,
		ScheduledEndTime:         end,
		EstimatedDurationMinutes: duration,
		Priority:                 &priority,
		Status:                   TaskStatusUnassigned,
		SourceHash:               reservation.ContentHash,
	}
	if facility.Settings != nil {
		task.SuppliesNeeded = facility.Settings.RequiredSupplies
		task.SpecialInstructions = facility.Settings.SpecialInstructions
	}
	return task
}

// ResolveFacility finds the facility a reservation belongs to: its linked
// facility, else one named after the room type, else the default facility.
// Missing facilities are created and the link is written back.
func (s *TaskService) ResolveFacility(
	ctx context.Context,
	tx *gorm.DB,
	reservation *Reservation,
) (*Facility, error) {
	log := s.log.TraceFromContext(ctx).Function("ResolveFacility")

	if reservation.FacilityID != nil {
		facility, err := s.facilityRepo.GetByID(ctx, tx, *reservation.FacilityID)
		if err == nil {
			return facility, nil
		}
		if !errors.Is(err, types.ErrNotFound) {
			return nil, err
		}
		log.Warn("reservation points at a missing facility", "reservationID", reservation.ID)
	}

	name := strings.TrimSpace(reservation.RoomType)
	if name == "" {
		name = s.defaults.DefaultFacilityName
	}

	facility, err := s.facilityRepo.GetByName(ctx, tx, name)
	if err != nil {
		return nil, err
	}
	if facility == nil {
		facility = &Facility{Name: name, IsActive: true}
		if err := s.facilityRepo.Create(ctx, tx, facility); err != nil {
			return nil, err
		}
		log.Info("Created facility for reservation", "facility", name, "reservationID", reservation.ID)
	}

	if err := s.reservationRepo.UpdateFacility(ctx, tx, reservation.ID, facility.ID); err != nil {
		return nil, err
	}
	reservation.FacilityID = &facility.ID

	return facility, nil
}

const maxCalendarDays = 62

// Calendar groups tasks scheduled between from and to (inclusive) by date,
// with the staff and groups holding active shifts on each.
func (s *TaskService) Calendar(
	ctx context.Context,
	from, to time.Time,
	facilityID *uuid.UUID,
) (*types.TaskCalendar, error) {
	log := s.log.TraceFromContext(ctx).Function("Calendar")

	from, to = DateOf(from), DateOf(to)
	if to.Before(from) {
		return nil, log.ErrorWithType(types.ErrValidation, "from must not be after to")
	}
	if to.Sub(from) > maxCalendarDays*24*time.Hour {
		return nil, log.ErrorWithType(
			types.ErrValidation,
			fmt.Sprintf("calendar range must not exceed %d days", maxCalendarDays),
		)
	}

	tasks, err := s.taskRepo.List(ctx, s.db, repositories.TaskFilter{
		From:       &from,
		To:         &to,
		FacilityID: facilityID,
	})
	if err != nil {
		return nil, err
	}

	taskIDs := make([]uuid.UUID, 0, len(tasks))
	for _, task := range tasks {
		taskIDs = append(taskIDs, task.ID)
	}
	shifts, err := s.shiftRepo.List(ctx, s.db, repositories.ShiftFilter{TaskIDs: taskIDs})
	if err != nil {
		return nil, err
	}

	assignees := make(map[uuid.UUID][]types.CalendarAssignee, len(tasks))
	for _, shift := range shifts {
		if !shift.IsActive() {
			continue
		}
		assignee := types.CalendarAssignee{Status: string(shift.Status)}
		switch {
		case shift.StaffID != nil:
			assignee.ID, assignee.Kind = *shift.StaffID, "staff"
			if shift.Staff != nil {
				assignee.Name = shift.Staff.Name
			}
		case shift.GroupID != nil:
			assignee.ID, assignee.Kind = *shift.GroupID, "group"
			if shift.Group != nil {
				assignee.Name = shift.Group.Name
			}
		}
		assignees[shift.TaskID] = append(assignees[shift.TaskID], assignee)
	}

	calendar := &types.TaskCalendar{
		From: FormatDate(from),
		To:   FormatDate(to),
		Days: []types.CalendarDay{},
	}
	for _, task := range tasks {
		date := FormatDate(task.ScheduledDate)
		if n := len(calendar.Days); n == 0 || calendar.Days[n-1].Date != date {
			calendar.Days = append(calendar.Days, types.CalendarDay{Date: date})
		}

		entry := types.CalendarTask{
			ID:                 task.ID,
			FacilityID:         task.FacilityID,
			CheckoutDate:       FormatDate(task.CheckoutDate),
			ScheduledStartTime: task.ScheduledStartTime.String(),
			ScheduledEndTime:   task.ScheduledEndTime.String(),
			Status:             string(task.Status),
			Assignees:          assignees[task.ID],
		}
		if entry.Assignees == nil {
			entry.Assignees = []types.CalendarAssignee{}
		}
		entry.IsAssigned = len(entry.Assignees) > 0
		if task.Facility != nil {
			entry.FacilityName = task.Facility.Name
		}
		if task.Reservation != nil {
			entry.GuestName = task.Reservation.GuestName
		}

		day := &calendar.Days[len(calendar.Days)-1]
		day.Tasks = append(day.Tasks, entry)
	}

	return calendar, nil
}
