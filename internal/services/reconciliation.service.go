package services

import (
	"context"
	"encoding/json"
	"fmt"
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

// ReconciliationService diffs the live reservations against open cleaning
// tasks, creating, cancelling and updating tasks and raising alerts when
// staffed work is affected.
type ReconciliationService struct {
	reservationRepo repositories.ReservationRepository
	taskRepo        repositories.TaskRepository
	shiftRepo       repositories.ShiftRepository
	syncRunRepo     repositories.SyncRunRepository
	tasks           *TaskService
	alerts          *AlertService
	lock            *LockService
	transaction     *TransactionService
	db              *gorm.DB
	defaults        config.CleaningDefaults
	now             func() time.Time
	log             logger.Logger
}

func NewReconciliationService(
	repos repositories.Repository,
	db *gorm.DB,
	transaction *TransactionService,
	lock *LockService,
	tasks *TaskService,
	alerts *AlertService,
	defaults config.CleaningDefaults,
) *ReconciliationService {
	return &ReconciliationService{
		reservationRepo: repos.Reservation,
		taskRepo:        repos.Task,
		shiftRepo:       repos.Shift,
		syncRunRepo:     repos.SyncRun,
		tasks:           tasks,
		alerts:          alerts,
		lock:            lock,
		transaction:     transaction,
		db:              db,
		defaults:        defaults,
		now:             func() time.Time { return time.Now().UTC() },
		log:             logger.New("reconciliationService"),
	}
}

type syncPass struct {
	stats  types.SyncStats
	alerts []types.SyncAlert
	at     time.Time
}

func (p *syncPass) add(alert types.SyncAlert) {
	alert.Timestamp = p.at
	p.alerts = append(p.alerts, alert)
	if alert.Type.RequiresAction() {
		p.stats.Conflicts++
	}
}

func (p *syncPass) result(preview bool) *types.SyncResult {
	p.stats.TotalAlerts = len(p.alerts)
	return &types.SyncResult{
		Success:  true,
		Preview:  preview,
		Stats:    p.stats,
		Alerts:   p.alerts,
		SyncedAt: p.at,
	}
}

// SyncAll reconciles and commits, records the run and publishes its alerts.
func (s *ReconciliationService) SyncAll(ctx context.Context, trigger string) (*types.SyncResult, error) {
	log := s.log.TraceFromContext(ctx).Function("SyncAll")

	done := log.Timer("reconciliation pass")
	defer done()

	var result *types.SyncResult
	err := s.lock.WithLock(ctx, syncLockKey, func() error {
		return s.transaction.Execute(ctx, func(ctx context.Context, tx *gorm.DB) error {
			startedAt := s.now()

			pass, err := s.reconcileTx(ctx, tx, startedAt)
			if err != nil {
				return err
			}
			result = pass.result(false)

			alerts, err := json.Marshal(result.Alerts)
			if err != nil {
				return log.Err("failed to encode sync alerts", err)
			}

			return s.syncRunRepo.Create(ctx, tx, &SyncRun{
				StartedAt:   startedAt,
				FinishedAt:  s.now(),
				Trigger:     trigger,
				Created:     result.Stats.Created,
				Cancelled:   result.Stats.Cancelled,
				Modified:    result.Stats.Modified,
				Conflicts:   result.Stats.Conflicts,
				TotalAlerts: result.Stats.TotalAlerts,
				Alerts:      datatypes.JSON(alerts),
			})
		})
	})
	if err != nil {
		return nil, err
	}

	s.alerts.PublishSyncResult(ctx, result)

	log.Info(
		"Sync completed",
		"trigger", trigger,
		"created", result.Stats.Created,
		"cancelled", result.Stats.Cancelled,
		"modified", result.Stats.Modified,
		"conflicts", result.Stats.Conflicts,
	)
	return result, nil
}

// SyncPreview runs the same pass inside a transaction that is always rolled
// back.
func (s *ReconciliationService) SyncPreview(ctx context.Context) (*types.SyncResult, error) {
	var result *types.SyncResult
	err := s.transaction.ExecuteAndRollback(ctx, func(ctx context.Context, tx *gorm.DB) error {
		pass, err := s.reconcileTx(ctx, tx, s.now())
		if err != nil {
			return err
		}
		result = pass.result(true)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

func (s *ReconciliationService) LatestRuns(ctx context.Context, limit int) ([]*SyncRun, error) {
	return s.syncRunRepo.Latest(ctx, s.db, limit)
}

func (s *ReconciliationService) reconcileTx(
	ctx context.Context,
	tx *gorm.DB,
	now time.Time,
) (*syncPass, error) {
	today := DateOf(now)
	pass := &syncPass{at: now, alerts: []types.SyncAlert{}}

	reservations, err := s.reservationRepo.GetActiveFrom(ctx, tx, today)
	if err != nil {
		return nil, err
	}
	openTasks, err := s.taskRepo.GetOpenFrom(ctx, tx, today)
	if err != nil {
		return nil, err
	}

	active := make(map[uuid.UUID]*Reservation, len(reservations))
	ids := make([]uuid.UUID, len(reservations))
	for i, reservation := range reservations {
		active[reservation.ID] = reservation
		ids[i] = reservation.ID
	}

	covered, err := s.taskRepo.GetCoveredReservationIDs(ctx, tx, ids)
	if err != nil {
		return nil, err
	}

	for _, reservation := range reservations {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		if covered[reservation.ID] {
			continue
		}
		if err := s.createTaskTx(ctx, tx, pass, reservation); err != nil {
			return nil, err
		}
	}

	for _, task := range openTasks {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		if task.ReservationID == nil {
			continue
		}

		reservation, ok := active[*task.ReservationID]
		if !ok {
			if err := s.cancelTaskTx(ctx, tx, pass, task); err != nil {
				return nil, err
			}
			continue
		}
		if err := s.updateTaskTx(ctx, tx, pass, task, reservation); err != nil {
			return nil, err
		}
	}

	return pass, nil
}

func (s *ReconciliationService) createTaskTx(
	ctx context.Context,
	tx *gorm.DB,
	pass *syncPass,
	reservation *Reservation,
) error {
	facility, err := s.tasks.ResolveFacility(ctx, tx, reservation)
	if err != nil {
		return err
	}

	start, end := taskWindow("", "", facility.Settings, s.defaults.SyncStartTime, s.defaults.SyncEndTime)
	task := s.tasks.taskForReservation(
		reservation,
		facility,
		start,
		end,
		taskDuration(0, facility.Settings, s.defaults.SyncDurationMinutes),
	)
	if err := s.taskRepo.Create(ctx, tx, task); err != nil {
		return err
	}

	pass.stats.Created++
	pass.add(types.SyncAlert{
		Type:          types.AlertTaskCreated,
		Message:       fmt.Sprintf("Created cleaning task for %s checking out %s", facility.Name, FormatDate(reservation.CheckOutDate)),
		TaskID:        &task.ID,
		ReservationID: &reservation.ID,
		FacilityID:    &facility.ID,
		ScheduledDate: FormatDate(task.ScheduledDate),
	})
	return nil
}

func (s *ReconciliationService) cancelTaskTx(
	ctx context.Context,
	tx *gorm.DB,
	pass *syncPass,
	task *CleaningTask,
) error {
	if task.Status.IsStaffed() {
		staff, err := s.assignedNames(ctx, tx, task.ID)
		if err != nil {
			return err
		}
		pass.add(types.SyncAlert{
			Type:          types.AlertConflictDetected,
			Message:       "Reservation for an assigned task was cancelled",
			TaskID:        &task.ID,
			ReservationID: task.ReservationID,
			FacilityID:    &task.FacilityID,
			ScheduledDate: FormatDate(task.ScheduledDate),
			AssignedStaff: staff,
		})
	}

	if err := task.UpdateStatus(TaskStatusCancelled); err != nil {
		return err
	}
	task.AppendNote("[Sync] reservation cancelled")
	if err := s.taskRepo.Save(ctx, tx, task); err != nil {
		return err
	}

	pass.stats.Cancelled++
	pass.add(types.SyncAlert{
		Type:          types.AlertTaskCancelled,
		Message:       "Cancelled task after its reservation was cancelled",
		TaskID:        &task.ID,
		ReservationID: task.ReservationID,
		FacilityID:    &task.FacilityID,
		ScheduledDate: FormatDate(task.ScheduledDate),
	})
	return nil
}

func (s *ReconciliationService) updateTaskTx(
	ctx context.Context,
	tx *gorm.DB,
	pass *syncPass,
	task *CleaningTask,
	reservation *Reservation,
) error {
	var changes []string

	checkout := DateOf(reservation.CheckOutDate)
	if !DateOf(task.CheckoutDate).Equal(checkout) {
		changes = append(changes, fmt.Sprintf(
			"checkout date: %s -> %s",
			FormatDate(task.CheckoutDate),
			FormatDate(checkout),
		))
		task.CheckoutDate = checkout
		task.ScheduledDate = checkout
	}

	facility, err := s.tasks.ResolveFacility(ctx, tx, reservation)
	if err != nil {
		return err
	}
	if facility.ID != task.FacilityID {
		previous := task.FacilityID.String()
		if task.Facility != nil {
			previous = task.Facility.Name
		}
		changes = append(changes, fmt.Sprintf("facility: %s -> %s", previous, facility.Name))
		task.FacilityID = facility.ID
		task.Facility = facility
	}

	if len(changes) == 0 {
		return nil
	}

	task.SourceHash = reservation.ContentHash
	if err := s.taskRepo.Save(ctx, tx, task); err != nil {
		return err
	}
	pass.stats.Modified++

	if !task.Status.IsStaffed() {
		pass.add(types.SyncAlert{
			Type:          types.AlertTaskModified,
			Message:       "Updated task from reservation changes",
			TaskID:        &task.ID,
			ReservationID: task.ReservationID,
			FacilityID:    &task.FacilityID,
			ScheduledDate: FormatDate(task.ScheduledDate),
			Changes:       changes,
		})
		return nil
	}

	staff, err := s.assignedNames(ctx, tx, task.ID)
	if err != nil {
		return err
	}
	pass.add(types.SyncAlert{
		Type:          types.AlertStaffReassignNeeded,
		Message:       "Assigned task changed and needs to be confirmed again",
		TaskID:        &task.ID,
		ReservationID: task.ReservationID,
		FacilityID:    &task.FacilityID,
		ScheduledDate: FormatDate(task.ScheduledDate),
		Changes:       changes,
		AssignedStaff: staff,
	})
	return nil
}

func (s *ReconciliationService) assignedNames(
	ctx context.Context,
	tx *gorm.DB,
	taskID uuid.UUID,
) ([]string, error) {
	shifts, err := s.shiftRepo.GetActiveByTask(ctx, tx, taskID)
	if err != nil {
		return nil, err
	}

	names := make([]string, 0, len(shifts))
	for _, shift := range shifts {
		switch {
		case shift.Staff != nil:
			names = append(names, shift.Staff.Name)
		case shift.Group != nil:
			names = append(names, shift.Group.Name)
		}
	}
	return names, nil
}
