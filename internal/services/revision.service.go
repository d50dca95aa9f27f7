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

const (
	revisionRequestedPrefix = "[Revision requested]"
	revisionResolvedPrefix  = "[Revision resolved]"
)

type RevisionService struct {
	taskRepo    repositories.TaskRepository
	shiftRepo   repositories.ShiftRepository
	transaction *TransactionService
	db          *gorm.DB
	log         logger.Logger
}

func NewRevisionService(
	repos repositories.Repository,
	db *gorm.DB,
	transaction *TransactionService,
) *RevisionService {
	return &RevisionService{
		taskRepo:    repos.Task,
		shiftRepo:   repos.Shift,
		transaction: transaction,
		db:          db,
		log:         logger.New("revisionService"),
	}
}

// RequestRevision pulls every shift off the task and parks it in
// needs_revision. The reason is appended to the task notes.
func (s *RevisionService) RequestRevision(
	ctx context.Context,
	taskID uuid.UUID,
	reason string,
) (*CleaningTask, error) {
	log := s.log.TraceFromContext(ctx).Function("RequestRevision")

	reason = strings.TrimSpace(reason)
	if reason == "" {
		return nil, log.ErrorWithType(types.ErrValidation, "reason is required")
	}

	var removed int64
	err := s.transaction.Execute(ctx, func(ctx context.Context, tx *gorm.DB) error {
		task, err := s.taskRepo.GetByID(ctx, tx, taskID)
		if err != nil {
			return err
		}
		if !task.CanTransitionTo(TaskStatusNeedsRevision) {
			return invalidTransition(log, "task", task.Status, TaskStatusNeedsRevision)
		}

		if removed, err = s.shiftRepo.DeleteByTask(ctx, tx, task.ID); err != nil {
			return err
		}

		if err := task.UpdateStatus(TaskStatusNeedsRevision); err != nil {
			return err
		}
		task.AppendNote(revisionRequestedPrefix + " " + reason)

		return s.taskRepo.Save(ctx, tx, task)
	})
	if err != nil {
		return nil, err
	}

	log.Info("Revision requested", "taskID", taskID, "removedShifts", removed)
	return s.taskRepo.GetByID(ctx, s.db, taskID)
}

// ResolveRevision returns a task in needs_revision to the unassigned pool.
func (s *RevisionService) ResolveRevision(
	ctx context.Context,
	taskID uuid.UUID,
	notes string,
) (*CleaningTask, error) {
	log := s.log.TraceFromContext(ctx).Function("ResolveRevision")

	err := s.transaction.Execute(ctx, func(ctx context.Context, tx *gorm.DB) error {
		task, err := s.taskRepo.GetByID(ctx, tx, taskID)
		if err != nil {
			return err
		}
		if task.Status != TaskStatusNeedsRevision {
			return log.ErrorWithType(
				types.ErrValidation,
				"task is not waiting on a revision",
				"taskID", taskID,
				"status", task.Status,
			)
		}

		if err := task.UpdateStatus(TaskStatusUnassigned); err != nil {
			return err
		}

		note := revisionResolvedPrefix
		if notes = strings.TrimSpace(notes); notes != "" {
			note += " " + notes
		}
		task.AppendNote(note)

		return s.taskRepo.Save(ctx, tx, task)
	})
	if err != nil {
		return nil, err
	}

	log.Info("Revision resolved", "taskID", taskID)
	return s.taskRepo.GetByID(ctx, s.db, taskID)
}
