package repositories

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"cleanops/internal/types"

	logger "github.com/Bparsons0904/goLogger"
	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	. "cleanops/internal/models"
)

type TaskFilter struct {
	Date       *time.Time
	From       *time.Time
	To         *time.Time
	Status     *TaskStatus
	FacilityID *uuid.UUID
	Limit      int
}

type TaskRepository interface {
	GetByID(ctx context.Context, tx *gorm.DB, id uuid.UUID) (*CleaningTask, error)
	GetByIDs(ctx context.Context, tx *gorm.DB, ids []uuid.UUID) (map[uuid.UUID]*CleaningTask, error)
	List(ctx context.Context, tx *gorm.DB, filter TaskFilter) ([]*CleaningTask, error)
	GetOpenFrom(ctx context.Context, tx *gorm.DB, from time.Time) ([]*CleaningTask, error)
	GetCoveredReservationIDs(
		ctx context.Context,
		tx *gorm.DB,
		reservationIDs []uuid.UUID,
	) (map[uuid.UUID]bool, error)
	Create(ctx context.Context, tx *gorm.DB, task *CleaningTask) error
	Save(ctx context.Context, tx *gorm.DB, task *CleaningTask) error
	CountByStatus(ctx context.Context, tx *gorm.DB, date time.Time) (map[TaskStatus]int64, error)
	AverageCompletionMinutes(ctx context.Context, tx *gorm.DB, date time.Time) (*float64, error)
}

type taskRepository struct {
	log logger.Logger
}

func NewTaskRepository() TaskRepository {
	return &taskRepository{
		log: logger.New("taskRepository"),
	}
}

func (r *taskRepository) GetByID(
	ctx context.Context,
	tx *gorm.DB,
	id uuid.UUID,
) (*CleaningTask, error) {
	log := r.log.TraceFromContext(ctx).Function("GetByID")

	var task CleaningTask
	err := tx.WithContext(ctx).
		Preload("Facility").
		Preload("Reservation").
		Where("id = ?", id).
		First(&task).Error
	if err != nil {
		if isNotFound(err) {
			return nil, notFound("task", id)
		}
		return nil, log.Err("failed to get task", persistence(err), "taskID", id)
	}

	return &task, nil
}

func (r *taskRepository) GetByIDs(
	ctx context.Context,
	tx *gorm.DB,
	ids []uuid.UUID,
) (map[uuid.UUID]*CleaningTask, error) {
	log := r.log.TraceFromContext(ctx).Function("GetByIDs")

	result := make(map[uuid.UUID]*CleaningTask, len(ids))
	if len(ids) == 0 {
		return result, nil
	}

	var tasks []*CleaningTask
	if err := tx.WithContext(ctx).
		Preload("Facility").
		Where("id IN ?", ids).
		Find(&tasks).Error; err != nil {
		return nil, log.Err("failed to get tasks", persistence(err), "count", len(ids))
	}

	for _, task := range tasks {
		result[task.ID] = task
	}
	return result, nil
}

func (r *taskRepository) List(
	ctx context.Context,
	tx *gorm.DB,
	filter TaskFilter,
) ([]*CleaningTask, error) {
	log := r.log.TraceFromContext(ctx).Function("List")

	query := tx.WithContext(ctx).Model(&CleaningTask{}).Preload("Facility").Preload("Reservation")
	if filter.Date != nil {
		query = query.Where("scheduled_date = ?", DateOf(*filter.Date))
	}
	if filter.From != nil {
		query = query.Where("scheduled_date >= ?", DateOf(*filter.From))
	}
	if filter.To != nil {
		query = query.Where("scheduled_date <= ?", DateOf(*filter.To))
	}
	if filter.Status != nil {
		query = query.Where("status = ?", *filter.Status)
	}
	if filter.FacilityID != nil {
		query = query.Where("facility_id = ?", *filter.FacilityID)
	}
	if filter.Limit > 0 {
		query = query.Limit(filter.Limit)
	}

	var tasks []*CleaningTask
	if err := query.
		Order("scheduled_date ASC, scheduled_start_time ASC, id ASC").
		Find(&tasks).Error; err != nil {
		return nil, log.Err("failed to list tasks", persistence(err))
	}

	return tasks, nil
}

// GetOpenFrom returns tasks scheduled on or after from that reconciliation
// still manages, with facility and reservation preloaded.
func (r *taskRepository) GetOpenFrom(
	ctx context.Context,
	tx *gorm.DB,
	from time.Time,
) ([]*CleaningTask, error) {
	log := r.log.TraceFromContext(ctx).Function("GetOpenFrom")

	var tasks []*CleaningTask
	if err := tx.WithContext(ctx).
		Preload("Facility").
		Preload("Reservation").
		Where("scheduled_date >= ?", DateOf(from)).
		Where("status NOT IN ?", []TaskStatus{
			TaskStatusCompleted,
			TaskStatusVerified,
			TaskStatusCancelled,
		}).
		Order("scheduled_date ASC, id ASC").
		Find(&tasks).Error; err != nil {
		return nil, log.Err("failed to get open tasks", persistence(err), "from", FormatDate(from))
	}

	return tasks, nil
}

// GetCoveredReservationIDs reports which reservations already have a task
// that is not cancelled.
func (r *taskRepository) GetCoveredReservationIDs(
	ctx context.Context,
	tx *gorm.DB,
	reservationIDs []uuid.UUID,
) (map[uuid.UUID]bool, error) {
	log := r.log.TraceFromContext(ctx).Function("GetCoveredReservationIDs")

	covered := make(map[uuid.UUID]bool, len(reservationIDs))
	if len(reservationIDs) == 0 {
		return covered, nil
	}

	var ids []uuid.UUID
	if err := tx.WithContext(ctx).
		Model(&CleaningTask{}).
		Where("reservation_id IN ? AND status <> ?", reservationIDs, TaskStatusCancelled).
		Distinct().
		Pluck("reservation_id", &ids).Error; err != nil {
		return nil, log.Err("failed to get covered reservations", persistence(err))
	}

	for _, id := range ids {
		covered[id] = true
	}
	return covered, nil
}

func (r *taskRepository) Create(ctx context.Context, tx *gorm.DB, task *CleaningTask) error {
	log := r.log.TraceFromContext(ctx).Function("Create")

	if err := tx.WithContext(ctx).Omit(clause.Associations).Create(task).Error; err != nil {
		return log.Err("failed to create task", persistence(err), "facilityID", task.FacilityID)
	}

	return nil
}

// Save writes every column guarded by the version the task was loaded with. A
// concurrent writer that got there first turns this into a conflict.
func (r *taskRepository) Save(ctx context.Context, tx *gorm.DB, task *CleaningTask) error {
	log := r.log.TraceFromContext(ctx).Function("Save")

	expected := task.Version
	task.Version = expected + 1

	result := tx.WithContext(ctx).
		Model(task).
		Where("version = ?", expected).
		Select("*").
		Omit(clause.Associations, "CreatedAt").
		Updates(task)
	if result.Error != nil {
		task.Version = expected
		return log.Err("failed to save task", persistence(result.Error), "taskID", task.ID)
	}
	if result.RowsAffected == 0 {
		task.Version = expected
		return fmt.Errorf("%w: task %s was modified concurrently", types.ErrConflict, task.ID)
	}

	return nil
}

func (r *taskRepository) CountByStatus(
	ctx context.Context,
	tx *gorm.DB,
	date time.Time,
) (map[TaskStatus]int64, error) {
	log := r.log.TraceFromContext(ctx).Function("CountByStatus")

	var rows []struct {
		Status TaskStatus
		Count  int64
	}
	if err := tx.WithContext(ctx).
		Model(&CleaningTask{}).
		Select("status, COUNT(*) AS count").
		Where("scheduled_date = ?", DateOf(date)).
		Group("status").
		Scan(&rows).Error; err != nil {
		return nil, log.Err("failed to count tasks by status", persistence(err), "date", FormatDate(date))
	}

	counts := make(map[TaskStatus]int64, len(rows))
	for _, row := range rows {
		counts[row.Status] = row.Count
	}
	return counts, nil
}

// AverageCompletionMinutes is nil when no task on the date has a recorded
// duration.
func (r *taskRepository) AverageCompletionMinutes(
	ctx context.Context,
	tx *gorm.DB,
	date time.Time,
) (*float64, error) {
	log := r.log.TraceFromContext(ctx).Function("AverageCompletionMinutes")

	var avg sql.NullFloat64
	if err := tx.WithContext(ctx).
		Model(&CleaningTask{}).
		Select("AVG(actual_duration_minutes)").
		Where("scheduled_date = ? AND actual_duration_minutes IS NOT NULL", DateOf(date)).
		Row().
		Scan(&avg); err != nil {
		return nil, log.Err("failed to average task durations", persistence(err), "date", FormatDate(date))
	}
	if !avg.Valid {
		return nil, nil
	}

	return &avg.Float64, nil
}
