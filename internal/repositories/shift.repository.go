package repositories

import (
	"context"
	"time"

	logger "github.com/Bparsons0904/goLogger"
	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	. "cleanops/internal/models"
)

type ShiftFilter struct {
	StaffID *uuid.UUID
	GroupID *uuid.UUID
	TaskID  *uuid.UUID
	TaskIDs []uuid.UUID
	Date    *time.Time
	From    *time.Time
	To      *time.Time
	Status  *ShiftStatus
}

type ShiftRepository interface {
	GetByID(ctx context.Context, tx *gorm.DB, id uuid.UUID) (*CleaningShift, error)
	List(ctx context.Context, tx *gorm.DB, filter ShiftFilter) ([]*CleaningShift, error)
	GetActiveByTask(ctx context.Context, tx *gorm.DB, taskID uuid.UUID) ([]*CleaningShift, error)
	ExistsActiveForStaffAndTask(ctx context.Context, tx *gorm.DB, staffID, taskID uuid.UUID) (bool, error)
	CountActiveByStaffForDate(ctx context.Context, tx *gorm.DB, date time.Time) (map[uuid.UUID]int, error)
	GetActiveByStaffForDate(
		ctx context.Context,
		tx *gorm.DB,
		staffID uuid.UUID,
		date time.Time,
	) ([]*CleaningShift, error)
	GetCompletedBetween(ctx context.Context, tx *gorm.DB, from, to time.Time) ([]*CleaningShift, error)
	CountActiveStaffForDate(ctx context.Context, tx *gorm.DB, date time.Time) (int64, error)
	Create(ctx context.Context, tx *gorm.DB, shift *CleaningShift) error
	Save(ctx context.Context, tx *gorm.DB, shift *CleaningShift) error
	Delete(ctx context.Context, tx *gorm.DB, id uuid.UUID) error
	DeleteByTask(ctx context.Context, tx *gorm.DB, taskID uuid.UUID) (int64, error)
}

type shiftRepository struct {
	log logger.Logger
}

func NewShiftRepository() ShiftRepository {
	return &shiftRepository{
		log: logger.New("shiftRepository"),
	}
}

func (r *shiftRepository) GetByID(
	ctx context.Context,
	tx *gorm.DB,
	id uuid.UUID,
) (*CleaningShift, error) {
	log := r.log.TraceFromContext(ctx).Function("GetByID")

	var shift CleaningShift
	err := tx.WithContext(ctx).
		Preload("Staff").
		Preload("Group").
		Where("id = ?", id).
		First(&shift).Error
	if err != nil {
		if isNotFound(err) {
			return nil, notFound("shift", id)
		}
		return nil, log.Err("failed to get shift", persistence(err), "shiftID", id)
	}

	return &shift, nil
}

func (r *shiftRepository) List(
	ctx context.Context,
	tx *gorm.DB,
	filter ShiftFilter,
) ([]*CleaningShift, error) {
	log := r.log.TraceFromContext(ctx).Function("List")

	query := tx.WithContext(ctx).Model(&CleaningShift{}).Preload("Staff").Preload("Group")
	if filter.StaffID != nil {
		query = query.Where("staff_id = ?", *filter.StaffID)
	}
	if filter.GroupID != nil {
		query = query.Where("group_id = ?", *filter.GroupID)
	}
	if filter.TaskID != nil {
		query = query.Where("task_id = ?", *filter.TaskID)
	}
	if filter.TaskIDs != nil {
		query = query.Where("task_id IN ?", filter.TaskIDs)
	}
	if filter.Date != nil {
		query = query.Where("assigned_date = ?", DateOf(*filter.Date))
	}
	if filter.From != nil {
		query = query.Where("assigned_date >= ?", DateOf(*filter.From))
	}
	if filter.To != nil {
		query = query.Where("assigned_date <= ?", DateOf(*filter.To))
	}
	if filter.Status != nil {
		query = query.Where("status = ?", *filter.Status)
	}

	var shifts []*CleaningShift
	if err := query.
		Order("assigned_date ASC, scheduled_start_time ASC, id ASC").
		Find(&shifts).Error; err != nil {
		return nil, log.Err("failed to list shifts", persistence(err))
	}

	return shifts, nil
}

// GetActiveByTask returns the shifts that count toward staffing and wage
// splits, oldest first.
func (r *shiftRepository) GetActiveByTask(
	ctx context.Context,
	tx *gorm.DB,
	taskID uuid.UUID,
) ([]*CleaningShift, error) {
	log := r.log.TraceFromContext(ctx).Function("GetActiveByTask")

	var shifts []*CleaningShift
	if err := tx.WithContext(ctx).
		Preload("Staff").
		Preload("Group").
		Where("task_id = ? AND status <> ?", taskID, ShiftStatusCancelled).
		Order("created_at ASC, id ASC").
		Find(&shifts).Error; err != nil {
		return nil, log.Err("failed to get task shifts", persistence(err), "taskID", taskID)
	}

	return shifts, nil
}

func (r *shiftRepository) ExistsActiveForStaffAndTask(
	ctx context.Context,
	tx *gorm.DB,
	staffID, taskID uuid.UUID,
) (bool, error) {
	log := r.log.TraceFromContext(ctx).Function("ExistsActiveForStaffAndTask")

	var count int64
	if err := tx.WithContext(ctx).
		Model(&CleaningShift{}).
		Where("staff_id = ? AND task_id = ? AND status <> ?", staffID, taskID, ShiftStatusCancelled).
		Count(&count).Error; err != nil {
		return false, log.Err("failed to check existing shift", persistence(err), "taskID", taskID)
	}

	return count > 0, nil
}

// CountActiveByStaffForDate tallies each staff member's active shifts on the
// date, ignoring shifts whose task was cancelled.
func (r *shiftRepository) CountActiveByStaffForDate(
	ctx context.Context,
	tx *gorm.DB,
	date time.Time,
) (map[uuid.UUID]int, error) {
	log := r.log.TraceFromContext(ctx).Function("CountActiveByStaffForDate")

	var rows []struct {
		StaffID uuid.UUID
		Count   int
	}
	if err := tx.WithContext(ctx).
		Table("cleaning_shifts AS s").
		Select("s.staff_id AS staff_id, COUNT(*) AS count").
		Joins("JOIN cleaning_tasks AS t ON t.id = s.task_id AND t.deleted_at IS NULL").
		Where("s.deleted_at IS NULL AND s.staff_id IS NOT NULL").
		Where("s.assigned_date = ? AND s.status <> ?", DateOf(date), ShiftStatusCancelled).
		Where("t.status <> ?", TaskStatusCancelled).
		Group("s.staff_id").
		Scan(&rows).Error; err != nil {
		return nil, log.Err("failed to count staff shifts", persistence(err), "date", FormatDate(date))
	}

	counts := make(map[uuid.UUID]int, len(rows))
	for _, row := range rows {
		counts[row.StaffID] = row.Count
	}
	return counts, nil
}

func (r *shiftRepository) GetActiveByStaffForDate(
	ctx context.Context,
	tx *gorm.DB,
	staffID uuid.UUID,
	date time.Time,
) ([]*CleaningShift, error) {
	log := r.log.TraceFromContext(ctx).Function("GetActiveByStaffForDate")

	var shifts []*CleaningShift
	if err := tx.WithContext(ctx).
		Where("staff_id = ? AND assigned_date = ? AND status <> ?", staffID, DateOf(date), ShiftStatusCancelled).
		Order("scheduled_start_time ASC").
		Find(&shifts).Error; err != nil {
		return nil, log.Err("failed to get staff shifts", persistence(err), "staffID", staffID)
	}

	return shifts, nil
}

func (r *shiftRepository) GetCompletedBetween(
	ctx context.Context,
	tx *gorm.DB,
	from, to time.Time,
) ([]*CleaningShift, error) {
	log := r.log.TraceFromContext(ctx).Function("GetCompletedBetween")

	var shifts []*CleaningShift
	if err := tx.WithContext(ctx).
		Preload("Staff").
		Where("status = ? AND staff_id IS NOT NULL", ShiftStatusCompleted).
		Where("assigned_date >= ? AND assigned_date <= ?", DateOf(from), DateOf(to)).
		Order("staff_id ASC").
		Find(&shifts).Error; err != nil {
		return nil, log.Err("failed to get completed shifts", persistence(err))
	}

	return shifts, nil
}

func (r *shiftRepository) CountActiveStaffForDate(
	ctx context.Context,
	tx *gorm.DB,
	date time.Time,
) (int64, error) {
	log := r.log.TraceFromContext(ctx).Function("CountActiveStaffForDate")

	var count int64
	if err := tx.WithContext(ctx).
		Model(&CleaningShift{}).
		Where("assigned_date = ? AND status <> ? AND staff_id IS NOT NULL", DateOf(date), ShiftStatusCancelled).
		Distinct("staff_id").
		Count(&count).Error; err != nil {
		return 0, log.Err("failed to count working staff", persistence(err), "date", FormatDate(date))
	}

	return count, nil
}

func (r *shiftRepository) Create(ctx context.Context, tx *gorm.DB, shift *CleaningShift) error {
	log := r.log.TraceFromContext(ctx).Function("Create")

	if err := tx.WithContext(ctx).Omit(clause.Associations).Create(shift).Error; err != nil {
		return log.Err("failed to create shift", persistence(err), "taskID", shift.TaskID)
	}

	return nil
}

func (r *shiftRepository) Save(ctx context.Context, tx *gorm.DB, shift *CleaningShift) error {
	log := r.log.TraceFromContext(ctx).Function("Save")

	if err := tx.WithContext(ctx).Omit(clause.Associations).Save(shift).Error; err != nil {
		return log.Err("failed to save shift", persistence(err), "shiftID", shift.ID)
	}

	return nil
}

func (r *shiftRepository) Delete(ctx context.Context, tx *gorm.DB, id uuid.UUID) error {
	log := r.log.TraceFromContext(ctx).Function("Delete")

	result := tx.WithContext(ctx).Where("id = ?", id).Delete(&CleaningShift{})
	if result.Error != nil {
		return log.Err("failed to delete shift", persistence(result.Error), "shiftID", id)
	}
	if result.RowsAffected == 0 {
		return notFound("shift", id)
	}

	return nil
}

func (r *shiftRepository) DeleteByTask(
	ctx context.Context,
	tx *gorm.DB,
	taskID uuid.UUID,
) (int64, error) {
	log := r.log.TraceFromContext(ctx).Function("DeleteByTask")

	result := tx.WithContext(ctx).Where("task_id = ?", taskID).Delete(&CleaningShift{})
	if result.Error != nil {
		return 0, log.Err("failed to delete task shifts", persistence(result.Error), "taskID", taskID)
	}

	return result.RowsAffected, nil
}
