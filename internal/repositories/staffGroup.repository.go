package repositories

import (
	"context"
	"fmt"
	"time"

	"cleanops/internal/types"

	logger "github.com/Bparsons0904/goLogger"
	"github.com/google/uuid"
	"gorm.io/gorm"

	. "cleanops/internal/models"
)

type StaffGroupRepository interface {
	GetByID(ctx context.Context, tx *gorm.DB, id uuid.UUID) (*StaffGroup, error)
	GetAll(ctx context.Context, tx *gorm.DB) ([]*StaffGroup, error)
	GetActiveMemberIDs(ctx context.Context, tx *gorm.DB, groupID uuid.UUID) ([]uuid.UUID, error)
	Create(ctx context.Context, tx *gorm.DB, group *StaffGroup) error
	Update(ctx context.Context, tx *gorm.DB, group *StaffGroup) error
	AddMember(ctx context.Context, tx *gorm.DB, member *StaffGroupMember) error
	EndMembership(ctx context.Context, tx *gorm.DB, groupID, staffID uuid.UUID, leftDate time.Time) error
}

type staffGroupRepository struct {
	log logger.Logger
}

func NewStaffGroupRepository() StaffGroupRepository {
	return &staffGroupRepository{
		log: logger.New("staffGroupRepository"),
	}
}

func (r *staffGroupRepository) GetByID(
	ctx context.Context,
	tx *gorm.DB,
	id uuid.UUID,
) (*StaffGroup, error) {
	log := r.log.TraceFromContext(ctx).Function("GetByID")

	var group StaffGroup
	err := tx.WithContext(ctx).
		Preload("Members", func(db *gorm.DB) *gorm.DB {
			return db.Order("joined_date ASC, id ASC")
		}).
		Preload("Members.Staff").
		Where("id = ?", id).
		First(&group).Error
	if err != nil {
		if isNotFound(err) {
			return nil, notFound("staff group", id)
		}
		return nil, log.Err("failed to get staff group", persistence(err), "groupID", id)
	}

	return &group, nil
}

func (r *staffGroupRepository) GetAll(ctx context.Context, tx *gorm.DB) ([]*StaffGroup, error) {
	log := r.log.TraceFromContext(ctx).Function("GetAll")

	var groups []*StaffGroup
	if err := tx.WithContext(ctx).
		Preload("Members", "left_date IS NULL").
		Order("name ASC").
		Find(&groups).Error; err != nil {
		return nil, log.Err("failed to list staff groups", persistence(err))
	}

	return groups, nil
}

func (r *staffGroupRepository) GetActiveMemberIDs(
	ctx context.Context,
	tx *gorm.DB,
	groupID uuid.UUID,
) ([]uuid.UUID, error) {
	log := r.log.TraceFromContext(ctx).Function("GetActiveMemberIDs")

	var ids []uuid.UUID
	if err := tx.WithContext(ctx).
		Model(&StaffGroupMember{}).
		Where("group_id = ? AND left_date IS NULL", groupID).
		Order("staff_id ASC").
		Pluck("staff_id", &ids).Error; err != nil {
		return nil, log.Err("failed to get group members", persistence(err), "groupID", groupID)
	}

	return ids, nil
}

func (r *staffGroupRepository) Create(ctx context.Context, tx *gorm.DB, group *StaffGroup) error {
	log := r.log.TraceFromContext(ctx).Function("Create")

	if err := tx.WithContext(ctx).Omit("Members").Create(group).Error; err != nil {
		return log.Err("failed to create staff group", persistence(err), "name", group.Name)
	}

	return nil
}

func (r *staffGroupRepository) Update(ctx context.Context, tx *gorm.DB, group *StaffGroup) error {
	log := r.log.TraceFromContext(ctx).Function("Update")

	if err := tx.WithContext(ctx).Omit("Members").Save(group).Error; err != nil {
		return log.Err("failed to update staff group", persistence(err), "groupID", group.ID)
	}

	return nil
}

// AddMember rejects a second active membership for the same staff member.
func (r *staffGroupRepository) AddMember(
	ctx context.Context,
	tx *gorm.DB,
	member *StaffGroupMember,
) error {
	log := r.log.TraceFromContext(ctx).Function("AddMember")

	var count int64
	if err := tx.WithContext(ctx).
		Model(&StaffGroupMember{}).
		Where("group_id = ? AND staff_id = ? AND left_date IS NULL", member.GroupID, member.StaffID).
		Count(&count).Error; err != nil {
		return log.Err("failed to check group membership", persistence(err))
	}
	if count > 0 {
		return fmt.Errorf(
			"%w: staff %s is already an active member of group %s",
			types.ErrConflict,
			member.StaffID,
			member.GroupID,
		)
	}

	if err := tx.WithContext(ctx).Omit("Staff").Create(member).Error; err != nil {
		return log.Err("failed to add group member", persistence(err), "groupID", member.GroupID)
	}

	return nil
}

func (r *staffGroupRepository) EndMembership(
	ctx context.Context,
	tx *gorm.DB,
	groupID, staffID uuid.UUID,
	leftDate time.Time,
) error {
	log := r.log.TraceFromContext(ctx).Function("EndMembership")

	result := tx.WithContext(ctx).
		Model(&StaffGroupMember{}).
		Where("group_id = ? AND staff_id = ? AND left_date IS NULL", groupID, staffID).
		Update("left_date", DateOf(leftDate))
	if result.Error != nil {
		return log.Err("failed to end group membership", persistence(result.Error), "groupID", groupID)
	}
	if result.RowsAffected == 0 {
		return notFound("active membership for staff", staffID)
	}

	return nil
}
