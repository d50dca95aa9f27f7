package repositories

import (
	"context"

	logger "github.com/Bparsons0904/goLogger"
	"github.com/google/uuid"
	"gorm.io/gorm"

	. "cleanops/internal/models"
)

type StaffRepository interface {
	GetByID(ctx context.Context, tx *gorm.DB, id uuid.UUID) (*Staff, error)
	GetByIDs(ctx context.Context, tx *gorm.DB, ids []uuid.UUID) (map[uuid.UUID]*Staff, error)
	GetActive(ctx context.Context, tx *gorm.DB) ([]*Staff, error)
	GetAll(ctx context.Context, tx *gorm.DB) ([]*Staff, error)
	Create(ctx context.Context, tx *gorm.DB, staff *Staff) error
	Update(ctx context.Context, tx *gorm.DB, staff *Staff) error
}

type staffRepository struct {
	log logger.Logger
}

func NewStaffRepository() StaffRepository {
	return &staffRepository{
		log: logger.New("staffRepository"),
	}
}

func (r *staffRepository) GetByID(ctx context.Context, tx *gorm.DB, id uuid.UUID) (*Staff, error) {
	log := r.log.TraceFromContext(ctx).Function("GetByID")

	staff, err := gorm.G[Staff](tx).Where("id = ?", id).First(ctx)
	if err != nil {
		if isNotFound(err) {
			return nil, notFound("staff", id)
		}
		return nil, log.Err("failed to get staff", persistence(err), "staffID", id)
	}

	return &staff, nil
}

func (r *staffRepository) GetByIDs(
	ctx context.Context,
	tx *gorm.DB,
	ids []uuid.UUID,
) (map[uuid.UUID]*Staff, error) {
	log := r.log.TraceFromContext(ctx).Function("GetByIDs")

	result := make(map[uuid.UUID]*Staff, len(ids))
	if len(ids) == 0 {
		return result, nil
	}

	var staff []*Staff
	if err := tx.WithContext(ctx).Where("id IN ?", ids).Find(&staff).Error; err != nil {
		return nil, log.Err("failed to get staff", persistence(err), "count", len(ids))
	}

	for _, member := range staff {
		result[member.ID] = member
	}
	return result, nil
}

// GetActive returns active staff ordered by id, which is the scorer's
// enumeration order.
func (r *staffRepository) GetActive(ctx context.Context, tx *gorm.DB) ([]*Staff, error) {
	log := r.log.TraceFromContext(ctx).Function("GetActive")

	var staff []*Staff
	if err := tx.WithContext(ctx).
		Where("is_active = ?", true).
		Order("id ASC").
		Find(&staff).Error; err != nil {
		return nil, log.Err("failed to get active staff", persistence(err))
	}

	return staff, nil
}

func (r *staffRepository) GetAll(ctx context.Context, tx *gorm.DB) ([]*Staff, error) {
	log := r.log.TraceFromContext(ctx).Function("GetAll")

	var staff []*Staff
	if err := tx.WithContext(ctx).Order("name ASC").Find(&staff).Error; err != nil {
		return nil, log.Err("failed to list staff", persistence(err))
	}

	return staff, nil
}

func (r *staffRepository) Create(ctx context.Context, tx *gorm.DB, staff *Staff) error {
	log := r.log.TraceFromContext(ctx).Function("Create")

	if err := tx.WithContext(ctx).Create(staff).Error; err != nil {
		return log.Err("failed to create staff", persistence(err), "name", staff.Name)
	}

	return nil
}

func (r *staffRepository) Update(ctx context.Context, tx *gorm.DB, staff *Staff) error {
	log := r.log.TraceFromContext(ctx).Function("Update")

	if err := tx.WithContext(ctx).Save(staff).Error; err != nil {
		return log.Err("failed to update staff", persistence(err), "staffID", staff.ID)
	}

	return nil
}
