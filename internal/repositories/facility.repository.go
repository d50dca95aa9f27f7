package repositories

import (
	"context"
	"fmt"

	"cleanops/internal/types"

	logger "github.com/Bparsons0904/goLogger"
	"github.com/google/uuid"
	"gorm.io/gorm"

	. "cleanops/internal/models"
)

type FacilityRepository interface {
	GetByID(ctx context.Context, tx *gorm.DB, id uuid.UUID) (*Facility, error)
	GetByName(ctx context.Context, tx *gorm.DB, name string) (*Facility, error)
	GetAll(ctx context.Context, tx *gorm.DB) ([]*Facility, error)
	GetByIDs(ctx context.Context, tx *gorm.DB, ids []uuid.UUID) (map[uuid.UUID]*Facility, error)
	Create(ctx context.Context, tx *gorm.DB, facility *Facility) error
	Update(ctx context.Context, tx *gorm.DB, facility *Facility) error
	GetSettings(ctx context.Context, tx *gorm.DB, facilityID uuid.UUID) (*FacilityCleaningSettings, error)
	CreateSettings(ctx context.Context, tx *gorm.DB, settings *FacilityCleaningSettings) error
	UpdateSettings(ctx context.Context, tx *gorm.DB, settings *FacilityCleaningSettings) error
}

type facilityRepository struct {
	log logger.Logger
}

func NewFacilityRepository() FacilityRepository {
	return &facilityRepository{
		log: logger.New("facilityRepository"),
	}
}

func (r *facilityRepository) GetByID(
	ctx context.Context,
	tx *gorm.DB,
	id uuid.UUID,
) (*Facility, error) {
	log := r.log.TraceFromContext(ctx).Function("GetByID")

	facility, err := gorm.G[Facility](tx).
		Preload("Settings", nil).
		Where("id = ?", id).
		First(ctx)
	if err != nil {
		if isNotFound(err) {
			return nil, notFound("facility", id)
		}
		return nil, log.Err("failed to get facility", persistence(err), "facilityID", id)
	}

	return &facility, nil
}

// GetByName returns nil without error when no facility carries the name.
func (r *facilityRepository) GetByName(
	ctx context.Context,
	tx *gorm.DB,
	name string,
) (*Facility, error) {
	log := r.log.TraceFromContext(ctx).Function("GetByName")

	var facility Facility
	err := tx.WithContext(ctx).
		Preload("Settings").
		Where("name = ?", name).
		First(&facility).Error
	if err != nil {
		if isNotFound(err) {
			return nil, nil
		}
		return nil, log.Err("failed to get facility by name", persistence(err), "name", name)
	}

	return &facility, nil
}

func (r *facilityRepository) GetAll(ctx context.Context, tx *gorm.DB) ([]*Facility, error) {
	log := r.log.TraceFromContext(ctx).Function("GetAll")

	var facilities []*Facility
	if err := tx.WithContext(ctx).
		Preload("Settings").
		Order("name ASC").
		Find(&facilities).Error; err != nil {
		return nil, log.Err("failed to list facilities", persistence(err))
	}

	return facilities, nil
}

func (r *facilityRepository) GetByIDs(
	ctx context.Context,
	tx *gorm.DB,
	ids []uuid.UUID,
) (map[uuid.UUID]*Facility, error) {
	log := r.log.TraceFromContext(ctx).Function("GetByIDs")

	result := make(map[uuid.UUID]*Facility, len(ids))
	if len(ids) == 0 {
		return result, nil
	}

	var facilities []*Facility
	if err := tx.WithContext(ctx).
		Preload("Settings").
		Where("id IN ?", ids).
		Find(&facilities).Error; err != nil {
		return nil, log.Err("failed to get facilities", persistence(err), "count", len(ids))
	}

	for _, facility := range facilities {
		result[facility.ID] = facility
	}
	return result, nil
}

func (r *facilityRepository) Create(ctx context.Context, tx *gorm.DB, facility *Facility) error {
	log := r.log.TraceFromContext(ctx).Function("Create")

	if err := tx.WithContext(ctx).Omit("Settings").Create(facility).Error; err != nil {
		return log.Err("failed to create facility", persistence(err), "name", facility.Name)
	}

	return nil
}

func (r *facilityRepository) Update(ctx context.Context, tx *gorm.DB, facility *Facility) error {
	log := r.log.TraceFromContext(ctx).Function("Update")

	if err := tx.WithContext(ctx).Omit("Settings").Save(facility).Error; err != nil {
		return log.Err("failed to update facility", persistence(err), "facilityID", facility.ID)
	}

	return nil
}

func (r *facilityRepository) GetSettings(
	ctx context.Context,
	tx *gorm.DB,
	facilityID uuid.UUID,
) (*FacilityCleaningSettings, error) {
	log := r.log.TraceFromContext(ctx).Function("GetSettings")

	settings, err := gorm.G[FacilityCleaningSettings](tx).
		Where("facility_id = ?", facilityID).
		First(ctx)
	if err != nil {
		if isNotFound(err) {
			return nil, notFound("cleaning settings for facility", facilityID)
		}
		return nil, log.Err("failed to get cleaning settings", persistence(err), "facilityID", facilityID)
	}

	return &settings, nil
}

func (r *facilityRepository) CreateSettings(
	ctx context.Context,
	tx *gorm.DB,
	settings *FacilityCleaningSettings,
) error {
	log := r.log.TraceFromContext(ctx).Function("CreateSettings")

	var count int64
	if err := tx.WithContext(ctx).
		Model(&FacilityCleaningSettings{}).
		Where("facility_id = ?", settings.FacilityID).
		Count(&count).Error; err != nil {
		return log.Err("failed to check existing settings", persistence(err))
	}
	if count > 0 {
		return fmt.Errorf("%w: cleaning settings already exist for facility %s", types.ErrConflict, settings.FacilityID)
	}

	if err := tx.WithContext(ctx).Create(settings).Error; err != nil {
		return log.Err("failed to create cleaning settings", persistence(err), "facilityID", settings.FacilityID)
	}

	return nil
}

func (r *facilityRepository) UpdateSettings(
	ctx context.Context,
	tx *gorm.DB,
	settings *FacilityCleaningSettings,
) error {
	log := r.log.TraceFromContext(ctx).Function("UpdateSettings")

	if err := tx.WithContext(ctx).Save(settings).Error; err != nil {
		return log.Err("failed to update cleaning settings", persistence(err), "facilityID", settings.FacilityID)
	}

	return nil
}
