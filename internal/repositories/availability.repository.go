package repositories

import (
	"context"
	"fmt"
	"time"

	"cleanops/internal/constants"
	"cleanops/internal/database"

	logger "github.com/Bparsons0904/goLogger"
	"github.com/google/uuid"
	"gorm.io/gorm"

	. "cleanops/internal/models"
)

type AvailabilityRepository interface {
	Get(
		ctx context.Context,
		tx *gorm.DB,
		staffID uuid.UUID,
		year int,
		month time.Month,
	) (*StaffAvailability, error)
	GetForStaff(
		ctx context.Context,
		tx *gorm.DB,
		staffIDs []uuid.UUID,
		year int,
		month time.Month,
	) (map[uuid.UUID]*StaffAvailability, error)
	Save(ctx context.Context, tx *gorm.DB, availability *StaffAvailability) error
}

type availabilityRepository struct {
	cache database.CacheClient
	log   logger.Logger
}

func NewAvailabilityRepository(cache database.CacheClient) AvailabilityRepository {
	return &availabilityRepository{
		cache: cache,
		log:   logger.New("availabilityRepository"),
	}
}

func availabilityCacheKey(staffID uuid.UUID, year int, month time.Month) string {
	return fmt.Sprintf("%s:%04d-%02d", staffID, year, int(month))
}

// Get returns nil without error when the staff member has no calendar for the
// month.
func (r *availabilityRepository) Get(
	ctx context.Context,
	tx *gorm.DB,
	staffID uuid.UUID,
	year int,
	month time.Month,
) (*StaffAvailability, error) {
	log := r.log.TraceFromContext(ctx).Function("Get")

	key := availabilityCacheKey(staffID, year, month)

	var cached StaffAvailability
	found, err := database.NewCacheBuilder(r.cache, key).
		WithContext(ctx).
		WithHash(constants.AvailabilityCachePrefix).
		Get(&cached)
	if err != nil {
		log.Warn("failed to get availability from cache", "staffID", staffID, "error", err)
	}
	if found {
		return &cached, nil
	}

	availability, err := gorm.G[StaffAvailability](tx).
		Where("staff_id = ? AND year = ? AND month = ?", staffID, year, int(month)).
		First(ctx)
	if err != nil {
		if isNotFound(err) {
			return nil, nil
		}
		return nil, log.Err("failed to get availability", persistence(err), "staffID", staffID)
	}

	err = database.NewCacheBuilder(r.cache, key).
		WithContext(ctx).
		WithHash(constants.AvailabilityCachePrefix).
		WithStruct(availability).
		WithTTL(constants.AvailabilityCacheExpiry).
		Set()
	if err != nil {
		log.Warn("failed to cache availability", "staffID", staffID, "error", err)
	}

	return &availability, nil
}

func (r *availabilityRepository) GetForStaff(
	ctx context.Context,
	tx *gorm.DB,
	staffIDs []uuid.UUID,
	year int,
	month time.Month,
) (map[uuid.UUID]*StaffAvailability, error) {
	log := r.log.TraceFromContext(ctx).Function("GetForStaff")

	result := make(map[uuid.UUID]*StaffAvailability, len(staffIDs))
	if len(staffIDs) == 0 {
		return result, nil
	}

	var rows []*StaffAvailability
	if err := tx.WithContext(ctx).
		Where("staff_id IN ? AND year = ? AND month = ?", staffIDs, year, int(month)).
		Find(&rows).Error; err != nil {
		return nil, log.Err("failed to get availability for staff", persistence(err), "count", len(staffIDs))
	}

	for _, row := range rows {
		result[row.StaffID] = row
	}
	return result, nil
}

// Save inserts a new calendar or updates a loaded one, then drops the cached
// copy.
func (r *availabilityRepository) Save(
	ctx context.Context,
	tx *gorm.DB,
	availability *StaffAvailability,
) error {
	log := r.log.TraceFromContext(ctx).Function("Save")

	var err error
	if availability.ID == uuid.Nil {
		err = tx.WithContext(ctx).Create(availability).Error
	} else {
		err = tx.WithContext(ctx).Save(availability).Error
	}
	if err != nil {
		return log.Err("failed to save availability", persistence(err), "staffID", availability.StaffID)
	}

	key := availabilityCacheKey(availability.StaffID, availability.Year, time.Month(availability.Month))
	if err := database.NewCacheBuilder(r.cache, key).
		WithContext(ctx).
		WithHash(constants.AvailabilityCachePrefix).
		Delete(); err != nil {
		log.Warn("failed to invalidate availability cache", "staffID", availability.StaffID, "error", err)
	}

	return nil
}
