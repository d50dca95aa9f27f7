package repositories

import (
	"context"
	"time"

	logger "github.com/Bparsons0904/goLogger"
	"github.com/google/uuid"
	"gorm.io/gorm"

	. "cleanops/internal/models"
)

type UpsertOutcome int

const (
	UpsertUnchanged UpsertOutcome = iota
	UpsertCreated
	UpsertUpdated
)

type ReservationFilter struct {
	From             *time.Time
	To               *time.Time
	FacilityID       *uuid.UUID
	IncludeCancelled bool
}

type ReservationRepository interface {
	GetByID(ctx context.Context, tx *gorm.DB, id uuid.UUID) (*Reservation, error)
	GetByExternalID(ctx context.Context, tx *gorm.DB, source, externalID string) (*Reservation, error)
	GetActiveFrom(ctx context.Context, tx *gorm.DB, from time.Time) ([]*Reservation, error)
	GetActiveByCheckoutDate(ctx context.Context, tx *gorm.DB, date time.Time) ([]*Reservation, error)
	List(ctx context.Context, tx *gorm.DB, filter ReservationFilter) ([]*Reservation, error)
	Upsert(ctx context.Context, tx *gorm.DB, reservation *Reservation) (UpsertOutcome, error)
	UpdateFacility(ctx context.Context, tx *gorm.DB, id uuid.UUID, facilityID uuid.UUID) error
}

type reservationRepository struct {
	log logger.Logger
}

func NewReservationRepository() ReservationRepository {
	return &reservationRepository{
		log: logger.New("reservationRepository"),
	}
}

func (r *reservationRepository) GetByID(
	ctx context.Context,
	tx *gorm.DB,
	id uuid.UUID,
) (*Reservation, error) {
	log := r.log.TraceFromContext(ctx).Function("GetByID")

	reservation, err := gorm.G[Reservation](tx).Where("id = ?", id).First(ctx)
	if err != nil {
		if isNotFound(err) {
			return nil, notFound("reservation", id)
		}
		return nil, log.Err("failed to get reservation", persistence(err), "reservationID", id)
	}

	return &reservation, nil
}

// GetByExternalID returns nil without error for an unknown booking.
func (r *reservationRepository) GetByExternalID(
	ctx context.Context,
	tx *gorm.DB,
	source, externalID string,
) (*Reservation, error) {
	log := r.log.TraceFromContext(ctx).Function("GetByExternalID")

	reservation, err := gorm.G[Reservation](tx).
		Where("source = ? AND external_id = ?", source, externalID).
		First(ctx)
	if err != nil {
		if isNotFound(err) {
			return nil, nil
		}
		return nil, log.Err(
			"failed to get reservation by external id",
			persistence(err),
			"source",
			source,
			"externalID",
			externalID,
		)
	}

	return &reservation, nil
}

func (r *reservationRepository) GetActiveFrom(
	ctx context.Context,
	tx *gorm.DB,
	from time.Time,
) ([]*Reservation, error) {
	log := r.log.TraceFromContext(ctx).Function("GetActiveFrom")

	var reservations []*Reservation
	if err := tx.WithContext(ctx).
		Where("check_out_date >= ? AND is_cancelled = ?", DateOf(from), false).
		Order("check_out_date ASC, id ASC").
		Find(&reservations).Error; err != nil {
		return nil, log.Err("failed to get active reservations", persistence(err), "from", FormatDate(from))
	}

	return reservations, nil
}

func (r *reservationRepository) GetActiveByCheckoutDate(
	ctx context.Context,
	tx *gorm.DB,
	date time.Time,
) ([]*Reservation, error) {
	log := r.log.TraceFromContext(ctx).Function("GetActiveByCheckoutDate")

	var reservations []*Reservation
	if err := tx.WithContext(ctx).
		Where("check_out_date = ? AND is_cancelled = ?", DateOf(date), false).
		Order("id ASC").
		Find(&reservations).Error; err != nil {
		return nil, log.Err("failed to get reservations for checkout date", persistence(err), "date", FormatDate(date))
	}

	return reservations, nil
}

func (r *reservationRepository) List(
	ctx context.Context,
	tx *gorm.DB,
	filter ReservationFilter,
) ([]*Reservation, error) {
	log := r.log.TraceFromContext(ctx).Function("List")

	query := tx.WithContext(ctx).Model(&Reservation{})
	if filter.From != nil {
		query = query.Where("check_out_date >= ?", DateOf(*filter.From))
	}
	if filter.To != nil {
		query = query.Where("check_out_date <= ?", DateOf(*filter.To))
	}
	if filter.FacilityID != nil {
		query = query.Where("facility_id = ?", *filter.FacilityID)
	}
	if !filter.IncludeCancelled {
		query = query.Where("is_cancelled = ?", false)
	}

	var reservations []*Reservation
	if err := query.Order("check_out_date ASC, id ASC").Find(&reservations).Error; err != nil {
		return nil, log.Err("failed to list reservations", persistence(err))
	}

	return reservations, nil
}

// Upsert matches on (source, external id). Rows whose content hash did not
// change are left untouched.
func (r *reservationRepository) Upsert(
	ctx context.Context,
	tx *gorm.DB,
	reservation *Reservation,
) (UpsertOutcome, error) {
	log := r.log.TraceFromContext(ctx).Function("Upsert")

	existing, err := r.GetByExternalID(ctx, tx, reservation.Source, reservation.ExternalID)
	if err != nil {
		return UpsertUnchanged, err
	}

	if existing == nil {
		if err := tx.WithContext(ctx).Omit("Facility").Create(reservation).Error; err != nil {
			return UpsertUnchanged, log.Err(
				"failed to create reservation",
				persistence(err),
				"externalID",
				reservation.ExternalID,
			)
		}
		return UpsertCreated, nil
	}

	reservation.ID = existing.ID
	reservation.CreatedAt = existing.CreatedAt
	// a new room type label means the booking moved; resolve the facility again
	if reservation.FacilityID == nil && reservation.RoomType == existing.RoomType {
		reservation.FacilityID = existing.FacilityID
	}
	if existing.ContentHash != "" && existing.ContentHash == reservation.ContentHash {
		return UpsertUnchanged, nil
	}

	if err := tx.WithContext(ctx).Omit("Facility").Save(reservation).Error; err != nil {
		return UpsertUnchanged, log.Err(
			"failed to update reservation",
			persistence(err),
			"externalID",
			reservation.ExternalID,
		)
	}
	return UpsertUpdated, nil
}

func (r *reservationRepository) UpdateFacility(
	ctx context.Context,
	tx *gorm.DB,
	id uuid.UUID,
	facilityID uuid.UUID,
) error {
	log := r.log.TraceFromContext(ctx).Function("UpdateFacility")

	if err := tx.WithContext(ctx).
		Model(&Reservation{}).
		Where("id = ?", id).
		Update("facility_id", facilityID).Error; err != nil {
		return log.Err("failed to set reservation facility", persistence(err), "reservationID", id)
	}

	return nil
}
