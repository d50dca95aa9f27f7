package facilityController

import (
	"context"

	"cleanops/internal/services"
	"cleanops/internal/types"

	logger "github.com/Bparsons0904/goLogger"
	"github.com/google/uuid"

	. "cleanops/internal/models"
)

type FacilityController struct {
	facilityService *services.FacilityService
	log             logger.Logger
}

type FacilityControllerInterface interface {
	ListFacilities(ctx context.Context) ([]*Facility, error)
	GetFacility(ctx context.Context, id uuid.UUID) (*Facility, error)
	CreateFacility(ctx context.Context, req types.CreateFacilityRequest) (*Facility, error)
	UpdateFacility(ctx context.Context, id uuid.UUID, req types.UpdateFacilityRequest) (*Facility, error)
	GetSettings(ctx context.Context, facilityID uuid.UUID) (*FacilityCleaningSettings, error)
	CreateSettings(
		ctx context.Context,
		facilityID uuid.UUID,
		req types.FacilitySettingsRequest,
	) (*FacilityCleaningSettings, error)
	UpdateSettings(
		ctx context.Context,
		facilityID uuid.UUID,
		req types.FacilitySettingsRequest,
	) (*FacilityCleaningSettings, error)
}

func New(services services.Service) FacilityControllerInterface {
	return &FacilityController{
		facilityService: services.Facility,
		log:             logger.New("facilityController"),
	}
}

func (c *FacilityController) ListFacilities(ctx context.Context) ([]*Facility, error) {
	return c.facilityService.ListFacilities(ctx)
}

func (c *FacilityController) GetFacility(ctx context.Context, id uuid.UUID) (*Facility, error) {
	return c.facilityService.GetFacility(ctx, id)
}

func (c *FacilityController) CreateFacility(
	ctx context.Context,
	req types.CreateFacilityRequest,
) (*Facility, error) {
	log := c.log.TraceFromContext(ctx).Function("CreateFacility")

	facility, err := c.facilityService.CreateFacility(ctx, req)
	if err != nil {
		return nil, err
	}

	log.Info("Facility created", "facilityID", facility.ID, "name", facility.Name)
	return facility, nil
}

func (c *FacilityController) UpdateFacility(
	ctx context.Context,
	id uuid.UUID,
	req types.UpdateFacilityRequest,
) (*Facility, error) {
	return c.facilityService.UpdateFacility(ctx, id, req)
}

func (c *FacilityController) GetSettings(
	ctx context.Context,
	facilityID uuid.UUID,
) (*FacilityCleaningSettings, error) {
	return c.facilityService.GetSettings(ctx, facilityID)
}

func (c *FacilityController) CreateSettings(
	ctx context.Context,
	facilityID uuid.UUID,
	req types.FacilitySettingsRequest,
) (*FacilityCleaningSettings, error) {
	return c.facilityService.CreateSettings(ctx, facilityID, req)
}

func (c *FacilityController) UpdateSettings(
	ctx context.Context,
	facilityID uuid.UUID,
	req types.FacilitySettingsRequest,
) (*FacilityCleaningSettings, error) {
	return c.facilityService.UpdateSettings(ctx, facilityID, req)
}
