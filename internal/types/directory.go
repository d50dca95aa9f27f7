package types

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type CreateFacilityRequest struct {
	Name          string `json:"name"`
	FacilityGroup string `json:"facilityGroup"`
	Address       string `json:"address"`
	MaxGuests     int    `json:"maxGuests"`
	Bedrooms      int    `json:"bedrooms"`
}

// UpdateFacilityRequest carries a partial update; nil fields are left alone
type UpdateFacilityRequest struct {
	Name          *string `json:"name"`
	FacilityGroup *string `json:"facilityGroup"`
	Address       *string `json:"address"`
	MaxGuests     *int    `json:"maxGuests"`
	Bedrooms      *int    `json:"bedrooms"`
	IsActive      *bool   `json:"isActive"`
}

type ChecklistItemRequest struct {
	Name     string `json:"name"`
	Required bool   `json:"required"`
}

// FacilitySettingsRequest is used for both create and replace
type FacilitySettingsRequest struct {
	StandardDurationMinutes     int                    `json:"standardDurationMinutes"`
	DeepCleaningDurationMinutes int                    `json:"deepCleaningDurationMinutes"`
	MinCleaningIntervalHours    int                    `json:"minCleaningIntervalHours"`
	PreferredStartTime          string                 `json:"preferredStartTime"`
	PreferredEndTime            string                 `json:"preferredEndTime"`
	Checklist                   []ChecklistItemRequest `json:"checklist"`
	RequiredSupplies            []string               `json:"requiredSupplies"`
	PreferredStaffIDs           []uuid.UUID            `json:"preferredStaffIds"`
	AutoAssign                  bool                   `json:"autoAssign"`
	SpecialInstructions         string                 `json:"specialInstructions"`
}

type CreateStaffRequest struct {
	Name                      string           `json:"name"`
	Email                     string           `json:"email"`
	Phone                     string           `json:"phone"`
	SkillLevel                int              `json:"skillLevel"`
	CanDrive                  bool             `json:"canDrive"`
	HasCar                    bool             `json:"hasCar"`
	CanHandleLargeProperties  bool             `json:"canHandleLargeProperties"`
	AvailableFacilities       []uuid.UUID      `json:"availableFacilities"`
	RatePerProperty           *decimal.Decimal `json:"ratePerProperty"`
	RatePerPropertyWithOption *decimal.Decimal `json:"ratePerPropertyWithOption"`
	TransportationFee         *decimal.Decimal `json:"transportationFee"`
	Notes                     string           `json:"notes"`
}

// UpdateStaffRequest carries a partial update; nil fields are left alone
type UpdateStaffRequest struct {
	Name                      *string          `json:"name"`
	Email                     *string          `json:"email"`
	Phone                     *string          `json:"phone"`
	SkillLevel                *int             `json:"skillLevel"`
	CanDrive                  *bool            `json:"canDrive"`
	HasCar                    *bool            `json:"hasCar"`
	CanHandleLargeProperties  *bool            `json:"canHandleLargeProperties"`
	AvailableFacilities       []uuid.UUID      `json:"availableFacilities"`
	RatePerProperty           *decimal.Decimal `json:"ratePerProperty"`
	RatePerPropertyWithOption *decimal.Decimal `json:"ratePerPropertyWithOption"`
	TransportationFee         *decimal.Decimal `json:"transportationFee"`
	IsActive                  *bool            `json:"isActive"`
	Notes                     *string          `json:"notes"`
}

type CreateGroupRequest struct {
	Name                        string           `json:"name"`
	Description                 string           `json:"description"`
	CanHandleLargeProperties    bool             `json:"canHandleLargeProperties"`
	CanHandleMultipleProperties bool             `json:"canHandleMultipleProperties"`
	MaxPropertiesPerDay         int              `json:"maxPropertiesPerDay"`
	AvailableFacilities         []uuid.UUID      `json:"availableFacilities"`
	RatePerProperty             *decimal.Decimal `json:"ratePerProperty"`
	RatePerPropertyWithOption   *decimal.Decimal `json:"ratePerPropertyWithOption"`
	TransportationFee           *decimal.Decimal `json:"transportationFee"`
	MemberIDs                   []uuid.UUID      `json:"memberIds"`
}

// UpdateGroupRequest carries a partial update; nil fields are left alone
type UpdateGroupRequest struct {
	Name                        *string          `json:"name"`
	Description                 *string          `json:"description"`
	CanHandleLargeProperties    *bool            `json:"canHandleLargeProperties"`
	CanHandleMultipleProperties *bool            `json:"canHandleMultipleProperties"`
	MaxPropertiesPerDay         *int             `json:"maxPropertiesPerDay"`
	AvailableFacilities         []uuid.UUID      `json:"availableFacilities"`
	RatePerProperty             *decimal.Decimal `json:"ratePerProperty"`
	RatePerPropertyWithOption   *decimal.Decimal `json:"ratePerPropertyWithOption"`
	TransportationFee           *decimal.Decimal `json:"transportationFee"`
	IsActive                    *bool            `json:"isActive"`
}

type AddMemberRequest struct {
	StaffID  uuid.UUID `json:"staffId"`
	Role     string    `json:"role"`
	IsLeader bool      `json:"isLeader"`
}
