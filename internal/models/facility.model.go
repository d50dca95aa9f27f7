package models

import (
	"strings"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

const DefaultFacilityMaxGuests = 4

type Facility struct {
	BaseUUIDModel
	Name          string                    `gorm:"type:varchar(200);not null;uniqueIndex" json:"name"`
	FacilityGroup string                    `gorm:"type:varchar(100)"                      json:"facilityGroup"`
	Address       string                    `gorm:"type:text"                              json:"address"`
	MaxGuests     int                       `gorm:"not null"                               json:"maxGuests"`
	Bedrooms      int                       `gorm:"not null"                               json:"bedrooms"`
	IsActive      bool                      `gorm:"not null;index"                         json:"isActive"`
	Settings      *FacilityCleaningSettings `gorm:"foreignKey:FacilityID"                  json:"settings,omitempty"`
}

func (f *Facility) BeforeCreate(tx *gorm.DB) (err error) {
	if err := f.ensureID(); err != nil {
		return err
	}
	f.Name = strings.TrimSpace(f.Name)
	if f.Name == "" {
		return gorm.ErrInvalidValue
	}
	if f.MaxGuests <= 0 {
		f.MaxGuests = DefaultFacilityMaxGuests
	}
	if f.Bedrooms <= 0 {
		f.Bedrooms = 1
	}
	return nil
}

// IsLarge reports whether the facility needs large-property capable staff.
func (f *Facility) IsLarge(threshold int) bool {
	return f.MaxGuests > threshold
}

type ChecklistItem struct {
	Name     string `json:"name"`
	Required bool   `json:"required"`
}

type FacilityCleaningSettings struct {
	BaseUUIDModel
	FacilityID                  uuid.UUID                          `gorm:"type:uuid;not null;uniqueIndex" json:"facilityId"`
	StandardDurationMinutes     int                                `gorm:"not null"                       json:"standardDurationMinutes"`
	DeepCleaningDurationMinutes int                                `gorm:"not null"                       json:"deepCleaningDurationMinutes"`
	MinCleaningIntervalHours    int                                `gorm:"not null"                       json:"minCleaningIntervalHours"`
	PreferredStartTime          ClockTime                          `gorm:"type:varchar(5)"                json:"preferredStartTime,omitempty"`
	PreferredEndTime            ClockTime                          `gorm:"type:varchar(5)"                json:"preferredEndTime,omitempty"`
	Checklist                   datatypes.JSONSlice[ChecklistItem] `                                      json:"checklist"`
	RequiredSupplies            datatypes.JSONSlice[string]        `                                      json:"requiredSupplies"`
	PreferredStaffIDs           datatypes.JSONSlice[uuid.UUID]     `                                      json:"preferredStaffIds"`
	AutoAssign                  bool                               `gorm:"not null"                       json:"autoAssign"`
	SpecialInstructions         string                             `gorm:"type:text"                      json:"specialInstructions"`
}

func (s *FacilityCleaningSettings) BeforeCreate(tx *gorm.DB) (err error) {
	if err := s.ensureID(); err != nil {
		return err
	}
	if s.FacilityID == uuid.Nil {
		return gorm.ErrInvalidValue
	}
	return s.validate()
}

func (s *FacilityCleaningSettings) BeforeUpdate(tx *gorm.DB) (err error) {
	return s.validate()
}

func (s *FacilityCleaningSettings) validate() error {
	if s.StandardDurationMinutes <= 0 {
		s.StandardDurationMinutes = 120
	}
	if s.DeepCleaningDurationMinutes <= 0 {
		s.DeepCleaningDurationMinutes = 180
	}
	if s.MinCleaningIntervalHours <= 0 {
		s.MinCleaningIntervalHours = 2
	}
	if s.HasPreferredWindow() {
		if err := ValidateWindow(s.PreferredStartTime, s.PreferredEndTime); err != nil {
			return gorm.ErrInvalidValue
		}
	}
	return nil
}

// HasPreferredWindow reports whether both ends of the preferred window are set.
func (s *FacilityCleaningSettings) HasPreferredWindow() bool {
	return s.PreferredStartTime != "" && s.PreferredEndTime != ""
}
