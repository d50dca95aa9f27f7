package models

import (
	"strings"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

var (
	DefaultStaffRate           = decimal.NewFromInt(3000)
	DefaultStaffRateWithOption = decimal.NewFromInt(4000)
)

type SkillTier int

const (
	SkillTierTrainee SkillTier = iota
	SkillTierRegular
	SkillTierSenior
)

// PayRateSource is anything a shift can be paid from: a staff member or a
// staff group.
type PayRateSource interface {
	BaseRate(withOption bool) decimal.Decimal
	Fee() decimal.Decimal
}

type Staff struct {
	BaseUUIDModel
	Name                      string                         `gorm:"type:varchar(100);not null"  json:"name"`
	Email                     string                         `gorm:"type:varchar(200);index"     json:"email"`
	Phone                     string                         `gorm:"type:varchar(50)"            json:"phone"`
	SkillLevel                int                            `gorm:"not null"                    json:"skillLevel"`
	CanDrive                  bool                           `gorm:"not null"                    json:"canDrive"`
	HasCar                    bool                           `gorm:"not null"                    json:"hasCar"`
	CanHandleLargeProperties  bool                           `gorm:"not null"                    json:"canHandleLargeProperties"`
	AvailableFacilities       datatypes.JSONSlice[uuid.UUID] `                                   json:"availableFacilities"`
	RatePerProperty           decimal.Decimal                `gorm:"type:decimal(10,2);not null" json:"ratePerProperty"`
	RatePerPropertyWithOption decimal.Decimal                `gorm:"type:decimal(10,2);not null" json:"ratePerPropertyWithOption"`
	TransportationFee         decimal.Decimal                `gorm:"type:decimal(10,2);not null" json:"transportationFee"`
	IsActive                  bool                           `gorm:"not null;index"              json:"isActive"`
	Notes                     string                         `gorm:"type:text"                   json:"notes"`
}

func (s *Staff) BeforeCreate(tx *gorm.DB) (err error) {
	if err := s.ensureID(); err != nil {
		return err
	}
	return s.validate()
}

func (s *Staff) BeforeUpdate(tx *gorm.DB) (err error) {
	return s.validate()
}

func (s *Staff) validate() error {
	s.Name = strings.TrimSpace(s.Name)
	if s.Name == "" {
		return gorm.ErrInvalidValue
	}
	if s.SkillLevel == 0 {
		s.SkillLevel = 1
	}
	if s.SkillLevel < 1 || s.SkillLevel > 5 {
		return gorm.ErrInvalidValue
	}
	if s.RatePerProperty.IsNegative() || s.RatePerPropertyWithOption.IsNegative() ||
		s.TransportationFee.IsNegative() {
		return gorm.ErrInvalidValue
	}
	return nil
}

// SkillTier buckets the 1-5 skill level: 4-5 senior, 2-3 regular, 1 trainee.
func (s *Staff) SkillTier() SkillTier {
	switch {
	case s.SkillLevel >= 4:
		return SkillTierSenior
	case s.SkillLevel >= 2:
		return SkillTierRegular
	default:
		return SkillTierTrainee
	}
}

func (s *Staff) Facilities() FacilitySet {
	return NewFacilitySet(s.AvailableFacilities...)
}

func (s *Staff) BaseRate(withOption bool) decimal.Decimal {
	if withOption {
		return s.RatePerPropertyWithOption
	}
	return s.RatePerProperty
}

func (s *Staff) Fee() decimal.Decimal {
	return s.TransportationFee
}

// FacilitySet is a staff or group facility affinity list. An empty set means
// every facility is allowed.
type FacilitySet map[uuid.UUID]struct{}

func NewFacilitySet(ids ...uuid.UUID) FacilitySet {
	set := make(FacilitySet, len(ids))
	for _, id := range ids {
		set[id] = struct{}{}
	}
	return set
}

func (f FacilitySet) IsEmpty() bool {
	return len(f) == 0
}

func (f FacilitySet) Contains(id uuid.UUID) bool {
	_, ok := f[id]
	return ok
}

// Allows reports whether work at the facility is permitted by the set.
func (f FacilitySet) Allows(id uuid.UUID) bool {
	return f.IsEmpty() || f.Contains(id)
}
