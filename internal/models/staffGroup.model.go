package models

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

var (
	DefaultGroupRate           = decimal.NewFromInt(8000)
	DefaultGroupRateWithOption = decimal.NewFromInt(9000)
)

type StaffGroup struct {
	BaseUUIDModel
	Name                        string                         `gorm:"type:varchar(100);not null;uniqueIndex" json:"name"`
	Description                 string                         `gorm:"type:text"                              json:"description"`
	CanHandleLargeProperties    bool                           `gorm:"not null"                               json:"canHandleLargeProperties"`
	CanHandleMultipleProperties bool                           `gorm:"not null"                               json:"canHandleMultipleProperties"`
	MaxPropertiesPerDay         int                            `gorm:"not null"                               json:"maxPropertiesPerDay"`
	AvailableFacilities         datatypes.JSONSlice[uuid.UUID] `                                              json:"availableFacilities"`
	RatePerProperty             decimal.Decimal                `gorm:"type:decimal(10,2);not null"            json:"ratePerProperty"`
	RatePerPropertyWithOption   decimal.Decimal                `gorm:"type:decimal(10,2);not null"            json:"ratePerPropertyWithOption"`
	TransportationFee           decimal.Decimal                `gorm:"type:decimal(10,2);not null"            json:"transportationFee"`
	IsActive                    bool                           `gorm:"not null;index"                         json:"isActive"`
	Members                     []StaffGroupMember             `gorm:"foreignKey:GroupID"                     json:"members,omitempty"`
}

func (g *StaffGroup) BeforeCreate(tx *gorm.DB) (err error) {
	if err := g.ensureID(); err != nil {
		return err
	}
	g.Name = strings.TrimSpace(g.Name)
	if g.Name == "" {
		return gorm.ErrInvalidValue
	}
	if g.MaxPropertiesPerDay <= 0 {
		g.MaxPropertiesPerDay = 1
	}
	if g.RatePerProperty.IsNegative() || g.RatePerPropertyWithOption.IsNegative() ||
		g.TransportationFee.IsNegative() {
		return gorm.ErrInvalidValue
	}
	return nil
}

// BaseRate is the flat per-property bundle; group pay is never split per head.
func (g *StaffGroup) BaseRate(withOption bool) decimal.Decimal {
	if withOption {
		return g.RatePerPropertyWithOption
	}
	return g.RatePerProperty
}

func (g *StaffGroup) Fee() decimal.Decimal {
	return g.TransportationFee
}

func (g *StaffGroup) Facilities() FacilitySet {
	return NewFacilitySet(g.AvailableFacilities...)
}

// ActiveMemberIDs lists members whose membership has not ended. Members must be
// preloaded.
func (g *StaffGroup) ActiveMemberIDs() []uuid.UUID {
	var ids []uuid.UUID
	for _, member := range g.Members {
		if member.IsActive() {
			ids = append(ids, member.StaffID)
		}
	}
	return ids
}

type StaffGroupMember struct {
	BaseUUIDModel
	GroupID    uuid.UUID  `gorm:"type:uuid;not null;index" json:"groupId"`
	StaffID    uuid.UUID  `gorm:"type:uuid;not null;index" json:"staffId"`
	Staff      *Staff     `gorm:"foreignKey:StaffID"       json:"staff,omitempty"`
	Role       string     `gorm:"type:varchar(50)"         json:"role"`
	IsLeader   bool       `gorm:"not null"                 json:"isLeader"`
	JoinedDate time.Time  `gorm:"type:date;not null"       json:"joinedDate"`
	LeftDate   *time.Time `gorm:"type:date"                json:"leftDate,omitempty"`
}

func (m *StaffGroupMember) BeforeCreate(tx *gorm.DB) (err error) {
	if err := m.ensureID(); err != nil {
		return err
	}
	if m.GroupID == uuid.Nil || m.StaffID == uuid.Nil {
		return gorm.ErrInvalidValue
	}
	if m.JoinedDate.IsZero() {
		m.JoinedDate = DateOf(time.Now())
	}
	return nil
}

// IsActive is true while the membership has no leave date.
func (m StaffGroupMember) IsActive() bool {
	return m.LeftDate == nil
}
