package models

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Reservation struct {
	BaseUUIDModel
	Source       string     `gorm:"type:varchar(50);not null;uniqueIndex:idx_reservation_source_external"  json:"source"`
	ExternalID   string     `gorm:"type:varchar(100);not null;uniqueIndex:idx_reservation_source_external" json:"externalId"`
	FacilityID   *uuid.UUID `gorm:"type:uuid;index"                                                        json:"facilityId,omitempty"`
	Facility     *Facility  `gorm:"foreignKey:FacilityID"                                                  json:"facility,omitempty"`
	RoomType     string     `gorm:"type:varchar(200)"                                                      json:"roomType"`
	GuestName    string     `gorm:"type:varchar(200)"                                                      json:"guestName"`
	GuestCount   int        `gorm:"not null"                                                               json:"guestCount"`
	CheckInDate  time.Time  `gorm:"type:date;not null"                                                     json:"checkInDate"`
	CheckOutDate time.Time  `gorm:"type:date;not null;index"                                               json:"checkOutDate"`
	IsCancelled  bool       `gorm:"not null;index"                                                         json:"isCancelled"`
	ContentHash  string     `gorm:"type:varchar(64)"                                                       json:"-"`
}

func (r *Reservation) BeforeCreate(tx *gorm.DB) (err error) {
	if err := r.ensureID(); err != nil {
		return err
	}
	if strings.TrimSpace(r.ExternalID) == "" || strings.TrimSpace(r.Source) == "" {
		return gorm.ErrInvalidValue
	}
	if r.CheckOutDate.IsZero() || r.CheckOutDate.Before(r.CheckInDate) {
		return gorm.ErrInvalidValue
	}
	return nil
}

// GetHashableFields returns the booking feed fields that drive task
// reconciliation; bookkeeping columns are left out.
func (r *Reservation) GetHashableFields() map[string]interface{} {
	fields := map[string]interface{}{
		"source":       r.Source,
		"externalId":   r.ExternalID,
		"roomType":     r.RoomType,
		"guestName":    r.GuestName,
		"guestCount":   r.GuestCount,
		"checkInDate":  FormatDate(r.CheckInDate),
		"checkOutDate": FormatDate(r.CheckOutDate),
		"isCancelled":  r.IsCancelled,
	}
	if r.FacilityID != nil {
		fields["facilityId"] = r.FacilityID.String()
	}
	return fields
}

func (r *Reservation) SetContentHash(hash string) {
	r.ContentHash = hash
}

func (r *Reservation) GetContentHash() string {
	return r.ContentHash
}
