package types

import "github.com/google/uuid"

// ReservationImportRequest represents one batch from the booking feed
type ReservationImportRequest struct {
	Source       string              `json:"source"`
	Reservations []ReservationRecord `json:"reservations"`
}

// ReservationRecord represents a single booking as the feed delivers it.
// Dates are YYYY-MM-DD.
type ReservationRecord struct {
	ExternalID   string     `json:"externalId"`
	FacilityID   *uuid.UUID `json:"facilityId"`
	RoomType     string     `json:"roomType"`
	GuestName    string     `json:"guestName"`
	GuestCount   int        `json:"guestCount"`
	CheckInDate  string     `json:"checkInDate"`
	CheckOutDate string     `json:"checkOutDate"`
	IsCancelled  bool       `json:"isCancelled"`
}
