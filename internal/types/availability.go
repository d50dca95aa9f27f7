package types

import "github.com/google/uuid"

// MonthAvailability is the API view of a staff calendar, one entry per day
type MonthAvailability struct {
	StaffID uuid.UUID `json:"staffId"`
	Year    int       `json:"year"`
	Month   int       `json:"month"`
	Days    []bool    `json:"days"`
	Notes   string    `json:"notes"`
}

// StaffMonthAvailability is one row of the all-staff month grid. Recorded is
// false when the staff member never had a calendar for the month.
type StaffMonthAvailability struct {
	StaffID   uuid.UUID `json:"staffId"`
	StaffName string    `json:"staffName"`
	Days      []bool    `json:"days"`
	Notes     string    `json:"notes"`
	Recorded  bool      `json:"recorded"`
}

type MonthOverview struct {
	Year  int                      `json:"year"`
	Month int                      `json:"month"`
	Staff []StaffMonthAvailability `json:"staff"`
}

type SetMonthAvailabilityRequest struct {
	Days  []bool `json:"days"`
	Notes string `json:"notes"`
}

type SetDayAvailabilityRequest struct {
	Available bool `json:"available"`
}

type InitializeMonthRequest struct {
	DefaultAvailable bool `json:"defaultAvailable"`
}
