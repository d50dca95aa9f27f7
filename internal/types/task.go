package types

import (
	"encoding/json"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// CreateTaskRequest represents a manually scheduled unit of cleaning work.
// Dates are YYYY-MM-DD and times HH:MM.
type CreateTaskRequest struct {
	ReservationID            *uuid.UUID `json:"reservationId"`
	FacilityID               uuid.UUID  `json:"facilityId"`
	CheckoutDate             string     `json:"checkoutDate"`
	CheckoutTime             string     `json:"checkoutTime"`
	ScheduledDate            string     `json:"scheduledDate"`
	ScheduledStartTime       string     `json:"scheduledStartTime"`
	ScheduledEndTime         string     `json:"scheduledEndTime"`
	EstimatedDurationMinutes int        `json:"estimatedDurationMinutes"`
	Priority                 *int       `json:"priority"`
	RestrictedGroupID        *uuid.UUID `json:"restrictedGroupId"`
	SpecialInstructions      string     `json:"specialInstructions"`
	SuppliesNeeded           []string   `json:"suppliesNeeded"`
	Notes                    string     `json:"notes"`
}

// UpdateTaskRequest carries a partial update; nil fields are left alone
type UpdateTaskRequest struct {
	ScheduledDate            *string    `json:"scheduledDate"`
	ScheduledStartTime       *string    `json:"scheduledStartTime"`
	ScheduledEndTime         *string    `json:"scheduledEndTime"`
	EstimatedDurationMinutes *int       `json:"estimatedDurationMinutes"`
	Priority                 *int       `json:"priority"`
	Status                   *string    `json:"status"`
	RestrictedGroupID        *uuid.UUID `json:"restrictedGroupId"`
	ActualStartTime          *string    `json:"actualStartTime"`
	ActualEndTime            *string    `json:"actualEndTime"`
	SpecialInstructions      *string    `json:"specialInstructions"`
	SuppliesNeeded           []string   `json:"suppliesNeeded"`
	Notes                    *string    `json:"notes"`
}

type VerifyTaskRequest struct {
	VerifiedBy string `json:"verifiedBy"`
	Notes      string `json:"notes"`
}

type RevisionRequest struct {
	Reason string `json:"reason"`
}

type ResolveRevisionRequest struct {
	Notes string `json:"notes"`
}

// AutoCreateResult represents tasks generated for one checkout date
type AutoCreateResult struct {
	Date    string      `json:"date"`
	Created int         `json:"created"`
	Skipped int         `json:"skipped"`
	TaskIDs []uuid.UUID `json:"taskIds"`
}

// CreateShiftRequest assigns one staff member to one task
type CreateShiftRequest struct {
	StaffID            uuid.UUID        `json:"staffId"`
	TaskID             uuid.UUID        `json:"taskId"`
	AssignedDate       string           `json:"assignedDate"`
	ScheduledStartTime string           `json:"scheduledStartTime"`
	ScheduledEndTime   string           `json:"scheduledEndTime"`
	IsOptionIncluded   bool             `json:"isOptionIncluded"`
	Bonus              *decimal.Decimal `json:"bonus"`
	Notes              string           `json:"notes"`
	CreatedBy          string           `json:"createdBy"`
}

// UpdateShiftRequest carries a partial shift update
type UpdateShiftRequest struct {
	Status             *string          `json:"status"`
	ScheduledStartTime *string          `json:"scheduledStartTime"`
	ScheduledEndTime   *string          `json:"scheduledEndTime"`
	IsOptionIncluded   *bool            `json:"isOptionIncluded"`
	Bonus              *decimal.Decimal `json:"bonus"`
	PerformanceRating  *int             `json:"performanceRating"`
	Notes              *string          `json:"notes"`
	CancellationReason *string          `json:"cancellationReason"`
}

type CheckInRequest struct {
	Location json.RawMessage `json:"location"`
}

type CheckOutRequest struct {
	Location json.RawMessage `json:"location"`
	Notes    string          `json:"notes"`
}

// CalendarAssignee is a staff member or group holding an active shift
type CalendarAssignee struct {
	ID     uuid.UUID `json:"id"`
	Name   string    `json:"name"`
	Kind   string    `json:"kind"`
	Status string    `json:"status"`
}

type CalendarTask struct {
	ID                 uuid.UUID          `json:"id"`
	FacilityID         uuid.UUID          `json:"facilityId"`
	FacilityName       string             `json:"facilityName"`
	CheckoutDate       string             `json:"checkoutDate"`
	ScheduledStartTime string             `json:"scheduledStartTime"`
	ScheduledEndTime   string             `json:"scheduledEndTime"`
	Status             string             `json:"status"`
	GuestName          string             `json:"guestName,omitempty"`
	Assignees          []CalendarAssignee `json:"assignees"`
	IsAssigned         bool               `json:"isAssigned"`
}

type CalendarDay struct {
	Date  string         `json:"date"`
	Tasks []CalendarTask `json:"tasks"`
}

// TaskCalendar groups tasks by scheduled date; days without tasks are omitted
type TaskCalendar struct {
	From string        `json:"from"`
	To   string        `json:"to"`
	Days []CalendarDay `json:"days"`
}
