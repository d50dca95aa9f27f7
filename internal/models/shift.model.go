package models

import (
	"slices"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type ShiftStatus string

const (
	ShiftStatusScheduled  ShiftStatus = "scheduled"
	ShiftStatusConfirmed  ShiftStatus = "confirmed"
	ShiftStatusInProgress ShiftStatus = "in_progress"
	ShiftStatusCompleted  ShiftStatus = "completed"
	ShiftStatusCancelled  ShiftStatus = "cancelled"
)

var shiftTransitions = map[ShiftStatus][]ShiftStatus{
	ShiftStatusScheduled: {
		ShiftStatusConfirmed,
		ShiftStatusInProgress,
		ShiftStatusCancelled,
	},
	ShiftStatusConfirmed: {
		ShiftStatusInProgress,
		ShiftStatusCancelled,
	},
	ShiftStatusInProgress: {
		ShiftStatusCompleted,
		ShiftStatusCancelled,
	},
}

func (s ShiftStatus) IsValid() bool {
	switch s {
	case ShiftStatusScheduled, ShiftStatusConfirmed, ShiftStatusInProgress,
		ShiftStatusCompleted, ShiftStatusCancelled:
		return true
	}
	return false
}

type CleaningShift struct {
	BaseUUIDModel
	StaffID            *uuid.UUID      `gorm:"type:uuid;index"                 json:"staffId,omitempty"`
	Staff              *Staff          `gorm:"foreignKey:StaffID"              json:"staff,omitempty"`
	GroupID            *uuid.UUID      `gorm:"type:uuid;index"                 json:"groupId,omitempty"`
	Group              *StaffGroup     `gorm:"foreignKey:GroupID"              json:"group,omitempty"`
	TaskID             uuid.UUID       `gorm:"type:uuid;not null;index"        json:"taskId"`
	Task               *CleaningTask   `gorm:"foreignKey:TaskID"               json:"task,omitempty"`
	AssignedDate       time.Time       `gorm:"type:date;not null;index"        json:"assignedDate"`
	ScheduledStartTime ClockTime       `gorm:"type:varchar(5);not null"        json:"scheduledStartTime"`
	ScheduledEndTime   ClockTime       `gorm:"type:varchar(5);not null"        json:"scheduledEndTime"`
	Status             ShiftStatus     `gorm:"type:varchar(20);not null;index" json:"status"`
	ActualStartTime    *time.Time      `                                       json:"actualStartTime,omitempty"`
	ActualEndTime      *time.Time      `                                       json:"actualEndTime,omitempty"`
	CheckInLocation    datatypes.JSON  `                                       json:"checkInLocation,omitempty"`
	CheckOutLocation   datatypes.JSON  `                                       json:"checkOutLocation,omitempty"`
	IsOptionIncluded   bool            `gorm:"not null"                        json:"isOptionIncluded"`
	CalculatedWage     decimal.Decimal `gorm:"type:decimal(10,2);not null"     json:"calculatedWage"`
	TransportationFee  decimal.Decimal `gorm:"type:decimal(10,2);not null"     json:"transportationFee"`
	Bonus              decimal.Decimal `gorm:"type:decimal(10,2);not null"     json:"bonus"`
	TotalPayment       decimal.Decimal `gorm:"type:decimal(10,2);not null"     json:"totalPayment"`
	NumAssignedStaff   int             `gorm:"not null"                        json:"numAssignedStaff"`
	PerformanceRating  *int            `                                       json:"performanceRating,omitempty"`
	Notes              string          `gorm:"type:text"                       json:"notes"`
	CancellationReason string          `gorm:"type:text"                       json:"cancellationReason"`
	CreatedBy          string          `gorm:"type:varchar(100)"               json:"createdBy"`
}

func (s *CleaningShift) BeforeCreate(tx *gorm.DB) (err error) {
	if err := s.ensureID(); err != nil {
		return err
	}
	if !s.HasSingleOwner() || s.TaskID == uuid.Nil {
		return gorm.ErrInvalidValue
	}
	if err := ValidateWindow(s.ScheduledStartTime, s.ScheduledEndTime); err != nil {
		return err
	}
	if s.Status == "" {
		s.Status = ShiftStatusScheduled
	}
	if s.NumAssignedStaff == 0 {
		s.NumAssignedStaff = 1
	}
	s.RecomputeTotal()
	return nil
}

// HasSingleOwner enforces that exactly one of staff or group is set.
func (s *CleaningShift) HasSingleOwner() bool {
	return (s.StaffID != nil) != (s.GroupID != nil)
}

func (s *CleaningShift) IsGroupShift() bool {
	return s.GroupID != nil
}

// IsActive counts the shift toward task staffing and wage splits.
func (s *CleaningShift) IsActive() bool {
	return s.Status != ShiftStatusCancelled && !s.DeletedAt.Valid
}

func (s *CleaningShift) CanTransitionTo(newStatus ShiftStatus) bool {
	allowedStates, exists := shiftTransitions[s.Status]
	if !exists {
		return false
	}
	return slices.Contains(allowedStates, newStatus)
}

func (s *CleaningShift) UpdateStatus(newStatus ShiftStatus) error {
	if !s.CanTransitionTo(newStatus) {
		return ErrInvalidTransition
	}
	s.Status = newStatus
	return nil
}

// ApplyWage prices the shift from its payer. Staff pay is split across n
// active shifts on the task; group pay is a flat bundle.
func (s *CleaningShift) ApplyWage(payer PayRateSource, n int) {
	if n < 1 {
		n = 1
	}
	s.NumAssignedStaff = n

	base := payer.BaseRate(s.IsOptionIncluded)
	if s.IsGroupShift() {
		s.CalculatedWage = base.Round(2)
	} else {
		s.CalculatedWage = base.Div(decimal.NewFromInt(int64(n))).Round(2)
	}
	s.TransportationFee = payer.Fee().Round(2)
	s.RecomputeTotal()
}

func (s *CleaningShift) RecomputeTotal() {
	s.TotalPayment = s.CalculatedWage.Add(s.TransportationFee).Add(s.Bonus).Round(2)
}

func (s *CleaningShift) WorkedHours() float64 {
	if s.ActualStartTime == nil || s.ActualEndTime == nil {
		return 0
	}
	return s.ActualEndTime.Sub(*s.ActualStartTime).Hours()
}
