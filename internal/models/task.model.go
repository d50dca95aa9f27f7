package models

import (
	"errors"
	"slices"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type TaskStatus string

const (
	TaskStatusUnassigned    TaskStatus = "unassigned"
	TaskStatusAssigned      TaskStatus = "assigned"
	TaskStatusInProgress    TaskStatus = "in_progress"
	TaskStatusCompleted     TaskStatus = "completed"
	TaskStatusVerified      TaskStatus = "verified"
	TaskStatusNeedsRevision TaskStatus = "needs_revision"
	TaskStatusCancelled     TaskStatus = "cancelled"
)

const (
	MinTaskPriority = 1
	MaxTaskPriority = 5
)

var ErrInvalidTransition = errors.New("invalid status transition")

var taskTransitions = map[TaskStatus][]TaskStatus{
	TaskStatusUnassigned: {
		TaskStatusAssigned,
		TaskStatusCancelled,
	},
	TaskStatusAssigned: {
		TaskStatusUnassigned,
		TaskStatusInProgress,
		TaskStatusNeedsRevision,
		TaskStatusCancelled,
	},
	TaskStatusInProgress: {
		TaskStatusUnassigned,
		TaskStatusCompleted,
		TaskStatusNeedsRevision,
		TaskStatusCancelled,
	},
	TaskStatusCompleted: {
		TaskStatusVerified,
		TaskStatusCancelled,
	},
	TaskStatusNeedsRevision: {
		TaskStatusUnassigned,
		TaskStatusCancelled,
	},
}

func (s TaskStatus) IsValid() bool {
	switch s {
	case TaskStatusUnassigned, TaskStatusAssigned, TaskStatusInProgress, TaskStatusCompleted,
		TaskStatusVerified, TaskStatusNeedsRevision, TaskStatusCancelled:
		return true
	}
	return false
}

func (s TaskStatus) IsTerminal() bool {
	return s == TaskStatusVerified || s == TaskStatusCancelled
}

// IsStaffed is true for the states that carry at least one active shift.
func (s TaskStatus) IsStaffed() bool {
	return s == TaskStatusAssigned || s == TaskStatusInProgress
}

// IsOpen reports whether reconciliation still manages the task.
func (s TaskStatus) IsOpen() bool {
	return s != TaskStatusCompleted && s != TaskStatusVerified && s != TaskStatusCancelled
}

type CleaningTask struct {
	BaseUUIDModel
	ReservationID            *uuid.UUID                  `gorm:"type:uuid;index"                 json:"reservationId,omitempty"`
	Reservation              *Reservation                `gorm:"foreignKey:ReservationID"        json:"reservation,omitempty"`
	FacilityID               uuid.UUID                   `gorm:"type:uuid;not null;index"        json:"facilityId"`
	Facility                 *Facility                   `gorm:"foreignKey:FacilityID"           json:"facility,omitempty"`
	CheckoutDate             time.Time                   `gorm:"type:date;not null"              json:"checkoutDate"`
	CheckoutTime             ClockTime                   `gorm:"type:varchar(5)"                 json:"checkoutTime"`
	ScheduledDate            time.Time                   `gorm:"type:date;not null;index"        json:"scheduledDate"`
	ScheduledStartTime       ClockTime                   `gorm:"type:varchar(5);not null"        json:"scheduledStartTime"`
	ScheduledEndTime         ClockTime                   `gorm:"type:varchar(5);not null"        json:"scheduledEndTime"`
	EstimatedDurationMinutes int                         `gorm:"not null"                        json:"estimatedDurationMinutes"`
	Priority                 *int                        `                                       json:"priority,omitempty"`
	Status                   TaskStatus                  `gorm:"type:varchar(20);not null;index" json:"status"`
	RestrictedGroupID        *uuid.UUID                  `gorm:"type:uuid;index"                 json:"restrictedGroupId,omitempty"`
	ActualStartTime          *time.Time                  `                                       json:"actualStartTime,omitempty"`
	ActualEndTime            *time.Time                  `                                       json:"actualEndTime,omitempty"`
	ActualDurationMinutes    *int                        `                                       json:"actualDurationMinutes,omitempty"`
	VerifiedBy               *string                     `gorm:"type:varchar(100)"               json:"verifiedBy,omitempty"`
	VerifiedAt               *time.Time                  `                                       json:"verifiedAt,omitempty"`
	VerificationNotes        string                      `gorm:"type:text"                       json:"verificationNotes"`
	SpecialInstructions      string                      `gorm:"type:text"                       json:"specialInstructions"`
	SuppliesNeeded           datatypes.JSONSlice[string] `                                       json:"suppliesNeeded"`
	Notes                    string                      `gorm:"type:text"                       json:"notes"`
	SourceHash               string                      `gorm:"type:varchar(64)"                json:"-"`
	Version                  int                         `gorm:"not null"                        json:"version"`
	Shifts                   []CleaningShift             `gorm:"foreignKey:TaskID"               json:"shifts,omitempty"`
}

func (t *CleaningTask) BeforeCreate(tx *gorm.DB) (err error) {
	if err := t.ensureID(); err != nil {
		return err
	}
	if t.FacilityID == uuid.Nil {
		return gorm.ErrInvalidValue
	}
	if err := ValidateWindow(t.ScheduledStartTime, t.ScheduledEndTime); err != nil {
		return err
	}
	if t.Priority != nil && (*t.Priority < MinTaskPriority || *t.Priority > MaxTaskPriority) {
		return gorm.ErrInvalidValue
	}
	if t.Status == "" {
		t.Status = TaskStatusUnassigned
	}
	if !t.Status.IsValid() {
		return gorm.ErrInvalidValue
	}
	if t.Version == 0 {
		t.Version = 1
	}
	return nil
}

// CanTransitionTo validates if the current status can transition to the new status
func (t *CleaningTask) CanTransitionTo(newStatus TaskStatus) bool {
	allowedStates, exists := taskTransitions[t.Status]
	if !exists {
		return false
	}
	return slices.Contains(allowedStates, newStatus)
}

// UpdateStatus safely updates the status with validation
func (t *CleaningTask) UpdateStatus(newStatus TaskStatus) error {
	if !t.CanTransitionTo(newStatus) {
		return ErrInvalidTransition
	}
	t.Status = newStatus
	return nil
}

// AppendNote adds a line to the notes without touching what is already there.
func (t *CleaningTask) AppendNote(note string) {
	note = strings.TrimSpace(note)
	if note == "" {
		return
	}
	if t.Notes == "" {
		t.Notes = note
		return
	}
	t.Notes = t.Notes + "\n" + note
}

// RecomputeActualDuration sets the actual duration once both timestamps exist.
func (t *CleaningTask) RecomputeActualDuration() {
	if t.ActualStartTime == nil || t.ActualEndTime == nil {
		return
	}
	minutes := int(t.ActualEndTime.Sub(*t.ActualStartTime).Minutes())
	if minutes < 0 {
		minutes = 0
	}
	t.ActualDurationMinutes = &minutes
}

func (t *CleaningTask) PriorityOrDefault(fallback int) int {
	if t.Priority == nil {
		return fallback
	}
	return *t.Priority
}
