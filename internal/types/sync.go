package types

import (
	"time"

	"github.com/google/uuid"
)

// AlertType identifies what a reconciliation pass observed
type AlertType string

const (
	AlertTaskCreated         AlertType = "task_created"
	AlertTaskCancelled       AlertType = "task_cancelled"
	AlertTaskModified        AlertType = "task_modified"
	AlertConflictDetected    AlertType = "conflict_detected"
	AlertStaffReassignNeeded AlertType = "staff_reassign_needed"
)

// RequiresAction reports whether a human has to look at the alert.
func (a AlertType) RequiresAction() bool {
	return a == AlertConflictDetected || a == AlertStaffReassignNeeded
}

// SyncAlert represents a single change detected while reconciling
// reservations against cleaning tasks
type SyncAlert struct {
	Type          AlertType  `json:"type"`
	Message       string     `json:"message"`
	TaskID        *uuid.UUID `json:"taskId,omitempty"`
	ReservationID *uuid.UUID `json:"reservationId,omitempty"`
	FacilityID    *uuid.UUID `json:"facilityId,omitempty"`
	ScheduledDate string     `json:"scheduledDate,omitempty"`
	Changes       []string   `json:"changes,omitempty"`
	AssignedStaff []string   `json:"assignedStaff,omitempty"`
	Timestamp     time.Time  `json:"timestamp"`
}

// SyncStats represents the counters reported by a reconciliation pass
type SyncStats struct {
	Created     int `json:"created"`
	Cancelled   int `json:"cancelled"`
	Modified    int `json:"modified"`
	Conflicts   int `json:"conflicts"`
	TotalAlerts int `json:"totalAlerts"`
}

// SyncResult represents the outcome of SyncAll or SyncPreview
type SyncResult struct {
	Success  bool        `json:"success"`
	Preview  bool        `json:"preview"`
	Stats    SyncStats   `json:"stats"`
	Alerts   []SyncAlert `json:"alerts"`
	SyncedAt time.Time   `json:"syncedAt"`
}

// ReservationImportResult represents the outcome of a booking feed import
type ReservationImportResult struct {
	Received  int      `json:"received"`
	Created   int      `json:"created"`
	Updated   int      `json:"updated"`
	Unchanged int      `json:"unchanged"`
	Errors    []string `json:"errors"`
}
