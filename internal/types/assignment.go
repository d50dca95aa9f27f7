package types

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// AutoAssignRequest represents a batch of tasks to staff on a target date
type AutoAssignRequest struct {
	TaskIDs []uuid.UUID `json:"taskIds"`
	Date    string      `json:"date"`
}

// Assignment represents one successful engine decision
type Assignment struct {
	TaskID    uuid.UUID `json:"taskId"`
	StaffID   uuid.UUID `json:"staffId"`
	StaffName string    `json:"staffName"`
	ShiftID   uuid.UUID `json:"shiftId"`
	Score     int       `json:"score"`
	Reasons   []string  `json:"reasons"`
}

// AutoAssignResult represents the per-batch breakdown returned to callers
type AutoAssignResult struct {
	Success       bool         `json:"success"`
	Message       string       `json:"message"`
	AssignedCount int          `json:"assignedCount"`
	FailedCount   int          `json:"failedCount"`
	Assignments   []Assignment `json:"assignments"`
	Errors        []string     `json:"errors"`
}

// GroupAssignRequest represents a bulk group assignment
type GroupAssignRequest struct {
	TaskIDs          []uuid.UUID `json:"taskIds"`
	AssignedDate     string      `json:"assignedDate"`
	StartTime        string      `json:"startTime"`
	EndTime          string      `json:"endTime"`
	IsOptionIncluded bool        `json:"isOptionIncluded"`
	Notes            string      `json:"notes"`
}

// GroupShift is the slim view of a shift created by a group assignment
type GroupShift struct {
	ID                 uuid.UUID       `json:"id"`
	TaskID             uuid.UUID       `json:"taskId"`
	AssignedDate       string          `json:"assignedDate"`
	ScheduledStartTime string          `json:"scheduledStartTime"`
	ScheduledEndTime   string          `json:"scheduledEndTime"`
	TotalPayment       decimal.Decimal `json:"totalPayment"`
}

// GroupAssignResult represents the outcome of a bulk group assignment
type GroupAssignResult struct {
	Success       bool         `json:"success"`
	AssignedCount int          `json:"assignedCount"`
	SkippedCount  int          `json:"skippedCount"`
	Shifts        []GroupShift `json:"shifts"`
	Errors        []string     `json:"errors"`
}
