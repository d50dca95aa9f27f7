package types

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// DashboardStats represents the task counters for one day
type DashboardStats struct {
	Date                 string   `json:"date"`
	TotalTasks           int64    `json:"totalTasks"`
	UnassignedTasks      int64    `json:"unassignedTasks"`
	InProgressTasks      int64    `json:"inProgressTasks"`
	CompletedTasks       int64    `json:"completedTasks"`
	NeedsRevisionTasks   int64    `json:"needsRevisionTasks"`
	ActiveStaff          int64    `json:"activeStaff"`
	AvgCompletionMinutes *float64 `json:"averageCompletionMinutes"`
}

// StaffPerformance represents completed work for one staff member over a range
type StaffPerformance struct {
	StaffID        uuid.UUID       `json:"staffId"`
	StaffName      string          `json:"staffName"`
	CompletedTasks int64           `json:"completedTasks"`
	AverageRating  *float64        `json:"averageRating"`
	TotalHours     float64         `json:"totalHours"`
	TotalEarnings  decimal.Decimal `json:"totalEarnings"`
}
