package models

import (
	"time"

	"gorm.io/datatypes"
)

// SyncRun records the outcome of one committed reconciliation pass.
type SyncRun struct {
	BaseUUIDModel
	StartedAt   time.Time      `gorm:"not null;index"            json:"startedAt"`
	FinishedAt  time.Time      `gorm:"not null"                  json:"finishedAt"`
	Trigger     string         `gorm:"type:varchar(20);not null" json:"trigger"`
	Created     int            `gorm:"not null"                  json:"created"`
	Cancelled   int            `gorm:"not null"                  json:"cancelled"`
	Modified    int            `gorm:"not null"                  json:"modified"`
	Conflicts   int            `gorm:"not null"                  json:"conflicts"`
	TotalAlerts int            `gorm:"not null"                  json:"totalAlerts"`
	Alerts      datatypes.JSON `                                 json:"alerts"`
}
