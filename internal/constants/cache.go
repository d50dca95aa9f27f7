package constants

import "time"

const (
	AvailabilityCachePrefix = "availability" // staff month calendar by staffID:year-month (CacheBuilder adds colon)
	AvailabilityCacheExpiry = 24 * time.Hour
	LockCachePrefix         = "lock"
	AlertsChannel           = "cleaning.alerts"
)
