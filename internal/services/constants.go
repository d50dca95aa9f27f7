package services

// Sync run triggers, recorded on every SyncRun row
const (
	SyncTriggerManual    = "manual"
	SyncTriggerScheduled = "scheduled"
	SyncTriggerCLI       = "cli"
)

// Lock keys. Batches that touch the same tasks share a key.
const (
	syncLockKey           = "sync"
	assignLockPrefix      = "assign:"
	groupAssignLockPrefix = "group-assign:"
)
