package jobs

import (
	"time"

	"cleanops/config"
	"cleanops/internal/services"

	logger "github.com/Bparsons0904/goLogger"
)

const autoAssignClock = "06:00"

// Schedule constructors, aliased because RegisterAllJobs shadows the package.
var (
	EveryInterval = services.EveryInterval
	DailyAt       = services.DailyAt
)

func RegisterAllJobs(
	schedulerService *services.SchedulerService,
	config config.Config,
	services services.Service,
) error {
	log := logger.New("jobs").Function("RegisterAllJobs")

	if !config.SchedulerEnabled {
		log.Info("Scheduler disabled, skipping job registration")
		return nil
	}

	log.Info("Registering jobs")

	interval := time.Duration(config.SyncIntervalMinutes) * time.Minute
	reconciliationJob := NewReconciliationJob(services.Reconciliation, EveryInterval(interval))
	if err := schedulerService.AddJob(reconciliationJob); err != nil {
		return log.Err("failed to register reconciliation job", err)
	}

	if config.AutoAssignEnabled {
		autoAssignJob := NewAutoAssignJob(services.Assignment, DailyAt(autoAssignClock))
		if err := schedulerService.AddJob(autoAssignJob); err != nil {
			return log.Err("failed to register auto assign job", err)
		}
	} else {
		log.Info("Auto assignment disabled, nightly job not registered")
	}

	return nil
}
