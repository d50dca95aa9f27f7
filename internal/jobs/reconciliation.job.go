package jobs

import (
	"context"

	"cleanops/internal/services"
	"cleanops/internal/types"

	logger "github.com/Bparsons0904/goLogger"
)

// ReconciliationService is the part of the sync engine the job drives.
type ReconciliationService interface {
	SyncAll(ctx context.Context, trigger string) (*types.SyncResult, error)
}

type ReconciliationJob struct {
	reconciliation ReconciliationService
	log            logger.Logger
	schedule       services.Schedule
}

func NewReconciliationJob(
	reconciliation ReconciliationService,
	schedule services.Schedule,
) *ReconciliationJob {
	log := logger.New("reconciliationJob")
	log.Info("Creating new reconciliation job", "schedule", schedule.String())

	return &ReconciliationJob{
		reconciliation: reconciliation,
		log:            log,
		schedule:       schedule,
	}
}

func (j *ReconciliationJob) Name() string {
	return "ReservationReconciliation"
}

func (j *ReconciliationJob) Execute(ctx context.Context) error {
	log := j.log.Function("Execute")

	result, err := j.reconciliation.SyncAll(ctx, services.SyncTriggerScheduled)
	if err != nil {
		return log.Err("scheduled sync failed", err)
	}

	if result.Stats.Conflicts > 0 {
		log.Warn("Scheduled sync raised conflicts", "conflicts", result.Stats.Conflicts)
	}
	return nil
}

func (j *ReconciliationJob) Schedule() services.Schedule {
	return j.schedule
}
