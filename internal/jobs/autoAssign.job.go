package jobs

import (
	"context"
	"time"

	"cleanops/internal/models"
	"cleanops/internal/services"
	"cleanops/internal/types"

	logger "github.com/Bparsons0904/goLogger"
)

type AutoAssignService interface {
	AutoAssignForDate(ctx context.Context, date time.Time) (*types.AutoAssignResult, error)
}

// AutoAssignJob assigns tomorrow's open tasks at facilities that opted in.
type AutoAssignJob struct {
	assignment AutoAssignService
	log        logger.Logger
	schedule   services.Schedule
	now        func() time.Time
}

func NewAutoAssignJob(
	assignment AutoAssignService,
	schedule services.Schedule,
) *AutoAssignJob {
	log := logger.New("autoAssignJob")
	log.Info("Creating new auto assign job", "schedule", schedule.String())

	return &AutoAssignJob{
		assignment: assignment,
		log:        log,
		schedule:   schedule,
		now:        time.Now,
	}
}

func (j *AutoAssignJob) Name() string {
	return "NightlyAutoAssign"
}

func (j *AutoAssignJob) Execute(ctx context.Context) error {
	log := j.log.Function("Execute")

	tomorrow := models.DateOf(j.now().UTC()).AddDate(0, 0, 1)
	result, err := j.assignment.AutoAssignForDate(ctx, tomorrow)
	if err != nil {
		return log.Err("auto assignment failed", err, "date", models.FormatDate(tomorrow))
	}

	log.Info(
		"Auto assignment finished",
		"date", models.FormatDate(tomorrow),
		"assigned", len(result.Assignments),
		"errors", len(result.Errors),
	)
	return nil
}

func (j *AutoAssignJob) Schedule() services.Schedule {
	return j.schedule
}
