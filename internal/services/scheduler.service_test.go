package services

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type countingJob struct {
	name     string
	schedule Schedule
	runs     int
}

func (j *countingJob) Name() string       { return j.name }
func (j *countingJob) Schedule() Schedule { return j.schedule }
func (j *countingJob) Execute(ctx context.Context) error {
	j.runs++
	return nil
}

func TestSchedulerService_AddJob(t *testing.T) {
	scheduler := NewSchedulerService()

	require.NoError(t, scheduler.AddJob(&countingJob{name: "sync", schedule: EveryInterval(time.Hour)}))
	require.NoError(t, scheduler.AddJob(&countingJob{name: "assign", schedule: DailyAt("06:00")}))
	assert.Error(t, scheduler.AddJob(&countingJob{name: "broken"}))

	assert.Equal(t, 2, scheduler.GetJobCount())
	assert.False(t, scheduler.IsRunning())
}

func TestSchedulerService_TriggerJobByName(t *testing.T) {
	scheduler := NewSchedulerService()
	job := &countingJob{name: "sync", schedule: EveryInterval(time.Hour)}
	require.NoError(t, scheduler.AddJob(job))

	require.NoError(t, scheduler.TriggerJobByName(context.Background(), "sync"))
	assert.Equal(t, 1, job.runs)

	assert.Error(t, scheduler.TriggerJobByName(context.Background(), "missing"))
}

func TestSchedule_String(t *testing.T) {
	assert.Equal(t, "daily at 06:00 UTC", DailyAt("06:00").String())
	assert.Equal(t, "every 1h0m0s", EveryInterval(time.Hour).String())
}
