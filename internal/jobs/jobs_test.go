package jobs

import (
	"context"
	"errors"
	"testing"
	"time"

	"cleanops/config"
	"cleanops/internal/services"
	"cleanops/internal/types"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type mockReconciliation struct {
	mock.Mock
}

func (m *mockReconciliation) SyncAll(ctx context.Context, trigger string) (*types.SyncResult, error) {
	args := m.Called(ctx, trigger)
	result, _ := args.Get(0).(*types.SyncResult)
	return result, args.Error(1)
}

type mockAutoAssign struct {
	mock.Mock
}

func (m *mockAutoAssign) AutoAssignForDate(ctx context.Context, date time.Time) (*types.AutoAssignResult, error) {
	args := m.Called(ctx, date)
	result, _ := args.Get(0).(*types.AutoAssignResult)
	return result, args.Error(1)
}

func TestReconciliationJob_Execute(t *testing.T) {
	tests := []struct {
		name    string
		result  *types.SyncResult
		err     error
		wantErr bool
	}{
		{name: "clean pass", result: &types.SyncResult{}},
		{name: "pass with conflicts", result: &types.SyncResult{Stats: types.SyncStats{Conflicts: 2}}},
		{name: "sync failure", err: errors.New("database down"), wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			reconciliation := &mockReconciliation{}
			reconciliation.On("SyncAll", mock.Anything, services.SyncTriggerScheduled).Return(tt.result, tt.err)

			job := NewReconciliationJob(reconciliation, EveryInterval(time.Hour))
			assert.Equal(t, "ReservationReconciliation", job.Name())

			err := job.Execute(context.Background())
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
			reconciliation.AssertExpectations(t)
		})
	}
}

func TestAutoAssignJob_TargetsTomorrow(t *testing.T) {
	assignment := &mockAutoAssign{}
	tomorrow := time.Date(2030, 3, 2, 0, 0, 0, 0, time.UTC)
	assignment.On("AutoAssignForDate", mock.Anything, tomorrow).Return(&types.AutoAssignResult{
		Assignments: []types.Assignment{{}},
	}, nil)

	job := NewAutoAssignJob(assignment, DailyAt("06:00"))
	job.now = func() time.Time { return time.Date(2030, 3, 1, 6, 0, 0, 0, time.UTC) }

	require.NoError(t, job.Execute(context.Background()))
	assert.Equal(t, "daily at 06:00 UTC", job.Schedule().String())
	assignment.AssertExpectations(t)
}

func TestRegisterAllJobs(t *testing.T) {
	tests := []struct {
		name     string
		config   config.Config
		wantJobs int
	}{
		{name: "scheduler disabled", config: config.Config{SyncIntervalMinutes: 60}},
		{
			name:     "sync only",
			config:   config.Config{SchedulerEnabled: true, SyncIntervalMinutes: 30},
			wantJobs: 1,
		},
		{
			name:     "sync and auto assign",
			config:   config.Config{SchedulerEnabled: true, SyncIntervalMinutes: 30, AutoAssignEnabled: true},
			wantJobs: 2,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			scheduler := services.NewSchedulerService()
			require.NoError(t, RegisterAllJobs(scheduler, tt.config, services.Service{}))
			assert.Equal(t, tt.wantJobs, scheduler.GetJobCount())
		})
	}
}
