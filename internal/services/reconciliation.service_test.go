package services

import (
	"context"
	"sync"
	"testing"

	"cleanops/internal/events"
	"cleanops/internal/testdb"
	"cleanops/internal/types"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	. "cleanops/internal/models"
)

func alertsOfType(alerts []types.SyncAlert, alertType types.AlertType) []types.SyncAlert {
	var matched []types.SyncAlert
	for _, alert := range alerts {
		if alert.Type == alertType {
			matched = append(matched, alert)
		}
	}
	return matched
}

func TestReconciliation_CancelledReservationOnAssignedTask(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()
	facility := testdb.Facility(t, h.sql, "Harbour View", 4)
	reservation := testdb.Reservation(t, h.sql, "R-100", facility, day(2))
	task := testdb.Task(t, h.sql, facility, day(2), testdb.ForReservation(reservation))
	alice := testdb.Staff(t, h.sql, "Alice")
	h.createShift(t, alice, task)

	require.NoError(t, h.sql.Model(&Reservation{}).
		Where("id = ?", reservation.ID).
		Update("is_cancelled", true).Error)

	result, err := h.svc.Reconciliation.SyncAll(ctx, SyncTriggerManual)
	require.NoError(t, err)

	assert.True(t, result.Success)
	assert.False(t, result.Preview)
	assert.Equal(t, 1, result.Stats.Cancelled)
	assert.Equal(t, 1, result.Stats.Conflicts)
	assert.Equal(t, 2, result.Stats.TotalAlerts)

	conflicts := alertsOfType(result.Alerts, types.AlertConflictDetected)
	require.Len(t, conflicts, 1)
	assert.Equal(t, task.ID, *conflicts[0].TaskID)
	assert.Equal(t, []string{"Alice"}, conflicts[0].AssignedStaff)
	assert.Equal(t, "2030-03-03", conflicts[0].ScheduledDate)
	assert.Len(t, alertsOfType(result.Alerts, types.AlertTaskCancelled), 1)

	reloaded := h.reloadTask(t, task.ID)
	assert.Equal(t, TaskStatusCancelled, reloaded.Status)
	assert.Contains(t, reloaded.Notes, "[Sync] reservation cancelled")
}

func TestReconciliation_CreatesTasksOnceForUncoveredReservations(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()
	facility := testdb.Facility(t, h.sql, "Harbour View", 4)
	reservation := testdb.Reservation(t, h.sql, "R-200", facility, day(1))
	testdb.Reservation(t, h.sql, "R-OLD", facility, day(-3))

	result, err := h.svc.Reconciliation.SyncAll(ctx, SyncTriggerManual)
	require.NoError(t, err)
	assert.Equal(t, 1, result.Stats.Created)
	assert.Equal(t, 0, result.Stats.Conflicts)

	created := alertsOfType(result.Alerts, types.AlertTaskCreated)
	require.Len(t, created, 1)
	assert.Equal(t, reservation.ID, *created[0].ReservationID)

	task := h.reloadTask(t, *created[0].TaskID)
	assert.Equal(t, TaskStatusUnassigned, task.Status)
	assert.Equal(t, facility.ID, task.FacilityID)
	assert.Equal(t, ClockTime("11:00"), task.ScheduledStartTime)
	assert.Equal(t, ClockTime("16:00"), task.ScheduledEndTime)
	assert.Equal(t, 300, task.EstimatedDurationMinutes)
	assert.True(t, day(1).Equal(DateOf(task.ScheduledDate)))

	again, err := h.svc.Reconciliation.SyncAll(ctx, SyncTriggerManual)
	require.NoError(t, err)
	assert.Equal(t, types.SyncStats{}, again.Stats)
	assert.Empty(t, again.Alerts)

	runs, err := h.svc.Reconciliation.LatestRuns(ctx, 10)
	require.NoError(t, err)
	require.Len(t, runs, 2)
	for _, run := range runs {
		assert.Equal(t, SyncTriggerManual, run.Trigger)
	}
}

func TestReconciliation_PreviewDoesNotPersist(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()
	facility := testdb.Facility(t, h.sql, "Harbour View", 4)
	testdb.Reservation(t, h.sql, "R-300", facility, day(1))

	result, err := h.svc.Reconciliation.SyncPreview(ctx)
	require.NoError(t, err)
	assert.True(t, result.Preview)
	assert.Equal(t, 1, result.Stats.Created)

	var tasks int64
	require.NoError(t, h.sql.Model(&CleaningTask{}).Count(&tasks).Error)
	assert.Zero(t, tasks)

	runs, err := h.svc.Reconciliation.LatestRuns(ctx, 10)
	require.NoError(t, err)
	assert.Empty(t, runs)
}

func TestReconciliation_CheckoutChangeOnStaffedTask(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()
	facility := testdb.Facility(t, h.sql, "Harbour View", 4)
	reservation := testdb.Reservation(t, h.sql, "R-400", facility, day(2))
	task := testdb.Task(t, h.sql, facility, day(2), testdb.ForReservation(reservation))
	h.createShift(t, testdb.Staff(t, h.sql, "Alice"), task)

	require.NoError(t, h.sql.Model(&Reservation{}).
		Where("id = ?", reservation.ID).
		Update("check_out_date", day(3)).Error)

	result, err := h.svc.Reconciliation.SyncAll(ctx, SyncTriggerScheduled)
	require.NoError(t, err)
	assert.Equal(t, 1, result.Stats.Modified)
	assert.Equal(t, 1, result.Stats.Conflicts)

	reassign := alertsOfType(result.Alerts, types.AlertStaffReassignNeeded)
	require.Len(t, reassign, 1)
	assert.Equal(t, []string{"checkout date: 2030-03-03 -> 2030-03-04"}, reassign[0].Changes)
	assert.Equal(t, []string{"Alice"}, reassign[0].AssignedStaff)

	reloaded := h.reloadTask(t, task.ID)
	assert.Equal(t, TaskStatusAssigned, reloaded.Status)
	assert.True(t, day(3).Equal(DateOf(reloaded.ScheduledDate)))
	assert.True(t, day(3).Equal(DateOf(reloaded.CheckoutDate)))
}

func TestReconciliation_RoomTypeMoveOnUnstaffedTask(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()
	facility := testdb.Facility(t, h.sql, "Harbour View", 4)
	reservation := testdb.Reservation(t, h.sql, "R-500", facility, day(2))
	task := testdb.Task(t, h.sql, facility, day(2), testdb.ForReservation(reservation))

	require.NoError(t, h.sql.Model(&Reservation{}).
		Where("id = ?", reservation.ID).
		Updates(map[string]any{"facility_id": nil, "room_type": "Garden Suite"}).Error)

	result, err := h.svc.Reconciliation.SyncAll(ctx, SyncTriggerManual)
	require.NoError(t, err)
	assert.Equal(t, 1, result.Stats.Modified)
	assert.Equal(t, 0, result.Stats.Conflicts)

	modified := alertsOfType(result.Alerts, types.AlertTaskModified)
	require.Len(t, modified, 1)
	assert.Equal(t, []string{"facility: Harbour View -> Garden Suite"}, modified[0].Changes)

	reloaded := h.reloadTask(t, task.ID)
	require.NotNil(t, reloaded.Facility)
	assert.Equal(t, "Garden Suite", reloaded.Facility.Name)
}

func TestReconciliation_PublishesAlertsAfterCommit(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()
	facility := testdb.Facility(t, h.sql, "Harbour View", 4)
	testdb.Reservation(t, h.sql, "R-600", facility, day(1))
	testdb.Reservation(t, h.sql, "R-601", facility, day(2))

	var (
		mu       sync.Mutex
		received []events.Event
	)
	require.NoError(t, h.bus.Subscribe(events.ALERTS_CHANNEL, func(event events.Event) error {
		mu.Lock()
		defer mu.Unlock()
		received = append(received, event)
		return nil
	}))

	_, err := h.svc.Reconciliation.SyncAll(ctx, SyncTriggerManual)
	require.NoError(t, err)

	mu.Lock()
	defer mu.Unlock()
	require.Len(t, received, 3)
	assert.Equal(t, events.SYNC_ALERT, received[0].Type)
	assert.Equal(t, string(types.AlertTaskCreated), received[0].Data["type"])
	assert.Equal(t, events.SYNC_ALERT, received[1].Type)
	assert.Equal(t, events.SYNC_COMPLETE, received[2].Type)
	assert.Equal(t, float64(2), received[2].Data["created"])
}

func TestReconciliation_CancelledContextAborts(t *testing.T) {
	h := newHarness(t)
	facility := testdb.Facility(t, h.sql, "Harbour View", 4)
	testdb.Reservation(t, h.sql, "R-700", facility, day(1))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := h.svc.Reconciliation.SyncAll(ctx, SyncTriggerManual)
	assert.Error(t, err)

	var tasks int64
	require.NoError(t, h.sql.Model(&CleaningTask{}).Count(&tasks).Error)
	assert.Zero(t, tasks)
}
