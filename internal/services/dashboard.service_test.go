package services

import (
	"context"
	"testing"
	"time"

	"cleanops/internal/testdb"
	"cleanops/internal/types"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	. "cleanops/internal/models"
)

// workShift checks the shift in at 08:00 and out at the given minutes later.
func (h *harness) workShift(t *testing.T, shift *CleaningShift, minutes int) {
	t.Helper()
	ctx := context.Background()

	h.svc.Shift.now = func() time.Time { return testToday }
	_, err := h.svc.Shift.CheckIn(ctx, shift.ID, types.CheckInRequest{})
	require.NoError(t, err)

	h.svc.Shift.now = func() time.Time { return testToday.Add(time.Duration(minutes) * time.Minute) }
	_, err = h.svc.Shift.CheckOut(ctx, shift.ID, types.CheckOutRequest{})
	require.NoError(t, err)

	h.svc.Shift.now = func() time.Time { return testToday }
}

func TestDashboard_StatsAndPerformance(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()
	facility := testdb.Facility(t, h.sql, "Harbour View", 4)
	alice := testdb.Staff(t, h.sql, "Alice", testdb.WithRate(3000))
	bob := testdb.Staff(t, h.sql, "Bob", testdb.WithRate(5000))

	first := testdb.Task(t, h.sql, facility, day(1))
	second := testdb.Task(t, h.sql, facility, day(1))
	testdb.Task(t, h.sql, facility, day(1))

	aliceShift := h.createShift(t, alice, first)
	h.workShift(t, aliceShift, 150)
	_, err := h.svc.Shift.UpdateShift(ctx, aliceShift.ID, types.UpdateShiftRequest{PerformanceRating: ptr(4)})
	require.NoError(t, err)

	h.workShift(t, h.createShift(t, bob, second), 90)

	stats, err := h.svc.Dashboard.Stats(ctx, day(1))
	require.NoError(t, err)
	assert.Equal(t, "2030-03-02", stats.Date)
	assert.Equal(t, int64(3), stats.TotalTasks)
	assert.Equal(t, int64(1), stats.UnassignedTasks)
	assert.Equal(t, int64(2), stats.CompletedTasks)
	assert.Equal(t, int64(0), stats.InProgressTasks)
	assert.Equal(t, int64(2), stats.ActiveStaff)
	require.NotNil(t, stats.AvgCompletionMinutes)
	assert.InDelta(t, 120.0, *stats.AvgCompletionMinutes, 0.001)

	perf, err := h.svc.Dashboard.StaffPerformance(ctx, day(0), day(7))
	require.NoError(t, err)
	require.Len(t, perf, 2)

	assert.Equal(t, bob.ID, perf[0].StaffID)
	assert.True(t, decimal.NewFromInt(5500).Equal(perf[0].TotalEarnings), perf[0].TotalEarnings.String())
	assert.Equal(t, 1.5, perf[0].TotalHours)
	assert.Nil(t, perf[0].AverageRating)

	assert.Equal(t, "Alice", perf[1].StaffName)
	assert.Equal(t, int64(1), perf[1].CompletedTasks)
	assert.Equal(t, 2.5, perf[1].TotalHours)
	require.NotNil(t, perf[1].AverageRating)
	assert.Equal(t, 4.0, *perf[1].AverageRating)
}

func TestDashboard_EmptyDayAndBadRange(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()

	stats, err := h.svc.Dashboard.Stats(ctx, day(3))
	require.NoError(t, err)
	assert.Zero(t, stats.TotalTasks)
	assert.Nil(t, stats.AvgCompletionMinutes)

	_, err = h.svc.Dashboard.StaffPerformance(ctx, day(5), day(1))
	assert.ErrorIs(t, err, types.ErrValidation)
}
