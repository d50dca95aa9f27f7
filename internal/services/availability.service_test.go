package services

import (
	"context"
	"testing"
	"time"

	"cleanops/internal/testdb"
	"cleanops/internal/types"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAvailability_DefaultsToAvailable(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()
	alice := testdb.Staff(t, h.sql, "Alice")

	available, err := h.svc.Availability.IsAvailable(ctx, alice.ID, day(4))
	require.NoError(t, err)
	assert.True(t, available)

	month, err := h.svc.Availability.GetMonth(ctx, alice.ID, 2030, 2)
	require.NoError(t, err)
	assert.Len(t, month.Days, 28)
	for _, day := range month.Days {
		assert.True(t, day)
	}

	_, err = h.svc.Availability.GetMonth(ctx, uuid.New(), 2030, 2)
	assert.ErrorIs(t, err, types.ErrNotFound)
}

func TestAvailability_SetDayAndMonth(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()
	alice := testdb.Staff(t, h.sql, "Alice")
	bob := testdb.Staff(t, h.sql, "Bob")

	require.NoError(t, h.svc.Availability.SetDay(ctx, alice.ID, 2030, 3, 5, false))

	available, err := h.svc.Availability.IsAvailable(ctx, alice.ID, day(4))
	require.NoError(t, err)
	assert.False(t, available)

	staff, err := h.svc.Availability.AvailableStaffForDate(ctx, day(4))
	require.NoError(t, err)
	require.Len(t, staff, 1)
	assert.Equal(t, bob.ID, staff[0].ID)

	days := make([]bool, 31)
	days[0] = true
	month, err := h.svc.Availability.SetMonth(ctx, bob.ID, 2030, 3, types.SetMonthAvailabilityRequest{
		Days:  days,
		Notes: "away most of March",
	})
	require.NoError(t, err)
	assert.Equal(t, "away most of March", month.Notes)
	assert.True(t, month.Days[0])
	assert.False(t, month.Days[1])

	tests := []struct {
		name string
		err  error
	}{
		{name: "short month", err: func() error {
			_, err := h.svc.Availability.SetMonth(ctx, bob.ID, 2030, 3, types.SetMonthAvailabilityRequest{
				Days: make([]bool, 30),
			})
			return err
		}()},
		{name: "month out of range", err: h.svc.Availability.SetDay(ctx, bob.ID, 2030, 13, 1, true)},
		{name: "day out of range", err: h.svc.Availability.SetDay(ctx, bob.ID, 2030, 2, 30, true)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.ErrorIs(t, tt.err, types.ErrValidation)
		})
	}
}

func TestAvailability_InitializeMonthResets(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()
	alice := testdb.Staff(t, h.sql, "Alice")

	require.NoError(t, h.svc.Availability.SetDay(ctx, alice.ID, 2030, 4, 10, false))

	month, err := h.svc.Availability.InitializeMonth(ctx, alice.ID, 2030, 4, true)
	require.NoError(t, err)
	assert.Len(t, month.Days, 30)
	assert.True(t, month.Days[9])

	blocked, err := h.svc.Availability.InitializeMonth(ctx, alice.ID, 2030, 4, false)
	require.NoError(t, err)
	for _, day := range blocked.Days {
		assert.False(t, day)
	}
}

func TestAvailability_MonthOverview(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()
	alice := testdb.Staff(t, h.sql, "Alice")
	bob := testdb.Staff(t, h.sql, "Bob")
	testdb.Staff(t, h.sql, "Carol", testdb.Inactive())

	require.NoError(t, h.svc.Availability.SetDay(ctx, alice.ID, 2030, 2, 3, false))

	overview, err := h.svc.Availability.MonthOverview(ctx, 2030, 2)
	require.NoError(t, err)
	assert.Equal(t, 2030, overview.Year)
	assert.Equal(t, 2, overview.Month)
	require.Len(t, overview.Staff, 2)

	rows := make(map[uuid.UUID]types.StaffMonthAvailability, len(overview.Staff))
	for _, row := range overview.Staff {
		assert.Len(t, row.Days, 28)
		rows[row.StaffID] = row
	}

	assert.True(t, rows[alice.ID].Recorded)
	assert.Equal(t, "Alice", rows[alice.ID].StaffName)
	assert.False(t, rows[alice.ID].Days[2])
	assert.True(t, rows[alice.ID].Days[3])

	assert.False(t, rows[bob.ID].Recorded)
	for _, available := range rows[bob.ID].Days {
		assert.True(t, available)
	}

	stored, err := h.svc.Availability.availabilityRepo.Get(ctx, h.sql, bob.ID, 2030, time.February)
	require.NoError(t, err)
	assert.Nil(t, stored)

	_, err = h.svc.Availability.MonthOverview(ctx, 2030, 0)
	assert.ErrorIs(t, err, types.ErrValidation)
}
