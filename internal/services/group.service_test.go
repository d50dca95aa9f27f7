package services

import (
	"context"
	"testing"

	"cleanops/internal/repositories"
	"cleanops/internal/testdb"
	"cleanops/internal/types"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	. "cleanops/internal/models"
)

func TestGroupAssign_CreatesOneShiftPerTaskAndIsIdempotent(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()
	facility := testdb.Facility(t, h.sql, "Harbour View", 4)
	crew := testdb.Group(t, h.sql, "North Crew", testdb.Staff(t, h.sql, "Alice"))
	first := testdb.Task(t, h.sql, facility, day(1))
	second := testdb.Task(t, h.sql, facility, day(2))

	req := types.GroupAssignRequest{TaskIDs: []uuid.UUID{first.ID, second.ID}}

	result, err := h.svc.GroupAssign.AssignGroupToTasks(ctx, crew.ID, req)
	require.NoError(t, err)
	assert.True(t, result.Success)
	assert.Equal(t, 2, result.AssignedCount)
	require.Len(t, result.Shifts, 2)
	assert.Equal(t, first.ID, result.Shifts[0].TaskID)
	assert.Equal(t, "2030-03-02", result.Shifts[0].AssignedDate)
	assert.Equal(t, "11:00", result.Shifts[0].ScheduledStartTime)
	assert.Equal(t, "16:00", result.Shifts[0].ScheduledEndTime)
	assert.Equal(t, "2030-03-03", result.Shifts[1].AssignedDate)

	shifts := h.activeShifts(t, first.ID)
	require.Len(t, shifts, 1)
	assert.Equal(t, crew.ID, *shifts[0].GroupID)
	assert.Nil(t, shifts[0].StaffID)
	assert.Equal(t, ClockTime("11:00"), shifts[0].ScheduledStartTime)
	assert.Equal(t, ClockTime("16:00"), shifts[0].ScheduledEndTime)
	assert.True(t, DefaultGroupRate.Equal(shifts[0].CalculatedWage))
	assert.Equal(t, TaskStatusAssigned, h.reloadTask(t, first.ID).Status)

	again, err := h.svc.GroupAssign.AssignGroupToTasks(ctx, crew.ID, req)
	require.NoError(t, err)
	assert.Equal(t, 0, again.AssignedCount)
	assert.Equal(t, 2, again.SkippedCount)
	assert.Len(t, h.activeShifts(t, first.ID), 1)
}

func TestGroupAssign_SkipsTasksWithStaffShifts(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()
	facility := testdb.Facility(t, h.sql, "Harbour View", 4)
	crew := testdb.Group(t, h.sql, "North Crew")
	staffed := testdb.Task(t, h.sql, facility, day(1))
	h.createShift(t, testdb.Staff(t, h.sql, "Bob"), staffed)
	missing := uuid.New()

	result, err := h.svc.GroupAssign.AssignGroupToTasks(ctx, crew.ID, types.GroupAssignRequest{
		TaskIDs: []uuid.UUID{staffed.ID, missing},
	})
	require.NoError(t, err)
	assert.False(t, result.Success)
	assert.Equal(t, 1, result.SkippedCount)
	assert.Equal(t, []string{"Task " + missing.String() + " not found"}, result.Errors)
}

func TestGroupAssign_Rejections(t *testing.T) {
	h := newHarness(t)
	facility := testdb.Facility(t, h.sql, "Harbour View", 4)
	task := testdb.Task(t, h.sql, facility, day(1))
	crew := testdb.Group(t, h.sql, "North Crew")
	disbanded := testdb.Group(t, h.sql, "South Crew")
	require.NoError(t, h.sql.Model(disbanded).Update("is_active", false).Error)

	tests := []struct {
		name    string
		groupID uuid.UUID
		req     types.GroupAssignRequest
		wantErr error
	}{
		{
			name:    "no tasks",
			groupID: crew.ID,
			wantErr: types.ErrValidation,
		},
		{
			name:    "inverted window",
			groupID: crew.ID,
			req:     types.GroupAssignRequest{TaskIDs: []uuid.UUID{task.ID}, StartTime: "15:00", EndTime: "09:00"},
			wantErr: types.ErrValidation,
		},
		{
			name:    "end without start",
			groupID: crew.ID,
			req:     types.GroupAssignRequest{TaskIDs: []uuid.UUID{task.ID}, EndTime: "12:00"},
			wantErr: types.ErrValidation,
		},
		{
			name:    "unknown group",
			groupID: uuid.New(),
			req:     types.GroupAssignRequest{TaskIDs: []uuid.UUID{task.ID}},
			wantErr: types.ErrNotFound,
		},
		{
			name:    "inactive group",
			groupID: disbanded.ID,
			req:     types.GroupAssignRequest{TaskIDs: []uuid.UUID{task.ID}},
			wantErr: types.ErrValidation,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := h.svc.GroupAssign.AssignGroupToTasks(context.Background(), tt.groupID, tt.req)
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}

func TestGroupAssign_GroupShiftKeepsFlatRateBesideStaff(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()
	facility := testdb.Facility(t, h.sql, "Harbour View", 4)
	crew := testdb.Group(t, h.sql, "North Crew")
	task := testdb.Task(t, h.sql, facility, day(1))

	_, err := h.svc.GroupAssign.AssignGroupToTasks(ctx, crew.ID, types.GroupAssignRequest{
		TaskIDs: []uuid.UUID{task.ID},
	})
	require.NoError(t, err)
	h.createShift(t, testdb.Staff(t, h.sql, "Alice", testdb.WithRate(3000)), task)

	for _, shift := range h.activeShifts(t, task.ID) {
		assert.Equal(t, 2, shift.NumAssignedStaff)
		if shift.GroupID != nil {
			assert.True(t, DefaultGroupRate.Equal(shift.CalculatedWage))
		} else {
			assert.True(t, decimal.NewFromInt(1500).Equal(shift.CalculatedWage))
		}
	}
}

func TestUnassignGroupFromTask(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()
	facility := testdb.Facility(t, h.sql, "Harbour View", 4)
	crew := testdb.Group(t, h.sql, "North Crew")
	task := testdb.Task(t, h.sql, facility, day(1))

	_, err := h.svc.GroupAssign.AssignGroupToTasks(ctx, crew.ID, types.GroupAssignRequest{
		TaskIDs: []uuid.UUID{task.ID},
	})
	require.NoError(t, err)

	removed, err := h.svc.GroupAssign.UnassignGroupFromTask(ctx, crew.ID, task.ID)
	require.NoError(t, err)
	assert.True(t, removed)
	assert.Empty(t, h.activeShifts(t, task.ID))
	assert.Equal(t, TaskStatusUnassigned, h.reloadTask(t, task.ID).Status)

	removed, err = h.svc.GroupAssign.UnassignGroupFromTask(ctx, crew.ID, task.ID)
	require.NoError(t, err)
	assert.False(t, removed)
}

func TestListShifts_ByGroupAndRange(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()
	facility := testdb.Facility(t, h.sql, "Harbour View", 4)
	crew := testdb.Group(t, h.sql, "North Crew", testdb.Staff(t, h.sql, "Alice"))
	other := testdb.Group(t, h.sql, "South Crew", testdb.Staff(t, h.sql, "Bob"))

	tasks := []*CleaningTask{
		testdb.Task(t, h.sql, facility, day(1)),
		testdb.Task(t, h.sql, facility, day(2)),
		testdb.Task(t, h.sql, facility, day(6)),
	}
	ids := []uuid.UUID{tasks[0].ID, tasks[1].ID, tasks[2].ID}
	_, err := h.svc.GroupAssign.AssignGroupToTasks(ctx, crew.ID, types.GroupAssignRequest{TaskIDs: ids})
	require.NoError(t, err)
	_, err = h.svc.GroupAssign.AssignGroupToTasks(ctx, other.ID, types.GroupAssignRequest{
		TaskIDs: []uuid.UUID{testdb.Task(t, h.sql, facility, day(1)).ID},
	})
	require.NoError(t, err)

	from, to := day(0), day(3)
	tests := []struct {
		name   string
		filter repositories.ShiftFilter
		want   []uuid.UUID
	}{
		{name: "all of the group", filter: repositories.ShiftFilter{GroupID: &crew.ID}, want: ids},
		{
			name:   "within range",
			filter: repositories.ShiftFilter{GroupID: &crew.ID, From: &from, To: &to},
			want:   ids[:2],
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			shifts, err := h.svc.Shift.ListShifts(ctx, tt.filter)
			require.NoError(t, err)

			got := make([]uuid.UUID, 0, len(shifts))
			for _, shift := range shifts {
				assert.Equal(t, crew.ID, *shift.GroupID)
				got = append(got, shift.TaskID)
			}
			assert.Equal(t, tt.want, got)
		})
	}
}
