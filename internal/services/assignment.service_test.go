package services

import (
	"context"
	"testing"

	"cleanops/config"
	"cleanops/internal/testdb"
	"cleanops/internal/types"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	. "cleanops/internal/models"
)

func TestAutoAssign_UrgentHighPriorityTaskGoesFirst(t *testing.T) {
	h := newHarness(t)
	facility := testdb.Facility(t, h.sql, "Harbour View", 4)
	relaxed := testdb.Task(t, h.sql, facility, day(10), testdb.WithPriority(5))
	urgent := testdb.Task(t, h.sql, facility, day(1), testdb.WithPriority(1))
	testdb.Staff(t, h.sql, "Alice")

	result, err := h.svc.Assignment.AutoAssign(context.Background(), types.AutoAssignRequest{
		TaskIDs: []uuid.UUID{relaxed.ID, urgent.ID},
		Date:    FormatDate(day(0)),
	})
	require.NoError(t, err)

	assert.True(t, result.Success)
	assert.Equal(t, 2, result.AssignedCount)
	assert.Equal(t, 0, result.FailedCount)
	require.Len(t, result.Assignments, 2)
	assert.Equal(t, urgent.ID, result.Assignments[0].TaskID)
	assert.Equal(t, relaxed.ID, result.Assignments[1].TaskID)
	assert.Equal(t, "Assigned 2 of 2 tasks", result.Message)

	// the second pick sees the shift made earlier in the batch
	assert.Contains(t, result.Assignments[1].Reasons, "1 other shifts on date")
	assert.Equal(t, TaskStatusAssigned, h.reloadTask(t, urgent.ID).Status)
}

func TestAutoAssign_IdleStaffOutscoresBusyStaff(t *testing.T) {
	h := newHarness(t)
	facility := testdb.Facility(t, h.sql, "Harbour View", 4)
	busy := testdb.Staff(t, h.sql, "Busy")
	idle := testdb.Staff(t, h.sql, "Idle")

	for range 3 {
		h.createShift(t, busy, testdb.Task(t, h.sql, facility, day(1)))
	}
	target := testdb.Task(t, h.sql, facility, day(1))

	result, err := h.svc.Assignment.AutoAssign(context.Background(), types.AutoAssignRequest{
		TaskIDs: []uuid.UUID{target.ID},
		Date:    FormatDate(day(1)),
	})
	require.NoError(t, err)
	require.Len(t, result.Assignments, 1)

	assignment := result.Assignments[0]
	assert.Equal(t, idle.ID, assignment.StaffID)
	assert.Equal(t, "Idle", assignment.StaffName)
	assert.Equal(t, 20+30+15, assignment.Score)
}

func TestAutoAssign_ReportsPerTaskProblems(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()
	facility := testdb.Facility(t, h.sql, "Harbour View", 4)
	alice := testdb.Staff(t, h.sql, "Alice")
	taken := testdb.Task(t, h.sql, facility, day(1))
	h.createShift(t, alice, taken)
	open := testdb.Task(t, h.sql, facility, day(1))
	missing := uuid.New()

	require.NoError(t, h.svc.Availability.SetDay(ctx, alice.ID, 2030, 3, 2, false))

	result, err := h.svc.Assignment.AutoAssign(ctx, types.AutoAssignRequest{
		TaskIDs: []uuid.UUID{missing, taken.ID, open.ID, open.ID},
		Date:    FormatDate(day(1)),
	})
	require.NoError(t, err)

	assert.False(t, result.Success)
	assert.Equal(t, 0, result.AssignedCount)
	assert.Equal(t, 3, result.FailedCount)
	assert.Equal(t, []string{
		"Task " + missing.String() + " not found",
		"Task " + taken.ID.String() + " is already assigned",
		"No eligible staff for task " + open.ID.String(),
	}, result.Errors)
	assert.Equal(t, TaskStatusUnassigned, h.reloadTask(t, open.ID).Status)
}

func TestAutoAssign_NoActiveStaff(t *testing.T) {
	h := newHarness(t)
	facility := testdb.Facility(t, h.sql, "Harbour View", 4)
	testdb.Staff(t, h.sql, "Retired", testdb.Inactive())
	task := testdb.Task(t, h.sql, facility, day(1))

	result, err := h.svc.Assignment.AutoAssign(context.Background(), types.AutoAssignRequest{
		TaskIDs: []uuid.UUID{task.ID},
		Date:    FormatDate(day(1)),
	})
	require.NoError(t, err)
	assert.Equal(t, []string{"No available staff for task " + task.ID.String()}, result.Errors)
}

func TestAutoAssign_RejectsBadRequests(t *testing.T) {
	h := newHarness(t)

	tests := []struct {
		name string
		req  types.AutoAssignRequest
	}{
		{name: "empty task list", req: types.AutoAssignRequest{Date: "2030-03-02"}},
		{name: "malformed date", req: types.AutoAssignRequest{TaskIDs: []uuid.UUID{uuid.New()}, Date: "03/02/2030"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := h.svc.Assignment.AutoAssign(context.Background(), tt.req)
			assert.ErrorIs(t, err, types.ErrValidation)
		})
	}
}

func TestAutoAssign_RestrictedGroupLimitsCandidates(t *testing.T) {
	h := newHarness(t)
	facility := testdb.Facility(t, h.sql, "Harbour View", 4)
	testdb.Staff(t, h.sql, "Alice", testdb.WithSkill(5))
	bob := testdb.Staff(t, h.sql, "Bob")
	crew := testdb.Group(t, h.sql, "North Crew", bob)
	task := testdb.Task(t, h.sql, facility, day(1), testdb.RestrictedTo(crew))

	result, err := h.svc.Assignment.AutoAssign(context.Background(), types.AutoAssignRequest{
		TaskIDs: []uuid.UUID{task.ID},
		Date:    FormatDate(day(1)),
	})
	require.NoError(t, err)
	require.Len(t, result.Assignments, 1)
	assert.Equal(t, bob.ID, result.Assignments[0].StaffID)
	assert.Contains(t, result.Assignments[0].Reasons, "member of the restricted group")
}

func TestAutoAssign_OverlapCheckSkipsBookedStaff(t *testing.T) {
	h := newHarness(t, func(d *config.CleaningDefaults) { d.ValidateOverlap = true })
	facility := testdb.Facility(t, h.sql, "Harbour View", 4)
	alice := testdb.Staff(t, h.sql, "Alice")
	h.createShift(t, alice, testdb.Task(t, h.sql, facility, day(1)))
	task := testdb.Task(t, h.sql, facility, day(1), testdb.WithWindow("12:00", "14:00"))

	result, err := h.svc.Assignment.AutoAssign(context.Background(), types.AutoAssignRequest{
		TaskIDs: []uuid.UUID{task.ID},
		Date:    FormatDate(day(1)),
	})
	require.NoError(t, err)
	assert.Equal(t, 0, result.AssignedCount)
	assert.Equal(t, []string{"No eligible staff for task " + task.ID.String()}, result.Errors)
}

func TestAutoAssignForDate_OnlyFacilitiesWithAutoAssign(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()
	auto := testdb.Facility(t, h.sql, "Harbour View", 4)
	manual := testdb.Facility(t, h.sql, "Garden Suite", 4)
	require.NoError(t, h.sql.Create(&FacilityCleaningSettings{FacilityID: auto.ID, AutoAssign: true}).Error)
	testdb.Staff(t, h.sql, "Alice")

	autoTask := testdb.Task(t, h.sql, auto, day(1))
	manualTask := testdb.Task(t, h.sql, manual, day(1))
	testdb.Task(t, h.sql, auto, day(2))

	result, err := h.svc.Assignment.AutoAssignForDate(ctx, day(1))
	require.NoError(t, err)
	require.Len(t, result.Assignments, 1)
	assert.Equal(t, autoTask.ID, result.Assignments[0].TaskID)
	assert.Equal(t, TaskStatusUnassigned, h.reloadTask(t, manualTask.ID).Status)

	empty, err := h.svc.Assignment.AutoAssignForDate(ctx, day(5))
	require.NoError(t, err)
	assert.Equal(t, "No tasks to assign", empty.Message)
	assert.Empty(t, empty.Assignments)
}
