package services

import (
	"context"
	"strings"
	"testing"

	"cleanops/internal/testdb"
	"cleanops/internal/types"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	. "cleanops/internal/models"
)

func TestRevision_RequestThenResolve(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()
	facility := testdb.Facility(t, h.sql, "Harbour View", 4)
	task := testdb.Task(t, h.sql, facility, day(1), testdb.WithNotes("Guest left early"))
	h.createShift(t, testdb.Staff(t, h.sql, "Alice"), task)
	h.createShift(t, testdb.Staff(t, h.sql, "Bob"), task)
	require.Len(t, h.activeShifts(t, task.ID), 2)

	revised, err := h.svc.Revision.RequestRevision(ctx, task.ID, "  wrong linen set  ")
	require.NoError(t, err)
	assert.Equal(t, TaskStatusNeedsRevision, revised.Status)
	assert.Equal(t, "Guest left early\n[Revision requested] wrong linen set", revised.Notes)
	assert.Empty(t, h.activeShifts(t, task.ID))

	var remaining int64
	require.NoError(t, h.sql.Model(&CleaningShift{}).Where("task_id = ?", task.ID).Count(&remaining).Error)
	assert.Zero(t, remaining)

	pending, err := h.svc.Task.NeedsRevisionTasks(ctx, nil)
	require.NoError(t, err)
	require.Len(t, pending, 1)
	assert.Equal(t, task.ID, pending[0].ID)

	resolved, err := h.svc.Revision.ResolveRevision(ctx, task.ID, "linen swapped")
	require.NoError(t, err)
	assert.Equal(t, TaskStatusUnassigned, resolved.Status)
	assert.True(t, strings.HasPrefix(resolved.Notes, "Guest left early"))
	assert.True(t, strings.HasSuffix(resolved.Notes, "[Revision resolved] linen swapped"))
}

func TestRevision_Rejections(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()
	facility := testdb.Facility(t, h.sql, "Harbour View", 4)
	unassigned := testdb.Task(t, h.sql, facility, day(1))

	_, err := h.svc.Revision.RequestRevision(ctx, unassigned.ID, "")
	assert.ErrorIs(t, err, types.ErrValidation)

	_, err = h.svc.Revision.RequestRevision(ctx, unassigned.ID, "missed bathroom")
	assert.ErrorIs(t, err, types.ErrValidation)

	_, err = h.svc.Revision.ResolveRevision(ctx, unassigned.ID, "")
	assert.ErrorIs(t, err, types.ErrValidation)

	assert.Equal(t, TaskStatusUnassigned, h.reloadTask(t, unassigned.ID).Status)
}
