package services

import (
	"context"
	"testing"

	"cleanops/internal/testdb"
	"cleanops/internal/types"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	. "cleanops/internal/models"
)

func TestFacilityService_CreateAndUpdate(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()

	facility, err := h.svc.Facility.CreateFacility(ctx, types.CreateFacilityRequest{Name: "  Harbour View "})
	require.NoError(t, err)
	assert.Equal(t, "Harbour View", facility.Name)
	assert.Equal(t, DefaultFacilityMaxGuests, facility.MaxGuests)
	assert.True(t, facility.IsActive)

	_, err = h.svc.Facility.CreateFacility(ctx, types.CreateFacilityRequest{Name: "Harbour View"})
	assert.ErrorIs(t, err, types.ErrConflict)

	_, err = h.svc.Facility.CreateFacility(ctx, types.CreateFacilityRequest{Name: " "})
	assert.ErrorIs(t, err, types.ErrValidation)

	other, err := h.svc.Facility.CreateFacility(ctx, types.CreateFacilityRequest{Name: "Garden Suite", MaxGuests: 8})
	require.NoError(t, err)

	_, err = h.svc.Facility.UpdateFacility(ctx, other.ID, types.UpdateFacilityRequest{Name: ptr("Harbour View")})
	assert.ErrorIs(t, err, types.ErrConflict)

	_, err = h.svc.Facility.UpdateFacility(ctx, other.ID, types.UpdateFacilityRequest{MaxGuests: ptr(0)})
	assert.ErrorIs(t, err, types.ErrValidation)

	updated, err := h.svc.Facility.UpdateFacility(ctx, other.ID, types.UpdateFacilityRequest{
		Bedrooms: ptr(3),
		IsActive: ptr(false),
	})
	require.NoError(t, err)
	assert.Equal(t, 3, updated.Bedrooms)
	assert.Equal(t, 8, updated.MaxGuests)
	assert.False(t, updated.IsActive)

	_, err = h.svc.Facility.GetFacility(ctx, uuid.New())
	assert.ErrorIs(t, err, types.ErrNotFound)

	all, err := h.svc.Facility.ListFacilities(ctx)
	require.NoError(t, err)
	assert.Len(t, all, 2)
}

func TestFacilityService_Settings(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()
	facility := testdb.Facility(t, h.sql, "Harbour View", 4)
	alice := testdb.Staff(t, h.sql, "Alice")

	_, err := h.svc.Facility.GetSettings(ctx, facility.ID)
	assert.ErrorIs(t, err, types.ErrNotFound)

	req := types.FacilitySettingsRequest{
		StandardDurationMinutes: 90,
		PreferredStartTime:      "10:30",
		PreferredEndTime:        "14:00",
		Checklist:               []types.ChecklistItemRequest{{Name: " Beds ", Required: true}},
		PreferredStaffIDs:       []uuid.UUID{alice.ID, alice.ID},
		AutoAssign:              true,
	}

	settings, err := h.svc.Facility.CreateSettings(ctx, facility.ID, req)
	require.NoError(t, err)
	assert.Equal(t, 90, settings.StandardDurationMinutes)
	assert.Equal(t, 180, settings.DeepCleaningDurationMinutes)
	assert.Equal(t, []ChecklistItem{{Name: "Beds", Required: true}}, []ChecklistItem(settings.Checklist))
	assert.Equal(t, []uuid.UUID{alice.ID}, []uuid.UUID(settings.PreferredStaffIDs))
	assert.Empty(t, settings.RequiredSupplies)

	_, err = h.svc.Facility.CreateSettings(ctx, facility.ID, req)
	assert.ErrorIs(t, err, types.ErrConflict)

	_, err = h.svc.Facility.UpdateSettings(ctx, facility.ID, types.FacilitySettingsRequest{PreferredStartTime: "10:30"})
	assert.ErrorIs(t, err, types.ErrValidation)

	updated, err := h.svc.Facility.UpdateSettings(ctx, facility.ID, types.FacilitySettingsRequest{
		RequiredSupplies: []string{"linen"},
	})
	require.NoError(t, err)
	assert.False(t, updated.AutoAssign)
	assert.False(t, updated.HasPreferredWindow())
	assert.Equal(t, []string{"linen"}, []string(updated.RequiredSupplies))

	_, err = h.svc.Facility.CreateSettings(ctx, uuid.New(), types.FacilitySettingsRequest{})
	assert.ErrorIs(t, err, types.ErrNotFound)
}

func TestStaffService_CreateDefaultsAndValidation(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()

	staff, err := h.svc.Staff.CreateStaff(ctx, types.CreateStaffRequest{Name: "Alice"})
	require.NoError(t, err)
	assert.Equal(t, 1, staff.SkillLevel)
	assert.True(t, staff.IsActive)
	assert.True(t, DefaultStaffRate.Equal(staff.RatePerProperty))
	assert.True(t, DefaultStaffRateWithOption.Equal(staff.RatePerPropertyWithOption))
	assert.True(t, staff.TransportationFee.IsZero())

	negative := decimal.NewFromInt(-1)
	tests := []struct {
		name string
		req  types.CreateStaffRequest
	}{
		{name: "blank name", req: types.CreateStaffRequest{Name: " "}},
		{name: "skill too high", req: types.CreateStaffRequest{Name: "Bob", SkillLevel: 6}},
		{name: "negative rate", req: types.CreateStaffRequest{Name: "Bob", RatePerProperty: &negative}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := h.svc.Staff.CreateStaff(ctx, tt.req)
			assert.ErrorIs(t, err, types.ErrValidation)
		})
	}

	updated, err := h.svc.Staff.UpdateStaff(ctx, staff.ID, types.UpdateStaffRequest{
		SkillLevel:               ptr(4),
		CanHandleLargeProperties: ptr(true),
	})
	require.NoError(t, err)
	assert.Equal(t, SkillTierSenior, updated.SkillTier())
	assert.True(t, updated.CanHandleLargeProperties)

	require.NoError(t, h.svc.Staff.DeactivateStaff(ctx, staff.ID))
	reloaded, err := h.svc.Staff.GetStaff(ctx, staff.ID)
	require.NoError(t, err)
	assert.False(t, reloaded.IsActive)
}

func TestStaffService_GroupMembership(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()
	alice := testdb.Staff(t, h.sql, "Alice")
	bob := testdb.Staff(t, h.sql, "Bob")

	_, err := h.svc.Staff.CreateGroup(ctx, types.CreateGroupRequest{
		Name:      "North Crew",
		MemberIDs: []uuid.UUID{alice.ID, uuid.New()},
	})
	assert.ErrorIs(t, err, types.ErrNotFound)

	group, err := h.svc.Staff.CreateGroup(ctx, types.CreateGroupRequest{
		Name:      "North Crew",
		MemberIDs: []uuid.UUID{alice.ID},
	})
	require.NoError(t, err)
	assert.True(t, DefaultGroupRate.Equal(group.RatePerProperty))
	require.Len(t, group.Members, 1)
	assert.True(t, day(0).Equal(DateOf(group.Members[0].JoinedDate)))

	_, err = h.svc.Staff.AddGroupMember(ctx, group.ID, types.AddMemberRequest{StaffID: alice.ID})
	assert.ErrorIs(t, err, types.ErrConflict)

	withBob, err := h.svc.Staff.AddGroupMember(ctx, group.ID, types.AddMemberRequest{
		StaffID:  bob.ID,
		Role:     "lead",
		IsLeader: true,
	})
	require.NoError(t, err)
	assert.Len(t, withBob.Members, 2)

	require.NoError(t, h.svc.Staff.EndGroupMembership(ctx, group.ID, alice.ID))
	assert.ErrorIs(t, h.svc.Staff.EndGroupMembership(ctx, group.ID, alice.ID), types.ErrNotFound)

	var active int64
	require.NoError(t, h.sql.Model(&StaffGroupMember{}).
		Where("group_id = ? AND left_date IS NULL", group.ID).
		Count(&active).Error)
	assert.Equal(t, int64(1), active)
}

func TestStaffService_UpdateAndDeactivateGroup(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()
	crew := testdb.Group(t, h.sql, "North Crew", testdb.Staff(t, h.sql, "Alice"))

	tests := []struct {
		name string
		id   uuid.UUID
		req  types.UpdateGroupRequest
		want error
	}{
		{name: "blank name", id: crew.ID, req: types.UpdateGroupRequest{Name: ptr("  ")}, want: types.ErrValidation},
		{
			name: "negative capacity",
			id:   crew.ID,
			req:  types.UpdateGroupRequest{MaxPropertiesPerDay: ptr(-1)},
			want: types.ErrValidation,
		},
		{
			name: "negative fee",
			id:   crew.ID,
			req:  types.UpdateGroupRequest{TransportationFee: ptr(decimal.NewFromInt(-5))},
			want: types.ErrValidation,
		},
		{name: "unknown group", id: uuid.New(), req: types.UpdateGroupRequest{}, want: types.ErrNotFound},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := h.svc.Staff.UpdateGroup(ctx, tt.id, tt.req)
			assert.ErrorIs(t, err, tt.want)
		})
	}

	updated, err := h.svc.Staff.UpdateGroup(ctx, crew.ID, types.UpdateGroupRequest{
		Name:                ptr(" South Crew "),
		MaxPropertiesPerDay: ptr(5),
		RatePerProperty:     ptr(decimal.RequireFromString("9000.456")),
	})
	require.NoError(t, err)
	assert.Equal(t, "South Crew", updated.Name)
	assert.Equal(t, 5, updated.MaxPropertiesPerDay)
	assert.Equal(t, "9000.46", updated.RatePerProperty.StringFixed(2))
	assert.True(t, DefaultGroupRateWithOption.Equal(updated.RatePerPropertyWithOption))
	assert.Len(t, updated.Members, 1)
	assert.True(t, updated.IsActive)

	require.NoError(t, h.svc.Staff.DeactivateGroup(ctx, crew.ID))

	stored, err := h.svc.Staff.GetGroup(ctx, crew.ID)
	require.NoError(t, err)
	assert.False(t, stored.IsActive)
	assert.Len(t, stored.Members, 1)

	task := testdb.Task(t, h.sql, testdb.Facility(t, h.sql, "Harbour View", 4), day(1))
	_, err = h.svc.GroupAssign.AssignGroupToTasks(ctx, crew.ID, types.GroupAssignRequest{
		TaskIDs: []uuid.UUID{task.ID},
	})
	assert.ErrorIs(t, err, types.ErrValidation)

	assert.ErrorIs(t, h.svc.Staff.DeactivateGroup(ctx, uuid.New()), types.ErrNotFound)
}
