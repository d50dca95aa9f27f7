package models

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

func TestStaff_SkillTier(t *testing.T) {
	tests := []struct {
		level    int
		expected SkillTier
	}{
		{level: 1, expected: SkillTierTrainee},
		{level: 2, expected: SkillTierRegular},
		{level: 3, expected: SkillTierRegular},
		{level: 4, expected: SkillTierSenior},
		{level: 5, expected: SkillTierSenior},
	}

	for _, tt := range tests {
		staff := &Staff{SkillLevel: tt.level}
		assert.Equal(t, tt.expected, staff.SkillTier(), "level %d", tt.level)
	}
}

func TestFacilitySet_Allows(t *testing.T) {
	facilityA := uuid.New()
	facilityB := uuid.New()

	assert.True(t, NewFacilitySet().Allows(facilityA))

	set := NewFacilitySet(facilityA)
	assert.True(t, set.Allows(facilityA))
	assert.False(t, set.Allows(facilityB))
}

func TestStaffGroup_ActiveMemberIDs(t *testing.T) {
	left := time.Now()
	active := uuid.New()
	group := &StaffGroup{
		Members: []StaffGroupMember{
			{StaffID: active},
			{StaffID: uuid.New(), LeftDate: &left},
		},
	}

	assert.Equal(t, []uuid.UUID{active}, group.ActiveMemberIDs())
}
