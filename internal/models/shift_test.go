package models

import (
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestCleaningShift_HasSingleOwner(t *testing.T) {
	id := uuid.New()

	tests := []struct {
		name     string
		shift    CleaningShift
		expected bool
	}{
		{name: "staff only", shift: CleaningShift{StaffID: &id}, expected: true},
		{name: "group only", shift: CleaningShift{GroupID: &id}, expected: true},
		{name: "both", shift: CleaningShift{StaffID: &id, GroupID: &id}, expected: false},
		{name: "neither", shift: CleaningShift{}, expected: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, tt.shift.HasSingleOwner())
		})
	}
}

func TestCleaningShift_ApplyWage(t *testing.T) {
	staff := &Staff{
		RatePerProperty:           decimal.NewFromInt(3000),
		RatePerPropertyWithOption: decimal.NewFromInt(4000),
		TransportationFee:         decimal.NewFromInt(500),
	}
	group := &StaffGroup{
		RatePerProperty:           decimal.NewFromInt(8000),
		RatePerPropertyWithOption: decimal.NewFromInt(9000),
		TransportationFee:         decimal.NewFromInt(1000),
	}
	staffID := uuid.New()
	groupID := uuid.New()

	tests := []struct {
		name      string
		shift     CleaningShift
		payer     PayRateSource
		n         int
		wantWage  string
		wantTotal string
	}{
		{
			name:      "single staff full rate",
			shift:     CleaningShift{StaffID: &staffID},
			payer:     staff,
			n:         1,
			wantWage:  "3000",
			wantTotal: "3500",
		},
		{
			name:      "staff split three ways",
			shift:     CleaningShift{StaffID: &staffID},
			payer:     staff,
			n:         3,
			wantWage:  "1000",
			wantTotal: "1500",
		},
		{
			name:      "option rate with bonus",
			shift:     CleaningShift{StaffID: &staffID, IsOptionIncluded: true, Bonus: decimal.NewFromInt(250)},
			payer:     staff,
			n:         2,
			wantWage:  "2000",
			wantTotal: "2750",
		},
		{
			name:      "group bundle is never divided",
			shift:     CleaningShift{GroupID: &groupID},
			payer:     group,
			n:         2,
			wantWage:  "8000",
			wantTotal: "9000",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			shift := tt.shift
			shift.ApplyWage(tt.payer, tt.n)

			assert.Equal(t, tt.n, shift.NumAssignedStaff)
			assert.True(t, decimal.RequireFromString(tt.wantWage).Equal(shift.CalculatedWage), shift.CalculatedWage.String())
			assert.True(t, decimal.RequireFromString(tt.wantTotal).Equal(shift.TotalPayment), shift.TotalPayment.String())
			assert.True(
				t,
				shift.TotalPayment.Equal(shift.CalculatedWage.Add(shift.TransportationFee).Add(shift.Bonus)),
			)
		})
	}
}

func TestCleaningShift_ApplyWageRounds(t *testing.T) {
	staffID := uuid.New()
	shift := CleaningShift{StaffID: &staffID}
	shift.ApplyWage(&Staff{RatePerProperty: decimal.NewFromInt(1000)}, 3)

	assert.Equal(t, "333.33", shift.CalculatedWage.StringFixed(2))
	assert.Equal(t, "333.33", shift.TotalPayment.StringFixed(2))
}

func TestCleaningShift_UpdateStatus(t *testing.T) {
	shift := &CleaningShift{Status: ShiftStatusScheduled}

	assert.NoError(t, shift.UpdateStatus(ShiftStatusInProgress))
	assert.NoError(t, shift.UpdateStatus(ShiftStatusCompleted))
	assert.ErrorIs(t, shift.UpdateStatus(ShiftStatusScheduled), ErrInvalidTransition)
}
