package utils

import (
	"testing"
	"time"

	"cleanops/internal/types"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseDateParam(t *testing.T) {
	tests := []struct {
		name    string
		value   string
		want    *time.Time
		wantErr bool
	}{
		{name: "blank", value: "  "},
		{name: "valid", value: "2030-03-02", want: ptr(time.Date(2030, 3, 2, 0, 0, 0, 0, time.UTC))},
		{name: "wrong layout", value: "02/03/2030", wantErr: true},
		{name: "impossible day", value: "2030-02-30", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseDateParam("date", tt.value)
			if tt.wantErr {
				assert.ErrorIs(t, err, types.ErrValidation)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestRequireDateParam(t *testing.T) {
	_, err := RequireDateParam("date", "")
	assert.ErrorIs(t, err, types.ErrValidation)
	assert.Contains(t, err.Error(), "date is required")
}

func TestParseDateRange(t *testing.T) {
	from, to, err := ParseDateRange("2030-03-01", "2030-03-07")
	require.NoError(t, err)
	assert.Equal(t, 6*24*time.Hour, to.Sub(from))

	_, _, err = ParseDateRange("2030-03-07", "2030-03-01")
	assert.ErrorIs(t, err, types.ErrValidation)

	_, _, err = ParseDateRange("2030-03-07", "")
	assert.ErrorIs(t, err, types.ErrValidation)
}

func TestParseUUIDParam(t *testing.T) {
	id := uuid.New()

	got, err := ParseUUIDParam("facilityId", id.String())
	require.NoError(t, err)
	assert.Equal(t, id, *got)

	got, err = ParseUUIDParam("facilityId", "")
	require.NoError(t, err)
	assert.Nil(t, got)

	_, err = ParseUUIDParam("facilityId", "harbour")
	assert.ErrorIs(t, err, types.ErrValidation)
}

func TestParseIntParam(t *testing.T) {
	got, err := ParseIntParam("limit", "", 20)
	require.NoError(t, err)
	assert.Equal(t, 20, got)

	got, err = ParseIntParam("limit", "5", 20)
	require.NoError(t, err)
	assert.Equal(t, 5, got)

	_, err = ParseIntParam("limit", "five", 20)
	assert.ErrorIs(t, err, types.ErrValidation)
}

func ptr[T any](v T) *T {
	return &v
}
