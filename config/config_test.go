package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew_AppliesCleaningDefaults(t *testing.T) {
	t.Setenv("SERVER_PORT", "8288")
	t.Setenv("DB_TYPE", DatabaseTypeSQLite)
	t.Setenv("CLEANING_LARGE_FACILITY_GUESTS", "8")

	cfg, err := New()
	require.NoError(t, err)

	assert.Equal(t, 8288, cfg.ServerPort)
	assert.Equal(t, DatabaseTypeSQLite, cfg.DatabaseType)
	assert.Equal(t, 60, cfg.SyncIntervalMinutes)
	assert.Equal(t, "10:00", cfg.Cleaning.CheckoutTime)
	assert.Equal(t, "11:00", cfg.Cleaning.SyncStartTime)
	assert.Equal(t, "16:00", cfg.Cleaning.SyncEndTime)
	assert.Equal(t, 300, cfg.Cleaning.SyncDurationMinutes)
	assert.Equal(t, 120, cfg.Cleaning.DefaultDurationMinutes)
	assert.Equal(t, 8, cfg.Cleaning.LargeFacilityGuests)
	assert.False(t, cfg.Cleaning.ValidateOverlap)
	assert.Equal(t, cfg, GetConfig())
}

func TestNew_RejectsUnknownDatabaseType(t *testing.T) {
	t.Setenv("SERVER_PORT", "8288")
	t.Setenv("DB_HOST", "localhost")
	t.Setenv("DB_TYPE", "mysql")

	_, err := New()
	assert.Error(t, err)
}

func TestCleaningDefaults_Validate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(d *CleaningDefaults)
		wantErr bool
	}{
		{
			name:    "defaults are valid",
			mutate:  func(d *CleaningDefaults) {},
			wantErr: false,
		},
		{
			name:    "malformed clock",
			mutate:  func(d *CleaningDefaults) { d.CheckoutTime = "10am" },
			wantErr: true,
		},
		{
			name: "inverted sync window",
			mutate: func(d *CleaningDefaults) {
				d.SyncStartTime = "16:00"
				d.SyncEndTime = "11:00"
			},
			wantErr: true,
		},
		{
			name:    "priority out of range",
			mutate:  func(d *CleaningDefaults) { d.DefaultPriority = 6 },
			wantErr: true,
		},
		{
			name:    "zero large facility threshold",
			mutate:  func(d *CleaningDefaults) { d.LargeFacilityGuests = 0 },
			wantErr: true,
		},
		{
			name:    "blank default facility",
			mutate:  func(d *CleaningDefaults) { d.DefaultFacilityName = "  " },
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			defaults := DefaultCleaning()
			tt.mutate(&defaults)

			err := defaults.Validate()
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestConfig_KafkaBrokerList(t *testing.T) {
	assert.Nil(t, Config{}.KafkaBrokerList())
	assert.Equal(
		t,
		[]string{"kafka-1:9092", "kafka-2:9092"},
		Config{KafkaBrokers: " kafka-1:9092, ,kafka-2:9092 "}.KafkaBrokerList(),
	)
}
