package repositories_test

import (
	"context"
	"testing"
	"time"

	"cleanops/internal/models"
	"cleanops/internal/repositories"
	"cleanops/internal/testdb"
	"cleanops/internal/types"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var checkout = time.Date(2030, 3, 2, 0, 0, 0, 0, time.UTC)

func TestTaskRepository_SaveDetectsConcurrentEdit(t *testing.T) {
	db := testdb.New(t)
	ctx := context.Background()
	repo := repositories.NewTaskRepository()
	task := testdb.Task(t, db.SQL, testdb.Facility(t, db.SQL, "Harbour View", 4), checkout)

	first, err := repo.GetByID(ctx, db.SQL, task.ID)
	require.NoError(t, err)
	second, err := repo.GetByID(ctx, db.SQL, task.ID)
	require.NoError(t, err)

	first.Notes = "bring extra towels"
	require.NoError(t, repo.Save(ctx, db.SQL, first))
	assert.Equal(t, 2, first.Version)

	second.Notes = "stale edit"
	err = repo.Save(ctx, db.SQL, second)
	assert.ErrorIs(t, err, types.ErrConflict)
	assert.Equal(t, 1, second.Version)

	stored, err := repo.GetByID(ctx, db.SQL, task.ID)
	require.NoError(t, err)
	assert.Equal(t, "bring extra towels", stored.Notes)
	assert.Equal(t, 2, stored.Version)
}

func TestReservationRepository_UpsertOutcomes(t *testing.T) {
	db := testdb.New(t)
	ctx := context.Background()
	repo := repositories.NewReservationRepository()
	facility := testdb.Facility(t, db.SQL, "Harbour View", 4)

	build := func(hash string, out time.Time) *models.Reservation {
		return &models.Reservation{
			Source:       "beds24",
			ExternalID:   "A1",
			FacilityID:   &facility.ID,
			RoomType:     facility.Name,
			GuestCount:   2,
			CheckInDate:  checkout.AddDate(0, 0, -3),
			CheckOutDate: out,
			ContentHash:  hash,
		}
	}

	tests := []struct {
		name        string
		reservation *models.Reservation
		want        repositories.UpsertOutcome
	}{
		{name: "new booking", reservation: build("h1", checkout), want: repositories.UpsertCreated},
		{name: "same content", reservation: build("h1", checkout), want: repositories.UpsertUnchanged},
		{name: "changed content", reservation: build("h2", checkout.AddDate(0, 0, 1)), want: repositories.UpsertUpdated},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			outcome, err := repo.Upsert(ctx, db.SQL, tt.reservation)
			require.NoError(t, err)
			assert.Equal(t, tt.want, outcome)
		})
	}

	stored, err := repo.GetByExternalID(ctx, db.SQL, "beds24", "A1")
	require.NoError(t, err)
	require.NotNil(t, stored)
	assert.Equal(t, "2030-03-03", models.FormatDate(stored.CheckOutDate))

	missing, err := repo.GetByExternalID(ctx, db.SQL, "beds24", "nope")
	require.NoError(t, err)
	assert.Nil(t, missing)
}

func TestReservationRepository_ListFilters(t *testing.T) {
	db := testdb.New(t)
	ctx := context.Background()
	repo := repositories.NewReservationRepository()
	harbour := testdb.Facility(t, db.SQL, "Harbour View", 4)
	garden := testdb.Facility(t, db.SQL, "Garden Suite", 4)

	testdb.Reservation(t, db.SQL, "R-1", harbour, checkout)
	testdb.Reservation(t, db.SQL, "R-2", garden, checkout)
	testdb.Reservation(t, db.SQL, "R-3", harbour, checkout.AddDate(0, 0, 5))
	cancelled := testdb.Reservation(t, db.SQL, "R-4", harbour, checkout)
	require.NoError(t, db.SQL.Model(cancelled).Update("is_cancelled", true).Error)

	to := checkout.AddDate(0, 0, 1)
	tests := []struct {
		name   string
		filter repositories.ReservationFilter
		want   []string
	}{
		{name: "everything active", filter: repositories.ReservationFilter{}, want: []string{"R-1", "R-2", "R-3"}},
		{
			name:   "by facility and range",
			filter: repositories.ReservationFilter{FacilityID: &harbour.ID, To: &to},
			want:   []string{"R-1"},
		},
		{
			name:   "with cancelled",
			filter: repositories.ReservationFilter{FacilityID: &harbour.ID, To: &to, IncludeCancelled: true},
			want:   []string{"R-1", "R-4"},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			reservations, err := repo.List(ctx, db.SQL, tt.filter)
			require.NoError(t, err)

			got := make([]string, 0, len(reservations))
			for _, r := range reservations {
				got = append(got, r.ExternalID)
			}
			assert.ElementsMatch(t, tt.want, got)
		})
	}

	onDay, err := repo.GetActiveByCheckoutDate(ctx, db.SQL, checkout)
	require.NoError(t, err)
	assert.Len(t, onDay, 2)
}

func TestShiftRepository_ActiveCounts(t *testing.T) {
	db := testdb.New(t)
	ctx := context.Background()
	repo := repositories.NewShiftRepository()
	facility := testdb.Facility(t, db.SQL, "Harbour View", 4)
	alice := testdb.Staff(t, db.SQL, "Alice")
	bob := testdb.Staff(t, db.SQL, "Bob")

	first := testdb.Task(t, db.SQL, facility, checkout)
	second := testdb.Task(t, db.SQL, facility, checkout)
	dropped := testdb.Task(t, db.SQL, facility, checkout)
	require.NoError(t, db.SQL.Model(dropped).Update("status", models.TaskStatusCancelled).Error)

	shift := func(staff *models.Staff, task *models.CleaningTask, status models.ShiftStatus) {
		t.Helper()
		require.NoError(t, repo.Create(ctx, db.SQL, &models.CleaningShift{
			StaffID:            &staff.ID,
			TaskID:             task.ID,
			AssignedDate:       checkout,
			ScheduledStartTime: task.ScheduledStartTime,
			ScheduledEndTime:   task.ScheduledEndTime,
			Status:             status,
			CalculatedWage:     decimal.NewFromInt(3000),
			TransportationFee:  decimal.Zero,
			Bonus:              decimal.Zero,
		}))
	}
	shift(alice, first, models.ShiftStatusScheduled)
	shift(alice, second, models.ShiftStatusConfirmed)
	shift(alice, dropped, models.ShiftStatusScheduled)
	shift(bob, first, models.ShiftStatusCancelled)

	counts, err := repo.CountActiveByStaffForDate(ctx, db.SQL, checkout)
	require.NoError(t, err)
	assert.Equal(t, map[uuid.UUID]int{alice.ID: 2}, counts)

	exists, err := repo.ExistsActiveForStaffAndTask(ctx, db.SQL, bob.ID, first.ID)
	require.NoError(t, err)
	assert.False(t, exists)

	exists, err = repo.ExistsActiveForStaffAndTask(ctx, db.SQL, alice.ID, first.ID)
	require.NoError(t, err)
	assert.True(t, exists)

	active, err := repo.GetActiveByTask(ctx, db.SQL, first.ID)
	require.NoError(t, err)
	require.Len(t, active, 1)
	assert.Equal(t, alice.ID, *active[0].StaffID)
}
