package services

import (
	"context"
	"testing"

	"cleanops/internal/types"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	. "cleanops/internal/models"
)

func TestImportService_ValidateRejectsMalformedPayloads(t *testing.T) {
	h := newHarness(t)

	tests := []struct {
		name    string
		payload string
	}{
		{name: "not json", payload: `{"source":`},
		{name: "missing source", payload: `{"reservations": []}`},
		{
			name:    "missing checkout",
			payload: `{"source":"beds24","reservations":[{"externalId":"A1","checkInDate":"2030-03-01"}]}`,
		},
		{
			name: "bad date pattern",
			payload: `{"source":"beds24","reservations":[` +
				`{"externalId":"A1","checkInDate":"2030-03-01","checkOutDate":"03/04/2030"}]}`,
		},
		{
			name: "facility id is not a uuid",
			payload: `{"source":"beds24","reservations":[` +
				`{"externalId":"A1","facilityId":"harbour","checkInDate":"2030-03-01","checkOutDate":"2030-03-04"}]}`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := h.svc.Import.ImportPayload(context.Background(), []byte(tt.payload))
			assert.ErrorIs(t, err, types.ErrValidation)
		})
	}
}

func TestImportService_UpsertOutcomes(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()

	payload := `{
		"source": "beds24",
		"reservations": [
			{"externalId": "A1", "roomType": "Harbour View", "guestName": "Ana", "guestCount": 2,
			 "checkInDate": "2030-03-01", "checkOutDate": "2030-03-04"},
			{"externalId": "A2", "roomType": "Garden Suite", "guestCount": 1,
			 "checkInDate": "2030-03-02", "checkOutDate": "2030-03-03"}
		]
	}`

	result, err := h.svc.Import.ImportPayload(ctx, []byte(payload))
	require.NoError(t, err)
	assert.Equal(t, 2, result.Received)
	assert.Equal(t, 2, result.Created)
	assert.Empty(t, result.Errors)

	again, err := h.svc.Import.ImportPayload(ctx, []byte(payload))
	require.NoError(t, err)
	assert.Equal(t, 2, again.Unchanged)
	assert.Zero(t, again.Created)

	changed, err := h.svc.Import.Import(ctx, types.ReservationImportRequest{
		Source: "beds24",
		Reservations: []types.ReservationRecord{
			{
				ExternalID:   "A1",
				RoomType:     "Harbour View",
				GuestName:    "Ana",
				GuestCount:   2,
				CheckInDate:  "2030-03-01",
				CheckOutDate: "2030-03-05",
			},
			{ExternalID: "A3", CheckInDate: "2030-03-05", CheckOutDate: "2030-03-02"},
		},
	})
	require.NoError(t, err)
	assert.Equal(t, 1, changed.Updated)
	assert.Equal(t, []string{"A3: checkout 2030-03-02 is before check-in 2030-03-05"}, changed.Errors)

	var stored Reservation
	require.NoError(t, h.sql.Where("source = ? AND external_id = ?", "beds24", "A1").First(&stored).Error)
	assert.Equal(t, "2030-03-05", FormatDate(stored.CheckOutDate))
	assert.NotEmpty(t, stored.ContentHash)

	var count int64
	require.NoError(t, h.sql.Model(&Reservation{}).Count(&count).Error)
	assert.Equal(t, int64(2), count)
}

func TestImportService_RequiresSource(t *testing.T) {
	h := newHarness(t)

	_, err := h.svc.Import.Import(context.Background(), types.ReservationImportRequest{Source: "  "})
	assert.ErrorIs(t, err, types.ErrValidation)
}
