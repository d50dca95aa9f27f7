package services

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"cleanops/internal/repositories"
	"cleanops/internal/types"
	"cleanops/internal/utils"

	logger "github.com/Bparsons0904/goLogger"
	"github.com/santhosh-tekuri/jsonschema/v5"
	"gorm.io/gorm"

	. "cleanops/internal/models"
)

const reservationImportSchema = `{
	"$schema": "https://json-schema.org/draft/2020-12/schema",
	"type": "object",
	"required": ["source", "reservations"],
	"properties": {
		"source": {"type": "string", "minLength": 1, "maxLength": 50},
		"reservations": {
			"type": "array",
			"items": {
				"type": "object",
				"required": ["externalId", "checkInDate", "checkOutDate"],
				"properties": {
					"externalId": {"type": "string", "minLength": 1, "maxLength": 100},
					"facilityId": {"type": ["string", "null"], "format": "uuid"},
					"roomType": {"type": "string", "maxLength": 200},
					"guestName": {"type": "string"},
					"guestCount": {"type": "integer", "minimum": 0},
					"checkInDate": {"type": "string", "pattern": "^[0-9]{4}-[0-9]{2}-[0-9]{2}$"},
					"checkOutDate": {"type": "string", "pattern": "^[0-9]{4}-[0-9]{2}-[0-9]{2}$"},
					"isCancelled": {"type": "boolean"}
				}
			}
		}
	}
}`

// ImportService loads booking feed batches into the reservations table.
type ImportService struct {
	reservationRepo repositories.ReservationRepository
	transaction     *TransactionService
	schema          *jsonschema.Schema
	log             logger.Logger
}

func NewImportService(repos repositories.Repository, transaction *TransactionService) (*ImportService, error) {
	log := logger.New("importService")

	compiler := jsonschema.NewCompiler()
	compiler.AssertFormat = true
	if err := compiler.AddResource("reservations.json", strings.NewReader(reservationImportSchema)); err != nil {
		return nil, log.Err("failed to add reservation schema", err)
	}
	schema, err := compiler.Compile("reservations.json")
	if err != nil {
		return nil, log.Err("failed to compile reservation schema", err)
	}

	return &ImportService{
		reservationRepo: repos.Reservation,
		transaction:     transaction,
		schema:          schema,
		log:             log,
	}, nil
}

// Validate checks a raw payload against the import schema.
func (s *ImportService) Validate(ctx context.Context, payload []byte) error {
	log := s.log.TraceFromContext(ctx).Function("Validate")

	var data any
	if err := json.Unmarshal(payload, &data); err != nil {
		return log.ErrorWithType(types.ErrValidation, "payload is not valid JSON", "error", err)
	}

	if err := s.schema.Validate(data); err != nil {
		if validationErr, ok := err.(*jsonschema.ValidationError); ok {
			return fmt.Errorf("%w: %s", types.ErrValidation, validationErr.Error())
		}
		return log.Err("failed to validate reservation payload", err)
	}
	return nil
}

// ImportPayload validates and decodes a raw batch before importing it.
func (s *ImportService) ImportPayload(
	ctx context.Context,
	payload []byte,
) (*types.ReservationImportResult, error) {
	if err := s.Validate(ctx, payload); err != nil {
		return nil, err
	}

	var req types.ReservationImportRequest
	if err := json.Unmarshal(payload, &req); err != nil {
		return nil, fmt.Errorf("%w: %s", types.ErrValidation, err.Error())
	}
	return s.Import(ctx, req)
}

// Import upserts every record by (source, external id). Records that cannot be
// parsed are reported and skipped; storage failures abort the batch.
func (s *ImportService) Import(
	ctx context.Context,
	req types.ReservationImportRequest,
) (*types.ReservationImportResult, error) {
	log := s.log.TraceFromContext(ctx).Function("Import")

	source := strings.TrimSpace(req.Source)
	if source == "" {
		return nil, log.ErrorWithType(types.ErrValidation, "source is required")
	}

	result := &types.ReservationImportResult{
		Received: len(req.Reservations),
		Errors:   []string{},
	}

	err := s.transaction.Execute(ctx, func(ctx context.Context, tx *gorm.DB) error {
		for _, record := range req.Reservations {
			if err := ctx.Err(); err != nil {
				return err
			}

			reservation, err := toReservation(source, record)
			if err != nil {
				result.Errors = append(result.Errors, fmt.Sprintf("%s: %s", record.ExternalID, err.Error()))
				continue
			}

			outcome, err := s.reservationRepo.Upsert(ctx, tx, reservation)
			if err != nil {
				return err
			}
			switch outcome {
			case repositories.UpsertCreated:
				result.Created++
			case repositories.UpsertUpdated:
				result.Updated++
			default:
				result.Unchanged++
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	log.Info(
		"Reservations imported",
		"source", source,
		"received", result.Received,
		"created", result.Created,
		"updated", result.Updated,
		"errors", len(result.Errors),
	)
	return result, nil
}

func toReservation(source string, record types.ReservationRecord) (*Reservation, error) {
	externalID := strings.TrimSpace(record.ExternalID)
	if externalID == "" {
		return nil, fmt.Errorf("external id is required")
	}

	checkIn, err := ParseDate(record.CheckInDate)
	if err != nil {
		return nil, fmt.Errorf("invalid check-in date %q", record.CheckInDate)
	}
	checkOut, err := ParseDate(record.CheckOutDate)
	if err != nil {
		return nil, fmt.Errorf("invalid checkout date %q", record.CheckOutDate)
	}
	if checkOut.Before(checkIn) {
		return nil, fmt.Errorf("checkout %s is before check-in %s", record.CheckOutDate, record.CheckInDate)
	}

	guestName, _ := utils.CleanUTF8(strings.TrimSpace(record.GuestName))
	roomType, _ := utils.CleanUTF8(strings.TrimSpace(record.RoomType))

	reservation := &Reservation{
		Source:       source,
		ExternalID:   externalID,
		FacilityID:   record.FacilityID,
		RoomType:     roomType,
		GuestName:    guestName,
		GuestCount:   record.GuestCount,
		CheckInDate:  checkIn,
		CheckOutDate: checkOut,
		IsCancelled:  record.IsCancelled,
	}

	hash, err := utils.GenerateEntityHash(reservation)
	if err != nil {
		return nil, err
	}
	reservation.SetContentHash(hash)
	return reservation, nil
}
