package syncController

import (
	"context"

	"cleanops/internal/services"
	"cleanops/internal/types"
	"cleanops/internal/utils"

	logger "github.com/Bparsons0904/goLogger"

	. "cleanops/internal/models"
)

const (
	defaultRunLimit = 20
	maxRunLimit     = 100
)

// SyncController drives reconciliation runs and the reservation import that
// feeds them.
type SyncController struct {
	reconciliationService *services.ReconciliationService
	importService         *services.ImportService
	log                   logger.Logger
}

type SyncControllerInterface interface {
	Sync(ctx context.Context) (*types.SyncResult, error)
	Preview(ctx context.Context) (*types.SyncResult, error)
	Runs(ctx context.Context, limit string) ([]*SyncRun, error)
	ImportReservations(ctx context.Context, payload []byte) (*types.ReservationImportResult, error)
}

func New(services services.Service) SyncControllerInterface {
	return &SyncController{
		reconciliationService: services.Reconciliation,
		importService:         services.Import,
		log:                   logger.New("syncController"),
	}
}

func (sc *SyncController) Sync(ctx context.Context) (*types.SyncResult, error) {
	return sc.reconciliationService.SyncAll(ctx, services.SyncTriggerManual)
}

func (sc *SyncController) Preview(ctx context.Context) (*types.SyncResult, error) {
	return sc.reconciliationService.SyncPreview(ctx)
}

func (sc *SyncController) Runs(ctx context.Context, limit string) ([]*SyncRun, error) {
	n, err := utils.ParseIntParam("limit", limit, defaultRunLimit)
	if err != nil {
		return nil, err
	}
	if n <= 0 || n > maxRunLimit {
		n = defaultRunLimit
	}
	return sc.reconciliationService.LatestRuns(ctx, n)
}

func (sc *SyncController) ImportReservations(
	ctx context.Context,
	payload []byte,
) (*types.ReservationImportResult, error) {
	log := sc.log.TraceFromContext(ctx).Function("ImportReservations")

	result, err := sc.importService.ImportPayload(ctx, payload)
	if err != nil {
		return nil, err
	}

	log.Info(
		"Reservations imported",
		"received", result.Received,
		"created", result.Created,
		"updated", result.Updated,
		"errors", len(result.Errors),
	)
	return result, nil
}
