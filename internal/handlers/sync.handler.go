package handlers

import (
	"cleanops/internal/app"

	syncController "cleanops/internal/controllers/sync"

	"github.com/gofiber/fiber/v2"
)

type SyncHandler struct {
	Handler
	syncController syncController.SyncControllerInterface
}

func NewSyncHandler(app app.App, router fiber.Router) *SyncHandler {
	return &SyncHandler{
		syncController: app.Controllers.Sync,
		Handler:        newHandler(app, router, "sync_handler"),
	}
}

func (h *SyncHandler) Register() {
	sync := h.router.Group("/sync")

	sync.Post("", h.syncAll)
	sync.Get("/preview", h.preview)
	sync.Get("/runs", h.runs)

	h.router.Post("/reservations/import", h.importReservations)
}

func (h *SyncHandler) syncAll(c *fiber.Ctx) error {
	log := h.log.TraceFromContext(c.UserContext()).Function("syncAll")

	result, err := h.syncController.Sync(c.UserContext())
	if err != nil {
		return respondError(c, log, err, "Failed to sync reservations")
	}

	return c.JSON(result)
}

func (h *SyncHandler) preview(c *fiber.Ctx) error {
	log := h.log.TraceFromContext(c.UserContext()).Function("preview")

	result, err := h.syncController.Preview(c.UserContext())
	if err != nil {
		return respondError(c, log, err, "Failed to preview sync")
	}

	return c.JSON(result)
}

func (h *SyncHandler) runs(c *fiber.Ctx) error {
	log := h.log.TraceFromContext(c.UserContext()).Function("runs")

	runs, err := h.syncController.Runs(c.UserContext(), c.Query("limit"))
	if err != nil {
		return respondError(c, log, err, "Failed to retrieve sync runs")
	}

	return c.JSON(fiber.Map{"runs": runs})
}

// importReservations hands the raw body to the controller, which validates it
// against the import schema before decoding.
func (h *SyncHandler) importReservations(c *fiber.Ctx) error {
	log := h.log.TraceFromContext(c.UserContext()).Function("importReservations")

	if len(c.Body()) == 0 {
		return badRequest(c, "Invalid request body")
	}

	result, err := h.syncController.ImportReservations(c.UserContext(), c.Body())
	if err != nil {
		return respondError(c, log, err, "Failed to import reservations")
	}

	return c.JSON(result)
}
