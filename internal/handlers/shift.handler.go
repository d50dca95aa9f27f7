package handlers

import (
	"cleanops/internal/app"
	"cleanops/internal/types"

	shiftController "cleanops/internal/controllers/shifts"

	"github.com/gofiber/fiber/v2"
)

type ShiftHandler struct {
	Handler
	shiftController shiftController.ShiftControllerInterface
}

func NewShiftHandler(app app.App, router fiber.Router) *ShiftHandler {
	return &ShiftHandler{
		shiftController: app.Controllers.Shift,
		Handler:         newHandler(app, router, "shift_handler"),
	}
}

func (h *ShiftHandler) Register() {
	shifts := h.router.Group("/shifts")

	shifts.Get("", h.listShifts)
	shifts.Post("", h.createShift)
	shifts.Get("/:id", h.getShift)
	shifts.Patch("/:id", h.updateShift)
	shifts.Delete("/:id", h.deleteShift)
	shifts.Post("/:id/check-in", h.checkIn)
	shifts.Post("/:id/check-out", h.checkOut)
}

func (h *ShiftHandler) listShifts(c *fiber.Ctx) error {
	log := h.log.TraceFromContext(c.UserContext()).Function("listShifts")

	var query shiftController.ShiftQuery
	if err := c.QueryParser(&query); err != nil {
		return badRequest(c, "Invalid query parameters")
	}

	shifts, err := h.shiftController.ListShifts(c.UserContext(), query)
	if err != nil {
		return respondError(c, log, err, "Failed to retrieve shifts")
	}

	return c.JSON(fiber.Map{"shifts": shifts})
}

func (h *ShiftHandler) getShift(c *fiber.Ctx) error {
	log := h.log.TraceFromContext(c.UserContext()).Function("getShift")

	id, ok := idParam(c, "id")
	if !ok {
		return badRequest(c, "Invalid shift ID")
	}

	shift, err := h.shiftController.GetShift(c.UserContext(), id)
	if err != nil {
		return respondError(c, log, err, "Failed to retrieve shift")
	}

	return c.JSON(fiber.Map{"shift": shift})
}

func (h *ShiftHandler) createShift(c *fiber.Ctx) error {
	log := h.log.TraceFromContext(c.UserContext()).Function("createShift")

	var req types.CreateShiftRequest
	if !parseBody(c, log, &req) {
		return badRequest(c, "Invalid request body")
	}

	shift, err := h.shiftController.CreateShift(c.UserContext(), req)
	if err != nil {
		return respondError(c, log, err, "Failed to create shift")
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"shift": shift})
}

func (h *ShiftHandler) updateShift(c *fiber.Ctx) error {
	log := h.log.TraceFromContext(c.UserContext()).Function("updateShift")

	id, ok := idParam(c, "id")
	if !ok {
		return badRequest(c, "Invalid shift ID")
	}

	var req types.UpdateShiftRequest
	if !parseBody(c, log, &req) {
		return badRequest(c, "Invalid request body")
	}

	shift, err := h.shiftController.UpdateShift(c.UserContext(), id, req)
	if err != nil {
		return respondError(c, log, err, "Failed to update shift")
	}

	return c.JSON(fiber.Map{"shift": shift})
}

func (h *ShiftHandler) deleteShift(c *fiber.Ctx) error {
	log := h.log.TraceFromContext(c.UserContext()).Function("deleteShift")

	id, ok := idParam(c, "id")
	if !ok {
		return badRequest(c, "Invalid shift ID")
	}

	deleted, err := h.shiftController.DeleteShift(c.UserContext(), id)
	if err != nil {
		return respondError(c, log, err, "Failed to delete shift")
	}
	if !deleted {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Shift not found"})
	}

	return c.Status(fiber.StatusNoContent).Send(nil)
}

func (h *ShiftHandler) checkIn(c *fiber.Ctx) error {
	log := h.log.TraceFromContext(c.UserContext()).Function("checkIn")

	id, ok := idParam(c, "id")
	if !ok {
		return badRequest(c, "Invalid shift ID")
	}

	var req types.CheckInRequest
	if len(c.Body()) > 0 && !parseBody(c, log, &req) {
		return badRequest(c, "Invalid request body")
	}

	shift, err := h.shiftController.CheckIn(c.UserContext(), id, req)
	if err != nil {
		return respondError(c, log, err, "Failed to check in")
	}

	return c.JSON(fiber.Map{"shift": shift})
}

func (h *ShiftHandler) checkOut(c *fiber.Ctx) error {
	log := h.log.TraceFromContext(c.UserContext()).Function("checkOut")

	id, ok := idParam(c, "id")
	if !ok {
		return badRequest(c, "Invalid shift ID")
	}

	var req types.CheckOutRequest
	if len(c.Body()) > 0 && !parseBody(c, log, &req) {
		return badRequest(c, "Invalid request body")
	}

	shift, err := h.shiftController.CheckOut(c.UserContext(), id, req)
	if err != nil {
		return respondError(c, log, err, "Failed to check out")
	}

	return c.JSON(fiber.Map{"shift": shift})
}
