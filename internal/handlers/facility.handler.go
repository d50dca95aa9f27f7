package handlers

import (
	"cleanops/internal/app"
	"cleanops/internal/types"

	facilityController "cleanops/internal/controllers/facilities"

	"github.com/gofiber/fiber/v2"
)

type FacilityHandler struct {
	Handler
	facilityController facilityController.FacilityControllerInterface
}

func NewFacilityHandler(app app.App, router fiber.Router) *FacilityHandler {
	return &FacilityHandler{
		facilityController: app.Controllers.Facility,
		Handler:            newHandler(app, router, "facility_handler"),
	}
}

func (h *FacilityHandler) Register() {
	facilities := h.router.Group("/facilities")

	facilities.Get("", h.listFacilities)
	facilities.Post("", h.createFacility)
	facilities.Get("/:id", h.getFacility)
	facilities.Put("/:id", h.updateFacility)
	facilities.Get("/:id/settings", h.getSettings)
	facilities.Post("/:id/settings", h.createSettings)
	facilities.Put("/:id/settings", h.updateSettings)
}

func (h *FacilityHandler) listFacilities(c *fiber.Ctx) error {
	log := h.log.TraceFromContext(c.UserContext()).Function("listFacilities")

	facilities, err := h.facilityController.ListFacilities(c.UserContext())
	if err != nil {
		return respondError(c, log, err, "Failed to retrieve facilities")
	}

	return c.JSON(fiber.Map{"facilities": facilities})
}

func (h *FacilityHandler) getFacility(c *fiber.Ctx) error {
	log := h.log.TraceFromContext(c.UserContext()).Function("getFacility")

	id, ok := idParam(c, "id")
	if !ok {
		return badRequest(c, "Invalid facility ID")
	}

	facility, err := h.facilityController.GetFacility(c.UserContext(), id)
	if err != nil {
		return respondError(c, log, err, "Failed to retrieve facility")
	}

	return c.JSON(fiber.Map{"facility": facility})
}

func (h *FacilityHandler) createFacility(c *fiber.Ctx) error {
	log := h.log.TraceFromContext(c.UserContext()).Function("createFacility")

	var req types.CreateFacilityRequest
	if !parseBody(c, log, &req) {
		return badRequest(c, "Invalid request body")
	}

	facility, err := h.facilityController.CreateFacility(c.UserContext(), req)
	if err != nil {
		return respondError(c, log, err, "Failed to create facility")
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"facility": facility})
}

func (h *FacilityHandler) updateFacility(c *fiber.Ctx) error {
	log := h.log.TraceFromContext(c.UserContext()).Function("updateFacility")

	id, ok := idParam(c, "id")
	if !ok {
		return badRequest(c, "Invalid facility ID")
	}

	var req types.UpdateFacilityRequest
	if !parseBody(c, log, &req) {
		return badRequest(c, "Invalid request body")
	}

	facility, err := h.facilityController.UpdateFacility(c.UserContext(), id, req)
	if err != nil {
		return respondError(c, log, err, "Failed to update facility")
	}

	return c.JSON(fiber.Map{"facility": facility})
}

func (h *FacilityHandler) getSettings(c *fiber.Ctx) error {
	log := h.log.TraceFromContext(c.UserContext()).Function("getSettings")

	id, ok := idParam(c, "id")
	if !ok {
		return badRequest(c, "Invalid facility ID")
	}

	settings, err := h.facilityController.GetSettings(c.UserContext(), id)
	if err != nil {
		return respondError(c, log, err, "Failed to retrieve facility settings")
	}

	return c.JSON(fiber.Map{"settings": settings})
}

func (h *FacilityHandler) createSettings(c *fiber.Ctx) error {
	log := h.log.TraceFromContext(c.UserContext()).Function("createSettings")

	id, ok := idParam(c, "id")
	if !ok {
		return badRequest(c, "Invalid facility ID")
	}

	var req types.FacilitySettingsRequest
	if !parseBody(c, log, &req) {
		return badRequest(c, "Invalid request body")
	}

	settings, err := h.facilityController.CreateSettings(c.UserContext(), id, req)
	if err != nil {
		return respondError(c, log, err, "Failed to create facility settings")
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"settings": settings})
}

func (h *FacilityHandler) updateSettings(c *fiber.Ctx) error {
	log := h.log.TraceFromContext(c.UserContext()).Function("updateSettings")

	id, ok := idParam(c, "id")
	if !ok {
		return badRequest(c, "Invalid facility ID")
	}

	var req types.FacilitySettingsRequest
	if !parseBody(c, log, &req) {
		return badRequest(c, "Invalid request body")
	}

	settings, err := h.facilityController.UpdateSettings(c.UserContext(), id, req)
	if err != nil {
		return respondError(c, log, err, "Failed to update facility settings")
	}

	return c.JSON(fiber.Map{"settings": settings})
}
