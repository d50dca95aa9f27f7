package handlers

import (
	"cleanops/internal/app"
	"cleanops/internal/types"

	staffController "cleanops/internal/controllers/staff"

	"github.com/gofiber/fiber/v2"
)

type StaffHandler struct {
	Handler
	staffController staffController.StaffControllerInterface
}

func NewStaffHandler(app app.App, router fiber.Router) *StaffHandler {
	return &StaffHandler{
		staffController: app.Controllers.Staff,
		Handler:         newHandler(app, router, "staff_handler"),
	}
}

func (h *StaffHandler) Register() {
	staff := h.router.Group("/staff")

	staff.Get("", h.listStaff)
	staff.Post("", h.createStaff)
	staff.Get("/available", h.availableStaff)
	staff.Get("/:id", h.getStaff)
	staff.Put("/:id", h.updateStaff)
	staff.Delete("/:id", h.deleteStaff)
	staff.Get("/:id/availability/:year/:month", h.getAvailability)
	staff.Put("/:id/availability/:year/:month", h.setAvailability)
	staff.Post("/:id/availability/:year/:month/initialize", h.initializeAvailability)
	staff.Put("/:id/availability/:year/:month/:day", h.setDayAvailability)

	h.router.Get("/availability/:year/:month", h.availabilityOverview)
}

func (h *StaffHandler) listStaff(c *fiber.Ctx) error {
	log := h.log.TraceFromContext(c.UserContext()).Function("listStaff")

	staff, err := h.staffController.ListStaff(c.UserContext())
	if err != nil {
		return respondError(c, log, err, "Failed to retrieve staff")
	}

	return c.JSON(fiber.Map{"staff": staff})
}

func (h *StaffHandler) getStaff(c *fiber.Ctx) error {
	log := h.log.TraceFromContext(c.UserContext()).Function("getStaff")

	id, ok := idParam(c, "id")
	if !ok {
		return badRequest(c, "Invalid staff ID")
	}

	staff, err := h.staffController.GetStaff(c.UserContext(), id)
	if err != nil {
		return respondError(c, log, err, "Failed to retrieve staff member")
	}

	return c.JSON(fiber.Map{"staff": staff})
}

func (h *StaffHandler) createStaff(c *fiber.Ctx) error {
	log := h.log.TraceFromContext(c.UserContext()).Function("createStaff")

	var req types.CreateStaffRequest
	if !parseBody(c, log, &req) {
		return badRequest(c, "Invalid request body")
	}

	staff, err := h.staffController.CreateStaff(c.UserContext(), req)
	if err != nil {
		return respondError(c, log, err, "Failed to create staff member")
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"staff": staff})
}

func (h *StaffHandler) updateStaff(c *fiber.Ctx) error {
	log := h.log.TraceFromContext(c.UserContext()).Function("updateStaff")

	id, ok := idParam(c, "id")
	if !ok {
		return badRequest(c, "Invalid staff ID")
	}

	var req types.UpdateStaffRequest
	if !parseBody(c, log, &req) {
		return badRequest(c, "Invalid request body")
	}

	staff, err := h.staffController.UpdateStaff(c.UserContext(), id, req)
	if err != nil {
		return respondError(c, log, err, "Failed to update staff member")
	}

	return c.JSON(fiber.Map{"staff": staff})
}

func (h *StaffHandler) deleteStaff(c *fiber.Ctx) error {
	log := h.log.TraceFromContext(c.UserContext()).Function("deleteStaff")

	id, ok := idParam(c, "id")
	if !ok {
		return badRequest(c, "Invalid staff ID")
	}

	if err := h.staffController.DeleteStaff(c.UserContext(), id); err != nil {
		return respondError(c, log, err, "Failed to delete staff member")
	}

	return c.Status(fiber.StatusNoContent).Send(nil)
}

func (h *StaffHandler) availableStaff(c *fiber.Ctx) error {
	log := h.log.TraceFromContext(c.UserContext()).Function("availableStaff")

	staff, err := h.staffController.AvailableStaff(c.UserContext(), c.Query("date"))
	if err != nil {
		return respondError(c, log, err, "Failed to retrieve available staff")
	}

	return c.JSON(fiber.Map{"staff": staff})
}

// monthParams reads :id, :year and :month.
func monthParams(c *fiber.Ctx) (types.MonthAvailability, bool) {
	id, ok := idParam(c, "id")
	if !ok {
		return types.MonthAvailability{}, false
	}
	year, err := c.ParamsInt("year")
	if err != nil {
		return types.MonthAvailability{}, false
	}
	month, err := c.ParamsInt("month")
	if err != nil {
		return types.MonthAvailability{}, false
	}
	return types.MonthAvailability{StaffID: id, Year: year, Month: month}, true
}

func (h *StaffHandler) availabilityOverview(c *fiber.Ctx) error {
	log := h.log.TraceFromContext(c.UserContext()).Function("availabilityOverview")

	year, err := c.ParamsInt("year")
	if err != nil {
		return badRequest(c, "Invalid year")
	}
	month, err := c.ParamsInt("month")
	if err != nil {
		return badRequest(c, "Invalid month")
	}

	overview, err := h.staffController.AvailabilityOverview(c.UserContext(), year, month)
	if err != nil {
		return respondError(c, log, err, "Failed to retrieve availability overview")
	}

	return c.JSON(fiber.Map{"availability": overview})
}

func (h *StaffHandler) getAvailability(c *fiber.Ctx) error {
	log := h.log.TraceFromContext(c.UserContext()).Function("getAvailability")

	params, ok := monthParams(c)
	if !ok {
		return badRequest(c, "Invalid staff ID, year or month")
	}

	availability, err := h.staffController.GetAvailability(
		c.UserContext(),
		params.StaffID,
		params.Year,
		params.Month,
	)
	if err != nil {
		return respondError(c, log, err, "Failed to retrieve availability")
	}

	return c.JSON(fiber.Map{"availability": availability})
}

func (h *StaffHandler) setAvailability(c *fiber.Ctx) error {
	log := h.log.TraceFromContext(c.UserContext()).Function("setAvailability")

	params, ok := monthParams(c)
	if !ok {
		return badRequest(c, "Invalid staff ID, year or month")
	}

	var req types.SetMonthAvailabilityRequest
	if !parseBody(c, log, &req) {
		return badRequest(c, "Invalid request body")
	}

	availability, err := h.staffController.SetAvailability(
		c.UserContext(),
		params.StaffID,
		params.Year,
		params.Month,
		req,
	)
	if err != nil {
		return respondError(c, log, err, "Failed to update availability")
	}

	return c.JSON(fiber.Map{"availability": availability})
}

func (h *StaffHandler) initializeAvailability(c *fiber.Ctx) error {
	log := h.log.TraceFromContext(c.UserContext()).Function("initializeAvailability")

	params, ok := monthParams(c)
	if !ok {
		return badRequest(c, "Invalid staff ID, year or month")
	}

	req := types.InitializeMonthRequest{DefaultAvailable: true}
	if len(c.Body()) > 0 && !parseBody(c, log, &req) {
		return badRequest(c, "Invalid request body")
	}

	availability, err := h.staffController.InitializeAvailability(
		c.UserContext(),
		params.StaffID,
		params.Year,
		params.Month,
		req,
	)
	if err != nil {
		return respondError(c, log, err, "Failed to initialize availability")
	}

	return c.JSON(fiber.Map{"availability": availability})
}

func (h *StaffHandler) setDayAvailability(c *fiber.Ctx) error {
	log := h.log.TraceFromContext(c.UserContext()).Function("setDayAvailability")

	params, ok := monthParams(c)
	if !ok {
		return badRequest(c, "Invalid staff ID, year or month")
	}
	day, err := c.ParamsInt("day")
	if err != nil {
		return badRequest(c, "Invalid day")
	}

	var req types.SetDayAvailabilityRequest
	if !parseBody(c, log, &req) {
		return badRequest(c, "Invalid request body")
	}

	err = h.staffController.SetDayAvailability(
		c.UserContext(),
		params.StaffID,
		params.Year,
		params.Month,
		day,
		req,
	)
	if err != nil {
		return respondError(c, log, err, "Failed to update availability")
	}

	return c.JSON(fiber.Map{"success": true})
}
