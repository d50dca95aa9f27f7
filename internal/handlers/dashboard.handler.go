package handlers

import (
	"cleanops/internal/app"

	dashboardController "cleanops/internal/controllers/dashboard"

	"github.com/gofiber/fiber/v2"
)

type DashboardHandler struct {
	Handler
	dashboardController dashboardController.DashboardControllerInterface
}

func NewDashboardHandler(app app.App, router fiber.Router) *DashboardHandler {
	return &DashboardHandler{
		dashboardController: app.Controllers.Dashboard,
		Handler:             newHandler(app, router, "dashboard_handler"),
	}
}

func (h *DashboardHandler) Register() {
	dashboard := h.router.Group("/dashboard")

	dashboard.Get("/stats", h.stats)
	dashboard.Get("/staff-performance", h.staffPerformance)
}

func (h *DashboardHandler) stats(c *fiber.Ctx) error {
	log := h.log.TraceFromContext(c.UserContext()).Function("stats")

	stats, err := h.dashboardController.Stats(c.UserContext(), c.Query("date"))
	if err != nil {
		return respondError(c, log, err, "Failed to retrieve dashboard stats")
	}

	return c.JSON(stats)
}

func (h *DashboardHandler) staffPerformance(c *fiber.Ctx) error {
	log := h.log.TraceFromContext(c.UserContext()).Function("staffPerformance")

	performance, err := h.dashboardController.StaffPerformance(
		c.UserContext(),
		c.Query("from"),
		c.Query("to"),
	)
	if err != nil {
		return respondError(c, log, err, "Failed to retrieve staff performance")
	}

	return c.JSON(fiber.Map{"staff": performance})
}
