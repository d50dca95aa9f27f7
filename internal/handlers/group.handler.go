package handlers

import (
	"cleanops/internal/app"
	"cleanops/internal/types"

	shiftController "cleanops/internal/controllers/shifts"
	staffController "cleanops/internal/controllers/staff"
	taskController "cleanops/internal/controllers/tasks"

	"github.com/gofiber/fiber/v2"
)

// GroupHandler serves staff groups and their bulk task assignment.
type GroupHandler struct {
	Handler
	staffController staffController.StaffControllerInterface
	taskController  taskController.TaskControllerInterface
	shiftController shiftController.ShiftControllerInterface
}

func NewGroupHandler(app app.App, router fiber.Router) *GroupHandler {
	return &GroupHandler{
		staffController: app.Controllers.Staff,
		taskController:  app.Controllers.Task,
		shiftController: app.Controllers.Shift,
		Handler:         newHandler(app, router, "group_handler"),
	}
}

func (h *GroupHandler) Register() {
	groups := h.router.Group("/groups")

	groups.Get("", h.listGroups)
	groups.Post("", h.createGroup)
	groups.Get("/:id", h.getGroup)
	groups.Put("/:id", h.updateGroup)
	groups.Delete("/:id", h.deleteGroup)
	groups.Get("/:id/shifts", h.groupShifts)
	groups.Post("/:id/members", h.addMember)
	groups.Delete("/:id/members/:staffId", h.removeMember)
	groups.Post("/:id/assign", h.assignTasks)
	groups.Delete("/:id/tasks/:taskId", h.unassignTask)
}

func (h *GroupHandler) listGroups(c *fiber.Ctx) error {
	log := h.log.TraceFromContext(c.UserContext()).Function("listGroups")

	groups, err := h.staffController.ListGroups(c.UserContext())
	if err != nil {
		return respondError(c, log, err, "Failed to retrieve groups")
	}

	return c.JSON(fiber.Map{"groups": groups})
}

func (h *GroupHandler) getGroup(c *fiber.Ctx) error {
	log := h.log.TraceFromContext(c.UserContext()).Function("getGroup")

	id, ok := idParam(c, "id")
	if !ok {
		return badRequest(c, "Invalid group ID")
	}

	group, err := h.staffController.GetGroup(c.UserContext(), id)
	if err != nil {
		return respondError(c, log, err, "Failed to retrieve group")
	}

	return c.JSON(fiber.Map{"group": group})
}

func (h *GroupHandler) createGroup(c *fiber.Ctx) error {
	log := h.log.TraceFromContext(c.UserContext()).Function("createGroup")

	var req types.CreateGroupRequest
	if !parseBody(c, log, &req) {
		return badRequest(c, "Invalid request body")
	}

	group, err := h.staffController.CreateGroup(c.UserContext(), req)
	if err != nil {
		return respondError(c, log, err, "Failed to create group")
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"group": group})
}

func (h *GroupHandler) updateGroup(c *fiber.Ctx) error {
	log := h.log.TraceFromContext(c.UserContext()).Function("updateGroup")

	id, ok := idParam(c, "id")
	if !ok {
		return badRequest(c, "Invalid group ID")
	}

	var req types.UpdateGroupRequest
	if !parseBody(c, log, &req) {
		return badRequest(c, "Invalid request body")
	}

	group, err := h.staffController.UpdateGroup(c.UserContext(), id, req)
	if err != nil {
		return respondError(c, log, err, "Failed to update group")
	}

	return c.JSON(fiber.Map{"group": group})
}

func (h *GroupHandler) deleteGroup(c *fiber.Ctx) error {
	log := h.log.TraceFromContext(c.UserContext()).Function("deleteGroup")

	id, ok := idParam(c, "id")
	if !ok {
		return badRequest(c, "Invalid group ID")
	}

	if err := h.staffController.DeleteGroup(c.UserContext(), id); err != nil {
		return respondError(c, log, err, "Failed to delete group")
	}

	return c.Status(fiber.StatusNoContent).Send(nil)
}

// groupShifts lists the group's shifts, optionally limited by from and to.
func (h *GroupHandler) groupShifts(c *fiber.Ctx) error {
	log := h.log.TraceFromContext(c.UserContext()).Function("groupShifts")

	id, ok := idParam(c, "id")
	if !ok {
		return badRequest(c, "Invalid group ID")
	}

	if _, err := h.staffController.GetGroup(c.UserContext(), id); err != nil {
		return respondError(c, log, err, "Failed to retrieve group")
	}

	shifts, err := h.shiftController.ListShifts(c.UserContext(), shiftController.ShiftQuery{
		GroupID: id.String(),
		From:    c.Query("from"),
		To:      c.Query("to"),
	})
	if err != nil {
		return respondError(c, log, err, "Failed to retrieve group shifts")
	}

	return c.JSON(fiber.Map{"shifts": shifts})
}

func (h *GroupHandler) addMember(c *fiber.Ctx) error {
	log := h.log.TraceFromContext(c.UserContext()).Function("addMember")

	id, ok := idParam(c, "id")
	if !ok {
		return badRequest(c, "Invalid group ID")
	}

	var req types.AddMemberRequest
	if !parseBody(c, log, &req) {
		return badRequest(c, "Invalid request body")
	}

	group, err := h.staffController.AddGroupMember(c.UserContext(), id, req)
	if err != nil {
		return respondError(c, log, err, "Failed to add group member")
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"group": group})
}

func (h *GroupHandler) removeMember(c *fiber.Ctx) error {
	log := h.log.TraceFromContext(c.UserContext()).Function("removeMember")

	id, ok := idParam(c, "id")
	if !ok {
		return badRequest(c, "Invalid group ID")
	}
	staffID, ok := idParam(c, "staffId")
	if !ok {
		return badRequest(c, "Invalid staff ID")
	}

	if err := h.staffController.RemoveGroupMember(c.UserContext(), id, staffID); err != nil {
		return respondError(c, log, err, "Failed to remove group member")
	}

	return c.Status(fiber.StatusNoContent).Send(nil)
}

func (h *GroupHandler) assignTasks(c *fiber.Ctx) error {
	log := h.log.TraceFromContext(c.UserContext()).Function("assignTasks")

	id, ok := idParam(c, "id")
	if !ok {
		return badRequest(c, "Invalid group ID")
	}

	var req types.GroupAssignRequest
	if !parseBody(c, log, &req) {
		return badRequest(c, "Invalid request body")
	}

	result, err := h.taskController.AssignGroup(c.UserContext(), id, req)
	if err != nil {
		return respondError(c, log, err, "Failed to assign group")
	}

	return c.JSON(result)
}

func (h *GroupHandler) unassignTask(c *fiber.Ctx) error {
	log := h.log.TraceFromContext(c.UserContext()).Function("unassignTask")

	id, ok := idParam(c, "id")
	if !ok {
		return badRequest(c, "Invalid group ID")
	}
	taskID, ok := idParam(c, "taskId")
	if !ok {
		return badRequest(c, "Invalid task ID")
	}

	removed, err := h.taskController.UnassignGroup(c.UserContext(), id, taskID)
	if err != nil {
		return respondError(c, log, err, "Failed to unassign group")
	}
	if !removed {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "Group has no active shift on this task",
		})
	}

	return c.JSON(fiber.Map{"success": true})
}
