package handlers

import (
	"cleanops/internal/app"
	"cleanops/internal/types"

	taskController "cleanops/internal/controllers/tasks"

	"github.com/gofiber/fiber/v2"
)

type TaskHandler struct {
	Handler
	taskController taskController.TaskControllerInterface
}

func NewTaskHandler(app app.App, router fiber.Router) *TaskHandler {
	return &TaskHandler{
		taskController: app.Controllers.Task,
		Handler:        newHandler(app, router, "task_handler"),
	}
}

func (h *TaskHandler) Register() {
	tasks := h.router.Group("/tasks")

	tasks.Get("", h.listTasks)
	tasks.Post("", h.createTask)
	tasks.Post("/auto-create", h.autoCreate)
	tasks.Post("/auto-assign", h.autoAssign)
	tasks.Get("/needs-revision", h.needsRevision)
	tasks.Get("/calendar", h.calendar)
	tasks.Get("/:id", h.getTask)
	tasks.Patch("/:id", h.updateTask)
	tasks.Post("/:id/verify", h.verifyTask)
	tasks.Post("/:id/revision", h.requestRevision)
	tasks.Post("/:id/revision/resolve", h.resolveRevision)
}

func (h *TaskHandler) listTasks(c *fiber.Ctx) error {
	log := h.log.TraceFromContext(c.UserContext()).Function("listTasks")

	var query taskController.TaskQuery
	if err := c.QueryParser(&query); err != nil {
		return badRequest(c, "Invalid query parameters")
	}

	tasks, err := h.taskController.ListTasks(c.UserContext(), query)
	if err != nil {
		return respondError(c, log, err, "Failed to retrieve tasks")
	}

	return c.JSON(fiber.Map{"tasks": tasks})
}

func (h *TaskHandler) calendar(c *fiber.Ctx) error {
	log := h.log.TraceFromContext(c.UserContext()).Function("calendar")

	var query taskController.TaskQuery
	if err := c.QueryParser(&query); err != nil {
		return badRequest(c, "Invalid query parameters")
	}

	calendar, err := h.taskController.Calendar(c.UserContext(), query)
	if err != nil {
		return respondError(c, log, err, "Failed to retrieve task calendar")
	}

	return c.JSON(fiber.Map{"calendar": calendar})
}

func (h *TaskHandler) getTask(c *fiber.Ctx) error {
	log := h.log.TraceFromContext(c.UserContext()).Function("getTask")

	id, ok := idParam(c, "id")
	if !ok {
		return badRequest(c, "Invalid task ID")
	}

	task, err := h.taskController.GetTask(c.UserContext(), id)
	if err != nil {
		return respondError(c, log, err, "Failed to retrieve task")
	}

	return c.JSON(fiber.Map{"task": task})
}

func (h *TaskHandler) createTask(c *fiber.Ctx) error {
	log := h.log.TraceFromContext(c.UserContext()).Function("createTask")

	var req types.CreateTaskRequest
	if !parseBody(c, log, &req) {
		return badRequest(c, "Invalid request body")
	}

	task, err := h.taskController.CreateTask(c.UserContext(), req)
	if err != nil {
		return respondError(c, log, err, "Failed to create task")
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"task": task})
}

func (h *TaskHandler) updateTask(c *fiber.Ctx) error {
	log := h.log.TraceFromContext(c.UserContext()).Function("updateTask")

	id, ok := idParam(c, "id")
	if !ok {
		return badRequest(c, "Invalid task ID")
	}

	var req types.UpdateTaskRequest
	if !parseBody(c, log, &req) {
		return badRequest(c, "Invalid request body")
	}

	task, err := h.taskController.UpdateTask(c.UserContext(), id, req)
	if err != nil {
		return respondError(c, log, err, "Failed to update task")
	}

	return c.JSON(fiber.Map{"task": task})
}

func (h *TaskHandler) verifyTask(c *fiber.Ctx) error {
	log := h.log.TraceFromContext(c.UserContext()).Function("verifyTask")

	id, ok := idParam(c, "id")
	if !ok {
		return badRequest(c, "Invalid task ID")
	}

	var req types.VerifyTaskRequest
	if !parseBody(c, log, &req) {
		return badRequest(c, "Invalid request body")
	}

	task, err := h.taskController.VerifyTask(c.UserContext(), id, req)
	if err != nil {
		return respondError(c, log, err, "Failed to verify task")
	}

	return c.JSON(fiber.Map{"task": task})
}

func (h *TaskHandler) needsRevision(c *fiber.Ctx) error {
	log := h.log.TraceFromContext(c.UserContext()).Function("needsRevision")

	tasks, err := h.taskController.NeedsRevision(c.UserContext(), c.Query("facilityId"))
	if err != nil {
		return respondError(c, log, err, "Failed to retrieve tasks needing revision")
	}

	return c.JSON(fiber.Map{"tasks": tasks})
}

func (h *TaskHandler) requestRevision(c *fiber.Ctx) error {
	log := h.log.TraceFromContext(c.UserContext()).Function("requestRevision")

	id, ok := idParam(c, "id")
	if !ok {
		return badRequest(c, "Invalid task ID")
	}

	var req types.RevisionRequest
	if !parseBody(c, log, &req) {
		return badRequest(c, "Invalid request body")
	}

	task, err := h.taskController.RequestRevision(c.UserContext(), id, req)
	if err != nil {
		return respondError(c, log, err, "Failed to request revision")
	}

	return c.JSON(fiber.Map{"task": task})
}

func (h *TaskHandler) resolveRevision(c *fiber.Ctx) error {
	log := h.log.TraceFromContext(c.UserContext()).Function("resolveRevision")

	id, ok := idParam(c, "id")
	if !ok {
		return badRequest(c, "Invalid task ID")
	}

	var req types.ResolveRevisionRequest
	if !parseBody(c, log, &req) {
		return badRequest(c, "Invalid request body")
	}

	task, err := h.taskController.ResolveRevision(c.UserContext(), id, req)
	if err != nil {
		return respondError(c, log, err, "Failed to resolve revision")
	}

	return c.JSON(fiber.Map{"task": task})
}

func (h *TaskHandler) autoCreate(c *fiber.Ctx) error {
	log := h.log.TraceFromContext(c.UserContext()).Function("autoCreate")

	result, err := h.taskController.AutoCreate(c.UserContext(), c.Query("date"))
	if err != nil {
		return respondError(c, log, err, "Failed to create tasks")
	}

	return c.JSON(result)
}

// autoAssign always answers 200 for per-task problems; they are listed in
// the result's errors.
func (h *TaskHandler) autoAssign(c *fiber.Ctx) error {
	log := h.log.TraceFromContext(c.UserContext()).Function("autoAssign")

	var req types.AutoAssignRequest
	if !parseBody(c, log, &req) {
		return badRequest(c, "Invalid request body")
	}

	result, err := h.taskController.AutoAssign(c.UserContext(), req)
	if err != nil {
		return respondError(c, log, err, "Failed to auto assign tasks")
	}

	return c.JSON(result)
}
