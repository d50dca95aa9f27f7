package taskController

import (
	"context"
	"fmt"

	"cleanops/internal/repositories"
	"cleanops/internal/services"
	"cleanops/internal/types"
	"cleanops/internal/utils"

	logger "github.com/Bparsons0904/goLogger"
	"github.com/google/uuid"

	. "cleanops/internal/models"
)

// TaskQuery carries the raw list filters from the query string.
type TaskQuery struct {
	From       string `query:"from"`
	To         string `query:"to"`
	Date       string `query:"date"`
	Status     string `query:"status"`
	FacilityID string `query:"facilityId"`
}

type TaskController struct {
	taskService        *services.TaskService
	assignmentService  *services.AssignmentService
	groupAssignService *services.GroupAssignmentService
	revisionService    *services.RevisionService
	log                logger.Logger
}

type TaskControllerInterface interface {
	ListTasks(ctx context.Context, query TaskQuery) ([]*CleaningTask, error)
	GetTask(ctx context.Context, id uuid.UUID) (*CleaningTask, error)
	Calendar(ctx context.Context, query TaskQuery) (*types.TaskCalendar, error)
	CreateTask(ctx context.Context, req types.CreateTaskRequest) (*CleaningTask, error)
	UpdateTask(ctx context.Context, id uuid.UUID, req types.UpdateTaskRequest) (*CleaningTask, error)
	VerifyTask(ctx context.Context, id uuid.UUID, req types.VerifyTaskRequest) (*CleaningTask, error)
	NeedsRevision(ctx context.Context, facilityID string) ([]*CleaningTask, error)
	RequestRevision(ctx context.Context, id uuid.UUID, req types.RevisionRequest) (*CleaningTask, error)
	ResolveRevision(ctx context.Context, id uuid.UUID, req types.ResolveRevisionRequest) (*CleaningTask, error)
	AutoCreate(ctx context.Context, date string) (*types.AutoCreateResult, error)
	AutoAssign(ctx context.Context, req types.AutoAssignRequest) (*types.AutoAssignResult, error)
	AssignGroup(
		ctx context.Context,
		groupID uuid.UUID,
		req types.GroupAssignRequest,
	) (*types.GroupAssignResult, error)
	UnassignGroup(ctx context.Context, groupID, taskID uuid.UUID) (bool, error)
}

func New(services services.Service) TaskControllerInterface {
	return &TaskController{
		taskService:        services.Task,
		assignmentService:  services.Assignment,
		groupAssignService: services.GroupAssign,
		revisionService:    services.Revision,
		log:                logger.New("taskController"),
	}
}

func (q TaskQuery) filter() (repositories.TaskFilter, error) {
	var filter repositories.TaskFilter
	var err error

	if filter.Date, err = utils.ParseDateParam("date", q.Date); err != nil {
		return filter, err
	}
	if filter.From, err = utils.ParseDateParam("from", q.From); err != nil {
		return filter, err
	}
	if filter.To, err = utils.ParseDateParam("to", q.To); err != nil {
		return filter, err
	}
	if filter.FacilityID, err = utils.ParseUUIDParam("facilityId", q.FacilityID); err != nil {
		return filter, err
	}

	if q.Status != "" {
		status := TaskStatus(q.Status)
		if !status.IsValid() {
			return filter, fmt.Errorf("%w: unknown task status %q", types.ErrValidation, q.Status)
		}
		filter.Status = &status
	}

	return filter, nil
}

func (c *TaskController) ListTasks(ctx context.Context, query TaskQuery) ([]*CleaningTask, error) {
	filter, err := query.filter()
	if err != nil {
		return nil, err
	}
	return c.taskService.ListTasks(ctx, filter)
}

func (c *TaskController) GetTask(ctx context.Context, id uuid.UUID) (*CleaningTask, error) {
	return c.taskService.GetTask(ctx, id)
}

// Calendar needs both ends of the range; date and status are ignored.
func (c *TaskController) Calendar(ctx context.Context, query TaskQuery) (*types.TaskCalendar, error) {
	from, to, err := utils.ParseDateRange(query.From, query.To)
	if err != nil {
		return nil, err
	}
	facilityID, err := utils.ParseUUIDParam("facilityId", query.FacilityID)
	if err != nil {
		return nil, err
	}
	return c.taskService.Calendar(ctx, from, to, facilityID)
}

func (c *TaskController) CreateTask(ctx context.Context, req types.CreateTaskRequest) (*CleaningTask, error) {
	log := c.log.TraceFromContext(ctx).Function("CreateTask")

	task, err := c.taskService.CreateTask(ctx, req)
	if err != nil {
		return nil, err
	}

	log.Info("Task created", "taskID", task.ID, "facilityID", task.FacilityID)
	return task, nil
}

func (c *TaskController) UpdateTask(
	ctx context.Context,
	id uuid.UUID,
	req types.UpdateTaskRequest,
) (*CleaningTask, error) {
	return c.taskService.UpdateTask(ctx, id, req)
}

func (c *TaskController) VerifyTask(
	ctx context.Context,
	id uuid.UUID,
	req types.VerifyTaskRequest,
) (*CleaningTask, error) {
	return c.taskService.VerifyTask(ctx, id, req)
}

func (c *TaskController) NeedsRevision(ctx context.Context, facilityID string) ([]*CleaningTask, error) {
	id, err := utils.ParseUUIDParam("facilityId", facilityID)
	if err != nil {
		return nil, err
	}
	return c.taskService.NeedsRevisionTasks(ctx, id)
}

func (c *TaskController) RequestRevision(
	ctx context.Context,
	id uuid.UUID,
	req types.RevisionRequest,
) (*CleaningTask, error) {
	return c.revisionService.RequestRevision(ctx, id, req.Reason)
}

func (c *TaskController) ResolveRevision(
	ctx context.Context,
	id uuid.UUID,
	req types.ResolveRevisionRequest,
) (*CleaningTask, error) {
	return c.revisionService.ResolveRevision(ctx, id, req.Notes)
}

func (c *TaskController) AutoCreate(ctx context.Context, date string) (*types.AutoCreateResult, error) {
	day, err := utils.RequireDateParam("date", date)
	if err != nil {
		return nil, err
	}
	return c.taskService.AutoCreateTasks(ctx, day)
}

func (c *TaskController) AutoAssign(
	ctx context.Context,
	req types.AutoAssignRequest,
) (*types.AutoAssignResult, error) {
	return c.assignmentService.AutoAssign(ctx, req)
}

func (c *TaskController) AssignGroup(
	ctx context.Context,
	groupID uuid.UUID,
	req types.GroupAssignRequest,
) (*types.GroupAssignResult, error) {
	return c.groupAssignService.AssignGroupToTasks(ctx, groupID, req)
}

func (c *TaskController) UnassignGroup(ctx context.Context, groupID, taskID uuid.UUID) (bool, error) {
	return c.groupAssignService.UnassignGroupFromTask(ctx, groupID, taskID)
}
