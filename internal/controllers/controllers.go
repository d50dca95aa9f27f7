package controllers

import (
	"cleanops/internal/services"

	dashboardController "cleanops/internal/controllers/dashboard"
	facilityController "cleanops/internal/controllers/facilities"
	shiftController "cleanops/internal/controllers/shifts"
	staffController "cleanops/internal/controllers/staff"
	syncController "cleanops/internal/controllers/sync"
	taskController "cleanops/internal/controllers/tasks"
)

type Controllers struct {
	Facility  facilityController.FacilityControllerInterface
	Staff     staffController.StaffControllerInterface
	Task      taskController.TaskControllerInterface
	Shift     shiftController.ShiftControllerInterface
	Sync      syncController.SyncControllerInterface
	Dashboard dashboardController.DashboardControllerInterface
}

func New(services services.Service) Controllers {
	return Controllers{
		Facility:  facilityController.New(services),
		Staff:     staffController.New(services),
		Task:      taskController.New(services),
		Shift:     shiftController.New(services),
		Sync:      syncController.New(services),
		Dashboard: dashboardController.New(services),
	}
}
