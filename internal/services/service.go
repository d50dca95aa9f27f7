package services

import (
	"cleanops/config"
	"cleanops/internal/database"
	"cleanops/internal/events"
	"cleanops/internal/repositories"
)

type Service struct {
	Transaction    *TransactionService
	Lock           *LockService
	Scheduler      *SchedulerService
	Facility       *FacilityService
	Staff          *StaffService
	Availability   *AvailabilityService
	Task           *TaskService
	Shift          *ShiftService
	Assignment     *AssignmentService
	GroupAssign    *GroupAssignmentService
	Revision       *RevisionService
	Reconciliation *ReconciliationService
	Alert          *AlertService
	Import         *ImportService
	Dashboard      *DashboardService
}

func New(db database.DB, config config.Config, eventBus *events.EventBus) (Service, error) {
	repos := repositories.New(db)
	defaults := config.Cleaning

	transactionService := NewTransactionService(db)
	lockService := NewLockService(db.Cache.Locks, config.LockTTL())
	availabilityService := NewAvailabilityService(repos, db.SQL, transactionService)
	taskService := NewTaskService(repos, db.SQL, transactionService, defaults)
	shiftService := NewShiftService(repos, db.SQL, transactionService, defaults)
	alertService := NewAlertService(eventBus)

	importService, err := NewImportService(repos, transactionService)
	if err != nil {
		return Service{}, err
	}

	return Service{
		Transaction:  transactionService,
		Lock:         lockService,
		Scheduler:    NewSchedulerService(),
		Facility:     NewFacilityService(repos, db.SQL, transactionService),
		Staff:        NewStaffService(repos, db.SQL, transactionService),
		Availability: availabilityService,
		Task:         taskService,
		Shift:        shiftService,
		Assignment: NewAssignmentService(
			repos,
			db.SQL,
			transactionService,
			lockService,
			availabilityService,
			shiftService,
			defaults,
		),
		GroupAssign: NewGroupAssignmentService(repos, transactionService, lockService, shiftService, defaults),
		Revision:    NewRevisionService(repos, db.SQL, transactionService),
		Reconciliation: NewReconciliationService(
			repos,
			db.SQL,
			transactionService,
			lockService,
			taskService,
			alertService,
			defaults,
		),
		Alert:     alertService,
		Import:    importService,
		Dashboard: NewDashboardService(repos, db.SQL),
	}, nil
}
