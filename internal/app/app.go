package app

import (
	"context"

	"cleanops/config"
	"cleanops/internal/controllers"
	"cleanops/internal/database"
	"cleanops/internal/events"
	"cleanops/internal/handlers/middleware"
	"cleanops/internal/jobs"
	"cleanops/internal/services"
	"cleanops/internal/websockets"

	logger "github.com/Bparsons0904/goLogger"
)

type App struct {
	Database    database.DB
	Middleware  middleware.Middleware
	Websocket   *websockets.Manager
	EventBus    *events.EventBus
	Config      config.Config
	Services    services.Service
	Controllers controllers.Controllers
}

func New() (*App, error) {
	log := logger.New("app").Function("New")

	config, err := config.New()
	if err != nil {
		return &App{}, log.Err("failed to initialize config", err)
	}

	db, err := database.New(config)
	if err != nil {
		return &App{}, log.Err("failed to create database", err)
	}

	// Postgres schemas are owned by cmd/migration; sqlite is for local runs.
	if config.DatabaseType == "sqlite" {
		if err := db.MigrateModels(); err != nil {
			return &App{}, log.Err("failed to migrate sqlite database", err)
		}
	}

	eventBus := events.New(db.Cache.Events)
	if brokers := config.KafkaBrokerList(); len(brokers) > 0 {
		eventBus.AddSink(events.NewKafkaSink(brokers, config.KafkaAlertTopic))
		log.Info("Forwarding alerts to kafka", "brokers", brokers, "topic", config.KafkaAlertTopic)
	}

	services, err := services.New(db, config, eventBus)
	if err != nil {
		return &App{}, log.Err("failed to create services", err)
	}

	websocket, err := websockets.New(eventBus)
	if err != nil {
		return &App{}, log.Err("failed to create websocket manager", err)
	}

	if err := jobs.RegisterAllJobs(services.Scheduler, config, services); err != nil {
		return &App{}, log.Err("failed to register jobs", err)
	}

	app := &App{
		Database:    db,
		Config:      config,
		Middleware:  middleware.New(config),
		Websocket:   websocket,
		EventBus:    eventBus,
		Services:    services,
		Controllers: controllers.New(services),
	}

	if err := app.validate(); err != nil {
		return &App{}, log.Err("failed to validate app", err)
	}

	return app, nil
}

func (a *App) validate() error {
	log := logger.New("app").Function("validate")
	if a.Database.SQL == nil {
		return log.ErrMsg("database is nil")
	}

	if a.Config.DatabaseType == "" {
		return log.ErrMsg("config is empty")
	}

	nilChecks := []any{
		a.Websocket,
		a.EventBus,
		a.Services.Transaction,
		a.Services.Scheduler,
		a.Services.Reconciliation,
		a.Services.Assignment,
		a.Controllers.Task,
		a.Controllers.Sync,
	}

	for _, check := range nilChecks {
		if check == nil {
			return log.ErrMsg("nil check failed")
		}
	}

	return nil
}

func (a *App) Close() (err error) {
	if a.Services.Scheduler != nil {
		if closeErr := a.Services.Scheduler.Stop(context.Background()); closeErr != nil {
			err = closeErr
		}
	}

	if a.EventBus != nil {
		if closeErr := a.EventBus.Close(); closeErr != nil {
			err = closeErr
		}
	}

	if dbErr := a.Database.Close(); dbErr != nil {
		err = dbErr
	}

	return err
}
