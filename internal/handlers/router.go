package handlers

import (
	"cleanops/internal/app"
	"cleanops/internal/handlers/middleware"

	logger "github.com/Bparsons0904/goLogger"
	"github.com/gofiber/fiber/v2"
)

type Handler struct {
	middleware middleware.Middleware
	log        logger.Logger
	router     fiber.Router
}

func Router(router fiber.Router, app *app.App) (err error) {
	router.Use(app.Middleware.TraceID())

	WebSocketHandler(router, app.Websocket)

	api := router.Group("/api")
	HealthHandler(api, app.Config)
	NewFacilityHandler(*app, api).Register()
	NewStaffHandler(*app, api).Register()
	NewGroupHandler(*app, api).Register()
	NewTaskHandler(*app, api).Register()
	NewShiftHandler(*app, api).Register()
	NewSyncHandler(*app, api).Register()
	NewDashboardHandler(*app, api).Register()

	return nil
}

func newHandler(app app.App, router fiber.Router, file string) Handler {
	return Handler{
		log:        logger.New("handlers").File(file),
		router:     router,
		middleware: app.Middleware,
	}
}
