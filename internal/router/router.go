package router

import (
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/internlink/internlink-api/internal/config"
	"github.com/internlink/internlink-api/internal/handler"
	"github.com/internlink/internlink-api/internal/middleware"
	"github.com/internlink/internlink-api/internal/models"
	"github.com/internlink/internlink-api/internal/observability"
)

// Dependencies groups router dependencies for registration.
type Dependencies struct {
	ReportEventHandler  *handler.ReportEventHandler
	SubmissionHandler   *handler.SubmissionHandler
	NotificationHandler *handler.NotificationHandler
	DashboardHandler    *handler.StudentDashboardHandler
	JWTMiddleware       fiber.Handler
}

// Register wires the HTTP routes into the fiber application.
func Register(app *fiber.App, cfg config.Config, deps Dependencies) {
	api := app.Group("/api/v1", func(c *fiber.Ctx) error {
		c.Set("X-Application", cfg.AppName)
		return c.Next()
	})
	api.Get("/health", handler.HealthCheck(cfg))
	app.Get("/metrics", observability.MetricsHandler())

	jwtMiddleware := deps.JWTMiddleware
	if jwtMiddleware == nil {
		jwtMiddleware = func(c *fiber.Ctx) error { return c.Next() }
	}

	// Supervisor surface: open/close report events, review submissions.
	if deps.ReportEventHandler != nil {
		supervisor := api.Group("/supervisor", jwtMiddleware, middleware.RequireRole(models.RoleSupervisor))
		deps.ReportEventHandler.RegisterSupervisor(supervisor.Group("/events"))

		if deps.SubmissionHandler != nil {
			deps.SubmissionHandler.RegisterSupervisor(supervisor.Group("/submissions"))
		}
	}

	// Student surface: discover pending events, submit, track progress.
	if deps.ReportEventHandler != nil {
		student := api.Group("/student", jwtMiddleware, middleware.RequireRole(models.RoleStudent))
		deps.ReportEventHandler.RegisterStudent(student.Group("/events"))

		if deps.SubmissionHandler != nil {
			submissions := student.Group("/submissions", middleware.RateLimit("report-submit", 10, time.Minute))
			deps.SubmissionHandler.RegisterStudent(submissions)
		}

		if deps.DashboardHandler != nil {
			deps.DashboardHandler.Register(student)
		}
	}

	if deps.NotificationHandler != nil {
		deps.NotificationHandler.Register(api.Group("/notifications", jwtMiddleware))
	}
}
