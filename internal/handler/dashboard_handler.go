package handler

import (
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/internlink/internlink-api/internal/service"
	"github.com/internlink/internlink-api/internal/utils"
)

// StudentDashboardHandler exposes the student reporting summary.
type StudentDashboardHandler struct {
	service service.StudentDashboardService
	logger  zerolog.Logger
}

// NewStudentDashboardHandler constructs the handler.
func NewStudentDashboardHandler(service service.StudentDashboardService, logger zerolog.Logger) *StudentDashboardHandler {
	return &StudentDashboardHandler{
		service: service,
		logger:  logger.With().Str("component", "student_dashboard_handler").Logger(),
	}
}

// Register attaches the dashboard endpoint to the router group.
func (h *StudentDashboardHandler) Register(router fiber.Router) {
	router.Get("/dashboard", h.dashboard)
}

func (h *StudentDashboardHandler) dashboard(c *fiber.Ctx) error {
	studentID := userIDFromContext(c)
	if studentID == 0 {
		return utils.SendError(c, fiber.StatusUnauthorized, "user not authenticated")
	}

	summary, err := h.service.GetDashboard(c.UserContext(), studentID)
	if err != nil {
		h.logger.Error().Err(err).Msg("internal server error")
		return utils.SendError(c, fiber.StatusInternalServerError, "internal server error")
	}

	return utils.SendSuccess(c, "dashboard retrieved", summary)
}
