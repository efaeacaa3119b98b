package handler

import (
	"errors"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/internlink/internlink-api/internal/dto"
	"github.com/internlink/internlink-api/internal/service"
	"github.com/internlink/internlink-api/internal/utils"
)

// ReportEventHandler wires the weekly report event HTTP routes.
type ReportEventHandler struct {
	service service.ReportEventService
	logger  zerolog.Logger
}

// NewReportEventHandler constructs the handler.
func NewReportEventHandler(service service.ReportEventService, logger zerolog.Logger) *ReportEventHandler {
	return &ReportEventHandler{
		service: service,
		logger:  logger.With().Str("component", "report_event_handler").Logger(),
	}
}

// RegisterSupervisor attaches the supervisor-facing event endpoints.
func (h *ReportEventHandler) RegisterSupervisor(router fiber.Router) {
	router.Get("", h.listOwn)
	router.Post("", h.create)
	router.Patch("/:id/status", h.updateStatus)
}

// RegisterStudent attaches the student-facing event endpoints.
func (h *ReportEventHandler) RegisterStudent(router fiber.Router) {
	router.Get("/pending", h.listPending)
}

func (h *ReportEventHandler) create(c *fiber.Ctx) error {
	supervisorID := userIDFromContext(c)
	if supervisorID == 0 {
		return utils.SendError(c, fiber.StatusUnauthorized, "user not authenticated")
	}

	var payload dto.EventCreateRequest
	if err := c.BodyParser(&payload); err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid request body")
	}

	result, err := h.service.Create(c.UserContext(), supervisorID, userNameFromContext(c), payload)
	if err != nil {
		return h.handleError(c, err)
	}

	return utils.SendCreated(c, "report event created", result)
}

func (h *ReportEventHandler) listOwn(c *fiber.Ctx) error {
	supervisorID := userIDFromContext(c)
	if supervisorID == 0 {
		return utils.SendError(c, fiber.StatusUnauthorized, "user not authenticated")
	}

	events, err := h.service.ListForSupervisor(c.UserContext(), supervisorID)
	if err != nil {
		return h.internalError(c, err)
	}

	return utils.SendSuccess(c, "report events retrieved", events)
}

func (h *ReportEventHandler) listPending(c *fiber.Ctx) error {
	studentID := userIDFromContext(c)
	if studentID == 0 {
		return utils.SendError(c, fiber.StatusUnauthorized, "user not authenticated")
	}

	pending, err := h.service.ListPending(c.UserContext(), studentID)
	if err != nil {
		return h.internalError(c, err)
	}

	return utils.SendSuccess(c, "pending report events retrieved", pending)
}

func (h *ReportEventHandler) updateStatus(c *fiber.Ctx) error {
	supervisorID := userIDFromContext(c)
	if supervisorID == 0 {
		return utils.SendError(c, fiber.StatusUnauthorized, "user not authenticated")
	}

	eventID, err := parseUintParam(c, "id")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, err.Error())
	}

	var payload dto.EventStatusUpdateRequest
	if err := c.BodyParser(&payload); err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid request body")
	}

	event, err := h.service.UpdateStatus(c.UserContext(), supervisorID, eventID, payload)
	if err != nil {
		return h.handleError(c, err)
	}

	return utils.SendSuccess(c, "report event status updated", event)
}

func (h *ReportEventHandler) handleError(c *fiber.Ctx, err error) error {
	var validationErrors validator.ValidationErrors
	switch {
	case errors.Is(err, service.ErrEventNotFound):
		return utils.SendError(c, fiber.StatusNotFound, service.ErrEventNotFound.Error())
	case errors.Is(err, service.ErrDuplicateEvent):
		return utils.SendError(c, fiber.StatusConflict, service.ErrDuplicateEvent.Error())
	case errors.Is(err, service.ErrNotEventOwner):
		return utils.SendError(c, fiber.StatusForbidden, service.ErrNotEventOwner.Error())
	case errors.Is(err, service.ErrInvalidStatusTransition):
		return utils.SendError(c, fiber.StatusUnprocessableEntity, service.ErrInvalidStatusTransition.Error())
	case errors.As(err, &validationErrors):
		return utils.SendError(c, fiber.StatusBadRequest, validationErrors.Error())
	default:
		return h.internalError(c, err)
	}
}

func (h *ReportEventHandler) internalError(c *fiber.Ctx, err error) error {
	h.logger.Error().Err(err).Msg("internal server error")
	return utils.SendError(c, fiber.StatusInternalServerError, "internal server error")
}
