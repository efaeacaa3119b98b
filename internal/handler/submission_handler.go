package handler

import (
	"errors"
	"mime/multipart"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/internlink/internlink-api/internal/dto"
	"github.com/internlink/internlink-api/internal/service"
	"github.com/internlink/internlink-api/internal/utils"
	"github.com/internlink/internlink-api/pkg/pdf"
)

// SubmissionHandler wires the weekly report submission HTTP routes.
type SubmissionHandler struct {
	service  service.SubmissionService
	renderer pdf.Renderer
	logger   zerolog.Logger
}

// NewSubmissionHandler constructs the handler.
func NewSubmissionHandler(service service.SubmissionService, renderer pdf.Renderer, logger zerolog.Logger) *SubmissionHandler {
	return &SubmissionHandler{
		service:  service,
		renderer: renderer,
		logger:   logger.With().Str("component", "submission_handler").Logger(),
	}
}

// RegisterStudent attaches the student-facing submission endpoints.
func (h *SubmissionHandler) RegisterStudent(router fiber.Router) {
	router.Post("", h.create)
	router.Get("/mine", h.listMine)
	router.Get("/:id", h.get)
	router.Get("/:id/document", h.document)
}

// RegisterSupervisor attaches the supervisor-facing submission endpoints.
func (h *SubmissionHandler) RegisterSupervisor(router fiber.Router) {
	router.Get("", h.list)
	router.Get("/:id", h.get)
	router.Get("/:id/document", h.document)
	router.Post("/:id/review", h.review)
}

func (h *SubmissionHandler) create(c *fiber.Ctx) error {
	studentID := userIDFromContext(c)
	if studentID == 0 {
		return utils.SendError(c, fiber.StatusUnauthorized, "user not authenticated")
	}

	payload := dto.SubmissionCreateRequest{
		TasksCompleted:      c.FormValue("tasks_completed"),
		Reflections:         c.FormValue("reflections"),
		SupportingMaterials: c.FormValue("supporting_materials"),
	}

	eventID, err := parseFormUint(c, "event_id")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid event id")
	}
	payload.EventID = eventID

	attachments := formAttachments(c)

	submission, err := h.service.Create(c.UserContext(), studentID, userNameFromContext(c), payload, attachments)
	if err != nil {
		return h.handleError(c, err)
	}

	return utils.SendCreated(c, "report submitted", submission)
}

func (h *SubmissionHandler) get(c *fiber.Ctx) error {
	actorID := userIDFromContext(c)
	if actorID == 0 {
		return utils.SendError(c, fiber.StatusUnauthorized, "user not authenticated")
	}

	id, err := parseUintParam(c, "id")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, err.Error())
	}

	submission, err := h.service.Get(c.UserContext(), actorID, id)
	if err != nil {
		return h.handleError(c, err)
	}

	return utils.SendSuccess(c, "submission retrieved", submission)
}

func (h *SubmissionHandler) list(c *fiber.Ctx) error {
	supervisorID := userIDFromContext(c)
	if supervisorID == 0 {
		return utils.SendError(c, fiber.StatusUnauthorized, "user not authenticated")
	}

	filter := dto.SubmissionFilter{}

	eventID, err := parseQueryUint(c, "event_id")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid event id")
	}
	filter.EventID = eventID

	studentID, err := parseQueryUint(c, "student_id")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid student id")
	}
	filter.StudentID = studentID

	if status := c.Query("status"); status != "" {
		filter.Status = &status
	}

	submissions, err := h.service.ListForSupervisor(c.UserContext(), supervisorID, filter)
	if err != nil {
		return h.handleError(c, err)
	}

	return utils.SendSuccess(c, "submissions retrieved", submissions)
}

func (h *SubmissionHandler) listMine(c *fiber.Ctx) error {
	studentID := userIDFromContext(c)
	if studentID == 0 {
		return utils.SendError(c, fiber.StatusUnauthorized, "user not authenticated")
	}

	submissions, err := h.service.ListForStudent(c.UserContext(), studentID)
	if err != nil {
		return h.internalError(c, err)
	}

	return utils.SendSuccess(c, "submissions retrieved", submissions)
}

func (h *SubmissionHandler) review(c *fiber.Ctx) error {
	supervisorID := userIDFromContext(c)
	if supervisorID == 0 {
		return utils.SendError(c, fiber.StatusUnauthorized, "user not authenticated")
	}

	id, err := parseUintParam(c, "id")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, err.Error())
	}

	var payload dto.SubmissionReviewRequest
	if err := c.BodyParser(&payload); err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid request body")
	}

	submission, err := h.service.Review(c.UserContext(), supervisorID, id, payload)
	if err != nil {
		return h.handleError(c, err)
	}

	return utils.SendSuccess(c, "review recorded", submission)
}

func (h *SubmissionHandler) document(c *fiber.Ctx) error {
	actorID := userIDFromContext(c)
	if actorID == 0 {
		return utils.SendError(c, fiber.StatusUnauthorized, "user not authenticated")
	}

	id, err := parseUintParam(c, "id")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, err.Error())
	}

	submission, err := h.service.Get(c.UserContext(), actorID, id)
	if err != nil {
		return h.handleError(c, err)
	}

	document, err := h.renderer.RenderSubmission(c.UserContext(), toReportDocument(submission))
	if err != nil {
		if errors.Is(err, pdf.ErrNotConfigured) {
			return utils.SendError(c, fiber.StatusNotImplemented, "document rendering is not configured")
		}
		return h.internalError(c, err)
	}

	c.Set(fiber.HeaderContentType, "application/pdf")
	return c.Send(document)
}

func toReportDocument(submission dto.SubmissionResponse) pdf.ReportDocument {
	attachments := make([]string, 0, len(submission.Attachments))
	for _, attachment := range submission.Attachments {
		attachments = append(attachments, attachment.FileName)
	}

	return pdf.ReportDocument{
		StudentName:         submission.StudentName,
		WeekNumber:          submission.WeekNumber,
		TasksCompleted:      submission.TasksCompleted,
		Reflections:         submission.Reflections,
		SupportingMaterials: submission.SupportingMaterials,
		SubmittedAt:         submission.SubmittedAt,
		DueDate:             submission.DueDate,
		Status:              submission.Status,
		Feedback:            submission.Feedback,
		AttachmentNames:     attachments,
	}
}

func (h *SubmissionHandler) handleError(c *fiber.Ctx, err error) error {
	var validationErrors validator.ValidationErrors
	switch {
	case errors.Is(err, service.ErrEventNotFound):
		return utils.SendError(c, fiber.StatusNotFound, service.ErrEventNotFound.Error())
	case errors.Is(err, service.ErrSubmissionNotFound):
		return utils.SendError(c, fiber.StatusNotFound, service.ErrSubmissionNotFound.Error())
	case errors.Is(err, service.ErrDuplicateSubmission):
		return utils.SendError(c, fiber.StatusConflict, service.ErrDuplicateSubmission.Error())
	case errors.Is(err, service.ErrEventNotActive):
		return utils.SendError(c, fiber.StatusUnprocessableEntity, service.ErrEventNotActive.Error())
	case errors.Is(err, service.ErrDueDatePassed):
		return utils.SendError(c, fiber.StatusUnprocessableEntity, service.ErrDueDatePassed.Error())
	case errors.Is(err, service.ErrSupervisorMismatch):
		return utils.SendError(c, fiber.StatusForbidden, service.ErrSupervisorMismatch.Error())
	case errors.Is(err, service.ErrNotSubmissionOwner):
		return utils.SendError(c, fiber.StatusForbidden, service.ErrNotSubmissionOwner.Error())
	case errors.Is(err, service.ErrTooManyAttachments),
		errors.Is(err, service.ErrAttachmentTooLarge),
		errors.Is(err, service.ErrAttachmentTypeNotAllowed):
		return utils.SendError(c, fiber.StatusBadRequest, err.Error())
	case errors.As(err, &validationErrors):
		return utils.SendError(c, fiber.StatusBadRequest, validationErrors.Error())
	default:
		return h.internalError(c, err)
	}
}

func (h *SubmissionHandler) internalError(c *fiber.Ctx, err error) error {
	h.logger.Error().Err(err).Msg("internal server error")
	return utils.SendError(c, fiber.StatusInternalServerError, "internal server error")
}

func formAttachments(c *fiber.Ctx) []*multipart.FileHeader {
	form, err := c.MultipartForm()
	if err != nil || form == nil {
		return nil
	}
	return form.File["attachments"]
}
