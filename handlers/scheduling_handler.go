package handlers

import (
	"github.com/gofiber/fiber/v2"
	"github.com/tutorlk/scheduling_backend/middleware"
	"github.com/tutorlk/scheduling_backend/services"
)

type CreateGroupSessionRequest struct {
	Title        string   `json:"title" validate:"required,max=255"`
	Description  *string  `json:"description"`
	StartTime    string   `json:"startTime" validate:"required"`
	EndTime      string   `json:"endTime" validate:"required"`
	IsPaid       bool     `json:"isPaid"`
	Price        *float64 `json:"price" validate:"omitempty,gte=0"`
	MaxAttendees *int     `json:"maxAttendees" validate:"omitempty,min=1"`
}

type BookSessionRequest struct {
	AvailabilityID string `json:"availabilityId" validate:"required"`
}

type EnrollGroupSessionRequest struct {
	SessionID string `json:"sessionId" validate:"required"`
}

type SchedulingHandler struct {
	service *services.SchedulingService
}

func NewSchedulingHandler(service *services.SchedulingService) *SchedulingHandler {
	return &SchedulingHandler{service: service}
}

// CreateGroupSession lets a teacher publish a group session; a meeting is
// provisioned before anything is persisted.
func (h *SchedulingHandler) CreateGroupSession(c *fiber.Ctx) error {
	teacherID := c.Locals(middleware.LocalsUserID).(string)

	var req CreateGroupSessionRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Cannot parse JSON"})
	}
	if err := validate.Struct(req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}

	view, err := h.service.CreateGroupSession(c.Context(), teacherID, services.CreateGroupSessionInput{
		Title:        req.Title,
		Description:  req.Description,
		StartTime:    req.StartTime,
		EndTime:      req.EndTime,
		IsPaid:       req.IsPaid,
		Price:        req.Price,
		MaxAttendees: req.MaxAttendees,
	})
	if err != nil {
		return respondServiceError(c, err)
	}

	return c.Status(fiber.StatusCreated).JSON(view)
}

// GetOpenGroupSessions lists group sessions that still have free seats.
func (h *SchedulingHandler) GetOpenGroupSessions(c *fiber.Ctx) error {
	views, err := h.service.GetOpenGroupSessions(c.Context())
	if err != nil {
		return respondServiceError(c, err)
	}
	return c.JSON(views)
}

// BookSession books an open one-on-one availability slot for the student.
func (h *SchedulingHandler) BookSession(c *fiber.Ctx) error {
	studentID := c.Locals(middleware.LocalsUserID).(string)

	var req BookSessionRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Cannot parse JSON"})
	}
	if err := validate.Struct(req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}

	view, err := h.service.BookOneOnOneSession(c.Context(), studentID, req.AvailabilityID)
	if err != nil {
		return respondServiceError(c, err)
	}

	return c.Status(fiber.StatusCreated).JSON(view)
}

// EnrollGroupSession enrolls the student, or hands off to payment for paid
// sessions.
func (h *SchedulingHandler) EnrollGroupSession(c *fiber.Ctx) error {
	studentID := c.Locals(middleware.LocalsUserID).(string)

	var req EnrollGroupSessionRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Cannot parse JSON"})
	}
	if err := validate.Struct(req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}

	result, err := h.service.EnrollGroupSession(c.Context(), studentID, req.SessionID)
	if err != nil {
		return respondServiceError(c, err)
	}

	if result.CheckoutSessionID != "" {
		return c.JSON(fiber.Map{"checkoutSessionId": result.CheckoutSessionID})
	}
	return c.Status(fiber.StatusCreated).JSON(result.Session)
}

// GetMySessions returns the caller's sessions with role-appropriate
// meeting-field redaction.
func (h *SchedulingHandler) GetMySessions(c *fiber.Ctx) error {
	userID := c.Locals(middleware.LocalsUserID).(string)
	role := c.Locals(middleware.LocalsUserRole).(string)

	var views []*services.SessionView
	var err error
	if role == middleware.RoleTeacher {
		views, err = h.service.GetTeacherSessions(c.Context(), userID)
	} else {
		views, err = h.service.GetStudentSessions(c.Context(), userID)
	}
	if err != nil {
		return respondServiceError(c, err)
	}
	return c.JSON(views)
}
