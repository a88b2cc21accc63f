package handlers

import (
	"github.com/gofiber/fiber/v2"
	"github.com/tutorlk/scheduling_backend/middleware"
	"github.com/tutorlk/scheduling_backend/services"
)

type AvailabilitySlotRequest struct {
	StartTime          string   `json:"startTime" validate:"required"`
	EndTime            string   `json:"endTime" validate:"required"`
	IsPaid             bool     `json:"isPaid"`
	Price              *float64 `json:"price" validate:"omitempty,gte=0"`
	SessionDescription *string  `json:"sessionDescription" validate:"omitempty,max=500"`
}

type ReplaceAvailabilityRequest struct {
	Availabilities []AvailabilitySlotRequest `json:"availabilities" validate:"required,dive"`
}

type AvailabilityHandler struct {
	service *services.AvailabilityService
}

func NewAvailabilityHandler(service *services.AvailabilityService) *AvailabilityHandler {
	return &AvailabilityHandler{service: service}
}

// ReplaceAvailability swaps the calling teacher's availability wholesale.
func (h *AvailabilityHandler) ReplaceAvailability(c *fiber.Ctx) error {
	teacherID := c.Locals(middleware.LocalsUserID).(string)

	var req ReplaceAvailabilityRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Cannot parse JSON"})
	}
	if err := validate.Struct(req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}

	slots := make([]services.SlotInput, 0, len(req.Availabilities))
	for _, in := range req.Availabilities {
		slots = append(slots, services.SlotInput{
			StartTime:          in.StartTime,
			EndTime:            in.EndTime,
			IsPaid:             in.IsPaid,
			Price:              in.Price,
			SessionDescription: in.SessionDescription,
		})
	}

	if err := h.service.ReplaceForTeacher(c.Context(), teacherID, slots); err != nil {
		return respondServiceError(c, err)
	}

	return c.JSON(fiber.Map{"message": "Availability updated."})
}

// GetTeacherAvailability lists a teacher's open slots for booking.
func (h *AvailabilityHandler) GetTeacherAvailability(c *fiber.Ctx) error {
	teacherID := c.Params("teacherId")

	slots, err := h.service.ListOpen(c.Context(), teacherID)
	if err != nil {
		return respondServiceError(c, err)
	}
	return c.JSON(slots)
}
