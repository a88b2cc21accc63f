package routes

import (
	"github.com/gofiber/fiber/v2"
	"github.com/tutorlk/scheduling_backend/handlers"
	"github.com/tutorlk/scheduling_backend/middleware"
)

func AvailabilityRoutes(app *fiber.App, h *handlers.AvailabilityHandler) {
	availability := app.Group("/api/availability")

	availability.Put("/",
		middleware.Authenticated(middleware.RoleTeacher),
		middleware.RequirePermission("manage_availability"),
		h.ReplaceAvailability)

	availability.Get("/teacher/:teacherId",
		middleware.Authenticated(),
		h.GetTeacherAvailability)
}
