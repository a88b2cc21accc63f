package routes

import (
	"github.com/gofiber/fiber/v2"
	"github.com/tutorlk/scheduling_backend/handlers"
	"github.com/tutorlk/scheduling_backend/middleware"
)

func SchedulingRoutes(app *fiber.App, h *handlers.SchedulingHandler) {
	scheduling := app.Group("/api/scheduling")

	scheduling.Post("/group-sessions",
		middleware.Authenticated(middleware.RoleTeacher),
		middleware.RequirePermission("create_session"),
		h.CreateGroupSession)

	scheduling.Get("/group-sessions",
		middleware.Authenticated(middleware.RoleTeacher, middleware.RoleStudent),
		middleware.RequirePermission("view_sessions"),
		h.GetOpenGroupSessions)

	scheduling.Post("/book-session",
		middleware.Authenticated(middleware.RoleStudent),
		middleware.RequirePermission("book_session"),
		h.BookSession)

	scheduling.Post("/enroll-group-session",
		middleware.Authenticated(middleware.RoleStudent),
		middleware.RequirePermission("enroll_session"),
		h.EnrollGroupSession)

	scheduling.Get("/me/sessions",
		middleware.Authenticated(middleware.RoleTeacher, middleware.RoleStudent),
		middleware.RequirePermission("view_my_sessions"),
		h.GetMySessions)
}
