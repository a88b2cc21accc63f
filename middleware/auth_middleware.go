package middleware

import (
	"strings"

	"github.com/gofiber/fiber/v2"
)

// Caller identity is resolved upstream (API gateway) and forwarded as
// x-user-* headers. This service trusts those headers and performs no
// credential verification of its own.

const (
	HeaderUserID          = "x-user-id"
	HeaderUserRole        = "x-user-role"
	HeaderUserPermissions = "x-user-permissions"

	LocalsUserID   = "userID"
	LocalsUserRole = "userRole"
)

const (
	RoleTeacher = "teacher"
	RoleStudent = "student"
)

// Authenticated requires the identity headers and restricts the role to the
// given set. It stores the caller id and role in the request locals.
func Authenticated(allowedRoles ...string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		userID := c.Get(HeaderUserID)
		userRole := c.Get(HeaderUserRole)

		if userID == "" || userRole == "" {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"error": "Missing user authentication headers (x-user-id, x-user-role)",
			})
		}
		if userRole != RoleTeacher && userRole != RoleStudent {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"error": "Invalid user role: " + userRole + ". Must be 'teacher' or 'student'",
			})
		}

		if len(allowedRoles) > 0 {
			allowed := false
			for _, role := range allowedRoles {
				if role == userRole {
					allowed = true
					break
				}
			}
			if !allowed {
				return c.Status(fiber.StatusForbidden).JSON(fiber.Map{
					"error": "Access denied. Required role(s): " + strings.Join(allowedRoles, ", ") + ". Your role: " + userRole,
				})
			}
		}

		c.Locals(LocalsUserID, userID)
		c.Locals(LocalsUserRole, userRole)
		return c.Next()
	}
}

// RequirePermission checks the forwarded comma-separated permission set.
func RequirePermission(permission string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		raw := c.Get(HeaderUserPermissions)
		for _, p := range strings.Split(raw, ",") {
			if strings.TrimSpace(p) == permission {
				return c.Next()
			}
		}
		return c.Status(fiber.StatusForbidden).JSON(fiber.Map{
			"error": "Insufficient permissions: " + permission + " is required",
		})
	}
}
