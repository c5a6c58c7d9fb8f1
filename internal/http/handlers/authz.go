package handlers

import (
	"counterpos/internal/domain"
	"counterpos/internal/services"

	"github.com/gofiber/fiber/v2"
)

// AttachUser resolves the sid cookie to a staff account and stores it in
// c.Locals("user"). It never rejects: the authorization guard inside each
// service decides what an absent or inactive identity may do.
func AttachUser(auth *services.AuthService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		if sid := c.Cookies("sid"); sid != "" {
			if u, err := auth.CurrentUser(c.UserContext(), sid); err == nil && u != nil {
				c.Locals("user", u)
			}
		}
		return c.Next()
	}
}

// RequireRoles runs the authorization guard before the handler touches the
// request body, so an anonymous or under-privileged caller is refused the
// same way whatever it sent.
func RequireRoles(op string, roles services.RoleSet) fiber.Handler {
	var guard services.Guard
	return func(c *fiber.Ctx) error {
		if err := guard.Authorize(currentUser(c), roles).Err(); err != nil {
			return respondError(c, op, err)
		}
		return c.Next()
	}
}

// currentUser returns the identity attached by AttachUser, or nil.
func currentUser(c *fiber.Ctx) *domain.StaffUser {
	u, _ := c.Locals("user").(*domain.StaffUser)
	return u
}
