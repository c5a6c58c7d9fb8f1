package handlers

import (
	"time"

	"counterpos/internal/log"
	"counterpos/internal/services"
	"counterpos/internal/validate"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

type AuthHandler struct {
	Auth *services.AuthService
}

type loginBody struct {
	Email    string `json:"email" form:"email"`
	Password string `json:"password" form:"password"`
}

func setSID(c *fiber.Ctx, sid string, expires time.Time) {
	c.Cookie(&fiber.Cookie{
		Name:     "sid",
		Value:    sid,
		Path:     "/",
		HTTPOnly: true,
		SameSite: fiber.CookieSameSiteStrictMode,
		Secure:   false, // enable true behind TLS
		Expires:  expires,
	})
}

// POST /login
func (h *AuthHandler) Login(c *fiber.Ctx) error {
	var body loginBody
	if err := c.BodyParser(&body); err != nil {
		return badRequest(c, "body", "malformed login request")
	}
	email, ok := validate.Email(body.Email)
	if !ok {
		log.Security(c, "auth.login.fail", map[string]any{"email": body.Email, "reason": "bad_format"})
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "invalid email or password"})
	}
	if !validate.Password(body.Password) {
		log.Security(c, "auth.login.fail", map[string]any{"email": email, "reason": "bad_password_format"})
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "invalid email or password"})
	}

	// A fresh session id on every login.
	sid := uuid.NewString()
	u, err := h.Auth.Login(c.UserContext(), sid, email, body.Password)
	if err != nil {
		log.Security(c, "auth.login.fail", map[string]any{"email": email})
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "invalid email or password"})
	}

	setSID(c, sid, time.Time{})
	c.Locals("user", u)
	log.Audit(c, "auth.login.success", map[string]any{"email": email, "role": u.Role})
	return c.JSON(fiber.Map{"id": u.ID, "name": u.Name, "role": u.Role})
}

// POST /logout
func (h *AuthHandler) Logout(c *fiber.Ctx) error {
	if sid := c.Cookies("sid"); sid != "" {
		_ = h.Auth.Logout(c.UserContext(), sid)
	}
	setSID(c, "", time.Now().Add(-1*time.Hour))
	log.Audit(c, "auth.logout", nil)
	return c.SendStatus(fiber.StatusNoContent)
}
