package handlers

import (
	applog "showroom/internal/log"
	"showroom/internal/services"

	"github.com/gofiber/fiber/v2"
)

// RequireAdmin gates the admin console behind a live admin session.
func RequireAdmin(auth *services.AuthService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		sid := c.Cookies("sid")
		if sid == "" || !auth.IsAdmin(sid) {
			applog.Security(c, "access.denied.admin", map[string]any{"sid": sid})
			return c.Redirect("/login")
		}
		c.Locals("admin", true)
		return c.Next()
	}
}
