package handlers

import "github.com/gofiber/fiber/v2"

func render(c *fiber.Ctx, tmpl string, data fiber.Map) error {
	if data == nil {
		data = fiber.Map{}
	}
	if admin, ok := c.Locals("admin").(bool); ok && admin {
		data["Admin"] = true
	}
	// Only the token the CSRF middleware put into Locals is trustworthy;
	// the raw cookie value is storage-dependent and may not be the token.
	if tok, _ := c.Locals("CSRFToken").(string); tok != "" {
		data["CSRFToken"] = tok
	}
	return c.Render(tmpl, data)
}
