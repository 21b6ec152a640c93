package handlers

import (
	"errors"

	"showroom/internal/log"
	"showroom/internal/persist"
	"showroom/internal/services"
	"showroom/internal/validate"

	"github.com/gofiber/fiber/v2"
)

type ContactHandler struct {
	Subs *services.SubmissionService
}

func (h *ContactHandler) Form(c *fiber.Ctx) error {
	return render(c, "contact", fiber.Map{})
}

func (h *ContactHandler) Submit(c *fiber.Ctx) error {
	name, okName := validate.Name(c.FormValue("name"))
	email, okEmail := validate.Email(c.FormValue("email"))
	message, okMsg := validate.Message(c.FormValue("message"))
	if !okName || !okEmail || !okMsg {
		log.Security(c, "validation.fail", map[string]any{"form": "contact"})
		return c.Status(fiber.StatusBadRequest).Render("contact", fiber.Map{
			"Err":  "Please fill in a valid name, email and message.",
			"Name": name, "Email": email, "Message": message,
		})
	}

	sub, err := h.Subs.Submit(c.UserContext(), name, email, message)
	if err != nil {
		// The lead is live in memory either way; tell the visitor it went
		// through but flag the durability gap.
		switch {
		case errors.Is(err, persist.ErrCapacityExceeded):
			log.Warn(c, "contact.save.capacity", err, map[string]any{"id": sub.ID})
			return render(c, "contact", fiber.Map{
				"Sent": true,
				"Warn": "Your message was received, but local storage is full; it may not survive a restart.",
			})
		default:
			log.Warn(c, "contact.save.fail", err, map[string]any{"id": sub.ID})
			return render(c, "contact", fiber.Map{
				"Sent": true,
				"Warn": "Your message was received, but saving it remotely failed. We may ask you to resend it.",
			})
		}
	}

	log.Info(c, "contact.submitted", map[string]any{"id": sub.ID})
	return render(c, "contact", fiber.Map{"Sent": true})
}
