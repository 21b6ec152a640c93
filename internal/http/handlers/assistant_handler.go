package handlers

import (
	"showroom/internal/assist"
	"showroom/internal/domain"
	applog "showroom/internal/log"
	"showroom/internal/services"
	"showroom/internal/validate"

	"github.com/gofiber/fiber/v2"
)

// AssistantHandler fronts the GenAI concierge. The gateway never errors
// toward the visitor; a failed call comes back as its fallback text, so
// these endpoints always answer 200 with some text.
type AssistantHandler struct {
	Assist   *assist.Gateway
	Listings *services.ListingService
}

// POST /api/v1/assistant/summary/:id
func (h *AssistantHandler) Summary(c *fiber.Ctx) error {
	id, ok := validate.ID(c.Params("id"))
	if !ok {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid id"})
	}
	l, ok := h.Listings.Get(id)
	if !ok {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "listing not found"})
	}
	text := h.Assist.Summarize(c.UserContext(), l)
	return c.JSON(fiber.Map{"text": text})
}

type chatRequest struct {
	History   []domain.ChatMessage `json:"history"`
	Message   string               `json:"message"`
	ListingID string               `json:"listingId"`
}

// POST /api/v1/assistant/chat
func (h *AssistantHandler) Chat(c *fiber.Ctx) error {
	var req chatRequest
	if err := c.BodyParser(&req); err != nil {
		applog.Security(c, "assistant.chat.badbody", map[string]any{"err": err.Error()})
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid request body"})
	}
	message, ok := validate.Message(req.Message)
	if !ok {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "message is required"})
	}

	var listing *domain.Listing
	if req.ListingID != "" {
		if l, found := h.Listings.Get(req.ListingID); found {
			listing = &l
		}
	}

	text := h.Assist.Converse(c.UserContext(), req.History, message, listing)
	return c.JSON(fiber.Map{"text": text})
}
