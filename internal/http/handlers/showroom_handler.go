package handlers

import (
	"showroom/internal/domain"
	"showroom/internal/log"
	"showroom/internal/services"
	"showroom/internal/validate"
	"showroom/internal/view"

	"github.com/gofiber/fiber/v2"
)

// ShowroomHandler serves the public browsing pages and the listings JSON
// API. Both read through the same projector; the query parameters map
// straight onto view.Criteria.
type ShowroomHandler struct {
	Listings *services.ListingService
}

func criteriaFromQuery(c *fiber.Ctx) view.Criteria {
	return view.Criteria{
		Category: c.Query("category"),
		Sort:     view.SortMode(c.Query("sort")),
	}.Normalize()
}

func (h *ShowroomHandler) Home(c *fiber.Ctx) error {
	featured := h.Listings.Browse(view.Criteria{})
	if len(featured) > 3 {
		featured = featured[:3]
	}
	return render(c, "home", fiber.Map{
		"Count":    h.Listings.Count(),
		"Featured": featured,
	})
}

func (h *ShowroomHandler) Showroom(c *fiber.Ctx) error {
	crit := criteriaFromQuery(c)
	return render(c, "showroom", fiber.Map{
		"Listings":   h.Listings.Browse(crit),
		"Categories": domain.Categories,
		"Category":   crit.Category,
		"Sort":       string(crit.Sort),
	})
}

func (h *ShowroomHandler) Detail(c *fiber.Ctx) error {
	id, ok := validate.ID(c.Params("id"))
	if !ok {
		log.Security(c, "validation.fail", map[string]any{"field": "listing"})
		return c.Status(fiber.StatusNotFound).Render("notfound", fiber.Map{"Message": "This listing is no longer available"})
	}
	l, ok := h.Listings.Get(id)
	if !ok {
		return c.Status(fiber.StatusNotFound).Render("notfound", fiber.Map{"Message": "This listing is no longer available"})
	}
	return render(c, "listing", fiber.Map{"L": l})
}

// ListJSON is GET /api/v1/listings with the same category/sort query
// parameters as the showroom page.
func (h *ShowroomHandler) ListJSON(c *fiber.Ctx) error {
	return c.JSON(h.Listings.Browse(criteriaFromQuery(c)))
}

func (h *ShowroomHandler) GetJSON(c *fiber.Ctx) error {
	id, ok := validate.ID(c.Params("id"))
	if !ok {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid id"})
	}
	l, ok := h.Listings.Get(id)
	if !ok {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "listing not found"})
	}
	return c.JSON(l)
}
