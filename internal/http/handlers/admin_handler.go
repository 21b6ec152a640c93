package handlers

import (
	"errors"
	"net/url"
	"strings"

	"showroom/internal/domain"
	applog "showroom/internal/log"
	"showroom/internal/persist"
	"showroom/internal/services"
	"showroom/internal/store"
	"showroom/internal/validate"

	"github.com/gofiber/fiber/v2"
)

type AdminHandler struct {
	Listings *services.ListingService
	Subs     *services.SubmissionService
}

// GET /admin
func (h *AdminHandler) Dashboard(c *fiber.Ctx) error {
	return render(c, "admin_dashboard", fiber.Map{
		"Listings":   h.Listings.Browse(criteriaFromQuery(c)),
		"Count":      h.Listings.Count(),
		"Categories": domain.Categories,
		"Warn":       c.Query("warn"),
	})
}

// draftFromForm builds a ListingDraft out of the admin form. Money fields
// that fail to parse come back as a validation error from Validate, not a
// crash; the tech stack is a comma-separated field.
func draftFromForm(c *fiber.Ctx) (domain.ListingDraft, bool) {
	price, okPrice := validate.Money(c.FormValue("price"))
	profit, okProfit := validate.Money(c.FormValue("monthly_profit"))
	revenue, okRevenue := validate.Money(c.FormValue("monthly_revenue"))
	traffic, okTraffic := validate.Money(c.FormValue("monthly_traffic"))
	if !okPrice || !okProfit || !okRevenue || !okTraffic {
		return domain.ListingDraft{}, false
	}

	var stack []string
	for _, part := range strings.Split(c.FormValue("tech_stack"), ",") {
		if part = strings.TrimSpace(part); part != "" {
			stack = append(stack, part)
		}
	}

	return domain.ListingDraft{
		Name:           c.FormValue("name"),
		URL:            c.FormValue("url"),
		Description:    c.FormValue("description"),
		Category:       domain.Category(c.FormValue("category")),
		Price:          price,
		MonthlyProfit:  profit,
		MonthlyRevenue: revenue,
		MonthlyTraffic: traffic,
		TechStack:      stack,
		Image:          c.FormValue("image"),
		Age:            c.FormValue("age"),
	}, true
}

// redirectWithWarn sends the admin back to the dashboard with a visible
// warning banner when a write was abandoned on the durable side.
func redirectWithWarn(c *fiber.Ctx, action string, err error) error {
	msg := "Saving \"" + action + "\" failed; the change is live but not stored."
	if errors.Is(err, persist.ErrCapacityExceeded) {
		msg = "Storage is full: \"" + action + "\" was kept in memory only. Try a smaller image."
	}
	return c.Redirect("/admin?warn=" + url.QueryEscape(msg))
}

// POST /admin/listings
func (h *AdminHandler) CreateListing(c *fiber.Ctx) error {
	draft, ok := draftFromForm(c)
	if !ok {
		return c.Status(fiber.StatusBadRequest).SendString("invalid numeric input")
	}
	l, err := h.Listings.Create(c.UserContext(), draft)
	if err != nil {
		if errors.Is(err, domain.ErrInvalidDraft) {
			applog.Security(c, "admin.listings.create.invalid", map[string]any{"err": err.Error()})
			return c.Status(fiber.StatusBadRequest).SendString(err.Error())
		}
		applog.Warn(c, "admin.listings.create.persist", err, map[string]any{"id": l.ID})
		return redirectWithWarn(c, "add listing", err)
	}
	applog.Audit(c, "admin.listings.create", map[string]any{"id": l.ID, "name": l.Name})
	return c.Redirect("/admin")
}

// POST /admin/listings/:id
func (h *AdminHandler) UpdateListing(c *fiber.Ctx) error {
	id, ok := validate.ID(c.Params("id"))
	if !ok {
		return c.Status(fiber.StatusBadRequest).SendString("invalid id")
	}
	draft, ok := draftFromForm(c)
	if !ok {
		return c.Status(fiber.StatusBadRequest).SendString("invalid numeric input")
	}
	l, err := h.Listings.Update(c.UserContext(), id, draft)
	if err != nil {
		switch {
		case errors.Is(err, store.ErrNotFound):
			return c.Status(fiber.StatusNotFound).SendString("listing not found")
		case errors.Is(err, domain.ErrInvalidDraft):
			applog.Security(c, "admin.listings.update.invalid", map[string]any{"id": id, "err": err.Error()})
			return c.Status(fiber.StatusBadRequest).SendString(err.Error())
		default:
			applog.Warn(c, "admin.listings.update.persist", err, map[string]any{"id": id})
			return redirectWithWarn(c, "update listing", err)
		}
	}
	applog.Audit(c, "admin.listings.update", map[string]any{"id": l.ID})
	return c.Redirect("/admin")
}

// POST /admin/listings/:id/delete
func (h *AdminHandler) DeleteListing(c *fiber.Ctx) error {
	id, ok := validate.ID(c.Params("id"))
	if !ok {
		return c.Status(fiber.StatusBadRequest).SendString("invalid id")
	}
	if err := h.Listings.Delete(c.UserContext(), id); err != nil {
		applog.Warn(c, "admin.listings.delete.persist", err, map[string]any{"id": id})
		return redirectWithWarn(c, "delete listing", err)
	}
	applog.Audit(c, "admin.listings.delete", map[string]any{"id": id})
	return c.Redirect("/admin")
}

// GET /admin/submissions
func (h *AdminHandler) Submissions(c *fiber.Ctx) error {
	return render(c, "admin_submissions", fiber.Map{"Submissions": h.Subs.List()})
}

// POST /admin/submissions/:id/delete
func (h *AdminHandler) DeleteSubmission(c *fiber.Ctx) error {
	id, ok := validate.ID(c.Params("id"))
	if !ok {
		return c.Status(fiber.StatusBadRequest).SendString("invalid id")
	}
	if err := h.Subs.Delete(c.UserContext(), id); err != nil {
		applog.Warn(c, "admin.submissions.delete.persist", err, map[string]any{"id": id})
	}
	applog.Audit(c, "admin.submissions.delete", map[string]any{"id": id})
	return c.Redirect("/admin/submissions")
}
