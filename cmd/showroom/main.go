package main

import (
	"context"
	"io"
	"log"
	"os"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/csrf"
	"github.com/gofiber/fiber/v2/middleware/helmet"
	"github.com/gofiber/fiber/v2/middleware/limiter"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	html "github.com/gofiber/template/html/v2"

	"showroom/internal/assist"
	"showroom/internal/config"
	"showroom/internal/domain"
	"showroom/internal/http/handlers"
	applog "showroom/internal/log"
	"showroom/internal/persist"
	"showroom/internal/services"
	"showroom/internal/store"
)

func main() {
	cfg := config.Load()

	// Optional file logging
	if cfg.LogFile != "" {
		f, err := os.OpenFile(cfg.LogFile, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
		if err != nil {
			log.Printf("[warn] could not open log file %s: %v", cfg.LogFile, err)
		} else {
			log.SetOutput(io.MultiWriter(os.Stdout, f))
		}
	}

	ctx := context.Background()

	// Persistence: Postgres-with-changefeed when a DSN is configured,
	// sqlite snapshots otherwise. Both sides of the same Adapter contract.
	var (
		listingAdapter    persist.Adapter[domain.Listing]
		submissionAdapter persist.Adapter[domain.Submission]
	)
	if cfg.Remote() {
		la, err := persist.OpenPostgres[domain.Listing](cfg.DatabaseDSN, "listings")
		if err != nil {
			log.Fatal(err)
		}
		sa, err := persist.OpenPostgres[domain.Submission](cfg.DatabaseDSN, "submissions")
		if err != nil {
			log.Fatal(err)
		}
		listingAdapter, submissionAdapter = la, sa
	} else {
		kv, err := persist.OpenKV(cfg.DBPath, cfg.SnapshotMaxBytes)
		if err != nil {
			log.Fatal(err)
		}
		listingAdapter = persist.NewLocal[domain.Listing](kv, "listings")
		submissionAdapter = persist.NewLocal[domain.Submission](kv, "submissions")
	}

	listingRec := store.NewReconciler("listings", store.NewCollection[domain.Listing](), listingAdapter)
	submissionRec := store.NewReconciler("submissions", store.NewCollection[domain.Submission](), submissionAdapter)
	if err := listingRec.Start(ctx); err != nil {
		log.Fatal(err)
	}
	defer listingRec.Stop()
	if err := submissionRec.Start(ctx); err != nil {
		log.Fatal(err)
	}
	defer submissionRec.Stop()

	listingSvc := services.NewListingService(listingRec)
	submissionSvc := services.NewSubmissionService(submissionRec)
	if err := listingSvc.SeedIfEmpty(ctx); err != nil {
		log.Printf("[warn] could not seed default listings: %v", err)
	}

	authSvc, err := services.NewAuthService(cfg.AdminEmail, cfg.AdminPassword)
	if err != nil {
		log.Fatal(err)
	}
	if cfg.AdminPassword == "" {
		log.Println("[warn] ADMIN_PASSWORD not set; admin console is disabled")
	}
	authH := &handlers.AuthHandler{Auth: authSvc}

	gateway, err := assist.New(ctx, cfg.GeminiAPIKey, cfg.GeminiModel)
	if err != nil {
		log.Fatal(err)
	}

	// Templates & app
	engine := html.New("./web/templates", ".html")

	app := fiber.New(fiber.Config{
		Views: engine,
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			applog.Error(c, "server.error", err, nil)
			if rerr := c.Status(fiber.StatusInternalServerError).Render("notfound", fiber.Map{
				"Message": "Something went wrong. Please try again.",
			}); rerr != nil {
				return c.Status(fiber.StatusInternalServerError).SendString("Something went wrong. Please try again.")
			}
			return nil
		},
	})
	app.Server().MaxRequestBodySize = 1 << 20 // 1 MiB

	// ---------- Middlewares ----------
	app.Use(requestid.New())
	app.Use(logger.New())
	app.Use(helmet.New())
	app.Use(limiter.New(limiter.Config{
		Max:        60,
		Expiration: time.Minute,
		Next: func(c *fiber.Ctx) bool {
			return strings.HasPrefix(c.Path(), "/static/")
		},
	}))
	app.Use(csrf.New(csrf.Config{
		KeyLookup:      "form:csrf",
		CookieName:     "csrf_",
		CookieSameSite: "Lax",
		CookieSecure:   false, // set true behind HTTPS
		Next: func(c *fiber.Ctx) bool {
			// The JSON API authenticates nothing and mutates nothing owned
			// by a session; forms keep CSRF protection.
			return strings.HasPrefix(c.Path(), "/api/")
		},
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			applog.Security(c, "csrf.fail", nil)
			return c.Status(fiber.StatusForbidden).Render("notfound", fiber.Map{"Message": "Security check failed. Please refresh and try again."})
		},
	}))
	app.Use(func(c *fiber.Ctx) error {
		if tok := c.Locals("csrf"); tok != nil {
			c.Locals("CSRFToken", tok.(string))
		}
		return c.Next()
	})

	app.Static("/static", "./web/static")

	deps := handlers.NewDeps(listingSvc, submissionSvc, gateway)

	// Public pages
	app.Get("/", deps.ShowroomHandler.Home)
	app.Get("/showroom", deps.ShowroomHandler.Showroom)
	app.Get("/listing/:id", deps.ShowroomHandler.Detail)
	app.Get("/contact", deps.ContactHandler.Form)
	app.Post("/contact", limiter.New(limiter.Config{Max: 10, Expiration: time.Minute}), deps.ContactHandler.Submit)

	// JSON API
	api := app.Group("/api/v1")
	api.Get("/listings", deps.ShowroomHandler.ListJSON)
	api.Get("/listings/:id", deps.ShowroomHandler.GetJSON)
	assistLimiter := limiter.New(limiter.Config{
		Max:        15,
		Expiration: time.Minute,
		KeyGenerator: func(c *fiber.Ctx) string {
			return c.IP() + "|assist"
		},
		LimitReached: func(c *fiber.Ctx) error {
			applog.Security(c, "rate.assistant.hit", nil)
			return c.Status(fiber.StatusTooManyRequests).JSON(fiber.Map{"error": "rate limit exceeded, retry soon"})
		},
	})
	api.Post("/assistant/summary/:id", assistLimiter, deps.AssistantHandler.Summary)
	api.Post("/assistant/chat", assistLimiter, deps.AssistantHandler.Chat)

	// Auth routes (login throttled)
	app.Get("/login", authH.LoginForm)
	app.Post("/login", limiter.New(limiter.Config{
		Max:        5,
		Expiration: 10 * time.Minute,
		LimitReached: func(c *fiber.Ctx) error {
			applog.Security(c, "rate.login.hit", nil)
			return c.Status(fiber.StatusTooManyRequests).Render("login", fiber.Map{"Err": "Too many attempts. Please try again later."})
		},
	}), authH.Login)
	app.Post("/logout", authH.Logout)

	// Admin console
	admin := app.Group("/admin", handlers.RequireAdmin(authSvc))
	admin.Get("/", deps.AdminHandler.Dashboard)
	admin.Post("/listings", deps.AdminHandler.CreateListing)
	admin.Post("/listings/:id", deps.AdminHandler.UpdateListing)
	admin.Post("/listings/:id/delete", deps.AdminHandler.DeleteListing)
	admin.Get("/submissions", deps.AdminHandler.Submissions)
	admin.Post("/submissions/:id/delete", deps.AdminHandler.DeleteSubmission)

	// Health & 404
	app.Get("/healthz", func(c *fiber.Ctx) error { return c.JSON(fiber.Map{"ok": true}) })
	app.Use(func(c *fiber.Ctx) error {
		return c.Status(fiber.StatusNotFound).Render("notfound", fiber.Map{"Message": "Page not found"})
	})

	log.Fatal(app.Listen(":" + cfg.Port))
}
