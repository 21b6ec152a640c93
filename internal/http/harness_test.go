package handlers_test

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gofiber/fiber/v2"
	html "github.com/gofiber/template/html/v2"

	"showroom/internal/assist"
	"showroom/internal/domain"
	"showroom/internal/http/handlers"
	"showroom/internal/persist"
	"showroom/internal/services"
	"showroom/internal/store"
)

// testApp wires the full route surface over in-memory sqlite and an offline
// assistant, close to what cmd/showroom builds but without the global
// limiter so tests are not throttled by each other.
type testApp struct {
	app      *fiber.App
	listings *services.ListingService
	subs     *services.SubmissionService
	auth     *services.AuthService
}

func newTestApp(t *testing.T) *testApp {
	t.Helper()
	ctx := context.Background()

	kv, err := persist.OpenKV(":memory:", 0)
	if err != nil {
		t.Fatalf("open kv: %v", err)
	}
	t.Cleanup(func() { _ = kv.Close() })

	listingRec := store.NewReconciler("listings", store.NewCollection[domain.Listing](),
		persist.NewLocal[domain.Listing](kv, "listings"))
	submissionRec := store.NewReconciler("submissions", store.NewCollection[domain.Submission](),
		persist.NewLocal[domain.Submission](kv, "submissions"))
	if err := listingRec.Start(ctx); err != nil {
		t.Fatalf("start listings: %v", err)
	}
	t.Cleanup(listingRec.Stop)
	if err := submissionRec.Start(ctx); err != nil {
		t.Fatalf("start submissions: %v", err)
	}
	t.Cleanup(submissionRec.Stop)

	listingSvc := services.NewListingService(listingRec)
	submissionSvc := services.NewSubmissionService(submissionRec)

	authSvc, err := services.NewAuthService("admin@showroom.test", "Passw0rd!!")
	if err != nil {
		t.Fatalf("auth service: %v", err)
	}
	gateway, err := assist.New(ctx, "", "")
	if err != nil {
		t.Fatalf("assist gateway: %v", err)
	}

	engine := html.New("../../web/templates", ".html")
	app := fiber.New(fiber.Config{Views: engine})

	deps := handlers.NewDeps(listingSvc, submissionSvc, gateway)
	authH := &handlers.AuthHandler{Auth: authSvc}

	app.Get("/", deps.ShowroomHandler.Home)
	app.Get("/showroom", deps.ShowroomHandler.Showroom)
	app.Get("/listing/:id", deps.ShowroomHandler.Detail)
	app.Get("/contact", deps.ContactHandler.Form)
	app.Post("/contact", deps.ContactHandler.Submit)

	api := app.Group("/api/v1")
	api.Get("/listings", deps.ShowroomHandler.ListJSON)
	api.Get("/listings/:id", deps.ShowroomHandler.GetJSON)
	api.Post("/assistant/summary/:id", deps.AssistantHandler.Summary)
	api.Post("/assistant/chat", deps.AssistantHandler.Chat)

	app.Get("/login", authH.LoginForm)
	app.Post("/login", authH.Login)
	app.Post("/logout", authH.Logout)

	admin := app.Group("/admin", handlers.RequireAdmin(authSvc))
	admin.Get("/", deps.AdminHandler.Dashboard)
	admin.Post("/listings", deps.AdminHandler.CreateListing)
	admin.Post("/listings/:id", deps.AdminHandler.UpdateListing)
	admin.Post("/listings/:id/delete", deps.AdminHandler.DeleteListing)
	admin.Get("/submissions", deps.AdminHandler.Submissions)
	admin.Post("/submissions/:id/delete", deps.AdminHandler.DeleteSubmission)

	return &testApp{app: app, listings: listingSvc, subs: submissionSvc, auth: authSvc}
}

// seedListing puts one listing into the test store directly.
func (ta *testApp) seedListing(t *testing.T, name string, category domain.Category, price, profit float64) domain.Listing {
	t.Helper()
	l, err := ta.listings.Create(context.Background(), domain.ListingDraft{
		Name:          name,
		URL:           "https://" + name + ".example.com",
		Description:   name + " description",
		Category:      category,
		Price:         price,
		MonthlyProfit: profit,
	})
	if err != nil {
		t.Fatalf("seed listing %s: %v", name, err)
	}
	return l
}

// adminCookie logs in through the real handler and returns the session
// cookie for subsequent admin requests.
func (ta *testApp) adminCookie(t *testing.T) *http.Cookie {
	t.Helper()
	resp := post(t, ta.app, "/login", "email=admin@showroom.test&password=Passw0rd!!", nil)
	if resp.StatusCode != http.StatusFound {
		t.Fatalf("login: expected redirect, got %d", resp.StatusCode)
	}
	for _, c := range resp.Cookies() {
		if c.Name == "sid" {
			return c
		}
	}
	t.Fatal("login set no sid cookie")
	return nil
}

func get(t *testing.T, app *fiber.App, path string, cookies ...*http.Cookie) *http.Response {
	t.Helper()
	req := httptest.NewRequest("GET", path, nil)
	for _, c := range cookies {
		req.AddCookie(c)
	}
	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("GET %s: %v", path, err)
	}
	return resp
}

func post(t *testing.T, app *fiber.App, path, form string, cookie *http.Cookie) *http.Response {
	t.Helper()
	req := httptest.NewRequest("POST", path, strings.NewReader(form))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	if cookie != nil {
		req.AddCookie(cookie)
	}
	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("POST %s: %v", path, err)
	}
	return resp
}

func postJSON(t *testing.T, app *fiber.App, path, body string) *http.Response {
	t.Helper()
	req := httptest.NewRequest("POST", path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("POST %s: %v", path, err)
	}
	return resp
}

func bodyOf(t *testing.T, resp *http.Response) string {
	t.Helper()
	b, err := io.ReadAll(resp.Body)
	if err != nil {
		t.Fatalf("read body: %v", err)
	}
	return string(b)
}
