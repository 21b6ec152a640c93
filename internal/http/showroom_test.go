package handlers_test

import (
	"encoding/json"
	"net/http"
	"strings"
	"testing"

	"showroom/internal/domain"
)

func TestHomePage(t *testing.T) {
	ta := newTestApp(t)
	ta.seedListing(t, "cryptopulse", domain.CategorySaaS, 12000, 400)

	resp := get(t, ta.app, "/")
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}
	body := bodyOf(t, resp)
	if !strings.Contains(body, "cryptopulse") {
		t.Fatal("home page missing featured listing")
	}
}

func TestShowroomFilterAndSort(t *testing.T) {
	ta := newTestApp(t)
	ta.seedListing(t, "alpha", domain.CategorySaaS, 100, 10)
	ta.seedListing(t, "beta", domain.CategoryTool, 50, 10)
	ta.seedListing(t, "gamma", domain.CategorySaaS, 200, 10)

	resp := get(t, ta.app, "/showroom?category=SaaS")
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}
	body := bodyOf(t, resp)
	if !strings.Contains(body, "alpha") || !strings.Contains(body, "gamma") {
		t.Fatal("SaaS listings missing from filtered page")
	}
	if strings.Contains(body, "beta") {
		t.Fatal("Tool listing leaked through SaaS filter")
	}

	// An unknown category falls back to All rather than erroring.
	resp = get(t, ta.app, "/showroom?category=Bogus")
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200 for unknown category, got %d", resp.StatusCode)
	}
	if body = bodyOf(t, resp); !strings.Contains(body, "beta") {
		t.Fatal("unknown category should show everything")
	}
}

func TestListingDetail(t *testing.T) {
	ta := newTestApp(t)
	l := ta.seedListing(t, "recipenest", domain.CategoryContent, 800, 200)

	resp := get(t, ta.app, "/listing/"+l.ID)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}
	if body := bodyOf(t, resp); !strings.Contains(body, "recipenest") {
		t.Fatal("detail page missing listing name")
	}

	resp = get(t, ta.app, "/listing/nope")
	if resp.StatusCode != http.StatusNotFound {
		t.Fatalf("expected 404 for unknown listing, got %d", resp.StatusCode)
	}
}

func TestListingsJSON(t *testing.T) {
	ta := newTestApp(t)
	ta.seedListing(t, "alpha", domain.CategorySaaS, 100, 10)
	ta.seedListing(t, "gamma", domain.CategorySaaS, 200, 10)

	resp := get(t, ta.app, "/api/v1/listings?category=SaaS&sort=price_high")
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}
	var got []domain.Listing
	if err := json.NewDecoder(resp.Body).Decode(&got); err != nil {
		t.Fatalf("decode listings: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("expected 2 listings, got %d", len(got))
	}
	if got[0].Name != "gamma" || got[1].Name != "alpha" {
		t.Fatalf("price_high order wrong: %s, %s", got[0].Name, got[1].Name)
	}
	if got[0].AskingMultiple != 20 {
		t.Fatalf("askingMultiple wrong: %v", got[0].AskingMultiple)
	}
}

func TestListingJSONByID(t *testing.T) {
	ta := newTestApp(t)
	l := ta.seedListing(t, "formforge", domain.CategoryTool, 500, 100)

	resp := get(t, ta.app, "/api/v1/listings/"+l.ID)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}
	var got domain.Listing
	if err := json.NewDecoder(resp.Body).Decode(&got); err != nil {
		t.Fatalf("decode listing: %v", err)
	}
	if got.ID != l.ID || got.Name != "formforge" {
		t.Fatalf("wrong listing back: %+v", got)
	}

	resp = get(t, ta.app, "/api/v1/listings/missing")
	if resp.StatusCode != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", resp.StatusCode)
	}
}
