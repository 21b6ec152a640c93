package services_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"showroom/internal/domain"
	"showroom/internal/persist"
	"showroom/internal/services"
	"showroom/internal/store"
	"showroom/internal/view"
)

func newListingService(t *testing.T) *services.ListingService {
	t.Helper()
	kv, err := persist.OpenKV(":memory:", 0)
	require.NoError(t, err)
	t.Cleanup(func() { _ = kv.Close() })

	rec := store.NewReconciler("listings", store.NewCollection[domain.Listing](),
		persist.NewLocal[domain.Listing](kv, "listings"))
	require.NoError(t, rec.Start(context.Background()))
	t.Cleanup(rec.Stop)
	return services.NewListingService(rec)
}

func draft(name string, category domain.Category, price, profit float64) domain.ListingDraft {
	return domain.ListingDraft{
		Name:          name,
		URL:           "https://example.com/" + name,
		Description:   name + " description",
		Category:      category,
		Price:         price,
		MonthlyProfit: profit,
	}
}

func TestCreateCompletesDraft(t *testing.T) {
	svc := newListingService(t)

	l, err := svc.Create(context.Background(), draft("cryptopulse", domain.CategorySaaS, 1200, 300))
	require.NoError(t, err)
	assert.NotEmpty(t, l.ID)
	assert.Equal(t, 4.0, l.AskingMultiple)
	assert.NotEmpty(t, l.Image)
	assert.Len(t, l.Performance, 6)

	got, ok := svc.Get(l.ID)
	require.True(t, ok)
	assert.Equal(t, l, got)
}

func TestCreateRejectsInvalidDraft(t *testing.T) {
	svc := newListingService(t)

	bad := draft("", domain.CategorySaaS, 100, 10)
	_, err := svc.Create(context.Background(), bad)
	require.ErrorIs(t, err, domain.ErrInvalidDraft)
	assert.Equal(t, 0, svc.Count())
}

func TestUpdateKeepsIDAndFillsOptionals(t *testing.T) {
	ctx := context.Background()
	svc := newListingService(t)

	l, err := svc.Create(ctx, draft("recipenest", domain.CategoryContent, 800, 200))
	require.NoError(t, err)

	d := draft("recipenest v2", domain.CategoryContent, 1000, 250)
	updated, err := svc.Update(ctx, l.ID, d)
	require.NoError(t, err)
	assert.Equal(t, l.ID, updated.ID)
	assert.Equal(t, "recipenest v2", updated.Name)
	assert.Equal(t, 4.0, updated.AskingMultiple)
	// Optionals the form left blank keep their current values.
	assert.Equal(t, l.Image, updated.Image)
	assert.Equal(t, l.Age, updated.Age)
	assert.Equal(t, 1, svc.Count())
}

func TestUpdateUnknownID(t *testing.T) {
	svc := newListingService(t)
	_, err := svc.Update(context.Background(), "missing", draft("x", domain.CategoryTool, 1, 1))
	require.ErrorIs(t, err, store.ErrNotFound)
}

func TestDeleteIsTerminal(t *testing.T) {
	ctx := context.Background()
	svc := newListingService(t)

	l, err := svc.Create(ctx, draft("formforge", domain.CategoryTool, 500, 100))
	require.NoError(t, err)
	require.NoError(t, svc.Delete(ctx, l.ID))
	_, ok := svc.Get(l.ID)
	assert.False(t, ok)
	// Deleting again is a quiet no-op.
	require.NoError(t, svc.Delete(ctx, l.ID))
}

func TestBrowseFiltersAndSorts(t *testing.T) {
	ctx := context.Background()
	svc := newListingService(t)

	_, err := svc.Create(ctx, draft("a", domain.CategorySaaS, 100, 10))
	require.NoError(t, err)
	_, err = svc.Create(ctx, draft("b", domain.CategoryTool, 50, 10))
	require.NoError(t, err)
	_, err = svc.Create(ctx, draft("c", domain.CategorySaaS, 200, 10))
	require.NoError(t, err)

	saas := svc.Browse(view.Criteria{Category: string(domain.CategorySaaS), Sort: view.SortPriceHigh})
	require.Len(t, saas, 2)
	assert.Equal(t, "c", saas[0].Name)
	assert.Equal(t, "a", saas[1].Name)

	all := svc.Browse(view.Criteria{Category: view.CategoryAll, Sort: view.SortNewest})
	require.Len(t, all, 3)
	assert.Equal(t, "c", all[0].Name)
}

func TestSeedIfEmpty(t *testing.T) {
	ctx := context.Background()
	svc := newListingService(t)

	require.NoError(t, svc.SeedIfEmpty(ctx))
	seeded := svc.Count()
	assert.Equal(t, len(domain.DefaultListings()), seeded)

	// Seeding an already-populated showroom does nothing.
	require.NoError(t, svc.SeedIfEmpty(ctx))
	assert.Equal(t, seeded, svc.Count())
}

func TestSubmissionLifecycle(t *testing.T) {
	ctx := context.Background()
	kv, err := persist.OpenKV(":memory:", 0)
	require.NoError(t, err)
	t.Cleanup(func() { _ = kv.Close() })

	rec := store.NewReconciler("submissions", store.NewCollection[domain.Submission](),
		persist.NewLocal[domain.Submission](kv, "submissions"))
	require.NoError(t, rec.Start(ctx))
	t.Cleanup(rec.Stop)
	svc := services.NewSubmissionService(rec)

	first, err := svc.Submit(ctx, "Ada", "ada@example.com", "Interested in CryptoPulse.")
	require.NoError(t, err)
	second, err := svc.Submit(ctx, "Lin", "lin@example.com", "What is the churn rate?")
	require.NoError(t, err)

	got := svc.List()
	require.Len(t, got, 2)
	assert.Equal(t, second.ID, got[0].ID)
	assert.Equal(t, first.ID, got[1].ID)
	assert.False(t, got[0].Timestamp.IsZero())

	require.NoError(t, svc.Delete(ctx, first.ID))
	assert.Len(t, svc.List(), 1)
}
