package services

import (
	"context"

	"showroom/internal/domain"
	"showroom/internal/store"
	"showroom/internal/view"
)

// ListingService owns admin mutations and public reads of the showroom
// collection. Mutations go through the reconciler (optimistic local apply,
// then durability); reads go through the projector.
type ListingService struct {
	rec  *store.Reconciler[domain.Listing]
	proj *view.Projector
}

func NewListingService(rec *store.Reconciler[domain.Listing]) *ListingService {
	return &ListingService{rec: rec, proj: view.NewProjector()}
}

// Browse returns the filtered, sorted view of the showroom.
func (s *ListingService) Browse(crit view.Criteria) []domain.Listing {
	snap, version := s.rec.Collection().SnapshotVersion()
	return s.proj.Project(snap, version, crit)
}

func (s *ListingService) Get(id string) (domain.Listing, bool) {
	return s.rec.Collection().Get(id)
}

func (s *ListingService) Count() int {
	return s.rec.Collection().Len()
}

// Create validates and completes the draft into a full listing with a fresh
// id, then stores it. On a persistence error the returned listing is already
// live in memory; the caller surfaces the warning.
func (s *ListingService) Create(ctx context.Context, d domain.ListingDraft) (domain.Listing, error) {
	if err := d.Validate(); err != nil {
		return domain.Listing{}, err
	}
	l := d.Complete()
	return l, s.rec.Create(ctx, l)
}

// Update replaces the listing under its existing id, recomputing the asking
// multiple. Optional draft fields left empty keep their current values.
func (s *ListingService) Update(ctx context.Context, id string, d domain.ListingDraft) (domain.Listing, error) {
	cur, ok := s.rec.Collection().Get(id)
	if !ok {
		return domain.Listing{}, store.ErrNotFound
	}
	if d.Image == "" {
		d.Image = cur.Image
	}
	if d.Age == "" {
		d.Age = cur.Age
	}
	if len(d.TechStack) == 0 {
		d.TechStack = cur.TechStack
	}
	if len(d.Performance) == 0 {
		d.Performance = cur.Performance
	}
	if err := d.Validate(); err != nil {
		return domain.Listing{}, err
	}
	l := d.Existing(id)
	return l, s.rec.Modify(ctx, l)
}

// Delete is terminal: the listing is removed locally and from durable state.
func (s *ListingService) Delete(ctx context.Context, id string) error {
	return s.rec.Drop(ctx, id)
}

// SeedIfEmpty populates a brand-new deployment with the default showroom so
// the public pages are not blank before the first admin session.
func (s *ListingService) SeedIfEmpty(ctx context.Context) error {
	if s.rec.Collection().Len() > 0 {
		return nil
	}
	for _, l := range domain.DefaultListings() {
		if err := s.rec.Create(ctx, l); err != nil {
			return err
		}
	}
	return nil
}
