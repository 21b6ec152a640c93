// Package view derives the filtered, sorted, read-only listing sequence the
// showroom pages render. Projection is a pure function of (listings,
// criteria) and is memoized against the store version, so unchanged inputs
// never recompute.
package view

import (
	"sort"
	"sync"

	"showroom/internal/domain"
)

type SortMode string

const (
	SortNewest    SortMode = "newest"
	SortPriceHigh SortMode = "price_high"
	SortPriceLow  SortMode = "price_low"
)

func (m SortMode) Valid() bool {
	return m == SortNewest || m == SortPriceHigh || m == SortPriceLow
}

// CategoryAll passes every listing through the filter.
const CategoryAll = "All"

// Criteria is UI-local view state. It is never persisted.
type Criteria struct {
	Category string
	Sort     SortMode
}

// Normalize maps empty or unknown values to the defaults.
func (c Criteria) Normalize() Criteria {
	if c.Category == "" || (c.Category != CategoryAll && !domain.Category(c.Category).Valid()) {
		c.Category = CategoryAll
	}
	if !c.Sort.Valid() {
		c.Sort = SortNewest
	}
	return c
}

type Projector struct {
	mu       sync.Mutex
	version  uint64
	criteria Criteria
	cached   []domain.Listing
	primed   bool
}

func NewProjector() *Projector {
	return &Projector{}
}

// Project returns the listings matching the criteria, sorted. version is the
// store version the input snapshot reflects; a repeated call with the same
// version and criteria returns the cached result without recomputing. The
// input is never mutated.
func (p *Projector) Project(listings []domain.Listing, version uint64, crit Criteria) []domain.Listing {
	crit = crit.Normalize()

	p.mu.Lock()
	defer p.mu.Unlock()
	if p.primed && p.version == version && p.criteria == crit {
		return p.cached
	}

	out := project(listings, crit)
	p.version = version
	p.criteria = crit
	p.cached = out
	p.primed = true
	return out
}

func project(listings []domain.Listing, crit Criteria) []domain.Listing {
	out := make([]domain.Listing, 0, len(listings))
	for _, l := range listings {
		if crit.Category == CategoryAll || string(l.Category) == crit.Category {
			out = append(out, l)
		}
	}

	// Newest keeps the store's insertion order. The price sorts must be
	// stable: ties preserve the pre-sort order.
	switch crit.Sort {
	case SortPriceHigh:
		sort.SliceStable(out, func(i, j int) bool { return out[i].Price > out[j].Price })
	case SortPriceLow:
		sort.SliceStable(out, func(i, j int) bool { return out[i].Price < out[j].Price })
	}
	return out
}
