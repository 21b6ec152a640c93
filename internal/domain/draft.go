package domain

import (
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
)

// ListingDraft is the admin-edit form of a listing: required fields are
// plain, everything optional is defaulted by Complete. A draft never reaches
// the store directly; it is validated and completed into a Listing first.
type ListingDraft struct {
	Name           string   `json:"name"`
	URL            string   `json:"url"`
	Description    string   `json:"description"`
	Category       Category `json:"category"`
	Price          float64  `json:"price"`
	MonthlyProfit  float64  `json:"monthlyProfit"`
	MonthlyRevenue float64  `json:"monthlyRevenue"`
	MonthlyTraffic float64  `json:"monthlyTraffic"`

	// Optional; defaulted when empty.
	TechStack   []string           `json:"techStack,omitempty"`
	Image       string             `json:"image,omitempty"`
	Performance []PerformancePoint `json:"performance,omitempty"`
	Age         string             `json:"age,omitempty"`
}

var ErrInvalidDraft = errors.New("invalid listing draft")

// Validate checks required fields and value ranges.
func (d ListingDraft) Validate() error {
	var problems []string
	if strings.TrimSpace(d.Name) == "" {
		problems = append(problems, "name is required")
	}
	if strings.TrimSpace(d.URL) == "" {
		problems = append(problems, "url is required")
	}
	if strings.TrimSpace(d.Description) == "" {
		problems = append(problems, "description is required")
	}
	if !d.Category.Valid() {
		problems = append(problems, fmt.Sprintf("unknown category %q", d.Category))
	}
	if d.Price < 0 {
		problems = append(problems, "price must be non-negative")
	}
	if d.MonthlyRevenue < 0 || d.MonthlyProfit < 0 || d.MonthlyTraffic < 0 {
		problems = append(problems, "monthly figures must be non-negative")
	}
	if len(d.Performance) != 0 && len(d.Performance) != 6 {
		problems = append(problems, "performance history must cover six months")
	}
	if len(problems) > 0 {
		return fmt.Errorf("%w: %s", ErrInvalidDraft, strings.Join(problems, "; "))
	}
	return nil
}

// Complete fills defaults and derives AskingMultiple, producing a full
// Listing with a fresh id. Existing() does the same against a known id.
func (d ListingDraft) Complete() Listing {
	return d.Existing(uuid.NewString())
}

// Existing builds the completed Listing under an already-assigned id, used
// when an admin edit replaces a stored entry.
func (d ListingDraft) Existing(id string) Listing {
	l := Listing{
		ID:             id,
		Name:           strings.TrimSpace(d.Name),
		URL:            strings.TrimSpace(d.URL),
		Description:    strings.TrimSpace(d.Description),
		Category:       d.Category,
		Price:          d.Price,
		MonthlyRevenue: d.MonthlyRevenue,
		MonthlyProfit:  d.MonthlyProfit,
		MonthlyTraffic: d.MonthlyTraffic,
		TechStack:      append([]string(nil), d.TechStack...),
		Image:          d.Image,
		Performance:    append([]PerformancePoint(nil), d.Performance...),
		Age:            d.Age,
		AskingMultiple: AskingMultiple(d.Price, d.MonthlyProfit),
	}
	if l.Image == "" {
		l.Image = "https://picsum.photos/seed/" + id + "/800/450"
	}
	if l.Age == "" {
		l.Age = "Brand New"
	}
	if len(l.Performance) == 0 {
		l.Performance = EmptyPerformance()
	}
	return l
}

// EmptyPerformance returns the default six-month zeroed history.
func EmptyPerformance() []PerformancePoint {
	months := []string{"Jan", "Feb", "Mar", "Apr", "May", "Jun"}
	pts := make([]PerformancePoint, len(months))
	for i, m := range months {
		pts[i] = PerformancePoint{Month: m}
	}
	return pts
}
