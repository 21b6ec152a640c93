package domain

import "math"

// Category buckets a listing for filtering in the showroom.
type Category string

const (
	CategorySaaS        Category = "SaaS"
	CategoryContent     Category = "Content"
	CategoryEcommerce   Category = "E-commerce"
	CategoryTool        Category = "Tool"
	CategoryMarketplace Category = "Marketplace"
	CategoryFinance     Category = "Finance"
)

// Categories lists every valid category, in display order.
var Categories = []Category{
	CategorySaaS, CategoryContent, CategoryEcommerce,
	CategoryTool, CategoryMarketplace, CategoryFinance,
}

func (c Category) Valid() bool {
	for _, v := range Categories {
		if c == v {
			return true
		}
	}
	return false
}

// PerformancePoint is one month of revenue/traffic history.
type PerformancePoint struct {
	Month    string  `json:"month"`
	Revenue  float64 `json:"revenue"`
	Visitors int     `json:"visitors"`
}

// Listing is a website asset offered for sale in the showroom.
// JSON field names match the persisted snapshot shape, so a stored
// collection round-trips field-for-field.
type Listing struct {
	ID             string             `json:"id"`
	Name           string             `json:"name"`
	URL            string             `json:"url"`
	Description    string             `json:"description"`
	Category       Category           `json:"category"`
	Price          float64            `json:"price"`
	MonthlyRevenue float64            `json:"monthlyRevenue"`
	MonthlyProfit  float64            `json:"monthlyProfit"`
	MonthlyTraffic float64            `json:"monthlyTraffic"`
	TechStack      []string           `json:"techStack"`
	Image          string             `json:"image"`
	Performance    []PerformancePoint `json:"performance"`
	Age            string             `json:"age"`
	AskingMultiple float64            `json:"askingMultiple"`
}

// Key returns the stable identity used by the store and adapters.
func (l Listing) Key() string { return l.ID }

// AskingMultiple derives price as a multiple of monthly profit, rounded to
// two decimals. Zero profit yields zero; the field is never edited directly.
func AskingMultiple(price, monthlyProfit float64) float64 {
	if monthlyProfit <= 0 {
		return 0
	}
	return math.Round(price/monthlyProfit*100) / 100
}
