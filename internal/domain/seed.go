package domain

// DefaultListings seeds an empty showroom on first start so the public pages
// have something to show before an admin registers real assets.
func DefaultListings() []Listing {
	drafts := []struct {
		id string
		d  ListingDraft
	}{
		{
			id: "seed-cryptopulse",
			d: ListingDraft{
				Name:           "CryptoPulse",
				URL:            "https://cryptopulse.example.com",
				Description:    "Subscription crypto portfolio alerts with 1.2k paying users.",
				Category:       CategoryFinance,
				Price:          48000,
				MonthlyProfit:  1600,
				MonthlyRevenue: 2400,
				MonthlyTraffic: 38000,
				TechStack:      []string{"Next.js", "PostgreSQL", "Stripe"},
				Age:            "2 years",
				Performance: []PerformancePoint{
					{Month: "Jan", Revenue: 2100, Visitors: 31000},
					{Month: "Feb", Revenue: 2150, Visitors: 32500},
					{Month: "Mar", Revenue: 2300, Visitors: 34000},
					{Month: "Apr", Revenue: 2250, Visitors: 36000},
					{Month: "May", Revenue: 2380, Visitors: 37000},
					{Month: "Jun", Revenue: 2400, Visitors: 38000},
				},
			},
		},
		{
			id: "seed-recipenest",
			d: ListingDraft{
				Name:           "RecipeNest",
				URL:            "https://recipenest.example.com",
				Description:    "Ad-monetized recipe content site ranking for 4k keywords.",
				Category:       CategoryContent,
				Price:          12500,
				MonthlyProfit:  520,
				MonthlyRevenue: 610,
				MonthlyTraffic: 95000,
				TechStack:      []string{"WordPress", "Cloudflare"},
				Age:            "4 years",
			},
		},
		{
			id: "seed-formforge",
			d: ListingDraft{
				Name:           "FormForge",
				URL:            "https://formforge.example.com",
				Description:    "Self-serve form builder SaaS, freemium with 300 paid seats.",
				Category:       CategorySaaS,
				Price:          30000,
				MonthlyProfit:  900,
				MonthlyRevenue: 1250,
				MonthlyTraffic: 21000,
				TechStack:      []string{"Go", "SQLite", "Tailwind"},
				Age:            "18 months",
			},
		},
	}

	out := make([]Listing, 0, len(drafts))
	for _, s := range drafts {
		out = append(out, s.d.Existing(s.id))
	}
	return out
}
