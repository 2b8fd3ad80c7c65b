package subscription

// DefaultPlans returns the built-in plan set used when no catalog file is
// configured. Processor price IDs here are the sandbox defaults; production
// deployments supply their own catalog file with live price IDs.
func DefaultPlans() []Plan {
	return []Plan{
		{
			ID:          "free",
			Name:        "Free",
			Description: "Basic access to educational content",
			Price:       Money{Amount: 0, Currency: "USD"},
			Period:      PeriodMonth,
			Features: []PlanFeature{
				{Name: "Access to 4 games", Included: true},
				{Name: "Basic activities", Included: true},
				{Name: "Single child profile", Included: true},
				{Name: "Basic progress tracking", Included: true},
				{Name: "Premium games", Included: false},
				{Name: "No ads", Included: false},
				{Name: "Offline mode", Included: false},
				{Name: "Multiple child profiles", Included: false},
				{Name: "Advanced progress reports", Included: false},
				{Name: "Printable worksheets", Included: false},
			},
		},
		{
			ID:          "basic",
			Name:        "Basic",
			Description: "Perfect for casual learners",
			Price:       Money{Amount: 599, Currency: "USD"},
			Period:      PeriodMonth,
			PriceID:     "price_basic_monthly",
			Features: []PlanFeature{
				{Name: "Access to all games", Included: true},
				{Name: "All basic activities", Included: true},
				{Name: "Up to 2 child profiles", Included: true},
				{Name: "Standard progress tracking", Included: true},
				{Name: "Ad-free experience", Included: true},
				{Name: "Some printable worksheets", Included: true},
				{Name: "Premium games", Included: true},
				{Name: "Offline mode", Included: false},
				{Name: "Advanced progress reports", Included: false},
				{Name: "Priority support", Included: false},
			},
		},
		{
			ID:          "premium",
			Name:        "Premium",
			Description: "The complete educational experience",
			Price:       Money{Amount: 999, Currency: "USD"},
			Period:      PeriodMonth,
			PriceID:     "price_premium_monthly",
			MostPopular: true,
			Features: []PlanFeature{
				{Name: "Access to all games", Included: true},
				{Name: "All activities and worksheets", Included: true},
				{Name: "Up to 5 child profiles", Included: true},
				{Name: "Detailed progress analytics", Included: true},
				{Name: "Ad-free experience", Included: true},
				{Name: "Offline mode for selected games", Included: true},
				{Name: "Early access to new content", Included: true},
				{Name: "Parent resource guides", Included: true},
				{Name: "Teacher dashboard", Included: true},
				{Name: "Priority support", Included: true},
			},
		},
		{
			ID:          "premium-annual",
			Name:        "Premium Annual",
			Description: "Our best value option",
			Price:       Money{Amount: 9588, Currency: "USD"},
			Period:      PeriodYear,
			PriceID:     "price_premium_annual",
			Savings:     "Save 20%",
			Features: []PlanFeature{
				{Name: "All Premium features", Included: true},
				{Name: "Unlimited child profiles", Included: true},
				{Name: "Priority access to new games", Included: true},
				{Name: "Quarterly parent webinars", Included: true},
				{Name: "Custom learning paths", Included: true},
			},
		},
	}
}
