package subscription

// PlanFeature is a named capability line on a pricing card. Order matters
// for display, so features are kept as a slice rather than a map.
type PlanFeature struct {
	Name     string `json:"name" yaml:"name"`
	Included bool   `json:"included" yaml:"included"`
}

// Plan describes a subscription plan as presented to users.
//
// ID is the catalog identifier (e.g. "premium"); PriceID is the processor's
// price identifier (e.g. "price_1Abc..."). The two are correlated by
// deployment configuration, not derived from each other: the catalog ID is
// passed to the processor only as opaque metadata.
type Plan struct {
	ID          string        `json:"id" yaml:"id"`
	Name        string        `json:"name" yaml:"name"`
	Description string        `json:"description" yaml:"description"`
	Price       Money         `json:"price" yaml:"price"`
	Period      BillingPeriod `json:"period" yaml:"period"`
	PriceID     string        `json:"-" yaml:"price_id"`
	Features    []PlanFeature `json:"features" yaml:"features"`
	MostPopular bool          `json:"most_popular" yaml:"most_popular"`
	Savings     string        `json:"savings,omitempty" yaml:"savings"` // promo label, e.g. "Save 20%"
}

// IsFree reports whether the plan requires no payment. Free plans have no
// processor price and never reach checkout.
func (p Plan) IsFree() bool {
	return p.Price.Amount == 0
}
