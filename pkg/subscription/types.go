package subscription

// Money represents a monetary amount in the smallest currency unit.
// For example, $9.99 USD is Amount: 999, Currency: "USD".
type Money struct {
	Amount   int64  `json:"amount" yaml:"amount"`   // amount in smallest currency unit (cents for USD)
	Currency string `json:"currency" yaml:"currency"` // ISO 4217 currency code
}

// BillingPeriod represents the billing frequency for a subscription plan.
type BillingPeriod string

const (
	PeriodMonth BillingPeriod = "month"
	PeriodYear  BillingPeriod = "year"
)

// Status mirrors the processor-defined subscription state. It is projected
// onto the store verbatim and never reinterpreted locally.
type Status string

const (
	StatusIncomplete Status = "incomplete"
	StatusTrialing   Status = "trialing"
	StatusActive     Status = "active"
	StatusPastDue    Status = "past_due"
	StatusCanceled   Status = "canceled"
	StatusUnpaid     Status = "unpaid"
)

// Principal is the authenticated user on whose behalf checkout is initiated.
// It is supplied by the external identity subsystem and never created here.
type Principal struct {
	ID    string
	Email string
}

// IsAuthenticated reports whether the principal carries a usable identity.
func (p Principal) IsAuthenticated() bool {
	return p.ID != "" && p.Email != ""
}
