package subscription

import (
	"errors"
	"fmt"
	"os"
	"slices"

	"gopkg.in/yaml.v3"
)

// Catalog is the immutable set of plans offered by the product. It is built
// once at process start and only ever read afterwards, so no locking is
// needed.
type Catalog struct {
	plans map[string]Plan
	order []string
}

// NewCatalog validates the given plans and builds a catalog from them.
// Plan order is preserved for display purposes.
func NewCatalog(plans []Plan) (*Catalog, error) {
	if len(plans) == 0 {
		return nil, errors.Join(ErrInvalidCatalog, errors.New("at least one plan is required"))
	}

	c := &Catalog{
		plans: make(map[string]Plan, len(plans)),
		order: make([]string, 0, len(plans)),
	}

	for _, plan := range plans {
		if plan.ID == "" {
			return nil, errors.Join(ErrInvalidCatalog, errors.New("plan with empty ID"))
		}
		if _, exists := c.plans[plan.ID]; exists {
			return nil, errors.Join(ErrInvalidCatalog, fmt.Errorf("duplicate plan ID %q", plan.ID))
		}
		if plan.Price.Amount < 0 {
			return nil, errors.Join(ErrInvalidCatalog, fmt.Errorf("plan %q has negative price", plan.ID))
		}
		if plan.Period != PeriodMonth && plan.Period != PeriodYear {
			return nil, errors.Join(ErrInvalidCatalog, fmt.Errorf("plan %q has invalid billing period %q", plan.ID, plan.Period))
		}
		if !plan.IsFree() && plan.PriceID == "" {
			return nil, errors.Join(ErrInvalidCatalog, fmt.Errorf("paid plan %q has no processor price ID", plan.ID))
		}

		p := plan
		p.Features = slices.Clone(plan.Features)
		c.plans[p.ID] = p
		c.order = append(c.order, p.ID)
	}

	return c, nil
}

// LoadCatalogFile reads a plan catalog from a YAML file. The file is read
// exactly once at startup; the catalog never changes while running.
func LoadCatalogFile(path string) (*Catalog, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Join(ErrInvalidCatalog, err)
	}

	var doc struct {
		Plans []Plan `yaml:"plans"`
	}
	if err := yaml.Unmarshal(raw, &doc); err != nil {
		return nil, errors.Join(ErrInvalidCatalog, err)
	}

	return NewCatalog(doc.Plans)
}

// Get returns the plan with the given catalog ID.
func (c *Catalog) Get(id string) (Plan, error) {
	plan, ok := c.plans[id]
	if !ok {
		return Plan{}, ErrPlanNotFound
	}
	return plan, nil
}

// List returns all plans in catalog order.
func (c *Catalog) List() []Plan {
	out := make([]Plan, 0, len(c.order))
	for _, id := range c.order {
		out = append(out, c.plans[id])
	}
	return out
}

// Len returns the number of plans in the catalog.
func (c *Catalog) Len() int {
	return len(c.plans)
}
