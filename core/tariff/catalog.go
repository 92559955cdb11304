package tariff

import (
	"strings"

	"phone-bill/core/types"
	"phone-bill/internal/errors"
)

// Catalog is an immutable, ordered set of tariff plans
type Catalog struct {
	plans   []types.TariffPlan
	byKey   map[string]int
	aliases map[string]types.PlanID
}

// NewCatalog validates plans and indexes them by ID and label.
// Duplicate IDs are rejected.
func NewCatalog(plans []types.TariffPlan) (*Catalog, error) {
	if len(plans) == 0 {
		return nil, errors.Input("catalog must contain at least one plan")
	}

	c := &Catalog{
		plans:   make([]types.TariffPlan, 0, len(plans)),
		byKey:   make(map[string]int, len(plans)*2),
		aliases: make(map[string]types.PlanID),
	}

	for _, p := range plans {
		if strings.TrimSpace(string(p.ID)) == "" {
			return nil, errors.Input("plan id is required")
		}
		if err := p.Validate(); err != nil {
			return nil, err
		}

		idKey := normalize(string(p.ID))
		if _, dup := c.byKey[idKey]; dup {
			return nil, errors.Newf(errors.TypeInput, "duplicate plan id: %s", p.ID)
		}
		c.byKey[idKey] = len(c.plans)
		c.plans = append(c.plans, p)
	}

	// Labels resolve only when they do not shadow an ID
	for i, p := range c.plans {
		if p.Label == "" {
			continue
		}
		if _, taken := c.byKey[normalize(p.Label)]; !taken {
			c.byKey[normalize(p.Label)] = i
		}
	}

	for alias, id := range presetAliases {
		if _, ok := c.byKey[string(id)]; ok {
			c.aliases[alias] = id
		}
	}

	return c, nil
}

// DefaultCatalog returns the catalog of preset plans
func DefaultCatalog() *Catalog {
	c, err := NewCatalog(Presets())
	if err != nil {
		panic("invalid preset plans: " + err.Error())
	}
	return c
}

// Lookup resolves a plan by ID, label or preset alias, case-insensitively
func (c *Catalog) Lookup(selection string) (types.TariffPlan, error) {
	key := normalize(selection)
	if key == "" {
		return types.TariffPlan{}, errors.Input("select a tariff plan")
	}

	if i, ok := c.byKey[key]; ok {
		return c.plans[i], nil
	}
	if id, ok := c.aliases[key]; ok {
		return c.plans[c.byKey[string(id)]], nil
	}
	return types.TariffPlan{}, errors.NotFound("tariff plan", selection)
}

// Plans returns a copy of the plans in catalog order
func (c *Catalog) Plans() []types.TariffPlan {
	out := make([]types.TariffPlan, len(c.plans))
	copy(out, c.plans)
	return out
}

// Len returns the number of plans
func (c *Catalog) Len() int {
	return len(c.plans)
}

func normalize(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}
