// Package types - Tariff plan types
package types

import (
	"github.com/shopspring/decimal"

	"phone-bill/internal/errors"
)

// TariffPlan is the billing policy applied to a month of calls.
// Minutes up to IncludedMinutes are billed at NormalRate, the rest at
// ExtraRate.
type TariffPlan struct {
	// ID is the catalog identifier (e.g., "tariff-1")
	ID PlanID `json:"id"`

	// Label is the human-readable name printed on receipts
	Label string `json:"label"`

	// IncludedMinutes is the usage threshold billed at NormalRate
	IncludedMinutes int64 `json:"included_minutes"`

	// NormalRate is the cost per minute within the allotment
	NormalRate decimal.Decimal `json:"normal_rate"`

	// ExtraRate is the cost per minute beyond the allotment
	ExtraRate decimal.Decimal `json:"extra_rate"`
}

// NewTariffPlan builds a plan from float rates. Rates go through
// decimal.NewFromFloat, which keeps the shortest decimal form (0.7 stays 0.7).
func NewTariffPlan(id PlanID, label string, includedMinutes int64, normalRate, extraRate float64) TariffPlan {
	return TariffPlan{
		ID:              id,
		Label:           label,
		IncludedMinutes: includedMinutes,
		NormalRate:      decimal.NewFromFloat(normalRate),
		ExtraRate:       decimal.NewFromFloat(extraRate),
	}
}

// DisplayName returns the label, or the ID when no label is set
func (p TariffPlan) DisplayName() string {
	if p.Label != "" {
		return p.Label
	}
	return string(p.ID)
}

// Validate checks that every numeric field is non-negative
func (p TariffPlan) Validate() error {
	if p.IncludedMinutes < 0 {
		return errors.Newf(errors.TypeInput, "plan %s: included minutes must not be negative, got %d", p.ID, p.IncludedMinutes)
	}
	if p.NormalRate.IsNegative() {
		return errors.Newf(errors.TypeInput, "plan %s: normal rate must not be negative, got %s", p.ID, p.NormalRate)
	}
	if p.ExtraRate.IsNegative() {
		return errors.Newf(errors.TypeInput, "plan %s: extra rate must not be negative, got %s", p.ID, p.ExtraRate)
	}
	return nil
}
