// Package types - Calculation result types
package types

import "github.com/shopspring/decimal"

// CalculationResult is the outcome of billing one usage value against one plan.
// It is passed explicitly to the receipt step; nothing retains it.
type CalculationResult struct {
	// MinutesUsed is the usage value as given by the caller
	MinutesUsed int64 `json:"minutes_used"`

	// Plan is the plan the usage was billed against
	Plan TariffPlan `json:"plan"`

	// AmountDue is the total cost, never negative
	AmountDue decimal.Decimal `json:"amount_due"`

	// OverageMinutes is the usage beyond IncludedMinutes, never negative
	OverageMinutes int64 `json:"overage_minutes"`
}
