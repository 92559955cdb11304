// Package tariff bills minutes of usage against tariff plans.
package tariff

import (
	"github.com/shopspring/decimal"

	"phone-bill/core/types"
)

// Calculate bills minutesUsed against plan.
//
// Negative usage yields a zero result. Usage within the allotment is billed
// at the normal rate; usage beyond it costs the full allotment at the normal
// rate plus each extra minute at the extra rate. The amount is floored at
// zero. All money math is decimal, so no input in the int64 range overflows.
func Calculate(minutesUsed int64, plan types.TariffPlan) types.CalculationResult {
	result := types.CalculationResult{
		MinutesUsed: minutesUsed,
		Plan:        plan,
		AmountDue:   decimal.Zero,
	}
	if minutesUsed < 0 {
		return result
	}

	// Plans built without Validate may carry a negative allotment
	included := max(plan.IncludedMinutes, 0)

	var amount decimal.Decimal
	if minutesUsed <= included {
		amount = decimal.NewFromInt(minutesUsed).Mul(plan.NormalRate)
	} else {
		result.OverageMinutes = minutesUsed - included
		amount = decimal.NewFromInt(included).Mul(plan.NormalRate).
			Add(decimal.NewFromInt(result.OverageMinutes).Mul(plan.ExtraRate))
	}

	if amount.IsNegative() {
		amount = decimal.Zero
	}
	result.AmountDue = amount
	return result
}
