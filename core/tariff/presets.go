package tariff

import "phone-bill/core/types"

// Preset plan identifiers
const (
	PlanAID types.PlanID = "tariff-1"
	PlanBID types.PlanID = "tariff-2"
)

var (
	// PlanA bills 200 minutes at 0.7 and every extra minute at 1.6
	PlanA = types.NewTariffPlan(PlanAID, "Тариф 1", 200, 0.7, 1.6)

	// PlanB bills 100 minutes at 0.3 and every extra minute at 1.6
	PlanB = types.NewTariffPlan(PlanBID, "Тариф 2", 100, 0.3, 1.6)
)

// presetAliases are the short selections accepted for the presets
var presetAliases = map[string]types.PlanID{
	"a": PlanAID,
	"1": PlanAID,
	"b": PlanBID,
	"2": PlanBID,
}

// Presets returns the built-in plans in display order
func Presets() []types.TariffPlan {
	return []types.TariffPlan{PlanA, PlanB}
}
