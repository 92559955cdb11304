// Package cmd - calculate command
package cmd

import (
	"github.com/spf13/cobra"

	"phone-bill/core/engine"
	"phone-bill/core/output"
	"phone-bill/internal/app"
	"phone-bill/internal/config"
)

var (
	outputFormat string
	minutesFlag  string
	planFlag     string
)

// calculateCmd represents the calculate command
var calculateCmd = &cobra.Command{
	Use:   "calculate [minutes]",
	Short: "Calculate the amount due for a month of usage",
	Long: `Calculate the amount due for the given minutes under a tariff plan.

Plans are selected by ID, label or preset alias (a/1, b/2).

Examples:
  phone-bill calculate --minutes 150 --plan tariff-2
  phone-bill calculate 250 --plan 1
  phone-bill calculate --minutes 90 --plan b --format json`,
	Args: cobra.MaximumNArgs(1),
	RunE: runCalculate,
}

func init() {
	addUsageFlags(calculateCmd)
	calculateCmd.Flags().StringVarP(&outputFormat, "format", "f", "cli", "output format (cli, json)")
}

// addUsageFlags registers the flags shared by calculate and receipt
func addUsageFlags(c *cobra.Command) {
	c.Flags().StringVarP(&minutesFlag, "minutes", "m", "", "minutes used this month")
	c.Flags().StringVarP(&planFlag, "plan", "p", "", "tariff plan (id, label, a/1 or b/2)")
}

func runCalculate(cmd *cobra.Command, args []string) error {
	formatter, err := output.Get(outputFormat)
	if err != nil {
		return err
	}

	cfg := config.Get()
	e, err := app.NewEngine(cfg, nil)
	if err != nil {
		return err
	}

	result, err := e.Calculate(cmd.Context(), usageRequest(args))
	if err != nil {
		return err
	}

	return formatter.RenderCalculation(cmd.OutOrStdout(), output.NewCalculationOutput(result, e.Currency()))
}

// usageRequest takes minutes from the positional argument when --minutes is unset
func usageRequest(args []string) engine.CalculateRequest {
	minutes := minutesFlag
	if minutes == "" && len(args) > 0 {
		minutes = args[0]
	}
	return engine.CalculateRequest{Minutes: minutes, Plan: planFlag}
}

