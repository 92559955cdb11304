// Package cmd - plans command
package cmd

import (
	"github.com/spf13/cobra"

	"phone-bill/core/output"
	"phone-bill/internal/app"
	"phone-bill/internal/config"
)

var plansFormat string

// plansCmd lists the tariff catalog
var plansCmd = &cobra.Command{
	Use:   "plans",
	Short: "List the available tariff plans",
	RunE: func(cmd *cobra.Command, args []string) error {
		formatter, err := output.Get(plansFormat)
		if err != nil {
			return err
		}

		cfg := config.Get()
		catalog, err := app.LoadCatalog(cfg.Billing.PlansFile)
		if err != nil {
			return err
		}
		return formatter.RenderPlans(cmd.OutOrStdout(), catalog.Plans(), cfg.Billing.Currency)
	},
}

func init() {
	plansCmd.Flags().StringVarP(&plansFormat, "format", "f", "cli", "output format (cli, json)")
}
