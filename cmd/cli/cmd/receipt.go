// Package cmd - receipt command
package cmd

import (
	"github.com/spf13/cobra"

	"phone-bill/core/engine"
	"phone-bill/core/input"
	"phone-bill/core/output"
	"phone-bill/internal/app"
	"phone-bill/internal/config"
)

var (
	payerName      string
	payerAddress   string
	templatePath   string
	outputDir      string
	receiptFormat  string
	receiptDisplay string
)

// receiptCmd represents the receipt command
var receiptCmd = &cobra.Command{
	Use:   "receipt [minutes]",
	Short: "Calculate a bill and issue a payment receipt",
	Long: `Calculate the amount due and fill the receipt template with the payer's
details, the plan, the amount and today's date. Each run writes a new file
named Чек_<number>_<date>.<ext> to the output directory.

The document format follows the template extension unless --format is set.
PDF receipts are laid out without a template.

Examples:
  phone-bill receipt --minutes 250 --plan tariff-1 --name "Ivanov I.I." --address "Moscow"
  phone-bill receipt -m 150 -p 2 --name "Petrov" --address "Tver" --format pdf --out ./receipts`,
	Args: cobra.MaximumNArgs(1),
	RunE: runReceipt,
}

func init() {
	addUsageFlags(receiptCmd)
	receiptCmd.Flags().StringVar(&payerName, "name", "", "payer's full name")
	receiptCmd.Flags().StringVar(&payerAddress, "address", "", "payer's address")
	receiptCmd.Flags().StringVarP(&templatePath, "template", "t", "", "receipt template (default from config)")
	receiptCmd.Flags().StringVarP(&outputDir, "out", "o", "", "output directory (default from config)")
	receiptCmd.Flags().StringVarP(&receiptFormat, "format", "f", "", "receipt format (docx, pdf, html, txt)")
	receiptCmd.Flags().StringVar(&receiptDisplay, "output", "cli", "summary output format (cli, json)")
}

func runReceipt(cmd *cobra.Command, args []string) error {
	formatter, err := output.Get(receiptDisplay)
	if err != nil {
		return err
	}

	cfg := config.Get()
	if templatePath != "" {
		cfg.Receipt.TemplatePath = templatePath
	}
	if outputDir != "" {
		cfg.Receipt.OutputDir = outputDir
	}

	e, err := app.NewEngine(cfg, nil)
	if err != nil {
		return err
	}

	ctx := cmd.Context()
	calc, err := e.Calculate(ctx, usageRequest(args))
	if err != nil {
		return err
	}

	generated, err := e.GenerateReceipt(ctx, engine.ReceiptRequest{
		Calculation: calc,
		Payer:       input.PayerDetails{Name: payerName, Address: payerAddress},
		Format:      receiptFormat,
	})
	if err != nil {
		return err
	}

	out := output.NewCalculationOutput(calc, e.Currency())
	out.ReceiptPath = generated.Path
	out.ReceiptNumber = generated.Receipt.Number
	return formatter.RenderCalculation(cmd.OutOrStdout(), out)
}
