// Package output provides output formatting interfaces.
// This package produces human and machine-readable calculation output.
package output

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"phone-bill/core/types"
	"phone-bill/internal/errors"
)

// Format represents output format type
type Format string

const (
	// FormatCLI is human-readable text
	FormatCLI Format = "cli"

	// FormatJSON is machine-readable JSON
	FormatJSON Format = "json"
)

// Formatter produces output in a specific format
type Formatter interface {
	// Format returns the format type
	Format() Format

	// RenderCalculation writes one calculation result
	RenderCalculation(w io.Writer, result *CalculationOutput) error

	// RenderPlans writes the plan catalog
	RenderPlans(w io.Writer, plans []types.TariffPlan, currency types.Currency) error
}

// CalculationOutput is a calculation as presented to the user
type CalculationOutput struct {
	MinutesUsed    int64          `json:"minutes_used"`
	PlanID         types.PlanID   `json:"plan_id"`
	PlanLabel      string         `json:"plan_label"`
	AmountDue      string         `json:"amount_due"`
	OverageMinutes int64          `json:"overage_minutes"`
	Currency       types.Currency `json:"currency"`

	// ReceiptPath is set when a receipt was written
	ReceiptPath string `json:"receipt_path,omitempty"`

	// ReceiptNumber is set when a receipt was written
	ReceiptNumber int64 `json:"receipt_number,omitempty"`
}

// NewCalculationOutput converts a calculation result for display
func NewCalculationOutput(r types.CalculationResult, currency types.Currency) *CalculationOutput {
	return &CalculationOutput{
		MinutesUsed:    r.MinutesUsed,
		PlanID:         r.Plan.ID,
		PlanLabel:      r.Plan.DisplayName(),
		AmountDue:      r.AmountDue.StringFixed(2),
		OverageMinutes: r.OverageMinutes,
		Currency:       currency,
	}
}

// Get returns the formatter for a format name
func Get(format string) (Formatter, error) {
	switch Format(strings.ToLower(strings.TrimSpace(format))) {
	case FormatCLI, "":
		return CLIFormatter{}, nil
	case FormatJSON:
		return JSONFormatter{Indent: "  "}, nil
	}
	return nil, errors.NotSupported("output format", format)
}

// CLIFormatter prints aligned key/value text
type CLIFormatter struct{}

func (CLIFormatter) Format() Format { return FormatCLI }

func (CLIFormatter) RenderCalculation(w io.Writer, r *CalculationOutput) error {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintf(tw, "Plan:\t%s\n", r.PlanLabel)
	fmt.Fprintf(tw, "Minutes used:\t%d\n", r.MinutesUsed)
	fmt.Fprintf(tw, "Overage minutes:\t%d\n", r.OverageMinutes)
	fmt.Fprintf(tw, "Amount due:\t%s %s\n", r.AmountDue, r.Currency)
	if r.ReceiptPath != "" {
		fmt.Fprintf(tw, "Receipt №%d:\t%s\n", r.ReceiptNumber, r.ReceiptPath)
	}
	return tw.Flush()
}

func (CLIFormatter) RenderPlans(w io.Writer, plans []types.TariffPlan, currency types.Currency) error {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tNAME\tINCLUDED\tRATE\tEXTRA RATE")
	for _, p := range plans {
		fmt.Fprintf(tw, "%s\t%s\t%d\t%s %s\t%s %s\n",
			p.ID, p.DisplayName(), p.IncludedMinutes,
			p.NormalRate.StringFixed(2), currency,
			p.ExtraRate.StringFixed(2), currency)
	}
	return tw.Flush()
}

// JSONFormatter prints JSON documents
type JSONFormatter struct {
	Indent string
}

func (JSONFormatter) Format() Format { return FormatJSON }

func (f JSONFormatter) RenderCalculation(w io.Writer, r *CalculationOutput) error {
	return f.encode(w, r)
}

func (f JSONFormatter) RenderPlans(w io.Writer, plans []types.TariffPlan, currency types.Currency) error {
	type planJSON struct {
		ID              types.PlanID `json:"id"`
		Label           string       `json:"label"`
		IncludedMinutes int64        `json:"included_minutes"`
		NormalRate      string       `json:"normal_rate"`
		ExtraRate       string       `json:"extra_rate"`
	}

	out := struct {
		Plans    []planJSON     `json:"plans"`
		Currency types.Currency `json:"currency"`
	}{Plans: make([]planJSON, 0, len(plans)), Currency: currency}

	for _, p := range plans {
		out.Plans = append(out.Plans, planJSON{
			ID:              p.ID,
			Label:           p.DisplayName(),
			IncludedMinutes: p.IncludedMinutes,
			NormalRate:      p.NormalRate.String(),
			ExtraRate:       p.ExtraRate.String(),
		})
	}
	return f.encode(w, out)
}

func (f JSONFormatter) encode(w io.Writer, v interface{}) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", f.Indent)
	enc.SetEscapeHTML(false)
	return enc.Encode(v)
}
