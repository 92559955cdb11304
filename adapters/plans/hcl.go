// Package plans loads tariff plan definitions from HCL files.
package plans

import (
	"fmt"
	"os"

	"github.com/hashicorp/hcl/v2"
	"github.com/hashicorp/hcl/v2/gohcl"
	"github.com/hashicorp/hcl/v2/hclparse"
	"github.com/shopspring/decimal"

	"phone-bill/core/tariff"
	"phone-bill/core/types"
	"phone-bill/internal/errors"
)

// planFile is the top-level schema of a plans file
type planFile struct {
	Plans []planBlock `hcl:"plan,block"`
}

// planBlock is one `plan "<id>" { ... }` block. Rates decode as text so
// number literals keep every digit; quoted rates are accepted too.
type planBlock struct {
	ID              string `hcl:"id,label"`
	Label           string `hcl:"label,optional"`
	IncludedMinutes int64  `hcl:"included_minutes"`
	NormalRate      string `hcl:"normal_rate"`
	ExtraRate       string `hcl:"extra_rate"`
}

// Loader parses plan files
type Loader struct {
	parser *hclparse.Parser
}

// NewLoader creates a new plan loader
func NewLoader() *Loader {
	return &Loader{parser: hclparse.NewParser()}
}

// LoadFile reads and parses a plans file into a catalog
func (l *Loader) LoadFile(path string) (*tariff.Catalog, error) {
	src, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.NotFound("plans file", path)
		}
		return nil, errors.Wrapf(errors.TypeConfig, err, "failed to read plans file %s", path)
	}
	return l.Parse(src, path)
}

// Parse parses plan definitions from src. filename is used in diagnostics.
func (l *Loader) Parse(src []byte, filename string) (*tariff.Catalog, error) {
	file, diags := l.parser.ParseHCL(src, filename)
	if diags.HasErrors() {
		return nil, diagnosticsError(diags)
	}

	var pf planFile
	if diags := gohcl.DecodeBody(file.Body, nil, &pf); diags.HasErrors() {
		return nil, diagnosticsError(diags)
	}
	if len(pf.Plans) == 0 {
		return nil, errors.Newf(errors.TypeParsing, "%s: no plan blocks defined", filename)
	}

	plans := make([]types.TariffPlan, 0, len(pf.Plans))
	for _, b := range pf.Plans {
		plan, err := b.plan()
		if err != nil {
			return nil, errors.Wrapf(errors.TypeParsing, err, "%s: plan %q", filename, b.ID)
		}
		if err := plan.Validate(); err != nil {
			return nil, errors.Wrapf(errors.TypeParsing, err, "%s: plan %q", filename, b.ID)
		}
		plans = append(plans, plan)
	}

	catalog, err := tariff.NewCatalog(plans)
	if err != nil {
		return nil, errors.Wrapf(errors.TypeParsing, err, "%s", filename)
	}
	return catalog, nil
}

func (b planBlock) plan() (types.TariffPlan, error) {
	normal, err := decimal.NewFromString(b.NormalRate)
	if err != nil {
		return types.TariffPlan{}, errors.Newf(errors.TypeParsing, "normal_rate %q is not a number", b.NormalRate)
	}
	extra, err := decimal.NewFromString(b.ExtraRate)
	if err != nil {
		return types.TariffPlan{}, errors.Newf(errors.TypeParsing, "extra_rate %q is not a number", b.ExtraRate)
	}

	return types.TariffPlan{
		ID:              types.PlanID(b.ID),
		Label:           b.Label,
		IncludedMinutes: b.IncludedMinutes,
		NormalRate:      normal,
		ExtraRate:       extra,
	}, nil
}

// diagnosticsError converts the first error diagnostic into a parsing error
func diagnosticsError(diags hcl.Diagnostics) error {
	for _, diag := range diags {
		if diag.Severity != hcl.DiagError {
			continue
		}
		location := ""
		if diag.Subject != nil {
			location = fmt.Sprintf("%s:%d: ", diag.Subject.Filename, diag.Subject.Start.Line)
		}
		return errors.Newf(errors.TypeParsing, "%s%s: %s", location, diag.Summary, diag.Detail).
			WithContext("diagnostics", len(diags))
	}
	return errors.Parsing("invalid plans file", diags)
}
