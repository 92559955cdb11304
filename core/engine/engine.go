// Package engine composes validation, calculation and receipt generation.
// CLI and HTTP are thin wrappers around this engine.
package engine

import (
	"context"
	"io"
	"time"

	"go.uber.org/zap"

	"phone-bill/core/input"
	"phone-bill/core/receipt"
	"phone-bill/core/tariff"
	"phone-bill/core/types"
	"phone-bill/internal/logging"
)

// Engine runs the two-step flow: Calculate, then a receipt step that is
// handed the calculation result explicitly. It keeps no per-call state.
type Engine struct {
	catalog   *tariff.Catalog
	renderers RendererResolver
	recorder  Recorder
	config    Config
}

// Config configures the engine
type Config struct {
	// MaxMinutes bounds accepted usage
	MaxMinutes int64

	// Currency is stamped on receipts
	Currency types.Currency

	// Format overrides the receipt format inferred from the template
	Format string

	// Receipt locates templates and output
	Receipt receipt.GeneratorConfig

	// Now returns the receipt date; nil means time.Now
	Now func() time.Time

	// Numbers yields receipt numbers; nil means random
	Numbers receipt.NumberSource
}

// RendererResolver picks the renderer for a format or template
type RendererResolver interface {
	Resolve(format, templatePath string) (receipt.Renderer, error)
}

// Recorder observes engine outcomes
type Recorder interface {
	ObserveCalculation(result types.CalculationResult)
	ObserveRejection(err error)
	ObserveReceipt(format string, err error)
}

// CalculateRequest is raw user input for a calculation
type CalculateRequest struct {
	Minutes string
	Plan    string
}

// ReceiptRequest asks for a receipt recording calc
type ReceiptRequest struct {
	Calculation types.CalculationResult
	Payer       input.PayerDetails

	// Format overrides the configured format when set
	Format string
}

// GeneratedReceipt is a receipt written to disk
type GeneratedReceipt struct {
	Receipt receipt.Receipt
	Path    string
}

// New creates an engine. A nil recorder disables metrics.
func New(catalog *tariff.Catalog, renderers RendererResolver, recorder Recorder, cfg Config) *Engine {
	if recorder == nil {
		recorder = nopRecorder{}
	}
	if cfg.MaxMinutes <= 0 {
		cfg.MaxMinutes = input.DefaultMaxMinutes
	}
	if cfg.Currency == "" {
		cfg.Currency = types.CurrencyRUB
	}
	return &Engine{
		catalog:   catalog,
		renderers: renderers,
		recorder:  recorder,
		config:    cfg,
	}
}

// Catalog returns the plans the engine bills against
func (e *Engine) Catalog() *tariff.Catalog {
	return e.catalog
}

// Currency returns the configured currency
func (e *Engine) Currency() types.Currency {
	return e.config.Currency
}

// Calculate validates raw input and bills it
func (e *Engine) Calculate(ctx context.Context, req CalculateRequest) (types.CalculationResult, error) {
	minutes, err := input.ParseMinutes(req.Minutes, e.config.MaxMinutes)
	if err != nil {
		e.recorder.ObserveRejection(err)
		return types.CalculationResult{}, err
	}

	plan, err := input.ParsePlanSelection(req.Plan, e.catalog)
	if err != nil {
		e.recorder.ObserveRejection(err)
		return types.CalculationResult{}, err
	}

	return e.CalculatePlan(ctx, minutes, plan), nil
}

// CalculatePlan bills already-validated usage
func (e *Engine) CalculatePlan(ctx context.Context, minutes int64, plan types.TariffPlan) types.CalculationResult {
	result := tariff.Calculate(minutes, plan)
	e.recorder.ObserveCalculation(result)

	logging.Debug("calculated bill",
		zap.Int64("minutes", minutes),
		zap.String("plan", string(plan.ID)),
		zap.String("amount_due", result.AmountDue.StringFixed(2)),
		zap.Int64("overage_minutes", result.OverageMinutes),
	)
	return result
}

// IssueReceipt builds the receipt for req without rendering it
func (e *Engine) IssueReceipt(req ReceiptRequest) (receipt.Receipt, error) {
	r, err := receipt.Issue(req.Calculation, req.Payer, receipt.IssueOptions{
		Currency: e.config.Currency,
		Now:      e.config.Now,
		Numbers:  e.config.Numbers,
	})
	if err != nil {
		e.recorder.ObserveRejection(err)
	}
	return r, err
}

// GenerateReceipt issues a receipt and writes it to the output directory
func (e *Engine) GenerateReceipt(ctx context.Context, req ReceiptRequest) (*GeneratedReceipt, error) {
	r, err := e.IssueReceipt(req)
	if err != nil {
		return nil, err
	}

	gen, format, err := e.generator(req.Format)
	if err != nil {
		return nil, err
	}

	path, err := gen.Generate(ctx, r)
	e.recorder.ObserveReceipt(format, err)
	if err != nil {
		return nil, err
	}
	return &GeneratedReceipt{Receipt: r, Path: path}, nil
}

// RenderReceipt issues a receipt and streams the document to w.
// It returns the receipt, the suggested file name and the format.
func (e *Engine) RenderReceipt(ctx context.Context, req ReceiptRequest, w io.Writer) (receipt.Receipt, string, receipt.Format, error) {
	r, err := e.IssueReceipt(req)
	if err != nil {
		return receipt.Receipt{}, "", "", err
	}

	gen, format, err := e.generator(req.Format)
	if err != nil {
		return receipt.Receipt{}, "", "", err
	}

	err = gen.Render(ctx, r, w)
	e.recorder.ObserveReceipt(format, err)
	if err != nil {
		return receipt.Receipt{}, "", "", err
	}
	return r, gen.FileName(r), receipt.Format(format), nil
}

func (e *Engine) generator(format string) (*receipt.Generator, string, error) {
	if format == "" {
		format = e.config.Format
	}
	renderer, err := e.renderers.Resolve(format, e.config.Receipt.TemplatePath)
	if err != nil {
		return nil, "", err
	}
	gen, err := receipt.NewGenerator(e.config.Receipt, renderer)
	if err != nil {
		return nil, "", err
	}
	return gen, string(renderer.Format()), nil
}

type nopRecorder struct{}

func (nopRecorder) ObserveCalculation(types.CalculationResult) {}
func (nopRecorder) ObserveRejection(error)                     {}
func (nopRecorder) ObserveReceipt(string, error)               {}
