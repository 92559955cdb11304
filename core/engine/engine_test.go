package engine

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"phone-bill/adapters/document"
	"phone-bill/core/input"
	"phone-bill/core/receipt"
	"phone-bill/core/tariff"
	"phone-bill/core/types"
	"phone-bill/internal/errors"
)

type fixedNumbers int64

func (n fixedNumbers) Next() int64 { return int64(n) }

// countingRecorder tallies engine observations
type countingRecorder struct {
	calculations int
	rejections   int
	receipts     map[string]int
}

func (r *countingRecorder) ObserveCalculation(types.CalculationResult) { r.calculations++ }
func (r *countingRecorder) ObserveRejection(error)                     { r.rejections++ }
func (r *countingRecorder) ObserveReceipt(format string, err error) {
	if r.receipts == nil {
		r.receipts = map[string]int{}
	}
	if err == nil {
		r.receipts[format]++
	}
}

func newTestEngine(t *testing.T, templateBody string) (*Engine, *countingRecorder, string) {
	t.Helper()
	dir := t.TempDir()
	tmpl := filepath.Join(dir, "receipt.txt")
	if err := os.WriteFile(tmpl, []byte(templateBody), 0644); err != nil {
		t.Fatalf("write template: %v", err)
	}
	outDir := filepath.Join(dir, "out")

	rec := &countingRecorder{}
	e := New(tariff.DefaultCatalog(), document.NewRegistry(document.Options{}), rec, Config{
		Receipt: receipt.GeneratorConfig{
			TemplatePath: tmpl,
			OutputDir:    outDir,
			Placeholders: receipt.DefaultPlaceholders(),
		},
		Now:     func() time.Time { return time.Date(2026, time.January, 31, 0, 0, 0, 0, time.UTC) },
		Numbers: fixedNumbers(42),
	})
	return e, rec, outDir
}

func TestCalculate(t *testing.T) {
	e, rec, _ := newTestEngine(t, "")

	result, err := e.Calculate(context.Background(), CalculateRequest{Minutes: "150", Plan: "tariff-2"})
	if err != nil {
		t.Fatalf("Calculate failed: %v", err)
	}
	if !result.AmountDue.Equal(decimal.NewFromInt(110)) || result.OverageMinutes != 50 {
		t.Errorf("Expected (110, 50), got (%s, %d)", result.AmountDue, result.OverageMinutes)
	}
	if rec.calculations != 1 {
		t.Errorf("Expected one recorded calculation, got %d", rec.calculations)
	}
}

func TestCalculateRejectsInput(t *testing.T) {
	e, rec, _ := newTestEngine(t, "")

	tests := []struct {
		name string
		req  CalculateRequest
		want error
	}{
		{"empty minutes", CalculateRequest{Minutes: "", Plan: "a"}, input.ErrMinutesRequired},
		{"not a number", CalculateRequest{Minutes: "ten", Plan: "a"}, input.ErrMinutesNotInteger},
		{"too many", CalculateRequest{Minutes: "1000001", Plan: "a"}, input.ErrMinutesTooLarge},
		{"unknown plan", CalculateRequest{Minutes: "10", Plan: "gold"}, input.ErrUnknownPlan},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := e.Calculate(context.Background(), tt.req); !errors.Is(err, tt.want) {
				t.Errorf("Expected %v, got %v", tt.want, err)
			}
		})
	}

	if rec.rejections != len(tests) || rec.calculations != 0 {
		t.Errorf("Expected %d rejections and no calculations, got %d/%d", len(tests), rec.rejections, rec.calculations)
	}
}

func TestGenerateReceiptFromExplicitResult(t *testing.T) {
	e, rec, outDir := newTestEngine(t, "{ФИО плательщика};{Тариф};{Адрес плательщика};{Сумма платежа};{Дата платежа}")

	calc, err := e.Calculate(context.Background(), CalculateRequest{Minutes: "200", Plan: "1"})
	if err != nil {
		t.Fatalf("Calculate failed: %v", err)
	}

	out, err := e.GenerateReceipt(context.Background(), ReceiptRequest{
		Calculation: calc,
		Payer:       input.PayerDetails{Name: "Сидоров П.", Address: "Тверь"},
	})
	if err != nil {
		t.Fatalf("GenerateReceipt failed: %v", err)
	}

	if filepath.Dir(out.Path) != outDir {
		t.Errorf("Expected receipt in %s, got %s", outDir, out.Path)
	}
	if filepath.Base(out.Path) != "Чек_42_31.01.2026.txt" {
		t.Errorf("Unexpected file name %s", filepath.Base(out.Path))
	}

	data, err := os.ReadFile(out.Path)
	if err != nil {
		t.Fatalf("read receipt: %v", err)
	}
	if string(data) != "Сидоров П.;Тариф 1;Тверь;140,00;31.01.2026" {
		t.Errorf("Unexpected receipt %q", data)
	}
	if rec.receipts["txt"] != 1 {
		t.Errorf("Expected one recorded txt receipt, got %v", rec.receipts)
	}
}

func TestGenerateReceiptRequiresPayer(t *testing.T) {
	e, _, outDir := newTestEngine(t, "{Тариф}")
	calc := tariff.Calculate(10, tariff.PlanA)

	_, err := e.GenerateReceipt(context.Background(), ReceiptRequest{Calculation: calc, Payer: input.PayerDetails{Address: "x"}})
	if !errors.Is(err, input.ErrPayerNameRequired) {
		t.Fatalf("Expected ErrPayerNameRequired, got %v", err)
	}
	if _, statErr := os.Stat(outDir); !os.IsNotExist(statErr) {
		t.Error("Rejected receipt must not touch the output directory")
	}
}

func TestRenderReceiptPDFOverride(t *testing.T) {
	e, rec, _ := newTestEngine(t, "{Тариф}")
	calc := tariff.Calculate(150, tariff.PlanB)

	var buf bytes.Buffer
	r, name, format, err := e.RenderReceipt(context.Background(), ReceiptRequest{
		Calculation: calc,
		Payer:       input.PayerDetails{Name: "Ivanov", Address: "Moscow"},
		Format:      "pdf",
	}, &buf)
	if err != nil {
		t.Fatalf("RenderReceipt failed: %v", err)
	}
	if format != receipt.FormatPDF || name != "Чек_42_31.01.2026.pdf" {
		t.Errorf("Unexpected format/name: %s %s", format, name)
	}
	if r.Number != 42 || !bytes.HasPrefix(buf.Bytes(), []byte("%PDF-")) {
		t.Errorf("Unexpected receipt output (number %d)", r.Number)
	}
	if rec.receipts["pdf"] != 1 {
		t.Errorf("Expected one recorded pdf receipt, got %v", rec.receipts)
	}
}

func TestNewAppliesDefaults(t *testing.T) {
	e := New(tariff.DefaultCatalog(), document.NewRegistry(document.Options{}), nil, Config{})
	if e.Currency() != types.CurrencyRUB {
		t.Errorf("Expected RUB, got %s", e.Currency())
	}
	if _, err := e.Calculate(context.Background(), CalculateRequest{Minutes: "1000000", Plan: "b"}); err != nil {
		t.Errorf("Expected default limit to accept 1,000,000: %v", err)
	}
	if e.Catalog().Len() != 2 {
		t.Errorf("Expected preset catalog")
	}
}
