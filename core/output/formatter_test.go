package output

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"phone-bill/core/tariff"
	"phone-bill/core/types"
	"phone-bill/internal/errors"
)

func TestGet(t *testing.T) {
	tests := []struct {
		name string
		want Format
	}{
		{"", FormatCLI},
		{"cli", FormatCLI},
		{"JSON", FormatJSON},
	}
	for _, tt := range tests {
		f, err := Get(tt.name)
		if err != nil {
			t.Fatalf("Get(%q) failed: %v", tt.name, err)
		}
		if f.Format() != tt.want {
			t.Errorf("Get(%q) = %s, want %s", tt.name, f.Format(), tt.want)
		}
	}

	if _, err := Get("yaml"); !errors.IsType(err, errors.TypeNotSupported) {
		t.Errorf("Expected not supported error, got %v", err)
	}
}

func TestCLIFormatterCalculation(t *testing.T) {
	out := NewCalculationOutput(tariff.Calculate(150, tariff.PlanB), types.CurrencyRUB)

	var buf bytes.Buffer
	if err := (CLIFormatter{}).RenderCalculation(&buf, out); err != nil {
		t.Fatalf("render: %v", err)
	}

	got := buf.String()
	for _, want := range []string{"Тариф 2", "110.00 RUB", "Overage minutes:", "50"} {
		if !strings.Contains(got, want) {
			t.Errorf("Expected %q in output:\n%s", want, got)
		}
	}
	if strings.Contains(got, "Receipt") {
		t.Errorf("Receipt line should be omitted without a receipt:\n%s", got)
	}
}

func TestJSONFormatterCalculation(t *testing.T) {
	out := NewCalculationOutput(tariff.Calculate(250, tariff.PlanA), types.CurrencyRUB)
	out.ReceiptPath = "/tmp/Чек_1.docx"
	out.ReceiptNumber = 1

	var buf bytes.Buffer
	if err := (JSONFormatter{}).RenderCalculation(&buf, out); err != nil {
		t.Fatalf("render: %v", err)
	}

	var decoded CalculationOutput
	if err := json.Unmarshal(buf.Bytes(), &decoded); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if decoded.AmountDue != "220.00" || decoded.OverageMinutes != 50 || decoded.PlanID != tariff.PlanAID {
		t.Errorf("Unexpected output %+v", decoded)
	}
	if decoded.ReceiptPath != "/tmp/Чек_1.docx" {
		t.Errorf("Expected receipt path to survive, got %q", decoded.ReceiptPath)
	}
}

func TestRenderPlans(t *testing.T) {
	plans := tariff.DefaultCatalog().Plans()

	var text bytes.Buffer
	if err := (CLIFormatter{}).RenderPlans(&text, plans, types.CurrencyRUB); err != nil {
		t.Fatalf("render: %v", err)
	}
	if !strings.Contains(text.String(), "tariff-1") || !strings.Contains(text.String(), "0.70 RUB") {
		t.Errorf("Unexpected plan table:\n%s", text.String())
	}

	var js bytes.Buffer
	if err := (JSONFormatter{}).RenderPlans(&js, plans, types.CurrencyRUB); err != nil {
		t.Fatalf("render: %v", err)
	}
	var decoded struct {
		Plans []struct {
			ID string `json:"id"`
		} `json:"plans"`
	}
	if err := json.Unmarshal(js.Bytes(), &decoded); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(decoded.Plans) != 2 || decoded.Plans[1].ID != "tariff-2" {
		t.Errorf("Unexpected plans %+v", decoded.Plans)
	}
}
