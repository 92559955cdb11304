package input

import (
	"testing"

	"phone-bill/core/tariff"
	"phone-bill/internal/errors"
)

func TestParseMinutes(t *testing.T) {
	tests := []struct {
		name    string
		text    string
		max     int64
		want    int64
		wantErr error
	}{
		{name: "plain", text: "150", want: 150},
		{name: "padded", text: "  42\t", want: 42},
		{name: "zero", text: "0", want: 0},
		{name: "negative passes to the calculator", text: "-50", want: -50},
		{name: "at the limit", text: "1000000", want: 1000000},
		{name: "empty", text: "", wantErr: ErrMinutesRequired},
		{name: "blank", text: "   ", wantErr: ErrMinutesRequired},
		{name: "decimal", text: "12.5", wantErr: ErrMinutesNotInteger},
		{name: "letters", text: "abc", wantErr: ErrMinutesNotInteger},
		{name: "over the limit", text: "1000001", wantErr: ErrMinutesTooLarge},
		{name: "beyond int64", text: "99999999999999999999", wantErr: ErrMinutesTooLarge},
		{name: "far below int64", text: "-99999999999999999999", wantErr: ErrMinutesNotInteger},
		{name: "custom limit", text: "501", max: 500, wantErr: ErrMinutesTooLarge},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseMinutes(tt.text, tt.max)
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Fatalf("Expected %v, got %v", tt.wantErr, err)
				}
				if !errors.IsType(err, errors.TypeInput) {
					t.Errorf("Expected input error type, got %v", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("Unexpected error: %v", err)
			}
			if got != tt.want {
				t.Errorf("Expected %d, got %d", tt.want, got)
			}
		})
	}
}

func TestParseMinutesTooLargeMessage(t *testing.T) {
	_, err := ParseMinutes("2000000", 0)
	if got := errors.Message(err); got != "too many minutes (max 1,000,000)" {
		t.Errorf("Unexpected message %q", got)
	}
}

func TestParsePlanSelection(t *testing.T) {
	catalog := tariff.DefaultCatalog()

	plan, err := ParsePlanSelection("tariff-2", catalog)
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if plan.ID != tariff.PlanBID {
		t.Errorf("Expected tariff-2, got %s", plan.ID)
	}

	if _, err := ParsePlanSelection(" ", catalog); !errors.Is(err, ErrPlanRequired) {
		t.Errorf("Expected ErrPlanRequired, got %v", err)
	}

	_, err = ParsePlanSelection("gold", catalog)
	if !errors.Is(err, ErrUnknownPlan) {
		t.Errorf("Expected ErrUnknownPlan, got %v", err)
	}
	if !errors.IsType(err, errors.TypeNotFound) {
		t.Errorf("Expected not found type, got %v", err)
	}
}

func TestGroupThousands(t *testing.T) {
	cases := map[int64]string{
		0:        "0",
		999:      "999",
		1000:     "1,000",
		1000000:  "1,000,000",
		-1234567: "-1,234,567",
	}
	for n, want := range cases {
		if got := groupThousands(n); got != want {
			t.Errorf("groupThousands(%d) = %s, want %s", n, got, want)
		}
	}
}

func TestPayerDetailsValidate(t *testing.T) {
	tests := []struct {
		name    string
		payer   PayerDetails
		wantErr error
	}{
		{"complete", PayerDetails{Name: "Иванов Иван", Address: "Москва"}, nil},
		{"missing name", PayerDetails{Name: " ", Address: "Москва"}, ErrPayerNameRequired},
		{"missing address", PayerDetails{Name: "Иванов Иван"}, ErrPayerAddressRequired},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.payer.Validate()
			if tt.wantErr == nil && err != nil {
				t.Fatalf("Unexpected error: %v", err)
			}
			if tt.wantErr != nil && !errors.Is(err, tt.wantErr) {
				t.Fatalf("Expected %v, got %v", tt.wantErr, err)
			}
		})
	}

	n := PayerDetails{Name: "  Петров ", Address: "\tКазань "}.Normalized()
	if n.Name != "Петров" || n.Address != "Казань" {
		t.Errorf("Unexpected normalized details: %+v", n)
	}
}
