package receipt

import (
	"strconv"

	"phone-bill/internal/errors"
)

// FieldName is the stable, format-independent name of a receipt field
type FieldName string

const (
	FieldPayerName    FieldName = "payer_name"
	FieldPlan         FieldName = "plan"
	FieldPayerAddress FieldName = "payer_address"
	FieldAmount       FieldName = "amount"
	FieldDate         FieldName = "date"
	FieldNumber       FieldName = "number"
	FieldMinutes      FieldName = "minutes"
	FieldOverage      FieldName = "overage_minutes"
)

// Placeholders maps receipt fields to the marker text found in templates.
// An empty marker leaves that field out of the substitution.
type Placeholders struct {
	PayerName    string `json:"payer_name"`
	Plan         string `json:"plan"`
	PayerAddress string `json:"payer_address"`
	Amount       string `json:"amount"`
	Date         string `json:"date"`
	Number       string `json:"number,omitempty"`
	Minutes      string `json:"minutes,omitempty"`
	Overage      string `json:"overage_minutes,omitempty"`
}

// DefaultPlaceholders returns the markers used by the stock receipt template
func DefaultPlaceholders() Placeholders {
	return Placeholders{
		PayerName:    "{ФИО плательщика}",
		Plan:         "{Тариф}",
		PayerAddress: "{Адрес плательщика}",
		Amount:       "{Сумма платежа}",
		Date:         "{Дата платежа}",
		Number:       "{Номер квитанции}",
		Minutes:      "{Минуты}",
		Overage:      "{Минут сверх нормы}",
	}
}

// Validate requires the five core markers and forbids duplicates
func (p Placeholders) Validate() error {
	required := map[FieldName]string{
		FieldPayerName:    p.PayerName,
		FieldPlan:         p.Plan,
		FieldPayerAddress: p.PayerAddress,
		FieldAmount:       p.Amount,
		FieldDate:         p.Date,
	}
	for name, marker := range required {
		if marker == "" {
			return errors.Newf(errors.TypeConfig, "placeholder for %s is empty", name)
		}
	}

	seen := make(map[string]FieldName)
	for _, pair := range p.pairs() {
		if pair.marker == "" {
			continue
		}
		if other, dup := seen[pair.marker]; dup {
			return errors.Newf(errors.TypeConfig, "placeholder %q is used by both %s and %s", pair.marker, other, pair.name)
		}
		seen[pair.marker] = pair.name
	}
	return nil
}

type placeholderPair struct {
	name   FieldName
	marker string
}

func (p Placeholders) pairs() []placeholderPair {
	return []placeholderPair{
		{FieldPayerName, p.PayerName},
		{FieldPlan, p.Plan},
		{FieldPayerAddress, p.PayerAddress},
		{FieldAmount, p.Amount},
		{FieldDate, p.Date},
		{FieldNumber, p.Number},
		{FieldMinutes, p.Minutes},
		{FieldOverage, p.Overage},
	}
}

// Field is one substitution: the template marker and the text replacing it
type Field struct {
	Name        FieldName
	Placeholder string
	Value       string
}

// Fields is an ordered substitution set
type Fields []Field

// Replacements returns marker -> value for template-based renderers
func (f Fields) Replacements() map[string]string {
	out := make(map[string]string, len(f))
	for _, field := range f {
		if field.Placeholder != "" {
			out[field.Placeholder] = field.Value
		}
	}
	return out
}

// Value returns the value of the named field, or ""
func (f Fields) Value(name FieldName) string {
	for _, field := range f {
		if field.Name == name {
			return field.Value
		}
	}
	return ""
}

// BuildFields computes the substitution set for r
func BuildFields(r Receipt, p Placeholders, decimalSeparator string) Fields {
	values := map[FieldName]string{
		FieldPayerName:    r.Payer.Name,
		FieldPlan:         r.PlanLabel,
		FieldPayerAddress: r.Payer.Address,
		FieldAmount:       FormatAmount(r.Amount, decimalSeparator),
		FieldDate:         FormatDate(r.IssuedAt),
		FieldNumber:       strconv.FormatInt(r.Number, 10),
		FieldMinutes:      strconv.FormatInt(r.Calculation.MinutesUsed, 10),
		FieldOverage:      strconv.FormatInt(r.Calculation.OverageMinutes, 10),
	}

	pairs := p.pairs()
	fields := make(Fields, 0, len(pairs))
	for _, pair := range pairs {
		fields = append(fields, Field{
			Name:        pair.name,
			Placeholder: pair.marker,
			Value:       values[pair.name],
		})
	}
	return fields
}
