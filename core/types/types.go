// Package types defines core domain types shared across all layers.
// This package contains NO business logic - only type definitions and
// their validation.
package types

// Currency represents a currency code
type Currency string

const (
	CurrencyRUB Currency = "RUB"
	CurrencyUSD Currency = "USD"
	CurrencyEUR Currency = "EUR"
)

// String returns the string representation
func (c Currency) String() string {
	return string(c)
}

// Valid reports whether c is a supported currency
func (c Currency) Valid() bool {
	switch c {
	case CurrencyRUB, CurrencyUSD, CurrencyEUR:
		return true
	}
	return false
}

// PlanID identifies a tariff plan within a catalog
type PlanID string

// String returns the string representation
func (id PlanID) String() string {
	return string(id)
}
