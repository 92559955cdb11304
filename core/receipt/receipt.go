// Package receipt turns a calculation result into a receipt document.
//
// The calculation is passed in explicitly; the package never holds on to a
// "last result". Document formats live behind the Renderer interface.
package receipt

import (
	"math/rand/v2"
	"time"

	"github.com/shopspring/decimal"

	"phone-bill/core/input"
	"phone-bill/core/types"
)

// MaxNumber bounds receipt numbers to [1, MaxNumber)
const MaxNumber int64 = 1_000_000_000

// Receipt records a completed calculation for a named payer
type Receipt struct {
	// Number is the receipt identifier embedded in the file name
	Number int64 `json:"number"`

	// Payer is who the receipt is issued to
	Payer input.PayerDetails `json:"payer"`

	// PlanLabel is the plan name printed on the receipt
	PlanLabel string `json:"plan_label"`

	// Amount is the amount due
	Amount decimal.Decimal `json:"amount"`

	// Currency is the amount currency
	Currency types.Currency `json:"currency"`

	// IssuedAt is the payment date
	IssuedAt time.Time `json:"issued_at"`

	// Calculation is the result this receipt records
	Calculation types.CalculationResult `json:"calculation"`
}

// NumberSource yields receipt numbers
type NumberSource interface {
	Next() int64
}

// RandomNumbers draws receipt numbers uniformly from [1, MaxNumber)
type RandomNumbers struct {
	rng *rand.Rand
}

// NewRandomNumbers returns a randomly seeded source
func NewRandomNumbers() *RandomNumbers {
	return &RandomNumbers{rng: rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64()))}
}

// NewSeededNumbers returns a deterministic source, for tests and replays
func NewSeededNumbers(seed uint64) *RandomNumbers {
	return &RandomNumbers{rng: rand.New(rand.NewPCG(seed, seed))}
}

// Next implements NumberSource
func (r *RandomNumbers) Next() int64 {
	return r.rng.Int64N(MaxNumber-1) + 1
}

// IssueOptions controls receipt metadata
type IssueOptions struct {
	Currency types.Currency
	Now      func() time.Time
	Numbers  NumberSource
}

// Issue validates the payer and builds a receipt for calc
func Issue(calc types.CalculationResult, payer input.PayerDetails, opts IssueOptions) (Receipt, error) {
	if err := payer.Validate(); err != nil {
		return Receipt{}, err
	}

	now := opts.Now
	if now == nil {
		now = time.Now
	}
	numbers := opts.Numbers
	if numbers == nil {
		numbers = NewRandomNumbers()
	}
	currency := opts.Currency
	if currency == "" {
		currency = types.CurrencyRUB
	}

	return Receipt{
		Number:      numbers.Next(),
		Payer:       payer.Normalized(),
		PlanLabel:   calc.Plan.DisplayName(),
		Amount:      calc.AmountDue,
		Currency:    currency,
		IssuedAt:    now(),
		Calculation: calc,
	}, nil
}
