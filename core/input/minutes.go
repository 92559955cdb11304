// Package input validates user-entered text before it reaches the calculator.
// Rejected input never mutates state; callers surface the error and stop.
package input

import (
	"strconv"
	"strings"

	"phone-bill/core/tariff"
	"phone-bill/core/types"
	"phone-bill/internal/errors"
)

// DefaultMaxMinutes bounds accepted usage to realistic values
const DefaultMaxMinutes int64 = 1_000_000

// Sentinel input errors. Returned errors wrap these, so errors.Is works.
var (
	ErrMinutesRequired      = errors.Input("enter the number of minutes")
	ErrMinutesNotInteger    = errors.Input("the number of minutes must be an integer")
	ErrMinutesTooLarge      = errors.Input("the number of minutes is too large")
	ErrPlanRequired         = errors.Input("select a tariff plan")
	ErrUnknownPlan          = errors.Input("unknown tariff plan")
	ErrPayerNameRequired    = errors.Input("enter the payer's full name")
	ErrPayerAddressRequired = errors.Input("enter the payer's address")
)

// ParseMinutes parses a minutes value. Negative integers are accepted; the
// calculator clamps them. A limit <= 0 means DefaultMaxMinutes.
func ParseMinutes(text string, limit int64) (int64, error) {
	if limit <= 0 {
		limit = DefaultMaxMinutes
	}

	text = strings.TrimSpace(text)
	if text == "" {
		return 0, ErrMinutesRequired
	}

	minutes, err := strconv.ParseInt(text, 10, 64)
	if err != nil {
		// Out-of-range integers are still integers, just too large
		if numErr, ok := err.(*strconv.NumError); ok && numErr.Err == strconv.ErrRange && !strings.HasPrefix(text, "-") {
			return 0, tooLarge(limit)
		}
		return 0, errors.Wrapf(errors.TypeInput, ErrMinutesNotInteger, "%q is not an integer", text).
			WithContext("value", text)
	}

	if minutes > limit {
		return 0, tooLarge(limit)
	}
	return minutes, nil
}

func tooLarge(limit int64) error {
	return errors.Wrapf(errors.TypeInput, ErrMinutesTooLarge, "too many minutes (max %s)", groupThousands(limit)).
		WithContext("max", limit)
}

// ParsePlanSelection resolves a plan selection against catalog
func ParsePlanSelection(text string, catalog *tariff.Catalog) (types.TariffPlan, error) {
	if strings.TrimSpace(text) == "" {
		return types.TariffPlan{}, ErrPlanRequired
	}

	plan, err := catalog.Lookup(text)
	if err != nil {
		if errors.IsType(err, errors.TypeNotFound) {
			return types.TariffPlan{}, errors.Wrapf(errors.TypeNotFound, ErrUnknownPlan, "unknown tariff plan %q", strings.TrimSpace(text))
		}
		return types.TariffPlan{}, err
	}
	return plan, nil
}

// groupThousands renders 1000000 as "1,000,000"
func groupThousands(n int64) string {
	s := strconv.FormatInt(n, 10)
	neg := strings.HasPrefix(s, "-")
	if neg {
		s = s[1:]
	}

	var b strings.Builder
	for i, r := range s {
		if i > 0 && (len(s)-i)%3 == 0 {
			b.WriteByte(',')
		}
		b.WriteRune(r)
	}

	if neg {
		return "-" + b.String()
	}
	return b.String()
}
