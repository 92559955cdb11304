package api

import (
	"bytes"
	"encoding/json"

	"phone-bill/core/types"
)

// Minutes is a minutes value sent either as a JSON string or a JSON number.
// It keeps the raw text so the API shares validation with the CLI.
type Minutes string

// UnmarshalJSON accepts "150", 150 and null
func (m *Minutes) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("null")) {
		*m = ""
		return nil
	}
	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*m = Minutes(s)
		return nil
	}
	*m = Minutes(data)
	return nil
}

// CalculateRequest is the body of POST /calculate
type CalculateRequest struct {
	Minutes Minutes `json:"minutes"`
	Plan    string  `json:"plan"`
}

// ReceiptRequest is the body of POST /receipt
type ReceiptRequest struct {
	Minutes Minutes `json:"minutes"`
	Plan    string  `json:"plan"`
	Name    string  `json:"name"`
	Address string  `json:"address"`

	// Format overrides the server's receipt format
	Format string `json:"format,omitempty"`
}

// CalculateResponse is the result of POST /calculate
type CalculateResponse struct {
	MinutesUsed    int64          `json:"minutes_used"`
	Plan           PlanResponse   `json:"plan"`
	AmountDue      string         `json:"amount_due"`
	OverageMinutes int64          `json:"overage_minutes"`
	Currency       types.Currency `json:"currency"`
}

// PlanResponse describes one tariff plan
type PlanResponse struct {
	ID              types.PlanID `json:"id"`
	Label           string       `json:"label"`
	IncludedMinutes int64        `json:"included_minutes"`
	NormalRate      string       `json:"normal_rate"`
	ExtraRate       string       `json:"extra_rate"`
}

// PlansResponse is the result of GET /plans
type PlansResponse struct {
	Plans    []PlanResponse `json:"plans"`
	Currency types.Currency `json:"currency"`
}

// ErrorResponse is the error envelope
type ErrorResponse struct {
	Error ErrorBody `json:"error"`
}

// ErrorBody carries a machine code and a human message
type ErrorBody struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

func toPlanResponse(p types.TariffPlan) PlanResponse {
	return PlanResponse{
		ID:              p.ID,
		Label:           p.DisplayName(),
		IncludedMinutes: p.IncludedMinutes,
		NormalRate:      p.NormalRate.String(),
		ExtraRate:       p.ExtraRate.String(),
	}
}

func toCalculateResponse(r types.CalculationResult, currency types.Currency) CalculateResponse {
	return CalculateResponse{
		MinutesUsed:    r.MinutesUsed,
		Plan:           toPlanResponse(r.Plan),
		AmountDue:      r.AmountDue.StringFixed(2),
		OverageMinutes: r.OverageMinutes,
		Currency:       currency,
	}
}
