package api

import (
	"bytes"
	"encoding/json"
	"sort"
	"time"

	"github.com/talentdesk/ctc-calculator/internal/calculation"
	"github.com/talentdesk/ctc-calculator/internal/config"
	"github.com/talentdesk/ctc-calculator/internal/domain"
)

// ErrorResponse is the standard error response.
type ErrorResponse struct {
	Error   string `json:"error"`
	Code    string `json:"code,omitempty"`
	Field   string `json:"field,omitempty"`
	Details any    `json:"details,omitempty"`
}

// CompensationRequest carries the eight amounts keyed by field name. Each value
// may be a JSON number or a decimal string; absent fields are zero.
type CompensationRequest map[string]json.RawMessage

// Input converts the request to an engine input. Unknown fields, explicit nulls
// and non-numeric values are rejected with calculation.ErrInvalidInput.
func (r CompensationRequest) Input() (domain.CompensationInput, error) {
	var in domain.CompensationInput

	fields := make([]string, 0, len(r))
	for field := range r {
		fields = append(fields, field)
	}
	sort.Strings(fields)

	for _, field := range fields {
		if !domain.IsCompensationField(field) {
			return domain.CompensationInput{}, calculation.NewInputError(field, "unknown compensation field")
		}
		raw := bytes.TrimSpace(r[field])
		if len(raw) == 0 || bytes.Equal(raw, []byte("null")) {
			return domain.CompensationInput{}, calculation.NewInputError(field, "value is missing")
		}
		text := string(raw)
		if raw[0] == '"' {
			if err := json.Unmarshal(raw, &text); err != nil {
				return domain.CompensationInput{}, calculation.NewInputError(field, "expected a number")
			}
		}
		amount, err := config.ParseAmount(field, text)
		if err != nil {
			return domain.CompensationInput{}, err
		}
		in.SetAmount(field, amount)
	}
	return in, nil
}

// CalculationResponse is returned by the calculate endpoint
type CalculationResponse struct {
	Input     domain.CompensationInput  `json:"input"`
	Result    domain.CompensationResult `json:"result"`
	Breakdown *domain.TaxBreakdown      `json:"breakdown,omitempty"`
}

// RegimeResponse describes the constants the engine applies
type RegimeResponse struct {
	Name        string   `json:"name"`
	Currency    string   `json:"currency"`
	FiscalYear  string   `json:"fiscal_year"`
	Assumptions []string `json:"assumptions"`
}

// OfferRequest creates or replaces an offer
type OfferRequest struct {
	Candidate    string              `json:"candidate"`
	Role         string              `json:"role"`
	Department   string              `json:"department"`
	Status       domain.OfferStatus  `json:"status"`
	FiscalYear   string              `json:"fiscal_year"`
	Compensation CompensationRequest `json:"compensation"`
}

// Offer converts the request into a domain offer without server-assigned fields.
func (r OfferRequest) Offer() (domain.Offer, error) {
	in, err := r.Compensation.Input()
	if err != nil {
		return domain.Offer{}, err
	}
	return domain.Offer{
		Candidate:    r.Candidate,
		Role:         r.Role,
		Department:   r.Department,
		Status:       r.Status,
		FiscalYear:   r.FiscalYear,
		Compensation: in,
	}, nil
}

// OfferResponse is a stored offer with its result recomputed at read time
type OfferResponse struct {
	ID           string                    `json:"id"`
	Candidate    string                    `json:"candidate"`
	Role         string                    `json:"role"`
	Department   string                    `json:"department,omitempty"`
	Status       domain.OfferStatus        `json:"status"`
	FiscalYear   string                    `json:"fiscal_year"`
	Compensation domain.CompensationInput  `json:"compensation"`
	Result       domain.CompensationResult `json:"result"`
	CreatedAt    time.Time                 `json:"created_at"`
	UpdatedAt    time.Time                 `json:"updated_at"`
}

func toOfferResponse(o domain.Offer, res domain.CompensationResult) OfferResponse {
	return OfferResponse{
		ID:           o.ID,
		Candidate:    o.Candidate,
		Role:         o.Role,
		Department:   o.Department,
		Status:       o.Status,
		FiscalYear:   o.FiscalYear,
		Compensation: o.Compensation,
		Result:       res,
		CreatedAt:    o.CreatedAt,
		UpdatedAt:    o.UpdatedAt,
	}
}

// OfferEvent is the data of an SSE message on the events stream
type OfferEvent struct {
	Type  string        `json:"type"`
	Offer OfferResponse `json:"offer"`
}
