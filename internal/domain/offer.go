package domain

import "time"

// OfferStatus tracks an offer through the hiring pipeline
type OfferStatus string

const (
	OfferDraft     OfferStatus = "draft"
	OfferExtended  OfferStatus = "extended"
	OfferAccepted  OfferStatus = "accepted"
	OfferDeclined  OfferStatus = "declined"
	OfferWithdrawn OfferStatus = "withdrawn"
)

// OfferStatuses lists the valid statuses in pipeline order
var OfferStatuses = []OfferStatus{OfferDraft, OfferExtended, OfferAccepted, OfferDeclined, OfferWithdrawn}

// Valid reports whether s is a known status
func (s OfferStatus) Valid() bool {
	for _, v := range OfferStatuses {
		if s == v {
			return true
		}
	}
	return false
}

// Offer is a candidate offer record held by the document store
type Offer struct {
	ID           string            `json:"id"`
	Candidate    string            `json:"candidate"`
	Role         string            `json:"role"`
	Department   string            `json:"department,omitempty"`
	Status       OfferStatus       `json:"status"`
	FiscalYear   string            `json:"fiscal_year"`
	Compensation CompensationInput `json:"compensation"`
	CreatedAt    time.Time         `json:"created_at"`
	UpdatedAt    time.Time         `json:"updated_at"`
}
